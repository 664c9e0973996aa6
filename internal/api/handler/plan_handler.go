package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/service"
	"course-planner/backend/pkg/response"
)

// PlanHandler 学业规划与偏好归一化 HTTP 处理器
type PlanHandler struct {
	planSvc service.PlanService
	prefSvc service.PreferenceService
}

// NewPlanHandler 创建 PlanHandler
func NewPlanHandler(planSvc service.PlanService, prefSvc service.PreferenceService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc, prefSvc: prefSvc}
}

// NormalizePreferences 归一化学生输入
// POST /api/v1/nlp/preferences
func (h *PlanHandler) NormalizePreferences(c *gin.Context) {
	var req dto.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.prefSvc.Normalize(req.Text)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, resp)
}

// DegreePlan 获取四年培养方案
// GET /api/v1/plans/degree?major=
func (h *PlanHandler) DegreePlan(c *gin.Context) {
	var req dto.DegreePlanRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	resp, err := h.planSvc.DegreePlan(c.Request.Context(), req.Major)
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, resp)
}

// Prerequisites 查询课程先修要求
// GET /api/v1/plans/prerequisites?code=
func (h *PlanHandler) Prerequisites(c *gin.Context) {
	var req dto.PrerequisiteRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "code 不能为空")
		return
	}

	response.OK(c, h.planSvc.Prerequisites(req.Code))
}

// Check 检查计划课程的先修课
// GET /api/v1/plans/check
func (h *PlanHandler) Check(c *gin.Context) {
	resp, err := h.planSvc.Check(c.Request.Context())
	if err != nil {
		h.handlePlanError(c, err)
		return
	}

	response.OK(c, resp)
}

func (h *PlanHandler) handlePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMajorNotSupported):
		response.BadRequest(c, 16001, "暂不支持该专业的培养方案")
	case errors.Is(err, service.ErrPreferencesInvalidInput):
		response.BadRequest(c, 16002, "text 必须是字符串、对象或 null")
	default:
		handleCommonError(c, err)
	}
}
