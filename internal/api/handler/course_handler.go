package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/service"
	"course-planner/backend/pkg/response"
)

// CourseHandler 课程模块 HTTP 处理器
type CourseHandler struct {
	courseSvc service.CourseService
}

// NewCourseHandler 创建 CourseHandler
func NewCourseHandler(courseSvc service.CourseService) *CourseHandler {
	return &CourseHandler{courseSvc: courseSvc}
}

// ListCourses 获取课程列表
// GET /api/v1/courses?status=&term=&code=&day=
func (h *CourseHandler) ListCourses(c *gin.Context) {
	var req dto.CourseListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	courses, err := h.courseSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OKList(c, courses, len(courses))
}

// CreateCourse 创建课程
// POST /api/v1/courses
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.courseSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.Created(c, course)
}

// UpdateCourse 更新课程（部分字段）
// PUT /api/v1/courses/:id
func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	var req dto.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.courseSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, course)
}

// DeleteCourse 删除课程（幂等）
// DELETE /api/v1/courses/:id
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课程ID不能为空")
		return
	}

	if err := h.courseSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleCourseError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleCourseError 统一处理课程模块业务错误
func (h *CourseHandler) handleCourseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 12001, "课程不存在")
	case errors.Is(err, service.ErrValidationFailed):
		details := strings.TrimPrefix(err.Error(), service.ErrValidationFailed.Error()+": ")
		response.ErrorWithDetails(c, http.StatusBadRequest, 12002, "课程数据校验失败", details)
	default:
		handleCommonError(c, err)
	}
}
