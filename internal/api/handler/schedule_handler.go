package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"course-planner/backend/internal/dto"
	"course-planner/backend/internal/service"
	"course-planner/backend/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ScheduleHandler 课表模块 HTTP 处理器（含导出）
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
	exportSvc   service.ExportService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService, exportSvc service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc, exportSvc: exportSvc}
}

// Build 生成周课表
// POST /api/v1/schedule/build
// 请求体可为空，此时使用已保存的课程
func (h *ScheduleHandler) Build(c *gin.Context) {
	var req dto.BuildScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	schedule, err := h.scheduleSvc.Build(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, schedule)
}

// GetSchedule 获取最近一次生成的课表
// GET /api/v1/schedule
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	schedule, err := h.scheduleSvc.Last(c.Request.Context())
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, schedule)
}

// ExportXLSX 导出课表为 Excel
// GET /api/v1/schedule/export.xlsx
func (h *ScheduleHandler) ExportXLSX(c *gin.Context) {
	buf, filename, err := h.exportSvc.ExportXLSX(c.Request.Context())
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, contentTypeXLSX, buf.Bytes())
}

// ExportICS 导出课表为 iCalendar
// GET /api/v1/schedule/export.ics?start=2025-09-01&weeks=16
func (h *ScheduleHandler) ExportICS(c *gin.Context) {
	var req dto.ExportScheduleRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	data, filename, err := h.exportSvc.ExportICS(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	attachment(c, filename)
	c.Data(http.StatusOK, contentTypeICS, data)
}

// attachment 设置下载响应头
func attachment(c *gin.Context, filename string) {
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
}

func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotBuilt):
		response.NotFound(c, 15001, "尚未生成课表")
	case errors.Is(err, service.ErrExportInvalidStart):
		response.BadRequest(c, 15101, "起始日期格式错误，应为 YYYY-MM-DD")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		handleCommonError(c, err)
	}
}
