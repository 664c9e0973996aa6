package dto

import "course-planner/backend/internal/model"

// ── 课表模块 DTO ──

// BuildScheduleRequest 生成课表请求
// Courses 缺省（null）时使用已保存的课程；显式传入 [] 时生成空课表
type BuildScheduleRequest struct {
	Courses       []model.Course `json:"courses"`
	PDFIDs        []string       `json:"pdfIds"`
	ChatSessionID string         `json:"chatSessionId"`
}

// ExportScheduleRequest 课表导出参数
type ExportScheduleRequest struct {
	Weeks int    `form:"weeks" binding:"omitempty,min=1,max=26"`
	Start string `form:"start" binding:"omitempty,datetime=2006-01-02"` // 学期第一周的任意一天
}
