package dto

import "course-planner/backend/internal/model"

// ── 课程模块 DTO ──
// 字段名与前端保持一致（camelCase），校验统一在 Service 层完成

// CreateCourseRequest 创建课程请求（ID 由服务端分配，请求中的 id 被忽略）
type CreateCourseRequest struct {
	Code    string      `json:"code"`
	Title   string      `json:"title"`
	Credits int         `json:"credits"`
	Term    string      `json:"term"`
	Status  string      `json:"status"`
	Grade   string      `json:"grade"`
	Prefs   model.Prefs `json:"prefs"`
}

// ToModel 转为未分配 ID 的课程记录
func (r *CreateCourseRequest) ToModel() model.Course {
	return model.Course{
		Code:    r.Code,
		Title:   r.Title,
		Credits: r.Credits,
		Term:    r.Term,
		Status:  r.Status,
		Grade:   r.Grade,
		Prefs:   r.Prefs,
	}
}

// UpdateCourseRequest 更新课程请求（部分字段，浅合并）
type UpdateCourseRequest struct {
	Code    *string      `json:"code"`
	Title   *string      `json:"title"`
	Credits *int         `json:"credits"`
	Term    *string      `json:"term"`
	Status  *string      `json:"status"`
	Grade   *string      `json:"grade"`
	Prefs   *model.Prefs `json:"prefs"`
}

// ToPatch 转为仓储层补丁
func (r *UpdateCourseRequest) ToPatch() *model.CoursePatch {
	return &model.CoursePatch{
		Code:    r.Code,
		Title:   r.Title,
		Credits: r.Credits,
		Term:    r.Term,
		Status:  r.Status,
		Grade:   r.Grade,
		Prefs:   r.Prefs,
	}
}

// CourseListRequest 课程列表查询参数（透传，不校验）
type CourseListRequest struct {
	Status string `form:"status"`
	Term   string `form:"term"`
	Code   string `form:"code"`
	Day    string `form:"day"`
}
