package dto

import "encoding/json"

// ── 学业规划模块 DTO ──

// PreferencesRequest 偏好归一化请求；text 可以是字符串或对象
type PreferencesRequest struct {
	Text json.RawMessage `json:"text"`
}

// PreferencesResponse 归一化后的学生信息（字段值原样透传）
type PreferencesResponse struct {
	Major            interface{} `json:"major"`
	Minor            interface{} `json:"minor"`
	CoursesTaken     interface{} `json:"courses_taken"`
	TargetGraduation interface{} `json:"target_graduation"`
	Preferences      interface{} `json:"preferences"`
}

// DegreePlanRequest 培养方案查询参数
type DegreePlanRequest struct {
	Major string `form:"major"`
}

// PlanTerm 培养方案中的一个学期
type PlanTerm struct {
	Year    int      `json:"year"`
	Term    string   `json:"term"`
	Courses []string `json:"courses"`
}

// DegreePlanResponse 四年培养方案
type DegreePlanResponse struct {
	Major               string     `json:"major"`
	Plan                []PlanTerm `json:"degree_plan"`
	EstimatedGraduation string     `json:"estimated_graduation"`
}

// PrerequisiteRequest 先修课查询参数
type PrerequisiteRequest struct {
	Code string `form:"code" binding:"required"`
}

// PrerequisiteResponse 先修课列表
type PrerequisiteResponse struct {
	Code          string   `json:"code"`
	Prerequisites []string `json:"prerequisites"`
}

// PrerequisiteIssue 计划课程缺少的先修课
type PrerequisiteIssue struct {
	CourseID string   `json:"course_id"`
	Code     string   `json:"code"`
	Title    string   `json:"title"`
	Missing  []string `json:"missing"`
}

// PrerequisiteCheckResponse 先修课检查结果
type PrerequisiteCheckResponse struct {
	Satisfied bool                `json:"satisfied"`
	Issues    []PrerequisiteIssue `json:"issues"`
}
