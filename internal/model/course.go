package model

// 课程状态
const (
	StatusPlanned   = "planned"
	StatusCompleted = "completed"
)

// 时段偏好
const (
	TimeAny       = "Any"
	TimeMorning   = "Morning"
	TimeAfternoon = "Afternoon"
	TimeEvening   = "Evening"
)

// 上课方式偏好
const (
	ModalityAny      = "Any"
	ModalityInPerson = "In-person"
	ModalityOnline   = "Online"
	ModalityHybrid   = "Hybrid"
)

// Weekdays 排课日（固定周一至周五，顺序即轮转顺序）
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri"}

// TimesOfDay 可分配的时段（不含 Any）
var TimesOfDay = []string{TimeMorning, TimeAfternoon, TimeEvening}

// Prefs 课程排课偏好
type Prefs struct {
	Days      []string `json:"days"                validate:"unique,dive,oneof=Mon Tue Wed Thu Fri"`
	TimeOfDay string   `json:"timeOfDay,omitempty" validate:"omitempty,oneof=Any Morning Afternoon Evening"`
	Modality  string   `json:"modality,omitempty"  validate:"omitempty,oneof=Any In-person Online Hybrid"`
}

// Course 学生的一门课程记录（已修或计划修读）
type Course struct {
	ID      string `json:"id"`
	Code    string `json:"code"             validate:"required"`
	Title   string `json:"title"            validate:"required"`
	Credits int    `json:"credits"          validate:"gt=0"`
	Term    string `json:"term"             validate:"required"`
	Status  string `json:"status,omitempty" validate:"omitempty,oneof=planned completed"`
	Grade   string `json:"grade,omitempty"  validate:"required_if=Status completed"`
	Prefs   Prefs  `json:"prefs"`
}

// IsPlanned 状态缺省视为 planned
func (c *Course) IsPlanned() bool {
	return c.Status == "" || c.Status == StatusPlanned
}

// CoursePatch 课程浅合并补丁：nil 字段保持原值，Prefs 整体替换
type CoursePatch struct {
	Code    *string `json:"code"`
	Title   *string `json:"title"`
	Credits *int    `json:"credits"`
	Term    *string `json:"term"`
	Status  *string `json:"status"`
	Grade   *string `json:"grade"`
	Prefs   *Prefs  `json:"prefs"`
}

// Apply 返回合并后的新记录，不修改入参
func (p *CoursePatch) Apply(c Course) Course {
	if p.Code != nil {
		c.Code = *p.Code
	}
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Credits != nil {
		c.Credits = *p.Credits
	}
	if p.Term != nil {
		c.Term = *p.Term
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Grade != nil {
		c.Grade = *p.Grade
	}
	if p.Prefs != nil {
		c.Prefs = *p.Prefs
	}
	return c
}
