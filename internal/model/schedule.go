package model

import "time"

// ScheduleEntry 周课表中的一条排课
type ScheduleEntry struct {
	Code  string `json:"code"`
	Title string `json:"title"`
	Time  string `json:"time"` // Morning | Afternoon | Evening
}

// WeeklySchedule 周课表 — 持久化为 "schedule" 集合（仅保留最近一次）
type WeeklySchedule struct {
	Note          string                     `json:"note"`
	Week          map[string][]ScheduleEntry `json:"week"`
	PDFIDs        []string                   `json:"pdfIds,omitempty"`
	ChatSessionID string                     `json:"chatSessionId,omitempty"`
	GeneratedAt   *time.Time                 `json:"generatedAt,omitempty"`
}

// NewWeeklySchedule 创建五个工作日均存在的空课表
func NewWeeklySchedule(note string) *WeeklySchedule {
	week := make(map[string][]ScheduleEntry, len(Weekdays))
	for _, d := range Weekdays {
		week[d] = []ScheduleEntry{}
	}
	return &WeeklySchedule{Note: note, Week: week}
}

// Len 课表中的排课总数
func (w *WeeklySchedule) Len() int {
	n := 0
	for _, entries := range w.Week {
		n += len(entries)
	}
	return n
}

// Buckets 按 星期 → 时段 分桶的视图，时段固定 Morning/Afternoon/Evening
func (w *WeeklySchedule) Buckets() map[string]map[string][]ScheduleEntry {
	out := make(map[string]map[string][]ScheduleEntry, len(Weekdays))
	for _, d := range Weekdays {
		slots := make(map[string][]ScheduleEntry, len(TimesOfDay))
		for _, t := range TimesOfDay {
			slots[t] = []ScheduleEntry{}
		}
		for _, e := range w.Week[d] {
			slots[e.Time] = append(slots[e.Time], e)
		}
		out[d] = slots
	}
	return out
}
