// Package planner 把课程列表排成周课表。纯函数，不做持久化。
package planner

import "course-planner/backend/internal/model"

// Note 生成课表时附带的说明
const Note = "Auto-built from course preferences; courses without a preference rotate across the week."

// rotation 轮转分配器，计数只在一次 Build 内有效
type rotation struct {
	values []string
	next   int
}

func (r *rotation) take() string {
	v := r.values[r.next%len(r.values)]
	r.next++
	return v
}

// Build 为所有 planned 课程分配星期与时段
//
// 规则：
//   - 星期：prefs.days 的第一项是工作日时直接使用，否则按 Mon..Fri 轮转（不向后查找）
//   - 时段：prefs.timeOfDay 为 Morning/Afternoon/Evening 时直接使用，否则按三个时段轮转
//   - 星期轮转与时段轮转各自计数，互不影响
//
// 不校验 code/title，缺失时生成空文本条目。
func Build(courses []model.Course) *model.WeeklySchedule {
	schedule := model.NewWeeklySchedule(Note)
	days := &rotation{values: model.Weekdays}
	times := &rotation{values: model.TimesOfDay}

	for i := range courses {
		c := &courses[i]
		if !c.IsPlanned() {
			continue
		}

		day, ok := preferredDay(c.Prefs.Days)
		if !ok {
			day = days.take()
		}
		slot, ok := preferredTime(c.Prefs.TimeOfDay)
		if !ok {
			slot = times.take()
		}

		schedule.Week[day] = append(schedule.Week[day], model.ScheduleEntry{
			Code:  c.Code,
			Title: c.Title,
			Time:  slot,
		})
	}
	return schedule
}

func preferredDay(days []string) (string, bool) {
	if len(days) == 0 {
		return "", false
	}
	for _, wd := range model.Weekdays {
		if days[0] == wd {
			return wd, true
		}
	}
	return "", false
}

func preferredTime(t string) (string, bool) {
	for _, v := range model.TimesOfDay {
		if t == v {
			return t, true
		}
	}
	return "", false
}
