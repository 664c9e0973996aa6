package store

import (
	"github.com/google/uuid"

	"course-planner/backend/internal/model"
)

// DemoCourses 演示数据：3 门已修 + 3 门计划修读，每次调用生成新的 ID
func DemoCourses() []model.Course {
	return []model.Course{
		{
			ID: uuid.NewString(), Code: "COSC 1437", Title: "Programming in C++",
			Credits: 4, Term: "Spring 2025", Status: model.StatusCompleted, Grade: "A",
			Prefs: model.Prefs{Days: []string{"Mon", "Wed"}, TimeOfDay: model.TimeMorning},
		},
		{
			ID: uuid.NewString(), Code: "COSC 2436", Title: "Data Structures",
			Credits: 3, Term: "Spring 2025", Status: model.StatusCompleted, Grade: "B+",
			Prefs: model.Prefs{Days: []string{"Tue", "Thu"}, TimeOfDay: model.TimeAfternoon},
		},
		{
			ID: uuid.NewString(), Code: "MATH 2413", Title: "Calculus I",
			Credits: 4, Term: "Fall 2024", Status: model.StatusCompleted, Grade: "A-",
			Prefs: model.Prefs{Days: []string{"Mon", "Wed"}, TimeOfDay: model.TimeMorning},
		},
		{
			ID: uuid.NewString(), Code: "COSC 3340", Title: "Automata & Computability",
			Credits: 3, Term: "Fall 2025", Status: model.StatusPlanned,
			Prefs: model.Prefs{Days: []string{"Mon", "Wed"}, TimeOfDay: model.TimeAfternoon},
		},
		{
			ID: uuid.NewString(), Code: "COSC 3360", Title: "Database Systems",
			Credits: 3, Term: "Fall 2025", Status: model.StatusPlanned,
			Prefs: model.Prefs{Days: []string{"Tue", "Thu"}, TimeOfDay: model.TimeMorning},
		},
		{
			ID: uuid.NewString(), Code: "COSC 4351", Title: "Software Engineering",
			Credits: 3, Term: "Fall 2025", Status: model.StatusPlanned,
			Prefs: model.Prefs{Days: []string{"Fri"}, TimeOfDay: model.TimeMorning},
		},
	}
}
