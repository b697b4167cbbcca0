package store

import (
	"time"

	"github.com/noah-isme/studybloom-api/internal/models"
)

func datePtr(d models.Date) *models.Date { return &d }

// Seed returns the starter dataset used when no persisted state exists. The
// activity due-dates are anchored to the given time so the dashboard and
// calendar have something to show on first launch.
func Seed(now time.Time) models.AppState {
	today := models.DateOf(now)

	return models.AppState{
		Subjects: []models.Subject{
			{
				ID:             "1",
				Name:           "Mathematics",
				Color:          "#E8A0BF",
				Professor:      "Prof. Silva",
				ProfessorEmail: "silva@uni.edu",
				Grades: []models.Grade{
					{ID: "g1", Value: 8.5, Description: "Exam 1"},
				},
				Absences: []models.Absence{},
				Notes:    []models.Note{},
			},
			{
				ID:             "2",
				Name:           "Programming",
				Color:          "#7EB5E6",
				Professor:      "Prof. Santos",
				ProfessorEmail: "santos@uni.edu",
				Grades:         []models.Grade{},
				Absences:       []models.Absence{},
				Notes:          []models.Note{},
			},
			{
				ID:             "3",
				Name:           "Physics",
				Color:          "#A8D5BA",
				Professor:      "Prof. Oliveira",
				ProfessorEmail: "oliveira@uni.edu",
				Grades:         []models.Grade{},
				Absences:       []models.Absence{},
				Notes:          []models.Note{},
			},
		},
		Activities: []models.Activity{
			{
				ID:        "a1",
				Title:     "Calculus exam",
				Date:      datePtr(today.AddDays(2)),
				Type:      models.ActivityExam,
				Status:    models.StatusTodo,
				SubjectID: "1",
			},
			{
				ID:        "a2",
				Title:     "React assignment",
				Date:      datePtr(today.AddDays(5)),
				Type:      models.ActivityAssignment,
				Status:    models.StatusInProgress,
				SubjectID: "2",
			},
			{
				ID:        "a3",
				Title:     "Exercise list",
				Date:      datePtr(today.AddDays(-2)),
				Type:      models.ActivityList,
				Status:    models.StatusDone,
				SubjectID: "1",
			},
			{
				ID:        "a4",
				Title:     "Lab report",
				Date:      datePtr(today.AddDays(-1)),
				Type:      models.ActivityAssignment,
				Status:    models.StatusTodo,
				SubjectID: "3",
			},
		},
	}
}
