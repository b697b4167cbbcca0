package dto

import "github.com/noah-isme/studybloom-api/internal/models"

// CalendarActivity is the compact activity form shown inside a day cell.
type CalendarActivity struct {
	ID        string              `json:"id"`
	Title     string              `json:"title"`
	Type      models.ActivityType `json:"type"`
	SubjectID string              `json:"subject_id"`
}

// CalendarDay is one cell of the month grid. At most two activities are
// listed; the rest are summarised by MoreCount.
type CalendarDay struct {
	Day        int                `json:"day"`
	Date       models.Date        `json:"date"`
	IsToday    bool               `json:"is_today"`
	Holiday    *models.Holiday    `json:"holiday,omitempty"`
	Activities []CalendarActivity `json:"activities"`
	MoreCount  int                `json:"more_count"`
}

// CalendarMonthResponse describes a rendered month.
type CalendarMonthResponse struct {
	Year         int           `json:"year"`
	Month        int           `json:"month"`
	FirstWeekday int           `json:"first_weekday"`
	DaysInMonth  int           `json:"days_in_month"`
	Days         []CalendarDay `json:"days"`
}
