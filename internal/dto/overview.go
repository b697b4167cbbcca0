package dto

import "github.com/noah-isme/studybloom-api/internal/models"

// OverviewActivity is an activity row enriched with subject display data.
type OverviewActivity struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	Date         *models.Date          `json:"date,omitempty"`
	Type         models.ActivityType   `json:"type"`
	TypeLabel    string                `json:"type_label"`
	Status       models.ActivityStatus `json:"status"`
	SubjectID    string                `json:"subject_id"`
	SubjectName  string                `json:"subject_name"`
	SubjectColor string                `json:"subject_color"`
}

// OverviewResponse carries the dashboard buckets.
type OverviewResponse struct {
	Today             models.Date        `json:"today"`
	Upcoming          []OverviewActivity `json:"upcoming"`
	Overdue           []OverviewActivity `json:"overdue"`
	CompletedRecently []OverviewActivity `json:"completed_recently"`
}
