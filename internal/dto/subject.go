package dto

import "github.com/noah-isme/studybloom-api/internal/models"

// SubjectResponse is a subject together with its derived statistics. The
// underlying average stays unrounded; AverageDisplay is rounded to one
// decimal place for presentation.
type SubjectResponse struct {
	models.Subject
	Average        float64 `json:"average"`
	AverageDisplay string  `json:"average_display"`
	AbsenceCount   int     `json:"absence_count"`
	ActivityCount  int     `json:"activity_count"`
}
