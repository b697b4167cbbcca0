package dto

import "github.com/noah-isme/studybloom-api/internal/models"

// BoardCard is one activity card on the kanban board.
type BoardCard struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Date        *models.Date          `json:"date,omitempty"`
	Type        models.ActivityType   `json:"type"`
	TypeLabel   string                `json:"type_label"`
	Status      models.ActivityStatus `json:"status"`
	StatusLabel string                `json:"status_label"`
}

// BoardColumn is one subject column holding its cards in insertion order.
type BoardColumn struct {
	SubjectID    string      `json:"subject_id"`
	SubjectName  string      `json:"subject_name"`
	SubjectColor string      `json:"subject_color"`
	Count        int         `json:"count"`
	Cards        []BoardCard `json:"cards"`
}

// BoardResponse carries all columns in subject collection order.
type BoardResponse struct {
	Columns []BoardColumn `json:"columns"`
}

// MoveRequest describes a completed drag gesture. An empty target column
// means the card was dropped outside every column.
type MoveRequest struct {
	ActivityID      string `json:"activity_id" validate:"required"`
	SourceSubjectID string `json:"source_subject_id"`
	TargetSubjectID string `json:"target_subject_id"`
	TargetIndex     int    `json:"target_index"`
}

// MoveResult reports whether the gesture produced a mutation.
type MoveResult struct {
	Moved  bool   `json:"moved"`
	Reason string `json:"reason,omitempty"`
}
