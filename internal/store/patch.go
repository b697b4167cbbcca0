package store

import "github.com/noah-isme/studybloom-api/internal/models"

// SubjectPatch is a partial-field update for a subject. Nil fields are left
// untouched; owned collections are never replaced through a patch.
type SubjectPatch struct {
	Name           *string
	Color          *string
	Professor      *string
	ProfessorEmail *string
}

func (p SubjectPatch) apply(subject *models.Subject) {
	if p.Name != nil {
		subject.Name = *p.Name
	}
	if p.Color != nil {
		subject.Color = *p.Color
	}
	if p.Professor != nil {
		subject.Professor = *p.Professor
	}
	if p.ProfessorEmail != nil {
		subject.ProfessorEmail = *p.ProfessorEmail
	}
}

// ActivityPatch is a partial-field update for an activity. ClearDate removes
// the date entirely; it wins over Date when both are set.
type ActivityPatch struct {
	Title     *string
	Date      *models.Date
	ClearDate bool
	Type      *models.ActivityType
	Status    *models.ActivityStatus
	SubjectID *string
}

func (p ActivityPatch) apply(activity *models.Activity) {
	if p.Title != nil {
		activity.Title = *p.Title
	}
	if p.ClearDate {
		activity.Date = nil
	} else if p.Date != nil {
		d := *p.Date
		activity.Date = &d
	}
	if p.Type != nil {
		activity.Type = *p.Type
	}
	if p.Status != nil {
		activity.Status = *p.Status
	}
	if p.SubjectID != nil {
		activity.SubjectID = *p.SubjectID
	}
}
