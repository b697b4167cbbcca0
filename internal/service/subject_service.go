package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/studybloom-api/internal/dto"
	"github.com/noah-isme/studybloom-api/internal/models"
	"github.com/noah-isme/studybloom-api/internal/store"
	appErrors "github.com/noah-isme/studybloom-api/pkg/errors"
)

// Average computes the arithmetic mean of the grade values. An empty list
// averages to 0, never NaN.
func Average(grades []models.Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	sum := 0.0
	for _, grade := range grades {
		sum += grade.Value
	}
	return sum / float64(len(grades))
}

// FormatAverage renders an average rounded to one decimal place.
func FormatAverage(average float64) string {
	return fmt.Sprintf("%.1f", average)
}

// CreateSubjectRequest captures fields for creating subjects.
type CreateSubjectRequest struct {
	ID             string `json:"id"`
	Name           string `json:"name" validate:"required"`
	Color          string `json:"color"`
	Professor      string `json:"professor"`
	ProfessorEmail string `json:"professor_email" validate:"omitempty,email"`
}

// UpdateSubjectRequest modifies subject fields; nil fields are untouched.
type UpdateSubjectRequest struct {
	Name           *string `json:"name"`
	Color          *string `json:"color"`
	Professor      *string `json:"professor"`
	ProfessorEmail *string `json:"professor_email" validate:"omitempty,email"`
}

// AddGradeRequest appends a grade to a subject.
type AddGradeRequest struct {
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// AddAbsenceRequest records a missed class day.
type AddAbsenceRequest struct {
	Date string `json:"date" validate:"required"`
}

// AddNoteRequest appends a free-text note.
type AddNoteRequest struct {
	Content string `json:"content" validate:"required"`
}

// SubjectService handles the subject domain workflows.
type SubjectService struct {
	store     *store.Store
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewSubjectService creates a new subject service.
func NewSubjectService(st *store.Store, validate *validator.Validate, logger *zap.Logger) *SubjectService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubjectService{store: st, validator: validate, logger: logger, now: time.Now}
}

func (s *SubjectService) toResponse(subject models.Subject, activities []models.Activity) dto.SubjectResponse {
	count := 0
	for _, activity := range activities {
		if activity.SubjectID == subject.ID {
			count++
		}
	}
	average := Average(subject.Grades)
	return dto.SubjectResponse{
		Subject:        subject,
		Average:        average,
		AverageDisplay: FormatAverage(average),
		AbsenceCount:   len(subject.Absences),
		ActivityCount:  count,
	}
}

// List returns all subjects in collection order with derived statistics.
func (s *SubjectService) List(ctx context.Context) []dto.SubjectResponse {
	state := s.store.Snapshot()
	result := make([]dto.SubjectResponse, 0, len(state.Subjects))
	for _, subject := range state.Subjects {
		result = append(result, s.toResponse(subject, state.Activities))
	}
	return result
}

// Get returns the subject with the given id.
func (s *SubjectService) Get(ctx context.Context, id string) (*dto.SubjectResponse, error) {
	subject, ok := s.store.FindSubject(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
	}
	resp := s.toResponse(subject, s.store.Activities())
	return &resp, nil
}

// Create adds a new subject, generating an id when the client omits one.
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*dto.SubjectResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	subject := models.Subject{
		ID:             id,
		Name:           req.Name,
		Color:          req.Color,
		Professor:      req.Professor,
		ProfessorEmail: req.ProfessorEmail,
		Grades:         []models.Grade{},
		Absences:       []models.Absence{},
		Notes:          []models.Note{},
	}
	s.store.AddSubject(subject)

	resp := s.toResponse(subject, nil)
	return &resp, nil
}

// Update merges the provided fields into the subject. An unknown id is a
// silent no-op and yields a nil response.
func (s *SubjectService) Update(ctx context.Context, id string, req UpdateSubjectRequest) (*dto.SubjectResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid subject payload")
	}

	s.store.UpdateSubject(id, store.SubjectPatch{
		Name:           req.Name,
		Color:          req.Color,
		Professor:      req.Professor,
		ProfessorEmail: req.ProfessorEmail,
	})

	subject, ok := s.store.FindSubject(id)
	if !ok {
		return nil, nil
	}
	resp := s.toResponse(subject, s.store.Activities())
	return &resp, nil
}

// Delete removes the subject and cascades to its activities. Unknown ids are
// ignored.
func (s *SubjectService) Delete(ctx context.Context, id string) {
	s.store.RemoveSubject(id)
}

// AddGrade appends a grade to the subject. A nil result means the subject
// does not exist and the operation was ignored.
func (s *SubjectService) AddGrade(ctx context.Context, subjectID string, req AddGradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	if _, ok := s.store.FindSubject(subjectID); !ok {
		return nil, nil
	}

	grade := models.Grade{
		ID:          uuid.NewString(),
		Value:       req.Value,
		Description: req.Description,
	}
	s.store.AddGrade(subjectID, grade)
	return &grade, nil
}

// RemoveGrade deletes a grade; unknown ids are ignored.
func (s *SubjectService) RemoveGrade(ctx context.Context, subjectID, gradeID string) {
	s.store.RemoveGrade(subjectID, gradeID)
}

// AddAbsence records an absence for the subject.
func (s *SubjectService) AddAbsence(ctx context.Context, subjectID string, req AddAbsenceRequest) (*models.Absence, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence payload")
	}
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence date")
	}
	if _, ok := s.store.FindSubject(subjectID); !ok {
		return nil, nil
	}

	absence := models.Absence{ID: uuid.NewString(), Date: date}
	s.store.AddAbsence(subjectID, absence)
	return &absence, nil
}

// RemoveAbsence deletes an absence; unknown ids are ignored.
func (s *SubjectService) RemoveAbsence(ctx context.Context, subjectID, absenceID string) {
	s.store.RemoveAbsence(subjectID, absenceID)
}

// AddNote appends a note to the subject.
func (s *SubjectService) AddNote(ctx context.Context, subjectID string, req AddNoteRequest) (*models.Note, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid note payload")
	}
	if _, ok := s.store.FindSubject(subjectID); !ok {
		return nil, nil
	}

	note := models.Note{
		ID:        uuid.NewString(),
		Content:   req.Content,
		CreatedAt: s.now().UTC(),
	}
	s.store.AddNote(subjectID, note)
	return &note, nil
}

// RemoveNote deletes a note; unknown ids are ignored.
func (s *SubjectService) RemoveNote(ctx context.Context, subjectID, noteID string) {
	s.store.RemoveNote(subjectID, noteID)
}
