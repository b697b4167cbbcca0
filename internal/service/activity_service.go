package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/studybloom-api/internal/models"
	"github.com/noah-isme/studybloom-api/internal/store"
	appErrors "github.com/noah-isme/studybloom-api/pkg/errors"
)

// CreateActivityRequest captures fields for creating activities.
type CreateActivityRequest struct {
	ID        string `json:"id"`
	Title     string `json:"title" validate:"required"`
	Date      string `json:"date"`
	Type      string `json:"type" validate:"required"`
	Status    string `json:"status"`
	SubjectID string `json:"subject_id" validate:"required"`
}

// UpdateActivityRequest modifies activity fields; nil fields are untouched.
// Date distinguishes absent (nil) from explicit clearing (empty string).
type UpdateActivityRequest struct {
	Title     *string `json:"title"`
	Date      *string `json:"date"`
	Type      *string `json:"type"`
	Status    *string `json:"status"`
	SubjectID *string `json:"subject_id"`
}

// ActivityService handles the activity domain workflows.
type ActivityService struct {
	store     *store.Store
	validator *validator.Validate
	logger    *zap.Logger
}

// NewActivityService creates a new activity service.
func NewActivityService(st *store.Store, validate *validator.Validate, logger *zap.Logger) *ActivityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{store: st, validator: validate, logger: logger}
}

// List returns all activities in collection order.
func (s *ActivityService) List(ctx context.Context) []models.Activity {
	return s.store.Activities()
}

// Get returns the activity with the given id.
func (s *ActivityService) Get(ctx context.Context, id string) (*models.Activity, error) {
	activity, ok := s.store.FindActivity(id)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "activity not found")
	}
	return &activity, nil
}

// Create adds a new activity. The status defaults to todo when omitted and
// the date may be empty for undated activities.
func (s *ActivityService) Create(ctx context.Context, req CreateActivityRequest) (*models.Activity, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activity payload")
	}

	activityType := models.ActivityType(req.Type)
	if !activityType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown activity type")
	}
	status := models.StatusTodo
	if req.Status != "" {
		status = models.ActivityStatus(req.Status)
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown activity status")
		}
	}

	var date *models.Date
	if req.Date != "" {
		parsed, err := models.ParseDate(req.Date)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activity date")
		}
		date = &parsed
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}
	activity := models.Activity{
		ID:        id,
		Title:     req.Title,
		Date:      date,
		Type:      activityType,
		Status:    status,
		SubjectID: req.SubjectID,
	}
	s.store.AddActivity(activity)
	return &activity, nil
}

// Update merges the provided fields into the activity. An unknown id is a
// silent no-op and yields a nil response.
func (s *ActivityService) Update(ctx context.Context, id string, req UpdateActivityRequest) (*models.Activity, error) {
	patch := store.ActivityPatch{Title: req.Title, SubjectID: req.SubjectID}

	if req.Type != nil {
		activityType := models.ActivityType(*req.Type)
		if !activityType.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown activity type")
		}
		patch.Type = &activityType
	}
	if req.Status != nil {
		status := models.ActivityStatus(*req.Status)
		if !status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown activity status")
		}
		patch.Status = &status
	}
	if req.Date != nil {
		if *req.Date == "" {
			patch.ClearDate = true
		} else {
			parsed, err := models.ParseDate(*req.Date)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid activity date")
			}
			patch.Date = &parsed
		}
	}

	s.store.UpdateActivity(id, patch)

	activity, ok := s.store.FindActivity(id)
	if !ok {
		return nil, nil
	}
	return &activity, nil
}

// Delete removes the activity. Unknown ids are ignored.
func (s *ActivityService) Delete(ctx context.Context, id string) {
	s.store.RemoveActivity(id)
}
