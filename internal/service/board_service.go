package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/studybloom-api/internal/dto"
	"github.com/noah-isme/studybloom-api/internal/models"
	"github.com/noah-isme/studybloom-api/internal/store"
	appErrors "github.com/noah-isme/studybloom-api/pkg/errors"
)

// BoardService projects the kanban view and applies drag gestures.
type BoardService struct {
	store     *store.Store
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBoardService creates a new board service.
func NewBoardService(st *store.Store, validate *validator.Validate, logger *zap.Logger) *BoardService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardService{store: st, validator: validate, logger: logger}
}

// Board returns one column per subject, in subject collection order, each
// holding its activities as cards in activity collection order. Every
// activity appears in exactly one column.
func (s *BoardService) Board(ctx context.Context) dto.BoardResponse {
	state := s.store.Snapshot()

	columns := make([]dto.BoardColumn, 0, len(state.Subjects))
	index := make(map[string]int, len(state.Subjects))
	for i, subject := range state.Subjects {
		columns = append(columns, dto.BoardColumn{
			SubjectID:    subject.ID,
			SubjectName:  subject.Name,
			SubjectColor: subject.Color,
			Cards:        []dto.BoardCard{},
		})
		index[subject.ID] = i
	}

	for _, activity := range state.Activities {
		i, ok := index[activity.SubjectID]
		if !ok {
			continue
		}
		columns[i].Cards = append(columns[i].Cards, dto.BoardCard{
			ID:          activity.ID,
			Title:       activity.Title,
			Date:        activity.Date,
			Type:        activity.Type,
			TypeLabel:   activity.Type.Label(),
			Status:      activity.Status,
			StatusLabel: activity.Status.Label(),
		})
	}
	for i := range columns {
		columns[i].Count = len(columns[i].Cards)
	}
	return dto.BoardResponse{Columns: columns}
}

// Move applies a completed drag gesture. Only the activity's subject
// reference changes; title, date, type and status survive the move. Drops
// outside any column, unknown activities and unknown target columns all
// leave the board untouched.
func (s *BoardService) Move(ctx context.Context, req dto.MoveRequest) (dto.MoveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.MoveResult{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move payload")
	}

	if req.TargetSubjectID == "" {
		return dto.MoveResult{Moved: false, Reason: "dropped outside the board"}, nil
	}
	activity, ok := s.store.FindActivity(req.ActivityID)
	if !ok {
		return dto.MoveResult{Moved: false, Reason: "unknown activity"}, nil
	}
	if _, ok := s.store.FindSubject(req.TargetSubjectID); !ok {
		return dto.MoveResult{Moved: false, Reason: "unknown target column"}, nil
	}
	if activity.SubjectID == req.TargetSubjectID {
		return dto.MoveResult{Moved: false, Reason: "already in target column"}, nil
	}

	target := req.TargetSubjectID
	s.store.UpdateActivity(req.ActivityID, store.ActivityPatch{SubjectID: &target})
	s.logger.Info("activity moved",
		zap.String("activity_id", req.ActivityID),
		zap.String("from", activity.SubjectID),
		zap.String("to", target),
	)
	return dto.MoveResult{Moved: true}, nil
}

// CycleStatus advances the activity one step in the todo → in progress →
// done → todo cycle. Unknown ids are ignored and yield a nil activity.
func (s *BoardService) CycleStatus(ctx context.Context, activityID string) (*models.Activity, error) {
	updated, ok := s.store.CycleActivityStatus(activityID)
	if !ok {
		return nil, nil
	}
	return &updated, nil
}
