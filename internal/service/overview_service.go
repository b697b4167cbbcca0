package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/studybloom-api/internal/dto"
	"github.com/noah-isme/studybloom-api/internal/models"
	"github.com/noah-isme/studybloom-api/internal/store"
)

// Window widths for the dashboard buckets, in days.
const (
	upcomingWindowDays  = 7
	completedWindowDays = 7
)

// OverviewService assembles the dashboard buckets.
type OverviewService struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewOverviewService creates a new overview service.
func NewOverviewService(st *store.Store, logger *zap.Logger) *OverviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverviewService{store: st, logger: logger, now: time.Now}
}

// Overview classifies every activity into at most one bucket relative to the
// current day:
//
//   - upcoming: dated within [today, today+7], not done
//   - overdue: dated before today, not done
//   - completed recently: done and either undated or dated within [today-7, today]
//
// Bucket membership follows collection order.
func (s *OverviewService) Overview(ctx context.Context) dto.OverviewResponse {
	state := s.store.Snapshot()
	today := models.DateOf(s.now())
	weekAhead := today.AddDays(upcomingWindowDays)
	weekAgo := today.AddDays(-completedWindowDays)

	subjects := make(map[string]models.Subject, len(state.Subjects))
	for _, subject := range state.Subjects {
		subjects[subject.ID] = subject
	}

	resp := dto.OverviewResponse{
		Today:             today,
		Upcoming:          []dto.OverviewActivity{},
		Overdue:           []dto.OverviewActivity{},
		CompletedRecently: []dto.OverviewActivity{},
	}

	for _, activity := range state.Activities {
		row := toOverviewActivity(activity, subjects)
		switch {
		case activity.Status == models.StatusDone:
			if activity.Date == nil || (!activity.Date.Before(weekAgo) && !activity.Date.After(today)) {
				resp.CompletedRecently = append(resp.CompletedRecently, row)
			}
		case activity.Date == nil:
			// Undated, unfinished work belongs to no bucket.
		case activity.Date.Before(today):
			resp.Overdue = append(resp.Overdue, row)
		case !activity.Date.After(weekAhead):
			resp.Upcoming = append(resp.Upcoming, row)
		}
	}
	return resp
}

func toOverviewActivity(activity models.Activity, subjects map[string]models.Subject) dto.OverviewActivity {
	row := dto.OverviewActivity{
		ID:        activity.ID,
		Title:     activity.Title,
		Date:      activity.Date,
		Type:      activity.Type,
		TypeLabel: activity.Type.Label(),
		Status:    activity.Status,
		SubjectID: activity.SubjectID,
	}
	if subject, ok := subjects[activity.SubjectID]; ok {
		row.SubjectName = subject.Name
		row.SubjectColor = subject.Color
	}
	return row
}
