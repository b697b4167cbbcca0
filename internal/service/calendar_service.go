package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/studybloom-api/internal/dto"
	"github.com/noah-isme/studybloom-api/internal/holiday"
	"github.com/noah-isme/studybloom-api/internal/models"
	"github.com/noah-isme/studybloom-api/internal/store"
	appErrors "github.com/noah-isme/studybloom-api/pkg/errors"
)

// maxActivitiesPerCell caps how many activities a day cell lists before
// collapsing the remainder into a counter.
const maxActivitiesPerCell = 2

// CalendarService renders month grids merging activities with national
// holidays.
type CalendarService struct {
	store    *store.Store
	holidays holiday.Lookup
	cache    *CacheService
	metrics  *MetricsService
	cacheTTL time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

// NewCalendarService creates a new calendar service.
func NewCalendarService(st *store.Store, holidays holiday.Lookup, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{
		store:    st,
		holidays: holidays,
		cache:    cache,
		metrics:  metrics,
		cacheTTL: cacheTTL,
		logger:   logger,
		now:      time.Now,
	}
}

// Month builds the grid for the given month. Holiday lookup failures degrade
// to a holiday-free calendar; they never fail the request.
func (s *CalendarService) Month(ctx context.Context, year, month int) (*dto.CalendarMonthResponse, error) {
	if month < 1 || month > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	if year < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year must be positive")
	}

	holidaysByDay := map[string]models.Holiday{}
	for _, h := range s.holidaysForYear(ctx, year) {
		holidaysByDay[h.Date.String()] = h
	}

	activities := s.store.Activities()
	activitiesByDay := map[string][]models.Activity{}
	for _, activity := range activities {
		if activity.Date == nil {
			continue
		}
		key := activity.Date.String()
		activitiesByDay[key] = append(activitiesByDay[key], activity)
	}

	first := models.NewDate(year, time.Month(month), 1)
	daysInMonth := time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
	today := models.DateOf(s.now())

	resp := &dto.CalendarMonthResponse{
		Year:         year,
		Month:        month,
		FirstWeekday: int(first.Time().Weekday()),
		DaysInMonth:  daysInMonth,
		Days:         make([]dto.CalendarDay, 0, daysInMonth),
	}

	for day := 1; day <= daysInMonth; day++ {
		date := models.NewDate(year, time.Month(month), day)
		key := date.String()

		cell := dto.CalendarDay{
			Day:        day,
			Date:       date,
			IsToday:    date.Equal(today),
			Activities: []dto.CalendarActivity{},
		}
		if h, ok := holidaysByDay[key]; ok {
			hol := h
			cell.Holiday = &hol
		}
		dayActivities := activitiesByDay[key]
		for i, activity := range dayActivities {
			if i == maxActivitiesPerCell {
				break
			}
			cell.Activities = append(cell.Activities, dto.CalendarActivity{
				ID:        activity.ID,
				Title:     activity.Title,
				Type:      activity.Type,
				SubjectID: activity.SubjectID,
			})
		}
		if extra := len(dayActivities) - maxActivitiesPerCell; extra > 0 {
			cell.MoreCount = extra
		}
		resp.Days = append(resp.Days, cell)
	}
	return resp, nil
}

// RefreshHolidays drops the cached holiday list for the year and refetches
// it from the upstream lookup. Unlike Month, lookup failures surface to the
// caller as an upstream error.
func (s *CalendarService) RefreshHolidays(ctx context.Context, year int) ([]models.Holiday, error) {
	if year < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year must be positive")
	}
	key := fmt.Sprintf("holidays:%d", year)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.logger.Warn("holiday cache invalidation failed", zap.Int("year", year), zap.Error(err))
	}

	if s.holidays == nil {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "holiday lookup unavailable")
	}
	holidays, err := s.holidays.Holidays(ctx, year)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordHolidayLookup(false)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "holiday lookup failed")
	}
	if s.metrics != nil {
		s.metrics.RecordHolidayLookup(true)
	}
	if err := s.cache.Set(ctx, key, holidays, s.cacheTTL); err != nil {
		s.logger.Debug("holiday cache write failed", zap.Int("year", year), zap.Error(err))
	}
	return holidays, nil
}

// holidaysForYear resolves the holiday list through the cache, falling back
// to the upstream lookup. Errors are logged and reported via metrics, then
// swallowed so the grid renders without holidays.
func (s *CalendarService) holidaysForYear(ctx context.Context, year int) []models.Holiday {
	key := fmt.Sprintf("holidays:%d", year)

	var cached []models.Holiday
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached
	}

	if s.holidays == nil {
		return nil
	}
	holidays, err := s.holidays.Holidays(ctx, year)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordHolidayLookup(false)
		}
		s.logger.Warn("holiday lookup failed", zap.Int("year", year), zap.Error(err))
		return nil
	}
	if s.metrics != nil {
		s.metrics.RecordHolidayLookup(true)
	}
	if err := s.cache.Set(ctx, key, holidays, s.cacheTTL); err != nil {
		s.logger.Debug("holiday cache write failed", zap.Int("year", year), zap.Error(err))
	}
	return holidays
}
