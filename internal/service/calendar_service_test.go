package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studybloom-api/internal/models"
	appErrors "github.com/noah-isme/studybloom-api/pkg/errors"
)

type fakeHolidayLookup struct {
	holidays []models.Holiday
	err      error
	calls    int
}

func (f *fakeHolidayLookup) Holidays(_ context.Context, _ int) ([]models.Holiday, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.holidays, nil
}

type fakeCacheRepo struct {
	entries     map[string][]byte
	invalidated []string
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{entries: map[string][]byte{}}
}

func (f *fakeCacheRepo) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := f.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCacheRepo) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(_ context.Context, pattern string) error {
	f.invalidated = append(f.invalidated, pattern)
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range f.entries {
		if strings.HasPrefix(key, prefix) {
			delete(f.entries, key)
		}
	}
	return nil
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestCalendarMonthValidation(t *testing.T) {
	svc := NewCalendarService(newTestStore(), &fakeHolidayLookup{}, nil, nil, 0, nil)

	_, err := svc.Month(context.Background(), 2024, 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Month(context.Background(), 2024, 13)
	require.Error(t, err)
}

func TestCalendarMonthShape(t *testing.T) {
	svc := NewCalendarService(newTestStore(), &fakeHolidayLookup{}, nil, nil, 0, nil)

	grid, err := svc.Month(context.Background(), 2024, 6)
	require.NoError(t, err)

	assert.Equal(t, 2024, grid.Year)
	assert.Equal(t, 6, grid.Month)
	assert.Equal(t, 30, grid.DaysInMonth)
	// June 1st 2024 was a Saturday.
	assert.Equal(t, int(time.Saturday), grid.FirstWeekday)
	require.Len(t, grid.Days, 30)
	assert.Equal(t, 1, grid.Days[0].Day)
	assert.Equal(t, "2024-06-01", grid.Days[0].Date.String())
}

func TestCalendarMonthLeapFebruary(t *testing.T) {
	svc := NewCalendarService(newTestStore(), &fakeHolidayLookup{}, nil, nil, 0, nil)

	grid, err := svc.Month(context.Background(), 2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 29, grid.DaysInMonth)
}

func TestCalendarMergesHolidaysAndCapsActivities(t *testing.T) {
	st := newTestStore()
	st.AddSubject(models.Subject{ID: "s1"})
	day := mustDate(t, "2024-06-05")
	for _, id := range []string{"a1", "a2", "a3"} {
		d := day
		st.AddActivity(models.Activity{ID: id, Title: id, Date: &d, Type: models.ActivityExam, SubjectID: "s1"})
	}

	lookup := &fakeHolidayLookup{holidays: []models.Holiday{
		{Date: day, Name: "National Holiday", Type: "national"},
	}}
	svc := NewCalendarService(st, lookup, nil, nil, 0, nil)

	grid, err := svc.Month(context.Background(), 2024, 6)
	require.NoError(t, err)

	cell := grid.Days[4]
	require.Equal(t, 5, cell.Day)
	require.NotNil(t, cell.Holiday)
	assert.Equal(t, "National Holiday", cell.Holiday.Name)
	require.Len(t, cell.Activities, 2)
	assert.Equal(t, "a1", cell.Activities[0].ID)
	assert.Equal(t, "a2", cell.Activities[1].ID)
	assert.Equal(t, 1, cell.MoreCount)

	// Empty day.
	empty := grid.Days[10]
	assert.Nil(t, empty.Holiday)
	assert.Empty(t, empty.Activities)
	assert.Zero(t, empty.MoreCount)
}

func TestCalendarDegradesWhenHolidayLookupFails(t *testing.T) {
	lookup := &fakeHolidayLookup{err: errors.New("upstream down")}
	svc := NewCalendarService(newTestStore(), lookup, nil, nil, 0, nil)

	grid, err := svc.Month(context.Background(), 2024, 6)
	require.NoError(t, err)
	for _, cell := range grid.Days {
		assert.Nil(t, cell.Holiday)
	}
}

func TestCalendarMonthUsesCachedHolidays(t *testing.T) {
	repo := newFakeCacheRepo()
	cacheSvc := NewCacheService(repo, nil, time.Hour, nil, true)
	cached := []models.Holiday{{Date: mustDate(t, "2024-06-05"), Name: "Cached", Type: "national"}}
	require.NoError(t, repo.Set(context.Background(), "holidays:2024", cached, time.Hour))

	lookup := &fakeHolidayLookup{}
	svc := NewCalendarService(newTestStore(), lookup, cacheSvc, nil, time.Hour, nil)

	grid, err := svc.Month(context.Background(), 2024, 6)
	require.NoError(t, err)
	require.NotNil(t, grid.Days[4].Holiday)
	assert.Equal(t, "Cached", grid.Days[4].Holiday.Name)
	assert.Zero(t, lookup.calls)
}

func TestRefreshHolidaysInvalidatesAndRefetches(t *testing.T) {
	repo := newFakeCacheRepo()
	cacheSvc := NewCacheService(repo, nil, time.Hour, nil, true)
	stale := []models.Holiday{{Date: mustDate(t, "2024-01-01"), Name: "Stale"}}
	require.NoError(t, repo.Set(context.Background(), "holidays:2024", stale, time.Hour))

	lookup := &fakeHolidayLookup{holidays: []models.Holiday{
		{Date: mustDate(t, "2024-06-05"), Name: "Fresh", Type: "national"},
	}}
	svc := NewCalendarService(newTestStore(), lookup, cacheSvc, nil, time.Hour, nil)

	holidays, err := svc.RefreshHolidays(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, "Fresh", holidays[0].Name)
	assert.Equal(t, []string{"holidays:2024"}, repo.invalidated)
	assert.Equal(t, 1, lookup.calls)

	var recached []models.Holiday
	require.NoError(t, repo.Get(context.Background(), "holidays:2024", &recached))
	require.Len(t, recached, 1)
	assert.Equal(t, "Fresh", recached[0].Name)
}

func TestRefreshHolidaysSurfacesUpstreamFailure(t *testing.T) {
	lookup := &fakeHolidayLookup{err: errors.New("upstream down")}
	svc := NewCalendarService(newTestStore(), lookup, nil, nil, 0, nil)

	_, err := svc.RefreshHolidays(context.Background(), 2024)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)
}

func TestRefreshHolidaysValidatesYear(t *testing.T) {
	svc := NewCalendarService(newTestStore(), &fakeHolidayLookup{}, nil, nil, 0, nil)

	_, err := svc.RefreshHolidays(context.Background(), 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCalendarMarksToday(t *testing.T) {
	svc := NewCalendarService(newTestStore(), &fakeHolidayLookup{}, nil, nil, 0, nil)
	svc.now = func() time.Time {
		return time.Date(2024, time.June, 10, 9, 0, 0, 0, time.UTC)
	}

	grid, err := svc.Month(context.Background(), 2024, 6)
	require.NoError(t, err)
	for _, cell := range grid.Days {
		assert.Equal(t, cell.Day == 10, cell.IsToday, "day %d", cell.Day)
	}
}
