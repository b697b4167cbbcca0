package store

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studybloom-api/internal/models"
)

type fakePersister struct {
	mu     sync.Mutex
	stored *models.AppState
	saves  int
}

func (f *fakePersister) Load(_ context.Context, _ string) (*models.AppState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stored == nil {
		return nil, sql.ErrNoRows
	}
	state := f.stored.Clone()
	return &state, nil
}

func (f *fakePersister) Save(_ context.Context, _ string, state models.AppState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	clone := state.Clone()
	f.stored = &clone
	f.saves++
	return nil
}

func (f *fakePersister) snapshot() *models.AppState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stored
}

func newTestStore() *Store {
	return New(nil, Config{})
}

func fixedNow() time.Time {
	return time.Date(2024, time.June, 10, 12, 0, 0, 0, time.UTC)
}

func TestStartSeedsWhenNothingPersisted(t *testing.T) {
	persister := &fakePersister{}
	s := New(persister, Config{Seed: true, Now: fixedNow})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Len(t, s.Subjects(), 3)
	assert.Len(t, s.Activities(), 4)
}

func TestStartHydratesPersistedState(t *testing.T) {
	persister := &fakePersister{stored: &models.AppState{
		Subjects: []models.Subject{{ID: "s1", Name: "Chemistry"}},
	}}
	s := New(persister, Config{Seed: true})

	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	subjects := s.Subjects()
	require.Len(t, subjects, 1)
	assert.Equal(t, "Chemistry", subjects[0].Name)
}

func TestStopFlushesFinalSnapshot(t *testing.T) {
	persister := &fakePersister{}
	s := New(persister, Config{})
	require.NoError(t, s.Start(context.Background()))

	s.AddSubject(models.Subject{ID: "s1", Name: "Physics"})
	s.Stop()

	stored := persister.snapshot()
	require.NotNil(t, stored)
	require.Len(t, stored.Subjects, 1)
	assert.Equal(t, "Physics", stored.Subjects[0].Name)
}

func TestRemoveSubjectCascadesToActivities(t *testing.T) {
	s := newTestStore()
	s.AddSubject(models.Subject{ID: "s1"})
	s.AddSubject(models.Subject{ID: "s2"})
	s.AddActivity(models.Activity{ID: "a1", SubjectID: "s1"})
	s.AddActivity(models.Activity{ID: "a2", SubjectID: "s2"})
	s.AddActivity(models.Activity{ID: "a3", SubjectID: "s1"})

	s.RemoveSubject("s1")

	assert.Len(t, s.Subjects(), 1)
	activities := s.Activities()
	require.Len(t, activities, 1)
	assert.Equal(t, "a2", activities[0].ID)
}

func TestMutationsOnUnknownIDsAreNoOps(t *testing.T) {
	s := newTestStore()
	s.AddSubject(models.Subject{ID: "s1", Name: "Math"})
	s.AddActivity(models.Activity{ID: "a1", SubjectID: "s1", Status: models.StatusTodo})

	name := "Changed"
	s.UpdateSubject("missing", SubjectPatch{Name: &name})
	s.RemoveSubject("missing")
	s.UpdateActivity("missing", ActivityPatch{Title: &name})
	s.RemoveActivity("missing")
	s.AddGrade("missing", models.Grade{ID: "g1", Value: 10})
	s.RemoveGrade("s1", "missing")
	s.AddAbsence("missing", models.Absence{ID: "ab1"})
	s.AddNote("missing", models.Note{ID: "n1"})

	subjects := s.Subjects()
	require.Len(t, subjects, 1)
	assert.Equal(t, "Math", subjects[0].Name)
	assert.Empty(t, subjects[0].Grades)
	assert.Empty(t, subjects[0].Absences)
	assert.Empty(t, subjects[0].Notes)
	assert.Len(t, s.Activities(), 1)
}

func TestUpdateActivityPatchesOnlyProvidedFields(t *testing.T) {
	s := newTestStore()
	date := models.NewDate(2024, time.June, 12)
	s.AddActivity(models.Activity{
		ID:        "a1",
		Title:     "Calculus exam",
		Date:      datePtr(date),
		Type:      models.ActivityExam,
		Status:    models.StatusTodo,
		SubjectID: "s1",
	})

	target := "s2"
	s.UpdateActivity("a1", ActivityPatch{SubjectID: &target})

	activity, ok := s.FindActivity("a1")
	require.True(t, ok)
	assert.Equal(t, "s2", activity.SubjectID)
	assert.Equal(t, "Calculus exam", activity.Title)
	assert.Equal(t, models.ActivityExam, activity.Type)
	assert.Equal(t, models.StatusTodo, activity.Status)
	require.NotNil(t, activity.Date)
	assert.True(t, activity.Date.Equal(date))
}

func TestUpdateActivityClearDate(t *testing.T) {
	s := newTestStore()
	date := models.NewDate(2024, time.June, 12)
	s.AddActivity(models.Activity{ID: "a1", Date: datePtr(date)})

	s.UpdateActivity("a1", ActivityPatch{ClearDate: true})

	activity, ok := s.FindActivity("a1")
	require.True(t, ok)
	assert.Nil(t, activity.Date)
}

func TestCycleActivityStatus(t *testing.T) {
	s := newTestStore()
	s.AddActivity(models.Activity{ID: "a1", SubjectID: "s1", Status: models.StatusTodo})

	updated, ok := s.CycleActivityStatus("a1")
	require.True(t, ok)
	assert.Equal(t, models.StatusInProgress, updated.Status)

	updated, _ = s.CycleActivityStatus("a1")
	assert.Equal(t, models.StatusDone, updated.Status)

	updated, _ = s.CycleActivityStatus("a1")
	assert.Equal(t, models.StatusTodo, updated.Status)

	_, ok = s.CycleActivityStatus("missing")
	assert.False(t, ok)
}

func TestConcurrentCyclesSerialise(t *testing.T) {
	s := newTestStore()
	s.AddActivity(models.Activity{ID: "a1", SubjectID: "s1", Status: models.StatusTodo})

	var wg sync.WaitGroup
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.CycleActivityStatus("a1")
		}()
	}
	wg.Wait()

	// Three advances from todo land back on todo regardless of interleaving.
	activity, ok := s.FindActivity("a1")
	require.True(t, ok)
	assert.Equal(t, models.StatusTodo, activity.Status)
}

func TestGradeLifecycle(t *testing.T) {
	s := newTestStore()
	s.AddSubject(models.Subject{ID: "s1"})

	s.AddGrade("s1", models.Grade{ID: "g1", Value: 8.5, Description: "Exam 1"})
	s.AddGrade("s1", models.Grade{ID: "g2", Value: 7.0})

	subject, ok := s.FindSubject("s1")
	require.True(t, ok)
	require.Len(t, subject.Grades, 2)

	s.RemoveGrade("s1", "g1")
	subject, _ = s.FindSubject("s1")
	require.Len(t, subject.Grades, 1)
	assert.Equal(t, "g2", subject.Grades[0].ID)
}

func TestSnapshotIsIsolatedFromStore(t *testing.T) {
	s := newTestStore()
	s.AddSubject(models.Subject{ID: "s1", Name: "Math"})

	snapshot := s.Snapshot()
	snapshot.Subjects[0].Name = "Mutated"

	subject, ok := s.FindSubject("s1")
	require.True(t, ok)
	assert.Equal(t, "Math", subject.Name)
}

func TestSeedDataset(t *testing.T) {
	state := Seed(fixedNow())

	require.Len(t, state.Subjects, 3)
	require.Len(t, state.Activities, 4)

	for _, activity := range state.Activities {
		found := false
		for _, subject := range state.Subjects {
			if subject.ID == activity.SubjectID {
				found = true
				break
			}
		}
		assert.True(t, found, "activity %s references unknown subject", activity.ID)
	}

	// Dates are relative to the reference day.
	byID := map[string]models.Activity{}
	for _, activity := range state.Activities {
		byID[activity.ID] = activity
	}
	assert.Equal(t, "2024-06-12", byID["a1"].Date.String())
	assert.Equal(t, "2024-06-15", byID["a2"].Date.String())
	assert.Equal(t, "2024-06-08", byID["a3"].Date.String())
	assert.Equal(t, "2024-06-09", byID["a4"].Date.String())
	assert.Equal(t, models.StatusDone, byID["a3"].Status)
}
