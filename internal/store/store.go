package store

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/studybloom-api/internal/models"
	appErrors "github.com/noah-isme/studybloom-api/pkg/errors"
	"github.com/noah-isme/studybloom-api/pkg/jobs"
)

// Persister abstracts durable storage of the full application state.
type Persister interface {
	Load(ctx context.Context, namespace string) (*models.AppState, error)
	Save(ctx context.Context, namespace string, state models.AppState) error
}

// Config tunes store behaviour.
type Config struct {
	Namespace string
	Seed      bool
	Workers   int
	Logger    *zap.Logger
	Now       func() time.Time
}

// Store is the sole owner of the subject and activity collections. Every
// mutation goes through a named operation, holds the lock for its full
// duration, and enqueues an asynchronous snapshot write so persistence never
// blocks the request path. Reads always observe a consistent snapshot.
//
// Mutations targeting unknown identifiers are silent no-ops.
type Store struct {
	mu    sync.Mutex
	state models.AppState

	namespace string
	persister Persister
	queue     *jobs.Queue
	logger    *zap.Logger
	now       func() time.Time
	seed      bool
}

// New constructs a store backed by the given persister.
func New(persister Persister, cfg Config) *Store {
	if cfg.Namespace == "" {
		cfg.Namespace = "studybloom-storage"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	s := &Store{
		namespace: cfg.Namespace,
		persister: persister,
		logger:    cfg.Logger,
		now:       cfg.Now,
		seed:      cfg.Seed,
	}
	s.queue = jobs.NewQueue("store-persist", s.persistJob, jobs.QueueConfig{
		Workers:    1, // single consumer keeps snapshot writes ordered
		BufferSize: 16 * workers,
		Logger:     cfg.Logger,
	})
	return s
}

// Start hydrates the state from the persister (or the seed dataset when no
// prior state exists) and begins consuming persistence jobs.
func (s *Store) Start(ctx context.Context) error {
	s.queue.Start(ctx)

	if s.persister == nil {
		s.state = models.AppState{}
		return nil
	}

	state, err := s.persister.Load(ctx, s.namespace)
	switch {
	case err == nil:
		s.state = state.Clone()
		s.logger.Info("store hydrated",
			zap.Int("subjects", len(s.state.Subjects)),
			zap.Int("activities", len(s.state.Activities)))
	case errors.Is(err, sql.ErrNoRows) || errors.Is(err, appErrors.ErrNotFound):
		if s.seed {
			s.state = Seed(s.now())
			s.logger.Info("store seeded with starter dataset")
		} else {
			s.state = models.AppState{}
		}
		s.persistAsync(s.state.Clone())
	default:
		return err
	}
	return nil
}

// Stop halts the persistence workers and writes a final synchronous snapshot
// so nothing buffered is lost on shutdown.
func (s *Store) Stop() {
	s.queue.Stop()
	if s.persister == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.persister.Save(ctx, s.namespace, s.Snapshot()); err != nil {
		s.logger.Warn("final state flush failed", zap.Error(err))
	}
}

// Snapshot returns a deep copy of the full state.
func (s *Store) Snapshot() models.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subjects returns a copy of the subject collection in insertion order.
func (s *Store) Subjects() []models.Subject {
	return s.Snapshot().Subjects
}

// Activities returns a copy of the activity collection in insertion order.
func (s *Store) Activities() []models.Activity {
	return s.Snapshot().Activities
}

// FindSubject returns a copy of the subject with the given id.
func (s *Store) FindSubject(id string) (models.Subject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, subject := range s.state.Subjects {
		if subject.ID == id {
			return subject.Clone(), true
		}
	}
	return models.Subject{}, false
}

// FindActivity returns a copy of the activity with the given id.
func (s *Store) FindActivity(id string) (models.Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, activity := range s.state.Activities {
		if activity.ID == id {
			return activity.Clone(), true
		}
	}
	return models.Activity{}, false
}

// AddSubject appends a subject to the collection. The caller supplies the id.
func (s *Store) AddSubject(subject models.Subject) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if subject.Grades == nil {
		subject.Grades = []models.Grade{}
	}
	if subject.Absences == nil {
		subject.Absences = []models.Absence{}
	}
	if subject.Notes == nil {
		subject.Notes = []models.Note{}
	}
	s.state.Subjects = append(s.state.Subjects, subject.Clone())
	s.persistLocked()
}

// RemoveSubject deletes the subject and, atomically, every activity that
// references it. No orphaned activity survives the operation.
func (s *Store) RemoveSubject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subjects := s.state.Subjects[:0]
	removed := false
	for _, subject := range s.state.Subjects {
		if subject.ID == id {
			removed = true
			continue
		}
		subjects = append(subjects, subject)
	}
	if !removed {
		return
	}
	s.state.Subjects = subjects

	activities := s.state.Activities[:0]
	for _, activity := range s.state.Activities {
		if activity.SubjectID == id {
			continue
		}
		activities = append(activities, activity)
	}
	s.state.Activities = activities
	s.persistLocked()
}

// UpdateSubject merges the patch into the matching subject. Unknown id is a
// no-op.
func (s *Store) UpdateSubject(id string, patch SubjectPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Subjects {
		if s.state.Subjects[i].ID != id {
			continue
		}
		patch.apply(&s.state.Subjects[i])
		s.persistLocked()
		return
	}
}

// AddActivity appends an activity to the collection.
func (s *Store) AddActivity(activity models.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Activities = append(s.state.Activities, activity.Clone())
	s.persistLocked()
}

// RemoveActivity deletes the activity with the given id.
func (s *Store) RemoveActivity(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	activities := s.state.Activities[:0]
	removed := false
	for _, activity := range s.state.Activities {
		if activity.ID == id {
			removed = true
			continue
		}
		activities = append(activities, activity)
	}
	if !removed {
		return
	}
	s.state.Activities = activities
	s.persistLocked()
}

// UpdateActivity merges the patch into the matching activity. This is also
// the path used by board drag-and-drop to reassign the subject reference.
func (s *Store) UpdateActivity(id string, patch ActivityPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Activities {
		if s.state.Activities[i].ID != id {
			continue
		}
		patch.apply(&s.state.Activities[i])
		s.persistLocked()
		return
	}
}

// CycleActivityStatus advances the activity one step in the status cycle.
// Read, advance and write happen under a single lock acquisition so
// concurrent cycles on the same activity serialise instead of collapsing
// into one step. The updated activity is returned; unknown ids report false.
func (s *Store) CycleActivityStatus(id string) (models.Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Activities {
		if s.state.Activities[i].ID != id {
			continue
		}
		s.state.Activities[i].Status = s.state.Activities[i].Status.Next()
		s.persistLocked()
		return s.state.Activities[i].Clone(), true
	}
	return models.Activity{}, false
}

// AddGrade appends a grade to the named subject's list.
func (s *Store) AddGrade(subjectID string, grade models.Grade) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Subjects {
		if s.state.Subjects[i].ID != subjectID {
			continue
		}
		s.state.Subjects[i].Grades = append(s.state.Subjects[i].Grades, grade)
		s.persistLocked()
		return
	}
}

// RemoveGrade deletes a grade from the named subject's list.
func (s *Store) RemoveGrade(subjectID, gradeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Subjects {
		if s.state.Subjects[i].ID != subjectID {
			continue
		}
		grades := s.state.Subjects[i].Grades[:0]
		removed := false
		for _, grade := range s.state.Subjects[i].Grades {
			if grade.ID == gradeID {
				removed = true
				continue
			}
			grades = append(grades, grade)
		}
		if removed {
			s.state.Subjects[i].Grades = grades
			s.persistLocked()
		}
		return
	}
}

// AddAbsence appends an absence to the named subject's list.
func (s *Store) AddAbsence(subjectID string, absence models.Absence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Subjects {
		if s.state.Subjects[i].ID != subjectID {
			continue
		}
		s.state.Subjects[i].Absences = append(s.state.Subjects[i].Absences, absence)
		s.persistLocked()
		return
	}
}

// RemoveAbsence deletes an absence from the named subject's list.
func (s *Store) RemoveAbsence(subjectID, absenceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Subjects {
		if s.state.Subjects[i].ID != subjectID {
			continue
		}
		absences := s.state.Subjects[i].Absences[:0]
		removed := false
		for _, absence := range s.state.Subjects[i].Absences {
			if absence.ID == absenceID {
				removed = true
				continue
			}
			absences = append(absences, absence)
		}
		if removed {
			s.state.Subjects[i].Absences = absences
			s.persistLocked()
		}
		return
	}
}

// AddNote appends a note to the named subject's list.
func (s *Store) AddNote(subjectID string, note models.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Subjects {
		if s.state.Subjects[i].ID != subjectID {
			continue
		}
		s.state.Subjects[i].Notes = append(s.state.Subjects[i].Notes, note)
		s.persistLocked()
		return
	}
}

// RemoveNote deletes a note from the named subject's list.
func (s *Store) RemoveNote(subjectID, noteID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.state.Subjects {
		if s.state.Subjects[i].ID != subjectID {
			continue
		}
		notes := s.state.Subjects[i].Notes[:0]
		removed := false
		for _, note := range s.state.Subjects[i].Notes {
			if note.ID == noteID {
				removed = true
				continue
			}
			notes = append(notes, note)
		}
		if removed {
			s.state.Subjects[i].Notes = notes
			s.persistLocked()
		}
		return
	}
}

// persistLocked must be called with the lock held. The snapshot is cloned
// before handoff so the job carries immutable data.
func (s *Store) persistLocked() {
	s.persistAsync(s.state.Clone())
}

func (s *Store) persistAsync(snapshot models.AppState) {
	if s.persister == nil {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		Type:    "persist-state",
		Payload: snapshot,
	})
	if err != nil {
		s.logger.Warn("failed to enqueue state persistence", zap.Error(err))
	}
}

func (s *Store) persistJob(ctx context.Context, job jobs.Job) error {
	snapshot, ok := job.Payload.(models.AppState)
	if !ok {
		s.logger.Error("unexpected persistence payload type")
		return nil
	}
	return s.persister.Save(ctx, s.namespace, snapshot)
}
