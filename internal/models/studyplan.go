package models

import "time"

// ActivityType classifies a study activity.
type ActivityType string

const (
	ActivityExam       ActivityType = "exam"
	ActivityAssignment ActivityType = "assignment"
	ActivityList       ActivityType = "list"
	ActivityStudy      ActivityType = "study"
)

// ActivityTypeLabels maps activity types to display names.
var ActivityTypeLabels = map[ActivityType]string{
	ActivityExam:       "Exam",
	ActivityAssignment: "Assignment",
	ActivityList:       "Exercise List",
	ActivityStudy:      "Study Session",
}

// Valid reports whether the value is a known activity type.
func (t ActivityType) Valid() bool {
	_, ok := ActivityTypeLabels[t]
	return ok
}

// Label returns the display name, falling back to the raw value.
func (t ActivityType) Label() string {
	if label, ok := ActivityTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// ActivityStatus tracks board progress of an activity.
type ActivityStatus string

const (
	StatusTodo       ActivityStatus = "todo"
	StatusInProgress ActivityStatus = "in_progress"
	StatusDone       ActivityStatus = "done"
)

// ActivityStatusLabels maps statuses to display names.
var ActivityStatusLabels = map[ActivityStatus]string{
	StatusTodo:       "To Do",
	StatusInProgress: "In Progress",
	StatusDone:       "Done",
}

// Valid reports whether the value is a known activity status.
func (s ActivityStatus) Valid() bool {
	_, ok := ActivityStatusLabels[s]
	return ok
}

// Label returns the display name, falling back to the raw value.
func (s ActivityStatus) Label() string {
	if label, ok := ActivityStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Next returns the forward cycle progression: todo → in_progress → done → todo.
func (s ActivityStatus) Next() ActivityStatus {
	switch s {
	case StatusTodo:
		return StatusInProgress
	case StatusInProgress:
		return StatusDone
	case StatusDone:
		return StatusTodo
	default:
		return StatusTodo
	}
}

// Grade is a single graded assessment owned by one subject. Values are not
// range-checked; the average of an empty list is defined as 0.
type Grade struct {
	ID          string  `json:"id"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// Absence records a missed class day for one subject.
type Absence struct {
	ID   string `json:"id"`
	Date Date   `json:"date"`
}

// Note is a free-text annotation owned by one subject.
type Note struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Subject is a course the student tracks. It exclusively owns its grades,
// absences and notes.
type Subject struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Color          string    `json:"color"`
	Professor      string    `json:"professor"`
	ProfessorEmail string    `json:"professor_email"`
	Grades         []Grade   `json:"grades"`
	Absences       []Absence `json:"absences"`
	Notes          []Note    `json:"notes"`
}

// Clone returns a deep copy of the subject. Empty collections stay empty
// rather than nil so they serialise as arrays.
func (s Subject) Clone() Subject {
	out := s
	out.Grades = append([]Grade{}, s.Grades...)
	out.Absences = append([]Absence{}, s.Absences...)
	out.Notes = append([]Note{}, s.Notes...)
	return out
}

// Activity is a dated or undated task referencing exactly one subject. The
// subject reference is non-owning; cascading delete keeps it from dangling.
type Activity struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Date      *Date          `json:"date,omitempty"`
	Type      ActivityType   `json:"type"`
	Status    ActivityStatus `json:"status"`
	SubjectID string         `json:"subject_id"`
}

// Clone returns a copy of the activity with an independent date pointer.
func (a Activity) Clone() Activity {
	out := a
	if a.Date != nil {
		d := *a.Date
		out.Date = &d
	}
	return out
}

// AppState is the full persisted form of the study plan.
type AppState struct {
	Subjects   []Subject  `json:"subjects"`
	Activities []Activity `json:"activities"`
}

// Clone deep-copies the whole state.
func (s AppState) Clone() AppState {
	out := AppState{
		Subjects:   make([]Subject, len(s.Subjects)),
		Activities: make([]Activity, len(s.Activities)),
	}
	for i, subject := range s.Subjects {
		out.Subjects[i] = subject.Clone()
	}
	for i, activity := range s.Activities {
		out.Activities[i] = activity.Clone()
	}
	return out
}

// Holiday is a national holiday record supplied by the external lookup.
type Holiday struct {
	Date Date   `json:"date"`
	Name string `json:"name"`
	Type string `json:"type"`
}
