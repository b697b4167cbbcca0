package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studybloom-api/internal/dto"
	"github.com/noah-isme/studybloom-api/internal/models"
	"github.com/noah-isme/studybloom-api/internal/store"
)

func boardFixture() (*BoardService, *store.Store) {
	st := newTestStore()
	st.AddSubject(models.Subject{ID: "s1", Name: "Math", Color: "#E8A0BF"})
	st.AddSubject(models.Subject{ID: "s2", Name: "Physics", Color: "#A8D5BA"})
	st.AddActivity(models.Activity{ID: "a1", Title: "Exam", Type: models.ActivityExam, Status: models.StatusTodo, SubjectID: "s1"})
	st.AddActivity(models.Activity{ID: "a2", Title: "List", Type: models.ActivityList, Status: models.StatusInProgress, SubjectID: "s1"})
	st.AddActivity(models.Activity{ID: "a3", Title: "Report", Type: models.ActivityAssignment, Status: models.StatusDone, SubjectID: "s2"})
	return NewBoardService(st, nil, nil), st
}

func TestBoardGroupsActivitiesBySubject(t *testing.T) {
	svc, _ := boardFixture()

	board := svc.Board(context.Background())

	require.Len(t, board.Columns, 2)
	assert.Equal(t, "s1", board.Columns[0].SubjectID)
	assert.Equal(t, 2, board.Columns[0].Count)
	assert.Equal(t, "a1", board.Columns[0].Cards[0].ID)
	assert.Equal(t, "a2", board.Columns[0].Cards[1].ID)
	assert.Equal(t, "To Do", board.Columns[0].Cards[0].StatusLabel)
	assert.Equal(t, 1, board.Columns[1].Count)
	assert.Equal(t, "a3", board.Columns[1].Cards[0].ID)
}

func TestBoardEmptySubjectGetsEmptyColumn(t *testing.T) {
	st := newTestStore()
	st.AddSubject(models.Subject{ID: "s1", Name: "Math"})
	svc := NewBoardService(st, nil, nil)

	board := svc.Board(context.Background())

	require.Len(t, board.Columns, 1)
	assert.Zero(t, board.Columns[0].Count)
	assert.NotNil(t, board.Columns[0].Cards)
}

func TestMoveReassignsOnlySubject(t *testing.T) {
	svc, st := boardFixture()

	result, err := svc.Move(context.Background(), dto.MoveRequest{
		ActivityID:      "a1",
		SourceSubjectID: "s1",
		TargetSubjectID: "s2",
	})
	require.NoError(t, err)
	assert.True(t, result.Moved)

	activity, ok := st.FindActivity("a1")
	require.True(t, ok)
	assert.Equal(t, "s2", activity.SubjectID)
	assert.Equal(t, "Exam", activity.Title)
	assert.Equal(t, models.StatusTodo, activity.Status)
	assert.Equal(t, models.ActivityExam, activity.Type)
}

func TestMoveDroppedOutsideBoardIsNoOp(t *testing.T) {
	svc, st := boardFixture()

	result, err := svc.Move(context.Background(), dto.MoveRequest{
		ActivityID:      "a1",
		SourceSubjectID: "s1",
		TargetSubjectID: "",
	})
	require.NoError(t, err)
	assert.False(t, result.Moved)

	activity, _ := st.FindActivity("a1")
	assert.Equal(t, "s1", activity.SubjectID)
}

func TestMoveUnknownTargetIsNoOp(t *testing.T) {
	svc, st := boardFixture()

	result, err := svc.Move(context.Background(), dto.MoveRequest{
		ActivityID:      "a1",
		TargetSubjectID: "ghost",
	})
	require.NoError(t, err)
	assert.False(t, result.Moved)

	activity, _ := st.FindActivity("a1")
	assert.Equal(t, "s1", activity.SubjectID)
}

func TestMoveUnknownActivityIsNoOp(t *testing.T) {
	svc, _ := boardFixture()

	result, err := svc.Move(context.Background(), dto.MoveRequest{
		ActivityID:      "ghost",
		TargetSubjectID: "s2",
	})
	require.NoError(t, err)
	assert.False(t, result.Moved)
}

func TestMoveRequiresActivityID(t *testing.T) {
	svc, _ := boardFixture()

	_, err := svc.Move(context.Background(), dto.MoveRequest{TargetSubjectID: "s2"})
	require.Error(t, err)
}

func TestCycleStatusProgression(t *testing.T) {
	svc, st := boardFixture()

	activity, err := svc.CycleStatus(context.Background(), "a1")
	require.NoError(t, err)
	require.NotNil(t, activity)
	assert.Equal(t, models.StatusInProgress, activity.Status)

	activity, err = svc.CycleStatus(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, activity.Status)

	activity, err = svc.CycleStatus(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusTodo, activity.Status)

	stored, _ := st.FindActivity("a1")
	assert.Equal(t, models.StatusTodo, stored.Status)
}

func TestCycleStatusUnknownActivity(t *testing.T) {
	svc, _ := boardFixture()

	activity, err := svc.CycleStatus(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, activity)
}
