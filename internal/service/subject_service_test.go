package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studybloom-api/internal/models"
	"github.com/noah-isme/studybloom-api/internal/store"
	appErrors "github.com/noah-isme/studybloom-api/pkg/errors"
)

func newTestStore() *store.Store {
	return store.New(nil, store.Config{})
}

func TestAverage(t *testing.T) {
	assert.Equal(t, 0.0, Average(nil))
	assert.Equal(t, 0.0, Average([]models.Grade{}))
	assert.InDelta(t, 7.75, Average([]models.Grade{{Value: 8.5}, {Value: 7.0}}), 1e-9)
}

func TestFormatAverage(t *testing.T) {
	assert.Equal(t, "0.0", FormatAverage(0))
	assert.Equal(t, "7.8", FormatAverage(7.75))
	assert.Equal(t, "8.5", FormatAverage(8.5))
}

func TestSubjectServiceCreateAndGet(t *testing.T) {
	svc := NewSubjectService(newTestStore(), nil, nil)

	created, err := svc.Create(context.Background(), CreateSubjectRequest{
		Name:           "Mathematics",
		Color:          "#E8A0BF",
		Professor:      "Prof. Silva",
		ProfessorEmail: "silva@uni.edu",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "0.0", created.AverageDisplay)

	fetched, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mathematics", fetched.Name)
	assert.NotNil(t, fetched.Grades)
}

func TestSubjectServiceCreateRequiresName(t *testing.T) {
	svc := NewSubjectService(newTestStore(), nil, nil)

	_, err := svc.Create(context.Background(), CreateSubjectRequest{Color: "#FFF"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestSubjectServiceGetUnknownReturnsNotFound(t *testing.T) {
	svc := NewSubjectService(newTestStore(), nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSubjectServiceUpdateUnknownIsNoOp(t *testing.T) {
	svc := NewSubjectService(newTestStore(), nil, nil)

	name := "Changed"
	resp, err := svc.Update(context.Background(), "missing", UpdateSubjectRequest{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestSubjectServiceAverageReflectsGrades(t *testing.T) {
	st := newTestStore()
	svc := NewSubjectService(st, nil, nil)

	created, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "Math"})
	require.NoError(t, err)

	_, err = svc.AddGrade(context.Background(), created.ID, AddGradeRequest{Value: 8.5, Description: "Exam 1"})
	require.NoError(t, err)
	_, err = svc.AddGrade(context.Background(), created.ID, AddGradeRequest{Value: 7.0})
	require.NoError(t, err)

	fetched, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.InDelta(t, 7.75, fetched.Average, 1e-9)
	assert.Equal(t, "7.8", fetched.AverageDisplay)
}

func TestSubjectServiceAddGradeUnknownSubject(t *testing.T) {
	svc := NewSubjectService(newTestStore(), nil, nil)

	grade, err := svc.AddGrade(context.Background(), "missing", AddGradeRequest{Value: 9})
	require.NoError(t, err)
	assert.Nil(t, grade)
}

func TestSubjectServiceAbsenceValidation(t *testing.T) {
	st := newTestStore()
	svc := NewSubjectService(st, nil, nil)

	created, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "Math"})
	require.NoError(t, err)

	_, err = svc.AddAbsence(context.Background(), created.ID, AddAbsenceRequest{Date: "not-a-date"})
	require.Error(t, err)

	absence, err := svc.AddAbsence(context.Background(), created.ID, AddAbsenceRequest{Date: "2024-06-10"})
	require.NoError(t, err)
	require.NotNil(t, absence)
	assert.Equal(t, "2024-06-10", absence.Date.String())

	fetched, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.AbsenceCount)
}

func TestSubjectServiceDeleteCascades(t *testing.T) {
	st := newTestStore()
	svc := NewSubjectService(st, nil, nil)
	activities := NewActivityService(st, nil, nil)

	created, err := svc.Create(context.Background(), CreateSubjectRequest{Name: "Math"})
	require.NoError(t, err)

	_, err = activities.Create(context.Background(), CreateActivityRequest{
		Title:     "Exam",
		Type:      string(models.ActivityExam),
		SubjectID: created.ID,
	})
	require.NoError(t, err)

	svc.Delete(context.Background(), created.ID)

	assert.Empty(t, svc.List(context.Background()))
	assert.Empty(t, activities.List(context.Background()))
}
