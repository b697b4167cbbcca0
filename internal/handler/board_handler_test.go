package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/studybloom-api/internal/models"
	"github.com/noah-isme/studybloom-api/internal/service"
	"github.com/noah-isme/studybloom-api/internal/store"
)

type envelope struct {
	Data  json.RawMessage        `json:"data"`
	Error map[string]interface{} `json:"error"`
}

func boardHandlerFixture() (*BoardHandler, *store.Store) {
	st := store.New(nil, store.Config{})
	st.AddSubject(models.Subject{ID: "s1", Name: "Math"})
	st.AddSubject(models.Subject{ID: "s2", Name: "Physics"})
	st.AddActivity(models.Activity{ID: "a1", Title: "Exam", Type: models.ActivityExam, Status: models.StatusTodo, SubjectID: "s1"})
	return NewBoardHandler(service.NewBoardService(st, nil, nil)), st
}

func TestBoardHandlerBoard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := boardHandlerFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/board", nil)

	handler.Board(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	var board struct {
		Columns []struct {
			SubjectID string `json:"subject_id"`
			Count     int    `json:"count"`
		} `json:"columns"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &board))
	require.Len(t, board.Columns, 2)
	assert.Equal(t, 1, board.Columns[0].Count)
	assert.Equal(t, 0, board.Columns[1].Count)
}

func TestBoardHandlerMove(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, st := boardHandlerFixture()

	body := `{"activity_id": "a1", "source_subject_id": "s1", "target_subject_id": "s2"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/board/move", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Move(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	activity, ok := st.FindActivity("a1")
	require.True(t, ok)
	assert.Equal(t, "s2", activity.SubjectID)
}

func TestBoardHandlerMoveMissingActivityID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := boardHandlerFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/board/move", strings.NewReader(`{"target_subject_id": "s2"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Move(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBoardHandlerCycleStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, st := boardHandlerFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/board/activities/a1/cycle", nil)
	c.Params = gin.Params{{Key: "id", Value: "a1"}}

	handler.CycleStatus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	activity, _ := st.FindActivity("a1")
	assert.Equal(t, models.StatusInProgress, activity.Status)
}

func TestBoardHandlerCycleStatusUnknownActivity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler, _ := boardHandlerFixture()

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/board/activities/ghost/cycle", nil)
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	handler.CycleStatus(c)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
