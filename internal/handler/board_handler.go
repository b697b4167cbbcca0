package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studybloom-api/internal/dto"
	"github.com/noah-isme/studybloom-api/internal/service"
	appErrors "github.com/noah-isme/studybloom-api/pkg/errors"
	"github.com/noah-isme/studybloom-api/pkg/response"
)

// BoardHandler handles kanban board endpoints.
type BoardHandler struct {
	service *service.BoardService
}

// NewBoardHandler constructs a board handler.
func NewBoardHandler(svc *service.BoardService) *BoardHandler {
	return &BoardHandler{service: svc}
}

// Board godoc
// @Summary Get the kanban board
// @Tags Board
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /board [get]
func (h *BoardHandler) Board(c *gin.Context) {
	board := h.service.Board(c.Request.Context())
	response.JSON(c, http.StatusOK, board, nil)
}

// Move godoc
// @Summary Apply a drag gesture
// @Description Reassigns the activity to the target column; invalid drops are no-ops
// @Tags Board
// @Accept json
// @Produce json
// @Param payload body dto.MoveRequest true "Move payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /board/move [post]
func (h *BoardHandler) Move(c *gin.Context) {
	var req dto.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Move(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// CycleStatus godoc
// @Summary Advance an activity's status
// @Description Cycles todo to in progress to done and back to todo
// @Tags Board
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} response.Envelope
// @Success 204
// @Router /board/activities/{id}/cycle [post]
func (h *BoardHandler) CycleStatus(c *gin.Context) {
	activity, err := h.service.CycleStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if activity == nil {
		response.NoContent(c)
		return
	}
	response.JSON(c, http.StatusOK, activity, nil)
}
