package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studybloom-api/internal/service"
	appErrors "github.com/noah-isme/studybloom-api/pkg/errors"
	"github.com/noah-isme/studybloom-api/pkg/response"
)

// ActivityHandler handles activity endpoints.
type ActivityHandler struct {
	service *service.ActivityService
}

// NewActivityHandler constructs an activity handler.
func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: svc}
}

// List godoc
// @Summary List activities
// @Tags Activities
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	activities := h.service.List(c.Request.Context())
	response.JSON(c, http.StatusOK, activities, nil)
}

// Get godoc
// @Summary Get activity by id
// @Tags Activities
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /activities/{id} [get]
func (h *ActivityHandler) Get(c *gin.Context) {
	activity, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, activity, nil)
}

// Create godoc
// @Summary Create activity
// @Tags Activities
// @Accept json
// @Produce json
// @Param payload body service.CreateActivityRequest true "Activity payload"
// @Success 201 {object} response.Envelope
// @Router /activities [post]
func (h *ActivityHandler) Create(c *gin.Context) {
	var req service.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	activity, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, activity)
}

// Update godoc
// @Summary Update activity
// @Description Merges the provided fields; unknown ids are ignored
// @Tags Activities
// @Accept json
// @Produce json
// @Param id path string true "Activity ID"
// @Param payload body service.UpdateActivityRequest true "Activity payload"
// @Success 200 {object} response.Envelope
// @Success 204
// @Router /activities/{id} [patch]
func (h *ActivityHandler) Update(c *gin.Context) {
	var req service.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	activity, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
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

// Delete godoc
// @Summary Delete activity
// @Tags Activities
// @Param id path string true "Activity ID"
// @Success 204
// @Router /activities/{id} [delete]
func (h *ActivityHandler) Delete(c *gin.Context) {
	h.service.Delete(c.Request.Context(), c.Param("id"))
	response.NoContent(c)
}
