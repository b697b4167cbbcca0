package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studybloom-api/internal/service"
	"github.com/noah-isme/studybloom-api/pkg/response"
)

// OverviewHandler handles the dashboard endpoint.
type OverviewHandler struct {
	service *service.OverviewService
}

// NewOverviewHandler constructs an overview handler.
func NewOverviewHandler(svc *service.OverviewService) *OverviewHandler {
	return &OverviewHandler{service: svc}
}

// Overview godoc
// @Summary Get the dashboard buckets
// @Description Upcoming, overdue and recently completed activities relative to today
// @Tags Overview
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /overview [get]
func (h *OverviewHandler) Overview(c *gin.Context) {
	overview := h.service.Overview(c.Request.Context())
	response.JSON(c, http.StatusOK, overview, nil)
}
