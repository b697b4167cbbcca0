package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studybloom-api/internal/service"
	appErrors "github.com/noah-isme/studybloom-api/pkg/errors"
	"github.com/noah-isme/studybloom-api/pkg/response"
)

// CalendarHandler handles calendar endpoints.
type CalendarHandler struct {
	service *service.CalendarService
}

// NewCalendarHandler constructs a calendar handler.
func NewCalendarHandler(svc *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: svc}
}

// Month godoc
// @Summary Get a month grid
// @Description Activities merged with national holidays for the requested month
// @Tags Calendar
// @Produce json
// @Param year path int true "Year"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /calendar/{year}/{month} [get]
func (h *CalendarHandler) Month(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be a number"))
		return
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "month must be a number"))
		return
	}

	grid, err := h.service.Month(c.Request.Context(), year, month)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// RefreshHolidays godoc
// @Summary Refresh cached holidays
// @Description Drops the cached holiday list for the year and refetches it from the upstream provider
// @Tags Calendar
// @Produce json
// @Param year path int true "Year"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /calendar/{year}/refresh [post]
func (h *CalendarHandler) RefreshHolidays(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "year must be a number"))
		return
	}

	holidays, err := h.service.RefreshHolidays(c.Request.Context(), year)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, holidays, nil)
}
