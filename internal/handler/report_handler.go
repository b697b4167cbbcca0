package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studybloom-api/internal/service"
	"github.com/noah-isme/studybloom-api/pkg/response"
)

// ReportHandler serves downloadable documents.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler constructs a report handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// SubjectReport godoc
// @Summary Download a subject report PDF
// @Tags Reports
// @Produce application/pdf
// @Param id path string true "Subject ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id}/report [get]
func (h *ReportHandler) SubjectReport(c *gin.Context) {
	payload, filename, err := h.service.SubjectReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", payload)
}

// ActivitiesCSV godoc
// @Summary Download all activities as CSV
// @Tags Reports
// @Produce text/csv
// @Success 200 {file} binary
// @Router /activities/export [get]
func (h *ReportHandler) ActivitiesCSV(c *gin.Context) {
	payload, err := h.service.ActivitiesCSV(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="activities.csv"`)
	c.Data(http.StatusOK, "text/csv", payload)
}
