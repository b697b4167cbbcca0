package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/studybloom-api/internal/service"
	appErrors "github.com/noah-isme/studybloom-api/pkg/errors"
	"github.com/noah-isme/studybloom-api/pkg/response"
)

// SubjectHandler handles subject endpoints.
type SubjectHandler struct {
	service *service.SubjectService
}

// NewSubjectHandler constructs a subject handler.
func NewSubjectHandler(svc *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{service: svc}
}

// List godoc
// @Summary List subjects
// @Tags Subjects
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	subjects := h.service.List(c.Request.Context())
	response.JSON(c, http.StatusOK, subjects, nil)
}

// Get godoc
// @Summary Get subject by id
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /subjects/{id} [get]
func (h *SubjectHandler) Get(c *gin.Context) {
	subject, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Create godoc
// @Summary Create subject
// @Tags Subjects
// @Accept json
// @Produce json
// @Param payload body service.CreateSubjectRequest true "Subject payload"
// @Success 201 {object} response.Envelope
// @Router /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req service.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	subject, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, subject)
}

// Update godoc
// @Summary Update subject
// @Description Merges the provided fields; unknown ids are ignored
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body service.UpdateSubjectRequest true "Subject payload"
// @Success 200 {object} response.Envelope
// @Success 204
// @Router /subjects/{id} [patch]
func (h *SubjectHandler) Update(c *gin.Context) {
	var req service.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	subject, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if subject == nil {
		response.NoContent(c)
		return
	}
	response.JSON(c, http.StatusOK, subject, nil)
}

// Delete godoc
// @Summary Delete subject
// @Description Removes the subject and all of its activities
// @Tags Subjects
// @Produce json
// @Param id path string true "Subject ID"
// @Success 204
// @Router /subjects/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	h.service.Delete(c.Request.Context(), c.Param("id"))
	response.NoContent(c)
}

// AddGrade godoc
// @Summary Add grade
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body service.AddGradeRequest true "Grade payload"
// @Success 201 {object} response.Envelope
// @Success 204
// @Router /subjects/{id}/grades [post]
func (h *SubjectHandler) AddGrade(c *gin.Context) {
	var req service.AddGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.service.AddGrade(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if grade == nil {
		response.NoContent(c)
		return
	}
	response.Created(c, grade)
}

// RemoveGrade godoc
// @Summary Remove grade
// @Tags Subjects
// @Param id path string true "Subject ID"
// @Param gradeId path string true "Grade ID"
// @Success 204
// @Router /subjects/{id}/grades/{gradeId} [delete]
func (h *SubjectHandler) RemoveGrade(c *gin.Context) {
	h.service.RemoveGrade(c.Request.Context(), c.Param("id"), c.Param("gradeId"))
	response.NoContent(c)
}

// AddAbsence godoc
// @Summary Record absence
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body service.AddAbsenceRequest true "Absence payload"
// @Success 201 {object} response.Envelope
// @Success 204
// @Router /subjects/{id}/absences [post]
func (h *SubjectHandler) AddAbsence(c *gin.Context) {
	var req service.AddAbsenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	absence, err := h.service.AddAbsence(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if absence == nil {
		response.NoContent(c)
		return
	}
	response.Created(c, absence)
}

// RemoveAbsence godoc
// @Summary Remove absence
// @Tags Subjects
// @Param id path string true "Subject ID"
// @Param absenceId path string true "Absence ID"
// @Success 204
// @Router /subjects/{id}/absences/{absenceId} [delete]
func (h *SubjectHandler) RemoveAbsence(c *gin.Context) {
	h.service.RemoveAbsence(c.Request.Context(), c.Param("id"), c.Param("absenceId"))
	response.NoContent(c)
}

// AddNote godoc
// @Summary Add note
// @Tags Subjects
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param payload body service.AddNoteRequest true "Note payload"
// @Success 201 {object} response.Envelope
// @Success 204
// @Router /subjects/{id}/notes [post]
func (h *SubjectHandler) AddNote(c *gin.Context) {
	var req service.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	note, err := h.service.AddNote(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if note == nil {
		response.NoContent(c)
		return
	}
	response.Created(c, note)
}

// RemoveNote godoc
// @Summary Remove note
// @Tags Subjects
// @Param id path string true "Subject ID"
// @Param noteId path string true "Note ID"
// @Success 204
// @Router /subjects/{id}/notes/{noteId} [delete]
func (h *SubjectHandler) RemoveNote(c *gin.Context) {
	h.service.RemoveNote(c.Request.Context(), c.Param("id"), c.Param("noteId"))
	response.NoContent(c)
}
