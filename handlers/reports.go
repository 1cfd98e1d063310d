package handlers

import (
	"net/http"

	"notemart-api/models"
	"notemart-api/repository"
	"notemart-api/types"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct {
	repo  *repository.ReportsRepository
	notes *repository.NotesRepository
}

func NewReportsHandler(repo *repository.ReportsRepository, notes *repository.NotesRepository) *ReportsHandler {
	return &ReportsHandler{repo: repo, notes: notes}
}

// CreateReport files a complaint against a note or a user.
func (h *ReportsHandler) CreateReport(c *gin.Context) {
	userID := c.GetInt("userId")
	var req struct {
		SubjectType string `json:"subjectType" binding:"required"`
		SubjectID   int    `json:"subjectId" binding:"required"`
		Reason      string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if req.SubjectType != "note" && req.SubjectType != "user" {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "subjectType must be note or user"))
		return
	}

	report, err := h.repo.Create(userID, req.SubjectType, req.SubjectID, req.Reason)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(report))
}

func (h *ReportsHandler) ListReports(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "", models.ReportStatusOpen, models.ReportStatusResolved, models.ReportStatusDismissed:
	default:
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Unknown status"))
		return
	}
	p := types.ParsePaginationParams(c)
	reports, total, err := h.repo.List(status, p.Page, p.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(reports, total)))
}

// ResolveReport closes an open report as resolved or dismissed. When the
// resolution removes the reported note, the takedown and the status change
// happen together.
func (h *ReportsHandler) ResolveReport(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status     string `json:"status" binding:"required"`
		Note       string `json:"note"`
		RemoveNote bool   `json:"removeNote"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if req.Status != models.ReportStatusResolved && req.Status != models.ReportStatusDismissed {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "status must be resolved or dismissed"))
		return
	}

	report, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Report not found"))
		return
	}

	if req.RemoveNote && report.SubjectType == "note" {
		note, err := h.notes.GetNoteByID(report.SubjectID, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
			return
		}
		if note != nil {
			if _, err := h.notes.DeleteNote(note.ID, note.UploaderID); err != nil {
				c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
				return
			}
		}
	}

	resolved, err := h.repo.Resolve(id, req.Status, req.Note)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if !resolved {
		c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, "Report is not open"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"id": id, "status": req.Status}))
}
