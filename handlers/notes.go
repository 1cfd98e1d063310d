package handlers

import (
	"net/http"
	"strconv"

	"notemart-api/cache"
	"notemart-api/models"
	"notemart-api/repository"
	"notemart-api/types"

	"github.com/gin-gonic/gin"
)

type NotesHandler struct {
	repo     *repository.NotesRepository
	profiles *repository.ProfilesRepository
	trending *cache.Cache
}

func NewNotesHandler(repo *repository.NotesRepository, profiles *repository.ProfilesRepository, trending *cache.Cache) *NotesHandler {
	return &NotesHandler{repo: repo, profiles: profiles, trending: trending}
}

// paramID parses a numeric path parameter, writing the error response itself.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Invalid "+name))
		return 0, false
	}
	return id, true
}

func optionalQuery(c *gin.Context, name string) *string {
	if v := c.Query(name); v != "" {
		return &v
	}
	return nil
}

func (h *NotesHandler) CreateNote(c *gin.Context) {
	userID := c.GetInt("userId")
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Subject     string `json:"subject" binding:"required"`
		Class       string `json:"class" binding:"required"`
		Board       string `json:"board"`
		Topic       string `json:"topic"`
		FileType    string `json:"fileType" binding:"required"`
		FileID      string `json:"fileId" binding:"required"`
		ThumbnailID string `json:"thumbnailId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if len(req.Title) > 200 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Title must be at most 200 characters"))
		return
	}

	note, err := h.repo.CreateNote(userID, repository.NoteInput{
		Title:       req.Title,
		Description: req.Description,
		Subject:     req.Subject,
		Class:       req.Class,
		Board:       req.Board,
		Topic:       req.Topic,
		FileType:    req.FileType,
		FileID:      req.FileID,
		ThumbnailID: req.ThumbnailID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(note))
}

func (h *NotesHandler) GetNotes(c *gin.Context) {
	viewerID := c.GetInt("userId")
	p := types.ParsePaginationParams(c)

	filters := models.NoteFilters{
		Subject:  optionalQuery(c, "subject"),
		Class:    optionalQuery(c, "class"),
		Board:    optionalQuery(c, "board"),
		Topic:    optionalQuery(c, "topic"),
		Search:   optionalQuery(c, "search"),
		Page:     p.Page,
		PageSize: p.PageSize,
	}
	notes, total, err := h.repo.GetNotes(viewerID, filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(notes, total)))
}

func (h *NotesHandler) GetNote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	note, err := h.repo.GetNoteByID(id, c.GetInt("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if note == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Note not found"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(note))
}

// GetTrending serves from the Redis ranking when populated and falls back to
// the SQL weighting over the last 30 days when it is empty or unavailable.
func (h *NotesHandler) GetTrending(c *gin.Context) {
	viewerID := c.GetInt("userId")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 50 {
		limit = 20
	}

	ids, err := h.trending.TopNoteIDs(c.Request.Context(), limit)
	if err == nil && len(ids) > 0 {
		notes, err := h.repo.GetNotesByIDs(viewerID, ids)
		if err == nil && len(notes) > 0 {
			c.JSON(http.StatusOK, types.NewSuccessResponse(notes))
			return
		}
	}

	notes, err := h.repo.GetTrendingNotes(viewerID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(notes))
}

// GetRecommended matches note subjects against the viewer's declared
// interests. With no interests on file it degrades to the newest notes.
func (h *NotesHandler) GetRecommended(c *gin.Context) {
	viewerID := c.GetInt("userId")
	p := types.ParsePaginationParams(c)

	user, err := h.profiles.GetUserByID(viewerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if user == nil || len(user.Interests) == 0 {
		notes, total, err := h.repo.GetNotes(viewerID, models.NoteFilters{Page: p.Page, PageSize: p.PageSize})
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
			return
		}
		c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(notes, total)))
		return
	}

	notes, err := h.repo.GetRecommendedNotes(viewerID, user.Interests, p.Page, p.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(notes))
}

func (h *NotesHandler) GetBookmarked(c *gin.Context) {
	h.listForViewer(c, h.repo.GetBookmarkedNotes)
}

func (h *NotesHandler) GetDownloaded(c *gin.Context) {
	h.listForViewer(c, h.repo.GetDownloadedNotes)
}

func (h *NotesHandler) listForViewer(c *gin.Context, list func(int, int, int) ([]*models.Note, int, error)) {
	viewerID := c.GetInt("userId")
	p := types.ParsePaginationParams(c)
	notes, total, err := list(viewerID, p.Page, p.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(notes, total)))
}

func (h *NotesHandler) GetMyNotes(c *gin.Context) {
	viewerID := c.GetInt("userId")
	p := types.ParsePaginationParams(c)
	notes, total, err := h.repo.GetNotesByUploader(viewerID, viewerID, p.Page, p.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(notes, total)))
}

func (h *NotesHandler) GetUserNotes(c *gin.Context) {
	uploaderID, ok := paramID(c, "id")
	if !ok {
		return
	}
	p := types.ParsePaginationParams(c)
	notes, total, err := h.repo.GetNotesByUploader(c.GetInt("userId"), uploaderID, p.Page, p.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(notes, total)))
}

// DeleteNote removes the caller's own note together with its engagement edges.
func (h *NotesHandler) DeleteNote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := c.GetInt("userId")

	note, err := h.repo.GetNoteByID(id, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if note == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Note not found"))
		return
	}
	if note.UploaderID != userID {
		c.JSON(http.StatusForbidden, types.NewErrorResponse(types.ErrorCodeForbidden, "Only the uploader can delete this note"))
		return
	}

	deleted, err := h.repo.DeleteNote(id, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Note not found"))
		return
	}
	_ = h.trending.RemoveTrending(c.Request.Context(), id)
	c.Status(http.StatusNoContent)
}

// AdminDeleteNote is the moderation takedown; unlike DeleteNote it ignores
// ownership.
func (h *NotesHandler) AdminDeleteNote(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	note, err := h.repo.GetNoteByID(id, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if note == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Note not found"))
		return
	}
	if _, err := h.repo.DeleteNote(id, note.UploaderID); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	_ = h.trending.RemoveTrending(c.Request.Context(), id)
	c.Status(http.StatusNoContent)
}
