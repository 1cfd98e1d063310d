package handlers

import (
	"encoding/json"
	"net/http"

	"notemart-api/cache"
	"notemart-api/initializers"
	"notemart-api/mq"
	"notemart-api/pkg/events"
	"notemart-api/repository"
	"notemart-api/types"

	"github.com/gin-gonic/gin"
)

// Trending weights mirror the SQL fallback ranking so both paths agree on
// what "hot" means.
const (
	trendingWeightLike     = 3
	trendingWeightDownload = 2
	trendingWeightView     = 1
)

type EngagementHandler struct {
	repo     *repository.EngagementRepository
	notes    *repository.NotesRepository
	settings *repository.SettingsRepository
	trending *cache.Cache
	rabbit   *mq.RabbitMQ
}

func NewEngagementHandler(
	repo *repository.EngagementRepository,
	notes *repository.NotesRepository,
	settings *repository.SettingsRepository,
	trending *cache.Cache,
	rabbit *mq.RabbitMQ,
) *EngagementHandler {
	return &EngagementHandler{repo: repo, notes: notes, settings: settings, trending: trending, rabbit: rabbit}
}

func (h *EngagementHandler) publishEngagement(eventType string, noteID, actorID, ownerID int, amount float64) {
	body, err := json.Marshal(events.Engagement{
		Type:    eventType,
		NoteID:  noteID,
		ActorID: actorID,
		OwnerID: ownerID,
		Amount:  amount,
	})
	if err != nil {
		return
	}
	// Best effort; engagement must not fail because the broker is down.
	_ = h.rabbit.Publish(mq.EngagementQueue, body)
}

func (h *EngagementHandler) Like(c *gin.Context) {
	h.toggleReaction(c, "like")
}

func (h *EngagementHandler) Dislike(c *gin.Context) {
	h.toggleReaction(c, "dislike")
}

// toggleReaction flips the caller's reaction and returns the authoritative
// post-toggle state so clients replace, not patch, their local copy.
func (h *EngagementHandler) toggleReaction(c *gin.Context, kind string) {
	noteID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := c.GetInt("userId")

	state, err := h.repo.ToggleReaction(userID, noteID, kind)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if state == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Note not found"))
		return
	}

	if kind == "like" && state.IsLiked {
		_ = h.trending.BumpTrending(c.Request.Context(), noteID, trendingWeightLike)
		if note, err := h.notes.GetNoteByID(noteID, userID); err == nil && note != nil {
			h.publishEngagement(events.TypeNoteLiked, noteID, userID, note.UploaderID, 0)
		}
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(state))
}

func (h *EngagementHandler) Bookmark(c *gin.Context) {
	noteID, ok := paramID(c, "id")
	if !ok {
		return
	}
	state, err := h.repo.ToggleBookmark(c.GetInt("userId"), noteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if state == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Note not found"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(state))
}

// Download records the download (idempotently per user) and returns a
// presigned URL for the note file.
func (h *EngagementHandler) Download(c *gin.Context) {
	noteID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := c.GetInt("userId")

	note, err := h.notes.GetNoteByID(noteID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if note == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Note not found"))
		return
	}

	state, err := h.repo.RecordDownload(userID, noteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if state == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Note not found"))
		return
	}

	url, err := initializers.GenerateFileURL(initializers.Conf.NotesBucket, note.FileID, note.Title)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, "Failed to generate download url"))
		return
	}

	if state.Downloads > note.Downloads {
		// First download by this user; count it toward trending and notify.
		_ = h.trending.BumpTrending(c.Request.Context(), noteID, trendingWeightDownload)
		h.publishEngagement(events.TypeNoteDownloaded, noteID, userID, note.UploaderID, 0)
	}

	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{
		"url":   url,
		"state": state,
	}))
}

// RecordView batches the view into Redis; a background loop flushes the
// counts to SQL. Without Redis the write goes straight to the notes table.
// While ads are enabled the uploader is credited the per-view reward
// immediately; only the counter is batched.
func (h *EngagementHandler) RecordView(c *gin.Context) {
	noteID, ok := paramID(c, "id")
	if !ok {
		return
	}
	if h.trending == nil {
		if err := h.notes.AddViews(noteID, 1); err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
			return
		}
	} else if err := h.trending.IncrView(c.Request.Context(), noteID); err != nil {
		if err := h.notes.AddViews(noteID, 1); err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
			return
		}
	}
	_ = h.trending.BumpTrending(c.Request.Context(), noteID, trendingWeightView)

	ads, err := h.settings.GetAdSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if ads != nil && ads.AdsEnabled {
		if err := h.repo.CreditViewReward(noteID, ads.RewardPerView); err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
			return
		}
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "View recorded"}))
}

// RecordAdClick credits the uploader with the configured revenue per click.
// Rejected with a stable code while ads are disabled so clients can hide the
// ad surface instead of retrying.
func (h *EngagementHandler) RecordAdClick(c *gin.Context) {
	noteID, ok := paramID(c, "id")
	if !ok {
		return
	}

	ads, err := h.settings.GetAdSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if ads == nil || !ads.AdsEnabled {
		c.JSON(http.StatusForbidden, types.NewErrorResponse(types.ErrorCodeAdsDisabled, "Ads are currently disabled"))
		return
	}

	result, err := h.repo.RecordAdClick(noteID, ads.RevenuePerClick)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Note not found"))
		return
	}

	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{
		"adClicks": result.AdClicks,
		"amount":   result.Amount,
	}))
}
