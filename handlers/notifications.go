package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"notemart-api/repository"
	"notemart-api/types"

	"github.com/gin-gonic/gin"
)

type NotificationsHandler struct {
	repo *repository.NotificationsRepository
}

func NewNotificationsHandler(repo *repository.NotificationsRepository) *NotificationsHandler {
	return &NotificationsHandler{repo: repo}
}

// ListUnread pages the caller's unread notifications, sticky campaign notices
// ahead of engagement events. The stored payload is passed through verbatim.
func (h *NotificationsHandler) ListUnread(c *gin.Context) {
	p := types.ParsePaginationParams(c)
	notifs, total, err := h.repo.ListUnread(c.GetInt("userId"), p.Page, p.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}

	type item struct {
		ID        int             `json:"id"`
		Type      string          `json:"type"`
		Sticky    bool            `json:"sticky"`
		Payload   json.RawMessage `json:"payload"`
		CreatedAt time.Time       `json:"createdAt"`
	}
	items := make([]item, 0, len(notifs))
	for _, n := range notifs {
		items = append(items, item{
			ID:        n.ID,
			Type:      n.Type,
			Sticky:    n.Sticky,
			Payload:   json.RawMessage(n.Payload),
			CreatedAt: n.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(items, total)))
}

func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	userID := c.GetInt("userId")
	var req struct {
		IDs []int `json:"ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "ids required"))
		return
	}
	if err := h.repo.MarkRead(userID, req.IDs); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"message": "Notifications marked read"}))
}
