package handlers

import (
	"encoding/json"
	"net/http"

	"notemart-api/models"
	"notemart-api/mq"
	"notemart-api/pkg/events"
	"notemart-api/repository"
	"notemart-api/types"

	"github.com/gin-gonic/gin"
)

type FollowsHandler struct {
	repo     *repository.FollowsRepository
	profiles *repository.ProfilesRepository
	rabbit   *mq.RabbitMQ
}

func NewFollowsHandler(repo *repository.FollowsRepository, profiles *repository.ProfilesRepository, rabbit *mq.RabbitMQ) *FollowsHandler {
	return &FollowsHandler{repo: repo, profiles: profiles, rabbit: rabbit}
}

// Follow creates the edge idempotently. Following an already-followed user is
// a no-op success, mirroring Unfollow of a non-followed user.
func (h *FollowsHandler) Follow(c *gin.Context) {
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := c.GetInt("userId")
	if targetID == userID {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeSelfFollow, "You cannot follow yourself"))
		return
	}

	target, err := h.profiles.GetBriefByID(targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "User not found"))
		return
	}

	created, err := h.repo.Follow(userID, targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if created {
		if body, err := json.Marshal(events.Engagement{
			Type:    events.TypeNewFollower,
			ActorID: userID,
			OwnerID: targetID,
		}); err == nil {
			_ = h.rabbit.Publish(mq.EngagementQueue, body)
		}
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"following": true}))
}

func (h *FollowsHandler) Unfollow(c *gin.Context) {
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}
	userID := c.GetInt("userId")
	if targetID == userID {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeSelfFollow, "You cannot unfollow yourself"))
		return
	}
	if _, err := h.repo.Unfollow(userID, targetID); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"following": false}))
}

func (h *FollowsHandler) GetStatus(c *gin.Context) {
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}
	following, err := h.repo.IsFollowing(c.GetInt("userId"), targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"following": following}))
}

func (h *FollowsHandler) GetFollowersCount(c *gin.Context) {
	h.countEdge(c, h.repo.CountFollowers)
}

func (h *FollowsHandler) GetFollowingCount(c *gin.Context) {
	h.countEdge(c, h.repo.CountFollowing)
}

func (h *FollowsHandler) countEdge(c *gin.Context, count func(int) (int, error)) {
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}
	n, err := count(targetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"count": n}))
}

func (h *FollowsHandler) ListFollowers(c *gin.Context) {
	h.listEdge(c, h.repo.ListFollowers)
}

func (h *FollowsHandler) ListFollowing(c *gin.Context) {
	h.listEdge(c, h.repo.ListFollowing)
}

func (h *FollowsHandler) listEdge(c *gin.Context, list func(int, int, int) ([]models.UserBrief, int, error)) {
	targetID, ok := paramID(c, "id")
	if !ok {
		return
	}
	p := types.ParsePaginationParams(c)
	users, total, err := list(targetID, p.Page, p.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(users, total)))
}
