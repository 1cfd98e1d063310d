package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"notemart-api/mq"
	"notemart-api/pkg/events"
	"notemart-api/repository"
	"notemart-api/types"

	"github.com/gin-gonic/gin"
)

type CampaignsHandler struct {
	repo     *repository.CampaignsRepository
	rabbit   *mq.RabbitMQ
	consumer *mq.Consumer
}

func NewCampaignsHandler(repo *repository.CampaignsRepository, rabbit *mq.RabbitMQ, consumer *mq.Consumer) *CampaignsHandler {
	return &CampaignsHandler{repo: repo, rabbit: rabbit, consumer: consumer}
}

func validAudience(a string) bool {
	return a == "all" || a == "uploaders" || a == "verified"
}

// CreateCampaign stores a notification campaign. A scheduledAt in the future
// leaves delivery to the scheduler; omitting it means "send when asked".
func (h *CampaignsHandler) CreateCampaign(c *gin.Context) {
	var req struct {
		Title       string     `json:"title" binding:"required"`
		Message     string     `json:"message" binding:"required"`
		Audience    string     `json:"audience" binding:"required"`
		ScheduledAt *time.Time `json:"scheduledAt"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if !validAudience(req.Audience) {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "audience must be all, uploaders or verified"))
		return
	}

	campaign, err := h.repo.Create(req.Title, req.Message, req.Audience, req.ScheduledAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(campaign))
}

func (h *CampaignsHandler) ListCampaigns(c *gin.Context) {
	p := types.ParsePaginationParams(c)
	campaigns, total, err := h.repo.List(p.Page, p.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(p.BuildResponse(campaigns, total)))
}

// SendCampaign enqueues the fanout. When the broker is unavailable delivery
// happens synchronously in the request so the admin action still completes.
func (h *CampaignsHandler) SendCampaign(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	campaign, err := h.repo.GetByID(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if campaign == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Campaign not found"))
		return
	}
	if campaign.SentAt != nil {
		c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, "Campaign already sent"))
		return
	}

	body, err := json.Marshal(events.CampaignSend{CampaignID: id})
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if h.rabbit != nil {
		if err := h.rabbit.Publish(mq.CampaignQueue, body); err == nil {
			c.JSON(http.StatusAccepted, types.NewSuccessResponse(gin.H{"id": id, "queued": true}))
			return
		}
	}

	if err := h.consumer.Fanout(id); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"id": id, "queued": false}))
}
