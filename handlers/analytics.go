package handlers

import (
	"net/http"

	"notemart-api/repository"
	"notemart-api/types"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	repo *repository.AnalyticsRepository
}

func NewAnalyticsHandler(repo *repository.AnalyticsRepository) *AnalyticsHandler {
	return &AnalyticsHandler{repo: repo}
}

// GetOverview returns the headline numbers for the admin dashboard in a
// single round trip.
func (h *AnalyticsHandler) GetOverview(c *gin.Context) {
	overview, err := h.repo.GetOverview()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(overview))
}
