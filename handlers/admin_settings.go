package handlers

import (
	"net/http"

	"notemart-api/models"
	"notemart-api/repository"
	"notemart-api/types"

	"github.com/gin-gonic/gin"
)

type AdminSettingsHandler struct {
	repo *repository.SettingsRepository
}

func NewAdminSettingsHandler(repo *repository.SettingsRepository) *AdminSettingsHandler {
	return &AdminSettingsHandler{repo: repo}
}

func (h *AdminSettingsHandler) ListSettings(c *gin.Context) {
	settings, err := h.repo.ListAppSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(settings))
}

func (h *AdminSettingsHandler) UpsertSetting(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if err := h.repo.UpsertAppSetting(req.Key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"key": req.Key, "value": req.Value}))
}

func (h *AdminSettingsHandler) DeleteSetting(c *gin.Context) {
	key := c.Param("key")
	deleted, err := h.repo.DeleteAppSetting(key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Setting not found"))
		return
	}
	c.Status(http.StatusNoContent)
}

// GetAdSettings is readable by any signed-in user so the client knows whether
// to render the ad surface; only updates are admin-gated.
func (h *AdminSettingsHandler) GetAdSettings(c *gin.Context) {
	ads, err := h.repo.GetAdSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if ads == nil {
		ads = &models.AdSettings{}
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(ads))
}

func (h *AdminSettingsHandler) UpdateAdSettings(c *gin.Context) {
	var req models.AdSettings
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if req.RevenuePerClick < 0 || req.RewardPerView < 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Rates cannot be negative"))
		return
	}
	if err := h.repo.UpdateAdSettings(req); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(req))
}
