package handlers

import (
	"net/http"
	"strings"

	"notemart-api/repository"
	"notemart-api/types"

	"github.com/gin-gonic/gin"
)

type TelegramGroupsHandler struct {
	repo *repository.TelegramGroupsRepository
}

func NewTelegramGroupsHandler(repo *repository.TelegramGroupsRepository) *TelegramGroupsHandler {
	return &TelegramGroupsHandler{repo: repo}
}

// ListGroups is public: the client shows the community directory to everyone.
func (h *TelegramGroupsHandler) ListGroups(c *gin.Context) {
	groups, err := h.repo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(groups))
}

func validGroupLink(link string) bool {
	return strings.HasPrefix(link, "https://t.me/") || strings.HasPrefix(link, "tg://")
}

func (h *TelegramGroupsHandler) CreateGroup(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Link        string `json:"link" binding:"required"`
		MemberCount int    `json:"memberCount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if !validGroupLink(req.Link) {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "link must be a telegram URL"))
		return
	}

	group, err := h.repo.Create(req.Name, req.Link, req.MemberCount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(group))
}

func (h *TelegramGroupsHandler) UpdateGroup(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name        string `json:"name" binding:"required"`
		Link        string `json:"link" binding:"required"`
		MemberCount int    `json:"memberCount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if !validGroupLink(req.Link) {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "link must be a telegram URL"))
		return
	}

	updated, err := h.repo.Update(id, req.Name, req.Link, req.MemberCount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Group not found"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"id": id}))
}

func (h *TelegramGroupsHandler) DeleteGroup(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	deleted, err := h.repo.Delete(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Group not found"))
		return
	}
	c.Status(http.StatusNoContent)
}
