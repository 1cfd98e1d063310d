package handlers

import (
	"net/http"

	"notemart-api/globals"
	"notemart-api/repository"
	"notemart-api/types"

	"github.com/gin-gonic/gin"
)

type AdminRolesHandler struct {
	roles    *repository.RolesRepository
	profiles *repository.ProfilesRepository
}

func NewAdminRolesHandler(roles *repository.RolesRepository, profiles *repository.ProfilesRepository) *AdminRolesHandler {
	return &AdminRolesHandler{roles: roles, profiles: profiles}
}

// Setup bootstraps the first super admin. It only works while no super admin
// exists; afterwards role management goes through the permission-gated routes.
func (h *AdminRolesHandler) Setup(c *gin.Context) {
	userID := c.GetInt("userId")

	count, err := h.roles.CountSuperAdmins()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if count > 0 {
		c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, "Admin console is already set up"))
		return
	}

	roleID, err := h.roles.BootstrapSuperAdmin(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	globals.SuperAdminRoleID = roleID
	c.JSON(http.StatusCreated, types.NewSuccessResponse(gin.H{"role": globals.SuperAdminRoleName, "roleId": roleID}))
}

func (h *AdminRolesHandler) ListRoles(c *gin.Context) {
	roles, err := h.roles.ListRoles()
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(roles))
}

func (h *AdminRolesHandler) ListPermissions(c *gin.Context) {
	c.JSON(http.StatusOK, types.NewSuccessResponse(globals.AllPermissions))
}

func (h *AdminRolesHandler) CreateRole(c *gin.Context) {
	var req struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Permissions []string `json:"permissions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if req.Name == globals.SuperAdminRoleName {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "Reserved role name"))
		return
	}

	role, err := h.roles.CreateRole(req.Name, req.Description, req.Permissions)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			c.JSON(http.StatusConflict, types.NewErrorResponse(types.ErrorCodeConflict, "Role name already exists"))
			return
		}
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, types.NewSuccessResponse(role))
}

func (h *AdminRolesHandler) UpdateRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if id == globals.SuperAdminRoleID && globals.SuperAdminRoleID != 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "The super admin role cannot be modified"))
		return
	}
	var req struct {
		Description string   `json:"description"`
		Permissions []string `json:"permissions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}

	role, err := h.roles.UpdateRole(id, req.Description, req.Permissions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if role == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Role not found"))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(role))
}

func (h *AdminRolesHandler) DeleteRole(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if id == globals.SuperAdminRoleID && globals.SuperAdminRoleID != 0 {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, "The super admin role cannot be deleted"))
		return
	}
	deleted, err := h.roles.DeleteRole(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Role not found"))
		return
	}
	c.Status(http.StatusNoContent)
}

// AssignRole grants or revokes a role on a user profile. A null roleId clears
// the assignment.
func (h *AdminRolesHandler) AssignRole(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		RoleID *int `json:"roleId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if req.RoleID != nil {
		role, err := h.roles.GetRoleByID(*req.RoleID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
			return
		}
		if role == nil {
			c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "Role not found"))
			return
		}
	}

	target, err := h.profiles.GetBriefByID(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	if target == nil {
		c.JSON(http.StatusNotFound, types.NewErrorResponse(types.ErrorCodeNotFound, "User not found"))
		return
	}

	if err := h.profiles.AssignRole(userID, req.RoleID); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"userId": userID, "roleId": req.RoleID}))
}

// SetVerified toggles the uploader verification badge.
func (h *AdminRolesHandler) SetVerified(c *gin.Context) {
	userID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Verified bool   `json:"verified"`
		Reason   string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.NewErrorResponse(types.ErrorCodeValidation, err.Error()))
		return
	}
	if err := h.profiles.SetVerified(userID, req.Verified, req.Reason); err != nil {
		c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
		return
	}
	c.JSON(http.StatusOK, types.NewSuccessResponse(gin.H{"userId": userID, "verified": req.Verified}))
}
