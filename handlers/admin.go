package handlers

import (
	"net/http"

	"notemart-api/repository"
	"notemart-api/types"

	"github.com/gin-gonic/gin"
)

// RequirePermission gates admin routes. The caller must have a role whose
// permission set includes the named permission; the super admin role passes
// every check.
func RequirePermission(profiles *repository.ProfilesRepository, roles *repository.RolesRepository, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt("userId")
		roleID, err := profiles.GetRoleID(userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
			c.Abort()
			return
		}
		if roleID == 0 {
			c.JSON(http.StatusForbidden, types.NewErrorResponse(types.ErrorCodeForbidden, "Admin access required"))
			c.Abort()
			return
		}
		allowed, err := roles.HasPermission(roleID, permission)
		if err != nil {
			c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrorCodeInternal, err.Error()))
			c.Abort()
			return
		}
		if !allowed {
			c.JSON(http.StatusForbidden, types.NewErrorResponse(types.ErrorCodeForbidden, "Missing permission: "+permission))
			c.Abort()
			return
		}
		c.Set("roleId", roleID)
		c.Next()
	}
}
