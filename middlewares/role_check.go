package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

// RequireRole allows only the listed roles through. Admin always passes.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleInterface, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, utils.NewAuthError("unauthorized"))
			c.Abort()
			return
		}

		role, _ := roleInterface.(string)
		if role == models.RoleAdmin {
			c.Next()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, utils.ErrNoPermission)
		c.Abort()
	}
}

// RequireStaff shortcuts the common back-office gate.
func RequireStaff() gin.HandlerFunc {
	return RequireRole(models.RoleStaff, models.RoleManager)
}
