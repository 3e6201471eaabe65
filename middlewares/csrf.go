package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dapurkita/restaurant-manager/utils"
)

// CSRFMiddleware verifies the session token on state-changing requests.
// The token may arrive in the X-CSRF-Token header or the csrf_token form
// field; comparison is constant time.
func CSRFMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		session := GetSession(c)
		if session == nil {
			utils.RespondError(c, http.StatusForbidden, utils.NewAuthError("missing session"))
			c.Abort()
			return
		}

		got := c.GetHeader("X-CSRF-Token")
		if got == "" {
			got = c.PostForm("csrf_token")
		}

		if !utils.VerifyCSRFToken(session.CSRFToken, got) {
			utils.RespondError(c, http.StatusForbidden, utils.NewAuthError("invalid csrf token"))
			c.Abort()
			return
		}

		c.Next()
	}
}
