package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dapurkita/restaurant-manager/services"
	"github.com/dapurkita/restaurant-manager/utils"
)

// Context keys used by the session middleware.
const (
	SessionKey      = "session"
	SessionStoreKey = "session_store"
	SessionCookie   = "session_id"
)

// SessionMiddleware attaches the browser session to the request context,
// creating one (and its cookie) on first contact. Handlers mutate the
// session object and call SaveSession before responding.
func SessionMiddleware(store services.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var session *services.Session

		if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
			existing, err := store.Get(c.Request.Context(), cookie)
			if err != nil {
				utils.ErrorLogger.Printf("session load failed: %v", err)
			} else {
				session = existing
			}
		}

		if session == nil {
			fresh, err := services.NewSession()
			if err != nil {
				utils.RespondError(c, http.StatusInternalServerError, err)
				c.Abort()
				return
			}
			if err := store.Save(c.Request.Context(), fresh); err != nil {
				utils.RespondError(c, http.StatusInternalServerError, err)
				c.Abort()
				return
			}
			c.SetCookie(SessionCookie, fresh.ID, 0, "/", "", false, true)
			session = fresh
		}

		c.Set(SessionKey, session)
		c.Set(SessionStoreKey, store)

		c.Next()
	}
}

// GetSession pulls the session placed by SessionMiddleware.
func GetSession(c *gin.Context) *services.Session {
	value, exists := c.Get(SessionKey)
	if !exists {
		return nil
	}
	session, _ := value.(*services.Session)
	return session
}

// SaveSession persists session changes through the store in the context.
func SaveSession(c *gin.Context, session *services.Session) error {
	value, exists := c.Get(SessionStoreKey)
	if !exists {
		return nil
	}
	store, _ := value.(services.SessionStore)
	return store.Save(c.Request.Context(), session)
}
