package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SlnkoEnergy/Client-O-M/internal/infrastructure/sessions"
)

const (
	// SessionCookie carries the opaque session token.
	SessionCookie = "clientom_session"
	// sessionContextKey locates the resolved session on the gin context.
	sessionContextKey = "clientom.session"
)

// Session resolves (or creates) the caller's session from the cookie and
// refreshes the cookie on every response so active flows never expire
// mid-draft.
func Session(manager *sessions.Manager, cookieMaxAge int) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(SessionCookie)
		session := manager.GetOrCreate(token)
		if session.ID != token {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, session.ID, cookieMaxAge, "/", "", false, true)
		}
		c.Set(sessionContextKey, session)
		c.Next()
	}
}

// SessionFrom returns the session placed on the context by Session.
func SessionFrom(c *gin.Context) *sessions.Session {
	if v, ok := c.Get(sessionContextKey); ok {
		if s, ok := v.(*sessions.Session); ok {
			return s
		}
	}
	return nil
}
