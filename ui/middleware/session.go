package middleware

import (
	"net/http"
	"time"

	"dexadash/domain/core"
	"dexadash/internal"

	"github.com/gin-gonic/gin"
)

const sessionKey = "dexa.session"

// EnsureSession is middleware that ensures every request carries a session ID,
// issuing a fresh cookie when the browser has none or a malformed one
func EnsureSession(cookieName string, ttl time.Duration, logger *internal.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	logger = logger.With("EnsureSession")
	maxAge := int(ttl / time.Second)
	return func(c *gin.Context) {
		raw, _ := c.Cookie(cookieName)
		id, err := core.ParseSessionID(raw)
		if err != nil {
			id = core.NewSessionID()
			if raw != "" {
				logger.Warn("replacing malformed session cookie: %v", err)
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, id.String(), maxAge, "/", "", false, true)
		}

		c.Set(sessionKey, id)
		c.Next()
	}
}

// SessionID returns the ID stored by EnsureSession
func SessionID(c *gin.Context) core.SessionID {
	if v, ok := c.Get(sessionKey); ok {
		if id, ok := v.(core.SessionID); ok {
			return id
		}
	}
	return ""
}
