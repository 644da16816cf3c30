package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seva-innovations/storefront-vault/internal/auth"
)

const sessionKey = "session"

// requireAdmin aborts unless the current stored session belongs to an
// authenticated admin. The session is stashed in the gin context for the
// handler to pass down explicitly.
func (s *Server) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := s.auth.Current(c.Request.Context())
		if !sess.IsAdmin() {
			respondErr(c, http.StatusForbidden, "FORBIDDEN", "Admin session required")
			c.Abort()
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*auth.Session)
	return sess
}
