package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/careops/clinic-api/internal/model"
)

// ContextSession is the gin context key the auth middleware stores the
// caller's session under.
const ContextSession = "session"

// SessionFromContext returns the authenticated caller's session, or nil on
// unauthenticated routes.
func SessionFromContext(c *gin.Context) *model.Session {
	v, exists := c.Get(ContextSession)
	if !exists {
		return nil
	}
	session, ok := v.(*model.Session)
	if !ok {
		return nil
	}
	return session
}
