package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/careops/clinic-api/internal/handler"
	authService "github.com/careops/clinic-api/internal/service/auth"
)

// Auth validates the bearer token and stores the caller's session in the
// context. Routes behind it can assume handler.SessionFromContext is non-nil.
func Auth(svc *authService.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "missing authorization header",
				TraceID: c.GetString(ContextRequestID),
			})
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "invalid authorization header",
				TraceID: c.GetString(ContextRequestID),
			})
			return
		}

		session, err := svc.ValidateToken(c.Request.Context(), parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "invalid or expired token",
				TraceID: c.GetString(ContextRequestID),
			})
			return
		}

		c.Set(handler.ContextSession, session)
		c.Next()
	}
}

// RequireAdmin rejects non-admin sessions. Mount after Auth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := handler.SessionFromContext(c)
		if !session.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Code:    http.StatusForbidden,
				Message: "admin role required",
				TraceID: c.GetString(ContextRequestID),
			})
			return
		}
		c.Next()
	}
}
