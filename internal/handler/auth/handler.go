package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careops/clinic-api/internal/handler"
	"github.com/careops/clinic-api/internal/model"
	authService "github.com/careops/clinic-api/internal/service/auth"
	apperrors "github.com/careops/clinic-api/pkg/errors"
	"github.com/careops/clinic-api/pkg/httputil"
)

type Handler struct {
	svc *authService.Service
}

func NewHandler(svc *authService.Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterPublicRoutes mounts the endpoints that work without a session.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
	}
}

// RegisterRoutes mounts the endpoints that need an authenticated caller.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/change-password", h.ChangePassword)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me)
	}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	tokens, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.RespondWithError(c, apperrors.Unauthorized(err))
			return
		}
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, tokens)
}

func (h *Handler) ChangePassword(c *gin.Context) {
	session := handler.SessionFromContext(c)
	if session == nil {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	if err := h.svc.ChangePassword(c.Request.Context(), session, req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			httputil.RespondWithError(c, apperrors.Unauthorized(err))
			return
		}
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

// Logout is a no-op server side; tokens are stateless and expire on their
// own. The endpoint exists so clients have a uniform call to clear sessions.
func (h *Handler) Logout(c *gin.Context) {
	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) Me(c *gin.Context) {
	session := handler.SessionFromContext(c)
	if session == nil {
		httputil.RespondWithError(c, apperrors.Unauthorized(nil))
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"staff_id": session.StaffID,
		"email":    session.Email,
		"role":     session.Role,
	})
}
