package notification

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careops/clinic-api/internal/handler"
	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	notificationService "github.com/careops/clinic-api/internal/service/notification"
	apperrors "github.com/careops/clinic-api/pkg/errors"
	"github.com/careops/clinic-api/pkg/httputil"
)

type Handler struct {
	service *notificationService.Service
	poller  *notificationService.Poller
}

func NewHandler(service *notificationService.Service, poller *notificationService.Poller) *Handler {
	return &Handler{service: service, poller: poller}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notifications := r.Group("/notifications")
	{
		notifications.POST("", h.CreateNotification)
		notifications.GET("", h.ListNotifications)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.POST("/read-all", h.MarkAllRead)
		notifications.DELETE("/read", h.DeleteRead)
		notifications.GET("/:id", h.GetNotification)
		notifications.POST("/:id/read", h.MarkRead)
		notifications.DELETE("/:id", h.DeleteNotification)
	}
}

// scope derives the notification visibility scope from the caller. Staff see
// their own rows plus broadcasts; admins watch the broadcast channel itself.
func scope(c *gin.Context) *uuid.UUID {
	session := handler.SessionFromContext(c)
	if session == nil || session.IsAdmin() {
		return nil
	}
	return &session.StaffID
}

func (h *Handler) CreateNotification(c *gin.Context) {
	var req model.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	n := &model.Notification{
		Title:   req.Title,
		Message: req.Message,
		Type:    model.NotificationType(req.Type),
	}
	if req.StaffID != "" {
		staffID, err := uuid.Parse(req.StaffID)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
			return
		}
		n.StaffID = &staffID
	}

	if err := h.service.Create(c.Request.Context(), n); err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, n)
}

func (h *Handler) GetNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid notification ID", err))
		return
	}

	n, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, n)
}

func (h *Handler) ListNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.service.List(c.Request.Context(), scope(c), unreadOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, notifications)
}

// UnreadCount serves the badge count. The poller keeps the broadcast-scope
// count warm, so admin callers read from the cache; staff scopes go to the
// store directly.
func (h *Handler) UnreadCount(c *gin.Context) {
	callerScope := scope(c)
	if callerScope == nil {
		if count, ok := h.poller.Count(); ok {
			httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"count": count})
			return
		}
	}

	count, err := h.service.CountUnread(c.Request.Context(), callerScope)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"count": count})
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid notification ID", err))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(c.Request.Context(), scope(c)); err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) DeleteNotification(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid notification ID", err))
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) DeleteRead(c *gin.Context) {
	deleted, err := h.service.DeleteRead(c.Request.Context(), scope(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{"deleted": deleted})
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		httputil.RespondWithError(c, apperrors.NotFound("notification", err))
	case errors.Is(err, notificationService.ErrTimeout):
		httputil.RespondWithError(c, apperrors.Timeout("notification store timed out", err))
	default:
		httputil.RespondWithError(c, apperrors.Internal(err))
	}
}
