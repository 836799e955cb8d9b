package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	analyticsService "github.com/careops/clinic-api/internal/service/analytics"
	apperrors "github.com/careops/clinic-api/pkg/errors"
	"github.com/careops/clinic-api/pkg/httputil"
)

type Handler struct {
	service *analyticsService.Service
}

func NewHandler(service *analyticsService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	analytics := r.Group("/analytics")
	{
		analytics.GET("/summary", h.GetSummary)
	}
}

func (h *Handler) GetSummary(c *gin.Context) {
	summary, err := h.service.GetSummary(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, summary)
}
