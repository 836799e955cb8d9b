package staff

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careops/clinic-api/internal/handler"
	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	staffService "github.com/careops/clinic-api/internal/service/staff"
	apperrors "github.com/careops/clinic-api/pkg/errors"
	"github.com/careops/clinic-api/pkg/httputil"
)

type Handler struct {
	service *staffService.Service
}

func NewHandler(service *staffService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	staff := r.Group("/staff")
	{
		staff.POST("", h.CreateStaff)
		staff.GET("", h.ListStaff)
		staff.GET("/:id", h.GetStaff)
		staff.PUT("/:id", h.UpdateStaff)
		staff.DELETE("/:id", h.DeleteStaff)
		staff.POST("/:id/duty", h.SetOnDuty)
	}
}

func (h *Handler) CreateStaff(c *gin.Context) {
	session := handler.SessionFromContext(c)
	if !session.IsAdmin() {
		httputil.RespondWithError(c, apperrors.Forbidden("admin role required"))
		return
	}

	var req model.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	member := &model.Staff{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Role:       req.Role,
		Specialty:  req.Specialty,
		Department: req.Department,
		Phone:      req.Phone,
	}

	if err := h.service.CreateStaff(c.Request.Context(), member); err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, member)
}

func (h *Handler) GetStaff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}

	member, err := h.service.GetStaff(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, member)
}

func (h *Handler) ListStaff(c *gin.Context) {
	filters := &model.StaffFilters{
		Role:       c.Query("role"),
		Department: c.Query("department"),
		Status:     c.Query("status"),
	}

	staff, err := h.service.ListStaff(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, staff)
}

func (h *Handler) UpdateStaff(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}

	var req model.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	member, err := h.service.GetStaff(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if req.Name != nil {
		member.Name = *req.Name
	}
	if req.Specialty != nil {
		member.Specialty = *req.Specialty
	}
	if req.Department != nil {
		member.Department = *req.Department
	}
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.Status != nil {
		member.Status = *req.Status
	}

	if err := h.service.UpdateStaff(c.Request.Context(), member); err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, member)
}

func (h *Handler) DeleteStaff(c *gin.Context) {
	session := handler.SessionFromContext(c)
	if !session.IsAdmin() {
		httputil.RespondWithError(c, apperrors.Forbidden("admin role required"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}

	if err := h.service.DeleteStaff(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) SetOnDuty(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}

	var req struct {
		OnDuty bool `json:"on_duty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	if err := h.service.SetOnDuty(c.Request.Context(), id, req.OnDuty); err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		httputil.RespondWithError(c, apperrors.NotFound("staff member", err))
	case errors.Is(err, staffService.ErrEmailTaken):
		httputil.RespondWithError(c, apperrors.Conflict(err.Error(), err))
	default:
		httputil.RespondWithError(c, apperrors.Internal(err))
	}
}
