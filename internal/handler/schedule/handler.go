package schedule

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	scheduleService "github.com/careops/clinic-api/internal/service/schedule"
	apperrors "github.com/careops/clinic-api/pkg/errors"
	"github.com/careops/clinic-api/pkg/httputil"
)

type Handler struct {
	service *scheduleService.Service
}

func NewHandler(service *scheduleService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	schedules := r.Group("/schedules")
	{
		schedules.POST("", h.CreateSchedule)
		schedules.GET("/:id", h.GetSchedule)
		schedules.PUT("/:id", h.UpdateSchedule)
		schedules.DELETE("/:id", h.DeleteSchedule)
		schedules.GET("/staff/:staff_id", h.ListForStaff)
	}
}

func (h *Handler) CreateSchedule(c *gin.Context) {
	var req model.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}
	date, err := time.Parse(model.DateLayout, req.Date)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid date", err))
		return
	}

	capacity := req.Capacity
	if capacity == 0 {
		capacity = 1
	}

	sched := &model.Schedule{
		StaffID:   staffID,
		Date:      date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Capacity:  capacity,
		Notes:     req.Notes,
	}

	if err := h.service.CreateSchedule(c.Request.Context(), sched); err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, sched)
}

func (h *Handler) GetSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid schedule ID", err))
		return
	}

	sched, err := h.service.GetSchedule(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, sched)
}

func (h *Handler) UpdateSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid schedule ID", err))
		return
	}

	var req model.UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	sched, err := h.service.GetSchedule(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if req.StartTime != nil {
		sched.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		sched.EndTime = *req.EndTime
	}
	if req.Capacity != nil {
		sched.Capacity = *req.Capacity
	}
	if req.Notes != nil {
		sched.Notes = *req.Notes
	}

	if err := h.service.UpdateSchedule(c.Request.Context(), sched); err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, sched)
}

func (h *Handler) DeleteSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid schedule ID", err))
		return
	}

	if err := h.service.DeleteSchedule(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) ListForStaff(c *gin.Context) {
	staffID, err := uuid.Parse(c.Param("staff_id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}

	// Default to the coming week when no range is given.
	from := time.Now().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, 7)
	if date := c.Query("from"); date != "" {
		from, err = time.Parse(model.DateLayout, date)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid from date", err))
			return
		}
	}
	if date := c.Query("to"); date != "" {
		to, err = time.Parse(model.DateLayout, date)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid to date", err))
			return
		}
	}

	schedules, err := h.service.ListForStaff(c.Request.Context(), staffID, from, to)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, schedules)
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		httputil.RespondWithError(c, apperrors.NotFound("schedule", err))
	case errors.Is(err, scheduleService.ErrOverlap):
		httputil.RespondWithError(c, apperrors.Conflict(err.Error(), err))
	case errors.Is(err, scheduleService.ErrInvalidTimes):
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
	default:
		httputil.RespondWithError(c, apperrors.Internal(err))
	}
}
