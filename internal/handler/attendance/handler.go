package attendance

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	attendanceService "github.com/careops/clinic-api/internal/service/attendance"
	apperrors "github.com/careops/clinic-api/pkg/errors"
	"github.com/careops/clinic-api/pkg/httputil"
)

type Handler struct {
	service *attendanceService.Service
}

func NewHandler(service *attendanceService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	attendance := r.Group("/attendance")
	{
		attendance.POST("/clock-in", h.ClockIn)
		attendance.POST("/:id/clock-out", h.ClockOut)
		attendance.GET("/:id", h.GetRecord)
		attendance.GET("", h.ListRecords)
	}
}

func (h *Handler) ClockIn(c *gin.Context) {
	var req model.ClockInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	staffID, err := uuid.Parse(req.StaffID)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
		return
	}

	record, err := h.service.ClockIn(c.Request.Context(), staffID, req.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, record)
}

func (h *Handler) ClockOut(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid attendance ID", err))
		return
	}

	record, err := h.service.ClockOut(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	hours, err := record.HoursWorked()
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}
	overtime, err := record.Overtime()
	if err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, gin.H{
		"record":       record,
		"hours_worked": hours,
		"overtime":     overtime,
	})
}

func (h *Handler) GetRecord(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid attendance ID", err))
		return
	}

	record, err := h.service.GetRecord(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, record)
}

func (h *Handler) ListRecords(c *gin.Context) {
	filters := &model.AttendanceFilters{}

	if id := c.Query("staff_id"); id != "" {
		staffID, err := uuid.Parse(id)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid staff ID", err))
			return
		}
		filters.StaffID = staffID
	}
	if date := c.Query("start_date"); date != "" {
		d, err := time.Parse(model.DateLayout, date)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid start date", err))
			return
		}
		filters.StartDate = d
	}
	if date := c.Query("end_date"); date != "" {
		d, err := time.Parse(model.DateLayout, date)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid end date", err))
			return
		}
		filters.EndDate = d
	}

	records, err := h.service.ListRecords(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, records)
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		httputil.RespondWithError(c, apperrors.NotFound("attendance record", err))
	case errors.Is(err, attendanceService.ErrAlreadyClockedIn):
		httputil.RespondWithError(c, apperrors.Conflict(err.Error(), err))
	case errors.Is(err, attendanceService.ErrAlreadyClockedOut):
		httputil.RespondWithError(c, apperrors.Conflict(err.Error(), err))
	default:
		httputil.RespondWithError(c, apperrors.Internal(err))
	}
}
