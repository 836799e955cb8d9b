package appointment

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	appointmentService "github.com/careops/clinic-api/internal/service/appointment"
	staffService "github.com/careops/clinic-api/internal/service/staff"
	apperrors "github.com/careops/clinic-api/pkg/errors"
	"github.com/careops/clinic-api/pkg/httputil"
)

type Handler struct {
	service  *appointmentService.Service
	staffSvc *staffService.Service
}

func NewHandler(service *appointmentService.Service, staffSvc *staffService.Service) *Handler {
	return &Handler{service: service, staffSvc: staffSvc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	{
		appointments.POST("", h.CreateAppointment)
		appointments.GET("", h.ListAppointments)
		appointments.GET("/:id", h.GetAppointment)
		appointments.PUT("/:id", h.UpdateAppointment)
		appointments.DELETE("/:id", h.DeleteAppointment)

		appointments.POST("/:id/approve", h.Approve)
		appointments.POST("/:id/accept", h.AcceptAssigned)
		appointments.POST("/:id/reject", h.Reject)
		appointments.POST("/:id/reject-assigned", h.RejectAssigned)
		appointments.POST("/:id/start", h.Start)
		appointments.POST("/:id/complete", h.Complete)
		appointments.POST("/:id/cancel", h.Cancel)
		appointments.POST("/:id/no-show", h.NoShow)
		appointments.POST("/:id/reschedule", h.Reschedule)
	}
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	date, err := time.Parse(model.DateLayout, req.Date)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid date", err))
		return
	}

	apt := &model.Appointment{
		PatientName:  req.PatientName,
		PatientPhone: req.PatientPhone,
		PatientEmail: req.PatientEmail,
		Date:         date,
		Time:         req.Time,
		ServiceType:  req.ServiceType,
		Vitals:       req.Vitals,
	}
	if req.DoctorID != "" {
		doctorID, err := uuid.Parse(req.DoctorID)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor ID", err))
			return
		}
		apt.DoctorID = &doctorID
	}

	if err := h.service.CreateAppointment(c.Request.Context(), apt); err != nil {
		httputil.RespondWithError(c, apperrors.Internal(err))
		return
	}

	httputil.RespondWithSuccess(c, http.StatusCreated, apt)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	apt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, apt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{}

	if id := c.Query("doctor_id"); id != "" {
		doctorID, err := uuid.Parse(id)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor ID", err))
			return
		}
		filters.DoctorID = doctorID
	}
	if status := c.Query("status"); status != "" {
		filters.Status = model.AppointmentStatus(status)
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

	appointments, err := h.service.ListAppointments(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, appointments)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	apt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if req.PatientName != nil {
		apt.PatientName = *req.PatientName
	}
	if req.PatientPhone != nil {
		apt.PatientPhone = *req.PatientPhone
	}
	if req.PatientEmail != nil {
		apt.PatientEmail = *req.PatientEmail
	}
	if req.ServiceType != nil {
		apt.ServiceType = *req.ServiceType
	}
	if req.Vitals != nil {
		apt.Vitals = *req.Vitals
	}
	if req.DoctorID != nil {
		doctorID, err := uuid.Parse(*req.DoctorID)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest("invalid doctor ID", err))
			return
		}
		apt.DoctorID = &doctorID
	}

	if err := h.service.UpdateAppointment(c.Request.Context(), apt); err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, apt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.transition(c, func(id uuid.UUID) (*model.Appointment, error) {
		return h.service.Approve(c.Request.Context(), id)
	})
}

func (h *Handler) AcceptAssigned(c *gin.Context) {
	h.transition(c, func(id uuid.UUID) (*model.Appointment, error) {
		return h.service.AcceptAssigned(c.Request.Context(), id)
	})
}

func (h *Handler) Reject(c *gin.Context) {
	var req model.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}
	h.transition(c, func(id uuid.UUID) (*model.Appointment, error) {
		return h.service.Reject(c.Request.Context(), id, req.Reason)
	})
}

func (h *Handler) RejectAssigned(c *gin.Context) {
	var req model.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}
	h.transition(c, func(id uuid.UUID) (*model.Appointment, error) {
		return h.service.RejectAssigned(c.Request.Context(), id, req.Reason)
	})
}

// Start also flips the doctor's duty flag; the workflow leaves that to the
// caller.
func (h *Handler) Start(c *gin.Context) {
	h.transition(c, func(id uuid.UUID) (*model.Appointment, error) {
		apt, err := h.service.Start(c.Request.Context(), id)
		if err != nil {
			return apt, err
		}
		if apt.DoctorID != nil {
			if dutyErr := h.staffSvc.SetOnDuty(c.Request.Context(), *apt.DoctorID, true); dutyErr != nil {
				return apt, dutyErr
			}
		}
		return apt, nil
	})
}

func (h *Handler) Complete(c *gin.Context) {
	h.transition(c, func(id uuid.UUID) (*model.Appointment, error) {
		return h.service.Complete(c.Request.Context(), id)
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, func(id uuid.UUID) (*model.Appointment, error) {
		return h.service.Cancel(c.Request.Context(), id)
	})
}

func (h *Handler) NoShow(c *gin.Context) {
	h.transition(c, func(id uuid.UUID) (*model.Appointment, error) {
		return h.service.NoShow(c.Request.Context(), id)
	})
}

func (h *Handler) Reschedule(c *gin.Context) {
	var req model.RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(err.Error(), err))
		return
	}

	date, err := time.Parse(model.DateLayout, req.Date)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid date", err))
		return
	}

	h.transition(c, func(id uuid.UUID) (*model.Appointment, error) {
		return h.service.Reschedule(c.Request.Context(), id, date, req.Time)
	})
}

// transition runs a workflow operation and translates its outcome. A
// notification failure after a committed status change is not an error
// status: the client gets the updated row plus a warning message.
func (h *Handler) transition(c *gin.Context, fn func(uuid.UUID) (*model.Appointment, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest("invalid appointment ID", err))
		return
	}

	apt, err := fn(id)
	if err != nil {
		if errors.Is(err, appointmentService.ErrNotifyFailed) {
			c.JSON(http.StatusOK, httputil.Response{
				Status:  "success",
				Message: "status updated, notification delivery failed",
				Data:    apt,
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, http.StatusOK, apt)
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		httputil.RespondWithError(c, apperrors.NotFound("appointment", err))
	case errors.Is(err, appointmentService.ErrInvalidTransition):
		httputil.RespondWithError(c, apperrors.Conflict(err.Error(), err))
	default:
		httputil.RespondWithError(c, apperrors.Internal(err))
	}
}
