package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	"github.com/careops/clinic-api/internal/service/notification"
	"github.com/careops/clinic-api/pkg/metrics"
)

// ErrNotifyFailed marks a transition whose status update landed but whose
// follow-up notification insert did not. The new status is committed; callers
// may retry just the notification. Detect with errors.Is.
var ErrNotifyFailed = errors.New("appointment updated but notification failed")

// ErrInvalidTransition is returned when the requested operation is not
// allowed from the appointment's current status.
var ErrInvalidTransition = errors.New("invalid status transition")

type Service struct {
	repo     repository.AppointmentRepository
	notifSvc *notification.Service
	logger   *zerolog.Logger
	metrics  *metrics.Metrics
}

// NewService builds the workflow service. metrics may be nil.
func NewService(repo repository.AppointmentRepository, notifSvc *notification.Service, logger *zerolog.Logger, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		notifSvc: notifSvc,
		logger:   logger,
		metrics:  m,
	}
}

func (s *Service) CreateAppointment(ctx context.Context, apt *model.Appointment) error {
	if apt.PatientName == "" {
		return fmt.Errorf("patient name is required")
	}
	if apt.Time == "" {
		return fmt.Errorf("appointment time is required")
	}

	apt.Status = model.AppointmentStatusPending
	if err := s.repo.Create(ctx, apt); err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, apt *model.Appointment) error {
	if err := s.repo.Update(ctx, apt); err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	return nil
}

// DeleteAppointment physically removes a row. Cancellation is a status
// transition, not a delete; only terminal appointments may be removed.
func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get appointment: %w", err)
	}

	switch apt.Status {
	case model.AppointmentStatusCancelled, model.AppointmentStatusRejected, model.AppointmentStatusNoShow:
	default:
		return fmt.Errorf("can only delete cancelled, rejected or no-show appointments")
	}

	return s.repo.Delete(ctx, id)
}

// Approve marks a pending appointment approved by an admin and notifies the
// assigned doctor. Appointments without a doctor are approved silently.
func (s *Service) Approve(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.OpApprove, nil, func(apt *model.Appointment) *model.Notification {
		if apt.DoctorID == nil {
			return nil
		}
		return &model.Notification{
			StaffID: apt.DoctorID,
			Title:   "Appointment approved",
			Message: fmt.Sprintf("Appointment for %s on %s %s was approved by admin", apt.PatientName, apt.Date.Format(model.DateLayout), apt.Time),
			Type:    model.NotificationTypeSuccess,
		}
	})
}

// AcceptAssigned is the doctor-side acceptance of an assigned appointment;
// admins get a broadcast.
func (s *Service) AcceptAssigned(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.OpAcceptAssigned, nil, func(apt *model.Appointment) *model.Notification {
		return &model.Notification{
			Title:   "Appointment accepted",
			Message: fmt.Sprintf("Appointment for %s on %s %s was accepted by the doctor", apt.PatientName, apt.Date.Format(model.DateLayout), apt.Time),
			Type:    model.NotificationTypeInfo,
		}
	})
}

func (s *Service) Reject(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	return s.transition(ctx, id, model.OpReject, reasonPtr, func(apt *model.Appointment) *model.Notification {
		if apt.DoctorID == nil {
			return nil
		}
		msg := fmt.Sprintf("Appointment for %s on %s %s was rejected", apt.PatientName, apt.Date.Format(model.DateLayout), apt.Time)
		if reason != "" {
			msg += ": " + reason
		}
		return &model.Notification{
			StaffID: apt.DoctorID,
			Title:   "Appointment rejected",
			Message: msg,
			Type:    model.NotificationTypeWarning,
		}
	})
}

func (s *Service) RejectAssigned(ctx context.Context, id uuid.UUID, reason string) (*model.Appointment, error) {
	var reasonPtr *string
	if reason != "" {
		reasonPtr = &reason
	}
	return s.transition(ctx, id, model.OpRejectAssigned, reasonPtr, func(apt *model.Appointment) *model.Notification {
		msg := fmt.Sprintf("Appointment for %s on %s %s was rejected by the doctor", apt.PatientName, apt.Date.Format(model.DateLayout), apt.Time)
		if reason != "" {
			msg += ": " + reason
		}
		return &model.Notification{
			Title:   "Appointment rejected",
			Message: msg,
			Type:    model.NotificationTypeWarning,
		}
	})
}

// Start moves an approved appointment into progress. The doctor's duty flag
// is flipped separately by the caller.
func (s *Service) Start(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.OpStart, nil, func(apt *model.Appointment) *model.Notification {
		return &model.Notification{
			Title:   "Appointment in progress",
			Message: fmt.Sprintf("Appointment for %s is in progress, doctor on duty", apt.PatientName),
			Type:    model.NotificationTypeInfo,
		}
	})
}

func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.OpComplete, nil, nil)
}

func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.OpCancel, nil, nil)
}

func (s *Service) NoShow(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.transition(ctx, id, model.OpNoShow, nil, func(apt *model.Appointment) *model.Notification {
		return &model.Notification{
			Title:   "Patient no-show",
			Message: fmt.Sprintf("Patient %s did not show up for the %s %s appointment", apt.PatientName, apt.Date.Format(model.DateLayout), apt.Time),
			Type:    model.NotificationTypeError,
		}
	})
}

// Reschedule moves the appointment to a new date and time. The status stays
// approved; admins are notified of the new slot.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, date time.Time, timeOfDay string) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if _, ok := model.CanTransition(model.OpReschedule, apt.Status); !ok {
		s.countError(model.OpReschedule, "invalid_state")
		return nil, fmt.Errorf("%w: cannot reschedule a %s appointment", ErrInvalidTransition, apt.Status)
	}

	if err := s.repo.UpdateSchedule(ctx, id, apt.Status, date, timeOfDay); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			s.countError(model.OpReschedule, "conflict")
			return nil, fmt.Errorf("%w: appointment changed concurrently", ErrInvalidTransition)
		}
		s.countError(model.OpReschedule, "store")
		return nil, fmt.Errorf("failed to reschedule appointment: %w", err)
	}

	if s.metrics != nil {
		s.metrics.TransitionsTotal.WithLabelValues(string(model.OpReschedule)).Inc()
	}

	apt.Date = date
	apt.Time = timeOfDay
	apt.Status = model.AppointmentStatusApproved

	n := &model.Notification{
		Title:   "Appointment rescheduled",
		Message: fmt.Sprintf("Appointment for %s was rescheduled to %s %s", apt.PatientName, date.Format(model.DateLayout), timeOfDay),
		Type:    model.NotificationTypeInfo,
	}
	if err := s.notifSvc.Create(ctx, n); err != nil {
		if s.metrics != nil {
			s.metrics.NotifyFailures.Inc()
		}
		s.logger.Error().Err(err).Str("appointment_id", id.String()).Msg("reschedule notification failed")
		return apt, fmt.Errorf("%w: %v", ErrNotifyFailed, err)
	}

	return apt, nil
}

// transition runs the two-phase update: a guarded, conditional status write
// followed by a best-effort notification. Phase two failure returns the
// updated appointment with an ErrNotifyFailed-wrapped error; the status
// write is the source of truth.
func (s *Service) transition(ctx context.Context, id uuid.UUID, op model.TransitionOp, rejectReason *string, notify func(*model.Appointment) *model.Notification) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	to, ok := model.CanTransition(op, apt.Status)
	if !ok {
		s.countError(op, "invalid_state")
		return nil, fmt.Errorf("%w: cannot %s a %s appointment", ErrInvalidTransition, op, apt.Status)
	}

	if err := s.repo.UpdateStatus(ctx, id, apt.Status, to, rejectReason); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			s.countError(op, "conflict")
			return nil, fmt.Errorf("%w: appointment changed concurrently", ErrInvalidTransition)
		}
		s.countError(op, "store")
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	if s.metrics != nil {
		s.metrics.TransitionsTotal.WithLabelValues(string(op)).Inc()
	}

	apt.Status = to
	if rejectReason != nil {
		apt.RejectReason = rejectReason
	}

	if notify == nil {
		return apt, nil
	}
	n := notify(apt)
	if n == nil {
		return apt, nil
	}

	if err := s.notifSvc.Create(ctx, n); err != nil {
		if s.metrics != nil {
			s.metrics.NotifyFailures.Inc()
		}
		s.logger.Error().Err(err).
			Str("appointment_id", id.String()).
			Str("operation", string(op)).
			Msg("transition notification failed")
		return apt, fmt.Errorf("%w: %v", ErrNotifyFailed, err)
	}

	return apt, nil
}

func (s *Service) countError(op model.TransitionOp, reason string) {
	if s.metrics != nil {
		s.metrics.TransitionErrors.WithLabelValues(string(op), reason).Inc()
	}
}
