package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/careops/clinic-api/internal/model"
)

// Sentinel errors shared by all repository implementations.
var (
	ErrNotFound = errors.New("not found")

	// ErrStatusConflict is returned when a conditional status update matches
	// no row: the appointment either moved to a different status since it was
	// read, or does not exist.
	ErrStatusConflict = errors.New("appointment status changed concurrently")
)

// All repository interfaces in one file
type (
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)

		// UpdateStatus performs a conditional write: the row is updated only
		// when its current status still equals from. ErrStatusConflict is
		// returned otherwise.
		UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus, rejectReason *string) error

		// UpdateSchedule moves an appointment to a new date and time under the
		// same conditional-status contract as UpdateStatus.
		UpdateSchedule(ctx context.Context, id uuid.UUID, from model.AppointmentStatus, date time.Time, timeOfDay string) error

		CountByStatus(ctx context.Context) (map[model.AppointmentStatus]int, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, n *model.Notification) error
		Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)

		// List and the scoped mutations below operate on the union of rows
		// directed at staffID and broadcast rows (staff_id IS NULL). A nil
		// staffID scopes to broadcast rows only.
		List(ctx context.Context, staffID *uuid.UUID, unreadOnly bool) ([]*model.Notification, error)
		CountUnread(ctx context.Context, staffID *uuid.UUID) (int, error)
		MarkRead(ctx context.Context, id uuid.UUID) error
		MarkAllRead(ctx context.Context, staffID *uuid.UUID) error
		Delete(ctx context.Context, id uuid.UUID) error
		DeleteRead(ctx context.Context, staffID *uuid.UUID) (int64, error)
		DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
	}

	AttendanceRepository interface {
		Create(ctx context.Context, a *model.Attendance) error
		Get(ctx context.Context, id uuid.UUID) (*model.Attendance, error)
		SetTimeOut(ctx context.Context, id uuid.UUID, timeOut string) error
		List(ctx context.Context, filters *model.AttendanceFilters) ([]*model.Attendance, error)
		GetOpenForStaff(ctx context.Context, staffID uuid.UUID, date time.Time) (*model.Attendance, error)
		CountByStatusForDate(ctx context.Context, date time.Time) (map[model.AttendanceStatus]int, error)
	}

	StaffRepository interface {
		Create(ctx context.Context, staff *model.Staff) error
		Get(ctx context.Context, id uuid.UUID) (*model.Staff, error)
		GetByEmail(ctx context.Context, email string) (*model.Staff, error)
		Update(ctx context.Context, staff *model.Staff) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.StaffFilters) ([]*model.Staff, error)
		SetOnDuty(ctx context.Context, id uuid.UUID, onDuty bool) error
		UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	}

	ScheduleRepository interface {
		Create(ctx context.Context, s *model.Schedule) error
		Get(ctx context.Context, id uuid.UUID) (*model.Schedule, error)
		Update(ctx context.Context, s *model.Schedule) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListForStaff(ctx context.Context, staffID uuid.UUID, from, to time.Time) ([]*model.Schedule, error)
		HasOverlap(ctx context.Context, staffID uuid.UUID, date time.Time, start, end string, excludeID *uuid.UUID) (bool, error)
	}
)
