package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	"github.com/careops/clinic-api/internal/service/notification"
)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*model.Appointment
	updateErr    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error {
	if apt.ID == uuid.Nil {
		apt.ID = uuid.New()
	}
	r.appointments[apt.ID] = apt
	return nil
}

func (r *fakeAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := r.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *apt
	return &cp, nil
}

func (r *fakeAppointmentRepo) Update(ctx context.Context, apt *model.Appointment) error {
	if _, ok := r.appointments[apt.ID]; !ok {
		return repository.ErrNotFound
	}
	r.appointments[apt.ID] = apt
	return nil
}

func (r *fakeAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.appointments, id)
	return nil
}

func (r *fakeAppointmentRepo) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range r.appointments {
		out = append(out, apt)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus, rejectReason *string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	apt, ok := r.appointments[id]
	if !ok || apt.Status != from {
		return repository.ErrStatusConflict
	}
	apt.Status = to
	if rejectReason != nil {
		apt.RejectReason = rejectReason
	}
	return nil
}

func (r *fakeAppointmentRepo) UpdateSchedule(ctx context.Context, id uuid.UUID, from model.AppointmentStatus, date time.Time, timeOfDay string) error {
	apt, ok := r.appointments[id]
	if !ok || apt.Status != from {
		return repository.ErrStatusConflict
	}
	apt.Date = date
	apt.Time = timeOfDay
	apt.Status = model.AppointmentStatusApproved
	return nil
}

func (r *fakeAppointmentRepo) CountByStatus(ctx context.Context) (map[model.AppointmentStatus]int, error) {
	out := make(map[model.AppointmentStatus]int)
	for _, apt := range r.appointments {
		out[apt.Status]++
	}
	return out, nil
}

type fakeNotificationRepo struct {
	notifications []*model.Notification
	createErr     error
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	if r.createErr != nil {
		return r.createErr
	}
	n.ID = uuid.New()
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	for _, n := range r.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeNotificationRepo) List(ctx context.Context, staffID *uuid.UUID, unreadOnly bool) ([]*model.Notification, error) {
	return r.notifications, nil
}

func (r *fakeNotificationRepo) CountUnread(ctx context.Context, staffID *uuid.UUID) (int, error) {
	return len(r.notifications), nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error    { return nil }
func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, s *uuid.UUID) error { return nil }
func (r *fakeNotificationRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (r *fakeNotificationRepo) DeleteRead(ctx context.Context, s *uuid.UUID) (int64, error) {
	return 0, nil
}
func (r *fakeNotificationRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func newTestService(t *testing.T) (*Service, *fakeAppointmentRepo, *fakeNotificationRepo) {
	t.Helper()
	repo := newFakeAppointmentRepo()
	notifRepo := &fakeNotificationRepo{}
	logger := zerolog.Nop()
	notifSvc := notification.NewService(notifRepo, nil, notification.Config{}, &logger, nil)
	svc := NewService(repo, notifSvc, &logger, nil)
	return svc, repo, notifRepo
}

func seedAppointment(repo *fakeAppointmentRepo, status model.AppointmentStatus, doctorID *uuid.UUID) *model.Appointment {
	apt := &model.Appointment{
		PatientName: "Jordan Reyes",
		Date:        time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		Time:        "10:30",
		ServiceType: "checkup",
		Status:      status,
		DoctorID:    doctorID,
	}
	apt.ID = uuid.New()
	repo.appointments[apt.ID] = apt
	return apt
}

func TestApproveNotifiesAssignedDoctor(t *testing.T) {
	svc, repo, notifRepo := newTestService(t)
	doctorID := uuid.New()
	apt := seedAppointment(repo, model.AppointmentStatusPending, &doctorID)

	updated, err := svc.Approve(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusApproved, updated.Status)

	require.Len(t, notifRepo.notifications, 1)
	n := notifRepo.notifications[0]
	require.NotNil(t, n.StaffID)
	assert.Equal(t, doctorID, *n.StaffID)
	assert.Equal(t, model.NotificationTypeSuccess, n.Type)
}

func TestApproveWithoutDoctorSkipsNotification(t *testing.T) {
	svc, repo, notifRepo := newTestService(t)
	apt := seedAppointment(repo, model.AppointmentStatusPending, nil)

	updated, err := svc.Approve(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusApproved, updated.Status)
	assert.Empty(t, notifRepo.notifications)
}

func TestAcceptAssignedBroadcasts(t *testing.T) {
	svc, repo, notifRepo := newTestService(t)
	doctorID := uuid.New()
	apt := seedAppointment(repo, model.AppointmentStatusPending, &doctorID)

	updated, err := svc.AcceptAssigned(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusApproved, updated.Status)

	require.Len(t, notifRepo.notifications, 1)
	assert.Nil(t, notifRepo.notifications[0].StaffID, "acceptance goes to the broadcast channel")
}

func TestRejectAppendsReason(t *testing.T) {
	svc, repo, notifRepo := newTestService(t)
	doctorID := uuid.New()
	apt := seedAppointment(repo, model.AppointmentStatusPending, &doctorID)

	updated, err := svc.Reject(context.Background(), apt.ID, "double booked")
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusRejected, updated.Status)
	require.NotNil(t, updated.RejectReason)
	assert.Equal(t, "double booked", *updated.RejectReason)

	require.Len(t, notifRepo.notifications, 1)
	assert.Contains(t, notifRepo.notifications[0].Message, "double booked")
}

func TestTransitionGuards(t *testing.T) {
	tests := []struct {
		name string
		from model.AppointmentStatus
		call func(svc *Service, id uuid.UUID) error
	}{
		{
			name: "cannot start a pending appointment",
			from: model.AppointmentStatusPending,
			call: func(svc *Service, id uuid.UUID) error {
				_, err := svc.Start(context.Background(), id)
				return err
			},
		},
		{
			name: "cannot complete an approved appointment",
			from: model.AppointmentStatusApproved,
			call: func(svc *Service, id uuid.UUID) error {
				_, err := svc.Complete(context.Background(), id)
				return err
			},
		},
		{
			name: "cannot cancel a completed appointment",
			from: model.AppointmentStatusCompleted,
			call: func(svc *Service, id uuid.UUID) error {
				_, err := svc.Cancel(context.Background(), id)
				return err
			},
		},
		{
			name: "cannot approve a rejected appointment",
			from: model.AppointmentStatusRejected,
			call: func(svc *Service, id uuid.UUID) error {
				_, err := svc.Approve(context.Background(), id)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService(t)
			apt := seedAppointment(repo, tt.from, nil)

			err := tt.call(svc, apt.ID)
			assert.ErrorIs(t, err, ErrInvalidTransition)

			stored := repo.appointments[apt.ID]
			assert.Equal(t, tt.from, stored.Status, "status must not change on a rejected transition")
		})
	}
}

func TestConcurrentStatusChangeSurfacesConflict(t *testing.T) {
	svc, repo, _ := newTestService(t)
	apt := seedAppointment(repo, model.AppointmentStatusPending, nil)
	repo.updateErr = repository.ErrStatusConflict

	_, err := svc.Approve(context.Background(), apt.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestNotifyFailureKeepsStatusCommitted(t *testing.T) {
	svc, repo, notifRepo := newTestService(t)
	doctorID := uuid.New()
	apt := seedAppointment(repo, model.AppointmentStatusPending, &doctorID)
	notifRepo.createErr = errors.New("store down")

	updated, err := svc.Approve(context.Background(), apt.ID)
	require.ErrorIs(t, err, ErrNotifyFailed)
	require.NotNil(t, updated, "the updated appointment comes back with the error")
	assert.Equal(t, model.AppointmentStatusApproved, updated.Status)

	stored := repo.appointments[apt.ID]
	assert.Equal(t, model.AppointmentStatusApproved, stored.Status, "status write must not roll back")
}

func TestStartMovesApprovedToAccepted(t *testing.T) {
	svc, repo, notifRepo := newTestService(t)
	doctorID := uuid.New()
	apt := seedAppointment(repo, model.AppointmentStatusApproved, &doctorID)

	updated, err := svc.Start(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusAccepted, updated.Status)

	require.Len(t, notifRepo.notifications, 1)
	assert.Nil(t, notifRepo.notifications[0].StaffID)
}

func TestCompleteAndCancelAreSilent(t *testing.T) {
	svc, repo, notifRepo := newTestService(t)
	apt := seedAppointment(repo, model.AppointmentStatusAccepted, nil)

	_, err := svc.Complete(context.Background(), apt.ID)
	require.NoError(t, err)
	assert.Empty(t, notifRepo.notifications)

	apt2 := seedAppointment(repo, model.AppointmentStatusPending, nil)
	_, err = svc.Cancel(context.Background(), apt2.ID)
	require.NoError(t, err)
	assert.Empty(t, notifRepo.notifications)
}

func TestRescheduleKeepsApprovedAndNotifies(t *testing.T) {
	svc, repo, notifRepo := newTestService(t)
	apt := seedAppointment(repo, model.AppointmentStatusApproved, nil)

	newDate := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	updated, err := svc.Reschedule(context.Background(), apt.ID, newDate, "14:00")
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusApproved, updated.Status)
	assert.Equal(t, newDate, updated.Date)
	assert.Equal(t, "14:00", updated.Time)
	require.Len(t, notifRepo.notifications, 1)
}

func TestRescheduleRejectedFails(t *testing.T) {
	svc, repo, _ := newTestService(t)
	apt := seedAppointment(repo, model.AppointmentStatusCompleted, nil)

	_, err := svc.Reschedule(context.Background(), apt.ID, time.Now(), "09:00")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestDeleteOnlyTerminalAppointments(t *testing.T) {
	svc, repo, _ := newTestService(t)

	active := seedAppointment(repo, model.AppointmentStatusApproved, nil)
	err := svc.DeleteAppointment(context.Background(), active.ID)
	assert.Error(t, err)

	cancelled := seedAppointment(repo, model.AppointmentStatusCancelled, nil)
	err = svc.DeleteAppointment(context.Background(), cancelled.ID)
	assert.NoError(t, err)
}
