package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	appointmentService "github.com/careops/clinic-api/internal/service/appointment"
	notificationService "github.com/careops/clinic-api/internal/service/notification"
	staffService "github.com/careops/clinic-api/internal/service/staff"
)

type stubAppointmentRepo struct {
	rows map[uuid.UUID]*model.Appointment
}

func (r *stubAppointmentRepo) Create(ctx context.Context, apt *model.Appointment) error {
	apt.ID = uuid.New()
	r.rows[apt.ID] = apt
	return nil
}

func (r *stubAppointmentRepo) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *apt
	return &cp, nil
}

func (r *stubAppointmentRepo) Update(ctx context.Context, apt *model.Appointment) error {
	r.rows[apt.ID] = apt
	return nil
}

func (r *stubAppointmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func (r *stubAppointmentRepo) List(ctx context.Context, f *model.AppointmentFilters) ([]*model.Appointment, error) {
	var out []*model.Appointment
	for _, apt := range r.rows {
		out = append(out, apt)
	}
	return out, nil
}

func (r *stubAppointmentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.AppointmentStatus, rejectReason *string) error {
	apt, ok := r.rows[id]
	if !ok || apt.Status != from {
		return repository.ErrStatusConflict
	}
	apt.Status = to
	return nil
}

func (r *stubAppointmentRepo) UpdateSchedule(ctx context.Context, id uuid.UUID, from model.AppointmentStatus, date time.Time, timeOfDay string) error {
	apt, ok := r.rows[id]
	if !ok || apt.Status != from {
		return repository.ErrStatusConflict
	}
	apt.Date = date
	apt.Time = timeOfDay
	return nil
}

func (r *stubAppointmentRepo) CountByStatus(ctx context.Context) (map[model.AppointmentStatus]int, error) {
	return nil, nil
}

type stubNotificationRepo struct {
	created int
	fail    bool
}

func (r *stubNotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	if r.fail {
		return errors.New("store down")
	}
	r.created++
	n.ID = uuid.New()
	return nil
}

func (r *stubNotificationRepo) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	return nil, repository.ErrNotFound
}
func (r *stubNotificationRepo) List(ctx context.Context, s *uuid.UUID, u bool) ([]*model.Notification, error) {
	return nil, nil
}
func (r *stubNotificationRepo) CountUnread(ctx context.Context, s *uuid.UUID) (int, error) {
	return 0, nil
}
func (r *stubNotificationRepo) MarkRead(ctx context.Context, id uuid.UUID) error    { return nil }
func (r *stubNotificationRepo) MarkAllRead(ctx context.Context, s *uuid.UUID) error { return nil }
func (r *stubNotificationRepo) Delete(ctx context.Context, id uuid.UUID) error      { return nil }
func (r *stubNotificationRepo) DeleteRead(ctx context.Context, s *uuid.UUID) (int64, error) {
	return 0, nil
}
func (r *stubNotificationRepo) DeleteReadBefore(ctx context.Context, c time.Time) (int64, error) {
	return 0, nil
}

type stubStaffRepo struct {
	onDuty map[uuid.UUID]bool
}

func (r *stubStaffRepo) Create(ctx context.Context, s *model.Staff) error { return nil }
func (r *stubStaffRepo) Get(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	return nil, repository.ErrNotFound
}
func (r *stubStaffRepo) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	return nil, repository.ErrNotFound
}
func (r *stubStaffRepo) Update(ctx context.Context, s *model.Staff) error { return nil }
func (r *stubStaffRepo) Delete(ctx context.Context, id uuid.UUID) error   { return nil }
func (r *stubStaffRepo) List(ctx context.Context, f *model.StaffFilters) ([]*model.Staff, error) {
	return nil, nil
}
func (r *stubStaffRepo) SetOnDuty(ctx context.Context, id uuid.UUID, onDuty bool) error {
	r.onDuty[id] = onDuty
	return nil
}
func (r *stubStaffRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	return nil
}

type testEnv struct {
	engine    *gin.Engine
	repo      *stubAppointmentRepo
	notifRepo *stubNotificationRepo
	staffRepo *stubStaffRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubAppointmentRepo{rows: make(map[uuid.UUID]*model.Appointment)}
	notifRepo := &stubNotificationRepo{}
	staffRepo := &stubStaffRepo{onDuty: make(map[uuid.UUID]bool)}

	logger := zerolog.Nop()
	notifSvc := notificationService.NewService(notifRepo, nil, notificationService.Config{}, &logger, nil)
	aptSvc := appointmentService.NewService(repo, notifSvc, &logger, nil)
	staffSvc := staffService.NewService(staffRepo, nil, &logger)

	engine := gin.New()
	NewHandler(aptSvc, staffSvc).RegisterRoutes(engine.Group("/api/v1"))

	return &testEnv{engine: engine, repo: repo, notifRepo: notifRepo, staffRepo: staffRepo}
}

func (e *testEnv) seed(status model.AppointmentStatus, doctorID *uuid.UUID) *model.Appointment {
	apt := &model.Appointment{
		PatientName: "Riley Chen",
		Date:        time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		Time:        "10:30",
		ServiceType: "checkup",
		Status:      status,
		DoctorID:    doctorID,
	}
	apt.ID = uuid.New()
	e.repo.rows[apt.ID] = apt
	return apt
}

func (e *testEnv) post(t *testing.T, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func TestApproveEndpoint(t *testing.T) {
	env := newTestEnv(t)
	doctorID := uuid.New()
	apt := env.seed(model.AppointmentStatusPending, &doctorID)

	w := env.post(t, "/api/v1/appointments/"+apt.ID.String()+"/approve", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string            `json:"status"`
		Data   model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, model.AppointmentStatusApproved, resp.Data.Status)
	assert.Equal(t, 1, env.notifRepo.created)
}

func TestApproveInvalidTransitionReturnsConflict(t *testing.T) {
	env := newTestEnv(t)
	apt := env.seed(model.AppointmentStatusCompleted, nil)

	w := env.post(t, "/api/v1/appointments/"+apt.ID.String()+"/approve", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestApproveUnknownIDReturnsNotFound(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/api/v1/appointments/"+uuid.New().String()+"/approve", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApproveMalformedIDReturnsBadRequest(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/api/v1/appointments/not-a-uuid/approve", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotifyFailureStillReturnsSuccess(t *testing.T) {
	env := newTestEnv(t)
	doctorID := uuid.New()
	apt := env.seed(model.AppointmentStatusPending, &doctorID)
	env.notifRepo.fail = true

	w := env.post(t, "/api/v1/appointments/"+apt.ID.String()+"/approve", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status  string            `json:"status"`
		Message string            `json:"message"`
		Data    model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Contains(t, resp.Message, "notification")
	assert.Equal(t, model.AppointmentStatusApproved, resp.Data.Status)

	assert.Equal(t, model.AppointmentStatusApproved, env.repo.rows[apt.ID].Status)
}

func TestStartFlipsDoctorDutyFlag(t *testing.T) {
	env := newTestEnv(t)
	doctorID := uuid.New()
	apt := env.seed(model.AppointmentStatusApproved, &doctorID)

	w := env.post(t, "/api/v1/appointments/"+apt.ID.String()+"/start", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.staffRepo.onDuty[doctorID])
}

func TestRejectEndpointWithReason(t *testing.T) {
	env := newTestEnv(t)
	doctorID := uuid.New()
	apt := env.seed(model.AppointmentStatusPending, &doctorID)

	w := env.post(t, "/api/v1/appointments/"+apt.ID.String()+"/reject", `{"reason":"fully booked"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.AppointmentStatusRejected, resp.Data.Status)
}

func TestRescheduleEndpoint(t *testing.T) {
	env := newTestEnv(t)
	apt := env.seed(model.AppointmentStatusApproved, nil)

	w := env.post(t, "/api/v1/appointments/"+apt.ID.String()+"/reschedule", `{"date":"2026-09-20","time":"15:00"}`)
	require.Equal(t, http.StatusOK, w.Code)

	stored := env.repo.rows[apt.ID]
	assert.Equal(t, "15:00", stored.Time)
	assert.Equal(t, model.AppointmentStatusApproved, stored.Status)
}

func TestCreateEndpointValidation(t *testing.T) {
	env := newTestEnv(t)

	w := env.post(t, "/api/v1/appointments", `{"patient_name":"Riley Chen"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.post(t, "/api/v1/appointments", `{
		"patient_name": "Riley Chen",
		"patient_phone": "555-0133",
		"date": "2026-09-10",
		"time": "10:30",
		"service_type": "checkup"
	}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Data model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.AppointmentStatusPending, resp.Data.Status)
}
