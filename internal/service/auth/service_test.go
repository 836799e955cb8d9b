package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	jwtauth "github.com/careops/clinic-api/pkg/auth"
)

type fakeStaffRepo struct {
	byEmail map[string]*model.Staff
	byID    map[uuid.UUID]*model.Staff
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{
		byEmail: make(map[string]*model.Staff),
		byID:    make(map[uuid.UUID]*model.Staff),
	}
}

func (r *fakeStaffRepo) add(s *model.Staff) {
	r.byEmail[s.Email] = s
	r.byID[s.ID] = s
}

func (r *fakeStaffRepo) Create(ctx context.Context, s *model.Staff) error {
	s.ID = uuid.New()
	r.add(s)
	return nil
}

func (r *fakeStaffRepo) Get(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *fakeStaffRepo) GetByEmail(ctx context.Context, email string) (*model.Staff, error) {
	s, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *fakeStaffRepo) Update(ctx context.Context, s *model.Staff) error { return nil }
func (r *fakeStaffRepo) Delete(ctx context.Context, id uuid.UUID) error   { return nil }
func (r *fakeStaffRepo) List(ctx context.Context, f *model.StaffFilters) ([]*model.Staff, error) {
	return nil, nil
}
func (r *fakeStaffRepo) SetOnDuty(ctx context.Context, id uuid.UUID, onDuty bool) error { return nil }

func (r *fakeStaffRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	s, ok := r.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.PasswordHash = hash
	return nil
}

func seedStaff(t *testing.T, repo *fakeStaffRepo, email, password, role, status string) *model.Staff {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	s := &model.Staff{
		Name:         "Dr. Sam Okafor",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Status:       status,
	}
	s.ID = uuid.New()
	repo.add(s)
	return s
}

func newTestService(repo *fakeStaffRepo) *Service {
	jwtSvc := jwtauth.NewJWTService("test-secret", time.Hour)
	return NewService(repo, jwtSvc)
}

func TestLoginSuccess(t *testing.T) {
	repo := newFakeStaffRepo()
	staff := seedStaff(t, repo, "sam@clinic.test", "correct horse", model.StaffRoleAdmin, model.StaffStatusActive)
	svc := newTestService(repo)

	resp, err := svc.Login(context.Background(), "sam@clinic.test", "correct horse")
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, staff.ID, resp.Staff.ID)

	session, err := svc.ValidateToken(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, staff.ID, session.StaffID)
	assert.Equal(t, staff.Email, session.Email)
	assert.True(t, session.IsAdmin())
}

func TestLoginFailures(t *testing.T) {
	repo := newFakeStaffRepo()
	seedStaff(t, repo, "sam@clinic.test", "correct horse", model.StaffRoleStaff, model.StaffStatusActive)
	seedStaff(t, repo, "gone@clinic.test", "whatever pw", model.StaffRoleStaff, model.StaffStatusInactive)
	svc := newTestService(repo)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "sam@clinic.test", "wrong"},
		{"unknown email", "nobody@clinic.test", "correct horse"},
		{"inactive account", "gone@clinic.test", "whatever pw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), tt.email, tt.password)
			assert.ErrorIs(t, err, model.ErrInvalidCredentials)
		})
	}
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := newTestService(newFakeStaffRepo())

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.Error(t, err)
}

func TestChangePassword(t *testing.T) {
	repo := newFakeStaffRepo()
	staff := seedStaff(t, repo, "sam@clinic.test", "old password", model.StaffRoleStaff, model.StaffStatusActive)
	svc := newTestService(repo)

	session := &model.Session{StaffID: staff.ID, Email: staff.Email, Role: staff.Role}

	err := svc.ChangePassword(context.Background(), session, "wrong", "new password")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	err = svc.ChangePassword(context.Background(), session, "old password", "new password")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), "sam@clinic.test", "new password")
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), "sam@clinic.test", "old password")
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}
