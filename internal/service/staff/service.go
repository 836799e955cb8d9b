package staff

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/careops/clinic-api/internal/email"
	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
)

const bcryptCost = 12

var ErrEmailTaken = errors.New("email already registered")

type Service struct {
	repo     repository.StaffRepository
	emailSvc email.Service
	logger   *zerolog.Logger
}

func NewService(repo repository.StaffRepository, emailSvc email.Service, logger *zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		emailSvc: emailSvc,
		logger:   logger,
	}
}

// CreateStaff registers a new staff member. Admin-only; the handler enforces
// the role check. The welcome email is best-effort.
func (s *Service) CreateStaff(ctx context.Context, staff *model.Staff) error {
	existing, err := s.repo.GetByEmail(ctx, staff.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(staff.Password), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	staff.PasswordHash = string(hash)
	staff.Password = ""
	if staff.Status == "" {
		staff.Status = model.StaffStatusActive
	}

	if err := s.repo.Create(ctx, staff); err != nil {
		return fmt.Errorf("failed to create staff member: %w", err)
	}

	if s.emailSvc != nil {
		if err := s.emailSvc.SendWelcome(ctx, staff.Email, staff.Name); err != nil {
			s.logger.Warn().Err(err).Str("email", staff.Email).Msg("welcome email failed")
		}
	}

	return nil
}

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*model.Staff, error) {
	staff, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff member: %w", err)
	}
	return staff, nil
}

func (s *Service) UpdateStaff(ctx context.Context, staff *model.Staff) error {
	if err := s.repo.Update(ctx, staff); err != nil {
		return fmt.Errorf("failed to update staff member: %w", err)
	}
	return nil
}

func (s *Service) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete staff member: %w", err)
	}
	return nil
}

func (s *Service) ListStaff(ctx context.Context, filters *model.StaffFilters) ([]*model.Staff, error) {
	staff, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	return staff, nil
}

// SetOnDuty flips a staff member's duty flag. Called alongside the start of
// an appointment; the workflow does not flip it itself.
func (s *Service) SetOnDuty(ctx context.Context, id uuid.UUID, onDuty bool) error {
	if err := s.repo.SetOnDuty(ctx, id, onDuty); err != nil {
		return fmt.Errorf("failed to set duty flag: %w", err)
	}
	return nil
}
