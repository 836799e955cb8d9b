package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/careops/clinic-api/internal/model"
	"github.com/careops/clinic-api/internal/repository"
	"github.com/careops/clinic-api/pkg/auth"
)

const bcryptCost = 12

type Service struct {
	staffRepo repository.StaffRepository
	jwtSvc    auth.JWTService
}

func NewService(staffRepo repository.StaffRepository, jwtSvc auth.JWTService) *Service {
	return &Service{
		staffRepo: staffRepo,
		jwtSvc:    jwtSvc,
	}
}

func (s *Service) Login(ctx context.Context, email, password string) (*model.TokenResponse, error) {
	staff, err := s.staffRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up staff member: %w", err)
	}

	if staff.Status != model.StaffStatusActive {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	token, err := s.jwtSvc.GenerateAccessToken(staff.ID, staff.Email, staff.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &model.TokenResponse{
		AccessToken: token,
		Staff:       staff,
	}, nil
}

// ValidateToken parses an access token into a Session for downstream calls.
func (s *Service) ValidateToken(ctx context.Context, token string) (*model.Session, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	staffID, err := uuid.Parse(claims.StaffID)
	if err != nil {
		return nil, fmt.Errorf("invalid staff ID in token")
	}

	return &model.Session{
		StaffID: staffID,
		Email:   claims.Email,
		Role:    claims.Role,
	}, nil
}

func (s *Service) ChangePassword(ctx context.Context, session *model.Session, current, newPassword string) error {
	staff, err := s.staffRepo.Get(ctx, session.StaffID)
	if err != nil {
		return fmt.Errorf("failed to get staff member: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(staff.PasswordHash), []byte(current)); err != nil {
		return model.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.staffRepo.UpdatePassword(ctx, staff.ID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}
