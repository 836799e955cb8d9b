package model

import (
	"errors"

	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Staff       *Staff `json:"staff"`
}

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Session identifies the authenticated caller. It is built by the auth
// middleware from token claims and passed explicitly to services; there is no
// ambient current-user state.
type Session struct {
	StaffID uuid.UUID
	Email   string
	Role    string
}

// IsAdmin reports whether the session belongs to an admin user.
func (s *Session) IsAdmin() bool {
	return s != nil && s.Role == StaffRoleAdmin
}
