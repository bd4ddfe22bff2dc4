package dto

import (
	"time"

	"github.com/spec-kit/booking-service/internal/domain"
)

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPairResponse is returned on login.
type TokenPairResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RefreshRequest exchanges a refresh token for a new access token.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// AccessResponse carries a refreshed access token.
type AccessResponse struct {
	Access string `json:"access"`
}

// VerifyRequest checks a token of either type.
type VerifyRequest struct {
	Token string `json:"token" validate:"required"`
}

// SignupRequest payload for self registration.
type SignupRequest struct {
	FullName string `json:"full_name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
}

// SignupResponse wraps the created account.
type SignupResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

// ProfileResponse is the authenticated user's own view of the account.
type ProfileResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Roles       *string   `json:"roles"`
	DateJoined  time.Time `json:"date_joined"`
	IsSuperuser bool      `json:"is_superuser"`
}

// NewProfileResponse maps a user.
func NewProfileResponse(user *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Roles:       user.RoleID,
		DateJoined:  user.DateJoined,
		IsSuperuser: user.IsSuperuser,
	}
}

// MessageResponse is a plain confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}
