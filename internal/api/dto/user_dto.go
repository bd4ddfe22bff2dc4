package dto

import (
	"time"

	"github.com/spec-kit/booking-service/internal/domain"
)

// UserCreateRequest is an admin-created account.
type UserCreateRequest struct {
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password *string `json:"password"`
	FullName string  `json:"full_name" validate:"max=255"`
	Phone    string  `json:"phone" validate:"max=20"`
	Roles    *string `json:"roles" validate:"omitempty,uuid"`
	IsActive *bool   `json:"is_active"`
	IsStaff  bool    `json:"is_staff"`
}

// UserUpdateRequest is a full or partial account update. id, username and
// date_joined are read-only and ignored.
type UserUpdateRequest struct {
	Email    *string        `json:"email" validate:"omitempty,email,max=254"`
	Password *string        `json:"password"`
	FullName *string        `json:"full_name" validate:"omitempty,max=255"`
	Phone    *string        `json:"phone" validate:"omitempty,max=20"`
	Roles    NullableString `json:"roles"`
	IsActive *bool          `json:"is_active"`
	IsStaff  *bool          `json:"is_staff"`
}

// UserResponse is the admin view of an account. The password is never exposed.
type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Roles      *string   `json:"roles"`
	IsActive   bool      `json:"is_active"`
	IsStaff    bool      `json:"is_staff"`
	DateJoined time.Time `json:"date_joined"`
	Username   string    `json:"username"`
	Phone      string    `json:"phone"`
}

// NewUserResponse maps a user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FullName:   user.FullName,
		Roles:      user.RoleID,
		IsActive:   user.IsActive,
		IsStaff:    user.IsStaff,
		DateJoined: user.DateJoined,
		Username:   user.Username,
		Phone:      user.Phone,
	}
}

// NewUserResponses maps a slice of users.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// UserListQuery holds admin user list filters.
type UserListQuery struct {
	IsActive *bool  `query:"is_active"`
	Search   string `query:"search"`
	Page     int    `query:"page" validate:"omitempty,gte=1"`
	PageSize int    `query:"page_size" validate:"omitempty,gte=1"`
}
