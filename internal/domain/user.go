package domain

import (
	"strings"
	"time"
)

// User is an account that can sign in. Staff accounts (IsStaff) administer
// bookings, users and the service catalog.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	FullName     string
	Phone        string
	RoleID       *string
	IsActive     bool
	IsStaff      bool
	IsSuperuser  bool
	DateJoined   time.Time
	UpdatedAt    time.Time
}

// EmailLocalPart returns the part of an email address before the first '@'.
func EmailLocalPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
