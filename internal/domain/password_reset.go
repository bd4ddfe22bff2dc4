package domain

import "time"

// PasswordResetOTP is a short-lived numeric code authorizing a password change.
type PasswordResetOTP struct {
	ID        string
	UserID    string
	Code      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the code has lapsed at now.
func (o *PasswordResetOTP) Expired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
