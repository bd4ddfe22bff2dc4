package domain

import "time"

// Role is a label assigned to staff users for classification.
type Role struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
