package domain

import "time"

// ServiceType is a catalog entry describing a kind of offered service.
type ServiceType struct {
	ID          string
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
