package domain

import (
	"fmt"
	"strings"
	"time"
)

// BookingStatus enumerates lifecycle states for a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// PaymentStatus enumerates payment states for a booking.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusUnpaid    PaymentStatus = "unpaid"
	PaymentStatusCompleted PaymentStatus = "completed"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusUnpaid, PaymentStatusCompleted:
		return true
	}
	return false
}

// BookingIDPrefix starts every public booking identifier.
const BookingIDPrefix = "APPT-"

// Booking is a scheduled appointment. ID is the internal key; BookingID is the
// public identifier handed to clients and is never changed after creation.
type Booking struct {
	ID              string
	BookingID       string
	ClientName      string
	Phone           string
	ServiceTypeID   *string
	ServiceTypeName *string
	SessionDateTime time.Time
	StartTime       string
	EndTime         string
	Duration        int
	Message         *string
	Status          BookingStatus
	PaymentStatus   PaymentStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Dashboard is the admin overview, recomputed on every request.
type Dashboard struct {
	TotalUsers    int64
	TotalBookings int64
	Bookings      []Booking
}

// DefaultClock is the start and end time of a booking when none is given.
const DefaultClock = "00:00:00"

// NormalizeClock accepts "HH:MM" or "HH:MM:SS" and returns "HH:MM:SS".
func NormalizeClock(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", fmt.Errorf("invalid time of day %q", value)
}
