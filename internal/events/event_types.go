package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/booking-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBookingCreated         EventType = "booking_created"
	EventBookingUpdated         EventType = "booking_updated"
	EventBookingStatusChanged   EventType = "booking_status_changed"
	EventBookingDeleted         EventType = "booking_deleted"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventPasswordResetCompleted EventType = "password_reset_completed"
)

// Event represents a domain event emitted by services.
// SubjectID is the booking id or user id the event concerns.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	ActorID   *string   `json:"actor_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// New stamps an event with a fresh id.
func New(eventType EventType, subjectID string, actorID *string, at time.Time, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		ActorID:   actorID,
		Timestamp: at.UTC(),
		Payload:   payload,
	}
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	BookingID       string    `json:"booking_id"`
	ClientName      string    `json:"client_name"`
	ServiceTypeID   *string   `json:"service_type_id,omitempty"`
	SessionDateTime time.Time `json:"session_datetime"`
}

// BookingUpdatedPayload lists the fields an update wrote.
type BookingUpdatedPayload struct {
	BookingID string   `json:"booking_id"`
	Fields    []string `json:"fields"`
}

// BookingStatusChangedPayload payload.
type BookingStatusChangedPayload struct {
	BookingID string               `json:"booking_id"`
	OldStatus domain.BookingStatus `json:"old_status"`
	NewStatus domain.BookingStatus `json:"new_status"`
}

// BookingDeletedPayload payload.
type BookingDeletedPayload struct {
	BookingID string `json:"booking_id"`
}

// PasswordResetPayload payload. The code itself is never carried.
type PasswordResetPayload struct {
	Email     string     `json:"email"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}
