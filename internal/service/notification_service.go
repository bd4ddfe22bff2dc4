package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/booking-service/internal/events"
)

// NotificationService turns domain events into audit log entries.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventBookingCreated, n.handleBookingCreated)
	n.dispatcher.Subscribe(events.EventBookingUpdated, n.audit)
	n.dispatcher.Subscribe(events.EventBookingStatusChanged, n.handleBookingStatusChanged)
	n.dispatcher.Subscribe(events.EventBookingDeleted, n.audit)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.audit)
	n.dispatcher.Subscribe(events.EventPasswordResetCompleted, n.audit)
}

func (n *NotificationService) handleBookingCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.BookingCreatedPayload)
	if !ok {
		return n.audit(ctx, event)
	}
	n.logger.Info("BookingCreated",
		zap.String("event_id", event.ID),
		zap.String("id", event.SubjectID),
		zap.String("booking_id", payload.BookingID),
		zap.Time("session_datetime", payload.SessionDateTime))
	return nil
}

func (n *NotificationService) handleBookingStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.BookingStatusChangedPayload)
	if !ok {
		return n.audit(ctx, event)
	}
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("id", event.SubjectID),
		zap.String("booking_id", payload.BookingID),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", *event.ActorID))
	}
	n.logger.Info("BookingStatusChanged", fields...)
	return nil
}

func (n *NotificationService) audit(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("subject_id", event.SubjectID),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload),
	}
	if event.ActorID != nil {
		fields = append(fields, zap.String("actor_id", *event.ActorID))
	}
	n.logger.Info("audit", fields...)
	return nil
}
