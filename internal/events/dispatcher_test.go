package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	var got []Event
	d.Subscribe(EventBookingCreated, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	d.Subscribe(EventBookingCreated, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})

	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.FixedZone("x", 3600))
	d.Publish(context.Background(), New(EventBookingCreated, "b-1", nil, at, BookingCreatedPayload{BookingID: "APPT-AAAA0000"}))
	d.Publish(context.Background(), New(EventBookingDeleted, "b-1", nil, at, nil))

	require.Len(t, got, 2)
	assert.Equal(t, "b-1", got[0].SubjectID)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, time.UTC, got[0].Timestamp.Location())
}

func TestDispatcherLogsHandlerErrors(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))

	calls := 0
	d.Subscribe(EventPasswordResetRequested, func(context.Context, Event) error {
		calls++
		return errors.New("sink unavailable")
	})
	d.Subscribe(EventPasswordResetRequested, func(context.Context, Event) error {
		calls++
		return nil
	})

	d.Publish(context.Background(), New(EventPasswordResetRequested, "u-1", nil, time.Now(), PasswordResetPayload{Email: "a@b.com"}))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
}

func TestNopDispatcher(t *testing.T) {
	d := Nop()
	d.Subscribe(EventBookingCreated, func(context.Context, Event) error {
		t.Fatal("nop dispatcher must not deliver")
		return nil
	})
	d.Publish(context.Background(), New(EventBookingCreated, "b-1", nil, time.Now(), nil))
}
