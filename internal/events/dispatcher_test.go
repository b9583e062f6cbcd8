package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherInvokesSubscribedHandlers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received []Event
	dispatcher.Subscribe(EventBookingCreated, func(_ context.Context, event Event) error {
		received = append(received, event)
		return nil
	})

	event := Event{
		ID:        "evt-1",
		Type:      EventBookingCreated,
		SlotID:    "slot-1",
		BookingID: "booking-1",
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	require.Len(t, received, 1)
	assert.Equal(t, "evt-1", received[0].ID)
	assert.Equal(t, "slot-1", received[0].SlotID)
}

func TestDispatcherIgnoresUnrelatedEventTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	called := false
	dispatcher.Subscribe(EventSlotDeleted, func(_ context.Context, _ Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventBookingReleased}))
	assert.False(t, called)
}

func TestDispatcherContinuesPastFailingHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	dispatcher.Subscribe(EventSlotStatusChanged, func(_ context.Context, _ Event) error {
		return errors.New("handler failed")
	})

	secondCalled := false
	dispatcher.Subscribe(EventSlotStatusChanged, func(_ context.Context, _ Event) error {
		secondCalled = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventSlotStatusChanged}))
	assert.True(t, secondCalled)
}

func TestEventTypeCollectionAndOp(t *testing.T) {
	assert.Equal(t, CollectionBookings, EventBookingCreated.Collection())
	assert.Equal(t, ChangeOpInsert, EventBookingCreated.Op())

	assert.Equal(t, CollectionBookings, EventBookingReleased.Collection())
	assert.Equal(t, ChangeOpUpdate, EventBookingReleased.Op())

	assert.Equal(t, CollectionSlots, EventSlotCreated.Collection())
	assert.Equal(t, ChangeOpInsert, EventSlotCreated.Op())

	assert.Equal(t, CollectionSlots, EventSlotDeleted.Collection())
	assert.Equal(t, ChangeOpDelete, EventSlotDeleted.Op())

	assert.Equal(t, CollectionSlots, EventSlotStatusChanged.Collection())
	assert.Equal(t, ChangeOpUpdate, EventSlotStatusChanged.Op())
}
