package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/parking-service/internal/events"
)

// StartChangeRelay forwards committed domain events onto the
// cross-process change-notification channel. Subscribers only learn
// which collection changed; the relay strips everything else.
func StartChangeRelay(dispatcher events.Dispatcher, notifier events.ChangeNotifier, logger *zap.Logger) {
	if dispatcher == nil || notifier == nil {
		return
	}

	relay := func(ctx context.Context, event events.Event) error {
		change := events.ChangeEvent{
			Collection: event.Type.Collection(),
			Op:         event.Type.Op(),
			Timestamp:  event.Timestamp,
		}
		if err := notifier.Publish(ctx, change); err != nil {
			logger.Warn("failed to publish change notification",
				zap.String("collection", change.Collection),
				zap.String("op", string(change.Op)),
				zap.Error(err))
		}
		return nil
	}

	for _, eventType := range []events.EventType{
		events.EventBookingCreated,
		events.EventBookingReleased,
		events.EventSlotCreated,
		events.EventSlotUpdated,
		events.EventSlotDeleted,
		events.EventSlotStatusChanged,
	} {
		dispatcher.Subscribe(eventType, relay)
	}
}
