package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/parking-service/internal/config"
)

// Watched collection names, matching the store tables.
const (
	CollectionSlots    = "parking_slots"
	CollectionBookings = "bookings"
)

// ChangeOp enumerates the store operation a change notification reports.
type ChangeOp string

const (
	ChangeOpInsert ChangeOp = "insert"
	ChangeOpUpdate ChangeOp = "update"
	ChangeOpDelete ChangeOp = "delete"
)

// ChangeEvent signals that some row in a watched collection changed.
// Subscribers must re-derive truth by re-fetching the collection; the
// event carries no row payload.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	Op         ChangeOp  `json:"op"`
	Timestamp  time.Time `json:"ts"`
}

// Subscription is a cancellation handle over a stream of change events.
// Close releases the underlying channel without affecting other
// subscriptions.
type Subscription struct {
	ch     chan ChangeEvent
	cancel func() error
	once   sync.Once
	err    error
}

// NewSubscription wraps an event channel with a cancel function.
func NewSubscription(ch chan ChangeEvent, cancel func() error) *Subscription {
	return &Subscription{ch: ch, cancel: cancel}
}

// Events returns the stream of change notifications. The channel is
// closed after Close.
func (s *Subscription) Events() <-chan ChangeEvent {
	return s.ch
}

// Close cancels the subscription. Safe to call more than once.
func (s *Subscription) Close() error {
	s.once.Do(func() {
		if s.cancel != nil {
			s.err = s.cancel()
		}
	})
	return s.err
}

// ChangeNotifier is the cross-process change-notification channel:
// fire-and-forget notifications fanned out to every subscriber of a
// watched collection.
type ChangeNotifier interface {
	Publish(ctx context.Context, event ChangeEvent) error
	Subscribe(ctx context.Context, collection string) (*Subscription, error)
}

// RedisNotifier implements ChangeNotifier over Redis pub/sub with one
// channel per collection.
type RedisNotifier struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

// NewRedisNotifier constructs the notifier.
func NewRedisNotifier(client *redis.Client, cfg config.ChangeFeedConfig, logger *zap.Logger) *RedisNotifier {
	return &RedisNotifier{client: client, prefix: cfg.ChannelPrefix, logger: logger}
}

func (n *RedisNotifier) channel(collection string) string {
	return n.prefix + ":" + collection
}

// Publish broadcasts a change event to all subscribers of its collection.
func (n *RedisNotifier) Publish(ctx context.Context, event ChangeEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return n.client.Publish(ctx, n.channel(event.Collection), payload).Err()
}

// Subscribe opens an independent pub/sub channel for the collection.
func (n *RedisNotifier) Subscribe(ctx context.Context, collection string) (*Subscription, error) {
	pubsub := n.client.Subscribe(ctx, n.channel(collection))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	ch := make(chan ChangeEvent, 16)
	go func() {
		defer close(ch)
		for msg := range pubsub.Channel() {
			var event ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				n.logger.Warn("malformed change notification",
					zap.String("collection", collection), zap.Error(err))
				continue
			}
			select {
			case ch <- event:
			default:
				// slow consumer; dropping is fine, any event just
				// triggers a full re-fetch
			}
		}
	}()

	return NewSubscription(ch, pubsub.Close), nil
}
