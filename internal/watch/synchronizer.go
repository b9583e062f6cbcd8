package watch

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/parking-service/internal/domain"
	"github.com/spec-kit/parking-service/internal/events"
	"github.com/spec-kit/parking-service/internal/repository"
)

// Store is the read side the synchronizer re-derives truth from.
type Store interface {
	ListSlots(ctx context.Context) ([]domain.ParkingSlot, error)
	ListBookings(ctx context.Context) ([]domain.BookingWithDetails, error)
}

// Notifier hands out change-event subscriptions per watched collection.
type Notifier interface {
	Subscribe(ctx context.Context, collection string) (*events.Subscription, error)
}

type repositoryStore struct {
	slots    repository.SlotRepository
	bookings repository.BookingRepository
}

// NewRepositoryStore adapts the repositories to the Store interface.
func NewRepositoryStore(slots repository.SlotRepository, bookings repository.BookingRepository) Store {
	return &repositoryStore{slots: slots, bookings: bookings}
}

func (s *repositoryStore) ListSlots(ctx context.Context) ([]domain.ParkingSlot, error) {
	return s.slots.List(ctx)
}

func (s *repositoryStore) ListBookings(ctx context.Context) ([]domain.BookingWithDetails, error) {
	return s.bookings.ListWithDetails(ctx)
}

// Synchronizer keeps in-memory views of the slot and booking collections
// eventually consistent with the store. On any change notification for a
// watched collection it re-fetches that collection in full and replaces
// the cached view wholesale; events are never interpreted as deltas.
// A failed re-fetch keeps the previous cache until the next successful
// one.
type Synchronizer struct {
	store    Store
	notifier Notifier
	logger   *zap.Logger

	mu       sync.RWMutex
	slots    []domain.ParkingSlot
	bookings []domain.BookingWithDetails

	watchMu     sync.Mutex
	watchers    map[int]chan events.ChangeEvent
	nextWatcher int
	stopped     bool

	subs []*events.Subscription
	wg   sync.WaitGroup
}

// NewSynchronizer constructs the synchronizer.
func NewSynchronizer(store Store, notifier Notifier, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{
		store:    store,
		notifier: notifier,
		logger:   logger,
		watchers: make(map[int]chan events.ChangeEvent),
	}
}

// Start performs one full fetch per watched collection and opens one
// change subscription per collection. It fails when the initial fetch or
// a subscription cannot be established.
func (s *Synchronizer) Start(ctx context.Context) error {
	for _, collection := range []string{events.CollectionSlots, events.CollectionBookings} {
		if err := s.refetch(ctx, collection); err != nil {
			return err
		}
	}

	for _, collection := range []string{events.CollectionSlots, events.CollectionBookings} {
		sub, err := s.notifier.Subscribe(ctx, collection)
		if err != nil {
			s.Stop()
			return err
		}
		s.subs = append(s.subs, sub)
		s.wg.Add(1)
		go s.watchCollection(ctx, collection, sub)
	}
	return nil
}

// Stop closes all subscriptions and watcher channels. Each subscription
// is released independently; closing one never affects another.
func (s *Synchronizer) Stop() {
	for _, sub := range s.subs {
		_ = sub.Close()
	}
	s.wg.Wait()

	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	for id, ch := range s.watchers {
		close(ch)
		delete(s.watchers, id)
	}
}

// Slots returns the cached slot inventory.
func (s *Synchronizer) Slots() []domain.ParkingSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.ParkingSlot, len(s.slots))
	copy(out, s.slots)
	return out
}

// Bookings returns the cached booking collection joined with details.
func (s *Synchronizer) Bookings() []domain.BookingWithDetails {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.BookingWithDetails, len(s.bookings))
	copy(out, s.bookings)
	return out
}

// Watch registers an observer that is notified after each cache refresh.
// The returned cancel function releases only this observer.
func (s *Synchronizer) Watch() (<-chan events.ChangeEvent, func()) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()

	id := s.nextWatcher
	s.nextWatcher++
	ch := make(chan events.ChangeEvent, 8)
	if s.stopped {
		close(ch)
		return ch, func() {}
	}
	s.watchers[id] = ch

	cancel := func() {
		s.watchMu.Lock()
		defer s.watchMu.Unlock()
		if got, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(got)
		}
	}
	return ch, cancel
}

func (s *Synchronizer) watchCollection(ctx context.Context, collection string, sub *events.Subscription) {
	defer s.wg.Done()
	for event := range sub.Events() {
		if err := s.refetch(ctx, collection); err != nil {
			s.logger.Warn("re-fetch failed, keeping previous cache",
				zap.String("collection", collection), zap.Error(err))
			continue
		}
		s.broadcast(event)
	}
}

func (s *Synchronizer) refetch(ctx context.Context, collection string) error {
	switch collection {
	case events.CollectionSlots:
		slots, err := s.store.ListSlots(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.slots = slots
		s.mu.Unlock()
	case events.CollectionBookings:
		bookings, err := s.store.ListBookings(ctx)
		if err != nil {
			return err
		}
		s.mu.Lock()
		s.bookings = bookings
		s.mu.Unlock()
	}
	return nil
}

func (s *Synchronizer) broadcast(event events.ChangeEvent) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for _, ch := range s.watchers {
		select {
		case ch <- event:
		default:
			// observer is behind; the next event still forces a re-fetch
		}
	}
}
