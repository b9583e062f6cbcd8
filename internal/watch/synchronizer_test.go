package watch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/parking-service/internal/domain"
	"github.com/spec-kit/parking-service/internal/events"
)

type fakeStore struct {
	mu          sync.Mutex
	slots       []domain.ParkingSlot
	bookings    []domain.BookingWithDetails
	failSlots   bool
	slotFetches int
}

func (s *fakeStore) ListSlots(_ context.Context) ([]domain.ParkingSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slotFetches++
	if s.failSlots {
		return nil, errors.New("store unavailable")
	}
	out := make([]domain.ParkingSlot, len(s.slots))
	copy(out, s.slots)
	return out, nil
}

func (s *fakeStore) ListBookings(_ context.Context) ([]domain.BookingWithDetails, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.BookingWithDetails, len(s.bookings))
	copy(out, s.bookings)
	return out, nil
}

func (s *fakeStore) setSlots(slots []domain.ParkingSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots = slots
}

func (s *fakeStore) setFailSlots(fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failSlots = fail
}

func (s *fakeStore) fetches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.slotFetches
}

type fakeNotifier struct {
	mu       sync.Mutex
	channels map[string]chan events.ChangeEvent
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{channels: make(map[string]chan events.ChangeEvent)}
}

func (n *fakeNotifier) Subscribe(_ context.Context, collection string) (*events.Subscription, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := make(chan events.ChangeEvent, 8)
	n.channels[collection] = ch
	return events.NewSubscription(ch, func() error {
		close(ch)
		return nil
	}), nil
}

func (n *fakeNotifier) emit(collection string, op events.ChangeOp) {
	n.mu.Lock()
	ch := n.channels[collection]
	n.mu.Unlock()
	ch <- events.ChangeEvent{Collection: collection, Op: op, Timestamp: time.Now().UTC()}
}

func slotFixture(id, number string, status domain.SlotStatus) domain.ParkingSlot {
	return domain.ParkingSlot{ID: id, SlotNumber: number, Location: "L1", SlotType: domain.SlotTypeRegular, Status: status}
}

func startSynchronizer(t *testing.T, store *fakeStore) (*Synchronizer, *fakeNotifier) {
	t.Helper()
	notifier := newFakeNotifier()
	syncer := NewSynchronizer(store, notifier, zap.NewNop())
	require.NoError(t, syncer.Start(context.Background()))
	t.Cleanup(syncer.Stop)
	return syncer, notifier
}

func TestStart_PrimesCaches(t *testing.T) {
	store := &fakeStore{
		slots: []domain.ParkingSlot{
			slotFixture("s1", "A-101", domain.SlotStatusFree),
			slotFixture("s2", "A-102", domain.SlotStatusOccupied),
		},
		bookings: []domain.BookingWithDetails{
			{Booking: domain.Booking{ID: "b1", SlotID: "s2", Status: domain.BookingStatusActive}},
		},
	}

	syncer, _ := startSynchronizer(t, store)

	assert.Len(t, syncer.Slots(), 2)
	assert.Len(t, syncer.Bookings(), 1)
}

func TestChangeNotificationTriggersFullRefetch(t *testing.T) {
	store := &fakeStore{
		slots: []domain.ParkingSlot{slotFixture("s1", "A-101", domain.SlotStatusFree)},
	}

	syncer, notifier := startSynchronizer(t, store)

	store.setSlots([]domain.ParkingSlot{slotFixture("s1", "A-101", domain.SlotStatusOccupied)})
	notifier.emit(events.CollectionSlots, events.ChangeOpUpdate)

	require.Eventually(t, func() bool {
		slots := syncer.Slots()
		return len(slots) == 1 && slots[0].Status == domain.SlotStatusOccupied
	}, time.Second, 10*time.Millisecond)
}

func TestWatcherNotifiedAfterRefresh(t *testing.T) {
	store := &fakeStore{}
	syncer, notifier := startSynchronizer(t, store)

	ch, cancel := syncer.Watch()
	defer cancel()

	notifier.emit(events.CollectionBookings, events.ChangeOpInsert)

	select {
	case event := <-ch:
		assert.Equal(t, events.CollectionBookings, event.Collection)
		assert.Equal(t, events.ChangeOpInsert, event.Op)
	case <-time.After(time.Second):
		t.Fatal("expected a change event")
	}
}

func TestFailedRefetchKeepsPreviousCache(t *testing.T) {
	store := &fakeStore{
		slots: []domain.ParkingSlot{slotFixture("s1", "A-101", domain.SlotStatusFree)},
	}
	syncer, notifier := startSynchronizer(t, store)
	before := store.fetches()

	store.setFailSlots(true)
	notifier.emit(events.CollectionSlots, events.ChangeOpUpdate)

	require.Eventually(t, func() bool {
		return store.fetches() > before
	}, time.Second, 10*time.Millisecond)

	slots := syncer.Slots()
	require.Len(t, slots, 1)
	assert.Equal(t, domain.SlotStatusFree, slots[0].Status)
}

func TestCancelReleasesOnlyOneWatcher(t *testing.T) {
	store := &fakeStore{}
	syncer, notifier := startSynchronizer(t, store)

	ch1, cancel1 := syncer.Watch()
	ch2, cancel2 := syncer.Watch()
	defer cancel2()

	cancel1()
	if _, ok := <-ch1; ok {
		t.Fatal("cancelled watcher channel should be closed")
	}

	notifier.emit(events.CollectionSlots, events.ChangeOpDelete)

	select {
	case event := <-ch2:
		assert.Equal(t, events.CollectionSlots, event.Collection)
	case <-time.After(time.Second):
		t.Fatal("remaining watcher should still receive events")
	}
}
