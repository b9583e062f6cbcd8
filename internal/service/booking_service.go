package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/parking-service/internal/domain"
	"github.com/spec-kit/parking-service/internal/events"
	"github.com/spec-kit/parking-service/internal/repository"
	apperrors "github.com/spec-kit/parking-service/pkg/errorutil"
)

// Booking protocol failures, surfaced to the presentation layer as-is.
var (
	ErrSlotUnavailable     = apperrors.NewConflict("slot is no longer free", nil)
	ErrActiveBookingExists = apperrors.NewConflict("user already has an active booking", nil)
	ErrBookingNotActive    = apperrors.NewConflict("booking is not active", nil)
	ErrNotBookingOwner     = apperrors.NewForbidden("booking belongs to another user")
)

// TxRunner executes a function inside a single store transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error
}

// BookingService implements the slot-booking state transitions: a slot
// and its booking record always change together, inside one
// transaction, with the slot-status write guarded against concurrent
// bookers.
type BookingService struct {
	bookings   repository.BookingRepository
	slots      repository.SlotRepository
	tx         TxRunner
	dispatcher events.Dispatcher
	now        func() time.Time
}

// BookingDependencies bundles requirements for the booking service.
type BookingDependencies struct {
	BookingRepo repository.BookingRepository
	SlotRepo    repository.SlotRepository
	Tx          TxRunner
	Dispatcher  events.Dispatcher
	Now         func() time.Time
}

// NewBookingService constructs the service.
func NewBookingService(deps BookingDependencies) *BookingService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:   deps.BookingRepo,
		slots:      deps.SlotRepo,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// Book reserves a free slot for the user. The booking insert and the
// slot status flip commit together; when another client occupied the
// slot first, the conditional update matches zero rows and the rollback
// compensates the already-inserted booking.
func (s *BookingService) Book(ctx context.Context, userID, slotID string) (*domain.Booking, error) {
	if _, err := s.bookings.GetActiveByUser(ctx, userID); err == nil {
		return nil, ErrActiveBookingExists
	} else if err != pgx.ErrNoRows {
		return nil, err
	}

	slot, err := s.slots.GetByID(ctx, slotID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("parking slot", map[string]any{"slot_id": slotID})
		}
		return nil, err
	}
	if slot.Status != domain.SlotStatusFree {
		return nil, ErrSlotUnavailable
	}

	booking := &domain.Booking{
		UserID:      userID,
		SlotID:      slotID,
		BookingTime: s.now().UTC(),
		Status:      domain.BookingStatusActive,
	}

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.bookings.CreateTx(ctx, tx, booking); err != nil {
			return err
		}
		ok, err := s.slots.TransitionStatusTx(ctx, tx, slotID, domain.SlotStatusFree, domain.SlotStatusOccupied)
		if err != nil {
			return err
		}
		if !ok {
			return ErrSlotUnavailable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	actor := events.Actor{ProfileID: userID, Role: domain.RoleUser}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventBookingCreated,
		SlotID:    slotID,
		BookingID: booking.ID,
		Actor:     actor,
		Payload:   events.BookingCreatedPayload{UserID: userID, SlotID: slotID},
	})
	s.publishEvent(ctx, events.Event{
		Type:      events.EventSlotStatusChanged,
		SlotID:    slotID,
		BookingID: booking.ID,
		Actor:     actor,
		Payload: events.SlotStatusChangedPayload{
			OldStatus: domain.SlotStatusFree,
			NewStatus: domain.SlotStatusOccupied,
		},
	})
	return booking, nil
}

// Release completes an active booking and frees its slot. Only the
// booking owner or an admin may release; a repeated release is rejected
// without touching the slot.
func (s *BookingService) Release(ctx context.Context, caller *domain.Profile, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("booking", map[string]any{"booking_id": bookingID})
		}
		return nil, err
	}
	if booking.UserID != caller.ID && !caller.IsAdmin() {
		return nil, ErrNotBookingOwner
	}
	if !booking.Active() {
		return nil, ErrBookingNotActive
	}

	releaseTime := s.now().UTC()

	err = s.tx.WithTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		ok, err := s.bookings.CompleteTx(ctx, tx, booking.ID, releaseTime)
		if err != nil {
			return err
		}
		if !ok {
			// lost the race against another release of the same booking
			return ErrBookingNotActive
		}
		return s.slots.SetStatusTx(ctx, tx, booking.SlotID, domain.SlotStatusFree)
	})
	if err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatusCompleted
	booking.ReleaseTime = &releaseTime

	actor := events.Actor{ProfileID: caller.ID, Role: caller.Role}
	s.publishEvent(ctx, events.Event{
		Type:      events.EventBookingReleased,
		SlotID:    booking.SlotID,
		BookingID: booking.ID,
		Actor:     actor,
		Payload: events.BookingReleasedPayload{
			UserID:      booking.UserID,
			SlotID:      booking.SlotID,
			ReleaseTime: releaseTime,
		},
	})
	s.publishEvent(ctx, events.Event{
		Type:      events.EventSlotStatusChanged,
		SlotID:    booking.SlotID,
		BookingID: booking.ID,
		Actor:     actor,
		Payload: events.SlotStatusChangedPayload{
			OldStatus: domain.SlotStatusOccupied,
			NewStatus: domain.SlotStatusFree,
		},
	})
	return booking, nil
}

// ActiveBooking returns the user's current active booking, or nil when
// there is none.
func (s *BookingService) ActiveBooking(ctx context.Context, userID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetActiveByUser(ctx, userID)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// ListUserBookings returns the user's booking history joined with slot
// details, newest first.
func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]domain.BookingWithDetails, error) {
	return s.bookings.ListByUserWithDetails(ctx, userID)
}

// ListAllBookings returns every booking joined with slot and profile for
// the admin review view.
func (s *BookingService) ListAllBookings(ctx context.Context) ([]domain.BookingWithDetails, error) {
	return s.bookings.ListWithDetails(ctx)
}

func (s *BookingService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now().UTC()
	_ = s.dispatcher.Publish(ctx, event)
}
