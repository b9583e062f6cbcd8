package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/parking-service/internal/domain"
	"github.com/spec-kit/parking-service/internal/events"
	"github.com/spec-kit/parking-service/internal/repository"
	apperrors "github.com/spec-kit/parking-service/pkg/errorutil"
)

// ErrSlotHasActiveBooking rejects deleting a slot somebody currently occupies.
var ErrSlotHasActiveBooking = apperrors.NewConflict("slot has an active booking", nil)

// SlotService handles administrator slot inventory management. Direct
// slot edits bypass the booking protocol; they are raw attribute
// mutations with no booking side effects.
type SlotService struct {
	slots      repository.SlotRepository
	bookings   repository.BookingRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// SlotDependencies bundles requirements for the slot service.
type SlotDependencies struct {
	SlotRepo    repository.SlotRepository
	BookingRepo repository.BookingRepository
	Dispatcher  events.Dispatcher
	Now         func() time.Time
}

// SlotCreateInput describes a new slot.
type SlotCreateInput struct {
	SlotNumber string
	Location   string
	SlotType   domain.SlotType
	Status     domain.SlotStatus
}

// SlotUpdateInput describes an admin slot edit. Nil fields stay unchanged.
type SlotUpdateInput struct {
	SlotNumber *string
	Location   *string
	SlotType   *domain.SlotType
	Status     *domain.SlotStatus
}

// NewSlotService constructs the service.
func NewSlotService(deps SlotDependencies) *SlotService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &SlotService{
		slots:      deps.SlotRepo,
		bookings:   deps.BookingRepo,
		dispatcher: deps.Dispatcher,
		now:        now,
	}
}

// Create adds a slot to the inventory.
func (s *SlotService) Create(ctx context.Context, actor *domain.Profile, input SlotCreateInput) (*domain.ParkingSlot, error) {
	slot := &domain.ParkingSlot{
		SlotNumber: strings.TrimSpace(input.SlotNumber),
		Location:   strings.TrimSpace(input.Location),
		SlotType:   input.SlotType,
		Status:     input.Status,
	}
	if slot.SlotType == "" {
		slot.SlotType = domain.SlotTypeRegular
	}
	if slot.Status == "" {
		slot.Status = domain.SlotStatusFree
	}
	if slot.SlotNumber == "" || slot.Location == "" {
		return nil, apperrors.NewValidationError("slot_number and location required", nil)
	}
	if !slot.SlotType.Valid() {
		return nil, apperrors.NewValidationError("unknown slot type", map[string]any{"slot_type": input.SlotType})
	}
	if !slot.Status.Valid() {
		return nil, apperrors.NewValidationError("unknown slot status", map[string]any{"status": input.Status})
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, actor, events.Event{
		Type:   events.EventSlotCreated,
		SlotID: slot.ID,
		Payload: events.SlotChangedPayload{
			SlotNumber: slot.SlotNumber,
			SlotType:   slot.SlotType,
			Status:     slot.Status,
		},
	})
	return slot, nil
}

// Update edits slot attributes in place.
func (s *SlotService) Update(ctx context.Context, actor *domain.Profile, id string, input SlotUpdateInput) (*domain.ParkingSlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("parking slot", map[string]any{"slot_id": id})
		}
		return nil, err
	}

	if input.SlotNumber != nil {
		slot.SlotNumber = strings.TrimSpace(*input.SlotNumber)
	}
	if input.Location != nil {
		slot.Location = strings.TrimSpace(*input.Location)
	}
	if input.SlotType != nil {
		slot.SlotType = *input.SlotType
	}
	if input.Status != nil {
		slot.Status = *input.Status
	}
	if slot.SlotNumber == "" || slot.Location == "" {
		return nil, apperrors.NewValidationError("slot_number and location required", nil)
	}
	if !slot.SlotType.Valid() {
		return nil, apperrors.NewValidationError("unknown slot type", map[string]any{"slot_type": slot.SlotType})
	}
	if !slot.Status.Valid() {
		return nil, apperrors.NewValidationError("unknown slot status", map[string]any{"status": slot.Status})
	}

	if err := s.slots.Update(ctx, slot); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("parking slot", map[string]any{"slot_id": id})
		}
		return nil, err
	}
	s.publishEvent(ctx, actor, events.Event{
		Type:   events.EventSlotUpdated,
		SlotID: slot.ID,
		Payload: events.SlotChangedPayload{
			SlotNumber: slot.SlotNumber,
			SlotType:   slot.SlotType,
			Status:     slot.Status,
		},
	})
	return slot, nil
}

// Delete removes a slot. A slot with an active booking cannot be
// deleted; the booking must be released first.
func (s *SlotService) Delete(ctx context.Context, actor *domain.Profile, id string) error {
	occupied, err := s.bookings.HasActiveBySlot(ctx, id)
	if err != nil {
		return err
	}
	if occupied {
		return ErrSlotHasActiveBooking
	}

	if err := s.slots.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("parking slot", map[string]any{"slot_id": id})
		}
		return err
	}
	s.publishEvent(ctx, actor, events.Event{
		Type:   events.EventSlotDeleted,
		SlotID: id,
	})
	return nil
}

// Get fetches one slot.
func (s *SlotService) Get(ctx context.Context, id string) (*domain.ParkingSlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NewNotFound("parking slot", map[string]any{"slot_id": id})
	}
	return slot, err
}

// List returns the whole slot inventory ordered by slot number.
func (s *SlotService) List(ctx context.Context) ([]domain.ParkingSlot, error) {
	return s.slots.List(ctx)
}

func (s *SlotService) publishEvent(ctx context.Context, actor *domain.Profile, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = s.now().UTC()
	if actor != nil {
		event.Actor = events.Actor{ProfileID: actor.ID, Role: actor.Role}
	}
	_ = s.dispatcher.Publish(ctx, event)
}
