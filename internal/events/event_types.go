package events

import (
	"time"

	"github.com/spec-kit/parking-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBookingCreated    EventType = "booking_created"
	EventBookingReleased   EventType = "booking_released"
	EventSlotCreated       EventType = "slot_created"
	EventSlotUpdated       EventType = "slot_updated"
	EventSlotDeleted       EventType = "slot_deleted"
	EventSlotStatusChanged EventType = "slot_status_changed"
)

// Collection names the watched collection an event type belongs to.
func (t EventType) Collection() string {
	switch t {
	case EventBookingCreated, EventBookingReleased:
		return CollectionBookings
	default:
		return CollectionSlots
	}
}

// Op maps the event type onto the store operation it describes.
func (t EventType) Op() ChangeOp {
	switch t {
	case EventBookingCreated, EventSlotCreated:
		return ChangeOpInsert
	case EventSlotDeleted:
		return ChangeOpDelete
	default:
		return ChangeOpUpdate
	}
}

// Actor encapsulates actor metadata for an event.
type Actor struct {
	ProfileID string      `json:"profile_id"`
	Role      domain.Role `json:"role"`
}

// Event represents a domain event emitted by services after a committed
// mutation.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SlotID    string      `json:"slot_id,omitempty"`
	BookingID string      `json:"booking_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BookingCreatedPayload payload.
type BookingCreatedPayload struct {
	UserID string `json:"user_id"`
	SlotID string `json:"slot_id"`
}

// BookingReleasedPayload payload.
type BookingReleasedPayload struct {
	UserID      string    `json:"user_id"`
	SlotID      string    `json:"slot_id"`
	ReleaseTime time.Time `json:"release_time"`
}

// SlotStatusChangedPayload payload.
type SlotStatusChangedPayload struct {
	OldStatus domain.SlotStatus `json:"old_status"`
	NewStatus domain.SlotStatus `json:"new_status"`
}

// SlotChangedPayload payload for admin slot edits.
type SlotChangedPayload struct {
	SlotNumber string            `json:"slot_number"`
	SlotType   domain.SlotType   `json:"slot_type"`
	Status     domain.SlotStatus `json:"status"`
}
