package dto

import (
	"time"

	"github.com/spec-kit/parking-service/internal/domain"
)

// SlotCreateRequest payload for adding a slot.
type SlotCreateRequest struct {
	SlotNumber string `json:"slot_number" validate:"required"`
	Location   string `json:"location" validate:"required"`
	SlotType   string `json:"slot_type" validate:"omitempty,oneof=regular compact handicapped electric"`
	Status     string `json:"status" validate:"omitempty,oneof=free occupied reserved"`
}

// SlotUpdateRequest payload for editing a slot. Absent fields stay
// unchanged.
type SlotUpdateRequest struct {
	SlotNumber *string `json:"slot_number" validate:"omitempty,min=1"`
	Location   *string `json:"location" validate:"omitempty,min=1"`
	SlotType   *string `json:"slot_type" validate:"omitempty,oneof=regular compact handicapped electric"`
	Status     *string `json:"status" validate:"omitempty,oneof=free occupied reserved"`
}

// SlotResponse is the wire form of a parking slot.
type SlotResponse struct {
	ID         string    `json:"id"`
	SlotNumber string    `json:"slot_number"`
	Location   string    `json:"location"`
	SlotType   string    `json:"slot_type"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FromSlot converts a domain slot.
func FromSlot(s *domain.ParkingSlot) SlotResponse {
	return SlotResponse{
		ID:         s.ID,
		SlotNumber: s.SlotNumber,
		Location:   s.Location,
		SlotType:   string(s.SlotType),
		Status:     string(s.Status),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}

// FromSlots converts a slot list.
func FromSlots(slots []domain.ParkingSlot) []SlotResponse {
	out := make([]SlotResponse, 0, len(slots))
	for i := range slots {
		out = append(out, FromSlot(&slots[i]))
	}
	return out
}
