package dto

import (
	"time"

	"github.com/spec-kit/parking-service/internal/domain"
)

// BookRequest payload for booking a slot.
type BookRequest struct {
	SlotID string `json:"slot_id" validate:"required,uuid"`
}

// BookingResponse is the wire form of a booking.
type BookingResponse struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	SlotID      string     `json:"slot_id"`
	BookingTime time.Time  `json:"booking_time"`
	ReleaseTime *time.Time `json:"release_time"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// FromBooking converts a domain booking.
func FromBooking(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		SlotID:      b.SlotID,
		BookingTime: b.BookingTime,
		ReleaseTime: b.ReleaseTime,
		Status:      string(b.Status),
		CreatedAt:   b.CreatedAt,
	}
}

// BookingDetailsResponse is a booking joined with its slot and profile
// for display.
type BookingDetailsResponse struct {
	BookingResponse
	Slot    SlotResponse    `json:"parking_slot"`
	Profile ProfileResponse `json:"profile"`
}

// FromBookingDetails converts a joined booking.
func FromBookingDetails(d *domain.BookingWithDetails) BookingDetailsResponse {
	return BookingDetailsResponse{
		BookingResponse: FromBooking(&d.Booking),
		Slot:            FromSlot(&d.Slot),
		Profile:         FromProfile(&d.Profile),
	}
}

// FromBookingDetailsList converts a joined booking list.
func FromBookingDetailsList(list []domain.BookingWithDetails) []BookingDetailsResponse {
	out := make([]BookingDetailsResponse, 0, len(list))
	for i := range list {
		out = append(out, FromBookingDetails(&list[i]))
	}
	return out
}
