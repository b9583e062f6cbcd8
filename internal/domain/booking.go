package domain

import "time"

// BookingStatus enumerates booking lifecycle states. Completed is terminal.
type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
)

// Booking records one user occupying one slot for a span of time.
// Bookings are never deleted; release completes them and stamps
// ReleaseTime.
type Booking struct {
	ID          string
	UserID      string
	SlotID      string
	BookingTime time.Time
	ReleaseTime *time.Time
	Status      BookingStatus
	CreatedAt   time.Time
}

// Active reports whether the booking has not been released yet.
func (b *Booking) Active() bool {
	return b != nil && b.Status == BookingStatusActive
}

// BookingWithDetails is a booking joined with its referenced slot and
// profile for display.
type BookingWithDetails struct {
	Booking
	Slot    ParkingSlot
	Profile Profile
}
