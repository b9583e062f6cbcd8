package domain

import "time"

// SlotType enumerates the physical kind of a parking space.
type SlotType string

const (
	SlotTypeRegular     SlotType = "regular"
	SlotTypeCompact     SlotType = "compact"
	SlotTypeHandicapped SlotType = "handicapped"
	SlotTypeElectric    SlotType = "electric"
)

// Valid reports whether the slot type is a known enumeration value.
func (t SlotType) Valid() bool {
	switch t {
	case SlotTypeRegular, SlotTypeCompact, SlotTypeHandicapped, SlotTypeElectric:
		return true
	}
	return false
}

// SlotStatus enumerates observable slot states. Reserved is an
// administrator-only manual state; the booking flow never enters or
// exits it.
type SlotStatus string

const (
	SlotStatusFree     SlotStatus = "free"
	SlotStatusOccupied SlotStatus = "occupied"
	SlotStatusReserved SlotStatus = "reserved"
)

// Valid reports whether the status is a known enumeration value.
func (s SlotStatus) Valid() bool {
	switch s {
	case SlotStatusFree, SlotStatusOccupied, SlotStatusReserved:
		return true
	}
	return false
}

// ParkingSlot is the aggregate for a bookable parking space. Status must
// reflect the aggregate of active bookings against the slot: occupied
// means exactly one active booking references it, free means none.
type ParkingSlot struct {
	ID         string
	SlotNumber string
	Location   string
	SlotType   SlotType
	Status     SlotStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
