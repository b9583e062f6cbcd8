package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/parking-service/internal/domain"
	"github.com/spec-kit/parking-service/internal/events"
	apperrors "github.com/spec-kit/parking-service/pkg/errorutil"
)

func adminProfile() *domain.Profile {
	return &domain.Profile{ID: "admin-1", Role: domain.RoleAdmin}
}

func TestCreateSlot_AppliesDefaults(t *testing.T) {
	var created *domain.ParkingSlot
	slots := &mockSlotRepo{
		createFunc: func(_ context.Context, slot *domain.ParkingSlot) error {
			slot.ID = "slot-1"
			created = slot
			return nil
		},
	}
	dispatcher := events.NewInMemoryDispatcher()
	published := collectEvents(dispatcher, events.EventSlotCreated)

	svc := NewSlotService(SlotDependencies{
		SlotRepo:    slots,
		BookingRepo: &mockBookingRepo{},
		Dispatcher:  dispatcher,
		Now:         fixedNow,
	})

	slot, err := svc.Create(context.Background(), adminProfile(), SlotCreateInput{
		SlotNumber: "  A-101 ",
		Location:   "Ground Floor",
	})
	require.NoError(t, err)

	assert.Equal(t, "A-101", slot.SlotNumber)
	assert.Equal(t, domain.SlotTypeRegular, slot.SlotType)
	assert.Equal(t, domain.SlotStatusFree, slot.Status)
	require.NotNil(t, created)

	require.Len(t, *published, 1)
	assert.Equal(t, events.EventSlotCreated, (*published)[0].Type)
	assert.Equal(t, "slot-1", (*published)[0].SlotID)
	assert.Equal(t, "admin-1", (*published)[0].Actor.ProfileID)
}

func TestCreateSlot_RequiresNumberAndLocation(t *testing.T) {
	svc := NewSlotService(SlotDependencies{
		SlotRepo:    &mockSlotRepo{},
		BookingRepo: &mockBookingRepo{},
		Now:         fixedNow,
	})

	_, err := svc.Create(context.Background(), adminProfile(), SlotCreateInput{Location: "B1"})
	require.Error(t, err)
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
}

func TestUpdateSlot_PartialEdit(t *testing.T) {
	var updated *domain.ParkingSlot
	slots := &mockSlotRepo{
		getByIDFunc: func(_ context.Context, id string) (*domain.ParkingSlot, error) {
			return freeSlot(), nil
		},
		updateFunc: func(_ context.Context, slot *domain.ParkingSlot) error {
			updated = slot
			return nil
		},
	}
	dispatcher := events.NewInMemoryDispatcher()
	published := collectEvents(dispatcher, events.EventSlotUpdated)

	svc := NewSlotService(SlotDependencies{
		SlotRepo:    slots,
		BookingRepo: &mockBookingRepo{},
		Dispatcher:  dispatcher,
		Now:         fixedNow,
	})

	electric := domain.SlotTypeElectric
	slot, err := svc.Update(context.Background(), adminProfile(), "slot-1", SlotUpdateInput{
		SlotType: &electric,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SlotTypeElectric, slot.SlotType)
	assert.Equal(t, "A-101", slot.SlotNumber)
	require.NotNil(t, updated)
	require.Len(t, *published, 1)
}

func TestUpdateSlot_NotFound(t *testing.T) {
	slots := &mockSlotRepo{
		getByIDFunc: func(_ context.Context, id string) (*domain.ParkingSlot, error) {
			return nil, pgx.ErrNoRows
		},
	}

	svc := NewSlotService(SlotDependencies{
		SlotRepo:    slots,
		BookingRepo: &mockBookingRepo{},
		Now:         fixedNow,
	})

	_, err := svc.Update(context.Background(), adminProfile(), "missing", SlotUpdateInput{})
	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "NOT_FOUND", domainErr.Code)
}

func TestDeleteSlot_RefusedWithActiveBooking(t *testing.T) {
	bookings := &mockBookingRepo{
		hasActiveBySlotFunc: func(_ context.Context, slotID string) (bool, error) {
			return true, nil
		},
	}
	deleted := false
	slots := &mockSlotRepo{
		deleteFunc: func(_ context.Context, id string) error {
			deleted = true
			return nil
		},
	}

	svc := NewSlotService(SlotDependencies{
		SlotRepo:    slots,
		BookingRepo: bookings,
		Now:         fixedNow,
	})

	err := svc.Delete(context.Background(), adminProfile(), "slot-1")
	assert.ErrorIs(t, err, ErrSlotHasActiveBooking)
	assert.False(t, deleted)
}

func TestDeleteSlot_PublishesDeletion(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	published := collectEvents(dispatcher, events.EventSlotDeleted)

	svc := NewSlotService(SlotDependencies{
		SlotRepo:    &mockSlotRepo{},
		BookingRepo: &mockBookingRepo{},
		Dispatcher:  dispatcher,
		Now:         fixedNow,
	})

	err := svc.Delete(context.Background(), adminProfile(), "slot-1")
	require.NoError(t, err)
	require.Len(t, *published, 1)
	assert.Equal(t, events.EventSlotDeleted, (*published)[0].Type)
	assert.Equal(t, "slot-1", (*published)[0].SlotID)
}
