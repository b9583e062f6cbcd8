package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parking-service/internal/api/dto"
	"github.com/spec-kit/parking-service/internal/service"
	"github.com/spec-kit/parking-service/internal/watch"
	apperrors "github.com/spec-kit/parking-service/pkg/errorutil"
)

// SlotsHandler exposes the slot inventory to signed-in users. Listings
// are served from the synchronizer cache so every viewer sees the same
// live view.
type SlotsHandler struct {
	slots *service.SlotService
	sync  *watch.Synchronizer
}

// NewSlotsHandler constructs handler.
func NewSlotsHandler(slotService *service.SlotService, synchronizer *watch.Synchronizer) *SlotsHandler {
	return &SlotsHandler{slots: slotService, sync: synchronizer}
}

// List handles GET /slots.
func (h *SlotsHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.FromSlots(h.sync.Slots())})
}

// Get handles GET /slots/:id. Reads a single slot from the store
// directly so the response reflects the latest committed state.
func (h *SlotsHandler) Get(c *fiber.Ctx) error {
	slot, err := h.slots.Get(c.Context(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromSlot(slot)})
}
