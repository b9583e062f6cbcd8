package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parking-service/internal/api/dto"
	"github.com/spec-kit/parking-service/internal/auth"
	"github.com/spec-kit/parking-service/internal/domain"
	"github.com/spec-kit/parking-service/internal/service"
	apperrors "github.com/spec-kit/parking-service/pkg/errorutil"
)

// AdminHandler exposes slot inventory management and booking review to
// administrators.
type AdminHandler struct {
	slots    *service.SlotService
	bookings *service.BookingService
	profiles *service.AuthService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(slotService *service.SlotService, bookingService *service.BookingService, authService *service.AuthService) *AdminHandler {
	return &AdminHandler{slots: slotService, bookings: bookingService, profiles: authService}
}

// CreateSlot handles POST /admin/slots.
func (h *AdminHandler) CreateSlot(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.SlotCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	slot, err := h.slots.Create(c.Context(), principal.Profile, service.SlotCreateInput{
		SlotNumber: req.SlotNumber,
		Location:   req.Location,
		SlotType:   domain.SlotType(req.SlotType),
		Status:     domain.SlotStatus(req.Status),
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromSlot(slot)})
}

// UpdateSlot handles PUT /admin/slots/:id.
func (h *AdminHandler) UpdateSlot(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	var req dto.SlotUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	input := service.SlotUpdateInput{
		SlotNumber: req.SlotNumber,
		Location:   req.Location,
	}
	if req.SlotType != nil {
		slotType := domain.SlotType(*req.SlotType)
		input.SlotType = &slotType
	}
	if req.Status != nil {
		status := domain.SlotStatus(*req.Status)
		input.Status = &status
	}

	slot, err := h.slots.Update(c.Context(), principal.Profile, c.Params("id"), input)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromSlot(slot)})
}

// DeleteSlot handles DELETE /admin/slots/:id.
func (h *AdminHandler) DeleteSlot(c *fiber.Ctx) error {
	principal, _ := auth.PrincipalFromContext(c)

	if err := h.slots.Delete(c.Context(), principal.Profile, c.Params("id")); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListBookings handles GET /admin/bookings, every booking joined with
// slot and profile.
func (h *AdminHandler) ListBookings(c *fiber.Ctx) error {
	list, err := h.bookings.ListAllBookings(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromBookingDetailsList(list)})
}

// ListProfiles handles GET /admin/profiles.
func (h *AdminHandler) ListProfiles(c *fiber.Ctx) error {
	profiles, err := h.profiles.ListProfiles(c.Context())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromProfiles(profiles)})
}
