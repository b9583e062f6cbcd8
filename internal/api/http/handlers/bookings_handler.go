package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parking-service/internal/api/dto"
	"github.com/spec-kit/parking-service/internal/auth"
	"github.com/spec-kit/parking-service/internal/service"
	apperrors "github.com/spec-kit/parking-service/pkg/errorutil"
)

// BookingsHandler exposes the booking flow to end-users.
type BookingsHandler struct {
	bookings *service.BookingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookingService *service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookingService}
}

// Book handles POST /bookings.
func (h *BookingsHandler) Book(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not signed in")
	}

	var req dto.BookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	booking, err := h.bookings.Book(c.Context(), principal.Profile.ID, req.SlotID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromBooking(booking)})
}

// Release handles POST /bookings/:id/release.
func (h *BookingsHandler) Release(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not signed in")
	}

	booking, err := h.bookings.Release(c.Context(), principal.Profile, c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromBooking(booking)})
}

// Mine handles GET /bookings/mine, the caller's booking history.
func (h *BookingsHandler) Mine(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not signed in")
	}

	list, err := h.bookings.ListUserBookings(c.Context(), principal.Profile.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.FromBookingDetailsList(list)})
}

// Active handles GET /bookings/active. Returns null data when the
// caller holds no active booking.
func (h *BookingsHandler) Active(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("not signed in")
	}

	booking, err := h.bookings.ActiveBooking(c.Context(), principal.Profile.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if booking == nil {
		return c.JSON(fiber.Map{"data": nil})
	}
	return c.JSON(fiber.Map{"data": dto.FromBooking(booking)})
}
