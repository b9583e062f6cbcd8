package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/parking-service/internal/api/http/handlers"
	"github.com/spec-kit/parking-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Slots          *handlers.SlotsHandler
	Bookings       *handlers.BookingsHandler
	Admin          *handlers.AdminHandler
	Stream         *handlers.StreamHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	session := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	session.Post("/logout", cfg.Auth.Logout)
	session.Get("/me", cfg.Auth.Me)

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())

	api.Get("/slots", cfg.Slots.List)
	api.Get("/slots/:id", cfg.Slots.Get)

	api.Post("/bookings", cfg.Bookings.Book)
	api.Get("/bookings/mine", cfg.Bookings.Mine)
	api.Get("/bookings/active", cfg.Bookings.Active)
	api.Post("/bookings/:id/release", cfg.Bookings.Release)

	api.Get("/stream", cfg.Stream.Changes)

	admin := api.Group("/admin", auth.RequireAdmin())
	admin.Post("/slots", cfg.Admin.CreateSlot)
	admin.Put("/slots/:id", cfg.Admin.UpdateSlot)
	admin.Delete("/slots/:id", cfg.Admin.DeleteSlot)
	admin.Get("/bookings", cfg.Admin.ListBookings)
	admin.Get("/profiles", cfg.Admin.ListProfiles)
}
