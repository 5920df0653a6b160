package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/admission-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health  *handlers.HealthHandler
	Tickets *handlers.TicketsHandler
}

// RegisterRoutes wires HTTP routes. Static ticket routes are registered
// before the :id routes so "validate" is never captured as an id.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/validate", cfg.Tickets.ValidateTicket)
	tickets.Post("/redeem", cfg.Tickets.RedeemTicket)
	tickets.Post("/scan-image", cfg.Tickets.ScanImage)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Delete("/:id", cfg.Tickets.DeleteTicket)
	tickets.Get("/:id/qr.png", cfg.Tickets.QRImage)
	tickets.Get("/:id/pdf", cfg.Tickets.TicketPDF)
}
