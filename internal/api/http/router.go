package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/flowbit/flowbit-api/internal/api/http/handlers"
	"github.com/flowbit/flowbit-api/internal/auth"
	"github.com/flowbit/flowbit-api/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tickets        *handlers.TicketsHandler
	Webhooks       *handlers.WebhooksHandler
	AuthMiddleware *auth.Middleware
	CallbackSecret string
}

// RegisterRoutes wires HTTP routes. The callback route carries the service
// gate only; user routes carry the bearer gate. The two are never combined.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.AuthMiddleware.Handle, cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.AuthMiddleware.Handle, cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleAdmin, domain.RoleUser), cfg.Tickets.GetTicket)

	tickets.Put("/:id/status",
		auth.RequireCallbackSecret(cfg.CallbackSecret), cfg.Webhooks.UpdateTicketStatus)
}
