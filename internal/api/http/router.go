package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/btime-solutions/chamados-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Tickets  *handlers.TicketsHandler
	Projects *handlers.ProjectsHandler
	Imports  *handlers.ImportsHandler
	Reports  *handlers.ReportsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id", cfg.Tickets.PatchTicket)
	tickets.Post("/:id/recompute", cfg.Tickets.RecomputeTicket)

	projects := app.Group("/projects")
	projects.Get("/", cfg.Projects.Board)
	projects.Post("/recompute", cfg.Projects.Recompute)

	app.Post("/imports/tickets", cfg.Imports.ImportTickets)
	app.Get("/reports/summary", cfg.Reports.Summary)
}
