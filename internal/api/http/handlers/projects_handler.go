package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/btime-solutions/chamados-service/internal/domain"
	"github.com/btime-solutions/chamados-service/internal/service"
	apperrors "github.com/btime-solutions/chamados-service/pkg/util"
)

// ProjectsHandler exposes the project board and group recomputes.
type ProjectsHandler struct {
	tickets *service.TicketService
	reports *service.ReportService
}

// NewProjectsHandler constructs handler.
func NewProjectsHandler(tickets *service.TicketService, reports *service.ReportService) *ProjectsHandler {
	return &ProjectsHandler{tickets: tickets, reports: reports}
}

// Board GET /projects.
func (h *ProjectsHandler) Board(c *fiber.Ctx) error {
	rows, err := h.reports.ProjectBoard(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": rows})
}

type recomputeRequest struct {
	ProjectName string `json:"project_name"`
	BranchCode  string `json:"branch_code"`
}

// Recompute POST /projects/recompute. With a project/branch body it
// recomputes one group; with an empty body it sweeps every group.
func (h *ProjectsHandler) Recompute(c *fiber.Ctx) error {
	var req recomputeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	if req.ProjectName == "" && req.BranchCode == "" {
		changed, err := h.tickets.RecomputeAll(c.UserContext(), actorFrom(c))
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": fiber.Map{"projects_changed": changed}})
	}

	if req.ProjectName == "" || req.BranchCode == "" {
		return apperrors.NewValidationError("project_name and branch_code must be provided together", nil)
	}
	key := domain.ProjectKey{ProjectName: req.ProjectName, BranchCode: req.BranchCode}
	if err := h.tickets.RecomputeProject(c.UserContext(), key, actorFrom(c)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"project": key.String()}})
}
