package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/btime-solutions/chamados-service/internal/api/dto"
	"github.com/btime-solutions/chamados-service/internal/domain"
	"github.com/btime-solutions/chamados-service/internal/repository"
	"github.com/btime-solutions/chamados-service/internal/service"
	"github.com/btime-solutions/chamados-service/internal/status"
	apperrors "github.com/btime-solutions/chamados-service/pkg/util"
)

const defaultActor = "coordenacao"

// TicketsHandler manages ticket board endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// ListTickets GET /tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	filter, err := parseTicketQuery(c)
	if err != nil {
		return err
	}
	tickets, err := h.service.ListTickets(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetTicket GET /tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.service.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// PatchTicket PATCH /tickets/:id.
func (h *TicketsHandler) PatchTicket(c *fiber.Ctx) error {
	var req dto.PatchTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	patch, err := patchFromRequest(req)
	if err != nil {
		return err
	}
	ticket, err := h.service.ApplyPatch(c.UserContext(), c.Params("id"), actorFrom(c), patch)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

// RecomputeTicket POST /tickets/:id/recompute.
func (h *TicketsHandler) RecomputeTicket(c *fiber.Ctx) error {
	ticket, err := h.service.RecomputeTicket(c.UserContext(), c.Params("id"), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": ticketResponse(ticket)})
}

func actorFrom(c *fiber.Ctx) string {
	if actor := strings.TrimSpace(c.Get("X-Actor")); actor != "" {
		return actor
	}
	return defaultActor
}

func parseTicketQuery(c *fiber.Ctx) (repository.TicketFilter, error) {
	filter := repository.TicketFilter{}
	if project := c.Query("project"); project != "" {
		filter.ProjectName = &project
	}
	if branch := c.Query("branch"); branch != "" {
		filter.BranchCode = &branch
	}
	if technician := c.Query("technician"); technician != "" {
		filter.Technician = &technician
	}
	if subStr := c.Query("sub_status"); subStr != "" {
		for _, part := range strings.Split(subStr, ",") {
			filter.SubStatuses = append(filter.SubStatuses, domain.SubStatus(strings.TrimSpace(part)))
		}
	}
	if typeStr := c.Query("type"); typeStr != "" {
		switch strings.ToLower(typeStr) {
		case "equipamento":
			t := domain.TicketTypeEquipment
			filter.Type = &t
		case "servico":
			t := domain.TicketTypeService
			filter.Type = &t
		default:
			return filter, apperrors.NewValidationError("type must be equipamento or servico", nil)
		}
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 100)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

const dateLayout = "2006-01-02"

func patchFromRequest(req dto.PatchTicketRequest) (service.Patch, error) {
	patch := service.Patch{
		ProjectName:           req.ProjectName,
		BranchCode:            req.BranchCode,
		BranchName:            req.BranchName,
		Technician:            req.Technician,
		Manager:               req.Manager,
		Analyst:               req.Analyst,
		ExternalLink:          req.ExternalLink,
		ProtocolNumber:        req.ProtocolNumber,
		OrderNumber:           req.OrderNumber,
		Cancelled:             req.Cancelled,
		PendingEquipment:      req.PendingEquipment,
		PendingInfra:          req.PendingInfra,
		TicketAltered:         req.TicketAltered,
		PartialShipment:       req.PartialShipment,
		EquipmentDelivered:    req.EquipmentDelivered,
		FollowupSent:          req.FollowupSent,
		BankFinancialReleased: req.BankFinancialReleased,
		BookSent:              req.BookSent,
	}

	var err error
	if patch.ScheduledDate, err = parsePatchDate(req.ScheduledDate); err != nil {
		return patch, err
	}
	if patch.OpenedDate, err = parsePatchDate(req.OpenedDate); err != nil {
		return patch, err
	}
	if patch.ClosedDate, err = parsePatchDate(req.ClosedDate); err != nil {
		return patch, err
	}
	if patch.ShipmentDate, err = parsePatchDate(req.ShipmentDate); err != nil {
		return patch, err
	}
	return patch, nil
}

func parsePatchDate(val *string) (*time.Time, error) {
	if val == nil {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *val)
	if err != nil {
		return nil, apperrors.NewValidationError("dates must use yyyy-mm-dd", map[string]any{"value": *val})
	}
	return &parsed, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(dateLayout)
	return &formatted
}

func ticketResponse(ticket *domain.Ticket) dto.TicketResponse {
	return dto.TicketResponse{
		ID:           ticket.ID,
		TicketNumber: ticket.TicketNumber,
		TicketType:   string(status.ClassifyType(ticket.TicketNumber)),
		ProjectName:  ticket.ProjectName,
		BranchCode:   ticket.BranchCode,
		BranchName:   ticket.BranchName,

		Technician: ticket.Technician,
		Manager:    ticket.Manager,
		Analyst:    ticket.Analyst,

		ScheduledDate: formatDate(ticket.ScheduledDate),
		OpenedDate:    formatDate(ticket.OpenedDate),
		ClosedDate:    formatDate(ticket.ClosedDate),
		ShipmentDate:  formatDate(ticket.ShipmentDate),

		ExternalLink:   ticket.ExternalLink,
		ProtocolNumber: ticket.ProtocolNumber,
		OrderNumber:    ticket.OrderNumber,

		Cancelled:             ticket.Cancelled,
		PendingEquipment:      ticket.PendingEquipment,
		PendingInfra:          ticket.PendingInfra,
		TicketAltered:         ticket.TicketAltered,
		PartialShipment:       ticket.PartialShipment,
		EquipmentDelivered:    ticket.EquipmentDelivered,
		FollowupSent:          ticket.FollowupSent,
		BankFinancialReleased: ticket.BankFinancialReleased,
		BookSent:              ticket.BookSent,

		SubStatus: ticket.SubStatus,
		Status:    ticket.Status,
		Log:       ticket.Log,

		CreatedAt: ticket.CreatedAt,
		UpdatedAt: ticket.UpdatedAt,
	}
}
