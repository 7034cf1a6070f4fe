package handlers

import (
	"bytes"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/btime-solutions/chamados-service/internal/importer"
	"github.com/btime-solutions/chamados-service/internal/service"
	apperrors "github.com/btime-solutions/chamados-service/pkg/util"
)

// ImportsHandler receives CSV ticket batches.
type ImportsHandler struct {
	service *service.TicketService
	logger  *zap.Logger
}

// NewImportsHandler constructs handler.
func NewImportsHandler(ticketService *service.TicketService, logger *zap.Logger) *ImportsHandler {
	return &ImportsHandler{service: ticketService, logger: logger}
}

// ImportTickets POST /imports/tickets. The request body is the CSV itself.
func (h *ImportsHandler) ImportTickets(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return apperrors.NewValidationError("empty request body", nil)
	}
	rows, err := importer.ReadTickets(bytes.NewReader(body), h.logger)
	if err != nil {
		return apperrors.NewValidationError("unreadable csv", map[string]any{"reason": err.Error()})
	}
	if len(rows) == 0 {
		return apperrors.NewValidationError("no importable rows", nil)
	}

	result, err := h.service.ImportBatch(c.UserContext(), rows, actorFrom(c))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": result})
}
