// Package status implements the derivation rules for ticket sub-statuses and
// project-level aggregate statuses. All functions are pure: they read a ticket
// snapshot and return a label, with no I/O and no side effects.
package status

import (
	"strings"

	"github.com/btime-solutions/chamados-service/internal/domain"
)

// equipmentMarker inside a ticket number signals an equipment shipment.
// Matching is case-insensitive and position-independent.
const equipmentMarker = "-e-"

// ClassifyType derives the ticket type from the ticket number. There is no
// stored type field; the marker substring is the sole discriminator.
func ClassifyType(ticketNumber string) domain.TicketType {
	if strings.Contains(strings.ToLower(ticketNumber), equipmentMarker) {
		return domain.TicketTypeEquipment
	}
	return domain.TicketTypeService
}

// blankTokens are string values treated as absent when imported data carries
// placeholder text instead of an empty cell.
var blankTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"none": {},
}

// isBlank reports whether an optional string field counts as absent for rule
// evaluation purposes.
func isBlank(s *string) bool {
	if s == nil {
		return true
	}
	trimmed := strings.ToLower(strings.TrimSpace(*s))
	_, blank := blankTokens[trimmed]
	return blank
}

// DeriveSubStatus maps one ticket snapshot to exactly one sub-status label.
// The rules form a precedence hierarchy evaluated top to bottom; the first
// matching condition wins. Every input yields a label.
func DeriveSubStatus(t *domain.Ticket) domain.SubStatus {
	switch {
	case t.Cancelled:
		return domain.SubStatusCancelled
	case t.BankFinancialReleased:
		return domain.SubStatusInvoiced
	case t.PendingEquipment:
		return domain.SubStatusPendingEquipment
	case t.PendingInfra:
		return domain.SubStatusPendingInfra
	case t.TicketAltered:
		return domain.SubStatusTicketAltered
	}

	if ClassifyType(t.TicketNumber) == domain.TicketTypeEquipment {
		return deriveEquipment(t)
	}
	return deriveService(t)
}

func deriveEquipment(t *domain.Ticket) domain.SubStatus {
	switch {
	case t.EquipmentDelivered:
		return domain.SubStatusEquipmentDelivered
	case t.PartialShipment:
		return domain.SubStatusPartialShipment
	case t.ShipmentDate != nil:
		return domain.SubStatusEquipmentShipped
	case !isBlank(t.OrderNumber):
		return domain.SubStatusAwaitingShipment
	}
	return domain.SubStatusRequestEquipment
}

func deriveService(t *domain.Ticket) domain.SubStatus {
	switch {
	case t.BookSent:
		return domain.SubStatusAwaitingInvoice
	case t.FollowupSent:
		return domain.SubStatusSendBook
	case !isBlank(t.Technician):
		return domain.SubStatusFollowUp
	case !isBlank(t.ExternalLink):
		return domain.SubStatusDispatchTechnician
	}
	return domain.SubStatusOpenBtimeTicket
}

// concludedSubStatuses are the terminal sub-statuses for aggregation: the
// ticket's field work is done and only billing-side steps remain.
var concludedSubStatuses = map[domain.SubStatus]struct{}{
	domain.SubStatusInvoiced:           {},
	domain.SubStatusAwaitingInvoice:    {},
	domain.SubStatusEquipmentDelivered: {},
	domain.SubStatusSendBook:           {},
}

// notStartedSubStatuses are the entry sub-statuses: no work has begun.
var notStartedSubStatuses = map[domain.SubStatus]struct{}{
	domain.SubStatusRequestEquipment: {},
	domain.SubStatusOpenBtimeTicket:  {},
}

// Concluded reports whether a sub-status counts as concluded for project
// aggregation and for SLA reporting.
func Concluded(s domain.SubStatus) bool {
	_, ok := concludedSubStatuses[s]
	return ok
}

// NotStarted reports whether a sub-status counts as not yet started.
func NotStarted(s domain.SubStatus) bool {
	_, ok := notStartedSubStatuses[s]
	return ok
}
