package dto

import (
	"time"

	"github.com/btime-solutions/chamados-service/internal/domain"
)

// TicketResponse is the API shape of one chamado.
type TicketResponse struct {
	ID           string `json:"id"`
	TicketNumber string `json:"ticket_number"`
	TicketType   string `json:"ticket_type"`
	ProjectName  string `json:"project_name"`
	BranchCode   string `json:"branch_code"`
	BranchName   string `json:"branch_name"`

	Technician *string `json:"technician"`
	Manager    *string `json:"manager"`
	Analyst    *string `json:"analyst"`

	ScheduledDate *string `json:"scheduled_date"`
	OpenedDate    *string `json:"opened_date"`
	ClosedDate    *string `json:"closed_date"`
	ShipmentDate  *string `json:"shipment_date"`

	ExternalLink   *string `json:"external_link"`
	ProtocolNumber *string `json:"protocol_number"`
	OrderNumber    *string `json:"order_number"`

	Cancelled             bool `json:"cancelled"`
	PendingEquipment      bool `json:"pending_equipment"`
	PendingInfra          bool `json:"pending_infra"`
	TicketAltered         bool `json:"ticket_altered"`
	PartialShipment       bool `json:"partial_shipment"`
	EquipmentDelivered    bool `json:"equipment_delivered"`
	FollowupSent          bool `json:"followup_sent"`
	BankFinancialReleased bool `json:"bank_financial_released"`
	BookSent              bool `json:"book_sent"`

	SubStatus domain.SubStatus     `json:"sub_status"`
	Status    domain.ProjectStatus `json:"status"`
	Log       string               `json:"log"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PatchTicketRequest carries optional raw-field updates. Dates use
// yyyy-mm-dd strings; absent keys leave the field untouched.
type PatchTicketRequest struct {
	ProjectName *string `json:"project_name"`
	BranchCode  *string `json:"branch_code"`
	BranchName  *string `json:"branch_name"`

	Technician *string `json:"technician"`
	Manager    *string `json:"manager"`
	Analyst    *string `json:"analyst"`

	ScheduledDate *string `json:"scheduled_date"`
	OpenedDate    *string `json:"opened_date"`
	ClosedDate    *string `json:"closed_date"`
	ShipmentDate  *string `json:"shipment_date"`

	ExternalLink   *string `json:"external_link"`
	ProtocolNumber *string `json:"protocol_number"`
	OrderNumber    *string `json:"order_number"`

	Cancelled             *bool `json:"cancelled"`
	PendingEquipment      *bool `json:"pending_equipment"`
	PendingInfra          *bool `json:"pending_infra"`
	TicketAltered         *bool `json:"ticket_altered"`
	PartialShipment       *bool `json:"partial_shipment"`
	EquipmentDelivered    *bool `json:"equipment_delivered"`
	FollowupSent          *bool `json:"followup_sent"`
	BankFinancialReleased *bool `json:"bank_financial_released"`
	BookSent              *bool `json:"book_sent"`
}
