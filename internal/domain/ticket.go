package domain

import (
	"fmt"
	"time"
)

// TicketType distinguishes equipment shipments from field-service calls.
// The type is never stored; it is derived from the ticket number marker.
type TicketType string

const (
	TicketTypeEquipment TicketType = "EQUIPAMENTO"
	TicketTypeService   TicketType = "SERVICO"
)

// SubStatus is the derived, fine-grained state of a single ticket.
type SubStatus string

const (
	SubStatusCancelled          SubStatus = "Cancelado"
	SubStatusInvoiced           SubStatus = "Faturado"
	SubStatusPendingEquipment   SubStatus = "Pendência de equipamento"
	SubStatusPendingInfra       SubStatus = "Pendência de Infra"
	SubStatusTicketAltered      SubStatus = "Alteração do chamado"
	SubStatusEquipmentDelivered SubStatus = "Equipamento entregue"
	SubStatusPartialShipment    SubStatus = "Equipamento enviado Parcial"
	SubStatusEquipmentShipped   SubStatus = "Equipamento enviado"
	SubStatusAwaitingShipment   SubStatus = "Aguardando envio"
	SubStatusRequestEquipment   SubStatus = "Solicitar equipamento"
	SubStatusAwaitingInvoice    SubStatus = "Aguardando Faturamento"
	SubStatusSendBook           SubStatus = "Enviar Book"
	SubStatusFollowUp           SubStatus = "Follow-up"
	SubStatusDispatchTechnician SubStatus = "Acionar técnico"
	SubStatusOpenBtimeTicket    SubStatus = "Abrir chamado Btime"
)

// ProjectStatus is the derived, coarse-grained state of a project group,
// denormalized onto every ticket in the group.
type ProjectStatus string

const (
	ProjectStatusCancelled  ProjectStatus = "Cancelado"
	ProjectStatusFinalized  ProjectStatus = "Finalizado"
	ProjectStatusConcluded  ProjectStatus = "Concluído"
	ProjectStatusNotStarted ProjectStatus = "Não Iniciado"
	ProjectStatusInProgress ProjectStatus = "Em Andamento"
)

// ProjectKey identifies a project group. All tickets sharing the same key
// must carry the same aggregate status after a recompute.
type ProjectKey struct {
	ProjectName string
	BranchCode  string
}

func (k ProjectKey) String() string {
	return k.ProjectName + "/" + k.BranchCode
}

// Ticket is the aggregate for one chamado tied to a branch and a project.
// Flags are native booleans; the legacy "TRUE"/"FALSE" string encoding is
// applied only at the persistence boundary.
type Ticket struct {
	ID           string
	TicketNumber string
	ProjectName  string
	BranchCode   string
	BranchName   string

	Technician *string
	Manager    *string
	Analyst    *string

	ScheduledDate *time.Time
	OpenedDate    *time.Time
	ClosedDate    *time.Time
	ShipmentDate  *time.Time

	ExternalLink   *string
	ProtocolNumber *string
	OrderNumber    *string

	Cancelled             bool
	PendingEquipment      bool
	PendingInfra          bool
	TicketAltered         bool
	PartialShipment       bool
	EquipmentDelivered    bool
	FollowupSent          bool
	BankFinancialReleased bool
	BookSent              bool

	// Derived outputs. Never edited directly, always recomputed.
	SubStatus SubStatus
	Status    ProjectStatus

	// Log is the append-only audit trail of derived-value changes.
	Log string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Key returns the project group identity for this ticket.
func (t *Ticket) Key() ProjectKey {
	return ProjectKey{ProjectName: t.ProjectName, BranchCode: t.BranchCode}
}

// AppendLog records one audit line in the form `date actor: field 'old' -> 'new'`.
func (t *Ticket) AppendLog(when time.Time, actor, field, oldValue, newValue string) {
	line := fmt.Sprintf("%s %s: %s '%s' -> '%s'", when.Format("2006-01-02 15:04"), actor, field, oldValue, newValue)
	if t.Log == "" {
		t.Log = line
		return
	}
	t.Log += "\n" + line
}
