package events

import (
	"time"

	"github.com/btime-solutions/chamados-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventSubStatusChanged     EventType = "sub_status_changed"
	EventProjectStatusChanged EventType = "project_status_changed"
	EventBatchImported        EventType = "batch_imported"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// SubStatusChangedPayload payload.
type SubStatusChangedPayload struct {
	TicketNumber string           `json:"ticket_number"`
	OldSubStatus domain.SubStatus `json:"old_sub_status"`
	NewSubStatus domain.SubStatus `json:"new_sub_status"`
}

// ProjectStatusChangedPayload payload.
type ProjectStatusChangedPayload struct {
	ProjectName string               `json:"project_name"`
	BranchCode  string               `json:"branch_code"`
	OldStatus   domain.ProjectStatus `json:"old_status"`
	NewStatus   domain.ProjectStatus `json:"new_status"`
}

// BatchImportedPayload payload.
type BatchImportedPayload struct {
	Total    int `json:"total"`
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Failed   int `json:"failed"`
	Projects int `json:"projects"`
}
