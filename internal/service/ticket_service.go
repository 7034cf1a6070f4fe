package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/btime-solutions/chamados-service/internal/domain"
	"github.com/btime-solutions/chamados-service/internal/events"
	"github.com/btime-solutions/chamados-service/internal/repository"
	"github.com/btime-solutions/chamados-service/internal/status"
)

// TicketService is the batch updater: it applies raw field changes and keeps
// the derived sub-status and project status consistent with them. Derived
// values are never written except through this service.
type TicketService struct {
	tickets    repository.TicketRepository
	cache      repository.BoardCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Cache      repository.BoardCache
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Patch carries optional raw-field updates for one ticket. A nil field is
// left untouched. Derived fields are absent on purpose: they cannot be set
// from outside.
type Patch struct {
	ProjectName *string
	BranchCode  *string
	BranchName  *string

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

	Cancelled             *bool
	PendingEquipment      *bool
	PendingInfra          *bool
	TicketAltered         *bool
	PartialShipment       *bool
	EquipmentDelivered    *bool
	FollowupSent          *bool
	BankFinancialReleased *bool
	BookSent              *bool
}

func (p Patch) apply(t *domain.Ticket) {
	if p.ProjectName != nil {
		t.ProjectName = *p.ProjectName
	}
	if p.BranchCode != nil {
		t.BranchCode = *p.BranchCode
	}
	if p.BranchName != nil {
		t.BranchName = *p.BranchName
	}
	if p.Technician != nil {
		t.Technician = p.Technician
	}
	if p.Manager != nil {
		t.Manager = p.Manager
	}
	if p.Analyst != nil {
		t.Analyst = p.Analyst
	}
	if p.ScheduledDate != nil {
		t.ScheduledDate = p.ScheduledDate
	}
	if p.OpenedDate != nil {
		t.OpenedDate = p.OpenedDate
	}
	if p.ClosedDate != nil {
		t.ClosedDate = p.ClosedDate
	}
	if p.ShipmentDate != nil {
		t.ShipmentDate = p.ShipmentDate
	}
	if p.ExternalLink != nil {
		t.ExternalLink = p.ExternalLink
	}
	if p.ProtocolNumber != nil {
		t.ProtocolNumber = p.ProtocolNumber
	}
	if p.OrderNumber != nil {
		t.OrderNumber = p.OrderNumber
	}
	if p.Cancelled != nil {
		t.Cancelled = *p.Cancelled
	}
	if p.PendingEquipment != nil {
		t.PendingEquipment = *p.PendingEquipment
	}
	if p.PendingInfra != nil {
		t.PendingInfra = *p.PendingInfra
	}
	if p.TicketAltered != nil {
		t.TicketAltered = *p.TicketAltered
	}
	if p.PartialShipment != nil {
		t.PartialShipment = *p.PartialShipment
	}
	if p.EquipmentDelivered != nil {
		t.EquipmentDelivered = *p.EquipmentDelivered
	}
	if p.FollowupSent != nil {
		t.FollowupSent = *p.FollowupSent
	}
	if p.BankFinancialReleased != nil {
		t.BankFinancialReleased = *p.BankFinancialReleased
	}
	if p.BookSent != nil {
		t.BookSent = *p.BookSent
	}
}

// GetTicket fetches one ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, id)
}

// ListBoard returns all tickets, served from the board cache when warm.
func (s *TicketService) ListBoard(ctx context.Context) ([]domain.Ticket, error) {
	if tickets, ok := s.cache.GetBoard(ctx); ok {
		return tickets, nil
	}
	tickets, err := s.tickets.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetBoard(ctx, tickets)
	return tickets, nil
}

// ListTickets returns tickets matching the board filters.
func (s *TicketService) ListTickets(ctx context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, filter)
}

// ApplyPatch applies a field patch to one ticket, recomputes its sub-status
// and the aggregate status of its whole project group, and persists ticket
// plus group in a single transaction. Audit lines are appended whenever a
// derived value changes. The patch is all-or-nothing.
func (s *TicketService) ApplyPatch(ctx context.Context, id, actor string, patch Patch) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldKey := ticket.Key()
	patch.apply(ticket)
	now := time.Now()

	oldSub := ticket.SubStatus
	ticket.SubStatus = status.DeriveSubStatus(ticket)
	if ticket.SubStatus != oldSub {
		ticket.AppendLog(now, actor, "sub_status", string(oldSub), string(ticket.SubStatus))
	}

	group, err := s.tickets.ListGroup(ctx, ticket.Key())
	if err != nil {
		return nil, err
	}
	group = replaceInGroup(group, ticket)

	// Re-derive the rest of the group too, so a touch on any ticket
	// converges members whose stored sub-status went stale.
	for i := range group {
		member := &group[i]
		if member.ID == ticket.ID {
			continue
		}
		newSub := status.DeriveSubStatus(member)
		if newSub != member.SubStatus {
			member.AppendLog(now, actor, "sub_status", string(member.SubStatus), string(newSub))
			member.SubStatus = newSub
		}
	}

	newStatus := status.AggregateProject(group)
	oldStatus := ticket.Status
	if newStatus != oldStatus {
		ticket.AppendLog(now, actor, "status", string(oldStatus), string(newStatus))
	}
	ticket.Status = newStatus

	derived := make([]repository.DerivedUpdate, 0, len(group))
	statusChanged := newStatus != oldStatus
	for i := range group {
		member := &group[i]
		if member.ID == ticket.ID {
			continue
		}
		if member.Status != newStatus {
			member.AppendLog(now, actor, "status", string(member.Status), string(newStatus))
			statusChanged = true
		}
		derived = append(derived, repository.DerivedUpdate{
			ID:        member.ID,
			SubStatus: member.SubStatus,
			Status:    newStatus,
			Log:       member.Log,
		})
	}

	// Once anything commits below, the warm board is stale; invalidate even
	// when a later step fails.
	committed := false
	defer func() {
		if committed {
			s.cache.Invalidate(ctx)
		}
	}()

	if err := s.tickets.SavePatch(ctx, ticket, derived); err != nil {
		s.logger.Error("patch persist failed",
			zap.String("ticket_id", id),
			zap.Error(err))
		return nil, err
	}
	committed = true

	// Moving a ticket between projects leaves the old group to re-aggregate.
	if oldKey != ticket.Key() {
		if _, err := s.recomputeGroup(ctx, oldKey, actor); err != nil {
			return nil, err
		}
	}

	if ticket.SubStatus != oldSub {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventSubStatusChanged,
			TicketID: ticket.ID,
			Actor:    actor,
			Payload: events.SubStatusChangedPayload{
				TicketNumber: ticket.TicketNumber,
				OldSubStatus: oldSub,
				NewSubStatus: ticket.SubStatus,
			},
		})
	}
	if statusChanged {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventProjectStatusChanged,
			TicketID: ticket.ID,
			Actor:    actor,
			Payload: events.ProjectStatusChangedPayload{
				ProjectName: ticket.ProjectName,
				BranchCode:  ticket.BranchCode,
				OldStatus:   oldStatus,
				NewStatus:   newStatus,
			},
		})
	}
	return ticket, nil
}

// RecomputeTicket re-derives a single ticket's group without any field edit.
// Useful after out-of-band corrections; the operation is idempotent.
func (s *TicketService) RecomputeTicket(ctx context.Context, id, actor string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.recomputeGroup(ctx, ticket.Key(), actor); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx)
	return s.tickets.GetByID(ctx, id)
}

// RecomputeProject re-derives one project group and invalidates the board.
func (s *TicketService) RecomputeProject(ctx context.Context, key domain.ProjectKey, actor string) error {
	if _, err := s.recomputeGroup(ctx, key, actor); err != nil {
		return err
	}
	s.cache.Invalidate(ctx)
	return nil
}

// RecomputeAll re-derives every project group. Safe to re-run at any time;
// converges to the same stored state for the same inputs.
func (s *TicketService) RecomputeAll(ctx context.Context, actor string) (int, error) {
	keys, err := s.tickets.ListProjectKeys(ctx)
	if err != nil {
		return 0, err
	}
	changed := 0
	for _, key := range keys {
		groupChanged, err := s.recomputeGroup(ctx, key, actor)
		if err != nil {
			// Groups saved before the failure already stale the warm board.
			if changed > 0 {
				s.cache.Invalidate(ctx)
			}
			return changed, err
		}
		if groupChanged {
			changed++
		}
	}
	s.cache.Invalidate(ctx)
	return changed, nil
}

// recomputeGroup derives fresh sub-statuses for every ticket of the group,
// aggregates the project status and rewrites the whole group in one
// transaction. Reports whether any stored derived value changed.
func (s *TicketService) recomputeGroup(ctx context.Context, key domain.ProjectKey, actor string) (bool, error) {
	group, err := s.tickets.ListGroup(ctx, key)
	if err != nil {
		return false, err
	}
	if len(group) == 0 {
		return false, nil
	}
	now := time.Now()

	type subChange struct {
		ticketID     string
		ticketNumber string
		oldSub       domain.SubStatus
		newSub       domain.SubStatus
	}
	var subChanges []subChange

	for i := range group {
		member := &group[i]
		newSub := status.DeriveSubStatus(member)
		if newSub != member.SubStatus {
			member.AppendLog(now, actor, "sub_status", string(member.SubStatus), string(newSub))
			subChanges = append(subChanges, subChange{
				ticketID:     member.ID,
				ticketNumber: member.TicketNumber,
				oldSub:       member.SubStatus,
				newSub:       newSub,
			})
			member.SubStatus = newSub
		}
	}

	newStatus := status.AggregateProject(group)
	oldStatus := group[0].Status
	statusChanged := false

	updates := make([]repository.DerivedUpdate, 0, len(group))
	for i := range group {
		member := &group[i]
		if member.Status != newStatus {
			member.AppendLog(now, actor, "status", string(member.Status), string(newStatus))
			statusChanged = true
		}
		updates = append(updates, repository.DerivedUpdate{
			ID:        member.ID,
			SubStatus: member.SubStatus,
			Status:    newStatus,
			Log:       member.Log,
		})
	}

	if len(subChanges) == 0 && !statusChanged {
		return false, nil
	}

	if err := s.tickets.SaveDerived(ctx, updates); err != nil {
		s.logger.Error("group recompute persist failed",
			zap.String("project", key.String()),
			zap.Error(err))
		return false, err
	}

	for _, change := range subChanges {
		s.publishEvent(ctx, events.Event{
			Type:     events.EventSubStatusChanged,
			TicketID: change.ticketID,
			Actor:    actor,
			Payload: events.SubStatusChangedPayload{
				TicketNumber: change.ticketNumber,
				OldSubStatus: change.oldSub,
				NewSubStatus: change.newSub,
			},
		})
	}
	if statusChanged {
		s.publishEvent(ctx, events.Event{
			Type:  events.EventProjectStatusChanged,
			Actor: actor,
			Payload: events.ProjectStatusChangedPayload{
				ProjectName: key.ProjectName,
				BranchCode:  key.BranchCode,
				OldStatus:   oldStatus,
				NewStatus:   newStatus,
			},
		})
	}
	return true, nil
}

// ImportRowError reports one failed row of an import batch.
type ImportRowError struct {
	Index        int    `json:"index"`
	TicketNumber string `json:"ticket_number"`
	Message      string `json:"message"`
}

// ImportResult summarizes an import batch.
type ImportResult struct {
	Total    int              `json:"total"`
	Created  int              `json:"created"`
	Updated  int              `json:"updated"`
	Failed   int              `json:"failed"`
	Projects int              `json:"projects"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

// ImportBatch upserts a batch of tickets keyed by ticket number, then runs
// project aggregation once per distinct touched group rather than once per
// ticket. Row failures are collected, not fatal.
func (s *TicketService) ImportBatch(ctx context.Context, rows []domain.Ticket, actor string) (*ImportResult, error) {
	result := &ImportResult{Total: len(rows)}
	touched := make(map[domain.ProjectKey]struct{})

	// Upserts commit row by row, so the warm board goes stale as soon as one
	// lands; invalidate even when a later recompute fails.
	committed := false
	defer func() {
		if committed {
			s.cache.Invalidate(ctx)
		}
	}()

	for i := range rows {
		row := &rows[i]
		existing, err := s.tickets.GetByNumber(ctx, row.TicketNumber)
		isNew := false
		switch {
		case err == nil:
			// Preserve identity, audit trail and derived values; the raw
			// fields come from the import row.
			row.ID = existing.ID
			row.Log = existing.Log
			row.SubStatus = existing.SubStatus
			row.Status = existing.Status
			if existing.Key() != row.Key() {
				touched[existing.Key()] = struct{}{}
			}
		case errors.Is(err, pgx.ErrNoRows):
			isNew = true
			row.SubStatus = status.DeriveSubStatus(row)
		default:
			result.Failed++
			result.Errors = append(result.Errors, ImportRowError{
				Index:        i,
				TicketNumber: row.TicketNumber,
				Message:      err.Error(),
			})
			continue
		}

		if err := s.tickets.Upsert(ctx, row); err != nil {
			s.logger.Warn("import upsert failed",
				zap.String("ticket_number", row.TicketNumber),
				zap.Error(err))
			result.Failed++
			result.Errors = append(result.Errors, ImportRowError{
				Index:        i,
				TicketNumber: row.TicketNumber,
				Message:      err.Error(),
			})
			continue
		}
		committed = true
		if isNew {
			result.Created++
		} else {
			result.Updated++
		}
		touched[row.Key()] = struct{}{}
	}

	result.Projects = len(touched)
	for key := range touched {
		if _, err := s.recomputeGroup(ctx, key, actor); err != nil {
			return result, err
		}
	}

	s.publishEvent(ctx, events.Event{
		Type:  events.EventBatchImported,
		Actor: actor,
		Payload: events.BatchImportedPayload{
			Total:    result.Total,
			Created:  result.Created,
			Updated:  result.Updated,
			Failed:   result.Failed,
			Projects: result.Projects,
		},
	})
	return result, nil
}

func replaceInGroup(group []domain.Ticket, ticket *domain.Ticket) []domain.Ticket {
	for i := range group {
		if group[i].ID == ticket.ID {
			group[i] = *ticket
			return group
		}
	}
	return append(group, *ticket)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}
