package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/btime-solutions/chamados-service/internal/domain"
)

// TicketFilter captures board search parameters.
type TicketFilter struct {
	ProjectName *string
	BranchCode  *string
	Technician  *string
	SubStatuses []domain.SubStatus
	Type        *domain.TicketType
	Limit       int
	Offset      int
}

// DerivedUpdate carries recomputed values for one ticket of a project group.
type DerivedUpdate struct {
	ID        string
	SubStatus domain.SubStatus
	Status    domain.ProjectStatus
	Log       string
}

// TicketRepository encapsulates chamado persistence.
type TicketRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	ListGroup(ctx context.Context, key domain.ProjectKey) ([]domain.Ticket, error)
	ListProjectKeys(ctx context.Context) ([]domain.ProjectKey, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	Upsert(ctx context.Context, ticket *domain.Ticket) error
	SavePatch(ctx context.Context, ticket *domain.Ticket, group []DerivedUpdate) error
	SaveDerived(ctx context.Context, updates []DerivedUpdate) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, numero_chamado, projeto, cod_agencia, agencia,
       tecnico, gestor, analista,
       data_agendamento, data_abertura, data_fechamento, data_envio,
       link_externo, protocolo, pedido,
       cancelado, pendencia_equipamento, pendencia_infra, alteracao_chamado,
       envio_parcial, equipamento_entregue, followup_enviado,
       liberado_financeiro, book_enviado,
       sub_status, status, log_alteracoes, created_at, updated_at`

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM chamados WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM chamados WHERE numero_chamado=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, number)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	ticket, err := scanTicket(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (r *ticketRepository) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM chamados ORDER BY projeto, cod_agencia, numero_chamado`, ticketColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListGroup(ctx context.Context, key domain.ProjectKey) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM chamados WHERE projeto=$1 AND cod_agencia=$2 ORDER BY numero_chamado`, ticketColumns)
	rows, err := r.pool.Query(ctx, query, key.ProjectName, key.BranchCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) ListProjectKeys(ctx context.Context) ([]domain.ProjectKey, error) {
	const query = `SELECT DISTINCT projeto, cod_agencia FROM chamados ORDER BY projeto, cod_agencia`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []domain.ProjectKey
	for rows.Next() {
		var key domain.ProjectKey
		if err := rows.Scan(&key.ProjectName, &key.BranchCode); err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ProjectName != nil {
		args = append(args, *filter.ProjectName)
		clauses = append(clauses, fmt.Sprintf("projeto=$%d", len(args)))
	}
	if filter.BranchCode != nil {
		args = append(args, *filter.BranchCode)
		clauses = append(clauses, fmt.Sprintf("cod_agencia=$%d", len(args)))
	}
	if filter.Technician != nil {
		args = append(args, *filter.Technician)
		clauses = append(clauses, fmt.Sprintf("tecnico=$%d", len(args)))
	}
	if len(filter.SubStatuses) > 0 {
		placeholders := make([]string, len(filter.SubStatuses))
		for i, sub := range filter.SubStatuses {
			args = append(args, sub)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("sub_status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Type != nil {
		// Equipment tickets are recognized by the marker inside the number.
		if *filter.Type == domain.TicketTypeEquipment {
			clauses = append(clauses, "LOWER(numero_chamado) LIKE '%-e-%'")
		} else {
			clauses = append(clauses, "LOWER(numero_chamado) NOT LIKE '%-e-%'")
		}
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM chamados WHERE %s ORDER BY projeto, cod_agencia, numero_chamado LIMIT %d OFFSET %d`,
		ticketColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) Upsert(ctx context.Context, ticket *domain.Ticket) error {
	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	const query = `
        INSERT INTO chamados (
            id, numero_chamado, projeto, cod_agencia, agencia,
            tecnico, gestor, analista,
            data_agendamento, data_abertura, data_fechamento, data_envio,
            link_externo, protocolo, pedido,
            cancelado, pendencia_equipamento, pendencia_infra, alteracao_chamado,
            envio_parcial, equipamento_entregue, followup_enviado,
            liberado_financeiro, book_enviado,
            sub_status, status, log_alteracoes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)
        ON CONFLICT (numero_chamado) DO UPDATE SET
            projeto=EXCLUDED.projeto,
            cod_agencia=EXCLUDED.cod_agencia,
            agencia=EXCLUDED.agencia,
            tecnico=EXCLUDED.tecnico,
            gestor=EXCLUDED.gestor,
            analista=EXCLUDED.analista,
            data_agendamento=EXCLUDED.data_agendamento,
            data_abertura=EXCLUDED.data_abertura,
            data_fechamento=EXCLUDED.data_fechamento,
            data_envio=EXCLUDED.data_envio,
            link_externo=EXCLUDED.link_externo,
            protocolo=EXCLUDED.protocolo,
            pedido=EXCLUDED.pedido,
            cancelado=EXCLUDED.cancelado,
            pendencia_equipamento=EXCLUDED.pendencia_equipamento,
            pendencia_infra=EXCLUDED.pendencia_infra,
            alteracao_chamado=EXCLUDED.alteracao_chamado,
            envio_parcial=EXCLUDED.envio_parcial,
            equipamento_entregue=EXCLUDED.equipamento_entregue,
            followup_enviado=EXCLUDED.followup_enviado,
            liberado_financeiro=EXCLUDED.liberado_financeiro,
            book_enviado=EXCLUDED.book_enviado,
            updated_at=NOW()
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.ID,
		ticket.TicketNumber,
		ticket.ProjectName,
		ticket.BranchCode,
		ticket.BranchName,
		ticket.Technician,
		ticket.Manager,
		ticket.Analyst,
		ticket.ScheduledDate,
		ticket.OpenedDate,
		ticket.ClosedDate,
		ticket.ShipmentDate,
		ticket.ExternalLink,
		ticket.ProtocolNumber,
		ticket.OrderNumber,
		encodeFlag(ticket.Cancelled),
		encodeFlag(ticket.PendingEquipment),
		encodeFlag(ticket.PendingInfra),
		encodeFlag(ticket.TicketAltered),
		encodeFlag(ticket.PartialShipment),
		encodeFlag(ticket.EquipmentDelivered),
		encodeFlag(ticket.FollowupSent),
		encodeFlag(ticket.BankFinancialReleased),
		encodeBook(ticket.BookSent),
		ticket.SubStatus,
		ticket.Status,
		ticket.Log,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

// SavePatch persists an edited ticket together with the recomputed derived
// values for the rest of its project group inside a single transaction, so a
// failure never leaves the group half-updated.
func (r *ticketRepository) SavePatch(ctx context.Context, ticket *domain.Ticket, group []DerivedUpdate) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const update = `
        UPDATE chamados SET
            projeto=$1, cod_agencia=$2, agencia=$3,
            tecnico=$4, gestor=$5, analista=$6,
            data_agendamento=$7, data_abertura=$8, data_fechamento=$9, data_envio=$10,
            link_externo=$11, protocolo=$12, pedido=$13,
            cancelado=$14, pendencia_equipamento=$15, pendencia_infra=$16, alteracao_chamado=$17,
            envio_parcial=$18, equipamento_entregue=$19, followup_enviado=$20,
            liberado_financeiro=$21, book_enviado=$22,
            sub_status=$23, status=$24, log_alteracoes=$25, updated_at=NOW()
        WHERE id=$26`
	cmd, err := tx.Exec(ctx, update,
		ticket.ProjectName,
		ticket.BranchCode,
		ticket.BranchName,
		ticket.Technician,
		ticket.Manager,
		ticket.Analyst,
		ticket.ScheduledDate,
		ticket.OpenedDate,
		ticket.ClosedDate,
		ticket.ShipmentDate,
		ticket.ExternalLink,
		ticket.ProtocolNumber,
		ticket.OrderNumber,
		encodeFlag(ticket.Cancelled),
		encodeFlag(ticket.PendingEquipment),
		encodeFlag(ticket.PendingInfra),
		encodeFlag(ticket.TicketAltered),
		encodeFlag(ticket.PartialShipment),
		encodeFlag(ticket.EquipmentDelivered),
		encodeFlag(ticket.FollowupSent),
		encodeFlag(ticket.BankFinancialReleased),
		encodeBook(ticket.BookSent),
		ticket.SubStatus,
		ticket.Status,
		ticket.Log,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if err := saveDerivedTx(ctx, tx, group); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// SaveDerived rewrites derived values for a whole group in one transaction.
func (r *ticketRepository) SaveDerived(ctx context.Context, updates []DerivedUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := saveDerivedTx(ctx, tx, updates); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func saveDerivedTx(ctx context.Context, tx pgx.Tx, updates []DerivedUpdate) error {
	const query = `UPDATE chamados SET sub_status=$1, status=$2, log_alteracoes=$3, updated_at=NOW() WHERE id=$4`
	for _, u := range updates {
		if _, err := tx.Exec(ctx, query, u.SubStatus, u.Status, u.Log, u.ID); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		ticket    domain.Ticket
		cancelled string
		pendEquip string
		pendInfra string
		altered   string
		partial   string
		delivered string
		followup  string
		released  string
		book      string
	)
	if err := row.Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.ProjectName,
		&ticket.BranchCode,
		&ticket.BranchName,
		&ticket.Technician,
		&ticket.Manager,
		&ticket.Analyst,
		&ticket.ScheduledDate,
		&ticket.OpenedDate,
		&ticket.ClosedDate,
		&ticket.ShipmentDate,
		&ticket.ExternalLink,
		&ticket.ProtocolNumber,
		&ticket.OrderNumber,
		&cancelled,
		&pendEquip,
		&pendInfra,
		&altered,
		&partial,
		&delivered,
		&followup,
		&released,
		&book,
		&ticket.SubStatus,
		&ticket.Status,
		&ticket.Log,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ticket.Cancelled = decodeFlag(cancelled)
	ticket.PendingEquipment = decodeFlag(pendEquip)
	ticket.PendingInfra = decodeFlag(pendInfra)
	ticket.TicketAltered = decodeFlag(altered)
	ticket.PartialShipment = decodeFlag(partial)
	ticket.EquipmentDelivered = decodeFlag(delivered)
	ticket.FollowupSent = decodeFlag(followup)
	ticket.BankFinancialReleased = decodeFlag(released)
	ticket.BookSent = decodeBook(book)
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
