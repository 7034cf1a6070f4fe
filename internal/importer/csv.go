// Package importer turns uploaded CSV batches into ticket rows for the batch
// updater. Column names are fixed and match the store schema; there is no
// header-guessing.
package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"go.uber.org/zap"

	"github.com/btime-solutions/chamados-service/internal/domain"
)

const (
	colTicketNumber  = "numero_chamado"
	colProjectName   = "projeto"
	colBranchCode    = "cod_agencia"
	colBranchName    = "agencia"
	colTechnician    = "tecnico"
	colManager       = "gestor"
	colAnalyst       = "analista"
	colScheduledDate = "data_agendamento"
	colOpenedDate    = "data_abertura"
	colClosedDate    = "data_fechamento"
	colShipmentDate  = "data_envio"
	colExternalLink  = "link_externo"
	colProtocol      = "protocolo"
	colOrderNumber   = "pedido"
	colCancelled     = "cancelado"
	colPendEquipment = "pendencia_equipamento"
	colPendInfra     = "pendencia_infra"
	colAltered       = "alteracao_chamado"
	colPartial       = "envio_parcial"
	colDelivered     = "equipamento_entregue"
	colFollowup      = "followup_enviado"
	colReleased      = "liberado_financeiro"
	colBookSent      = "book_enviado"
)

var requiredColumns = []string{colTicketNumber, colProjectName, colBranchCode}

// ReadTickets parses a CSV batch into ticket rows. Malformed rows are logged
// and skipped so one bad line never sinks a whole import; the rule engine
// downstream treats absent optional fields as valid branch conditions.
func ReadTickets(r io.Reader, logger *zap.Logger) ([]domain.Ticket, error) {
	df := dataframe.ReadCSV(r,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Error() != nil {
		return nil, fmt.Errorf("read csv: %w", df.Error())
	}

	cols := make(map[string]int, len(df.Names()))
	for i, name := range df.Names() {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	cell := func(row int, name string) string {
		idx, ok := cols[name]
		if !ok {
			return ""
		}
		return strings.TrimSpace(df.Elem(row, idx).String())
	}

	tickets := make([]domain.Ticket, 0, df.Nrow())
	for row := 0; row < df.Nrow(); row++ {
		number := cell(row, colTicketNumber)
		project := cell(row, colProjectName)
		branch := cell(row, colBranchCode)
		if number == "" || project == "" || branch == "" {
			logger.Warn("skipping row with missing identifiers",
				zap.Int("row", row),
				zap.String("ticket_number", number))
			continue
		}

		ticket := domain.Ticket{
			TicketNumber: number,
			ProjectName:  project,
			BranchCode:   branch,
			BranchName:   cell(row, colBranchName),

			Technician: optionalString(cell(row, colTechnician)),
			Manager:    optionalString(cell(row, colManager)),
			Analyst:    optionalString(cell(row, colAnalyst)),

			ExternalLink:   optionalString(cell(row, colExternalLink)),
			ProtocolNumber: optionalString(cell(row, colProtocol)),
			OrderNumber:    optionalString(cell(row, colOrderNumber)),

			Cancelled:             parseFlag(cell(row, colCancelled)),
			PendingEquipment:      parseFlag(cell(row, colPendEquipment)),
			PendingInfra:          parseFlag(cell(row, colPendInfra)),
			TicketAltered:         parseFlag(cell(row, colAltered)),
			PartialShipment:       parseFlag(cell(row, colPartial)),
			EquipmentDelivered:    parseFlag(cell(row, colDelivered)),
			FollowupSent:          parseFlag(cell(row, colFollowup)),
			BankFinancialReleased: parseFlag(cell(row, colReleased)),
			BookSent:              parseFlag(cell(row, colBookSent)),
		}

		var badDate bool
		ticket.ScheduledDate, badDate = parseOptionalDate(cell(row, colScheduledDate))
		if badDate {
			logger.Warn("unparseable scheduled date; skipping row",
				zap.Int("row", row),
				zap.String("ticket_number", number))
			continue
		}
		ticket.OpenedDate, _ = parseOptionalDate(cell(row, colOpenedDate))
		ticket.ClosedDate, _ = parseOptionalDate(cell(row, colClosedDate))
		ticket.ShipmentDate, _ = parseOptionalDate(cell(row, colShipmentDate))

		tickets = append(tickets, ticket)
	}
	return tickets, nil
}

// optionalString converts placeholder cells to absent values.
func optionalString(s string) *string {
	lowered := strings.ToLower(s)
	if lowered == "" || lowered == "nan" || lowered == "none" {
		return nil
	}
	return &s
}

// parseFlag accepts the stored "TRUE" literal as well as the legacy "SIM".
func parseFlag(s string) bool {
	return strings.EqualFold(s, "TRUE") || strings.EqualFold(s, "SIM")
}

// parseOptionalDate tries dd/mm/yyyy first, then ISO. The second return
// reports a present-but-unparseable value.
func parseOptionalDate(s string) (*time.Time, bool) {
	if optionalString(s) == nil {
		return nil, false
	}
	t, err := time.Parse("02/01/2006", s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
	}
	if err != nil {
		return nil, true
	}
	return &t, false
}
