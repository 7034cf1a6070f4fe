package importer

import (
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

const sampleCSV = `numero_chamado,projeto,cod_agencia,agencia,tecnico,data_agendamento,data_envio,pedido,cancelado,liberado_financeiro,book_enviado
CH-e-1042,ATM Upgrade,0331,Centro,Marcos,10/03/2026,,PED-123,FALSE,FALSE,NAO
CH-1043,ATM Upgrade,0331,Centro,,2026-03-12,,,FALSE,TRUE,SIM
,ATM Upgrade,0331,Centro,,,,,FALSE,FALSE,NAO
CH-1044,ATM Upgrade,0331,Centro,nan,not-a-date,,,FALSE,FALSE,NAO
`

func TestReadTickets(t *testing.T) {
	tickets, err := ReadTickets(strings.NewReader(sampleCSV), zap.NewNop())
	if err != nil {
		t.Fatalf("ReadTickets: %v", err)
	}
	// Row three has no ticket number, row four has a bad scheduled date.
	if len(tickets) != 2 {
		t.Fatalf("got %d tickets, want 2", len(tickets))
	}

	first := tickets[0]
	if first.TicketNumber != "CH-e-1042" {
		t.Errorf("ticket number = %q", first.TicketNumber)
	}
	if first.Technician == nil || *first.Technician != "Marcos" {
		t.Errorf("technician = %v, want Marcos", first.Technician)
	}
	if first.OrderNumber == nil || *first.OrderNumber != "PED-123" {
		t.Errorf("order number = %v, want PED-123", first.OrderNumber)
	}
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if first.ScheduledDate == nil || !first.ScheduledDate.Equal(want) {
		t.Errorf("scheduled date = %v, want %v", first.ScheduledDate, want)
	}
	if first.ShipmentDate != nil {
		t.Errorf("shipment date = %v, want nil", first.ShipmentDate)
	}
	if first.Cancelled || first.BankFinancialReleased || first.BookSent {
		t.Error("flags should all be false for first row")
	}

	second := tickets[1]
	if second.Technician != nil {
		t.Errorf("blank technician should be nil, got %v", second.Technician)
	}
	if !second.BankFinancialReleased {
		t.Error("liberado_financeiro TRUE should decode to true")
	}
	if !second.BookSent {
		t.Error("book_enviado SIM should decode to true")
	}
	wantISO := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	if second.ScheduledDate == nil || !second.ScheduledDate.Equal(wantISO) {
		t.Errorf("ISO scheduled date = %v, want %v", second.ScheduledDate, wantISO)
	}
}

func TestReadTicketsMissingColumn(t *testing.T) {
	csv := "numero_chamado,agencia\nCH-1,Centro\n"
	if _, err := ReadTickets(strings.NewReader(csv), zap.NewNop()); err == nil {
		t.Fatal("expected error for missing required column")
	}
}
