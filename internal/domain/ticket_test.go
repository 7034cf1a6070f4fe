package domain

import (
	"strings"
	"testing"
	"time"
)

func TestAppendLogFormat(t *testing.T) {
	ticket := Ticket{}
	when := time.Date(2026, 8, 31, 14, 5, 0, 0, time.UTC)

	ticket.AppendLog(when, "ana", "sub_status", "Abrir chamado Btime", "Follow-up")
	want := "2026-08-31 14:05 ana: sub_status 'Abrir chamado Btime' -> 'Follow-up'"
	if ticket.Log != want {
		t.Errorf("log = %q, want %q", ticket.Log, want)
	}

	ticket.AppendLog(when, "ana", "status", "Não Iniciado", "Em Andamento")
	lines := strings.Split(ticket.Log, "\n")
	if len(lines) != 2 {
		t.Fatalf("log has %d lines, want 2", len(lines))
	}
	if lines[0] != want {
		t.Errorf("first line changed after second append: %q", lines[0])
	}
}

func TestProjectKey(t *testing.T) {
	a := Ticket{ProjectName: "ATM Upgrade", BranchCode: "0331"}
	b := Ticket{ProjectName: "ATM Upgrade", BranchCode: "0331", TicketNumber: "CH-2"}
	c := Ticket{ProjectName: "ATM Upgrade", BranchCode: "0500"}

	if a.Key() != b.Key() {
		t.Error("tickets sharing project and branch must share a key")
	}
	if a.Key() == c.Key() {
		t.Error("different branches must produce different keys")
	}
	if got := a.Key().String(); got != "ATM Upgrade/0331" {
		t.Errorf("key string = %q", got)
	}
}
