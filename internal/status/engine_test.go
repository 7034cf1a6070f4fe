package status

import (
	"testing"
	"time"

	"github.com/btime-solutions/chamados-service/internal/domain"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestClassifyType(t *testing.T) {
	cases := []struct {
		name   string
		number string
		want   domain.TicketType
	}{
		{"lowercase marker", "CH-e-1042", domain.TicketTypeEquipment},
		{"uppercase marker", "CH-E-1042", domain.TicketTypeEquipment},
		{"mid-string marker", "2024-e-INST-001", domain.TicketTypeEquipment},
		{"no marker", "CH-1042", domain.TicketTypeService},
		{"letter e without dashes", "CHe1042", domain.TicketTypeService},
		{"empty number", "", domain.TicketTypeService},
		{"marker at end", "CH-1042-e-", domain.TicketTypeEquipment},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifyType(tc.number); got != tc.want {
				t.Errorf("ClassifyType(%q) = %q, want %q", tc.number, got, tc.want)
			}
		})
	}
}

func TestIsBlank(t *testing.T) {
	cases := []struct {
		name string
		val  *string
		want bool
	}{
		{"nil", nil, true},
		{"empty", strPtr(""), true},
		{"spaces only", strPtr("   "), true},
		{"nan token", strPtr("nan"), true},
		{"NaN mixed case", strPtr("NaN"), true},
		{"none token", strPtr("none"), true},
		{"None capitalized", strPtr("None"), true},
		{"padded token", strPtr("  None  "), true},
		{"real value", strPtr("PED-123"), false},
		{"value containing nan", strPtr("fernando"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isBlank(tc.val); got != tc.want {
				t.Errorf("isBlank(%v) = %v, want %v", tc.val, got, tc.want)
			}
		})
	}
}

func equipmentTicket() *domain.Ticket {
	return &domain.Ticket{TicketNumber: "CH-e-1042", ProjectName: "ATM Upgrade", BranchCode: "0331"}
}

func serviceTicket() *domain.Ticket {
	return &domain.Ticket{TicketNumber: "CH-1042", ProjectName: "ATM Upgrade", BranchCode: "0331"}
}

func TestDeriveSubStatusSharedPrecedence(t *testing.T) {
	// Cancelled beats every other flag combination.
	full := equipmentTicket()
	full.Cancelled = true
	full.BankFinancialReleased = true
	full.PendingEquipment = true
	full.PendingInfra = true
	full.TicketAltered = true
	full.EquipmentDelivered = true
	if got := DeriveSubStatus(full); got != domain.SubStatusCancelled {
		t.Fatalf("cancelled ticket derived %q, want %q", got, domain.SubStatusCancelled)
	}

	// Financial release beats pending and alteration flags.
	released := serviceTicket()
	released.BankFinancialReleased = true
	released.PendingEquipment = true
	released.PendingInfra = true
	released.TicketAltered = true
	if got := DeriveSubStatus(released); got != domain.SubStatusInvoiced {
		t.Fatalf("released ticket derived %q, want %q", got, domain.SubStatusInvoiced)
	}

	cases := []struct {
		name   string
		mutate func(*domain.Ticket)
		want   domain.SubStatus
	}{
		{"pending equipment over infra", func(tk *domain.Ticket) {
			tk.PendingEquipment = true
			tk.PendingInfra = true
			tk.TicketAltered = true
		}, domain.SubStatusPendingEquipment},
		{"pending infra over alteration", func(tk *domain.Ticket) {
			tk.PendingInfra = true
			tk.TicketAltered = true
		}, domain.SubStatusPendingInfra},
		{"alteration over type branches", func(tk *domain.Ticket) {
			tk.TicketAltered = true
			tk.EquipmentDelivered = true
		}, domain.SubStatusTicketAltered},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tk := equipmentTicket()
			tc.mutate(tk)
			if got := DeriveSubStatus(tk); got != tc.want {
				t.Errorf("derived %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDeriveSubStatusEquipment(t *testing.T) {
	shipped := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		mutate func(*domain.Ticket)
		want   domain.SubStatus
	}{
		{"delivered wins over shipment", func(tk *domain.Ticket) {
			tk.EquipmentDelivered = true
			tk.PartialShipment = true
			tk.ShipmentDate = timePtr(shipped)
		}, domain.SubStatusEquipmentDelivered},
		{"partial over full shipment", func(tk *domain.Ticket) {
			tk.PartialShipment = true
			tk.ShipmentDate = timePtr(shipped)
		}, domain.SubStatusPartialShipment},
		{"shipment date over order", func(tk *domain.Ticket) {
			tk.ShipmentDate = timePtr(shipped)
			tk.OrderNumber = strPtr("PED-123")
		}, domain.SubStatusEquipmentShipped},
		{"order number only", func(tk *domain.Ticket) {
			tk.OrderNumber = strPtr("PED-123")
		}, domain.SubStatusAwaitingShipment},
		{"blank order number falls through", func(tk *domain.Ticket) {
			tk.OrderNumber = strPtr("nan")
		}, domain.SubStatusRequestEquipment},
		{"nothing set", func(tk *domain.Ticket) {}, domain.SubStatusRequestEquipment},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tk := equipmentTicket()
			tc.mutate(tk)
			if got := DeriveSubStatus(tk); got != tc.want {
				t.Errorf("derived %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDeriveSubStatusService(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Ticket)
		want   domain.SubStatus
	}{
		{"book sent wins", func(tk *domain.Ticket) {
			tk.BookSent = true
			tk.FollowupSent = true
			tk.Technician = strPtr("Marcos")
		}, domain.SubStatusAwaitingInvoice},
		{"followup over technician", func(tk *domain.Ticket) {
			tk.FollowupSent = true
			tk.Technician = strPtr("Marcos")
		}, domain.SubStatusSendBook},
		{"technician assigned", func(tk *domain.Ticket) {
			tk.Technician = strPtr("Marcos")
			tk.ExternalLink = strPtr("https://portal/chamado/9")
		}, domain.SubStatusFollowUp},
		{"link only", func(tk *domain.Ticket) {
			tk.ExternalLink = strPtr("https://portal/chamado/9")
		}, domain.SubStatusDispatchTechnician},
		{"blank technician ignored", func(tk *domain.Ticket) {
			tk.Technician = strPtr("None")
		}, domain.SubStatusOpenBtimeTicket},
		{"nothing set", func(tk *domain.Ticket) {}, domain.SubStatusOpenBtimeTicket},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tk := serviceTicket()
			tc.mutate(tk)
			if got := DeriveSubStatus(tk); got != tc.want {
				t.Errorf("derived %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDeriveSubStatusIdempotent(t *testing.T) {
	tk := serviceTicket()
	tk.Technician = strPtr("Marcos")
	first := DeriveSubStatus(tk)
	tk.SubStatus = first
	second := DeriveSubStatus(tk)
	if first != second {
		t.Fatalf("second derivation %q differs from first %q", second, first)
	}
}
