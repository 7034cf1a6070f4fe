package status

import (
	"testing"

	"github.com/btime-solutions/chamados-service/internal/domain"
)

func groupTicket(sub domain.SubStatus, released bool) domain.Ticket {
	return domain.Ticket{
		TicketNumber:          "CH-1000",
		ProjectName:           "ATM Upgrade",
		BranchCode:            "0331",
		SubStatus:             sub,
		BankFinancialReleased: released,
	}
}

func TestAggregateProject(t *testing.T) {
	cases := []struct {
		name    string
		tickets []domain.Ticket
		want    domain.ProjectStatus
	}{
		{
			name:    "empty group is cancelled",
			tickets: nil,
			want:    domain.ProjectStatusCancelled,
		},
		{
			name: "all tickets cancelled",
			tickets: []domain.Ticket{
				groupTicket(domain.SubStatusCancelled, false),
				groupTicket(domain.SubStatusCancelled, false),
			},
			want: domain.ProjectStatusCancelled,
		},
		{
			name: "all released finalizes even mixed concluded",
			tickets: []domain.Ticket{
				groupTicket(domain.SubStatusInvoiced, true),
				groupTicket(domain.SubStatusInvoiced, true),
			},
			want: domain.ProjectStatusFinalized,
		},
		{
			name: "released cancelled ticket does not block finalization",
			tickets: []domain.Ticket{
				groupTicket(domain.SubStatusInvoiced, true),
				groupTicket(domain.SubStatusCancelled, false),
			},
			want: domain.ProjectStatusFinalized,
		},
		{
			name: "partial release falls through to in progress",
			tickets: []domain.Ticket{
				groupTicket(domain.SubStatusInvoiced, true),
				groupTicket(domain.SubStatusInvoiced, true),
				groupTicket(domain.SubStatusFollowUp, false),
			},
			want: domain.ProjectStatusInProgress,
		},
		{
			name: "all concluded without release",
			tickets: []domain.Ticket{
				groupTicket(domain.SubStatusAwaitingInvoice, false),
				groupTicket(domain.SubStatusEquipmentDelivered, false),
				groupTicket(domain.SubStatusSendBook, false),
			},
			want: domain.ProjectStatusConcluded,
		},
		{
			name: "all not started",
			tickets: []domain.Ticket{
				groupTicket(domain.SubStatusRequestEquipment, false),
				groupTicket(domain.SubStatusOpenBtimeTicket, false),
			},
			want: domain.ProjectStatusNotStarted,
		},
		{
			name: "mixed concluded and not started is in progress",
			tickets: []domain.Ticket{
				groupTicket(domain.SubStatusAwaitingInvoice, false),
				groupTicket(domain.SubStatusOpenBtimeTicket, false),
			},
			want: domain.ProjectStatusInProgress,
		},
		{
			name: "in-flight work is in progress",
			tickets: []domain.Ticket{
				groupTicket(domain.SubStatusFollowUp, false),
				groupTicket(domain.SubStatusEquipmentShipped, false),
			},
			want: domain.ProjectStatusInProgress,
		},
		{
			name: "cancelled tickets excluded from aggregation",
			tickets: []domain.Ticket{
				groupTicket(domain.SubStatusCancelled, false),
				groupTicket(domain.SubStatusRequestEquipment, false),
			},
			want: domain.ProjectStatusNotStarted,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := AggregateProject(tc.tickets); got != tc.want {
				t.Errorf("AggregateProject = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAggregateProjectIdempotent(t *testing.T) {
	tickets := []domain.Ticket{
		groupTicket(domain.SubStatusFollowUp, false),
		groupTicket(domain.SubStatusInvoiced, true),
	}
	first := AggregateProject(tickets)
	for i := range tickets {
		tickets[i].Status = first
	}
	if second := AggregateProject(tickets); second != first {
		t.Fatalf("second aggregation %q differs from first %q", second, first)
	}
}
