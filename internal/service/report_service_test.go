package service

import (
	"context"
	"testing"
	"time"

	"github.com/btime-solutions/chamados-service/internal/config"
	"github.com/btime-solutions/chamados-service/internal/domain"
)

func TestProjectBoardGroupsTickets(t *testing.T) {
	a := seedTicket("CH-1001")
	a.SubStatus = domain.SubStatusInvoiced
	a.Status = domain.ProjectStatusInProgress
	b := seedTicket("CH-1002")
	b.SubStatus = domain.SubStatusCancelled
	b.Status = domain.ProjectStatusInProgress
	c := seedTicket("CH-2001")
	c.ProjectName = "Cofres"
	c.BranchCode = "0500"
	c.Status = domain.ProjectStatusNotStarted

	svc, _ := newService(newFakeRepo(a, b, c), &fakeCache{})
	reports := NewReportService(svc, config.SLAConfig{Days: 5})

	rows, err := reports.ProjectBoard(context.Background())
	if err != nil {
		t.Fatalf("ProjectBoard: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	for _, row := range rows {
		switch row.ProjectName {
		case "ATM Upgrade":
			if row.Tickets != 2 || row.Concluded != 1 || row.Cancelled != 1 {
				t.Errorf("ATM Upgrade row = %+v", row)
			}
		case "Cofres":
			if row.Tickets != 1 || row.Status != domain.ProjectStatusNotStarted {
				t.Errorf("Cofres row = %+v", row)
			}
		default:
			t.Errorf("unexpected project %q", row.ProjectName)
		}
	}
}

func TestSummaryCountsAndOverdue(t *testing.T) {
	old := time.Now().Add(-10 * 24 * time.Hour)
	recent := time.Now().Add(-24 * time.Hour)

	a := seedTicket("CH-1001")
	a.SubStatus = domain.SubStatusFollowUp
	a.ScheduledDate = &old // past the window, still open: overdue
	b := seedTicket("CH-1002")
	b.SubStatus = domain.SubStatusInvoiced
	b.ScheduledDate = &old // past the window but concluded
	c := seedTicket("CH-1003")
	c.SubStatus = domain.SubStatusFollowUp
	c.ScheduledDate = &recent // inside the window

	svc, _ := newService(newFakeRepo(a, b, c), &fakeCache{})
	reports := NewReportService(svc, config.SLAConfig{Days: 5})

	summary, err := reports.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Tickets != 3 {
		t.Errorf("tickets = %d, want 3", summary.Tickets)
	}
	if summary.Projects != 1 {
		t.Errorf("projects = %d, want 1", summary.Projects)
	}
	if summary.BySubStatus[domain.SubStatusFollowUp] != 2 {
		t.Errorf("follow-up count = %d, want 2", summary.BySubStatus[domain.SubStatusFollowUp])
	}
	if summary.Overdue != 1 {
		t.Errorf("overdue = %d, want 1", summary.Overdue)
	}
	if summary.SLAWindowDay != 5 {
		t.Errorf("sla window = %d, want 5", summary.SLAWindowDay)
	}
}

func TestSummaryOverdueWindowIsConfigurable(t *testing.T) {
	threeDaysAgo := time.Now().Add(-3 * 24 * time.Hour)
	a := seedTicket("CH-1001")
	a.SubStatus = domain.SubStatusFollowUp
	a.ScheduledDate = &threeDaysAgo

	svc, _ := newService(newFakeRepo(a), &fakeCache{})

	strict := NewReportService(svc, config.SLAConfig{Days: 1})
	summary, err := strict.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Overdue != 1 {
		t.Errorf("1-day window overdue = %d, want 1", summary.Overdue)
	}

	svc2, _ := newService(newFakeRepo(a), &fakeCache{})
	lenient := NewReportService(svc2, config.SLAConfig{Days: 7})
	summary, err = lenient.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if summary.Overdue != 0 {
		t.Errorf("7-day window overdue = %d, want 0", summary.Overdue)
	}
}
