package status

import (
	"github.com/btime-solutions/chamados-service/internal/domain"
)

// AggregateProject computes the project-level status from the tickets of one
// project group. Each ticket is expected to carry a freshly derived
// sub-status. The function is pure and idempotent: re-running it over the
// same snapshots always yields the same label.
func AggregateProject(tickets []domain.Ticket) domain.ProjectStatus {
	active := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.SubStatus != domain.SubStatusCancelled {
			active = append(active, t)
		}
	}
	if len(active) == 0 {
		return domain.ProjectStatusCancelled
	}

	allReleased := true
	allConcluded := true
	allNotStarted := true
	for _, t := range active {
		if !t.BankFinancialReleased {
			allReleased = false
		}
		if !Concluded(t.SubStatus) {
			allConcluded = false
		}
		if !NotStarted(t.SubStatus) {
			allNotStarted = false
		}
	}

	// Financial release wins over the concluded/not-started split.
	switch {
	case allReleased:
		return domain.ProjectStatusFinalized
	case allConcluded:
		return domain.ProjectStatusConcluded
	case allNotStarted:
		return domain.ProjectStatusNotStarted
	}
	return domain.ProjectStatusInProgress
}
