package service

import (
	"context"
	"time"

	"github.com/btime-solutions/chamados-service/internal/config"
	"github.com/btime-solutions/chamados-service/internal/domain"
	"github.com/btime-solutions/chamados-service/internal/status"
)

// ReportService computes the board KPIs shown on the dashboard.
type ReportService struct {
	tickets *TicketService
	sla     config.SLAConfig
}

// NewReportService constructs the service.
func NewReportService(tickets *TicketService, sla config.SLAConfig) *ReportService {
	return &ReportService{tickets: tickets, sla: sla}
}

// ProjectBoardRow is one project group on the board.
type ProjectBoardRow struct {
	ProjectName string               `json:"project_name"`
	BranchCode  string               `json:"branch_code"`
	BranchName  string               `json:"branch_name"`
	Status      domain.ProjectStatus `json:"status"`
	Tickets     int                  `json:"tickets"`
	Concluded   int                  `json:"concluded"`
	Cancelled   int                  `json:"cancelled"`
}

// BoardSummary aggregates ticket and project counts plus the SLA backlog.
type BoardSummary struct {
	Tickets      int                          `json:"tickets"`
	Projects     int                          `json:"projects"`
	BySubStatus  map[domain.SubStatus]int     `json:"by_sub_status"`
	ByStatus     map[domain.ProjectStatus]int `json:"by_status"`
	Overdue      int                          `json:"overdue"`
	SLAWindowDay int                          `json:"sla_window_days"`
}

// ProjectBoard groups the whole board into one row per project.
func (r *ReportService) ProjectBoard(ctx context.Context) ([]ProjectBoardRow, error) {
	tickets, err := r.tickets.ListBoard(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[domain.ProjectKey]int)
	rows := make([]ProjectBoardRow, 0)
	for _, t := range tickets {
		key := t.Key()
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, ProjectBoardRow{
				ProjectName: t.ProjectName,
				BranchCode:  t.BranchCode,
				BranchName:  t.BranchName,
				Status:      t.Status,
			})
		}
		rows[i].Tickets++
		if status.Concluded(t.SubStatus) {
			rows[i].Concluded++
		}
		if t.SubStatus == domain.SubStatusCancelled {
			rows[i].Cancelled++
		}
	}
	return rows, nil
}

// Summary computes the dashboard KPI counters. A ticket is overdue when its
// scheduled date is older than the configured SLA window and its sub-status
// is neither concluded nor cancelled.
func (r *ReportService) Summary(ctx context.Context) (*BoardSummary, error) {
	tickets, err := r.tickets.ListBoard(ctx)
	if err != nil {
		return nil, err
	}

	summary := &BoardSummary{
		Tickets:      len(tickets),
		BySubStatus:  make(map[domain.SubStatus]int),
		ByStatus:     make(map[domain.ProjectStatus]int),
		SLAWindowDay: r.sla.Days,
	}
	cutoff := time.Now().Add(-r.sla.Window())
	projects := make(map[domain.ProjectKey]domain.ProjectStatus)

	for _, t := range tickets {
		summary.BySubStatus[t.SubStatus]++
		projects[t.Key()] = t.Status

		if t.ScheduledDate == nil {
			continue
		}
		if t.ScheduledDate.Before(cutoff) &&
			!status.Concluded(t.SubStatus) &&
			t.SubStatus != domain.SubStatusCancelled {
			summary.Overdue++
		}
	}
	summary.Projects = len(projects)
	for _, projectStatus := range projects {
		summary.ByStatus[projectStatus]++
	}
	return summary, nil
}
