package report

import "context"

// ReportService builds attendance metric reports from the current snapshot.
type ReportService interface {
	// GetMetrics returns on-time, completion, lost hour and cost rows for one period and level
	GetMetrics(ctx context.Context, req MetricsRequest) (MetricsReport, error)

	// GetLeaveAdjacency returns monthly leave-adjacency rows for one level
	GetLeaveAdjacency(ctx context.Context, req AdjacencyRequest) (AdjacencyReport, error)

	// GetOverview returns company-level tabs in one response
	GetOverview(ctx context.Context, req FilterRequest) (OverviewReport, error)

	// GetFilterOptions lists selectable filter values
	GetFilterOptions(ctx context.Context) (FilterOptions, error)

	// Refresh reloads the snapshot from storage
	Refresh(ctx context.Context) (SnapshotInfo, error)
}
