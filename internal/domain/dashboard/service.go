package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns the headline figures for a "YYYY-MM" month;
	// an empty month means the current one.
	GetDashboard(ctx context.Context, month string) (DashboardResponse, error)
}
