package analyzing

import (
	"context"

	"github.com/seleradigital/merchant-admin-api/internal/domain"
)

// ChartAnalyzer produces the aggregated chart payload for the admin dashboard
type ChartAnalyzer interface {
	// GetChartData aggregates revenue, customer growth, activity heatmap and
	// month-over-month figures for the requested period token
	GetChartData(ctx context.Context, period string) (*domain.ChartData, error)
}
