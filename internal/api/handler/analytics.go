package handler

import (
	"encoding/json"
	"net/http"

	"github.com/seleradigital/merchant-admin-api/internal/usecases/analyzing"
	"github.com/seleradigital/merchant-admin-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// ChartsResponse wraps the chart payload in the dashboard envelope
type ChartsResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

// GetCharts serves the aggregated dashboard chart data. Unknown period
// tokens fall back to the default range inside the service.
func GetCharts(service analyzing.ChartAnalyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := r.URL.Query().Get("period")

		data, err := service.GetChartData(r.Context(), period)
		if err != nil {
			logrus.WithError(err).WithField("period", period).Error("failed to build chart data")
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Failed to fetch analytics data", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(ChartsResponse{
			Success: true,
			Data:    data,
		})
		if err != nil {
			logrus.Error(err)
		}
	}
}
