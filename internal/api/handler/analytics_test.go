package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/seleradigital/merchant-admin-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

type stubAnalyzer struct {
	gotPeriod string
	data      *domain.ChartData
	err       error
}

func (s *stubAnalyzer) GetChartData(_ context.Context, period string) (*domain.ChartData, error) {
	s.gotPeriod = period
	return s.data, s.err
}

func TestGetCharts(t *testing.T) {
	t.Run("wraps the payload in the success envelope", func(t *testing.T) {
		analyzer := &stubAnalyzer{data: &domain.ChartData{Period: "7d"}}

		request := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/charts?period=7d", nil)
		recorder := httptest.NewRecorder()

		GetCharts(analyzer)(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Equal(t, "7d", analyzer.gotPeriod)

		var body struct {
			Success bool             `json:"success"`
			Data    domain.ChartData `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "7d", body.Data.Period)
	})

	t.Run("missing period is passed through empty", func(t *testing.T) {
		analyzer := &stubAnalyzer{data: &domain.ChartData{Period: "30d"}}

		request := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/charts", nil)
		recorder := httptest.NewRecorder()

		GetCharts(analyzer)(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Empty(t, analyzer.gotPeriod, "period defaulting is the service's job")
	})

	t.Run("service failure returns the 500 error envelope", func(t *testing.T) {
		analyzer := &stubAnalyzer{err: errors.New("database unavailable")}

		request := httptest.NewRequest(http.MethodGet, "/api/admin/analytics/charts?period=30d", nil)
		recorder := httptest.NewRecorder()

		GetCharts(analyzer)(recorder, request)

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)

		var body struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "INTERNAL_ERROR", body.Error)
		assert.NotEmpty(t, body.Message)
	})
}
