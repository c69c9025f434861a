package analyzing

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/seleradigital/merchant-admin-api/infrastructure/repository/mocks"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

// referenceNow is a Saturday at noon so weekday-sensitive assertions stay stable
var referenceNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *mocks.MockOrderRepository, *mocks.MockCustomerRepository) {
	ctrl := gomock.NewController(t)

	mockOrderRepo := mocks.NewMockOrderRepository(ctrl)
	mockCustomerRepo := mocks.NewMockCustomerRepository(ctrl)

	service := &Service{
		orderRepository:    mockOrderRepo,
		customerRepository: mockCustomerRepo,
		now:                func() time.Time { return referenceNow },
	}

	return service, mockOrderRepo, mockCustomerRepo
}

func completedOrder(createdAt time.Time, amount float64, currency string) *domain.Order {
	return &domain.Order{
		ID:          "ORD001",
		Status:      domain.OrderStatusCompleted,
		TotalAmount: amount,
		Currency:    currency,
		CreatedAt:   createdAt,
	}
}

func TestService_GetChartData(t *testing.T) {
	weekStart := referenceNow.AddDate(0, 0, -7)
	heatmapStart := referenceNow.AddDate(0, 0, -30)
	currentMonthStart := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	lastMonthStart := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	orders := []*domain.Order{
		completedOrder(time.Date(2024, 6, 10, 10, 0, 0, 0, time.UTC), 100, "IDR"),
		completedOrder(time.Date(2024, 6, 10, 11, 0, 0, 0, time.UTC), 50, "IDR"),
		completedOrder(time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC), 80, "AUD"),
		completedOrder(time.Date(2024, 6, 13, 20, 0, 0, 0, time.UTC), 20, "XYZ"),
	}

	customers := []*domain.Customer{
		{ID: 1, CreatedAt: time.Date(2024, 6, 9, 8, 0, 0, 0, time.UTC)},
		{ID: 2, CreatedAt: time.Date(2024, 6, 9, 19, 0, 0, 0, time.UTC)},
		{ID: 3, CreatedAt: time.Date(2024, 6, 14, 13, 0, 0, 0, time.UTC)},
	}

	tests := []struct {
		name     string
		period   string
		setup    func(orderRepo *mocks.MockOrderRepository, customerRepo *mocks.MockCustomerRepository)
		validate func(t *testing.T, data *domain.ChartData)
		wantErr  bool
	}{
		{
			name:   "7d with orders builds the full payload",
			period: "7d",
			setup: func(orderRepo *mocks.MockOrderRepository, customerRepo *mocks.MockCustomerRepository) {
				orderRepo.EXPECT().ListCompletedSince(weekStart).Return(orders, nil)
				customerRepo.EXPECT().CountCreatedBefore(weekStart).Return(10, nil)
				customerRepo.EXPECT().ListCreatedSince(weekStart).Return(customers, nil)
				orderRepo.EXPECT().ListSince(heatmapStart).Return(orders, nil)
				orderRepo.EXPECT().CompletedTotalsBetween(currentMonthStart, referenceNow).Return(250.0, 4, nil)
				orderRepo.EXPECT().CompletedTotalsBetween(lastMonthStart, currentMonthStart).Return(200.0, 8, nil)
				customerRepo.EXPECT().CountCreatedBetween(currentMonthStart, referenceNow).Return(3, nil)
				customerRepo.EXPECT().CountCreatedBetween(lastMonthStart, currentMonthStart).Return(0, nil)
			},
			validate: func(t *testing.T, data *domain.ChartData) {
				assert.Equal(t, "7d", data.Period)

				// 2024-06-08 through 2024-06-15 inclusive, one point per day
				assert.Len(t, data.RevenueData, 8)
				assertNoDateGaps(t, data.RevenueData)

				byDate := revenueByDate(data.RevenueData)
				assert.Equal(t, domain.RevenuePoint{Date: "2024-06-10", Revenue: 150, OrderCount: 2}, byDate["2024-06-10"])
				assert.Equal(t, domain.RevenuePoint{Date: "2024-06-12", Revenue: 80, OrderCount: 1}, byDate["2024-06-12"])
				assert.Equal(t, domain.RevenuePoint{Date: "2024-06-11"}, byDate["2024-06-11"], "day without orders is zero-filled")

				// Unknown currency is folded into IDR
				assert.Equal(t, &domain.CurrencyRevenue{TotalRevenue: 170, OrderCount: 3}, data.RevenueByCurrency[domain.CurrencyIDR])
				assert.Equal(t, &domain.CurrencyRevenue{TotalRevenue: 80, OrderCount: 1}, data.RevenueByCurrency[domain.CurrencyAUD])

				// Per-currency totals add up to the combined totals
				perCurrencyRevenue := data.RevenueByCurrency[domain.CurrencyIDR].TotalRevenue + data.RevenueByCurrency[domain.CurrencyAUD].TotalRevenue
				assert.Equal(t, data.Summary.TotalRevenue, perCurrencyRevenue)

				assert.Equal(t, 250.0, data.Summary.TotalRevenue)
				assert.Equal(t, 4, data.Summary.TotalOrders)
				assert.Equal(t, 62.5, data.Summary.AvgOrderValue)
				assert.Equal(t, 3, data.Summary.TotalNewCustomers)
				assert.Equal(t, 13, data.Summary.CurrentTotalCustomers)

				// Customer growth is always daily, running total seeded with 10
				assert.Len(t, data.CustomerGrowth, 8)
				first := data.CustomerGrowth[0]
				assert.Equal(t, "2024-06-08", first.Date)
				assert.Equal(t, 0, first.NewCustomers)
				assert.Equal(t, 10, first.TotalCustomers)
				last := data.CustomerGrowth[len(data.CustomerGrowth)-1]
				assert.Equal(t, "2024-06-15", last.Date)
				assert.Equal(t, 13, last.TotalCustomers, "final running total equals seed plus all new customers")

				assertFullHeatmapGrid(t, data.ActivityHeatmap)
				// 2024-06-10 is a Monday (weekday 1)
				assert.Equal(t, 1, heatmapCount(data.ActivityHeatmap, 1, 10))
				assert.Equal(t, 1, heatmapCount(data.ActivityHeatmap, 1, 11))

				assert.Equal(t, 25.0, data.MonthOverMonth.RevenueGrowth)
				assert.Equal(t, -50.0, data.MonthOverMonth.OrderGrowth)
				assert.Equal(t, 100.0, data.MonthOverMonth.CustomerGrowth, "growth from a zero month is reported as 100")
			},
		},
		{
			name:   "7d without any orders produces a dense all-zero series",
			period: "7d",
			setup: func(orderRepo *mocks.MockOrderRepository, customerRepo *mocks.MockCustomerRepository) {
				orderRepo.EXPECT().ListCompletedSince(weekStart).Return([]*domain.Order{}, nil)
				customerRepo.EXPECT().CountCreatedBefore(weekStart).Return(0, nil)
				customerRepo.EXPECT().ListCreatedSince(weekStart).Return([]*domain.Customer{}, nil)
				orderRepo.EXPECT().ListSince(heatmapStart).Return([]*domain.Order{}, nil)
				orderRepo.EXPECT().CompletedTotalsBetween(currentMonthStart, referenceNow).Return(0.0, 0, nil)
				orderRepo.EXPECT().CompletedTotalsBetween(lastMonthStart, currentMonthStart).Return(0.0, 0, nil)
				customerRepo.EXPECT().CountCreatedBetween(currentMonthStart, referenceNow).Return(0, nil)
				customerRepo.EXPECT().CountCreatedBetween(lastMonthStart, currentMonthStart).Return(0, nil)
			},
			validate: func(t *testing.T, data *domain.ChartData) {
				assert.Len(t, data.RevenueData, 8)
				for _, point := range data.RevenueData {
					assert.Zero(t, point.Revenue)
					assert.Zero(t, point.OrderCount)
				}

				assert.Zero(t, data.Summary.TotalRevenue)
				assert.Zero(t, data.Summary.AvgOrderValue)

				assertFullHeatmapGrid(t, data.ActivityHeatmap)
				for _, cell := range data.ActivityHeatmap {
					assert.Zero(t, cell.OrderCount)
				}

				// Both months at zero report 0 growth, never NaN
				assert.Equal(t, 0.0, data.MonthOverMonth.RevenueGrowth)
				assert.Equal(t, 0.0, data.MonthOverMonth.OrderGrowth)
				assert.Equal(t, 0.0, data.MonthOverMonth.CustomerGrowth)
			},
		},
		{
			name:   "order load failure aborts the request",
			period: "7d",
			setup: func(orderRepo *mocks.MockOrderRepository, customerRepo *mocks.MockCustomerRepository) {
				orderRepo.EXPECT().ListCompletedSince(weekStart).Return(nil, errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, mockOrderRepo, mockCustomerRepo := newTestService(t)
			tt.setup(mockOrderRepo, mockCustomerRepo)

			data, err := service.GetChartData(context.Background(), tt.period)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, data)
				return
			}

			assert.NoError(t, err)
			tt.validate(t, data)
		})
	}
}

func TestService_GetChartData_WeeklyBuckets(t *testing.T) {
	service, mockOrderRepo, mockCustomerRepo := newTestService(t)

	quarterStart := referenceNow.AddDate(0, 0, -90)

	// Both orders fall in the ISO week starting Monday 2024-06-03
	orders := []*domain.Order{
		completedOrder(time.Date(2024, 6, 4, 10, 0, 0, 0, time.UTC), 40, "IDR"),
		completedOrder(time.Date(2024, 6, 9, 23, 0, 0, 0, time.UTC), 60, "IDR"),
	}

	mockOrderRepo.EXPECT().ListCompletedSince(quarterStart).Return(orders, nil)
	mockCustomerRepo.EXPECT().CountCreatedBefore(quarterStart).Return(0, nil)
	mockCustomerRepo.EXPECT().ListCreatedSince(quarterStart).Return(nil, nil)
	mockOrderRepo.EXPECT().ListSince(gomock.Any()).Return(nil, nil)
	mockOrderRepo.EXPECT().CompletedTotalsBetween(gomock.Any(), gomock.Any()).Return(0.0, 0, nil).Times(2)
	mockCustomerRepo.EXPECT().CountCreatedBetween(gomock.Any(), gomock.Any()).Return(0, nil).Times(2)

	data, err := service.GetChartData(context.Background(), "90d")

	assert.NoError(t, err)
	assert.Equal(t, "90d", data.Period)

	byDate := revenueByDate(data.RevenueData)
	assert.Equal(t, domain.RevenuePoint{Date: "2024-06-03", Revenue: 100, OrderCount: 2}, byDate["2024-06-03"], "Tuesday and Sunday orders share the Monday-keyed bucket")

	// Customer growth stays daily even when revenue groups by week
	assert.Greater(t, len(data.CustomerGrowth), len(data.RevenueData))
	for _, point := range data.CustomerGrowth {
		_, parseErr := time.Parse(time.DateOnly, point.Date)
		assert.NoError(t, parseErr)
	}
}

func TestService_GetChartData_Cache(t *testing.T) {
	t.Run("cache hit skips every repository call", func(t *testing.T) {
		service, _, _ := newTestService(t)

		cached := &domain.ChartData{Period: "30d", Summary: domain.ChartSummary{TotalRevenue: 999}}
		service.WithCache(&fakeCache{stored: map[string]*domain.ChartData{"analytics:charts:30d": cached}}, time.Minute)

		data, err := service.GetChartData(context.Background(), "30d")

		assert.NoError(t, err)
		assert.Equal(t, 999.0, data.Summary.TotalRevenue)
	})

	t.Run("cache failures degrade to direct computation", func(t *testing.T) {
		service, mockOrderRepo, mockCustomerRepo := newTestService(t)

		failing := &fakeCache{getErr: errors.New("redis down"), setErr: errors.New("redis down")}
		service.WithCache(failing, time.Minute)

		mockOrderRepo.EXPECT().ListCompletedSince(gomock.Any()).Return(nil, nil)
		mockCustomerRepo.EXPECT().CountCreatedBefore(gomock.Any()).Return(0, nil)
		mockCustomerRepo.EXPECT().ListCreatedSince(gomock.Any()).Return(nil, nil)
		mockOrderRepo.EXPECT().ListSince(gomock.Any()).Return(nil, nil)
		mockOrderRepo.EXPECT().CompletedTotalsBetween(gomock.Any(), gomock.Any()).Return(0.0, 0, nil).Times(2)
		mockCustomerRepo.EXPECT().CountCreatedBetween(gomock.Any(), gomock.Any()).Return(0, nil).Times(2)

		data, err := service.GetChartData(context.Background(), "30d")

		assert.NoError(t, err)
		assert.Equal(t, "30d", data.Period)
	})

	t.Run("computed payload is written back under the period key", func(t *testing.T) {
		service, mockOrderRepo, mockCustomerRepo := newTestService(t)

		store := &fakeCache{stored: map[string]*domain.ChartData{}}
		service.WithCache(store, time.Minute)

		mockOrderRepo.EXPECT().ListCompletedSince(gomock.Any()).Return(nil, nil)
		mockCustomerRepo.EXPECT().CountCreatedBefore(gomock.Any()).Return(0, nil)
		mockCustomerRepo.EXPECT().ListCreatedSince(gomock.Any()).Return(nil, nil)
		mockOrderRepo.EXPECT().ListSince(gomock.Any()).Return(nil, nil)
		mockOrderRepo.EXPECT().CompletedTotalsBetween(gomock.Any(), gomock.Any()).Return(0.0, 0, nil).Times(2)
		mockCustomerRepo.EXPECT().CountCreatedBetween(gomock.Any(), gomock.Any()).Return(0, nil).Times(2)

		_, err := service.GetChartData(context.Background(), "unknown-token")

		assert.NoError(t, err)
		assert.Contains(t, store.stored, "analytics:charts:30d", "fallback period normalizes the cache key")
	})
}

// fakeCache is an in-memory stand-in for the Redis chart cache
type fakeCache struct {
	stored map[string]*domain.ChartData
	getErr error
	setErr error
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	if f.getErr != nil {
		return false, f.getErr
	}
	value, ok := f.stored[key]
	if !ok {
		return false, nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(raw, dest)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	data := &domain.ChartData{}
	if err := json.Unmarshal(raw, data); err != nil {
		return err
	}
	f.stored[key] = data
	return nil
}

func (f *fakeCache) Close() error { return nil }

func assertNoDateGaps(t *testing.T, points []domain.RevenuePoint) {
	t.Helper()
	for i := 1; i < len(points); i++ {
		previous, err := time.Parse(time.DateOnly, points[i-1].Date)
		assert.NoError(t, err)
		current, err := time.Parse(time.DateOnly, points[i].Date)
		assert.NoError(t, err)
		assert.Equal(t, previous.AddDate(0, 0, 1), current, "series must be dense")
	}
}

func assertFullHeatmapGrid(t *testing.T, cells []domain.HeatmapCell) {
	t.Helper()
	assert.Len(t, cells, 168)

	seen := make(map[[2]int]bool, len(cells))
	for _, cell := range cells {
		assert.GreaterOrEqual(t, cell.DayOfWeek, 0)
		assert.LessOrEqual(t, cell.DayOfWeek, 6)
		assert.GreaterOrEqual(t, cell.Hour, 0)
		assert.LessOrEqual(t, cell.Hour, 23)
		seen[[2]int{cell.DayOfWeek, cell.Hour}] = true
	}
	assert.Len(t, seen, 168, "every day-hour slot appears exactly once")
}

func heatmapCount(cells []domain.HeatmapCell, day, hour int) int {
	for _, cell := range cells {
		if cell.DayOfWeek == day && cell.Hour == hour {
			return cell.OrderCount
		}
	}
	return -1
}

func revenueByDate(points []domain.RevenuePoint) map[string]domain.RevenuePoint {
	result := make(map[string]domain.RevenuePoint, len(points))
	for _, point := range points {
		result[point.Date] = point
	}
	return result
}
