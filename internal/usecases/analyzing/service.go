package analyzing

import (
	"context"
	"fmt"
	"time"

	"github.com/seleradigital/merchant-admin-api/infrastructure/cache"
	"github.com/seleradigital/merchant-admin-api/infrastructure/repository"
	"github.com/seleradigital/merchant-admin-api/internal/domain"
	"github.com/seleradigital/merchant-admin-api/pkg/log"
	"github.com/seleradigital/merchant-admin-api/pkg/utils"
)

// heatmapWindowDays is fixed regardless of the requested period
const heatmapWindowDays = 30

// bucketTotals accumulates one bucket of the revenue series
type bucketTotals struct {
	revenue    float64
	orderCount int
}

type Service struct {
	orderRepository    repository.OrderRepository
	customerRepository repository.CustomerRepository
	chartCache         cache.Cache
	cacheTTL           time.Duration
	now                func() time.Time
}

func NewService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
) *Service {
	return &Service{
		orderRepository:    orderRepo,
		customerRepository: customerRepo,
		now:                time.Now,
	}
}

// WithCache enables the read-through chart payload cache. Cache failures are
// logged and degrade to direct computation, never failing the request.
func (s *Service) WithCache(chartCache cache.Cache, ttl time.Duration) *Service {
	s.chartCache = chartCache
	s.cacheTTL = ttl
	return s
}

// GetChartData runs the four aggregation passes for the requested period and
// assembles the dashboard payload. All passes operate on freshly fetched rows;
// nothing is persisted.
func (s *Service) GetChartData(ctx context.Context, periodToken string) (*domain.ChartData, error) {
	logger := log.ForContext(ctx)
	now := s.now()

	period, start, granularity := ResolvePeriod(periodToken, now)

	cacheKey := fmt.Sprintf("analytics:charts:%s", period)
	if s.chartCache != nil {
		cached := &domain.ChartData{}
		hit, err := s.chartCache.GetJSON(ctx, cacheKey, cached)
		if err != nil {
			logger.WithError(err).Warn("charts: cache read failed, computing directly")
		} else if hit {
			return cached, nil
		}
	}

	orders, err := s.orderRepository.ListCompletedSince(start)
	if err != nil {
		return nil, fmt.Errorf("failed to load completed orders: %w", err)
	}

	combined, byCurrency := aggregateOrders(orders, granularity)
	revenueData := fillSeries(combined, start, now, granularity)

	customerGrowth, newCustomers, totalCustomers, err := s.buildCustomerGrowth(start, now)
	if err != nil {
		return nil, err
	}

	activityHeatmap, err := s.buildActivityHeatmap(now)
	if err != nil {
		return nil, err
	}

	monthOverMonth, err := s.buildMonthOverMonth(now)
	if err != nil {
		return nil, err
	}

	totalRevenue := 0.0
	for _, order := range orders {
		totalRevenue += order.TotalAmount
	}
	avgOrderValue := 0.0
	if len(orders) > 0 {
		avgOrderValue = utils.RoundWithTwoDecimalPlace(totalRevenue / float64(len(orders)))
	}

	data := &domain.ChartData{
		Period:          period,
		RevenueData:     revenueData,
		CustomerGrowth:  customerGrowth,
		ActivityHeatmap: activityHeatmap,
		Summary: domain.ChartSummary{
			TotalRevenue:          totalRevenue,
			TotalOrders:           len(orders),
			AvgOrderValue:         avgOrderValue,
			TotalNewCustomers:     newCustomers,
			CurrentTotalCustomers: totalCustomers,
		},
		RevenueByCurrency: byCurrency,
		MonthOverMonth:    monthOverMonth,
	}

	if s.chartCache != nil {
		if err := s.chartCache.SetJSON(ctx, cacheKey, data, s.cacheTTL); err != nil {
			logger.WithError(err).Warn("charts: cache write failed")
		}
	}

	return data, nil
}

// aggregateOrders buckets completed orders by the granularity key, split by
// merchant currency. Orders without a known currency count as IDR.
func aggregateOrders(orders []*domain.Order, granularity Granularity) (map[string]*bucketTotals, map[string]*domain.CurrencyRevenue) {
	combined := make(map[string]*bucketTotals)
	byCurrency := map[string]*domain.CurrencyRevenue{
		domain.CurrencyIDR: {},
		domain.CurrencyAUD: {},
	}

	for _, order := range orders {
		key := granularity.Key(order.CreatedAt)

		bucket, ok := combined[key]
		if !ok {
			bucket = &bucketTotals{}
			combined[key] = bucket
		}
		bucket.revenue += order.TotalAmount
		bucket.orderCount++

		currency := domain.NormalizeCurrency(order.Currency)
		byCurrency[currency].TotalRevenue += order.TotalAmount
		byCurrency[currency].OrderCount++
	}

	return combined, byCurrency
}

// fillSeries walks the aligned range start..now emitting one point per bucket,
// zero-filling buckets with no orders so the chart series has no gaps.
func fillSeries(buckets map[string]*bucketTotals, start, now time.Time, granularity Granularity) []domain.RevenuePoint {
	points := make([]domain.RevenuePoint, 0)

	for cursor := granularity.Align(start); !cursor.After(now); cursor = granularity.Next(cursor) {
		point := domain.RevenuePoint{Date: granularity.Key(cursor)}
		if bucket, ok := buckets[point.Date]; ok {
			point.Revenue = bucket.revenue
			point.OrderCount = bucket.orderCount
		}
		points = append(points, point)
	}

	return points
}

// buildCustomerGrowth groups new customers per day (day granularity regardless
// of the period grouping) and emits a running total seeded with the customer
// count preceding the range.
func (s *Service) buildCustomerGrowth(start, now time.Time) ([]domain.CustomerGrowthPoint, int, int, error) {
	seed, err := s.customerRepository.CountCreatedBefore(start)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to count existing customers: %w", err)
	}

	customers, err := s.customerRepository.ListCreatedSince(start)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("failed to load new customers: %w", err)
	}

	newByDay := make(map[string]int)
	for _, customer := range customers {
		newByDay[GranularityDay.Key(customer.CreatedAt)]++
	}

	points := make([]domain.CustomerGrowthPoint, 0)
	running := seed
	for cursor := GranularityDay.Align(start); !cursor.After(now); cursor = GranularityDay.Next(cursor) {
		day := GranularityDay.Key(cursor)
		running += newByDay[day]
		points = append(points, domain.CustomerGrowthPoint{
			Date:           day,
			NewCustomers:   newByDay[day],
			TotalCustomers: running,
		})
	}

	return points, len(customers), seed + len(customers), nil
}

// buildActivityHeatmap buckets the trailing 30 days of orders into the fixed
// 7x24 day-of-week by hour grid. All 168 cells are always present, in fixed
// order: day 0-6 outer, hour 0-23 inner.
func (s *Service) buildActivityHeatmap(now time.Time) ([]domain.HeatmapCell, error) {
	orders, err := s.orderRepository.ListSince(now.AddDate(0, 0, -heatmapWindowDays))
	if err != nil {
		return nil, fmt.Errorf("failed to load heatmap orders: %w", err)
	}

	var grid [7][24]int
	for _, order := range orders {
		createdAt := order.CreatedAt
		grid[int(createdAt.Weekday())][createdAt.Hour()]++
	}

	cells := make([]domain.HeatmapCell, 0, 7*24)
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			cells = append(cells, domain.HeatmapCell{
				DayOfWeek:  day,
				Hour:       hour,
				OrderCount: grid[day][hour],
			})
		}
	}

	return cells, nil
}

// buildMonthOverMonth compares the current calendar month against the previous
// one. Growth percentages use the zero-denominator conventions from
// domain.GrowthPercent, so no division by zero can occur.
func (s *Service) buildMonthOverMonth(now time.Time) (domain.MonthOverMonth, error) {
	currentMonthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	lastMonthStart := currentMonthStart.AddDate(0, -1, 0)

	currentRevenue, currentOrders, err := s.orderRepository.CompletedTotalsBetween(currentMonthStart, now)
	if err != nil {
		return domain.MonthOverMonth{}, fmt.Errorf("failed to load current month totals: %w", err)
	}

	lastRevenue, lastOrders, err := s.orderRepository.CompletedTotalsBetween(lastMonthStart, currentMonthStart)
	if err != nil {
		return domain.MonthOverMonth{}, fmt.Errorf("failed to load last month totals: %w", err)
	}

	currentCustomers, err := s.customerRepository.CountCreatedBetween(currentMonthStart, now)
	if err != nil {
		return domain.MonthOverMonth{}, fmt.Errorf("failed to count current month customers: %w", err)
	}

	lastCustomers, err := s.customerRepository.CountCreatedBetween(lastMonthStart, currentMonthStart)
	if err != nil {
		return domain.MonthOverMonth{}, fmt.Errorf("failed to count last month customers: %w", err)
	}

	return domain.MonthOverMonth{
		CurrentMonthRevenue:   currentRevenue,
		LastMonthRevenue:      lastRevenue,
		RevenueGrowth:         domain.GrowthPercent(currentRevenue, lastRevenue),
		CurrentMonthOrders:    currentOrders,
		LastMonthOrders:       lastOrders,
		OrderGrowth:           domain.GrowthPercent(float64(currentOrders), float64(lastOrders)),
		CurrentMonthCustomers: currentCustomers,
		LastMonthCustomers:    lastCustomers,
		CustomerGrowth:        domain.GrowthPercent(float64(currentCustomers), float64(lastCustomers)),
	}, nil
}
