package domain

import "github.com/seleradigital/merchant-admin-api/pkg/utils"

// RevenuePoint is one bucket of the revenue time series
type RevenuePoint struct {
	Date       string  `json:"date"`
	Revenue    float64 `json:"revenue"`
	OrderCount int     `json:"orderCount"`
}

// CustomerGrowthPoint is one day of the customer growth series.
// TotalCustomers is a running sum seeded with the pre-range customer count.
type CustomerGrowthPoint struct {
	Date           string `json:"date"`
	NewCustomers   int    `json:"newCustomers"`
	TotalCustomers int    `json:"totalCustomers"`
}

// HeatmapCell is one (day-of-week, hour) slot of the activity grid
type HeatmapCell struct {
	DayOfWeek  int `json:"dayOfWeek"`
	Hour       int `json:"hour"`
	OrderCount int `json:"orderCount"`
}

type ChartSummary struct {
	TotalRevenue          float64 `json:"totalRevenue"`
	TotalOrders           int     `json:"totalOrders"`
	AvgOrderValue         float64 `json:"avgOrderValue"`
	TotalNewCustomers     int     `json:"totalNewCustomers"`
	CurrentTotalCustomers int     `json:"currentTotalCustomers"`
}

type CurrencyRevenue struct {
	TotalRevenue float64 `json:"totalRevenue"`
	OrderCount   int     `json:"orderCount"`
}

type MonthOverMonth struct {
	CurrentMonthRevenue   float64 `json:"currentMonthRevenue"`
	LastMonthRevenue      float64 `json:"lastMonthRevenue"`
	RevenueGrowth         float64 `json:"revenueGrowth"`
	CurrentMonthOrders    int     `json:"currentMonthOrders"`
	LastMonthOrders       int     `json:"lastMonthOrders"`
	OrderGrowth           float64 `json:"orderGrowth"`
	CurrentMonthCustomers int     `json:"currentMonthCustomers"`
	LastMonthCustomers    int     `json:"lastMonthCustomers"`
	CustomerGrowth        float64 `json:"customerGrowth"`
}

// ChartData is the full analytics payload for the admin dashboard charts
type ChartData struct {
	Period            string                      `json:"period"`
	RevenueData       []RevenuePoint              `json:"revenueData"`
	CustomerGrowth    []CustomerGrowthPoint       `json:"customerGrowth"`
	ActivityHeatmap   []HeatmapCell               `json:"activityHeatmap"`
	Summary           ChartSummary                `json:"summary"`
	RevenueByCurrency map[string]*CurrencyRevenue `json:"revenueByCurrency"`
	MonthOverMonth    MonthOverMonth              `json:"monthOverMonth"`
}

// GrowthPercent computes the month-over-month growth percentage with the
// zero-denominator conventions: 100 when last is zero and current is not,
// 0 when both are zero. Rounded to one decimal place.
func GrowthPercent(current, last float64) float64 {
	if last == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return utils.RoundWithOneDecimalPlace((current - last) / last * 100)
}
