package services

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// DashboardService computes the sales summary
type DashboardService struct {
	*BaseService
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(store *StateStore) *DashboardService {
	return &DashboardService{BaseService: NewBaseService(store)}
}

// DashboardStats represents dashboard statistics
type DashboardStats struct {
	TodaySales      float64          `json:"today_sales"`
	WeekSales       float64          `json:"week_sales"`
	MonthSales      float64          `json:"month_sales"`
	AllTimeSales    float64          `json:"all_time_sales"`
	SalesCount      int              `json:"sales_count"`
	TodayExpenses   float64          `json:"today_expenses"`
	MonthExpenses   float64          `json:"month_expenses"`
	TopSellingItems []TopSellingItem `json:"top_selling_items"`
}

// TopSellingItem represents a top selling product
type TopSellingItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	TotalSales  float64 `json:"total_sales"`
}

// GetDashboardStats retrieves the summary with the topN products by revenue
func (s *DashboardService) GetDashboardStats(topN int) *DashboardStats {
	now := s.now()
	startOfToday := startOfDay(now)
	// Weeks start on Sunday
	startOfWeek := startOfToday.AddDate(0, 0, -int(now.Weekday()))
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	var today, week, month, all decimal.Decimal
	for _, sale := range s.State().SalesHistory {
		amount := money(sale.Total)
		all = all.Add(amount)
		date := sale.Date.In(now.Location())
		if !date.Before(startOfToday) {
			today = today.Add(amount)
		}
		if !date.Before(startOfWeek) {
			week = week.Add(amount)
		}
		if !date.Before(startOfMonth) {
			month = month.Add(amount)
		}
	}

	var todayExp, monthExp decimal.Decimal
	for _, exp := range s.State().Expenses {
		date := exp.Date.In(now.Location())
		if !date.Before(startOfToday) {
			todayExp = todayExp.Add(money(exp.Amount))
		}
		if !date.Before(startOfMonth) {
			monthExp = monthExp.Add(money(exp.Amount))
		}
	}

	return &DashboardStats{
		TodaySales:      toAmount(today),
		WeekSales:       toAmount(week),
		MonthSales:      toAmount(month),
		AllTimeSales:    toAmount(all),
		SalesCount:      len(s.State().SalesHistory),
		TodayExpenses:   toAmount(todayExp),
		MonthExpenses:   toAmount(monthExp),
		TopSellingItems: s.GetTopProducts(DateRange{}, topN),
	}
}

// GetTopProducts ranks products by revenue within the range. Products are
// grouped by id, falling back to name for records without one.
func (s *DashboardService) GetTopProducts(r DateRange, limit int) []TopSellingItem {
	type agg struct {
		item  TopSellingItem
		total decimal.Decimal
	}
	byKey := make(map[string]*agg)
	var order []string

	for _, sale := range s.State().SalesHistory {
		if !r.Contains(sale.Date) {
			continue
		}
		for _, line := range sale.Items {
			key := line.ProductID
			if key == "" {
				key = "name:" + normalizeName(line.ProductName)
			}
			a, ok := byKey[key]
			if !ok {
				a = &agg{item: TopSellingItem{ProductID: line.ProductID, ProductName: line.ProductName}}
				byKey[key] = a
				order = append(order, key)
			}
			a.item.Quantity += line.Count
			a.total = a.total.Add(money(line.Total))
		}
	}

	items := make([]TopSellingItem, 0, len(order))
	for _, key := range order {
		a := byKey[key]
		a.item.TotalSales = toAmount(a.total)
		items = append(items, a.item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].TotalSales > items[j].TotalSales
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
