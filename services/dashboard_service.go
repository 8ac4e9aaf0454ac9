package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/imprimerie/print-shop-app/models"
)

// DashboardService aggregates order data for the admin dashboard. Reads only;
// every invariant lives in the order aggregate.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStats struct {
	TotalOrders      int64   `json:"total_orders"`
	PendingOrders    int64   `json:"pending_orders"`
	ProcessingOrders int64   `json:"processing_orders"`
	CompletedOrders  int64   `json:"completed_orders"`
	TotalClients     int64   `json:"total_clients"`
	TotalRevenue     float64 `json:"total_revenue"`
	TodayOrders      int64   `json:"today_orders"`
	TodayRevenue     float64 `json:"today_revenue"`
}

// GetStats returns the global dashboard counters. Revenue excludes cancelled
// orders.
func (ds *DashboardService) GetStats() (*DashboardStats, error) {
	var stats DashboardStats
	today := time.Now().Format("2006-01-02")

	orders := func() *gorm.DB { return ds.db.Model(&models.Order{}) }

	if err := orders().Count(&stats.TotalOrders).Error; err != nil {
		return nil, err
	}
	orders().Where("status = ?", models.OrderStatusPending).Count(&stats.PendingOrders)
	orders().Where("status = ?", models.OrderStatusProcessing).Count(&stats.ProcessingOrders)
	orders().Where("status IN ?", []string{models.OrderStatusCompleted, models.OrderStatusDelivered}).
		Count(&stats.CompletedOrders)

	ds.db.Model(&models.User{}).Where("role = ?", models.RoleClient).Count(&stats.TotalClients)

	orders().Where("status != ?", models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_price), 0)").Row().Scan(&stats.TotalRevenue)

	orders().Where("DATE(created_at) = ?", today).Count(&stats.TodayOrders)
	orders().Where("DATE(created_at) = ? AND status != ?", today, models.OrderStatusCancelled).
		Select("COALESCE(SUM(total_price), 0)").Row().Scan(&stats.TodayRevenue)

	return &stats, nil
}

type MonthlyStat struct {
	Month   string  `json:"month"`
	Count   int64   `json:"count"`
	Revenue float64 `json:"revenue"`
}

// GetMonthlyStats returns order count and revenue per calendar month for the
// last N months, oldest first. Bucketing happens in Go so the query stays
// portable across mysql and the sqlite test driver.
func (ds *DashboardService) GetMonthlyStats(months int) ([]MonthlyStat, error) {
	if months <= 0 {
		months = 6
	}
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).
		AddDate(0, -(months - 1), 0)

	var rows []struct {
		CreatedAt  time.Time
		TotalPrice float64
	}
	err := ds.db.Model(&models.Order{}).
		Where("created_at >= ? AND status != ?", start, models.OrderStatusCancelled).
		Select("created_at, total_price").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*MonthlyStat, months)
	result := make([]MonthlyStat, 0, months)
	for i := 0; i < months; i++ {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		buckets[key] = &MonthlyStat{Month: key}
	}
	for _, row := range rows {
		if b, ok := buckets[row.CreatedAt.Format("2006-01")]; ok {
			b.Count++
			b.Revenue += row.TotalPrice
		}
	}
	for i := 0; i < months; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		result = append(result, *buckets[key])
	}
	return result, nil
}

type TopService struct {
	ServiceID uint    `json:"service_id"`
	Name      string  `json:"name"`
	Quantity  int64   `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

// GetTopServices returns the most ordered catalog entries by quantity.
func (ds *DashboardService) GetTopServices(limit int) ([]TopService, error) {
	if limit <= 0 {
		limit = 5
	}
	var top []TopService
	err := ds.db.Raw(`
		SELECT s.id as service_id, s.name as name,
		       COALESCE(SUM(oi.quantity), 0) as quantity,
		       COALESCE(SUM(oi.total_price), 0) as revenue
		FROM order_items oi
		JOIN services s ON oi.service_id = s.id
		GROUP BY s.id, s.name
		ORDER BY quantity DESC
		LIMIT ?
	`, limit).Scan(&top).Error
	if err != nil {
		return nil, err
	}
	return top, nil
}
