package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/imprimerie/print-shop-app/models"
	"github.com/imprimerie/print-shop-app/utils"
)

func setupDashboardTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	utils.InitLogger()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Service{},
		&models.ServiceOption{},
		&models.Order{},
		&models.OrderItem{},
		&models.StatusHistory{},
		&models.OrderCounter{},
		&models.Notification{},
	))
	return db
}

func TestDashboardStats(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc := seedFlyerService(t, db)
	orders := newTestOrderService(db, nil)

	require.NoError(t, db.Create(&models.User{
		Name: "Client", Email: "c@example.com", Password: "x",
		Role: models.RoleClient, IsActive: true,
	}).Error)

	first, err := orders.CreateOrder(1, CreateOrderInput{
		Items: []OrderItemRequest{{ServiceID: svc.ID, Quantity: 1000}},
	})
	require.NoError(t, err)
	second, err := orders.CreateOrder(1, CreateOrderInput{
		Items: []OrderItemRequest{{ServiceID: svc.ID, Quantity: 500}},
	})
	require.NoError(t, err)

	_, err = orders.UpdateOrderStatus(first.ID, models.OrderStatusProcessing, 9, "")
	require.NoError(t, err)
	_, err = orders.UpdateOrderStatus(second.ID, models.OrderStatusCancelled, 9, "")
	require.NoError(t, err)

	dashboard := NewDashboardService(db)
	stats, err := dashboard.GetStats()
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.ProcessingOrders)
	assert.Equal(t, int64(0), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.TotalClients)
	// Cancelled orders never count as revenue.
	assert.Equal(t, 100.00, stats.TotalRevenue)
}

func TestMonthlyStatsBuckets(t *testing.T) {
	db := setupDashboardTestDB(t)
	svc := seedFlyerService(t, db)
	orders := newTestOrderService(db, nil)

	_, err := orders.CreateOrder(1, CreateOrderInput{
		Items: []OrderItemRequest{{ServiceID: svc.ID, Quantity: 1000}},
	})
	require.NoError(t, err)

	dashboard := NewDashboardService(db)
	monthly, err := dashboard.GetMonthlyStats(3)
	require.NoError(t, err)
	require.Len(t, monthly, 3)

	// Only the current month carries the order; earlier buckets exist empty.
	assert.Zero(t, monthly[0].Count)
	assert.Zero(t, monthly[1].Count)
	assert.Equal(t, int64(1), monthly[2].Count)
	assert.Equal(t, 100.00, monthly[2].Revenue)
}

func TestTopServices(t *testing.T) {
	db := setupDashboardTestDB(t)
	flyers := seedFlyerService(t, db)
	posters := models.Service{
		Name:        "Affiches A2",
		Category:    models.CategoryAffiches,
		BasePrice:   2.50,
		Unit:        "unité",
		MinQuantity: 1,
		MaxQuantity: 500,
		IsActive:    true,
	}
	require.NoError(t, db.Create(&posters).Error)

	orders := newTestOrderService(db, nil)
	_, err := orders.CreateOrder(1, CreateOrderInput{
		Items: []OrderItemRequest{
			{ServiceID: flyers.ID, Quantity: 5000},
			{ServiceID: posters.ID, Quantity: 10},
		},
	})
	require.NoError(t, err)

	dashboard := NewDashboardService(db)
	top, err := dashboard.GetTopServices(5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Flyers A5", top[0].Name)
	assert.Equal(t, int64(5000), top[0].Quantity)
	assert.Equal(t, 500.00, top[0].Revenue)
	assert.Equal(t, "Affiches A2", top[1].Name)
}
