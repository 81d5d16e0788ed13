package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/enquiry"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/order"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/product"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/user"
)

func setupAnalyticsService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&user.User{}, &product.Category{}, &product.Product{},
		&order.Order{}, &order.OrderItem{}, &enquiry.Enquiry{},
	))
	return NewService(db, &config.Config{}), db
}

func seedPaidOrder(t *testing.T, db *gorm.DB, number string, total int64, createdAt time.Time) *order.Order {
	t.Helper()

	ord := order.Order{
		OrderNumber:   number,
		UserID:        1,
		Email:         "buyer@example.com",
		Status:        order.OrderStatusPending,
		ItemsTotal:    total,
		TotalPrice:    total,
		PaymentMethod: "upi",
		IsPaid:        true,
		Currency:      "INR",
	}
	require.NoError(t, db.Create(&ord).Error)
	require.NoError(t, db.Model(&order.Order{}).Where("id = ?", ord.ID).
		Update("created_at", createdAt).Error)
	return &ord
}

func TestDashboardRevenueAndGrowth(t *testing.T) {
	svc, db := setupAnalyticsService(t)

	now := time.Now().UTC()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 12, 0, 0, 0, time.UTC)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	seedPaidOrder(t, db, "ORD-1", 100000, thisMonth)
	seedPaidOrder(t, db, "ORD-2", 100000, thisMonth)
	seedPaidOrder(t, db, "ORD-3", 100000, lastMonth)

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(200000), stats.RevenueThisMonth)
	assert.Equal(t, int64(100000), stats.RevenueLastMonth)
	assert.InDelta(t, 100.0, stats.RevenueGrowth, 0.001)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(2), stats.OrdersThisMonth)
	assert.Equal(t, int64(100000), stats.AvgOrderValue)
}

func TestDashboardCountsExcludeAdminsAndUnpaid(t *testing.T) {
	svc, db := setupAnalyticsService(t)

	users := []user.User{
		{Email: "customer@example.com", Password: "hash", Name: "Customer"},
		{Email: "admin@example.com", Password: "hash", Name: "Admin", IsAdmin: true},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}

	unpaid := order.Order{
		OrderNumber:   "ORD-COD-1",
		UserID:        1,
		Email:         "buyer@example.com",
		Status:        order.OrderStatusPending,
		ItemsTotal:    50000,
		TotalPrice:    50000,
		PaymentMethod: "cod",
		Currency:      "INR",
	}
	require.NoError(t, db.Create(&unpaid).Error)

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalCustomers)
	assert.Equal(t, int64(0), stats.RevenueThisMonth)
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, int64(0), stats.AvgOrderValue)
}

func TestDashboardProductAndEnquiryCounts(t *testing.T) {
	svc, db := setupAnalyticsService(t)

	cat := product.Category{Name: "phones", Slug: "phones", IsActive: true}
	require.NoError(t, db.Create(&cat).Error)

	seed := []product.Product{
		{Name: "In Stock", Slug: "in-stock", Price: 100, CategoryID: cat.ID, Stock: 5, IsActive: true},
		{Name: "Sold Out", Slug: "sold-out", Price: 100, CategoryID: cat.ID, Stock: 0, IsActive: true},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	enq := enquiry.Enquiry{CustomerName: "Ravi", ItemsTotal: 100, Status: enquiry.EnquiryStatusPending}
	require.NoError(t, db.Create(&enq).Error)

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.OutOfStockProducts)
	assert.Equal(t, int64(1), stats.PendingEnquiries)
}

func TestDashboardTopProductsExcludeCancelled(t *testing.T) {
	svc, db := setupAnalyticsService(t)

	now := time.Now().UTC()
	ord := seedPaidOrder(t, db, "ORD-T1", 300000, now)
	cancelled := seedPaidOrder(t, db, "ORD-T2", 100000, now)
	require.NoError(t, db.Model(&order.Order{}).Where("id = ?", cancelled.ID).
		Update("status", order.OrderStatusCancelled).Error)

	items := []order.OrderItem{
		{OrderID: ord.ID, ProductID: 1, Name: "Pixel 9", Quantity: 2, Price: 100000, TotalPrice: 200000},
		{OrderID: ord.ID, ProductID: 2, Name: "Charger", Quantity: 1, Price: 100000, TotalPrice: 100000},
		{OrderID: cancelled.ID, ProductID: 3, Name: "Ghost", Quantity: 9, Price: 10000, TotalPrice: 90000},
	}
	for i := range items {
		require.NoError(t, db.Create(&items[i]).Error)
	}

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)
	require.Len(t, stats.TopProducts, 2)
	assert.Equal(t, "Pixel 9", stats.TopProducts[0].ProductName)
	assert.Equal(t, int64(2), stats.TopProducts[0].TotalSold)
	assert.Equal(t, int64(200000), stats.TopProducts[0].Revenue)
}

func TestDashboardDailyRevenueZeroFilled(t *testing.T) {
	svc, db := setupAnalyticsService(t)

	today := time.Now().UTC()
	seedPaidOrder(t, db, "ORD-D1", 50000, today)

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)
	require.Len(t, stats.DailyRevenue, 30)

	last := stats.DailyRevenue[len(stats.DailyRevenue)-1]
	assert.Equal(t, today.Format("2006-01-02"), last.Date)
	assert.Equal(t, int64(50000), last.Value)
	assert.Equal(t, int64(1), last.Count)

	first := stats.DailyRevenue[0]
	assert.Equal(t, int64(0), first.Value)
}

func TestDashboardOrdersByStatus(t *testing.T) {
	svc, db := setupAnalyticsService(t)

	now := time.Now().UTC()
	seedPaidOrder(t, db, "ORD-S1", 100, now)
	seedPaidOrder(t, db, "ORD-S2", 100, now)
	shipped := seedPaidOrder(t, db, "ORD-S3", 100, now)
	require.NoError(t, db.Model(&order.Order{}).Where("id = ?", shipped.ID).
		Update("status", order.OrderStatusShipped).Error)

	stats, err := svc.GetDashboardStats()
	require.NoError(t, err)
	require.Len(t, stats.OrdersByStatus, 2)
	assert.Equal(t, string(order.OrderStatusPending), stats.OrdersByStatus[0].Status)
	assert.Equal(t, int64(2), stats.OrdersByStatus[0].Count)
}
