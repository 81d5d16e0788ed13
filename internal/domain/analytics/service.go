// internal/domain/analytics/service.go
package analytics

import (
	"time"

	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

// Service handles back-office analytics
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new analytics service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// DashboardStats represents the admin dashboard summary
type DashboardStats struct {
	// Revenue, paid orders only. Paise.
	RevenueThisMonth int64   `json:"revenue_this_month"`
	RevenueLastMonth int64   `json:"revenue_last_month"`
	RevenueGrowth    float64 `json:"revenue_growth"`

	TotalOrders     int64 `json:"total_orders"`
	OrdersThisMonth int64 `json:"orders_this_month"`
	PendingOrders   int64 `json:"pending_orders"`

	TotalCustomers int64 `json:"total_customers"`
	NewCustomers   int64 `json:"new_customers"`

	TotalProducts      int64 `json:"total_products"`
	OutOfStockProducts int64 `json:"out_of_stock_products"`

	PendingEnquiries int64 `json:"pending_enquiries"`

	AvgOrderValue int64 `json:"avg_order_value"`

	TopProducts    []ProductSalesData `json:"top_products"`
	DailyRevenue   []TimeSeriesData   `json:"daily_revenue"`
	CategorySales  []CategoryData     `json:"category_sales"`
	OrdersByStatus []StatusData       `json:"orders_by_status"`
}

// TimeSeriesData is one point of a date-bucketed series
type TimeSeriesData struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
	Count int64  `json:"count"`
}

// ProductSalesData aggregates sales per product
type ProductSalesData struct {
	ProductID   uint   `json:"product_id"`
	ProductName string `json:"product_name"`
	TotalSold   int64  `json:"total_sold"`
	Revenue     int64  `json:"revenue"`
}

// CategoryData aggregates sales per category
type CategoryData struct {
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name"`
	Revenue      int64  `json:"revenue"`
	UnitsSold    int64  `json:"units_sold"`
}

// StatusData is a count of orders per status
type StatusData struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// GetDashboardStats builds the admin dashboard summary
func (s *Service) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}
	now := time.Now().UTC()

	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonth := thisMonth.AddDate(0, -1, 0)

	s.db.Raw("SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE is_paid = ? AND deleted_at IS NULL AND created_at >= ?", true, thisMonth).Scan(&stats.RevenueThisMonth)
	s.db.Raw("SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE is_paid = ? AND deleted_at IS NULL AND created_at >= ? AND created_at < ?", true, lastMonth, thisMonth).Scan(&stats.RevenueLastMonth)
	if stats.RevenueLastMonth > 0 {
		stats.RevenueGrowth = float64(stats.RevenueThisMonth-stats.RevenueLastMonth) / float64(stats.RevenueLastMonth) * 100
	}

	s.db.Raw("SELECT COUNT(*) FROM orders WHERE deleted_at IS NULL").Scan(&stats.TotalOrders)
	s.db.Raw("SELECT COUNT(*) FROM orders WHERE deleted_at IS NULL AND created_at >= ?", thisMonth).Scan(&stats.OrdersThisMonth)
	s.db.Raw("SELECT COUNT(*) FROM orders WHERE deleted_at IS NULL AND status = ?", "pending").Scan(&stats.PendingOrders)

	s.db.Raw("SELECT COUNT(*) FROM users WHERE deleted_at IS NULL AND is_admin = ?", false).Scan(&stats.TotalCustomers)
	s.db.Raw("SELECT COUNT(*) FROM users WHERE deleted_at IS NULL AND is_admin = ? AND created_at >= ?", false, thisMonth).Scan(&stats.NewCustomers)

	s.db.Raw("SELECT COUNT(*) FROM products WHERE deleted_at IS NULL").Scan(&stats.TotalProducts)
	s.db.Raw("SELECT COUNT(*) FROM products WHERE deleted_at IS NULL AND is_active = ? AND stock <= 0", true).Scan(&stats.OutOfStockProducts)

	s.db.Raw("SELECT COUNT(*) FROM enquiries WHERE deleted_at IS NULL AND status = ?", "pending").Scan(&stats.PendingEnquiries)

	var paidOrders int64
	var paidRevenue int64
	s.db.Raw("SELECT COUNT(*), COALESCE(SUM(total_price), 0) FROM orders WHERE is_paid = ? AND deleted_at IS NULL", true).Row().Scan(&paidOrders, &paidRevenue)
	if paidOrders > 0 {
		stats.AvgOrderValue = paidRevenue / paidOrders
	}

	topProducts, err := s.getTopProducts(5)
	if err != nil {
		return nil, err
	}
	stats.TopProducts = topProducts

	dailyRevenue, err := s.getDailyRevenue(30)
	if err != nil {
		return nil, err
	}
	stats.DailyRevenue = dailyRevenue

	categorySales, err := s.getCategorySales()
	if err != nil {
		return nil, err
	}
	stats.CategorySales = categorySales

	ordersByStatus, err := s.getOrdersByStatus()
	if err != nil {
		return nil, err
	}
	stats.OrdersByStatus = ordersByStatus

	return stats, nil
}

// getTopProducts returns the best sellers by units sold
func (s *Service) getTopProducts(limit int) ([]ProductSalesData, error) {
	rows, err := s.db.Raw(`
		SELECT
			oi.product_id,
			oi.name,
			COALESCE(SUM(oi.quantity), 0) as total_sold,
			COALESCE(SUM(oi.total_price), 0) as revenue
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.deleted_at IS NULL AND o.status <> ?
		GROUP BY oi.product_id, oi.name
		ORDER BY total_sold DESC
		LIMIT ?
	`, "cancelled", limit).Rows()
	if err != nil {
		return nil, apperr.Internal("failed to get top products", err)
	}
	defer rows.Close()

	var products []ProductSalesData
	for rows.Next() {
		var p ProductSalesData
		if err := rows.Scan(&p.ProductID, &p.ProductName, &p.TotalSold, &p.Revenue); err != nil {
			continue
		}
		products = append(products, p)
	}
	return products, nil
}

// getDailyRevenue returns paid revenue per day for the trailing window.
// Days without orders are zero-filled so the series is contiguous.
func (s *Service) getDailyRevenue(days int) ([]TimeSeriesData, error) {
	if days <= 0 {
		days = 30
	}

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))

	rows, err := s.db.Raw(`
		SELECT
			DATE(created_at) as date,
			COALESCE(SUM(total_price), 0) as revenue,
			COUNT(*) as order_count
		FROM orders
		WHERE deleted_at IS NULL AND is_paid = ? AND created_at >= ?
		GROUP BY DATE(created_at)
		ORDER BY date
	`, true, start).Rows()
	if err != nil {
		return nil, apperr.Internal("failed to get daily revenue", err)
	}
	defer rows.Close()

	byDate := make(map[string]TimeSeriesData, days)
	for rows.Next() {
		var data TimeSeriesData
		if err := rows.Scan(&data.Date, &data.Value, &data.Count); err != nil {
			continue
		}
		if len(data.Date) > 10 {
			data.Date = data.Date[:10]
		}
		byDate[data.Date] = data
	}

	series := make([]TimeSeriesData, 0, days)
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i).Format("2006-01-02")
		if data, ok := byDate[day]; ok {
			data.Date = day
			series = append(series, data)
		} else {
			series = append(series, TimeSeriesData{Date: day})
		}
	}
	return series, nil
}

// getCategorySales aggregates revenue and units per category
func (s *Service) getCategorySales() ([]CategoryData, error) {
	rows, err := s.db.Raw(`
		SELECT
			c.id,
			c.name,
			COALESCE(SUM(oi.total_price), 0) as revenue,
			COALESCE(SUM(oi.quantity), 0) as units_sold
		FROM categories c
		JOIN products p ON p.category_id = c.id
		JOIN order_items oi ON oi.product_id = p.id
		JOIN orders o ON oi.order_id = o.id
		WHERE o.deleted_at IS NULL AND o.status <> ?
		GROUP BY c.id, c.name
		ORDER BY revenue DESC
	`, "cancelled").Rows()
	if err != nil {
		return nil, apperr.Internal("failed to get category sales", err)
	}
	defer rows.Close()

	var categories []CategoryData
	for rows.Next() {
		var c CategoryData
		if err := rows.Scan(&c.CategoryID, &c.CategoryName, &c.Revenue, &c.UnitsSold); err != nil {
			continue
		}
		categories = append(categories, c)
	}
	return categories, nil
}

// getOrdersByStatus returns the order count per status
func (s *Service) getOrdersByStatus() ([]StatusData, error) {
	rows, err := s.db.Raw(`
		SELECT status, COUNT(*) as count
		FROM orders
		WHERE deleted_at IS NULL
		GROUP BY status
		ORDER BY count DESC
	`).Rows()
	if err != nil {
		return nil, apperr.Internal("failed to get orders by status", err)
	}
	defer rows.Close()

	var statuses []StatusData
	for rows.Next() {
		var st StatusData
		if err := rows.Scan(&st.Status, &st.Count); err != nil {
			continue
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
