// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/domain/cart"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/enquiry"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/inventory"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/order"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/product"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/upload"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/user"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/wishlist"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("Running database auto-migrations")

	// Dependency order matters for foreign keys.
	models := []interface{}{
		&user.User{},
		&user.Address{},

		&product.Category{},
		&product.Product{},
		&product.ProductImage{},
		&product.ProductReview{},

		&cart.CartItem{},

		&order.Order{},
		&order.OrderItem{},
		&order.OrderStatusHistory{},

		&enquiry.Enquiry{},
		&enquiry.EnquiryItem{},
		&enquiry.EnquiryStatusHistory{},

		&wishlist.WishlistItem{},

		&inventory.StockMovement{},

		&upload.UploadedFile{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_users_is_banned ON users(is_banned)",

		// Product indexes
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(is_featured, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price)",
		"CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand)",
		"CREATE INDEX IF NOT EXISTS idx_products_sales_count ON products(sales_count DESC)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Category indexes
		"CREATE INDEX IF NOT EXISTS idx_categories_sort_order ON categories(sort_order)",

		// Product image indexes
		"CREATE INDEX IF NOT EXISTS idx_product_images_product_primary ON product_images(product_id, is_primary)",
		"CREATE INDEX IF NOT EXISTS idx_product_images_sort_order ON product_images(product_id, sort_order)",

		// Review indexes
		"CREATE INDEX IF NOT EXISTS idx_product_reviews_product_created ON product_reviews(product_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_product_reviews_user ON product_reviews(user_id)",

		// Cart indexes
		"CREATE INDEX IF NOT EXISTS idx_cart_items_user_product ON cart_items(user_id, product_id)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_is_paid ON orders(is_paid)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_product ON order_items(product_id)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at DESC)",

		// Enquiry indexes
		"CREATE INDEX IF NOT EXISTS idx_enquiries_user_status ON enquiries(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_enquiries_status_created ON enquiries(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_enquiry_items_enquiry ON enquiry_items(enquiry_id)",
		"CREATE INDEX IF NOT EXISTS idx_enquiry_status_history_enquiry ON enquiry_status_history(enquiry_id, created_at DESC)",

		// Address indexes
		"CREATE INDEX IF NOT EXISTS idx_addresses_user_default ON addresses(user_id, is_default)",

		// Stock movement indexes
		"CREATE INDEX IF NOT EXISTS idx_stock_movements_product_created ON stock_movements(product_id, created_at DESC)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("Failed to create index")
		}
	}

	return nil
}

// SeedInitialData inserts baseline data the store needs to operate
func (m *Migration) SeedInitialData() error {
	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	return nil
}

func (m *Migration) seedCategories() error {
	categories := []product.Category{
		{Name: "Mobiles", Slug: "mobiles", Description: "Smartphones and feature phones", Icon: "smartphone", SortOrder: 1, IsActive: true},
		{Name: "Laptops", Slug: "laptops", Description: "Laptops and notebooks", Icon: "laptop", SortOrder: 2, IsActive: true},
		{Name: "Audio", Slug: "audio", Description: "Headphones, earbuds and speakers", Icon: "headphones", SortOrder: 3, IsActive: true},
		{Name: "Wearables", Slug: "wearables", Description: "Smartwatches and fitness bands", Icon: "watch", SortOrder: 4, IsActive: true},
		{Name: "Accessories", Slug: "accessories", Description: "Chargers, cables and cases", Icon: "cable", SortOrder: 5, IsActive: true},
	}

	for _, category := range categories {
		var count int64
		if err := m.db.Model(&product.Category{}).Where("slug = ?", category.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := m.db.Create(&category).Error; err != nil {
			return err
		}
		m.logger.WithField("category", category.Name).Info("Seeded category")
	}

	return nil
}

// seedAdminUser creates the initial admin account from ADMIN_EMAIL and
// ADMIN_PASSWORD. Skipped when either variable is unset.
func (m *Migration) seedAdminUser() error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		m.logger.Info("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	var count int64
	if err := m.db.Model(&user.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := user.User{
		Email:    email,
		Password: string(hashedPassword),
		Name:     "Store Admin",
		IsAdmin:  true,
	}

	if err := m.db.Create(&admin).Error; err != nil {
		return err
	}

	m.logger.WithField("email", email).Info("Seeded admin user")
	return nil
}
