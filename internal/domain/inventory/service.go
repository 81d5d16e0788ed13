// internal/domain/inventory/service.go
package inventory

import (
	"time"

	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

// Service handles the stock movement ledger
type Service struct {
	db *gorm.DB
}

// NewService creates a new inventory service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// MovementListRequest represents movement list query parameters
type MovementListRequest struct {
	Page      int  `form:"page,default=1"`
	Limit     int  `form:"limit,default=20"`
	ProductID uint `form:"product_id"`
}

// MovementListResponse represents a page of stock movements
type MovementListResponse struct {
	Movements []StockMovement `json:"movements"`
	Total     int64           `json:"total"`
	Page      int             `json:"page"`
	Limit     int             `json:"limit"`
}

// LowStockProduct is a row in the low stock report
type LowStockProduct struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Brand     string `json:"brand"`
	Stock     int    `json:"stock"`
}

// RecordMovement appends a stock movement inside the caller's
// transaction so the ledger entry commits or rolls back with the
// stock change it describes.
func RecordMovement(tx *gorm.DB, m *StockMovement) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	if err := tx.Create(m).Error; err != nil {
		return apperr.Internal("failed to record stock movement", err)
	}
	return nil
}

// GetMovements retrieves stock movements, newest first
func (s *Service) GetMovements(req *MovementListRequest) (*MovementListResponse, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&StockMovement{})
	if req.ProductID > 0 {
		query = query.Where("product_id = ?", req.ProductID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperr.Internal("failed to count stock movements", err)
	}

	var movements []StockMovement
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&movements).Error; err != nil {
		return nil, apperr.Internal("failed to retrieve stock movements", err)
	}

	return &MovementListResponse{
		Movements: movements,
		Total:     total,
		Page:      req.Page,
		Limit:     req.Limit,
	}, nil
}

// GetLowStockProducts lists active products at or below the threshold,
// lowest stock first.
func (s *Service) GetLowStockProducts(threshold int) ([]LowStockProduct, error) {
	if threshold < 0 {
		return nil, apperr.Validation("threshold cannot be negative")
	}

	report := make([]LowStockProduct, 0)
	err := s.db.Table("products").
		Select("id as product_id, name, brand, stock").
		Where("deleted_at IS NULL AND is_active = ? AND stock <= ?", true, threshold).
		Order("stock ASC").
		Scan(&report).Error
	if err != nil {
		return nil, apperr.Internal("failed to retrieve low stock products", err)
	}

	return report, nil
}
