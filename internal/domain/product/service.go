// internal/domain/product/service.go
package product

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/inventory"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

// Service handles product business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
	logger *logrus.Logger
}

// NewService creates a new product service
func NewService(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		db:     db,
		config: cfg,
		logger: logger,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	CategoryID uint   `form:"category_id"`
	Brand      string `form:"brand"`
	Search     string `form:"search"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
	MinPrice   int64  `form:"min_price"`
	MaxPrice   int64  `form:"max_price"`
	IsActive   *bool  `form:"is_active"`
	IsFeatured *bool  `form:"is_featured"`
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name          string   `json:"name" binding:"required"`
	Description   string   `json:"description"`
	Price         int64    `json:"price" binding:"required,min=0"`
	OriginalPrice int64    `json:"original_price"`
	CategoryID    uint     `json:"category_id" binding:"required"`
	Brand         string   `json:"brand"`
	Stock         int      `json:"stock" binding:"min=0"`
	Specs         SpecMap  `json:"specifications"`
	Images        []string `json:"images"`
	IsActive      *bool    `json:"is_active"`
	IsFeatured    bool     `json:"is_featured"`
}

// ProductUpdateRequest represents product update data
type ProductUpdateRequest struct {
	Name          *string  `json:"name"`
	Description   *string  `json:"description"`
	Price         *int64   `json:"price"`
	OriginalPrice *int64   `json:"original_price"`
	CategoryID    *uint    `json:"category_id"`
	Brand         *string  `json:"brand"`
	Stock         *int     `json:"stock"`
	Specs         *SpecMap `json:"specifications"`
	Images        []string `json:"images"`
	IsActive      *bool    `json:"is_active"`
	IsFeatured    *bool    `json:"is_featured"`
}

// ProductResponse represents product response with pagination
type ProductResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetProducts retrieves products with filtering and pagination
func (s *Service) GetProducts(req *ProductListRequest) (*ProductResponse, error) {
	var products []Product
	var total int64

	query := s.db.Model(&Product{}).
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_primary DESC, sort_order ASC, id ASC")
		})

	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}

	if req.Brand != "" {
		query = query.Where("LOWER(brand) = ?", strings.ToLower(req.Brand))
	}

	if req.Search != "" {
		search := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(brand) LIKE ?", search, search, search)
	}

	if req.MinPrice > 0 {
		query = query.Where("price >= ?", req.MinPrice)
	}

	if req.MaxPrice > 0 {
		query = query.Where("price <= ?", req.MaxPrice)
	}

	if req.IsActive != nil {
		query = query.Where("is_active = ?", *req.IsActive)
	}

	if req.IsFeatured != nil {
		query = query.Where("is_featured = ?", *req.IsFeatured)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, apperr.Internal("failed to count products", err)
	}

	orderClause := s.buildOrderClause(req.SortBy, req.SortOrder)
	query = query.Order(orderClause)

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&products).Error; err != nil {
		return nil, apperr.Internal("failed to retrieve products", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &ProductResponse{
		Products:   products,
		Pagination: pagination,
	}, nil
}

// GetProduct retrieves a single product by ID
func (s *Service) GetProduct(id uint) (*Product, error) {
	var prod Product
	result := s.db.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("id = ?", id).
		First(&prod)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product")
		}
		return nil, apperr.Internal("failed to retrieve product", result.Error)
	}

	return &prod, nil
}

// GetProductBySlug retrieves a single active product by slug
func (s *Service) GetProductBySlug(slug string) (*Product, error) {
	var prod Product
	result := s.db.
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&prod)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product")
		}
		return nil, apperr.Internal("failed to retrieve product", result.Error)
	}

	return &prod, nil
}

// CreateProduct creates a new product
func (s *Service) CreateProduct(req *ProductCreateRequest) (*Product, error) {
	var category Category
	if err := s.db.Where("id = ?", req.CategoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("category")
		}
		return nil, apperr.Internal("failed to look up category", err)
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	prod := Product{
		Name:          req.Name,
		Slug:          s.generateSlug(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		OriginalPrice: req.OriginalPrice,
		CategoryID:    req.CategoryID,
		Brand:         req.Brand,
		Stock:         req.Stock,
		Specs:         req.Specs,
		IsActive:      isActive,
		IsFeatured:    req.IsFeatured,
	}

	if err := s.db.Create(&prod).Error; err != nil {
		return nil, apperr.Internal("failed to create product", err)
	}

	for i, url := range req.Images {
		img := ProductImage{
			ProductID: prod.ID,
			URL:       url,
			SortOrder: i,
			IsPrimary: i == 0,
		}
		if err := s.db.Create(&img).Error; err != nil {
			return nil, apperr.Internal("failed to create product image", err)
		}
	}

	s.db.Preload("Category").Preload("Images").First(&prod, prod.ID)

	return &prod, nil
}

// UpdateProduct updates an existing product
func (s *Service) UpdateProduct(id uint, req *ProductUpdateRequest) (*Product, error) {
	var prod Product
	result := s.db.Where("id = ?", id).First(&prod)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product")
		}
		return nil, apperr.Internal("failed to find product", result.Error)
	}

	oldStock := prod.Stock
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
		updates["slug"] = s.generateSlug(*req.Name)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, apperr.Validation("price cannot be negative")
		}
		updates["price"] = *req.Price
	}
	if req.OriginalPrice != nil {
		updates["original_price"] = *req.OriginalPrice
	}
	if req.CategoryID != nil {
		var category Category
		if err := s.db.Where("id = ?", *req.CategoryID).First(&category).Error; err != nil {
			return nil, apperr.NotFound("category")
		}
		updates["category_id"] = *req.CategoryID
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, apperr.Validation("stock cannot be negative")
		}
		updates["stock"] = *req.Stock
	}
	if req.Specs != nil {
		updates["specs"] = *req.Specs
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}

	if len(updates) > 0 {
		if err := s.db.Model(&prod).Updates(updates).Error; err != nil {
			return nil, apperr.Internal("failed to update product", err)
		}
	}

	if req.Stock != nil && *req.Stock != oldStock {
		s.recordStockAdjustment(prod.ID, oldStock, *req.Stock)
	}

	if req.Images != nil {
		if err := s.replaceImages(prod.ID, req.Images); err != nil {
			return nil, err
		}
	}

	s.db.Preload("Category").Preload("Images").First(&prod, prod.ID)

	return &prod, nil
}

// DeleteProduct soft deletes a product. Stored image files are removed best
// effort: a failed cleanup is logged and the deletion proceeds.
func (s *Service) DeleteProduct(id uint) error {
	var prod Product
	if err := s.db.Preload("Images").Where("id = ?", id).First(&prod).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product")
		}
		return apperr.Internal("failed to find product", err)
	}

	for _, img := range prod.Images {
		s.removeImageFile(img.URL)
	}

	if err := s.db.Delete(&prod).Error; err != nil {
		return apperr.Internal("failed to delete product", err)
	}
	return nil
}

// Private helper methods

func (s *Service) replaceImages(productID uint, urls []string) error {
	var existing []ProductImage
	if err := s.db.Where("product_id = ?", productID).Find(&existing).Error; err != nil {
		return apperr.Internal("failed to load product images", err)
	}

	keep := make(map[string]bool, len(urls))
	for _, url := range urls {
		keep[url] = true
	}
	for _, img := range existing {
		if !keep[img.URL] {
			s.removeImageFile(img.URL)
		}
	}

	if err := s.db.Where("product_id = ?", productID).Delete(&ProductImage{}).Error; err != nil {
		return apperr.Internal("failed to clear product images", err)
	}

	for i, url := range urls {
		img := ProductImage{
			ProductID: productID,
			URL:       url,
			SortOrder: i,
			IsPrimary: i == 0,
		}
		if err := s.db.Create(&img).Error; err != nil {
			return apperr.Internal("failed to create product image", err)
		}
	}

	return nil
}

// removeImageFile deletes a locally stored upload. Remote URLs and missing
// files are ignored.
func (s *Service) removeImageFile(url string) {
	if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") {
		return
	}

	path := filepath.Join(s.config.Store.UploadPath, filepath.Base(url))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.logger.WithFields(logrus.Fields{
			"path":  path,
			"error": err.Error(),
		}).Warn("Failed to remove product image file")
	}
}

// recordStockAdjustment writes a ledger entry for a manual stock change.
// The product row is already updated; a failed ledger write is logged
// and does not fail the update.
func (s *Service) recordStockAdjustment(productID uint, oldStock, newStock int) {
	movement := inventory.StockMovement{
		ProductID:     productID,
		Type:          inventory.MovementTypeInbound,
		Reason:        inventory.ReasonRestock,
		Quantity:      newStock - oldStock,
		ReferenceType: "product",
		ReferenceID:   productID,
		Notes:         fmt.Sprintf("stock set from %d to %d", oldStock, newStock),
	}
	if newStock < oldStock {
		movement.Type = inventory.MovementTypeOutbound
		movement.Reason = inventory.ReasonAdjustment
		movement.Quantity = oldStock - newStock
	}

	if err := inventory.RecordMovement(s.db, &movement); err != nil {
		s.logger.WithFields(logrus.Fields{
			"product_id": productID,
			"error":      err.Error(),
		}).Warn("Failed to record stock adjustment")
	}
}

// buildOrderClause builds ORDER BY clause for sorting
func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"name":        true,
		"price":       true,
		"created_at":  true,
		"updated_at":  true,
		"stock":       true,
		"sales_count": true,
		"rating_avg":  true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}

// generateSlug generates URL-friendly slug from name
func (s *Service) generateSlug(name string) string {
	slug := strings.ToLower(name)
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")

	return slug + "-" + fmt.Sprintf("%d", time.Now().Unix())
}
