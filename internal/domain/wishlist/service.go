package wishlist

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/domain/product"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

// Service handles wishlist business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new wishlist service
func NewService(db *gorm.DB) *Service {
	return &Service{
		db: db,
	}
}

// WishlistItemResponse represents a wishlist item with product details
type WishlistItemResponse struct {
	ID          uint             `json:"id"`
	ProductID   uint             `json:"product_id"`
	Product     *product.Product `json:"product,omitempty"`
	IsAvailable bool             `json:"is_available"`
}

// WishlistResponse represents a user's wishlist
type WishlistResponse struct {
	Items []WishlistItemResponse `json:"items"`
	Count int                    `json:"count"`
}

// AddToWishlistRequest represents add to wishlist request
type AddToWishlistRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// GetWishlist retrieves the wishlist for a user, newest first
func (s *Service) GetWishlist(userID uint) (*WishlistResponse, error) {
	var items []WishlistItem
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve wishlist items: %w", err)
	}

	responses := make([]WishlistItemResponse, len(items))
	for i, item := range items {
		responses[i] = WishlistItemResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
		}

		var prod product.Product
		err := s.db.Preload("Category").Preload("Images").
			Where("id = ?", item.ProductID).First(&prod).Error
		if err != nil {
			responses[i].IsAvailable = false
			continue
		}
		responses[i].Product = &prod
		responses[i].IsAvailable = prod.IsActive
	}

	return &WishlistResponse{
		Items: responses,
		Count: len(responses),
	}, nil
}

// AddToWishlist adds a product to the wishlist. Adding a product that is
// already saved is a no-op.
func (s *Service) AddToWishlist(userID uint, req *AddToWishlistRequest) error {
	var prod product.Product
	result := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&prod)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return apperr.NotFound("product")
		}
		return apperr.Internal("failed to look up product", result.Error)
	}

	var existing WishlistItem
	err := s.db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.Internal("failed to check wishlist", err)
	}

	item := WishlistItem{
		UserID:    userID,
		ProductID: req.ProductID,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return apperr.Internal("failed to add item to wishlist", err)
	}

	return nil
}

// RemoveFromWishlist removes a product from the wishlist
func (s *Service) RemoveFromWishlist(userID, productID uint) error {
	result := s.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&WishlistItem{})
	if result.Error != nil {
		return apperr.Internal("failed to remove item from wishlist", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("wishlist item")
	}
	return nil
}

// GetWishlistCount returns the number of items in the wishlist
func (s *Service) GetWishlistCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&WishlistItem{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// IsInWishlist checks if a product is in the user's wishlist
func (s *Service) IsInWishlist(userID, productID uint) (bool, error) {
	var count int64
	err := s.db.Model(&WishlistItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error
	return count > 0, err
}
