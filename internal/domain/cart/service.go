// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/product"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

// Service handles cart business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
	}
}

// CartItemResponse represents a cart item with product details
type CartItemResponse struct {
	ProductID uint             `json:"product_id"`
	Quantity  int              `json:"quantity"`
	Price     int64            `json:"price"`
	Product   *product.Product `json:"product,omitempty"`
	AddedAt   time.Time        `json:"added_at"`
}

// CartResponse represents a shopping cart with items and summary
type CartResponse struct {
	SessionID string             `json:"session_id,omitempty"`
	UserID    *uint              `json:"user_id,omitempty"`
	Items     []CartItemResponse `json:"items"`
	Totals    CartTotals         `json:"totals"`
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// GetCart retrieves cart for user or session
func (s *Service) GetCart(userID *uint, sessionID string) (*CartResponse, error) {
	var cartItems []CartItemResponse

	if userID != nil {
		var dbItems []CartItem
		err := s.db.Where("user_id = ?", *userID).Order("created_at ASC").Find(&dbItems).Error
		if err != nil {
			return nil, apperr.Internal("failed to retrieve cart", err)
		}

		cartItems = make([]CartItemResponse, len(dbItems))
		for i, item := range dbItems {
			cartItems[i] = CartItemResponse{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
				AddedAt:   item.CreatedAt,
			}
		}
	} else {
		sessionCart, err := s.getGuestCart(sessionID)
		if err != nil {
			return nil, err
		}

		cartItems = make([]CartItemResponse, len(sessionCart.Items))
		for i, item := range sessionCart.Items {
			cartItems[i] = CartItemResponse{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
				AddedAt:   item.AddedAt,
			}
		}
	}

	if err := s.loadProductDetails(cartItems); err != nil {
		return nil, err
	}

	totals := s.calculateTotals(cartItems)

	return &CartResponse{
		SessionID: sessionID,
		UserID:    userID,
		Items:     cartItems,
		Totals:    totals,
	}, nil
}

// AddToCart adds an item to the cart. Adding a product already in the cart
// accumulates its quantity. The cart is left unchanged when the requested
// total exceeds available stock.
func (s *Service) AddToCart(userID *uint, sessionID string, req *AddToCartRequest) (*CartResponse, error) {
	var prod product.Product
	result := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&prod)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product")
		}
		return nil, apperr.Internal("failed to look up product", result.Error)
	}

	if userID != nil {
		if err := s.addToUserCart(*userID, &prod, req.Quantity); err != nil {
			return nil, err
		}
	} else {
		if err := s.addToGuestCart(sessionID, &prod, req.Quantity); err != nil {
			return nil, err
		}
	}

	return s.GetCart(userID, sessionID)
}

// UpdateCartItem updates quantity of a cart item. Quantity 0 removes it.
func (s *Service) UpdateCartItem(userID *uint, sessionID string, productID uint, req *UpdateCartItemRequest) (*CartResponse, error) {
	if req.Quantity < 0 {
		return nil, apperr.Validation("quantity cannot be negative")
	}

	if req.Quantity > 0 {
		var prod product.Product
		result := s.db.Where("id = ?", productID).First(&prod)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return nil, apperr.NotFound("product")
			}
			return nil, apperr.Internal("failed to look up product", result.Error)
		}
		if !prod.HasStockFor(req.Quantity) {
			return nil, apperr.InsufficientStock(prod.Name)
		}
	}

	if userID != nil {
		if err := s.updateUserCartItem(*userID, productID, req.Quantity); err != nil {
			return nil, err
		}
	} else {
		if err := s.updateGuestCartItem(sessionID, productID, req.Quantity); err != nil {
			return nil, err
		}
	}

	return s.GetCart(userID, sessionID)
}

// RemoveFromCart removes an item from the cart
func (s *Service) RemoveFromCart(userID *uint, sessionID string, productID uint) (*CartResponse, error) {
	if userID != nil {
		err := s.db.Where("user_id = ? AND product_id = ?", *userID, productID).Delete(&CartItem{}).Error
		if err != nil {
			return nil, apperr.Internal("failed to remove cart item", err)
		}
	} else {
		if err := s.removeGuestCartItem(sessionID, productID); err != nil {
			return nil, err
		}
	}

	return s.GetCart(userID, sessionID)
}

// ClearCart removes all items from the cart
func (s *Service) ClearCart(userID *uint, sessionID string) error {
	if userID != nil {
		return s.db.Where("user_id = ?", *userID).Delete(&CartItem{}).Error
	}
	ctx := context.Background()
	return s.redisClient.Del(ctx, s.guestCartKey(sessionID)).Err()
}

// GetCartItemCount returns the total quantity across cart items
func (s *Service) GetCartItemCount(userID *uint, sessionID string) (int, error) {
	cartResponse, err := s.GetCart(userID, sessionID)
	if err != nil {
		return 0, err
	}

	totalItems := 0
	for _, item := range cartResponse.Items {
		totalItems += item.Quantity
	}

	return totalItems, nil
}

// MergeGuestCartToUser merges the guest cart into the user cart at login.
// Quantities are summed per product and the guest copy is discarded only
// after the merge succeeds, so a repeated call finds nothing to merge.
func (s *Service) MergeGuestCartToUser(userID uint, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	guestCart, err := s.getGuestCart(sessionID)
	if err != nil {
		return err
	}
	if len(guestCart.Items) == 0 {
		return nil
	}

	for _, guestItem := range guestCart.Items {
		var existingItem CartItem
		result := s.db.Where("user_id = ? AND product_id = ?", userID, guestItem.ProductID).First(&existingItem)

		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			newItem := CartItem{
				UserID:    userID,
				ProductID: guestItem.ProductID,
				Quantity:  guestItem.Quantity,
				Price:     guestItem.Price,
			}
			if err := s.db.Create(&newItem).Error; err != nil {
				return apperr.Internal("failed to merge guest cart", err)
			}
		} else if result.Error != nil {
			return apperr.Internal("failed to merge guest cart", result.Error)
		} else {
			existingItem.Quantity += guestItem.Quantity
			if err := s.db.Save(&existingItem).Error; err != nil {
				return apperr.Internal("failed to merge guest cart", err)
			}
		}
	}

	return s.ClearCart(nil, sessionID)
}

// Private helper methods

func (s *Service) addToUserCart(userID uint, prod *product.Product, quantity int) error {
	var existingItem CartItem
	result := s.db.Where("user_id = ? AND product_id = ?", userID, prod.ID).First(&existingItem)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		if !prod.HasStockFor(quantity) {
			return apperr.InsufficientStock(prod.Name)
		}
		newItem := CartItem{
			UserID:    userID,
			ProductID: prod.ID,
			Quantity:  quantity,
			Price:     prod.Price,
		}
		if err := s.db.Create(&newItem).Error; err != nil {
			return apperr.Internal("failed to add cart item", err)
		}
		return nil
	}
	if result.Error != nil {
		return apperr.Internal("failed to look up cart item", result.Error)
	}

	newQuantity := existingItem.Quantity + quantity
	if !prod.HasStockFor(newQuantity) {
		return apperr.InsufficientStock(prod.Name)
	}

	existingItem.Quantity = newQuantity
	existingItem.Price = prod.Price // Price may have changed since first add
	if err := s.db.Save(&existingItem).Error; err != nil {
		return apperr.Internal("failed to update cart item", err)
	}
	return nil
}

func (s *Service) addToGuestCart(sessionID string, prod *product.Product, quantity int) error {
	sessionCart, err := s.getGuestCart(sessionID)
	if err != nil {
		return err
	}

	itemExists := false
	for i := range sessionCart.Items {
		if sessionCart.Items[i].ProductID == prod.ID {
			newQuantity := sessionCart.Items[i].Quantity + quantity
			if !prod.HasStockFor(newQuantity) {
				return apperr.InsufficientStock(prod.Name)
			}
			sessionCart.Items[i].Quantity = newQuantity
			sessionCart.Items[i].Price = prod.Price
			itemExists = true
			break
		}
	}

	if !itemExists {
		if !prod.HasStockFor(quantity) {
			return apperr.InsufficientStock(prod.Name)
		}
		sessionCart.Items = append(sessionCart.Items, SessionCartItem{
			ProductID: prod.ID,
			Quantity:  quantity,
			Price:     prod.Price,
			AddedAt:   time.Now().UTC(),
		})
	}

	sessionCart.UpdatedAt = time.Now().UTC()
	return s.saveGuestCart(sessionID, sessionCart)
}

func (s *Service) updateUserCartItem(userID, productID uint, quantity int) error {
	if quantity == 0 {
		return s.db.Where("user_id = ? AND product_id = ?", userID, productID).Delete(&CartItem{}).Error
	}

	result := s.db.Model(&CartItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Update("quantity", quantity)
	if result.Error != nil {
		return apperr.Internal("failed to update cart item", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("cart item")
	}
	return nil
}

func (s *Service) updateGuestCartItem(sessionID string, productID uint, quantity int) error {
	sessionCart, err := s.getGuestCart(sessionID)
	if err != nil {
		return err
	}

	itemFound := false
	for i := range sessionCart.Items {
		if sessionCart.Items[i].ProductID == productID {
			if quantity == 0 {
				sessionCart.Items = append(sessionCart.Items[:i], sessionCart.Items[i+1:]...)
			} else {
				sessionCart.Items[i].Quantity = quantity
			}
			itemFound = true
			break
		}
	}

	if !itemFound {
		return apperr.NotFound("cart item")
	}

	sessionCart.UpdatedAt = time.Now().UTC()
	return s.saveGuestCart(sessionID, sessionCart)
}

func (s *Service) removeGuestCartItem(sessionID string, productID uint) error {
	sessionCart, err := s.getGuestCart(sessionID)
	if err != nil {
		return err
	}

	for i := range sessionCart.Items {
		if sessionCart.Items[i].ProductID == productID {
			sessionCart.Items = append(sessionCart.Items[:i], sessionCart.Items[i+1:]...)
			sessionCart.UpdatedAt = time.Now().UTC()
			return s.saveGuestCart(sessionID, sessionCart)
		}
	}

	// Removal is idempotent
	return nil
}

func (s *Service) guestCartKey(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (s *Service) getGuestCart(sessionID string) (*SessionCart, error) {
	if sessionID == "" {
		return nil, apperr.Validation("session ID required for guest cart")
	}

	ctx := context.Background()
	cartData, err := s.redisClient.Get(ctx, s.guestCartKey(sessionID)).Result()
	if err == redis.Nil {
		return &SessionCart{
			SessionID: sessionID,
			Items:     []SessionCartItem{},
			CreatedAt: time.Now().UTC(),
			UpdatedAt: time.Now().UTC(),
		}, nil
	} else if err != nil {
		return nil, apperr.Internal("failed to load guest cart", err)
	}

	var sessionCart SessionCart
	if err := json.Unmarshal([]byte(cartData), &sessionCart); err != nil {
		return nil, apperr.Internal("failed to decode guest cart", err)
	}

	return &sessionCart, nil
}

func (s *Service) saveGuestCart(sessionID string, sessionCart *SessionCart) error {
	ctx := context.Background()
	cartData, err := json.Marshal(sessionCart)
	if err != nil {
		return apperr.Internal("failed to encode guest cart", err)
	}

	return s.redisClient.Set(ctx, s.guestCartKey(sessionID), cartData, s.config.Store.GuestCartTTL).Err()
}

func (s *Service) loadProductDetails(cartItems []CartItemResponse) error {
	for i := range cartItems {
		var prod product.Product
		err := s.db.Preload("Category").Preload("Images").
			Where("id = ?", cartItems[i].ProductID).First(&prod).Error
		if err != nil {
			continue // Skip if product not found
		}
		cartItems[i].Product = &prod
	}

	return nil
}

func (s *Service) calculateTotals(cartItems []CartItemResponse) CartTotals {
	var totals CartTotals

	totals.ItemCount = len(cartItems)

	for _, item := range cartItems {
		totals.TotalQuantity += item.Quantity
		totals.SubTotal += item.Price * int64(item.Quantity)
	}

	return totals
}
