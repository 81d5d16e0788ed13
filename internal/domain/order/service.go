// internal/domain/order/service.go
package order

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/cart"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/inventory"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/product"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/user"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/email"
)

// Service handles order business logic
type Service struct {
	db          *gorm.DB
	config      *config.Config
	cartService *cart.Service
	mailer      *email.Mailer
}

// NewService creates a new order service. The mailer may be nil when
// confirmations are not wanted.
func NewService(db *gorm.DB, cfg *config.Config, cartService *cart.Service, mailer *email.Mailer) *Service {
	return &Service{
		db:          db,
		config:      cfg,
		cartService: cartService,
		mailer:      mailer,
	}
}

// CreateOrderRequest represents order creation data
type CreateOrderRequest struct {
	ShippingAddress Address `json:"shipping_address" binding:"required"`
	PaymentMethod   string  `json:"payment_method" binding:"required,oneof=cod upi"`
	DiscountAmount  int64   `json:"discount_amount,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

// OrderListRequest represents order list query parameters
type OrderListRequest struct {
	Page      int         `form:"page,default=1"`
	Limit     int         `form:"limit,default=20"`
	Status    OrderStatus `form:"status"`
	UserID    uint        `form:"user_id"`
	SortBy    string      `form:"sort_by,default=created_at"`
	SortOrder string      `form:"sort_order,default=desc"`
	DateFrom  string      `form:"date_from"`
	DateTo    string      `form:"date_to"`
}

// OrderResponse represents order response with pagination
type OrderResponse struct {
	Orders     []Order    `json:"orders"`
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

// CreateOrder creates a new order from the user's cart. Items are
// snapshotted at the product's price at order time, not the price stored on
// the cart row. Stock is decremented per item with a conditional update, the
// cart is cleared and the user's lifetime counters advance. Everything runs
// in one transaction: a single out-of-stock item rolls the whole order back.
//
// COD orders carry the flat shipping surcharge and start unpaid. UPI orders
// ship free and are recorded as paid at creation, trusting the client's
// payment confirmation.
func (s *Service) CreateOrder(userID uint, sessionID string, req *CreateOrderRequest) (*Order, error) {
	if req.PaymentMethod != PaymentMethodCOD && req.PaymentMethod != PaymentMethodUPI {
		return nil, apperr.Validation("unsupported payment method")
	}
	if req.DiscountAmount < 0 {
		return nil, apperr.Validation("discount cannot be negative")
	}

	userIDPtr := &userID
	cartResponse, err := s.cartService.GetCart(userIDPtr, sessionID)
	if err != nil {
		return nil, err
	}

	if len(cartResponse.Items) == 0 {
		return nil, apperr.Validation("cart is empty")
	}

	for _, cartItem := range cartResponse.Items {
		if cartItem.Product == nil {
			return nil, apperr.NotFound("product")
		}
		if !cartItem.Product.IsActive {
			return nil, apperr.Newf(apperr.KindValidation, "product '%s' is no longer available", cartItem.Product.Name)
		}
	}

	itemsTotal := s.calculateItemsTotal(cartResponse.Items)

	var shippingPrice int64
	if req.PaymentMethod == PaymentMethodCOD {
		shippingPrice = s.config.Store.CODShippingFee
	}

	totalPrice := itemsTotal + shippingPrice - req.DiscountAmount
	if totalPrice < 0 {
		return nil, apperr.Validation("discount exceeds order total")
	}

	var created Order

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var usr user.User
		if err := tx.Where("id = ?", userID).First(&usr).Error; err != nil {
			return apperr.Internal("failed to load user", err)
		}

		newOrder := Order{
			UserID:          userID,
			Email:           usr.Email,
			Status:          OrderStatusPending,
			ItemsTotal:      itemsTotal,
			ShippingPrice:   shippingPrice,
			DiscountAmount:  req.DiscountAmount,
			TotalPrice:      totalPrice,
			PaymentMethod:   req.PaymentMethod,
			ShippingAddress: req.ShippingAddress,
			Currency:        s.config.Store.Currency,
			Notes:           req.Notes,
		}

		if req.PaymentMethod == PaymentMethodUPI {
			now := time.Now().UTC()
			newOrder.IsPaid = true
			newOrder.PaidAt = &now
		}

		if err := tx.Create(&newOrder).Error; err != nil {
			return apperr.Internal("failed to create order", err)
		}

		newOrder.OrderNumber = GenerateOrderNumber(newOrder.ID)
		if err := tx.Model(&newOrder).Update("order_number", newOrder.OrderNumber).Error; err != nil {
			return apperr.Internal("failed to set order number", err)
		}

		for _, cartItem := range cartResponse.Items {
			if err := s.takeStock(tx, cartItem.Product, cartItem.Quantity); err != nil {
				return err
			}

			movement := inventory.StockMovement{
				ProductID:     cartItem.ProductID,
				Type:          inventory.MovementTypeOutbound,
				Reason:        inventory.ReasonSale,
				Quantity:      cartItem.Quantity,
				ReferenceType: "order",
				ReferenceID:   newOrder.ID,
				CreatedBy:     userID,
			}
			if err := inventory.RecordMovement(tx, &movement); err != nil {
				return err
			}

			unitPrice := cartItem.Product.Price
			orderItem := OrderItem{
				OrderID:    newOrder.ID,
				ProductID:  cartItem.ProductID,
				Name:       cartItem.Product.Name,
				Image:      cartItem.Product.PrimaryImageURL(),
				Quantity:   cartItem.Quantity,
				Price:      unitPrice,
				TotalPrice: unitPrice * int64(cartItem.Quantity),
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return apperr.Internal("failed to create order item", err)
			}
		}

		history := OrderStatusHistory{
			OrderID:   newOrder.ID,
			Status:    OrderStatusPending,
			Comment:   "Order created",
			CreatedBy: userID,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(&history).Error; err != nil {
			return apperr.Internal("failed to create status history", err)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&cart.CartItem{}).Error; err != nil {
			return apperr.Internal("failed to clear cart", err)
		}

		updates := map[string]interface{}{
			"total_orders": gorm.Expr("total_orders + 1"),
			"total_spent":  gorm.Expr("total_spent + ?", totalPrice),
		}
		if err := tx.Model(&user.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return apperr.Internal("failed to update user totals", err)
		}

		created = newOrder
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Items").Preload("StatusHistory").First(&created, created.ID).Error; err != nil {
		return nil, apperr.Internal("failed to load order", err)
	}

	s.sendConfirmation(&created)

	return &created, nil
}

// sendConfirmation mails the order summary in the background
func (s *Service) sendConfirmation(ord *Order) {
	if s.mailer == nil {
		return
	}

	lines := make([]email.OrderConfirmationLine, 0, len(ord.Items))
	for _, item := range ord.Items {
		lines = append(lines, email.OrderConfirmationLine{
			Name:     item.Name,
			Quantity: item.Quantity,
			Total:    item.TotalPrice,
		})
	}

	go s.mailer.SendOrderConfirmation(
		ord.Email,
		ord.ShippingAddress.FullName,
		ord.OrderNumber,
		ord.TotalPrice,
		ord.Currency,
		lines,
	)
}

// GetOrders retrieves orders with filtering and pagination
func (s *Service) GetOrders(req *OrderListRequest) (*OrderResponse, error) {
	var orders []Order
	var total int64

	query := s.db.Model(&Order{}).
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		})

	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}

	if req.UserID > 0 {
		query = query.Where("user_id = ?", req.UserID)
	}

	if req.DateFrom != "" {
		query = query.Where("created_at >= ?", req.DateFrom)
	}

	if req.DateTo != "" {
		query = query.Where("created_at <= ?", req.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, apperr.Internal("failed to count orders", err)
	}

	orderClause := s.buildOrderClause(req.SortBy, req.SortOrder)
	query = query.Order(orderClause)

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, apperr.Internal("failed to retrieve orders", err)
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

	return &OrderResponse{
		Orders:     orders,
		Pagination: pagination,
	}, nil
}

// GetOrder retrieves a single order by ID
func (s *Service) GetOrder(id uint) (*Order, error) {
	var ord Order
	result := s.db.
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id).
		First(&ord)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order")
		}
		return nil, apperr.Internal("failed to retrieve order", result.Error)
	}

	return &ord, nil
}

// UpdateOrderStatus updates the order status, appends history and stamps the
// delivery fields when the order reaches delivered.
func (s *Service) UpdateOrderStatus(orderID uint, status OrderStatus, comment string, updatedBy uint) error {
	if !IsValidStatus(status) {
		return apperr.Newf(apperr.KindValidation, "invalid order status: %s", status)
	}

	var ord Order
	if err := s.db.First(&ord, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("order")
		}
		return apperr.Internal("failed to load order", err)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status": status,
	}
	if status == OrderStatusDelivered {
		updates["is_delivered"] = true
		updates["delivered_at"] = now
	}

	if err := s.db.Model(&ord).Updates(updates).Error; err != nil {
		return apperr.Internal("failed to update order status", err)
	}

	statusHistory := OrderStatusHistory{
		OrderID:   orderID,
		Status:    status,
		Comment:   comment,
		CreatedBy: updatedBy,
		CreatedAt: now,
	}

	if err := s.db.Create(&statusHistory).Error; err != nil {
		return apperr.Internal("failed to create status history", err)
	}

	return nil
}

// DeleteOrder removes an order from the back office. Stock is not restored.
func (s *Service) DeleteOrder(orderID uint) error {
	var ord Order
	if err := s.db.First(&ord, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("order")
		}
		return apperr.Internal("failed to load order", err)
	}

	if err := s.db.Delete(&ord).Error; err != nil {
		return apperr.Internal("failed to delete order", err)
	}
	return nil
}

// GetUserOrders retrieves orders for a specific user, newest first
func (s *Service) GetUserOrders(userID uint, page, limit int) (*OrderResponse, error) {
	req := &OrderListRequest{
		Page:      page,
		Limit:     limit,
		UserID:    userID,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
	return s.GetOrders(req)
}

// Private helper methods

// calculateItemsTotal sums prices read from the products themselves; the
// price stored on the cart row is a display value from the time of
// add-to-cart. Callers verify every item carries a loaded product.
func (s *Service) calculateItemsTotal(items []cart.CartItemResponse) int64 {
	var total int64
	for _, item := range items {
		total += item.Product.Price * int64(item.Quantity)
	}
	return total
}

// takeStock decrements stock and advances the sales counter in one
// conditional update. Zero rows affected means another order got there
// first or stock was short to begin with.
func (s *Service) takeStock(tx *gorm.DB, prod *product.Product, quantity int) error {
	result := tx.Model(&product.Product{}).
		Where("id = ? AND stock >= ?", prod.ID, quantity).
		UpdateColumns(map[string]interface{}{
			"stock":       gorm.Expr("stock - ?", quantity),
			"sales_count": gorm.Expr("sales_count + ?", quantity),
		})

	if result.Error != nil {
		return apperr.Internal("failed to update stock", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.InsufficientStock(prod.Name)
	}
	return nil
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at":   true,
		"updated_at":   true,
		"total_price":  true,
		"status":       true,
		"order_number": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
