// internal/domain/enquiry/service.go
package enquiry

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/cart"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/order"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/user"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/email"
)

// Service handles enquiry business logic
type Service struct {
	db          *gorm.DB
	config      *config.Config
	cartService *cart.Service
	mailer      *email.Mailer
}

// NewService creates a new enquiry service. The mailer may be nil when
// acknowledgements are not wanted.
func NewService(db *gorm.DB, cfg *config.Config, cartService *cart.Service, mailer *email.Mailer) *Service {
	return &Service{
		db:          db,
		config:      cfg,
		cartService: cartService,
		mailer:      mailer,
	}
}

// CreateEnquiryRequest represents enquiry creation data
type CreateEnquiryRequest struct {
	ShippingAddress order.Address `json:"shipping_address" binding:"required"`
	CustomerName    string        `json:"customer_name,omitempty"`
	CustomerPhone   string        `json:"customer_phone,omitempty"`
	CustomerEmail   string        `json:"customer_email,omitempty"`
	Notes           string        `json:"notes,omitempty"`
}

// EnquiryListRequest represents enquiry list query parameters
type EnquiryListRequest struct {
	Page      int           `form:"page,default=1"`
	Limit     int           `form:"limit,default=20"`
	Status    EnquiryStatus `form:"status"`
	UserID    uint          `form:"user_id"`
	SortBy    string        `form:"sort_by,default=created_at"`
	SortOrder string        `form:"sort_order,default=desc"`
}

// EnquiryResponse represents enquiry list response with pagination
type EnquiryResponse struct {
	Enquiries  []Enquiry        `json:"enquiries"`
	Pagination order.Pagination `json:"pagination"`
}

// CreateEnquiry snapshots the user's cart as an enquiry for manual follow up.
// Items are priced from the product at enquiry time, not the price stored on
// the cart row. Contact fields default from the shipping address and the user
// record. Stock levels and user order counters are untouched; the cart is
// cleared.
func (s *Service) CreateEnquiry(userID uint, sessionID string, req *CreateEnquiryRequest) (*Enquiry, error) {
	userIDPtr := &userID
	cartResponse, err := s.cartService.GetCart(userIDPtr, sessionID)
	if err != nil {
		return nil, err
	}

	if len(cartResponse.Items) == 0 {
		return nil, apperr.Validation("cart is empty")
	}

	var itemsTotal int64
	for _, item := range cartResponse.Items {
		if item.Product == nil {
			return nil, apperr.NotFound("product")
		}
		itemsTotal += item.Product.Price * int64(item.Quantity)
	}

	var created Enquiry

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var usr user.User
		if err := tx.Where("id = ?", userID).First(&usr).Error; err != nil {
			return apperr.Internal("failed to load user", err)
		}

		name := req.CustomerName
		if name == "" {
			name = req.ShippingAddress.FullName
		}
		if name == "" {
			name = usr.Name
		}
		phone := req.CustomerPhone
		if phone == "" {
			phone = req.ShippingAddress.Phone
		}
		if phone == "" {
			phone = usr.Phone
		}
		email := req.CustomerEmail
		if email == "" {
			email = usr.Email
		}

		newEnquiry := Enquiry{
			UserID:          userID,
			CustomerName:    name,
			CustomerPhone:   phone,
			CustomerEmail:   email,
			Status:          EnquiryStatusPending,
			ItemsTotal:      itemsTotal,
			ShippingAddress: req.ShippingAddress,
			Notes:           req.Notes,
		}

		if err := tx.Create(&newEnquiry).Error; err != nil {
			return apperr.Internal("failed to create enquiry", err)
		}

		for _, cartItem := range cartResponse.Items {
			unitPrice := cartItem.Product.Price
			item := EnquiryItem{
				EnquiryID:  newEnquiry.ID,
				ProductID:  cartItem.ProductID,
				Name:       cartItem.Product.Name,
				Image:      cartItem.Product.PrimaryImageURL(),
				Quantity:   cartItem.Quantity,
				Price:      unitPrice,
				TotalPrice: unitPrice * int64(cartItem.Quantity),
			}
			if err := tx.Create(&item).Error; err != nil {
				return apperr.Internal("failed to create enquiry item", err)
			}
		}

		history := EnquiryStatusHistory{
			EnquiryID: newEnquiry.ID,
			Status:    EnquiryStatusPending,
			Comment:   "Enquiry created",
			CreatedBy: userID,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(&history).Error; err != nil {
			return apperr.Internal("failed to create status history", err)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&cart.CartItem{}).Error; err != nil {
			return apperr.Internal("failed to clear cart", err)
		}

		created = newEnquiry
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.db.Preload("Items").Preload("StatusHistory").First(&created, created.ID).Error; err != nil {
		return nil, apperr.Internal("failed to load enquiry", err)
	}

	if s.mailer != nil && created.CustomerEmail != "" {
		go s.mailer.SendEnquiryReceived(created.CustomerEmail, created.CustomerName, fmt.Sprintf("#%d", created.ID))
	}

	return &created, nil
}

// GetEnquiries retrieves enquiries with filtering and pagination
func (s *Service) GetEnquiries(req *EnquiryListRequest) (*EnquiryResponse, error) {
	var enquiries []Enquiry
	var total int64

	query := s.db.Model(&Enquiry{}).
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

	if err := query.Count(&total).Error; err != nil {
		return nil, apperr.Internal("failed to count enquiries", err)
	}

	query = query.Order(s.buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&enquiries).Error; err != nil {
		return nil, apperr.Internal("failed to retrieve enquiries", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	pagination := order.Pagination{
		Page:       req.Page,
		Limit:      req.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}

	return &EnquiryResponse{
		Enquiries:  enquiries,
		Pagination: pagination,
	}, nil
}

// GetEnquiry retrieves a single enquiry by ID
func (s *Service) GetEnquiry(id uint) (*Enquiry, error) {
	var enq Enquiry
	result := s.db.
		Preload("Items").
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id).
		First(&enq)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("enquiry")
		}
		return nil, apperr.Internal("failed to retrieve enquiry", result.Error)
	}

	return &enq, nil
}

// GetUserEnquiries retrieves enquiries for a specific user, newest first
func (s *Service) GetUserEnquiries(userID uint, page, limit int) (*EnquiryResponse, error) {
	req := &EnquiryListRequest{
		Page:      page,
		Limit:     limit,
		UserID:    userID,
		SortBy:    "created_at",
		SortOrder: "desc",
	}
	return s.GetEnquiries(req)
}

// UpdateEnquiryStatus updates the enquiry status and appends history
func (s *Service) UpdateEnquiryStatus(enquiryID uint, status EnquiryStatus, comment string, updatedBy uint) error {
	if !IsValidStatus(status) {
		return apperr.Newf(apperr.KindValidation, "invalid enquiry status: %s", status)
	}

	var enq Enquiry
	if err := s.db.First(&enq, enquiryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("enquiry")
		}
		return apperr.Internal("failed to load enquiry", err)
	}

	if err := s.db.Model(&enq).Update("status", status).Error; err != nil {
		return apperr.Internal("failed to update enquiry status", err)
	}

	statusHistory := EnquiryStatusHistory{
		EnquiryID: enquiryID,
		Status:    status,
		Comment:   comment,
		CreatedBy: updatedBy,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.db.Create(&statusHistory).Error; err != nil {
		return apperr.Internal("failed to create status history", err)
	}

	return nil
}

// DeleteEnquiry removes an enquiry from the back office
func (s *Service) DeleteEnquiry(enquiryID uint) error {
	var enq Enquiry
	if err := s.db.First(&enq, enquiryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("enquiry")
		}
		return apperr.Internal("failed to load enquiry", err)
	}

	if err := s.db.Delete(&enq).Error; err != nil {
		return apperr.Internal("failed to delete enquiry", err)
	}
	return nil
}

func (s *Service) buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"status":     true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
