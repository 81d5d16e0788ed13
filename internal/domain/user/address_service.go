// internal/domain/user/address_service.go
package user

import (
	"strings"

	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

// AddressService handles saved shipping addresses
type AddressService struct {
	db *gorm.DB
}

// NewAddressService creates a new address service
func NewAddressService(db *gorm.DB) *AddressService {
	return &AddressService{db: db}
}

// AddressRequest represents address create/update data
type AddressRequest struct {
	FullName     string `json:"full_name" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	AddressLine1 string `json:"address_line1" binding:"required"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	PostalCode   string `json:"postal_code" binding:"required"`
	Country      string `json:"country"`
	IsDefault    bool   `json:"is_default"`
}

// GetAddresses lists the user's addresses, default first
func (s *AddressService) GetAddresses(userID uint) ([]Address, error) {
	var addresses []Address
	if err := s.db.Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC").
		Find(&addresses).Error; err != nil {
		return nil, apperr.Internal("failed to retrieve addresses", err)
	}
	return addresses, nil
}

// GetAddress retrieves one of the user's addresses
func (s *AddressService) GetAddress(userID, addressID uint) (*Address, error) {
	var address Address
	if err := s.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
		return nil, apperr.NotFound("address")
	}
	return &address, nil
}

// CreateAddress adds a new address for the user
func (s *AddressService) CreateAddress(userID uint, req *AddressRequest) (*Address, error) {
	address := Address{
		UserID:       userID,
		FullName:     strings.TrimSpace(req.FullName),
		Phone:        strings.TrimSpace(req.Phone),
		AddressLine1: strings.TrimSpace(req.AddressLine1),
		AddressLine2: strings.TrimSpace(req.AddressLine2),
		City:         strings.TrimSpace(req.City),
		State:        strings.TrimSpace(req.State),
		PostalCode:   strings.TrimSpace(req.PostalCode),
		Country:      strings.TrimSpace(req.Country),
		IsDefault:    req.IsDefault,
	}
	if address.Country == "" {
		address.Country = "India"
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Address{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return apperr.Internal("failed to count addresses", err)
		}
		if count == 0 {
			address.IsDefault = true
		}

		if address.IsDefault {
			if err := tx.Model(&Address{}).Where("user_id = ?", userID).
				Update("is_default", false).Error; err != nil {
				return apperr.Internal("failed to clear default address", err)
			}
		}

		if err := tx.Create(&address).Error; err != nil {
			return apperr.Internal("failed to create address", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &address, nil
}

// UpdateAddress updates one of the user's addresses
func (s *AddressService) UpdateAddress(userID, addressID uint, req *AddressRequest) (*Address, error) {
	var address Address
	if err := s.db.Where("id = ? AND user_id = ?", addressID, userID).First(&address).Error; err != nil {
		return nil, apperr.NotFound("address")
	}

	updates := map[string]interface{}{
		"full_name":     strings.TrimSpace(req.FullName),
		"phone":         strings.TrimSpace(req.Phone),
		"address_line1": strings.TrimSpace(req.AddressLine1),
		"address_line2": strings.TrimSpace(req.AddressLine2),
		"city":          strings.TrimSpace(req.City),
		"state":         strings.TrimSpace(req.State),
		"postal_code":   strings.TrimSpace(req.PostalCode),
		"is_default":    req.IsDefault,
	}
	if country := strings.TrimSpace(req.Country); country != "" {
		updates["country"] = country
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.IsDefault {
			if err := tx.Model(&Address{}).
				Where("user_id = ? AND id <> ?", userID, addressID).
				Update("is_default", false).Error; err != nil {
				return apperr.Internal("failed to clear default address", err)
			}
		}
		if err := tx.Model(&address).Updates(updates).Error; err != nil {
			return apperr.Internal("failed to update address", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &address, nil
}

// DeleteAddress removes one of the user's addresses
func (s *AddressService) DeleteAddress(userID, addressID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", addressID, userID).Delete(&Address{})
	if result.Error != nil {
		return apperr.Internal("failed to delete address", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("address")
	}
	return nil
}
