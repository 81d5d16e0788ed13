// internal/domain/user/admin_service.go
package user

import (
	"strings"

	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/auth"
)

// AdminService handles back-office user management
type AdminService struct {
	db              *gorm.DB
	passwordManager *auth.PasswordManager
}

// NewAdminService creates a new admin user service
func NewAdminService(db *gorm.DB, cfg *config.Config) *AdminService {
	return &AdminService{
		db:              db,
		passwordManager: auth.NewPasswordManager(cfg),
	}
}

// UserListRequest represents admin user listing filters
type UserListRequest struct {
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
	Search   string `form:"search"`
	IsBanned *bool  `form:"is_banned"`
	IsAdmin  *bool  `form:"is_admin"`
}

// UserListResponse represents a paginated user listing
type UserListResponse struct {
	Users      []User `json:"users"`
	Total      int64  `json:"total"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

// CreateAdminRequest represents admin account creation data
type CreateAdminRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
}

// GetUsers lists users with optional search and filters
func (s *AdminService) GetUsers(req *UserListRequest) (*UserListResponse, error) {
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}

	query := s.db.Model(&User{})

	if req.Search != "" {
		term := "%" + strings.ToLower(req.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", term, term, term)
	}
	if req.IsBanned != nil {
		query = query.Where("is_banned = ?", *req.IsBanned)
	}
	if req.IsAdmin != nil {
		query = query.Where("is_admin = ?", *req.IsAdmin)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperr.Internal("failed to count users", err)
	}

	var users []User
	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&users).Error; err != nil {
		return nil, apperr.Internal("failed to retrieve users", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))

	return &UserListResponse{
		Users:      users,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// GetUser retrieves a single user with addresses
func (s *AdminService) GetUser(userID uint) (*User, error) {
	var user User
	if err := s.db.Preload("Addresses").First(&user, userID).Error; err != nil {
		return nil, apperr.NotFound("user")
	}
	return &user, nil
}

// SetBanned bans or unbans a customer account. Admin accounts cannot be banned.
func (s *AdminService) SetBanned(userID uint, banned bool) (*User, error) {
	var user User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, apperr.NotFound("user")
	}

	if user.IsAdmin {
		return nil, apperr.Forbidden("admin accounts cannot be banned")
	}

	if err := s.db.Model(&user).Update("is_banned", banned).Error; err != nil {
		return nil, apperr.Internal("failed to update user", err)
	}
	user.IsBanned = banned

	return &user, nil
}

// CreateAdmin creates a new administrator account
func (s *AdminService) CreateAdmin(req *CreateAdminRequest) (*User, error) {
	if err := s.passwordManager.ValidatePassword(req.Password); err != nil {
		return nil, apperr.Validation(err.Error())
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing int64
	if err := s.db.Model(&User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, apperr.Internal("failed to check existing user", err)
	}
	if existing > 0 {
		return nil, apperr.Duplicate("user with this email already exists")
	}

	hashedPassword, err := s.passwordManager.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}

	admin := User{
		Email:    email,
		Password: hashedPassword,
		Name:     strings.TrimSpace(req.Name),
		IsAdmin:  true,
	}

	if err := s.db.Create(&admin).Error; err != nil {
		return nil, apperr.Internal("failed to create admin", err)
	}

	admin.Password = ""
	return &admin, nil
}
