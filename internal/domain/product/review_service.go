// internal/domain/product/review_service.go
package product

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

// ReviewService handles product review business logic
type ReviewService struct {
	db *gorm.DB
}

// NewReviewService creates a new review service
func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{
		db: db,
	}
}

// CreateReviewRequest represents a review submission
type CreateReviewRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required,min=1,max=5"`
	Comment   string `json:"comment" binding:"max=2000"`
}

// CreateReview records a review and refreshes the product's rating aggregate.
// A user may review a given product once.
func (s *ReviewService) CreateReview(userID uint, req *CreateReviewRequest) (*ProductReview, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}

	var prod Product
	if err := s.db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&prod).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperr.NotFound("product")
		}
		return nil, apperr.Internal("failed to load product", err)
	}

	var reviewer struct {
		Name string
	}
	if err := s.db.Table("users").Select("name").Where("id = ?", userID).Scan(&reviewer).Error; err != nil {
		return nil, apperr.Internal("failed to load user", err)
	}

	review := ProductReview{
		ProductID: req.ProductID,
		UserID:    userID,
		UserName:  reviewer.Name,
		Rating:    req.Rating,
		Comment:   strings.TrimSpace(req.Comment),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		// The unique index on (product_id, user_id) is the authority on
		// "one review per user per product"; a concurrent writer surfaces
		// here the same way a repeat submission does.
		if err := tx.Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperr.Duplicate("you have already reviewed this product")
			}
			return apperr.Internal("failed to create review", err)
		}

		return s.refreshRatingAggregate(tx, req.ProductID)
	})
	if err != nil {
		return nil, err
	}

	return &review, nil
}

// GetProductReviews lists reviews for a product, newest first
func (s *ReviewService) GetProductReviews(productID uint) ([]ProductReview, error) {
	var exists int64
	if err := s.db.Model(&Product{}).Where("id = ?", productID).Count(&exists).Error; err != nil {
		return nil, apperr.Internal("failed to check product", err)
	}
	if exists == 0 {
		return nil, apperr.NotFound("product")
	}

	var reviews []ProductReview
	if err := s.db.Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, apperr.Internal("failed to retrieve reviews", err)
	}

	return reviews, nil
}

// refreshRatingAggregate recomputes the stored rating average and count
// from the review rows inside the caller's transaction.
func (s *ReviewService) refreshRatingAggregate(tx *gorm.DB, productID uint) error {
	var agg struct {
		Avg   float64
		Count int64
	}
	if err := tx.Model(&ProductReview{}).
		Select("COALESCE(AVG(rating), 0) as avg, COUNT(*) as count").
		Where("product_id = ?", productID).
		Scan(&agg).Error; err != nil {
		return apperr.Internal("failed to compute rating aggregate", err)
	}

	if err := tx.Model(&Product{}).Where("id = ?", productID).
		UpdateColumns(map[string]interface{}{
			"rating_avg":   agg.Avg,
			"rating_count": agg.Count,
		}).Error; err != nil {
		return apperr.Internal("failed to update rating aggregate", err)
	}

	return nil
}
