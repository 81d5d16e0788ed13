// internal/interfaces/http/handlers/category.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/product"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	categoryService *product.CategoryService
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(db *gorm.DB, cfg *config.Config) *CategoryHandler {
	return &CategoryHandler{
		categoryService: product.NewCategoryService(db, cfg),
	}
}

// GetCategories handles GET /categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	includeInactive, _ := strconv.ParseBool(c.Query("include_inactive"))

	withCounts, _ := strconv.ParseBool(c.Query("with_counts"))
	if withCounts {
		categories, err := h.categoryService.GetCategoriesWithProductCount(includeInactive)
		if err != nil {
			respondError(c, err)
			return
		}
		respondOK(c, http.StatusOK, "categories retrieved", categories)
		return
	}

	categories, err := h.categoryService.GetCategories(includeInactive)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "categories retrieved", categories)
}

// GetCategory handles GET /categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		category, serr := h.categoryService.GetCategoryBySlug(c.Param("id"))
		if serr != nil {
			respondError(c, serr)
			return
		}
		respondOK(c, http.StatusOK, "category retrieved", category)
		return
	}

	category, err := h.categoryService.GetCategory(uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "category retrieved", category)
}

// CreateCategory handles POST /admin/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req product.CategoryCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request data")
		return
	}

	category, err := h.categoryService.CreateCategory(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusCreated, "category created", category)
}

// UpdateCategory handles PUT /admin/categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid category id")
		return
	}

	var req product.CategoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request data")
		return
	}

	category, err := h.categoryService.UpdateCategory(uint(id), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "category updated", category)
}

// DeleteCategory handles DELETE /admin/categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid category id")
		return
	}

	if err := h.categoryService.DeleteCategory(uint(id)); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "category deleted", nil)
}
