// internal/interfaces/http/handlers/wishlist.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/domain/wishlist"
	"github.com/jaipurgadget/ecommerce-backend/internal/interfaces/http/middleware"
)

// WishlistHandler handles wishlist endpoints
type WishlistHandler struct {
	wishlistService *wishlist.Service
}

// NewWishlistHandler creates a new wishlist handler
func NewWishlistHandler(db *gorm.DB) *WishlistHandler {
	return &WishlistHandler{
		wishlistService: wishlist.NewService(db),
	}
}

// GetWishlist handles GET /users/wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		respondError(c, errUnauthenticated)
		return
	}

	items, err := h.wishlistService.GetWishlist(userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "wishlist retrieved", items)
}

// AddToWishlist handles POST /users/wishlist/:productId
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		respondError(c, errUnauthenticated)
		return
	}

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid product id")
		return
	}

	req := wishlist.AddToWishlistRequest{ProductID: uint(productID)}
	if err := h.wishlistService.AddToWishlist(userID, &req); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "added to wishlist", nil)
}

// RemoveFromWishlist handles DELETE /users/wishlist/:productId
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		respondError(c, errUnauthenticated)
		return
	}

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid product id")
		return
	}

	if err := h.wishlistService.RemoveFromWishlist(userID, uint(productID)); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "removed from wishlist", nil)
}
