// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/cart"
	"github.com/jaipurgadget/ecommerce-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints
type CartHandler struct {
	cartService *cart.Service
	config      *config.Config
}

// NewCartHandler creates a new cart handler
func NewCartHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *CartHandler {
	return &CartHandler{
		cartService: cart.NewService(db, redisClient, cfg),
		config:      cfg,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	userID := optionalUserID(c)
	sessionID := h.getOrCreateSessionID(c)

	cartResponse, err := h.cartService.GetCart(userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "cart retrieved", cartResponse)
}

// AddToCart handles POST /cart/items
func (h *CartHandler) AddToCart(c *gin.Context) {
	userID := optionalUserID(c)
	sessionID := h.getOrCreateSessionID(c)

	var req cart.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request data")
		return
	}

	cartResponse, err := h.cartService.AddToCart(userID, sessionID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "item added to cart", cartResponse)
}

// UpdateCartItem handles PUT /cart/items/:productId
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	userID := optionalUserID(c)
	sessionID := h.getOrCreateSessionID(c)

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid product id")
		return
	}

	var req cart.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request data")
		return
	}

	cartResponse, err := h.cartService.UpdateCartItem(userID, sessionID, uint(productID), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "cart item updated", cartResponse)
}

// RemoveFromCart handles DELETE /cart/items/:productId
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	userID := optionalUserID(c)
	sessionID := h.getOrCreateSessionID(c)

	productID, err := strconv.ParseUint(c.Param("productId"), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid product id")
		return
	}

	cartResponse, err := h.cartService.RemoveFromCart(userID, sessionID, uint(productID))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "item removed from cart", cartResponse)
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	userID := optionalUserID(c)
	sessionID := h.getOrCreateSessionID(c)

	if err := h.cartService.ClearCart(userID, sessionID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "cart cleared", nil)
}

// GetCartCount handles GET /cart/count
func (h *CartHandler) GetCartCount(c *gin.Context) {
	userID := optionalUserID(c)
	sessionID := h.getOrCreateSessionID(c)

	count, err := h.cartService.GetCartItemCount(userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "cart count retrieved", gin.H{"count": count})
}

// MergeGuestCart handles POST /cart/merge, called after login
func (h *CartHandler) MergeGuestCart(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		respondError(c, errUnauthenticated)
		return
	}

	sessionID := h.getOrCreateSessionID(c)

	if err := h.cartService.MergeGuestCartToUser(userID, sessionID); err != nil {
		respondError(c, err)
		return
	}

	cartResponse, err := h.cartService.GetCart(&userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "guest cart merged", cartResponse)
}

// getOrCreateSessionID reads the guest session cookie or issues a new one
func (h *CartHandler) getOrCreateSessionID(c *gin.Context) string {
	sessionID, err := c.Cookie("session_id")
	if err != nil || sessionID == "" {
		sessionID = uuid.New().String()
		maxAge := int(h.config.Store.GuestCartTTL.Seconds())
		c.SetCookie("session_id", sessionID, maxAge, "/", "", false, true)
	}
	return sessionID
}

// optionalUserID returns the authenticated user's ID when present
func optionalUserID(c *gin.Context) *uint {
	if id, ok := middleware.GetUserIDFromContext(c); ok {
		return &id
	}
	return nil
}
