// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/checkout"
)

// CheckoutHandler handles checkout eligibility endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkout.NewService(cfg),
	}
}

// CheckServiceability handles GET /checkout/serviceability?city=
func (h *CheckoutHandler) CheckServiceability(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		respondBadRequest(c, "city is required")
		return
	}

	result := h.checkoutService.CheckServiceability(city)
	respondOK(c, http.StatusOK, "serviceability checked", result)
}
