// internal/interfaces/http/handlers/payment.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/payment"
	"github.com/jaipurgadget/ecommerce-backend/internal/interfaces/http/middleware"
)

// PaymentHandler handles optional online payment endpoints
type PaymentHandler struct {
	stripeService   *payment.StripeService
	razorpayService *payment.RazorpayService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(db *gorm.DB, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{
		stripeService:   payment.NewStripeService(db, cfg),
		razorpayService: payment.NewRazorpayService(db, cfg),
	}
}

type paymentOrderRequest struct {
	OrderID uint `json:"order_id" binding:"required"`
}

// CreateStripeIntent handles POST /payments/stripe/create-payment-intent
func (h *PaymentHandler) CreateStripeIntent(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		respondError(c, errUnauthenticated)
		return
	}

	var req paymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request data")
		return
	}

	intent, err := h.stripeService.CreatePaymentIntent(userID, req.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "payment intent created", intent)
}

// CreateRazorpayOrder handles POST /payments/razorpay/create-order
func (h *PaymentHandler) CreateRazorpayOrder(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		respondError(c, errUnauthenticated)
		return
	}

	var req paymentOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request data")
		return
	}

	rzpOrder, err := h.razorpayService.CreatePaymentOrder(userID, req.OrderID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, http.StatusOK, "razorpay order created", rzpOrder)
}
