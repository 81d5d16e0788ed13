// internal/domain/payment/stripe_service.go
package payment

import (
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/order"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

// StripeService creates payment intents for orders
type StripeService struct {
	db     *gorm.DB
	config *config.Config
}

// NewStripeService creates a new Stripe payment service
func NewStripeService(db *gorm.DB, cfg *config.Config) *StripeService {
	if cfg.Payments.Stripe.SecretKey != "" {
		stripe.Key = cfg.Payments.Stripe.SecretKey
	}
	return &StripeService{
		db:     db,
		config: cfg,
	}
}

// StripeIntentResponse is returned to the client to complete payment
type StripeIntentResponse struct {
	ClientSecret   string `json:"client_secret"`
	PublishableKey string `json:"publishable_key"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	OrderNumber    string `json:"order_number"`
}

// IsConfigured reports whether Stripe credentials are present
func (s *StripeService) IsConfigured() bool {
	return s.config.Payments.Stripe.SecretKey != ""
}

// CreatePaymentIntent creates a Stripe PaymentIntent for the given order.
// The amount is taken from the stored order, never from the client.
func (s *StripeService) CreatePaymentIntent(userID, orderID uint) (*StripeIntentResponse, error) {
	if !s.IsConfigured() {
		return nil, apperr.Unconfigured("stripe")
	}

	var ord order.Order
	if err := s.db.Where("id = ? AND user_id = ?", orderID, userID).First(&ord).Error; err != nil {
		return nil, apperr.NotFound("order")
	}

	if ord.IsPaid {
		return nil, apperr.Validation("order is already paid")
	}
	if ord.Status == order.OrderStatusCancelled {
		return nil, apperr.Validation("order is cancelled")
	}

	currency := strings.ToLower(ord.Currency)
	if currency == "" {
		currency = strings.ToLower(s.config.Store.Currency)
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(ord.TotalPrice),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"order_id":     fmt.Sprintf("%d", ord.ID),
			"order_number": ord.OrderNumber,
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, apperr.Internal("failed to create payment intent", err)
	}

	return &StripeIntentResponse{
		ClientSecret:   intent.ClientSecret,
		PublishableKey: s.config.Payments.Stripe.PublishableKey,
		Amount:         ord.TotalPrice,
		Currency:       currency,
		OrderNumber:    ord.OrderNumber,
	}, nil
}
