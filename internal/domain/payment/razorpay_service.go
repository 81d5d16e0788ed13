// internal/domain/payment/razorpay_service.go
package payment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/order"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

// RazorpayService creates Razorpay orders for payment collection
type RazorpayService struct {
	db         *gorm.DB
	config     *config.Config
	httpClient *http.Client
}

// NewRazorpayService creates a new Razorpay payment service
func NewRazorpayService(db *gorm.DB, cfg *config.Config) *RazorpayService {
	return &RazorpayService{
		db:     db,
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// RazorpayOrder is the subset of Razorpay's order object we use
type RazorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// RazorpayOrderResponse is returned to the client to open the checkout widget
type RazorpayOrderResponse struct {
	RazorpayOrderID string `json:"razorpay_order_id"`
	KeyID           string `json:"key_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	OrderNumber     string `json:"order_number"`
}

// IsConfigured reports whether Razorpay credentials are present
func (s *RazorpayService) IsConfigured() bool {
	return s.config.Payments.Razorpay.KeyID != "" && s.config.Payments.Razorpay.KeySecret != ""
}

// CreatePaymentOrder creates a Razorpay order for the given order.
// The amount is taken from the stored order, never from the client.
func (s *RazorpayService) CreatePaymentOrder(userID, orderID uint) (*RazorpayOrderResponse, error) {
	if !s.IsConfigured() {
		return nil, apperr.Unconfigured("razorpay")
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

	payload := map[string]interface{}{
		"amount":   ord.TotalPrice,
		"currency": ord.Currency,
		"receipt":  ord.OrderNumber,
		"notes": map[string]string{
			"order_id": fmt.Sprintf("%d", ord.ID),
		},
	}

	body, err := s.post("/orders", payload)
	if err != nil {
		return nil, err
	}

	var rzpOrder RazorpayOrder
	if err := json.Unmarshal(body, &rzpOrder); err != nil {
		return nil, apperr.Internal("failed to parse razorpay response", err)
	}

	return &RazorpayOrderResponse{
		RazorpayOrderID: rzpOrder.ID,
		KeyID:           s.config.Payments.Razorpay.KeyID,
		Amount:          ord.TotalPrice,
		Currency:        ord.Currency,
		OrderNumber:     ord.OrderNumber,
	}, nil
}

func (s *RazorpayService) post(endpoint string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, apperr.Internal("failed to marshal request", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.config.Payments.Razorpay.BaseURL+endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, apperr.Internal("failed to create request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.config.Payments.Razorpay.KeyID, s.config.Payments.Razorpay.KeySecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apperr.Internal("razorpay request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Internal("failed to read razorpay response", err)
	}

	if resp.StatusCode >= 400 {
		return nil, apperr.Internal(fmt.Sprintf("razorpay returned status %d", resp.StatusCode), nil)
	}

	return respBody, nil
}
