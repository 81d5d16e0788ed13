// internal/domain/checkout/service.go
package checkout

import (
	"strings"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
)

// Service handles checkout eligibility
type Service struct {
	config *config.Config
}

// NewService creates a new checkout service
func NewService(cfg *config.Config) *Service {
	return &Service{
		config: cfg,
	}
}

// ServiceabilityResult reports whether we deliver to a city
type ServiceabilityResult struct {
	City        string `json:"city"`
	Serviceable bool   `json:"serviceable"`
	ServiceArea string `json:"service_area"`
}

// CheckServiceability reports whether the given city is inside the
// delivery area. Customers outside it go through the enquiry flow.
func (s *Service) CheckServiceability(city string) *ServiceabilityResult {
	trimmed := strings.TrimSpace(city)
	serviceable := strings.EqualFold(trimmed, s.config.Store.ServiceAreaCity)

	return &ServiceabilityResult{
		City:        trimmed,
		Serviceable: serviceable,
		ServiceArea: s.config.Store.ServiceAreaCity,
	}
}
