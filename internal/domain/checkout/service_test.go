package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
)

func TestCheckServiceability(t *testing.T) {
	svc := NewService(&config.Config{
		Store: config.StoreConfig{ServiceAreaCity: "Jaipur"},
	})

	tests := []struct {
		name        string
		city        string
		serviceable bool
	}{
		{"exact match", "Jaipur", true},
		{"case insensitive", "jaipur", true},
		{"upper case", "JAIPUR", true},
		{"surrounding whitespace", "  Jaipur  ", true},
		{"other city", "Mumbai", false},
		{"empty", "", false},
		{"partial match", "Jaipur Rural", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.CheckServiceability(tt.city)
			assert.Equal(t, tt.serviceable, result.Serviceable)
			assert.Equal(t, "Jaipur", result.ServiceArea)
		})
	}
}

func TestCheckServiceabilityEchoesTrimmedCity(t *testing.T) {
	svc := NewService(&config.Config{
		Store: config.StoreConfig{ServiceAreaCity: "Jaipur"},
	})

	result := svc.CheckServiceability("  Udaipur ")
	assert.Equal(t, "Udaipur", result.City)
	assert.False(t, result.Serviceable)
}
