package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "INR", cfg.Store.Currency)
	assert.Equal(t, int64(15000), cfg.Store.CODShippingFee)
	assert.Equal(t, "Jaipur", cfg.Store.ServiceAreaCity)
	assert.Equal(t, 24*time.Hour, cfg.Store.GuestCartTTL)
	assert.Equal(t, 12, cfg.Security.BcryptCost)
	assert.Empty(t, cfg.Payments.Stripe.SecretKey)
	assert.Empty(t, cfg.Email.SMTPHost)
	assert.Equal(t, 587, cfg.Email.SMTPPort)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_COD_SHIPPING_FEE", "20000")
	t.Setenv("STORE_GUEST_CART_TTL", "48h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, int64(20000), cfg.Store.CODShippingFee)
	assert.Equal(t, 48*time.Hour, cfg.Store.GuestCartTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Security.CORSAllowedOrigins)
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("STORE_GUEST_CART_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Security.BcryptCost)
	assert.Equal(t, 24*time.Hour, cfg.Store.GuestCartTTL)
}

func TestValidateShortJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidateNegativeCODFee(t *testing.T) {
	t.Setenv("STORE_COD_SHIPPING_FEE", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_COD_SHIPPING_FEE")
}

func TestValidateRequiredFields(t *testing.T) {
	base := func() *Config {
		return &Config{
			JWT:      JWTConfig{Secret: "test-secret-at-least-32-characters-long"},
			Database: DatabaseConfig{Host: "localhost", Name: "db", User: "user"},
			Redis:    RedisConfig{Host: "localhost"},
			Server:   ServerConfig{Port: "8080"},
			Store:    StoreConfig{ServiceAreaCity: "Jaipur"},
		}
	}

	require.NoError(t, base().Validate())

	missingDB := base()
	missingDB.Database.Host = ""
	require.Error(t, missingDB.Validate())

	missingRedis := base()
	missingRedis.Redis.Host = ""
	require.Error(t, missingRedis.Validate())

	missingCity := base()
	missingCity.Store.ServiceAreaCity = ""
	require.Error(t, missingCity.Validate())
}

func TestConnectionStrings(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host: "db.internal", Port: "5432", User: "shop", Password: "pw",
			Name: "shopdb", SSLMode: "disable",
		},
		Redis: RedisConfig{Host: "cache.internal", Port: "6379"},
	}

	assert.Equal(t,
		"host=db.internal port=5432 user=shop password=pw dbname=shopdb sslmode=disable",
		cfg.GetDatabaseDSN())
	assert.Equal(t, "cache.internal:6379", cfg.GetRedisAddr())
}
