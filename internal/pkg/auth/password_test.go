package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
)

func passwordTestConfig() *config.Config {
	return &config.Config{
		Security: config.SecurityConfig{BcryptCost: 4},
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	mgr := NewPasswordManager(passwordTestConfig())

	hash, err := mgr.HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)

	require.NoError(t, mgr.VerifyPassword("secret123", hash))
	require.Error(t, mgr.VerifyPassword("wrongpass", hash))
}

func TestHashPasswordProducesUniqueHashes(t *testing.T) {
	mgr := NewPasswordManager(passwordTestConfig())

	first, err := mgr.HashPassword("secret123")
	require.NoError(t, err)
	second, err := mgr.HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestValidatePasswordLength(t *testing.T) {
	mgr := NewPasswordManager(passwordTestConfig())

	require.Error(t, mgr.ValidatePassword("abc"))
	require.Error(t, mgr.ValidatePassword(""))
	require.NoError(t, mgr.ValidatePassword("abcdef"))
	require.NoError(t, mgr.ValidatePassword(strings.Repeat("a", 128)))
	require.Error(t, mgr.ValidatePassword(strings.Repeat("a", 129)))
}

func TestHashPasswordRejectsInvalid(t *testing.T) {
	mgr := NewPasswordManager(passwordTestConfig())

	_, err := mgr.HashPassword("abc")
	require.Error(t, err)
}
