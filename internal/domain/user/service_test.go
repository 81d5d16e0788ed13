package user

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:             "test-secret-at-least-32-characters-long",
			AccessTokenExpiry:  15 * time.Minute,
			RefreshTokenExpiry: 7 * 24 * time.Hour,
		},
		Security: config.SecurityConfig{
			BcryptCost: 4,
		},
	}
}

func setupUserDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &Address{}))
	return db
}

func setupUserService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := setupUserDB(t)
	return NewService(db, testConfig()), db
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := setupUserService(t)

	resp, err := svc.Register(&RegisterRequest{
		Email:    "Ravi@Example.com",
		Password: "secret123",
		Name:     "Ravi Sharma",
		Phone:    "9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", resp.User.Email)
	assert.Empty(t, resp.User.Password)
	assert.False(t, resp.User.IsAdmin)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)
	assert.NotNil(t, resp.User.LastLoginAt)

	login, err := svc.Login(&LoginRequest{Email: "ravi@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := setupUserService(t)

	_, err := svc.Register(&RegisterRequest{Email: "dup@example.com", Password: "secret123", Name: "First"})
	require.NoError(t, err)

	_, err = svc.Register(&RegisterRequest{Email: "DUP@example.com", Password: "secret123", Name: "Second"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _ := setupUserService(t)

	_, err := svc.Register(&RegisterRequest{Email: "short@example.com", Password: "abc", Name: "Short"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := setupUserService(t)

	_, err := svc.Register(&RegisterRequest{Email: "login@example.com", Password: "secret123", Name: "Login"})
	require.NoError(t, err)

	_, err = svc.Login(&LoginRequest{Email: "login@example.com", Password: "wrongpass"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Equal(t, "invalid email or password", apperr.MessageOf(err))
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := setupUserService(t)

	_, err := svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
	assert.Equal(t, "invalid email or password", apperr.MessageOf(err))
}

func TestLoginBannedAccount(t *testing.T) {
	svc, db := setupUserService(t)

	resp, err := svc.Register(&RegisterRequest{Email: "banned@example.com", Password: "secret123", Name: "Banned"})
	require.NoError(t, err)
	require.NoError(t, db.Model(&User{}).Where("id = ?", resp.User.ID).Update("is_banned", true).Error)

	_, err = svc.Login(&LoginRequest{Email: "banned@example.com", Password: "secret123"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Equal(t, "your account has been suspended", apperr.MessageOf(err))
}

func TestRefreshToken(t *testing.T) {
	svc, _ := setupUserService(t)

	resp, err := svc.Register(&RegisterRequest{Email: "refresh@example.com", Password: "secret123", Name: "Refresh"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(resp.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken("not-a-token")
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc, _ := setupUserService(t)

	resp, err := svc.Register(&RegisterRequest{Email: "tokentype@example.com", Password: "secret123", Name: "Token"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))
}

func TestChangePassword(t *testing.T) {
	svc, _ := setupUserService(t)

	resp, err := svc.Register(&RegisterRequest{Email: "change@example.com", Password: "oldsecret", Name: "Change"})
	require.NoError(t, err)

	err = svc.ChangePassword(resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "wrongpass",
		NewPassword:     "newsecret",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	err = svc.ChangePassword(resp.User.ID, &ChangePasswordRequest{
		CurrentPassword: "oldsecret",
		NewPassword:     "newsecret",
	})
	require.NoError(t, err)

	_, err = svc.Login(&LoginRequest{Email: "change@example.com", Password: "oldsecret"})
	require.Error(t, err)
	_, err = svc.Login(&LoginRequest{Email: "change@example.com", Password: "newsecret"})
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := setupUserService(t)

	resp, err := svc.Register(&RegisterRequest{Email: "profile@example.com", Password: "secret123", Name: "Before", Phone: "1111111111"})
	require.NoError(t, err)

	name := "After"
	updated, err := svc.UpdateProfile(resp.User.ID, &UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, "1111111111", updated.Phone)

	empty := "   "
	_, err = svc.UpdateProfile(resp.User.ID, &UpdateProfileRequest{Name: &empty})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
