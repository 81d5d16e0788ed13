package user

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

func setupAdminService(t *testing.T) (*AdminService, *gorm.DB) {
	t.Helper()

	db := setupUserDB(t)
	return NewAdminService(db, testConfig()), db
}

func TestSetBanned(t *testing.T) {
	svc, db := setupAdminService(t)

	customer := User{Email: "customer@example.com", Password: "hash", Name: "Customer"}
	require.NoError(t, db.Create(&customer).Error)

	banned, err := svc.SetBanned(customer.ID, true)
	require.NoError(t, err)
	assert.True(t, banned.IsBanned)

	unbanned, err := svc.SetBanned(customer.ID, false)
	require.NoError(t, err)
	assert.False(t, unbanned.IsBanned)
}

func TestSetBannedRejectsAdmins(t *testing.T) {
	svc, db := setupAdminService(t)

	admin := User{Email: "admin@example.com", Password: "hash", Name: "Admin", IsAdmin: true}
	require.NoError(t, db.Create(&admin).Error)

	_, err := svc.SetBanned(admin.ID, true)
	require.Error(t, err)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	assert.Equal(t, "admin accounts cannot be banned", apperr.MessageOf(err))
}

func TestSetBannedMissingUser(t *testing.T) {
	svc, _ := setupAdminService(t)

	_, err := svc.SetBanned(9999, true)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCreateAdmin(t *testing.T) {
	svc, db := setupAdminService(t)

	admin, err := svc.CreateAdmin(&CreateAdminRequest{
		Email:    "Backoffice@Example.com",
		Password: "secret123",
		Name:     "Back Office",
	})
	require.NoError(t, err)
	assert.Equal(t, "backoffice@example.com", admin.Email)
	assert.True(t, admin.IsAdmin)
	assert.Empty(t, admin.Password)

	var stored User
	require.NoError(t, db.First(&stored, admin.ID).Error)
	assert.NotEmpty(t, stored.Password)
	assert.NotEqual(t, "secret123", stored.Password)
}

func TestCreateAdminDuplicateEmail(t *testing.T) {
	svc, db := setupAdminService(t)

	existing := User{Email: "taken@example.com", Password: "hash", Name: "Taken"}
	require.NoError(t, db.Create(&existing).Error)

	_, err := svc.CreateAdmin(&CreateAdminRequest{
		Email:    "taken@example.com",
		Password: "secret123",
		Name:     "Dup",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))
}

func TestGetUsersSearchAndFilters(t *testing.T) {
	svc, db := setupAdminService(t)

	users := []User{
		{Email: "amit@example.com", Password: "hash", Name: "Amit Verma"},
		{Email: "priya@example.com", Password: "hash", Name: "Priya Singh", IsBanned: true},
		{Email: "staff@example.com", Password: "hash", Name: "Staff", IsAdmin: true},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}

	resp, err := svc.GetUsers(&UserListRequest{Search: "priya"})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Total)
	assert.Equal(t, "priya@example.com", resp.Users[0].Email)

	banned := true
	resp, err = svc.GetUsers(&UserListRequest{IsBanned: &banned})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)

	isAdmin := true
	resp, err = svc.GetUsers(&UserListRequest{IsAdmin: &isAdmin})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Total)
	assert.Equal(t, "staff@example.com", resp.Users[0].Email)
}

func TestGetUsersPagination(t *testing.T) {
	svc, db := setupAdminService(t)

	for i := 0; i < 5; i++ {
		u := User{Email: fmt.Sprintf("user%d@example.com", i), Password: "hash", Name: fmt.Sprintf("User %d", i)}
		require.NoError(t, db.Create(&u).Error)
	}

	resp, err := svc.GetUsers(&UserListRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Total)
	assert.Equal(t, 2, resp.Page)
	assert.Len(t, resp.Users, 2)
	assert.Equal(t, 3, resp.TotalPages)

	resp, err = svc.GetUsers(&UserListRequest{Page: -1, Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 20, resp.Limit)
}
