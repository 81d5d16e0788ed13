package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

func seedAddressUser(t *testing.T, db *gorm.DB, email string) uint {
	t.Helper()

	u := User{Email: email, Password: "hash", Name: "Address Owner"}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func addressRequest(city string) *AddressRequest {
	return &AddressRequest{
		FullName:     "Ravi Sharma",
		Phone:        "9876543210",
		AddressLine1: "12 MI Road",
		City:         city,
		State:        "Rajasthan",
		PostalCode:   "302001",
	}
}

func TestCreateAddressFirstBecomesDefault(t *testing.T) {
	db := setupUserDB(t)
	svc := NewAddressService(db)
	userID := seedAddressUser(t, db, "addr1@example.com")

	first, err := svc.CreateAddress(userID, addressRequest("Jaipur"))
	require.NoError(t, err)
	assert.True(t, first.IsDefault)
	assert.Equal(t, "India", first.Country)

	second, err := svc.CreateAddress(userID, addressRequest("Jodhpur"))
	require.NoError(t, err)
	assert.False(t, second.IsDefault)
}

func TestCreateAddressNewDefaultClearsOld(t *testing.T) {
	db := setupUserDB(t)
	svc := NewAddressService(db)
	userID := seedAddressUser(t, db, "addr2@example.com")

	first, err := svc.CreateAddress(userID, addressRequest("Jaipur"))
	require.NoError(t, err)

	req := addressRequest("Udaipur")
	req.IsDefault = true
	second, err := svc.CreateAddress(userID, req)
	require.NoError(t, err)
	assert.True(t, second.IsDefault)

	var reloaded Address
	require.NoError(t, db.First(&reloaded, first.ID).Error)
	assert.False(t, reloaded.IsDefault)
}

func TestUpdateAddressDefaultSwitch(t *testing.T) {
	db := setupUserDB(t)
	svc := NewAddressService(db)
	userID := seedAddressUser(t, db, "addr3@example.com")

	first, err := svc.CreateAddress(userID, addressRequest("Jaipur"))
	require.NoError(t, err)
	second, err := svc.CreateAddress(userID, addressRequest("Kota"))
	require.NoError(t, err)

	req := addressRequest("Kota")
	req.IsDefault = true
	_, err = svc.UpdateAddress(userID, second.ID, req)
	require.NoError(t, err)

	var reloaded Address
	require.NoError(t, db.First(&reloaded, first.ID).Error)
	assert.False(t, reloaded.IsDefault)

	require.NoError(t, db.First(&reloaded, second.ID).Error)
	assert.True(t, reloaded.IsDefault)
}

func TestAddressesScopedToOwner(t *testing.T) {
	db := setupUserDB(t)
	svc := NewAddressService(db)
	owner := seedAddressUser(t, db, "owner@example.com")
	other := seedAddressUser(t, db, "other@example.com")

	addr, err := svc.CreateAddress(owner, addressRequest("Jaipur"))
	require.NoError(t, err)

	_, err = svc.GetAddress(other, addr.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.UpdateAddress(other, addr.ID, addressRequest("Ajmer"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	err = svc.DeleteAddress(other, addr.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteAddress(t *testing.T) {
	db := setupUserDB(t)
	svc := NewAddressService(db)
	userID := seedAddressUser(t, db, "del@example.com")

	addr, err := svc.CreateAddress(userID, addressRequest("Jaipur"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAddress(userID, addr.ID))

	err = svc.DeleteAddress(userID, addr.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetAddressesDefaultFirst(t *testing.T) {
	db := setupUserDB(t)
	svc := NewAddressService(db)
	userID := seedAddressUser(t, db, "list@example.com")

	_, err := svc.CreateAddress(userID, addressRequest("Jaipur"))
	require.NoError(t, err)
	req := addressRequest("Bikaner")
	req.IsDefault = true
	def, err := svc.CreateAddress(userID, req)
	require.NoError(t, err)

	addresses, err := svc.GetAddresses(userID)
	require.NoError(t, err)
	require.Len(t, addresses, 2)
	assert.Equal(t, def.ID, addresses[0].ID)
}
