// internal/domain/enquiry/service_test.go
package enquiry

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/cart"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/order"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/product"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/user"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

func setupEnquiryService(t *testing.T) (*Service, *cart.Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&user.User{},
		&product.Category{}, &product.Product{}, &product.ProductImage{},
		&cart.CartItem{},
		&Enquiry{}, &EnquiryItem{}, &EnquiryStatusHistory{},
	))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{}
	cfg.Store.Currency = "INR"
	cfg.Store.GuestCartTTL = 24 * time.Hour

	cartService := cart.NewService(db, redisClient, cfg)
	return NewService(db, cfg, cartService, nil), cartService, db
}

func seedEnquiryFixtures(t *testing.T, db *gorm.DB) (*user.User, *product.Product) {
	t.Helper()

	usr := user.User{Email: "faraway@example.com", Password: "x", Name: "Faraway Customer", Phone: "8888888888"}
	require.NoError(t, db.Create(&usr).Error)

	category := product.Category{Name: "Laptops", Slug: "laptops", IsActive: true}
	require.NoError(t, db.Create(&category).Error)

	prod := product.Product{
		Name: "ultrabook", Slug: "ultrabook", Price: 7499900,
		CategoryID: category.ID, Stock: 4, IsActive: true,
	}
	require.NoError(t, db.Create(&prod).Error)

	return &usr, &prod
}

func enquiryAddress() order.Address {
	return order.Address{
		FullName:     "Faraway Customer",
		Phone:        "8888888888",
		AddressLine1: "4 Marine Drive",
		City:         "Mumbai",
		State:        "Maharashtra",
		PostalCode:   "400001",
		Country:      "India",
	}
}

func TestCreateEnquirySnapshotsCartWithoutTouchingStock(t *testing.T) {
	svc, cartService, db := setupEnquiryService(t)
	usr, prod := seedEnquiryFixtures(t, db)

	_, err := cartService.AddToCart(&usr.ID, "", &cart.AddToCartRequest{ProductID: prod.ID, Quantity: 2})
	require.NoError(t, err)

	enq, err := svc.CreateEnquiry(usr.ID, "", &CreateEnquiryRequest{
		ShippingAddress: enquiryAddress(),
	})
	require.NoError(t, err)

	assert.Equal(t, EnquiryStatusPending, enq.Status)
	assert.Equal(t, int64(2*7499900), enq.ItemsTotal)
	require.Len(t, enq.Items, 1)
	assert.Equal(t, prod.Name, enq.Items[0].Name)
	assert.Equal(t, 2, enq.Items[0].Quantity)

	// Contact defaults fall back to the address and user record.
	assert.Equal(t, "Faraway Customer", enq.CustomerName)
	assert.Equal(t, "8888888888", enq.CustomerPhone)
	assert.Equal(t, usr.Email, enq.CustomerEmail)

	// An enquiry never mutates stock or order counters.
	var reloaded product.Product
	require.NoError(t, db.First(&reloaded, prod.ID).Error)
	assert.Equal(t, 4, reloaded.Stock)
	assert.Equal(t, 0, reloaded.SalesCount)

	var reloadedUser user.User
	require.NoError(t, db.First(&reloadedUser, usr.ID).Error)
	assert.Equal(t, 0, reloadedUser.TotalOrders)

	// The cart is cleared like a checkout.
	resp, err := cartService.GetCart(&usr.ID, "")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestCreateEnquiryPricesItemsAtSnapshot(t *testing.T) {
	svc, cartService, db := setupEnquiryService(t)
	usr, prod := seedEnquiryFixtures(t, db)

	_, err := cartService.AddToCart(&usr.ID, "", &cart.AddToCartRequest{ProductID: prod.ID, Quantity: 2})
	require.NoError(t, err)

	// Admin reprice between add-to-cart and the enquiry.
	require.NoError(t, db.Model(&product.Product{}).Where("id = ?", prod.ID).Update("price", 6999900).Error)

	enq, err := svc.CreateEnquiry(usr.ID, "", &CreateEnquiryRequest{
		ShippingAddress: enquiryAddress(),
	})
	require.NoError(t, err)

	require.Len(t, enq.Items, 1)
	assert.Equal(t, int64(6999900), enq.Items[0].Price)
	assert.Equal(t, int64(2*6999900), enq.Items[0].TotalPrice)
	assert.Equal(t, int64(2*6999900), enq.ItemsTotal)
}

func TestCreateEnquiryEmptyCart(t *testing.T) {
	svc, _, db := setupEnquiryService(t)
	usr, _ := seedEnquiryFixtures(t, db)

	_, err := svc.CreateEnquiry(usr.ID, "", &CreateEnquiryRequest{
		ShippingAddress: enquiryAddress(),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateEnquiryExplicitContactWins(t *testing.T) {
	svc, cartService, db := setupEnquiryService(t)
	usr, prod := seedEnquiryFixtures(t, db)

	_, err := cartService.AddToCart(&usr.ID, "", &cart.AddToCartRequest{ProductID: prod.ID, Quantity: 1})
	require.NoError(t, err)

	enq, err := svc.CreateEnquiry(usr.ID, "", &CreateEnquiryRequest{
		ShippingAddress: enquiryAddress(),
		CustomerName:    "Gift Recipient",
		CustomerPhone:   "7777777777",
		CustomerEmail:   "recipient@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "Gift Recipient", enq.CustomerName)
	assert.Equal(t, "7777777777", enq.CustomerPhone)
	assert.Equal(t, "recipient@example.com", enq.CustomerEmail)
}

func TestUpdateEnquiryStatus(t *testing.T) {
	svc, cartService, db := setupEnquiryService(t)
	usr, prod := seedEnquiryFixtures(t, db)

	_, err := cartService.AddToCart(&usr.ID, "", &cart.AddToCartRequest{ProductID: prod.ID, Quantity: 1})
	require.NoError(t, err)

	enq, err := svc.CreateEnquiry(usr.ID, "", &CreateEnquiryRequest{ShippingAddress: enquiryAddress()})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateEnquiryStatus(enq.ID, EnquiryStatusContacted, "called customer", 99))

	reloaded, err := svc.GetEnquiry(enq.ID)
	require.NoError(t, err)
	assert.Equal(t, EnquiryStatusContacted, reloaded.Status)
	assert.Len(t, reloaded.StatusHistory, 2)
}

func TestUpdateEnquiryStatusInvalid(t *testing.T) {
	svc, _, _ := setupEnquiryService(t)

	err := svc.UpdateEnquiryStatus(1, EnquiryStatus("mislaid"), "", 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestGetUserEnquiriesScoped(t *testing.T) {
	svc, cartService, db := setupEnquiryService(t)
	usr, prod := seedEnquiryFixtures(t, db)

	other := user.User{Email: "other@example.com", Password: "x", Name: "Other"}
	require.NoError(t, db.Create(&other).Error)

	_, err := cartService.AddToCart(&usr.ID, "", &cart.AddToCartRequest{ProductID: prod.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.CreateEnquiry(usr.ID, "", &CreateEnquiryRequest{ShippingAddress: enquiryAddress()})
	require.NoError(t, err)

	mine, err := svc.GetUserEnquiries(usr.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, mine.Enquiries, 1)

	theirs, err := svc.GetUserEnquiries(other.ID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, theirs.Enquiries)
}
