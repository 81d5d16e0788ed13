// internal/domain/order/service_test.go
package order

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
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/inventory"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/product"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/user"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

const testCODFee = int64(15000)

func setupOrderService(t *testing.T) (*Service, *cart.Service, *gorm.DB) {
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
		&Order{}, &OrderItem{}, &OrderStatusHistory{},
		&inventory.StockMovement{},
	))

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	cfg := &config.Config{}
	cfg.Store.Currency = "INR"
	cfg.Store.CODShippingFee = testCODFee
	cfg.Store.GuestCartTTL = 24 * time.Hour

	cartService := cart.NewService(db, redisClient, cfg)
	return NewService(db, cfg, cartService, nil), cartService, db
}

func seedCustomer(t *testing.T, db *gorm.DB) *user.User {
	t.Helper()
	usr := user.User{Email: "customer@example.com", Password: "x", Name: "Test Customer"}
	require.NoError(t, db.Create(&usr).Error)
	return &usr
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) *product.Product {
	t.Helper()
	category := product.Category{Name: name + " category", Slug: name + "-category", IsActive: true}
	require.NoError(t, db.Create(&category).Error)
	prod := product.Product{
		Name: name, Slug: name, Price: price, CategoryID: category.ID,
		Stock: stock, IsActive: true,
	}
	require.NoError(t, db.Create(&prod).Error)
	return &prod
}

func testAddress() Address {
	return Address{
		FullName:     "Test Customer",
		Phone:        "9999999999",
		AddressLine1: "12 MI Road",
		City:         "Jaipur",
		State:        "Rajasthan",
		PostalCode:   "302001",
		Country:      "India",
	}
}

func TestCreateOrderCOD(t *testing.T) {
	svc, cartService, db := setupOrderService(t)
	usr := seedCustomer(t, db)
	prod := seedProduct(t, db, "phone", 1999900, 10)

	_, err := cartService.AddToCart(&usr.ID, "", &cart.AddToCartRequest{ProductID: prod.ID, Quantity: 2})
	require.NoError(t, err)

	ord, err := svc.CreateOrder(usr.ID, "", &CreateOrderRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   PaymentMethodCOD,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(3999800), ord.ItemsTotal)
	assert.Equal(t, testCODFee, ord.ShippingPrice)
	assert.Equal(t, int64(3999800)+testCODFee, ord.TotalPrice)
	assert.False(t, ord.IsPaid)
	assert.Nil(t, ord.PaidAt)
	assert.Equal(t, OrderStatusPending, ord.Status)
	assert.NotEmpty(t, ord.OrderNumber)
	require.Len(t, ord.Items, 1)
	assert.Equal(t, prod.Name, ord.Items[0].Name)

	// Stock was decremented and the sale hit the counters.
	var updated product.Product
	require.NoError(t, db.First(&updated, prod.ID).Error)
	assert.Equal(t, 8, updated.Stock)
	assert.Equal(t, 2, updated.SalesCount)

	// Cart is cleared.
	resp, err := cartService.GetCart(&usr.ID, "")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	// Lifetime counters advance.
	var reloaded user.User
	require.NoError(t, db.First(&reloaded, usr.ID).Error)
	assert.Equal(t, 1, reloaded.TotalOrders)
	assert.Equal(t, ord.TotalPrice, reloaded.TotalSpent)

	// The sale is in the stock ledger.
	var movements []inventory.StockMovement
	require.NoError(t, db.Where("product_id = ?", prod.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, inventory.MovementTypeOutbound, movements[0].Type)
	assert.Equal(t, inventory.ReasonSale, movements[0].Reason)
	assert.Equal(t, 2, movements[0].Quantity)
	assert.Equal(t, ord.ID, movements[0].ReferenceID)
}

func TestCreateOrderUPIPaidAtCreation(t *testing.T) {
	svc, cartService, db := setupOrderService(t)
	usr := seedCustomer(t, db)
	prod := seedProduct(t, db, "buds", 299900, 10)

	_, err := cartService.AddToCart(&usr.ID, "", &cart.AddToCartRequest{ProductID: prod.ID, Quantity: 1})
	require.NoError(t, err)

	ord, err := svc.CreateOrder(usr.ID, "", &CreateOrderRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   PaymentMethodUPI,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(0), ord.ShippingPrice)
	assert.Equal(t, int64(299900), ord.TotalPrice)
	assert.True(t, ord.IsPaid)
	require.NotNil(t, ord.PaidAt)
}

func TestCreateOrderPricesItemsAtCheckout(t *testing.T) {
	svc, cartService, db := setupOrderService(t)
	usr := seedCustomer(t, db)
	prod := seedProduct(t, db, "speaker", 100000, 10)

	_, err := cartService.AddToCart(&usr.ID, "", &cart.AddToCartRequest{ProductID: prod.ID, Quantity: 1})
	require.NoError(t, err)

	// Admin reprice between add-to-cart and checkout.
	require.NoError(t, db.Model(&product.Product{}).Where("id = ?", prod.ID).Update("price", 120000).Error)

	ord, err := svc.CreateOrder(usr.ID, "", &CreateOrderRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   PaymentMethodUPI,
	})
	require.NoError(t, err)

	require.Len(t, ord.Items, 1)
	assert.Equal(t, int64(120000), ord.Items[0].Price)
	assert.Equal(t, int64(120000), ord.Items[0].TotalPrice)
	assert.Equal(t, int64(120000), ord.ItemsTotal)
	assert.Equal(t, int64(120000), ord.TotalPrice)

	var reloaded user.User
	require.NoError(t, db.First(&reloaded, usr.ID).Error)
	assert.Equal(t, int64(120000), reloaded.TotalSpent)
}

func TestCreateOrderEmptyCart(t *testing.T) {
	svc, _, db := setupOrderService(t)
	usr := seedCustomer(t, db)

	_, err := svc.CreateOrder(usr.ID, "", &CreateOrderRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   PaymentMethodCOD,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateOrderInsufficientStockRollsBack(t *testing.T) {
	svc, cartService, db := setupOrderService(t)
	usr := seedCustomer(t, db)
	phone := seedProduct(t, db, "phone", 1999900, 10)
	buds := seedProduct(t, db, "buds", 299900, 5)

	_, err := cartService.AddToCart(&usr.ID, "", &cart.AddToCartRequest{ProductID: phone.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = cartService.AddToCart(&usr.ID, "", &cart.AddToCartRequest{ProductID: buds.ID, Quantity: 5})
	require.NoError(t, err)

	// Stock sold out between add-to-cart and checkout.
	require.NoError(t, db.Model(&product.Product{}).Where("id = ?", buds.ID).Update("stock", 1).Error)

	_, err = svc.CreateOrder(usr.ID, "", &CreateOrderRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   PaymentMethodCOD,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))

	// The first item's decrement was rolled back.
	var reloadedPhone product.Product
	require.NoError(t, db.First(&reloadedPhone, phone.ID).Error)
	assert.Equal(t, 10, reloadedPhone.Stock)

	// No order row, no ledger entries, cart untouched.
	var orderCount int64
	require.NoError(t, db.Model(&Order{}).Count(&orderCount).Error)
	assert.Equal(t, int64(0), orderCount)

	var movementCount int64
	require.NoError(t, db.Model(&inventory.StockMovement{}).Count(&movementCount).Error)
	assert.Equal(t, int64(0), movementCount)

	resp, err := cartService.GetCart(&usr.ID, "")
	require.NoError(t, err)
	assert.Len(t, resp.Items, 2)
}

func TestCreateOrderDiscountValidation(t *testing.T) {
	svc, cartService, db := setupOrderService(t)
	usr := seedCustomer(t, db)
	prod := seedProduct(t, db, "cable", 49900, 10)

	_, err := cartService.AddToCart(&usr.ID, "", &cart.AddToCartRequest{ProductID: prod.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.CreateOrder(usr.ID, "", &CreateOrderRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   PaymentMethodUPI,
		DiscountAmount:  100000,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUpdateOrderStatus(t *testing.T) {
	svc, cartService, db := setupOrderService(t)
	usr := seedCustomer(t, db)
	prod := seedProduct(t, db, "watch", 899900, 10)

	_, err := cartService.AddToCart(&usr.ID, "", &cart.AddToCartRequest{ProductID: prod.ID, Quantity: 1})
	require.NoError(t, err)

	ord, err := svc.CreateOrder(usr.ID, "", &CreateOrderRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   PaymentMethodCOD,
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateOrderStatus(ord.ID, OrderStatusShipped, "handed to courier", 99))
	require.NoError(t, svc.UpdateOrderStatus(ord.ID, OrderStatusDelivered, "", 99))

	reloaded, err := svc.GetOrder(ord.ID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusDelivered, reloaded.Status)
	assert.True(t, reloaded.IsDelivered)
	require.NotNil(t, reloaded.DeliveredAt)
	// Creation plus two updates.
	assert.Len(t, reloaded.StatusHistory, 3)
}

func TestUpdateOrderStatusInvalid(t *testing.T) {
	svc, _, _ := setupOrderService(t)

	err := svc.UpdateOrderStatus(1, OrderStatus("misplaced"), "", 1)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestGetUserOrdersScoped(t *testing.T) {
	svc, cartService, db := setupOrderService(t)
	usr := seedCustomer(t, db)
	other := user.User{Email: "other@example.com", Password: "x", Name: "Other"}
	require.NoError(t, db.Create(&other).Error)
	prod := seedProduct(t, db, "tripod", 119900, 10)

	_, err := cartService.AddToCart(&usr.ID, "", &cart.AddToCartRequest{ProductID: prod.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.CreateOrder(usr.ID, "", &CreateOrderRequest{
		ShippingAddress: testAddress(),
		PaymentMethod:   PaymentMethodCOD,
	})
	require.NoError(t, err)

	mine, err := svc.GetUserOrders(usr.ID, 1, 20)
	require.NoError(t, err)
	assert.Len(t, mine.Orders, 1)

	theirs, err := svc.GetUserOrders(other.ID, 1, 20)
	require.NoError(t, err)
	assert.Empty(t, theirs.Orders)
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	number := GenerateOrderNumber(42)
	assert.Contains(t, number, "ORD-")
	assert.Contains(t, number, "00042")
}
