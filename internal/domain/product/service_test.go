package product

import (
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/jaipurgadget/ecommerce-backend/internal/config"
	"github.com/jaipurgadget/ecommerce-backend/internal/domain/inventory"
	"github.com/jaipurgadget/ecommerce-backend/internal/pkg/apperr"
)

func setupProductDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&Category{}, &Product{}, &ProductImage{}, &ProductReview{},
		&inventory.StockMovement{},
	))
	return db
}

func setupProductService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db := setupProductDB(t)
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{
		Store: config.StoreConfig{UploadPath: t.TempDir()},
	}
	return NewService(db, cfg, log), db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) *Category {
	t.Helper()

	cat := Category{Name: name, Slug: name, IsActive: true}
	require.NoError(t, db.Create(&cat).Error)
	return &cat
}

func TestCreateProduct(t *testing.T) {
	svc, _ := setupProductService(t)
	cat := seedCategory(t, svc.db, "phones")

	prod, err := svc.CreateProduct(&ProductCreateRequest{
		Name:       "Pixel 9 Pro",
		Price:      7999900,
		CategoryID: cat.ID,
		Brand:      "Google",
		Stock:      12,
		Images:     []string{"/uploads/pixel-front.jpg", "/uploads/pixel-back.jpg"},
	})
	require.NoError(t, err)
	assert.Contains(t, prod.Slug, "pixel-9-pro-")
	assert.True(t, prod.IsActive)
	require.Len(t, prod.Images, 2)
	assert.True(t, prod.Images[0].IsPrimary)
	assert.False(t, prod.Images[1].IsPrimary)
	assert.Equal(t, "phones", prod.Category.Name)
}

func TestCreateProductMissingCategory(t *testing.T) {
	svc, _ := setupProductService(t)

	_, err := svc.CreateProduct(&ProductCreateRequest{
		Name:       "Orphan",
		Price:      100,
		CategoryID: 9999,
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestUpdateProductStockWritesLedger(t *testing.T) {
	svc, db := setupProductService(t)
	cat := seedCategory(t, db, "laptops")

	prod, err := svc.CreateProduct(&ProductCreateRequest{
		Name:       "ThinkPad X1",
		Price:      12999900,
		CategoryID: cat.ID,
		Stock:      5,
	})
	require.NoError(t, err)

	newStock := 20
	updated, err := svc.UpdateProduct(prod.ID, &ProductUpdateRequest{Stock: &newStock})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Stock)

	var movements []inventory.StockMovement
	require.NoError(t, db.Where("product_id = ?", prod.ID).Find(&movements).Error)
	require.Len(t, movements, 1)
	assert.Equal(t, inventory.MovementTypeInbound, movements[0].Type)
	assert.Equal(t, inventory.ReasonRestock, movements[0].Reason)
	assert.Equal(t, 15, movements[0].Quantity)

	lower := 8
	_, err = svc.UpdateProduct(prod.ID, &ProductUpdateRequest{Stock: &lower})
	require.NoError(t, err)

	require.NoError(t, db.Where("product_id = ?", prod.ID).Order("id").Find(&movements).Error)
	require.Len(t, movements, 2)
	assert.Equal(t, inventory.MovementTypeOutbound, movements[1].Type)
	assert.Equal(t, inventory.ReasonAdjustment, movements[1].Reason)
	assert.Equal(t, 12, movements[1].Quantity)
}

func TestUpdateProductUnchangedStockSkipsLedger(t *testing.T) {
	svc, db := setupProductService(t)
	cat := seedCategory(t, db, "audio")

	prod, err := svc.CreateProduct(&ProductCreateRequest{
		Name:       "WH-1000XM5",
		Price:      2999900,
		CategoryID: cat.ID,
		Stock:      7,
	})
	require.NoError(t, err)

	same := 7
	_, err = svc.UpdateProduct(prod.ID, &ProductUpdateRequest{Stock: &same})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&inventory.StockMovement{}).Where("product_id = ?", prod.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestUpdateProductNegativeValues(t *testing.T) {
	svc, db := setupProductService(t)
	cat := seedCategory(t, db, "wearables")

	prod, err := svc.CreateProduct(&ProductCreateRequest{
		Name:       "Watch",
		Price:      500000,
		CategoryID: cat.ID,
	})
	require.NoError(t, err)

	badPrice := int64(-1)
	_, err = svc.UpdateProduct(prod.ID, &ProductUpdateRequest{Price: &badPrice})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	badStock := -5
	_, err = svc.UpdateProduct(prod.ID, &ProductUpdateRequest{Stock: &badStock})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestGetProductsFilters(t *testing.T) {
	svc, db := setupProductService(t)
	phones := seedCategory(t, db, "phones")
	laptops := seedCategory(t, db, "laptops")

	seed := []Product{
		{Name: "iPhone 16", Slug: "iphone-16", Price: 7999900, CategoryID: phones.ID, Brand: "Apple", IsActive: true},
		{Name: "Galaxy S25", Slug: "galaxy-s25", Price: 6999900, CategoryID: phones.ID, Brand: "Samsung", IsActive: true},
		{Name: "MacBook Air", Slug: "macbook-air", Price: 9999900, CategoryID: laptops.ID, Brand: "Apple", IsActive: false},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	resp, err := svc.GetProducts(&ProductListRequest{Page: 1, Limit: 20, CategoryID: phones.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Pagination.Total)

	resp, err = svc.GetProducts(&ProductListRequest{Page: 1, Limit: 20, Brand: "apple"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Pagination.Total)

	resp, err = svc.GetProducts(&ProductListRequest{Page: 1, Limit: 20, Search: "galaxy"})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Pagination.Total)
	assert.Equal(t, "Galaxy S25", resp.Products[0].Name)

	active := true
	resp, err = svc.GetProducts(&ProductListRequest{Page: 1, Limit: 20, IsActive: &active, MaxPrice: 7000000})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Pagination.Total)
}

func TestGetProductsPagination(t *testing.T) {
	svc, db := setupProductService(t)
	cat := seedCategory(t, db, "accessories")

	for i := 0; i < 5; i++ {
		p := Product{
			Name:       fmt.Sprintf("Cable %d", i),
			Slug:       fmt.Sprintf("cable-%d", i),
			Price:      int64(10000 + i),
			CategoryID: cat.ID,
			IsActive:   true,
		}
		require.NoError(t, db.Create(&p).Error)
	}

	resp, err := svc.GetProducts(&ProductListRequest{Page: 2, Limit: 2, SortBy: "price", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)
	require.Len(t, resp.Products, 2)
	assert.Equal(t, "Cable 2", resp.Products[0].Name)
}

func TestDeleteProductSoftDeletes(t *testing.T) {
	svc, db := setupProductService(t)
	cat := seedCategory(t, db, "tablets")

	prod, err := svc.CreateProduct(&ProductCreateRequest{
		Name:       "iPad",
		Price:      4999900,
		CategoryID: cat.ID,
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(prod.ID))

	_, err = svc.GetProduct(prod.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	var count int64
	require.NoError(t, db.Unscoped().Model(&Product{}).Where("id = ?", prod.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
