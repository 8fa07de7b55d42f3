package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopware-backend/internal/models"
)

func TestCreateProductDerivesSaleFlag(t *testing.T) {
	db := setupTestDB(t)
	adminService := NewAdminService(db)

	product, err := adminService.CreateProduct(&models.ProductCreation{
		Name:        "Hoodie",
		Description: "warm hoodie",
		Image:       "hoodie.jpg",
		Price:       80,
		Discount:    20,
		Stock:       15,
		Category:    "hoodies",
		Colors:      []models.Color{{Name: "Black", HexCode: "#000000"}},
		Sizes:       []string{"M", "L"},
	})
	require.NoError(t, err)
	assert.True(t, product.IsOnSale)
	assert.Equal(t, 0.0, product.Rating)
	assert.Equal(t, 0, product.RatingCount)

	// category was created on first use and is reused afterwards
	second, err := adminService.CreateProduct(&models.ProductCreation{
		Name:        "Zip Hoodie",
		Description: "zip hoodie",
		Image:       "zip.jpg",
		Price:       90,
		Stock:       5,
		Category:    "hoodies",
		Colors:      []models.Color{{Name: "Black", HexCode: "#000000"}},
		Sizes:       []string{"M"},
	})
	require.NoError(t, err)
	assert.Equal(t, product.CategoryID, second.CategoryID)
	assert.False(t, second.IsOnSale)

	_, err = adminService.CreateProduct(&models.ProductCreation{
		Name:        "Hoodie",
		Description: "dup",
		Image:       "dup.jpg",
		Price:       1,
		Stock:       1,
		Category:    "hoodies",
		Colors:      []models.Color{{Name: "Black", HexCode: "#000000"}},
		Sizes:       []string{"M"},
	})
	require.Error(t, err)
	assert.Equal(t, 409, StatusOf(err))
}

func TestUpdateDiscountDerivesSaleFlag(t *testing.T) {
	db := setupTestDB(t)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 5})
	adminService := NewAdminService(db)

	require.NoError(t, adminService.UpdateDiscount(productID, 30))
	var discount float64
	var onSale bool
	require.NoError(t, db.QueryRow(`SELECT discount, is_on_sale FROM products WHERE id = ?`, productID).
		Scan(&discount, &onSale))
	assert.Equal(t, 30.0, discount)
	assert.True(t, onSale)

	require.NoError(t, adminService.UpdateDiscount(productID, 0))
	require.NoError(t, db.QueryRow(`SELECT discount, is_on_sale FROM products WHERE id = ?`, productID).
		Scan(&discount, &onSale))
	assert.False(t, onSale)

	err := adminService.UpdateDiscount(productID, 150)
	require.Error(t, err)
	assert.Equal(t, 400, StatusOf(err))
}

func TestToggleBestSeller(t *testing.T) {
	db := setupTestDB(t)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 5})
	adminService := NewAdminService(db)

	flagged, err := adminService.ToggleBestSeller(productID)
	require.NoError(t, err)
	assert.True(t, flagged)

	flagged, err = adminService.ToggleBestSeller(productID)
	require.NoError(t, err)
	assert.False(t, flagged)

	_, err = adminService.ToggleBestSeller("missing")
	require.Error(t, err)
	assert.Equal(t, 404, StatusOf(err))
}

func TestSetUserBlocked(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "target", false)
	adminService := NewAdminService(db)

	require.NoError(t, adminService.SetUserBlocked(userID, true))
	err := requireNotBlocked(db, userID)
	require.Error(t, err)
	assert.Equal(t, 403, StatusOf(err))

	require.NoError(t, adminService.SetUserBlocked(userID, false))
	assert.NoError(t, requireNotBlocked(db, userID))

	err = adminService.SetUserBlocked("missing", true)
	require.Error(t, err)
	assert.Equal(t, 404, StatusOf(err))
}

func TestDashboardRevenueExcludesCancelled(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 100, stock: 10})

	addCartLine(t, db, userID, productID, 2, "M")
	placeTestOrder(t, db, userID)

	addCartLine(t, db, userID, productID, 1, "M")
	cancelledOrder := placeTestOrder(t, db, userID)
	_, err := NewOrderService(db, nil).CancelOrder(userID, cancelledOrder.ID, false)
	require.NoError(t, err)

	stats, err := NewAdminService(db).GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalUsers)
	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 200.0, stats.TotalRevenue)
	assert.Equal(t, 1, stats.PendingOrders)
}

func TestSalesAnalyticsCoversTwelveMonths(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 100, stock: 10})

	addCartLine(t, db, userID, productID, 1, "M")
	placeTestOrder(t, db, userID)

	series, err := NewAdminService(db).GetSalesAnalytics()
	require.NoError(t, err)
	require.Len(t, series, 12)

	current := series[11]
	assert.Equal(t, 1, current.Orders)
	assert.Equal(t, 100.0, current.Revenue)

	// earlier months are zero-filled
	assert.Zero(t, series[0].Orders)
}

func TestTopProductsOrderedBySold(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	popular := createTestProduct(t, db, categoryID, testProduct{name: "Popular", price: 10, stock: 100})
	niche := createTestProduct(t, db, categoryID, testProduct{name: "Niche", price: 10, stock: 100})

	addCartLine(t, db, userID, popular, 5, "M")
	addCartLine(t, db, userID, niche, 1, "M")
	placeTestOrder(t, db, userID)

	top, err := NewAdminService(db).GetTopProducts(10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Popular", top[0].Name)
	assert.Equal(t, 5, top[0].TotalSold)
}
