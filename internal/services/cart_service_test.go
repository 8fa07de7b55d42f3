package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopware-backend/internal/models"
)

func TestGetCartCreatesLazily(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)

	cart, err := NewCartService(db).GetCart(userID)
	require.NoError(t, err)
	assert.Equal(t, userID, cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.TotalAmount)

	// second read returns the same cart
	again, err := NewCartService(db).GetCart(userID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestAddItemFreezesDiscountedPrice(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 200, discount: 25, stock: 10})

	cart, err := NewCartService(db).AddItem(userID, &models.CartItemAddition{
		ProductID: productID, Quantity: 2, Size: "M", Color: "Black",
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 150.0, cart.Items[0].Price)
	assert.Equal(t, 300.0, cart.TotalAmount)
}

func TestAddItemUnknownVariant(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 10})

	cartService := NewCartService(db)

	_, err := cartService.AddItem(userID, &models.CartItemAddition{
		ProductID: productID, Quantity: 1, Size: "XXL", Color: "Black",
	})
	require.Error(t, err)
	assert.Equal(t, 404, StatusOf(err))

	_, err = cartService.AddItem(userID, &models.CartItemAddition{
		ProductID: productID, Quantity: 1, Size: "M", Color: "Neon",
	})
	require.Error(t, err)
	assert.Equal(t, 404, StatusOf(err))
}

func TestAddItemInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 2})

	_, err := NewCartService(db).AddItem(userID, &models.CartItemAddition{
		ProductID: productID, Quantity: 3, Size: "M", Color: "Black",
	})
	require.Error(t, err)
	assert.Equal(t, 409, StatusOf(err))
}

func TestAddItemDuplicateVariant(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 10})

	cartService := NewCartService(db)
	addCartLine(t, db, userID, productID, 1, "M")

	_, err := cartService.AddItem(userID, &models.CartItemAddition{
		ProductID: productID, Quantity: 1, Size: "M", Color: "Black",
	})
	require.Error(t, err)
	assert.Equal(t, 409, StatusOf(err))

	// same product in a different size is a distinct line
	cart, err := cartService.AddItem(userID, &models.CartItemAddition{
		ProductID: productID, Quantity: 1, Size: "L", Color: "Black",
	})
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestUpdateQuantityIncrementChecksStock(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 2})

	cartService := NewCartService(db)
	addCartLine(t, db, userID, productID, 2, "M")

	_, err := cartService.UpdateQuantity(userID, &models.QuantityUpdate{
		ProductID: productID, Size: "M", Color: "Black",
		Direction: models.QuantityIncrement,
	})
	require.Error(t, err)
	assert.Equal(t, 409, StatusOf(err))
}

func TestUpdateQuantityDecrementFloorsAtOne(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 10})

	cartService := NewCartService(db)
	addCartLine(t, db, userID, productID, 1, "M")

	cart, err := cartService.UpdateQuantity(userID, &models.QuantityUpdate{
		ProductID: productID, Size: "M", Color: "Black",
		Direction: models.QuantityDecrement,
	})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Quantity)
}

func TestUpdateQuantityRecomputesTotal(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 10})

	cartService := NewCartService(db)
	addCartLine(t, db, userID, productID, 1, "M")

	cart, err := cartService.UpdateQuantity(userID, &models.QuantityUpdate{
		ProductID: productID, Size: "M", Color: "Black",
		Direction: models.QuantityIncrement,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)
	assert.Equal(t, 100.0, cart.TotalAmount)
}

func TestRemoveItemAndClear(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 10})

	cartService := NewCartService(db)
	addCartLine(t, db, userID, productID, 1, "S")
	addCartLine(t, db, userID, productID, 1, "M")

	cart, err := cartService.RemoveItem(userID, productID, "S", "Black")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)
	assert.Equal(t, 50.0, cart.TotalAmount)

	_, err = cartService.RemoveItem(userID, productID, "S", "Black")
	require.Error(t, err)
	assert.Equal(t, 404, StatusOf(err))

	cart, err = cartService.Clear(userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.TotalAmount)
}

func TestGetCartRefreshesPricing(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 100, stock: 10})

	cartService := NewCartService(db)
	addCartLine(t, db, userID, productID, 2, "M")

	// discount applied after the line was added
	_, err := db.Exec(`UPDATE products SET discount = 50, is_on_sale = TRUE WHERE id = ?`, productID)
	require.NoError(t, err)

	cart, err := cartService.GetCart(userID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 50.0, cart.Items[0].Price)
	assert.Equal(t, 100.0, cart.TotalAmount)

	// discount removed again
	_, err = db.Exec(`UPDATE products SET discount = 0, is_on_sale = FALSE WHERE id = ?`, productID)
	require.NoError(t, err)

	cart, err = cartService.GetCart(userID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, cart.Items[0].Price)
	assert.Equal(t, 200.0, cart.TotalAmount)
}

func TestBlockedUserCannotMutateCart(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "blocked", true)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 10})

	cartService := NewCartService(db)

	_, err := cartService.AddItem(userID, &models.CartItemAddition{
		ProductID: productID, Quantity: 1, Size: "M", Color: "Black",
	})
	require.Error(t, err)
	assert.Equal(t, 403, StatusOf(err))

	_, err = cartService.Clear(userID)
	require.Error(t, err)
	assert.Equal(t, 403, StatusOf(err))
}
