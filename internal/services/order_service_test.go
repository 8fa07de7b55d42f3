package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopware-backend/internal/models"
)

func TestPlaceOrderReservesStockAndClearsCart(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 100, discount: 10, stock: 10})

	addCartLine(t, db, userID, productID, 3, "M")
	order := placeTestOrder(t, db, userID)

	assert.Equal(t, models.OrderStatusCreated, order.OrderStatus)
	assert.Len(t, order.Items, 1)
	assert.Equal(t, 90.0, order.Items[0].Price)
	assert.Equal(t, 270.0, order.TotalAmount)

	stock, sold := getStockAndSold(t, db, productID)
	assert.Equal(t, 7, stock)
	assert.Equal(t, 3, sold)

	cart, err := NewCartService(db).GetCart(userID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, 0.0, cart.TotalAmount)
}

func TestPlaceOrderOnlineStartsPaid(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 5})

	addCartLine(t, db, userID, productID, 1, "M")
	order, err := NewOrderService(db, nil).PlaceOrder(userID, &models.OrderCreation{
		ShippingAddress: testAddress(),
		PaymentMethod:   models.PaymentMethodOnline,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.OrderStatus)
}

func TestPlaceOrderAggregatesQuantityAcrossVariantLines(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	// stock 5, two lines of 3 each: individually fine, jointly oversell
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 5})

	addCartLine(t, db, userID, productID, 3, "S")
	addCartLine(t, db, userID, productID, 3, "M")

	_, err := NewOrderService(db, nil).PlaceOrder(userID, &models.OrderCreation{
		ShippingAddress: testAddress(),
		PaymentMethod:   models.PaymentMethodCOD,
	})
	require.Error(t, err)
	assert.Equal(t, 409, StatusOf(err))
}

func TestPlaceOrderIsAtomicOnFailure(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	okProduct := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 10})
	lowProduct := createTestProduct(t, db, categoryID, testProduct{name: "Cap", price: 20, stock: 1})

	addCartLine(t, db, userID, okProduct, 2, "M")
	addCartLine(t, db, userID, lowProduct, 2, "M")

	_, err := NewOrderService(db, nil).PlaceOrder(userID, &models.OrderCreation{
		ShippingAddress: testAddress(),
		PaymentMethod:   models.PaymentMethodCOD,
	})
	require.Error(t, err)
	assert.Equal(t, 409, StatusOf(err))

	// no order row exists
	var orders int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&orders))
	assert.Zero(t, orders)

	// no stock was touched
	stock, sold := getStockAndSold(t, db, okProduct)
	assert.Equal(t, 10, stock)
	assert.Zero(t, sold)

	// cart is unchanged
	cart, err := NewCartService(db).GetCart(userID)
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)

	_, err := NewOrderService(db, nil).PlaceOrder(userID, &models.OrderCreation{
		ShippingAddress: testAddress(),
		PaymentMethod:   models.PaymentMethodCOD,
	})
	require.Error(t, err)
	assert.Equal(t, 400, StatusOf(err))
}

func TestPlaceOrderDefaultAddressMissing(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 5})
	addCartLine(t, db, userID, productID, 1, "M")

	_, err := NewOrderService(db, nil).PlaceOrder(userID, &models.OrderCreation{
		UseDefaultAddress: true,
		PaymentMethod:     models.PaymentMethodCOD,
	})
	require.Error(t, err)
	assert.Equal(t, 404, StatusOf(err))
}

func TestPlaceOrderUsesDefaultAddress(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 5})
	addCartLine(t, db, userID, productID, 1, "M")

	_, err := NewUserService(db).AddAddress(userID, &models.AddressCreation{
		FullName: "Saved Buyer", Phone: "111", Street: "2 Saved St",
		City: "Savetown", State: "SV", Pincode: "999999",
	})
	require.NoError(t, err)

	order, err := NewOrderService(db, nil).PlaceOrder(userID, &models.OrderCreation{
		UseDefaultAddress: true,
		PaymentMethod:     models.PaymentMethodCOD,
	})
	require.NoError(t, err)
	assert.Equal(t, "Saved Buyer", order.ShippingAddress.FullName)
	assert.Equal(t, "Savetown", order.ShippingAddress.City)
}

func TestNoOversellBetweenTwoCarts(t *testing.T) {
	db := setupTestDB(t)
	firstUser := createTestUser(t, db, "first", false)
	secondUser := createTestUser(t, db, "second", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 5})

	addCartLine(t, db, firstUser, productID, 5, "M")
	addCartLine(t, db, secondUser, productID, 1, "M")

	// first placement takes the whole stock
	placeTestOrder(t, db, firstUser)

	// second placement must fail, not oversell
	_, err := NewOrderService(db, nil).PlaceOrder(secondUser, &models.OrderCreation{
		ShippingAddress: testAddress(),
		PaymentMethod:   models.PaymentMethodCOD,
	})
	require.Error(t, err)
	assert.Equal(t, 409, StatusOf(err))

	stock, sold := getStockAndSold(t, db, productID)
	assert.Equal(t, 0, stock)
	assert.Equal(t, 5, sold)
}

func TestOrderImmutableAfterProductChange(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 100, stock: 5})

	addCartLine(t, db, userID, productID, 1, "M")
	order := placeTestOrder(t, db, userID)

	_, err := db.Exec(`UPDATE products SET name = 'Renamed', price = 999 WHERE id = ?`, productID)
	require.NoError(t, err)

	reloaded, err := NewOrderService(db, nil).GetOrder(userID, order.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Tee", reloaded.Items[0].Name)
	assert.Equal(t, 100.0, reloaded.Items[0].Price)
	assert.Equal(t, 100.0, reloaded.TotalAmount)
}

func TestCancelOrderRestoresStock(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 8})

	addCartLine(t, db, userID, productID, 3, "S")
	addCartLine(t, db, userID, productID, 2, "M")
	order := placeTestOrder(t, db, userID)

	stock, sold := getStockAndSold(t, db, productID)
	require.Equal(t, 3, stock)
	require.Equal(t, 5, sold)

	cancelled, err := NewOrderService(db, nil).CancelOrder(userID, order.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.OrderStatus)

	stock, sold = getStockAndSold(t, db, productID)
	assert.Equal(t, 8, stock)
	assert.Equal(t, 0, sold)
}

func TestCancelOrderAlreadyCancelled(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 5})

	addCartLine(t, db, userID, productID, 1, "M")
	order := placeTestOrder(t, db, userID)

	orderService := NewOrderService(db, nil)
	_, err := orderService.CancelOrder(userID, order.ID, false)
	require.NoError(t, err)

	_, err = orderService.CancelOrder(userID, order.ID, false)
	require.Error(t, err)
	assert.Equal(t, 409, StatusOf(err))

	// stock released exactly once
	stock, sold := getStockAndSold(t, db, productID)
	assert.Equal(t, 5, stock)
	assert.Equal(t, 0, sold)
}

func TestShippedOrderCancelRejectedDeliverAccepted(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 5})

	addCartLine(t, db, userID, productID, 1, "M")
	order := placeTestOrder(t, db, userID)

	orderService := NewOrderService(db, nil)
	_, err := orderService.UpdateOrderStatus(order.ID, models.OrderStatusConfirmed)
	require.NoError(t, err)
	_, err = orderService.UpdateOrderStatus(order.ID, models.OrderStatusShipped)
	require.NoError(t, err)

	_, err = orderService.CancelOrder(userID, order.ID, false)
	require.Error(t, err)
	assert.Equal(t, 403, StatusOf(err))

	delivered, err := orderService.MarkDelivered(order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, delivered.OrderStatus)
}

func TestUpdateOrderStatusRejectsInvalidTransition(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 5})

	addCartLine(t, db, userID, productID, 1, "M")
	order := placeTestOrder(t, db, userID)

	orderService := NewOrderService(db, nil)

	// CREATED cannot jump straight to SHIPPED or DELIVERED
	for _, target := range []models.OrderStatus{models.OrderStatusShipped, models.OrderStatusDelivered} {
		_, err := orderService.UpdateOrderStatus(order.ID, target)
		require.Error(t, err)
		assert.Equal(t, 409, StatusOf(err))
	}

	// status unchanged after rejected transitions
	reloaded, err := orderService.GetOrder(userID, order.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCreated, reloaded.OrderStatus)
}

func TestMarkDeliveredRequiresShipped(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 5})

	addCartLine(t, db, userID, productID, 1, "M")
	order := placeTestOrder(t, db, userID)

	_, err := NewOrderService(db, nil).MarkDelivered(order.ID)
	require.Error(t, err)
	assert.Equal(t, 409, StatusOf(err))
}

func TestBlockedUserCannotPlaceOrCancel(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, "buyer", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 5})

	addCartLine(t, db, userID, productID, 1, "M")
	order := placeTestOrder(t, db, userID)

	_, err := db.Exec(`UPDATE users SET is_blocked = TRUE WHERE id = ?`, userID)
	require.NoError(t, err)

	orderService := NewOrderService(db, nil)
	_, err = orderService.PlaceOrder(userID, &models.OrderCreation{
		ShippingAddress: testAddress(),
		PaymentMethod:   models.PaymentMethodCOD,
	})
	require.Error(t, err)
	assert.Equal(t, 403, StatusOf(err))

	_, err = orderService.CancelOrder(userID, order.ID, false)
	require.Error(t, err)
	assert.Equal(t, 403, StatusOf(err))
}

func TestGetOrderOwnership(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, "owner", false)
	stranger := createTestUser(t, db, "stranger", false)
	categoryID := createTestCategory(t, db, "shirts")
	productID := createTestProduct(t, db, categoryID, testProduct{name: "Tee", price: 50, stock: 5})

	addCartLine(t, db, owner, productID, 1, "M")
	order := placeTestOrder(t, db, owner)

	orderService := NewOrderService(db, nil)
	_, err := orderService.GetOrder(stranger, order.ID, false)
	require.Error(t, err)
	assert.Equal(t, 403, StatusOf(err))

	// admin may read any order
	_, err = orderService.GetOrder(stranger, order.ID, true)
	assert.NoError(t, err)
}
