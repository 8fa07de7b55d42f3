package services

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"shopware-backend/database"
	"shopware-backend/internal/models"
)

// setupTestDB opens a private in-memory database with the full schema.
// cache=shared keeps all pool connections on the same database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.New().String())
	db, err := database.Initialize(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sql.DB, username string, blocked bool) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.Exec(`
		INSERT INTO users (id, username, email, password_hash, role, is_blocked, is_verified)
		VALUES (?, ?, ?, 'test-hash', 'user', ?, TRUE)`,
		id, username, username+"@example.com", blocked)
	require.NoError(t, err)
	return id
}

func createTestCategory(t *testing.T, db *sql.DB, name string) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.Exec(`INSERT INTO categories (id, name) VALUES (?, ?)`, id, name)
	require.NoError(t, err)
	return id
}

type testProduct struct {
	name     string
	price    float64
	discount float64
	stock    int
}

func createTestProduct(t *testing.T, db *sql.DB, categoryID string, p testProduct) string {
	t.Helper()

	id := uuid.New().String()
	_, err := db.Exec(`
		INSERT INTO products (id, name, description, image, price, discount, stock,
		                      category_id, colors, sizes, is_on_sale)
		VALUES (?, ?, 'test product', 'test.jpg', ?, ?, ?, ?, ?, ?, ?)`,
		id, p.name, p.price, p.discount, p.stock, categoryID,
		models.ColorList{{Name: "Black", HexCode: "#000000"}},
		models.SizeList{"S", "M", "L"},
		p.discount > 0)
	require.NoError(t, err)
	return id
}

func getStockAndSold(t *testing.T, db *sql.DB, productID string) (stock, sold int) {
	t.Helper()
	err := db.QueryRow(`SELECT stock, total_sold FROM products WHERE id = ?`, productID).
		Scan(&stock, &sold)
	require.NoError(t, err)
	return stock, sold
}

func getRatingAndCount(t *testing.T, db *sql.DB, productID string) (rating float64, count int) {
	t.Helper()
	err := db.QueryRow(`SELECT rating, rating_count FROM products WHERE id = ?`, productID).
		Scan(&rating, &count)
	require.NoError(t, err)
	return rating, count
}

// addCartLine puts one line into the user's cart through the service
func addCartLine(t *testing.T, db *sql.DB, userID, productID string, qty int, size string) {
	t.Helper()
	cartService := NewCartService(db)
	_, err := cartService.AddItem(userID, &models.CartItemAddition{
		ProductID: productID,
		Quantity:  qty,
		Size:      size,
		Color:     "Black",
	})
	require.NoError(t, err)
}

// placeTestOrder places an order with an inline address
func placeTestOrder(t *testing.T, db *sql.DB, userID string) *models.Order {
	t.Helper()
	orderService := NewOrderService(db, nil)
	order, err := orderService.PlaceOrder(userID, &models.OrderCreation{
		ShippingAddress: testAddress(),
		PaymentMethod:   models.PaymentMethodCOD,
	})
	require.NoError(t, err)
	return order
}

func testAddress() *models.ShippingAddress {
	return &models.ShippingAddress{
		FullName: "Test Buyer",
		Phone:    "1234567890",
		Street:   "1 Test Street",
		City:     "Testville",
		State:    "TS",
		Pincode:  "000001",
	}
}

// deliverOrder walks an order to DELIVERED through the status machine
func deliverOrder(t *testing.T, db *sql.DB, orderID string) {
	t.Helper()
	orderService := NewOrderService(db, nil)
	for _, status := range []models.OrderStatus{
		models.OrderStatusConfirmed, models.OrderStatusShipped, models.OrderStatusDelivered,
	} {
		_, err := orderService.UpdateOrderStatus(orderID, status)
		require.NoError(t, err)
	}
}
