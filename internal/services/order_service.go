package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shopware-backend/internal/models"
	"shopware-backend/internal/utils"
)

// OrderService drives the order workflow: atomic cart-to-order
// conversion with inventory reservation, the status state machine,
// and compensating cancellation.
type OrderService struct {
	db     *sql.DB
	events *OrderEventHub
}

// NewOrderService creates a new order service. events may be nil.
func NewOrderService(db *sql.DB, events *OrderEventHub) *OrderService {
	return &OrderService{db: db, events: events}
}

// PlaceOrder converts the user's cart into an immutable order in one
// transaction: resolve address, verify aggregated stock, re-price
// lines from live product state, create the order, reserve inventory,
// empty the cart. Any failure rolls everything back.
func (s *OrderService) PlaceOrder(userID string, req *models.OrderCreation) (*models.Order, error) {
	if err := requireNotBlocked(s.db, userID); err != nil {
		return nil, err
	}
	if !req.PaymentMethod.IsValid() {
		return nil, ErrBadRequest("payment method must be COD or ONLINE")
	}

	var order *models.Order
	err := withTx(s.db, func(tx *sql.Tx) error {
		// 1. Resolve shipping address
		address, err := resolveShippingAddress(tx, userID, req)
		if err != nil {
			return err
		}

		// 2. Load cart
		cart, err := getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrBadRequest("cart is empty")
		}

		// 3. Aggregate requested quantity per distinct product: a
		// product split across size/color lines reserves as one sum
		productQty := map[string]int{}
		productOrder := []string{}
		for _, item := range cart.Items {
			if _, seen := productQty[item.ProductID]; !seen {
				productOrder = append(productOrder, item.ProductID)
			}
			productQty[item.ProductID] += item.Quantity
		}

		// 4. Verify stock for every distinct product
		products := map[string]*models.Product{}
		for _, productID := range productOrder {
			product, err := getProductForUpdate(tx, productID)
			if err != nil {
				return err
			}
			if product.Stock < productQty[productID] {
				return ErrConflict(fmt.Sprintf("insufficient stock for %s", product.Name))
			}
			products[productID] = product
		}

		// 5. Re-price lines from live product state into immutable snapshots
		now := time.Now()
		order = &models.Order{
			ID:              uuid.New().String(),
			UserID:          userID,
			ShippingAddress: *address,
			PaymentMethod:   req.PaymentMethod,
			OrderStatus:     req.PaymentMethod.InitialOrderStatus(),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		total := 0.0
		for _, item := range cart.Items {
			product := products[item.ProductID]
			unitPrice := utils.RoundToTwoDecimals(product.DiscountedPrice())
			order.Items = append(order.Items, models.OrderItem{
				ID:        uuid.New().String(),
				OrderID:   order.ID,
				ProductID: product.ID,
				Name:      product.Name,
				Image:     product.Image,
				Price:     unitPrice,
				Quantity:  item.Quantity,
				Size:      item.Size,
				Color:     item.Color,
			})
			total += unitPrice * float64(item.Quantity)
		}
		order.TotalAmount = utils.RoundToTwoDecimals(total)

		// 6. Create the order record
		_, err = tx.Exec(`
			INSERT INTO orders (id, user_id, ship_full_name, ship_phone, ship_street,
			                    ship_city, ship_state, ship_pincode, payment_method,
			                    order_status, total_amount, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			order.ID, order.UserID, address.FullName, address.Phone, address.Street,
			address.City, address.State, address.Pincode, order.PaymentMethod,
			order.OrderStatus, order.TotalAmount, order.CreatedAt, order.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		for _, item := range order.Items {
			_, err := tx.Exec(`
				INSERT INTO order_items (id, order_id, product_id, name, image, price, quantity, size, color)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				item.ID, item.OrderID, item.ProductID, item.Name, item.Image,
				item.Price, item.Quantity, item.Size, item.Color)
			if err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		// 7. Reserve inventory per distinct product
		for _, productID := range productOrder {
			if err := reserveStock(tx, productID, productQty[productID]); err != nil {
				return err
			}
		}

		// 8. Empty the cart
		return clearCart(tx, cart.ID)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(OrderEvent{Type: "order_placed", OrderID: order.ID, UserID: userID, Status: order.OrderStatus})
	return order, nil
}

// CancelOrder releases the order's inventory and sets CANCELLED,
// atomically. Shipped and delivered orders cannot be cancelled.
func (s *OrderService) CancelOrder(userID, orderID string, isAdmin bool) (*models.Order, error) {
	if !isAdmin {
		if err := requireNotBlocked(s.db, userID); err != nil {
			return nil, err
		}
	}

	var order *models.Order
	err := withTx(s.db, func(tx *sql.Tx) error {
		var err error
		order, err = getOrderForUpdate(tx, orderID)
		if err != nil {
			return err
		}
		if !isAdmin && order.UserID != userID {
			return ErrForbidden("not your order")
		}

		switch order.OrderStatus {
		case models.OrderStatusShipped, models.OrderStatusDelivered:
			return ErrForbidden(fmt.Sprintf("cannot cancel a %s order", order.OrderStatus))
		case models.OrderStatusCancelled:
			return ErrConflict("order already cancelled")
		}

		for _, item := range order.Items {
			if err := releaseStock(tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		order.OrderStatus = models.OrderStatusCancelled
		_, err = tx.Exec(`UPDATE orders SET order_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			order.OrderStatus, orderID)
		if err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(OrderEvent{Type: "order_cancelled", OrderID: order.ID, UserID: order.UserID, Status: order.OrderStatus})
	return order, nil
}

// UpdateOrderStatus applies an admin-driven status transition after
// consulting the transition table
func (s *OrderService) UpdateOrderStatus(orderID string, newStatus models.OrderStatus) (*models.Order, error) {
	if !newStatus.IsValid() {
		return nil, ErrBadRequest(fmt.Sprintf("unknown order status: %s", newStatus))
	}

	var order *models.Order
	err := withTx(s.db, func(tx *sql.Tx) error {
		var err error
		order, err = getOrderForUpdate(tx, orderID)
		if err != nil {
			return err
		}

		if !order.OrderStatus.CanTransitionTo(newStatus) {
			return ErrConflict(fmt.Sprintf("cannot transition from %s to %s", order.OrderStatus, newStatus))
		}

		// Cancellation must release inventory even on the admin path
		if newStatus == models.OrderStatusCancelled {
			for _, item := range order.Items {
				if err := releaseStock(tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
		}

		order.OrderStatus = newStatus
		_, err = tx.Exec(`UPDATE orders SET order_status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			newStatus, orderID)
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishEvent(OrderEvent{Type: "order_status_changed", OrderID: order.ID, UserID: order.UserID, Status: order.OrderStatus})
	return order, nil
}

// MarkDelivered is the deliver-only shortcut; it rejects any order not
// currently SHIPPED
func (s *OrderService) MarkDelivered(orderID string) (*models.Order, error) {
	var current models.OrderStatus
	err := s.db.QueryRow(`SELECT order_status FROM orders WHERE id = ?`, orderID).Scan(&current)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound("order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order status: %w", err)
	}
	if current != models.OrderStatusShipped {
		return nil, ErrConflict(fmt.Sprintf("cannot deliver a %s order", current))
	}
	return s.UpdateOrderStatus(orderID, models.OrderStatusDelivered)
}

// GetOrder loads an order with its items. Non-admin callers may only
// read their own orders.
func (s *OrderService) GetOrder(userID, orderID string, isAdmin bool) (*models.Order, error) {
	order, err := s.loadOrder(orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		return nil, ErrForbidden("not your order")
	}
	return order, nil
}

// ListUserOrders returns a user's orders, newest first
func (s *OrderService) ListUserOrders(userID string) ([]models.Order, error) {
	rows, err := s.db.Query(`
		SELECT id, user_id, ship_full_name, ship_phone, ship_street, ship_city,
		       ship_state, ship_pincode, payment_method, order_status, total_amount,
		       created_at, updated_at
		FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		items, err := s.loadOrderItems(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (s *OrderService) loadOrder(orderID string) (*models.Order, error) {
	order := &models.Order{}
	err := s.db.QueryRow(`
		SELECT id, user_id, ship_full_name, ship_phone, ship_street, ship_city,
		       ship_state, ship_pincode, payment_method, order_status, total_amount,
		       created_at, updated_at
		FROM orders WHERE id = ?`, orderID).Scan(
		&order.ID, &order.UserID, &order.ShippingAddress.FullName,
		&order.ShippingAddress.Phone, &order.ShippingAddress.Street,
		&order.ShippingAddress.City, &order.ShippingAddress.State,
		&order.ShippingAddress.Pincode, &order.PaymentMethod,
		&order.OrderStatus, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound("order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	items, err := s.loadOrderItems(orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (s *OrderService) loadOrderItems(orderID string) ([]models.OrderItem, error) {
	rows, err := s.db.Query(`
		SELECT id, order_id, product_id, name, image, price, quantity, size, color
		FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.Image, &item.Price, &item.Quantity, &item.Size, &item.Color); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *OrderService) publishEvent(event OrderEvent) {
	if s.events != nil {
		s.events.Publish(event)
	}
}

// reserveStock atomically decrements stock and increments totalSold.
// The stock guard in the WHERE clause makes check-and-decrement a
// single read-modify-write, so two concurrent placements can never
// jointly oversell a product.
func reserveStock(tx *sql.Tx, productID string, qty int) error {
	result, err := tx.Exec(`
		UPDATE products SET stock = stock - ?, total_sold = total_sold + ?,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock >= ?`, qty, qty, productID, qty)
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check stock reservation: %w", err)
	}
	if rows == 0 {
		return ErrConflict("insufficient stock")
	}
	return nil
}

// releaseStock is the exact inverse of reserveStock. It has no upper
// bound check.
func releaseStock(tx *sql.Tx, productID string, qty int) error {
	_, err := tx.Exec(`
		UPDATE products SET stock = stock + ?, total_sold = total_sold - ?,
		updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`, qty, qty, productID)
	if err != nil {
		return fmt.Errorf("failed to release stock: %w", err)
	}
	return nil
}

func resolveShippingAddress(tx *sql.Tx, userID string, req *models.OrderCreation) (*models.ShippingAddress, error) {
	if req.ShippingAddress != nil {
		return req.ShippingAddress, nil
	}

	address := &models.ShippingAddress{}
	err := tx.QueryRow(`
		SELECT full_name, phone, street, city, state, pincode
		FROM addresses WHERE user_id = ? AND is_default = TRUE`, userID).Scan(
		&address.FullName, &address.Phone, &address.Street,
		&address.City, &address.State, &address.Pincode)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound("no default address set")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get default address: %w", err)
	}
	return address, nil
}

func getOrderForUpdate(tx *sql.Tx, orderID string) (*models.Order, error) {
	order := &models.Order{}
	err := tx.QueryRow(`
		SELECT id, user_id, ship_full_name, ship_phone, ship_street, ship_city,
		       ship_state, ship_pincode, payment_method, order_status, total_amount,
		       created_at, updated_at
		FROM orders WHERE id = ?`, orderID).Scan(
		&order.ID, &order.UserID, &order.ShippingAddress.FullName,
		&order.ShippingAddress.Phone, &order.ShippingAddress.Street,
		&order.ShippingAddress.City, &order.ShippingAddress.State,
		&order.ShippingAddress.Pincode, &order.PaymentMethod,
		&order.OrderStatus, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound("order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	rows, err := tx.Query(`
		SELECT id, order_id, product_id, name, image, price, quantity, size, color
		FROM order_items WHERE order_id = ?`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name,
			&item.Image, &item.Price, &item.Quantity, &item.Size, &item.Color); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return order, rows.Err()
}

func scanOrders(rows *sql.Rows) ([]models.Order, error) {
	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.ShippingAddress.FullName,
			&o.ShippingAddress.Phone, &o.ShippingAddress.Street,
			&o.ShippingAddress.City, &o.ShippingAddress.State,
			&o.ShippingAddress.Pincode, &o.PaymentMethod,
			&o.OrderStatus, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
