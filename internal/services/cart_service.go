package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shopware-backend/internal/models"
	"shopware-backend/internal/utils"
)

// CartService handles the per-user shopping cart
type CartService struct {
	db *sql.DB
}

// NewCartService creates a new cart service
func NewCartService(db *sql.DB) *CartService {
	return &CartService{db: db}
}

// GetCart returns the user's cart, creating it lazily on first access.
// Stored line prices are refreshed from current product discounts and
// the refreshed prices are persisted.
func (s *CartService) GetCart(userID string) (*models.Cart, error) {
	var cart *models.Cart
	err := withTx(s.db, func(tx *sql.Tx) error {
		var err error
		cart, err = getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}
		if err := refreshPricing(tx, cart); err != nil {
			return err
		}
		return recomputeTotal(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// AddItem adds a new line to the cart. The same (product, size, color)
// key may appear only once; quantity changes go through UpdateQuantity.
func (s *CartService) AddItem(userID string, req *models.CartItemAddition) (*models.Cart, error) {
	if err := s.requireNotBlocked(userID); err != nil {
		return nil, err
	}

	var cart *models.Cart
	err := withTx(s.db, func(tx *sql.Tx) error {
		product, err := getProductForUpdate(tx, req.ProductID)
		if err != nil {
			return err
		}
		if !product.Sizes.Contains(req.Size) || !product.Colors.Contains(req.Color) {
			return ErrNotFound("product variant not found")
		}
		if product.Stock < req.Quantity {
			return ErrConflict(fmt.Sprintf("insufficient stock for %s", product.Name))
		}

		cart, err = getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		var dup int
		err = tx.QueryRow(`
			SELECT COUNT(*) FROM cart_items
			WHERE cart_id = ? AND product_id = ? AND size = ? AND color = ?`,
			cart.ID, req.ProductID, req.Size, req.Color).Scan(&dup)
		if err != nil {
			return fmt.Errorf("failed to check duplicate item: %w", err)
		}
		if dup > 0 {
			return ErrConflict("item already in cart")
		}

		item := models.CartItem{
			ID:        uuid.New().String(),
			CartID:    cart.ID,
			ProductID: product.ID,
			Name:      product.Name,
			Image:     product.Image,
			Price:     utils.RoundToTwoDecimals(product.DiscountedPrice()),
			Quantity:  req.Quantity,
			Size:      req.Size,
			Color:     req.Color,
			AddedAt:   time.Now(),
		}
		_, err = tx.Exec(`
			INSERT INTO cart_items (id, cart_id, product_id, name, image, price, quantity, size, color, added_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			item.ID, item.CartID, item.ProductID, item.Name, item.Image,
			item.Price, item.Quantity, item.Size, item.Color, item.AddedAt)
		if err != nil {
			return fmt.Errorf("failed to add cart item: %w", err)
		}

		return s.reloadCart(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity adjusts a line's quantity by one. INCREMENT is
// stock-checked; DECREMENT floors at 1 and never removes the line.
func (s *CartService) UpdateQuantity(userID string, req *models.QuantityUpdate) (*models.Cart, error) {
	if err := s.requireNotBlocked(userID); err != nil {
		return nil, err
	}
	if !req.Direction.IsValid() {
		return nil, ErrBadRequest("direction must be INCREMENT or DECREMENT")
	}

	var cart *models.Cart
	err := withTx(s.db, func(tx *sql.Tx) error {
		var err error
		cart, err = getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		var itemID string
		var quantity int
		err = tx.QueryRow(`
			SELECT id, quantity FROM cart_items
			WHERE cart_id = ? AND product_id = ? AND size = ? AND color = ?`,
			cart.ID, req.ProductID, req.Size, req.Color).Scan(&itemID, &quantity)
		if err == sql.ErrNoRows {
			return ErrNotFound("item not in cart")
		}
		if err != nil {
			return fmt.Errorf("failed to load cart item: %w", err)
		}

		switch req.Direction {
		case models.QuantityIncrement:
			product, err := getProductForUpdate(tx, req.ProductID)
			if err != nil {
				return err
			}
			if product.Stock < quantity+1 {
				return ErrConflict(fmt.Sprintf("insufficient stock for %s", product.Name))
			}
			quantity++
		case models.QuantityDecrement:
			if quantity > 1 {
				quantity--
			}
		}

		if _, err := tx.Exec(`UPDATE cart_items SET quantity = ? WHERE id = ?`, quantity, itemID); err != nil {
			return fmt.Errorf("failed to update quantity: %w", err)
		}
		return s.reloadCart(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes one line from the cart
func (s *CartService) RemoveItem(userID, productID, size, color string) (*models.Cart, error) {
	if err := s.requireNotBlocked(userID); err != nil {
		return nil, err
	}

	var cart *models.Cart
	err := withTx(s.db, func(tx *sql.Tx) error {
		var err error
		cart, err = getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}

		result, err := tx.Exec(`
			DELETE FROM cart_items
			WHERE cart_id = ? AND product_id = ? AND size = ? AND color = ?`,
			cart.ID, productID, size, color)
		if err != nil {
			return fmt.Errorf("failed to remove cart item: %w", err)
		}
		rows, _ := result.RowsAffected()
		if rows == 0 {
			return ErrNotFound("item not in cart")
		}
		return s.reloadCart(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// Clear empties the cart without deleting it
func (s *CartService) Clear(userID string) (*models.Cart, error) {
	if err := s.requireNotBlocked(userID); err != nil {
		return nil, err
	}

	var cart *models.Cart
	err := withTx(s.db, func(tx *sql.Tx) error {
		var err error
		cart, err = getOrCreateCart(tx, userID)
		if err != nil {
			return err
		}
		if err := clearCart(tx, cart.ID); err != nil {
			return err
		}
		return s.reloadCart(tx, cart)
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartService) requireNotBlocked(userID string) error {
	return requireNotBlocked(s.db, userID)
}

func (s *CartService) reloadCart(tx *sql.Tx, cart *models.Cart) error {
	if err := loadCartItems(tx, cart); err != nil {
		return err
	}
	return recomputeTotal(tx, cart)
}

// getOrCreateCart loads the user's cart with items, creating an empty
// one if none exists yet
func getOrCreateCart(tx *sql.Tx, userID string) (*models.Cart, error) {
	cart := &models.Cart{}
	err := tx.QueryRow(`
		SELECT id, user_id, total_amount, created_at, updated_at
		FROM carts WHERE user_id = ?`, userID).Scan(
		&cart.ID, &cart.UserID, &cart.TotalAmount, &cart.CreatedAt, &cart.UpdatedAt)
	if err == sql.ErrNoRows {
		cart = &models.Cart{
			ID:        uuid.New().String(),
			UserID:    userID,
			Items:     []models.CartItem{},
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
		_, err := tx.Exec(`
			INSERT INTO carts (id, user_id, total_amount, created_at, updated_at)
			VALUES (?, ?, 0, ?, ?)`,
			cart.ID, cart.UserID, cart.CreatedAt, cart.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return cart, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	if err := loadCartItems(tx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func loadCartItems(tx *sql.Tx, cart *models.Cart) error {
	rows, err := tx.Query(`
		SELECT id, cart_id, product_id, name, image, price, quantity, size, color, added_at
		FROM cart_items WHERE cart_id = ? ORDER BY added_at ASC`, cart.ID)
	if err != nil {
		return fmt.Errorf("failed to load cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		if err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Name,
			&item.Image, &item.Price, &item.Quantity, &item.Size, &item.Color, &item.AddedAt); err != nil {
			return fmt.Errorf("failed to scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}
	return rows.Err()
}

// refreshPricing recomputes each line's stored unit price from the
// current product discount and persists any changes. Lines whose
// product no longer exists keep their frozen price.
func refreshPricing(tx *sql.Tx, cart *models.Cart) error {
	for i := range cart.Items {
		item := &cart.Items[i]

		var price, discount float64
		err := tx.QueryRow(`SELECT price, discount FROM products WHERE id = ?`, item.ProductID).
			Scan(&price, &discount)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to load product pricing: %w", err)
		}

		current := price
		if discount > 0 {
			current = price * (1 - discount/100)
		}
		current = utils.RoundToTwoDecimals(current)

		if current != item.Price {
			if _, err := tx.Exec(`UPDATE cart_items SET price = ? WHERE id = ?`, current, item.ID); err != nil {
				return fmt.Errorf("failed to refresh item price: %w", err)
			}
			item.Price = current
		}
	}
	return nil
}

// recomputeTotal derives totalAmount from the current lines and
// persists it. The stored total is never trusted as input.
func recomputeTotal(tx *sql.Tx, cart *models.Cart) error {
	total := 0.0
	for _, item := range cart.Items {
		total += item.Price * float64(item.Quantity)
	}
	cart.TotalAmount = utils.RoundToTwoDecimals(total)

	_, err := tx.Exec(`UPDATE carts SET total_amount = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		cart.TotalAmount, cart.ID)
	if err != nil {
		return fmt.Errorf("failed to update cart total: %w", err)
	}
	return nil
}

func clearCart(tx *sql.Tx, cartID string) error {
	if _, err := tx.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}
	if _, err := tx.Exec(`UPDATE carts SET total_amount = 0, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, cartID); err != nil {
		return fmt.Errorf("failed to reset cart total: %w", err)
	}
	return nil
}

// getProductForUpdate loads a product inside a transaction
func getProductForUpdate(tx *sql.Tx, productID string) (*models.Product, error) {
	row := tx.QueryRow(`SELECT`+productColumns+` FROM products p WHERE p.id = ?`, productID)
	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound("product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// requireNotBlocked gates all cart/order/review mutations
func requireNotBlocked(db *sql.DB, userID string) error {
	var blocked bool
	err := db.QueryRow(`SELECT is_blocked FROM users WHERE id = ?`, userID).Scan(&blocked)
	if err == sql.ErrNoRows {
		return ErrNotFound("user not found")
	}
	if err != nil {
		return fmt.Errorf("failed to check user status: %w", err)
	}
	if blocked {
		return ErrForbidden("account is blocked")
	}
	return nil
}
