package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"shopware-backend/internal/models"
	"shopware-backend/internal/utils"
)

// AdminService handles moderation, catalog management and reporting
type AdminService struct {
	db *sql.DB
}

// NewAdminService creates a new admin service
func NewAdminService(db *sql.DB) *AdminService {
	return &AdminService{db: db}
}

// ListUsers returns users matching an optional username/email search
func (s *AdminService) ListUsers(search string, page, limit int) ([]models.User, int, error) {
	where := "1=1"
	args := []interface{}{}
	if search != "" {
		where = "(username LIKE ? OR email LIKE ?)"
		args = append(args, "%"+search+"%", "%"+search+"%")
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, utils.Offset(page, limit))

	rows, err := s.db.Query(`
		SELECT id, username, email, role, is_blocked, is_verified, created_at, updated_at
		FROM users WHERE `+where+`
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Email, &u.Role, &u.IsBlocked,
			&u.IsVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

// SetUserBlocked toggles the hard gate on a user's cart/order/review
// mutations
func (s *AdminService) SetUserBlocked(userID string, blocked bool) error {
	result, err := s.db.Exec(`
		UPDATE users SET is_blocked = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		blocked, userID)
	if err != nil {
		return fmt.Errorf("failed to update user block status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound("user not found")
	}
	return nil
}

// CreateProduct adds a catalog product, creating its category on first
// use
func (s *AdminService) CreateProduct(req *models.ProductCreation) (*models.Product, error) {
	var product *models.Product
	err := withTx(s.db, func(tx *sql.Tx) error {
		var dup int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM products WHERE name = ?`, req.Name).Scan(&dup); err != nil {
			return fmt.Errorf("failed to check product name: %w", err)
		}
		if dup > 0 {
			return ErrConflict("product name already exists")
		}

		categoryID, err := getOrCreateCategory(tx, req.Category)
		if err != nil {
			return err
		}

		now := time.Now()
		product = &models.Product{
			ID:          uuid.New().String(),
			Name:        req.Name,
			Description: req.Description,
			Image:       req.Image,
			Price:       req.Price,
			Discount:    req.Discount,
			Stock:       req.Stock,
			CategoryID:  categoryID,
			Colors:      models.ColorList(req.Colors),
			Sizes:       models.SizeList(req.Sizes),
			IsOnSale:    req.Discount > 0,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		_, err = tx.Exec(`
			INSERT INTO products (id, name, description, image, price, discount, stock,
			                      category_id, colors, sizes, rating, rating_count,
			                      is_on_sale, is_best_seller, total_sold, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, 0, ?, FALSE, 0, ?, ?)`,
			product.ID, product.Name, product.Description, product.Image,
			product.Price, product.Discount, product.Stock, product.CategoryID,
			product.Colors, product.Sizes, product.IsOnSale,
			product.CreatedAt, product.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct applies a partial product update
func (s *AdminService) UpdateProduct(productID string, req *models.ProductUpdate) (*models.Product, error) {
	var product *models.Product
	err := withTx(s.db, func(tx *sql.Tx) error {
		var err error
		product, err = getProductForUpdate(tx, productID)
		if err != nil {
			return err
		}

		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.Image != nil {
			product.Image = *req.Image
		}
		if req.Price != nil {
			if *req.Price < 0 {
				return ErrBadRequest("price cannot be negative")
			}
			product.Price = *req.Price
		}
		if req.Category != nil {
			categoryID, err := getOrCreateCategory(tx, *req.Category)
			if err != nil {
				return err
			}
			product.CategoryID = categoryID
		}
		if req.Colors != nil {
			product.Colors = models.ColorList(req.Colors)
		}
		if req.Sizes != nil {
			product.Sizes = models.SizeList(req.Sizes)
		}
		product.UpdatedAt = time.Now()

		_, err = tx.Exec(`
			UPDATE products SET name = ?, description = ?, image = ?, price = ?,
			category_id = ?, colors = ?, sizes = ?, updated_at = ? WHERE id = ?`,
			product.Name, product.Description, product.Image, product.Price,
			product.CategoryID, product.Colors, product.Sizes, product.UpdatedAt, productID)
		if err != nil {
			return fmt.Errorf("failed to update product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product from the catalog
func (s *AdminService) DeleteProduct(productID string) error {
	result, err := s.db.Exec(`DELETE FROM products WHERE id = ?`, productID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound("product not found")
	}
	return nil
}

// UpdateStock sets a product's on-hand stock directly
func (s *AdminService) UpdateStock(productID string, stock int) error {
	if stock < 0 {
		return ErrBadRequest("stock cannot be negative")
	}
	result, err := s.db.Exec(`
		UPDATE products SET stock = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		stock, productID)
	if err != nil {
		return fmt.Errorf("failed to update stock: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound("product not found")
	}
	return nil
}

// UpdateDiscount sets a product's discount percentage. isOnSale is
// derived, never set directly.
func (s *AdminService) UpdateDiscount(productID string, discount float64) error {
	if discount < 0 || discount > 100 {
		return ErrBadRequest("discount must be between 0 and 100")
	}
	result, err := s.db.Exec(`
		UPDATE products SET discount = ?, is_on_sale = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		discount, discount > 0, productID)
	if err != nil {
		return fmt.Errorf("failed to update discount: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound("product not found")
	}
	return nil
}

// ToggleBestSeller flips the bestseller flag
func (s *AdminService) ToggleBestSeller(productID string) (bool, error) {
	var flagged bool
	err := withTx(s.db, func(tx *sql.Tx) error {
		err := tx.QueryRow(`SELECT is_best_seller FROM products WHERE id = ?`, productID).Scan(&flagged)
		if err == sql.ErrNoRows {
			return ErrNotFound("product not found")
		}
		if err != nil {
			return fmt.Errorf("failed to get product: %w", err)
		}
		flagged = !flagged
		_, err = tx.Exec(`
			UPDATE products SET is_best_seller = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			flagged, productID)
		if err != nil {
			return fmt.Errorf("failed to toggle bestseller: %w", err)
		}
		return nil
	})
	return flagged, err
}

// ListOrders returns orders matching optional status/city/state
// filters, newest first
func (s *AdminService) ListOrders(filter *models.OrderFilter) ([]models.Order, int, error) {
	where := "1=1"
	args := []interface{}{}
	if filter.Status != "" {
		where += " AND order_status = ?"
		args = append(args, filter.Status)
	}
	if filter.City != "" {
		where += " AND ship_city = ?"
		args = append(args, filter.City)
	}
	if filter.State != "" {
		where += " AND ship_state = ?"
		args = append(args, filter.State)
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM orders WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, utils.Offset(page, limit))

	rows, err := s.db.Query(`
		SELECT id, user_id, ship_full_name, ship_phone, ship_street, ship_city,
		       ship_state, ship_pincode, payment_method, order_status, total_amount,
		       created_at, updated_at
		FROM orders WHERE `+where+`
		ORDER BY created_at DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	orders, err := scanOrders(rows)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// ListReviews returns all reviews for moderation, newest first
func (s *AdminService) ListReviews(page, limit int) ([]models.Review, int, error) {
	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM reviews`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	rows, err := s.db.Query(`
		SELECT r.id, r.user_id, r.product_id, r.rating, r.comment, u.username, r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		ORDER BY r.created_at DESC LIMIT ? OFFSET ?`, limit, utils.Offset(page, limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.ProductID, &r.Rating, &r.Comment,
			&r.Username, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, total, rows.Err()
}

// DashboardStats summarizes the store for the admin dashboard.
// Revenue excludes cancelled orders.
type DashboardStats struct {
	TotalUsers    int     `json:"totalUsers"`
	TotalProducts int     `json:"totalProducts"`
	TotalOrders   int     `json:"totalOrders"`
	TotalRevenue  float64 `json:"totalRevenue"`
	PendingOrders int     `json:"pendingOrders"`
}

// GetDashboardStats computes store-wide totals
func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM users WHERE role = ?`, models.UserRoleUser).
		Scan(&stats.TotalUsers); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&stats.TotalProducts); err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&stats.TotalOrders); err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}
	if err := s.db.QueryRow(`
		SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE order_status != ?`,
		models.OrderStatusCancelled).Scan(&stats.TotalRevenue); err != nil {
		return nil, fmt.Errorf("failed to sum revenue: %w", err)
	}
	if err := s.db.QueryRow(`
		SELECT COUNT(*) FROM orders WHERE order_status IN (?, ?)`,
		models.OrderStatusCreated, models.OrderStatusPaid).Scan(&stats.PendingOrders); err != nil {
		return nil, fmt.Errorf("failed to count pending orders: %w", err)
	}
	return stats, nil
}

// MonthlySales is one month of the sales analytics series
type MonthlySales struct {
	Month   string  `json:"month"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// GetSalesAnalytics returns per-month order counts and revenue for the
// last 12 months, cancelled orders excluded
func (s *AdminService) GetSalesAnalytics() ([]MonthlySales, error) {
	since := time.Now().AddDate(0, -11, 0).Format("2006-01")

	rows, err := s.db.Query(`
		SELECT strftime('%Y-%m', created_at) AS month, COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM orders
		WHERE order_status != ? AND strftime('%Y-%m', created_at) >= ?
		GROUP BY month ORDER BY month ASC`,
		models.OrderStatusCancelled, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query sales analytics: %w", err)
	}
	defer rows.Close()

	byMonth := map[string]MonthlySales{}
	for rows.Next() {
		var m MonthlySales
		if err := rows.Scan(&m.Month, &m.Orders, &m.Revenue); err != nil {
			return nil, fmt.Errorf("failed to scan sales row: %w", err)
		}
		byMonth[m.Month] = m
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Fill gaps so the series always covers 12 months
	series := make([]MonthlySales, 0, 12)
	for i := 11; i >= 0; i-- {
		month := time.Now().AddDate(0, -i, 0).Format("2006-01")
		if m, ok := byMonth[month]; ok {
			series = append(series, m)
		} else {
			series = append(series, MonthlySales{Month: month})
		}
	}
	return series, nil
}

// GetTopProducts returns the best selling products by cumulative units
// sold
func (s *AdminService) GetTopProducts(limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT`+productColumns+` FROM products p
		ORDER BY p.total_sold DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func getOrCreateCategory(tx *sql.Tx, name string) (string, error) {
	var id string
	err := tx.QueryRow(`SELECT id FROM categories WHERE name = ?`, name).Scan(&id)
	if err == sql.ErrNoRows {
		id = uuid.New().String()
		if _, err := tx.Exec(`INSERT INTO categories (id, name) VALUES (?, ?)`, id, name); err != nil {
			return "", fmt.Errorf("failed to create category: %w", err)
		}
		return id, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get category: %w", err)
	}
	return id, nil
}
