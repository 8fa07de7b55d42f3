package services

import (
	"database/sql"
	"fmt"
	"strings"

	"shopware-backend/internal/models"
)

// ProductService handles public catalog reads
type ProductService struct {
	db *sql.DB
}

// NewProductService creates a new product service
func NewProductService(db *sql.DB) *ProductService {
	return &ProductService{db: db}
}

const productColumns = `
	p.id, p.name, p.description, p.image, p.price, p.discount, p.stock,
	p.category_id, p.colors, p.sizes, p.rating, p.rating_count,
	p.is_on_sale, p.is_best_seller, p.total_sold, p.created_at, p.updated_at`

func scanProduct(scanner interface{ Scan(dest ...interface{}) error }) (*models.Product, error) {
	p := &models.Product{}
	err := scanner.Scan(
		&p.ID, &p.Name, &p.Description, &p.Image, &p.Price, &p.Discount, &p.Stock,
		&p.CategoryID, &p.Colors, &p.Sizes, &p.Rating, &p.RatingCount,
		&p.IsOnSale, &p.IsBestSeller, &p.TotalSold, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct loads a single product by ID
func (s *ProductService) GetProduct(productID string) (*models.Product, error) {
	row := s.db.QueryRow(`SELECT`+productColumns+` FROM products p WHERE p.id = ?`, productID)
	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound("product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// ListProducts returns a filtered, paginated product page with the
// total match count
func (s *ProductService) ListProducts(filter *models.ProductFilter) ([]models.Product, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.Category != "" {
		where = append(where, "p.category_id = (SELECT id FROM categories WHERE name = ?)")
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		where = append(where, "p.name LIKE ?")
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.MinPrice != nil {
		where = append(where, "p.price >= ?")
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		where = append(where, "p.price <= ?")
		args = append(args, *filter.MaxPrice)
	}
	if filter.MinRating != nil {
		where = append(where, "p.rating >= ?")
		args = append(args, *filter.MinRating)
	}
	if filter.MinDiscount != nil {
		where = append(where, "p.discount >= ?")
		args = append(args, *filter.MinDiscount)
	}
	for _, size := range filter.Sizes {
		// sizes column holds a JSON array of strings
		where = append(where, "p.sizes LIKE ?")
		args = append(args, fmt.Sprintf("%%%q%%", size))
	}

	whereClause := strings.Join(where, " AND ")

	var total int
	countArgs := make([]interface{}, len(args))
	copy(countArgs, args)
	err := s.db.QueryRow(`SELECT COUNT(*) FROM products p WHERE `+whereClause, countArgs...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.Query(`
		SELECT`+productColumns+` FROM products p
		WHERE `+whereClause+`
		ORDER BY p.created_at DESC
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, total, rows.Err()
}

// GetRelatedProducts returns products in the same category sharing at
// least one size with the given product, best rated and sold first
func (s *ProductService) GetRelatedProducts(productID string, limit int) ([]models.Product, error) {
	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 8
	}

	rows, err := s.db.Query(`
		SELECT`+productColumns+` FROM products p
		WHERE p.category_id = ? AND p.id != ?
		ORDER BY p.rating DESC, p.total_sold DESC`, product.CategoryID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list related products: %w", err)
	}
	defer rows.Close()

	related := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		if !sharesSize(product.Sizes, p.Sizes) {
			continue
		}
		related = append(related, *p)
		if len(related) >= limit {
			break
		}
	}
	return related, rows.Err()
}

func sharesSize(a, b models.SizeList) bool {
	for _, size := range a {
		if b.Contains(size) {
			return true
		}
	}
	return false
}

// GetBestSellers returns flagged bestseller products
func (s *ProductService) GetBestSellers(limit int) ([]models.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.Query(`
		SELECT`+productColumns+` FROM products p
		WHERE p.is_best_seller = TRUE
		ORDER BY p.total_sold DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bestsellers: %w", err)
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

// ListCategories returns all categories
func (s *ProductService) ListCategories() ([]models.Category, error) {
	rows, err := s.db.Query(`SELECT id, name, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// ListProductReviews returns a product's reviews, newest first
func (s *ProductService) ListProductReviews(productID string) ([]models.Review, error) {
	rows, err := s.db.Query(`
		SELECT r.id, r.user_id, r.product_id, r.rating, r.comment, u.username, r.created_at, r.updated_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.product_id = ?
		ORDER BY r.created_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.ProductID, &r.Rating, &r.Comment,
			&r.Username, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
