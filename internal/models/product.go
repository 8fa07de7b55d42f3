package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Color represents a product color variant
type Color struct {
	Name    string `json:"name"`
	HexCode string `json:"hexCode"`
}

// ColorList is a JSON-serialized list of colors stored in a TEXT column
type ColorList []Color

// Value implements driver.Valuer for database storage
func (c ColorList) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal colors: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval
func (c *ColorList) Scan(value interface{}) error {
	if value == nil {
		*c = ColorList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported type for ColorList: %T", value)
	}
	return json.Unmarshal(data, c)
}

// Contains reports whether the list has a color with the given name
func (c ColorList) Contains(name string) bool {
	for _, color := range c {
		if color.Name == name {
			return true
		}
	}
	return false
}

// SizeList is a JSON-serialized list of sizes stored in a TEXT column
type SizeList []string

// Value implements driver.Valuer for database storage
func (s SizeList) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sizes: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner for database retrieval
func (s *SizeList) Scan(value interface{}) error {
	if value == nil {
		*s = SizeList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported type for SizeList: %T", value)
	}
	return json.Unmarshal(data, s)
}

// Contains reports whether the list has the given size
func (s SizeList) Contains(size string) bool {
	for _, v := range s {
		if v == size {
			return true
		}
	}
	return false
}

// Category represents a product category
type Category struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Product represents a catalog product
type Product struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  string    `json:"description" db:"description"`
	Image        string    `json:"image" db:"image"`
	Price        float64   `json:"price" db:"price"`
	Discount     float64   `json:"discount" db:"discount"`
	Stock        int       `json:"stock" db:"stock"`
	CategoryID   string    `json:"categoryId" db:"category_id"`
	Colors       ColorList `json:"colors" db:"colors"`
	Sizes        SizeList  `json:"sizes" db:"sizes"`
	Rating       float64   `json:"rating" db:"rating"`
	RatingCount  int       `json:"ratingCount" db:"rating_count"`
	IsOnSale     bool      `json:"isOnSale" db:"is_on_sale"`
	IsBestSeller bool      `json:"isBestSeller" db:"is_best_seller"`
	TotalSold    int       `json:"totalSold" db:"total_sold"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// DiscountedPrice returns the unit price with the current discount applied
func (p *Product) DiscountedPrice() float64 {
	if p.Discount > 0 {
		return p.Price * (1 - p.Discount/100)
	}
	return p.Price
}

// ProductCreation represents admin product creation data
type ProductCreation struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Image       string   `json:"image" binding:"required"`
	Price       float64  `json:"price" binding:"required,gte=0"`
	Discount    float64  `json:"discount" binding:"gte=0,lte=100"`
	Stock       int      `json:"stock" binding:"gte=0"`
	Category    string   `json:"category" binding:"required"`
	Colors      []Color  `json:"colors" binding:"required,min=1"`
	Sizes       []string `json:"sizes" binding:"required,min=1"`
}

// ProductUpdate represents admin product update data
type ProductUpdate struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Colors      []Color  `json:"colors,omitempty"`
	Sizes       []string `json:"sizes,omitempty"`
}

// ProductFilter represents catalog listing filters
type ProductFilter struct {
	Category    string
	Sizes       []string
	MinPrice    *float64
	MaxPrice    *float64
	MinRating   *float64
	MinDiscount *float64
	Search      string
	Page        int
	Limit       int
}
