package models

import "time"

// Cart represents a user's shopping cart
type Cart struct {
	ID          string     `json:"id" db:"id"`
	UserID      string     `json:"userId" db:"user_id"`
	Items       []CartItem `json:"items"`
	TotalAmount float64    `json:"totalAmount" db:"total_amount"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// CartItem represents one line in a cart. Price is the discounted unit
// price frozen at add time and refreshed on cart reads.
type CartItem struct {
	ID        string    `json:"id" db:"id"`
	CartID    string    `json:"-" db:"cart_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Image     string    `json:"image" db:"image"`
	Price     float64   `json:"price" db:"price"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Size      string    `json:"size" db:"size"`
	Color     string    `json:"color" db:"color"`
	AddedAt   time.Time `json:"addedAt" db:"added_at"`
}

// CartItemAddition represents a request to add a line to the cart
type CartItemAddition struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
	Size      string `json:"size" binding:"required"`
	Color     string `json:"color" binding:"required"`
}

// QuantityDirection represents the direction of a quantity adjustment
type QuantityDirection string

const (
	QuantityIncrement QuantityDirection = "INCREMENT"
	QuantityDecrement QuantityDirection = "DECREMENT"
)

// IsValid checks if the direction is a known value
func (d QuantityDirection) IsValid() bool {
	return d == QuantityIncrement || d == QuantityDecrement
}

// QuantityUpdate represents a ±1 quantity adjustment request
type QuantityUpdate struct {
	ProductID string            `json:"productId" binding:"required"`
	Size      string            `json:"size" binding:"required"`
	Color     string            `json:"color" binding:"required"`
	Direction QuantityDirection `json:"direction" binding:"required"`
}
