package models

import "time"

// Review represents a product review by a verified buyer
type Review struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	ProductID string    `json:"productId" db:"product_id"`
	Rating    float64   `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// ReviewCreation represents review creation data
type ReviewCreation struct {
	ProductID string  `json:"productId" binding:"required"`
	Rating    float64 `json:"rating" binding:"required,gte=1,lte=5"`
	Comment   string  `json:"comment"`
}

// ReviewUpdate represents review update data
type ReviewUpdate struct {
	Rating  *float64 `json:"rating,omitempty" binding:"omitempty,gte=1,lte=5"`
	Comment *string  `json:"comment,omitempty"`
}
