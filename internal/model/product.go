package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents an item in the catalogue. Stock is the only mutable
// shared state in the system: it is decremented exclusively by order
// placement and incremented exclusively by restocking.
type Product struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Stock     int             `json:"stock" db:"stock"`
	Category  string          `json:"category" db:"category"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// ProductFilter narrows catalogue queries. Nil fields are ignored.
type ProductFilter struct {
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Category *string
}

// CreateProductRequest is the payload for adding a product to the catalogue.
type CreateProductRequest struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Category string          `json:"category"`
}

// RestockRequest is the payload for adding stock to an existing product.
type RestockRequest struct {
	Quantity int `json:"quantity"`
}

// CategoryAverage is one row of the average-price-per-category aggregation.
type CategoryAverage struct {
	Category     string          `json:"category"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
}

// Review is a single user's rating of a product. One review per
// (user, product); re-rating overwrites the previous value.
type Review struct {
	ID        uuid.UUID `json:"-" db:"id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Rating    int       `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// RateProductRequest is the payload for rating a product.
type RateProductRequest struct {
	Rating int `json:"rating"`
}
