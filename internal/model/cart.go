package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is a pending (product, quantity) pair attached to a user.
// Unique per (user, product): repeated adds increment the quantity.
type CartLine struct {
	UserID    uuid.UUID `json:"-" db:"user_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// CartView is a cart line joined with the product's current catalogue state.
// Prices here are live, not snapshots; they become snapshots only at order
// placement.
type CartView struct {
	ProductID   uuid.UUID       `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Stock       int             `json:"stock"`
	Quantity    int             `json:"quantity"`
}

// AddCartLineRequest is the payload for adding a product to the cart.
type AddCartLineRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}
