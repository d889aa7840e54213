package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order is one entry in the append-only order ledger. Immutable once
// created: UnitPrice on each line is a snapshot taken at purchase time,
// decoupled from later catalogue price changes.
type Order struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	UserID      uuid.UUID       `json:"userId" db:"user_id"`
	TotalAmount decimal.Decimal `json:"totalAmount" db:"total_amount"`
	Lines       []OrderLine     `json:"lines"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
}

// OrderLine is a single purchased item within an order.
type OrderLine struct {
	ID        uuid.UUID       `json:"-" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID uuid.UUID       `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
}

// LineTotal returns quantity × unit price for this line.
func (l OrderLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
