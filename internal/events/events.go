package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderCreatedEvent is emitted after an order transaction commits.
type OrderCreatedEvent struct {
	EventID     uuid.UUID        `json:"eventId"`
	OrderID     uuid.UUID        `json:"orderId"`
	UserID      uuid.UUID        `json:"userId"`
	TotalAmount decimal.Decimal  `json:"totalAmount"`
	Lines       []OrderEventLine `json:"lines"`
	Timestamp   time.Time        `json:"timestamp"`
}

// OrderEventLine is one purchased line within an OrderCreatedEvent.
type OrderEventLine struct {
	ProductID uuid.UUID       `json:"productId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Publisher emits order events to an external stream. Publishing happens
// after commit: a publish failure never unwinds a committed order.
type Publisher interface {
	PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error

	// Close releases resources held by the publisher.
	Close() error
}

// NopPublisher discards all events. Used when event publishing is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error {
	return nil
}

func (NopPublisher) Close() error { return nil }
