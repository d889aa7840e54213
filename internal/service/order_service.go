package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/events"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// orderService implements OrderService. PlaceOrder is the only code path
// that ever decreases product stock.
type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	publisher   events.Publisher
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		publisher:   publisher,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// PlaceOrder converts the user's cart into an order within one transaction:
// cart read (locking the product rows), stock validation, order insert,
// per-product stock decrement, cart clear. Any failure rolls the whole unit
// back, so no partial state is ever visible to other transactions.
//
// When two checkouts contend on the same low-stock product, the row locks
// serialise them and the loser fails with InsufficientStockError. Nothing is
// partially fulfilled or queued.
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID) (*model.Order, error) {
	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	// 1. Fetch cart lines joined with current price and stock, locking the
	// product rows until commit.
	var lines []model.CartView
	lines, err = s.cartRepo.ListLinesForUpdate(ctx, tx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to read cart")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	// 2. Empty cart is a precondition failure, not a persistence error.
	if len(lines) == 0 {
		err = model.ErrEmptyCart
		return nil, err
	}

	// 3. Validate stock per line. The locks taken above mean these reads
	// cannot be invalidated by a concurrent checkout before we commit.
	for _, line := range lines {
		if line.Stock < line.Quantity {
			err = &model.InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: line.Stock,
			}
			s.logger.Warn().
				Str("user_id", userID.String()).
				Str("product_id", line.ProductID.String()).
				Int("requested", line.Quantity).
				Int("available", line.Stock).
				Msg("insufficient stock")
			return nil, err
		}
	}

	// 4. Compute the total and build price snapshots.
	order := &model.Order{
		ID:          uuid.New(),
		UserID:      userID,
		TotalAmount: decimal.Zero,
		CreatedAt:   time.Now(),
	}

	orderLines := make([]model.OrderLine, len(lines))
	for i, line := range lines {
		orderLines[i] = model.OrderLine{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
		order.TotalAmount = order.TotalAmount.Add(orderLines[i].LineTotal())
	}
	order.Lines = orderLines

	// 5. Persist the order, decrement stock, and clear the cart, all inside
	// the same transaction.
	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = s.orderRepo.CreateOrderLines(ctx, tx, orderLines); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("line_count", len(orderLines)).
			Msg("failed to create order lines")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	for _, line := range lines {
		var ok bool
		ok, err = s.productRepo.DecrementStock(ctx, tx, line.ProductID, line.Quantity)
		if err != nil {
			s.logger.Error().Err(err).Str("product_id", line.ProductID.String()).Msg("failed to decrement stock")
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
		// Unreachable while the rows are locked, but the guard keeps the
		// no-oversell invariant independent of the locking strategy.
		if !ok {
			err = &model.InsufficientStockError{
				ProductID: line.ProductID,
				Requested: line.Quantity,
				Available: line.Stock,
			}
			return nil, err
		}
	}

	if _, err = s.cartRepo.Clear(ctx, tx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Str("total_amount", order.TotalAmount.String()).
		Int("line_count", len(orderLines)).
		Msg("order placed successfully")

	s.publishOrderCreated(ctx, order)

	return order, nil
}

// publishOrderCreated emits the post-commit event. The order is already
// durable, so a publish failure is logged and swallowed.
func (s *orderService) publishOrderCreated(ctx context.Context, order *model.Order) {
	eventLines := make([]events.OrderEventLine, len(order.Lines))
	for i, line := range order.Lines {
		eventLines[i] = events.OrderEventLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}

	event := events.OrderCreatedEvent{
		EventID:     uuid.New(),
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Lines:       eventLines,
		Timestamp:   time.Now(),
	}

	if err := s.publisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Warn().
			Err(err).
			Str("order_id", order.ID.String()).
			Msg("order committed but event publish failed")
	}
}

// GetByID retrieves one of the user's orders.
func (s *orderService) GetByID(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, userID, orderID)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", orderID.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// ListByUser retrieves the user's order history.
func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	return orders, nil
}
