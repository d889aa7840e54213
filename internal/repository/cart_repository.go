package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// cartRepository implements the CartRepository interface using PostgreSQL.
type cartRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool *pgxpool.Pool, logger zerolog.Logger) CartRepository {
	return &cartRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "cart").Logger(),
	}
}

// GetCart retrieves the user's cart lines joined with current product details.
func (r *cartRepository) GetCart(ctx context.Context, userID uuid.UUID) ([]model.CartView, error) {
	query := `
		SELECT c.product_id, p.name, p.price, p.stock, c.quantity
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.product_id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart")
		return nil, fmt.Errorf("failed to query cart: %w", err)
	}
	defer rows.Close()

	return scanCartViews(rows)
}

// AddLine upserts a cart line. The (user_id, product_id) uniqueness means a
// repeated add increments the quantity instead of duplicating the row.
func (r *cartRepository) AddLine(ctx context.Context, line *model.CartLine) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()
	`

	_, err := r.pool.Exec(ctx, query, line.UserID, line.ProductID, line.Quantity)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", line.UserID.String()).
			Str("product_id", line.ProductID.String()).
			Msg("failed to add cart line")
		return fmt.Errorf("failed to add cart line: %w", err)
	}

	r.logger.Debug().
		Str("user_id", line.UserID.String()).
		Str("product_id", line.ProductID.String()).
		Int("quantity", line.Quantity).
		Msg("cart line added")

	return nil
}

// DeleteLine removes a single product from the user's cart.
func (r *cartRepository) DeleteLine(ctx context.Context, userID, productID uuid.UUID) (bool, error) {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, userID, productID)
	if err != nil {
		r.logger.Error().Err(err).
			Str("user_id", userID.String()).
			Str("product_id", productID.String()).
			Msg("failed to delete cart line")
		return false, fmt.Errorf("failed to delete cart line: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// ListLinesForUpdate retrieves the user's cart lines with a row lock on each
// underlying product. The ORDER BY product_id keeps lock acquisition order
// consistent across concurrent checkouts, which rules out lock-order
// deadlocks between them.
func (r *cartRepository) ListLinesForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]model.CartView, error) {
	query := `
		SELECT c.product_id, p.name, p.price, p.stock, c.quantity
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.product_id
		FOR UPDATE OF p
	`

	rows, err := tx.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query cart for update")
		return nil, fmt.Errorf("failed to query cart for update: %w", err)
	}
	defer rows.Close()

	return scanCartViews(rows)
}

// Clear removes all of the user's cart lines within the provided transaction.
func (r *cartRepository) Clear(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (int64, error) {
	query := `
		DELETE FROM cart_items
		WHERE user_id = $1
	`

	tag, err := tx.Exec(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to clear cart")
		return 0, fmt.Errorf("failed to clear cart: %w", err)
	}

	return tag.RowsAffected(), nil
}

// scanCartViews collects cart view rows, surfacing scan and iteration errors.
func scanCartViews(rows pgx.Rows) ([]model.CartView, error) {
	var views []model.CartView
	for rows.Next() {
		var v model.CartView
		err := rows.Scan(&v.ProductID, &v.ProductName, &v.UnitPrice, &v.Stock, &v.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart line: %w", err)
		}
		views = append(views, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cart lines: %w", err)
	}

	return views, nil
}
