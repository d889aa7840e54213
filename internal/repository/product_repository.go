package repository

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination support.
func (r *productRepository) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `
		SELECT id, name, price, stock, category, created_at, updated_at
		FROM products
		ORDER BY name
		LIMIT $1 OFFSET $2
	`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", limit).
			Int("offset", offset).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := `
		SELECT id, name, price, stock, category, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Price, &p.Stock, &p.Category, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// Filter retrieves products matching the given price range and category.
// Nil filter fields are ignored.
func (r *productRepository) Filter(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	query := `
		SELECT id, name, price, stock, category, created_at, updated_at
		FROM products
		WHERE ($1::numeric IS NULL OR price >= $1)
		  AND ($2::numeric IS NULL OR price <= $2)
		  AND ($3::text IS NULL OR category = $3)
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query, filter.MinPrice, filter.MaxPrice, filter.Category)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to filter products")
		return nil, fmt.Errorf("failed to filter products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (id, name, price, stock, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID, product.Name, product.Price, product.Stock,
		product.Category, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Str("product_id", product.ID.String()).Msg("product created")
	return nil
}

// AddStock atomically increases a product's stock and returns the updated row.
func (r *productRepository) AddStock(ctx context.Context, id uuid.UUID, quantity int) (*model.Product, error) {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1
		RETURNING id, name, price, stock, category, created_at, updated_at
	`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id, quantity).Scan(
		&p.ID, &p.Name, &p.Price, &p.Stock, &p.Category, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to add stock")
		return nil, fmt.Errorf("failed to add stock: %w", err)
	}

	r.logger.Debug().
		Str("product_id", id.String()).
		Int("added", quantity).
		Int("stock", p.Stock).
		Msg("stock increased")

	return &p, nil
}

// DecrementStock decreases a product's stock within the provided transaction.
// The stock >= quantity guard makes overselling impossible even if callers
// validated against a stale read.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = now()
		WHERE id = $1 AND stock >= $2
	`

	tag, err := tx.Exec(ctx, query, id, quantity)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to decrement stock")
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// AveragePricePerCategory aggregates the mean product price per category.
func (r *productRepository) AveragePricePerCategory(ctx context.Context) ([]model.CategoryAverage, error) {
	query := `
		SELECT category, ROUND(AVG(price), 2) AS average_price
		FROM products
		GROUP BY category
		ORDER BY category
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to aggregate category averages")
		return nil, fmt.Errorf("failed to aggregate category averages: %w", err)
	}
	defer rows.Close()

	var averages []model.CategoryAverage
	for rows.Next() {
		var avg model.CategoryAverage
		if err := rows.Scan(&avg.Category, &avg.AveragePrice); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category average row")
			return nil, fmt.Errorf("failed to scan category average: %w", err)
		}
		averages = append(averages, avg)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category average rows")
		return nil, fmt.Errorf("error iterating category averages: %w", err)
	}

	return averages, nil
}

// UpsertReview records a user's rating, overwriting any previous rating by
// the same user for the same product.
func (r *productRepository) UpsertReview(ctx context.Context, review *model.Review) error {
	query := `
		INSERT INTO reviews (id, product_id, user_id, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id, user_id)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		review.ID, review.ProductID, review.UserID,
		review.Rating, review.CreatedAt, review.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("product_id", review.ProductID.String()).
			Str("user_id", review.UserID.String()).
			Msg("failed to upsert review")
		return fmt.Errorf("failed to upsert review: %w", err)
	}

	return nil
}

// ListReviews retrieves all reviews for a product.
func (r *productRepository) ListReviews(ctx context.Context, productID uuid.UUID) ([]model.Review, error) {
	query := `
		SELECT id, product_id, user_id, rating, created_at, updated_at
		FROM reviews
		WHERE product_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to query reviews")
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var rev model.Review
		err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.Rating, &rev.CreatedAt, &rev.UpdatedAt)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan review row")
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating review rows")
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

// scanProducts collects product rows, surfacing scan and iteration errors.
func scanProducts(rows pgx.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Stock, &p.Category, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
