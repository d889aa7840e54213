package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Importer loads catalogue seed files and upserts their records into the
// products table. It runs once at startup, before the server accepts
// requests, so it never contends with checkout transactions.
type Importer struct {
	source Source
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewImporter creates a new catalogue importer.
func NewImporter(source Source, pool *pgxpool.Pool, logger zerolog.Logger) *Importer {
	return &Importer{
		source: source,
		pool:   pool,
		logger: logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Run loads all seed files concurrently and upserts the combined records.
// A failure in any file fails the whole import.
func (i *Importer) Run(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}

	i.logger.Info().
		Int("file_count", len(paths)).
		Msg("starting catalogue import")

	type loadResult struct {
		path     string
		products []SeedProduct
		err      error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for _, path := range paths {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()

			products, err := i.source.Load(ctx, path)
			resultChan <- loadResult{
				path:     path,
				products: products,
				err:      err,
			}
		}(path)
	}

	wg.Wait()
	close(resultChan)

	var all []SeedProduct
	for result := range resultChan {
		if result.err != nil {
			return fmt.Errorf("failed to load seed file %s: %w", result.path, result.err)
		}
		all = append(all, result.products...)
	}

	if err := i.upsert(ctx, all); err != nil {
		return err
	}

	i.logger.Info().
		Int("products_imported", len(all)).
		Msg("catalogue import completed")

	return nil
}

// upsert writes the seed records, updating name, price, and category for
// existing products. Stock is only set for new products: overwriting the
// live stock of an existing product would bypass the checkout invariants.
func (i *Importer) upsert(ctx context.Context, products []SeedProduct) error {
	query := `
		INSERT INTO products (id, name, price, stock, category, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		ON CONFLICT (id)
		DO UPDATE SET name = EXCLUDED.name, price = EXCLUDED.price,
		              category = EXCLUDED.category, updated_at = now()
	`

	for _, p := range products {
		if _, err := i.pool.Exec(ctx, query, p.ID, p.Name, p.Price, p.Stock, p.Category); err != nil {
			i.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to upsert seed product")
			return fmt.Errorf("failed to upsert seed product %s: %w", p.ID, err)
		}
	}

	return nil
}
