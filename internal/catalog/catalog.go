package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SeedProduct is one catalogue seed record, one JSON object per line of a
// gzipped seed file.
type SeedProduct struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Category string          `json:"category"`
}

// Source defines the interface for reading catalogue seed files.
type Source interface {
	// Load reads a gzipped NDJSON seed file and returns its records.
	Load(ctx context.Context, path string) ([]SeedProduct, error)
}
