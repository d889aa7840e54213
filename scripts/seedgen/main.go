// Command seedgen creates a gzipped NDJSON catalogue seed file with random
// products, for exercising the import path locally.
package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"storefront/internal/catalog"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var categories = []string{"electronics", "books", "clothing", "toys", "grocery", "tools"}

func main() {
	out := flag.String("out", "data/seed/products.ndjson.gz", "output file path")
	count := flag.Int("count", 100, "number of products to generate")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	file, err := os.Create(*out)
	if err != nil {
		log.Fatalf("failed to create %s: %v", *out, err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	encoder := json.NewEncoder(gz)

	for i := 0; i < *count; i++ {
		product := catalog.SeedProduct{
			ID:       uuid.New(),
			Name:     gofakeit.ProductName(),
			Price:    decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2),
			Stock:    gofakeit.Number(0, 200),
			Category: categories[gofakeit.Number(0, len(categories)-1)],
		}
		if err := encoder.Encode(product); err != nil {
			log.Fatalf("failed to encode product: %v", err)
		}
	}

	if err := gz.Close(); err != nil {
		log.Fatalf("failed to flush gzip writer: %v", err)
	}

	fmt.Printf("Created %s with %d products\n", *out, *count)
}
