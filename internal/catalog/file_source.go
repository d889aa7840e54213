package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// fileSource implements Source for gzipped seed files on the local file system.
type fileSource struct {
	logger zerolog.Logger
}

// NewFileSource creates a new file-based seed source.
func NewFileSource(logger zerolog.Logger) Source {
	return &fileSource{
		logger: logger.With().Str("component", "seed-loader").Logger(),
	}
}

// Load reads a gzipped NDJSON seed file. Each non-empty line is one product
// record.
func (s *fileSource) Load(ctx context.Context, path string) ([]SeedProduct, error) {
	s.logger.Info().Str("file", path).Msg("loading seed file")

	file, err := os.Open(path)
	if err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to open seed file")
		return nil, fmt.Errorf("failed to open seed file %s: %w", path, err)
	}
	defer file.Close()

	products, err := decodeSeed(ctx, file)
	if err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to decode seed file")
		return nil, fmt.Errorf("failed to decode seed file %s: %w", path, err)
	}

	s.logger.Info().
		Str("file", path).
		Int("products_loaded", len(products)).
		Msg("seed file loaded successfully")

	return products, nil
}

// decodeSeed reads gzipped NDJSON product records from r, checking context
// cancellation between lines.
func decodeSeed(ctx context.Context, r io.Reader) ([]SeedProduct, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var products []SeedProduct
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var p SeedProduct
		if err := json.Unmarshal([]byte(line), &p); err != nil {
			return nil, fmt.Errorf("invalid seed record on line %d: %w", lineNo, err)
		}
		if p.ID == uuid.Nil || p.Name == "" {
			return nil, fmt.Errorf("seed record on line %d is missing id or name", lineNo)
		}
		if p.Price.IsNegative() || p.Stock < 0 {
			return nil, fmt.Errorf("seed record on line %d has negative price or stock", lineNo)
		}

		products = append(products, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading seed records: %w", err)
	}

	return products, nil
}
