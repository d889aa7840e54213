package catalog

import (
	"compress/gzip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSeedFile gzips the given lines into a temp seed file.
func writeSeedFile(t *testing.T, lines ...string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "seed.ndjson.gz")
	file, err := os.Create(path)
	require.NoError(t, err)

	gz := gzip.NewWriter(file)
	for _, line := range lines {
		_, err := fmt.Fprintln(gz, line)
		require.NoError(t, err)
	}
	require.NoError(t, gz.Close())
	require.NoError(t, file.Close())

	return path
}

func TestFileSource_Load(t *testing.T) {
	source := NewFileSource(zerolog.Nop())
	ctx := context.Background()

	idA := uuid.New()
	idB := uuid.New()

	path := writeSeedFile(t,
		fmt.Sprintf(`{"id":%q,"name":"Keyboard","price":"49.99","stock":12,"category":"electronics"}`, idA),
		"",
		fmt.Sprintf(`{"id":%q,"name":"Notebook","price":"3.50","stock":100,"category":"stationery"}`, idB),
	)

	products, err := source.Load(ctx, path)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, idA, products[0].ID)
	assert.Equal(t, "Keyboard", products[0].Name)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("49.99")))
	assert.Equal(t, 12, products[0].Stock)
	assert.Equal(t, idB, products[1].ID)
}

func TestFileSource_Load_MissingFile(t *testing.T) {
	source := NewFileSource(zerolog.Nop())

	_, err := source.Load(context.Background(), "/nonexistent/seed.ndjson.gz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open seed file")
}

func TestFileSource_Load_NotGzip(t *testing.T) {
	source := NewFileSource(zerolog.Nop())

	path := filepath.Join(t.TempDir(), "seed.ndjson.gz")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	_, err := source.Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gzip")
}

func TestFileSource_Load_BadRecords(t *testing.T) {
	source := NewFileSource(zerolog.Nop())
	ctx := context.Background()

	tests := []struct {
		name    string
		line    string
		wantErr string
	}{
		{
			name:    "malformed json",
			line:    `{"id": nope}`,
			wantErr: "invalid seed record on line 1",
		},
		{
			name:    "missing id",
			line:    `{"name":"Keyboard","price":"49.99","stock":12}`,
			wantErr: "missing id or name",
		},
		{
			name:    "missing name",
			line:    fmt.Sprintf(`{"id":%q,"price":"49.99","stock":12}`, uuid.New()),
			wantErr: "missing id or name",
		},
		{
			name:    "negative price",
			line:    fmt.Sprintf(`{"id":%q,"name":"Keyboard","price":"-1.00","stock":12}`, uuid.New()),
			wantErr: "negative price or stock",
		},
		{
			name:    "negative stock",
			line:    fmt.Sprintf(`{"id":%q,"name":"Keyboard","price":"1.00","stock":-3}`, uuid.New()),
			wantErr: "negative price or stock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeSeedFile(t, tt.line)

			_, err := source.Load(ctx, path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFileSource_Load_Cancelled(t *testing.T) {
	source := NewFileSource(zerolog.Nop())

	path := writeSeedFile(t,
		fmt.Sprintf(`{"id":%q,"name":"Keyboard","price":"49.99","stock":12}`, uuid.New()),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := source.Load(ctx, path)
	require.ErrorIs(t, err, context.Canceled)
}
