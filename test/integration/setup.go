package integration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/model"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := database.NewPoolFromConnString(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema applies the migration file to the test database.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	schema, err := os.ReadFile(filepath.Join("..", "..", "migrations", "001_schema.up.sql"))
	if err != nil {
		t.Fatalf("failed to read schema file: %v", err)
	}

	if _, err := pool.Exec(context.Background(), string(schema)); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"reviews", "order_lines", "orders", "cart_items", "users", "products"}
	for _, table := range tables {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// SeedUser inserts a user with a known password and returns it.
func SeedUser(t *testing.T, pool *pgxpool.Pool, userType, password string) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         gofakeit.Name(),
		Email:        gofakeit.Email(),
		PasswordHash: string(hash),
		Type:         userType,
		CreatedAt:    time.Now(),
	}

	_, err = pool.Exec(context.Background(),
		"INSERT INTO users (id, name, email, password_hash, type, created_at) VALUES ($1, $2, $3, $4, $5, $6)",
		user.ID, user.Name, user.Email, user.PasswordHash, user.Type, user.CreatedAt,
	)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return user
}

// SeedProduct inserts a product with the given price and stock and returns it.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, price string, stock int, category string) *model.Product {
	t.Helper()

	product := &model.Product{
		ID:       uuid.New(),
		Name:     gofakeit.ProductName(),
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
		Category: category,
	}

	_, err := pool.Exec(context.Background(),
		"INSERT INTO products (id, name, price, stock, category) VALUES ($1, $2, $3, $4, $5)",
		product.ID, product.Name, product.Price, product.Stock, product.Category,
	)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}

	return product
}

// SeedCartLine inserts a cart line for the given user and product.
func SeedCartLine(t *testing.T, pool *pgxpool.Pool, userID, productID uuid.UUID, quantity int) {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		"INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, $3)",
		userID, productID, quantity,
	)
	if err != nil {
		t.Fatalf("failed to seed cart line: %v", err)
	}
}
