package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// GetAll retrieves all products with pagination support.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by its ID. Returns nil when the
	// product does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Filter retrieves products matching the given price range and category.
	Filter(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// AddStock atomically increases a product's stock by the given quantity
	// and returns the updated product. Returns nil when the product does
	// not exist.
	AddStock(ctx context.Context, id uuid.UUID, quantity int) (*model.Product, error)

	// DecrementStock decreases a product's stock by the given quantity
	// within the provided transaction. The update is guarded by
	// stock >= quantity; it returns false when the guard fails.
	DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) (bool, error)

	// AveragePricePerCategory aggregates the mean product price per category.
	AveragePricePerCategory(ctx context.Context) ([]model.CategoryAverage, error)

	// UpsertReview records a user's rating for a product, overwriting any
	// previous rating by the same user.
	UpsertReview(ctx context.Context, review *model.Review) error

	// ListReviews retrieves all reviews for a product.
	ListReviews(ctx context.Context, productID uuid.UUID) ([]model.Review, error)
}

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// GetCart retrieves the user's cart lines joined with current product
	// name and price.
	GetCart(ctx context.Context, userID uuid.UUID) ([]model.CartView, error)

	// AddLine upserts a cart line: a repeated add for the same product
	// increments the quantity instead of duplicating the row.
	AddLine(ctx context.Context, line *model.CartLine) error

	// DeleteLine removes a single product from the user's cart. Returns
	// false when no such line existed.
	DeleteLine(ctx context.Context, userID, productID uuid.UUID) (bool, error)

	// ListLinesForUpdate retrieves the user's cart lines joined with
	// current product price and stock, locking the underlying product rows
	// for the duration of the transaction. Rows are ordered by product ID
	// so concurrent checkouts acquire locks in a consistent order.
	ListLinesForUpdate(ctx context.Context, tx pgx.Tx, userID uuid.UUID) ([]model.CartView, error)

	// Clear removes all of the user's cart lines within the provided
	// transaction. Returns the number of lines removed.
	Clear(ctx context.Context, tx pgx.Tx, userID uuid.UUID) (int64, error)
}

// OrderRepository defines the interface for order ledger access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderLines inserts the order's line items within the provided
	// transaction.
	CreateOrderLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error

	// GetByID retrieves one of the user's orders with its lines. Returns
	// nil when no such order exists for the user.
	GetByID(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)

	// ListByUser retrieves all of the user's orders, newest first,
	// including their lines.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
}

// UserRepository defines the interface for user account access.
type UserRepository interface {
	// Create inserts a new user. Returns model.ErrEmailTaken when the
	// email address is already registered.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail retrieves a user by email address. Returns nil when no
	// such user exists.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID retrieves a user by ID. Returns nil when no such user exists.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)

	// UpdatePassword replaces the user's password hash. Returns false when
	// no such user exists.
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) (bool, error)
}
