package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// GetAll retrieves all products with pagination.
	GetAll(ctx context.Context, limit, offset int) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// Filter retrieves products matching a price range and category.
	Filter(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)

	// Create adds a product to the catalogue. Seller accounts only.
	Create(ctx context.Context, userType string, req *model.CreateProductRequest) (*model.Product, error)

	// Restock increases a product's stock. Seller accounts only. Restocking
	// is the only stock mutation outside order placement, and it only ever
	// increases stock.
	Restock(ctx context.Context, userType string, id uuid.UUID, quantity int) (*model.Product, error)

	// AveragePricePerCategory aggregates the mean price per category.
	AveragePricePerCategory(ctx context.Context) ([]model.CategoryAverage, error)

	// Rate records the user's rating for a product, overwriting any
	// previous rating by the same user.
	Rate(ctx context.Context, userID, productID uuid.UUID, rating int) error
}

// CartService defines operations for the user's pending cart.
type CartService interface {
	// GetCart retrieves the user's cart with live product prices.
	GetCart(ctx context.Context, userID uuid.UUID) ([]model.CartView, error)

	// AddLine adds a product to the cart; repeated adds increment quantity.
	AddLine(ctx context.Context, userID uuid.UUID, req *model.AddCartLineRequest) error

	// RemoveLine removes a product from the cart.
	RemoveLine(ctx context.Context, userID, productID uuid.UUID) error
}

// OrderService defines the order placement coordinator and ledger reads.
type OrderService interface {
	// PlaceOrder turns the user's cart into an order: it validates stock,
	// snapshots prices, and atomically writes the order, decrements stock,
	// and clears the cart. All of it commits or none of it does.
	PlaceOrder(ctx context.Context, userID uuid.UUID) (*model.Order, error)

	// GetByID retrieves one of the user's orders.
	GetByID(ctx context.Context, userID, orderID uuid.UUID) (*model.Order, error)

	// ListByUser retrieves the user's order history, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)
}

// UserService defines account operations.
type UserService interface {
	// SignUp registers a new account.
	SignUp(ctx context.Context, req *model.SignUpRequest) (*model.User, error)

	// SignIn verifies credentials and issues a bearer token.
	SignIn(ctx context.Context, req *model.SignInRequest) (string, error)

	// ResetPassword replaces the authenticated user's password.
	ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error
}
