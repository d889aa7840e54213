package router

import (
	"net/http"
	"strings"

	"storefront/internal/auth"
	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
	userHandler *handler.UserHandler,
	tokens *auth.TokenManager,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	// Account routes
	mux.HandleFunc("POST /api/users/signup", userHandler.SignUp)
	mux.HandleFunc("POST /api/users/signin", userHandler.SignIn)
	mux.HandleFunc("PUT /api/users/reset-password", userHandler.ResetPassword)

	// Catalogue routes. The fixed paths must be registered before the {id}
	// wildcard so "filter" and "avg-price" are not parsed as product IDs.
	mux.HandleFunc("GET /api/products", productHandler.GetAll)
	mux.HandleFunc("GET /api/products/filter", productHandler.Filter)
	mux.HandleFunc("GET /api/products/avg-price", productHandler.AveragePrice)
	mux.HandleFunc("GET /api/products/{id}", productHandler.GetByID)
	mux.HandleFunc("POST /api/products", productHandler.Create)
	mux.HandleFunc("POST /api/products/{id}/restock", productHandler.Restock)
	mux.HandleFunc("POST /api/products/{id}/rate", productHandler.Rate)

	// Cart routes
	mux.HandleFunc("GET /api/cart", cartHandler.Get)
	mux.HandleFunc("POST /api/cart/items", cartHandler.AddLine)
	mux.HandleFunc("DELETE /api/cart/items/{productID}", cartHandler.RemoveLine)

	// Order routes
	mux.HandleFunc("POST /api/orders", orderHandler.Place)
	mux.HandleFunc("GET /api/orders", orderHandler.List)
	mux.HandleFunc("GET /api/orders/{id}", orderHandler.GetByID)

	// Apply middleware in order: Recovery -> Logging -> CORS -> JWTAuth
	var h http.Handler = mux
	h = middleware.JWTAuth(tokens, isPublic, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}

// isPublic reports whether a request may pass through without a token.
// Catalogue reads, sign-up, and sign-in are public; everything else under
// /api requires authentication.
func isPublic(r *http.Request) bool {
	if r.URL.Path == "/health" {
		return true
	}

	if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/products") {
		return true
	}

	if r.Method == http.MethodPost &&
		(r.URL.Path == "/api/users/signup" || r.URL.Path == "/api/users/signin") {
		return true
	}

	return false
}
