package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ProductHandler handles catalogue HTTP requests.
type ProductHandler struct {
	service service.ProductService
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// GetAll handles GET /api/products requests with limit/offset pagination.
func (h *ProductHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	limit := queryAsInt(r, "limit", service.DefaultLimit)
	offset := queryAsInt(r, "offset", 0)

	products, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	if products == nil {
		products = []model.Product{}
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid product ID format", h.logger)
		return
	}

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Filter handles GET /api/products/filter requests.
func (h *ProductHandler) Filter(w http.ResponseWriter, r *http.Request) {
	var filter model.ProductFilter

	minPrice, err := priceParam(r, "minPrice")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, err.Error(), h.logger)
		return
	}
	filter.MinPrice = minPrice

	maxPrice, err := priceParam(r, "maxPrice")
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, err.Error(), h.logger)
		return
	}
	filter.MaxPrice = maxPrice

	if category := r.URL.Query().Get("category"); category != "" {
		filter.Category = &category
	}

	products, err := h.service.Filter(r.Context(), filter)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	if products == nil {
		products = []model.Product{}
	}

	writeJSON(w, http.StatusOK, products)
}

// Create handles POST /api/products requests. Seller accounts only.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	userType, ok := middleware.UserType(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authentication required", h.logger)
		return
	}

	var req model.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	product, err := h.service.Create(r.Context(), userType, &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Restock handles POST /api/products/{id}/restock requests. Seller accounts only.
func (h *ProductHandler) Restock(w http.ResponseWriter, r *http.Request) {
	userType, ok := middleware.UserType(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authentication required", h.logger)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid product ID format", h.logger)
		return
	}

	var req model.RestockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	product, err := h.service.Restock(r.Context(), userType, id, req.Quantity)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// AveragePrice handles GET /api/products/avg-price requests.
func (h *ProductHandler) AveragePrice(w http.ResponseWriter, r *http.Request) {
	averages, err := h.service.AveragePricePerCategory(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	if averages == nil {
		averages = []model.CategoryAverage{}
	}

	writeJSON(w, http.StatusOK, averages)
}

// Rate handles POST /api/products/{id}/rate requests.
func (h *ProductHandler) Rate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "authentication required", h.logger)
		return
	}

	productID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid product ID format", h.logger)
		return
	}

	var req model.RateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	if err := h.service.Rate(r.Context(), userID, productID, req.Rating); err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "rated"})
}

// queryAsInt reads an integer query parameter, falling back to a default.
func queryAsInt(r *http.Request, key string, defaultValue int) int {
	if raw := r.URL.Query().Get(key); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			return value
		}
	}
	return defaultValue
}

// priceParam reads an optional decimal query parameter.
func priceParam(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return &d, nil
}
