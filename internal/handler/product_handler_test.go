package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Filter(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, userType string, req *model.CreateProductRequest) (*model.Product, error) {
	args := m.Called(ctx, userType, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Restock(ctx context.Context, userType string, id uuid.UUID, quantity int) (*model.Product, error) {
	args := m.Called(ctx, userType, id, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) AveragePricePerCategory(ctx context.Context) ([]model.CategoryAverage, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CategoryAverage), args.Error(1)
}

func (m *MockProductService) Rate(ctx context.Context, userID, productID uuid.UUID, rating int) error {
	args := m.Called(ctx, userID, productID, rating)
	return args.Error(0)
}

func TestProductHandler_GetAll(t *testing.T) {
	logger := zerolog.Nop()

	mockService := new(MockProductService)
	h := NewProductHandler(mockService, logger)

	products := []model.Product{
		{ID: uuid.New(), Name: "Keyboard", Price: decimal.RequireFromString("49.99"), Stock: 12, Category: "electronics"},
	}
	mockService.On("GetAll", mock.Anything, 10, 20).Return(products, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products?limit=10&offset=20", nil)
	rec := httptest.NewRecorder()

	h.GetAll(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Keyboard", got[0].Name)
}

func TestProductHandler_GetByID_NotFound(t *testing.T) {
	logger := zerolog.Nop()
	id := uuid.New()

	mockService := new(MockProductService)
	h := NewProductHandler(mockService, logger)

	mockService.On("GetByID", mock.Anything, id).Return(nil, model.ErrProductNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/products/"+id.String(), nil)
	req.SetPathValue("id", id.String())
	rec := httptest.NewRecorder()

	h.GetByID(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrCodeProductNotFound, resp.Error)
}

func TestProductHandler_Filter(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("parses query parameters", func(t *testing.T) {
		mockService := new(MockProductService)
		h := NewProductHandler(mockService, logger)

		mockService.On("Filter", mock.Anything, mock.MatchedBy(func(f model.ProductFilter) bool {
			return f.MinPrice != nil && f.MinPrice.Equal(decimal.RequireFromString("10.50")) &&
				f.MaxPrice != nil && f.MaxPrice.Equal(decimal.RequireFromString("99.99")) &&
				f.Category != nil && *f.Category == "books"
		})).Return([]model.Product{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/products/filter?minPrice=10.50&maxPrice=99.99&category=books", nil)
		rec := httptest.NewRecorder()

		h.Filter(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("rejects non-numeric price", func(t *testing.T) {
		mockService := new(MockProductService)
		h := NewProductHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/products/filter?minPrice=cheap", nil)
		rec := httptest.NewRecorder()

		h.Filter(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "Filter", mock.Anything, mock.Anything)
	})
}

func TestProductHandler_Create(t *testing.T) {
	logger := zerolog.Nop()
	sellerID := uuid.New()

	t.Run("created by seller", func(t *testing.T) {
		mockService := new(MockProductService)
		h := NewProductHandler(mockService, logger)

		created := &model.Product{ID: uuid.New(), Name: "Widget", Price: decimal.RequireFromString("5.00"), Stock: 10}
		mockService.On("Create", mock.Anything, model.UserTypeSeller, mock.AnythingOfType("*model.CreateProductRequest")).
			Return(created, nil)

		body, err := json.Marshal(model.CreateProductRequest{Name: "Widget", Price: decimal.RequireFromString("5.00"), Stock: 10})
		require.NoError(t, err)

		req := asUser(httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body)), sellerID, model.UserTypeSeller)
		rec := httptest.NewRecorder()

		h.Create(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("forbidden for customer", func(t *testing.T) {
		mockService := new(MockProductService)
		h := NewProductHandler(mockService, logger)

		mockService.On("Create", mock.Anything, model.UserTypeCustomer, mock.Anything).
			Return(nil, model.ErrForbidden)

		body, err := json.Marshal(model.CreateProductRequest{Name: "Widget", Price: decimal.RequireFromString("5.00")})
		require.NoError(t, err)

		req := asUser(httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewReader(body)), uuid.New(), model.UserTypeCustomer)
		rec := httptest.NewRecorder()

		h.Create(rec, req)

		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestProductHandler_Restock(t *testing.T) {
	logger := zerolog.Nop()
	sellerID := uuid.New()
	productID := uuid.New()

	mockService := new(MockProductService)
	h := NewProductHandler(mockService, logger)

	updated := &model.Product{ID: productID, Name: "Widget", Stock: 30}
	mockService.On("Restock", mock.Anything, model.UserTypeSeller, productID, 10).Return(updated, nil)

	body, err := json.Marshal(model.RestockRequest{Quantity: 10})
	require.NoError(t, err)

	req := asUser(httptest.NewRequest(http.MethodPost, "/api/products/"+productID.String()+"/restock", bytes.NewReader(body)), sellerID, model.UserTypeSeller)
	req.SetPathValue("id", productID.String())
	rec := httptest.NewRecorder()

	h.Restock(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got model.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 30, got.Stock)
}

func TestProductHandler_AveragePrice(t *testing.T) {
	logger := zerolog.Nop()

	mockService := new(MockProductService)
	h := NewProductHandler(mockService, logger)

	averages := []model.CategoryAverage{
		{Category: "books", AveragePrice: decimal.RequireFromString("14.25")},
	}
	mockService.On("AveragePricePerCategory", mock.Anything).Return(averages, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/products/avg-price", nil)
	rec := httptest.NewRecorder()

	h.AveragePrice(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.CategoryAverage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "books", got[0].Category)
}

func TestProductHandler_Rate(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()
	productID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockService := new(MockProductService)
		h := NewProductHandler(mockService, logger)

		mockService.On("Rate", mock.Anything, userID, productID, 5).Return(nil)

		body, err := json.Marshal(model.RateProductRequest{Rating: 5})
		require.NoError(t, err)

		req := asUser(httptest.NewRequest(http.MethodPost, "/api/products/"+productID.String()+"/rate", bytes.NewReader(body)), userID, model.UserTypeCustomer)
		req.SetPathValue("id", productID.String())
		rec := httptest.NewRecorder()

		h.Rate(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid rating", func(t *testing.T) {
		mockService := new(MockProductService)
		h := NewProductHandler(mockService, logger)

		mockService.On("Rate", mock.Anything, userID, productID, 9).Return(model.ErrInvalidRating)

		body, err := json.Marshal(model.RateProductRequest{Rating: 9})
		require.NoError(t, err)

		req := asUser(httptest.NewRequest(http.MethodPost, "/api/products/"+productID.String()+"/rate", bytes.NewReader(body)), userID, model.UserTypeCustomer)
		req.SetPathValue("id", productID.String())
		rec := httptest.NewRecorder()

		h.Rate(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
