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

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) GetCart(ctx context.Context, userID uuid.UUID) ([]model.CartView, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.CartView), args.Error(1)
}

func (m *MockCartService) AddLine(ctx context.Context, userID uuid.UUID, req *model.AddCartLineRequest) error {
	args := m.Called(ctx, userID, req)
	return args.Error(0)
}

func (m *MockCartService) RemoveLine(ctx context.Context, userID, productID uuid.UUID) error {
	args := m.Called(ctx, userID, productID)
	return args.Error(0)
}

func TestCartHandler_Get(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()

	t.Run("returns cart lines", func(t *testing.T) {
		mockService := new(MockCartService)
		h := NewCartHandler(mockService, logger)

		views := []model.CartView{
			{ProductID: uuid.New(), ProductName: "Widget", UnitPrice: decimal.RequireFromString("9.99"), Stock: 5, Quantity: 2},
		}
		mockService.On("GetCart", mock.Anything, userID).Return(views, nil)

		req := asUser(httptest.NewRequest(http.MethodGet, "/api/cart", nil), userID, model.UserTypeCustomer)
		rec := httptest.NewRecorder()

		h.Get(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var got []model.CartView
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "Widget", got[0].ProductName)
	})

	t.Run("empty cart returns empty array", func(t *testing.T) {
		mockService := new(MockCartService)
		h := NewCartHandler(mockService, logger)

		mockService.On("GetCart", mock.Anything, userID).Return(nil, nil)

		req := asUser(httptest.NewRequest(http.MethodGet, "/api/cart", nil), userID, model.UserTypeCustomer)
		rec := httptest.NewRecorder()

		h.Get(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("unauthenticated", func(t *testing.T) {
		mockService := new(MockCartService)
		h := NewCartHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		rec := httptest.NewRecorder()

		h.Get(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		mockService.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	})
}

func TestCartHandler_AddLine(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()
	productID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockService := new(MockCartService)
		h := NewCartHandler(mockService, logger)

		mockService.On("AddLine", mock.Anything, userID, &model.AddCartLineRequest{ProductID: productID, Quantity: 2}).
			Return(nil)

		body, err := json.Marshal(model.AddCartLineRequest{ProductID: productID, Quantity: 2})
		require.NoError(t, err)

		req := asUser(httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewReader(body)), userID, model.UserTypeCustomer)
		rec := httptest.NewRecorder()

		h.AddLine(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("malformed body", func(t *testing.T) {
		mockService := new(MockCartService)
		h := NewCartHandler(mockService, logger)

		req := asUser(httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewReader([]byte("{"))), userID, model.UserTypeCustomer)
		rec := httptest.NewRecorder()

		h.AddLine(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "AddLine", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown product", func(t *testing.T) {
		mockService := new(MockCartService)
		h := NewCartHandler(mockService, logger)

		mockService.On("AddLine", mock.Anything, userID, mock.Anything).Return(model.ErrProductNotFound)

		body, err := json.Marshal(model.AddCartLineRequest{ProductID: productID, Quantity: 1})
		require.NoError(t, err)

		req := asUser(httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewReader(body)), userID, model.UserTypeCustomer)
		rec := httptest.NewRecorder()

		h.AddLine(rec, req)

		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("invalid quantity", func(t *testing.T) {
		mockService := new(MockCartService)
		h := NewCartHandler(mockService, logger)

		mockService.On("AddLine", mock.Anything, userID, mock.Anything).Return(model.ErrInvalidQuantity)

		body, err := json.Marshal(model.AddCartLineRequest{ProductID: productID, Quantity: 0})
		require.NoError(t, err)

		req := asUser(httptest.NewRequest(http.MethodPost, "/api/cart/items", bytes.NewReader(body)), userID, model.UserTypeCustomer)
		rec := httptest.NewRecorder()

		h.AddLine(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp model.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, model.ErrCodeInvalidQuantity, resp.Error)
	})
}

func TestCartHandler_RemoveLine(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()
	productID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockService := new(MockCartService)
		h := NewCartHandler(mockService, logger)

		mockService.On("RemoveLine", mock.Anything, userID, productID).Return(nil)

		req := asUser(httptest.NewRequest(http.MethodDelete, "/api/cart/items/"+productID.String(), nil), userID, model.UserTypeCustomer)
		req.SetPathValue("productID", productID.String())
		rec := httptest.NewRecorder()

		h.RemoveLine(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("malformed product id", func(t *testing.T) {
		mockService := new(MockCartService)
		h := NewCartHandler(mockService, logger)

		req := asUser(httptest.NewRequest(http.MethodDelete, "/api/cart/items/nope", nil), userID, model.UserTypeCustomer)
		req.SetPathValue("productID", "nope")
		rec := httptest.NewRecorder()

		h.RemoveLine(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "RemoveLine", mock.Anything, mock.Anything, mock.Anything)
	})
}
