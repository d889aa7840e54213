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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) SignIn(ctx context.Context, req *model.SignInRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	args := m.Called(ctx, userID, newPassword)
	return args.Error(0)
}

func TestUserHandler_SignUp(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("success omits password hash", func(t *testing.T) {
		mockService := new(MockUserService)
		h := NewUserHandler(mockService, logger)

		created := &model.User{
			ID:           uuid.New(),
			Name:         "Alice",
			Email:        "alice@example.com",
			PasswordHash: "$2a$10$secret",
			Type:         model.UserTypeCustomer,
		}
		mockService.On("SignUp", mock.Anything, mock.AnythingOfType("*model.SignUpRequest")).Return(created, nil)

		body, err := json.Marshal(model.SignUpRequest{Name: "Alice", Email: "alice@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/users/signup", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		h.SignUp(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.NotContains(t, rec.Body.String(), "$2a$10$secret")
	})

	t.Run("duplicate email", func(t *testing.T) {
		mockService := new(MockUserService)
		h := NewUserHandler(mockService, logger)

		mockService.On("SignUp", mock.Anything, mock.Anything).Return(nil, model.ErrEmailTaken)

		body, err := json.Marshal(model.SignUpRequest{Name: "Alice", Email: "alice@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/users/signup", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		h.SignUp(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)

		var resp model.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, model.ErrCodeEmailTaken, resp.Error)
	})

	t.Run("malformed body", func(t *testing.T) {
		mockService := new(MockUserService)
		h := NewUserHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPost, "/api/users/signup", bytes.NewReader([]byte("{")))
		rec := httptest.NewRecorder()

		h.SignUp(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		mockService.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
	})
}

func TestUserHandler_SignIn(t *testing.T) {
	logger := zerolog.Nop()

	t.Run("success returns token", func(t *testing.T) {
		mockService := new(MockUserService)
		h := NewUserHandler(mockService, logger)

		mockService.On("SignIn", mock.Anything, mock.AnythingOfType("*model.SignInRequest")).
			Return("signed.jwt.token", nil)

		body, err := json.Marshal(model.SignInRequest{Email: "alice@example.com", Password: "s3cret-pass"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/users/signin", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		h.SignIn(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp model.SignInResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "signed.jwt.token", resp.Token)
	})

	t.Run("bad credentials", func(t *testing.T) {
		mockService := new(MockUserService)
		h := NewUserHandler(mockService, logger)

		mockService.On("SignIn", mock.Anything, mock.Anything).Return("", model.ErrInvalidCreds)

		body, err := json.Marshal(model.SignInRequest{Email: "alice@example.com", Password: "wrong"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/api/users/signin", bytes.NewReader(body))
		rec := httptest.NewRecorder()

		h.SignIn(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestUserHandler_ResetPassword(t *testing.T) {
	logger := zerolog.Nop()
	userID := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockService := new(MockUserService)
		h := NewUserHandler(mockService, logger)

		mockService.On("ResetPassword", mock.Anything, userID, "new-s3cret").Return(nil)

		body, err := json.Marshal(model.ResetPasswordRequest{NewPassword: "new-s3cret"})
		require.NoError(t, err)

		req := asUser(httptest.NewRequest(http.MethodPut, "/api/users/reset-password", bytes.NewReader(body)), userID, model.UserTypeCustomer)
		rec := httptest.NewRecorder()

		h.ResetPassword(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		mockService := new(MockUserService)
		h := NewUserHandler(mockService, logger)

		req := httptest.NewRequest(http.MethodPut, "/api/users/reset-password", nil)
		rec := httptest.NewRecorder()

		h.ResetPassword(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		mockService.AssertNotCalled(t, "ResetPassword", mock.Anything, mock.Anything, mock.Anything)
	})
}
