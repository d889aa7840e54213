package model

import (
	"fmt"

	"github.com/google/uuid"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeMissingField      = "MISSING_FIELD"
	ErrCodeEmptyCart         = "EMPTY_CART"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeProductNotFound   = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound     = "ORDER_NOT_FOUND"
	ErrCodeInvalidQuantity   = "INVALID_QUANTITY"
	ErrCodeInvalidRating     = "INVALID_RATING"
	ErrCodeEmailTaken        = "EMAIL_TAKEN"
	ErrCodeInvalidCreds      = "INVALID_CREDENTIALS"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a typed business-logic error with a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart       = NewDomainError(ErrCodeEmptyCart, "Cart is empty")
	ErrProductNotFound = NewDomainError(ErrCodeProductNotFound, "Product not found")
	ErrOrderNotFound   = NewDomainError(ErrCodeOrderNotFound, "Order not found")
	ErrInvalidQuantity = NewDomainError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidRating   = NewDomainError(ErrCodeInvalidRating, "Rating must be between 1 and 5")
	ErrEmailTaken      = NewDomainError(ErrCodeEmailTaken, "Email address is already registered")
	ErrInvalidCreds    = NewDomainError(ErrCodeInvalidCreds, "Invalid email or password")
	ErrUserNotFound    = NewDomainError(ErrCodeUserNotFound, "No such user found")
	ErrForbidden       = NewDomainError(ErrCodeForbidden, "Operation requires a seller account")
)

// InsufficientStockError indicates a checkout line that cannot be satisfied
// by the product's current stock. It names the offending product so the
// client can correct the cart before retrying.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}
