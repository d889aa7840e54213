package model

import (
	"time"

	"github.com/google/uuid"
)

// User account types.
const (
	UserTypeCustomer = "customer"
	UserTypeSeller   = "seller"
)

// User represents a registered account. PasswordHash is never serialised.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Type         string    `json:"type" db:"type"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// SignUpRequest is the payload for registering a new account.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Type     string `json:"type"`
}

// SignInRequest is the payload for authenticating.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResponse carries the issued bearer token.
type SignInResponse struct {
	Token string `json:"token"`
}

// ResetPasswordRequest is the payload for replacing the caller's password.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword"`
}
