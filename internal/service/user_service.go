package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"storefront/internal/auth"
	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// Password length bounds. The upper bound is bcrypt's 72-byte input limit.
const (
	minPasswordLength = 8
	maxPasswordLength = 72
)

// userService implements UserService.
type userService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenManager
	logger   zerolog.Logger
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenManager, logger zerolog.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger.With().Str("service", "user").Logger(),
	}
}

// SignUp registers a new account with a bcrypt-hashed password.
func (s *userService) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.User, error) {
	if err := validateSignUp(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}

	userType := req.Type
	if userType == "" {
		userType = model.UserTypeCustomer
	}

	user := &model.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		PasswordHash: string(hash),
		Type:         userType,
		CreatedAt:    time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID.String()).
		Str("type", user.Type).
		Msg("user registered")

	return user, nil
}

// SignIn verifies credentials and issues a bearer token. Failures are
// deliberately indistinct: unknown email and wrong password both surface as
// ErrInvalidCreds.
func (s *userService) SignIn(ctx context.Context, req *model.SignInRequest) (string, error) {
	if req == nil || req.Email == "" || req.Password == "" {
		return "", model.ErrInvalidCreds
	}

	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(req.Email))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to look up user")
		return "", fmt.Errorf("failed to sign in: %w", err)
	}
	if user == nil {
		return "", model.ErrInvalidCreds
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn().Str("user_id", user.ID.String()).Msg("password mismatch")
		return "", model.ErrInvalidCreds
	}

	token, err := s.tokens.Generate(user.ID, user.Email, user.Type)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID.String()).Msg("failed to sign token")
		return "", fmt.Errorf("failed to sign in: %w", err)
	}

	return token, nil
}

// ResetPassword replaces the authenticated user's password.
func (s *userService) ResetPassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if len(newPassword) < minPasswordLength || len(newPassword) > maxPasswordLength {
		return fmt.Errorf("password must be between %d and %d characters", minPasswordLength, maxPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return fmt.Errorf("failed to reset password: %w", err)
	}

	updated, err := s.userRepo.UpdatePassword(ctx, userID, string(hash))
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}
	if !updated {
		return model.ErrUserNotFound
	}

	s.logger.Info().Str("user_id", userID.String()).Msg("password reset")
	return nil
}

// validateSignUp checks the sign-up payload.
func validateSignUp(req *model.SignUpRequest) error {
	if req == nil {
		return fmt.Errorf("sign-up request is nil")
	}
	if req.Name == "" {
		return fmt.Errorf("name is required")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return fmt.Errorf("a valid email address is required")
	}
	if len(req.Password) < minPasswordLength || len(req.Password) > maxPasswordLength {
		return fmt.Errorf("password must be between %d and %d characters", minPasswordLength, maxPasswordLength)
	}
	if req.Type != "" && req.Type != model.UserTypeCustomer && req.Type != model.UserTypeSeller {
		return fmt.Errorf("user type must be %q or %q", model.UserTypeCustomer, model.UserTypeSeller)
	}
	return nil
}
