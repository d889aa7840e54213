package service

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

// GetCart retrieves the user's cart with live product prices.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) ([]model.CartView, error) {
	views, err := s.cartRepo.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to get cart")
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	return views, nil
}

// AddLine adds a product to the cart. Adding the same product again
// increments its quantity.
func (s *cartService) AddLine(ctx context.Context, userID uuid.UUID, req *model.AddCartLineRequest) error {
	if req == nil {
		return fmt.Errorf("cart request is nil")
	}

	if req.Quantity <= 0 {
		s.logger.Warn().
			Str("user_id", userID.String()).
			Str("product_id", req.ProductID.String()).
			Int("quantity", req.Quantity).
			Msg("invalid quantity")
		return model.ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, req.ProductID)
	if err != nil {
		return fmt.Errorf("failed to add cart line: %w", err)
	}
	if product == nil {
		return model.ErrProductNotFound
	}

	line := &model.CartLine{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}

	if err := s.cartRepo.AddLine(ctx, line); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to add cart line")
		return fmt.Errorf("failed to add cart line: %w", err)
	}

	return nil
}

// RemoveLine removes a product from the cart.
func (s *cartService) RemoveLine(ctx context.Context, userID, productID uuid.UUID) error {
	deleted, err := s.cartRepo.DeleteLine(ctx, userID, productID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to remove cart line")
		return fmt.Errorf("failed to remove cart line: %w", err)
	}

	if !deleted {
		return model.ErrProductNotFound
	}

	return nil
}
