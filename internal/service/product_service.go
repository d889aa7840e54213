package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Pagination defaults for catalogue listing.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all products with pagination.
func (s *productService) GetAll(ctx context.Context, limit, offset int) ([]model.Product, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.GetAll(ctx, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Filter retrieves products matching a price range and category.
func (s *productService) Filter(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	if filter.MinPrice != nil && filter.MinPrice.IsNegative() {
		return nil, fmt.Errorf("minimum price must not be negative")
	}
	if filter.MaxPrice != nil && filter.MaxPrice.IsNegative() {
		return nil, fmt.Errorf("maximum price must not be negative")
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, fmt.Errorf("minimum price must not exceed maximum price")
	}

	products, err := s.productRepo.Filter(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to filter products")
		return nil, fmt.Errorf("failed to filter products: %w", err)
	}

	return products, nil
}

// Create adds a product to the catalogue.
func (s *productService) Create(ctx context.Context, userType string, req *model.CreateProductRequest) (*model.Product, error) {
	if userType != model.UserTypeSeller {
		return nil, model.ErrForbidden
	}

	if req == nil {
		return nil, fmt.Errorf("product request is nil")
	}
	if req.Name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("product price must not be negative")
	}
	if req.Stock < 0 {
		return nil, fmt.Errorf("product stock must not be negative")
	}

	now := time.Now()
	product := &model.Product{
		ID:        uuid.New(),
		Name:      req.Name,
		Price:     req.Price,
		Stock:     req.Stock,
		Category:  req.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID.String()).
		Str("name", product.Name).
		Msg("product created")

	return product, nil
}

// Restock increases a product's stock.
func (s *productService) Restock(ctx context.Context, userType string, id uuid.UUID, quantity int) (*model.Product, error) {
	if userType != model.UserTypeSeller {
		return nil, model.ErrForbidden
	}

	if quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.productRepo.AddStock(ctx, id, quantity)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to restock product")
		return nil, fmt.Errorf("failed to restock product: %w", err)
	}

	if product == nil {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().
		Str("product_id", id.String()).
		Int("added", quantity).
		Int("stock", product.Stock).
		Msg("product restocked")

	return product, nil
}

// AveragePricePerCategory aggregates the mean price per category.
func (s *productService) AveragePricePerCategory(ctx context.Context) ([]model.CategoryAverage, error) {
	averages, err := s.productRepo.AveragePricePerCategory(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to aggregate category averages")
		return nil, fmt.Errorf("failed to aggregate category averages: %w", err)
	}

	return averages, nil
}

// Rate records the user's rating for a product.
func (s *productService) Rate(ctx context.Context, userID, productID uuid.UUID, rating int) error {
	if rating < 1 || rating > 5 {
		return model.ErrInvalidRating
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to rate product: %w", err)
	}
	if product == nil {
		return model.ErrProductNotFound
	}

	now := time.Now()
	review := &model.Review{
		ID:        uuid.New(),
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.productRepo.UpsertReview(ctx, review); err != nil {
		s.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to record rating")
		return fmt.Errorf("failed to rate product: %w", err)
	}

	return nil
}
