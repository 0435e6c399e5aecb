package service

import (
	"context"
	"fmt"
	"io"

	"prolens/internal/cache"
	"prolens/internal/model"
	"prolens/internal/report"
	"prolens/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
	relatedLimit    = 8
	exportPageSize  = 500
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	cache       cache.ProductCache
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, productCache cache.ProductCache, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		cache:       productCache,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves products with pagination.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, model.NewValidationError(fmt.Sprintf("unknown category %q", filter.Category))
	}
	if filter.Limit <= 0 {
		filter.Limit = defaultPageSize
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Str("category", string(filter.Category)).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("limit", filter.Limit).
		Int("offset", filter.Offset).
		Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if id <= 0 {
		return nil, model.ErrProductNotFound
	}

	if p, ok := s.cache.Get(ctx, id); ok {
		return p, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	s.cache.Set(ctx, product)
	return product, nil
}

// Related retrieves products of the same category. When category is empty it is
// taken from the product itself.
func (s *productService) Related(ctx context.Context, id int64, category model.Category) ([]model.Product, error) {
	if category == "" {
		product, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		category = product.Category
	}
	if !category.Valid() {
		return nil, model.NewValidationError(fmt.Sprintf("unknown category %q", category))
	}

	products, err := s.productRepo.Related(ctx, category, id, relatedLimit)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get related products")
		return nil, fmt.Errorf("failed to get related products: %w", err)
	}
	return products, nil
}

// Categories lists the categories that currently have products.
func (s *productService) Categories(ctx context.Context) ([]repository.CategoryCount, error) {
	categories, err := s.productRepo.Categories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get categories")
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return categories, nil
}

// Create adds a product.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	product := req.ToProduct()
	if err := s.productRepo.Create(ctx, &product); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("product_id", product.ID).Str("name", product.Name).Msg("product created")
	return &product, nil
}

// Update replaces a product.
func (s *productService) Update(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error) {
	product := req.ToProduct()
	product.ID = id
	if err := s.productRepo.Update(ctx, &product); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, id)
	s.logger.Info().Int64("product_id", id).Msg("product updated")
	return &product, nil
}

// Delete removes a product.
func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, id)
	s.logger.Info().Int64("product_id", id).Msg("product deleted")
	return nil
}

// Export writes every product as an XLSX workbook.
func (s *productService) Export(ctx context.Context, w io.Writer) error {
	var all []model.Product
	for offset := 0; ; offset += exportPageSize {
		page, err := s.productRepo.List(ctx, model.ProductFilter{Limit: exportPageSize, Offset: offset})
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to export products")
			return fmt.Errorf("failed to export products: %w", err)
		}
		all = append(all, page...)
		if len(page) < exportPageSize {
			break
		}
	}
	return report.WriteProducts(w, all)
}
