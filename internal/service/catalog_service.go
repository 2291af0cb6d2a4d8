package service

import (
	"context"
	"fmt"

	"freshkart/internal/catalog"
	"freshkart/internal/model"
	"freshkart/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// catalogService implements CatalogService.
type catalogService struct {
	catalogRepo repository.CatalogRepository
	logger      zerolog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(catalogRepo repository.CatalogRepository, logger zerolog.Logger) CatalogService {
	return &catalogService{
		catalogRepo: catalogRepo,
		logger:      logger.With().Str("service", "catalog").Logger(),
	}
}

// ListProducts loads the active catalogue and filters it in memory. Total is
// the filtered count before paging.
func (s *catalogService) ListProducts(ctx context.Context, q catalog.Query, limit, offset int) (*model.ProductListResponse, error) {
	limit, offset = page(limit, offset)

	products, err := s.catalogRepo.ListProducts(ctx, true)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	ds := catalog.Dataset{Products: products}
	if q.Category != "" {
		if ds.Categories, err = s.catalogRepo.ListCategories(ctx); err != nil {
			return nil, fmt.Errorf("failed to get categories: %w", err)
		}
	}
	if q.Subcategory != "" {
		if ds.Subcategories, err = s.catalogRepo.ListSubcategories(ctx); err != nil {
			return nil, fmt.Errorf("failed to get subcategories: %w", err)
		}
	}

	filtered := catalog.Filter(ds, q)
	total := len(filtered)

	start := min(offset, total)
	end := min(start+limit, total)

	s.logger.Debug().
		Str("category", q.Category).
		Str("subcategory", q.Subcategory).
		Str("search", q.Search).
		Str("sort", string(q.Sort)).
		Int("total", total).
		Msg("listed products")

	return &model.ProductListResponse{
		Products: filtered[start:end],
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	}, nil
}

// GetProduct retrieves an active product by id or slug.
func (s *catalogService) GetProduct(ctx context.Context, idOrSlug string) (*model.Product, error) {
	if idOrSlug == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.catalogRepo.GetProduct(ctx, idOrSlug)
	if err != nil {
		s.logger.Error().Err(err).Str("product", idOrSlug).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil || !product.Active {
		s.logger.Debug().Str("product", idOrSlug).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

func (s *catalogService) ListCategories(ctx context.Context) (*CategoryListResponse, error) {
	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list categories")
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}

	subcategories, err := s.catalogRepo.ListSubcategories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list subcategories")
		return nil, fmt.Errorf("failed to get subcategories: %w", err)
	}

	return &CategoryListResponse{Categories: categories, Subcategories: subcategories}, nil
}

// page clamps pagination parameters.
func page(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
