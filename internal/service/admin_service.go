package service

import (
	"context"
	"fmt"
	"strings"

	"freshkart/internal/discount"
	"freshkart/internal/model"
	"freshkart/internal/repository"
	"freshkart/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// adminService implements AdminService.
type adminService struct {
	catalogRepo   repository.CatalogRepository
	inventoryRepo repository.InventoryRepository
	db            repository.Querier
	discountRepo  repository.DiscountRepository
	backOffice    repository.BackOfficeRepository
	importer      *discount.Importer
	logger        zerolog.Logger
}

// NewAdminService creates a new admin service. Manual stock adjustments run
// directly on db.
func NewAdminService(
	catalogRepo repository.CatalogRepository,
	inventoryRepo repository.InventoryRepository,
	db repository.Querier,
	discountRepo repository.DiscountRepository,
	backOffice repository.BackOfficeRepository,
	importer *discount.Importer,
	logger zerolog.Logger,
) AdminService {
	return &adminService{
		catalogRepo:   catalogRepo,
		inventoryRepo: inventoryRepo,
		db:            db,
		discountRepo:  discountRepo,
		backOffice:    backOffice,
		importer:      importer,
		logger:        logger.With().Str("service", "admin").Logger(),
	}
}

func (s *adminService) ListProducts(ctx context.Context) ([]model.Product, error) {
	products, err := s.catalogRepo.ListProducts(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *adminService) CreateProduct(ctx context.Context, req model.ProductRequest) (*model.Product, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	p, err := s.catalogRepo.CreateProduct(ctx, req)
	if err != nil {
		return nil, wrapUnlessDomain("failed to create product", err)
	}
	s.logger.Info().Str("product_id", p.ID.String()).Str("slug", p.Slug).Msg("product created")
	return p, nil
}

func (s *adminService) UpdateProduct(ctx context.Context, id uuid.UUID, req model.ProductRequest) (*model.Product, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	p, err := s.catalogRepo.UpdateProduct(ctx, id, req)
	if err != nil {
		return nil, wrapUnlessDomain("failed to update product", err)
	}
	return p, nil
}

func (s *adminService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.catalogRepo.DeleteProduct(ctx, id); err != nil {
		return wrapUnlessDomain("failed to delete product", err)
	}
	s.logger.Info().Str("product_id", id.String()).Msg("product deleted")
	return nil
}

func (s *adminService) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := s.catalogRepo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *adminService) CreateCategory(ctx context.Context, req model.CategoryRequest) (*model.Category, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	c, err := s.catalogRepo.CreateCategory(ctx, req)
	if err != nil {
		return nil, wrapUnlessDomain("failed to create category", err)
	}
	return c, nil
}

func (s *adminService) UpdateCategory(ctx context.Context, id uuid.UUID, req model.CategoryRequest) (*model.Category, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	c, err := s.catalogRepo.UpdateCategory(ctx, id, req)
	if err != nil {
		return nil, wrapUnlessDomain("failed to update category", err)
	}
	return c, nil
}

func (s *adminService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.catalogRepo.DeleteCategory(ctx, id); err != nil {
		return wrapUnlessDomain("failed to delete category", err)
	}
	return nil
}

// AdjustInventory applies a manual stock movement. Stock never drops below
// zero; the log records the requested change.
func (s *adminService) AdjustInventory(ctx context.Context, productID uuid.UUID, req model.InventoryAdjustRequest) (*model.InventoryLog, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	entry, err := s.inventoryRepo.AdjustStock(ctx, s.db, productID, req.Change, req.Reason, "")
	if err != nil {
		return nil, wrapUnlessDomain("failed to adjust stock", err)
	}
	s.logger.Info().
		Str("product_id", productID.String()).
		Int("change", req.Change).
		Int("stock_after", entry.StockAfter).
		Str("reason", req.Reason).
		Msg("stock adjusted")
	return entry, nil
}

func (s *adminService) ListInventoryLogs(ctx context.Context, productID *uuid.UUID, limit, offset int) ([]model.InventoryLog, error) {
	limit, offset = page(limit, offset)
	logs, err := s.inventoryRepo.ListLogs(ctx, productID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory logs: %w", err)
	}
	return logs, nil
}

func (s *adminService) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	vendors, err := s.backOffice.ListVendors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list vendors: %w", err)
	}
	return vendors, nil
}

func (s *adminService) CreateVendor(ctx context.Context, req model.VendorRequest) (*model.Vendor, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	v, err := s.backOffice.CreateVendor(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}
	return v, nil
}

func (s *adminService) UpdateVendor(ctx context.Context, id uuid.UUID, req model.VendorRequest) (*model.Vendor, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	v, err := s.backOffice.UpdateVendor(ctx, id, req)
	if err != nil {
		return nil, wrapUnlessDomain("failed to update vendor", err)
	}
	return v, nil
}

func (s *adminService) ListDiscounts(ctx context.Context) ([]model.DiscountCode, error) {
	codes, err := s.discountRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list discount codes: %w", err)
	}
	return codes, nil
}

func (s *adminService) CreateDiscount(ctx context.Context, req model.DiscountRequest) (*model.DiscountCode, error) {
	if err := s.validateDiscount(&req); err != nil {
		return nil, err
	}
	dc, err := s.discountRepo.Create(ctx, req)
	if err != nil {
		return nil, wrapUnlessDomain("failed to create discount code", err)
	}
	s.logger.Info().Str("discount_code", dc.Code).Msg("discount code created")
	return dc, nil
}

func (s *adminService) UpdateDiscount(ctx context.Context, id uuid.UUID, req model.DiscountRequest) (*model.DiscountCode, error) {
	if err := s.validateDiscount(&req); err != nil {
		return nil, err
	}
	dc, err := s.discountRepo.Update(ctx, id, req)
	if err != nil {
		return nil, wrapUnlessDomain("failed to update discount code", err)
	}
	return dc, nil
}

// ImportDiscounts bulk-loads code files with the request's template terms.
// The template's own code is not used.
func (s *adminService) ImportDiscounts(ctx context.Context, req model.DiscountImportRequest) (*model.DiscountImportResult, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if s.importer == nil {
		return nil, model.NewDomainError(model.ErrCodeValidation, "discount import is not configured")
	}

	template := req.Template
	template.Code = "TEMPLATE"
	if err := s.validateDiscount(&template); err != nil {
		return nil, err
	}

	result, err := s.importer.Import(ctx, req.Files, template)
	if err != nil {
		return nil, wrapUnlessDomain("failed to import discount codes", err)
	}
	return result, nil
}

func (s *adminService) ListSubscriptions(ctx context.Context, status *model.SubscriptionStatus) ([]model.Subscription, error) {
	subs, err := s.backOffice.ListSubscriptions(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

func (s *adminService) UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, req model.SubscriptionStatusRequest) (*model.Subscription, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	sub, err := s.backOffice.UpdateSubscriptionStatus(ctx, id, req.Status)
	if err != nil {
		return nil, wrapUnlessDomain("failed to update subscription", err)
	}
	return sub, nil
}

// validateDiscount upper-cases the code and checks the terms hang together.
func (s *adminService) validateDiscount(req *model.DiscountRequest) error {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if err := validation.Struct(*req); err != nil {
		return err
	}
	if req.Type == model.DiscountTypePercentage && req.Value > 100 {
		return model.NewValidationError("percentage discount cannot exceed 100")
	}
	if req.StartsAt != nil && req.EndsAt != nil && req.EndsAt.Before(*req.StartsAt) {
		return model.NewValidationError("endsAt must not be before startsAt")
	}
	return nil
}
