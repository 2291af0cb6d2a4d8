package service

import (
	"context"
	"fmt"
	"strings"

	"freshkart/internal/cart"
	"freshkart/internal/discount"
	"freshkart/internal/model"
	"freshkart/internal/pricing"
	"freshkart/internal/repository"
	"freshkart/internal/validation"

	"github.com/rs/zerolog"
)

// cartService implements CartService.
type cartService struct {
	store       cart.Store
	catalogRepo repository.CatalogRepository
	discounts   discount.Validator
	policy      pricing.Policy
	logger      zerolog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(
	store cart.Store,
	catalogRepo repository.CatalogRepository,
	discounts discount.Validator,
	policy pricing.Policy,
	logger zerolog.Logger,
) CartService {
	return &cartService{
		store:       store,
		catalogRepo: catalogRepo,
		discounts:   discounts,
		policy:      policy,
		logger:      logger.With().Str("service", "cart").Logger(),
	}
}

func (s *cartService) Get(ctx context.Context, key string) (*CartView, error) {
	c, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.view(c), nil
}

// AddItem prices the line from the catalogue and merges it into the cart.
func (s *cartService) AddItem(ctx context.Context, key string, req model.CartItemRequest) (*CartView, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	product, err := s.catalogRepo.GetProduct(ctx, req.ProductID)
	if err != nil {
		s.logger.Error().Err(err).Str("product", req.ProductID).Msg("failed to look up product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil || !product.Active {
		return nil, model.ErrProductNotFound
	}

	c, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	c.Add(cart.Item{
		ProductID: product.ID.String(),
		VariantID: req.VariantID,
		Name:      product.Name,
		UnitPrice: product.Price,
		Quantity:  req.Quantity,
		Unit:      product.Unit,
		Image:     product.ImageURL,
	})

	if err := s.save(ctx, key, c); err != nil {
		return nil, err
	}

	s.logger.Debug().
		Str("product_id", product.ID.String()).
		Int("count", c.Count()).
		Msg("item added to cart")

	return s.view(c), nil
}

// SetQuantity sets a line's quantity; zero or less removes the line.
func (s *cartService) SetQuantity(ctx context.Context, key, productID, variantID string, qty int) (*CartView, error) {
	if err := validation.Struct(model.CartQuantityRequest{Quantity: qty}); err != nil {
		return nil, err
	}

	c, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}
	if _, ok := c.Get(productID, variantID); !ok {
		return nil, model.ErrCartItemNotFound
	}

	c.SetQty(productID, variantID, qty)
	if err := s.save(ctx, key, c); err != nil {
		return nil, err
	}
	return s.view(c), nil
}

func (s *cartService) RemoveItem(ctx context.Context, key, productID, variantID string) (*CartView, error) {
	c, err := s.load(ctx, key)
	if err != nil {
		return nil, err
	}

	c.Remove(productID, variantID)
	if err := s.save(ctx, key, c); err != nil {
		return nil, err
	}
	return s.view(c), nil
}

func (s *cartService) Clear(ctx context.Context, key string) error {
	if key == "" {
		return model.ErrCartKeyRequired
	}
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear cart")
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *cartService) Quote(ctx context.Context, key string, req model.QuoteRequest) (*pricing.Quote, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	var subtotal int64
	if len(req.Items) > 0 {
		for _, line := range req.Items {
			if line.Quantity <= 0 {
				return nil, model.ErrInvalidQuantity
			}
			subtotal += pricing.ToMinorUnits(line.Price) * int64(line.Quantity)
		}
	} else {
		c, err := s.load(ctx, key)
		if err != nil {
			return nil, err
		}
		subtotal = c.Subtotal()
	}

	var amount int64
	if code := strings.ToUpper(strings.TrimSpace(req.DiscountCode)); code != "" {
		if s.discounts == nil {
			return nil, model.ErrInvalidDiscount
		}
		var err error
		if amount, err = s.discounts.Validate(ctx, code, subtotal); err != nil {
			return nil, err
		}
	}

	q := s.policy.Quote(subtotal, amount)
	return &q, nil
}

func (s *cartService) load(ctx context.Context, key string) (*cart.Cart, error) {
	if key == "" {
		return nil, model.ErrCartKeyRequired
	}
	c, err := s.store.Load(ctx, key)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return c, nil
}

func (s *cartService) save(ctx context.Context, key string, c *cart.Cart) error {
	if err := s.store.Save(ctx, key, c); err != nil {
		s.logger.Error().Err(err).Msg("failed to save cart")
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (s *cartService) view(c *cart.Cart) *CartView {
	return &CartView{
		Items: c.Items(),
		Count: c.Count(),
		Quote: s.policy.Quote(c.Subtotal(), 0),
	}
}
