package service

import (
	"context"
	"fmt"
	"strings"

	"freshkart/internal/cart"
	"freshkart/internal/checkout"
	"freshkart/internal/discount"
	"freshkart/internal/model"
	"freshkart/internal/pricing"
	"freshkart/internal/validation"

	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService. Each call rebuilds a
// checkout.Session from the stored cart and the request.
type checkoutService struct {
	store    cart.Store
	deps     checkout.Deps
	payments PaymentService
	policy   pricing.Policy
	logger   zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	store cart.Store,
	addresses AddressService,
	payments PaymentService,
	orders OrderService,
	discounts discount.Validator,
	policy pricing.Policy,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		store: store,
		deps: checkout.Deps{
			Addresses: addresses,
			Payments:  payments,
			Orders:    orders,
			Discounts: discounts,
			Logger:    logger,
		},
		payments: payments,
		policy:   policy,
		logger:   logger.With().Str("service", "checkout").Logger(),
	}
}

// Submit places a cash-on-delivery order and clears the cart, or returns the
// intent for an online payment and leaves the cart untouched.
func (s *checkoutService) Submit(ctx context.Context, key string, customer checkout.Customer, req model.CheckoutRequest) (*CheckoutResult, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	session, err := s.prepare(ctx, key, customer, req)
	if err != nil {
		return nil, err
	}

	intent, err := session.Submit(ctx)
	if err != nil {
		return nil, err
	}
	if intent != nil {
		return &CheckoutResult{Intent: intent}, nil
	}

	s.clearCart(ctx, key)
	return &CheckoutResult{Order: session.Order()}, nil
}

// Complete rebuilds the session submitted earlier, verifies the hosted
// modal's result and places the order as paid.
func (s *checkoutService) Complete(ctx context.Context, key string, customer checkout.Customer, req model.CheckoutCompleteRequest) (*model.Order, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if !model.ValidOrderNumber(req.Receipt) {
		return nil, model.NewValidationError("receipt is not a valid order number")
	}

	// The address was already saved by Submit.
	details := req.CheckoutRequest
	details.SaveAddress = false

	session, err := s.prepare(ctx, key, customer, details)
	if err != nil {
		return nil, err
	}

	intent := checkout.PaymentIntent{
		KeyID:          s.payments.KeyID(),
		GatewayOrderID: req.RazorpayOrderID,
		Amount:         session.Quote().Total,
		Receipt:        req.Receipt,
	}
	if err := session.Resume(intent); err != nil {
		return nil, err
	}

	order, err := session.CompletePayment(ctx, checkout.PaymentResult{
		GatewayOrderID: req.RazorpayOrderID,
		PaymentID:      req.RazorpayPaymentID,
		Signature:      req.RazorpaySignature,
	})
	if err != nil {
		return nil, err
	}

	s.clearCart(ctx, key)
	return order, nil
}

// prepare walks a new session up to StatePaymentSelected.
func (s *checkoutService) prepare(ctx context.Context, key string, customer checkout.Customer, req model.CheckoutRequest) (*checkout.Session, error) {
	if key == "" {
		return nil, model.ErrCartKeyRequired
	}
	c, err := s.store.Load(ctx, key)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load cart")
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	if req.CustomerName != "" {
		customer.Name = req.CustomerName
	}
	if req.CustomerEmail != "" {
		customer.Email = req.CustomerEmail
	}
	if req.CustomerPhone != "" {
		customer.Phone = req.CustomerPhone
	}

	session := checkout.NewSession(s.deps, s.policy, customer)
	if err := session.Start(ctx, c); err != nil {
		return nil, err
	}

	switch {
	case req.AddressID != nil:
		if err := session.SelectSavedAddress(*req.AddressID); err != nil {
			return nil, err
		}
	case req.Address != nil:
		if err := validation.Struct(*req.Address); err != nil {
			return nil, err
		}
		if err := session.EnterAddress(ctx, *req.Address, req.SaveAddress); err != nil {
			return nil, err
		}
	case session.Address() == nil:
		return nil, checkout.ErrAddressNotSelected
	}

	if err := session.SelectPayment(req.PaymentMethod); err != nil {
		return nil, err
	}
	if err := session.ApplyDiscount(ctx, strings.ToUpper(strings.TrimSpace(req.DiscountCode))); err != nil {
		return nil, err
	}
	session.SetNotes(req.Notes)

	return session, nil
}

// clearCart drops the stored cart after an order is placed. A failure only
// leaves a stale cart behind.
func (s *checkoutService) clearCart(ctx context.Context, key string) {
	if err := s.store.Delete(ctx, key); err != nil {
		s.logger.Warn().Err(err).Msg("failed to clear cart after checkout")
	}
}
