package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"freshkart/internal/discount"
	"freshkart/internal/events"
	"freshkart/internal/metrics"
	"freshkart/internal/model"
	"freshkart/internal/pricing"
	"freshkart/internal/repository"
	"freshkart/internal/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo     repository.OrderRepository
	inventoryRepo repository.InventoryRepository
	discountRepo  repository.DiscountRepository
	validator     discount.Validator
	publisher     events.Publisher
	now           func() time.Time
	logger        zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	inventoryRepo repository.InventoryRepository,
	discountRepo repository.DiscountRepository,
	validator discount.Validator,
	publisher events.Publisher,
	logger zerolog.Logger,
) OrderService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &orderService{
		orderRepo:     orderRepo,
		inventoryRepo: inventoryRepo,
		discountRepo:  discountRepo,
		validator:     validator,
		publisher:     publisher,
		now:           time.Now,
		logger:        logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder writes the order header, its items, the discount redemption
// and the stock movements in one transaction.
func (s *orderService) CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error) {
	if err := s.validateOrderRequest(req); err != nil {
		return nil, err
	}

	code := strings.ToUpper(strings.TrimSpace(req.DiscountCode))
	if code != "" {
		if s.validator == nil {
			return nil, model.ErrInvalidDiscount
		}
		if _, err := s.validator.Validate(ctx, code, pricing.ToMinorUnits(*req.Subtotal)); err != nil {
			s.logger.Warn().
				Str("discount_code", code).
				Err(err).
				Msg("invalid discount code")
			return nil, err
		}
		s.logger.Debug().Str("discount_code", code).Msg("discount code validated")
	}

	order := s.buildOrder(req, code)
	items := make([]model.OrderItem, len(req.Items))
	for i, line := range req.Items {
		items[i] = model.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: line.ProductID,
			VariantID: line.VariantID,
			Name:      line.Name,
			UnitPrice: pricing.ToMinorUnits(line.Price),
			Quantity:  line.Quantity,
			Unit:      line.Unit,
			ImageURL:  line.Image,
		}
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	// Ensure transaction is rolled back on error
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_number", order.OrderNumber).Msg("failed to create order")
		return nil, wrapUnlessDomain("failed to create order", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_number", order.OrderNumber).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	if code != "" {
		if err = s.discountRepo.IncrementUsage(ctx, tx, code); err != nil {
			s.logger.Warn().Err(err).Str("discount_code", code).Msg("discount code could not be redeemed")
			return nil, wrapUnlessDomain("failed to redeem discount code", err)
		}
	}

	for _, item := range items {
		productID, parseErr := uuid.Parse(item.ProductID)
		if parseErr != nil {
			continue
		}
		_, err = s.inventoryRepo.AdjustStock(ctx, tx, productID, -item.Quantity, model.InventoryReasonOrder, order.OrderNumber)
		if errors.Is(err, model.ErrProductNotFound) {
			err = nil
			continue
		}
		if err != nil {
			s.logger.Error().Err(err).Str("product_id", item.ProductID).Msg("failed to adjust stock")
			return nil, fmt.Errorf("failed to adjust stock: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_number", order.OrderNumber).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	order.Items = items
	metrics.OrdersPlacedTotal.WithLabelValues(string(order.PaymentMethod)).Inc()
	s.publish(ctx, order.OrderNumber, events.NewOrderPlaced(order))

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Str("payment_method", string(order.PaymentMethod)).
		Str("payment_status", string(order.PaymentStatus)).
		Int64("total", order.Total).
		Int("item_count", len(items)).
		Msg("order created successfully")

	return order, nil
}

func (s *orderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// GetForCustomer reports another customer's order as not found.
func (s *orderService) GetForCustomer(ctx context.Context, id, userID uuid.UUID) (*model.Order, error) {
	order, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID == nil || *order.UserID != userID {
		return nil, model.ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error) {
	limit, offset = page(limit, offset)
	orders, err := s.orderRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, model.NewValidationError(fmt.Sprintf("invalid order status: %s", *filter.Status))
	}
	filter.Limit, filter.Offset = page(filter.Limit, filter.Offset)

	orders, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, model.NewValidationError(fmt.Sprintf("invalid order status: %s", status))
	}

	order, err := s.orderRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, wrapUnlessDomain("failed to update order status", err)
	}

	metrics.OrderStatusChangesTotal.WithLabelValues(string(status)).Inc()
	s.publish(ctx, order.OrderNumber, events.NewOrderStatusChanged(order))

	return order, nil
}

// validateOrderRequest checks the payload shape and item quantities.
func (s *orderService) validateOrderRequest(req model.OrderRequest) error {
	if err := validation.Struct(req); err != nil {
		s.logger.Warn().Err(err).Msg("order request rejected")
		return err
	}

	for i, item := range req.Items {
		if item.Quantity <= 0 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	if req.Total.IsNegative() || req.Subtotal.IsNegative() {
		return model.NewValidationError("amounts cannot be negative")
	}

	return nil
}

func (s *orderService) buildOrder(req model.OrderRequest, code string) *model.Order {
	now := s.now()

	number := req.OrderNumber
	if !model.ValidOrderNumber(number) {
		number = model.NewOrderNumber(now)
	}

	status := req.PaymentStatus
	if status == "" {
		status = model.PaymentStatusPending
	}

	order := &model.Order{
		ID:              uuid.New(),
		OrderNumber:     number,
		UserID:          req.UserID,
		AddressID:       req.AddressID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		Subtotal:        pricing.ToMinorUnits(*req.Subtotal),
		Total:           pricing.ToMinorUnits(*req.Total),
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   status,
		Status:          model.OrderStatusPending,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.DeliveryFee != nil {
		order.DeliveryFee = pricing.ToMinorUnits(*req.DeliveryFee)
	}
	if req.Discount != nil {
		order.Discount = pricing.ToMinorUnits(*req.Discount)
	}
	if code != "" {
		order.DiscountCode = &code
	}
	if req.PaymentID != "" {
		order.PaymentID = &req.PaymentID
	}
	if req.GatewayOrderID != "" {
		order.GatewayOrderID = &req.GatewayOrderID
	}
	return order
}

// publish sends an event best-effort.
func (s *orderService) publish(ctx context.Context, key string, event any) {
	if err := s.publisher.Publish(ctx, key, event); err != nil {
		s.logger.Warn().Err(err).Str("order_number", key).Msg("failed to publish order event")
	}
}

// wrapUnlessDomain passes domain errors through and wraps everything else.
func wrapUnlessDomain(msg string, err error) error {
	var de *model.DomainError
	if errors.As(err, &de) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
