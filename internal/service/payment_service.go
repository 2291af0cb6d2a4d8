package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"freshkart/internal/config"
	"freshkart/internal/events"
	"freshkart/internal/metrics"
	"freshkart/internal/model"
	"freshkart/internal/payment"
	"freshkart/internal/pricing"
	"freshkart/internal/repository"
	"freshkart/internal/validation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Webhook source recorded on payment status events.
const webhookSource = "webhook"

// paymentService implements PaymentService.
type paymentService struct {
	gateway       payment.Gateway
	orderRepo     repository.OrderRepository
	orders        OrderService
	keySecret     string
	webhookSecret string
	currency      string
	publisher     events.Publisher
	now           func() time.Time
	logger        zerolog.Logger
}

// NewPaymentService creates a new payment service. Orders placed after a
// verified payment go through orders.
func NewPaymentService(
	gateway payment.Gateway,
	orderRepo repository.OrderRepository,
	orders OrderService,
	cfg config.PaymentConfig,
	publisher events.Publisher,
	logger zerolog.Logger,
) PaymentService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "INR"
	}
	return &paymentService{
		gateway:       gateway,
		orderRepo:     orderRepo,
		orders:        orders,
		keySecret:     cfg.KeySecret,
		webhookSecret: cfg.WebhookSecret,
		currency:      currency,
		publisher:     publisher,
		now:           time.Now,
		logger:        logger.With().Str("service", "payment").Logger(),
	}
}

func (s *paymentService) KeyID() string {
	return s.gateway.KeyID()
}

// CreateGatewayOrder converts the rupee amount to minor units and creates a
// gateway order. The receipt defaults to a fresh order number.
func (s *paymentService) CreateGatewayOrder(ctx context.Context, req model.PaymentOrderRequest) (*payment.Order, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	amount := pricing.ToMinorUnits(req.Amount)
	if amount <= 0 {
		return nil, model.NewValidationError("amount must be greater than zero")
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = s.currency
	}
	receipt := req.Receipt
	if receipt == "" {
		receipt = model.NewOrderNumber(s.now())
	}

	return s.createOrder(ctx, payment.OrderRequest{
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Notes:    req.Notes,
	})
}

// CreateOrder creates a gateway order for an amount already in minor units.
func (s *paymentService) CreateOrder(ctx context.Context, amount int64, receipt string) (*payment.Order, error) {
	if amount <= 0 {
		return nil, model.NewValidationError("amount must be greater than zero")
	}
	return s.createOrder(ctx, payment.OrderRequest{
		Amount:   amount,
		Currency: s.currency,
		Receipt:  receipt,
	})
}

func (s *paymentService) createOrder(ctx context.Context, req payment.OrderRequest) (*payment.Order, error) {
	timer := prometheus.NewTimer(metrics.GatewayOrderLatency)
	defer timer.ObserveDuration()

	order, err := s.gateway.CreateOrder(ctx, req)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("receipt", req.Receipt).
			Int64("amount", req.Amount).
			Msg("failed to create gateway order")
		return nil, err
	}
	return order, nil
}

// FetchOrder reads a gateway order.
func (s *paymentService) FetchOrder(ctx context.Context, gatewayOrderID string) (*payment.Order, error) {
	timer := prometheus.NewTimer(metrics.GatewayOrderLatency)
	defer timer.ObserveDuration()

	return s.gateway.FetchOrder(ctx, gatewayOrderID)
}

func (s *paymentService) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return payment.VerifyPaymentSignature(gatewayOrderID, paymentID, signature, s.keySecret)
}

// VerifyAndPlace persists req.Order as a paid online order once the hosted
// modal's signature checks out and the gateway order was created for the
// order's total. Nothing is written on a mismatch. The order number is
// always generated here.
func (s *paymentService) VerifyAndPlace(ctx context.Context, req model.PaymentVerifyRequest) (*model.Order, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if !s.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		metrics.PaymentVerificationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		s.logger.Warn().
			Str("gateway_order_id", req.RazorpayOrderID).
			Str("payment_id", req.RazorpayPaymentID).
			Msg("payment signature mismatch")
		return nil, model.ErrInvalidSignature
	}

	gwOrder, err := s.FetchOrder(ctx, req.RazorpayOrderID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("gateway_order_id", req.RazorpayOrderID).
			Msg("failed to fetch gateway order")
		return nil, err
	}

	if req.Order.Total == nil || gwOrder.Amount != pricing.ToMinorUnits(*req.Order.Total) {
		metrics.PaymentVerificationsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		var total int64
		if req.Order.Total != nil {
			total = pricing.ToMinorUnits(*req.Order.Total)
		}
		s.logger.Warn().
			Str("gateway_order_id", req.RazorpayOrderID).
			Str("payment_id", req.RazorpayPaymentID).
			Int64("charged", gwOrder.Amount).
			Int64("total", total).
			Msg("paid amount does not match order total")
		return nil, model.ErrAmountMismatch
	}
	metrics.PaymentVerificationsTotal.WithLabelValues(metrics.OutcomeVerified).Inc()

	orderReq := req.Order
	orderReq.OrderNumber = ""
	orderReq.PaymentMethod = model.PaymentMethodOnline
	orderReq.PaymentStatus = model.PaymentStatusPaid
	orderReq.PaymentID = req.RazorpayPaymentID
	orderReq.GatewayOrderID = req.RazorpayOrderID

	order, err := s.orders.CreateOrder(ctx, orderReq)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("payment_id", req.RazorpayPaymentID).
			Msg("verified payment could not be recorded")
		return nil, err
	}
	return order, nil
}

// HandleWebhook authenticates the raw body, maps the event to a payment
// status and applies it to the matching order in one transaction.
func (s *paymentService) HandleWebhook(ctx context.Context, body []byte, signature, eventID string) (outcome string, err error) {
	if !payment.VerifyWebhookSignature(body, signature, s.webhookSecret) {
		metrics.WebhookEventsTotal.WithLabelValues("unknown", metrics.OutcomeRejected).Inc()
		s.logger.Warn().Str("event_id", eventID).Msg("webhook signature mismatch")
		return metrics.OutcomeRejected, model.ErrInvalidSignature
	}

	event, err := payment.ParseWebhook(body)
	if err != nil {
		metrics.WebhookEventsTotal.WithLabelValues("unknown", metrics.OutcomeRejected).Inc()
		return metrics.OutcomeRejected, model.NewValidationError(err.Error())
	}

	logger := s.logger.With().
		Str("event", event.Event).
		Str("event_id", eventID).
		Str("payment_id", event.PaymentID).
		Str("gateway_order_id", event.GatewayOrderID).
		Logger()

	defer func() {
		if err != nil {
			outcome = metrics.OutcomeError
		}
		metrics.WebhookEventsTotal.WithLabelValues(event.Event, outcome).Inc()
	}()

	status, ok := payment.StatusForEvent(event.Event)
	if !ok {
		logger.Info().Msg("ignoring unhandled webhook event")
		return metrics.OutcomeIgnored, nil
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to begin transaction")
		return "", fmt.Errorf("failed to apply webhook: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.Error().Err(rbErr).Msg("failed to rollback transaction")
		}
	}()

	if eventID != "" {
		fresh, recErr := s.orderRepo.RecordWebhookEvent(ctx, tx, eventID, event.Event)
		if recErr != nil {
			logger.Error().Err(recErr).Msg("failed to record webhook event")
			return "", fmt.Errorf("failed to record webhook event: %w", recErr)
		}
		if !fresh {
			logger.Info().Msg("duplicate webhook delivery")
			return metrics.OutcomeDuplicate, nil
		}
	}

	order, err := s.orderRepo.FindForPayment(ctx, tx, event.Lookup())
	if err != nil {
		logger.Error().Err(err).Msg("failed to find order for payment")
		return "", fmt.Errorf("failed to find order: %w", err)
	}
	if order == nil {
		// The event id stays unrecorded so a redelivery can still match.
		logger.Warn().Str("receipt", event.Receipt).Msg("no order matches webhook")
		return metrics.OutcomeUnmatched, nil
	}

	if !order.PaymentStatus.CanTransitionTo(status) {
		logger.Info().
			Str("order_number", order.OrderNumber).
			Str("from", string(order.PaymentStatus)).
			Str("to", string(status)).
			Msg("ignoring stale payment status")
		if err = tx.Commit(ctx); err != nil {
			return "", fmt.Errorf("failed to commit webhook: %w", err)
		}
		committed = true
		return metrics.OutcomeIgnored, nil
	}

	if chargesOrder(status) && event.Amount != 0 && event.Amount != order.Total {
		logger.Warn().
			Str("order_number", order.OrderNumber).
			Int64("charged", event.Amount).
			Int64("total", order.Total).
			Msg("webhook amount does not match order total")
		if err = tx.Commit(ctx); err != nil {
			return "", fmt.Errorf("failed to commit webhook: %w", err)
		}
		committed = true
		return metrics.OutcomeIgnored, nil
	}

	updated, err := s.orderRepo.UpdatePaymentStatus(ctx, tx, order.ID, status, event.PaymentID)
	if err != nil {
		logger.Error().Err(err).Str("order_number", order.OrderNumber).Msg("failed to update payment status")
		return "", wrapUnlessDomain("failed to update payment status", err)
	}

	if err = tx.Commit(ctx); err != nil {
		logger.Error().Err(err).Msg("failed to commit webhook")
		return "", fmt.Errorf("failed to commit webhook: %w", err)
	}
	committed = true

	if pubErr := s.publisher.Publish(ctx, updated.OrderNumber, events.NewPaymentStatusChanged(updated, webhookSource)); pubErr != nil {
		logger.Warn().Err(pubErr).Msg("failed to publish payment status event")
	}

	logger.Info().
		Str("order_number", updated.OrderNumber).
		Str("payment_status", string(updated.PaymentStatus)).
		Msg("payment status updated from webhook")

	return metrics.OutcomeApplied, nil
}


// chargesOrder reports whether moving to status means the order was paid for.
func chargesOrder(status model.PaymentStatus) bool {
	return status == model.PaymentStatusPaid || status == model.PaymentStatusAuthorized
}
