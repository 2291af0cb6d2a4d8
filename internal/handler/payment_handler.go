package handler

import (
	"errors"
	"io"
	"net/http"

	"freshkart/internal/middleware"
	"freshkart/internal/model"
	"freshkart/internal/payment"
	"freshkart/internal/service"

	"github.com/rs/zerolog"
)

// PaymentHandler handles gateway orders, checkout verification and the
// gateway webhook.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// CreateOrder handles POST /api/payments/orders. Amount is in rupees.
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentOrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	order, err := h.service.CreateGatewayOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Verify handles POST /api/payments/verify.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req model.PaymentVerifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if id, ok := middleware.UserID(r.Context()); ok {
		req.Order.UserID = &id
	} else {
		req.Order.UserID = nil
		req.Order.AddressID = nil
	}

	order, err := h.service.VerifyAndPlace(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, OrderResponse{Success: true, Order: order})
}

// Webhook handles POST /api/payments/webhook. The signature covers the raw
// body, so it is read before any decoding.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", h.logger)
		return
	}

	outcome, err := h.service.HandleWebhook(
		r.Context(),
		body,
		r.Header.Get(payment.SignatureHeader),
		r.Header.Get(payment.EventIDHeader),
	)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSignature) {
			h.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("webhook signature rejected")
		}
		writeServiceError(w, err, h.logger)
		return
	}

	h.logger.Debug().Str("outcome", outcome).Msg("webhook processed")
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
