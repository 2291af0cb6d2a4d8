package handler

import (
	"net/http"

	"freshkart/internal/checkout"
	"freshkart/internal/middleware"
	"freshkart/internal/model"
	"freshkart/internal/service"

	"github.com/rs/zerolog"
)

// CheckoutHandler handles /api/checkout requests.
type CheckoutHandler struct {
	checkout service.CheckoutService
	cart     service.CartService
	logger   zerolog.Logger
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(checkoutService service.CheckoutService, cartService service.CartService, logger zerolog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkoutService,
		cart:     cartService,
		logger:   logger.With().Str("handler", "checkout").Logger(),
	}
}

// QuoteResponse is the priced breakdown in minor units.
type QuoteResponse struct {
	Subtotal    int64 `json:"subtotal"`
	DeliveryFee int64 `json:"delivery_fee"`
	Discount    int64 `json:"discount"`
	Total       int64 `json:"total"`
}

// Quote handles POST /api/checkout/quote. Without items the caller's stored
// cart is priced.
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req model.QuoteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	q, err := h.cart.Quote(r.Context(), cartKey(r), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, QuoteResponse{
		Subtotal:    q.Subtotal,
		DeliveryFee: q.DeliveryFee,
		Discount:    q.Discount,
		Total:       q.Total,
	})
}

// Submit handles POST /api/checkout. Cash on delivery answers 201 with the
// order; online answers 200 with the payment intent for the hosted modal.
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	result, err := h.checkout.Submit(r.Context(), cartKey(r), customer(r), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if result.Order != nil {
		writeJSON(w, http.StatusCreated, OrderResponse{Success: true, Order: result.Order})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Complete handles POST /api/checkout/complete.
func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req model.CheckoutCompleteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	order, err := h.checkout.Complete(r.Context(), cartKey(r), customer(r), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, OrderResponse{Success: true, Order: order})
}

func customer(r *http.Request) checkout.Customer {
	s, ok := middleware.SessionFrom(r.Context())
	if !ok {
		return checkout.Customer{}
	}
	id := s.UserID
	return checkout.Customer{UserID: &id, Name: s.Name, Email: s.Email}
}
