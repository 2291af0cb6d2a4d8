package handler

import (
	"net/http"

	"freshkart/internal/middleware"
	"freshkart/internal/model"
	"freshkart/internal/service"

	"github.com/rs/zerolog"
)

// OrderResponse is returned when an order is placed.
type OrderResponse struct {
	Success bool         `json:"success"`
	Order   *model.Order `json:"order"`
}

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders requests.
//
// The order belongs to the session user; guests cannot attach a user or a
// saved address. Paid orders are only placed through payment verification.
// Order numbers are always generated server-side.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if id, ok := middleware.UserID(r.Context()); ok {
		req.UserID = &id
	} else {
		req.UserID = nil
		req.AddressID = nil
	}
	req.OrderNumber = ""

	if req.PaymentStatus != "" && req.PaymentStatus != model.PaymentStatusPending {
		writeError(w, http.StatusBadRequest, "payment_status must be pending; verify online payments instead", h.logger)
		return
	}

	order, err := h.service.CreateOrder(r.Context(), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, OrderResponse{Success: true, Order: order})
}

// GetByID handles GET /api/orders/{id} for the order's owner.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	orderID, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	order, err := h.service.GetForCustomer(r.Context(), orderID, userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// List handles GET /api/orders, the session user's order history.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	limit, offset, err := paging(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	orders, err := h.service.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}
