package handler

import (
	"net/http"

	"freshkart/internal/middleware"
	"freshkart/internal/model"
	"freshkart/internal/service"

	"github.com/rs/zerolog"
)

// CartHandler handles /api/cart requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// cartKey is the session user id, or the guest cart header.
func cartKey(r *http.Request) string {
	if id, ok := middleware.UserID(r.Context()); ok {
		return id.String()
	}
	return r.Header.Get(CartSessionHeader)
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Get(r.Context(), cartKey(r))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// AddItem handles POST /api/cart/items.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req model.CartItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	view, err := h.service.AddItem(r.Context(), cartKey(r), req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// SetQuantity handles PUT /api/cart/items/{productId}?variantId=.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	var req model.CartQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	view, err := h.service.SetQuantity(r.Context(), cartKey(r), r.PathValue("productId"), r.URL.Query().Get("variantId"), req.Quantity)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// RemoveItem handles DELETE /api/cart/items/{productId}?variantId=.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.RemoveItem(r.Context(), cartKey(r), r.PathValue("productId"), r.URL.Query().Get("variantId"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), cartKey(r)); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
