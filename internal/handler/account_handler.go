package handler

import (
	"net/http"

	"freshkart/internal/model"
	"freshkart/internal/service"

	"github.com/rs/zerolog"
)

// AccountHandler handles the session user's wishlist and profile.
type AccountHandler struct {
	wishlist service.WishlistService
	profiles service.ProfileService
	logger   zerolog.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(wishlist service.WishlistService, profiles service.ProfileService, logger zerolog.Logger) *AccountHandler {
	return &AccountHandler{
		wishlist: wishlist,
		profiles: profiles,
		logger:   logger.With().Str("handler", "account").Logger(),
	}
}

// ListWishlist handles GET /api/wishlist.
func (h *AccountHandler) ListWishlist(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	items, err := h.wishlist.List(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// AddToWishlist handles POST /api/wishlist. Adding twice is a no-op.
func (h *AccountHandler) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var req model.WishlistRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := h.wishlist.Add(r.Context(), userID, req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// RemoveFromWishlist handles DELETE /api/wishlist/{productId}.
func (h *AccountHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	productID, err := pathID(r, "productId")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := h.wishlist.Remove(r.Context(), userID, productID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetProfile handles GET /api/profile.
func (h *AccountHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	profile, err := h.profiles.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/profile.
func (h *AccountHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := currentUser(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var req model.ProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	profile, err := h.profiles.Update(r.Context(), userID, req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
