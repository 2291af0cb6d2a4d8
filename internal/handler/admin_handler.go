package handler

import (
	"net/http"

	"freshkart/internal/model"
	"freshkart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AdminHandler handles the back-office under /api/admin. Each screen is a
// plain read-modify-write over one table.
type AdminHandler struct {
	admin  service.AdminService
	orders service.OrderService
	logger zerolog.Logger
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(admin service.AdminService, orders service.OrderService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		admin:  admin,
		orders: orders,
		logger: logger.With().Str("handler", "admin").Logger(),
	}
}

// respond writes v, or the mapped error.
func (h *AdminHandler) respond(w http.ResponseWriter, status int, v any, err error) {
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, v)
}

// withID parses {id} and runs fn.
func (h *AdminHandler) withID(w http.ResponseWriter, r *http.Request, fn func(id uuid.UUID)) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	fn(id)
}

// withBody decodes the request body into req and runs fn.
func withBody[T any](h *AdminHandler, w http.ResponseWriter, r *http.Request, fn func(req T)) {
	var req T
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	fn(req)
}

// Products

func (h *AdminHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.admin.ListProducts(r.Context())
	h.respond(w, http.StatusOK, products, err)
}

func (h *AdminHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	withBody(h, w, r, func(req model.ProductRequest) {
		p, err := h.admin.CreateProduct(r.Context(), req)
		h.respond(w, http.StatusCreated, p, err)
	})
}

func (h *AdminHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id uuid.UUID) {
		withBody(h, w, r, func(req model.ProductRequest) {
			p, err := h.admin.UpdateProduct(r.Context(), id, req)
			h.respond(w, http.StatusOK, p, err)
		})
	})
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id uuid.UUID) {
		h.respond(w, http.StatusNoContent, nil, h.admin.DeleteProduct(r.Context(), id))
	})
}

// Categories

func (h *AdminHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.admin.ListCategories(r.Context())
	h.respond(w, http.StatusOK, categories, err)
}

func (h *AdminHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	withBody(h, w, r, func(req model.CategoryRequest) {
		c, err := h.admin.CreateCategory(r.Context(), req)
		h.respond(w, http.StatusCreated, c, err)
	})
}

func (h *AdminHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id uuid.UUID) {
		withBody(h, w, r, func(req model.CategoryRequest) {
			c, err := h.admin.UpdateCategory(r.Context(), id, req)
			h.respond(w, http.StatusOK, c, err)
		})
	})
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id uuid.UUID) {
		h.respond(w, http.StatusNoContent, nil, h.admin.DeleteCategory(r.Context(), id))
	})
}

// Inventory

// AdjustInventory handles POST /api/admin/inventory/{productId}.
func (h *AdminHandler) AdjustInventory(w http.ResponseWriter, r *http.Request) {
	productID, err := pathID(r, "productId")
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	withBody(h, w, r, func(req model.InventoryAdjustRequest) {
		entry, err := h.admin.AdjustInventory(r.Context(), productID, req)
		h.respond(w, http.StatusOK, entry, err)
	})
}

// ListInventoryLogs handles GET /api/admin/inventory/logs?product_id=.
func (h *AdminHandler) ListInventoryLogs(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := paging(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	var productID *uuid.UUID
	if raw := r.URL.Query().Get("product_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid product_id parameter", h.logger)
			return
		}
		productID = &id
	}

	logs, err := h.admin.ListInventoryLogs(r.Context(), productID, limit, offset)
	h.respond(w, http.StatusOK, logs, err)
}

// Vendors

func (h *AdminHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.admin.ListVendors(r.Context())
	h.respond(w, http.StatusOK, vendors, err)
}

func (h *AdminHandler) CreateVendor(w http.ResponseWriter, r *http.Request) {
	withBody(h, w, r, func(req model.VendorRequest) {
		v, err := h.admin.CreateVendor(r.Context(), req)
		h.respond(w, http.StatusCreated, v, err)
	})
}

func (h *AdminHandler) UpdateVendor(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id uuid.UUID) {
		withBody(h, w, r, func(req model.VendorRequest) {
			v, err := h.admin.UpdateVendor(r.Context(), id, req)
			h.respond(w, http.StatusOK, v, err)
		})
	})
}

// Discounts

func (h *AdminHandler) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	codes, err := h.admin.ListDiscounts(r.Context())
	h.respond(w, http.StatusOK, codes, err)
}

func (h *AdminHandler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	withBody(h, w, r, func(req model.DiscountRequest) {
		dc, err := h.admin.CreateDiscount(r.Context(), req)
		h.respond(w, http.StatusCreated, dc, err)
	})
}

func (h *AdminHandler) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id uuid.UUID) {
		withBody(h, w, r, func(req model.DiscountRequest) {
			dc, err := h.admin.UpdateDiscount(r.Context(), id, req)
			h.respond(w, http.StatusOK, dc, err)
		})
	})
}

// ImportDiscounts handles POST /api/admin/discounts/import.
func (h *AdminHandler) ImportDiscounts(w http.ResponseWriter, r *http.Request) {
	withBody(h, w, r, func(req model.DiscountImportRequest) {
		result, err := h.admin.ImportDiscounts(r.Context(), req)
		h.respond(w, http.StatusOK, result, err)
	})
}

// Subscriptions

// ListSubscriptions handles GET /api/admin/subscriptions?status=.
func (h *AdminHandler) ListSubscriptions(w http.ResponseWriter, r *http.Request) {
	var status *model.SubscriptionStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := model.SubscriptionStatus(raw)
		status = &s
	}
	subs, err := h.admin.ListSubscriptions(r.Context(), status)
	h.respond(w, http.StatusOK, subs, err)
}

func (h *AdminHandler) UpdateSubscriptionStatus(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id uuid.UUID) {
		withBody(h, w, r, func(req model.SubscriptionStatusRequest) {
			sub, err := h.admin.UpdateSubscriptionStatus(r.Context(), id, req)
			h.respond(w, http.StatusOK, sub, err)
		})
	})
}

// Orders

// ListOrders handles GET /api/admin/orders?status=&limit=&offset=.
func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := paging(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	filter := model.OrderFilter{Limit: limit, Offset: offset}
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := model.OrderStatus(raw)
		filter.Status = &s
	}

	orders, err := h.orders.List(r.Context(), filter)
	h.respond(w, http.StatusOK, orders, err)
}

func (h *AdminHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id uuid.UUID) {
		order, err := h.orders.GetByID(r.Context(), id)
		h.respond(w, http.StatusOK, order, err)
	})
}

// UpdateOrderStatus handles PUT /api/admin/orders/{id}/status.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(id uuid.UUID) {
		withBody(h, w, r, func(req model.OrderStatusRequest) {
			order, err := h.orders.UpdateStatus(r.Context(), id, req.Status)
			h.respond(w, http.StatusOK, order, err)
		})
	})
}
