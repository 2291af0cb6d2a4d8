package handler

import (
	"net/http"
	"strconv"

	"freshkart/internal/catalog"
	"freshkart/internal/model"
	"freshkart/internal/pricing"
	"freshkart/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CatalogHandler handles storefront catalogue requests.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("handler", "catalog").Logger(),
	}
}

// ListProducts handles GET /api/products. Price bounds are given in rupees.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	limit, offset, err := paging(r)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	resp, err := h.service.ListProducts(r.Context(), q, limit, offset)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetProduct handles GET /api/products/{id}, where id may be a slug.
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// ListCategories handles GET /api/categories.
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.ListCategories(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func parseQuery(r *http.Request) (catalog.Query, error) {
	values := r.URL.Query()
	q := catalog.Query{
		Category:    values.Get("category"),
		Subcategory: values.Get("subcategory"),
		Search:      values.Get("q"),
		Sort:        catalog.ParseSort(values.Get("sort")),
	}

	var err error
	if q.MinPrice, err = rupeeParam(values.Get("min_price"), "min_price"); err != nil {
		return q, err
	}
	if q.MaxPrice, err = rupeeParam(values.Get("max_price"), "max_price"); err != nil {
		return q, err
	}

	if raw := values.Get("min_rating"); raw != "" {
		if q.MinRating, err = strconv.ParseFloat(raw, 64); err != nil {
			return q, model.NewValidationError("invalid min_rating parameter")
		}
	}

	return q, nil
}

func rupeeParam(raw, name string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, model.NewValidationError("invalid " + name + " parameter")
	}
	minor := pricing.ToMinorUnits(d)
	return &minor, nil
}
