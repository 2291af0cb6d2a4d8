package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"freshkart/internal/handler"
	"freshkart/internal/middleware"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAPIKey    = "admin-key"
	testJWTSecret = "session-secret"
)

// newTestRouter wires handlers without services; only routes that are
// rejected before reaching a service are exercised.
func newTestRouter() http.Handler {
	logger := zerolog.Nop()
	return New(Handlers{
		Catalog:  handler.NewCatalogHandler(nil, logger),
		Cart:     handler.NewCartHandler(nil, logger),
		Checkout: handler.NewCheckoutHandler(nil, nil, logger),
		Order:    handler.NewOrderHandler(nil, logger),
		Payment:  handler.NewPaymentHandler(nil, logger),
		Address:  handler.NewAddressHandler(nil, logger),
		Review:   handler.NewReviewHandler(nil, logger),
		Account:  handler.NewAccountHandler(nil, nil, logger),
		Admin:    handler.NewAdminHandler(nil, nil, logger),
	}, Options{
		AdminAPIKey:    testAPIKey,
		JWTSecret:      testJWTSecret,
		RateLimitRPS:   100,
		RateLimitBurst: 100,
	}, logger)
}

func TestRouter_Health(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRouter_AdminRequiresAPIKey(t *testing.T) {
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/products"},
		{http.MethodPost, "/api/admin/discounts/import"},
		{http.MethodPut, "/api/admin/orders/" + uuid.NewString() + "/status"},
		{http.MethodGet, "/api/admin/subscriptions"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			newTestRouter().ServeHTTP(w, httptest.NewRequest(p.method, p.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)

			req := httptest.NewRequest(p.method, p.path, nil)
			req.Header.Set("X-API-Key", "wrong")
			w = httptest.NewRecorder()
			newTestRouter().ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_AdminInvalidIDReachesHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/admin/products/not-a-uuid", nil)
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_SessionRoutes(t *testing.T) {
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/orders/" + uuid.NewString()},
		{http.MethodGet, "/api/addresses"},
		{http.MethodPost, "/api/reviews"},
		{http.MethodGet, "/api/wishlist"},
		{http.MethodPut, "/api/profile"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			newTestRouter().ServeHTTP(w, httptest.NewRequest(p.method, p.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRouter_InvalidSessionToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ValidSessionReachesHandler(t *testing.T) {
	claims := middleware.SessionClaims{
		Email: "asha@example.com",
		Name:  "Asha Rao",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/orders/not-a-uuid", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/cart", nil)
	w := httptest.NewRecorder()
	newTestRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
