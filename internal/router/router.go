package router

import (
	"net/http"

	"freshkart/internal/handler"
	"freshkart/internal/middleware"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Catalog  *handler.CatalogHandler
	Cart     *handler.CartHandler
	Checkout *handler.CheckoutHandler
	Order    *handler.OrderHandler
	Payment  *handler.PaymentHandler
	Address  *handler.AddressHandler
	Review   *handler.ReviewHandler
	Account  *handler.AccountHandler
	Admin    *handler.AdminHandler
}

// Options configures authentication and throttling.
type Options struct {
	AdminAPIKey    string
	JWTSecret      string
	RateLimitRPS   float64
	RateLimitBurst int
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	admin := func(fn http.HandlerFunc) http.Handler {
		return middleware.APIKeyAuth(opts.AdminAPIKey, logger)(fn)
	}
	session := func(fn http.HandlerFunc) http.Handler {
		return middleware.RequireSession(fn)
	}
	limiter := middleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst, logger)
	limited := func(fn http.HandlerFunc) http.Handler {
		return limiter.Limit(fn)
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Catalogue
	mux.HandleFunc("GET /api/products", h.Catalog.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.Catalog.GetProduct)
	mux.HandleFunc("GET /api/categories", h.Catalog.ListCategories)

	// Cart, keyed by session user or X-Cart-Session
	mux.HandleFunc("GET /api/cart", h.Cart.Get)
	mux.HandleFunc("DELETE /api/cart", h.Cart.Clear)
	mux.HandleFunc("POST /api/cart/items", h.Cart.AddItem)
	mux.HandleFunc("PUT /api/cart/items/{productId}", h.Cart.SetQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{productId}", h.Cart.RemoveItem)

	// Checkout and orders
	mux.HandleFunc("POST /api/checkout/quote", h.Checkout.Quote)
	mux.Handle("POST /api/checkout", limited(h.Checkout.Submit))
	mux.Handle("POST /api/checkout/complete", limited(h.Checkout.Complete))
	mux.Handle("POST /api/orders", limited(h.Order.Create))
	mux.Handle("GET /api/orders", session(h.Order.List))
	mux.Handle("GET /api/orders/{id}", session(h.Order.GetByID))

	// Payments. The webhook is authenticated by its signature.
	mux.Handle("POST /api/payments/orders", limited(h.Payment.CreateOrder))
	mux.Handle("POST /api/payments/verify", limited(h.Payment.Verify))
	mux.HandleFunc("POST /api/payments/webhook", h.Payment.Webhook)

	// Account
	mux.Handle("GET /api/addresses", session(h.Address.List))
	mux.Handle("POST /api/addresses", session(h.Address.Create))
	mux.Handle("PUT /api/addresses/{id}", session(h.Address.Update))
	mux.Handle("DELETE /api/addresses/{id}", session(h.Address.Delete))
	mux.Handle("POST /api/addresses/{id}/default", session(h.Address.SetDefault))

	mux.HandleFunc("GET /api/reviews", h.Review.List)
	mux.Handle("POST /api/reviews", session(h.Review.Create))
	mux.Handle("PUT /api/reviews/{id}", session(h.Review.Update))
	mux.Handle("DELETE /api/reviews/{id}", session(h.Review.Delete))

	mux.Handle("GET /api/wishlist", session(h.Account.ListWishlist))
	mux.Handle("POST /api/wishlist", session(h.Account.AddToWishlist))
	mux.Handle("DELETE /api/wishlist/{productId}", session(h.Account.RemoveFromWishlist))

	mux.Handle("GET /api/profile", session(h.Account.GetProfile))
	mux.Handle("PUT /api/profile", session(h.Account.UpdateProfile))

	// Back-office
	mux.Handle("GET /api/admin/products", admin(h.Admin.ListProducts))
	mux.Handle("POST /api/admin/products", admin(h.Admin.CreateProduct))
	mux.Handle("PUT /api/admin/products/{id}", admin(h.Admin.UpdateProduct))
	mux.Handle("DELETE /api/admin/products/{id}", admin(h.Admin.DeleteProduct))

	mux.Handle("GET /api/admin/categories", admin(h.Admin.ListCategories))
	mux.Handle("POST /api/admin/categories", admin(h.Admin.CreateCategory))
	mux.Handle("PUT /api/admin/categories/{id}", admin(h.Admin.UpdateCategory))
	mux.Handle("DELETE /api/admin/categories/{id}", admin(h.Admin.DeleteCategory))

	mux.Handle("POST /api/admin/inventory/{productId}", admin(h.Admin.AdjustInventory))
	mux.Handle("GET /api/admin/inventory/logs", admin(h.Admin.ListInventoryLogs))

	mux.Handle("GET /api/admin/vendors", admin(h.Admin.ListVendors))
	mux.Handle("POST /api/admin/vendors", admin(h.Admin.CreateVendor))
	mux.Handle("PUT /api/admin/vendors/{id}", admin(h.Admin.UpdateVendor))

	mux.Handle("GET /api/admin/discounts", admin(h.Admin.ListDiscounts))
	mux.Handle("POST /api/admin/discounts", admin(h.Admin.CreateDiscount))
	mux.Handle("PUT /api/admin/discounts/{id}", admin(h.Admin.UpdateDiscount))
	mux.Handle("POST /api/admin/discounts/import", admin(h.Admin.ImportDiscounts))

	mux.Handle("GET /api/admin/subscriptions", admin(h.Admin.ListSubscriptions))
	mux.Handle("PUT /api/admin/subscriptions/{id}/status", admin(h.Admin.UpdateSubscriptionStatus))

	mux.Handle("GET /api/admin/orders", admin(h.Admin.ListOrders))
	mux.Handle("GET /api/admin/orders/{id}", admin(h.Admin.GetOrder))
	mux.Handle("PUT /api/admin/orders/{id}/status", admin(h.Admin.UpdateOrderStatus))

	// Apply middleware in order: Recovery -> Logging -> CORS -> SessionAuth -> Metrics.
	// Metrics sits directly on the mux to read the matched pattern.
	var handler http.Handler = mux
	handler = middleware.Metrics(handler)
	handler = middleware.SessionAuth(opts.JWTSecret, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
