package service

import (
	"context"

	"freshkart/internal/cart"
	"freshkart/internal/catalog"
	"freshkart/internal/checkout"
	"freshkart/internal/model"
	"freshkart/internal/payment"
	"freshkart/internal/pricing"

	"github.com/google/uuid"
)

// CatalogService defines read operations for the storefront catalogue.
type CatalogService interface {
	// ListProducts filters, sorts and pages the active products.
	ListProducts(ctx context.Context, q catalog.Query, limit, offset int) (*model.ProductListResponse, error)

	// GetProduct finds an active product by id or slug.
	GetProduct(ctx context.Context, idOrSlug string) (*model.Product, error)

	// ListCategories returns categories and their subcategories.
	ListCategories(ctx context.Context) (*CategoryListResponse, error)
}

// CartService defines operations on a stored cart identified by key.
type CartService interface {
	Get(ctx context.Context, key string) (*CartView, error)
	AddItem(ctx context.Context, key string, req model.CartItemRequest) (*CartView, error)
	SetQuantity(ctx context.Context, key, productID, variantID string, qty int) (*CartView, error)
	RemoveItem(ctx context.Context, key, productID, variantID string) (*CartView, error)
	Clear(ctx context.Context, key string) error

	// Quote prices the request lines, or the stored cart when there are none.
	Quote(ctx context.Context, key string, req model.QuoteRequest) (*pricing.Quote, error)
}

// CheckoutService runs checkout sessions against the stored cart.
type CheckoutService interface {
	// Submit places a cash-on-delivery order or starts an online payment.
	Submit(ctx context.Context, key string, customer checkout.Customer, req model.CheckoutRequest) (*CheckoutResult, error)

	// Complete verifies an online payment and places the order.
	Complete(ctx context.Context, key string, customer checkout.Customer, req model.CheckoutCompleteRequest) (*model.Order, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// CreateOrder validates and persists an order in one transaction.
	CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error)

	// GetByID retrieves an order with its items.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetForCustomer retrieves an order only when userID owns it.
	GetForCustomer(ctx context.Context, id, userID uuid.UUID) (*model.Order, error)

	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error)
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)

	// UpdateStatus changes the fulfilment status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)
}

// PaymentService defines the payment-gateway operations.
type PaymentService interface {
	// CreateGatewayOrder creates a gateway order for a rupee amount.
	CreateGatewayOrder(ctx context.Context, req model.PaymentOrderRequest) (*payment.Order, error)

	// CreateOrder creates a gateway order for an amount in minor units.
	CreateOrder(ctx context.Context, amount int64, receipt string) (*payment.Order, error)

	// FetchOrder reads a gateway order by id.
	FetchOrder(ctx context.Context, gatewayOrderID string) (*payment.Order, error)

	VerifySignature(gatewayOrderID, paymentID, signature string) bool
	KeyID() string

	// VerifyAndPlace checks the payment signature and the charged amount and
	// persists the order as paid.
	VerifyAndPlace(ctx context.Context, req model.PaymentVerifyRequest) (*model.Order, error)

	// HandleWebhook authenticates and applies a gateway event. It returns
	// the outcome recorded in metrics.
	HandleWebhook(ctx context.Context, body []byte, signature, eventID string) (string, error)
}

// AddressService defines operations on a customer's saved addresses.
type AddressService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	Create(ctx context.Context, userID uuid.UUID, req model.AddressRequest) (*model.Address, error)
	Update(ctx context.Context, userID, id uuid.UUID, req model.AddressRequest) (*model.Address, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetDefault(ctx context.Context, userID, id uuid.UUID) (*model.Address, error)
}

// ReviewService defines operations for product reviews.
type ReviewService interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Review, error)
	Create(ctx context.Context, userID uuid.UUID, req model.ReviewRequest) (*model.Review, error)

	// Update and Delete are allowed for the author only.
	Update(ctx context.Context, userID, id uuid.UUID, req model.ReviewUpdateRequest) (*model.Review, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// WishlistService defines operations for a customer's wishlist.
type WishlistService interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error)
	Add(ctx context.Context, userID uuid.UUID, req model.WishlistRequest) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

// ProfileService defines operations for customer profiles.
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, req model.ProfileRequest) (*model.Profile, error)
}

// AdminService defines the back-office operations. Order management lives
// in OrderService.
type AdminService interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	CreateProduct(ctx context.Context, req model.ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req model.ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, req model.CategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req model.CategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	AdjustInventory(ctx context.Context, productID uuid.UUID, req model.InventoryAdjustRequest) (*model.InventoryLog, error)
	ListInventoryLogs(ctx context.Context, productID *uuid.UUID, limit, offset int) ([]model.InventoryLog, error)

	ListVendors(ctx context.Context) ([]model.Vendor, error)
	CreateVendor(ctx context.Context, req model.VendorRequest) (*model.Vendor, error)
	UpdateVendor(ctx context.Context, id uuid.UUID, req model.VendorRequest) (*model.Vendor, error)

	ListDiscounts(ctx context.Context) ([]model.DiscountCode, error)
	CreateDiscount(ctx context.Context, req model.DiscountRequest) (*model.DiscountCode, error)
	UpdateDiscount(ctx context.Context, id uuid.UUID, req model.DiscountRequest) (*model.DiscountCode, error)
	ImportDiscounts(ctx context.Context, req model.DiscountImportRequest) (*model.DiscountImportResult, error)

	ListSubscriptions(ctx context.Context, status *model.SubscriptionStatus) ([]model.Subscription, error)
	UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, req model.SubscriptionStatusRequest) (*model.Subscription, error)
}

// CategoryListResponse is the storefront category tree.
type CategoryListResponse struct {
	Categories    []model.Category    `json:"categories"`
	Subcategories []model.Subcategory `json:"subcategories"`
}

// CartView is a cart with its pricing.
type CartView struct {
	Items []cart.Item `json:"items"`
	Count int         `json:"count"`
	pricing.Quote
}

// CheckoutResult is either a placed order (cash on delivery) or a payment
// intent for the hosted modal (online).
type CheckoutResult struct {
	Order  *model.Order            `json:"order,omitempty"`
	Intent *checkout.PaymentIntent `json:"payment,omitempty"`
}
