package repository

import (
	"context"
	"errors"

	"freshkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// CatalogRepository defines data access for products and categories.
type CatalogRepository interface {
	// ListProducts returns every product, or only active ones.
	ListProducts(ctx context.Context, activeOnly bool) ([]model.Product, error)

	// GetProduct finds a product by id or slug. Returns nil when absent.
	GetProduct(ctx context.Context, idOrSlug string) (*model.Product, error)

	CreateProduct(ctx context.Context, req model.ProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, req model.ProductRequest) (*model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error

	ListCategories(ctx context.Context) ([]model.Category, error)
	ListSubcategories(ctx context.Context) ([]model.Subcategory, error)
	CreateCategory(ctx context.Context, req model.CategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, req model.CategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines data access for orders and their items.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts an order header within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser returns a customer's orders, newest first, without items.
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error)

	// List returns orders for the back-office, newest first, without items.
	List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error)

	// UpdateStatus sets the fulfilment status.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error)

	// FindForPayment locks and returns the order a gateway event refers to,
	// trying payment id, then gateway order id, then receipt as order number.
	// Returns nil when nothing matches.
	FindForPayment(ctx context.Context, q Querier, lookup model.PaymentLookup) (*model.Order, error)

	// UpdatePaymentStatus sets the payment status and, when non-empty, the
	// payment id.
	UpdatePaymentStatus(ctx context.Context, q Querier, id uuid.UUID, status model.PaymentStatus, paymentID string) (*model.Order, error)

	// RecordWebhookEvent stores a delivered event id. It reports false when
	// the id was already recorded.
	RecordWebhookEvent(ctx context.Context, q Querier, eventID, eventType string) (bool, error)
}

// InventoryRepository defines stock movements.
type InventoryRepository interface {
	// AdjustStock changes a product's stock by change, flooring at zero, and
	// writes an inventory log row.
	AdjustStock(ctx context.Context, q Querier, productID uuid.UUID, change int, reason, reference string) (*model.InventoryLog, error)

	ListLogs(ctx context.Context, productID *uuid.UUID, limit, offset int) ([]model.InventoryLog, error)
}

// AddressRepository defines data access for saved addresses. Every method
// is scoped to the owning user.
type AddressRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (*model.Address, error)
	Create(ctx context.Context, addr *model.Address) error
	Update(ctx context.Context, addr *model.Address) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetDefault(ctx context.Context, userID, id uuid.UUID) (*model.Address, error)
}

// ReviewRepository defines data access for product reviews.
type ReviewRepository interface {
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Review, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)

	// Create inserts the review, credits loyaltyPoints to the author and
	// refreshes the product rating in one transaction.
	Create(ctx context.Context, review *model.Review, loyaltyPoints int) error

	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// WishlistRepository defines data access for wishlists.
type WishlistRepository interface {
	List(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error)
	Add(ctx context.Context, userID, productID uuid.UUID) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
}

// ProfileRepository defines data access for customer profiles.
type ProfileRepository interface {
	// Get returns the profile, creating an empty one on first access.
	Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, userID uuid.UUID, req model.ProfileRequest) (*model.Profile, error)
}

// DiscountRepository defines data access for discount codes.
type DiscountRepository interface {
	// GetByCode returns model.ErrDiscountNotFound when absent.
	GetByCode(ctx context.Context, code string) (*model.DiscountCode, error)
	List(ctx context.Context) ([]model.DiscountCode, error)
	Create(ctx context.Context, req model.DiscountRequest) (*model.DiscountCode, error)
	Update(ctx context.Context, id uuid.UUID, req model.DiscountRequest) (*model.DiscountCode, error)
	UpsertCodes(ctx context.Context, codes []string, template model.DiscountRequest) (int, error)

	// IncrementUsage counts one redemption. It returns
	// model.ErrInvalidDiscount when the usage limit is already reached.
	IncrementUsage(ctx context.Context, q Querier, code string) error
}

// BackOfficeRepository defines data access for vendors and subscriptions.
type BackOfficeRepository interface {
	ListVendors(ctx context.Context) ([]model.Vendor, error)
	CreateVendor(ctx context.Context, req model.VendorRequest) (*model.Vendor, error)
	UpdateVendor(ctx context.Context, id uuid.UUID, req model.VendorRequest) (*model.Vendor, error)

	ListSubscriptions(ctx context.Context, status *model.SubscriptionStatus) ([]model.Subscription, error)
	UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, status model.SubscriptionStatus) (*model.Subscription, error)
}

// Postgres error codes.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

type scanner interface {
	Scan(dest ...any) error
}
