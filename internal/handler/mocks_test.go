package handler

import (
	"context"

	"freshkart/internal/catalog"
	"freshkart/internal/checkout"
	"freshkart/internal/model"
	"freshkart/internal/payment"
	"freshkart/internal/pricing"
	"freshkart/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockCatalogService is a mock implementation of CatalogService.
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListProducts(ctx context.Context, q catalog.Query, limit, offset int) (*model.ProductListResponse, error) {
	args := m.Called(ctx, q, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProductListResponse), args.Error(1)
}

func (m *MockCatalogService) GetProduct(ctx context.Context, idOrSlug string) (*model.Product, error) {
	args := m.Called(ctx, idOrSlug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockCatalogService) ListCategories(ctx context.Context) (*service.CategoryListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CategoryListResponse), args.Error(1)
}

// MockCartService is a mock implementation of CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) view(args mock.Arguments) (*service.CartView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartView), args.Error(1)
}

func (m *MockCartService) Get(ctx context.Context, key string) (*service.CartView, error) {
	return m.view(m.Called(ctx, key))
}

func (m *MockCartService) AddItem(ctx context.Context, key string, req model.CartItemRequest) (*service.CartView, error) {
	return m.view(m.Called(ctx, key, req))
}

func (m *MockCartService) SetQuantity(ctx context.Context, key, productID, variantID string, qty int) (*service.CartView, error) {
	return m.view(m.Called(ctx, key, productID, variantID, qty))
}

func (m *MockCartService) RemoveItem(ctx context.Context, key, productID, variantID string) (*service.CartView, error) {
	return m.view(m.Called(ctx, key, productID, variantID))
}

func (m *MockCartService) Clear(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCartService) Quote(ctx context.Context, key string, req model.QuoteRequest) (*pricing.Quote, error) {
	args := m.Called(ctx, key, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Quote), args.Error(1)
}

// MockCheckoutService is a mock implementation of CheckoutService.
type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) Submit(ctx context.Context, key string, customer checkout.Customer, req model.CheckoutRequest) (*service.CheckoutResult, error) {
	args := m.Called(ctx, key, customer, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CheckoutResult), args.Error(1)
}

func (m *MockCheckoutService) Complete(ctx context.Context, key string, customer checkout.Customer, req model.CheckoutCompleteRequest) (*model.Order, error) {
	args := m.Called(ctx, key, customer, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

// MockOrderService is a mock implementation of OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) order(args mock.Arguments) (*model.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error) {
	return m.order(m.Called(ctx, req))
}

func (m *MockOrderService) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return m.order(m.Called(ctx, id))
}

func (m *MockOrderService) GetForCustomer(ctx context.Context, id, userID uuid.UUID) (*model.Order, error) {
	return m.order(m.Called(ctx, id, userID))
}

func (m *MockOrderService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Order, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) List(ctx context.Context, filter model.OrderFilter) ([]model.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) (*model.Order, error) {
	return m.order(m.Called(ctx, id, status))
}

// MockPaymentService is a mock implementation of PaymentService.
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreateGatewayOrder(ctx context.Context, req model.PaymentOrderRequest) (*payment.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Order), args.Error(1)
}

func (m *MockPaymentService) CreateOrder(ctx context.Context, amount int64, receipt string) (*payment.Order, error) {
	args := m.Called(ctx, amount, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Order), args.Error(1)
}

func (m *MockPaymentService) FetchOrder(ctx context.Context, gatewayOrderID string) (*payment.Order, error) {
	args := m.Called(ctx, gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Order), args.Error(1)
}

func (m *MockPaymentService) VerifySignature(gatewayOrderID, paymentID, signature string) bool {
	return m.Called(gatewayOrderID, paymentID, signature).Bool(0)
}

func (m *MockPaymentService) KeyID() string {
	return m.Called().String(0)
}

func (m *MockPaymentService) VerifyAndPlace(ctx context.Context, req model.PaymentVerifyRequest) (*model.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockPaymentService) HandleWebhook(ctx context.Context, body []byte, signature, eventID string) (string, error) {
	args := m.Called(ctx, body, signature, eventID)
	return args.String(0), args.Error(1)
}

// MockReviewService is a mock implementation of ReviewService.
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, userID uuid.UUID, req model.ReviewRequest) (*model.Review, error) {
	args := m.Called(ctx, userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, userID, id uuid.UUID, req model.ReviewUpdateRequest) (*model.Review, error) {
	args := m.Called(ctx, userID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}
