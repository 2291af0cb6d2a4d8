package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"freshkart/internal/checkout"
	"freshkart/internal/model"
	"freshkart/internal/pricing"
	"freshkart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCheckoutMux(co *MockCheckoutService, cart *MockCartService) *http.ServeMux {
	h := NewCheckoutHandler(co, cart, zerolog.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/checkout/quote", h.Quote)
	mux.HandleFunc("POST /api/checkout", h.Submit)
	mux.HandleFunc("POST /api/checkout/complete", h.Complete)
	return mux
}

func TestCheckoutHandler_Quote(t *testing.T) {
	cart := new(MockCartService)
	cart.On("Quote", mock.Anything, "guest-123", model.QuoteRequest{DiscountCode: "FRESH10"}).
		Return(&pricing.Quote{Subtotal: 49800, DeliveryFee: 4000, Discount: 4980, Total: 48820}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/quote", bytes.NewReader([]byte(`{"discount_code":"FRESH10"}`)))
	req.Header.Set(CartSessionHeader, "guest-123")
	w := httptest.NewRecorder()
	newCheckoutMux(new(MockCheckoutService), cart).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, QuoteResponse{Subtotal: 49800, DeliveryFee: 4000, Discount: 4980, Total: 48820}, resp)
	cart.AssertExpectations(t)
}

func TestCheckoutHandler_Quote_InvalidDiscount(t *testing.T) {
	cart := new(MockCartService)
	cart.On("Quote", mock.Anything, "guest-123", mock.Anything).Return(nil, model.ErrInvalidDiscount)

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/quote", bytes.NewReader([]byte(`{"discount_code":"EXPIRED"}`)))
	req.Header.Set(CartSessionHeader, "guest-123")
	w := httptest.NewRecorder()
	newCheckoutMux(new(MockCheckoutService), cart).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckoutHandler_Submit(t *testing.T) {
	userID := uuid.New()

	t.Run("Cash on delivery places the order", func(t *testing.T) {
		co := new(MockCheckoutService)
		wantCustomer := checkout.Customer{UserID: &userID, Name: "Asha Rao", Email: "asha@example.com"}
		co.On("Submit", mock.Anything, userID.String(), wantCustomer, mock.MatchedBy(func(req model.CheckoutRequest) bool {
			return req.PaymentMethod == model.PaymentMethodCOD
		})).Return(&service.CheckoutResult{Order: &model.Order{ID: uuid.New(), PaymentMethod: model.PaymentMethodCOD}}, nil)

		req := asUser(httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewReader([]byte(`{"payment_method":"cod"}`))), userID)
		w := httptest.NewRecorder()
		newCheckoutMux(co, new(MockCartService)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var resp OrderResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		require.NotNil(t, resp.Order)
		co.AssertExpectations(t)
	})

	t.Run("Online returns the payment intent", func(t *testing.T) {
		co := new(MockCheckoutService)
		intent := &checkout.PaymentIntent{KeyID: "rzp_test_key", GatewayOrderID: "order_Nx1", Amount: 53800, Currency: "INR", Receipt: "rcpt_1"}
		co.On("Submit", mock.Anything, "guest-123", checkout.Customer{}, mock.Anything).
			Return(&service.CheckoutResult{Intent: intent}, nil)

		req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewReader([]byte(`{"payment_method":"online"}`)))
		req.Header.Set(CartSessionHeader, "guest-123")
		w := httptest.NewRecorder()
		newCheckoutMux(co, new(MockCartService)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp service.CheckoutResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Nil(t, resp.Order)
		assert.Equal(t, intent, resp.Intent)
	})

	t.Run("Empty cart", func(t *testing.T) {
		co := new(MockCheckoutService)
		co.On("Submit", mock.Anything, "guest-123", checkout.Customer{}, mock.Anything).
			Return(nil, model.NewValidationError("cart is empty"))

		req := httptest.NewRequest(http.MethodPost, "/api/checkout", bytes.NewReader([]byte(`{"payment_method":"cod"}`)))
		req.Header.Set(CartSessionHeader, "guest-123")
		w := httptest.NewRecorder()
		newCheckoutMux(co, new(MockCartService)).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "cart is empty", decodeError(t, w).Error)
	})
}

func TestCheckoutHandler_Complete(t *testing.T) {
	co := new(MockCheckoutService)
	co.On("Complete", mock.Anything, "guest-123", checkout.Customer{}, mock.MatchedBy(func(req model.CheckoutCompleteRequest) bool {
		return req.Receipt == "rcpt_1" && req.RazorpayPaymentID == "pay_Nx1"
	})).Return(&model.Order{ID: uuid.New(), PaymentStatus: model.PaymentStatusPaid}, nil)

	body := []byte(`{"payment_method":"online","receipt":"rcpt_1","razorpay_order_id":"order_Nx1","razorpay_payment_id":"pay_Nx1","razorpay_signature":"sig"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/complete", bytes.NewReader(body))
	req.Header.Set(CartSessionHeader, "guest-123")
	w := httptest.NewRecorder()
	newCheckoutMux(co, new(MockCartService)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	co.AssertExpectations(t)
}
