package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItemRequest adds a product to the cart. Name and price come from the
// catalogue, never from the client.
type CartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity" validate:"max=1000"`
}

// CartQuantityRequest sets the quantity of a cart line. Zero or less removes it.
type CartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"max=1000"`
}

// QuoteRequest prices either the listed lines or, when Items is empty, the
// caller's stored cart.
type QuoteRequest struct {
	Items        []OrderLineRequest `json:"items" validate:"omitempty,dive"`
	DiscountCode string             `json:"discount_code"`
}

// CheckoutRequest submits a checkout for the caller's stored cart. Either
// AddressID or Address is used; a signed-in customer's default address
// applies when both are omitted.
type CheckoutRequest struct {
	AddressID     *uuid.UUID      `json:"address_id"`
	Address       *AddressRequest `json:"address"`
	SaveAddress   bool            `json:"save_address"`
	PaymentMethod PaymentMethod   `json:"payment_method" validate:"required,oneof=online cod"`
	DiscountCode  string          `json:"discount_code"`
	Notes         string          `json:"notes" validate:"max=500"`
	CustomerName  string          `json:"customer_name" validate:"max=100"`
	CustomerEmail string          `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone string          `json:"customer_phone" validate:"omitempty,min=10,max=15"`
}

// CheckoutCompleteRequest finishes an online checkout with the result of
// the hosted payment modal.
type CheckoutCompleteRequest struct {
	CheckoutRequest
	Receipt           string `json:"receipt" validate:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

// PaymentOrderRequest creates a gateway order. Amount is in rupees.
type PaymentOrderRequest struct {
	Amount   decimal.Decimal   `json:"amount"`
	Currency string            `json:"currency" validate:"omitempty,len=3"`
	Receipt  string            `json:"receipt" validate:"max=40"`
	Notes    map[string]string `json:"notes"`
}

// PaymentVerifyRequest carries the hosted modal's result together with the
// order to persist once the signature checks out.
type PaymentVerifyRequest struct {
	RazorpayOrderID   string       `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string       `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string       `json:"razorpay_signature" validate:"required"`
	Order             OrderRequest `json:"order"`
}
