package model

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCOD    PaymentMethod = "cod"
)

// Valid reports whether m is a known payment method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodOnline || m == PaymentMethodCOD
}

// PaymentStatus tracks the gateway side of an order.
type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusAuthorized PaymentStatus = "authorized"
	PaymentStatusPaid       PaymentStatus = "paid"
	PaymentStatusFailed     PaymentStatus = "failed"
	PaymentStatusRefunded   PaymentStatus = "refunded"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusAuthorized, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// CanTransitionTo reports whether a gateway event may move a payment from s
// to next. Re-applying the current status is allowed and is a no-op.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case PaymentStatusPending:
		return next.Valid()
	case PaymentStatusAuthorized:
		return next == PaymentStatusPaid || next == PaymentStatusFailed || next == PaymentStatusRefunded
	case PaymentStatusFailed:
		return next == PaymentStatusAuthorized || next == PaymentStatusPaid
	case PaymentStatusPaid:
		return next == PaymentStatusRefunded
	}
	return false
}

// OrderStatus tracks fulfilment. Only admins change it.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is an order header. Money fields are in minor currency units.
type Order struct {
	ID              uuid.UUID     `json:"id"`
	OrderNumber     string        `json:"orderNumber"`
	UserID          *uuid.UUID    `json:"userId,omitempty"`
	AddressID       *uuid.UUID    `json:"addressId,omitempty"`
	CustomerName    string        `json:"customerName"`
	CustomerEmail   string        `json:"customerEmail"`
	CustomerPhone   string        `json:"customerPhone"`
	CustomerAddress string        `json:"customerAddress"`
	Subtotal        int64         `json:"subtotal"`
	DeliveryFee     int64         `json:"deliveryFee"`
	Discount        int64         `json:"discount"`
	Total           int64         `json:"total"`
	DiscountCode    *string       `json:"discountCode,omitempty"`
	PaymentMethod   PaymentMethod `json:"paymentMethod"`
	PaymentStatus   PaymentStatus `json:"paymentStatus"`
	PaymentID       *string       `json:"paymentId,omitempty"`
	GatewayOrderID  *string       `json:"gatewayOrderId,omitempty"`
	Status          OrderStatus   `json:"status"`
	Notes           string        `json:"notes"`
	Items           []OrderItem   `json:"items,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// OrderItem is a line item stored in order_items.
type OrderItem struct {
	ID        uuid.UUID `json:"id"`
	OrderID   uuid.UUID `json:"-"`
	ProductID string    `json:"productId"`
	VariantID string    `json:"variantId,omitempty"`
	Name      string    `json:"name"`
	UnitPrice int64     `json:"unitPrice"`
	Quantity  int       `json:"quantity"`
	Unit      string    `json:"unit,omitempty"`
	ImageURL  string    `json:"image,omitempty"`
}

// OrderRequest is the order-creation payload. Currency fields are decimal
// display units (rupees) and are converted to minor units on write.
type OrderRequest struct {
	UserID          *uuid.UUID         `json:"user_id,omitempty"`
	AddressID       *uuid.UUID         `json:"address_id,omitempty"`
	CustomerName    string             `json:"customer_name" validate:"required"`
	CustomerEmail   string             `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone   string             `json:"customer_phone" validate:"required"`
	CustomerAddress string             `json:"customer_address" validate:"required"`
	Items           []OrderLineRequest `json:"items" validate:"required,min=1,dive"`
	Subtotal        *decimal.Decimal   `json:"subtotal" validate:"required"`
	DeliveryFee     *decimal.Decimal   `json:"delivery_fee"`
	Discount        *decimal.Decimal   `json:"discount,omitempty"`
	Total           *decimal.Decimal   `json:"total" validate:"required"`
	DiscountCode    string             `json:"discount_code,omitempty"`
	OrderNumber     string             `json:"order_number,omitempty"`
	PaymentMethod   PaymentMethod      `json:"payment_method" validate:"required,oneof=online cod"`
	PaymentStatus   PaymentStatus      `json:"payment_status,omitempty" validate:"omitempty,oneof=pending authorized paid failed refunded"`
	PaymentID       string             `json:"payment_id,omitempty"`
	GatewayOrderID  string             `json:"gateway_order_id,omitempty"`
	Notes           string             `json:"notes,omitempty"`
}

// OrderLineRequest is a single line of an order payload.
type OrderLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	VariantID string          `json:"variant_id,omitempty"`
	Name      string          `json:"name" validate:"required"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" validate:"max=1000"`
	Unit      string          `json:"unit,omitempty"`
	Image     string          `json:"image,omitempty"`
}

// OrderStatusRequest is the admin payload for changing fulfilment status.
type OrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required"`
}

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status *OrderStatus
	Limit  int
	Offset int
}

// PaymentLookup identifies the order a gateway event refers to.
// Fields are tried in order: payment id, gateway order id, receipt.
type PaymentLookup struct {
	PaymentID      string
	GatewayOrderID string
	Receipt        string
}

const orderNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewOrderNumber returns ORD-<unix millis>-<6 random uppercase alphanumerics>.
func NewOrderNumber(now time.Time) string {
	suffix := make([]byte, 6)
	limit := big.NewInt(int64(len(orderNumberAlphabet)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			panic(fmt.Sprintf("crypto/rand failed: %v", err))
		}
		suffix[i] = orderNumberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix)
}

var orderNumberPattern = regexp.MustCompile(`^ORD-[1-9][0-9]*-[A-Z0-9]{6}$`)

// ValidOrderNumber reports whether s has the NewOrderNumber shape.
func ValidOrderNumber(s string) bool {
	return orderNumberPattern.MatchString(s)
}
