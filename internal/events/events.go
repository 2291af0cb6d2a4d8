// Package events publishes order lifecycle events.
package events

import (
	"context"
	"time"

	"freshkart/internal/model"

	"github.com/google/uuid"
)

// Event types.
const (
	TypeOrderPlaced         = "ORDER_PLACED"
	TypePaymentStatusChange = "ORDER_PAYMENT_STATUS_CHANGED"
	TypeOrderStatusChange   = "ORDER_STATUS_CHANGED"
)

// BaseEvent contains common fields for all events.
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

func newBase(eventType string) BaseEvent {
	return BaseEvent{EventID: uuid.NewString(), EventType: eventType, Timestamp: time.Now().UTC()}
}

// OrderPlaced is published after an order is written.
type OrderPlaced struct {
	BaseEvent
	OrderID       uuid.UUID           `json:"order_id"`
	OrderNumber   string              `json:"order_number"`
	UserID        *uuid.UUID          `json:"user_id,omitempty"`
	Total         int64               `json:"total"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
	Items         []ItemData          `json:"items"`
}

// ItemData is a line item in an event.
type ItemData struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

// PaymentStatusChanged is published when a gateway event moves an order.
type PaymentStatusChanged struct {
	BaseEvent
	OrderID     uuid.UUID           `json:"order_id"`
	OrderNumber string              `json:"order_number"`
	Status      model.PaymentStatus `json:"status"`
	Source      string              `json:"source"`
}

// OrderStatusChanged is published when an admin moves an order.
type OrderStatusChanged struct {
	BaseEvent
	OrderID     uuid.UUID         `json:"order_id"`
	OrderNumber string            `json:"order_number"`
	Status      model.OrderStatus `json:"status"`
}

// NewOrderPlaced builds an OrderPlaced event for o.
func NewOrderPlaced(o *model.Order) *OrderPlaced {
	items := make([]ItemData, len(o.Items))
	for i, it := range o.Items {
		items[i] = ItemData{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return &OrderPlaced{
		BaseEvent:     newBase(TypeOrderPlaced),
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		UserID:        o.UserID,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		PaymentStatus: o.PaymentStatus,
		Items:         items,
	}
}

// NewPaymentStatusChanged builds a PaymentStatusChanged event for o.
func NewPaymentStatusChanged(o *model.Order, source string) *PaymentStatusChanged {
	return &PaymentStatusChanged{
		BaseEvent:   newBase(TypePaymentStatusChange),
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Status:      o.PaymentStatus,
		Source:      source,
	}
}

// NewOrderStatusChanged builds an OrderStatusChanged event for o.
func NewOrderStatusChanged(o *model.Order) *OrderStatusChanged {
	return &OrderStatusChanged{
		BaseEvent:   newBase(TypeOrderStatusChange),
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status,
	}
}

// Publisher sends events keyed by order number.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
	Close() error
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }

func (NopPublisher) Close() error { return nil }
