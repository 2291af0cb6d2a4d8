package payment

import (
	"encoding/json"
	"fmt"

	"freshkart/internal/model"
)

// Webhook headers.
const (
	SignatureHeader = "X-Razorpay-Signature"
	EventIDHeader   = "X-Razorpay-Event-Id"
)

// Gateway event names.
const (
	EventPaymentCaptured   = "payment.captured"
	EventPaymentAuthorized = "payment.authorized"
	EventPaymentFailed     = "payment.failed"
	EventOrderPaid         = "order.paid"
	EventRefundCreated     = "refund.created"
)

var eventStatus = map[string]model.PaymentStatus{
	EventPaymentCaptured:   model.PaymentStatusPaid,
	EventPaymentAuthorized: model.PaymentStatusAuthorized,
	EventPaymentFailed:     model.PaymentStatusFailed,
	EventOrderPaid:         model.PaymentStatusPaid,
	EventRefundCreated:     model.PaymentStatusRefunded,
}

// StatusForEvent maps a gateway event to the payment status it implies.
// It reports false for events the store does not act on.
func StatusForEvent(event string) (model.PaymentStatus, bool) {
	s, ok := eventStatus[event]
	return s, ok
}

// WebhookEvent is the part of a webhook payload used to locate and update
// an order.
type WebhookEvent struct {
	Event          string
	PaymentID      string
	GatewayOrderID string
	Receipt        string
	Amount         int64
}

// Lookup returns the keys the order can be found by.
func (e WebhookEvent) Lookup() model.PaymentLookup {
	return model.PaymentLookup{
		PaymentID:      e.PaymentID,
		GatewayOrderID: e.GatewayOrderID,
		Receipt:        e.Receipt,
	}
}

type entityEnvelope[T any] struct {
	Entity T `json:"entity"`
}

type webhookPayload struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *entityEnvelope[struct {
			ID      string `json:"id"`
			OrderID string `json:"order_id"`
			Amount  int64  `json:"amount"`
		}] `json:"payment"`
		Order *entityEnvelope[struct {
			ID      string `json:"id"`
			Receipt string `json:"receipt"`
			Amount  int64  `json:"amount"`
		}] `json:"order"`
		Refund *entityEnvelope[struct {
			ID        string `json:"id"`
			PaymentID string `json:"payment_id"`
			Amount    int64  `json:"amount"`
		}] `json:"refund"`
	} `json:"payload"`
}

// ParseWebhook decodes a webhook body. Fields missing from the payload are
// left empty.
func ParseWebhook(body []byte) (WebhookEvent, error) {
	var p webhookPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return WebhookEvent{}, fmt.Errorf("failed to decode webhook: %w", err)
	}
	if p.Event == "" {
		return WebhookEvent{}, fmt.Errorf("webhook has no event name")
	}

	ev := WebhookEvent{Event: p.Event}
	if pay := p.Payload.Payment; pay != nil {
		ev.PaymentID = pay.Entity.ID
		ev.GatewayOrderID = pay.Entity.OrderID
		ev.Amount = pay.Entity.Amount
	}
	if ord := p.Payload.Order; ord != nil {
		if ev.GatewayOrderID == "" {
			ev.GatewayOrderID = ord.Entity.ID
		}
		ev.Receipt = ord.Entity.Receipt
		if ev.Amount == 0 {
			ev.Amount = ord.Entity.Amount
		}
	}
	if ref := p.Payload.Refund; ref != nil {
		if ev.PaymentID == "" {
			ev.PaymentID = ref.Entity.PaymentID
		}
		ev.Amount = ref.Entity.Amount
	}
	return ev, nil
}
