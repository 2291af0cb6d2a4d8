// Package payment talks to a Razorpay-compatible payment gateway.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"freshkart/internal/config"
	"freshkart/internal/model"

	"github.com/rs/zerolog"
)

// OrderRequest asks the gateway for a new order. Amount is in minor units.
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Order is the gateway's handle for an intended charge.
type Order struct {
	ID         string `json:"id"`
	Entity     string `json:"entity"`
	Amount     int64  `json:"amount"`
	AmountPaid int64  `json:"amount_paid"`
	AmountDue  int64  `json:"amount_due"`
	Currency   string `json:"currency"`
	Receipt    string `json:"receipt"`
	Status     string `json:"status"`
	CreatedAt  int64  `json:"created_at"`
}

// Gateway creates and reads gateway orders.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	FetchOrder(ctx context.Context, id string) (*Order, error)
	// KeyID is the public key the hosted checkout is opened with.
	KeyID() string
}

type apiError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Client is the REST implementation of Gateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
	keyID      string
	keySecret  string
	currency   string
	logger     zerolog.Logger
}

// NewClient creates a gateway client from configuration.
func NewClient(cfg config.PaymentConfig, logger zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		currency:   cfg.Currency,
		logger:     logger.With().Str("component", "payment-gateway").Logger(),
	}
}

func (c *Client) KeyID() string {
	return c.keyID
}

// CreateOrder posts to /v1/orders. Non-2xx responses become a
// *model.UpstreamError carrying the gateway's description.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if req.Currency == "" {
		req.Currency = c.currency
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode gateway order: %w", err)
	}

	order, err := c.do(ctx, http.MethodPost, "/v1/orders", body, "create gateway order")
	if err != nil {
		c.logger.Error().Err(err).Str("receipt", req.Receipt).Msg("failed to create gateway order")
		return nil, err
	}

	c.logger.Info().
		Str("gateway_order_id", order.ID).
		Int64("amount", order.Amount).
		Str("receipt", order.Receipt).
		Msg("gateway order created")

	return order, nil
}

// FetchOrder reads a gateway order, which carries the amount the customer
// was actually asked to pay.
func (c *Client) FetchOrder(ctx context.Context, id string) (*Order, error) {
	if id == "" {
		return nil, model.NewValidationError("gateway order id is required")
	}

	order, err := c.do(ctx, http.MethodGet, "/v1/orders/"+url.PathEscape(id), nil, "fetch gateway order")
	if err != nil {
		c.logger.Error().Err(err).Str("gateway_order_id", id).Msg("failed to fetch gateway order")
		return nil, err
	}
	return order, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, op string) (*Order, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &model.UpstreamError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &model.UpstreamError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(payload))
		var apiErr apiError
		if json.Unmarshal(payload, &apiErr) == nil && apiErr.Error.Description != "" {
			msg = apiErr.Error.Description
		}
		return nil, &model.UpstreamError{
			Op:  op,
			Err: fmt.Errorf("gateway returned %d: %s", resp.StatusCode, msg),
		}
	}

	var order Order
	if err := json.Unmarshal(payload, &order); err != nil {
		return nil, &model.UpstreamError{Op: "decode gateway order", Err: err}
	}
	return &order, nil
}
