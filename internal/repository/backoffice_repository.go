package repository

import (
	"context"
	"errors"
	"fmt"

	"freshkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const (
	vendorColumns       = `id, name, email, phone, status, created_at, updated_at`
	subscriptionColumns = `id, user_id, product_id, quantity, frequency, status, next_delivery_at, created_at, updated_at`
)

type backOfficeRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewBackOfficeRepository creates a new PostgreSQL-backed repository for
// vendors and subscriptions.
func NewBackOfficeRepository(pool *pgxpool.Pool, logger zerolog.Logger) BackOfficeRepository {
	return &backOfficeRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "backoffice").Logger(),
	}
}

func scanVendor(row scanner) (*model.Vendor, error) {
	var v model.Vendor
	if err := row.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func scanSubscription(row scanner) (*model.Subscription, error) {
	var s model.Subscription
	err := row.Scan(&s.ID, &s.UserID, &s.ProductID, &s.Quantity, &s.Frequency, &s.Status, &s.NextDeliveryAt, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func vendorStatus(s model.VendorStatus) model.VendorStatus {
	if s == "" {
		return model.VendorStatusActive
	}
	return s
}

func (r *backOfficeRepository) ListVendors(ctx context.Context) ([]model.Vendor, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+vendorColumns+` FROM vendors ORDER BY name`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query vendors")
		return nil, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer rows.Close()

	vendors := []model.Vendor{}
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		vendors = append(vendors, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating vendors: %w", err)
	}
	return vendors, nil
}

func (r *backOfficeRepository) CreateVendor(ctx context.Context, req model.VendorRequest) (*model.Vendor, error) {
	query := `INSERT INTO vendors (name, email, phone, status) VALUES ($1, $2, $3, $4) RETURNING ` + vendorColumns

	v, err := scanVendor(r.pool.QueryRow(ctx, query, req.Name, req.Email, req.Phone, vendorStatus(req.Status)))
	if err != nil {
		r.logger.Error().Err(err).Str("name", req.Name).Msg("failed to create vendor")
		return nil, fmt.Errorf("failed to create vendor: %w", err)
	}
	return v, nil
}

func (r *backOfficeRepository) UpdateVendor(ctx context.Context, id uuid.UUID, req model.VendorRequest) (*model.Vendor, error) {
	query := `
		UPDATE vendors SET name = $2, email = $3, phone = $4, status = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + vendorColumns

	v, err := scanVendor(r.pool.QueryRow(ctx, query, id, req.Name, req.Email, req.Phone, vendorStatus(req.Status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrVendorNotFound
		}
		r.logger.Error().Err(err).Str("vendor_id", id.String()).Msg("failed to update vendor")
		return nil, fmt.Errorf("failed to update vendor: %w", err)
	}
	return v, nil
}

// ListSubscriptions returns subscriptions newest first, optionally by status.
func (r *backOfficeRepository) ListSubscriptions(ctx context.Context, status *model.SubscriptionStatus) ([]model.Subscription, error) {
	var filter *string
	if status != nil {
		s := string(*status)
		filter = &s
	}

	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions
		WHERE ($1::text IS NULL OR status = $1)
		ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, filter)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query subscriptions")
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	subs := []model.Subscription{}
	for rows.Next() {
		s, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}
	return subs, nil
}

func (r *backOfficeRepository) UpdateSubscriptionStatus(ctx context.Context, id uuid.UUID, status model.SubscriptionStatus) (*model.Subscription, error) {
	query := `UPDATE subscriptions SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING ` + subscriptionColumns

	s, err := scanSubscription(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSubscriptionNotFound
		}
		r.logger.Error().Err(err).Str("subscription_id", id.String()).Msg("failed to update subscription")
		return nil, fmt.Errorf("failed to update subscription: %w", err)
	}

	r.logger.Info().Str("subscription_id", id.String()).Str("status", string(status)).Msg("subscription status updated")
	return s, nil
}
