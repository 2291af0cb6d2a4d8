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

const addressColumns = `id, user_id, name, phone, line1, line2, city, state, pincode, landmark,
	type, is_default, created_at, updated_at`

type addressRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewAddressRepository creates a new PostgreSQL-backed address repository.
func NewAddressRepository(pool *pgxpool.Pool, logger zerolog.Logger) AddressRepository {
	return &addressRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "address").Logger(),
	}
}

func scanAddress(row scanner) (*model.Address, error) {
	var a model.Address
	err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &a.Phone, &a.Line1, &a.Line2, &a.City, &a.State, &a.Pincode,
		&a.Landmark, &a.Type, &a.IsDefault, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListByUser returns the default address first, then newest first.
func (r *addressRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1
		ORDER BY is_default DESC, created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query addresses")
		return nil, fmt.Errorf("failed to query addresses: %w", err)
	}
	defer rows.Close()

	addresses := []model.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan address: %w", err)
		}
		addresses = append(addresses, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating addresses: %w", err)
	}
	return addresses, nil
}

// GetByID returns nil when the address does not exist or belongs to another user.
func (r *addressRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*model.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1 AND user_id = $2`

	a, err := scanAddress(r.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to query address")
		return nil, fmt.Errorf("failed to query address: %w", err)
	}
	return a, nil
}

// Create inserts addr. A user's first address becomes the default; asking for
// a default clears the previous one in the same transaction.
func (r *addressRepository) Create(ctx context.Context, addr *model.Address) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var existing int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM addresses WHERE user_id = $1`, addr.UserID).Scan(&existing); err != nil {
		return fmt.Errorf("failed to count addresses: %w", err)
	}
	if existing == 0 {
		addr.IsDefault = true
	}
	if addr.IsDefault {
		if err := clearDefault(ctx, tx, addr.UserID); err != nil {
			return err
		}
	}

	query := `
		INSERT INTO addresses (user_id, name, phone, line1, line2, city, state, pincode, landmark, type, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		addr.UserID, addr.Name, addr.Phone, addr.Line1, addr.Line2, addr.City, addr.State,
		addr.Pincode, addr.Landmark, addr.Type, addr.IsDefault,
	).Scan(&addr.ID, &addr.CreatedAt, &addr.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", addr.UserID.String()).Msg("failed to insert address")
		return fmt.Errorf("failed to insert address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit address: %w", err)
	}

	r.logger.Info().
		Str("address_id", addr.ID.String()).
		Str("user_id", addr.UserID.String()).
		Bool("default", addr.IsDefault).
		Msg("address created")
	return nil
}

// Update replaces the editable fields. A request to make the address default
// clears the previous default; a request without it leaves the flag as is.
func (r *addressRepository) Update(ctx context.Context, addr *model.Address) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if addr.IsDefault {
		if err := clearDefault(ctx, tx, addr.UserID); err != nil {
			return err
		}
	}

	query := `
		UPDATE addresses SET name = $3, phone = $4, line1 = $5, line2 = $6, city = $7, state = $8,
			pincode = $9, landmark = $10, type = $11, is_default = is_default OR $12, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + addressColumns

	updated, err := scanAddress(tx.QueryRow(ctx, query,
		addr.ID, addr.UserID, addr.Name, addr.Phone, addr.Line1, addr.Line2, addr.City, addr.State,
		addr.Pincode, addr.Landmark, addr.Type, addr.IsDefault,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrAddressNotFound
		}
		r.logger.Error().Err(err).Str("address_id", addr.ID.String()).Msg("failed to update address")
		return fmt.Errorf("failed to update address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit address: %w", err)
	}

	*addr = *updated
	return nil
}

func (r *addressRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to delete address")
		return fmt.Errorf("failed to delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAddressNotFound
	}
	return nil
}

// SetDefault clears the user's current default and sets id in one transaction.
func (r *addressRepository) SetDefault(ctx context.Context, userID, id uuid.UUID) (*model.Address, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := clearDefault(ctx, tx, userID); err != nil {
		return nil, err
	}

	query := `UPDATE addresses SET is_default = TRUE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2
		RETURNING ` + addressColumns

	a, err := scanAddress(tx.QueryRow(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAddressNotFound
		}
		r.logger.Error().Err(err).Str("address_id", id.String()).Msg("failed to set default address")
		return nil, fmt.Errorf("failed to set default address: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit default address: %w", err)
	}

	r.logger.Info().Str("address_id", id.String()).Str("user_id", userID.String()).Msg("default address set")
	return a, nil
}

func clearDefault(ctx context.Context, q Querier, userID uuid.UUID) error {
	if _, err := q.Exec(ctx,
		`UPDATE addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default`,
		userID,
	); err != nil {
		return fmt.Errorf("failed to clear default address: %w", err)
	}
	return nil
}
