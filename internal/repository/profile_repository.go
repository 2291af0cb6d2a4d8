package repository

import (
	"context"
	"fmt"

	"freshkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const profileColumns = `user_id, full_name, email, phone, loyalty_points, created_at, updated_at`

type profileRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProfileRepository creates a new PostgreSQL-backed profile repository.
func NewProfileRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProfileRepository {
	return &profileRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "profile").Logger(),
	}
}

func scanProfile(row scanner) (*model.Profile, error) {
	var p model.Profile
	if err := row.Scan(&p.UserID, &p.FullName, &p.Email, &p.Phone, &p.LoyaltyPoints, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepository) Get(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	// The no-op update makes RETURNING yield the existing row on conflict.
	query := `
		INSERT INTO profiles (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING ` + profileColumns

	p, err := scanProfile(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to load profile")
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return p, nil
}

func (r *profileRepository) Update(ctx context.Context, userID uuid.UUID, req model.ProfileRequest) (*model.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, full_name, email, phone) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET full_name = EXCLUDED.full_name, email = EXCLUDED.email, phone = EXCLUDED.phone, updated_at = NOW()
		RETURNING ` + profileColumns

	p, err := scanProfile(r.pool.QueryRow(ctx, query, userID, req.FullName, req.Email, req.Phone))
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to update profile")
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return p, nil
}
