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

const discountColumns = `id, code, description, type, value, min_order, max_discount, usage_limit,
	used_count, status, starts_at, ends_at, created_at, updated_at`

// upsertChunkSize bounds the array parameter of one bulk upsert statement.
const upsertChunkSize = 10000

type discountRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewDiscountRepository creates a new PostgreSQL-backed discount repository.
func NewDiscountRepository(pool *pgxpool.Pool, logger zerolog.Logger) DiscountRepository {
	return &discountRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "discount").Logger(),
	}
}

func scanDiscount(row scanner) (*model.DiscountCode, error) {
	var d model.DiscountCode
	err := row.Scan(
		&d.ID, &d.Code, &d.Description, &d.Type, &d.Value, &d.MinOrder, &d.MaxDiscount, &d.UsageLimit,
		&d.UsedCount, &d.Status, &d.StartsAt, &d.EndsAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func discountStatus(s model.DiscountStatus) model.DiscountStatus {
	if s == "" {
		return model.DiscountStatusActive
	}
	return s
}

func (r *discountRepository) GetByCode(ctx context.Context, code string) (*model.DiscountCode, error) {
	d, err := scanDiscount(r.pool.QueryRow(ctx, `SELECT `+discountColumns+` FROM discount_codes WHERE code = $1`, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrDiscountNotFound
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query discount code")
		return nil, fmt.Errorf("failed to query discount code: %w", err)
	}
	return d, nil
}

func (r *discountRepository) List(ctx context.Context) ([]model.DiscountCode, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+discountColumns+` FROM discount_codes ORDER BY created_at DESC, code`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query discount codes")
		return nil, fmt.Errorf("failed to query discount codes: %w", err)
	}
	defer rows.Close()

	codes := []model.DiscountCode{}
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan discount code: %w", err)
		}
		codes = append(codes, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating discount codes: %w", err)
	}
	return codes, nil
}

func (r *discountRepository) Create(ctx context.Context, req model.DiscountRequest) (*model.DiscountCode, error) {
	query := `
		INSERT INTO discount_codes (code, description, type, value, min_order, max_discount,
			usage_limit, status, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + discountColumns

	d, err := scanDiscount(r.pool.QueryRow(ctx, query,
		req.Code, req.Description, req.Type, req.Value, req.MinOrder, req.MaxDiscount,
		req.UsageLimit, discountStatus(req.Status), req.StartsAt, req.EndsAt,
	))
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return nil, model.NewDomainError(model.ErrCodeConflict, "discount code already exists")
		}
		r.logger.Error().Err(err).Str("code", req.Code).Msg("failed to create discount code")
		return nil, fmt.Errorf("failed to create discount code: %w", err)
	}
	return d, nil
}

// Update replaces the terms of a code. The redemption count is kept.
func (r *discountRepository) Update(ctx context.Context, id uuid.UUID, req model.DiscountRequest) (*model.DiscountCode, error) {
	query := `
		UPDATE discount_codes SET code = $2, description = $3, type = $4, value = $5, min_order = $6,
			max_discount = $7, usage_limit = $8, status = $9, starts_at = $10, ends_at = $11,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + discountColumns

	d, err := scanDiscount(r.pool.QueryRow(ctx, query, id,
		req.Code, req.Description, req.Type, req.Value, req.MinOrder, req.MaxDiscount,
		req.UsageLimit, discountStatus(req.Status), req.StartsAt, req.EndsAt,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrDiscountNotFound
		}
		if pgErrorCode(err) == pgUniqueViolation {
			return nil, model.NewDomainError(model.ErrCodeConflict, "discount code already exists")
		}
		r.logger.Error().Err(err).Str("discount_id", id.String()).Msg("failed to update discount code")
		return nil, fmt.Errorf("failed to update discount code: %w", err)
	}
	return d, nil
}

// UpsertCodes writes every code with the template's terms in one transaction.
// Existing codes take the new terms and keep their redemption count.
func (r *discountRepository) UpsertCodes(ctx context.Context, codes []string, template model.DiscountRequest) (int, error) {
	query := `
		INSERT INTO discount_codes (code, description, type, value, min_order, max_discount,
			usage_limit, status, starts_at, ends_at)
		SELECT c, $2, $3, $4, $5, $6, $7, $8, $9, $10 FROM unnest($1::text[]) AS c
		ON CONFLICT (code) DO UPDATE SET
			description = EXCLUDED.description, type = EXCLUDED.type, value = EXCLUDED.value,
			min_order = EXCLUDED.min_order, max_discount = EXCLUDED.max_discount,
			usage_limit = EXCLUDED.usage_limit, status = EXCLUDED.status,
			starts_at = EXCLUDED.starts_at, ends_at = EXCLUDED.ends_at, updated_at = NOW()`

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	total := 0
	for start := 0; start < len(codes); start += upsertChunkSize {
		end := min(start+upsertChunkSize, len(codes))
		tag, err := tx.Exec(ctx, query, codes[start:end],
			template.Description, template.Type, template.Value, template.MinOrder, template.MaxDiscount,
			template.UsageLimit, discountStatus(template.Status), template.StartsAt, template.EndsAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Int("offset", start).Msg("failed to upsert discount codes")
			return 0, fmt.Errorf("failed to upsert discount codes: %w", err)
		}
		total += int(tag.RowsAffected())
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit discount codes: %w", err)
	}

	r.logger.Info().Int("codes", len(codes)).Int("upserted", total).Msg("discount codes upserted")
	return total, nil
}

func (r *discountRepository) IncrementUsage(ctx context.Context, q Querier, code string) error {
	tag, err := q.Exec(ctx, `
		UPDATE discount_codes SET used_count = used_count + 1, updated_at = NOW()
		WHERE code = $1 AND (usage_limit IS NULL OR used_count < usage_limit)`,
		code,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("code", code).Msg("failed to increment discount usage")
		return fmt.Errorf("failed to increment discount usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrInvalidDiscount
	}
	return nil
}
