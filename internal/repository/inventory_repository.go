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

type inventoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewInventoryRepository creates a new PostgreSQL-backed inventory repository.
func NewInventoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) InventoryRepository {
	return &inventoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "inventory").Logger(),
	}
}

// AdjustStock runs on q so order placement can include it in its transaction.
func (r *inventoryRepository) AdjustStock(ctx context.Context, q Querier, productID uuid.UUID, change int, reason, reference string) (*model.InventoryLog, error) {
	var stock int
	err := q.QueryRow(ctx,
		`UPDATE products SET stock = GREATEST(stock + $2, 0), updated_at = NOW() WHERE id = $1 RETURNING stock`,
		productID, change,
	).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to adjust stock")
		return nil, fmt.Errorf("failed to adjust stock: %w", err)
	}

	log := model.InventoryLog{
		ProductID:  productID,
		Change:     change,
		StockAfter: stock,
		Reason:     reason,
		Reference:  reference,
	}
	err = q.QueryRow(ctx, `
		INSERT INTO inventory_logs (product_id, change, stock_after, reason, reference)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		productID, change, stock, reason, reference,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to write inventory log")
		return nil, fmt.Errorf("failed to write inventory log: %w", err)
	}

	r.logger.Debug().
		Str("product_id", productID.String()).
		Int("change", change).
		Int("stock", stock).
		Str("reason", reason).
		Msg("stock adjusted")

	return &log, nil
}

// ListLogs returns stock movements newest first, optionally for one product.
func (r *inventoryRepository) ListLogs(ctx context.Context, productID *uuid.UUID, limit, offset int) ([]model.InventoryLog, error) {
	query := `
		SELECT id, product_id, change, stock_after, reason, reference, created_at
		FROM inventory_logs
		WHERE ($1::uuid IS NULL OR product_id = $1)
		ORDER BY created_at DESC, id
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, productID, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query inventory logs")
		return nil, fmt.Errorf("failed to query inventory logs: %w", err)
	}
	defer rows.Close()

	logs := []model.InventoryLog{}
	for rows.Next() {
		var l model.InventoryLog
		if err := rows.Scan(&l.ID, &l.ProductID, &l.Change, &l.StockAfter, &l.Reason, &l.Reference, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan inventory log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory logs: %w", err)
	}
	return logs, nil
}
