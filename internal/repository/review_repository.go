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

const reviewColumns = `id, product_id, user_id, order_id, rating, title, comment, created_at, updated_at`

type reviewRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewReviewRepository creates a new PostgreSQL-backed review repository.
func NewReviewRepository(pool *pgxpool.Pool, logger zerolog.Logger) ReviewRepository {
	return &reviewRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "review").Logger(),
	}
}

func scanReview(row scanner) (*model.Review, error) {
	var rv model.Review
	err := row.Scan(&rv.ID, &rv.ProductID, &rv.UserID, &rv.OrderID, &rv.Rating, &rv.Title, &rv.Comment, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rv, nil
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to query reviews")
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, *rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}
	return reviews, nil
}

// GetByID returns nil when the review does not exist.
func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	rv, err := scanReview(r.pool.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("review_id", id.String()).Msg("failed to query review")
		return nil, fmt.Errorf("failed to query review: %w", err)
	}
	return rv, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review, loyaltyPoints int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO reviews (product_id, user_id, order_id, rating, title, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		review.ProductID, review.UserID, review.OrderID, review.Rating, review.Title, review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		switch pgErrorCode(err) {
		case pgUniqueViolation:
			return model.ErrDuplicateReview
		case pgForeignKeyViolation:
			return model.ErrProductNotFound
		}
		r.logger.Error().Err(err).Str("product_id", review.ProductID.String()).Msg("failed to insert review")
		return fmt.Errorf("failed to insert review: %w", err)
	}

	if loyaltyPoints > 0 {
		_, err = tx.Exec(ctx, `
			INSERT INTO profiles (user_id, loyalty_points) VALUES ($1, $2)
			ON CONFLICT (user_id) DO UPDATE
			SET loyalty_points = profiles.loyalty_points + EXCLUDED.loyalty_points, updated_at = NOW()`,
			review.UserID, loyaltyPoints,
		)
		if err != nil {
			r.logger.Error().Err(err).Str("user_id", review.UserID.String()).Msg("failed to credit loyalty points")
			return fmt.Errorf("failed to credit loyalty points: %w", err)
		}
	}

	if err := refreshRating(ctx, tx, review.ProductID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit review: %w", err)
	}

	r.logger.Info().
		Str("review_id", review.ID.String()).
		Str("product_id", review.ProductID.String()).
		Int("rating", review.Rating).
		Msg("review created")
	return nil
}

func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE reviews SET rating = $2, title = $3, comment = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + reviewColumns

	updated, err := scanReview(tx.QueryRow(ctx, query, review.ID, review.Rating, review.Title, review.Comment))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrReviewNotFound
		}
		r.logger.Error().Err(err).Str("review_id", review.ID.String()).Msg("failed to update review")
		return fmt.Errorf("failed to update review: %w", err)
	}

	if err := refreshRating(ctx, tx, updated.ProductID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit review: %w", err)
	}

	*review = *updated
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var productID uuid.UUID
	err = tx.QueryRow(ctx, `DELETE FROM reviews WHERE id = $1 RETURNING product_id`, id).Scan(&productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrReviewNotFound
		}
		r.logger.Error().Err(err).Str("review_id", id.String()).Msg("failed to delete review")
		return fmt.Errorf("failed to delete review: %w", err)
	}

	if err := refreshRating(ctx, tx, productID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// refreshRating recomputes a product's average rating, rounded to one
// decimal, and its review count.
func refreshRating(ctx context.Context, q Querier, productID uuid.UUID) error {
	_, err := q.Exec(ctx, `
		UPDATE products SET
			rating = COALESCE((SELECT ROUND(AVG(rating)::numeric, 1)::float8 FROM reviews WHERE product_id = $1), 0),
			review_count = (SELECT COUNT(*) FROM reviews WHERE product_id = $1),
			updated_at = NOW()
		WHERE id = $1`,
		productID,
	)
	if err != nil {
		return fmt.Errorf("failed to refresh product rating: %w", err)
	}
	return nil
}
