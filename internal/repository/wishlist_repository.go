package repository

import (
	"context"
	"fmt"

	"freshkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type wishlistRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewWishlistRepository creates a new PostgreSQL-backed wishlist repository.
func NewWishlistRepository(pool *pgxpool.Pool, logger zerolog.Logger) WishlistRepository {
	return &wishlistRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "wishlist").Logger(),
	}
}

// List returns wishlisted products, most recently added first.
func (r *wishlistRepository) List(ctx context.Context, userID uuid.UUID) ([]model.WishlistItem, error) {
	query := `
		SELECT p.id, p.name, p.slug, p.description, p.category_id, p.subcategory_id, p.vendor_id,
			p.price, p.unit, p.image_url, p.stock, p.rating, p.review_count, p.featured, p.active,
			p.created_at, p.updated_at, w.created_at
		FROM wishlists w
		JOIN products p ON p.id = w.product_id
		WHERE w.user_id = $1
		ORDER BY w.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to query wishlist")
		return nil, fmt.Errorf("failed to query wishlist: %w", err)
	}
	defer rows.Close()

	items := []model.WishlistItem{}
	for rows.Next() {
		var it model.WishlistItem
		p := &it.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Slug, &p.Description, &p.CategoryID, &p.SubcategoryID, &p.VendorID,
			&p.Price, &p.Unit, &p.ImageURL, &p.Stock, &p.Rating, &p.ReviewCount, &p.Featured, &p.Active,
			&p.CreatedAt, &p.UpdatedAt, &it.AddedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wishlist: %w", err)
	}
	return items, nil
}

// Add is idempotent.
func (r *wishlistRepository) Add(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO wishlists (user_id, product_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		userID, productID,
	)
	if err != nil {
		if pgErrorCode(err) == pgForeignKeyViolation {
			return model.ErrProductNotFound
		}
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to add wishlist item")
		return fmt.Errorf("failed to add wishlist item: %w", err)
	}
	return nil
}

// Remove succeeds when the product was not wishlisted.
func (r *wishlistRepository) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM wishlists WHERE user_id = $1 AND product_id = $2`, userID, productID)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", productID.String()).Msg("failed to remove wishlist item")
		return fmt.Errorf("failed to remove wishlist item: %w", err)
	}
	return nil
}
