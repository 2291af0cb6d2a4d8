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

const productColumns = `id, name, slug, description, category_id, subcategory_id, vendor_id,
	price, unit, image_url, stock, rating, review_count, featured, active, created_at, updated_at`

// catalogRepository implements CatalogRepository using PostgreSQL.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

func scanProduct(row scanner) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.CategoryID, &p.SubcategoryID, &p.VendorID,
		&p.Price, &p.Unit, &p.ImageURL, &p.Stock, &p.Rating, &p.ReviewCount, &p.Featured, &p.Active,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns products ordered by name.
func (r *catalogRepository) ListProducts(ctx context.Context, activeOnly bool) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE ($1 = FALSE OR active) ORDER BY name`

	rows, err := r.pool.Query(ctx, query, activeOnly)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetProduct looks up by id when idOrSlug parses as a UUID, otherwise by slug.
func (r *catalogRepository) GetProduct(ctx context.Context, idOrSlug string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE slug = $1`
	var arg any = idOrSlug
	if id, err := uuid.Parse(idOrSlug); err == nil {
		query = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
		arg = id
	}

	p, err := scanProduct(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product", idOrSlug).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product", idOrSlug).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return p, nil
}

func (r *catalogRepository) CreateProduct(ctx context.Context, req model.ProductRequest) (*model.Product, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	query := `
		INSERT INTO products (name, slug, description, category_id, subcategory_id, vendor_id,
			price, unit, image_url, stock, featured, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + productColumns

	p, err := scanProduct(r.pool.QueryRow(ctx, query,
		req.Name, req.Slug, req.Description, req.CategoryID, req.SubcategoryID, req.VendorID,
		req.Price, req.Unit, req.ImageURL, req.Stock, req.Featured, active,
	))
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return nil, model.ErrDuplicateSlug
		}
		r.logger.Error().Err(err).Str("slug", req.Slug).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Info().Str("product_id", p.ID.String()).Str("slug", p.Slug).Msg("product created")
	return p, nil
}

// UpdateProduct replaces the editable fields. Active is left unchanged when
// the request omits it.
func (r *catalogRepository) UpdateProduct(ctx context.Context, id uuid.UUID, req model.ProductRequest) (*model.Product, error) {
	query := `
		UPDATE products SET
			name = $2, slug = $3, description = $4, category_id = $5, subcategory_id = $6,
			vendor_id = $7, price = $8, unit = $9, image_url = $10, stock = $11, featured = $12,
			active = COALESCE($13, active), updated_at = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id,
		req.Name, req.Slug, req.Description, req.CategoryID, req.SubcategoryID,
		req.VendorID, req.Price, req.Unit, req.ImageURL, req.Stock, req.Featured, req.Active,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		if pgErrorCode(err) == pgUniqueViolation {
			return nil, model.ErrDuplicateSlug
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return p, nil
}

func (r *catalogRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}

const categoryColumns = `id, name, slug, description, image_url, sort_order, created_at, updated_at`

func scanCategory(row scanner) (*model.Category, error) {
	var c model.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ImageURL, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *catalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY sort_order, name`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}
	return categories, nil
}

func (r *catalogRepository) ListSubcategories(ctx context.Context) ([]model.Subcategory, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, category_id, name, slug, created_at FROM subcategories ORDER BY name`)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query subcategories")
		return nil, fmt.Errorf("failed to query subcategories: %w", err)
	}
	defer rows.Close()

	subs := []model.Subcategory{}
	for rows.Next() {
		var s model.Subcategory
		if err := rows.Scan(&s.ID, &s.CategoryID, &s.Name, &s.Slug, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subcategory: %w", err)
		}
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subcategories: %w", err)
	}
	return subs, nil
}

func (r *catalogRepository) CreateCategory(ctx context.Context, req model.CategoryRequest) (*model.Category, error) {
	query := `
		INSERT INTO categories (name, slug, description, image_url, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.pool.QueryRow(ctx, query, req.Name, req.Slug, req.Description, req.ImageURL, req.SortOrder))
	if err != nil {
		if pgErrorCode(err) == pgUniqueViolation {
			return nil, model.ErrDuplicateSlug
		}
		r.logger.Error().Err(err).Str("slug", req.Slug).Msg("failed to create category")
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return c, nil
}

func (r *catalogRepository) UpdateCategory(ctx context.Context, id uuid.UUID, req model.CategoryRequest) (*model.Category, error) {
	query := `
		UPDATE categories SET name = $2, slug = $3, description = $4, image_url = $5,
			sort_order = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.pool.QueryRow(ctx, query, id, req.Name, req.Slug, req.Description, req.ImageURL, req.SortOrder))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		if pgErrorCode(err) == pgUniqueViolation {
			return nil, model.ErrDuplicateSlug
		}
		r.logger.Error().Err(err).Str("category_id", id.String()).Msg("failed to update category")
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return c, nil
}

func (r *catalogRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", id.String()).Msg("failed to delete category")
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}
