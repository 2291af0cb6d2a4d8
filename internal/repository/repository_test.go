package repository

import (
	"context"
	"testing"
	"time"

	"freshkart/internal/database"
	"freshkart/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB starts a PostgreSQL container and applies the storefront schema.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, database.Migrate(ctx, pool, zerolog.Nop()))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedProduct inserts an active product with the given stock.
func seedProduct(t *testing.T, pool *pgxpool.Pool, slug string, price int64, stock int) *model.Product {
	t.Helper()

	p, err := NewCatalogRepository(pool, zerolog.Nop()).CreateProduct(context.Background(), model.ProductRequest{
		Name:  slug,
		Slug:  slug,
		Price: price,
		Unit:  "500 g",
		Stock: stock,
	})
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T {
	return &v
}
