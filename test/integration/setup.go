package integration

import (
	"context"
	"testing"
	"time"

	"freshkart/internal/database"
	"freshkart/internal/model"
	"freshkart/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB starts a PostgreSQL container and applies the schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("freshkart"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Catalog is the seeded storefront data.
type Catalog struct {
	Meat    model.Category
	Seafood model.Category
	// Products by slug.
	Products map[string]*model.Product
}

// SeedCatalog inserts two categories and four products, one of them inactive.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) *Catalog {
	t.Helper()

	ctx := context.Background()
	repo := repository.NewCatalogRepository(pool, zerolog.Nop())

	meat, err := repo.CreateCategory(ctx, model.CategoryRequest{Name: "Meat", Slug: "meat", SortOrder: 1})
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}
	seafood, err := repo.CreateCategory(ctx, model.CategoryRequest{Name: "Seafood", Slug: "seafood", SortOrder: 2})
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	inactive := false
	products := []model.ProductRequest{
		{Name: "Chicken Curry Cut", Slug: "chicken-curry-cut", CategoryID: &meat.ID, Price: 24900, Unit: "500g", Stock: 10, Featured: true},
		{Name: "Mutton Keema", Slug: "mutton-keema", CategoryID: &meat.ID, Price: 44900, Unit: "500g", Stock: 5},
		{Name: "Tiger Prawns", Slug: "tiger-prawns", CategoryID: &seafood.ID, Price: 59900, Unit: "250g", Stock: 3},
		{Name: "Seer Fish Steaks", Slug: "seer-fish", CategoryID: &seafood.ID, Price: 79900, Unit: "500g", Stock: 0, Active: &inactive},
	}

	seeded := &Catalog{Meat: *meat, Seafood: *seafood, Products: make(map[string]*model.Product)}
	for _, req := range products {
		p, err := repo.CreateProduct(ctx, req)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", req.Slug, err)
		}
		seeded.Products[p.Slug] = p
	}

	return seeded
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `
		TRUNCATE webhook_events, inventory_logs, subscriptions, wishlists, reviews,
			order_items, orders, discount_codes, addresses, profiles,
			products, vendors, subcategories, categories CASCADE`)
	if err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}
