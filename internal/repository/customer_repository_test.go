package repository

import (
	"context"
	"testing"

	"freshkart/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAddress(userID uuid.UUID, line1 string) *model.Address {
	a := model.AddressRequest{
		Name: "Asha Rao", Phone: "9876543210", Line1: line1,
		City: "Bengaluru", State: "Karnataka", Pincode: "560001",
	}.ToAddress(userID)
	return &a
}

func countDefaults(t *testing.T, pool *pgxpool.Pool, userID uuid.UUID) int {
	t.Helper()
	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM addresses WHERE user_id = $1 AND is_default`, userID).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestAddressRepository_DefaultHandling(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewAddressRepository(pool, zerolog.Nop())
	ctx := context.Background()
	userID := uuid.New()

	home := newTestAddress(userID, "12 MG Road")
	require.NoError(t, repo.Create(ctx, home))
	assert.True(t, home.IsDefault, "first address becomes default")

	work := newTestAddress(userID, "Tech Park")
	work.Type = model.AddressTypeWork
	require.NoError(t, repo.Create(ctx, work))
	assert.False(t, work.IsDefault)
	assert.Equal(t, 1, countDefaults(t, pool, userID))

	t.Run("SetDefault moves the flag", func(t *testing.T) {
		a, err := repo.SetDefault(ctx, userID, work.ID)
		require.NoError(t, err)
		assert.True(t, a.IsDefault)
		assert.Equal(t, 1, countDefaults(t, pool, userID))

		list, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, work.ID, list[0].ID)
	})

	t.Run("Create as default clears the previous one", func(t *testing.T) {
		other := newTestAddress(userID, "Lake View")
		other.IsDefault = true
		require.NoError(t, repo.Create(ctx, other))
		assert.Equal(t, 1, countDefaults(t, pool, userID))

		got, err := repo.GetByID(ctx, userID, work.ID)
		require.NoError(t, err)
		assert.False(t, got.IsDefault)
	})

	t.Run("Scoped to owner", func(t *testing.T) {
		stranger := uuid.New()

		got, err := repo.GetByID(ctx, stranger, home.ID)
		require.NoError(t, err)
		assert.Nil(t, got)

		_, err = repo.SetDefault(ctx, stranger, home.ID)
		assert.ErrorIs(t, err, model.ErrAddressNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, stranger, home.ID), model.ErrAddressNotFound)

		// A failed SetDefault must not leave the owner without a default.
		assert.Equal(t, 1, countDefaults(t, pool, userID))
	})

	t.Run("Update", func(t *testing.T) {
		home.Line2 = "Flat 4B"
		home.IsDefault = false
		require.NoError(t, repo.Update(ctx, home))
		assert.Equal(t, "Flat 4B", home.Line2)

		missing := newTestAddress(userID, "Nowhere")
		missing.ID = uuid.New()
		assert.ErrorIs(t, repo.Update(ctx, missing), model.ErrAddressNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, userID, home.ID))
		list, err := repo.ListByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, list, 2)
	})
}

func TestReviewRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewReviewRepository(pool, zerolog.Nop())
	profiles := NewProfileRepository(pool, zerolog.Nop())
	catalog := NewCatalogRepository(pool, zerolog.Nop())
	ctx := context.Background()

	product := seedProduct(t, pool, "mutton-keema", 32900, 10)
	author := uuid.New()
	orderID := uuid.New()

	first := &model.Review{ProductID: product.ID, UserID: author, OrderID: &orderID, Rating: 5, Title: "Fresh"}
	require.NoError(t, repo.Create(ctx, first, 10))
	assert.NotEqual(t, uuid.Nil, first.ID)

	t.Run("Duplicate per order is rejected", func(t *testing.T) {
		dup := &model.Review{ProductID: product.ID, UserID: author, OrderID: &orderID, Rating: 1}
		assert.ErrorIs(t, repo.Create(ctx, dup, 10), model.ErrDuplicateReview)
	})

	t.Run("Duplicate without order is rejected", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, &model.Review{ProductID: product.ID, UserID: author, Rating: 3}, 10))
		err := repo.Create(ctx, &model.Review{ProductID: product.ID, UserID: author, Rating: 4}, 10)
		assert.ErrorIs(t, err, model.ErrDuplicateReview)
	})

	t.Run("Unknown product", func(t *testing.T) {
		err := repo.Create(ctx, &model.Review{ProductID: uuid.New(), UserID: author, Rating: 4}, 10)
		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})

	t.Run("Loyalty and rating", func(t *testing.T) {
		p, err := profiles.Get(ctx, author)
		require.NoError(t, err)
		assert.Equal(t, 20, p.LoyaltyPoints)

		got, err := catalog.GetProduct(ctx, product.ID.String())
		require.NoError(t, err)
		assert.Equal(t, 2, got.ReviewCount)
		assert.InDelta(t, 4.0, got.Rating, 0.001)
	})

	t.Run("Update and delete refresh rating", func(t *testing.T) {
		first.Rating = 4
		first.Comment = "Still good"
		require.NoError(t, repo.Update(ctx, first))
		assert.Equal(t, "Still good", first.Comment)

		got, err := catalog.GetProduct(ctx, product.ID.String())
		require.NoError(t, err)
		assert.InDelta(t, 3.5, got.Rating, 0.001)

		require.NoError(t, repo.Delete(ctx, first.ID))
		assert.ErrorIs(t, repo.Delete(ctx, first.ID), model.ErrReviewNotFound)

		got, err = catalog.GetProduct(ctx, product.ID.String())
		require.NoError(t, err)
		assert.Equal(t, 1, got.ReviewCount)
		assert.InDelta(t, 3.0, got.Rating, 0.001)
	})

	t.Run("List and get", func(t *testing.T) {
		reviews, err := repo.ListByProduct(ctx, product.ID)
		require.NoError(t, err)
		assert.Len(t, reviews, 1)

		missing, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestWishlistRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewWishlistRepository(pool, zerolog.Nop())
	ctx := context.Background()

	product := seedProduct(t, pool, "prawns", 45900, 4)
	userID := uuid.New()

	require.NoError(t, repo.Add(ctx, userID, product.ID))
	require.NoError(t, repo.Add(ctx, userID, product.ID))

	items, err := repo.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "prawns", items[0].Product.Slug)
	assert.False(t, items[0].AddedAt.IsZero())

	assert.ErrorIs(t, repo.Add(ctx, userID, uuid.New()), model.ErrProductNotFound)

	require.NoError(t, repo.Remove(ctx, userID, product.ID))
	require.NoError(t, repo.Remove(ctx, userID, product.ID))

	items, err = repo.List(ctx, userID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestProfileRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProfileRepository(pool, zerolog.Nop())
	ctx := context.Background()
	userID := uuid.New()

	p, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, userID, p.UserID)
	assert.Zero(t, p.LoyaltyPoints)

	updated, err := repo.Update(ctx, userID, model.ProfileRequest{FullName: "Asha Rao", Email: "asha@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Asha Rao", updated.FullName)

	again, err := repo.Get(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", again.Email)
	assert.Equal(t, p.CreatedAt.Unix(), again.CreatedAt.Unix())
}
