package cart

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, ttl, zerolog.Nop()), mr
}

func storeContract(t *testing.T, store Store) {
	ctx := context.Background()

	c, err := store.Load(ctx, "guest-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())

	c.Add(chicken(2))
	require.NoError(t, store.Save(ctx, "guest-1", c))

	loaded, err := store.Load(ctx, "guest-1")
	require.NoError(t, err)
	assert.Equal(t, c.Items(), loaded.Items())

	other, err := store.Load(ctx, "guest-2")
	require.NoError(t, err)
	assert.True(t, other.IsEmpty())

	require.NoError(t, store.Delete(ctx, "guest-1"))
	loaded, err = store.Load(ctx, "guest-1")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestMemoryStore_SaveIsSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	c := New()
	c.Add(chicken(1))
	require.NoError(t, store.Save(ctx, "k", c))

	c.Add(chicken(5))

	loaded, err := store.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.Count())
}

func TestRedisStore(t *testing.T) {
	store, _ := newRedisStore(t, time.Hour)
	storeContract(t, store)
}

func TestRedisStore_TTLAndPrefix(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, time.Hour)

	c := New()
	c.Add(chicken(1))
	require.NoError(t, store.Save(ctx, "user-1", c))

	assert.True(t, mr.Exists("cart:user-1"))
	assert.Equal(t, time.Hour, mr.TTL("cart:user-1"))

	mr.FastForward(2 * time.Hour)

	loaded, err := store.Load(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestRedisStore_CorruptValueLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 0)

	require.NoError(t, mr.Set("cart:bad", "not-json"))

	loaded, err := store.Load(ctx, "bad")
	require.NoError(t, err)
	assert.True(t, loaded.IsEmpty())
}

func TestRedisStore_ConnectionError(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, 0)
	mr.Close()

	_, err := store.Load(ctx, "any")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load cart")
}
