package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nichegen/backend/internal/domain"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cache, err := NewRedisCache(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	return cache, mr
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "redis://127.0.0.1:1")
	assert.Error(t, err)
}

func TestRedisCache_SetAndGet(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	payload := `[{"asin":"B0AAAAAAA1","score":97}]`
	require.NoError(t, cache.Set(ctx, "products:headphones", payload, time.Minute))

	got, err := cache.Get(ctx, "products:headphones")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestRedisCache_MissingKey(t *testing.T) {
	cache, _ := newTestRedisCache(t)

	_, err := cache.Get(context.Background(), "never-set")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Expiration(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short-lived", "value", time.Second))
	mr.FastForward(2 * time.Second)

	_, err := cache.Get(ctx, "short-lived")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "to-delete", "value", time.Minute))
	require.NoError(t, cache.Delete(ctx, "to-delete"))

	_, err := cache.Get(ctx, "to-delete")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}

func TestRedisCache_Exists(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	exists, err := cache.Exists(ctx, "absent")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, cache.Set(ctx, "present", "value", time.Minute))
	exists, err = cache.Exists(ctx, "present")
	require.NoError(t, err)
	assert.True(t, exists)
}
