package cache

import (
	"context"
	"testing"

	"flytau/internal/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityCache(t *testing.T) {
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		flushRedis(t)
		c := cache.NewRedisAvailabilityCache(testRdb)

		require.NoError(t, c.Set(ctx, 7, 42))

		n, hit, err := c.Get(ctx, 7)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, 42, n)
	})

	t.Run("GetMiss", func(t *testing.T) {
		flushRedis(t)
		c := cache.NewRedisAvailabilityCache(testRdb)

		_, hit, err := c.Get(ctx, 7)
		require.NoError(t, err)
		assert.False(t, hit)
	})

	t.Run("Invalidate", func(t *testing.T) {
		flushRedis(t)
		c := cache.NewRedisAvailabilityCache(testRdb)

		require.NoError(t, c.Set(ctx, 7, 42))
		require.NoError(t, c.Invalidate(ctx, 7))

		_, hit, err := c.Get(ctx, 7)
		require.NoError(t, err)
		assert.False(t, hit)
	})
}
