package ratelimiter_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamwallet/authcore/pkg/ratelimiter"
)

func TestNew(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))

	t.Run("valid config", func(t *testing.T) {
		limiter, err := ratelimiter.New(store, ratelimiter.Config{Attempts: 5, Window: 15 * time.Minute})
		require.NoError(t, err)
		require.NotNil(t, limiter)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := ratelimiter.New(store, ratelimiter.Config{Attempts: 0, Window: time.Minute})
		require.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)

		_, err = ratelimiter.New(store, ratelimiter.Config{Attempts: 5, Window: 0})
		require.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	})
}

func TestAllow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("budget exhaustion", func(t *testing.T) {
		store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
		defer store.Close()

		limiter, err := ratelimiter.New(store, ratelimiter.Config{Attempts: 3, Window: time.Minute})
		require.NoError(t, err)

		for i := range 3 {
			result, err := limiter.Allow(ctx, "10.0.0.1")
			require.NoError(t, err)
			assert.True(t, result.Allowed(), "attempt %d", i+1)
			assert.Equal(t, 2-i, result.Remaining)
		}

		result, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.False(t, result.Allowed())
		assert.Positive(t, result.RetryAfter())
	})

	t.Run("keys are independent", func(t *testing.T) {
		store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
		defer store.Close()

		limiter, err := ratelimiter.New(store, ratelimiter.Config{Attempts: 1, Window: time.Minute})
		require.NoError(t, err)

		first, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, first.Allowed())

		blocked, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.False(t, blocked.Allowed())

		other, err := limiter.Allow(ctx, "10.0.0.2")
		require.NoError(t, err)
		assert.True(t, other.Allowed())
	})

	t.Run("window expiry restores budget", func(t *testing.T) {
		store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
		defer store.Close()

		limiter, err := ratelimiter.New(store, ratelimiter.Config{Attempts: 1, Window: 50 * time.Millisecond})
		require.NoError(t, err)

		result, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, result.Allowed())

		time.Sleep(60 * time.Millisecond)

		result, err = limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, result.Allowed())
	})

	t.Run("reset clears the counter", func(t *testing.T) {
		store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
		defer store.Close()

		limiter, err := ratelimiter.New(store, ratelimiter.Config{Attempts: 1, Window: time.Minute})
		require.NoError(t, err)

		_, err = limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		require.NoError(t, limiter.Reset(ctx, "10.0.0.1"))

		result, err := limiter.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, result.Allowed())
	})
}
