package password_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/siamwallet/authcore/pkg/password"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("default cost", func(t *testing.T) {
		h, err := password.New()
		require.NoError(t, err)
		assert.Equal(t, password.DefaultCost, h.Cost())
	})

	t.Run("invalid cost rejected", func(t *testing.T) {
		_, err := password.New(password.WithCost(99))
		require.ErrorIs(t, err, password.ErrInvalidCost)

		_, err = password.New(password.WithCost(2))
		require.ErrorIs(t, err, password.ErrInvalidCost)
	})
}

func TestHashVerify(t *testing.T) {
	t.Parallel()

	// MinCost keeps the test fast; production uses DefaultCost.
	h, err := password.New(password.WithCost(bcrypt.MinCost))
	require.NoError(t, err)

	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		digest, err := h.Hash(ctx, "secret1")
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(digest, "$2a$"))

		require.NoError(t, h.Verify(ctx, "secret1", digest))
	})

	t.Run("wrong password", func(t *testing.T) {
		digest, err := h.Hash(ctx, "secret1")
		require.NoError(t, err)

		require.ErrorIs(t, h.Verify(ctx, "wrongpass", digest), password.ErrMismatch)
	})

	t.Run("digests are salted", func(t *testing.T) {
		first, err := h.Hash(ctx, "secret1")
		require.NoError(t, err)
		second, err := h.Hash(ctx, "secret1")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("malformed digest", func(t *testing.T) {
		err := h.Verify(ctx, "secret1", "not-a-bcrypt-digest")
		require.Error(t, err)
		require.NotErrorIs(t, err, password.ErrMismatch)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := h.Hash(cancelled, "secret1")
		require.ErrorIs(t, err, context.Canceled)
	})
}
