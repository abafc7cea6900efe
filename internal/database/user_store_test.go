package database

import (
	"context"
	"testing"

	"github.com/nfrund/accountdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()

	t.Run("Create and find", func(t *testing.T) {
		err := store.Create(ctx, &domain.User{Email: "Alice@Example.com", Username: "alice", PasswordHash: []byte("h1")})
		require.NoError(t, err)

		u, err := store.FindByEmail(ctx, " alice@example.com ")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)
		assert.Equal(t, []byte("h1"), u.PasswordHash)
		assert.False(t, u.CreatedAt.IsZero())
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := store.Create(ctx, &domain.User{Email: "alice@example.com", Username: "other"})
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
		assert.Equal(t, 1, store.Count())
	})

	t.Run("returned users are copies", func(t *testing.T) {
		u, err := store.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		u.PasswordHash[0] = 'X'

		again, err := store.FindByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, []byte("h1"), again.PasswordHash)
	})

	t.Run("UpdatePassword", func(t *testing.T) {
		u, err := store.UpdatePassword(ctx, "alice@example.com", []byte("h2"))
		require.NoError(t, err)
		assert.Equal(t, []byte("h2"), u.PasswordHash)

		_, err = store.UpdatePassword(ctx, "nobody@example.com", []byte("h3"))
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		u, err := store.Delete(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, "alice", u.Username)

		_, err = store.FindByEmail(ctx, "alice@example.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		_, err = store.Delete(ctx, "alice@example.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
