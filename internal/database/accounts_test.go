package database

import (
	"context"
	"testing"

	"github.com/nfrund/accountdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccounts(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore()
	accounts := NewAccounts(store, WithBcryptCost(bcrypt.MinCost))

	t.Run("Register hashes the password", func(t *testing.T) {
		user, err := accounts.Register(ctx, "bob@example.com", "secret123", "bob")
		require.NoError(t, err)
		assert.NotEqual(t, []byte("secret123"), user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("secret123")))
	})

	t.Run("Register rejects duplicates", func(t *testing.T) {
		_, err := accounts.Register(ctx, "bob@example.com", "other1234", "bobby")
		assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	})

	t.Run("Authenticate", func(t *testing.T) {
		user, err := accounts.Authenticate(ctx, "bob@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "bob", user.Username)

		_, err = accounts.Authenticate(ctx, "bob@example.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

		_, err = accounts.Authenticate(ctx, "ghost@example.com", "secret123")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("ChangePassword", func(t *testing.T) {
		_, err := accounts.ChangePassword(ctx, "bob@example.com", "newsecret9")
		require.NoError(t, err)

		_, err = accounts.Authenticate(ctx, "bob@example.com", "secret123")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		_, err = accounts.Authenticate(ctx, "bob@example.com", "newsecret9")
		assert.NoError(t, err)

		_, err = accounts.ChangePassword(ctx, "ghost@example.com", "newsecret9")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})

	t.Run("Remove", func(t *testing.T) {
		_, err := accounts.Remove(ctx, "bob@example.com")
		require.NoError(t, err)
		_, err = accounts.Remove(ctx, "bob@example.com")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
