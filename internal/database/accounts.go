package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/nfrund/accountdesk/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// Accounts implements the account use cases on top of a UserRepository.
// Passwords are stored as bcrypt hashes only.
type Accounts struct {
	repo domain.UserRepository
	cost int
}

// AccountsOption configures Accounts.
type AccountsOption func(*Accounts)

// WithBcryptCost overrides the bcrypt work factor. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) AccountsOption {
	return func(a *Accounts) { a.cost = cost }
}

// NewAccounts creates the account service.
func NewAccounts(repo domain.UserRepository, opts ...AccountsOption) *Accounts {
	a := &Accounts{repo: repo, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Register creates a new user with a hashed password.
func (a *Accounts) Register(ctx context.Context, email, password, username string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	user := &domain.User{
		Email:        strings.TrimSpace(email),
		Username:     username,
		PasswordHash: hash,
	}
	if err := a.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks the credentials. An unknown email yields
// domain.ErrUserNotFound and a wrong password domain.ErrInvalidCredentials.
func (a *Accounts) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := a.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// ChangePassword replaces the password of an existing user.
func (a *Accounts) ChangePassword(ctx context.Context, email, newPassword string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), a.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	return a.repo.UpdatePassword(ctx, email, hash)
}

// Remove deletes a user.
func (a *Accounts) Remove(ctx context.Context, email string) (*domain.User, error) {
	return a.repo.Delete(ctx, email)
}
