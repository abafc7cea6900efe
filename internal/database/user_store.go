package database

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/nfrund/accountdesk/internal/domain"
)

// UserStore is an in-memory domain.UserRepository keyed by email.
// Emails are compared case-insensitively.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]domain.User
	now   func() time.Time
}

// NewUserStore creates an empty store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]domain.User),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create inserts a new user record.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(user.Email)
	if _, exists := s.users[k]; exists {
		return domain.ErrUserAlreadyExists
	}
	now := s.now()
	user.CreatedAt, user.UpdatedAt = now, now
	s.users[k] = cloneUser(*user)
	return nil
}

// FindByEmail queries for a single user by their email address.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[key(email)]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := cloneUser(u)
	return &out, nil
}

// UpdatePassword replaces the stored password hash.
func (s *UserStore) UpdatePassword(ctx context.Context, email string, hash []byte) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(email)
	u, ok := s.users[k]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.PasswordHash = append([]byte(nil), hash...)
	u.UpdatedAt = s.now()
	s.users[k] = u
	out := cloneUser(u)
	return &out, nil
}

// Delete removes a user record and returns it.
func (s *UserStore) Delete(ctx context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(email)
	u, ok := s.users[k]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	delete(s.users, k)
	return &u, nil
}

// Count returns the number of stored users.
func (s *UserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

func cloneUser(u domain.User) domain.User {
	u.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return u
}
