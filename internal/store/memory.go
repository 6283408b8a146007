// ABOUTME: In-memory UserStore implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is an in-memory UserStore implementation for testing.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[string]*User // keyed by user ID
	byEmail map[string]string // keyed by email -> user ID
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*User),
		byEmail: make(map[string]string),
	}
}

// CreateUser stores a new user.
func (m *MemoryStore) CreateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[user.Email]; exists {
		return ErrDuplicateEmail
	}

	// Make a copy to avoid external modification
	u := *user
	u.Skills = append([]string(nil), user.Skills...)
	m.users[u.ID] = &u
	m.byEmail[u.Email] = u.ID

	return nil
}

// GetUser retrieves a user by ID.
func (m *MemoryStore) GetUser(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	return copyUser(u), nil
}

// GetUserByEmail retrieves a user by email address.
func (m *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	return copyUser(u), nil
}

// UpdateUser updates an existing user.
func (m *MemoryStore) UpdateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.users[user.ID]
	if !ok {
		return ErrNotFound
	}

	u := *user
	u.Skills = append([]string(nil), user.Skills...)
	// Email is immutable; keep the original index entry
	u.Email = existing.Email
	m.users[u.ID] = &u

	return nil
}

// ListUsers returns all users ordered by name.
func (m *MemoryStore) ListUsers(ctx context.Context) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		users = append(users, copyUser(u))
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].Name < users[j].Name
	})

	return users, nil
}

// Close is a no-op for MemoryStore.
func (m *MemoryStore) Close() error {
	return nil
}

// copyUser returns a deep copy so callers cannot mutate stored state.
func copyUser(u *User) *User {
	result := *u
	result.Skills = append([]string(nil), u.Skills...)
	return &result
}

// Verify MemoryStore implements UserStore interface at compile time.
var _ UserStore = (*MemoryStore)(nil)
