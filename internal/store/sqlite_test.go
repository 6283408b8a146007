// ABOUTME: Tests for the SQLite UserStore implementation
// ABOUTME: Validates schema creation, CRUD operations, and durability across reopen

package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marketplace.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func testUser(id, email string) *User {
	now := time.Now()
	return &User{
		ID:           id,
		Name:         "John Doe",
		Email:        email,
		PasswordHash: "$2a$10$fakehashfortesting",
		PhotoURL:     "/assets/avatars/avatar-1.png",
		Bio:          "Full stack developer",
		Skills:       []string{"React", "Node.js", "TypeScript"},
		Role:         RoleFreelancer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestSQLiteStore_CreateAndGetUser(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	user := testUser("u1", "john@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	got, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)
	assert.Equal(t, "john@example.com", got.Email)
	assert.Equal(t, RoleFreelancer, got.Role)
	assert.Equal(t, []string{"React", "Node.js", "TypeScript"}, got.Skills)
}

func TestSQLiteStore_GetUser_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_CreateUser_DuplicateEmail(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("u1", "dup@example.com")))

	err := s.CreateUser(ctx, testUser("u2", "dup@example.com"))
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestSQLiteStore_GetUserByEmail(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, testUser("u1", "lookup@example.com")))

	got, err := s.GetUserByEmail(ctx, "lookup@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_UpdateUser(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	user := testUser("u1", "update@example.com")
	require.NoError(t, s.CreateUser(ctx, user))

	user.Bio = "Updated bio"
	user.Skills = []string{"Go"}
	require.NoError(t, s.UpdateUser(ctx, user))

	got, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Updated bio", got.Bio)
	assert.Equal(t, []string{"Go"}, got.Skills)
}

func TestSQLiteStore_UpdateUser_NotFound(t *testing.T) {
	s, _ := newTestStore(t)

	err := s.UpdateUser(context.Background(), testUser("ghost", "ghost@example.com"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteStore_ListUsers(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	a := testUser("u1", "a@example.com")
	a.Name = "Alice"
	b := testUser("u2", "b@example.com")
	b.Name = "Bob"
	require.NoError(t, s.CreateUser(ctx, b))
	require.NoError(t, s.CreateUser(ctx, a))

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "durable.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.CreateUser(ctx, testUser("u1", "durable@example.com")))
	require.NoError(t, s.Close())

	// Reopen and verify the record survived
	s2, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "durable@example.com", got.Email)
}
