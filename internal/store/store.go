// ABOUTME: UserStore interface and data types for marketplace persistence
// ABOUTME: Defines the User record and the interface for durable account storage

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned when registering an email that is already taken
var ErrDuplicateEmail = errors.New("email already registered")

// Role identifies which side of the marketplace a user is on
type Role string

// Marketplace roles
const (
	RoleFreelancer Role = "freelancer"
	RoleClient     Role = "client"
)

// Valid reports whether the role is one of the known marketplace roles
func (r Role) Valid() bool {
	return r == RoleFreelancer || r == RoleClient
}

// User represents a registered marketplace account.
// The identifier and email are immutable after creation; profile fields
// (name, photo, bio, skills) may change via profile updates.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	PhotoURL     string
	Bio          string
	Skills       []string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserStore defines the interface for durable user-account persistence.
// Accounts are the only state that outlives the process; conversation and
// job state is owned in memory by their services.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
	ListUsers(ctx context.Context) ([]*User, error)

	// Close releases any resources held by the store
	Close() error
}
