// ABOUTME: Session service for registration, login, logout, and profile updates
// ABOUTME: User records are persisted on every mutation; the session itself is in-memory

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wfconnect/marketplace/internal/store"
)

// Service errors
var (
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrEmptyField         = errors.New("required field is empty")
)

// Service holds the current authenticated session and coordinates account
// persistence. There is a single session per process: the marketplace is a
// single-user client model, mirrored here as an explicit store object with
// injected dependencies.
type Service struct {
	mu      sync.RWMutex
	current *store.User

	users  store.UserStore
	tokens *JWTManager
	logger *slog.Logger
}

// NewService creates a session service on top of a user store.
func NewService(users store.UserStore, tokens *JWTManager, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger.With("component", "auth"),
	}
}

// ProfileUpdate carries the mutable profile fields. Nil fields are left
// unchanged. The ID and email cannot be updated.
type ProfileUpdate struct {
	Name     *string
	PhotoURL *string
	Bio      *string
	Skills   []string
}

// Register creates a new account, persists it, and opens a session.
// Returns the created user and a signed session token.
func (s *Service) Register(ctx context.Context, name, email, password string, role store.Role) (*store.User, string, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || password == "" {
		return nil, "", ErrEmptyField
	}
	if !role.Valid() {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now()
	user := &store.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Skills:       []string{},
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.setSession(user)
	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)
	return user, token, nil
}

// Login verifies credentials against the persisted record and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*store.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	s.setSession(user)
	s.logger.Info("user logged in", "user_id", user.ID)
	return user, token, nil
}

// Logout clears the in-memory session. The persisted account record is kept.
func (s *Service) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.logger.Info("user logged out", "user_id", s.current.ID)
	}
	s.current = nil
}

// CurrentUser returns a copy of the authenticated user, or nil when logged out.
func (s *Service) CurrentUser() *store.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return nil
	}
	u := *s.current
	u.Skills = append([]string(nil), s.current.Skills...)
	return &u
}

// UpdateProfile applies the given updates to the current user and persists
// the result. Returns ErrNotAuthenticated when no session is open.
func (s *Service) UpdateProfile(ctx context.Context, updates ProfileUpdate) (*store.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrNotAuthenticated
	}

	updated := *s.current
	updated.Skills = append([]string(nil), s.current.Skills...)
	if updates.Name != nil {
		updated.Name = *updates.Name
	}
	if updates.PhotoURL != nil {
		updated.PhotoURL = *updates.PhotoURL
	}
	if updates.Bio != nil {
		updated.Bio = *updates.Bio
	}
	if updates.Skills != nil {
		updated.Skills = append([]string(nil), updates.Skills...)
	}
	updated.UpdatedAt = time.Now()

	if err := s.users.UpdateUser(ctx, &updated); err != nil {
		return nil, fmt.Errorf("persisting profile: %w", err)
	}

	s.current = &updated
	result := updated
	result.Skills = append([]string(nil), updated.Skills...)
	return &result, nil
}

// GetUser resolves any user by ID, for directory lookups and participant display.
func (s *Service) GetUser(ctx context.Context, id string) (*store.User, error) {
	return s.users.GetUser(ctx, id)
}

// ListUsers returns all registered users for the user-search dialog.
func (s *Service) ListUsers(ctx context.Context) ([]*store.User, error) {
	return s.users.ListUsers(ctx)
}

// VerifyToken validates a session token and returns the user ID it was
// issued for.
func (s *Service) VerifyToken(token string) (string, error) {
	return s.tokens.Verify(token)
}

// setSession replaces the current session with a copy of the given user.
func (s *Service) setSession(user *store.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := *user
	u.Skills = append([]string(nil), user.Skills...)
	s.current = &u
}
