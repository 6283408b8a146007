// ABOUTME: SQLite implementation of the UserStore interface using modernc.org/sqlite
// ABOUTME: Provides durable user-account persistence with automatic schema creation

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the UserStore interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			photo_url     TEXT NOT NULL DEFAULT '',
			bio           TEXT NOT NULL DEFAULT '',
			skills_json   TEXT NOT NULL DEFAULT '[]',
			role          TEXT NOT NULL,
			created_at    DATETIME NOT NULL,
			updated_at    DATETIME NOT NULL,

			CHECK (role IN ('freelancer', 'client'))
		);

		CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// CreateUser inserts a new user record.
// Returns ErrDuplicateEmail if the email is already registered.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *User) error {
	skills, err := json.Marshal(user.Skills)
	if err != nil {
		return fmt.Errorf("encoding skills: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, photo_url, bio, skills_json, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID, user.Name, user.Email, user.PasswordHash, user.PhotoURL,
		user.Bio, string(skills), string(user.Role), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("inserting user: %w", err)
	}

	s.logger.Debug("user created", "user_id", user.ID, "role", user.Role)
	return nil
}

// GetUser retrieves a user by ID
func (s *SQLiteStore) GetUser(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, photo_url, bio, skills_json, role, created_at, updated_at
		FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email address
func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, photo_url, bio, skills_json, role, created_at, updated_at
		FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// UpdateUser rewrites the mutable profile fields of an existing user.
// The ID and email are never changed.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *User) error {
	skills, err := json.Marshal(user.Skills)
	if err != nil {
		return fmt.Errorf("encoding skills: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET name = ?, password_hash = ?, photo_url = ?, bio = ?, skills_json = ?, role = ?, updated_at = ?
		WHERE id = ?`,
		user.Name, user.PasswordHash, user.PhotoURL, user.Bio,
		string(skills), string(user.Role), time.Now(), user.ID)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update result: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// ListUsers returns all registered users ordered by name
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, password_hash, photo_url, bio, skills_json, role, created_at, updated_at
		FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// scanner abstracts sql.Row and sql.Rows for scanUser
type scanner interface {
	Scan(dest ...any) error
}

// scanUser reads a full user row
func scanUser(row scanner) (*User, error) {
	var u User
	var skillsJSON, role string

	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.PhotoURL,
		&u.Bio, &skillsJSON, &role, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	if err := json.Unmarshal([]byte(skillsJSON), &u.Skills); err != nil {
		return nil, fmt.Errorf("decoding skills: %w", err)
	}
	u.Role = Role(role)

	return &u, nil
}

// Verify SQLiteStore implements UserStore interface at compile time.
var _ UserStore = (*SQLiteStore)(nil)
