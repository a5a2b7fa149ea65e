package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_user_store.go -package=mocks english-assistant/internal/storage UserStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserStore defines the interface for user storage operations.
type UserStore interface {
	// GetByID returns ErrNotFound if no user has the ID.
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByGoogleID returns ErrNotFound if no user has the Google account ID.
	GetByGoogleID(ctx context.Context, googleID string) (*User, error)
	// UpsertGoogle creates the user or refreshes its Google profile fields and
	// last login. On return user holds the stored record.
	UpsertGoogle(ctx context.Context, user *User) error
	// UpdateProfile saves first name, last name, audience and language.
	UpdateProfile(ctx context.Context, user *User) error
}

// UserRepo provides methods for user operations.
// It implements the UserStore interface.
type UserRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db, now: utcNow}
}

func utcNow() time.Time {
	return time.Now().UTC()
}

const userColumns = "id, google_id, email, name, picture, first_name, last_name, audience, language, is_active, last_login, created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.GoogleID, &u.Email, &u.Name, &u.Picture, &u.FirstName, &u.LastName,
		&u.Audience, &u.Language, &u.IsActive, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// GetByID gets a user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
}

// GetByGoogleID gets a user by Google account ID.
func (r *UserRepo) GetByGoogleID(ctx context.Context, googleID string) (*User, error) {
	return scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE google_id = ?", googleID))
}

// UpsertGoogle inserts a new user or updates an existing one matched by google_id.
// Audience and language chosen by the user are never overwritten.
func (r *UserRepo) UpsertGoogle(ctx context.Context, user *User) error {
	if user.GoogleID == "" {
		return errors.New("google id is required")
	}
	now := r.now()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Name = strings.TrimSpace(user.Name)

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, google_id, email, name, picture, first_name, last_name, audience, language, is_active, last_login, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, '', '', 1, ?, ?, ?)
		 ON CONFLICT (google_id) DO UPDATE SET
		 email = excluded.email, name = excluded.name, picture = excluded.picture,
		 first_name = excluded.first_name, last_name = excluded.last_name,
		 last_login = excluded.last_login, updated_at = excluded.updated_at`,
		user.ID, user.GoogleID, user.Email, user.Name, user.Picture, user.FirstName, user.LastName,
		now, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}

	stored, err := r.GetByGoogleID(ctx, user.GoogleID)
	if err != nil {
		return fmt.Errorf("failed to reload user: %w", err)
	}
	*user = *stored
	return nil
}

// UpdateProfile saves the user-editable profile fields.
func (r *UserRepo) UpdateProfile(ctx context.Context, user *User) error {
	user.UpdatedAt = r.now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET first_name = ?, last_name = ?, audience = ?, language = ?, updated_at = ? WHERE id = ?`,
		strings.TrimSpace(user.FirstName), strings.TrimSpace(user.LastName), user.Audience, user.Language, user.UpdatedAt, user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
