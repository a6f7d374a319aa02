// Package store provides database access methods for all content-admin
// entities. Each store struct wraps a *database.RowStore and exposes typed
// query methods.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"contentadmin/internal/database"
	"contentadmin/internal/domain"
	"contentadmin/internal/models"
)

const userColumns = `id, email, password_hash, role, totp_secret, totp_enabled, created_at, updated_at`

// UserStore handles all user-related database operations.
type UserStore struct {
	rs *database.RowStore
}

// NewUserStore creates a new UserStore with the given row store.
func NewUserStore(rs *database.RowStore) *UserStore {
	return &UserStore{rs: rs}
}

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Role,
		&u.TOTPSecret, &u.TOTPEnabled, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (s *UserStore) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var u *models.User
	err := s.rs.QueryRowFunc(ctx, func(row *sql.Row) error {
		var err error
		u, err = scanUser(row)
		return err
	}, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// FindByEmail retrieves a user by their email address. Returns nil if not found.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user by ID. Returns nil if not found.
func (s *UserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := s.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// Create inserts a user with an already hashed password. A duplicate email
// is reported as a conflict.
func (s *UserStore) Create(ctx context.Context, email, passwordHash string, role models.Role) (*models.User, error) {
	var u *models.User
	err := s.rs.QueryRowFunc(ctx, func(row *sql.Row) error {
		var err error
		u, err = scanUser(row)
		return err
	}, `
		INSERT INTO users (email, password_hash, role)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		email, passwordHash, role,
	)
	if database.IsUniqueViolation(err) {
		return nil, domain.Conflictf("User already exists.")
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// SetTOTPSecret saves the TOTP secret for a user (during 2FA setup).
// 2FA stays disabled until EnableTOTP.
func (s *UserStore) SetTOTPSecret(ctx context.Context, userID int64, secret string) error {
	_, err := s.rs.Exec(ctx, `
		UPDATE users SET totp_secret = $1, totp_enabled = FALSE, updated_at = NOW() WHERE id = $2
	`, secret, userID)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks 2FA as active for a user (after successful code verification).
func (s *UserStore) EnableTOTP(ctx context.Context, userID int64) error {
	_, err := s.rs.Exec(ctx, `
		UPDATE users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1
	`, userID)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// Delete removes a user by ID.
func (s *UserStore) Delete(ctx context.Context, userID int64) error {
	_, err := s.rs.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
