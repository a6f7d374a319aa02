// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/sethvargo/go-retry"

	"contentadmin/internal/domain"
)

const (
	// DefaultAttempts is how many times a statement is tried in total.
	DefaultAttempts = 3

	// DefaultBaseDelay is the first backoff interval; it doubles per retry.
	DefaultBaseDelay = 200 * time.Millisecond
)

// RowStore issues parameterized statements against the database and
// retries those that fail with a transient error. Statements are
// independent: there is no transaction spanning calls.
type RowStore struct {
	db        *sql.DB
	attempts  uint64
	baseDelay time.Duration
}

// NewRowStore wraps db. Non-positive attempts or delay fall back to the
// defaults.
func NewRowStore(db *sql.DB, attempts int, baseDelay time.Duration) *RowStore {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	return &RowStore{db: db, attempts: uint64(attempts), baseDelay: baseDelay}
}

// DB returns the underlying connection pool.
func (s *RowStore) DB() *sql.DB {
	return s.db
}

// Exec runs a statement that returns no rows.
func (s *RowStore) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var result sql.Result
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		result, err = s.db.ExecContext(ctx, query, args...)
		return err
	})
	return result, err
}

// Query runs a statement returning rows. Only opening the result set is
// retried; the caller iterates and closes the rows.
func (s *RowStore) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	var rows *sql.Rows
	err := s.do(ctx, func(ctx context.Context) error {
		var err error
		rows, err = s.db.QueryContext(ctx, query, args...)
		return err
	})
	return rows, err
}

// QueryRow runs a single-row statement and scans it into dest.
// sql.ErrNoRows is returned unchanged.
func (s *RowStore) QueryRow(ctx context.Context, query string, args []any, dest ...any) error {
	return s.do(ctx, func(ctx context.Context) error {
		return s.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	})
}

// QueryRowFunc runs a single-row statement and hands the row to scan, for
// callers that scan into a helper rather than fixed destinations.
func (s *RowStore) QueryRowFunc(ctx context.Context, scan func(row *sql.Row) error, query string, args ...any) error {
	return s.do(ctx, func(ctx context.Context) error {
		return scan(s.db.QueryRowContext(ctx, query, args...))
	})
}

// do runs fn with exponential backoff while it fails transiently.
// Exhausted retries surface wrapped in domain.ErrTransientStore; any other
// error is returned as is on the first failure.
func (s *RowStore) do(ctx context.Context, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(s.attempts-1, retry.NewExponential(s.baseDelay))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if IsTransient(err) {
			slog.Warn("transient store error",
				"attempt", attempt,
				"max_attempts", s.attempts,
				"error", err,
			)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil && IsTransient(err) {
		return fmt.Errorf("%w: %w", domain.ErrTransientStore, err)
	}
	return err
}
