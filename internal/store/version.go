// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

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

const versionColumns = `id, version_number, notes, file_url, content_count,
	translation_count, created_by, created_at`

// VersionStore records export markers. Versions are append-only.
type VersionStore struct {
	rs *database.RowStore
}

// NewVersionStore creates a new VersionStore.
func NewVersionStore(rs *database.RowStore) *VersionStore {
	return &VersionStore{rs: rs}
}

func scanVersion(scanner interface{ Scan(...any) error }) (*models.Version, error) {
	var v models.Version
	err := scanner.Scan(
		&v.ID, &v.VersionNumber, &v.Notes, &v.FileURL, &v.ContentCount,
		&v.TranslationCount, &v.CreatedBy, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *VersionStore) findOne(ctx context.Context, query string, args ...any) (*models.Version, error) {
	var v *models.Version
	err := s.rs.QueryRowFunc(ctx, func(row *sql.Row) error {
		var err error
		v, err = scanVersion(row)
		return err
	}, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return v, err
}

// ExistsByNumber reports whether a version with this number was recorded.
func (s *VersionStore) ExistsByNumber(ctx context.Context, versionNumber string) (bool, error) {
	var exists bool
	err := s.rs.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM versions WHERE version_number = $1)
	`, []any{versionNumber}, &exists)
	if err != nil {
		return false, fmt.Errorf("check version number: %w", err)
	}
	return exists, nil
}

// Create records a version. A duplicate version number is reported as a
// conflict.
func (s *VersionStore) Create(ctx context.Context, v *models.Version) (*models.Version, error) {
	created, err := s.findOne(ctx, `
		INSERT INTO versions
			(version_number, notes, file_url, content_count, translation_count, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+versionColumns,
		v.VersionNumber, v.Notes, v.FileURL, v.ContentCount, v.TranslationCount, v.CreatedBy,
	)
	if database.IsUniqueViolation(err) {
		return nil, domain.Conflictf("Version %s already exists.", v.VersionNumber)
	}
	if err != nil {
		return nil, fmt.Errorf("create version: %w", err)
	}
	return created, nil
}

// FindByID retrieves a version by ID. Returns nil if not found.
func (s *VersionStore) FindByID(ctx context.Context, id int64) (*models.Version, error) {
	v, err := s.findOne(ctx, `SELECT `+versionColumns+` FROM versions WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("find version by id: %w", err)
	}
	return v, nil
}

// Latest returns the most recently created version, or nil if none exist.
func (s *VersionStore) Latest(ctx context.Context) (*models.Version, error) {
	v, err := s.findOne(ctx, `
		SELECT `+versionColumns+` FROM versions ORDER BY created_at DESC, id DESC LIMIT 1
	`)
	if err != nil {
		return nil, fmt.Errorf("latest version: %w", err)
	}
	return v, nil
}

// List returns all versions, newest first.
func (s *VersionStore) List(ctx context.Context) ([]models.Version, error) {
	rows, err := s.rs.Query(ctx, `
		SELECT `+versionColumns+` FROM versions ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	items := []models.Version{}
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		items = append(items, *v)
	}
	return items, rows.Err()
}
