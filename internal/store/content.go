// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"contentadmin/internal/database"
	"contentadmin/internal/domain"
	"contentadmin/internal/models"
)

// contentColumns lists all columns for content SELECTs.
const contentColumns = `id, parent_id, type, sequence, audio_url, video_url, css, duas_url,
	is_deleted, created_at, updated_at`

// ContentStore handles all content-tree database operations. Every
// method is a single statement; callers compose them without a
// surrounding transaction.
type ContentStore struct {
	rs *database.RowStore
}

// NewContentStore creates a new ContentStore backed by the given row store.
func NewContentStore(rs *database.RowStore) *ContentStore {
	return &ContentStore{rs: rs}
}

// scanContent scans a single content row into a ContentNode.
func scanContent(scanner interface{ Scan(...any) error }, extra ...any) (*models.ContentNode, error) {
	var c models.ContentNode
	dest := []any{
		&c.ID, &c.ParentID, &c.Type, &c.Sequence, &c.AudioURL, &c.VideoURL,
		&c.CSS, &c.DuasURL, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt,
	}
	if err := scanner.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListChildren returns the active children of parentID (root nodes when
// nil) ordered by sequence, each with its count of active children.
func (s *ContentStore) ListChildren(ctx context.Context, parentID *int64) ([]models.ChildNode, error) {
	rows, err := s.rs.Query(ctx, `
		SELECT c.id, c.parent_id, c.type, c.sequence, c.audio_url, c.video_url,
		       c.css, c.duas_url, c.is_deleted, c.created_at, c.updated_at,
		       COUNT(ch.id) AS child_count
		FROM content c
		LEFT JOIN content ch ON ch.parent_id = c.id AND ch.is_deleted = FALSE
		WHERE c.parent_id IS NOT DISTINCT FROM $1 AND c.is_deleted = FALSE
		GROUP BY c.id
		ORDER BY c.sequence, c.id
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list content children: %w", err)
	}
	defer rows.Close()

	items := []models.ChildNode{}
	for rows.Next() {
		var count int
		c, err := scanContent(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("scan content child: %w", err)
		}
		items = append(items, models.ChildNode{
			ContentNode: *c,
			ChildCount:  count,
			HasChildren: count > 0,
		})
	}
	return items, rows.Err()
}

// ListActive returns every active node ordered by (parent_id, sequence),
// root nodes first.
func (s *ContentStore) ListActive(ctx context.Context) ([]models.ContentNode, error) {
	rows, err := s.rs.Query(ctx, `
		SELECT `+contentColumns+`
		FROM content
		WHERE is_deleted = FALSE
		ORDER BY parent_id NULLS FIRST, sequence, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list content tree: %w", err)
	}
	defer rows.Close()

	items := []models.ContentNode{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan content: %w", err)
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// ListActiveWithLanguage returns every active node joined with its
// translation in languageCode. Nodes without one get nil translation fields.
func (s *ContentStore) ListActiveWithLanguage(ctx context.Context, languageCode string) ([]models.TreeRow, error) {
	rows, err := s.rs.Query(ctx, `
		SELECT c.id, c.parent_id, c.type, c.sequence, c.audio_url, c.video_url,
		       c.css, c.duas_url, c.is_deleted, c.created_at, c.updated_at,
		       ct.language_code, ct.title, ct.transliteration, ct.translation,
		       ct.original_text, ct.search_text, ct.updated_at
		FROM content c
		LEFT JOIN content_translation ct
		       ON ct.content_id = c.id AND ct.language_code = $1
		WHERE c.is_deleted = FALSE
		ORDER BY c.parent_id NULLS FIRST, c.sequence, c.id
	`, languageCode)
	if err != nil {
		return nil, fmt.Errorf("list content tree with language: %w", err)
	}
	defer rows.Close()

	items := []models.TreeRow{}
	for rows.Next() {
		var r models.TreeRow
		c, err := scanContent(rows,
			&r.LanguageCode, &r.Title, &r.Transliteration, &r.Translation,
			&r.OriginalText, &r.SearchText, &r.TranslationUpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan content tree row: %w", err)
		}
		r.ContentNode = *c
		items = append(items, r)
	}
	return items, rows.Err()
}

// FindActive retrieves a non-deleted node by ID. Returns nil if the node
// does not exist or is soft-deleted.
func (s *ContentStore) FindActive(ctx context.Context, id int64) (*models.ContentNode, error) {
	var c *models.ContentNode
	err := s.rs.QueryRowFunc(ctx, func(row *sql.Row) error {
		var err error
		c, err = scanContent(row)
		return err
	}, `SELECT `+contentColumns+` FROM content WHERE id = $1 AND is_deleted = FALSE`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find content by id: %w", err)
	}
	return c, nil
}

// ParentOf returns the parent link of a node whether or not it is
// soft-deleted. found is false when no row has that ID.
func (s *ContentStore) ParentOf(ctx context.Context, id int64) (parentID *int64, found bool, err error) {
	err = s.rs.QueryRow(ctx, `SELECT parent_id FROM content WHERE id = $1`, []any{id}, &parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("find content parent: %w", err)
	}
	return parentID, true, nil
}

// MaxSiblingSequence returns the highest sequence among active children of
// parentID. ok is false when there are none.
func (s *ContentStore) MaxSiblingSequence(ctx context.Context, parentID *int64) (maxSeq int, ok bool, err error) {
	var v sql.NullInt64
	err = s.rs.QueryRow(ctx, `
		SELECT MAX(sequence) FROM content
		WHERE parent_id IS NOT DISTINCT FROM $1 AND is_deleted = FALSE
	`, []any{parentID}, &v)
	if err != nil {
		return 0, false, fmt.Errorf("max sibling sequence: %w", err)
	}
	return int(v.Int64), v.Valid, nil
}

// Insert creates an active node and returns it with the generated ID.
// A parent_id that references no row is reported as a validation error.
func (s *ContentStore) Insert(ctx context.Context, parentID *int64, nodeType string, sequence int) (*models.ContentNode, error) {
	var c *models.ContentNode
	err := s.rs.QueryRowFunc(ctx, func(row *sql.Row) error {
		var err error
		c, err = scanContent(row)
		return err
	}, `
		INSERT INTO content (parent_id, type, sequence, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, FALSE, NOW(), NOW())
		RETURNING `+contentColumns,
		parentID, nodeType, sequence,
	)
	if database.IsForeignKeyViolation(err) {
		return nil, domain.Validationf("Parent content not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("create content: %w", err)
	}
	return c, nil
}

// Update writes the present fields of patch and refreshes updated_at.
// Returns nil if the node does not exist or is soft-deleted.
func (s *ContentStore) Update(ctx context.Context, id int64, patch models.ContentPatch) (*models.ContentNode, error) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.ParentID.Present {
		add("parent_id", patch.ParentID.Value)
	}
	if patch.Type.Present {
		add("type", patch.Type.Value)
	}
	if patch.Sequence.Present {
		add("sequence", patch.Sequence.Value)
	}
	if patch.AudioURL.Present {
		add("audio_url", patch.AudioURL.Value)
	}
	if patch.VideoURL.Present {
		add("video_url", patch.VideoURL.Value)
	}
	if patch.CSS.Present {
		add("css", patch.CSS.Value)
	}
	if patch.DuasURL.Present {
		add("duas_url", patch.DuasURL.Value)
	}
	if len(sets) == 0 {
		return nil, domain.Validationf("No fields to update.")
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE content SET %s
		WHERE id = $%d AND is_deleted = FALSE
		RETURNING %s
	`, strings.Join(sets, ", "), len(args), contentColumns)

	var c *models.ContentNode
	err := s.rs.QueryRowFunc(ctx, func(row *sql.Row) error {
		var err error
		c, err = scanContent(row)
		return err
	}, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if database.IsForeignKeyViolation(err) {
		return nil, domain.Validationf("Parent content not found.")
	}
	if err != nil {
		return nil, fmt.Errorf("update content: %w", err)
	}
	return c, nil
}

// ActiveChildIDs returns the IDs of the active children of parentID
// (root nodes when nil) in sequence order.
func (s *ContentStore) ActiveChildIDs(ctx context.Context, parentID *int64) ([]int64, error) {
	rows, err := s.rs.Query(ctx, `
		SELECT id FROM content
		WHERE parent_id IS NOT DISTINCT FROM $1 AND is_deleted = FALSE
		ORDER BY sequence, id
	`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list child ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan child id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SoftDelete marks a single node deleted. Marking an already deleted node
// again is harmless.
func (s *ContentStore) SoftDelete(ctx context.Context, id int64) error {
	_, err := s.rs.Exec(ctx, `
		UPDATE content SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("soft delete content %d: %w", id, err)
	}
	return nil
}

// SetSequence updates one node's sequence.
func (s *ContentStore) SetSequence(ctx context.Context, id int64, sequence int) error {
	_, err := s.rs.Exec(ctx, `
		UPDATE content SET sequence = $1, updated_at = NOW() WHERE id = $2
	`, sequence, id)
	if err != nil {
		return fmt.Errorf("set content sequence %d: %w", id, err)
	}
	return nil
}
