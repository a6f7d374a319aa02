// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"contentadmin/internal/database"
	"contentadmin/internal/models"
)

// TranslationBatchSize bounds how many content IDs go into one
// ListByContentIDs statement.
const TranslationBatchSize = 500

const translationColumns = `id, content_id, language_code, title, transliteration,
	translation, original_text, search_text, updated_at`

// TranslationStore handles per-language text rows of content nodes.
type TranslationStore struct {
	rs *database.RowStore
}

// NewTranslationStore creates a new TranslationStore.
func NewTranslationStore(rs *database.RowStore) *TranslationStore {
	return &TranslationStore{rs: rs}
}

func scanTranslation(scanner interface{ Scan(...any) error }) (*models.Translation, error) {
	var t models.Translation
	err := scanner.Scan(
		&t.ID, &t.ContentID, &t.LanguageCode, &t.Title, &t.Transliteration,
		&t.Translation, &t.OriginalText, &t.SearchText, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTranslations(rows *sql.Rows) ([]models.Translation, error) {
	defer rows.Close()

	items := []models.Translation{}
	for rows.Next() {
		t, err := scanTranslation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan translation: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// ListByContent returns all translations of a node ordered by language code.
func (s *TranslationStore) ListByContent(ctx context.Context, contentID int64) ([]models.Translation, error) {
	rows, err := s.rs.Query(ctx, `
		SELECT `+translationColumns+`
		FROM content_translation
		WHERE content_id = $1
		ORDER BY language_code
	`, contentID)
	if err != nil {
		return nil, fmt.Errorf("list translations: %w", err)
	}
	return collectTranslations(rows)
}

// Upsert inserts or replaces the (contentID, languageCode) row. Every text
// column is overwritten.
func (s *TranslationStore) Upsert(ctx context.Context, contentID int64, languageCode string, f models.TranslationFields) (*models.Translation, error) {
	var t *models.Translation
	err := s.rs.QueryRowFunc(ctx, func(row *sql.Row) error {
		var err error
		t, err = scanTranslation(row)
		return err
	}, `
		INSERT INTO content_translation
			(content_id, language_code, title, transliteration, translation,
			 original_text, search_text, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (content_id, language_code) DO UPDATE SET
			title           = EXCLUDED.title,
			transliteration = EXCLUDED.transliteration,
			translation     = EXCLUDED.translation,
			original_text   = EXCLUDED.original_text,
			search_text     = EXCLUDED.search_text,
			updated_at      = NOW()
		RETURNING `+translationColumns,
		contentID, languageCode, f.Title, f.Transliteration, f.Translation,
		f.OriginalText, f.SearchText,
	)
	if err != nil {
		return nil, fmt.Errorf("save translation: %w", err)
	}
	return t, nil
}

// ListByContentIDs returns the translations of the given nodes, querying
// in batches of TranslationBatchSize IDs. Rows are ordered by content ID
// and language code within each batch.
func (s *TranslationStore) ListByContentIDs(ctx context.Context, ids []int64) ([]models.Translation, error) {
	items := []models.Translation{}
	for start := 0; start < len(ids); start += TranslationBatchSize {
		end := min(start+TranslationBatchSize, len(ids))

		rows, err := s.rs.Query(ctx, `
			SELECT `+translationColumns+`
			FROM content_translation
			WHERE content_id = ANY($1)
			ORDER BY content_id, language_code
		`, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("list translations batch %d: %w", start/TranslationBatchSize, err)
		}
		batch, err := collectTranslations(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, batch...)
	}
	return items, nil
}
