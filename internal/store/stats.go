package store

import (
	"context"
	"fmt"

	"contentadmin/internal/database"
	"contentadmin/internal/models"
)

// StatsStore aggregates dashboard counts.
type StatsStore struct {
	rs       *database.RowStore
	versions *VersionStore
}

// NewStatsStore creates a new StatsStore.
func NewStatsStore(rs *database.RowStore) *StatsStore {
	return &StatsStore{rs: rs, versions: NewVersionStore(rs)}
}

// Stats computes the dashboard summary. Node counts only include active
// nodes; translation counts include every stored row.
func (s *StatsStore) Stats(ctx context.Context) (*models.Stats, error) {
	st := &models.Stats{}

	err := s.rs.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM content WHERE is_deleted = FALSE),
			(SELECT COUNT(*) FROM content_translation),
			(SELECT COUNT(*) FROM versions),
			(SELECT COUNT(*) FROM content WHERE parent_id IS NULL AND is_deleted = FALSE)
	`, nil, &st.ContentCount, &st.TranslationCount, &st.VersionCount, &st.RootCount)
	if err != nil {
		return nil, fmt.Errorf("stats counts: %w", err)
	}

	if st.TypeBreakdown, err = s.typeBreakdown(ctx); err != nil {
		return nil, err
	}
	if st.Languages, err = s.languages(ctx); err != nil {
		return nil, err
	}
	if st.LatestVersion, err = s.versions.Latest(ctx); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StatsStore) typeBreakdown(ctx context.Context) ([]models.TypeCount, error) {
	rows, err := s.rs.Query(ctx, `
		SELECT type, COUNT(*) AS count
		FROM content WHERE is_deleted = FALSE
		GROUP BY type ORDER BY count DESC, type
	`)
	if err != nil {
		return nil, fmt.Errorf("stats type breakdown: %w", err)
	}
	defer rows.Close()

	items := []models.TypeCount{}
	for rows.Next() {
		var tc models.TypeCount
		if err := rows.Scan(&tc.Type, &tc.Count); err != nil {
			return nil, fmt.Errorf("scan type count: %w", err)
		}
		items = append(items, tc)
	}
	return items, rows.Err()
}

func (s *StatsStore) languages(ctx context.Context) ([]models.LanguageCount, error) {
	rows, err := s.rs.Query(ctx, `
		SELECT language_code, COUNT(*) AS count
		FROM content_translation
		GROUP BY language_code ORDER BY count DESC, language_code
	`)
	if err != nil {
		return nil, fmt.Errorf("stats languages: %w", err)
	}
	defer rows.Close()

	items := []models.LanguageCount{}
	for rows.Next() {
		var lc models.LanguageCount
		if err := rows.Scan(&lc.LanguageCode, &lc.Count); err != nil {
			return nil, fmt.Errorf("scan language count: %w", err)
		}
		items = append(items, lc)
	}
	return items, rows.Err()
}
