package service

import (
	"context"
	"strings"

	"contentadmin/internal/domain"
	"contentadmin/internal/models"
)

// TranslationService reads and writes per-language text of content nodes.
type TranslationService struct {
	content      ContentRepository
	translations TranslationRepository
	cache        Cache
}

// NewTranslationService creates a translation service. c may be nil.
func NewTranslationService(content ContentRepository, translations TranslationRepository, c Cache) *TranslationService {
	return &TranslationService{content: content, translations: translations, cache: cacheOrNone(c)}
}

// Get returns every translation of a node, keyed by language and as rows
// ordered by language code. A node without translations yields empty
// structures.
func (s *TranslationService) Get(ctx context.Context, contentID int64) (*models.TranslationSet, error) {
	if contentID <= 0 {
		return nil, domain.Validationf("content_id is required.")
	}

	rows, err := s.translations.ListByContent(ctx, contentID)
	if err != nil {
		return nil, err
	}

	set := &models.TranslationSet{
		ByLanguage: make(map[string]models.Translation, len(rows)),
		Rows:       rows,
		Count:      len(rows),
	}
	for _, r := range rows {
		set.ByLanguage[r.LanguageCode] = r
	}
	return set, nil
}

// Save replaces the node's translation in languageCode with fields. Every
// text column is written; omitted ones become empty strings.
func (s *TranslationService) Save(ctx context.Context, contentID int64, languageCode string, fields models.TranslationFields) (*models.Translation, error) {
	if contentID <= 0 {
		return nil, domain.Validationf("content_id is required.")
	}
	languageCode = strings.TrimSpace(languageCode)
	if languageCode == "" {
		return nil, domain.Validationf("language_code is required.")
	}

	node, err := s.content.FindActive(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, domain.NotFoundf("Content not found.")
	}

	t, err := s.translations.Upsert(ctx, contentID, languageCode, fields)
	if err != nil {
		return nil, err
	}
	s.cache.InvalidateAll(ctx)
	return t, nil
}
