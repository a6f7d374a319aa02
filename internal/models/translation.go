// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Translation holds one language's text for a content node. Rows are
// unique per (ContentID, LanguageCode).
type Translation struct {
	ID              int64     `json:"id"`
	ContentID       int64     `json:"content_id"`
	LanguageCode    string    `json:"language_code"`
	Title           string    `json:"title"`
	Transliteration string    `json:"transliteration"`
	Translation     string    `json:"translation"`
	OriginalText    string    `json:"original_text"`
	SearchText      string    `json:"search_text"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TranslationFields are the text columns written by a save. Every field
// is written on each save; omitted fields become empty strings.
type TranslationFields struct {
	Title           string `json:"title"`
	Transliteration string `json:"transliteration"`
	Translation     string `json:"translation"`
	OriginalText    string `json:"original_text"`
	SearchText      string `json:"search_text"`
}

// TranslationSet is the result of fetching a node's translations: keyed by
// language and as rows ordered by language code.
type TranslationSet struct {
	ByLanguage map[string]Translation `json:"translations"`
	Rows       []Translation          `json:"rows"`
	Count      int                    `json:"count"`
}
