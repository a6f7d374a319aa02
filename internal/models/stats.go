package models

// TypeCount is the number of active nodes of one type.
type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// LanguageCount is the number of translations in one language.
type LanguageCount struct {
	LanguageCode string `json:"language_code"`
	Count        int    `json:"count"`
}

// Stats is the dashboard summary.
type Stats struct {
	ContentCount     int             `json:"content_count"`
	TranslationCount int             `json:"translation_count"`
	VersionCount     int             `json:"version_count"`
	RootCount        int             `json:"root_count"`
	TypeBreakdown    []TypeCount     `json:"type_breakdown"`
	Languages        []LanguageCount `json:"languages"`
	LatestVersion    *Version        `json:"latest_version"`
}
