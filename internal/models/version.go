// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"time"
)

// Version marks a point-in-time export of the content set. It is never
// modified after creation. FileURL is empty unless the dump was stored in
// the artifact store.
type Version struct {
	ID               int64     `json:"id"`
	VersionNumber    string    `json:"version_number"`
	Notes            string    `json:"notes"`
	FileURL          string    `json:"file_url"`
	ContentCount     int       `json:"content_count"`
	TranslationCount int       `json:"translation_count"`
	CreatedBy        *int64    `json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
}

// HasArtifact returns true if the export bytes were stored externally.
func (v *Version) HasArtifact() bool {
	return v.FileURL != ""
}

// ExportFilename returns the download filename for a version number.
func ExportFilename(versionNumber string) string {
	return fmt.Sprintf("content-export-v%s.sql", versionNumber)
}
