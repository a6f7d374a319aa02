// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"contentadmin/internal/domain"
	"contentadmin/internal/models"
	"contentadmin/internal/sqldump"
	"contentadmin/internal/storage"
)

// DumpContentType is the media type of export dumps.
const DumpContentType = "application/sql"

// ExportResult is a freshly exported dump and the version recorded for it.
type ExportResult struct {
	Version  *models.Version
	Filename string
	Dump     []byte
}

// Download is either a redirect to a stored artifact or a dump generated
// on the spot.
type Download struct {
	RedirectURL string
	Filename    string
	Dump        []byte
}

// ExportService snapshots the active tree into SQL dumps and records
// versions.
type ExportService struct {
	content      ContentRepository
	translations TranslationRepository
	versions     VersionRepository
	artifacts    ArtifactStore
	cache        Cache
	now          func() time.Time
}

// NewExportService creates an export service. artifacts and c may be nil;
// without an artifact store dumps are never persisted.
func NewExportService(content ContentRepository, translations TranslationRepository, versions VersionRepository, artifacts ArtifactStore, c Cache) *ExportService {
	return &ExportService{
		content:      content,
		translations: translations,
		versions:     versions,
		artifacts:    artifacts,
		cache:        cacheOrNone(c),
		now:          time.Now,
	}
}

// List returns all versions, newest first.
func (s *ExportService) List(ctx context.Context) ([]models.Version, error) {
	return s.versions.List(ctx)
}

// Export renders the current active tree and records it as versionNumber.
// A version number can be used once.
func (s *ExportService) Export(ctx context.Context, versionNumber, notes string, createdBy *int64) (*ExportResult, error) {
	versionNumber = strings.TrimSpace(versionNumber)
	if versionNumber == "" {
		return nil, domain.Validationf("version_number is required.")
	}

	exists, err := s.versions.ExistsByNumber(ctx, versionNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Conflictf("Version %s already exists.", versionNumber)
	}

	dump, err := s.snapshot(ctx, versionNumber, false)
	if err != nil {
		return nil, err
	}
	data := sqldump.Render(*dump)

	var fileURL, key string
	if s.artifacts != nil {
		key = storage.ExportKey(versionNumber)
		fileURL, err = s.artifacts.Upload(ctx, key, DumpContentType, data)
		if err != nil {
			return nil, err
		}
	}

	v, err := s.versions.Create(ctx, &models.Version{
		VersionNumber:    versionNumber,
		Notes:            notes,
		FileURL:          fileURL,
		ContentCount:     len(dump.Nodes),
		TranslationCount: len(dump.Translations),
		CreatedBy:        createdBy,
	})
	if err != nil {
		if key != "" {
			if delErr := s.artifacts.Delete(ctx, key); delErr != nil {
				slog.Warn("orphaned export artifact", "key", key, "error", delErr)
			}
		}
		return nil, err
	}
	s.cache.InvalidateAll(ctx)

	slog.Info("content exported",
		"version", v.VersionNumber,
		"content_count", v.ContentCount,
		"translation_count", v.TranslationCount,
		"stored", v.HasArtifact(),
	)
	return &ExportResult{
		Version:  v,
		Filename: models.ExportFilename(v.VersionNumber),
		Dump:     data,
	}, nil
}

// Redownload returns the stored artifact of a version as a redirect, or
// regenerates the dump from the current tree when none was stored. A
// regenerated dump reflects today's content, not the content at export
// time.
func (s *ExportService) Redownload(ctx context.Context, versionID int64) (*Download, error) {
	if versionID <= 0 {
		return nil, domain.Validationf("Version ID is required.")
	}

	v, err := s.versions.FindByID(ctx, versionID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NotFoundf("Version not found.")
	}

	filename := models.ExportFilename(v.VersionNumber)
	if v.HasArtifact() {
		return &Download{RedirectURL: v.FileURL, Filename: filename}, nil
	}

	dump, err := s.snapshot(ctx, v.VersionNumber, true)
	if err != nil {
		return nil, err
	}
	return &Download{Filename: filename, Dump: sqldump.Render(*dump)}, nil
}

// snapshot reads the active nodes and their translations.
func (s *ExportService) snapshot(ctx context.Context, versionNumber string, regenerated bool) (*sqldump.Dump, error) {
	nodes, err := s.content.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}

	var translations []models.Translation
	if len(ids) > 0 {
		translations, err = s.translations.ListByContentIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	return &sqldump.Dump{
		VersionNumber: versionNumber,
		Regenerated:   regenerated,
		GeneratedAt:   s.now(),
		Nodes:         nodes,
		Translations:  translations,
	}, nil
}
