// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service implements the content-admin operations on top of the
// stores. Each service depends on small repository interfaces so that the
// tree invariants can be tested without a database.
package service

import (
	"context"
	"time"

	"contentadmin/internal/models"
)

// ContentRepository is the content-table access used by the services.
// *store.ContentStore implements it.
type ContentRepository interface {
	ListChildren(ctx context.Context, parentID *int64) ([]models.ChildNode, error)
	ListActive(ctx context.Context) ([]models.ContentNode, error)
	ListActiveWithLanguage(ctx context.Context, languageCode string) ([]models.TreeRow, error)
	FindActive(ctx context.Context, id int64) (*models.ContentNode, error)
	ParentOf(ctx context.Context, id int64) (*int64, bool, error)
	MaxSiblingSequence(ctx context.Context, parentID *int64) (int, bool, error)
	Insert(ctx context.Context, parentID *int64, nodeType string, sequence int) (*models.ContentNode, error)
	Update(ctx context.Context, id int64, patch models.ContentPatch) (*models.ContentNode, error)
	ActiveChildIDs(ctx context.Context, parentID *int64) ([]int64, error)
	SoftDelete(ctx context.Context, id int64) error
	SetSequence(ctx context.Context, id int64, sequence int) error
}

// TranslationRepository is implemented by *store.TranslationStore.
type TranslationRepository interface {
	ListByContent(ctx context.Context, contentID int64) ([]models.Translation, error)
	Upsert(ctx context.Context, contentID int64, languageCode string, f models.TranslationFields) (*models.Translation, error)
	ListByContentIDs(ctx context.Context, ids []int64) ([]models.Translation, error)
}

// VersionRepository is implemented by *store.VersionStore.
type VersionRepository interface {
	ExistsByNumber(ctx context.Context, versionNumber string) (bool, error)
	Create(ctx context.Context, v *models.Version) (*models.Version, error)
	FindByID(ctx context.Context, id int64) (*models.Version, error)
	List(ctx context.Context) ([]models.Version, error)
}

// UserRepository is implemented by *store.UserStore.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	Create(ctx context.Context, email, passwordHash string, role models.Role) (*models.User, error)
	SetTOTPSecret(ctx context.Context, userID int64, secret string) error
	EnableTOTP(ctx context.Context, userID int64) error
}

// StatsRepository is implemented by *store.StatsStore.
type StatsRepository interface {
	Stats(ctx context.Context) (*models.Stats, error)
}

// Cache holds JSON payloads of read endpoints. *cache.TreeCache
// implements it, including as a nil pointer.
type Cache interface {
	GetJSON(ctx context.Context, key string, dest any) bool
	SetJSON(ctx context.Context, key string, v any)
	InvalidateAll(ctx context.Context)
}

// ArtifactStore persists export dumps. *storage.Client implements it.
type ArtifactStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

// TokenRevoker denies logged-out tokens. *session.Store implements it.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// noCache is used when no cache is configured.
type noCache struct{}

func (noCache) GetJSON(context.Context, string, any) bool { return false }
func (noCache) SetJSON(context.Context, string, any)      {}
func (noCache) InvalidateAll(context.Context)             {}

func cacheOrNone(c Cache) Cache {
	if c == nil {
		return noCache{}
	}
	return c
}
