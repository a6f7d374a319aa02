// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// tree.go provides a Valkey-backed cache of read-only tree payloads.
// Children listings, full tree dumps and dashboard stats are stored as JSON
// and dropped wholesale on any content mutation.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// treeKeyPrefix is the Valkey key prefix for cached tree payloads.
	treeKeyPrefix = "tree:"

	// DefaultTreeTTL is how long a cached payload lives.
	DefaultTreeTTL = 5 * time.Minute
)

// TreeCache stores JSON payloads in Valkey. A nil *TreeCache is valid and
// never hits, so callers need no separate "caching disabled" path.
type TreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTreeCache creates a tree cache backed by the given Valkey client.
func NewTreeCache(client *redis.Client, ttl time.Duration) *TreeCache {
	if ttl == 0 {
		ttl = DefaultTreeTTL
	}
	return &TreeCache{client: client, ttl: ttl}
}

// GetJSON decodes the cached payload for key into dest. Returns false on a
// miss or any error.
func (tc *TreeCache) GetJSON(ctx context.Context, key string, dest any) bool {
	if tc == nil {
		return false
	}
	val, err := tc.client.Get(ctx, treeKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.Warn("tree cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dest); err != nil {
		slog.Warn("tree cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("tree cache hit", "key", key)
	return true
}

// SetJSON stores v under key with the configured TTL.
func (tc *TreeCache) SetJSON(ctx context.Context, key string, v any) {
	if tc == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Warn("tree cache encode error", "key", key, "error", err)
		return
	}
	if err := tc.client.Set(ctx, treeKeyPrefix+key, payload, tc.ttl).Err(); err != nil {
		slog.Warn("tree cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached payload by scanning for the prefix.
func (tc *TreeCache) InvalidateAll(ctx context.Context) {
	if tc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := tc.client.Scan(ctx, cursor, treeKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("tree cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := tc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("tree cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("tree cache cleared", "deleted", deleted)
	}
}

// ChildrenKey returns the cache key for a children listing.
func ChildrenKey(parentID *int64) string {
	if parentID == nil {
		return "children:root"
	}
	return "children:" + strconv.FormatInt(*parentID, 10)
}

// TreeKey returns the cache key for a full tree listing. An empty language
// selects the structure-only listing.
func TreeKey(languageCode string) string {
	if languageCode == "" {
		return "tree:structure"
	}
	return "tree:lang:" + languageCode
}

// StatsKey returns the cache key for the dashboard stats.
func StatsKey() string {
	return "stats"
}
