// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// list.go provides a Valkey-backed cache of encoded list responses.
// GET /api/categories, /api/tags and /api/sites are served from here until
// any write bumps the generation. Keys carry the generation read before the
// store was queried, so a body fetched across a write is stored under a key
// nothing reads again.
package cache

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listKeyPrefix is the Valkey key prefix for cached list responses.
	listKeyPrefix = "list:"

	// generationKey holds the counter bumped by every invalidation.
	generationKey = listKeyPrefix + "gen"

	// DefaultListTTL bounds staleness if an invalidation is ever missed.
	DefaultListTTL = 5 * time.Minute
)

// ListCache caches encoded JSON list bodies. A nil *ListCache is valid and
// behaves as a cache that always misses.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a list cache backed by the given Valkey client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Get returns the cached body for key.
func (lc *ListCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if lc == nil {
		return nil, false
	}
	val, err := lc.client.Get(ctx, listKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("list cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("list cache hit", "key", key)
	return val, true
}

// Set stores body under key with the configured TTL.
func (lc *ListCache) Set(ctx context.Context, key string, body []byte) {
	if lc == nil {
		return
	}
	if err := lc.client.Set(ctx, listKeyPrefix+key, body, lc.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "key", key, "error", err)
	}
}

// Generation returns the current list generation. ok is false when the
// counter cannot be read, in which case the caller should skip the cache.
func (lc *ListCache) Generation(ctx context.Context) (gen int64, ok bool) {
	if lc == nil {
		return 0, false
	}
	gen, err := lc.client.Get(ctx, generationKey).Int64()
	if err == redis.Nil {
		return 0, true
	}
	if err != nil {
		slog.Warn("list cache generation error", "error", err)
		return 0, false
	}
	return gen, true
}

// InvalidateAll bumps the generation, which retires every cached list, then
// deletes the retired entries. Any write can change any list (a category
// delete cascades to tags and sites), so invalidation is never narrower
// than this.
func (lc *ListCache) InvalidateAll(ctx context.Context) {
	if lc == nil {
		return
	}
	if err := lc.client.Incr(ctx, generationKey).Err(); err != nil {
		slog.Warn("list cache generation bump error", "error", err)
	}

	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := lc.client.Scan(ctx, cursor, listKeyPrefix+"*:*", 100).Result()
		if err != nil {
			slog.Warn("list cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := lc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("list cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("list cache cleared", "deleted", deleted)
	}
}

// RequestKey returns the cache key for a list request path and raw query
// under generation gen.
func RequestKey(gen int64, path, rawQuery string) string {
	key := strconv.FormatInt(gen, 10) + ":" + path
	if rawQuery == "" {
		return key
	}
	return key + "?" + rawQuery
}
