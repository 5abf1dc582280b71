// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, listKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestListCacheSetAndGet(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListCache(client, time.Minute)
	ctx := context.Background()

	if data, ok := lc.Get(ctx, "/api/categories"); ok || data != nil {
		t.Error("expected cache miss")
	}

	body := []byte(`[{"id":"x","name":"Dev"}]`)
	lc.Set(ctx, "/api/categories", body)

	data, ok := lc.Get(ctx, "/api/categories")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(body) {
		t.Errorf("data mismatch: got %q, want %q", data, body)
	}
}

func TestListCacheInvalidateAll(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListCache(client, time.Minute)
	ctx := context.Background()

	gen, ok := lc.Generation(ctx)
	if !ok {
		t.Fatal("Generation failed")
	}
	keys := []string{
		RequestKey(gen, "/api/categories", ""),
		RequestKey(gen, "/api/tags/all", ""),
		RequestKey(gen, "/api/sites", "categoryId=1"),
	}
	for _, k := range keys {
		lc.Set(ctx, k, []byte("[]"))
	}

	lc.InvalidateAll(ctx)

	for _, k := range keys {
		if _, ok := lc.Get(ctx, k); ok {
			t.Errorf("expected %q to be invalidated", k)
		}
	}
	if next, _ := lc.Generation(ctx); next != gen+1 {
		t.Errorf("generation = %d, want %d", next, gen+1)
	}
}

func TestListCacheLateSetAfterInvalidate(t *testing.T) {
	client := testValkeyClient(t)
	lc := NewListCache(client, time.Minute)
	ctx := context.Background()

	// A reader takes the generation, then a write invalidates before the
	// reader stores what it fetched.
	before, _ := lc.Generation(ctx)
	lc.InvalidateAll(ctx)
	lc.Set(ctx, RequestKey(before, "/api/categories", ""), []byte(`["stale"]`))

	after, _ := lc.Generation(ctx)
	if _, ok := lc.Get(ctx, RequestKey(after, "/api/categories", "")); ok {
		t.Error("late write from an old generation is visible")
	}
}

func TestNilListCache(t *testing.T) {
	var lc *ListCache
	ctx := context.Background()

	lc.Set(ctx, "k", []byte("v"))
	if _, ok := lc.Get(ctx, "k"); ok {
		t.Error("nil cache should always miss")
	}
	if _, ok := lc.Generation(ctx); ok {
		t.Error("nil cache should not report a generation")
	}
	lc.InvalidateAll(ctx)
}

func TestRequestKey(t *testing.T) {
	tests := []struct {
		gen               int64
		path, query, want string
	}{
		{0, "/api/categories", "", "0:/api/categories"},
		{7, "/api/sites", "categoryId=a&tagId=b", "7:/api/sites?categoryId=a&tagId=b"},
	}
	for _, tt := range tests {
		if got := RequestKey(tt.gen, tt.path, tt.query); got != tt.want {
			t.Errorf("RequestKey(%d, %q, %q) = %q, want %q", tt.gen, tt.path, tt.query, got, tt.want)
		}
	}
}
