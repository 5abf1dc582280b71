// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests. Handlers run against the in-memory stores; the Valkey-backed list
// cache tests are skipped when Valkey is unavailable.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"personalhub/internal/cache"
	"personalhub/internal/middleware"
	"personalhub/internal/models"
	"personalhub/internal/session"
	"personalhub/internal/store"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testValkeyClient returns a Redis client for handler tests on DB 14, apart
// from the cache package's DB 15 since both reset the list generation.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       14,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, "list:*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

// testEnv holds the handler dependencies for one test.
type testEnv struct {
	Memory   *store.Memory
	Repos    Repositories
	Sessions *session.MemoryStore
	API      *API
	Auth     *Auth
}

// newTestEnv builds handlers over a fresh in-memory store with no list
// cache and the shared password "hunter2".
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithCache(t, nil)
}

func newTestEnvWithCache(t *testing.T, lists *cache.ListCache) *testEnv {
	t.Helper()

	mem := store.NewMemory()
	repos := Memory(mem)
	sessions := session.NewMemoryStore(false)

	return &testEnv{
		Memory:   mem,
		Repos:    repos,
		Sessions: sessions,
		API:      NewAPI(repos, lists),
		Auth:     NewAuth(sessions, "hunter2", ""),
	}
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// jsonRequest builds a request whose body is v encoded as JSON. A string
// v is sent verbatim.
func jsonRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()

	var body []byte
	switch b := v.(type) {
	case nil:
	case string:
		body = []byte(b)
	default:
		var err error
		if body, err = json.Marshal(v); err != nil {
			t.Fatalf("marshal request: %v", err)
		}
	}
	r := httptest.NewRequest(method, target, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// serve runs h on r and returns the recorded response.
func serve(h http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, r)
	return w
}

// decode unmarshals the response body into v.
func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

// errorOf returns the "error" field of a JSON error response.
func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, w, &body)
	return body["error"]
}

// seedCategory creates a category directly in the store.
func (e *testEnv) seedCategory(t *testing.T, name string) models.Category {
	t.Helper()
	c, err := e.Memory.Categories.Create(context.Background(), name)
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return *c
}

// seedTag creates a tag directly in the store.
func (e *testEnv) seedTag(t *testing.T, categoryID uuid.UUID, name string) models.Tag {
	t.Helper()
	tag, err := e.Memory.Tags.Create(context.Background(), categoryID, name)
	if err != nil {
		t.Fatalf("seed tag: %v", err)
	}
	return *tag
}

// seedSite creates a site directly in the store.
func (e *testEnv) seedSite(t *testing.T, categoryID uuid.UUID, tagID *uuid.UUID, title, url string) models.Site {
	t.Helper()
	s, err := e.Memory.Sites.Create(context.Background(), &models.Site{
		CategoryID: categoryID,
		TagID:      tagID,
		Title:      title,
		URL:        url,
	})
	if err != nil {
		t.Fatalf("seed site: %v", err)
	}
	return *s
}

// failingRepo fails every call with the same error.
type failingRepo struct{ err error }

func (f failingRepo) List(context.Context) ([]models.Category, error) { return nil, f.err }
func (f failingRepo) Create(context.Context, string) (*models.Category, error) {
	return nil, f.err
}
func (f failingRepo) Update(context.Context, uuid.UUID, string) (*models.Category, error) {
	return nil, f.err
}
func (f failingRepo) Delete(context.Context, uuid.UUID) error     { return f.err }
func (f failingRepo) Reorder(context.Context, []uuid.UUID) error { return f.err }

// testCacheTTL keeps cached lists around long enough for a test.
const testCacheTTL = time.Minute
