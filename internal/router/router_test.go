// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the gate rules end to end over the in-memory backends.
package router

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"personalhub/internal/handlers"
	"personalhub/internal/middleware"
	"personalhub/internal/render"
	"personalhub/internal/session"
	"personalhub/internal/store"
)

const testPassword = "hunter2"

// newTestServer starts the full router over fresh in-memory stores.
func newTestServer(t *testing.T, loginLimit int) *httptest.Server {
	t.Helper()

	renderer, err := render.New()
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	repos := handlers.Memory(store.NewMemory())
	sessions := session.NewMemoryStore(false)

	var limiter *middleware.RateLimiter
	if loginLimit > 0 {
		limiter = middleware.NewRateLimiter(loginLimit, time.Minute)
		t.Cleanup(limiter.Stop)
	}

	srv := httptest.NewServer(New(Deps{
		Sessions:     sessions,
		LoginLimiter: limiter,
		Auth:         handlers.NewAuth(sessions, testPassword, ""),
		API:          handlers.NewAPI(repos, nil),
		Export:       handlers.NewExport(repos, nil),
		Pages:        handlers.NewPages(renderer, repos),
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newClient returns a client with a cookie jar that does not follow
// redirects.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func do(t *testing.T, c *http.Client, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func login(t *testing.T, srv *httptest.Server, c *http.Client) {
	t.Helper()
	resp := do(t, c, http.MethodPost, srv.URL+"/api/auth/login", `{"password":"`+testPassword+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want 200", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, 0)
	resp := do(t, newClient(t), http.MethodGet, srv.URL+"/health", "")

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestGateAnonymous(t *testing.T) {
	srv := newTestServer(t, 0)
	c := newClient(t)

	tests := []struct {
		method     string
		path       string
		wantStatus int
		wantLoc    string
	}{
		{"GET", "/", http.StatusSeeOther, "/login"},
		{"GET", "/notes", http.StatusSeeOther, "/login"},
		{"GET", "/notes/abc", http.StatusSeeOther, "/login"},
		{"GET", "/login", http.StatusOK, ""},
		{"GET", "/health", http.StatusOK, ""},
		{"GET", "/default-icon.png", http.StatusOK, ""},
		{"GET", "/api/categories", http.StatusUnauthorized, ""},
		{"POST", "/api/sites/reorder", http.StatusUnauthorized, ""},
		{"GET", "/api/export", http.StatusUnauthorized, ""},
		{"POST", "/api/auth/logout", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			resp := do(t, c, tt.method, srv.URL+tt.path, "")
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantLoc != "" && resp.Header.Get("Location") != tt.wantLoc {
				t.Errorf("location = %q, want %q", resp.Header.Get("Location"), tt.wantLoc)
			}
		})
	}
}

func TestGateAuthenticated(t *testing.T) {
	srv := newTestServer(t, 0)
	c := newClient(t)
	login(t, srv, c)

	resp := do(t, c, http.MethodGet, srv.URL+"/login", "")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/" {
		t.Errorf("GET /login = %d %q, want 303 to /", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp = do(t, c, http.MethodGet, srv.URL+"/", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("GET / = %d, want 200", resp.StatusCode)
	}

	resp = do(t, c, http.MethodGet, srv.URL+"/notes", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET /notes = %d, want 404", resp.StatusCode)
	}

	resp = do(t, c, http.MethodPost, srv.URL+"/api/auth/logout", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("logout = %d, want 200", resp.StatusCode)
	}
	resp = do(t, c, http.MethodGet, srv.URL+"/api/categories", "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("after logout = %d, want 401", resp.StatusCode)
	}
}

func TestAPIRoundTrip(t *testing.T) {
	srv := newTestServer(t, 0)
	c := newClient(t)
	login(t, srv, c)

	resp := do(t, c, http.MethodPost, srv.URL+"/api/categories", `{"name":"Work"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create = %d, want 201", resp.StatusCode)
	}
	var cat struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cat); err != nil {
		t.Fatal(err)
	}

	resp = do(t, c, http.MethodPost, srv.URL+"/api/tags", `{"name":"Docs","category_id":"`+cat.ID+`"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create tag = %d, want 201", resp.StatusCode)
	}

	resp = do(t, c, http.MethodGet, srv.URL+"/api/tags?categoryId="+cat.ID, "")
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), `"Docs"`) {
		t.Errorf("list tags = %d %s", resp.StatusCode, body)
	}
	if cc := resp.Header.Get("Cache-Control"); cc != "no-store" {
		t.Errorf("cache-control = %q, want no-store", cc)
	}

	resp = do(t, c, http.MethodGet, srv.URL+"/api/tags/all", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("list all tags = %d, want 200", resp.StatusCode)
	}

	resp = do(t, c, http.MethodGet, srv.URL+"/api/export", "")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("export = %d, want 200", resp.StatusCode)
	}
	resp = do(t, c, http.MethodPost, srv.URL+"/api/backup", "")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("backup = %d, want 503", resp.StatusCode)
	}

	resp = do(t, c, http.MethodDelete, srv.URL+"/api/categories", `{"id":"`+cat.ID+`"}`)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete = %d, want 200", resp.StatusCode)
	}
}

func TestLoginRateLimited(t *testing.T) {
	srv := newTestServer(t, 2)
	c := newClient(t)

	for i := 0; i < 2; i++ {
		resp := do(t, c, http.MethodPost, srv.URL+"/api/auth/login", `{"password":"wrong"}`)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("attempt %d = %d, want 401", i+1, resp.StatusCode)
		}
	}

	resp := do(t, c, http.MethodPost, srv.URL+"/api/auth/login", `{"password":"`+testPassword+`"}`)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("third attempt = %d, want 429", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("missing Retry-After")
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, 0)
	resp := do(t, newClient(t), http.MethodGet, srv.URL+"/login", "")

	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Content-Security-Policy"} {
		if resp.Header.Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
}
