// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"personalhub/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the session data.
	SessionKey contextKey = "session"
)

// Paths the gate treats specially.
const (
	LoginPath    = "/login"
	HomePath     = "/"
	APILoginPath = "/api/auth/login"
)

// LoadSession retrieves the session from the store and puts it in the
// request context. It does not enforce authentication.
func LoadSession(store session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				// Treated as unauthenticated.
				slog.Warn("session load failed", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			if data != nil {
				ctx := context.WithValue(r.Context(), SessionKey, data)
				r = r.WithContext(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Gate applies the page-level redirect rules. An authenticated visitor of
// the login page is sent home; an unauthenticated visitor of a protected
// page is sent to the login page. Everything else passes through.
// Must be applied after LoadSession.
func Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authed := SessionFromCtx(r.Context()) != nil
		path := r.URL.Path

		switch {
		case authed && path == LoginPath:
			http.Redirect(w, r, HomePath, http.StatusSeeOther)
			return
		case !authed && IsProtectedPage(path):
			http.Redirect(w, r, LoginPath, http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// IsProtectedPage reports whether path is one of the gated HTML routes:
// the home page, /notes, or anything under /notes/.
func IsProtectedPage(path string) bool {
	return path == HomePath || path == "/notes" || strings.HasPrefix(path, "/notes/")
}

// RequireAPIAuth rejects API requests without a session with a 401 JSON
// error. The login endpoint is exempt. Must be applied after LoadSession.
func RequireAPIAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != APILoginPath && SessionFromCtx(r.Context()) == nil {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded (visitor is not authenticated).
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}
