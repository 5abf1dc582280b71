// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/crypto/bcrypt"

	"personalhub/internal/middleware"
	"personalhub/internal/session"
)

// Auth groups the shared-password login and logout handlers.
type Auth struct {
	sessions     session.Manager
	password     string
	passwordHash string
}

// NewAuth creates the auth handler group. passwordHash, when set, is a
// bcrypt hash and takes precedence over the plain password.
func NewAuth(sessions session.Manager, password, passwordHash string) *Auth {
	return &Auth{
		sessions:     sessions,
		password:     password,
		passwordHash: passwordHash,
	}
}

type loginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /api/auth/login.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	if a.password == "" && a.passwordHash == "" {
		slog.Error("login attempted with no password configured")
		writeError(w, http.StatusInternalServerError, "server misconfigured")
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !a.checkPassword(req.Password) {
		slog.Warn("login failed", "remote", middleware.ClientIP(r))
		writeError(w, http.StatusUnauthorized, "Invalid password")
		return
	}

	_, err := a.sessions.Create(r.Context(), w, &session.Data{
		CreatedAt: time.Now().UTC(),
		RemoteIP:  middleware.ClientIP(r),
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not create session")
		return
	}

	writeMessage(w, "Login successful")
}

func (a *Auth) checkPassword(given string) bool {
	if a.passwordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(a.passwordHash), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(a.password)) == 1
}

// Session handles GET /api/auth/session. RequireAPIAuth has already
// rejected requests without a live session.
func (a *Auth) Session(w http.ResponseWriter, r *http.Request) {
	writeMessage(w, "Authenticated")
}

// Logout handles POST /api/auth/logout. The cookie is cleared even when
// the stored session could not be removed.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Error("session destroy failed", "error", err)
	}
	writeMessage(w, "Logged out")
}
