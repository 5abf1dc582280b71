// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"personalhub/internal/backup"
)

type fakeUploader struct {
	got *backup.Snapshot
	err error
}

func (f *fakeUploader) Upload(_ context.Context, snap *backup.Snapshot) (string, error) {
	f.got = snap
	if f.err != nil {
		return "", f.err
	}
	return backup.Key(snap.TakenAt), nil
}

func TestExportSnapshot(t *testing.T) {
	env := newTestEnv(t)
	c := env.seedCategory(t, "Work")
	tag := env.seedTag(t, c.ID, "Docs")
	env.seedSite(t, c.ID, &tag.ID, "Go", "https://go.dev")

	w := serve(NewExport(env.Repos, nil).Snapshot, jsonRequest(t, http.MethodGet, "/api/export", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var snap backup.Snapshot
	decode(t, w, &snap)
	if len(snap.Categories) != 1 || len(snap.Tags) != 1 || len(snap.Sites) != 1 {
		t.Errorf("snapshot sizes = %d/%d/%d, want 1/1/1", len(snap.Categories), len(snap.Tags), len(snap.Sites))
	}
	if snap.TakenAt.IsZero() {
		t.Error("taken_at not set")
	}
}

func TestBackup(t *testing.T) {
	t.Run("storage not configured", func(t *testing.T) {
		env := newTestEnv(t)
		w := serve(NewExport(env.Repos, nil).Backup, jsonRequest(t, http.MethodPost, "/api/backup", nil))
		if w.Code != http.StatusServiceUnavailable {
			t.Errorf("status = %d, want 503", w.Code)
		}
	})

	t.Run("uploads snapshot", func(t *testing.T) {
		env := newTestEnv(t)
		env.seedCategory(t, "Work")
		up := &fakeUploader{}

		w := serve(NewExport(env.Repos, up).Backup, jsonRequest(t, http.MethodPost, "/api/backup", nil))
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201", w.Code)
		}
		var body map[string]string
		decode(t, w, &body)
		if !strings.HasPrefix(body["key"], backup.KeyPrefix) {
			t.Errorf("key = %q, want %s prefix", body["key"], backup.KeyPrefix)
		}
		if up.got == nil || len(up.got.Categories) != 1 {
			t.Errorf("uploaded snapshot = %+v", up.got)
		}
	})

	t.Run("upload failure", func(t *testing.T) {
		env := newTestEnv(t)
		up := &fakeUploader{err: errors.New("bucket gone")}

		w := serve(NewExport(env.Repos, up).Backup, jsonRequest(t, http.MethodPost, "/api/backup", nil))
		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}
		if got := errorOf(t, w); got != "bucket gone" {
			t.Errorf("error = %q", got)
		}
	})
}

func TestHealth(t *testing.T) {
	w := serve(Health, jsonRequest(t, http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body map[string]string
	decode(t, w, &body)
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
}
