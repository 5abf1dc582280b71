// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"personalhub/internal/backup"
)

// SnapshotUploader stores a snapshot and returns its object key.
// Satisfied by *backup.Uploader.
type SnapshotUploader interface {
	Upload(ctx context.Context, snap *backup.Snapshot) (string, error)
}

// Export serves the full data set and pushes backups to object storage.
type Export struct {
	source   backup.Source
	uploader SnapshotUploader // nil when storage is not configured
}

// NewExport creates the export handler group. uploader may be nil.
func NewExport(repos Repositories, uploader SnapshotUploader) *Export {
	return &Export{
		source: backup.Source{
			Categories: repos.Categories,
			Tags:       repos.Tags,
			Sites:      repos.Sites,
		},
		uploader: uploader,
	}
}

// Snapshot handles GET /api/export.
func (e *Export) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := backup.Take(r.Context(), e.source)
	if err != nil {
		storeError(w, r, "export", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Backup handles POST /api/backup.
func (e *Export) Backup(w http.ResponseWriter, r *http.Request) {
	if e.uploader == nil {
		writeError(w, http.StatusServiceUnavailable, "object storage is not configured")
		return
	}

	snap, err := backup.Take(r.Context(), e.source)
	if err != nil {
		storeError(w, r, "backup snapshot", err)
		return
	}
	key, err := e.uploader.Upload(r.Context(), snap)
	if err != nil {
		storeError(w, r, "backup upload", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"key": key})
}

// Health handles GET /health.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
