// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"
)

type tagRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	CategoryID string `json:"category_id"`
}

type reorderTagsRequest struct {
	TagIDs []string `json:"tagIds"`
}

// ListTags handles GET /api/tags?categoryId=.
func (a *API) ListTags(w http.ResponseWriter, r *http.Request) {
	categoryID, msg := parseID(r.URL.Query().Get("categoryId"), "categoryId is required")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	a.serveList(w, r, "list tags", func(ctx context.Context) (any, error) {
		return a.tags.ListByCategory(ctx, categoryID)
	})
}

// ListAllTags handles GET /api/tags/all.
func (a *API) ListAllTags(w http.ResponseWriter, r *http.Request) {
	a.serveList(w, r, "list all tags", func(ctx context.Context) (any, error) {
		return a.tags.ListAll(ctx)
	})
}

// CreateTag handles POST /api/tags.
func (a *API) CreateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || strings.TrimSpace(req.CategoryID) == "" {
		writeError(w, http.StatusBadRequest, "Name and category_id are required")
		return
	}
	categoryID, msg := parseID(req.CategoryID, "Name and category_id are required")
	if msg == "" {
		msg = validateName(name)
	}
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	t, err := a.tags.Create(r.Context(), categoryID, name)
	if err != nil {
		storeError(w, r, "create tag", err)
		return
	}
	a.changed(r.Context())
	writeJSON(w, http.StatusCreated, t)
}

// UpdateTag handles PUT /api/tags. Only the name is replaced.
func (a *API) UpdateTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if strings.TrimSpace(req.ID) == "" || name == "" {
		writeError(w, http.StatusBadRequest, "ID and name are required")
		return
	}
	id, msg := parseID(req.ID, "ID and name are required")
	if msg == "" {
		msg = validateName(name)
	}
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	t, err := a.tags.Update(r.Context(), id, name)
	if err != nil {
		storeError(w, r, "update tag", err)
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "Tag not found")
		return
	}
	a.changed(r.Context())
	writeJSON(w, http.StatusOK, t)
}

// DeleteTag handles DELETE /api/tags. Sites filed under the tag keep
// existing with no tag.
func (a *API) DeleteTag(w http.ResponseWriter, r *http.Request) {
	var req tagRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, msg := parseID(req.ID, "ID is required")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := a.tags.Delete(r.Context(), id); err != nil {
		storeError(w, r, "delete tag", err)
		return
	}
	a.changed(r.Context())
	writeMessage(w, "Tag deleted successfully")
}

// ReorderTags handles POST /api/tags/reorder.
func (a *API) ReorderTags(w http.ResponseWriter, r *http.Request) {
	var req reorderTagsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ids, msg := parseIDList(req.TagIDs, "tagIds")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := a.tags.Reorder(r.Context(), ids); err != nil {
		storeError(w, r, "reorder tags", err)
		return
	}
	a.changed(r.Context())
	writeMessage(w, "Tag order updated successfully")
}
