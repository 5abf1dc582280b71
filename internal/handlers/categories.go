// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"
)

type categoryRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type reorderCategoriesRequest struct {
	CategoryIDs []string `json:"categoryIds"`
}

// ListCategories handles GET /api/categories.
func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	a.serveList(w, r, "list categories", func(ctx context.Context) (any, error) {
		return a.categories.List(ctx)
	})
}

// CreateCategory handles POST /api/categories.
func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if msg := validateName(name); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	c, err := a.categories.Create(r.Context(), name)
	if err != nil {
		storeError(w, r, "create category", err)
		return
	}
	a.changed(r.Context())
	writeJSON(w, http.StatusCreated, c)
}

// UpdateCategory handles PUT /api/categories.
func (a *API) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
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

	c, err := a.categories.Update(r.Context(), id, name)
	if err != nil {
		storeError(w, r, "update category", err)
		return
	}
	if c == nil {
		writeError(w, http.StatusNotFound, "Category not found")
		return
	}
	a.changed(r.Context())
	writeJSON(w, http.StatusOK, c)
}

// DeleteCategory handles DELETE /api/categories. Tags and sites of the
// category go with it.
func (a *API) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, msg := parseID(req.ID, "ID is required")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := a.categories.Delete(r.Context(), id); err != nil {
		storeError(w, r, "delete category", err)
		return
	}
	a.changed(r.Context())
	writeMessage(w, "Category deleted successfully")
}

// ReorderCategories handles POST /api/categories/reorder.
func (a *API) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req reorderCategoriesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ids, msg := parseIDList(req.CategoryIDs, "categoryIds")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := a.categories.Reorder(r.Context(), ids); err != nil {
		storeError(w, r, "reorder categories", err)
		return
	}
	a.changed(r.Context())
	writeMessage(w, "Category order updated successfully")
}
