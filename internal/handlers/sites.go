// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"personalhub/internal/models"
)

type siteRequest struct {
	ID          string  `json:"id"`
	CategoryID  string  `json:"category_id"`
	TagID       *string `json:"tag_id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

type reorderSitesRequest struct {
	SiteIDs []string `json:"siteIds"`
}

type siteIDRequest struct {
	ID string `json:"id"`
}

// ListSites handles GET /api/sites with optional categoryId and tagId.
func (a *API) ListSites(w http.ResponseWriter, r *http.Request) {
	var f models.SiteFilter
	q := r.URL.Query()
	for _, p := range []struct {
		param string
		dst   **uuid.UUID
	}{
		{"categoryId", &f.CategoryID},
		{"tagId", &f.TagID},
	} {
		raw := q.Get(p.param)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid "+p.param+": "+raw)
			return
		}
		*p.dst = &id
	}

	a.serveList(w, r, "list sites", func(ctx context.Context) (any, error) {
		return a.sites.List(ctx, f)
	})
}

// toSite validates the editable fields of req. The tag may be null (or
// empty) unless requireTag is set.
func (req *siteRequest) toSite(requireTag bool) (*models.Site, string) {
	title := strings.TrimSpace(req.Title)
	rawURL := strings.TrimSpace(req.URL)
	tagRaw := ""
	if req.TagID != nil {
		tagRaw = strings.TrimSpace(*req.TagID)
	}
	if strings.TrimSpace(req.CategoryID) == "" || title == "" || rawURL == "" || (requireTag && tagRaw == "") {
		return nil, "Missing required fields"
	}

	categoryID, msg := parseID(req.CategoryID, "Missing required fields")
	if msg != "" {
		return nil, msg
	}
	site := &models.Site{
		CategoryID:  categoryID,
		Title:       title,
		URL:         rawURL,
		Description: emptyToNil(req.Description),
		Icon:        emptyToNil(req.Icon),
	}
	if tagRaw != "" {
		tagID, msg := parseID(tagRaw, "Missing required fields")
		if msg != "" {
			return nil, msg
		}
		site.TagID = &tagID
	}

	if msg := validateSiteFields(site.Title, site.URL, site.Description, site.Icon); msg != "" {
		return nil, msg
	}
	return site, ""
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// CreateSite handles POST /api/sites.
func (a *API) CreateSite(w http.ResponseWriter, r *http.Request) {
	var req siteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	site, msg := req.toSite(true)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := a.sites.Create(r.Context(), site)
	if err != nil {
		storeError(w, r, "create site", err)
		return
	}
	a.changed(r.Context())
	writeJSON(w, http.StatusCreated, created)
}

// UpdateSite handles PUT /api/sites. The request replaces category, tag,
// title, url, description and icon; position is kept.
func (a *API) UpdateSite(w http.ResponseWriter, r *http.Request) {
	var req siteRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, msg := parseID(req.ID, "ID is required for updating")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	site, msg := req.toSite(false)
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	site.ID = id

	updated, err := a.sites.Update(r.Context(), site)
	if err != nil {
		storeError(w, r, "update site", err)
		return
	}
	if updated == nil {
		writeError(w, http.StatusNotFound, "Site not found")
		return
	}
	a.changed(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// DeleteSite handles DELETE /api/sites.
func (a *API) DeleteSite(w http.ResponseWriter, r *http.Request) {
	var req siteIDRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	id, msg := parseID(req.ID, "ID is required for deleting")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := a.sites.Delete(r.Context(), id); err != nil {
		storeError(w, r, "delete site", err)
		return
	}
	a.changed(r.Context())
	writeMessage(w, "Site deleted successfully")
}

// ReorderSites handles POST /api/sites/reorder.
func (a *API) ReorderSites(w http.ResponseWriter, r *http.Request) {
	var req reorderSitesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ids, msg := parseIDList(req.SiteIDs, "siteIds")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := a.sites.Reorder(r.Context(), ids); err != nil {
		storeError(w, r, "reorder sites", err)
		return
	}
	a.changed(r.Context())
	writeMessage(w, "Site order updated successfully")
}
