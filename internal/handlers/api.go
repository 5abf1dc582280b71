// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the HTTP handlers: the JSON resource API for
// categories, tags and sites, the shared-password auth endpoints, export
// and backup, and the two HTML pages.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"personalhub/internal/cache"
)

// API groups the JSON resource handlers.
type API struct {
	categories CategoryRepository
	tags       TagRepository
	sites      SiteRepository
	lists      *cache.ListCache // nil disables list caching
}

// NewAPI creates the resource handler group. lists may be nil.
func NewAPI(repos Repositories, lists *cache.ListCache) *API {
	return &API{
		categories: repos.Categories,
		tags:       repos.Tags,
		sites:      repos.Sites,
		lists:      lists,
	}
}

// serveList answers a GET list request from the cache when possible,
// otherwise from fetch, caching the encoded result. The generation is read
// before fetch runs.
func (a *API) serveList(w http.ResponseWriter, r *http.Request, op string, fetch func(ctx context.Context) (any, error)) {
	gen, cacheable := a.lists.Generation(r.Context())
	key := cache.RequestKey(gen, r.URL.Path, r.URL.RawQuery)
	if cacheable {
		if body, ok := a.lists.Get(r.Context(), key); ok {
			writeRawJSON(w, http.StatusOK, body)
			return
		}
	}

	v, err := fetch(r.Context())
	if err != nil {
		storeError(w, r, op, err)
		return
	}

	body, err := json.Marshal(v)
	if err != nil {
		storeError(w, r, op, err)
		return
	}
	if cacheable {
		a.lists.Set(r.Context(), key, body)
	}
	writeRawJSON(w, http.StatusOK, body)
}

// changed drops every cached list after a successful write.
func (a *API) changed(ctx context.Context) {
	a.lists.InvalidateAll(ctx)
}
