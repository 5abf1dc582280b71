// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"html/template"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"personalhub/internal/board"
	"personalhub/internal/markdown"
	"personalhub/internal/middleware"
	"personalhub/internal/models"
	"personalhub/internal/render"
)

// Pages serves the HTML login form and board view.
type Pages struct {
	renderer *render.Renderer
	repos    Repositories
}

// NewPages creates the page handler group.
func NewPages(renderer *render.Renderer, repos Repositories) *Pages {
	return &Pages{renderer: renderer, repos: repos}
}

// Login renders the password form. Authenticated visitors never get here;
// the gate redirects them home.
func (p *Pages) Login(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, "login", &render.PageData{Title: "Sign In"})
}

// SiteView is a site prepared for the board template.
type SiteView struct {
	Title       string
	URL         string
	IconURL     string
	Description template.HTML
}

// HomeView is the board template's view model.
type HomeView struct {
	Categories     []models.Category
	Tags           []models.Tag
	Sites          []SiteView
	ActiveCategory string
	ActiveTag      string
	Search         string
}

// IsActiveCategory reports whether id is the selected category.
func (v *HomeView) IsActiveCategory(id uuid.UUID) bool {
	return v.ActiveCategory == id.String()
}

// IsActiveTag reports whether id is the selected tag.
func (v *HomeView) IsActiveTag(id uuid.UUID) bool {
	return v.ActiveTag == id.String()
}

// Home renders the board for ?category=, ?tag= and ?q=. Unknown or
// malformed IDs fall back to the default selection.
func (p *Pages) Home(w http.ResponseWriter, r *http.Request) {
	b, err := p.loadBoard(r.Context())
	if err != nil {
		storeError(w, r, "load board", err)
		return
	}

	q := r.URL.Query()
	if id, err := uuid.Parse(q.Get("category")); err == nil {
		b.SelectCategory(id)
	}
	if id, err := uuid.Parse(q.Get("tag")); err == nil {
		b.SelectTag(id)
	}
	b.SetSearch(strings.TrimSpace(q.Get("q")))

	p.renderer.Page(w, "home", &render.PageData{
		Title:         "Personal Hub",
		Authenticated: middleware.SessionFromCtx(r.Context()) != nil,
		Data:          homeView(b),
	})
}

func (p *Pages) loadBoard(ctx context.Context) (*board.Board, error) {
	var (
		cats  []models.Category
		tags  []models.Tag
		sites []models.Site
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { cats, err = p.repos.Categories.List(ctx); return })
	g.Go(func() (err error) { tags, err = p.repos.Tags.ListAll(ctx); return })
	g.Go(func() (err error) { sites, err = p.repos.Sites.List(ctx, models.SiteFilter{}); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := board.New()
	b.Load(cats, tags, sites)
	return b, nil
}

func homeView(b *board.Board) *HomeView {
	v := &HomeView{
		Categories: b.Categories(),
		Tags:       b.DisplayedTags(),
		Search:     b.Search(),
	}
	if id, ok := b.ActiveCategory(); ok {
		v.ActiveCategory = id.String()
	}
	if id, ok := b.ActiveTag(); ok {
		v.ActiveTag = id.String()
	}

	for _, s := range b.DisplayedSites() {
		sv := SiteView{Title: s.Title, URL: s.URL, IconURL: s.IconURL()}
		if s.Description != nil {
			sv.Description = markdown.Description(*s.Description)
		}
		v.Sites = append(v.Sites, sv)
	}
	return v
}
