// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// personal hub: the two HTML pages, the JSON API and the static assets.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"personalhub/internal/handlers"
	"personalhub/internal/middleware"
	"personalhub/internal/models"
	"personalhub/internal/render"
	"personalhub/internal/session"
)

// Deps are the handler groups and session backend the router wires up.
type Deps struct {
	Sessions     session.Manager
	LoginLimiter *middleware.RateLimiter // nil disables login rate limiting
	Auth         *handlers.Auth
	API          *handlers.API
	Export       *handlers.Export
	Pages        *handlers.Pages
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(d.Sessions))
	r.Use(middleware.Gate)

	r.Get("/health", handlers.Health)
	r.Handle("/"+models.DefaultIcon, http.FileServerFS(render.Static()))

	// HTML pages. The gate has already redirected anonymous visitors.
	r.Get("/login", d.Pages.Login)
	r.Get("/", d.Pages.Home)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequireAPIAuth)

		r.Route("/auth", func(r chi.Router) {
			r.With(limit(d.LoginLimiter)).Post("/login", d.Auth.Login)
			r.Get("/session", d.Auth.Session)
			r.Post("/logout", d.Auth.Logout)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.API.ListCategories)
			r.Post("/", d.API.CreateCategory)
			r.Put("/", d.API.UpdateCategory)
			r.Delete("/", d.API.DeleteCategory)
			r.Post("/reorder", d.API.ReorderCategories)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", d.API.ListTags)
			r.Post("/", d.API.CreateTag)
			r.Put("/", d.API.UpdateTag)
			r.Delete("/", d.API.DeleteTag)
			r.Get("/all", d.API.ListAllTags)
			r.Post("/reorder", d.API.ReorderTags)
		})

		r.Route("/sites", func(r chi.Router) {
			r.Get("/", d.API.ListSites)
			r.Post("/", d.API.CreateSite)
			r.Put("/", d.API.UpdateSite)
			r.Delete("/", d.API.DeleteSite)
			r.Post("/reorder", d.API.ReorderSites)
		})

		r.Get("/export", d.Export.Snapshot)
		r.Post("/backup", d.Export.Backup)
	})

	return r
}

func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}
