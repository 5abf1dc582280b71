// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the login page and
// the board view, plus the embedded static assets they reference.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// PageData holds all data passed to page templates.
type PageData struct {
	Title         string // Page title for <title> tag
	Authenticated bool   // Shows the logout control
	Data          any    // Page-specific view model
}

// Renderer holds the parsed page templates.
type Renderer struct {
	templates map[string]*template.Template
}

// standaloneTemplates render as full HTML pages without the base layout.
var standaloneTemplates = map[string]bool{
	"login": true,
}

// New parses every page template from the embedded filesystem. Layout
// pages are paired with base.html.
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template)}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == "base.html" {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		var parseErr error
		if standaloneTemplates[tmplName] {
			tmpl, parseErr = template.New(name).ParseFS(templateFS, "templates/"+name)
		} else {
			tmpl, parseErr = template.New("base.html").ParseFS(templateFS, "templates/base.html", "templates/"+name)
		}
		if parseErr != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, parseErr)
		}
		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Page renders a page with status 200. Execution happens into a buffer so
// a template error never leaves a half-written response.
func (rn *Renderer) Page(w http.ResponseWriter, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	execName := "base.html"
	if standaloneTemplates[name] {
		execName = name + ".html"
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, execName, data); err != nil {
		slog.Error("template execute failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

// Has reports whether a page template named name was parsed.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

// Static returns the embedded static assets (default-icon.png) rooted at
// the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
