// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts site descriptions from Markdown to HTML using
// goldmark. Raw HTML in the source is escaped, not passed through.
package markdown

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.Linkify,
		extension.Strikethrough,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// ToHTML converts Markdown source into HTML.
func ToHTML(source string) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Description renders a site description for a template. Conversion
// errors fall back to the escaped source.
func Description(source string) template.HTML {
	if source == "" {
		return ""
	}
	out, err := ToHTML(source)
	if err != nil {
		slog.Warn("markdown render failed", "error", err)
		return template.HTML(template.HTMLEscapeString(source))
	}
	return template.HTML(out)
}
