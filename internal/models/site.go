// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"net/url"
	"time"

	"github.com/google/uuid"
)

// DefaultIcon is served when a site has no icon and its URL has no host.
const DefaultIcon = "default-icon.png"

// SiteFilter narrows a site listing. Nil fields match everything.
type SiteFilter struct {
	CategoryID *uuid.UUID
	TagID      *uuid.UUID
}

// Site is a bookmarked link filed under a category and a tag. TagID becomes
// nil once its tag is deleted.
type Site struct {
	ID          uuid.UUID  `json:"id"`
	CategoryID  uuid.UUID  `json:"category_id"`
	TagID       *uuid.UUID `json:"tag_id"`
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Description *string    `json:"description,omitempty"`
	Icon        *string    `json:"icon,omitempty"`
	Position    *int       `json:"position"`
	CreatedAt   time.Time  `json:"created_at"`
}

// GetID returns the site ID.
func (s Site) GetID() uuid.UUID { return s.ID }

// SetPosition overwrites the manual sort position.
func (s *Site) SetPosition(p int) { s.Position = &p }

// HasTag reports whether the site is filed under the given tag.
func (s *Site) HasTag(id uuid.UUID) bool {
	return s.TagID != nil && *s.TagID == id
}

// IconURL returns the explicit icon if set, otherwise a favicon lookup URL
// derived from the site's host.
func (s *Site) IconURL() string {
	if s.Icon != nil && *s.Icon != "" {
		return *s.Icon
	}
	return FaviconURL(s.URL)
}

// FaviconURL builds the favicon service URL for rawURL's host.
func FaviconURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return DefaultIcon
	}
	return "https://www.google.com/s2/favicons?domain=" + url.QueryEscape(u.Hostname()) + "&sz=64"
}
