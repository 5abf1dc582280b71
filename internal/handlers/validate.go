// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits, counted in runes.
const (
	maxNameLen  = 200
	maxTitleLen = 300
	maxURLLen   = 2048
	maxDescLen  = 2000
	maxIconLen  = 2048
)

// validateName checks a category or tag name and returns the first error
// found, or "".
func validateName(name string) string {
	if utf8.RuneCountInString(name) > maxNameLen {
		return fmt.Sprintf("Name is too long (max %d characters)", maxNameLen)
	}
	return ""
}

// validateSiteFields checks the editable site fields.
func validateSiteFields(title, rawURL string, description, icon *string) string {
	if utf8.RuneCountInString(title) > maxTitleLen {
		return fmt.Sprintf("Title is too long (max %d characters)", maxTitleLen)
	}
	if utf8.RuneCountInString(rawURL) > maxURLLen {
		return fmt.Sprintf("URL is too long (max %d characters)", maxURLLen)
	}
	if !isHTTPURL(rawURL) {
		return "URL must be an absolute http or https URL"
	}
	if description != nil && utf8.RuneCountInString(*description) > maxDescLen {
		return fmt.Sprintf("Description is too long (max %d characters)", maxDescLen)
	}
	if icon != nil && *icon != "" {
		if utf8.RuneCountInString(*icon) > maxIconLen {
			return fmt.Sprintf("Icon URL is too long (max %d characters)", maxIconLen)
		}
		if !isHTTPURL(*icon) {
			return "Icon must be an absolute http or https URL"
		}
	}
	return ""
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// parseID parses a required UUID field. msg is the 400 message to send when
// the field is missing or malformed, "" otherwise.
func parseID(raw, missingMsg string) (id uuid.UUID, msg string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, missingMsg
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, "Invalid ID: " + raw
	}
	return id, ""
}

// parseIDList parses a non-empty reorder payload.
func parseIDList(raw []string, field string) ([]uuid.UUID, string) {
	if len(raw) == 0 {
		return nil, "An array of " + field + " is required"
	}
	ids := make([]uuid.UUID, len(raw))
	for i, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Sprintf("Invalid ID in %s: %q", field, s)
		}
		ids[i] = id
	}
	return ids, ""
}
