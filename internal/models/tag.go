// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Tag belongs to a category. Position is scoped to its category at insert
// time.
type Tag struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"category_id"`
	Name       string    `json:"name"`
	Position   *int      `json:"position"`
	CreatedAt  time.Time `json:"created_at"`
}

// GetID returns the tag ID.
func (t Tag) GetID() uuid.UUID { return t.ID }

// SetPosition overwrites the manual sort position.
func (t *Tag) SetPosition(p int) { t.Position = &p }
