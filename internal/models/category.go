// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is the top-level grouping shown as a tab. Its Position orders
// it within the whole category list.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Position  *int      `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// GetID returns the category ID.
func (c Category) GetID() uuid.UUID { return c.ID }

// SetPosition overwrites the manual sort position.
func (c *Category) SetPosition(p int) { c.Position = &p }
