// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"

	"github.com/google/uuid"

	"personalhub/internal/models"
	"personalhub/internal/store"
)

// CategoryRepository is the category persistence used by the handlers.
// Satisfied by *store.CategoryStore and *store.MemoryCategories.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, name string) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*models.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

// TagRepository is the tag persistence used by the handlers.
type TagRepository interface {
	ListAll(ctx context.Context) ([]models.Tag, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Tag, error)
	Create(ctx context.Context, categoryID uuid.UUID, name string) (*models.Tag, error)
	Update(ctx context.Context, id uuid.UUID, name string) (*models.Tag, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

// SiteRepository is the site persistence used by the handlers.
type SiteRepository interface {
	List(ctx context.Context, f models.SiteFilter) ([]models.Site, error)
	Create(ctx context.Context, site *models.Site) (*models.Site, error)
	Update(ctx context.Context, site *models.Site) (*models.Site, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reorder(ctx context.Context, ids []uuid.UUID) error
}

// Repositories bundles the three stores.
type Repositories struct {
	Categories CategoryRepository
	Tags       TagRepository
	Sites      SiteRepository
}

// Postgres returns the database-backed repositories.
func Postgres(cats *store.CategoryStore, tags *store.TagStore, sites *store.SiteStore) Repositories {
	return Repositories{Categories: cats, Tags: tags, Sites: sites}
}

// Memory returns repositories backed by an in-memory store.
func Memory(m *store.Memory) Repositories {
	return Repositories{Categories: m.Categories, Tags: m.Tags, Sites: m.Sites}
}
