// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"personalhub/internal/models"
)

// ErrMissingParent is returned by the memory backend when a tag or site
// references a category or tag that does not exist, where Postgres would
// reject the row with a foreign key violation.
var ErrMissingParent = errors.New("referenced parent does not exist")

// Memory is an in-process backend with the same method sets as the
// Postgres stores, including the foreign key and cascade rules of the
// schema. Data is lost on restart.
type Memory struct {
	Categories *MemoryCategories
	Tags       *MemoryTags
	Sites      *MemorySites
}

type memDB struct {
	mu         sync.RWMutex
	categories []models.Category
	tags       []models.Tag
	sites      []models.Site
	now        func() time.Time
}

// MemoryCategories is the category half of Memory.
type MemoryCategories struct{ db *memDB }

// MemoryTags is the tag half of Memory.
type MemoryTags struct{ db *memDB }

// MemorySites is the site half of Memory.
type MemorySites struct{ db *memDB }

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	db := &memDB{now: time.Now}
	return &Memory{
		Categories: &MemoryCategories{db: db},
		Tags:       &MemoryTags{db: db},
		Sites:      &MemorySites{db: db},
	}
}

// checkParents reports ErrMissingParent unless categoryID and, when set,
// tagID exist. Callers hold mu.
func (db *memDB) checkParents(categoryID uuid.UUID, tagID *uuid.UUID) error {
	if !slices.ContainsFunc(db.categories, func(c models.Category) bool { return c.ID == categoryID }) {
		return fmt.Errorf("category %s: %w", categoryID, ErrMissingParent)
	}
	if tagID != nil && !slices.ContainsFunc(db.tags, func(t models.Tag) bool { return t.ID == *tagID }) {
		return fmt.Errorf("tag %s: %w", *tagID, ErrMissingParent)
	}
	return nil
}

// positioned is the constraint shared by the three record types.
type positioned interface {
	models.Category | models.Tag | models.Site
}

// sortByPosition applies the list convention: position ascending with
// nulls last, then created_at. Stable, so insertion order breaks ties.
func sortByPosition[T positioned](items []T, pos func(T) *int, created func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := pos(items[i]), pos(items[j])
		switch {
		case pi == nil && pj == nil:
		case pi == nil:
			return false
		case pj == nil:
			return true
		case *pi != *pj:
			return *pi < *pj
		}
		return created(items[i]).Before(created(items[j]))
	})
}

func intPtr(i int) *int { return &i }

// List returns all categories in display order.
func (m *MemoryCategories) List(_ context.Context) ([]models.Category, error) {
	m.db.mu.RLock()
	items := slices.Clone(m.db.categories)
	m.db.mu.RUnlock()

	sortByPosition(items,
		func(c models.Category) *int { return c.Position },
		func(c models.Category) time.Time { return c.CreatedAt })
	if items == nil {
		items = []models.Category{}
	}
	return items, nil
}

// Create appends a category with position = prior count.
func (m *MemoryCategories) Create(_ context.Context, name string) (*models.Category, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	c := models.Category{
		ID:        uuid.New(),
		Name:      name,
		Position:  intPtr(len(m.db.categories)),
		CreatedAt: m.db.now(),
	}
	m.db.categories = append(m.db.categories, c)
	return &c, nil
}

// Update renames a category. Returns nil if it does not exist.
func (m *MemoryCategories) Update(_ context.Context, id uuid.UUID, name string) (*models.Category, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for i := range m.db.categories {
		if m.db.categories[i].ID == id {
			m.db.categories[i].Name = name
			c := m.db.categories[i]
			return &c, nil
		}
	}
	return nil, nil
}

// Delete removes a category with its tags and sites.
func (m *MemoryCategories) Delete(_ context.Context, id uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	m.db.categories = slices.DeleteFunc(m.db.categories, func(c models.Category) bool { return c.ID == id })
	m.db.tags = slices.DeleteFunc(m.db.tags, func(t models.Tag) bool { return t.CategoryID == id })
	m.db.sites = slices.DeleteFunc(m.db.sites, func(s models.Site) bool { return s.CategoryID == id })
	return nil
}

// Reorder assigns position = index to each category in ids. Unknown IDs
// are ignored.
func (m *MemoryCategories) Reorder(_ context.Context, ids []uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for i, id := range ids {
		for j := range m.db.categories {
			if m.db.categories[j].ID == id {
				m.db.categories[j].SetPosition(i)
			}
		}
	}
	return nil
}

func (m *MemoryTags) sorted(keep func(models.Tag) bool) []models.Tag {
	m.db.mu.RLock()
	items := []models.Tag{}
	for _, t := range m.db.tags {
		if keep(t) {
			items = append(items, t)
		}
	}
	m.db.mu.RUnlock()

	sortByPosition(items,
		func(t models.Tag) *int { return t.Position },
		func(t models.Tag) time.Time { return t.CreatedAt })
	return items
}

// ListAll returns every tag in display order.
func (m *MemoryTags) ListAll(_ context.Context) ([]models.Tag, error) {
	return m.sorted(func(models.Tag) bool { return true }), nil
}

// ListByCategory returns the tags of one category in display order.
func (m *MemoryTags) ListByCategory(_ context.Context, categoryID uuid.UUID) ([]models.Tag, error) {
	return m.sorted(func(t models.Tag) bool { return t.CategoryID == categoryID }), nil
}

// Create appends a tag with position = prior count within its category.
func (m *MemoryTags) Create(_ context.Context, categoryID uuid.UUID, name string) (*models.Tag, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.checkParents(categoryID, nil); err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}

	siblings := 0
	for _, t := range m.db.tags {
		if t.CategoryID == categoryID {
			siblings++
		}
	}

	t := models.Tag{
		ID:         uuid.New(),
		CategoryID: categoryID,
		Name:       name,
		Position:   intPtr(siblings),
		CreatedAt:  m.db.now(),
	}
	m.db.tags = append(m.db.tags, t)
	return &t, nil
}

// Update renames a tag. Returns nil if it does not exist.
func (m *MemoryTags) Update(_ context.Context, id uuid.UUID, name string) (*models.Tag, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for i := range m.db.tags {
		if m.db.tags[i].ID == id {
			m.db.tags[i].Name = name
			t := m.db.tags[i]
			return &t, nil
		}
	}
	return nil, nil
}

// Delete removes a tag and detaches its sites.
func (m *MemoryTags) Delete(_ context.Context, id uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	m.db.tags = slices.DeleteFunc(m.db.tags, func(t models.Tag) bool { return t.ID == id })
	for i := range m.db.sites {
		if m.db.sites[i].HasTag(id) {
			m.db.sites[i].TagID = nil
		}
	}
	return nil
}

// Reorder assigns position = index to each tag in ids.
func (m *MemoryTags) Reorder(_ context.Context, ids []uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for i, id := range ids {
		for j := range m.db.tags {
			if m.db.tags[j].ID == id {
				m.db.tags[j].SetPosition(i)
			}
		}
	}
	return nil
}

// List returns sites matching f in display order.
func (m *MemorySites) List(_ context.Context, f models.SiteFilter) ([]models.Site, error) {
	m.db.mu.RLock()
	items := []models.Site{}
	for _, s := range m.db.sites {
		if f.CategoryID != nil && s.CategoryID != *f.CategoryID {
			continue
		}
		if f.TagID != nil && !s.HasTag(*f.TagID) {
			continue
		}
		items = append(items, s)
	}
	m.db.mu.RUnlock()

	sortByPosition(items,
		func(s models.Site) *int { return s.Position },
		func(s models.Site) time.Time { return s.CreatedAt })
	return items, nil
}

// Create appends a site with position = prior count within its
// (category, tag) group.
func (m *MemorySites) Create(_ context.Context, site *models.Site) (*models.Site, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	if err := m.db.checkParents(site.CategoryID, site.TagID); err != nil {
		return nil, fmt.Errorf("create site: %w", err)
	}

	siblings := 0
	for _, s := range m.db.sites {
		if s.CategoryID == site.CategoryID && sameTag(s.TagID, site.TagID) {
			siblings++
		}
	}

	created := *site
	created.ID = uuid.New()
	created.Position = intPtr(siblings)
	created.CreatedAt = m.db.now()
	m.db.sites = append(m.db.sites, created)
	return &created, nil
}

// Update replaces the editable fields of a site. Returns nil if it does
// not exist.
func (m *MemorySites) Update(_ context.Context, site *models.Site) (*models.Site, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for i := range m.db.sites {
		cur := &m.db.sites[i]
		if cur.ID != site.ID {
			continue
		}
		if err := m.db.checkParents(site.CategoryID, site.TagID); err != nil {
			return nil, fmt.Errorf("update site: %w", err)
		}
		cur.CategoryID = site.CategoryID
		cur.TagID = site.TagID
		cur.Title = site.Title
		cur.URL = site.URL
		cur.Description = site.Description
		cur.Icon = site.Icon
		updated := *cur
		return &updated, nil
	}
	return nil, nil
}

// Delete removes a site by ID.
func (m *MemorySites) Delete(_ context.Context, id uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	m.db.sites = slices.DeleteFunc(m.db.sites, func(s models.Site) bool { return s.ID == id })
	return nil
}

// Reorder assigns position = index to each site in ids.
func (m *MemorySites) Reorder(_ context.Context, ids []uuid.UUID) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	for i, id := range ids {
		for j := range m.db.sites {
			if m.db.sites[j].ID == id {
				m.db.sites[j].SetPosition(i)
			}
		}
	}
	return nil
}

func sameTag(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
