// Package board holds the client-side view of the bookmark data: the cached
// categories, tags and sites, the active filters, and the layout-edit
// session used for drag-and-drop reordering. Every method is a pure state
// transition except Commit, which persists changed orders.
//
// A Board is not safe for concurrent use.
package board

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"personalhub/internal/models"
)

// Board is the client data cache plus filter and edit state.
type Board struct {
	categories []models.Category
	tags       []models.Tag
	sites      []models.Site

	activeCategory *uuid.UUID
	activeTag      *uuid.UUID
	search         string

	editing  bool
	snapshot snapshot
	changed  [kindCount]bool
}

// snapshot is the state captured when layout-edit mode begins.
type snapshot struct {
	categories []models.Category
	tags       []models.Tag
	sites      []models.Site
}

// New returns an empty board.
func New() *Board {
	return &Board{}
}

// Load replaces the caches. The first category becomes active, the active
// tag is cleared, and any edit session is discarded.
func (b *Board) Load(categories []models.Category, tags []models.Tag, sites []models.Site) {
	b.categories = slices.Clone(categories)
	b.tags = slices.Clone(tags)
	b.sites = slices.Clone(sites)

	b.activeCategory = nil
	if len(b.categories) > 0 {
		id := b.categories[0].ID
		b.activeCategory = &id
	}
	b.activeTag = nil
	b.editing = false
	b.snapshot = snapshot{}
	b.changed = [kindCount]bool{}
}

// Categories returns the cached categories in board order.
func (b *Board) Categories() []models.Category { return slices.Clone(b.categories) }

// Tags returns every cached tag in board order.
func (b *Board) Tags() []models.Tag { return slices.Clone(b.tags) }

// Sites returns every cached site in board order.
func (b *Board) Sites() []models.Site { return slices.Clone(b.sites) }

// ActiveCategory returns the active category ID, if any.
func (b *Board) ActiveCategory() (uuid.UUID, bool) {
	if b.activeCategory == nil {
		return uuid.Nil, false
	}
	return *b.activeCategory, true
}

// ActiveTag returns the active tag ID, if any.
func (b *Board) ActiveTag() (uuid.UUID, bool) {
	if b.activeTag == nil {
		return uuid.Nil, false
	}
	return *b.activeTag, true
}

// Search returns the current search query.
func (b *Board) Search() string { return b.search }

// SelectCategory makes id the active category and clears the active tag.
// It reports false, changing nothing, when id is not cached.
func (b *Board) SelectCategory(id uuid.UUID) bool {
	if indexOf(b.categories, id) < 0 {
		return false
	}
	b.activeCategory = &id
	b.activeTag = nil
	return true
}

// SelectTag narrows the displayed sites to one tag. It reports false when
// id is not cached.
func (b *Board) SelectTag(id uuid.UUID) bool {
	if indexOf(b.tags, id) < 0 {
		return false
	}
	b.activeTag = &id
	return true
}

// ClearTag removes the tag filter.
func (b *Board) ClearTag() { b.activeTag = nil }

// SetSearch sets the title search query. An empty query disables search.
func (b *Board) SetSearch(q string) { b.search = q }

// DisplayedTags returns the tags of the active category in board order.
func (b *Board) DisplayedTags() []models.Tag {
	out := []models.Tag{}
	if b.activeCategory == nil {
		return out
	}
	for _, t := range b.tags {
		if t.CategoryID == *b.activeCategory {
			out = append(out, t)
		}
	}
	return out
}

// DisplayedSites returns the visible sites. A non-empty search matches
// titles case-insensitively across every category and tag. Otherwise the
// sites of the active category are shown, narrowed to the active tag when
// one is set.
func (b *Board) DisplayedSites() []models.Site {
	out := []models.Site{}
	if b.search != "" {
		q := strings.ToLower(b.search)
		for _, s := range b.sites {
			if strings.Contains(strings.ToLower(s.Title), q) {
				out = append(out, s)
			}
		}
		return out
	}

	if b.activeCategory == nil {
		return out
	}
	for _, s := range b.sites {
		if s.CategoryID != *b.activeCategory {
			continue
		}
		if b.activeTag != nil && !s.HasTag(*b.activeTag) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// AddCategory appends a created category and makes it active.
func (b *Board) AddCategory(c models.Category) {
	b.categories = append(b.categories, c)
	b.activeCategory = &c.ID
	b.activeTag = nil
}

// ReplaceCategory swaps in an updated category, matched by ID.
func (b *Board) ReplaceCategory(c models.Category) {
	if i := indexOf(b.categories, c.ID); i >= 0 {
		b.categories[i] = c
	}
}

// RemoveCategory drops a category with its tags and sites. If it was
// active, the first remaining category (or none) becomes active.
func (b *Board) RemoveCategory(id uuid.UUID) {
	b.categories = slices.DeleteFunc(b.categories, func(c models.Category) bool { return c.ID == id })
	b.tags = slices.DeleteFunc(b.tags, func(t models.Tag) bool { return t.CategoryID == id })
	b.sites = slices.DeleteFunc(b.sites, func(s models.Site) bool { return s.CategoryID == id })

	if b.activeCategory != nil && *b.activeCategory == id {
		b.activeCategory = nil
		b.activeTag = nil
		if len(b.categories) > 0 {
			first := b.categories[0].ID
			b.activeCategory = &first
		}
	}
	if b.activeTag != nil && indexOf(b.tags, *b.activeTag) < 0 {
		b.activeTag = nil
	}
}

// AddTag appends a created tag and makes it the active tag.
func (b *Board) AddTag(t models.Tag) {
	b.tags = append(b.tags, t)
	b.activeTag = &t.ID
}

// ReplaceTag swaps in an updated tag, matched by ID.
func (b *Board) ReplaceTag(t models.Tag) {
	if i := indexOf(b.tags, t.ID); i >= 0 {
		b.tags[i] = t
	}
}

// RemoveTag drops a tag and clears it from every site that referenced it.
func (b *Board) RemoveTag(id uuid.UUID) {
	b.tags = slices.DeleteFunc(b.tags, func(t models.Tag) bool { return t.ID == id })
	for i := range b.sites {
		if b.sites[i].HasTag(id) {
			b.sites[i].TagID = nil
		}
	}
	if b.activeTag != nil && *b.activeTag == id {
		b.activeTag = nil
	}
}

// AddSite appends a created site.
func (b *Board) AddSite(s models.Site) {
	b.sites = append(b.sites, s)
}

// ReplaceSite swaps in an updated site, matched by ID.
func (b *Board) ReplaceSite(s models.Site) {
	if i := indexOf(b.sites, s.ID); i >= 0 {
		b.sites[i] = s
	}
}

// RemoveSite drops a site.
func (b *Board) RemoveSite(id uuid.UUID) {
	b.sites = slices.DeleteFunc(b.sites, func(s models.Site) bool { return s.ID == id })
}

type identified interface{ GetID() uuid.UUID }

func indexOf[T identified](items []T, id uuid.UUID) int {
	return slices.IndexFunc(items, func(it T) bool { return it.GetID() == id })
}

func idsOf[T identified](items []T) []uuid.UUID {
	out := make([]uuid.UUID, len(items))
	for i, it := range items {
		out[i] = it.GetID()
	}
	return out
}
