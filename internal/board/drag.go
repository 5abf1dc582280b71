package board

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

// Kind names one of the three reorderable entity types.
type Kind int

const (
	KindCategory Kind = iota
	KindTag
	KindSite

	kindCount
)

var kindNames = [kindCount]string{"category", "tag", "site"}

func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts the singular or plural kind name.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "category", "categories":
		return KindCategory, nil
	case "tag", "tags":
		return KindTag, nil
	case "site", "sites":
		return KindSite, nil
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

// DragPayload identifies the item being dragged.
type DragPayload struct {
	Kind Kind
	ID   uuid.UUID
}

// Editing reports whether layout-edit mode is on.
func (b *Board) Editing() bool { return b.editing }

// Changed reports whether the order of kind was modified in this edit
// session.
func (b *Board) Changed(k Kind) bool {
	if k < 0 || k >= kindCount {
		return false
	}
	return b.changed[k]
}

// BeginLayoutEdit enters layout-edit mode, capturing the current order of
// every cache for CancelLayoutEdit. Calling it while already editing keeps
// the original snapshot.
func (b *Board) BeginLayoutEdit() {
	if b.editing {
		return
	}
	b.snapshot = snapshot{
		categories: slices.Clone(b.categories),
		tags:       slices.Clone(b.tags),
		sites:      slices.Clone(b.sites),
	}
	b.changed = [kindCount]bool{}
	b.editing = true
}

// CancelLayoutEdit restores the order captured by BeginLayoutEdit and
// leaves edit mode. It makes no network calls.
func (b *Board) CancelLayoutEdit() {
	if !b.editing {
		return
	}
	for k := range kindCount {
		b.restore(k)
	}
	b.endEdit()
}

func (b *Board) restore(k Kind) {
	switch k {
	case KindCategory:
		b.categories = slices.Clone(b.snapshot.categories)
	case KindTag:
		b.tags = slices.Clone(b.snapshot.tags)
	case KindSite:
		b.sites = slices.Clone(b.snapshot.sites)
	}
}

func (b *Board) endEdit() {
	b.editing = false
	b.snapshot = snapshot{}
	b.changed = [kindCount]bool{}
}

// Drop moves the dragged item to the index of targetID within the full
// array of its kind. It is a no-op outside edit mode, when the item is
// dropped on itself, or when either ID is not cached. It reports whether
// the order changed.
func (b *Board) Drop(p DragPayload, targetID uuid.UUID) bool {
	if !b.editing || p.ID == targetID {
		return false
	}

	var moved bool
	switch p.Kind {
	case KindCategory:
		b.categories, moved = move(b.categories, p.ID, targetID)
	case KindTag:
		b.tags, moved = move(b.tags, p.ID, targetID)
	case KindSite:
		b.sites, moved = move(b.sites, p.ID, targetID)
	default:
		return false
	}
	if moved {
		b.changed[p.Kind] = true
	}
	return moved
}

// move removes dragged from items and reinserts it at the index target held
// before the removal.
func move[T identified](items []T, dragged, target uuid.UUID) ([]T, bool) {
	from := indexOf(items, dragged)
	to := indexOf(items, target)
	if from < 0 || to < 0 || from == to {
		return items, false
	}

	item := items[from]
	out := slices.Delete(slices.Clone(items), from, from+1)
	out = slices.Insert(out, to, item)
	return out, true
}
