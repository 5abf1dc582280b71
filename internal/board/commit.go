package board

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrNotEditing is returned by Commit outside layout-edit mode.
var ErrNotEditing = errors.New("board: not in layout-edit mode")

// Persister stores a new order for one entity type. Position i is assigned
// to ids[i].
type Persister interface {
	ReorderCategories(ctx context.Context, ids []uuid.UUID) error
	ReorderTags(ctx context.Context, ids []uuid.UUID) error
	ReorderSites(ctx context.Context, ids []uuid.UUID) error
}

// CommitError reports the kinds whose reorder batch failed. Those kinds
// were restored from the snapshot; every other kind kept its new order.
type CommitError struct {
	Failed map[Kind]error
}

func (e *CommitError) Error() string {
	parts := make([]string, 0, len(e.Failed))
	for k := range kindCount {
		if err, ok := e.Failed[k]; ok {
			parts = append(parts, fmt.Sprintf("reorder %s: %v", k, err))
		}
	}
	return "commit layout: " + strings.Join(parts, "; ")
}

// Unwrap exposes the per-kind errors to errors.Is and errors.As.
func (e *CommitError) Unwrap() []error {
	out := make([]error, 0, len(e.Failed))
	for k := range kindCount {
		if err, ok := e.Failed[k]; ok {
			out = append(out, err)
		}
	}
	return out
}

// Commit persists every changed order and leaves edit mode. Categories send
// the whole list, tags the displayed tags, sites the displayed sites. The
// batches run concurrently; a kind whose batch succeeded has its positions
// rewritten locally, a kind whose batch failed is restored from the
// snapshot. A *CommitError lists the failures.
func (b *Board) Commit(ctx context.Context, p Persister) error {
	if !b.editing {
		return ErrNotEditing
	}

	type batch struct {
		ids  []uuid.UUID
		save func(context.Context, []uuid.UUID) error
	}
	var batches [kindCount]*batch
	if b.changed[KindCategory] {
		batches[KindCategory] = &batch{idsOf(b.categories), p.ReorderCategories}
	}
	if b.changed[KindTag] {
		batches[KindTag] = &batch{idsOf(b.DisplayedTags()), p.ReorderTags}
	}
	if b.changed[KindSite] {
		batches[KindSite] = &batch{idsOf(b.DisplayedSites()), p.ReorderSites}
	}

	var errs [kindCount]error
	var g errgroup.Group
	for k, bt := range batches {
		if bt == nil || len(bt.ids) == 0 {
			continue
		}
		// No shared cancellation: one failed kind leaves the others running.
		g.Go(func() error {
			errs[k] = bt.save(ctx, bt.ids)
			return errs[k]
		})
	}
	waitErr := g.Wait()

	failed := map[Kind]error{}
	for k := range kindCount {
		bt := batches[k]
		if bt == nil {
			continue
		}
		if errs[k] != nil {
			failed[k] = errs[k]
			b.restore(k)
			continue
		}
		b.applyPositions(k, bt.ids)
	}
	b.endEdit()

	if waitErr != nil {
		return &CommitError{Failed: failed}
	}
	return nil
}

// applyPositions mirrors a successful reorder: position i for ids[i].
func (b *Board) applyPositions(k Kind, ids []uuid.UUID) {
	for pos, id := range ids {
		switch k {
		case KindCategory:
			if i := indexOf(b.categories, id); i >= 0 {
				b.categories[i].SetPosition(pos)
			}
		case KindTag:
			if i := indexOf(b.tags, id); i >= 0 {
				b.tags[i].SetPosition(pos)
			}
		case KindSite:
			if i := indexOf(b.sites, id); i >= 0 {
				b.sites[i].SetPosition(pos)
			}
		}
	}
}
