// Package backup produces a point-in-time JSON snapshot of every category,
// tag and site, and optionally uploads it to object storage.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"personalhub/internal/models"
)

// KeyPrefix is the object key prefix for uploaded snapshots.
const KeyPrefix = "backups/"

// Snapshot is the exported form of the whole data set.
type Snapshot struct {
	TakenAt    time.Time         `json:"taken_at"`
	Categories []models.Category `json:"categories"`
	Tags       []models.Tag      `json:"tags"`
	Sites      []models.Site     `json:"sites"`
}

// CategoryLister lists every category.
type CategoryLister interface {
	List(ctx context.Context) ([]models.Category, error)
}

// TagLister lists every tag.
type TagLister interface {
	ListAll(ctx context.Context) ([]models.Tag, error)
}

// SiteLister lists sites matching a filter.
type SiteLister interface {
	List(ctx context.Context, f models.SiteFilter) ([]models.Site, error)
}

// Source bundles the three listers a snapshot reads from.
type Source struct {
	Categories CategoryLister
	Tags       TagLister
	Sites      SiteLister
}

// Take reads all three tables concurrently and returns the snapshot. The
// reads are independent queries, not one transaction.
func Take(ctx context.Context, src Source) (*Snapshot, error) {
	snap := &Snapshot{TakenAt: time.Now().UTC()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if snap.Categories, err = src.Categories.List(ctx); err != nil {
			return fmt.Errorf("snapshot categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if snap.Tags, err = src.Tags.ListAll(ctx); err != nil {
			return fmt.Errorf("snapshot tags: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if snap.Sites, err = src.Sites.List(ctx, models.SiteFilter{}); err != nil {
			return fmt.Errorf("snapshot sites: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// ObjectPutter is the storage operation the uploader needs.
// *storage.Client satisfies it.
type ObjectPutter interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader, size int64) error
}

// Uploader writes snapshots to object storage.
type Uploader struct {
	store ObjectPutter
}

// NewUploader returns an uploader writing through store.
func NewUploader(store ObjectPutter) *Uploader {
	return &Uploader{store: store}
}

// Upload serializes snap as indented JSON and stores it under a key derived
// from its timestamp. Returns the key.
func (u *Uploader) Upload(ctx context.Context, snap *Snapshot) (string, error) {
	body, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	key := Key(snap.TakenAt)
	if err := u.store.Upload(ctx, key, "application/json", bytes.NewReader(body), int64(len(body))); err != nil {
		return "", err
	}

	slog.Info("backup uploaded", "key", key, "bytes", len(body),
		"categories", len(snap.Categories), "tags", len(snap.Tags), "sites", len(snap.Sites))
	return key, nil
}

// Key returns the object key for a snapshot taken at t.
func Key(t time.Time) string {
	return KeyPrefix + "personalhub-" + t.UTC().Format("20060102T150405Z") + ".json"
}
