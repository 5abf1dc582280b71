// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"personalhub/internal/models"
)

// SiteStore manages bookmarked sites in the database.
type SiteStore struct {
	db *sql.DB
}

// NewSiteStore returns a new SiteStore.
func NewSiteStore(db *sql.DB) *SiteStore {
	return &SiteStore{db: db}
}

const siteColumns = `id, category_id, tag_id, title, url, description, icon, position, created_at`

func scanSite(s scanner) (*models.Site, error) {
	var site models.Site
	err := s.Scan(
		&site.ID, &site.CategoryID, &site.TagID, &site.Title, &site.URL,
		&site.Description, &site.Icon, &site.Position, &site.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &site, nil
}

// List returns sites matching f in display order.
func (s *SiteStore) List(ctx context.Context, f models.SiteFilter) ([]models.Site, error) {
	var where []string
	var args []any
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if f.TagID != nil {
		args = append(args, *f.TagID)
		where = append(where, fmt.Sprintf("tag_id = $%d", len(args)))
	}

	q := `SELECT ` + siteColumns + ` FROM sites`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ` + listOrder

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()

	items := []models.Site{}
	for rows.Next() {
		site, err := scanSite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		items = append(items, *site)
	}
	return items, rows.Err()
}

// Create inserts a site at the end of its (category, tag) group.
func (s *SiteStore) Create(ctx context.Context, site *models.Site) (*models.Site, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO sites (category_id, tag_id, title, url, description, icon, position)
		VALUES ($1, $2, $3, $4, $5, $6,
		        (SELECT COUNT(*) FROM sites WHERE category_id = $1 AND tag_id IS NOT DISTINCT FROM $2))
		RETURNING `+siteColumns,
		site.CategoryID, site.TagID, site.Title, site.URL, site.Description, site.Icon,
	)
	created, err := scanSite(row)
	if err != nil {
		return nil, fmt.Errorf("create site: %w", err)
	}
	return created, nil
}

// Update replaces every editable field of the site with the given ID.
// Position and created_at are left alone. Returns nil if it does not exist.
func (s *SiteStore) Update(ctx context.Context, site *models.Site) (*models.Site, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE sites SET
			category_id = $1, tag_id = $2, title = $3, url = $4,
			description = $5, icon = $6
		WHERE id = $7
		RETURNING `+siteColumns,
		site.CategoryID, site.TagID, site.Title, site.URL, site.Description, site.Icon, site.ID,
	)
	updated, err := scanSite(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update site: %w", err)
	}
	return updated, nil
}

// Delete removes a site by ID.
func (s *SiteStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sites WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete site: %w", err)
	}
	return nil
}

// Reorder assigns position = index to each site in ids.
func (s *SiteStore) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return reorder(ctx, s.db, "sites", ids)
}
