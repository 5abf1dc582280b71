// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"personalhub/internal/models"
)

// TagStore manages tags in the database.
type TagStore struct {
	db *sql.DB
}

// NewTagStore returns a new TagStore.
func NewTagStore(db *sql.DB) *TagStore {
	return &TagStore{db: db}
}

const tagColumns = `id, category_id, name, position, created_at`

func scanTag(s scanner) (*models.Tag, error) {
	var t models.Tag
	if err := s.Scan(&t.ID, &t.CategoryID, &t.Name, &t.Position, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TagStore) query(ctx context.Context, q string, args ...any) ([]models.Tag, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	items := []models.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		items = append(items, *t)
	}
	return items, rows.Err()
}

// ListAll returns every tag in display order.
func (s *TagStore) ListAll(ctx context.Context) ([]models.Tag, error) {
	return s.query(ctx, `SELECT `+tagColumns+` FROM tags `+listOrder)
}

// ListByCategory returns the tags of one category in display order.
func (s *TagStore) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]models.Tag, error) {
	return s.query(ctx, `SELECT `+tagColumns+` FROM tags WHERE category_id = $1 `+listOrder, categoryID)
}

// Create inserts a tag at the end of its category.
func (s *TagStore) Create(ctx context.Context, categoryID uuid.UUID, name string) (*models.Tag, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO tags (category_id, name, position)
		VALUES ($1, $2, (SELECT COUNT(*) FROM tags WHERE category_id = $1))
		RETURNING `+tagColumns,
		categoryID, name,
	)
	t, err := scanTag(row)
	if err != nil {
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return t, nil
}

// Update renames a tag. Returns nil if it does not exist.
func (s *TagStore) Update(ctx context.Context, id uuid.UUID, name string) (*models.Tag, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE tags SET name = $1 WHERE id = $2
		RETURNING `+tagColumns,
		name, id,
	)
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}
	return t, nil
}

// Delete removes a tag. Sites filed under it keep their row with tag_id NULL.
func (s *TagStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM tags WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	return nil
}

// Reorder assigns position = index to each tag in ids.
func (s *TagStore) Reorder(ctx context.Context, ids []uuid.UUID) error {
	return reorder(ctx, s.db, "tags", ids)
}
