// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestCategoryStoreCRUD(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	c, err := s.Create(ctx, "Test Category CRUD")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	t.Cleanup(func() { cleanCategories(t, db, c.ID) })

	if c.ID == uuid.Nil {
		t.Error("expected ID to be set")
	}
	if c.Position == nil {
		t.Error("expected position to be assigned on create")
	}
	if c.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	found, err := s.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if found == nil || found.Name != "Test Category CRUD" {
		t.Fatalf("FindByID: got %+v", found)
	}

	updated, err := s.Update(ctx, c.ID, "Renamed")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Errorf("name: got %q, want %q", updated.Name, "Renamed")
	}
	if *updated.Position != *c.Position {
		t.Errorf("update changed position: %d -> %d", *c.Position, *updated.Position)
	}

	if err := s.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	gone, err := s.FindByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("FindByID after delete: %v", err)
	}
	if gone != nil {
		t.Error("expected nil after delete")
	}
}

func TestCategoryStoreUpdateMissing(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)

	got, err := s.Update(context.Background(), uuid.New(), "nobody")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing category, got %+v", got)
	}
}

func TestCategoryStoreReorder(t *testing.T) {
	db := testDB(t)
	s := NewCategoryStore(db)
	ctx := context.Background()

	a, _ := s.Create(ctx, "Reorder A")
	b, _ := s.Create(ctx, "Reorder B")
	c, _ := s.Create(ctx, "Reorder C")
	t.Cleanup(func() { cleanCategories(t, db, a.ID, b.ID, c.ID) })

	if err := s.Reorder(ctx, []uuid.UUID{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("Reorder: %v", err)
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	order := ids(list)
	ic, ia, ib := indexOf(order, c.ID), indexOf(order, a.ID), indexOf(order, b.ID)
	if !(ic < ia && ia < ib) {
		t.Errorf("expected C < A < B, got indexes %d %d %d", ic, ia, ib)
	}

	for _, cat := range list {
		switch cat.ID {
		case c.ID:
			assertPosition(t, cat.Position, 0)
		case a.ID:
			assertPosition(t, cat.Position, 1)
		case b.ID:
			assertPosition(t, cat.Position, 2)
		}
	}
}

func TestCategoryDeleteCascades(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	cats := NewCategoryStore(db)
	tags := NewTagStore(db)

	c, _ := cats.Create(ctx, "Cascade Parent")
	t.Cleanup(func() { cleanCategories(t, db, c.ID) })
	if _, err := tags.Create(ctx, c.ID, "child"); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	if err := cats.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	left, err := tags.ListByCategory(ctx, c.ID)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(left) != 0 {
		t.Errorf("expected tags to cascade, got %d", len(left))
	}
}

func assertPosition(t *testing.T, got *int, want int) {
	t.Helper()
	if got == nil {
		t.Errorf("position: got nil, want %d", want)
		return
	}
	if *got != want {
		t.Errorf("position: got %d, want %d", *got, want)
	}
}
