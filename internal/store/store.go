// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements persistence for categories, tags and sites.
// The Postgres stores are the production backend; Memory provides the same
// method sets in-process for development and tests.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// listOrder is the read convention shared by every list query.
const listOrder = `ORDER BY position ASC NULLS LAST, created_at ASC`

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface{ Scan(...any) error }

// reorder sets position = index for each id inside one transaction.
// table must be one of the package's own table names.
func reorder(ctx context.Context, db *sql.DB, table string, ids []uuid.UUID) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE `+table+` SET position = $1 WHERE id = $2`)
	if err != nil {
		return fmt.Errorf("prepare reorder %s: %w", table, err)
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, i, id); err != nil {
			return fmt.Errorf("reorder %s %s: %w", table, id, err)
		}
	}

	return tx.Commit()
}
