package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// starterSites is the development seed: one category with a tag and a few
// links so the board has something to show on first run.
var starterSites = []struct {
	title, url string
}{
	{"GitHub", "https://github.com"},
	{"Go Documentation", "https://go.dev/doc"},
	{"Hacker News", "https://news.ycombinator.com"},
}

// Seed populates the database with initial development data.
// It is a no-op when any category already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	var categoryID, tagID string
	if err := tx.QueryRow(
		`INSERT INTO categories (name, position) VALUES ($1, 0) RETURNING id`, "Dev",
	).Scan(&categoryID); err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	if err := tx.QueryRow(
		`INSERT INTO tags (category_id, name, position) VALUES ($1, $2, 0) RETURNING id`,
		categoryID, "Daily",
	).Scan(&tagID); err != nil {
		return fmt.Errorf("seed insert tag: %w", err)
	}

	for i, s := range starterSites {
		if _, err := tx.Exec(`
			INSERT INTO sites (category_id, tag_id, title, url, position)
			VALUES ($1, $2, $3, $4, $5)
		`, categoryID, tagID, s.title, s.url, i); err != nil {
			return fmt.Errorf("seed insert site %q: %w", s.title, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with starter bookmarks", "sites", len(starterSites))
	return nil
}
