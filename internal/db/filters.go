package db

import (
	"context"

	"github.com/tgienger/nextup/internal/models"
)

// SaveFilter creates or replaces a saved filter
func (db *DB) SaveFilter(ctx context.Context, f models.SavedFilter) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO saved_filters (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, f.ID, f.Name)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM saved_filter_tags WHERE filter_id = ?", f.ID); err != nil {
		return err
	}
	for _, tagID := range f.TagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO saved_filter_tags (filter_id, tag_id)
			SELECT ?, id FROM tags WHERE id = ?
		`, f.ID, tagID)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListFilters returns all saved filters with their tags
func (db *DB) ListFilters(ctx context.Context) ([]models.SavedFilter, error) {
	var filters []models.SavedFilter
	if err := db.SelectContext(ctx, &filters, "SELECT id, name FROM saved_filters ORDER BY name"); err != nil {
		return nil, err
	}

	var links []struct {
		FilterID string `db:"filter_id"`
		TagID    string `db:"tag_id"`
	}
	if err := db.SelectContext(ctx, &links, "SELECT filter_id, tag_id FROM saved_filter_tags ORDER BY rowid"); err != nil {
		return nil, err
	}
	for i := range filters {
		for _, l := range links {
			if l.FilterID == filters[i].ID {
				filters[i].TagIDs = append(filters[i].TagIDs, l.TagID)
			}
		}
	}
	return filters, nil
}

// DeleteFilter deletes a saved filter
func (db *DB) DeleteFilter(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM saved_filters WHERE id = ?", id)
	return err
}
