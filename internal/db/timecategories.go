package db

import (
	"context"

	"github.com/tgienger/nextup/internal/models"
)

// SaveTimeCategory creates or updates a time category
func (db *DB) SaveTimeCategory(ctx context.Context, c models.TimeCategory) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO time_categories (id, name, description, color, order_index) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			color = excluded.color,
			order_index = excluded.order_index
	`, c.ID, c.Name, c.Description, c.Color, c.Order)
	return err
}

// ListTimeCategories returns the time-sort board columns in display order
func (db *DB) ListTimeCategories(ctx context.Context) ([]models.TimeCategory, error) {
	var categories []models.TimeCategory
	err := db.SelectContext(ctx, &categories, `
		SELECT id, name, description, color, order_index AS "order"
		FROM time_categories ORDER BY order_index, name
	`)
	return categories, err
}

// DeleteTimeCategory deletes a time category and unplaces its tasks
func (db *DB) DeleteTimeCategory(ctx context.Context, id string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM placements WHERE board = ? AND bucket = ?", models.BoardTime, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM time_categories WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

// TimeCategoryCount returns the number of time categories
func (db *DB) TimeCategoryCount(ctx context.Context) (int, error) {
	var count int
	err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM time_categories")
	return count, err
}
