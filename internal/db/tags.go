package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tgienger/nextup/internal/models"
)

type tagRow struct {
	ID         string        `db:"id"`
	Name       string        `db:"name"`
	Keywords   string        `db:"keywords"`
	CategoryID string        `db:"category_id"`
	RangeOn    bool          `db:"date_range_enabled"`
	RangeStart sql.NullInt64 `db:"date_range_start"`
	RangeEnd   sql.NullInt64 `db:"date_range_end"`
	Color      string        `db:"color"`
	CreatedAt  time.Time     `db:"created_at"`
}

const tagColumns = `id, name, keywords, category_id, date_range_enabled, date_range_start, date_range_end, color, created_at`

func (r tagRow) toModel() (models.Tag, error) {
	t := models.Tag{
		ID:         r.ID,
		Name:       r.Name,
		CategoryID: r.CategoryID,
		Color:      r.Color,
		CreatedAt:  r.CreatedAt,
	}
	if err := json.Unmarshal([]byte(r.Keywords), &t.Keywords); err != nil {
		return t, fmt.Errorf("decode keywords of tag %s: %w", r.ID, err)
	}
	if r.RangeOn || r.RangeStart.Valid || r.RangeEnd.Valid {
		t.DateRange = &models.DateRange{
			Enabled:   r.RangeOn,
			StartDays: nullInt(r.RangeStart),
			EndDays:   nullInt(r.RangeEnd),
		}
	}
	return t, nil
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func intArg(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

// SaveTag inserts the tag or updates the existing tag with the same ID
func (db *DB) SaveTag(ctx context.Context, tag models.Tag) error {
	keywords := tag.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	encoded, err := json.Marshal(keywords)
	if err != nil {
		return err
	}
	category := tag.CategoryID
	if category == "" {
		category = models.CategoryGeneral
	}

	var enabled bool
	var start, end any
	if tag.DateRange != nil {
		enabled = tag.DateRange.Enabled
		start = intArg(tag.DateRange.StartDays)
		end = intArg(tag.DateRange.EndDays)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO tags (id, name, keywords, category_id, date_range_enabled, date_range_start, date_range_end, color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			keywords = excluded.keywords,
			category_id = excluded.category_id,
			date_range_enabled = excluded.date_range_enabled,
			date_range_start = excluded.date_range_start,
			date_range_end = excluded.date_range_end,
			color = excluded.color
	`, tag.ID, tag.Name, string(encoded), category, enabled, start, end, tag.Color)
	return err
}

// GetTag retrieves a tag by ID
func (db *DB) GetTag(ctx context.Context, id string) (*models.Tag, error) {
	var row tagRow
	if err := db.GetContext(ctx, &row, "SELECT "+tagColumns+" FROM tags WHERE id = ?", id); err != nil {
		return nil, notFound(err)
	}
	t, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTagByName retrieves a tag by its name (case-insensitive)
func (db *DB) GetTagByName(ctx context.Context, name string) (*models.Tag, error) {
	var row tagRow
	if err := db.GetContext(ctx, &row, "SELECT "+tagColumns+" FROM tags WHERE LOWER(name) = LOWER(?)", name); err != nil {
		return nil, notFound(err)
	}
	t, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTags returns the whole tag catalog in creation order
func (db *DB) ListTags(ctx context.Context) ([]models.Tag, error) {
	var rows []tagRow
	if err := db.SelectContext(ctx, &rows, "SELECT "+tagColumns+" FROM tags ORDER BY created_at, rowid"); err != nil {
		return nil, err
	}

	tags := make([]models.Tag, 0, len(rows))
	for _, r := range rows {
		t, err := r.toModel()
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, nil
}

// DeleteTag deletes a tag; task and filter references cascade
func (db *DB) DeleteTag(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM tags WHERE id = ?", id)
	return err
}

// SaveCategory inserts or updates a tag category
func (db *DB) SaveCategory(ctx context.Context, c models.TagCategory) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO tag_categories (id, name, description, color) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			color = excluded.color
	`, c.ID, c.Name, c.Description, c.Color)
	return err
}

// ListCategories returns all tag categories
func (db *DB) ListCategories(ctx context.Context) ([]models.TagCategory, error) {
	var categories []models.TagCategory
	err := db.SelectContext(ctx, &categories, `
		SELECT id, name, description, color
		FROM tag_categories ORDER BY created_at, rowid
	`)
	return categories, err
}

// DeleteCategory deletes a tag category, moving its tags into fallback
func (db *DB) DeleteCategory(ctx context.Context, id, fallback string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "UPDATE tags SET category_id = ? WHERE category_id = ?", fallback, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM tag_categories WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}
