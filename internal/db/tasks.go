package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tgienger/nextup/internal/models"
)

type taskRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Completed   bool           `db:"completed"`
	DueDate     sql.NullString `db:"due_date"`
	Order       int            `db:"order_index"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

type taskTagRow struct {
	TaskID string `db:"task_id"`
	TagID  string `db:"tag_id"`
	Auto   bool   `db:"auto"`
}

const taskColumns = `t.id, t.title, t.description, t.completed, t.due_date, t.order_index, t.created_at, t.updated_at`

func (r taskRow) toModel() models.Task {
	t := models.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Completed:   r.Completed,
		Order:       r.Order,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.DueDate.Valid && r.DueDate.String != "" {
		// a malformed stored date is treated as no due date
		if due, err := time.ParseInLocation(models.DateLayout, r.DueDate.String, time.Local); err == nil {
			t.DueDate = &due
		}
	}
	return t
}

func dueArg(t models.Task) any {
	if t.DueDate == nil {
		return nil
	}
	return t.DueString()
}

// TaskFilter narrows ListTasks
type TaskFilter struct {
	Search        string   // substring of title or description
	TagIDs        []string // task must carry at least one of these
	ShowCompleted bool     // only completed tasks instead of only open ones
	All           bool     // ignore completion state
}

// CreateTask inserts a task together with its tags
func (db *DB) CreateTask(ctx context.Context, t models.Task) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, completed, due_date, order_index)
		VALUES (?, ?, ?, ?, ?, COALESCE((SELECT MAX(order_index) + 1 FROM tasks), 0))
	`, t.ID, t.Title, t.Description, t.Completed, dueArg(t))
	if err != nil {
		return err
	}

	if err := replaceTaskTags(ctx, tx, t.ID, t.Tags, t.AutoTags); err != nil {
		return err
	}
	return tx.Commit()
}

// GetTask retrieves a task by ID with its tags
func (db *DB) GetTask(ctx context.Context, id string) (*models.Task, error) {
	var row taskRow
	if err := db.GetContext(ctx, &row, "SELECT "+taskColumns+" FROM tasks t WHERE t.id = ?", id); err != nil {
		return nil, notFound(err)
	}

	tasks := []models.Task{row.toModel()}
	if err := db.loadTaskTags(ctx, tasks); err != nil {
		return nil, err
	}
	return &tasks[0], nil
}

// ListTasks returns tasks matching f, ordered by manual order then creation
func (db *DB) ListTasks(ctx context.Context, f TaskFilter) ([]models.Task, error) {
	query := "SELECT DISTINCT " + taskColumns + " FROM tasks t"
	var where []string
	var args []any

	if len(f.TagIDs) > 0 {
		query += " JOIN task_tags tt ON t.id = tt.task_id"
		in, inArgs, err := sqlx.In("tt.tag_id IN (?)", f.TagIDs)
		if err != nil {
			return nil, err
		}
		where = append(where, in)
		args = append(args, inArgs...)
	}

	if f.Search != "" {
		where = append(where, "(t.title LIKE ? OR t.description LIKE ?)")
		searchPattern := "%" + f.Search + "%"
		args = append(args, searchPattern, searchPattern)
	}

	if !f.All {
		where = append(where, "t.completed = ?")
		args = append(args, f.ShowCompleted)
	}

	for i, clause := range where {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY t.order_index, t.created_at"

	var rows []taskRow
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return nil, err
	}

	tasks := make([]models.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.toModel())
	}
	if err := db.loadTaskTags(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// loadTaskTags fills Tags and AutoTags for every task in one query
func (db *DB) loadTaskTags(ctx context.Context, tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]string, len(tasks))
	byID := make(map[string]*models.Task, len(tasks))
	for i := range tasks {
		ids[i] = tasks[i].ID
		byID[tasks[i].ID] = &tasks[i]
	}

	query, args, err := sqlx.In("SELECT task_id, tag_id, auto FROM task_tags WHERE task_id IN (?) ORDER BY rowid", ids)
	if err != nil {
		return err
	}
	var rows []taskTagRow
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return err
	}

	for _, r := range rows {
		t := byID[r.TaskID]
		t.Tags = append(t.Tags, r.TagID)
		if r.Auto {
			t.AutoTags = append(t.AutoTags, r.TagID)
		}
	}
	return nil
}

// UpdateTask saves a task's fields and replaces its tags
func (db *DB) UpdateTask(ctx context.Context, t models.Task) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, completed = ?, due_date = ?, order_index = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, t.Title, t.Description, t.Completed, dueArg(t), t.Order, t.ID)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}

	if err := replaceTaskTags(ctx, tx, t.ID, t.Tags, t.AutoTags); err != nil {
		return err
	}
	return tx.Commit()
}

// SetTaskTags replaces a task's tags. auto marks the rule-derived subset.
func (db *DB) SetTaskTags(ctx context.Context, taskID string, tags, auto []string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := replaceTaskTags(ctx, tx, taskID, tags, auto); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "UPDATE tasks SET updated_at = CURRENT_TIMESTAMP WHERE id = ?", taskID); err != nil {
		return err
	}
	return tx.Commit()
}

func replaceTaskTags(ctx context.Context, tx *sqlx.Tx, taskID string, tags, auto []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM task_tags WHERE task_id = ?", taskID); err != nil {
		return err
	}

	isAuto := make(map[string]bool, len(auto))
	for _, id := range auto {
		isAuto[id] = true
	}
	for _, tagID := range tags {
		// ids of deleted tags are dropped here rather than failing the foreign key
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO task_tags (task_id, tag_id, auto)
			SELECT ?, id, ? FROM tags WHERE id = ?
		`, taskID, isAuto[tagID], tagID)
		if err != nil {
			return err
		}
	}
	return nil
}

// SetCompleted marks a task done or open
func (db *DB) SetCompleted(ctx context.Context, id string, completed bool) error {
	result, err := db.ExecContext(ctx, `
		UPDATE tasks SET completed = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, completed, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteTask deletes a task
func (db *DB) DeleteTask(ctx context.Context, id string) error {
	_, err := db.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	return err
}
