package db

import (
	"context"

	"github.com/tgienger/nextup/internal/models"
)

// CreateSession records a finished Pomodoro work interval on a task
func (db *DB) CreateSession(ctx context.Context, taskID string, minutes int) (*models.Session, error) {
	result, err := db.ExecContext(ctx, `
		INSERT INTO sessions (task_id, minutes) VALUES (?, ?)
	`, taskID, minutes)
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return db.GetSession(ctx, id)
}

// GetSession retrieves a session by ID
func (db *DB) GetSession(ctx context.Context, id int64) (*models.Session, error) {
	s := &models.Session{}
	err := db.QueryRowContext(ctx, `
		SELECT id, task_id, minutes, created_at
		FROM sessions WHERE id = ?
	`, id).Scan(&s.ID, &s.TaskID, &s.Minutes, &s.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return s, nil
}

// GetTaskSessions retrieves all sessions for a task, oldest first
func (db *DB) GetTaskSessions(ctx context.Context, taskID string) ([]models.Session, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, task_id, minutes, created_at
		FROM sessions
		WHERE task_id = ?
		ORDER BY created_at ASC, id ASC
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var s models.Session
		if err := rows.Scan(&s.ID, &s.TaskID, &s.Minutes, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// FocusMinutes returns the total minutes of sessions on a task
func (db *DB) FocusMinutes(ctx context.Context, taskID string) (int, error) {
	var total int
	err := db.GetContext(ctx, &total, "SELECT COALESCE(SUM(minutes), 0) FROM sessions WHERE task_id = ?", taskID)
	return total, err
}
