package db

import (
	"context"

	"github.com/tgienger/nextup/internal/models"
)

// SetPlacement puts a task into a bucket of a board, replacing any previous bucket
func (db *DB) SetPlacement(ctx context.Context, p models.Placement) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO placements (task_id, board, bucket) VALUES (?, ?, ?)
		ON CONFLICT(task_id, board) DO UPDATE SET bucket = excluded.bucket
	`, p.TaskID, p.Board, p.Bucket)
	return err
}

// ClearPlacement takes a task off a board
func (db *DB) ClearPlacement(ctx context.Context, taskID string, board models.Board) error {
	_, err := db.ExecContext(ctx, "DELETE FROM placements WHERE task_id = ? AND board = ?", taskID, board)
	return err
}

// ListPlacements returns task ID -> bucket for one board
func (db *DB) ListPlacements(ctx context.Context, board models.Board) (map[string]string, error) {
	var rows []struct {
		TaskID string `db:"task_id"`
		Bucket string `db:"bucket"`
	}
	if err := db.SelectContext(ctx, &rows, "SELECT task_id, bucket FROM placements WHERE board = ?", board); err != nil {
		return nil, err
	}

	placed := make(map[string]string, len(rows))
	for _, r := range rows {
		placed[r.TaskID] = r.Bucket
	}
	return placed, nil
}
