package service

import (
	"context"
	"slices"

	"github.com/tgienger/nextup/internal/models"
	"github.com/tgienger/nextup/internal/tagging"
)

// Placements returns task ID -> bucket for a board
func (s *TaskService) Placements(ctx context.Context, board models.Board) (map[string]string, error) {
	placed, err := s.store.ListPlacements(ctx, board)
	if err != nil {
		s.logger.Error().Err(err).Str("board", string(board)).Msg("failed to list placements")
		return nil, err
	}
	return placed, nil
}

// Unplace takes a task off a board without touching its tags
func (s *TaskService) Unplace(ctx context.Context, taskID string, board models.Board) error {
	if err := s.store.ClearPlacement(ctx, taskID, board); err != nil {
		s.logger.Error().Err(err).Str("task_id", taskID).Str("board", string(board)).Msg("failed to clear placement")
		return err
	}
	return nil
}

// MoveToQuadrant places a task in an Eisenhower quadrant and swaps its
// urgency-importance tags for the quadrant's
func (s *TaskService) MoveToQuadrant(ctx context.Context, taskID string, q tagging.Quadrant) (*models.Task, error) {
	if _, err := tagging.ParseQuadrant(string(q)); err != nil {
		return nil, err
	}
	task, catalog, err := s.taskAndCatalog(ctx, taskID)
	if err != nil {
		return nil, err
	}

	tags := tagging.RetagForQuadrant(task.Tags, q, catalog)
	return s.place(ctx, task, models.Placement{TaskID: taskID, Board: models.BoardEisenhower, Bucket: string(q)},
		tags, tagging.Intersect(task.AutoTags, tags))
}

// MoveToTimeCategory places a task in a time-sort column, swaps its
// time-based tag for the column's and re-derives urgency from the due date
func (s *TaskService) MoveToTimeCategory(ctx context.Context, taskID, categoryID string) (*models.Task, error) {
	categories, err := s.store.ListTimeCategories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list time categories")
		return nil, err
	}
	if !slices.ContainsFunc(categories, func(c models.TimeCategory) bool { return c.ID == categoryID }) {
		return nil, ErrUnknownTimeCategory
	}
	task, catalog, err := s.taskAndCatalog(ctx, taskID)
	if err != nil {
		return nil, err
	}

	today := s.now()
	tags := tagging.RetagForTimeCategory(task.Tags, categoryID, catalog, categories)
	tags = tagging.RetagForDueDate(today, tags, task.DueDate, catalog)
	auto := tagging.Union(task.AutoTags, tagging.DateMatches(today, task.DueDate, tagging.FamilyUrgency.Members(catalog)))
	return s.place(ctx, task, models.Placement{TaskID: taskID, Board: models.BoardTime, Bucket: categoryID},
		tags, tagging.Intersect(auto, tags))
}

// SetEffort places a task in an effort bucket and swaps its effort tags
func (s *TaskService) SetEffort(ctx context.Context, taskID string, level tagging.EffortLevel) (*models.Task, error) {
	if _, err := tagging.ParseEffort(string(level)); err != nil {
		return nil, err
	}
	task, catalog, err := s.taskAndCatalog(ctx, taskID)
	if err != nil {
		return nil, err
	}

	tags := tagging.RetagForEffort(task.Tags, level, catalog)
	return s.place(ctx, task, models.Placement{TaskID: taskID, Board: models.BoardEffort, Bucket: string(level)},
		tags, tagging.Intersect(task.AutoTags, tags))
}

func (s *TaskService) taskAndCatalog(ctx context.Context, taskID string) (*models.Task, []models.Tag, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	return task, catalog, nil
}

func (s *TaskService) place(ctx context.Context, task *models.Task, p models.Placement, tags, auto []string) (*models.Task, error) {
	if err := s.store.SetPlacement(ctx, p); err != nil {
		s.logger.Error().Err(err).Str("task_id", p.TaskID).Str("board", string(p.Board)).Msg("failed to set placement")
		return nil, err
	}
	s.logger.Debug().Str("task_id", p.TaskID).Str("board", string(p.Board)).Str("bucket", p.Bucket).Msg("moved task")
	return s.setTags(ctx, task, tags, auto)
}
