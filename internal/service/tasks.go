package service

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/tgienger/nextup/internal/db"
	"github.com/tgienger/nextup/internal/models"
	"github.com/tgienger/nextup/internal/tagging"
)

// TaskParams holds the editable fields of a task
type TaskParams struct {
	Title       string
	Description string
	DueDate     *time.Time
}

func (p TaskParams) normalize() (TaskParams, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Description = strings.TrimSpace(p.Description)
	if p.Title == "" {
		return p, ErrEmptyTitle
	}
	return p, nil
}

// derive recomputes the rule tags of task for today. Manual tags survive,
// and a set due date decides the urgency tags unless one was picked by hand.
// A hand-picked urgency tag replaces every rule-derived one.
func derive(today time.Time, task models.Task, catalog []models.Tag) (tags, auto []string) {
	next := tagging.AutoTag(today, tagging.InputOf(task), catalog)
	tags = tagging.Reconcile(task.Tags, task.AutoTags, next)

	manual := tagging.Without(task.Tags, task.AutoTags)
	manualUrgency := tagging.Without(manual, tagging.FamilyUrgency.Strip(manual, catalog))
	if len(manualUrgency) > 0 {
		tags = tagging.Union(tagging.FamilyUrgency.Strip(tags, catalog), manualUrgency)
	} else {
		tags = tagging.RetagForDueDate(today, tags, task.DueDate, catalog)
	}
	return tags, tagging.Without(tagging.Intersect(next, tags), manualUrgency)
}

// ListTasks returns the tasks matching f
func (s *TaskService) ListTasks(ctx context.Context, f db.TaskFilter) ([]models.Task, error) {
	tasks, err := s.store.ListTasks(ctx, f)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list tasks")
		return nil, err
	}
	return tasks, nil
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(ctx context.Context, id string) (*models.Task, error) {
	return s.getTask(ctx, id)
}

// CreateTask stores a new task with the tags its rules select
func (s *TaskService) CreateTask(ctx context.Context, p TaskParams) (*models.Task, error) {
	p, err := p.normalize()
	if err != nil {
		return nil, err
	}
	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	task := models.Task{
		ID:          newID(),
		Title:       p.Title,
		Description: p.Description,
		DueDate:     p.DueDate,
	}
	task.Tags, task.AutoTags = derive(s.now(), task, catalog)

	if err := s.store.CreateTask(ctx, task); err != nil {
		s.logger.Error().Err(err).Str("title", task.Title).Msg("failed to create task")
		return nil, err
	}
	s.logger.Info().Str("task_id", task.ID).Strs("tags", task.Tags).Msg("created task")

	return s.getTask(ctx, task.ID)
}

// UpdateTask saves new field values and re-runs the rules. Tags added by
// hand are kept.
func (s *TaskService) UpdateTask(ctx context.Context, id string, p TaskParams) (*models.Task, error) {
	p, err := p.normalize()
	if err != nil {
		return nil, err
	}
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}
	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}

	task.Title = p.Title
	task.Description = p.Description
	task.DueDate = p.DueDate
	task.Tags, task.AutoTags = derive(s.now(), *task, catalog)

	if err := s.store.UpdateTask(ctx, *task); err != nil {
		s.logger.Error().Err(err).Str("task_id", id).Msg("failed to update task")
		return nil, err
	}
	s.logger.Debug().Str("task_id", id).Strs("tags", task.Tags).Msg("updated task")

	return s.getTask(ctx, id)
}

// ToggleComplete flips a task between open and done
func (s *TaskService) ToggleComplete(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.getTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetCompleted(ctx, id, !task.Completed); err != nil {
		s.logger.Error().Err(err).Str("task_id", id).Msg("failed to toggle task completion")
		return nil, err
	}
	task.Completed = !task.Completed
	s.logger.Debug().Str("task_id", id).Bool("completed", task.Completed).Msg("toggled task")
	return task, nil
}

// DeleteTask deletes a task with its tags, placements and sessions
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	if err := s.store.DeleteTask(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("task_id", id).Msg("failed to delete task")
		return err
	}
	s.logger.Info().Str("task_id", id).Msg("deleted task")
	return nil
}

// AddTag puts a tag on a task by hand. Tags of the same family already
// on the task are removed first, and the tag is no longer managed by the
// rules.
func (s *TaskService) AddTag(ctx context.Context, taskID, tagID string) (*models.Task, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(catalog, func(t models.Tag) bool { return t.ID == tagID })
	if idx < 0 {
		return nil, ErrTagNotFound
	}

	tags := task.Tags
	for _, family := range []tagging.Family{tagging.FamilyEisenhower, tagging.FamilyTimeBased, tagging.FamilyEffort, tagging.FamilyUrgency} {
		if family.Contains(catalog[idx]) {
			tags = family.Strip(tags, catalog)
		}
	}
	tags = tagging.Union(tags, []string{tagID})
	auto := tagging.Intersect(task.AutoTags, tags)
	auto = tagging.Without(auto, []string{tagID})

	return s.setTags(ctx, task, tags, auto)
}

// RemoveTag takes a tag off a task
func (s *TaskService) RemoveTag(ctx context.Context, taskID, tagID string) (*models.Task, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	drop := []string{tagID}
	return s.setTags(ctx, task, tagging.Without(task.Tags, drop), tagging.Without(task.AutoTags, drop))
}

func (s *TaskService) setTags(ctx context.Context, task *models.Task, tags, auto []string) (*models.Task, error) {
	if err := s.store.SetTaskTags(ctx, task.ID, tags, auto); err != nil {
		s.logger.Error().Err(err).Str("task_id", task.ID).Msg("failed to set task tags")
		return nil, err
	}
	s.logger.Debug().Str("task_id", task.ID).Strs("tags", tags).Msg("set task tags")
	return s.getTask(ctx, task.ID)
}

// RefreshUrgency re-runs the rules over every open task for today's date,
// so date-range tags follow the calendar and catalog edits reach existing
// tasks. It returns the number of tasks whose tags changed.
func (s *TaskService) RefreshUrgency(ctx context.Context) (int, error) {
	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return 0, err
	}
	tasks, err := s.store.ListTasks(ctx, db.TaskFilter{})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list tasks")
		return 0, err
	}

	today := s.now()
	changed := 0
	for _, task := range tasks {
		tags, auto := derive(today, task, catalog)
		if sameSet(tags, task.Tags) && sameSet(auto, task.AutoTags) {
			continue
		}
		if err := s.store.SetTaskTags(ctx, task.ID, tags, auto); err != nil {
			s.logger.Error().Err(err).Str("task_id", task.ID).Msg("failed to refresh task tags")
			return changed, err
		}
		changed++
	}
	if changed > 0 {
		s.logger.Info().Int("tasks", changed).Msg("refreshed rule tags")
	}
	return changed, nil
}

func sameSet(a, b []string) bool {
	a, b = tagging.Union(a, nil), tagging.Union(b, nil)
	if len(a) != len(b) {
		return false
	}
	return len(tagging.Intersect(a, b)) == len(a)
}

// Explain reports which tags the rules select for a task and why
func (s *TaskService) Explain(ctx context.Context, taskID string) ([]tagging.Match, error) {
	task, err := s.getTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.LoadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return tagging.Explain(s.now(), tagging.InputOf(*task), catalog), nil
}

// Spin picks a random open task carrying any of filterTagIDs
func (s *TaskService) Spin(ctx context.Context, filterTagIDs []string) (models.Task, error) {
	tasks, err := s.store.ListTasks(ctx, db.TaskFilter{})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list tasks")
		return models.Task{}, err
	}
	return s.wheel.Spin(tasks, filterTagIDs)
}

// RecordSession stores a finished focus session for a task
func (s *TaskService) RecordSession(ctx context.Context, taskID string, minutes int) (*models.Session, error) {
	if _, err := s.getTask(ctx, taskID); err != nil {
		return nil, err
	}
	session, err := s.store.CreateSession(ctx, taskID, minutes)
	if err != nil {
		s.logger.Error().Err(err).Str("task_id", taskID).Msg("failed to record session")
		return nil, err
	}
	s.logger.Info().Str("task_id", taskID).Int("minutes", minutes).Msg("recorded focus session")
	return session, nil
}

// FocusMinutes returns the total focus time recorded for a task
func (s *TaskService) FocusMinutes(ctx context.Context, taskID string) (int, error) {
	return s.store.FocusMinutes(ctx, taskID)
}

func isNotFound(err error) bool {
	return errors.Is(err, db.ErrNotFound)
}
