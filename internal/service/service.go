// Package service applies the tagging rules to stored tasks. It loads the
// tag catalog, runs the engine and writes the results back.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tgienger/nextup/internal/db"
	"github.com/tgienger/nextup/internal/models"
	"github.com/tgienger/nextup/internal/modes"
	"github.com/tgienger/nextup/internal/tagging"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTagNotFound         = errors.New("tag not found")
	ErrEmptyTitle          = errors.New("task title is empty")
	ErrEmptyName           = errors.New("name is empty")
	ErrProtectedCategory   = errors.New("the general category cannot be deleted")
	ErrUnknownTimeCategory = errors.New("unknown time category")
	ErrDuplicateTagName    = errors.New("a tag with that name already exists")
	ErrInvalidRange        = errors.New("date range start is after its end")
)

// Store is the persistence the service needs
type Store interface {
	CreateTask(ctx context.Context, t models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	ListTasks(ctx context.Context, f db.TaskFilter) ([]models.Task, error)
	UpdateTask(ctx context.Context, t models.Task) error
	SetTaskTags(ctx context.Context, taskID string, tags, auto []string) error
	SetCompleted(ctx context.Context, id string, completed bool) error
	DeleteTask(ctx context.Context, id string) error

	SaveTag(ctx context.Context, tag models.Tag) error
	GetTagByName(ctx context.Context, name string) (*models.Tag, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	DeleteTag(ctx context.Context, id string) error

	SaveCategory(ctx context.Context, c models.TagCategory) error
	ListCategories(ctx context.Context) ([]models.TagCategory, error)
	DeleteCategory(ctx context.Context, id, fallback string) error

	SaveTimeCategory(ctx context.Context, c models.TimeCategory) error
	ListTimeCategories(ctx context.Context) ([]models.TimeCategory, error)
	DeleteTimeCategory(ctx context.Context, id string) error

	SetPlacement(ctx context.Context, p models.Placement) error
	ClearPlacement(ctx context.Context, taskID string, board models.Board) error
	ListPlacements(ctx context.Context, board models.Board) (map[string]string, error)

	SaveFilter(ctx context.Context, f models.SavedFilter) error
	ListFilters(ctx context.Context) ([]models.SavedFilter, error)
	DeleteFilter(ctx context.Context, id string) error

	CreateSession(ctx context.Context, taskID string, minutes int) (*models.Session, error)
	FocusMinutes(ctx context.Context, taskID string) (int, error)

	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Clock returns the current time
type Clock func() time.Time

// TaskService is the entry point for every task and tag operation
type TaskService struct {
	logger zerolog.Logger
	store  Store
	now    Clock
	wheel  *modes.Wheel
}

// Option customises a TaskService
type Option func(*TaskService)

// WithClock replaces time.Now, mainly for tests
func WithClock(now Clock) Option {
	return func(s *TaskService) { s.now = now }
}

// WithWheel replaces the random wheel used by Spin
func WithWheel(w *modes.Wheel) Option {
	return func(s *TaskService) { s.wheel = w }
}

// New creates a TaskService
func New(logger zerolog.Logger, store Store, opts ...Option) *TaskService {
	s := &TaskService{
		logger: logger,
		store:  store,
		now:    time.Now,
		wheel:  modes.NewWheel(nil),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock's current time
func (s *TaskService) Now() time.Time {
	return s.now()
}

func newID() string {
	return uuid.NewString()
}

// Bootstrap seeds the built-in categories, the default time categories and
// the urgency tags on first run, then re-evaluates rule tags for today.
// Manually picked urgency tags are kept.
func (s *TaskService) Bootstrap(ctx context.Context) error {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list tag categories")
		return err
	}
	// Built-ins are seeded once so a deleted category stays deleted.
	// General takes the tags of deleted categories and must always exist.
	for _, def := range tagging.DefaultCategories() {
		if (len(categories) == 0 || def.ID == models.CategoryGeneral) && !hasCategory(categories, def.ID) {
			if err := s.store.SaveCategory(ctx, def); err != nil {
				s.logger.Error().Err(err).Str("category_id", def.ID).Msg("failed to seed tag category")
				return err
			}
		}
	}

	timeCategories, err := s.store.ListTimeCategories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list time categories")
		return err
	}
	if len(timeCategories) == 0 {
		for _, def := range tagging.DefaultTimeCategories() {
			if err := s.store.SaveTimeCategory(ctx, def); err != nil {
				s.logger.Error().Err(err).Str("time_category_id", def.ID).Msg("failed to seed time category")
				return err
			}
		}
	}

	if _, err := s.LoadCatalog(ctx); err != nil {
		return err
	}
	_, err = s.RefreshUrgency(ctx)
	return err
}

func hasCategory(categories []models.TagCategory, id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// LoadCatalog loads the tag catalog, adding and persisting any missing
// default urgency tag
func (s *TaskService) LoadCatalog(ctx context.Context) ([]models.Tag, error) {
	existing, err := s.store.ListTags(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list tags")
		return nil, err
	}

	catalog := tagging.EnsureUrgencyTags(existing)
	for _, tag := range catalog[len(existing):] {
		if err := s.store.SaveTag(ctx, tag); err != nil {
			s.logger.Error().Err(err).Str("tag", tag.Name).Msg("failed to save default urgency tag")
			return nil, err
		}
		s.logger.Info().Str("tag", tag.Name).Msg("added default urgency tag")
	}
	return catalog, nil
}

// Categories returns the tag categories
func (s *TaskService) Categories(ctx context.Context) ([]models.TagCategory, error) {
	return s.store.ListCategories(ctx)
}

// TimeCategories returns the time-sort board columns
func (s *TaskService) TimeCategories(ctx context.Context) ([]models.TimeCategory, error) {
	return s.store.ListTimeCategories(ctx)
}

func (s *TaskService) getTask(ctx context.Context, id string) (*models.Task, error) {
	task, err := s.store.GetTask(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("task_id", id).Msg("failed to get task")
		return nil, err
	}
	return task, nil
}

// Setting returns a stored UI setting, empty when unset
func (s *TaskService) Setting(ctx context.Context, key string) string {
	value, err := s.store.GetSetting(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to read setting")
		return ""
	}
	return value
}

// SetSetting stores a UI setting
func (s *TaskService) SetSetting(ctx context.Context, key, value string) error {
	if err := s.store.SetSetting(ctx, key, value); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to save setting")
		return err
	}
	return nil
}
