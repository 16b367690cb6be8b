package service

import (
	"context"
	"strings"

	"github.com/tgienger/nextup/internal/models"
)

// SaveTag creates or updates a tag and re-applies the rules to open tasks.
// A tag without an ID gets a new one.
func (s *TaskService) SaveTag(ctx context.Context, tag models.Tag) (*models.Tag, error) {
	tag.Name = strings.TrimSpace(tag.Name)
	if tag.Name == "" {
		return nil, ErrEmptyName
	}
	if r := tag.DateRange; r != nil && r.StartDays != nil && r.EndDays != nil && *r.StartDays > *r.EndDays {
		return nil, ErrInvalidRange
	}
	if tag.ID == "" {
		tag.ID = newID()
	}
	if tag.CategoryID == "" {
		tag.CategoryID = models.CategoryGeneral
	}
	tag.Keywords = cleanKeywords(tag.Keywords)

	existing, err := s.store.GetTagByName(ctx, tag.Name)
	switch {
	case err == nil && existing.ID != tag.ID:
		return nil, ErrDuplicateTagName
	case err != nil && !isNotFound(err):
		s.logger.Error().Err(err).Str("tag", tag.Name).Msg("failed to look up tag")
		return nil, err
	}

	if err := s.store.SaveTag(ctx, tag); err != nil {
		s.logger.Error().Err(err).Str("tag", tag.Name).Msg("failed to save tag")
		return nil, err
	}
	s.logger.Info().Str("tag_id", tag.ID).Str("tag", tag.Name).Msg("saved tag")

	if _, err := s.RefreshUrgency(ctx); err != nil {
		return nil, err
	}
	return &tag, nil
}

func cleanKeywords(keywords []string) []string {
	var out []string
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

// DeleteTag deletes a tag from the catalog and from every task
func (s *TaskService) DeleteTag(ctx context.Context, id string) error {
	if err := s.store.DeleteTag(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("tag_id", id).Msg("failed to delete tag")
		return err
	}
	s.logger.Info().Str("tag_id", id).Msg("deleted tag")
	return nil
}

// SaveCategory creates or updates a tag category
func (s *TaskService) SaveCategory(ctx context.Context, c models.TagCategory) (*models.TagCategory, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, ErrEmptyName
	}
	if c.ID == "" {
		c.ID = newID()
	}
	if err := s.store.SaveCategory(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("category", c.Name).Msg("failed to save tag category")
		return nil, err
	}
	return &c, nil
}

// DeleteCategory deletes a tag category. Its tags move to the general
// category, which itself cannot be deleted.
func (s *TaskService) DeleteCategory(ctx context.Context, id string) error {
	if id == models.CategoryGeneral {
		return ErrProtectedCategory
	}
	if err := s.store.DeleteCategory(ctx, id, models.CategoryGeneral); err != nil {
		s.logger.Error().Err(err).Str("category_id", id).Msg("failed to delete tag category")
		return err
	}
	s.logger.Info().Str("category_id", id).Msg("deleted tag category")
	return nil
}

// SaveTimeCategory creates or updates a time-sort column
func (s *TaskService) SaveTimeCategory(ctx context.Context, c models.TimeCategory) (*models.TimeCategory, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return nil, ErrEmptyName
	}
	if c.ID == "" {
		c.ID = newID()
	}
	if err := s.store.SaveTimeCategory(ctx, c); err != nil {
		s.logger.Error().Err(err).Str("time_category", c.Name).Msg("failed to save time category")
		return nil, err
	}
	return &c, nil
}

// DeleteTimeCategory deletes a time-sort column; its tasks become unplaced
func (s *TaskService) DeleteTimeCategory(ctx context.Context, id string) error {
	if err := s.store.DeleteTimeCategory(ctx, id); err != nil {
		s.logger.Error().Err(err).Str("time_category_id", id).Msg("failed to delete time category")
		return err
	}
	return nil
}

// SaveFilter stores a named tag filter
func (s *TaskService) SaveFilter(ctx context.Context, f models.SavedFilter) (*models.SavedFilter, error) {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return nil, ErrEmptyName
	}
	if f.ID == "" {
		f.ID = newID()
	}
	if err := s.store.SaveFilter(ctx, f); err != nil {
		s.logger.Error().Err(err).Str("filter", f.Name).Msg("failed to save filter")
		return nil, err
	}
	return &f, nil
}

// Filters returns the saved tag filters
func (s *TaskService) Filters(ctx context.Context) ([]models.SavedFilter, error) {
	return s.store.ListFilters(ctx)
}

// DeleteFilter deletes a saved filter
func (s *TaskService) DeleteFilter(ctx context.Context, id string) error {
	return s.store.DeleteFilter(ctx, id)
}
