package service

import (
	"context"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/tgienger/nextup/internal/models"
)

// CatalogVersion is written into exported catalogs
const CatalogVersion = 1

// CatalogFile is the portable form of the tag configuration
type CatalogFile struct {
	Version        int                   `yaml:"version"`
	Categories     []models.TagCategory  `yaml:"categories"`
	Tags           []models.Tag          `yaml:"tags"`
	TimeCategories []models.TimeCategory `yaml:"time_categories"`
}

// ExportCatalog writes categories, tags and time categories as YAML
func (s *TaskService) ExportCatalog(ctx context.Context, w io.Writer) error {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list tag categories")
		return err
	}
	tags, err := s.LoadCatalog(ctx)
	if err != nil {
		return err
	}
	timeCategories, err := s.store.ListTimeCategories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list time categories")
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(CatalogFile{
		Version:        CatalogVersion,
		Categories:     categories,
		Tags:           tags,
		TimeCategories: timeCategories,
	}); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return enc.Close()
}

// ImportCatalog merges a YAML catalog into the store. Entries are matched
// by ID and overwritten; nothing is deleted. Rule tags are refreshed
// afterwards.
func (s *TaskService) ImportCatalog(ctx context.Context, r io.Reader) (*CatalogFile, error) {
	var file CatalogFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if file.Version > CatalogVersion {
		return nil, fmt.Errorf("unsupported catalog version %d", file.Version)
	}

	for _, c := range file.Categories {
		if _, err := s.SaveCategory(ctx, c); err != nil {
			return nil, fmt.Errorf("category %q: %w", c.Name, err)
		}
	}
	for _, c := range file.TimeCategories {
		if _, err := s.SaveTimeCategory(ctx, c); err != nil {
			return nil, fmt.Errorf("time category %q: %w", c.Name, err)
		}
	}
	for _, tag := range file.Tags {
		if _, err := s.SaveTag(ctx, tag); err != nil {
			return nil, fmt.Errorf("tag %q: %w", tag.Name, err)
		}
	}

	s.logger.Info().
		Int("categories", len(file.Categories)).
		Int("tags", len(file.Tags)).
		Int("time_categories", len(file.TimeCategories)).
		Msg("imported catalog")
	return &file, nil
}
