package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/nextup/internal/app"
	"github.com/tgienger/nextup/internal/models"
)

func newFiltersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Manage saved tag filters",
		Long: `Saved filters are named sets of tags. Use them with
"nextup list --filter" and "nextup spin --filter", or pick them in the TUI.`,
	}
	cmd.AddCommand(
		newFiltersListCmd(opts),
		newFiltersAddCmd(opts),
		newFiltersDeleteCmd(opts),
	)
	return cmd
}

func newFiltersListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				filters, err := a.Tasks.Filters(ctx)
				if err != nil {
					return err
				}
				catalog, err := a.Tasks.LoadCatalog(ctx)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				if len(filters) == 0 {
					fmt.Fprintln(w, "No saved filters.")
					return nil
				}
				for _, f := range filters {
					fmt.Fprintf(w, "%-20s #%s\n", f.Name, strings.Join(tagNames(catalog, f.TagIDs), " #"))
				}
				return nil
			})
		},
	}
}

func newFiltersAddCmd(opts *rootOptions) *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Save a filter, replacing one with the same name",
		Long: `Save a named set of tags.

Examples:
  nextup filters add "at home" --tag home --tag errands`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(tags) == 0 {
				return fmt.Errorf("a filter needs at least one --tag")
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				catalog, err := a.Tasks.LoadCatalog(ctx)
				if err != nil {
					return err
				}
				tagIDs, err := resolveTags(catalog, tags)
				if err != nil {
					return err
				}

				f := models.SavedFilter{Name: args[0], TagIDs: tagIDs}
				if existing, err := resolveFilter(ctx, a, args[0]); err == nil {
					f.ID = existing.ID
				}
				saved, err := a.Tasks.SaveFilter(ctx, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved filter %s\n", saved.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag name or id to include")
	return cmd
}

func newFiltersDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a saved filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				f, err := resolveFilter(ctx, a, args[0])
				if err != nil {
					return err
				}
				if err := a.Tasks.DeleteFilter(ctx, f.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted filter %s\n", f.Name)
				return nil
			})
		},
	}
}

// resolveFilter finds a saved filter by ID or name
func resolveFilter(ctx context.Context, a *app.App, ref string) (models.SavedFilter, error) {
	filters, err := a.Tasks.Filters(ctx)
	if err != nil {
		return models.SavedFilter{}, err
	}
	for _, f := range filters {
		if f.ID == ref || strings.EqualFold(f.Name, ref) {
			return f, nil
		}
	}
	return models.SavedFilter{}, fmt.Errorf("unknown filter %q", ref)
}

// filterTagIDs merges --tag values with the tags of a --filter
func filterTagIDs(ctx context.Context, a *app.App, catalog []models.Tag, tags []string, filter string) ([]string, error) {
	tagIDs, err := resolveTags(catalog, tags)
	if err != nil {
		return nil, err
	}
	if filter == "" {
		return tagIDs, nil
	}
	f, err := resolveFilter(ctx, a, filter)
	if err != nil {
		return nil, err
	}
	for _, id := range f.TagIDs {
		if !containsID(tagIDs, id) {
			tagIDs = append(tagIDs, id)
		}
	}
	return tagIDs, nil
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}
