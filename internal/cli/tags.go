package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/nextup/internal/app"
	"github.com/tgienger/nextup/internal/models"
)

func newTagsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Manage the tag catalog",
	}
	cmd.AddCommand(
		newTagsListCmd(opts),
		newTagsAddCmd(opts),
		newTagsDeleteCmd(opts),
		newTagsEnsureCmd(opts),
		newTagsExportCmd(opts),
		newTagsImportCmd(opts),
		newCategoryCmd(opts),
		newTimeCategoryCmd(opts),
	)
	return cmd
}

func newTagsListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags with their rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				catalog, err := a.Tasks.LoadCatalog(ctx)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for _, tag := range catalog {
					fmt.Fprintf(w, "%-16s %-20s %s\n", tag.Name, tag.CategoryID, describeRules(tag))
				}
				return nil
			})
		},
	}
}

func describeRules(tag models.Tag) string {
	var parts []string
	if len(tag.Keywords) > 0 {
		parts = append(parts, "keywords: "+strings.Join(tag.Keywords, ", "))
	}
	if r := tag.DateRange; r != nil && r.Enabled {
		parts = append(parts, "due in "+describeRange(r))
	}
	return strings.Join(parts, "; ")
}

func describeRange(r *models.DateRange) string {
	switch {
	case r.StartDays == nil && r.EndDays == nil:
		return "any days"
	case r.StartDays == nil:
		return fmt.Sprintf("<= %d days", *r.EndDays)
	case r.EndDays == nil:
		return fmt.Sprintf(">= %d days", *r.StartDays)
	case *r.StartDays == *r.EndDays:
		return fmt.Sprintf("%d days", *r.StartDays)
	}
	return fmt.Sprintf("%d-%d days", *r.StartDays, *r.EndDays)
}

func newTagsAddCmd(opts *rootOptions) *cobra.Command {
	var (
		keywords   []string
		category   string
		color      string
		start, end int
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add or update a tag",
		Long: `Add a tag, or update the tag with the same name.

Examples:
  nextup tags add work --keyword meeting --keyword report
  nextup tags add "this week" --category time-based
  nextup tags add overdue --start -30 --end -1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				catalog, err := a.Tasks.LoadCatalog(ctx)
				if err != nil {
					return err
				}
				tag, ok := findTag(catalog, args[0])
				if !ok {
					tag = models.Tag{Name: args[0]}
				}
				if cmd.Flags().Changed("keyword") {
					tag.Keywords = keywords
				}
				if cmd.Flags().Changed("category") {
					tag.CategoryID = category
				}
				if cmd.Flags().Changed("color") {
					tag.Color = color
				}
				if cmd.Flags().Changed("start") || cmd.Flags().Changed("end") {
					r := &models.DateRange{Enabled: true}
					if cmd.Flags().Changed("start") {
						r.StartDays = &start
					}
					if cmd.Flags().Changed("end") {
						r.EndDays = &end
					}
					tag.DateRange = r
				}

				saved, err := a.Tasks.SaveTag(ctx, tag)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved tag %s\n", saved.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "keyword that selects the tag")
	cmd.Flags().StringVarP(&category, "category", "c", "", "tag category id")
	cmd.Flags().StringVar(&color, "color", "", "display color")
	cmd.Flags().IntVar(&start, "start", 0, "date range start in days from today")
	cmd.Flags().IntVar(&end, "end", 0, "date range end in days from today")
	return cmd
}

func newTagsDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [name]",
		Short: "Delete a tag and remove it from every task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				catalog, err := a.Tasks.LoadCatalog(ctx)
				if err != nil {
					return err
				}
				tag, ok := findTag(catalog, args[0])
				if !ok {
					return fmt.Errorf("unknown tag %q", args[0])
				}
				if err := a.Tasks.DeleteTag(ctx, tag.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag %s\n", tag.Name)
				return nil
			})
		},
	}
}

func newTagsEnsureCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ensure",
		Short: "Restore missing default urgency tags and refresh rule tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				catalog, err := a.Tasks.LoadCatalog(ctx)
				if err != nil {
					return err
				}
				changed, err := a.Tasks.RefreshUrgency(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d tags, %d tasks retagged\n", len(catalog), changed)
				return nil
			})
		},
	}
}

func newTagsExportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the tag catalog as YAML (stdout when no file)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				var w io.Writer = cmd.OutOrStdout()
				if len(args) == 1 {
					f, err := os.Create(args[0])
					if err != nil {
						return err
					}
					defer f.Close()
					w = f
				}
				return a.Tasks.ExportCatalog(ctx, w)
			})
		},
	}
}

func newTagsImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Merge a YAML tag catalog into the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				file, err := a.Tasks.ImportCatalog(ctx, f)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d categories, %d tags, %d time categories\n",
					len(file.Categories), len(file.Tags), len(file.TimeCategories))
				return nil
			})
		},
	}
}
