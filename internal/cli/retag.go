package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/nextup/internal/app"
	"github.com/tgienger/nextup/internal/models"
	"github.com/tgienger/nextup/internal/tagging"
)

func newRetagCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retag",
		Short: "Place a task on a board and swap the matching tags",
	}

	quadrants := make([]string, len(tagging.Quadrants))
	for i, q := range tagging.Quadrants {
		quadrants[i] = string(q)
	}
	levels := make([]string, len(tagging.EffortLevels))
	for i, l := range tagging.EffortLevels {
		levels[i] = string(l)
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:       "quadrant [id] [quadrant]",
			Short:     "Move a task to an Eisenhower quadrant",
			Long:      "Move a task to an Eisenhower quadrant: " + strings.Join(quadrants, ", "),
			Args:      cobra.ExactArgs(2),
			ValidArgs: quadrants,
			RunE: func(cmd *cobra.Command, args []string) error {
				q, err := tagging.ParseQuadrant(args[1])
				if err != nil {
					return err
				}
				return retag(cmd, opts, args[0], func(ctx context.Context, a *app.App, id string) (*models.Task, error) {
					return a.Tasks.MoveToQuadrant(ctx, id, q)
				})
			},
		},
		&cobra.Command{
			Use:   "time [id] [category]",
			Short: "Move a task to a time-sort column (id or name)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return retag(cmd, opts, args[0], func(ctx context.Context, a *app.App, id string) (*models.Task, error) {
					categories, err := a.Tasks.TimeCategories(ctx)
					if err != nil {
						return nil, err
					}
					categoryID := args[1]
					for _, c := range categories {
						if strings.EqualFold(c.Name, args[1]) {
							categoryID = c.ID
						}
					}
					return a.Tasks.MoveToTimeCategory(ctx, id, categoryID)
				})
			},
		},
		&cobra.Command{
			Use:       "effort [id] [level]",
			Short:     "Set a task's effort level: " + strings.Join(levels, ", "),
			Args:      cobra.ExactArgs(2),
			ValidArgs: levels,
			RunE: func(cmd *cobra.Command, args []string) error {
				level, err := tagging.ParseEffort(args[1])
				if err != nil {
					return err
				}
				return retag(cmd, opts, args[0], func(ctx context.Context, a *app.App, id string) (*models.Task, error) {
					return a.Tasks.SetEffort(ctx, id, level)
				})
			},
		},
	)
	return cmd
}

func retag(cmd *cobra.Command, opts *rootOptions, ref string, move func(ctx context.Context, a *app.App, id string) (*models.Task, error)) error {
	return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
		task, err := resolveTask(ctx, a, ref)
		if err != nil {
			return err
		}
		task, err = move(ctx, a, task.ID)
		if err != nil {
			return err
		}
		catalog, err := a.Tasks.LoadCatalog(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n  tags: %s\n", shortID(task.ID), task.Title, strings.Join(tagNames(catalog, task.Tags), ", "))
		return nil
	})
}
