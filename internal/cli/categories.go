package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/nextup/internal/app"
	"github.com/tgienger/nextup/internal/models"
)

func newCategoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage tag categories",
	}

	var description, color string
	add := &cobra.Command{
		Use:   "add [id] [name]",
		Short: "Add or rename a tag category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				saved, err := a.Tasks.SaveCategory(ctx, models.TagCategory{
					ID:          args[0],
					Name:        args[1],
					Description: description,
					Color:       color,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved category %s\n", saved.ID)
				return nil
			})
		},
	}
	add.Flags().StringVarP(&description, "desc", "d", "", "category description")
	add.Flags().StringVar(&color, "color", "", "display color")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List tag categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
					categories, err := a.Tasks.Categories(ctx)
					if err != nil {
						return err
					}
					for _, c := range categories {
						fmt.Fprintf(cmd.OutOrStdout(), "%-20s %s\n", c.ID, c.Name)
					}
					return nil
				})
			},
		},
		add,
		&cobra.Command{
			Use:   "delete [id or name]",
			Short: "Delete a tag category; its tags move to general",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
					categories, err := a.Tasks.Categories(ctx)
					if err != nil {
						return err
					}
					for _, c := range categories {
						if c.ID == args[0] || strings.EqualFold(c.Name, args[0]) {
							if err := a.Tasks.DeleteCategory(ctx, c.ID); err != nil {
								return err
							}
							fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", c.Name)
							return nil
						}
					}
					return fmt.Errorf("unknown category %q", args[0])
				})
			},
		},
	)
	return cmd
}

func newTimeCategoryCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "time",
		Short: "Manage the columns of the time-sort board",
	}

	var (
		description, color string
		order              int
	)
	add := &cobra.Command{
		Use:   "add [id] [name]",
		Short: "Add or rename a time-sort column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				c := models.TimeCategory{ID: args[0], Name: args[1], Description: description, Color: color, Order: order}
				if !cmd.Flags().Changed("order") {
					categories, err := a.Tasks.TimeCategories(ctx)
					if err != nil {
						return err
					}
					c.Order = len(categories)
					for _, existing := range categories {
						if existing.ID == c.ID {
							c.Order = existing.Order
						}
					}
				}
				saved, err := a.Tasks.SaveTimeCategory(ctx, c)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Saved time category %s\n", saved.ID)
				return nil
			})
		},
	}
	add.Flags().StringVarP(&description, "desc", "d", "", "column description")
	add.Flags().StringVar(&color, "color", "", "display color")
	add.Flags().IntVar(&order, "order", 0, "position on the board (default last)")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List time-sort columns",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
					categories, err := a.Tasks.TimeCategories(ctx)
					if err != nil {
						return err
					}
					for _, c := range categories {
						fmt.Fprintf(cmd.OutOrStdout(), "%-16s %s\n", c.ID, c.Name)
					}
					return nil
				})
			},
		},
		add,
		&cobra.Command{
			Use:   "delete [id or name]",
			Short: "Delete a time-sort column; its tasks become unsorted",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
					categories, err := a.Tasks.TimeCategories(ctx)
					if err != nil {
						return err
					}
					for _, c := range categories {
						if c.ID == args[0] || strings.EqualFold(c.Name, args[0]) {
							if err := a.Tasks.DeleteTimeCategory(ctx, c.ID); err != nil {
								return err
							}
							fmt.Fprintf(cmd.OutOrStdout(), "Deleted time category %s\n", c.Name)
							return nil
						}
					}
					return fmt.Errorf("unknown time category %q", args[0])
				})
			},
		},
	)
	return cmd
}
