package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/nextup/internal/app"
	"github.com/tgienger/nextup/internal/db"
	"github.com/tgienger/nextup/internal/models"
	"github.com/tgienger/nextup/internal/modes"
	"github.com/tgienger/nextup/internal/service"
	"github.com/tgienger/nextup/internal/tagging"
)

func newAddCmd(opts *rootOptions) *cobra.Command {
	var description, due string

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Long: `Add a task. Tags are chosen from the keywords in the title and
description and from the due date.

Examples:
  nextup add "Prepare team meeting" --due 2026-04-02
  nextup add "Call the bank" --desc "ask about the card"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDate, err := tagging.ParseDueDate(due)
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				task, err := a.Tasks.CreateTask(ctx, service.TaskParams{
					Title:       strings.Join(args, " "),
					Description: description,
					DueDate:     dueDate,
				})
				if err != nil {
					return err
				}
				catalog, err := a.Tasks.LoadCatalog(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s\n", shortID(task.ID), task.Title)
				if len(task.Tags) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "  tags: %s\n", strings.Join(tagNames(catalog, task.Tags), ", "))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&description, "desc", "d", "", "task description")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	return cmd
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	var title, description, due string
	var clearDue bool

	cmd := &cobra.Command{
		Use:   "edit [id]",
		Short: "Change a task's title, description or due date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				task, err := resolveTask(ctx, a, args[0])
				if err != nil {
					return err
				}

				p := service.TaskParams{Title: task.Title, Description: task.Description, DueDate: task.DueDate}
				if cmd.Flags().Changed("title") {
					p.Title = title
				}
				if cmd.Flags().Changed("desc") {
					p.Description = description
				}
				if cmd.Flags().Changed("due") {
					if p.DueDate, err = tagging.ParseDueDate(due); err != nil {
						return err
					}
				}
				if clearDue {
					p.DueDate = nil
				}

				task, err = a.Tasks.UpdateTask(ctx, task.ID, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %s\n", shortID(task.ID), task.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&description, "desc", "d", "", "new description")
	cmd.Flags().StringVar(&due, "due", "", "new due date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&clearDue, "no-due", false, "remove the due date")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		all, done, quick, byUrgency bool
		search, energy, filter      string
		tags                        []string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Long: `List tasks, open ones by default.

Examples:
  nextup list --tag work --urgency
  nextup list --quick
  nextup list --filter "at home"
  nextup list --energy low`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				catalog, err := a.Tasks.LoadCatalog(ctx)
				if err != nil {
					return err
				}
				tagIDs, err := filterTagIDs(ctx, a, catalog, tags, filter)
				if err != nil {
					return err
				}

				tasks, err := a.Tasks.ListTasks(ctx, db.TaskFilter{
					Search:        search,
					TagIDs:        tagIDs,
					ShowCompleted: done,
					All:           all,
				})
				if err != nil {
					return err
				}

				if quick {
					tasks = modes.QuickTasks(tasks)
				}
				if energy != "" {
					tasks = modes.MatchEnergy(tasks, modes.EnergyLevel(strings.ToLower(energy)))
				}
				if byUrgency {
					tasks = modes.SortByUrgency(tasks, catalog)
				}

				printTasks(cmd.OutOrStdout(), tasks, catalog)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed tasks")
	cmd.Flags().BoolVar(&done, "done", false, "only completed tasks")
	cmd.Flags().BoolVar(&quick, "quick", false, "only tasks that fit the two-minute rule")
	cmd.Flags().BoolVarP(&byUrgency, "urgency", "u", false, "sort by urgency tag")
	cmd.Flags().StringVarP(&search, "search", "s", "", "match title or description")
	cmd.Flags().StringVar(&energy, "energy", "", "only tasks for this energy level (low, medium, high)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "only tasks with any of these tags")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only tasks with any tag of this saved filter")
	return cmd
}

func printTasks(w io.Writer, tasks []models.Task, catalog []models.Tag) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for _, t := range tasks {
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s  %s", check, shortID(t.ID), t.Title)
		if due := t.DueString(); due != "" {
			line += "  due " + due
		}
		if names := tagNames(catalog, t.Tags); len(names) > 0 {
			line += "  #" + strings.Join(names, " #")
		}
		fmt.Fprintln(w, line)
	}
}

func newDoneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done [id]",
		Short: "Toggle a task between open and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				task, err := resolveTask(ctx, a, args[0])
				if err != nil {
					return err
				}
				task, err = a.Tasks.ToggleComplete(ctx, task.ID)
				if err != nil {
					return err
				}
				state := "open"
				if task.Completed {
					state = "completed"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s is %s\n", shortID(task.ID), task.Title, state)
				return nil
			})
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete [id]",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				task, err := resolveTask(ctx, a, args[0])
				if err != nil {
					return err
				}
				if err := a.Tasks.DeleteTask(ctx, task.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %s\n", shortID(task.ID), task.Title)
				return nil
			})
		},
	}
}

func newExplainCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "explain [id]",
		Short: "Show which tag rules match a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				task, err := resolveTask(ctx, a, args[0])
				if err != nil {
					return err
				}
				matches, err := a.Tasks.Explain(ctx, task.ID)
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "%s %s\n", shortID(task.ID), task.Title)
				if len(matches) == 0 {
					fmt.Fprintln(w, "  no rule matches")
					return nil
				}
				for _, m := range matches {
					var why []string
					if m.Keyword {
						why = append(why, "keyword")
					}
					if m.Date {
						why = append(why, fmt.Sprintf("due in %d days", tagging.DaysBetween(a.Tasks.Now(), *task.DueDate)))
					}
					fmt.Fprintf(w, "  %-16s %s\n", m.Tag.Name, strings.Join(why, ", "))
				}
				return nil
			})
		},
	}
}

func newSpinCmd(opts *rootOptions) *cobra.Command {
	var (
		tags   []string
		filter string
	)

	cmd := &cobra.Command{
		Use:   "spin",
		Short: "Pick a random open task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
				catalog, err := a.Tasks.LoadCatalog(ctx)
				if err != nil {
					return err
				}
				tagIDs, err := filterTagIDs(ctx, a, catalog, tags, filter)
				if err != nil {
					return err
				}
				task, err := a.Tasks.Spin(ctx, tagIDs)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Next up: %s %s\n", shortID(task.ID), task.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "only tasks with any of these tags")
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "only tasks with any tag of this saved filter")
	return cmd
}
