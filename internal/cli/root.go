// Package cli implements the nextup command line
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/nextup/internal/app"
	"github.com/tgienger/nextup/internal/config"
	"github.com/tgienger/nextup/internal/db"
	"github.com/tgienger/nextup/internal/models"
)

// BuildInfo is set from ldflags in main
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

type rootOptions struct {
	configPath string
	verbose    bool
	build      BuildInfo
}

// NewRootCmd builds the command tree. Without a subcommand it starts the TUI.
func NewRootCmd(build BuildInfo) *cobra.Command {
	opts := &rootOptions{build: build}

	cmd := &cobra.Command{
		Use:   "nextup",
		Short: "nextup - a terminal task manager that tags tasks for you",
		Long: `nextup keeps a task list in a local SQLite database and tags each task
automatically from keywords in its text and from how close its due date is.

Run without arguments to open the interactive board.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stderr")

	cmd.AddCommand(
		newAddCmd(opts),
		newListCmd(opts),
		newDoneCmd(opts),
		newEditCmd(opts),
		newDeleteCmd(opts),
		newExplainCmd(opts),
		newRetagCmd(opts),
		newSpinCmd(opts),
		newTagsCmd(opts),
		newFiltersCmd(opts),
		newConfigCmd(opts),
		newVersionCmd(opts),
	)
	return cmd
}

// Execute runs the command line and reports errors on stderr
func Execute(build BuildInfo) error {
	if err := NewRootCmd(build).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func openApp(ctx context.Context, opts *rootOptions) (*app.App, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return app.New(ctx, cfg, app.Options{LogToStderr: opts.verbose})
}

// withApp opens the application for the duration of fn
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := openApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

// resolveTask finds a task by full ID or unique ID prefix
func resolveTask(ctx context.Context, a *app.App, ref string) (*models.Task, error) {
	tasks, err := a.Tasks.ListTasks(ctx, db.TaskFilter{All: true})
	if err != nil {
		return nil, err
	}

	var found *models.Task
	for i := range tasks {
		if tasks[i].ID == ref {
			return &tasks[i], nil
		}
		if strings.HasPrefix(tasks[i].ID, ref) {
			if found != nil {
				return nil, fmt.Errorf("task id %q is ambiguous", ref)
			}
			found = &tasks[i]
		}
	}
	if found == nil {
		return nil, fmt.Errorf("no task with id %q", ref)
	}
	return found, nil
}

// resolveTags maps tag names or IDs to IDs
func resolveTags(catalog []models.Tag, refs []string) ([]string, error) {
	var ids []string
	for _, ref := range refs {
		tag, ok := findTag(catalog, ref)
		if !ok {
			return nil, fmt.Errorf("unknown tag %q", ref)
		}
		ids = append(ids, tag.ID)
	}
	return ids, nil
}

func findTag(catalog []models.Tag, ref string) (models.Tag, bool) {
	for _, tag := range catalog {
		if tag.ID == ref || strings.EqualFold(tag.Name, ref) {
			return tag, true
		}
	}
	return models.Tag{}, false
}

func tagNames(catalog []models.Tag, ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if tag, ok := findTag(catalog, id); ok {
			names = append(names, tag.Name)
		}
	}
	return names
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
