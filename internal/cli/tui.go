package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/tgienger/nextup/internal/app"
	"github.com/tgienger/nextup/internal/ui"
)

// runTUI opens the interactive interface
func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	return withApp(cmd, opts, func(ctx context.Context, a *app.App) error {
		model := ui.NewApp(ctx, a.Tasks, a.PomodoroDurations())
		p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

		if _, err := p.Run(); err != nil {
			a.Logger.Error().Err(err).Msg("tui exited with error")
			return fmt.Errorf("error running application: %w", err)
		}
		return nil
	})
}
