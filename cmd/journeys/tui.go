package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	tui "github.com/nhle/journeys/internal/app"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and edit journeys in an interactive terminal UI",
	Long: `Browse and edit journeys in an interactive terminal UI.

Logs are written to log.file while the UI is running.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	app.log.Info("starting terminal UI")

	p := tea.NewProgram(tui.New(app.svc, app.log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running terminal UI: %w", err)
	}
	return nil
}
