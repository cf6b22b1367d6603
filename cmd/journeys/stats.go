package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/journeys/internal/theme"
)

var statsRecompute bool

var statsCmd = &cobra.Command{
	Use:   "stats <journey-id>",
	Short: "Show a journey's progress and streaks",
	Long: `Show a journey's progress and streaks as last saved.

Streaks depend on the current date, so saved values go stale on days
without activity. Pass --recompute to recalculate and save them.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsRecompute, "recompute", false, "recalculate and save stats first")
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if statsRecompute {
		if _, err := app.svc.RecomputeStats(ctx, args[0]); err != nil {
			return err
		}
	}

	j, err := app.svc.GetJourney(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(theme.HeaderStyle.Render(j.Title))
	printStats(j.Stats, j.StatsUpdatedAt)
	return nil
}
