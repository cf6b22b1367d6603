package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/journeys/internal/model"
	"github.com/nhle/journeys/internal/theme"
	"github.com/nhle/journeys/internal/ui"
)

// errorLine formats a command failure for stderr.
func errorLine(err error) string {
	return theme.ErrorStyle.Render("error: ") + ui.DescribeError(err, nil)
}

// printJourneyHeader prints a journey's title, ID and stats.
func printJourneyHeader(j *model.Journey) {
	fmt.Println(theme.HeaderStyle.Render(j.Title) + " " + theme.DimmedStyle.Render(j.ID))
	if j.Description != "" {
		fmt.Println(theme.HelpStyle.Render(j.Description))
	}
	fmt.Println(ui.RenderStats(j.Stats))
}

// printStats prints every stat on its own line.
func printStats(s model.JourneyStats, updated *time.Time) {
	label := lipgloss.NewStyle().Width(18).Foreground(theme.ColorGray)
	rows := []struct {
		name  string
		value string
	}{
		{"Progress", theme.ProgressBar(s.Progress, 20)},
		{"Topics", fmt.Sprintf("%d/%d complete", s.CompletedTopics, s.TotalTopics)},
		{"Current streak", theme.StreakStyle(s.CurrentStreak).Render(fmt.Sprintf("%d day(s)", s.CurrentStreak))},
		{"Longest streak", fmt.Sprintf("%d day(s)", s.LongestStreak)},
		{"Active days", fmt.Sprintf("%d", s.TotalDays)},
	}
	if updated != nil {
		rows = append(rows, struct {
			name  string
			value string
		}{"Updated", updated.Local().Format(time.DateTime)})
	}
	for _, r := range rows {
		fmt.Println(label.Render(r.name) + r.value)
	}
}

// plural returns "n noun" with a trailing s when n != 1.
func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// titles joins topic titles for a one-line summary.
func titles(topics []model.Topic) string {
	names := make([]string, len(topics))
	for i, t := range topics {
		names[i] = fmt.Sprintf("%q", t.Title)
	}
	return strings.Join(names, ", ")
}
