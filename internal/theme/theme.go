package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps overlay content such as help and forms.
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// DimmedStyle renders completed items and secondary text.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// CompletedStyle marks a completed topic or task.
var CompletedStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// ErrorStyle renders failures in the status bar and CLI output.
var ErrorStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorRed)

// TaskStyle renders task rows, which sit below topics in the hierarchy.
var TaskStyle = lipgloss.NewStyle().
	Foreground(ColorWhite)

// TopicStyle renders topic titles.
var TopicStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite)

// ProgressStyle returns a color-coded style for a 0-100 percentage.
func ProgressStyle(progress int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch {
	case progress >= 100:
		return base.Foreground(ColorGreen)
	case progress >= 67:
		return base.Foreground(ColorBlue)
	case progress >= 34:
		return base.Foreground(ColorYellow)
	case progress > 0:
		return base.Foreground(ColorOrange)
	default:
		return base.Foreground(ColorGray)
	}
}

// StreakStyle returns a style for a current streak length. A broken
// streak is dimmed.
func StreakStyle(current int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch {
	case current >= 7:
		return base.Foreground(ColorMagenta)
	case current > 0:
		return base.Foreground(ColorOrange)
	default:
		return base.Foreground(ColorGray)
	}
}

// ProgressBar renders a fixed-width bar followed by the percentage.
func ProgressBar(progress, width int) string {
	if width < 1 {
		width = 1
	}
	progress = max(0, min(progress, 100))
	filled := progress * width / 100

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return ProgressStyle(progress).Render(fmt.Sprintf("%s %3d%%", bar, progress))
}

// Checkbox renders the completion marker for a topic or task.
func Checkbox(done bool) string {
	if done {
		return CompletedStyle.Render("[x]")
	}
	return DimmedStyle.Render("[ ]")
}

// Use selects a display theme. "plain" disables colors and text styling;
// "default" keeps the terminal's detected color profile.
func Use(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return nil
	case "plain", "mono":
		lipgloss.SetColorProfile(termenv.Ascii)
		return nil
	default:
		return fmt.Errorf("unknown display theme %q (want default or plain)", name)
	}
}
