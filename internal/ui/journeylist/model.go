package journeylist

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/journeys/internal/keys"
	"github.com/nhle/journeys/internal/model"
	"github.com/nhle/journeys/internal/theme"
)

// SelectedJourneyMsg is sent when a user opens a journey.
type SelectedJourneyMsg struct {
	JourneyID string
}

// NewJourneyMsg asks the root model to show the journey form.
type NewJourneyMsg struct{}

// Item wraps a model.Journey so it can be used in a bubbles/list.
type Item struct {
	Journey model.Journey
}

// FilterValue returns the string used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Journey.Title }

// Delegate implements list.ItemDelegate for journey rows.
type Delegate struct{}

// Height returns the number of lines each item takes.
func (d Delegate) Height() int { return 2 }

// Spacing returns the number of blank lines between items.
func (d Delegate) Spacing() int { return 1 }

// Update handles per-item messages (unused).
func (d Delegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render draws the journey title with its progress and streak below it.
func (d Delegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(Item)
	if !ok {
		return
	}
	j := it.Journey

	title := j.Title
	if j.Stats.TotalTopics > 0 && j.Stats.CompletedTopics == j.Stats.TotalTopics {
		title = theme.CompletedStyle.Render("✓ " + title)
	}

	summary := fmt.Sprintf("%s  %s",
		theme.ProgressBar(j.Stats.Progress, 20),
		theme.StreakStyle(j.Stats.CurrentStreak).
			Render(fmt.Sprintf("%d day streak", j.Stats.CurrentStreak)),
	)

	style := theme.ListItemStyle
	if index == m.Index() {
		style = theme.SelectedItemStyle
	}
	fmt.Fprint(w, style.Render(title+"\n"+summary))
}

// Model is the journey list view component.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new journey list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, Delegate{}, width, height)
	l.Title = "Journeys"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("journey", "journeys")
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetJourneys replaces the listed journeys, keeping the cursor in range.
func (m *Model) SetJourneys(journeys []model.Journey) tea.Cmd {
	items := make([]list.Item, len(journeys))
	for i, j := range journeys {
		items[i] = Item{Journey: j}
	}
	return m.list.SetItems(items)
}

// Selected returns the journey under the cursor.
func (m Model) Selected() (model.Journey, bool) {
	it, ok := m.list.SelectedItem().(Item)
	if !ok {
		return model.Journey{}, false
	}
	return it.Journey, true
}

// Len returns the number of listed journeys.
func (m Model) Len() int {
	return len(m.list.Items())
}

// Update handles messages for the journey list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Select):
			if j, ok := m.Selected(); ok {
				return m, func() tea.Msg { return SelectedJourneyMsg{JourneyID: j.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.NewJourney):
			return m, func() tea.Msg { return NewJourneyMsg{} }
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the journey list.
func (m Model) View() string {
	if m.Len() == 0 {
		return theme.HelpStyle.Render("\n  No journeys yet. Press n to start one.")
	}
	return m.list.View()
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
