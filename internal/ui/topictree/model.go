package topictree

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/journeys/internal/keys"
	"github.com/nhle/journeys/internal/model"
	"github.com/nhle/journeys/internal/theme"
	"github.com/nhle/journeys/internal/tree"
	"github.com/nhle/journeys/internal/ui"
)

// ToggleTopicMsg asks for a topic to be completed (Done) or reopened.
type ToggleTopicMsg struct {
	TopicID string
	Done    bool
}

// ToggleTaskMsg asks for a task to be completed (Done) or reopened.
type ToggleTaskMsg struct {
	TaskID string
	Done   bool
}

// AddTopicMsg asks for a topic to be created. ParentID is nil for a root topic.
type AddTopicMsg struct {
	ParentID *string
	Title    string
}

// AddTaskMsg asks for a task to be created under TopicID.
type AddTaskMsg struct {
	TopicID string
	Name    string
}

// RenameTopicMsg asks for a topic's title to change.
type RenameTopicMsg struct {
	TopicID string
	Title   string
}

// DeleteTopicMsg asks for a topic and its subtree to be deleted.
type DeleteTopicMsg struct {
	TopicID string
}

// DeleteTaskMsg asks for a task to be deleted.
type DeleteTaskMsg struct {
	TaskID string
}

// BackMsg is sent when the user leaves the tree view.
type BackMsg struct{}

type mode int

const (
	modeBrowse mode = iota
	modeInput
	modeConfirm
)

type inputAction int

const (
	actionAddRoot inputAction = iota
	actionAddTopic
	actionAddTask
	actionRename
)

// Model is the topic tree view of a single journey.
type Model struct {
	keys    *keys.KeyMap
	journey model.Journey
	tree    *tree.Tree
	rows    []ui.Row
	cursor  int
	offset  int

	mode    mode
	action  inputAction
	target  ui.Row
	input   textinput.Model
	message string
	isError bool

	width  int
	height int
}

// New creates an empty tree view.
func New(k *keys.KeyMap, width, height int) Model {
	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = max(width-4, 10)

	return Model{
		keys:   k,
		input:  ti,
		width:  width,
		height: height,
	}
}

// SetJourney replaces the displayed journey and tree. The cursor stays on
// the same topic or task when it still exists.
func (m *Model) SetJourney(j model.Journey, t *tree.Tree) {
	var selected string
	if row, ok := m.Selected(); ok && m.journey.ID == j.ID {
		selected = row.ID()
	}

	m.journey = j
	m.tree = t
	m.rows = ui.Flatten(t)
	m.cursor = 0
	for i, r := range m.rows {
		if r.ID() == selected {
			m.cursor = i
			break
		}
	}
	m.clampOffset()
}

// Journey returns the displayed journey.
func (m Model) Journey() model.Journey { return m.journey }

// Tree returns the displayed tree, or nil before the first load.
func (m Model) Tree() *tree.Tree { return m.tree }

// Selected returns the row under the cursor.
func (m Model) Selected() (ui.Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return ui.Row{}, false
	}
	return m.rows[m.cursor], true
}

// SetMessage shows an informational line below the tree.
func (m *Model) SetMessage(msg string) {
	m.message = msg
	m.isError = false
}

// SetError shows a failure line below the tree.
func (m *Model) SetError(msg string) {
	m.message = msg
	m.isError = true
}

// Prompting reports whether the view is capturing keystrokes for an
// input or a confirmation, so global keys must not be intercepted.
func (m Model) Prompting() bool {
	return m.mode != modeBrowse
}

// Update handles messages for the tree view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.mode == modeInput {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch m.mode {
	case modeInput:
		return m.handleInputKeys(keyMsg)
	case modeConfirm:
		return m.handleConfirmKeys(keyMsg)
	default:
		return m.handleBrowseKeys(keyMsg)
	}
}

func (m Model) handleBrowseKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	row, hasRow := m.Selected()

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
			m.clampOffset()
		}
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.clampOffset()
		}
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(msg, m.keys.Toggle):
		if !hasRow {
			return m, nil
		}
		m.message = ""
		done := !row.Completed()
		if row.IsTask() {
			id := row.Task.ID
			return m, func() tea.Msg { return ToggleTaskMsg{TaskID: id, Done: done} }
		}
		id := row.Topic.ID
		return m, func() tea.Msg { return ToggleTopicMsg{TopicID: id, Done: done} }

	case key.Matches(msg, m.keys.AddRoot):
		return m.startInput(actionAddRoot, ui.Row{}, "New root topic: ", "")
	case key.Matches(msg, m.keys.AddTopic):
		if !hasRow {
			return m.startInput(actionAddRoot, ui.Row{}, "New root topic: ", "")
		}
		return m.startInput(actionAddTopic, row, "New subtopic: ", "")
	case key.Matches(msg, m.keys.AddTask):
		if !hasRow {
			return m, nil
		}
		return m.startInput(actionAddTask, row, "New task: ", "")
	case key.Matches(msg, m.keys.Rename):
		if !hasRow || row.IsTask() {
			return m, nil
		}
		return m.startInput(actionRename, row, "Rename: ", row.Topic.Title)

	case key.Matches(msg, m.keys.Delete):
		if !hasRow {
			return m, nil
		}
		m.mode = modeConfirm
		m.target = row
	}
	return m, nil
}

func (m Model) startInput(action inputAction, target ui.Row, prompt, value string) (Model, tea.Cmd) {
	m.mode = modeInput
	m.action = action
	m.target = target
	m.message = ""
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	cmd := m.input.Focus()
	return m, cmd
}

func (m Model) handleInputKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeBrowse
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		m.mode = modeBrowse
		m.input.Blur()
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		return m, m.submit(text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit(text string) tea.Cmd {
	target := m.target
	switch m.action {
	case actionAddRoot:
		return func() tea.Msg { return AddTopicMsg{Title: text} }
	case actionAddTopic:
		parent := target.TopicID()
		return func() tea.Msg { return AddTopicMsg{ParentID: &parent, Title: text} }
	case actionAddTask:
		topicID := target.TopicID()
		return func() tea.Msg { return AddTaskMsg{TopicID: topicID, Name: text} }
	case actionRename:
		id := target.Topic.ID
		return func() tea.Msg { return RenameTopicMsg{TopicID: id, Title: text} }
	}
	return nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.mode = modeBrowse
		target := m.target
		if target.IsTask() {
			return m, func() tea.Msg { return DeleteTaskMsg{TaskID: target.Task.ID} }
		}
		return m, func() tea.Msg { return DeleteTopicMsg{TopicID: target.Topic.ID} }
	case key.Matches(msg, m.keys.Cancel):
		m.mode = modeBrowse
	}
	return m, nil
}

// View renders the tree with the cursor, followed by a prompt or message.
func (m Model) View() string {
	title := theme.HeaderStyle.Render(m.journey.Title)
	stats := ui.RenderStats(m.journey.Stats)
	lines := []string{title + "  " + stats, ""}

	if len(m.rows) == 0 {
		lines = append(lines, theme.HelpStyle.Render("  No topics yet. Press T to add one."))
	}

	end := min(m.offset+m.visibleRows(), len(m.rows))
	for i := m.offset; i < end; i++ {
		line := ui.RenderRow(m.rows[i])
		if i == m.cursor {
			line = theme.SelectedItemStyle.Render(line)
		} else {
			line = theme.ListItemStyle.Render(line)
		}
		lines = append(lines, line)
	}

	lines = append(lines, "", m.footer())
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) footer() string {
	switch m.mode {
	case modeInput:
		return m.input.View()
	case modeConfirm:
		what := "task"
		name := ""
		if m.target.IsTask() {
			name = m.target.Task.Name
		} else {
			what = "topic"
			name = m.target.Topic.Title
			if m.tree != nil {
				sub := m.tree.Subtree(m.target.Topic.ID)
				if n := len(sub.Topics) + len(sub.Tasks); n > 0 {
					what = fmt.Sprintf("topic and %d item(s) below it", n)
				}
			}
		}
		return theme.ErrorStyle.Render(fmt.Sprintf("Delete %s %q? (y/n)", what, name))
	}

	if m.message == "" {
		return ""
	}
	if m.isError {
		return theme.ErrorStyle.Render(m.message)
	}
	return theme.HelpStyle.Render(m.message)
}

// visibleRows is the number of tree rows that fit between the title and
// the footer.
func (m Model) visibleRows() int {
	return max(m.height-4, 1)
}

func (m *Model) clampOffset() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	m.offset = max(m.offset, 0)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = max(width-4, 10)
	m.clampOffset()
}
