package topictree

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/journeys/internal/keys"
	"github.com/nhle/journeys/internal/model"
	"github.com/nhle/journeys/internal/tree"
)

func ptr(s string) *string { return &s }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newView(t *testing.T) Model {
	t.Helper()
	tr, err := tree.New("j1",
		[]model.Topic{
			{ID: "A", JourneyID: "j1", Title: "Basics"},
			{ID: "B", JourneyID: "j1", ParentID: ptr("A"), Title: "Syntax", Completed: true},
		},
		[]model.Task{{ID: "t1", JourneyID: "j1", TopicID: "A", Name: "Install Go"}},
	)
	require.NoError(t, err)

	m := New(keys.DefaultKeyMap(), 80, 24)
	m.SetJourney(model.Journey{ID: "j1", Title: "Go"}, tr)
	return m
}

// press feeds keys through Update and returns the last command.
func press(m Model, msgs ...tea.KeyMsg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, msg := range msgs {
		m, cmd = m.Update(msg)
	}
	return m, cmd
}

// emitted runs the last command produced by keys and returns its message.
func emitted(t *testing.T, m Model, msgs ...tea.KeyMsg) tea.Msg {
	t.Helper()
	_, cmd := press(m, msgs...)
	require.NotNil(t, cmd)
	return cmd()
}

func TestToggle_TopicAndTask(t *testing.T) {
	m := newView(t)

	space := tea.KeyMsg{Type: tea.KeySpace}

	assert.Equal(t, ToggleTopicMsg{TopicID: "A", Done: true}, emitted(t, m, space))
	assert.Equal(t, ToggleTaskMsg{TaskID: "t1", Done: true}, emitted(t, m, runes("j"), space))
	assert.Equal(t, ToggleTopicMsg{TopicID: "B", Done: false},
		emitted(t, m, runes("j"), runes("j"), space))
}

func TestAddTask_UsesTaskTopic(t *testing.T) {
	m := newView(t)

	m, _ = press(m, runes("j"), runes("a"))
	assert.True(t, m.Prompting())

	assert.Equal(t, AddTaskMsg{TopicID: "A", Name: "read"},
		emitted(t, m, runes("read"), tea.KeyMsg{Type: tea.KeyEnter}))

	m, _ = press(m, runes("read"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Prompting())
}

func TestAddSubtopicAndRoot(t *testing.T) {
	m := newView(t)

	enter := tea.KeyMsg{Type: tea.KeyEnter}

	assert.Equal(t, AddTopicMsg{ParentID: ptr("A"), Title: "Loops"},
		emitted(t, m, runes("t"), runes("Loops"), enter))
	assert.Equal(t, AddTopicMsg{Title: "Web"},
		emitted(t, m, runes("T"), runes("Web"), enter))
}

func TestInput_EscCancels(t *testing.T) {
	m := newView(t)
	m, cmd := press(m, runes("t"), runes("x"), tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, cmd)
	assert.False(t, m.Prompting())
}

func TestRename_PrefillsTitle(t *testing.T) {
	m := newView(t)
	m, _ = press(m, runes("e"))
	assert.Equal(t, "Basics", m.input.Value())

	assert.Equal(t, RenameTopicMsg{TopicID: "A", Title: "Basics!"},
		emitted(t, m, runes("!"), tea.KeyMsg{Type: tea.KeyEnter}))
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	m := newView(t)

	m, cmd := press(m, runes("d"))
	assert.Nil(t, cmd)
	assert.True(t, m.Prompting())
	assert.Contains(t, m.View(), "Delete topic and 2 item(s) below it")

	assert.Equal(t, DeleteTopicMsg{TopicID: "A"}, emitted(t, m, runes("y")))

	m, cmd = press(m, runes("n"))
	assert.Nil(t, cmd)
	assert.False(t, m.Prompting())
}

func TestSetJourney_KeepsCursorOnSameRow(t *testing.T) {
	m := newView(t)
	m, _ = press(m, runes("j"), runes("j"))
	row, ok := m.Selected()
	require.True(t, ok)
	require.Equal(t, "B", row.ID())

	tr, err := tree.New("j1",
		[]model.Topic{
			{ID: "A", JourneyID: "j1", Title: "Basics"},
			{ID: "B", JourneyID: "j1", ParentID: ptr("A"), Title: "Syntax"},
		}, nil)
	require.NoError(t, err)
	m.SetJourney(m.Journey(), tr)

	row, ok = m.Selected()
	require.True(t, ok)
	assert.Equal(t, "B", row.ID())
}

func TestBack(t *testing.T) {
	m := newView(t)
	assert.Equal(t, BackMsg{}, emitted(t, m, tea.KeyMsg{Type: tea.KeyEsc}))
}
