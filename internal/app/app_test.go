package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/journeys/internal/journey"
	"github.com/nhle/journeys/internal/streak"
	"github.com/nhle/journeys/internal/ui/journeylist"
	"github.com/nhle/journeys/internal/ui/topictree"
	"github.com/nhle/journeys/tests/testutil"
)

func newApp(t *testing.T) (Model, *journey.Service) {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	svc := journey.NewService(testutil.NewTestStore(t), streak.NewCalculator(nil),
		journey.WithClock(func() time.Time { return now }),
		journey.WithLogger(log),
	)
	m := New(svc, log)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model), svc
}

// step applies msg and then resolves the returned command chain for
// messages produced by this package.
func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	for cmd != nil {
		out := cmd()
		switch out.(type) {
		case journeysLoadedMsg, journeyLoadedMsg, opResultMsg, journeyCreatedMsg:
		default:
			return m
		}
		next, cmd = m.Update(out)
		m = next.(Model)
	}
	return m
}

func TestApp_InitListsJourneys(t *testing.T) {
	m, svc := newApp(t)
	_, err := svc.CreateJourney(context.Background(), "Go", "")
	require.NoError(t, err)

	next, _ := m.Update(m.Init()())
	m = next.(Model)
	assert.Equal(t, 1, m.journeyList.Len())
	assert.Contains(t, m.View(), "Go")
}

func TestApp_OpenJourneyAndToggle(t *testing.T) {
	m, svc := newApp(t)
	ctx := context.Background()
	j, err := svc.CreateJourney(ctx, "Go", "")
	require.NoError(t, err)
	a, err := svc.AddTopic(ctx, j.ID, nil, "Basics")
	require.NoError(t, err)

	m = step(t, m, journeylist.SelectedJourneyMsg{JourneyID: j.ID})
	assert.Equal(t, ViewTree, m.currentView)
	require.NotNil(t, m.treeView.Tree())

	m = step(t, m, topictree.ToggleTopicMsg{TopicID: a.Topic.ID, Done: true})
	assert.True(t, m.treeView.Journey().Stats.CompletedTopics == 1)
	assert.Contains(t, m.View(), `Completed "Basics"`)
}

func TestApp_BlockedCompletionShowsReason(t *testing.T) {
	m, svc := newApp(t)
	ctx := context.Background()
	j, err := svc.CreateJourney(ctx, "Go", "")
	require.NoError(t, err)
	a, err := svc.AddTopic(ctx, j.ID, nil, "Basics")
	require.NoError(t, err)
	_, err = svc.AddTask(ctx, a.Topic.ID, "Install Go")
	require.NoError(t, err)

	m = step(t, m, journeylist.SelectedJourneyMsg{JourneyID: j.ID})
	m = step(t, m, topictree.ToggleTopicMsg{TopicID: a.Topic.ID, Done: true})

	assert.Contains(t, m.View(), `"Basics" is not finished (tasks: "Install Go")`)
	stored, err := svc.GetJourney(ctx, j.ID)
	require.NoError(t, err)
	assert.Zero(t, stored.Stats.CompletedTopics)
}

func TestApp_AddAndDeleteThroughTree(t *testing.T) {
	m, svc := newApp(t)
	ctx := context.Background()
	j, err := svc.CreateJourney(ctx, "Go", "")
	require.NoError(t, err)

	m = step(t, m, journeylist.SelectedJourneyMsg{JourneyID: j.ID})
	m = step(t, m, topictree.AddTopicMsg{Title: "Basics"})

	tr, err := svc.Snapshot(ctx, j.ID)
	require.NoError(t, err)
	roots := tr.Roots()
	require.Len(t, roots, 1)

	m = step(t, m, topictree.AddTaskMsg{TopicID: roots[0].ID, Name: "Install Go"})
	m = step(t, m, topictree.DeleteTopicMsg{TopicID: roots[0].ID})
	assert.Contains(t, m.View(), "Deleted 1 topic(s) and 1 task(s)")

	tr, err = svc.Snapshot(ctx, j.ID)
	require.NoError(t, err)
	topics, tasks := tr.Len()
	assert.Zero(t, topics)
	assert.Zero(t, tasks)
}

func TestApp_HelpToggle(t *testing.T) {
	m, _ := newApp(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	m = next.(Model)
	assert.Equal(t, ViewHelp, m.currentView)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.Equal(t, ViewJourneys, m.currentView)
}

func TestApp_CreateJourneyOpensTree(t *testing.T) {
	m, svc := newApp(t)

	m = step(t, m, journeyCreatedMsg{journeyID: mustCreate(t, svc)})
	assert.Equal(t, ViewTree, m.currentView)
	assert.Equal(t, "Rust", m.treeView.Journey().Title)
}

func mustCreate(t *testing.T, svc *journey.Service) string {
	t.Helper()
	j, err := svc.CreateJourney(context.Background(), "Rust", "")
	require.NoError(t, err)
	return j.ID
}

