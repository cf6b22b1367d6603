package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/journeys/internal/model"
	"github.com/nhle/journeys/internal/tree"
)

// journeysLoadedMsg carries the journey list.
type journeysLoadedMsg struct {
	journeys []model.Journey
	err      error
}

// journeyLoadedMsg carries a journey and its topic tree.
type journeyLoadedMsg struct {
	journeyID string
	journey   *model.Journey
	tree      *tree.Tree
	err       error
}

// journeyCreatedMsg is sent after a journey is persisted.
type journeyCreatedMsg struct {
	journeyID string
	err       error
}

// opResultMsg is sent after a mutation of the open journey.
type opResultMsg struct {
	message string
	err     error
}

// loadJourneys fetches all journeys.
func (m Model) loadJourneys() tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		journeys, err := svc.ListJourneys(context.Background())
		return journeysLoadedMsg{journeys: journeys, err: err}
	}
}

// loadJourney fetches a journey with its full tree.
func (m Model) loadJourney(id string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		ctx := context.Background()
		j, err := svc.GetJourney(ctx, id)
		if err != nil {
			return journeyLoadedMsg{journeyID: id, err: err}
		}
		t, err := svc.Snapshot(ctx, id)
		if err != nil {
			return journeyLoadedMsg{journeyID: id, err: err}
		}
		return journeyLoadedMsg{journeyID: id, journey: j, tree: t}
	}
}

// createJourney persists a new journey.
func (m Model) createJourney(title, description string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		j, err := svc.CreateJourney(context.Background(), title, description)
		if err != nil {
			return journeyCreatedMsg{err: err}
		}
		return journeyCreatedMsg{journeyID: j.ID}
	}
}

// toggleTopic completes or reopens a topic.
func (m Model) toggleTopic(id string, done bool) tea.Cmd {
	return m.run("toggle topic", func(ctx context.Context) (string, error) {
		if !done {
			res, err := m.svc.MarkTopicIncomplete(ctx, id)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Reopened %d topic(s) and %d task(s)", len(res.Topics), len(res.Tasks)), nil
		}
		res, err := m.svc.MarkTopicComplete(ctx, id)
		if err != nil {
			return "", err
		}
		if n := len(res.AutoCompleted); n > 0 {
			return fmt.Sprintf("Completed %q and %d parent topic(s)", res.Topic.Title, n), nil
		}
		return fmt.Sprintf("Completed %q", res.Topic.Title), nil
	})
}

// toggleTask completes or reopens a task.
func (m Model) toggleTask(id string, done bool) tea.Cmd {
	return m.run("toggle task", func(ctx context.Context) (string, error) {
		res, err := m.svc.SetTaskCompleted(ctx, id, done)
		if err != nil {
			return "", err
		}
		if !done && len(res.Reopened) > 0 {
			return fmt.Sprintf("Reopened %q and %d topic(s)", res.Task.Name, len(res.Reopened)), nil
		}
		return "", nil
	})
}

// addTopic creates a topic in the open journey.
func (m Model) addTopic(parentID *string, title string) tea.Cmd {
	journeyID := m.treeView.Journey().ID
	return m.run("add topic", func(ctx context.Context) (string, error) {
		res, err := m.svc.AddTopic(ctx, journeyID, parentID, title)
		if err != nil {
			return "", err
		}
		return reopenedNote(fmt.Sprintf("Added %q", res.Topic.Title), len(res.Reopened)), nil
	})
}

// addTask creates a task under a topic.
func (m Model) addTask(topicID, name string) tea.Cmd {
	return m.run("add task", func(ctx context.Context) (string, error) {
		res, err := m.svc.AddTask(ctx, topicID, name)
		if err != nil {
			return "", err
		}
		return reopenedNote(fmt.Sprintf("Added %q", res.Task.Name), len(res.Reopened)), nil
	})
}

// renameTopic changes a topic's title.
func (m Model) renameTopic(id, title string) tea.Cmd {
	return m.run("rename topic", func(ctx context.Context) (string, error) {
		_, err := m.svc.RenameTopic(ctx, id, title)
		return "", err
	})
}

// deleteTopic removes a topic and its subtree.
func (m Model) deleteTopic(id string) tea.Cmd {
	return m.run("delete topic", func(ctx context.Context) (string, error) {
		res, err := m.svc.DeleteTopic(ctx, id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Deleted %d topic(s) and %d task(s)", len(res.TopicIDs), len(res.TaskIDs)), nil
	})
}

// deleteTask removes a task.
func (m Model) deleteTask(id string) tea.Cmd {
	return m.run("delete task", func(ctx context.Context) (string, error) {
		_, err := m.svc.DeleteTask(ctx, id)
		return "", err
	})
}

// run executes op off the UI goroutine and reports its outcome.
func (m Model) run(name string, op func(ctx context.Context) (string, error)) tea.Cmd {
	log := m.log
	return func() tea.Msg {
		message, err := op(context.Background())
		if err != nil {
			log.Warn("operation failed", "op", name, "err", err)
		}
		return opResultMsg{message: message, err: err}
	}
}

func reopenedNote(msg string, reopened int) string {
	if reopened == 0 {
		return msg
	}
	return fmt.Sprintf("%s (reopened %d topic(s))", msg, reopened)
}
