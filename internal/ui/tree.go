package ui

import (
	"fmt"
	"strings"

	"github.com/nhle/journeys/internal/model"
	"github.com/nhle/journeys/internal/theme"
	"github.com/nhle/journeys/internal/tree"
)

// Row is one line of a rendered topic tree: either a topic or a task.
type Row struct {
	Depth int
	Topic *model.Topic
	Task  *model.Task
}

// IsTask reports whether the row holds a task.
func (r Row) IsTask() bool { return r.Task != nil }

// ID returns the ID of the topic or task on this row.
func (r Row) ID() string {
	if r.Task != nil {
		return r.Task.ID
	}
	return r.Topic.ID
}

// Completed reports the completion state of the row's entity.
func (r Row) Completed() bool {
	if r.Task != nil {
		return r.Task.Completed
	}
	return r.Topic.Completed
}

// TopicID returns the topic the row belongs to. For a task row this is
// the task's topic.
func (r Row) TopicID() string {
	if r.Task != nil {
		return r.Task.TopicID
	}
	return r.Topic.ID
}

// Flatten lists a tree in display order. Each topic is followed by its
// tasks and then its subtopics.
func Flatten(t *tree.Tree) []Row {
	var rows []Row

	type frame struct {
		topic *model.Topic
		depth int
	}
	roots := t.Roots()
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{roots[i], 0})
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		rows = append(rows, Row{Depth: f.depth, Topic: f.topic})
		for _, tk := range t.TasksOf(f.topic.ID) {
			rows = append(rows, Row{Depth: f.depth + 1, Task: tk})
		}

		children := t.ChildTopics(f.topic.ID)
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{children[i], f.depth + 1})
		}
	}
	return rows
}

// RenderRow renders a single row with indentation and a checkbox.
func RenderRow(r Row) string {
	indent := strings.Repeat("  ", r.Depth)
	if r.Task != nil {
		name := theme.TaskStyle.Render(r.Task.Name)
		if r.Task.Completed {
			name = theme.DimmedStyle.Strikethrough(true).Render(r.Task.Name)
		}
		return fmt.Sprintf("%s%s %s", indent, theme.Checkbox(r.Task.Completed), name)
	}

	title := theme.TopicStyle.Render(r.Topic.Title)
	if r.Topic.Completed {
		title = theme.CompletedStyle.Render(r.Topic.Title)
	}
	return fmt.Sprintf("%s%s %s", indent, theme.Checkbox(r.Topic.Completed), title)
}

// RenderTree renders the whole tree, one row per line, optionally
// suffixing each row with its ID.
func RenderTree(t *tree.Tree, withIDs bool) string {
	rows := Flatten(t)
	if len(rows) == 0 {
		return theme.HelpStyle.Render("No topics yet.")
	}

	var b strings.Builder
	for i, r := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(RenderRow(r))
		if withIDs {
			b.WriteString(" " + theme.DimmedStyle.Render(r.ID()))
		}
	}
	return b.String()
}

// RenderStats renders a one-line summary of journey stats.
func RenderStats(s model.JourneyStats) string {
	streak := theme.StreakStyle(s.CurrentStreak).
		Render(fmt.Sprintf("streak %d (best %d)", s.CurrentStreak, s.LongestStreak))
	return fmt.Sprintf("%s  topics %d/%d  %s  %d day(s)",
		theme.ProgressBar(s.Progress, 10),
		s.CompletedTopics, s.TotalTopics,
		streak,
		s.TotalDays,
	)
}
