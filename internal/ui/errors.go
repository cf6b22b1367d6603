package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nhle/journeys/internal/model"
	"github.com/nhle/journeys/internal/tree"
)

// DescribeError turns an operation error into a user-facing message. When
// a topic cannot be completed, the blocking tasks and subtopics are named
// using t; t may be nil, in which case IDs are shown.
func DescribeError(err error, t *tree.Tree) string {
	var blocked *model.IncompleteChildrenError
	if !errors.As(err, &blocked) {
		return err.Error()
	}

	var tasks, topics []string
	for _, id := range blocked.TaskIDs {
		tasks = append(tasks, taskName(t, id))
	}
	for _, id := range blocked.TopicIDs {
		topics = append(topics, topicTitle(t, id))
	}
	title := topicTitle(t, blocked.TopicID)

	var parts []string
	if len(tasks) > 0 {
		parts = append(parts, "tasks: "+quoteAll(tasks))
	}
	if len(topics) > 0 {
		parts = append(parts, "subtopics: "+quoteAll(topics))
	}
	return fmt.Sprintf("%q is not finished (%s)", title, strings.Join(parts, "; "))
}

func topicTitle(t *tree.Tree, id string) string {
	if t != nil {
		if topic, ok := t.Topic(id); ok {
			return topic.Title
		}
	}
	return id
}

func taskName(t *tree.Tree, id string) string {
	if t != nil {
		if task, ok := t.Task(id); ok {
			return task.Name
		}
	}
	return id
}

func quoteAll(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", n)
	}
	return strings.Join(quoted, ", ")
}
