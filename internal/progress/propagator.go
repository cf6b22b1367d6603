// Package progress keeps topic completion consistent across a journey's
// topic tree and aggregates journey statistics.
//
// Every operation validates against the tree first and only then mutates
// it, returning the full set of writes as a model.Changeset. A failed
// operation leaves the tree untouched.
package progress

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/journeys/internal/model"
	"github.com/nhle/journeys/internal/tree"
)

// Propagator enforces that a completed topic has only completed
// descendants.
type Propagator struct {
	now   func() time.Time
	newID func() string
}

// Option configures a Propagator.
type Option func(*Propagator)

// WithClock overrides the time source used for completedAt and timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *Propagator) { p.now = now }
}

// WithIDGenerator overrides how new topic and task IDs are minted.
func WithIDGenerator(newID func() string) Option {
	return func(p *Propagator) { p.newID = newID }
}

// NewPropagator creates a Propagator using the wall clock and UUIDs.
func NewPropagator(opts ...Option) *Propagator {
	p := &Propagator{
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// CompleteResult is returned by MarkTopicComplete.
type CompleteResult struct {
	Topic model.Topic

	// AutoCompleted are ancestors that became complete as a consequence,
	// nearest first.
	AutoCompleted []model.Topic

	Changes model.Changeset
}

// IncompleteResult is returned by MarkTopicIncomplete.
type IncompleteResult struct {
	Topics  []model.Topic
	Tasks   []model.Task
	Changes model.Changeset
}

// AddTopicResult is returned by AddTopic.
type AddTopicResult struct {
	Topic    model.Topic
	Reopened []model.Topic
	Changes  model.Changeset
}

// AddTaskResult is returned by AddTask.
type AddTaskResult struct {
	Task     model.Task
	Reopened []model.Topic
	Changes  model.Changeset
}

// TaskResult is returned by SetTaskCompleted.
type TaskResult struct {
	Task     model.Task
	Reopened []model.Topic
	Changes  model.Changeset
}

// DeleteResult lists everything removed by DeleteTopic or DeleteTask.
type DeleteResult struct {
	TopicIDs []string
	TaskIDs  []string
	Changes  model.Changeset
}

// TopicResult is returned by RenameTopic and ReorderTopic.
type TopicResult struct {
	Topic   model.Topic
	Changes model.Changeset
}

// MarkTopicComplete completes topicID if all its direct tasks and subtopics
// are complete, then completes each ancestor whose direct children are now
// all complete, stopping at the first that is not. Completing an already
// complete topic is a no-op.
func (p *Propagator) MarkTopicComplete(t *tree.Tree, topicID string) (CompleteResult, error) {
	topic, err := t.MustTopic(topicID)
	if err != nil {
		return CompleteResult{}, err
	}
	if topic.Completed {
		return CompleteResult{Topic: *topic}, nil
	}

	if blocking := incompleteChildren(t, topicID); blocking != nil {
		return CompleteResult{}, blocking
	}

	now := p.now()
	complete(topic, now)

	res := CompleteResult{Topic: *topic}
	res.Changes.SavedTopics = append(res.Changes.SavedTopics, *topic)

	for _, ancestor := range t.Ancestors(topicID) {
		if ancestor.Completed || incompleteChildren(t, ancestor.ID) != nil {
			break
		}
		complete(ancestor, now)
		res.AutoCompleted = append(res.AutoCompleted, *ancestor)
		res.Changes.SavedTopics = append(res.Changes.SavedTopics, *ancestor)
	}

	return res, nil
}

// MarkTopicIncomplete reopens topicID, every completed topic and task in
// its subtree, and every completed ancestor. Only entities whose state
// actually changed are returned.
func (p *Propagator) MarkTopicIncomplete(t *tree.Tree, topicID string) (IncompleteResult, error) {
	topic, err := t.MustTopic(topicID)
	if err != nil {
		return IncompleteResult{}, err
	}

	now := p.now()
	var res IncompleteResult

	if reopen(topic, now) {
		res.Topics = append(res.Topics, *topic)
	}

	sub := t.Subtree(topicID)
	for _, desc := range sub.Topics {
		if reopen(desc, now) {
			res.Topics = append(res.Topics, *desc)
		}
	}
	for _, tk := range sub.Tasks {
		if reopenTask(tk, now) {
			res.Tasks = append(res.Tasks, *tk)
		}
	}

	res.Topics = append(res.Topics, p.reopenAncestors(t, topicID, now)...)

	res.Changes.SavedTopics = res.Topics
	res.Changes.SavedTasks = res.Tasks
	return res, nil
}

// AddTopic creates an incomplete topic under parentID (nil for a root
// topic). A completed parent and its completed ancestors are reopened.
func (p *Propagator) AddTopic(t *tree.Tree, parentID *string, title string) (AddTopicResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return AddTopicResult{}, &model.ValidationError{Field: "title", Message: "must not be empty"}
	}

	parentKey := ""
	if parentID != nil {
		if _, err := t.MustTopic(*parentID); err != nil {
			return AddTopicResult{}, err
		}
		parentKey = *parentID
		parentID = &parentKey
	}

	now := p.now()
	topic := model.Topic{
		ID:        p.newID(),
		JourneyID: t.JourneyID(),
		ParentID:  parentID,
		Title:     title,
		Order:     t.MaxChildOrder(parentKey) + 1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.InsertTopic(topic); err != nil {
		return AddTopicResult{}, err
	}

	var res AddTopicResult
	res.Topic = topic
	if parentID != nil {
		res.Reopened = p.reopenFrom(t, *parentID, now)
	}

	res.Changes.SavedTopics = append(res.Changes.SavedTopics, res.Reopened...)
	res.Changes.SavedTopics = append(res.Changes.SavedTopics, topic)
	return res, nil
}

// AddTask creates an incomplete task under topicID, reopening the topic and
// its completed ancestors if needed.
func (p *Propagator) AddTask(t *tree.Tree, topicID, name string) (AddTaskResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return AddTaskResult{}, &model.ValidationError{Field: "name", Message: "must not be empty"}
	}
	if _, err := t.MustTopic(topicID); err != nil {
		return AddTaskResult{}, err
	}

	now := p.now()
	task := model.Task{
		ID:        p.newID(),
		JourneyID: t.JourneyID(),
		TopicID:   topicID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.InsertTask(task); err != nil {
		return AddTaskResult{}, err
	}

	res := AddTaskResult{Task: task}
	res.Reopened = p.reopenFrom(t, topicID, now)
	res.Changes.SavedTopics = res.Reopened
	res.Changes.SavedTasks = []model.Task{task}
	return res, nil
}

// SetTaskCompleted completes or reopens a single task. Completing a task
// never completes its topic. Reopening a task under a completed topic
// reopens that topic and its completed ancestors.
func (p *Propagator) SetTaskCompleted(t *tree.Tree, taskID string, done bool) (TaskResult, error) {
	task, err := t.MustTask(taskID)
	if err != nil {
		return TaskResult{}, err
	}
	if task.Completed == done {
		return TaskResult{Task: *task}, nil
	}

	now := p.now()
	var res TaskResult
	if done {
		task.Completed = true
		task.CompletedAt = &now
		task.UpdatedAt = now
	} else {
		reopenTask(task, now)
		res.Reopened = p.reopenFrom(t, task.TopicID, now)
	}

	res.Task = *task
	res.Changes.SavedTopics = res.Reopened
	res.Changes.SavedTasks = []model.Task{*task}
	return res, nil
}

// DeleteTopic removes topicID with its full descendant closure. Task IDs
// come first, then descendant topic IDs deepest-first, then topicID.
func (p *Propagator) DeleteTopic(t *tree.Tree, topicID string) (DeleteResult, error) {
	if _, err := t.MustTopic(topicID); err != nil {
		return DeleteResult{}, err
	}

	sub := t.Subtree(topicID)

	var res DeleteResult
	for _, tk := range sub.Tasks {
		res.TaskIDs = append(res.TaskIDs, tk.ID)
	}
	for i := len(sub.Topics) - 1; i >= 0; i-- {
		res.TopicIDs = append(res.TopicIDs, sub.Topics[i].ID)
	}
	res.TopicIDs = append(res.TopicIDs, topicID)

	for _, id := range res.TaskIDs {
		t.RemoveTask(id)
	}
	for _, id := range res.TopicIDs {
		t.RemoveTopic(id)
	}

	res.Changes.DeletedTaskIDs = res.TaskIDs
	res.Changes.DeletedTopicIDs = res.TopicIDs
	return res, nil
}

// DeleteTask removes a single task.
func (p *Propagator) DeleteTask(t *tree.Tree, taskID string) (DeleteResult, error) {
	if _, err := t.MustTask(taskID); err != nil {
		return DeleteResult{}, err
	}
	t.RemoveTask(taskID)

	res := DeleteResult{TaskIDs: []string{taskID}}
	res.Changes.DeletedTaskIDs = res.TaskIDs
	return res, nil
}

// RenameTopic changes a topic's title.
func (p *Propagator) RenameTopic(t *tree.Tree, topicID, title string) (TopicResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return TopicResult{}, &model.ValidationError{Field: "title", Message: "must not be empty"}
	}
	topic, err := t.MustTopic(topicID)
	if err != nil {
		return TopicResult{}, err
	}

	topic.Title = title
	topic.UpdatedAt = p.now()
	t.Resort(topicID)
	return TopicResult{Topic: *topic, Changes: model.Changeset{SavedTopics: []model.Topic{*topic}}}, nil
}

// ReorderTopic moves a topic among its siblings.
func (p *Propagator) ReorderTopic(t *tree.Tree, topicID string, order int) (TopicResult, error) {
	if order < 0 {
		return TopicResult{}, &model.ValidationError{Field: "order", Message: "must not be negative"}
	}
	topic, err := t.MustTopic(topicID)
	if err != nil {
		return TopicResult{}, err
	}

	topic.Order = order
	topic.UpdatedAt = p.now()
	t.Resort(topicID)
	return TopicResult{Topic: *topic, Changes: model.Changeset{SavedTopics: []model.Topic{*topic}}}, nil
}

// reopenFrom reopens topicID if completed and then its completed ancestors.
func (p *Propagator) reopenFrom(t *tree.Tree, topicID string, now time.Time) []model.Topic {
	var out []model.Topic
	if topic, ok := t.Topic(topicID); ok && reopen(topic, now) {
		out = append(out, *topic)
	}
	return append(out, p.reopenAncestors(t, topicID, now)...)
}

// reopenAncestors walks every ancestor of topicID up to the root and
// reopens the completed ones.
func (p *Propagator) reopenAncestors(t *tree.Tree, topicID string, now time.Time) []model.Topic {
	var out []model.Topic
	for _, ancestor := range t.Ancestors(topicID) {
		if reopen(ancestor, now) {
			out = append(out, *ancestor)
		}
	}
	return out
}

// incompleteChildren returns the blocking children of topicID, or nil.
func incompleteChildren(t *tree.Tree, topicID string) *model.IncompleteChildrenError {
	var blocking model.IncompleteChildrenError
	for _, tk := range t.TasksOf(topicID) {
		if !tk.Completed {
			blocking.TaskIDs = append(blocking.TaskIDs, tk.ID)
		}
	}
	for _, child := range t.ChildTopics(topicID) {
		if !child.Completed {
			blocking.TopicIDs = append(blocking.TopicIDs, child.ID)
		}
	}
	if len(blocking.TaskIDs) == 0 && len(blocking.TopicIDs) == 0 {
		return nil
	}
	blocking.TopicID = topicID
	return &blocking
}

func complete(topic *model.Topic, now time.Time) {
	topic.Completed = true
	topic.CompletedAt = &now
	topic.UpdatedAt = now
}

// reopen clears completion and reports whether anything changed.
func reopen(topic *model.Topic, now time.Time) bool {
	if !topic.Completed {
		return false
	}
	topic.Completed = false
	topic.CompletedAt = nil
	topic.UpdatedAt = now
	return true
}

func reopenTask(task *model.Task, now time.Time) bool {
	if !task.Completed {
		return false
	}
	task.Completed = false
	task.CompletedAt = nil
	task.UpdatedAt = now
	return true
}
