// Package tree holds the in-memory topic tree of a single journey.
//
// Topics and tasks are stored in flat maps keyed by ID. Parent links are
// lookup-only, so every walk is iterative and bounded by tree depth. The
// tree carries no business rules; completion propagation lives in the
// progress package.
package tree

import (
	"sort"
	"strings"

	"github.com/nhle/journeys/internal/model"
)

// rootKey indexes topics without a parent in the children map.
const rootKey = ""

// Tree is an arena-indexed view of one journey's topics and tasks.
// It is not safe for concurrent use.
type Tree struct {
	journeyID    string
	topics       map[string]*model.Topic
	tasks        map[string]*model.Task
	children     map[string][]string
	tasksByTopic map[string][]string
}

// New builds a tree from a flat list of topics and tasks belonging to
// journeyID. Topics may be given in any order.
func New(journeyID string, topics []model.Topic, tasks []model.Task) (*Tree, error) {
	t := &Tree{
		journeyID:    journeyID,
		topics:       make(map[string]*model.Topic, len(topics)),
		tasks:        make(map[string]*model.Task, len(tasks)),
		children:     make(map[string][]string),
		tasksByTopic: make(map[string][]string),
	}

	for i := range topics {
		topic := topics[i]
		if err := t.checkTopic(topic); err != nil {
			return nil, err
		}
		t.topics[topic.ID] = &topic
	}

	// Parents must exist and chains must terminate before indexing children.
	for _, topic := range t.topics {
		if topic.ParentID == nil {
			continue
		}
		if _, ok := t.topics[*topic.ParentID]; !ok {
			return nil, &model.NotFoundError{Kind: "topic", ID: *topic.ParentID}
		}
		if err := t.checkAcyclic(topic.ID, *topic.ParentID); err != nil {
			return nil, err
		}
	}
	for id, topic := range t.topics {
		key := topic.ParentKey()
		t.children[key] = append(t.children[key], id)
	}
	for key := range t.children {
		t.sortChildren(key)
	}

	for i := range tasks {
		task := tasks[i]
		if err := t.checkTask(task); err != nil {
			return nil, err
		}
		t.tasks[task.ID] = &task
		t.tasksByTopic[task.TopicID] = append(t.tasksByTopic[task.TopicID], task.ID)
	}

	return t, nil
}

// JourneyID returns the journey this tree belongs to.
func (t *Tree) JourneyID() string { return t.journeyID }

// Topic returns the topic with the given ID.
func (t *Tree) Topic(id string) (*model.Topic, bool) {
	topic, ok := t.topics[id]
	return topic, ok
}

// Task returns the task with the given ID.
func (t *Tree) Task(id string) (*model.Task, bool) {
	task, ok := t.tasks[id]
	return task, ok
}

// MustTopic returns the topic or a NotFoundError.
func (t *Tree) MustTopic(id string) (*model.Topic, error) {
	topic, ok := t.topics[id]
	if !ok {
		return nil, &model.NotFoundError{Kind: "topic", ID: id}
	}
	return topic, nil
}

// MustTask returns the task or a NotFoundError.
func (t *Tree) MustTask(id string) (*model.Task, error) {
	task, ok := t.tasks[id]
	if !ok {
		return nil, &model.NotFoundError{Kind: "task", ID: id}
	}
	return task, nil
}

// Roots returns the top-level topics ordered by Order, then Title.
func (t *Tree) Roots() []*model.Topic {
	return t.lookupTopics(t.children[rootKey])
}

// ChildTopics returns the direct subtopics of id ordered by Order, then Title.
func (t *Tree) ChildTopics(id string) []*model.Topic {
	return t.lookupTopics(t.children[id])
}

// TasksOf returns the tasks attached directly to topic id, in insertion order.
func (t *Tree) TasksOf(id string) []*model.Task {
	ids := t.tasksByTopic[id]
	out := make([]*model.Task, 0, len(ids))
	for _, taskID := range ids {
		out = append(out, t.tasks[taskID])
	}
	return out
}

// Ancestors returns the parent chain of id, nearest first. The walk keeps a
// visited set so a corrupted chain cannot loop.
func (t *Tree) Ancestors(id string) []*model.Topic {
	var out []*model.Topic
	topic, ok := t.topics[id]
	if !ok {
		return nil
	}
	visited := map[string]bool{id: true}
	for topic.ParentID != nil {
		parent, ok := t.topics[*topic.ParentID]
		if !ok || visited[parent.ID] {
			break
		}
		visited[parent.ID] = true
		out = append(out, parent)
		topic = parent
	}
	return out
}

// Depth returns the number of ancestors of id.
func (t *Tree) Depth(id string) int {
	return len(t.Ancestors(id))
}

// Subtree is the descendant closure of a topic.
type Subtree struct {
	// Topics are the descendant topics in breadth-first order, excluding the root.
	Topics []*model.Topic

	// Tasks are every task attached to the root or any descendant.
	Tasks []*model.Task
}

// Subtree walks the descendants of id breadth-first.
func (t *Tree) Subtree(id string) Subtree {
	var sub Subtree
	sub.Tasks = append(sub.Tasks, t.TasksOf(id)...)

	queue := append([]string(nil), t.children[id]...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		topic, ok := t.topics[next]
		if !ok {
			continue
		}
		sub.Topics = append(sub.Topics, topic)
		sub.Tasks = append(sub.Tasks, t.TasksOf(next)...)
		queue = append(queue, t.children[next]...)
	}
	return sub
}

// Topics returns every topic in the journey in depth-first display order.
func (t *Tree) Topics() []*model.Topic {
	out := make([]*model.Topic, 0, len(t.topics))
	stack := reversed(t.children[rootKey])
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, t.topics[id])
		stack = append(stack, reversed(t.children[id])...)
	}
	return out
}

// Tasks returns every task in the journey, grouped by topic in display order.
func (t *Tree) Tasks() []*model.Task {
	out := make([]*model.Task, 0, len(t.tasks))
	for _, topic := range t.Topics() {
		out = append(out, t.TasksOf(topic.ID)...)
	}
	return out
}

// Len returns the number of topics and tasks.
func (t *Tree) Len() (topics, tasks int) {
	return len(t.topics), len(t.tasks)
}

// InsertTopic adds a new topic. Its parent must already be in the tree.
func (t *Tree) InsertTopic(topic model.Topic) error {
	if _, exists := t.topics[topic.ID]; exists {
		return &model.ValidationError{Field: "id", Message: "topic " + topic.ID + " already exists"}
	}
	if err := t.checkTopic(topic); err != nil {
		return err
	}
	if topic.ParentID != nil {
		if _, ok := t.topics[*topic.ParentID]; !ok {
			return &model.NotFoundError{Kind: "topic", ID: *topic.ParentID}
		}
		if err := t.checkAcyclic(topic.ID, *topic.ParentID); err != nil {
			return err
		}
	}

	t.topics[topic.ID] = &topic
	key := topic.ParentKey()
	t.children[key] = append(t.children[key], topic.ID)
	t.sortChildren(key)
	return nil
}

// InsertTask adds a new task under an existing topic.
func (t *Tree) InsertTask(task model.Task) error {
	if _, exists := t.tasks[task.ID]; exists {
		return &model.ValidationError{Field: "id", Message: "task " + task.ID + " already exists"}
	}
	if err := t.checkTask(task); err != nil {
		return err
	}
	t.tasks[task.ID] = &task
	t.tasksByTopic[task.TopicID] = append(t.tasksByTopic[task.TopicID], task.ID)
	return nil
}

// RemoveTopic drops a single topic and its task index entry. Callers remove
// descendants first.
func (t *Tree) RemoveTopic(id string) {
	topic, ok := t.topics[id]
	if !ok {
		return
	}
	key := topic.ParentKey()
	t.children[key] = without(t.children[key], id)
	if len(t.children[key]) == 0 {
		delete(t.children, key)
	}
	delete(t.children, id)
	delete(t.tasksByTopic, id)
	delete(t.topics, id)
}

// RemoveTask drops a single task.
func (t *Tree) RemoveTask(id string) {
	task, ok := t.tasks[id]
	if !ok {
		return
	}
	t.tasksByTopic[task.TopicID] = without(t.tasksByTopic[task.TopicID], id)
	if len(t.tasksByTopic[task.TopicID]) == 0 {
		delete(t.tasksByTopic, task.TopicID)
	}
	delete(t.tasks, id)
}

// Resort re-sorts the siblings of id after its Order or Title changed.
func (t *Tree) Resort(id string) {
	if topic, ok := t.topics[id]; ok {
		t.sortChildren(topic.ParentKey())
	}
}

// MaxChildOrder returns the largest Order among the children of parentKey,
// or -1 when there are none. Use "" for roots.
func (t *Tree) MaxChildOrder(parentKey string) int {
	max := -1
	for _, id := range t.children[parentKey] {
		if o := t.topics[id].Order; o > max {
			max = o
		}
	}
	return max
}

func (t *Tree) checkTopic(topic model.Topic) error {
	if topic.ID == "" {
		return &model.ValidationError{Field: "id", Message: "topic id must not be empty"}
	}
	if topic.JourneyID != t.journeyID {
		return &model.ValidationError{
			Field:   "journey_id",
			Message: "topic " + topic.ID + " belongs to journey " + topic.JourneyID,
		}
	}
	if topic.Order < 0 {
		return &model.ValidationError{Field: "order", Message: "must not be negative"}
	}
	if topic.ParentID != nil && *topic.ParentID == topic.ID {
		return &model.CycleError{TopicID: topic.ID, ParentID: topic.ID}
	}
	return nil
}

func (t *Tree) checkTask(task model.Task) error {
	if task.ID == "" {
		return &model.ValidationError{Field: "id", Message: "task id must not be empty"}
	}
	if task.JourneyID != t.journeyID {
		return &model.ValidationError{
			Field:   "journey_id",
			Message: "task " + task.ID + " belongs to journey " + task.JourneyID,
		}
	}
	if _, ok := t.topics[task.TopicID]; !ok {
		return &model.NotFoundError{Kind: "topic", ID: task.TopicID}
	}
	return nil
}

// checkAcyclic walks up from parentID and fails if it reaches topicID or
// revisits a node.
func (t *Tree) checkAcyclic(topicID, parentID string) error {
	visited := map[string]bool{}
	current := parentID
	for {
		if current == topicID || visited[current] {
			return &model.CycleError{TopicID: topicID, ParentID: parentID}
		}
		visited[current] = true
		node, ok := t.topics[current]
		if !ok || node.ParentID == nil {
			return nil
		}
		current = *node.ParentID
	}
}

func (t *Tree) sortChildren(key string) {
	ids := t.children[key]
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := t.topics[ids[i]], t.topics[ids[j]]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
		if at != bt {
			return at < bt
		}
		return a.ID < b.ID
	})
}

func (t *Tree) lookupTopics(ids []string) []*model.Topic {
	out := make([]*model.Topic, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.topics[id])
	}
	return out
}

func reversed(ids []string) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
