package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/journeys/internal/model"
)

const journeyID = "j1"

func ptr(s string) *string { return &s }

func topic(id string, parent *string, order int) model.Topic {
	return model.Topic{ID: id, JourneyID: journeyID, ParentID: parent, Title: id, Order: order}
}

func task(id, topicID string) model.Task {
	return model.Task{ID: id, JourneyID: journeyID, TopicID: topicID, Name: id}
}

// buildTree creates:
//
//	A
//	├── B (t1, t2)
//	│   └── D (t3)
//	└── C
//	E
func buildTree(t *testing.T) *Tree {
	t.Helper()
	tr, err := New(journeyID,
		[]model.Topic{
			topic("D", ptr("B"), 0),
			topic("C", ptr("A"), 1),
			topic("B", ptr("A"), 0),
			topic("A", nil, 0),
			topic("E", nil, 1),
		},
		[]model.Task{task("t1", "B"), task("t2", "B"), task("t3", "D")},
	)
	require.NoError(t, err)
	return tr
}

func ids[T interface{ *model.Topic | *model.Task }](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch v := any(it).(type) {
		case *model.Topic:
			out = append(out, v.ID)
		case *model.Task:
			out = append(out, v.ID)
		}
	}
	return out
}

func TestNew_IndexesChildrenInOrder(t *testing.T) {
	tr := buildTree(t)

	assert.Equal(t, []string{"A", "E"}, ids(tr.Roots()))
	assert.Equal(t, []string{"B", "C"}, ids(tr.ChildTopics("A")))
	assert.Equal(t, []string{"t1", "t2"}, ids(tr.TasksOf("B")))
	assert.Empty(t, tr.ChildTopics("C"))

	topics, tasks := tr.Len()
	assert.Equal(t, 5, topics)
	assert.Equal(t, 3, tasks)
}

func TestTopics_DepthFirstOrder(t *testing.T) {
	tr := buildTree(t)
	assert.Equal(t, []string{"A", "B", "D", "C", "E"}, ids(tr.Topics()))
	assert.Equal(t, []string{"t1", "t2", "t3"}, ids(tr.Tasks()))
}

func TestAncestors_NearestFirst(t *testing.T) {
	tr := buildTree(t)
	assert.Equal(t, []string{"B", "A"}, ids(tr.Ancestors("D")))
	assert.Empty(t, tr.Ancestors("A"))
	assert.Nil(t, tr.Ancestors("missing"))
	assert.Equal(t, 2, tr.Depth("D"))
}

func TestSubtree_CollectsDescendantsAndTasks(t *testing.T) {
	tr := buildTree(t)

	sub := tr.Subtree("A")
	assert.Equal(t, []string{"B", "C", "D"}, ids(sub.Topics))
	assert.ElementsMatch(t, []string{"t1", "t2", "t3"}, ids(sub.Tasks))

	leaf := tr.Subtree("D")
	assert.Empty(t, leaf.Topics)
	assert.Equal(t, []string{"t3"}, ids(leaf.Tasks))
}

func TestNew_RejectsCycle(t *testing.T) {
	_, err := New(journeyID, []model.Topic{
		topic("A", ptr("B"), 0),
		topic("B", ptr("A"), 0),
	}, nil)
	require.Error(t, err)
	assert.True(t, model.IsCycle(err))
}

func TestNew_RejectsSelfParent(t *testing.T) {
	_, err := New(journeyID, []model.Topic{topic("A", ptr("A"), 0)}, nil)
	assert.True(t, model.IsCycle(err))
}

func TestNew_RejectsMissingParent(t *testing.T) {
	_, err := New(journeyID, []model.Topic{topic("A", ptr("ghost"), 0)}, nil)
	assert.True(t, model.IsNotFound(err))
}

func TestNew_RejectsOrphanTask(t *testing.T) {
	_, err := New(journeyID, []model.Topic{topic("A", nil, 0)}, []model.Task{task("t1", "ghost")})
	assert.True(t, model.IsNotFound(err))
}

func TestNew_RejectsNegativeOrder(t *testing.T) {
	_, err := New(journeyID, []model.Topic{topic("A", nil, -1)}, nil)
	assert.True(t, model.IsValidation(err))
}

func TestNew_RejectsForeignJourney(t *testing.T) {
	foreign := topic("A", nil, 0)
	foreign.JourneyID = "other"
	_, err := New(journeyID, []model.Topic{foreign}, nil)
	assert.True(t, model.IsValidation(err))
}

func TestInsertAndRemove(t *testing.T) {
	tr := buildTree(t)

	require.NoError(t, tr.InsertTopic(topic("F", ptr("C"), 0)))
	require.NoError(t, tr.InsertTask(task("t4", "F")))
	assert.Equal(t, []string{"F"}, ids(tr.ChildTopics("C")))
	assert.Equal(t, 0, tr.MaxChildOrder("C"))
	assert.Equal(t, -1, tr.MaxChildOrder("F"))

	err := tr.InsertTopic(topic("F", nil, 0))
	assert.True(t, model.IsValidation(err), "duplicate id")

	err = tr.InsertTopic(topic("G", ptr("ghost"), 0))
	assert.True(t, model.IsNotFound(err))

	tr.RemoveTask("t4")
	tr.RemoveTopic("F")
	assert.Empty(t, tr.ChildTopics("C"))
	_, ok := tr.Topic("F")
	assert.False(t, ok)
	_, ok = tr.Task("t4")
	assert.False(t, ok)
}

func TestResort_AfterOrderChange(t *testing.T) {
	tr := buildTree(t)

	b, err := tr.MustTopic("B")
	require.NoError(t, err)
	b.Order = 5
	tr.Resort("B")

	assert.Equal(t, []string{"C", "B"}, ids(tr.ChildTopics("A")))
}

func TestMustLookups(t *testing.T) {
	tr := buildTree(t)

	_, err := tr.MustTopic("missing")
	assert.True(t, model.IsNotFound(err))
	_, err = tr.MustTask("missing")
	assert.True(t, model.IsNotFound(err))
}
