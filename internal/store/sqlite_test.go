package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/journeys/internal/model"
	"github.com/nhle/journeys/internal/store"
	"github.com/nhle/journeys/tests/testutil"
)

func ptr(s string) *string { return &s }

func seedJourney(t *testing.T, s *store.SQLiteStore) *model.Journey {
	t.Helper()
	j, err := s.CreateJourney(context.Background(), model.Journey{Title: "Go"})
	require.NoError(t, err)
	return j
}

func TestMigrations_Applied(t *testing.T) {
	s := testutil.NewTestStore(t)
	v, err := s.SchemaVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestCreateJourney(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	j, err := s.CreateJourney(ctx, model.Journey{Title: "  Learn Go  ", Description: "basics"})
	require.NoError(t, err)
	assert.NotEmpty(t, j.ID)
	assert.Equal(t, "Learn Go", j.Title)
	assert.Equal(t, 0, j.Version)

	got, err := s.GetJourney(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, "Learn Go", got.Title)
	assert.Equal(t, "basics", got.Description)
	assert.Equal(t, model.JourneyStats{}, got.Stats)
	assert.Nil(t, got.StatsUpdatedAt)
}

func TestCreateJourney_EmptyTitle(t *testing.T) {
	s := testutil.NewTestStore(t)
	_, err := s.CreateJourney(context.Background(), model.Journey{Title: "   "})
	assert.True(t, model.IsValidation(err))
}

func TestGetJourney_NotFound(t *testing.T) {
	s := testutil.NewTestStore(t)
	_, err := s.GetJourney(context.Background(), "missing")
	assert.True(t, model.IsNotFound(err))
}

func TestGetJourneys(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	journeys, err := s.GetJourneys(ctx)
	require.NoError(t, err)
	assert.Empty(t, journeys)

	_, err = s.CreateJourney(ctx, model.Journey{Title: "A"})
	require.NoError(t, err)
	_, err = s.CreateJourney(ctx, model.Journey{Title: "B"})
	require.NoError(t, err)

	journeys, err = s.GetJourneys(ctx)
	require.NoError(t, err)
	assert.Len(t, journeys, 2)
}

func TestDeleteJourney_Cascades(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	j := seedJourney(t, s)

	require.NoError(t, s.SaveTopic(ctx, model.Topic{ID: "A", JourneyID: j.ID, Title: "A"}))
	require.NoError(t, s.SaveTask(ctx, model.Task{ID: "t1", JourneyID: j.ID, TopicID: "A", Name: "t1"}))

	require.NoError(t, s.DeleteJourney(ctx, j.ID))

	_, err := s.LoadTopic(ctx, "A")
	assert.True(t, model.IsNotFound(err))
	_, err = s.LoadTask(ctx, "t1")
	assert.True(t, model.IsNotFound(err))

	err = s.DeleteJourney(ctx, j.ID)
	assert.True(t, model.IsNotFound(err))
}

func TestSaveTopic_UpsertKeepsParent(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	j := seedJourney(t, s)

	require.NoError(t, s.SaveTopic(ctx, model.Topic{ID: "A", JourneyID: j.ID, Title: "A"}))
	require.NoError(t, s.SaveTopic(ctx, model.Topic{ID: "B", JourneyID: j.ID, ParentID: ptr("A"), Title: "B"}))

	at := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveTopic(ctx, model.Topic{
		ID: "B", JourneyID: j.ID, Title: "B2", Order: 4,
		Completed: true, CompletedAt: &at,
	}))

	got, err := s.LoadTopic(ctx, "B")
	require.NoError(t, err)
	assert.Equal(t, "B2", got.Title)
	assert.Equal(t, 4, got.Order)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, at.Equal(*got.CompletedAt))
	require.NotNil(t, got.ParentID)
	assert.Equal(t, "A", *got.ParentID)
}

func TestSaveTopic_UnknownParent(t *testing.T) {
	s := testutil.NewTestStore(t)
	j := seedJourney(t, s)
	err := s.SaveTopic(context.Background(),
		model.Topic{ID: "B", JourneyID: j.ID, ParentID: ptr("nope"), Title: "B"})
	assert.Error(t, err)
}

func TestLoadChildTopics_Ordered(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	j := seedJourney(t, s)

	require.NoError(t, s.SaveTopic(ctx, model.Topic{ID: "A", JourneyID: j.ID, Title: "A"}))
	require.NoError(t, s.SaveTopic(ctx, model.Topic{ID: "c2", JourneyID: j.ID, ParentID: ptr("A"), Title: "zeta", Order: 1}))
	require.NoError(t, s.SaveTopic(ctx, model.Topic{ID: "c1", JourneyID: j.ID, ParentID: ptr("A"), Title: "beta", Order: 1}))
	require.NoError(t, s.SaveTopic(ctx, model.Topic{ID: "c0", JourneyID: j.ID, ParentID: ptr("A"), Title: "omega", Order: 0}))

	children, err := s.LoadChildTopics(ctx, "A")
	require.NoError(t, err)
	require.Len(t, children, 3)
	assert.Equal(t, "c0", children[0].ID)
	assert.Equal(t, "c1", children[1].ID)
	assert.Equal(t, "c2", children[2].ID)

	all, err := s.LoadAllTopics(ctx, j.ID)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestDeleteTopics_CascadesToDescendants(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	j := seedJourney(t, s)

	require.NoError(t, s.SaveTopic(ctx, model.Topic{ID: "A", JourneyID: j.ID, Title: "A"}))
	require.NoError(t, s.SaveTopic(ctx, model.Topic{ID: "B", JourneyID: j.ID, ParentID: ptr("A"), Title: "B"}))
	require.NoError(t, s.SaveTask(ctx, model.Task{ID: "t1", JourneyID: j.ID, TopicID: "B", Name: "t1"}))

	require.NoError(t, s.DeleteTopics(ctx, []string{"A"}))

	topics, err := s.LoadAllTopics(ctx, j.ID)
	require.NoError(t, err)
	assert.Empty(t, topics)
	tasks, err := s.LoadAllTasks(ctx, j.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSaveTask_Upsert(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	j := seedJourney(t, s)
	require.NoError(t, s.SaveTopic(ctx, model.Topic{ID: "A", JourneyID: j.ID, Title: "A"}))

	require.NoError(t, s.SaveTask(ctx, model.Task{ID: "t1", JourneyID: j.ID, TopicID: "A", Name: "read"}))
	at := time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveTask(ctx, model.Task{
		ID: "t1", JourneyID: j.ID, TopicID: "A", Name: "read more",
		Completed: true, CompletedAt: &at,
	}))

	tasks, err := s.LoadTasksOfTopic(ctx, "A")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "read more", tasks[0].Name)
	assert.True(t, tasks[0].Completed)
	require.NotNil(t, tasks[0].CompletedAt)
	assert.True(t, at.Equal(*tasks[0].CompletedAt))

	err = s.SaveTask(ctx, model.Task{ID: "t2", JourneyID: j.ID, TopicID: "A", Name: " "})
	assert.True(t, model.IsValidation(err))
}

func TestApply_PersistsChangesAndStats(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	j := seedJourney(t, s)
	require.NoError(t, s.SaveTopic(ctx, model.Topic{ID: "old", JourneyID: j.ID, Title: "old"}))

	changes := model.Changeset{
		SavedTopics: []model.Topic{
			{ID: "A", JourneyID: j.ID, Title: "A"},
			{ID: "B", JourneyID: j.ID, ParentID: ptr("A"), Title: "B"},
		},
		SavedTasks:      []model.Task{{ID: "t1", JourneyID: j.ID, TopicID: "B", Name: "t1"}},
		DeletedTopicIDs: []string{"old"},
	}
	stats := model.JourneyStats{Progress: 50, TotalTopics: 2, CurrentStreak: 1, LongestStreak: 2, TotalDays: 3}

	require.NoError(t, s.Apply(ctx, j.ID, 0, changes, stats))

	got, err := s.GetJourney(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, stats, got.Stats)
	assert.NotNil(t, got.StatsUpdatedAt)

	topics, err := s.LoadAllTopics(ctx, j.ID)
	require.NoError(t, err)
	assert.Len(t, topics, 2)
	_, err = s.LoadTopic(ctx, "old")
	assert.True(t, model.IsNotFound(err))
	_, err = s.LoadTask(ctx, "t1")
	assert.NoError(t, err)
}

func TestApply_VersionConflictWritesNothing(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	j := seedJourney(t, s)

	require.NoError(t, s.Apply(ctx, j.ID, 0, model.Changeset{}, model.JourneyStats{}))

	err := s.Apply(ctx, j.ID, 0, model.Changeset{
		SavedTopics: []model.Topic{{ID: "A", JourneyID: j.ID, Title: "A"}},
	}, model.JourneyStats{TotalTopics: 1})
	assert.ErrorIs(t, err, store.ErrVersionConflict)

	_, err = s.LoadTopic(ctx, "A")
	assert.True(t, model.IsNotFound(err))
	got, err := s.GetJourney(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, 0, got.Stats.TotalTopics)
}

func TestApply_RollsBackOnFailure(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()
	j := seedJourney(t, s)

	err := s.Apply(ctx, j.ID, 0, model.Changeset{
		SavedTopics: []model.Topic{
			{ID: "A", JourneyID: j.ID, Title: "A"},
			{ID: "B", JourneyID: j.ID, ParentID: ptr("missing"), Title: "B"},
		},
	}, model.JourneyStats{TotalTopics: 2})
	require.Error(t, err)

	_, err = s.LoadTopic(ctx, "A")
	assert.True(t, model.IsNotFound(err))
	got, err := s.GetJourney(ctx, j.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Version)
}

func TestApply_UnknownJourney(t *testing.T) {
	s := testutil.NewTestStore(t)
	err := s.Apply(context.Background(), "missing", 0, model.Changeset{}, model.JourneyStats{})
	assert.True(t, model.IsNotFound(err))
}
