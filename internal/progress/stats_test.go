package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/journeys/internal/model"
	"github.com/nhle/journeys/internal/streak"
)

func completedOn(id, topicID string, day int) model.Task {
	tk := task(id, topicID)
	at := time.Date(2024, 1, day, 9, 0, 0, 0, time.UTC)
	tk.Completed = true
	tk.CompletedAt = &at
	return tk
}

func TestAggregate_EmptyJourney(t *testing.T) {
	tr := mustTree(t, nil, nil)
	stats := Aggregate(tr, streak.NewCalculator(nil), fixedNow)
	assert.Equal(t, model.JourneyStats{}, stats)
}

func TestAggregate_CountsTopicsAtEveryDepth(t *testing.T) {
	tr := mustTree(t,
		[]model.Topic{
			topic("A", nil),
			doneTopic("B", ptr("A")),
			doneTopic("C", ptr("B")),
			topic("D", nil),
		},
		[]model.Task{
			completedOn("t1", "C", 1),
			completedOn("t2", "C", 2),
			completedOn("t3", "B", 3),
			task("t4", "A"), task("t5", "A"), task("t6", "A"), task("t7", "D"),
			task("t8", "D"), task("t9", "D"), task("t10", "D"),
		},
	)

	stats := Aggregate(tr, streak.NewCalculator(nil), fixedNow)

	assert.Equal(t, model.JourneyStats{
		CurrentStreak:   3,
		LongestStreak:   3,
		TotalDays:       3,
		Progress:        30,
		CompletedTopics: 2,
		TotalTopics:     4,
	}, stats)
}

func TestAggregate_AfterPropagation(t *testing.T) {
	tr := mustTree(t,
		[]model.Topic{topic("A", nil), topic("B", ptr("A")), topic("C", ptr("A"))},
		[]model.Task{completedOn("t1", "B", 3), completedOn("t2", "C", 1)},
	)
	p := newPropagator()

	_, err := p.MarkTopicComplete(tr, "B")
	assert.NoError(t, err)
	_, err = p.MarkTopicComplete(tr, "C")
	assert.NoError(t, err)

	stats := Aggregate(tr, streak.NewCalculator(nil), fixedNow)
	assert.Equal(t, 3, stats.CompletedTopics)
	assert.Equal(t, 3, stats.TotalTopics)
	assert.Equal(t, 100, stats.Progress)
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 1, stats.LongestStreak)
	assert.Equal(t, 2, stats.TotalDays)
}
