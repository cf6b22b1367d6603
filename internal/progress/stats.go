package progress

import (
	"time"

	"github.com/nhle/journeys/internal/model"
	"github.com/nhle/journeys/internal/streak"
	"github.com/nhle/journeys/internal/tree"
)

// Aggregate combines topic counts at every depth with the streak numbers
// computed over all tasks of the journey. It has no side effects.
func Aggregate(t *tree.Tree, calc streak.Calculator, now time.Time) model.JourneyStats {
	var stats model.JourneyStats

	for _, topic := range t.Topics() {
		stats.TotalTopics++
		if topic.Completed {
			stats.CompletedTopics++
		}
	}

	tasks := t.Tasks()
	entries := make([]streak.Entry, len(tasks))
	for i, tk := range tasks {
		entries[i] = streak.Entry{Completed: tk.Completed, CompletedAt: tk.CompletedAt}
	}

	res := calc.Calculate(entries, now)
	stats.CurrentStreak = res.CurrentStreak
	stats.LongestStreak = res.LongestStreak
	stats.TotalDays = res.TotalDays
	stats.Progress = res.Progress

	return stats
}
