// Package streak derives streak and progress numbers from completion
// timestamps.
package streak

import (
	"math"
	"sort"
	"time"
)

// Entry is a task-like record. Only entries with Completed set and a
// non-nil CompletedAt count towards streaks.
type Entry struct {
	Completed   bool
	CompletedAt *time.Time
}

// Result holds the derived numbers.
type Result struct {
	CurrentStreak int
	LongestStreak int
	TotalDays     int
	Progress      int
}

// Calculator buckets completions into calendar days of a single location.
type Calculator struct {
	loc *time.Location
}

// NewCalculator returns a calculator for loc. A nil loc means UTC.
func NewCalculator(loc *time.Location) Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return Calculator{loc: loc}
}

// Location returns the zone used for day bucketing.
func (c Calculator) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// Calculate computes the streak and progress numbers as of now.
func (c Calculator) Calculate(entries []Entry, now time.Time) Result {
	var res Result

	completed := 0
	seen := make(map[time.Time]bool)
	for _, e := range entries {
		if !e.Completed {
			continue
		}
		completed++
		if e.CompletedAt == nil {
			continue
		}
		seen[c.day(*e.CompletedAt)] = true
	}

	if len(entries) > 0 {
		res.Progress = int(math.Round(float64(completed) / float64(len(entries)) * 100))
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	res.TotalDays = len(days)
	res.CurrentStreak = currentStreak(seen, c.day(now))
	res.LongestStreak = max(longestStreak(days), res.CurrentStreak)

	return res
}

// day truncates ts to its calendar date in the calculator's location. The
// result is midnight UTC of that date so day arithmetic is free of DST shifts.
func (c Calculator) day(ts time.Time) time.Time {
	y, m, d := ts.In(c.Location()).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// currentStreak counts consecutive days ending today, or yesterday when
// nothing was completed today yet. Anything older breaks the streak.
func currentStreak(seen map[time.Time]bool, today time.Time) int {
	cursor := today
	if !seen[cursor] {
		cursor = today.AddDate(0, 0, -1)
		if !seen[cursor] {
			return 0
		}
	}

	count := 0
	for seen[cursor] {
		count++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return count
}

// longestStreak scans ascending distinct days for the longest run of
// one-day gaps.
func longestStreak(days []time.Time) int {
	if len(days) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDate(0, 0, 1).Equal(days[i]) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}
