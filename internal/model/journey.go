package model

import "time"

// JourneyStats is the denormalized progress summary of a journey. It is
// recomputed after every mutation and is the only thing written back onto
// the journey row.
type JourneyStats struct {
	CurrentStreak   int `json:"current_streak" db:"current_streak"`
	LongestStreak   int `json:"longest_streak" db:"longest_streak"`
	TotalDays       int `json:"total_days" db:"total_days"`
	Progress        int `json:"progress" db:"progress"`
	CompletedTopics int `json:"completed_topics" db:"completed_topics"`
	TotalTopics     int `json:"total_topics" db:"total_topics"`
}

// Journey is the top-level container of a topic tree.
type Journey struct {
	ID          string `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`

	// Stats is owned by the stats aggregator; callers never edit it directly.
	Stats JourneyStats `json:"stats"`

	// Version increments every time a changeset is applied. The store
	// rejects writes computed from an older version.
	Version int `json:"version" db:"version"`

	StatsUpdatedAt *time.Time `json:"stats_updated_at,omitempty" db:"stats_updated_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}
