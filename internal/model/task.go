package model

import "time"

// Task is a leaf unit of work attached to exactly one topic.
type Task struct {
	ID          string     `json:"id" db:"id"`
	JourneyID   string     `json:"journey_id" db:"journey_id"`
	TopicID     string     `json:"topic_id" db:"topic_id"`
	Name        string     `json:"name" db:"name"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
