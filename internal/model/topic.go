package model

import "time"

// Topic is a node in a journey's checklist tree. It may have child topics
// and tasks. ParentID is fixed at creation.
type Topic struct {
	ID          string     `json:"id" db:"id"`
	JourneyID   string     `json:"journey_id" db:"journey_id"`
	ParentID    *string    `json:"parent_id,omitempty" db:"parent_id"`
	Title       string     `json:"title" db:"title"`
	Order       int        `json:"order" db:"sort_order"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// IsRoot reports whether the topic has no parent.
func (t Topic) IsRoot() bool { return t.ParentID == nil }

// ParentKey returns the parent ID, or "" for a root topic.
func (t Topic) ParentKey() string {
	if t.ParentID == nil {
		return ""
	}
	return *t.ParentID
}
