package model

// Changeset is the complete set of writes produced by one tree operation.
// It is computed in memory and must be persisted all-or-nothing.
type Changeset struct {
	// SavedTopics are inserted or updated. New topics appear after their parents.
	SavedTopics []Topic
	SavedTasks  []Task

	// DeletedTopicIDs is ordered deepest-first.
	DeletedTopicIDs []string
	DeletedTaskIDs  []string
}

// Empty reports whether the changeset carries no writes.
func (c Changeset) Empty() bool {
	return len(c.SavedTopics) == 0 && len(c.SavedTasks) == 0 &&
		len(c.DeletedTopicIDs) == 0 && len(c.DeletedTaskIDs) == 0
}
