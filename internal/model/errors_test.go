package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorHelpers_MatchWrapped(t *testing.T) {
	wrap := func(err error) error { return fmt.Errorf("doing thing: %w", err) }

	assert.True(t, IsNotFound(wrap(&NotFoundError{Kind: "topic", ID: "x"})))
	assert.True(t, IsIncompleteChildren(wrap(&IncompleteChildrenError{TopicID: "x"})))
	assert.True(t, IsCycle(wrap(&CycleError{TopicID: "a", ParentID: "b"})))
	assert.True(t, IsValidation(wrap(&ValidationError{Field: "order"})))

	assert.False(t, IsNotFound(wrap(&ValidationError{Field: "order"})))
	assert.False(t, IsValidation(nil))
}

func TestIncompleteChildrenError_Message(t *testing.T) {
	err := &IncompleteChildrenError{TopicID: "A", TaskIDs: []string{"t1", "t2"}, TopicIDs: []string{"B"}}
	assert.Equal(t,
		"topic A has 2 incomplete task(s): t1, t2; 1 incomplete subtopic(s): B",
		err.Error())
}
