package model

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError reports a referenced journey, topic or task that does not exist.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// IncompleteChildrenError is returned when a topic cannot be completed
// because some of its direct tasks or subtopics are still open.
type IncompleteChildrenError struct {
	TopicID  string
	TaskIDs  []string
	TopicIDs []string
}

func (e *IncompleteChildrenError) Error() string {
	var parts []string
	if len(e.TaskIDs) > 0 {
		parts = append(parts, fmt.Sprintf("%d incomplete task(s): %s",
			len(e.TaskIDs), strings.Join(e.TaskIDs, ", ")))
	}
	if len(e.TopicIDs) > 0 {
		parts = append(parts, fmt.Sprintf("%d incomplete subtopic(s): %s",
			len(e.TopicIDs), strings.Join(e.TopicIDs, ", ")))
	}
	return fmt.Sprintf("topic %s has %s", e.TopicID, strings.Join(parts, "; "))
}

// CycleError reports a parent assignment that would make a topic its own ancestor.
type CycleError struct {
	TopicID  string
	ParentID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("parent %s of topic %s would create a cycle", e.ParentID, e.TopicID)
}

// ValidationError reports malformed input.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// IsNotFound reports whether err (or any error in its chain) is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsIncompleteChildren reports whether err is an IncompleteChildrenError.
func IsIncompleteChildren(err error) bool {
	var target *IncompleteChildrenError
	return errors.As(err, &target)
}

// IsCycle reports whether err is a CycleError.
func IsCycle(err error) bool {
	var target *CycleError
	return errors.As(err, &target)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
