package store

import (
	"context"
	"errors"

	"github.com/nhle/journeys/internal/model"
)

// ErrVersionConflict is returned by Apply when the journey changed since
// the caller loaded its snapshot.
var ErrVersionConflict = errors.New("journey was modified concurrently")

// Store defines the persistence interface for journeys, topics and tasks.
type Store interface {
	// === Journeys ===

	CreateJourney(ctx context.Context, journey model.Journey) (*model.Journey, error)
	GetJourney(ctx context.Context, id string) (*model.Journey, error)
	GetJourneys(ctx context.Context) ([]model.Journey, error)
	DeleteJourney(ctx context.Context, id string) error

	// === Topics ===

	LoadTopic(ctx context.Context, id string) (*model.Topic, error)
	LoadChildTopics(ctx context.Context, parentID string) ([]model.Topic, error)
	LoadAllTopics(ctx context.Context, journeyID string) ([]model.Topic, error)
	SaveTopic(ctx context.Context, topic model.Topic) error
	DeleteTopics(ctx context.Context, ids []string) error

	// === Tasks ===

	LoadTask(ctx context.Context, id string) (*model.Task, error)
	LoadTasksOfTopic(ctx context.Context, topicID string) ([]model.Task, error)
	LoadAllTasks(ctx context.Context, journeyID string) ([]model.Task, error)
	SaveTask(ctx context.Context, task model.Task) error
	DeleteTasks(ctx context.Context, ids []string) error

	// === Atomic writes ===

	// Apply persists a changeset and the recomputed stats in one
	// transaction. It fails with ErrVersionConflict when the journey's
	// version no longer equals expectedVersion, writing nothing.
	Apply(
		ctx context.Context,
		journeyID string,
		expectedVersion int,
		changes model.Changeset,
		stats model.JourneyStats,
	) error
}
