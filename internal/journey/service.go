// Package journey coordinates tree operations with persistence. Each
// mutation loads a fresh snapshot of the journey, runs the propagator
// against it, recomputes stats and writes everything in one transaction.
package journey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nhle/journeys/internal/model"
	"github.com/nhle/journeys/internal/progress"
	"github.com/nhle/journeys/internal/store"
	"github.com/nhle/journeys/internal/streak"
	"github.com/nhle/journeys/internal/tree"
)

// maxAttempts bounds how often a mutation is retried after losing an
// optimistic version check to another process.
const maxAttempts = 3

// Service is the entry point used by the CLI and the terminal UI.
type Service struct {
	store store.Store
	calc  streak.Calculator
	prop  *progress.Propagator
	now   func() time.Time
	log   *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the wall clock. The same clock stamps completedAt
// and decides "today" for streaks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a Service backed by st.
func NewService(st store.Store, calc streak.Calculator, opts ...Option) *Service {
	s := &Service{
		store: st,
		calc:  calc,
		now:   func() time.Time { return time.Now().UTC() },
		log:   slog.Default(),
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.prop = progress.NewPropagator(progress.WithClock(s.now))
	return s
}

// === Journeys ===

// CreateJourney creates an empty journey.
func (s *Service) CreateJourney(ctx context.Context, title, description string) (*model.Journey, error) {
	j, err := s.store.CreateJourney(ctx, model.Journey{
		Title:       title,
		Description: strings.TrimSpace(description),
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("journey created", "journey_id", j.ID, "title", j.Title)
	return j, nil
}

// GetJourney returns a journey with its last persisted stats.
func (s *Service) GetJourney(ctx context.Context, id string) (*model.Journey, error) {
	return s.store.GetJourney(ctx, id)
}

// ListJourneys returns all journeys.
func (s *Service) ListJourneys(ctx context.Context) ([]model.Journey, error) {
	return s.store.GetJourneys(ctx)
}

// DeleteJourney removes a journey together with its topics and tasks.
func (s *Service) DeleteJourney(ctx context.Context, id string) error {
	unlock := s.lock(id)
	defer unlock()

	if err := s.store.DeleteJourney(ctx, id); err != nil {
		return err
	}
	s.log.Info("journey deleted", "journey_id", id)
	return nil
}

// === Reads ===

// Snapshot loads the journey's full topic tree. The tree is a private
// copy; mutating it does not affect storage.
func (s *Service) Snapshot(ctx context.Context, journeyID string) (*tree.Tree, error) {
	_, t, err := s.load(ctx, journeyID)
	return t, err
}

// TopicDetail returns a topic together with its direct children and tasks.
func (s *Service) TopicDetail(ctx context.Context, topicID string) (*model.Topic, []model.Topic, []model.Task, error) {
	topic, err := s.store.LoadTopic(ctx, topicID)
	if err != nil {
		return nil, nil, nil, err
	}
	children, err := s.store.LoadChildTopics(ctx, topicID)
	if err != nil {
		return nil, nil, nil, err
	}
	tasks, err := s.store.LoadTasksOfTopic(ctx, topicID)
	if err != nil {
		return nil, nil, nil, err
	}
	return topic, children, tasks, nil
}

// === Mutations ===

// MarkTopicComplete completes a topic whose direct children are all
// complete, auto-completing ancestors that become satisfied.
func (s *Service) MarkTopicComplete(ctx context.Context, topicID string) (progress.CompleteResult, error) {
	var res progress.CompleteResult
	err := s.mutateTopic(ctx, "complete topic", topicID, func(t *tree.Tree) (model.Changeset, error) {
		var err error
		res, err = s.prop.MarkTopicComplete(t, topicID)
		return res.Changes, err
	})
	return res, err
}

// MarkTopicIncomplete reopens a topic, its whole subtree and every
// completed ancestor.
func (s *Service) MarkTopicIncomplete(ctx context.Context, topicID string) (progress.IncompleteResult, error) {
	var res progress.IncompleteResult
	err := s.mutateTopic(ctx, "reopen topic", topicID, func(t *tree.Tree) (model.Changeset, error) {
		var err error
		res, err = s.prop.MarkTopicIncomplete(t, topicID)
		return res.Changes, err
	})
	return res, err
}

// AddTopic adds a topic under parentID, or at the root when parentID is nil.
func (s *Service) AddTopic(ctx context.Context, journeyID string, parentID *string, title string) (progress.AddTopicResult, error) {
	var res progress.AddTopicResult
	err := s.mutate(ctx, "add topic", journeyID, func(t *tree.Tree) (model.Changeset, error) {
		var err error
		res, err = s.prop.AddTopic(t, parentID, title)
		return res.Changes, err
	})
	return res, err
}

// AddTask attaches a new incomplete task to a topic.
func (s *Service) AddTask(ctx context.Context, topicID, name string) (progress.AddTaskResult, error) {
	var res progress.AddTaskResult
	err := s.mutateTopic(ctx, "add task", topicID, func(t *tree.Tree) (model.Changeset, error) {
		var err error
		res, err = s.prop.AddTask(t, topicID, name)
		return res.Changes, err
	})
	return res, err
}

// SetTaskCompleted completes or reopens a single task.
func (s *Service) SetTaskCompleted(ctx context.Context, taskID string, done bool) (progress.TaskResult, error) {
	var res progress.TaskResult
	err := s.mutateTask(ctx, "set task completed", taskID, func(t *tree.Tree) (model.Changeset, error) {
		var err error
		res, err = s.prop.SetTaskCompleted(t, taskID, done)
		return res.Changes, err
	})
	return res, err
}

// DeleteTopic removes a topic with its whole subtree.
func (s *Service) DeleteTopic(ctx context.Context, topicID string) (progress.DeleteResult, error) {
	var res progress.DeleteResult
	err := s.mutateTopic(ctx, "delete topic", topicID, func(t *tree.Tree) (model.Changeset, error) {
		var err error
		res, err = s.prop.DeleteTopic(t, topicID)
		return res.Changes, err
	})
	return res, err
}

// DeleteTask removes a single task.
func (s *Service) DeleteTask(ctx context.Context, taskID string) (progress.DeleteResult, error) {
	var res progress.DeleteResult
	err := s.mutateTask(ctx, "delete task", taskID, func(t *tree.Tree) (model.Changeset, error) {
		var err error
		res, err = s.prop.DeleteTask(t, taskID)
		return res.Changes, err
	})
	return res, err
}

// RenameTopic changes a topic's title.
func (s *Service) RenameTopic(ctx context.Context, topicID, title string) (progress.TopicResult, error) {
	var res progress.TopicResult
	err := s.mutateTopic(ctx, "rename topic", topicID, func(t *tree.Tree) (model.Changeset, error) {
		var err error
		res, err = s.prop.RenameTopic(t, topicID, title)
		return res.Changes, err
	})
	return res, err
}

// ReorderTopic sets a topic's position among its siblings.
func (s *Service) ReorderTopic(ctx context.Context, topicID string, order int) (progress.TopicResult, error) {
	var res progress.TopicResult
	err := s.mutateTopic(ctx, "reorder topic", topicID, func(t *tree.Tree) (model.Changeset, error) {
		var err error
		res, err = s.prop.ReorderTopic(t, topicID, order)
		return res.Changes, err
	})
	return res, err
}

// RecomputeStats recalculates and persists a journey's stats without
// touching its topics or tasks.
func (s *Service) RecomputeStats(ctx context.Context, journeyID string) (model.JourneyStats, error) {
	var stats model.JourneyStats
	err := s.mutate(ctx, "recompute stats", journeyID, func(t *tree.Tree) (model.Changeset, error) {
		stats = progress.Aggregate(t, s.calc, s.now())
		return model.Changeset{}, nil
	})
	return stats, err
}

// === Internals ===

// lock serializes mutations of one journey within this process.
func (s *Service) lock(journeyID string) func() {
	s.mu.Lock()
	m, ok := s.locks[journeyID]
	if !ok {
		m = &sync.Mutex{}
		s.locks[journeyID] = m
	}
	s.mu.Unlock()

	m.Lock()
	return m.Unlock
}

// load reads the journey row and builds its tree.
func (s *Service) load(ctx context.Context, journeyID string) (*model.Journey, *tree.Tree, error) {
	j, err := s.store.GetJourney(ctx, journeyID)
	if err != nil {
		return nil, nil, err
	}
	topics, err := s.store.LoadAllTopics(ctx, journeyID)
	if err != nil {
		return nil, nil, err
	}
	tasks, err := s.store.LoadAllTasks(ctx, journeyID)
	if err != nil {
		return nil, nil, err
	}
	t, err := tree.New(journeyID, topics, tasks)
	if err != nil {
		return nil, nil, fmt.Errorf("building tree for journey %s: %w", journeyID, err)
	}
	return j, t, nil
}

// mutateTopic resolves the journey owning topicID and runs fn against it.
func (s *Service) mutateTopic(
	ctx context.Context,
	op, topicID string,
	fn func(*tree.Tree) (model.Changeset, error),
) error {
	topic, err := s.store.LoadTopic(ctx, topicID)
	if err != nil {
		return err
	}
	return s.mutate(ctx, op, topic.JourneyID, fn)
}

// mutateTask resolves the journey owning taskID and runs fn against it.
func (s *Service) mutateTask(
	ctx context.Context,
	op, taskID string,
	fn func(*tree.Tree) (model.Changeset, error),
) error {
	task, err := s.store.LoadTask(ctx, taskID)
	if err != nil {
		return err
	}
	return s.mutate(ctx, op, task.JourneyID, fn)
}

// mutate runs fn against a fresh snapshot and applies its changeset
// together with recomputed stats. A version conflict restarts from a new
// snapshot; fn must therefore be safe to call more than once.
func (s *Service) mutate(
	ctx context.Context,
	op, journeyID string,
	fn func(*tree.Tree) (model.Changeset, error),
) error {
	unlock := s.lock(journeyID)
	defer unlock()

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}

		var j *model.Journey
		var t *tree.Tree
		j, t, err = s.load(ctx, journeyID)
		if err != nil {
			return err
		}

		var changes model.Changeset
		changes, err = fn(t)
		if err != nil {
			return err
		}

		stats := progress.Aggregate(t, s.calc, s.now())
		err = s.store.Apply(ctx, journeyID, j.Version, changes, stats)
		if err == nil {
			s.log.Debug("mutation applied",
				"op", op,
				"journey_id", journeyID,
				"version", j.Version+1,
				"saved_topics", len(changes.SavedTopics),
				"saved_tasks", len(changes.SavedTasks),
				"deleted_topics", len(changes.DeletedTopicIDs),
				"deleted_tasks", len(changes.DeletedTaskIDs),
				"progress", stats.Progress,
			)
			return nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Warn("journey changed concurrently, retrying",
			"op", op, "journey_id", journeyID, "attempt", attempt)
	}
	return fmt.Errorf("%s after %d attempts: %w", op, maxAttempts, err)
}
