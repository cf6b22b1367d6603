package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/journeys/internal/model"
)

const taskColumns = `
	id, journey_id, topic_id, name,
	completed, completed_at, created_at, updated_at`

// LoadTask retrieves a single task by ID.
func (s *SQLiteStore) LoadTask(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := s.db.GetContext(ctx, &task,
		"SELECT"+taskColumns+" FROM tasks WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &model.NotFoundError{Kind: "task", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return &task, nil
}

// LoadTasksOfTopic returns the tasks attached directly to topicID.
func (s *SQLiteStore) LoadTasksOfTopic(
	ctx context.Context,
	topicID string,
) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks,
		"SELECT"+taskColumns+` FROM tasks
		WHERE topic_id = ?
		ORDER BY created_at, id`, topicID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks of topic %s: %w", topicID, err)
	}
	return tasks, nil
}

// LoadAllTasks returns every task of a journey.
func (s *SQLiteStore) LoadAllTasks(
	ctx context.Context,
	journeyID string,
) ([]model.Task, error) {
	var tasks []model.Task
	err := s.db.SelectContext(ctx, &tasks,
		"SELECT"+taskColumns+` FROM tasks
		WHERE journey_id = ?
		ORDER BY created_at, id`, journeyID)
	if err != nil {
		return nil, fmt.Errorf("querying tasks of journey %s: %w", journeyID, err)
	}
	return tasks, nil
}

// SaveTask inserts or updates a single task outside of a changeset.
func (s *SQLiteStore) SaveTask(ctx context.Context, task model.Task) error {
	return upsertTask(ctx, s.db, task)
}

// DeleteTasks removes the given tasks.
func (s *SQLiteStore) DeleteTasks(ctx context.Context, ids []string) error {
	return deleteByIDs(ctx, s.db, "tasks", ids)
}

// upsertTask writes task, keeping topic_id and created_at of an existing row.
func upsertTask(ctx context.Context, ext sqlx.ExtContext, task model.Task) error {
	if strings.TrimSpace(task.Name) == "" {
		return &model.ValidationError{Field: "name", Message: "must not be empty"}
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}

	_, err := ext.ExecContext(ctx, `
		INSERT INTO tasks (
			id, journey_id, topic_id, name,
			completed, completed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			completed = excluded.completed,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at`,
		task.ID, task.JourneyID, task.TopicID, task.Name,
		boolToInt(task.Completed), utcPtr(task.CompletedAt),
		task.CreatedAt.UTC(), task.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving task %s: %w", task.ID, err)
	}
	return nil
}
