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

const topicColumns = `
	id, journey_id, parent_id, title, sort_order,
	completed, completed_at, created_at, updated_at`

// LoadTopic retrieves a single topic by ID.
func (s *SQLiteStore) LoadTopic(ctx context.Context, id string) (*model.Topic, error) {
	var topic model.Topic
	err := s.db.GetContext(ctx, &topic,
		"SELECT"+topicColumns+" FROM topics WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &model.NotFoundError{Kind: "topic", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("getting topic %s: %w", id, err)
	}
	return &topic, nil
}

// LoadChildTopics returns the direct children of parentID in display order.
func (s *SQLiteStore) LoadChildTopics(
	ctx context.Context,
	parentID string,
) ([]model.Topic, error) {
	var topics []model.Topic
	err := s.db.SelectContext(ctx, &topics,
		"SELECT"+topicColumns+` FROM topics
		WHERE parent_id = ?
		ORDER BY sort_order, LOWER(title), id`, parentID)
	if err != nil {
		return nil, fmt.Errorf("querying children of topic %s: %w", parentID, err)
	}
	return topics, nil
}

// LoadAllTopics returns every topic of a journey, parents before children.
func (s *SQLiteStore) LoadAllTopics(
	ctx context.Context,
	journeyID string,
) ([]model.Topic, error) {
	var topics []model.Topic
	err := s.db.SelectContext(ctx, &topics,
		"SELECT"+topicColumns+` FROM topics
		WHERE journey_id = ?
		ORDER BY created_at, sort_order, id`, journeyID)
	if err != nil {
		return nil, fmt.Errorf("querying topics of journey %s: %w", journeyID, err)
	}
	return topics, nil
}

// SaveTopic inserts or updates a single topic outside of a changeset.
func (s *SQLiteStore) SaveTopic(ctx context.Context, topic model.Topic) error {
	return upsertTopic(ctx, s.db, topic)
}

// DeleteTopics removes the given topics. Descendants cascade.
func (s *SQLiteStore) DeleteTopics(ctx context.Context, ids []string) error {
	return deleteByIDs(ctx, s.db, "topics", ids)
}

// upsertTopic writes topic, keeping parent_id and created_at of an existing row.
func upsertTopic(ctx context.Context, ext sqlx.ExtContext, topic model.Topic) error {
	if strings.TrimSpace(topic.Title) == "" {
		return &model.ValidationError{Field: "title", Message: "must not be empty"}
	}
	now := time.Now().UTC()
	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = now
	}
	if topic.UpdatedAt.IsZero() {
		topic.UpdatedAt = now
	}

	_, err := ext.ExecContext(ctx, `
		INSERT INTO topics (
			id, journey_id, parent_id, title, sort_order,
			completed, completed_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			sort_order = excluded.sort_order,
			completed = excluded.completed,
			completed_at = excluded.completed_at,
			updated_at = excluded.updated_at`,
		topic.ID, topic.JourneyID, topic.ParentID, topic.Title, topic.Order,
		boolToInt(topic.Completed), utcPtr(topic.CompletedAt),
		topic.CreatedAt.UTC(), topic.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving topic %s: %w", topic.ID, err)
	}
	return nil
}
