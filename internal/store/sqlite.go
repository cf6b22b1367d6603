package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/nhle/journeys/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	inMemory := dbPath == ":memory:"
	if !inMemory {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// Pragmas in the DSN apply to every pooled connection.
	dsn := dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if inMemory {
		db.SetMaxOpenConns(1)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// SchemaVersion returns the highest applied migration version.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.GetContext(ctx, &v, "SELECT COALESCE(MAX(version), 0) FROM schema_version"); err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return v, nil
}

const journeyColumns = `
	id, title, description,
	current_streak, longest_streak, total_days, progress,
	completed_topics, total_topics,
	version, stats_updated_at, created_at, updated_at`

// CreateJourney inserts a new journey. Generates a UUID if ID is empty.
func (s *SQLiteStore) CreateJourney(
	ctx context.Context,
	journey model.Journey,
) (*model.Journey, error) {
	journey.Title = strings.TrimSpace(journey.Title)
	if journey.Title == "" {
		return nil, &model.ValidationError{Field: "title", Message: "must not be empty"}
	}
	if journey.ID == "" {
		journey.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	journey.CreatedAt = now
	journey.UpdatedAt = now
	journey.Version = 0
	journey.Stats = model.JourneyStats{}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO journeys (id, title, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		journey.ID, journey.Title, journey.Description,
		journey.CreatedAt, journey.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("creating journey: %w", err)
	}
	return &journey, nil
}

// GetJourney retrieves a single journey by ID.
func (s *SQLiteStore) GetJourney(ctx context.Context, id string) (*model.Journey, error) {
	row := s.db.QueryRowxContext(ctx,
		"SELECT"+journeyColumns+" FROM journeys WHERE id = ?", id)

	journey, err := scanJourney(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &model.NotFoundError{Kind: "journey", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("getting journey %s: %w", id, err)
	}
	return &journey, nil
}

// GetJourneys retrieves all journeys ordered by creation time.
func (s *SQLiteStore) GetJourneys(ctx context.Context) ([]model.Journey, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT"+journeyColumns+" FROM journeys ORDER BY created_at, title")
	if err != nil {
		return nil, fmt.Errorf("querying journeys: %w", err)
	}
	defer rows.Close()

	var journeys []model.Journey
	for rows.Next() {
		j, err := scanJourney(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning journey row: %w", err)
		}
		journeys = append(journeys, j)
	}
	return journeys, rows.Err()
}

// DeleteJourney removes a journey. Topics and tasks cascade.
func (s *SQLiteStore) DeleteJourney(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM journeys WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting journey %s: %w", id, err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &model.NotFoundError{Kind: "journey", ID: id}
	}
	return nil
}

// Apply persists a changeset and stats atomically.
func (s *SQLiteStore) Apply(
	ctx context.Context,
	journeyID string,
	expectedVersion int,
	changes model.Changeset,
	stats model.JourneyStats,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Claim the version first so a concurrent writer loses before any row
	// is touched.
	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, `
		UPDATE journeys SET
			current_streak = ?, longest_streak = ?, total_days = ?, progress = ?,
			completed_topics = ?, total_topics = ?,
			version = version + 1, stats_updated_at = ?, updated_at = ?
		WHERE id = ? AND version = ?`,
		stats.CurrentStreak, stats.LongestStreak, stats.TotalDays, stats.Progress,
		stats.CompletedTopics, stats.TotalTopics,
		now, now,
		journeyID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("updating journey %s stats: %w", journeyID, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		var exists int
		if err := tx.GetContext(ctx, &exists,
			"SELECT COUNT(*) FROM journeys WHERE id = ?", journeyID); err != nil {
			return fmt.Errorf("checking journey %s: %w", journeyID, err)
		}
		if exists == 0 {
			return &model.NotFoundError{Kind: "journey", ID: journeyID}
		}
		return ErrVersionConflict
	}

	for _, topic := range changes.SavedTopics {
		if err := upsertTopic(ctx, tx, topic); err != nil {
			return err
		}
	}
	for _, task := range changes.SavedTasks {
		if err := upsertTask(ctx, tx, task); err != nil {
			return err
		}
	}
	if err := deleteByIDs(ctx, tx, "tasks", changes.DeletedTaskIDs); err != nil {
		return err
	}
	if err := deleteByIDs(ctx, tx, "topics", changes.DeletedTopicIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing changeset for journey %s: %w", journeyID, err)
	}
	return nil
}

// deleteByIDs removes rows of table whose id is in ids.
func deleteByIDs(ctx context.Context, ext sqlx.ExtContext, table string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In("DELETE FROM "+table+" WHERE id IN (?)", ids)
	if err != nil {
		return fmt.Errorf("building delete for %s: %w", table, err)
	}
	if _, err := ext.ExecContext(ctx, ext.Rebind(query), args...); err != nil {
		return fmt.Errorf("deleting %d row(s) from %s: %w", len(ids), table, err)
	}
	return nil
}

// scanJourney scans a journey row selected with journeyColumns.
func scanJourney(row interface{ Scan(dest ...interface{}) error }) (model.Journey, error) {
	var j model.Journey
	err := row.Scan(
		&j.ID, &j.Title, &j.Description,
		&j.Stats.CurrentStreak, &j.Stats.LongestStreak, &j.Stats.TotalDays, &j.Stats.Progress,
		&j.Stats.CompletedTopics, &j.Stats.TotalTopics,
		&j.Version, &j.StatsUpdatedAt, &j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return model.Journey{}, err
	}
	return j, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// utcPtr normalizes an optional timestamp for storage.
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
