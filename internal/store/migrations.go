package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS journeys (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL DEFAULT '',
	current_streak   INTEGER NOT NULL DEFAULT 0,
	longest_streak   INTEGER NOT NULL DEFAULT 0,
	total_days       INTEGER NOT NULL DEFAULT 0,
	progress         INTEGER NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
	completed_topics INTEGER NOT NULL DEFAULT 0,
	total_topics     INTEGER NOT NULL DEFAULT 0,
	version          INTEGER NOT NULL DEFAULT 0,
	stats_updated_at DATETIME,
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS topics (
	id           TEXT PRIMARY KEY,
	journey_id   TEXT NOT NULL REFERENCES journeys(id) ON DELETE CASCADE,
	parent_id    TEXT REFERENCES topics(id) ON DELETE CASCADE,
	title        TEXT NOT NULL,
	sort_order   INTEGER NOT NULL DEFAULT 0 CHECK(sort_order >= 0),
	completed    INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	completed_at DATETIME,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_topics_journey_id ON topics(journey_id);
CREATE INDEX IF NOT EXISTS idx_topics_parent_id ON topics(parent_id);

CREATE TABLE IF NOT EXISTS tasks (
	id           TEXT PRIMARY KEY,
	journey_id   TEXT NOT NULL REFERENCES journeys(id) ON DELETE CASCADE,
	topic_id     TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
	name         TEXT NOT NULL,
	completed    INTEGER NOT NULL DEFAULT 0 CHECK(completed IN (0, 1)),
	completed_at DATETIME,
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_journey_id ON tasks(journey_id);
CREATE INDEX IF NOT EXISTS idx_tasks_topic_id ON tasks(topic_id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_tasks_journey_completed
	ON tasks(journey_id, completed, completed_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
