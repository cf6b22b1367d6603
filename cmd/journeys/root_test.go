package main

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/journeys/internal/model"
	"github.com/nhle/journeys/internal/store"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
	assert.Equal(t, slog.LevelInfo, parseLevel("loud"))
}

func TestNewLogger_Formats(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, model.LogConfig{Level: "info", Format: "json"}).Info("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"k":"v"`)

	buf.Reset()
	log := newLogger(&buf, model.LogConfig{Level: "warn", Format: "text"})
	log.Info("dropped")
	log.Warn("kept")
	assert.NotContains(t, buf.String(), "dropped")
	assert.Contains(t, buf.String(), "msg=kept")
}

func TestRootCommand_CreatesJourney(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "journeys.db")

	rootCmd.SetArgs([]string{
		"--config", filepath.Join(dir, "config.yaml"),
		"--db", db,
		"--log-level", "error",
		"journey", "create", "Learn Go",
	})
	require.NoError(t, rootCmd.Execute())
	assert.Nil(t, app.store)

	s, err := store.NewSQLiteStore(db)
	require.NoError(t, err)
	defer s.Close()

	journeys, err := s.GetJourneys(context.Background())
	require.NoError(t, err)
	require.Len(t, journeys, 1)
	assert.Equal(t, "Learn Go", journeys[0].Title)
}

func TestRootCommand_RejectsUnknownTheme(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	c := &model.AppConfig{
		Database: model.DatabaseConfig{Path: filepath.Join(dir, "j.db")},
		Streak:   model.StreakConfig{Timezone: "UTC"},
		Display:  model.DisplayConfig{Theme: "neon"},
	}
	require.NoError(t, model.SaveConfig(cfg, c))

	rootCmd.SetArgs([]string{"--config", cfg, "--db", "", "journey", "list"})
	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "neon")
}
