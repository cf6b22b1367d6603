package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	def := defaultAppConfig()
	assert.Equal(t, def.Database.Path, cfg.Database.Path)
	assert.Equal(t, "UTC", cfg.Streak.Timezone)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "default", cfg.Display.Theme)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  path: /tmp/j.db
streak:
  timezone: Asia/Tokyo
log:
  level: debug
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/j.db", cfg.Database.Path)
	assert.Equal(t, "Asia/Tokyo", cfg.Streak.Timezone)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Tokyo", loc.String())
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("JOURNEYS_DATABASE_PATH", "/env/j.db")
	t.Setenv("JOURNEYS_LOG_FORMAT", "json")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/env/j.db", cfg.Database.Path)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfig_InvalidTimezone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("streak:\n  timezone: Mars/Olympus\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: [unclosed"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := defaultAppConfig()
	cfg.Database.Path = "/data/journeys.db"
	cfg.Streak.Timezone = "Europe/Berlin"
	cfg.Display.Theme = "plain"

	require.NoError(t, SaveConfig(path, cfg))

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Database.Path, got.Database.Path)
	assert.Equal(t, cfg.Streak.Timezone, got.Streak.Timezone)
	assert.Equal(t, cfg.Display.Theme, got.Display.Theme)
}

func TestLocation_EmptyIsUTC(t *testing.T) {
	cfg := &AppConfig{}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())
}
