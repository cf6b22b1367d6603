package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds storage settings.
type DatabaseConfig struct {
	// Path is the SQLite database file. ":memory:" is accepted for testing.
	Path string `mapstructure:"path" yaml:"path"`
}

// StreakConfig holds settings for the streak calculator.
type StreakConfig struct {
	// Timezone is the IANA zone used to bucket completions into calendar
	// days (e.g., "UTC", "Europe/Berlin", "Local").
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`

	// File receives log output while the terminal UI owns the screen.
	File string `mapstructure:"file" yaml:"file"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Streak   StreakConfig   `mapstructure:"streak" yaml:"streak"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
}

// configDir returns ~/.config/journeys, falling back to the working directory.
func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "journeys")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/journeys/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Database: DatabaseConfig{Path: filepath.Join(configDir(), "journeys.db")},
		Streak:   StreakConfig{Timezone: "UTC"},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
			File:   filepath.Join(configDir(), "journeys.log"),
		},
		Display: DisplayConfig{Theme: "default"},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file yields the defaults. Any key can be overridden from the
// environment with the JOURNEYS_ prefix (e.g., JOURNEYS_DATABASE_PATH).
func LoadConfig(path string) (*AppConfig, error) {
	def := defaultAppConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("JOURNEYS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("database.path", def.Database.Path)
	v.SetDefault("streak.timezone", def.Streak.Timezone)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("display.theme", def.Display.Theme)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Location resolves the configured streak time zone.
func (c *AppConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(c.Streak.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading streak timezone %q: %w", name, err)
	}
	return loc, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("database", cfg.Database)
	v.Set("streak", cfg.Streak)
	v.Set("log", cfg.Log)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
