package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/journeys/internal/journey"
	"github.com/nhle/journeys/internal/model"
	"github.com/nhle/journeys/internal/store"
	"github.com/nhle/journeys/internal/streak"
	"github.com/nhle/journeys/internal/theme"
)

var (
	configPath string
	dbPath     string
	logLevel   string
)

// env holds what every command needs once the root pre-run has finished.
type env struct {
	cfg     *model.AppConfig
	store   *store.SQLiteStore
	svc     *journey.Service
	log     *slog.Logger
	logFile io.Closer
}

var app env

var rootCmd = &cobra.Command{
	Use:   "journeys",
	Short: "Track learning journeys as trees of topics and tasks",
	Long: `Journeys tracks what you are learning as a tree of topics, each with
its own tasks. A topic can only be completed once all its tasks and
subtopics are done; finishing the last child completes the parent.

Completing tasks on consecutive days builds a streak.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return teardown()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorLine(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", model.DefaultConfigPath(), "config file")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database file (overrides database.path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")

	rootCmd.AddCommand(journeyCmd)
	rootCmd.AddCommand(topicCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads config, installs the logger and opens the store.
func setup(cmd *cobra.Command, args []string) error {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	app.cfg = cfg

	if err := theme.Use(cfg.Display.Theme); err != nil {
		return err
	}

	// The config commands only touch the file.
	if cmd.Parent() == configCmd {
		app.log = slog.Default()
		return nil
	}

	var out io.Writer = os.Stderr
	if cmd == tuiCmd {
		f, err := openLogFile(cfg.Log.File)
		if err != nil {
			return err
		}
		out = f
		app.logFile = f
	}
	app.log = newLogger(out, cfg.Log)
	slog.SetDefault(app.log)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	s, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database %s: %w", cfg.Database.Path, err)
	}
	app.store = s
	app.svc = journey.NewService(s, streak.NewCalculator(loc), journey.WithLogger(app.log))

	app.log.Debug("store opened", "path", cfg.Database.Path, "timezone", loc.String())
	return nil
}

func teardown() error {
	var err error
	if app.store != nil {
		err = app.store.Close()
		app.store = nil
	}
	if app.logFile != nil {
		app.logFile.Close()
		app.logFile = nil
	}
	return err
}

// newLogger builds a text or JSON slog logger at the configured level.
func newLogger(w io.Writer, cfg model.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}
	return f, nil
}
