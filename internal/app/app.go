// Package app wires configuration, logging, storage and the task service
// together for the command line and the TUI.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tgienger/nextup/internal/config"
	"github.com/tgienger/nextup/internal/db"
	"github.com/tgienger/nextup/internal/modes"
	"github.com/tgienger/nextup/internal/service"
)

// App holds the long-lived dependencies of one process
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	DB     *db.DB
	Tasks  *service.TaskService

	logCloser io.Closer
}

// Options tune how the application starts
type Options struct {
	LogToStderr bool // log to stderr instead of the log file (CLI verbose mode)
}

// New opens the database, builds the service and seeds first-run data
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		path, err := db.DefaultPath(cfg.DataDir)
		if err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
		dbPath = path
	}
	if cfg.DataDir == "" {
		// an in-memory database still logs to the default data dir
		dataPath := dbPath
		if dbPath == db.MemoryPath {
			path, err := db.DefaultPath("")
			if err != nil {
				return nil, fmt.Errorf("resolve data dir: %w", err)
			}
			dataPath = path
		}
		cfg.DataDir = filepath.Dir(dataPath)
	}

	logger, closer, err := NewLogger(cfg, opts.LogToStderr)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	database, err := db.New(dbPath)
	if err != nil {
		closer.Close()
		return nil, fmt.Errorf("open database %s: %w", dbPath, err)
	}
	logger.Debug().Str("path", dbPath).Msg("opened database")

	tasks := service.New(logger.With().Str("component", "service").Logger(), database)
	if err := tasks.Bootstrap(ctx); err != nil {
		database.Close()
		closer.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		DB:        database,
		Tasks:     tasks,
		logCloser: closer,
	}, nil
}

// PomodoroDurations converts the configured minutes into timer durations
func (a *App) PomodoroDurations() modes.Durations {
	return PomodoroDurations(a.Config)
}

// Close releases the database and the log file
func (a *App) Close() error {
	a.Logger.Debug().Msg("shutting down")
	return errors.Join(a.DB.Close(), a.logCloser.Close())
}

// PomodoroDurations converts cfg's timer minutes into durations
func PomodoroDurations(cfg *config.Config) modes.Durations {
	p := cfg.Pomodoro
	return modes.Durations{
		Work:           time.Duration(p.WorkMinutes) * time.Minute,
		ShortBreak:     time.Duration(p.ShortBreakMinutes) * time.Minute,
		LongBreak:      time.Duration(p.LongBreakMinutes) * time.Minute,
		LongBreakEvery: p.LongBreakEvery,
	}
}
