package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/tgienger/nextup/internal/config"
)

// NewLogger builds the application logger. The TUI owns stdout, so output
// goes to the configured log file unless toStderr is set. The returned
// closer releases the file.
func NewLogger(cfg *config.Config, toStderr bool) (zerolog.Logger, io.Closer, error) {
	zerolog.TimestampFieldName = "timestamp"

	level, err := logLevel(cfg)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var w io.Writer
	var closer io.Closer = nopCloser{}
	if toStderr {
		w = os.Stderr
	} else {
		path := cfg.Log.File
		if path == "" {
			path = filepath.Join(cfg.DataDir, "nextup.log")
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return zerolog.Nop(), nopCloser{}, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, err
		}
		w, closer = f, f
	}

	if cfg.Env == config.EnvLocal {
		consoleWriter := zerolog.NewConsoleWriter()
		consoleWriter.TimeFormat = time.DateTime
		consoleWriter.Out = w
		consoleWriter.NoColor = !toStderr
		w = consoleWriter
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Int("pid", os.Getpid()).
		Logger()

	logger.Debug().Str("env", cfg.Env).Msg("initialized application logger")
	return logger, closer, nil
}

func logLevel(cfg *config.Config) (zerolog.Level, error) {
	if cfg.Log.Level != "" {
		level, err := zerolog.ParseLevel(cfg.Log.Level)
		if err != nil {
			return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
		}
		return level, nil
	}

	switch cfg.Env {
	case config.EnvDev:
		return zerolog.DebugLevel, nil
	case config.EnvProd:
		return zerolog.InfoLevel, nil
	case config.EnvLocal:
		return zerolog.TraceLevel, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown env: %s", cfg.Env)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
