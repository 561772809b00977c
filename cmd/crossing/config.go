package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kursatkomurcu/distributed-systems-application/pkg/eventbus"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/httpserver"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/logger"
)

const (
	modeSync   = "sync"
	modeQueued = "queued"
)

// Config is read from CROSSING_* environment variables and an optional .env.
type Config struct {
	Env       string `env:"CROSSING_ENV" envDefault:"development"`
	Service   string `env:"CROSSING_SERVICE" envDefault:"crossing"`
	LogLevel  string `env:"CROSSING_LOG_LEVEL"`
	LogFormat string `env:"CROSSING_LOG_FORMAT"`

	// Mode selects direct publishing (sync) or a dispatcher queue (queued).
	Mode       string `env:"CROSSING_MODE" envDefault:"sync"`
	MaxDepth   int    `env:"CROSSING_MAX_DEPTH" envDefault:"64"`
	QueueLimit int    `env:"CROSSING_QUEUE_LIMIT" envDefault:"1024"`

	// Definition is a machinedef YAML file. Empty uses the built-in crossing.
	Definition string   `env:"CROSSING_DEFINITION"`
	Events     []string `env:"CROSSING_EVENTS" envSeparator:"," envDefault:"seen,¬seen"`

	HTTP httpserver.Config
}

func (c Config) validate() error {
	if c.Mode != modeSync && c.Mode != modeQueued {
		return fmt.Errorf("CROSSING_MODE must be %q or %q, got %q", modeSync, modeQueued, c.Mode)
	}
	if c.MaxDepth < 0 || c.QueueLimit < 0 {
		return fmt.Errorf("CROSSING_MAX_DEPTH and CROSSING_QUEUE_LIMIT must not be negative")
	}
	return nil
}

func newLogger(c Config) (*slog.Logger, error) {
	opts := []logger.Option{
		logger.WithEnvironment(c.Env, c.Service),
		logger.WithOutput(os.Stderr),
		logger.WithContextExtractors(eventbus.LogDispatchID),
	}

	if c.LogLevel != "" {
		level, err := logger.ParseLevel(c.LogLevel)
		if err != nil {
			return nil, err
		}
		opts = append(opts, logger.WithLevel(level))
	}

	switch logger.Format(c.LogFormat) {
	case "":
	case logger.FormatJSON, logger.FormatText:
		opts = append(opts, logger.WithFormat(logger.Format(c.LogFormat)))
	default:
		return nil, fmt.Errorf("CROSSING_LOG_FORMAT must be %q or %q, got %q", logger.FormatJSON, logger.FormatText, c.LogFormat)
	}

	return logger.New(opts...), nil
}
