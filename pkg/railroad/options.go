package railroad

import (
	"context"
	"log/slog"

	"github.com/kursatkomurcu/distributed-systems-application/pkg/logger"
)

// Signal drives the physical devices. It runs as the entry action of the
// gate and light states.
type Signal func(ctx context.Context, cmd Command) error

// Option configures a Crossing.
type Option func(*options)

type options struct {
	logger *slog.Logger
	signal Signal
}

// WithLogger sets the logger for the machines and the default signal. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSignal replaces the default signal, which only logs the command.
func WithSignal(fn Signal) Option {
	return func(o *options) {
		if fn != nil {
			o.signal = fn
		}
	}
}

// LogSignal returns a Signal that logs each command at Info level.
func LogSignal(l *slog.Logger) Signal {
	return func(ctx context.Context, cmd Command) error {
		l.InfoContext(ctx, "executing action", logger.Component("crossing"), slog.String("action", string(cmd)))
		return nil
	}
}
