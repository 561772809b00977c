package statemachine

import "log/slog"

// Option configures a machine during construction.
type Option func(*options)

type options struct {
	name   string
	logger *slog.Logger
}

// WithName names the machine in logs, errors and graph output.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger used for transition records. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
