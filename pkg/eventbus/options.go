package eventbus

import "log/slog"

// Option configures a Bus.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	maxDepth int
}

// WithLogger sets the logger for publish records. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMaxDepth limits how deeply publishes may nest through handlers that
// publish again. Zero, the default, means no limit.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxDepth = n
		}
	}
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*dispatcherOptions)

type dispatcherOptions struct {
	logger     *slog.Logger
	queueLimit int
}

// WithDispatcherLogger sets the dispatcher's logger. Nil is ignored.
func WithDispatcherLogger(l *slog.Logger) DispatcherOption {
	return func(o *dispatcherOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithQueueLimit caps the number of queued events. Publish returns
// ErrQueueFull when the cap is reached. Zero means unbounded.
func WithQueueLimit(n int) DispatcherOption {
	return func(o *dispatcherOptions) {
		if n >= 0 {
			o.queueLimit = n
		}
	}
}
