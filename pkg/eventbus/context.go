package eventbus

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/kursatkomurcu/distributed-systems-application/pkg/logger"
)

type (
	dispatchKey struct{}
	depthKey    struct{}
)

// DispatchID returns the id shared by a top level publish and every publish
// it cascades into.
func DispatchID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(dispatchKey{}).(string)
	return id, ok
}

// WithDispatchID makes the next publish on ctx use id instead of a fresh one.
// An empty id is ignored.
func WithDispatchID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, dispatchKey{}, id)
}

// LogDispatchID is a logger.ContextExtractor that adds the dispatch id.
func LogDispatchID(ctx context.Context) (slog.Attr, bool) {
	id, ok := DispatchID(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.DispatchID(id), true
}

// depth returns how many publishes are active on this call chain.
func depth(ctx context.Context) int {
	d, _ := ctx.Value(depthKey{}).(int)
	return d
}

func withDepth(ctx context.Context, d int) context.Context {
	return context.WithValue(ctx, depthKey{}, d)
}

// enter marks ctx as one publish deeper and makes sure it carries a dispatch id.
func enter(ctx context.Context) (context.Context, int) {
	if _, ok := DispatchID(ctx); !ok {
		ctx = context.WithValue(ctx, dispatchKey{}, uuid.NewString())
	}
	d := depth(ctx) + 1
	return withDepth(ctx, d), d
}
