package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kursatkomurcu/distributed-systems-application/pkg/logger"
)

// Label is the constraint for event names.
type Label interface {
	~string
}

// Handler receives published events. *statemachine.Machine implements it.
type Handler[E Label] interface {
	HandleEvent(ctx context.Context, event E) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[E Label] func(ctx context.Context, event E) error

func (f HandlerFunc[E]) HandleEvent(ctx context.Context, event E) error {
	return f(ctx, event)
}

// Publisher is what actions close over to raise further events. Both *Bus
// and *Dispatcher satisfy it.
type Publisher[E Label] interface {
	Publish(ctx context.Context, event E) error
}

var (
	_ Publisher[string] = (*Bus[string])(nil)
	_ Publisher[string] = (*Dispatcher[string])(nil)
)

// Bus delivers each published event to the handlers subscribed to it,
// synchronously and in subscription order.
type Bus[E Label] struct {
	subscribers map[E][]Handler[E]
	logger      *slog.Logger
	maxDepth    int
	mu          sync.RWMutex
}

// New returns an empty bus.
func New[E Label](opts ...Option) *Bus[E] {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	return &Bus[E]{
		subscribers: make(map[E][]Handler[E]),
		logger:      o.logger,
		maxDepth:    o.maxDepth,
	}
}

// Subscribe appends h to the handlers of event. Subscribing the same handler
// twice makes it run twice per publish. There is no unsubscribe.
func (b *Bus[E]) Subscribe(event E, h Handler[E]) error {
	if h == nil {
		return ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[event] = append(b.subscribers[event], h)
	return nil
}

// SubscribeFunc is Subscribe for a plain function.
func (b *Bus[E]) SubscribeFunc(event E, fn func(ctx context.Context, event E) error) error {
	if fn == nil {
		return ErrNilHandler
	}
	return b.Subscribe(event, HandlerFunc[E](fn))
}

// Subscribers returns the number of handlers subscribed to event.
func (b *Bus[E]) Subscribers(event E) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[event])
}

// Publish calls every handler subscribed to event, in subscription order, on
// the caller's goroutine. Events nobody subscribed to are dropped silently.
//
// A handler may publish again; the nested publish completes before the next
// handler of the outer one runs. The first handler error stops delivery and
// is returned as *HandlerError. Handler panics are not recovered.
func (b *Bus[E]) Publish(ctx context.Context, event E) error {
	ctx, d := enter(ctx)
	if b.maxDepth > 0 && d > b.maxDepth {
		return NewDepthError(string(event), d, b.maxDepth)
	}

	// Handlers subscribed while this publish runs are not part of it.
	b.mu.RLock()
	handlers := b.subscribers[event]
	b.mu.RUnlock()

	b.logger.DebugContext(ctx, "event published",
		logger.Event(string(event)),
		logger.Subscribers(len(handlers)),
		logger.Depth(d),
	)

	for _, h := range handlers {
		if err := h.HandleEvent(ctx, event); err != nil {
			return NewHandlerError(string(event), err)
		}
	}

	return nil
}
