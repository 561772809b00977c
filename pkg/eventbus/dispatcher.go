package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kursatkomurcu/distributed-systems-application/pkg/logger"
)

type queued[E Label] struct {
	ctx   context.Context
	event E
}

// Dispatcher serialises publishing through a FIFO queue drained by a single
// goroutine (Run). Handlers that publish through the dispatcher enqueue their
// events instead of recursing, so cascades run breadth first with a constant
// stack depth and every handler runs on the same goroutine. Subscriber order
// for each individual event is the bus's order.
type Dispatcher[E Label] struct {
	bus    *Bus[E]
	logger *slog.Logger
	limit  int

	mu      sync.Mutex
	queue   []queued[E]
	pending int           // queued plus in flight
	wake    chan struct{} // capacity 1
	idle    chan struct{} // closed whenever pending drops to zero
	done    chan struct{} // closed when Run returns
	running bool
	closed  bool
	err     error
}

// NewDispatcher returns a dispatcher delivering through bus. Nothing is
// delivered until Run is called.
func NewDispatcher[E Label](bus *Bus[E], opts ...DispatcherOption) *Dispatcher[E] {
	o := &dispatcherOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	idle := make(chan struct{})
	close(idle)

	return &Dispatcher[E]{
		bus:    bus,
		logger: o.logger,
		limit:  o.queueLimit,
		wake:   make(chan struct{}, 1),
		idle:   idle,
		done:   make(chan struct{}),
	}
}

// Bus returns the underlying bus, for subscribing.
func (d *Dispatcher[E]) Bus() *Bus[E] {
	return d.bus
}

// Publish queues event and returns without waiting for delivery. Only the
// values of ctx are kept; its cancellation does not affect delivery.
func (d *Dispatcher[E]) Publish(ctx context.Context, event E) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return ErrDispatcherClosed
	}
	if d.limit > 0 && len(d.queue) >= d.limit {
		return ErrQueueFull
	}

	if d.pending == 0 {
		d.idle = make(chan struct{})
	}
	d.pending++
	d.queue = append(d.queue, queued[E]{ctx: context.WithoutCancel(ctx), event: event})

	select {
	case d.wake <- struct{}{}:
	default:
	}

	return nil
}

// Done is closed once Run has returned.
func (d *Dispatcher[E]) Done() <-chan struct{} {
	return d.done
}

// Len returns the number of events queued or being delivered.
func (d *Dispatcher[E]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Run delivers queued events until ctx is cancelled or a handler fails.
// Cancellation is checked between events and yields a nil error; a handler
// failure is logged and returned. A dispatcher runs at most once.
func (d *Dispatcher[E]) Run(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return ErrDispatcherClosed
	}
	if d.running {
		d.mu.Unlock()
		return ErrDispatcherRunning
	}
	d.running = true
	d.mu.Unlock()

	d.logger.InfoContext(ctx, "dispatcher started", logger.Component("dispatcher"))

	err := d.loop(ctx)

	d.mu.Lock()
	d.closed = true
	d.err = err
	d.queue = nil
	close(d.done)
	d.mu.Unlock()

	if err != nil {
		d.logger.ErrorContext(ctx, "dispatcher stopped", logger.Component("dispatcher"), logger.Error(err))
		return err
	}

	d.logger.InfoContext(ctx, "dispatcher stopped", logger.Component("dispatcher"))
	return nil
}

func (d *Dispatcher[E]) loop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		item, ok := d.next()
		if !ok {
			select {
			case <-ctx.Done():
				return nil
			case <-d.wake:
				continue
			}
		}

		// Each queued event starts a fresh call chain.
		if err := d.bus.Publish(withDepth(item.ctx, 0), item.event); err != nil {
			return err
		}

		d.finish()
	}
}

func (d *Dispatcher[E]) next() (queued[E], bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.queue) == 0 {
		return queued[E]{}, false
	}

	item := d.queue[0]
	d.queue[0] = queued[E]{}
	d.queue = d.queue[1:]
	return item, true
}

func (d *Dispatcher[E]) finish() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending--
	if d.pending == 0 {
		close(d.idle)
	}
}

// Drain blocks until every queued event, including the events their handlers
// publish, has been delivered. If Run stops first, Drain returns the error
// Run stopped with, or ErrDispatcherClosed.
func (d *Dispatcher[E]) Drain(ctx context.Context) error {
	d.mu.Lock()
	idle, done := d.idle, d.done
	d.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	if d.pending == 0 {
		return nil
	}
	return ErrDispatcherClosed
}
