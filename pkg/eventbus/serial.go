package eventbus

import (
	"context"
	"sync"
)

var _ Publisher[string] = (*Serial[string])(nil)

// Serial lets many goroutines publish on a synchronous Bus one cascade at a
// time: a top level publish holds the lock until every handler it reaches has
// returned. Publishes made from inside a cascade, recognised by their
// context, pass straight through so handlers may publish via Serial too.
type Serial[E Label] struct {
	mu  sync.Mutex
	pub Publisher[E]
}

// NewSerial wraps pub.
func NewSerial[E Label](pub Publisher[E]) *Serial[E] {
	return &Serial[E]{pub: pub}
}

// Publish waits for any running cascade to finish, then publishes event.
func (s *Serial[E]) Publish(ctx context.Context, event E) error {
	if depth(ctx) > 0 {
		return s.pub.Publish(ctx, event)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pub.Publish(ctx, event)
}
