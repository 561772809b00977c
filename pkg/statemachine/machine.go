package statemachine

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/kursatkomurcu/distributed-systems-application/pkg/logger"
)

// Machine is an event driven state machine with entry actions.
//
// The transition and action tables are fixed at construction. The current
// state is guarded by a mutex that is held only while a transition is looked
// up and applied; actions run after the lock is released so they may publish
// events that come back to the same machine.
type Machine[S, E Label] struct {
	name        string
	initial     S
	states      []S
	ordered     []Transition[S, E]
	transitions map[S][]Transition[S, E]
	actions     map[S][]Action
	logger      *slog.Logger

	mu      sync.Mutex
	current S
}

// New builds a machine from t. It fails fast on a missing initial state, an
// initial state outside the declared set, zero-value transition fields and
// nil actions. No action runs during construction.
func New[S, E Label](t Table[S, E], opts ...Option) (*Machine[S, E], error) {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	var zero S
	if t.Initial == zero {
		return nil, ErrEmptyInitialState
	}

	if t.States != nil {
		if len(t.States) == 0 {
			return nil, ErrEmptyStateSet
		}
		if !slices.Contains(t.States, t.Initial) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownInitialState, t.Initial)
		}
	}

	m := &Machine[S, E]{
		name:        o.name,
		initial:     t.Initial,
		current:     t.Initial,
		states:      slices.Clone(t.States),
		ordered:     make([]Transition[S, E], 0, len(t.Transitions)),
		transitions: make(map[S][]Transition[S, E]),
		actions:     make(map[S][]Action, len(t.Actions)),
		logger:      o.logger,
	}

	var zeroEvent E
	for i, tr := range t.Transitions {
		if tr.From == zero || tr.To == zero || tr.Event == zeroEvent {
			return nil, fmt.Errorf("%w: transition[%d] %q -(%q)-> %q", ErrInvalidTransition, i, tr.From, tr.Event, tr.To)
		}
		m.ordered = append(m.ordered, tr)
		m.transitions[tr.From] = append(m.transitions[tr.From], tr)
	}

	for state, actions := range t.Actions {
		for i, a := range actions {
			if a == nil {
				return nil, fmt.Errorf("%w: state %q action %d", ErrNilAction, state, i)
			}
		}
		if len(actions) > 0 {
			m.actions[state] = slices.Clone(actions)
		}
	}

	return m, nil
}

// MustNew is like New but panics on error.
func MustNew[S, E Label](t Table[S, E], opts ...Option) *Machine[S, E] {
	m, err := New(t, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to create state machine: %v", err))
	}
	return m
}

// HandleEvent applies the first transition out of the current state whose
// event matches, then runs the actions of the new state in order.
//
// An event with no matching transition is ignored and nil is returned.
// The first failing action stops the remaining ones; its error is returned
// as an *ActionError and the state change stays applied. Panics in actions
// are not recovered.
func (m *Machine[S, E]) HandleEvent(ctx context.Context, event E) error {
	m.mu.Lock()
	from := m.current
	tr, ok := m.match(from, event)
	if !ok {
		m.mu.Unlock()
		m.logger.DebugContext(ctx, "event ignored",
			logger.Machine(m.name),
			logger.State(string(from)),
			logger.Event(string(event)),
		)
		return nil
	}
	m.current = tr.To
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "state transition",
		logger.Machine(m.name),
		logger.Transition(string(from), string(tr.To)),
		logger.Event(string(event)),
	)

	return m.enter(ctx, tr.To)
}

func (m *Machine[S, E]) enter(ctx context.Context, state S) error {
	for i, action := range m.actions[state] {
		if err := action(ctx); err != nil {
			return NewActionError(m.name, string(state), i, err)
		}
	}
	return nil
}

func (m *Machine[S, E]) match(from S, event E) (Transition[S, E], bool) {
	for _, tr := range m.transitions[from] {
		if tr.Event == event {
			return tr, true
		}
	}
	return Transition[S, E]{}, false
}

// Current returns the current state.
func (m *Machine[S, E]) Current() S {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// CanHandle reports whether event would move the machine from its current state.
func (m *Machine[S, E]) CanHandle(event E) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.match(m.current, event)
	return ok
}

func (m *Machine[S, E]) Name() string {
	return m.name
}

func (m *Machine[S, E]) Initial() S {
	return m.initial
}

// States returns every known state, sorted: the declared set plus the
// states named by the transition and action tables.
func (m *Machine[S, E]) States() []S {
	seen := make(map[S]struct{}, len(m.states)+1)
	seen[m.initial] = struct{}{}
	for _, s := range m.states {
		seen[s] = struct{}{}
	}
	for _, tr := range m.ordered {
		seen[tr.From] = struct{}{}
		seen[tr.To] = struct{}{}
	}
	for s := range m.actions {
		seen[s] = struct{}{}
	}

	out := make([]S, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Transitions returns the transition table in construction order.
func (m *Machine[S, E]) Transitions() []Transition[S, E] {
	return slices.Clone(m.ordered)
}

// ActionCount returns how many actions run on entering state.
func (m *Machine[S, E]) ActionCount(state S) int {
	return len(m.actions[state])
}
