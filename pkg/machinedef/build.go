package machinedef

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kursatkomurcu/distributed-systems-application/pkg/eventbus"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/logger"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/statemachine"
)

type (
	// StringMachine is the machine type definitions build.
	StringMachine = statemachine.Machine[statemachine.StringState, statemachine.StringEvent]

	// Funcs maps call action names to their implementation.
	Funcs map[string]statemachine.Action
)

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger handed to every machine and used by call
// actions that have no registered function. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// Set holds the machines of a built definition in definition order.
type Set struct {
	machines []*StringMachine
	byName   map[string]*StringMachine
}

// Machines returns the machines in definition order.
func (s *Set) Machines() []*StringMachine {
	out := make([]*StringMachine, len(s.machines))
	copy(out, s.machines)
	return out
}

// Get returns the machine named name.
func (s *Set) Get(name string) (*StringMachine, bool) {
	m, ok := s.byName[name]
	return m, ok
}

// Build creates every machine of the definition and applies its
// subscriptions to bus. Publish actions raise their event through pub, which
// may be the bus itself or a dispatcher in front of it. Call actions run the
// function registered under their name in funcs; unregistered names log
// "executing action" at Info level and succeed.
func (d *Definition) Build(pub eventbus.Publisher[statemachine.StringEvent], bus *eventbus.Bus[statemachine.StringEvent], funcs Funcs, opts ...Option) (*Set, error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}
	if bus == nil {
		return nil, ErrNilBus
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	o := &buildOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	set := &Set{byName: make(map[string]*StringMachine, len(d.Machines))}

	for _, def := range d.Machines {
		m, err := statemachine.New(def.table(pub, funcs, o.logger),
			statemachine.WithName(def.Name),
			statemachine.WithLogger(o.logger),
		)
		if err != nil {
			return nil, fmt.Errorf("machinedef: building machine %q: %w", def.Name, err)
		}
		set.machines = append(set.machines, m)
		set.byName[def.Name] = m
	}

	for _, sub := range d.Subscriptions {
		for _, name := range sub.Machines {
			if err := bus.Subscribe(statemachine.StringEvent(sub.Event), set.byName[name]); err != nil {
				return nil, fmt.Errorf("machinedef: subscribing %q to %q: %w", name, sub.Event, err)
			}
		}
	}

	return set, nil
}

func (m Machine) table(pub eventbus.Publisher[statemachine.StringEvent], funcs Funcs, log *slog.Logger) statemachine.Table[statemachine.StringState, statemachine.StringEvent] {
	t := statemachine.Table[statemachine.StringState, statemachine.StringEvent]{
		Initial:     statemachine.StringState(m.Initial),
		Transitions: make([]statemachine.Transition[statemachine.StringState, statemachine.StringEvent], 0, len(m.Transitions)),
		Actions:     make(map[statemachine.StringState][]statemachine.Action, len(m.Actions)),
	}

	if m.States != nil {
		t.States = make([]statemachine.StringState, len(m.States))
		for i, s := range m.States {
			t.States[i] = statemachine.StringState(s)
		}
	}

	for _, tr := range m.Transitions {
		t.Transitions = append(t.Transitions, statemachine.Transition[statemachine.StringState, statemachine.StringEvent]{
			From:  statemachine.StringState(tr.From),
			Event: statemachine.StringEvent(tr.Event),
			To:    statemachine.StringState(tr.To),
		})
	}

	for state, actions := range m.Actions {
		list := make([]statemachine.Action, 0, len(actions))
		for _, a := range actions {
			list = append(list, m.action(a, pub, funcs, log))
		}
		t.Actions[statemachine.StringState(state)] = list
	}

	return t
}

func (m Machine) action(a Action, pub eventbus.Publisher[statemachine.StringEvent], funcs Funcs, log *slog.Logger) statemachine.Action {
	if a.Publish != "" {
		event := statemachine.StringEvent(a.Publish)
		return func(ctx context.Context) error {
			return pub.Publish(ctx, event)
		}
	}

	if fn, ok := funcs[a.Call]; ok && fn != nil {
		return fn
	}

	name := a.Call
	return func(ctx context.Context) error {
		log.InfoContext(ctx, "executing action", logger.Machine(m.Name), slog.String("action", name))
		return nil
	}
}
