package statemachine

// Builder assembles a Table step by step.
//
//	m, err := statemachine.NewBuilder[GateState, Event](Up).
//	    From(Up).On(Approaching).To(Down).
//	    From(Down).On(Leaving).To(Up).
//	    Enter(Down, lower).
//	    Build(statemachine.WithName("gate"))
type Builder[S, E Label] struct {
	table        Table[S, E]
	currentFrom  S
	currentEvent E
}

// NewBuilder starts a table with the given initial state.
func NewBuilder[S, E Label](initial S) *Builder[S, E] {
	return &Builder[S, E]{
		table: Table[S, E]{
			Initial: initial,
			Actions: make(map[S][]Action),
		},
	}
}

// States declares the state set.
func (b *Builder[S, E]) States(states ...S) *Builder[S, E] {
	b.table.States = append(b.table.States, states...)
	return b
}

// From sets the source state for the next transition.
func (b *Builder[S, E]) From(state S) *Builder[S, E] {
	b.currentFrom = state
	var zero E
	b.currentEvent = zero
	return b
}

// On sets the triggering event for the next transition.
func (b *Builder[S, E]) On(event E) *Builder[S, E] {
	b.currentEvent = event
	return b
}

// To completes the pending transition. Source and event are kept, so several
// To calls after one From/On register competing transitions in order.
func (b *Builder[S, E]) To(state S) *Builder[S, E] {
	b.table.Transitions = append(b.table.Transitions, Transition[S, E]{
		From:  b.currentFrom,
		Event: b.currentEvent,
		To:    state,
	})
	return b
}

// Transition adds a complete transition in one call.
func (b *Builder[S, E]) Transition(from S, event E, to S) *Builder[S, E] {
	b.table.Transitions = append(b.table.Transitions, Transition[S, E]{From: from, Event: event, To: to})
	return b
}

// Enter appends actions run on entering state.
func (b *Builder[S, E]) Enter(state S, actions ...Action) *Builder[S, E] {
	b.table.Actions[state] = append(b.table.Actions[state], actions...)
	return b
}

// Table returns a copy of the table built so far.
func (b *Builder[S, E]) Table() Table[S, E] {
	t := b.table
	t.Actions = make(map[S][]Action, len(b.table.Actions))
	for s, a := range b.table.Actions {
		t.Actions[s] = append([]Action(nil), a...)
	}
	t.Transitions = append([]Transition[S, E](nil), b.table.Transitions...)
	t.States = append([]S(nil), b.table.States...)
	return t
}

// Build validates the table and returns the machine.
func (b *Builder[S, E]) Build(opts ...Option) (*Machine[S, E], error) {
	return New(b.Table(), opts...)
}
