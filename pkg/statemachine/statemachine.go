package statemachine

import "context"

// Label is the constraint for state and event identifiers. Declaring a
// named string type per machine (type GateState string) gives each machine a
// closed set of constants; StringState and StringEvent cover machines whose
// tables are only known at runtime.
type Label interface {
	~string
}

// StringState is a free-form state identifier.
type StringState string

// StringEvent is a free-form event identifier.
type StringEvent string

// Action is a side effect bound to a state and run each time the machine
// enters that state. It receives no information about the transition that
// caused it to run.
type Action func(ctx context.Context) error

// Transition is one edge of the machine: receiving Event while in From moves
// the machine to To.
type Transition[S, E Label] struct {
	From  S
	Event E
	To    S
}

// Table is everything a machine is built from.
type Table[S, E Label] struct {
	// Initial is the state the machine starts in. Required.
	Initial S
	// States optionally declares the full state set. When set, Initial must
	// be a member.
	States []S
	// Transitions are matched in the order given; the first one whose From
	// and Event match wins.
	Transitions []Transition[S, E]
	// Actions are run in order after the machine enters the keyed state.
	Actions map[S][]Action
}
