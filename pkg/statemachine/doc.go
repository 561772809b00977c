// Package statemachine implements a small event driven finite state machine
// with entry actions.
//
// A machine is built from a Table: an explicit initial state, an optional
// declared state set, an ordered list of transitions and the actions to run
// when a state is entered. State and event identifiers are any named string
// type, so each kind of machine can have its own closed set of constants:
//
//	type GateState string
//	type Event string
//
//	const (
//	    Up   GateState = "up"
//	    Down GateState = "down"
//
//	    Approaching Event = "approaching"
//	    Leaving     Event = "leaving"
//	)
//
//	gate := statemachine.MustNew(statemachine.Table[GateState, Event]{
//	    Initial: Up,
//	    States:  []GateState{Up, Down},
//	    Transitions: []statemachine.Transition[GateState, Event]{
//	        {From: Up, Event: Approaching, To: Down},
//	        {From: Down, Event: Leaving, To: Up},
//	    },
//	    Actions: map[GateState][]statemachine.Action{
//	        Down: {lowerBarrier},
//	    },
//	}, statemachine.WithName("gate"))
//
// StringState and StringEvent serve machines whose tables are loaded at
// runtime.
//
// # Semantics
//
// HandleEvent scans the transitions out of the current state in the order
// they were supplied and takes the first one whose event matches. The state
// is updated first, then every action of the new state runs in order on the
// caller's goroutine. Events without a matching transition are ignored.
// Nothing runs at construction time, not even the initial state's actions.
//
// Duplicate (from, event) pairs are allowed; the earliest one always wins.
//
// # Error Handling
//
// New rejects malformed tables with the sentinel errors in errors.go.
// A failing action aborts the remaining actions of that state and comes back
// from HandleEvent as *ActionError. The state change is kept:
//
//	if statemachine.IsActionError(err) { /* ... */ }
//
// Panics raised by actions are not recovered.
//
// # Concurrency
//
// HandleEvent, Current and CanHandle may be called from several goroutines.
// The lock covers only lookup and state update, so actions are free to
// publish events that re-enter the same machine.
//
// Machines satisfy eventbus.Handler and are usually subscribed to a bus
// rather than called directly. ToDOT renders a machine for Graphviz.
package statemachine
