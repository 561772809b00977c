// Package machinedef builds state machines and their bus subscriptions from
// YAML.
//
// A definition lists machines, each with an initial state, an optional
// declared state set, an ordered transition table and entry actions, followed
// by the subscriptions that connect machines to bus events:
//
//	machines:
//	  - name: gate
//	    initial: up
//	    states: [up, down]
//	    transitions:
//	      - {from: up, event: approaching, to: down}
//	      - {from: down, event: leaving, to: up}
//	    actions:
//	      down: [{call: lower}]
//	      up: [{call: raise}]
//	subscriptions:
//	  - event: approaching
//	    machines: [gate]
//
// An action either publishes an event ({publish: approaching}) or calls a
// function registered with Build ({call: lower}).
//
// Parse rejects unknown keys and validates the result; Validate collects every
// problem into one error matching ErrInvalidDefinition. Build turns a valid
// definition into machines of statemachine.StringState and
// statemachine.StringEvent and subscribes them in file order.
package machinedef
