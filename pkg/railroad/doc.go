// Package railroad wires a level crossing out of three state machines on one
// event bus.
//
// The controller follows the track sensor (seen, ¬seen) through away,
// approach, close, present, leaving and left. Entering approach raises
// approaching; entering leaving raises leaving. The gate (up, down) and the
// light (off, on) react to those two events and drive their devices through
// a Signal.
//
//	bus := eventbus.New[railroad.Event]()
//	crossing, err := railroad.NewCrossing(bus, bus)
//	if err != nil {
//		return err
//	}
//	_ = bus.Publish(ctx, railroad.EventSeen)
//	_ = bus.Publish(ctx, railroad.EventNotSeen)
//	crossing.Snapshot() // {close down on}
//
// The same wiring ships as YAML (Definition) for machinedef.
package railroad
