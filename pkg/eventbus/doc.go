// Package eventbus routes named events to subscribed handlers.
//
// Bus is the synchronous router: Publish calls every handler subscribed to
// the event, in the order they subscribed, before it returns. Handlers may
// publish again, which nests depth first: the inner publish and everything it
// triggers finishes before the outer publish moves to its next handler.
//
//	bus := eventbus.New[Event]()
//	_ = bus.Subscribe(Approaching, gate)  // gate is a *statemachine.Machine
//	_ = bus.Subscribe(Approaching, light)
//	err := bus.Publish(ctx, Seen)
//
// Publishing an event with no subscribers does nothing. Handlers added while a
// publish is running do not receive it. There is no unsubscribe; a bus is
// meant to be built by one wiring step and live as long as its machines.
//
// # Errors
//
// The first failing handler stops the publish; its error is wrapped in
// *HandlerError and returned through every enclosing publish. Nothing is
// retried or rolled back and panics are not recovered. WithMaxDepth turns
// runaway cascades (A publishes B publishes A ...) into a *DepthError
// instead of unbounded recursion.
//
// # Dispatch ids
//
// Every top level publish stores a fresh uuid in its context, shared by all
// nested publishes. DispatchID reads it and LogDispatchID plugs it into a
// logger built with logger.WithContextExtractors.
//
// # Queued delivery
//
// Dispatcher puts a FIFO queue and a single delivery goroutine in front of a
// Bus. Actions that publish through the Dispatcher enqueue instead of
// recursing, so stack depth stays constant and all handlers run on one
// goroutine, which makes the dispatcher the single writer for every machine
// subscribed to the bus:
//
//	d := eventbus.NewDispatcher(bus)
//	go d.Run(ctx)
//	_ = d.Publish(ctx, Seen)
//	_ = d.Drain(ctx) // wait for Seen and everything it caused
//
// With a Dispatcher, cascades are delivered breadth first: the subscribers of
// an event all run before any event they published.
package eventbus
