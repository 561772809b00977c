package railroad

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/kursatkomurcu/distributed-systems-application/pkg/eventbus"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/statemachine"
)

var (
	ErrNilBus       = errors.New("railroad: bus cannot be nil")
	ErrNilPublisher = errors.New("railroad: publisher cannot be nil")
)

// Crossing is a level crossing: a controller fed by the track sensor, and a
// gate and a light driven by the controller's events.
type Crossing struct {
	controller *statemachine.Machine[ControllerState, Event]
	gate       *statemachine.Machine[GateState, Event]
	light      *statemachine.Machine[LightState, Event]
}

// NewCrossing builds the three machines and subscribes them to bus: the
// controller to the sensor events, then the gate and the light, in that
// order, to the controller's events. The controller raises its events
// through pub, which is either bus or a dispatcher in front of it.
func NewCrossing(bus *eventbus.Bus[Event], pub eventbus.Publisher[Event], opts ...Option) (*Crossing, error) {
	if bus == nil {
		return nil, ErrNilBus
	}
	if pub == nil {
		return nil, ErrNilPublisher
	}

	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	if o.signal == nil {
		o.signal = LogSignal(o.logger)
	}

	raise := func(e Event) statemachine.Action {
		return func(ctx context.Context) error { return pub.Publish(ctx, e) }
	}
	send := func(cmd Command) statemachine.Action {
		return func(ctx context.Context) error { return o.signal(ctx, cmd) }
	}

	controller, err := statemachine.NewBuilder[ControllerState, Event](ControllerAway).
		States(ControllerAway, ControllerApproach, ControllerClose, ControllerPresent, ControllerLeaving, ControllerLeft).
		Transition(ControllerAway, EventSeen, ControllerApproach).
		Transition(ControllerApproach, EventNotSeen, ControllerClose).
		Transition(ControllerClose, EventSeen, ControllerPresent).
		Transition(ControllerPresent, EventNotSeen, ControllerLeaving).
		Transition(ControllerLeaving, EventNotSeen, ControllerLeft).
		Transition(ControllerLeft, EventSeen, ControllerApproach).
		Enter(ControllerApproach, raise(EventApproaching)).
		Enter(ControllerLeaving, raise(EventLeaving)).
		Build(statemachine.WithName("controller"), statemachine.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("railroad: controller: %w", err)
	}

	gate, err := statemachine.NewBuilder[GateState, Event](GateUp).
		States(GateUp, GateDown).
		Transition(GateUp, EventApproaching, GateDown).
		Transition(GateDown, EventLeaving, GateUp).
		Enter(GateDown, send(CmdLowerGate)).
		Enter(GateUp, send(CmdRaiseGate)).
		Build(statemachine.WithName("gate"), statemachine.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("railroad: gate: %w", err)
	}

	light, err := statemachine.NewBuilder[LightState, Event](LightOff).
		States(LightOff, LightOn).
		Transition(LightOff, EventApproaching, LightOn).
		Transition(LightOn, EventLeaving, LightOff).
		Enter(LightOn, send(CmdLightOn)).
		Enter(LightOff, send(CmdLightOff)).
		Build(statemachine.WithName("light"), statemachine.WithLogger(o.logger))
	if err != nil {
		return nil, fmt.Errorf("railroad: light: %w", err)
	}

	subs := []struct {
		event Event
		h     eventbus.Handler[Event]
	}{
		{EventSeen, controller},
		{EventNotSeen, controller},
		{EventApproaching, gate},
		{EventLeaving, gate},
		{EventApproaching, light},
		{EventLeaving, light},
	}
	for _, s := range subs {
		if err := bus.Subscribe(s.event, s.h); err != nil {
			return nil, fmt.Errorf("railroad: subscribing to %q: %w", s.event, err)
		}
	}

	return &Crossing{controller: controller, gate: gate, light: light}, nil
}

func (c *Crossing) Controller() *statemachine.Machine[ControllerState, Event] { return c.controller }

func (c *Crossing) Gate() *statemachine.Machine[GateState, Event] { return c.gate }

func (c *Crossing) Light() *statemachine.Machine[LightState, Event] { return c.light }

// Snapshot reads the current state of each machine. The reads are not
// atomic across machines, so take it while no event is in flight.
func (c *Crossing) Snapshot() Snapshot {
	return Snapshot{
		Controller: c.controller.Current(),
		Gate:       c.gate.Current(),
		Light:      c.light.Current(),
	}
}

// Infos describes the machines in controller, gate, light order.
func (c *Crossing) Infos() []statemachine.Info {
	return []statemachine.Info{c.controller.Info(), c.gate.Info(), c.light.Info()}
}
