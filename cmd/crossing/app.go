package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kursatkomurcu/distributed-systems-application/pkg/controlapi"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/eventbus"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/machinedef"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/railroad"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/statemachine"
)

var errDispatcherStopped = errors.New("dispatcher stopped")

// app hides the event type of the wiring it was built from.
type app struct {
	publish  func(ctx context.Context, event string) error
	drain    func(ctx context.Context) error
	loop     func(ctx context.Context) error // nil in sync mode
	machines []controlapi.Machine
	handler  http.Handler
}

type wireFunc[E eventbus.Label] func(bus *eventbus.Bus[E], pub eventbus.Publisher[E]) ([]controlapi.Machine, error)

func newApp(cfg Config, log *slog.Logger) (*app, error) {
	if cfg.Definition == "" {
		return wire[railroad.Event](cfg, log, func(bus *eventbus.Bus[railroad.Event], pub eventbus.Publisher[railroad.Event]) ([]controlapi.Machine, error) {
			c, err := railroad.NewCrossing(bus, pub, railroad.WithLogger(log))
			if err != nil {
				return nil, err
			}
			return []controlapi.Machine{c.Controller(), c.Gate(), c.Light()}, nil
		})
	}

	def, err := machinedef.ParseFile(cfg.Definition)
	if err != nil {
		return nil, err
	}

	return wire[statemachine.StringEvent](cfg, log, func(bus *eventbus.Bus[statemachine.StringEvent], pub eventbus.Publisher[statemachine.StringEvent]) ([]controlapi.Machine, error) {
		set, err := def.Build(pub, bus, railroad.Funcs(railroad.LogSignal(log)), machinedef.WithLogger(log))
		if err != nil {
			return nil, err
		}
		machines := make([]controlapi.Machine, 0, len(set.Machines()))
		for _, m := range set.Machines() {
			machines = append(machines, m)
		}
		return machines, nil
	})
}

func wire[E eventbus.Label](cfg Config, log *slog.Logger, build wireFunc[E]) (*app, error) {
	bus := eventbus.New[E](eventbus.WithLogger(log), eventbus.WithMaxDepth(cfg.MaxDepth))

	a := &app{drain: func(context.Context) error { return nil }}
	// Concurrent requests each publish on their own goroutine; Serial keeps
	// their cascades from interleaving.
	var (
		pub       eventbus.Publisher[E] = eventbus.NewSerial[E](bus)
		readiness []func(context.Context) error
	)

	if cfg.Mode == modeQueued {
		d := eventbus.NewDispatcher(bus,
			eventbus.WithDispatcherLogger(log),
			eventbus.WithQueueLimit(cfg.QueueLimit),
		)
		pub = d
		a.drain = d.Drain
		a.loop = d.Run
		readiness = append(readiness, func(context.Context) error {
			select {
			case <-d.Done():
				return errDispatcherStopped
			default:
				return nil
			}
		})
	}

	machines, err := build(bus, pub)
	if err != nil {
		return nil, fmt.Errorf("wiring machines: %w", err)
	}

	api, err := controlapi.New[E](pub, machines,
		controlapi.WithLogger(log),
		controlapi.WithReadiness(readiness...),
	)
	if err != nil {
		return nil, err
	}

	a.publish = func(ctx context.Context, event string) error { return pub.Publish(ctx, E(event)) }
	a.machines = machines
	a.handler = api.Handler()
	return a, nil
}
