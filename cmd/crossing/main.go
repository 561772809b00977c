// Command crossing runs the level crossing state machines.
//
//	crossing [simulate]   publish CROSSING_EVENTS and print the final states
//	crossing serve        serve the control API on CROSSING_HTTP_ADDR
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/kursatkomurcu/distributed-systems-application/pkg/config"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/httpserver"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "crossing:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return err
	}
	if err := cfg.validate(); err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logger.SetAsDefault(log)

	a, err := newApp(cfg, log)
	if err != nil {
		return err
	}

	cmd := "simulate"
	if len(args) > 0 {
		cmd = args[0]
	}

	switch cmd {
	case "simulate":
		return simulate(ctx, cfg.Events, a, stdout)
	case "serve":
		return serve(ctx, cfg.HTTP, a, log)
	default:
		return fmt.Errorf("unknown command %q, want simulate or serve", cmd)
	}
}

// simulate publishes events in order, waits for every cascade and prints one
// "machine: state" line per machine.
func simulate(ctx context.Context, events []string, a *app, stdout io.Writer) error {
	loopCtx, stopLoop := context.WithCancel(ctx)
	defer stopLoop()

	g, gctx := errgroup.WithContext(loopCtx)
	if a.loop != nil {
		g.Go(func() error { return a.loop(gctx) })
	}

	g.Go(func() error {
		// Stops the dispatcher loop once the scenario is through.
		defer stopLoop()

		for _, e := range events {
			if err := a.publish(gctx, e); err != nil {
				return fmt.Errorf("publishing %q: %w", e, err)
			}
		}
		return a.drain(gctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	for _, m := range a.machines {
		info := m.Info()
		if _, err := fmt.Fprintf(stdout, "%s: %s\n", info.Name, info.Current); err != nil {
			return err
		}
	}
	return nil
}

// serve runs the control API until ctx is cancelled. In queued mode a
// failing handler stops the dispatcher, which takes the server down with it.
func serve(ctx context.Context, cfg httpserver.Config, a *app, log *slog.Logger, opts ...httpserver.Option) error {
	g, gctx := errgroup.WithContext(ctx)

	if a.loop != nil {
		g.Go(func() error {
			if err := a.loop(gctx); err != nil {
				return err
			}
			// Clean stop: make sure the server follows.
			return context.Canceled
		})
	}

	srv := httpserver.NewFromConfig(cfg, append([]httpserver.Option{httpserver.WithLogger(log)}, opts...)...)
	g.Go(func() error { return srv.Run(gctx, a.handler) })

	log.InfoContext(ctx, "crossing control api starting", logger.Component("crossing"), slog.String("addr", cfg.Addr))

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
