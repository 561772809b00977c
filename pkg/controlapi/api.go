package controlapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kursatkomurcu/distributed-systems-application/pkg/eventbus"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/httpserver"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/logger"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/statemachine"
)

// Machine is what the API needs from a state machine. Every
// *statemachine.Machine implements it whatever its state and event types.
type Machine interface {
	Info() statemachine.Info
	ToDOT() string
}

// Option configures an API.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	events    []string
	readiness []func(context.Context) error
}

// WithLogger sets the request logger. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEvents restricts POST /events to the listed names.
func WithEvents(events ...string) Option {
	return func(o *options) {
		o.events = append(o.events, events...)
	}
}

// WithReadiness adds checks run by GET /readyz.
func WithReadiness(checks ...func(context.Context) error) Option {
	return func(o *options) {
		o.readiness = append(o.readiness, checks...)
	}
}

// API exposes publishing and machine inspection over HTTP.
type API[E eventbus.Label] struct {
	pub      eventbus.Publisher[E]
	machines []Machine
	byName   map[string]Machine
	opts     *options
}

// New returns an API that publishes through pub and lists machines in the
// order given. Machine names must be set and unique.
func New[E eventbus.Label](pub eventbus.Publisher[E], machines []Machine, opts ...Option) (*API[E], error) {
	if pub == nil {
		return nil, ErrNilPublisher
	}

	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}

	a := &API[E]{
		pub:      pub,
		machines: slices.Clone(machines),
		byName:   make(map[string]Machine, len(machines)),
		opts:     o,
	}
	for _, m := range machines {
		name := m.Info().Name
		if name == "" {
			return nil, ErrUnnamedMachine
		}
		if _, dup := a.byName[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
		a.byName[name] = m
	}

	return a, nil
}

// Handler returns the routes:
//
//	POST /events/{event}          publish event
//	GET  /machines                describe every machine
//	GET  /machines/{name}         describe one machine
//	GET  /machines/{name}/graph   Graphviz DOT of one machine
//	GET  /healthz, /readyz        probes
func (a *API[E]) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", httpserver.HealthCheckHandler(a.opts.logger))
	r.Get("/readyz", httpserver.HealthCheckHandler(a.opts.logger, append([]func(context.Context) error{serving}, a.opts.readiness...)...))

	r.With(dispatchID).Post("/events/{event}", a.publish)

	r.Route("/machines", func(r chi.Router) {
		r.Get("/", a.list)
		r.Get("/{name}", a.get)
		r.Get("/{name}/graph", a.graph)
	})

	return r
}

// serving is the baseline readiness check, so /readyz answers READY rather
// than ALIVE when no other checks are registered.
func serving(context.Context) error { return nil }

type publishResponse struct {
	Event      string `json:"event"`
	DispatchID string `json:"dispatch_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (a *API[E]) publish(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	event := chi.URLParam(r, "event")

	if len(a.opts.events) > 0 && !slices.Contains(a.opts.events, event) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown event %q", event)})
		return
	}

	start := time.Now()
	if err := a.pub.Publish(ctx, E(event)); err != nil {
		status := statusFor(err)
		a.opts.logger.ErrorContext(ctx, "publish failed",
			logger.Component("controlapi"),
			logger.Event(event),
			logger.Error(err),
			logger.Duration(time.Since(start)),
			slog.Int("status", status),
		)
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	a.opts.logger.InfoContext(ctx, "event accepted",
		logger.Component("controlapi"),
		logger.Event(event),
		logger.Duration(time.Since(start)),
	)

	id, _ := eventbus.DispatchID(ctx)
	writeJSON(w, http.StatusAccepted, publishResponse{Event: event, DispatchID: id})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, eventbus.ErrQueueFull), errors.Is(err, eventbus.ErrDispatcherClosed):
		return http.StatusServiceUnavailable
	case eventbus.IsDepthError(err):
		return http.StatusLoopDetected
	default:
		return http.StatusInternalServerError
	}
}

func (a *API[E]) list(w http.ResponseWriter, _ *http.Request) {
	infos := make([]statemachine.Info, 0, len(a.machines))
	for _, m := range a.machines {
		infos = append(infos, m.Info())
	}
	writeJSON(w, http.StatusOK, infos)
}

func (a *API[E]) get(w http.ResponseWriter, r *http.Request) {
	m, ok := a.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, m.Info())
}

func (a *API[E]) graph(w http.ResponseWriter, r *http.Request) {
	m, ok := a.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(m.ToDOT()))
}

func (a *API[E]) lookup(w http.ResponseWriter, r *http.Request) (Machine, bool) {
	name := chi.URLParam(r, "name")
	m, ok := a.byName[name]
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: fmt.Sprintf("unknown machine %q", name)})
	}
	return m, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
