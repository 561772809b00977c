package machinedef_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kursatkomurcu/distributed-systems-application/pkg/eventbus"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/logger"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/machinedef"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/statemachine"
)

func loadCrossing(t *testing.T) *machinedef.Definition {
	t.Helper()
	def, err := machinedef.ParseFile(filepath.Join("testdata", "crossing.yaml"))
	require.NoError(t, err)
	return def
}

func TestBuild_Crossing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	bus := eventbus.New[statemachine.StringEvent](eventbus.WithLogger(logger.Nop()))

	var calls []string
	record := func(name string) statemachine.Action {
		return func(context.Context) error {
			calls = append(calls, name)
			return nil
		}
	}

	set, err := loadCrossing(t).Build(bus, bus, machinedef.Funcs{
		"lower gate": record("lower gate"),
		"light on":   record("light on"),
	}, machinedef.WithLogger(logger.Nop()))
	require.NoError(t, err)

	names := make([]string, 0, 3)
	for _, m := range set.Machines() {
		names = append(names, m.Name())
	}
	assert.Equal(t, []string{"controller", "gate", "light"}, names)

	require.NoError(t, bus.Publish(ctx, "seen"))
	require.NoError(t, bus.Publish(ctx, "¬seen"))

	current := func(name string) statemachine.StringState {
		m, ok := set.Get(name)
		require.True(t, ok)
		return m.Current()
	}

	assert.Equal(t, statemachine.StringState("close"), current("controller"))
	assert.Equal(t, statemachine.StringState("down"), current("gate"))
	assert.Equal(t, statemachine.StringState("on"), current("light"))
	assert.Equal(t, []string{"lower gate", "light on"}, calls, "gate subscribed before light")

	_, ok := set.Get("train")
	assert.False(t, ok)
}

func TestBuild_ThroughDispatcher(t *testing.T) {
	t.Parallel()

	bus := eventbus.New[statemachine.StringEvent](eventbus.WithLogger(logger.Nop()))
	d := eventbus.NewDispatcher(bus, eventbus.WithDispatcherLogger(logger.Nop()))

	set, err := loadCrossing(t).Build(d, bus, nil, machinedef.WithLogger(logger.Nop()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = d.Run(ctx) }()

	for _, e := range []statemachine.StringEvent{"seen", "¬seen", "seen", "¬seen"} {
		require.NoError(t, d.Publish(ctx, e))
	}
	require.NoError(t, d.Drain(ctx))

	controller, _ := set.Get("controller")
	gate, _ := set.Get("gate")
	light, _ := set.Get("light")
	assert.Equal(t, statemachine.StringState("leaving"), controller.Current())
	assert.Equal(t, statemachine.StringState("up"), gate.Current())
	assert.Equal(t, statemachine.StringState("off"), light.Current())
}

func TestBuild_DefaultCallLogs(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.New(logger.WithOutput(buf), logger.WithFormat(logger.FormatText))
	bus := eventbus.New[statemachine.StringEvent](eventbus.WithLogger(logger.Nop()))

	_, err := loadCrossing(t).Build(bus, bus, nil, machinedef.WithLogger(log))
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), "approaching"))
	assert.Contains(t, buf.String(), `msg="executing action" machine=gate action="lower gate"`)
	assert.Contains(t, buf.String(), `msg="executing action" machine=light action="light on"`)
}

func TestBuild_ActionErrorSurfaces(t *testing.T) {
	t.Parallel()

	errJammed := errors.New("gate jammed")
	bus := eventbus.New[statemachine.StringEvent](eventbus.WithLogger(logger.Nop()))

	set, err := loadCrossing(t).Build(bus, bus, machinedef.Funcs{
		"lower gate": func(context.Context) error { return errJammed },
	}, machinedef.WithLogger(logger.Nop()))
	require.NoError(t, err)

	err = bus.Publish(context.Background(), "seen")
	require.ErrorIs(t, err, errJammed)
	assert.True(t, statemachine.IsActionError(err))
	assert.True(t, eventbus.IsHandlerError(err))

	gate, _ := set.Get("gate")
	light, _ := set.Get("light")
	assert.Equal(t, statemachine.StringState("down"), gate.Current(), "no rollback")
	assert.Equal(t, statemachine.StringState("off"), light.Current(), "later subscriber skipped")
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	bus := eventbus.New[statemachine.StringEvent](eventbus.WithLogger(logger.Nop()))
	def := loadCrossing(t)

	_, err := def.Build(nil, bus, nil)
	assert.ErrorIs(t, err, machinedef.ErrNilPublisher)

	_, err = def.Build(bus, nil, nil)
	assert.ErrorIs(t, err, machinedef.ErrNilBus)

	broken := &machinedef.Definition{Machines: []machinedef.Machine{{Name: "gate"}}}
	_, err = broken.Build(bus, bus, nil)
	assert.ErrorIs(t, err, machinedef.ErrInvalidDefinition)
	assert.Zero(t, bus.Subscribers("approaching"))
}
