package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kursatkomurcu/distributed-systems-application/pkg/config"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/httpserver"
	"github.com/kursatkomurcu/distributed-systems-application/pkg/logger"
)

const twoEventResult = "controller: close\ngate: down\nlight: on\n"

func testConfig(mode string) Config {
	return Config{
		Env:        "development",
		Service:    "crossing-test",
		Mode:       mode,
		MaxDepth:   64,
		QueueLimit: 16,
		Events:     []string{"seen", "¬seen"},
	}
}

func httpServerConfig(addr string) httpserver.Config {
	return httpserver.Config{Addr: addr, ShutdownTimeout: time.Second}
}

func TestSimulate(t *testing.T) {
	t.Parallel()

	for _, mode := range []string{modeSync, modeQueued} {
		t.Run(mode, func(t *testing.T) {
			t.Parallel()
			cfg := testConfig(mode)

			a, err := newApp(cfg, logger.Nop())
			require.NoError(t, err)

			out := &bytes.Buffer{}
			require.NoError(t, simulate(context.Background(), cfg.Events, a, out))
			assert.Equal(t, twoEventResult, out.String())
		})
	}
}

func TestSimulate_FullPass(t *testing.T) {
	t.Parallel()
	cfg := testConfig(modeQueued)
	cfg.Events = []string{"seen", "¬seen", "seen", "¬seen", "¬seen"}

	a, err := newApp(cfg, logger.Nop())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	require.NoError(t, simulate(context.Background(), cfg.Events, a, out))
	assert.Equal(t, "controller: left\ngate: up\nlight: off\n", out.String())
}

func TestSimulate_DefinitionFile(t *testing.T) {
	t.Parallel()
	cfg := testConfig(modeSync)
	cfg.Definition = filepath.Join("..", "..", "pkg", "railroad", "crossing.yaml")

	a, err := newApp(cfg, logger.Nop())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	require.NoError(t, simulate(context.Background(), cfg.Events, a, out))
	assert.Equal(t, twoEventResult, out.String())
}

func TestNewApp_BadDefinition(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("machines:\n  - name: gate\n"), 0o600))

	cfg := testConfig(modeSync)
	cfg.Definition = path

	_, err := newApp(cfg, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial: is required")
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, testConfig(modeSync).validate())
	assert.NoError(t, testConfig(modeQueued).validate())

	bad := testConfig("eventually")
	assert.ErrorContains(t, bad.validate(), "CROSSING_MODE")

	bad = testConfig(modeSync)
	bad.MaxDepth = -1
	assert.Error(t, bad.validate())
}

func TestNewLogger(t *testing.T) {
	t.Parallel()

	cfg := testConfig(modeSync)
	_, err := newLogger(cfg)
	require.NoError(t, err)

	cfg.LogLevel = "loud"
	_, err = newLogger(cfg)
	assert.Error(t, err)

	cfg.LogLevel = "debug"
	cfg.LogFormat = "xml"
	_, err = newLogger(cfg)
	assert.ErrorContains(t, err, "CROSSING_LOG_FORMAT")
}

func TestRun(t *testing.T) {
	config.ResetCache()
	t.Cleanup(config.ResetCache)
	t.Setenv("CROSSING_MODE", "queued")
	t.Setenv("CROSSING_LOG_LEVEL", "error")
	t.Setenv("CROSSING_EVENTS", "seen,¬seen")

	out := &bytes.Buffer{}
	require.NoError(t, run(context.Background(), nil, out))
	assert.Equal(t, twoEventResult, out.String())

	err := run(context.Background(), []string{"explode"}, io.Discard)
	assert.ErrorContains(t, err, `unknown command "explode"`)
}

func TestServe(t *testing.T) {
	t.Parallel()

	cfg := testConfig(modeQueued)
	a, err := newApp(cfg, logger.Nop())
	require.NoError(t, err)

	bound := make(chan net.Addr, 1)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, httpServerConfig("127.0.0.1:0"), a, logger.Nop(),
			httpserver.WithListenHook(func(la net.Addr) { bound <- la }))
	}()

	var addr string
	select {
	case la := <-bound:
		addr = la.String()
	case <-time.After(5 * time.Second):
		t.Fatal("control api never listened")
	}

	resp, err := http.Get("http://" + addr + "/readyz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	resp, err = http.Post("http://"+addr+"/events/seen", "", nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	require.NoError(t, a.drain(context.Background()))
	assert.Equal(t, "approach", a.machines[0].Info().Current)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not stop")
	}
}
