// Package httpserver runs an http.Handler with timeouts and graceful
// shutdown tied to a context.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, api.Handler()); err != nil {
//		return err
//	}
//
// Run returns nil after a clean shutdown and an error matching ErrStart when
// the listener fails. HealthCheckHandler serves liveness and readiness probes.
package httpserver
