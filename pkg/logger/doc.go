// Package logger builds *slog.Logger values for the engine and its example
// wiring and keeps attribute names consistent across packages.
//
// New is the single factory. Options choose the output format (text or
// JSON), the minimum level, static attributes and context extractors:
//
//	log := logger.New(
//	    logger.WithDevelopment("crossing"),
//	    logger.WithContextExtractors(eventbus.LogDispatchID),
//	)
//	logger.SetAsDefault(log)
//
// Every handler produced by New is wrapped in LogHandlerDecorator, which runs
// the registered ContextExtractor callbacks on each record. The event bus
// stores a dispatch id in the context of every top level publish, so all
// records written while a cascade of events runs share that id when the
// matching extractor is installed.
//
// The helpers in attr.go (Machine, Event, State, Transition, Depth, ...)
// should be preferred over ad hoc keys. Error and Errors return an empty
// attribute for nil errors, which slog drops:
//
//	log.Info("publish finished", logger.Error(err))
//
// Nop returns a logger that discards everything, handy as a default in
// tests.
package logger
