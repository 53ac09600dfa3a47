// Package testdoubles provides spies for the observability interfaces of the store and the handlers.
//
//   - LogHandlerSpy: a slog.Handler capturing records, to be wrapped in a *slog.Logger
//   - ContextualLoggerSpy: captures ...Context logging calls
//   - MetricsCollectorSpy: captures duration, counter, and value recordings
//   - TracingCollectorSpy: captures started and finished spans
//
// They allow asserting observability behavior without any telemetry backend.
package testdoubles
