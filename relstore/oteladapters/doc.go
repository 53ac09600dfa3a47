// Package oteladapters provides OpenTelemetry implementations of the relstore observability interfaces.
//
// The same adapters serve the store engine and the lending handlers, since both accept the
// dependency-free Logger, ContextualLogger, MetricsCollector, and TracingCollector interfaces.
//
//	tracer := otel.Tracer("librarian")
//	meter := otel.Meter("librarian")
//
//	engine, err := sqlengine.NewEngineFromPGXPool(pool,
//		sqlengine.WithTracing(oteladapters.NewTracingCollector(tracer)),
//		sqlengine.WithMetrics(oteladapters.NewMetricsCollector(meter)),
//		sqlengine.WithContextualLogger(oteladapters.NewSlogBridgeLogger("librarian")),
//	)
package oteladapters
