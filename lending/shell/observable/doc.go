// Package observable wraps command and query handlers with metrics, tracing, and logging,
// so that the handlers themselves contain nothing but the lending workflow.
//
// The wrappers are applied explicitly at wiring time:
//
//	coreHandler := lendbook.NewCommandHandler(engine, provider)
//
//	handler, err := observable.NewCommandWrapper(
//		coreHandler,
//		observable.WithMetrics(metricsCollector),
//		observable.WithTracing(tracingCollector),
//		observable.WithContextualLogging(logger),
//	)
//
//	result, err := handler.Handle(ctx, lendbook.BuildCommand(7, 1, time.Now()))
//
// Every call gets an operation id (a UUIDv7) that appears in all its log lines and on its span.
// Rejections are reported with status "rejected" and logged at warn level; they are business
// outcomes, not failures.
//
// Unit tests of the handlers use the core handler directly, without any wrapper.
package observable
