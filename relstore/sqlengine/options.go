package sqlengine

import (
	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// Option defines a functional option for configuring Engine.
type Option func(*Engine) error

// WithDialect sets the SQL dialect. The PGX constructor only accepts DialectPostgres.
func WithDialect(dialect Dialect) Option {
	return func(e *Engine) error {
		if !dialect.isValid() {
			return relstore.ErrUnsupportedDialect
		}

		e.dialect = dialect

		return nil
	}
}

// WithTableNames sets the names of the books, borrowers, and loans tables.
func WithTableNames(books, borrowers, loans string) Option {
	return func(e *Engine) error {
		if books == "" || borrowers == "" || loans == "" {
			return relstore.ErrEmptyTableNameSupplied
		}

		e.tables = TableNames{Books: books, Borrowers: borrowers, Loans: loans}

		return nil
	}
}

// WithLogger sets the logger for the Engine.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: SQL statements with execution timing (development use)
// Info level: Unit of work outcomes, durations, concurrency conflicts (production-safe)
// Warn level: Non-critical issues like rollback or cleanup failures
// Error level: Critical failures that cause operation failures.
func WithLogger(logger relstore.Logger) Option {
	return func(e *Engine) error {
		e.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Engine.
// Log records carry the trace and span of the active unit of work when tracing is enabled.
func WithContextualLogger(logger relstore.ContextualLogger) Option {
	return func(e *Engine) error {
		e.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Engine.
// It receives unit of work and query durations, concurrency conflicts, and database errors.
func WithMetrics(collector relstore.MetricsCollector) Option {
	return func(e *Engine) error {
		e.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Engine.
// One span is started per unit of work and per reporting query.
func WithTracing(collector relstore.TracingCollector) Option {
	return func(e *Engine) error {
		e.tracingCollector = collector
		return nil
	}
}
