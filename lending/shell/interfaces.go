package shell

import (
	"context"

	"github.com/AntonStoeckl/library-lending-go/relstore"
)

// RunsUnitsOfWork is the part of the store that command handlers need.
// The function runs inside one transaction; returning an error rolls everything back.
type RunsUnitsOfWork interface {
	WithinUnitOfWork(ctx context.Context, fn relstore.UnitOfWorkFunc) error
}

// Command represents the contract for all command types.
// The CommandType method names the command in logs, metrics, and spans.
type Command interface {
	CommandType() string
}

// CommandResult is implemented by every command handler result.
// Embedding HandlerResult satisfies it.
type CommandResult interface {
	Metadata() HandlerResult
}

// CommandHandler processes one command type and returns its result.
// Rejections are returned as *core.Rejection errors, never as results.
type CommandHandler[C Command, R CommandResult] interface {
	Handle(ctx context.Context, command C) (R, error)
}

// Query represents the contract for all query types.
type Query interface {
	QueryType() string
}

// QueryResult is implemented by every query handler result.
// ItemCount is the number of rows the report contains.
type QueryResult interface {
	ItemCount() int
}

// QueryHandler processes one query type and returns its report.
type QueryHandler[Q Query, R QueryResult] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// Interface aliases so that handlers and wrappers do not import relstore for observability.

// MetricsCollector interface for collecting handler performance metrics.
type MetricsCollector = relstore.MetricsCollector

// ContextualMetricsCollector extends MetricsCollector with context-aware methods.
type ContextualMetricsCollector = relstore.ContextualMetricsCollector

// TracingCollector interface for distributed tracing in handlers.
type TracingCollector = relstore.TracingCollector

// SpanContext represents an active tracing span.
type SpanContext = relstore.SpanContext

// ContextualLogger interface for context-aware logging in handlers.
type ContextualLogger = relstore.ContextualLogger

// Logger interface for basic logging in handlers.
type Logger = relstore.Logger
