package shell

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

const (
	// CommandHandlerDurationMetric tracks command handler execution duration.
	CommandHandlerDurationMetric = "commandhandler_handle_duration_seconds"

	// CommandHandlerCallsMetric tracks total command handler calls.
	CommandHandlerCallsMetric = "commandhandler_handle_calls_total"

	// CommandHandlerIdempotentMetric tracks calls that found nothing to change.
	CommandHandlerIdempotentMetric = "commandhandler_idempotent_operations_total"

	// CommandHandlerRejectedMetric tracks calls refused by a business rule.
	CommandHandlerRejectedMetric = "commandhandler_rejected_operations_total"

	// CommandHandlerCanceledMetric tracks canceled operations.
	CommandHandlerCanceledMetric = "commandhandler_canceled_operations_total"

	// CommandHandlerTimeoutMetric tracks timeout operations.
	CommandHandlerTimeoutMetric = "commandhandler_timeout_operations_total"

	// CommandHandlerConcurrencyConflictMetric tracks calls that still lost the race after all retries.
	CommandHandlerConcurrencyConflictMetric = "commandhandler_concurrency_conflicts_total"

	// CommandHandlerRetriesMetric tracks retry attempts in command handlers.
	//
	// Labels: command_type, attempt_number, error_type
	CommandHandlerRetriesMetric = "commandhandler_retries_total"

	// CommandHandlerRetryDelayMetric tracks backoff delays in command handlers.
	//
	// Labels: command_type, attempt_number
	CommandHandlerRetryDelayMetric = "commandhandler_retry_delay_seconds"

	// CommandHandlerMaxRetriesReachedMetric tracks when max retries are exhausted.
	//
	// Labels: command_type, final_error_type
	CommandHandlerMaxRetriesReachedMetric = "commandhandler_max_retries_reached_total"

	// QueryHandlerDurationMetric tracks query handler execution duration.
	QueryHandlerDurationMetric = "queryhandler_handle_duration_seconds"

	// QueryHandlerCallsMetric tracks total query handler calls.
	QueryHandlerCallsMetric = "queryhandler_handle_calls_total"

	// QueryHandlerCanceledMetric tracks canceled query operations.
	QueryHandlerCanceledMetric = "queryhandler_canceled_operations_total"

	// QueryHandlerTimeoutMetric tracks timeout query operations.
	QueryHandlerTimeoutMetric = "queryhandler_timeout_operations_total"

	// QueryHandlerRowsMetric records the number of rows per report.
	QueryHandlerRowsMetric = "queryhandler_result_rows"

	StatusSuccess    = "success"
	StatusIdempotent = "idempotent"
	StatusRejected   = "rejected"
	StatusError      = "error"
	StatusCanceled   = "canceled"
	StatusTimeout    = "timeout"
	StatusConflict   = "conflict"

	LogMsgCommandStarted   = "command handler started"
	LogMsgCommandCompleted = "command handler completed"
	LogMsgCommandRejected  = "command handler rejected"
	LogMsgCommandFailed    = "command handler failed"
	LogMsgQueryStarted     = "query handler started"
	LogMsgQueryCompleted   = "query handler completed"
	LogMsgQueryFailed      = "query handler failed"

	LogAttrCommandType     = "command_type"
	LogAttrQueryType       = "query_type"
	LogAttrOperationID     = "operation_id"
	LogAttrStatus          = "status"
	LogAttrDurationMS      = "duration_ms"
	LogAttrBusinessOutcome = "business_outcome"
	LogAttrRowCount        = "row_count"
	LogAttrRetryAttempts   = "retry_attempts"
	LogAttrError           = "error"

	// SpanNameCommandHandle is the tracing span name for command handling.
	SpanNameCommandHandle = "commandhandler.handle"

	// SpanNameQueryHandle is the tracing span name for query handling.
	SpanNameQueryHandle = "queryhandler.handle"

	labelAttemptNumber  = "attempt_number"
	labelErrorType      = "error_type"
	labelFinalErrorType = "final_error_type"
)

// commandStatusCounters maps a command status to the counter that tracks it separately.
var commandStatusCounters = map[string]string{
	StatusIdempotent: CommandHandlerIdempotentMetric,
	StatusRejected:   CommandHandlerRejectedMetric,
	StatusCanceled:   CommandHandlerCanceledMetric,
	StatusTimeout:    CommandHandlerTimeoutMetric,
	StatusConflict:   CommandHandlerConcurrencyConflictMetric,
}

var queryStatusCounters = map[string]string{
	StatusCanceled: QueryHandlerCanceledMetric,
	StatusTimeout:  QueryHandlerTimeoutMetric,
}

// BuildCommandLabels creates standard metric labels for command handler operations.
func BuildCommandLabels(commandType, status string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		LogAttrStatus:      status,
	}
}

// BuildQueryLabels creates standard metric labels for query handler operations.
func BuildQueryLabels(queryType, status string) map[string]string {
	return map[string]string{
		LogAttrQueryType: queryType,
		LogAttrStatus:    status,
	}
}

// BuildRetryLabels creates standard metric labels for retry operations.
func BuildRetryLabels(commandType string, attemptNumber int, errorType string) map[string]string {
	return map[string]string{
		LogAttrCommandType: commandType,
		labelAttemptNumber: strconv.Itoa(attemptNumber),
		labelErrorType:     errorType,
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds with precision.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// RecordCommandMetrics records duration and call count of a command, plus the dedicated counter of its status.
func RecordCommandMetrics(
	ctx context.Context,
	collector MetricsCollector,
	commandType string,
	status string,
	duration time.Duration,
) {

	if collector == nil {
		return
	}

	labels := BuildCommandLabels(commandType, status)
	recordDuration(ctx, collector, CommandHandlerDurationMetric, duration, labels)
	incrementCounter(ctx, collector, CommandHandlerCallsMetric, labels)

	if counter, ok := commandStatusCounters[status]; ok {
		incrementCounter(ctx, collector, counter, BuildCommandLabels(commandType, status))
	}
}

// RecordRetryMetadata records the retry summary a command handler reported in its result.
func RecordRetryMetadata(ctx context.Context, collector MetricsCollector, commandType string, result HandlerResult) {
	if collector == nil {
		return
	}

	if result.RetryAttempts > 1 {
		incrementCounter(ctx, collector, CommandHandlerRetriesMetric,
			BuildRetryLabels(commandType, result.RetryAttempts-1, result.LastErrorType),
		)
		recordDuration(ctx, collector, CommandHandlerRetryDelayMetric, result.TotalRetryDelay,
			map[string]string{LogAttrCommandType: commandType},
		)
	}

	if result.RetriesExhausted {
		incrementCounter(ctx, collector, CommandHandlerMaxRetriesReachedMetric, map[string]string{
			LogAttrCommandType:  commandType,
			labelFinalErrorType: result.LastErrorType,
		})
	}
}

// RecordQueryMetrics records duration, call count and row count of a query.
func RecordQueryMetrics(
	ctx context.Context,
	collector MetricsCollector,
	queryType string,
	status string,
	duration time.Duration,
	rowCount int,
) {

	if collector == nil {
		return
	}

	labels := BuildQueryLabels(queryType, status)
	recordDuration(ctx, collector, QueryHandlerDurationMetric, duration, labels)
	incrementCounter(ctx, collector, QueryHandlerCallsMetric, labels)

	if status == StatusSuccess {
		recordValue(ctx, collector, QueryHandlerRowsMetric, float64(rowCount), BuildQueryLabels(queryType, status))
	}

	if counter, ok := queryStatusCounters[status]; ok {
		incrementCounter(ctx, collector, counter, BuildQueryLabels(queryType, status))
	}
}

// StartCommandSpan starts a tracing span for a command.
// It returns the original context and a nil span if tracing is disabled.
func StartCommandSpan(
	ctx context.Context,
	tracingCollector TracingCollector,
	commandType string,
	operationID string,
) (context.Context, SpanContext) {

	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, SpanNameCommandHandle, map[string]string{
		LogAttrCommandType: commandType,
		LogAttrOperationID: operationID,
	})
}

// StartQuerySpan starts a tracing span for a query.
// It returns the original context and a nil span if tracing is disabled.
func StartQuerySpan(
	ctx context.Context,
	tracingCollector TracingCollector,
	queryType string,
	operationID string,
) (context.Context, SpanContext) {

	if tracingCollector == nil {
		return ctx, nil
	}

	return tracingCollector.StartSpan(ctx, SpanNameQueryHandle, map[string]string{
		LogAttrQueryType:   queryType,
		LogAttrOperationID: operationID,
	})
}

// FinishSpan completes a command or query span with the operation outcome.
func FinishSpan(
	tracingCollector TracingCollector,
	span SpanContext,
	status string,
	duration time.Duration,
	err error,
) {

	if tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: formatDurationMS(duration),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	tracingCollector.FinishSpan(span, status, attrs)
}

// LogCommandStart logs the beginning of command processing.
func LogCommandStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, commandType, operationID string) {
	logInfo(ctx, logger, contextualLogger, LogMsgCommandStarted,
		LogAttrCommandType, commandType,
		LogAttrOperationID, operationID,
	)
}

// LogCommandSuccess logs a completed command with its business outcome.
func LogCommandSuccess(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	operationID string,
	businessOutcome string,
	retryAttempts int,
	duration time.Duration,
) {

	logInfo(ctx, logger, contextualLogger, LogMsgCommandCompleted,
		LogAttrCommandType, commandType,
		LogAttrOperationID, operationID,
		LogAttrBusinessOutcome, businessOutcome,
		LogAttrRetryAttempts, retryAttempts,
		LogAttrDurationMS, ToMilliseconds(duration),
	)
}

// LogCommandRejected logs a command that a business rule refused.
func LogCommandRejected(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	operationID string,
	err error,
	duration time.Duration,
) {

	args := []any{
		LogAttrCommandType, commandType,
		LogAttrOperationID, operationID,
		LogAttrStatus, StatusRejected,
		LogAttrError, err.Error(),
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	if contextualLogger != nil {
		contextualLogger.WarnContext(ctx, LogMsgCommandRejected, args...)
	} else if logger != nil {
		logger.Warn(LogMsgCommandRejected, args...)
	}
}

// LogCommandError logs command processing errors.
func LogCommandError(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	commandType string,
	operationID string,
	status string,
	err error,
) {

	logError(ctx, logger, contextualLogger, LogMsgCommandFailed,
		LogAttrCommandType, commandType,
		LogAttrOperationID, operationID,
		LogAttrStatus, status,
		LogAttrError, err.Error(),
	)
}

// LogQueryStart logs the beginning of query processing.
func LogQueryStart(ctx context.Context, logger Logger, contextualLogger ContextualLogger, queryType, operationID string) {
	logInfo(ctx, logger, contextualLogger, LogMsgQueryStarted,
		LogAttrQueryType, queryType,
		LogAttrOperationID, operationID,
	)
}

// LogQuerySuccess logs successful query completion.
func LogQuerySuccess(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	queryType string,
	operationID string,
	rowCount int,
	duration time.Duration,
) {

	logInfo(ctx, logger, contextualLogger, LogMsgQueryCompleted,
		LogAttrQueryType, queryType,
		LogAttrOperationID, operationID,
		LogAttrRowCount, rowCount,
		LogAttrDurationMS, ToMilliseconds(duration),
	)
}

// LogQueryError logs query processing errors.
func LogQueryError(
	ctx context.Context,
	logger Logger,
	contextualLogger ContextualLogger,
	queryType string,
	operationID string,
	status string,
	err error,
) {

	logError(ctx, logger, contextualLogger, LogMsgQueryFailed,
		LogAttrQueryType, queryType,
		LogAttrOperationID, operationID,
		LogAttrStatus, status,
		LogAttrError, err.Error(),
	)
}

func logInfo(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.InfoContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Info(msg, args...)
	}
}

func logError(ctx context.Context, logger Logger, contextualLogger ContextualLogger, msg string, args ...any) {
	if contextualLogger != nil {
		contextualLogger.ErrorContext(ctx, msg, args...)
	} else if logger != nil {
		logger.Error(msg, args...)
	}
}

func recordDuration(ctx context.Context, collector MetricsCollector, metric string, d time.Duration, labels map[string]string) {
	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, d, labels)
		return
	}

	collector.RecordDuration(metric, d, labels)
}

func incrementCounter(ctx context.Context, collector MetricsCollector, metric string, labels map[string]string) {
	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	collector.IncrementCounter(metric, labels)
}

func recordValue(ctx context.Context, collector MetricsCollector, metric string, value float64, labels map[string]string) {
	if contextualCollector, ok := collector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
		return
	}

	collector.RecordValue(metric, value, labels)
}

// formatDurationMS formats duration in milliseconds for span attributes.
func formatDurationMS(duration time.Duration) string {
	return fmt.Sprintf("%.2f", ToMilliseconds(duration))
}
