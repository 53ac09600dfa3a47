package sqlengine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/AntonStoeckl/library-lending-go/relstore"
)

const (
	metricUnitOfWorkDuration   = "relstore_unit_of_work_duration_seconds"
	metricQueryDuration        = "relstore_query_duration_seconds"
	metricRowsQueried          = "relstore_rows_queried_total"
	metricConcurrencyConflicts = "relstore_concurrency_conflicts_total"
	metricDatabaseErrors       = "relstore_database_errors_total"

	spanNameUnitOfWork = "relstore.unit_of_work"
	spanNameQuery      = "relstore.query"

	spanAttrOperation  = "operation"
	spanAttrDialect    = "db.dialect"
	spanAttrErrorType  = "error_type"
	spanAttrDurationMS = "duration_ms"

	operationUnitOfWork = "unit_of_work"

	statusSuccess  = "success"
	statusError    = "error"
	statusConflict = "conflict"
	statusRejected = "rejected"

	errorTypeDatabase            = "database"
	errorTypeDatabaseQuery       = "database_query"
	errorTypeDatabaseExec        = "database_exec"
	errorTypeRowScan             = "row_scan"
	errorTypeConcurrencyConflict = "concurrency_conflict"
	errorTypeRejected            = "rejected"
)

// === Logging ===

// logQueryWithDuration logs SQL statements with execution time at debug level.
func (e Engine) logQueryWithDuration(ctx context.Context, sqlQuery string, action string, duration time.Duration) {
	args := []any{logAttrDurationMS, e.toMilliseconds(duration), logAttrQuery, sqlQuery}

	if e.logger != nil {
		e.logger.Debug(logMsgSQLExecuted+action, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.DebugContext(ctx, logMsgSQLExecuted+action, args...)
	}
}

// logOperation logs operational information at info level.
func (e Engine) logOperation(ctx context.Context, action string, args ...any) {
	if e.logger != nil {
		e.logger.Info(logMsgOperation+action, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

// logWarn logs non-critical issues at warn level.
func (e Engine) logWarn(ctx context.Context, message string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(message, args...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.WarnContext(ctx, message, args...)
	}
}

// logError logs error information at the error level.
func (e Engine) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error(), logAttrDialect, string(e.dialect)}
	allArgs = append(allArgs, args...)

	if e.logger != nil {
		e.logger.Error(message, allArgs...)
	}

	if e.contextualLogger != nil {
		e.contextualLogger.ErrorContext(ctx, message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (e Engine) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// === Metrics ===

func (e Engine) recordDuration(ctx context.Context, metric string, duration time.Duration, labels map[string]string) {
	if e.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := e.metricsCollector.(relstore.ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	e.metricsCollector.RecordDuration(metric, duration, labels)
}

func (e Engine) incrementCounter(ctx context.Context, metric string, labels map[string]string) {
	if e.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := e.metricsCollector.(relstore.ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
		return
	}

	e.metricsCollector.IncrementCounter(metric, labels)
}

func (e Engine) recordValue(ctx context.Context, metric string, value float64, labels map[string]string) {
	if e.metricsCollector == nil {
		return
	}

	if contextualCollector, ok := e.metricsCollector.(relstore.ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metric, value, labels)
		return
	}

	e.metricsCollector.RecordValue(metric, value, labels)
}

// recordErrorMetrics counts a failed database call.
func (e Engine) recordErrorMetrics(ctx context.Context, operation, errorType string) {
	e.incrementCounter(ctx, metricDatabaseErrors, map[string]string{
		spanAttrOperation: operation,
		"status":          statusError,
		spanAttrErrorType: errorType,
	})
}

// recordConcurrencyConflictMetrics counts a compare-and-set write that lost a race.
func (e Engine) recordConcurrencyConflictMetrics(ctx context.Context, operation string) {
	e.incrementCounter(ctx, metricConcurrencyConflicts, map[string]string{
		spanAttrOperation: operation,
		"conflict_type":   "concurrency",
	})
}

// unitOfWorkMetricsObserver encapsulates the metrics collection for units of work.
type unitOfWorkMetricsObserver struct {
	e   Engine
	ctx context.Context
}

func (e Engine) startUnitOfWorkMetrics(ctx context.Context) unitOfWorkMetricsObserver {
	return unitOfWorkMetricsObserver{e: e, ctx: ctx}
}

func (o unitOfWorkMetricsObserver) record(status string, duration time.Duration) {
	o.e.recordDuration(o.ctx, metricUnitOfWorkDuration, duration, map[string]string{
		spanAttrOperation: operationUnitOfWork,
		"status":          status,
	})
}

func (o unitOfWorkMetricsObserver) recordSuccess(duration time.Duration) {
	o.record(statusSuccess, duration)
}

func (o unitOfWorkMetricsObserver) recordConflict(duration time.Duration) {
	o.record(statusConflict, duration)
}

func (o unitOfWorkMetricsObserver) recordRejected(duration time.Duration) {
	o.record(statusRejected, duration)
}

func (o unitOfWorkMetricsObserver) recordError(errorType string, duration time.Duration) {
	o.record(statusError, duration)
	o.e.recordErrorMetrics(o.ctx, operationUnitOfWork, errorType)
}

// queryMetricsObserver encapsulates the metrics collection for reporting queries.
type queryMetricsObserver struct {
	e         Engine
	ctx       context.Context
	operation string
}

func (e Engine) startQueryMetrics(ctx context.Context, operation string) queryMetricsObserver {
	return queryMetricsObserver{e: e, ctx: ctx, operation: operation}
}

func (o queryMetricsObserver) recordSuccess(rowCount int, duration time.Duration) {
	labels := map[string]string{spanAttrOperation: o.operation, "status": statusSuccess}
	o.e.recordDuration(o.ctx, metricQueryDuration, duration, labels)
	o.e.recordValue(o.ctx, metricRowsQueried, float64(rowCount), labels)
}

func (o queryMetricsObserver) recordError(errorType string, duration time.Duration) {
	o.e.recordDuration(o.ctx, metricQueryDuration, duration, map[string]string{
		spanAttrOperation: o.operation,
		"status":          statusError,
	})
	o.e.recordErrorMetrics(o.ctx, o.operation, errorType)
}

// === Tracing ===

// tracingObserver encapsulates the span lifecycle of one unit of work or query.
type tracingObserver struct {
	e    Engine
	span relstore.SpanContext
}

func (e Engine) startTraceSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, tracingObserver) {
	if e.tracingCollector == nil {
		return ctx, tracingObserver{e: e}
	}

	ctx, span := e.tracingCollector.StartSpan(ctx, name, attrs)

	return ctx, tracingObserver{e: e, span: span}
}

func (e Engine) startUnitOfWorkTracing(ctx context.Context) (context.Context, tracingObserver) {
	return e.startTraceSpan(ctx, spanNameUnitOfWork, map[string]string{
		spanAttrOperation: operationUnitOfWork,
		spanAttrDialect:   string(e.dialect),
	})
}

func (e Engine) startQueryTracing(ctx context.Context, operation string) (context.Context, tracingObserver) {
	return e.startTraceSpan(ctx, spanNameQuery, map[string]string{
		spanAttrOperation: operation,
		spanAttrDialect:   string(e.dialect),
	})
}

func (o tracingObserver) finishSuccess(duration time.Duration) {
	if o.span == nil {
		return
	}

	o.e.tracingCollector.FinishSpan(o.span, statusSuccess, map[string]string{
		spanAttrDurationMS: formatDurationMS(duration),
	})
}

func (o tracingObserver) finishError(errorType string, duration time.Duration) {
	if o.span == nil {
		return
	}

	o.e.tracingCollector.FinishSpan(o.span, statusError, map[string]string{
		spanAttrErrorType:  errorType,
		spanAttrDurationMS: formatDurationMS(duration),
	})
}

func formatDurationMS(d time.Duration) string {
	return fmt.Sprintf("%.2f", float64(d.Nanoseconds())/1e6)
}
