package shell

import "time"

// HandlerResult is the execution metadata of a command handler call.
// It captures the idempotency outcome and the retry information without coupling the handler
// to specific observability implementations.
type HandlerResult struct {
	// Idempotent is true when the desired state already held and nothing was written.
	Idempotent bool

	// RetryAttempts is the total number of attempts made (1 for no retries).
	RetryAttempts int

	// TotalRetryDelay is the time spent waiting between attempts, excluding execution time.
	TotalRetryDelay time.Duration

	// LastErrorType describes the error of the last attempt.
	// Values: "none", "concurrency_conflict", "context_canceled", "context_deadline_exceeded", "rejected", "other"
	LastErrorType string

	// RetriesExhausted is true when every attempt ended in a concurrency conflict.
	RetriesExhausted bool
}

// Metadata returns the result itself, so that results embedding HandlerResult satisfy CommandResult.
func (r HandlerResult) Metadata() HandlerResult {
	return r
}

// NewSuccessResult creates a HandlerResult for operations that changed state.
func NewSuccessResult(retryMetrics RetryMetrics) HandlerResult {
	return fromRetryMetrics(retryMetrics, false)
}

// NewIdempotentResult creates a HandlerResult for operations that found nothing to change.
func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	return fromRetryMetrics(retryMetrics, true)
}

// NewErrorResult creates a HandlerResult for failed or rejected operations.
// The retry metadata is still reported.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return fromRetryMetrics(retryMetrics, false)
}

func fromRetryMetrics(retryMetrics RetryMetrics, idempotent bool) HandlerResult {
	return HandlerResult{
		Idempotent:       idempotent,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
