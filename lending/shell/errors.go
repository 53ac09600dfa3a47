package shell

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
)

const (
	errorTypeNone                    = "none"
	errorTypeConcurrencyConflict     = "concurrency_conflict"
	errorTypeContextCanceled         = "context_canceled"
	errorTypeContextDeadlineExceeded = "context_deadline_exceeded"
	errorTypeRejected                = "rejected"
	errorTypeOther                   = "other"
)

// IsCancellationError checks if an error is due to context cancellation.
func IsCancellationError(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsTimeoutError checks if an error is due to context deadline exceeded.
func IsTimeoutError(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

// IsConcurrencyConflictError checks if an error is due to a lost compare-and-set race.
func IsConcurrencyConflictError(err error) bool {
	return errors.Is(err, core.ErrConflict)
}

// ClassifyError maps err to the status used in logs, metrics, and spans.
// A rejection is a business outcome; everything unclassified is an error.
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return StatusSuccess
	case IsCancellationError(err):
		return StatusCanceled
	case IsTimeoutError(err):
		return StatusTimeout
	case core.IsRejection(err):
		return StatusRejected
	case IsConcurrencyConflictError(err):
		return StatusConflict
	default:
		return StatusError
	}
}

// ErrorType extracts a label value describing err for retry metrics.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return errorTypeNone
	case IsConcurrencyConflictError(err):
		return errorTypeConcurrencyConflict
	case IsCancellationError(err):
		return errorTypeContextCanceled
	case IsTimeoutError(err):
		return errorTypeContextDeadlineExceeded
	case core.IsRejection(err):
		return errorTypeRejected
	default:
		return errorTypeOther
	}
}
