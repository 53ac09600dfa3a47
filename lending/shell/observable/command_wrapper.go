package observable

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/shell"
)

// CommandWrapper instruments a command handler with metrics, tracing, and logging.
// It implements shell.CommandHandler itself, so it can be used wherever the core handler can.
type CommandWrapper[C shell.Command, R shell.CommandResult] struct {
	coreHandler shell.CommandHandler[C, R]
	commandType string
	instruments
}

// NewCommandWrapper creates an observable wrapper around coreHandler.
func NewCommandWrapper[C shell.Command, R shell.CommandResult](
	coreHandler shell.CommandHandler[C, R],
	opts ...Option,
) (*CommandWrapper[C, R], error) {

	if coreHandler == nil {
		return nil, ErrNilCoreHandler
	}

	i, err := buildInstruments(opts)
	if err != nil {
		return nil, err
	}

	var zeroCommand C

	return &CommandWrapper[C, R]{
		coreHandler: coreHandler,
		commandType: zeroCommand.CommandType(),
		instruments: i,
	}, nil
}

// Handle runs the wrapped handler and records its outcome.
// The result and the error of the wrapped handler are returned unchanged.
func (w *CommandWrapper[C, R]) Handle(ctx context.Context, command C) (R, error) {
	start := time.Now()
	operationID := newOperationID()

	ctx, span := shell.StartCommandSpan(ctx, w.tracingCollector, w.commandType, operationID)
	shell.LogCommandStart(ctx, w.logger, w.contextualLogger, w.commandType, operationID)

	result, err := w.coreHandler.Handle(ctx, command)
	duration := time.Since(start)

	metadata := result.Metadata()
	shell.RecordRetryMetadata(ctx, w.metricsCollector, w.commandType, metadata)

	status := shell.ClassifyError(err)
	if err == nil && metadata.Idempotent {
		status = shell.StatusIdempotent
	}

	shell.RecordCommandMetrics(ctx, w.metricsCollector, w.commandType, status, duration)
	shell.FinishSpan(w.tracingCollector, span, status, duration, err)

	switch status {
	case shell.StatusSuccess, shell.StatusIdempotent:
		shell.LogCommandSuccess(ctx, w.logger, w.contextualLogger, w.commandType, operationID,
			status, metadata.RetryAttempts, duration,
		)
	case shell.StatusRejected:
		shell.LogCommandRejected(ctx, w.logger, w.contextualLogger, w.commandType, operationID, err, duration)
	default:
		shell.LogCommandError(ctx, w.logger, w.contextualLogger, w.commandType, operationID, status, err)
	}

	return result, err
}
