package observable

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-lending-go/lending/shell"
)

// QueryWrapper instruments a query handler with metrics, tracing, and logging.
type QueryWrapper[Q shell.Query, R shell.QueryResult] struct {
	coreHandler shell.QueryHandler[Q, R]
	queryType   string
	instruments
}

// NewQueryWrapper creates an observable wrapper around coreHandler.
func NewQueryWrapper[Q shell.Query, R shell.QueryResult](
	coreHandler shell.QueryHandler[Q, R],
	opts ...Option,
) (*QueryWrapper[Q, R], error) {

	if coreHandler == nil {
		return nil, ErrNilCoreHandler
	}

	i, err := buildInstruments(opts)
	if err != nil {
		return nil, err
	}

	var zeroQuery Q

	return &QueryWrapper[Q, R]{
		coreHandler: coreHandler,
		queryType:   zeroQuery.QueryType(),
		instruments: i,
	}, nil
}

// Handle runs the wrapped handler and records its outcome.
func (w *QueryWrapper[Q, R]) Handle(ctx context.Context, query Q) (R, error) {
	start := time.Now()
	operationID := newOperationID()

	ctx, span := shell.StartQuerySpan(ctx, w.tracingCollector, w.queryType, operationID)
	shell.LogQueryStart(ctx, w.logger, w.contextualLogger, w.queryType, operationID)

	result, err := w.coreHandler.Handle(ctx, query)
	duration := time.Since(start)
	status := shell.ClassifyError(err)

	rowCount := 0
	if err == nil {
		rowCount = result.ItemCount()
	}

	shell.RecordQueryMetrics(ctx, w.metricsCollector, w.queryType, status, duration, rowCount)
	shell.FinishSpan(w.tracingCollector, span, status, duration, err)

	if err != nil {
		shell.LogQueryError(ctx, w.logger, w.contextualLogger, w.queryType, operationID, status, err)
		return result, err
	}

	shell.LogQuerySuccess(ctx, w.logger, w.contextualLogger, w.queryType, operationID, rowCount, duration)

	return result, nil
}
