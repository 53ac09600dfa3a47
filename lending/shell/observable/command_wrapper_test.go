package observable_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
	"github.com/AntonStoeckl/library-lending-go/lending/shell/observable"
	"github.com/AntonStoeckl/library-lending-go/testutil/observability/testdoubles"
)

type stubCommand struct {
	BookID int64
}

func (stubCommand) CommandType() string { return "StubCommand" }

type stubResult struct {
	shell.HandlerResult
	Value string
}

type stubCommandHandler struct {
	result stubResult
	err    error
	calls  []stubCommand
}

func (h *stubCommandHandler) Handle(_ context.Context, command stubCommand) (stubResult, error) {
	h.calls = append(h.calls, command)
	return h.result, h.err
}

func newInstrumentedCommandWrapper(
	t *testing.T,
	handler *stubCommandHandler,
) (*observable.CommandWrapper[stubCommand, stubResult], *testdoubles.MetricsCollectorSpy, *testdoubles.TracingCollectorSpy, *testdoubles.ContextualLoggerSpy) {

	t.Helper()

	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()
	logger := testdoubles.NewContextualLoggerSpy()

	wrapper, err := observable.NewCommandWrapper[stubCommand, stubResult](
		handler,
		observable.WithMetrics(metrics),
		observable.WithTracing(tracing),
		observable.WithContextualLogging(logger),
	)
	require.NoError(t, err)

	return wrapper, metrics, tracing, logger
}

func Test_CommandWrapper_Handle_Success(t *testing.T) {
	// arrange
	handler := &stubCommandHandler{result: stubResult{HandlerResult: shell.HandlerResult{RetryAttempts: 1}, Value: "ok"}}
	wrapper, metrics, tracing, logger := newInstrumentedCommandWrapper(t, handler)

	// act
	result, err := wrapper.Handle(context.Background(), stubCommand{BookID: 7})

	// assert
	require.NoError(t, err)
	assert.Equal(t, "ok", result.Value)
	assert.Equal(t, []stubCommand{{BookID: 7}}, handler.calls)

	labels := map[string]string{shell.LogAttrCommandType: "StubCommand", shell.LogAttrStatus: shell.StatusSuccess}
	assert.True(t, metrics.HasCounterRecord(shell.CommandHandlerCallsMetric, labels))
	assert.True(t, metrics.HasDurationRecord(shell.CommandHandlerDurationMetric, labels))
	assert.False(t, metrics.HasCounterRecord(shell.CommandHandlerRetriesMetric, nil))

	assert.True(t, tracing.HasSpanRecordForName(shell.SpanNameCommandHandle).
		WithStartAttribute(shell.LogAttrCommandType, "StubCommand").
		WithStatus(shell.StatusSuccess).
		Assert())

	assert.True(t, logger.HasLog("info", shell.LogMsgCommandStarted))
	assert.True(t, logger.HasLog("info", shell.LogMsgCommandCompleted))
}

func Test_CommandWrapper_Handle_UsesOneOperationIDPerCall(t *testing.T) {
	// arrange
	handler := &stubCommandHandler{}
	wrapper, _, tracing, logger := newInstrumentedCommandWrapper(t, handler)

	// act
	_, err := wrapper.Handle(context.Background(), stubCommand{})
	require.NoError(t, err)

	// assert
	started, ok := logger.Arg(shell.LogMsgCommandStarted, shell.LogAttrOperationID)
	require.True(t, ok)
	completed, ok := logger.Arg(shell.LogMsgCommandCompleted, shell.LogAttrOperationID)
	require.True(t, ok)
	assert.Equal(t, started, completed)
	assert.Len(t, started, 36)

	spans := tracing.GetSpanRecords()
	require.Len(t, spans, 1)
	assert.Equal(t, started, spans[0].StartAttributes[shell.LogAttrOperationID])
}

func Test_CommandWrapper_Handle_Idempotent(t *testing.T) {
	// arrange
	handler := &stubCommandHandler{result: stubResult{HandlerResult: shell.HandlerResult{Idempotent: true, RetryAttempts: 1}}}
	wrapper, metrics, _, _ := newInstrumentedCommandWrapper(t, handler)

	// act
	_, err := wrapper.Handle(context.Background(), stubCommand{})

	// assert
	require.NoError(t, err)
	assert.True(t, metrics.HasCounterRecord(shell.CommandHandlerIdempotentMetric, map[string]string{
		shell.LogAttrCommandType: "StubCommand",
	}))
}

func Test_CommandWrapper_Handle_Rejected(t *testing.T) {
	// arrange
	rejection := &core.Rejection{Kind: core.ErrBookOnLoan, BookID: 5, HolderID: 3}
	handler := &stubCommandHandler{err: rejection}
	wrapper, metrics, tracing, logger := newInstrumentedCommandWrapper(t, handler)

	// act
	_, err := wrapper.Handle(context.Background(), stubCommand{BookID: 5})

	// assert
	assert.Same(t, rejection, err)
	assert.True(t, metrics.HasCounterRecord(shell.CommandHandlerRejectedMetric, nil))
	assert.True(t, tracing.HasSpanRecordForName(shell.SpanNameCommandHandle).WithStatus(shell.StatusRejected).Assert())
	assert.True(t, logger.HasLog("warn", shell.LogMsgCommandRejected))
	assert.False(t, logger.HasLog("error", shell.LogMsgCommandFailed))
}

func Test_CommandWrapper_Handle_ConflictAfterExhaustedRetries(t *testing.T) {
	// arrange
	handler := &stubCommandHandler{
		result: stubResult{HandlerResult: shell.HandlerResult{
			RetryAttempts:    4,
			LastErrorType:    "concurrency_conflict",
			RetriesExhausted: true,
		}},
		err: core.ErrConflict,
	}
	wrapper, metrics, _, logger := newInstrumentedCommandWrapper(t, handler)

	// act
	_, err := wrapper.Handle(context.Background(), stubCommand{})

	// assert
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.True(t, metrics.HasCounterRecord(shell.CommandHandlerConcurrencyConflictMetric, nil))
	assert.True(t, metrics.HasCounterRecord(shell.CommandHandlerMaxRetriesReachedMetric, nil))
	assert.True(t, metrics.HasCounterRecord(shell.CommandHandlerRetriesMetric, map[string]string{"attempt_number": "3"}))
	assert.True(t, logger.HasLog("error", shell.LogMsgCommandFailed))
}

func Test_CommandWrapper_Handle_StoreFailure(t *testing.T) {
	// arrange
	handler := &stubCommandHandler{err: errors.Join(core.ErrStoreUnavailable, errors.New("connection reset"))}
	wrapper, metrics, tracing, _ := newInstrumentedCommandWrapper(t, handler)

	// act
	_, err := wrapper.Handle(context.Background(), stubCommand{})

	// assert
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
	assert.True(t, metrics.HasCounterRecord(shell.CommandHandlerCallsMetric, map[string]string{shell.LogAttrStatus: shell.StatusError}))
	assert.True(t, tracing.HasSpanRecordForName(shell.SpanNameCommandHandle).WithEndAttributeKey(shell.LogAttrError).Assert())
}

func Test_CommandWrapper_Handle_Canceled(t *testing.T) {
	handler := &stubCommandHandler{err: context.Canceled}
	wrapper, metrics, _, _ := newInstrumentedCommandWrapper(t, handler)

	_, err := wrapper.Handle(context.Background(), stubCommand{})

	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, metrics.HasCounterRecord(shell.CommandHandlerCanceledMetric, nil))
}

func Test_CommandWrapper_WithoutInstruments(t *testing.T) {
	// arrange
	handler := &stubCommandHandler{err: core.ErrConflict}
	wrapper, err := observable.NewCommandWrapper[stubCommand, stubResult](handler)
	require.NoError(t, err)

	// act + assert
	assert.NotPanics(t, func() {
		_, _ = wrapper.Handle(context.Background(), stubCommand{})
	})
}

func Test_NewCommandWrapper_RejectsInvalidOptions(t *testing.T) {
	handler := &stubCommandHandler{}

	_, err := observable.NewCommandWrapper[stubCommand, stubResult](handler, observable.WithMetrics(nil))
	assert.ErrorIs(t, err, observable.ErrNilMetricsCollector)

	_, err = observable.NewCommandWrapper[stubCommand, stubResult](handler, observable.WithTracing(nil))
	assert.ErrorIs(t, err, observable.ErrNilTracingCollector)

	_, err = observable.NewCommandWrapper[stubCommand, stubResult](handler, observable.WithLogging(nil))
	assert.ErrorIs(t, err, observable.ErrNilLogger)

	_, err = observable.NewCommandWrapper[stubCommand, stubResult](nil)
	assert.ErrorIs(t, err, observable.ErrNilCoreHandler)
}
