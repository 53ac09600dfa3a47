package shell_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-go/lending/core"
	"github.com/AntonStoeckl/library-lending-go/lending/shell"
	"github.com/AntonStoeckl/library-lending-go/testutil/observability/testdoubles"
)

func Test_RetryWithExponentialBackoff_Success_NoRetries(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return nil
	}

	// act
	meta, err := shell.RetryWithExponentialBackoff(context.Background(), fn)

	// assert
	require.NoError(t, err)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, 1, meta.Attempts)
	assert.Equal(t, time.Duration(0), meta.TotalDelay)
	assert.Equal(t, "none", meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_RetriesOnConflict(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		if callCount < 3 {
			return errors.Join(core.ErrConflict, errors.New("0 rows affected"))
		}
		return nil
	}

	// act
	meta, err := shell.RetryWithExponentialBackoff(context.Background(), fn, shell.WithBaseDelay(time.Millisecond))

	// assert
	require.NoError(t, err)
	assert.Equal(t, 3, callCount)
	assert.Equal(t, 3, meta.Attempts)
	assert.Greater(t, meta.TotalDelay, time.Duration(0))
	assert.Equal(t, "none", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_GivesUpAfterMaxAttempts(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return core.ErrConflict
	}

	// act
	meta, err := shell.RetryWithExponentialBackoff(context.Background(), fn, shell.WithBaseDelay(time.Millisecond))

	// assert
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.Equal(t, 4, callCount)
	assert.Equal(t, 4, meta.Attempts)
	assert.True(t, meta.RetriesExhausted)
	assert.Equal(t, "concurrency_conflict", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_DoesNotRetryRejections(t *testing.T) {
	// arrange
	callCount := 0
	rejection := &core.Rejection{Kind: core.ErrBookUnavailable, BookID: 7}
	fn := func(_ context.Context) error {
		callCount++
		return rejection
	}

	// act
	meta, err := shell.RetryWithExponentialBackoff(context.Background(), fn)

	// assert
	assert.ErrorIs(t, err, core.ErrBookUnavailable)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "rejected", meta.LastErrorType)
	assert.False(t, meta.RetriesExhausted)
}

func Test_RetryWithExponentialBackoff_DoesNotRetryStoreFailures(t *testing.T) {
	// arrange
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		return errors.Join(core.ErrStoreUnavailable, errors.New("connection refused"))
	}

	// act
	_, err := shell.RetryWithExponentialBackoff(context.Background(), fn)

	// assert
	assert.ErrorIs(t, err, core.ErrStoreUnavailable)
	assert.Equal(t, 1, callCount)
}

func Test_RetryWithExponentialBackoff_StopsWaitingWhenContextIsCanceled(t *testing.T) {
	// arrange
	ctx, cancel := context.WithCancel(context.Background())
	callCount := 0
	fn := func(_ context.Context) error {
		callCount++
		cancel()
		return core.ErrConflict
	}

	// act
	meta, err := shell.RetryWithExponentialBackoff(ctx, fn, shell.WithBaseDelay(time.Hour))

	// assert
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, callCount)
	assert.Equal(t, "context_canceled", meta.LastErrorType)
}

func Test_RetryWithExponentialBackoff_RecordsRetryMetrics(t *testing.T) {
	// arrange
	metrics := testdoubles.NewMetricsCollectorSpy()
	fn := func(_ context.Context) error { return core.ErrConflict }

	// act
	_, err := shell.RetryWithExponentialBackoff(context.Background(), fn,
		shell.WithMaxAttempts(2),
		shell.WithBaseDelay(time.Millisecond),
		shell.WithJitterFactor(0),
		shell.WithMetrics(metrics, "LendBook"),
	)

	// assert
	assert.ErrorIs(t, err, core.ErrConflict)
	assert.True(t, metrics.HasCounterRecord(shell.CommandHandlerRetriesMetric, map[string]string{
		shell.LogAttrCommandType: "LendBook",
		"attempt_number":         "1",
		"error_type":             "concurrency_conflict",
	}))
	assert.True(t, metrics.HasDurationRecord(shell.CommandHandlerRetryDelayMetric, map[string]string{
		shell.LogAttrCommandType: "LendBook",
	}))
	assert.True(t, metrics.HasCounterRecord(shell.CommandHandlerMaxRetriesReachedMetric, map[string]string{
		"final_error_type": "concurrency_conflict",
	}))
}

func Test_RetryWithExponentialBackoff_InvalidOptions(t *testing.T) {
	fn := func(_ context.Context) error { return nil }

	_, err := shell.RetryWithExponentialBackoff(context.Background(), fn, shell.WithMaxAttempts(0))
	assert.ErrorIs(t, err, shell.ErrInvalidMaxAttempts)

	_, err = shell.RetryWithExponentialBackoff(context.Background(), fn, shell.WithBaseDelay(-1*time.Second))
	assert.ErrorIs(t, err, shell.ErrNegativeBaseDelay)

	_, err = shell.RetryWithExponentialBackoff(context.Background(), fn, shell.WithJitterFactor(1.5))
	assert.ErrorIs(t, err, shell.ErrInvalidJitterFactor)

	_, err = shell.RetryWithExponentialBackoff(context.Background(), fn, shell.WithMetrics(nil, "LendBook"))
	assert.ErrorIs(t, err, shell.ErrNilMetricsCollector)

	_, err = shell.RetryWithExponentialBackoff(context.Background(), fn,
		shell.WithMetrics(testdoubles.NewMetricsCollectorSpy(), ""),
	)
	assert.ErrorIs(t, err, shell.ErrEmptyCommandType)
}
