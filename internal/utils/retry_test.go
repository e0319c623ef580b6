package contextutils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetrySucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryNonRetryableReturnsImmediately(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, func() error {
		calls++
		return ErrItemNotInSet
	})
	require.Error(t, err)
	assert.True(t, IsError(err, ErrItemNotInSet))
	assert.Equal(t, 1, calls)
}

func TestRetryRecoversFromTransientFailure(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, func() error {
		calls++
		if calls < 2 {
			return ErrDatabaseConnection
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryExhaustionWrapsStorageUnavailable(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, func() error {
		calls++
		return ErrServiceUnavailable
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, ErrorCodeStorageUnavailable, GetErrorCode(err))
	assert.True(t, errors.Is(err, ErrStorageUnavailable))
}

func TestRetryCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Retry(ctx, 3, func() error {
		calls++
		return ErrTimeout
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryZeroAttemptsUsesDefault(t *testing.T) {
	calls := 0
	start := time.Now()
	err := Retry(context.Background(), 0, func() error {
		calls++
		return ErrDatabaseConnection
	})
	require.Error(t, err)
	assert.Equal(t, RetryAttempts, calls)
	// Two backoff sleeps at 100ms and 200ms.
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
}
