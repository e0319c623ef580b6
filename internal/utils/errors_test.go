package contextutils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorFormatting(t *testing.T) {
	err := &AppError{
		Code:    ErrorCodeSetNotFound,
		Message: "No daily set found",
	}
	assert.Equal(t, "SET_NOT_FOUND: No daily set found", err.Error())

	err.Details = "user 7"
	assert.Equal(t, "SET_NOT_FOUND: No daily set found - user 7", err.Error())
}

func TestWrapErrorPreservesCode(t *testing.T) {
	wrapped := WrapError(ErrItemNotInSet, "while submitting")
	require.Error(t, wrapped)

	assert.True(t, IsError(wrapped, ErrItemNotInSet))
	assert.Equal(t, ErrorCodeItemNotInSet, GetErrorCode(wrapped))
	assert.True(t, errors.Is(wrapped, ErrItemNotInSet))
}

func TestWrapErrorGenericBecomesInternal(t *testing.T) {
	wrapped := WrapError(errors.New("boom"), "query failed")
	assert.Equal(t, ErrorCodeInternalError, GetErrorCode(wrapped))
	assert.Contains(t, wrapped.Error(), "query failed")
	assert.Contains(t, wrapped.Error(), "boom")
}

func TestWrapErrorNil(t *testing.T) {
	assert.NoError(t, WrapError(nil, "context"))
	assert.NoError(t, WrapErrorf(nil, "context %d", 1))
}

func TestWrapErrorfWithWVerb(t *testing.T) {
	base := errors.New("base failure")
	wrapped := WrapErrorf(base, "operation failed: %w", base)
	require.Error(t, wrapped)
	assert.True(t, errors.Is(wrapped, base))
}

func TestSentinelSeverities(t *testing.T) {
	assert.Equal(t, SeverityWarn, GetErrorSeverity(ErrCatalogExhausted))
	assert.Equal(t, SeverityError, GetErrorSeverity(ErrStorageUnavailable))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrDatabaseConnection))
	assert.True(t, IsRetryable(ErrServiceUnavailable))
	assert.True(t, IsRetryable(ErrTimeout))

	assert.False(t, IsRetryable(ErrSetNotFound))
	assert.False(t, IsRetryable(ErrItemNotInSet))
	assert.False(t, IsRetryable(ErrDuplicateQuestion))
	assert.False(t, IsRetryable(errors.New("plain")))
	assert.False(t, IsRetryable(nil))
}

func TestUserIDContextRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), 42)
	assert.Equal(t, 42, GetUserIDFromContext(ctx))
	assert.Zero(t, GetUserIDFromContext(context.Background()))
}
