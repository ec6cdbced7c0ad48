package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorStrategy_StringRoundTrip(t *testing.T) {
	for _, s := range []ErrorStrategy{
		ErrorStrategyTerminate, ErrorStrategyFinish, ErrorStrategyIgnore, ErrorStrategyRetry,
	} {
		parsed, err := ParseErrorStrategy(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
}

func TestParseErrorStrategy_EmptyDefaultsToTerminate(t *testing.T) {
	s, err := ParseErrorStrategy("")
	require.NoError(t, err)
	assert.Equal(t, ErrorStrategyTerminate, s)
}

func TestParseErrorStrategy_Unknown(t *testing.T) {
	_, err := ParseErrorStrategy("explode")
	assert.ErrorIs(t, err, ErrInvalidRebuildStrategy)
}

func TestClassify_ProcessNotRecoverableIsAlwaysTerminal(t *testing.T) {
	d := Classify(ErrorKindProcessNotRecoverable, ErrorStrategyIgnore, 0, 3, 0, -1)
	assert.True(t, d.Terminate)
	assert.False(t, d.LogOnly)
}

func TestClassify_AbortIsAlwaysTerminal(t *testing.T) {
	d := Classify(ErrorKindAbort, ErrorStrategyRetry, 0, 3, 0, -1)
	assert.True(t, d.Terminate)
}

func TestClassify_GuardFailureNeverTerminatesProcessor(t *testing.T) {
	d := Classify(ErrorKindGuardFailure, ErrorStrategyTerminate, 0, 3, 0, -1)
	assert.False(t, d.Terminate)
	assert.False(t, d.Quiesce)
	assert.False(t, d.Retry)
}

func TestClassify_Ignore(t *testing.T) {
	d := Classify(ErrorKindProcessFailed, ErrorStrategyIgnore, 0, 3, 0, -1)
	assert.True(t, d.LogOnly)
	assert.False(t, d.Terminate)
}

func TestClassify_Finish(t *testing.T) {
	d := Classify(ErrorKindProcessFailed, ErrorStrategyFinish, 0, 3, 0, -1)
	assert.True(t, d.Quiesce)
	assert.False(t, d.Terminate)
}

func TestClassify_Terminate(t *testing.T) {
	d := Classify(ErrorKindProcessFailed, ErrorStrategyTerminate, 0, 3, 0, -1)
	assert.True(t, d.Terminate)
}

func TestClassify_RetryUnderLimit(t *testing.T) {
	d := Classify(ErrorKindProcessFailed, ErrorStrategyRetry, 1, 3, 0, -1)
	assert.True(t, d.Retry)
	assert.False(t, d.Terminate)
}

func TestClassify_RetryExhaustsMaxRetries(t *testing.T) {
	d := Classify(ErrorKindProcessFailed, ErrorStrategyRetry, 3, 3, 0, -1)
	assert.False(t, d.Retry)
	assert.True(t, d.Terminate)
}

func TestClassify_RetryExhaustsMaxErrors(t *testing.T) {
	d := Classify(ErrorKindProcessFailed, ErrorStrategyRetry, 0, 3, 5, 4)
	assert.False(t, d.Retry)
	assert.True(t, d.Terminate)
}

func TestClassify_RetryUnboundedMaxErrors(t *testing.T) {
	d := Classify(ErrorKindProcessFailed, ErrorStrategyRetry, 0, 3, 1000, -1)
	assert.True(t, d.Retry)
}
