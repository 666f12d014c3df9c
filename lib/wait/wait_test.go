package wait

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gravitational/trace"
	"github.com/stretchr/testify/require"
)

func TestPollSucceedsOnceConditionHolds(t *testing.T) {
	var calls int
	err := Poll(time.Second, 10*time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return Continue("attempt %v", calls)
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestPollTimesOut(t *testing.T) {
	start := time.Now()
	err := Poll(100*time.Millisecond, 20*time.Millisecond, func() error {
		return errors.New("not yet")
	})
	require.Error(t, err)
	require.True(t, trace.IsLimitExceeded(err), "%v", err)
	require.True(t, time.Since(start) >= 100*time.Millisecond)
}

func TestPollAbort(t *testing.T) {
	cause := trace.NotFound("gone")
	var calls int
	err := Poll(time.Second, 10*time.Millisecond, func() error {
		calls++
		return Abort(cause)
	})
	require.Equal(t, cause, err)
	require.Equal(t, 1, calls)
}

func TestPollWithoutTimeoutChecksOnce(t *testing.T) {
	var calls int
	err := Poll(0, 10*time.Millisecond, func() error {
		calls++
		return errors.New("not yet")
	})
	require.True(t, trace.IsLimitExceeded(err), "%v", err)
	require.Equal(t, 1, calls)
}

func TestRetryerExhaustsAttempts(t *testing.T) {
	var calls int
	cause := errors.New("failed")
	err := Retryer{Delay: time.Millisecond, Attempts: 3}.Do(context.Background(), func() error {
		calls++
		return cause
	})
	require.Equal(t, cause, err)
	require.Equal(t, 3, calls)
}

func TestRetryerAborts(t *testing.T) {
	var calls int
	cause := errors.New("fatal")
	err := Retryer{Delay: time.Millisecond, Attempts: 5}.Do(context.Background(), func() error {
		calls++
		return Abort(cause)
	})
	require.Equal(t, cause, err)
	require.Equal(t, 1, calls)
}

func TestRetryerHonorsCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Retryer{Delay: time.Millisecond, Attempts: 5}.Do(ctx, func() error {
		t.Fatal("unexpected call")
		return nil
	})
	require.Error(t, err)
}
