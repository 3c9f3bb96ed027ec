package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRetrier(maxAttempts int, waits *[]time.Duration) *Retrier {
	r := NewRetrier(maxAttempts, 1*time.Second, 60*time.Second)
	r.wait = func(ctx context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
	return r
}

func TestRetrier_SucceedsFirstAttempt(t *testing.T) {
	var waits []time.Duration
	r := testRetrier(10, &waits)

	calls := 0
	err := r.Do(context.Background(), "op", func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, waits)
}

func TestRetrier_BackoffScheduleAndExhaustion(t *testing.T) {
	var waits []time.Duration
	r := testRetrier(10, &waits)

	calls := 0
	boom := errors.New("boom")
	err := r.Do(context.Background(), "op", func(context.Context) error {
		calls++
		return boom
	})

	require.Error(t, err)
	assert.Equal(t, 10, calls, "budget is 10 attempts total")

	// Nine sleeps between ten attempts, doubling and capping at 60s.
	expected := []time.Duration{
		1 * time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second,
		16 * time.Second, 32 * time.Second, 60 * time.Second, 60 * time.Second,
		60 * time.Second,
	}
	assert.Equal(t, expected, waits)

	assert.ErrorIs(t, err, ErrRetriesExhausted)
	assert.ErrorIs(t, err, boom, "terminal error still carries the last attempt's cause")

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 10, exhausted.Attempts)
	assert.Equal(t, "op", exhausted.Op)
}

func TestRetrier_RecoversMidBudget(t *testing.T) {
	var waits []time.Duration
	r := testRetrier(10, &waits)

	calls := 0
	err := r.Do(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 4 {
			return errors.New("flaky")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}, waits)
}

func TestRetrier_RetriesPermanentErrorsToo(t *testing.T) {
	// The retry policy is deliberately blind to classification; callers
	// inspect the error kind only after exhaustion.
	var waits []time.Duration
	r := testRetrier(3, &waits)

	calls := 0
	err := r.Do(context.Background(), "op", func(context.Context) error {
		calls++
		return &FetchError{Kind: Permanent, Endpoint: "op", Err: errors.New("bad key")}
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.False(t, IsTransient(err))
}

func TestRetrier_StopsOnContextCancel(t *testing.T) {
	r := NewRetrier(10, 1*time.Second, 60*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	r.wait = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	err := r.Do(ctx, "op", func(context.Context) error {
		calls++
		return errors.New("boom")
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "no further attempts after cancellation")
	assert.NotErrorIs(t, err, ErrRetriesExhausted)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&FetchError{Kind: Transient}))
	assert.False(t, IsTransient(&FetchError{Kind: Permanent}))
	assert.True(t, IsTransient(errors.New("unclassified")), "unknown errors default to transient")
}
