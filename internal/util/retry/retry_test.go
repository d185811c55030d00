package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fast() []Option {
	return []Option{WithInitialDelay(time.Millisecond), WithMaxDelay(2 * time.Millisecond)}
}

func TestDo_Success(t *testing.T) {
	t.Parallel()
	attempts := 0

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return nil
	}, fast()...)

	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	var retried []int

	opts := append(fast(), WithOnRetry(func(attempt int, _ error, _ time.Duration) {
		retried = append(retried, attempt)
	}))
	err := Do(context.Background(), func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	}, opts...)

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_MaxRetries(t *testing.T) {
	t.Parallel()
	attempts := 0
	transient := errors.New("transient")

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return transient
	}, append(fast(), WithMaxRetries(2))...)

	require.Error(t, err)
	assert.ErrorIs(t, err, transient)
	assert.Contains(t, err.Error(), "operation failed after 3 attempts")
	assert.Equal(t, 3, attempts)
}

func TestDo_FatalError(t *testing.T) {
	t.Parallel()
	attempts := 0
	invalid := errors.New("invalid values")

	err := Do(context.Background(), func(context.Context) error {
		attempts++
		return Fatal(invalid)
	}, fast()...)

	require.Error(t, err)
	assert.ErrorIs(t, err, invalid)
	assert.True(t, IsFatal(err))
	assert.Equal(t, 1, attempts)
}

func TestDo_ContextCancellation(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())

	err := Do(ctx, func(context.Context) error {
		cancel()
		return errors.New("transient")
	}, WithInitialDelay(time.Second))

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "context cancelled after 1 attempts")
}

func TestDo_BackoffDelays(t *testing.T) {
	t.Parallel()
	var delays []time.Duration

	_ = Do(context.Background(), func(context.Context) error {
		return errors.New("transient")
	},
		WithMaxRetries(4),
		WithInitialDelay(time.Millisecond),
		WithMaxDelay(4*time.Millisecond),
		WithMultiplier(2),
		WithOnRetry(func(_ int, _ error, d time.Duration) { delays = append(delays, d) }),
	)

	assert.Equal(t, []time.Duration{
		time.Millisecond,
		2 * time.Millisecond,
		4 * time.Millisecond,
		4 * time.Millisecond,
	}, delays)
}

func TestFatal(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Fatal(nil))

	base := errors.New("base")
	wrapped := fmt.Errorf("outer: %w", Fatal(base))
	assert.True(t, IsFatal(wrapped))
	assert.ErrorIs(t, wrapped, base)
	assert.Equal(t, "outer: base", wrapped.Error())
	assert.False(t, IsFatal(base))
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()

	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.InitialDelay)
	assert.Equal(t, 30*time.Second, cfg.MaxDelay)
	assert.InDelta(t, 2.0, cfg.Multiplier, 0)
	assert.Nil(t, cfg.OnRetry)
}
