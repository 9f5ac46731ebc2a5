package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
)

// fastPolicy keeps test backoffs in the microsecond range.
func fastPolicy(attempts int) Policy {
	return Policy{
		MaxAttempts:    attempts,
		InitialBackoff: time.Microsecond,
		MaxBackoff:     time.Millisecond,
		Multiplier:     2,
	}
}

func TestPolicy_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := fastPolicy(3).do(context.Background(), "op", func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPolicy_RetriesTransientError(t *testing.T) {
	calls := 0
	err := fastPolicy(3).do(context.Background(), "op", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPolicy_ExhaustionWrapsLastError(t *testing.T) {
	calls := 0
	underlying := errors.New("service overloaded")
	err := fastPolicy(3).do(context.Background(), "score", func(context.Context) error {
		calls++
		return underlying
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.ErrorIs(t, err, domain.ErrRetryExhausted)
	assert.ErrorIs(t, err, underlying)
	assert.Contains(t, err.Error(), "score")
}

func TestPolicy_InvalidInputNotRetried(t *testing.T) {
	calls := 0
	err := fastPolicy(3).do(context.Background(), "op", func(context.Context) error {
		calls++
		return domain.ErrInvalidInput
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.NotErrorIs(t, err, domain.ErrRetryExhausted)
	assert.Equal(t, 1, calls)
}

func TestPolicy_ContextCancelledNotRetried(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := fastPolicy(3).do(ctx, "op", func(context.Context) error {
		calls++
		cancel()
		return ctx.Err()
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestPolicy_ZeroValueUsesDefaults(t *testing.T) {
	p := Policy{}.normalise()
	def := DefaultPolicy()

	assert.Equal(t, def, p)
}

func TestJitter_WithinBounds(t *testing.T) {
	delay := 100 * time.Millisecond
	for i := 0; i < 50; i++ {
		d := jitter(delay)
		assert.GreaterOrEqual(t, d, delay/2)
		assert.LessOrEqual(t, d, delay)
	}
}
