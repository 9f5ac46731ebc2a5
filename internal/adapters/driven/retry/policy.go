// Package retry decorates the embedding and completion services with
// a token-bucket rate limiter and a bounded retry policy. External AI
// calls are the only unbounded-latency operations in the pipeline, so
// this is where transient failures get absorbed.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	"github.com/markwise-labs/markwise-cli/internal/core/domain"
	"github.com/markwise-labs/markwise-cli/internal/logger"
)

// Policy bounds retries of a single external call.
type Policy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration

	// MaxBackoff caps the delay between retries.
	MaxBackoff time.Duration

	// Multiplier grows the delay after each failed attempt.
	Multiplier float64
}

// DefaultPolicy returns the standard retry bounds.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:    3,
		InitialBackoff: time.Second,
		MaxBackoff:     30 * time.Second,
		Multiplier:     2,
	}
}

// Config holds the decorator settings shared by both services.
type Config struct {
	// Policy bounds retries. Zero value falls back to DefaultPolicy.
	Policy Policy

	// RequestsPerSecond is the sustained call rate. Zero disables
	// rate limiting.
	RequestsPerSecond float64

	// Burst is the token bucket size.
	Burst int
}

// newLimiter builds the token bucket, or nil when limiting is off.
func newLimiter(cfg Config) *rate.Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
}

// normalise fills unset policy fields from the defaults.
func (p Policy) normalise() Policy {
	def := DefaultPolicy()
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = def.MaxAttempts
	}
	if p.InitialBackoff <= 0 {
		p.InitialBackoff = def.InitialBackoff
	}
	if p.MaxBackoff <= 0 {
		p.MaxBackoff = def.MaxBackoff
	}
	if p.Multiplier < 1 {
		p.Multiplier = def.Multiplier
	}
	return p
}

// do runs op under the policy. Permanent errors return immediately;
// transient ones are retried with jittered exponential backoff.
// Exhaustion wraps the last error in domain.ErrRetryExhausted.
func (p Policy) do(ctx context.Context, name string, op func(context.Context) error) error {
	p = p.normalise()

	var lastErr error
	backoff := p.InitialBackoff

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if permanent(err) {
			return err
		}
		lastErr = err

		if attempt == p.MaxAttempts {
			break
		}

		delay := jitter(backoff)
		logger.Debug("%s attempt %d/%d failed, retrying in %s: %v",
			name, attempt, p.MaxAttempts, delay.Round(time.Millisecond), err)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		backoff = time.Duration(float64(backoff) * p.Multiplier)
		if backoff > p.MaxBackoff {
			backoff = p.MaxBackoff
		}
	}

	return fmt.Errorf("%s: %w: %w", name, domain.ErrRetryExhausted, lastErr)
}

// permanent reports whether retrying cannot help.
func permanent(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, domain.ErrInvalidInput)
}

// jitter spreads a delay over [delay/2, delay) so parallel workers do
// not retry in lockstep.
func jitter(delay time.Duration) time.Duration {
	half := delay / 2
	return half + time.Duration(rand.Int63n(int64(half)+1))
}
