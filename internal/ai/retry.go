package ai

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net"
	"time"

	"github.com/avast/retry-go/v4"
)

// retryPolicy retries 429/5xx and transient network failures with exponential
// backoff. A Retry-After hint from the provider replaces the computed delay.
type retryPolicy struct {
	attempts  uint
	baseDelay time.Duration
	maxDelay  time.Duration
}

func newRetryPolicy(attempts int, baseDelay, maxDelay time.Duration) retryPolicy {
	if attempts <= 0 {
		attempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 500 * time.Millisecond
	}
	if maxDelay <= 0 {
		maxDelay = 4 * time.Second
	}
	return retryPolicy{attempts: uint(attempts), baseDelay: baseDelay, maxDelay: maxDelay}
}

func (p retryPolicy) do(ctx context.Context, fn func() error) error {
	return retry.Do(
		fn,
		retry.Context(ctx),
		retry.Attempts(p.attempts),
		retry.RetryIf(isRetryable),
		retry.DelayType(p.delay),
		retry.LastErrorOnly(true),
	)
}

func (p retryPolicy) delay(n uint, err error, _ *retry.Config) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	d := p.baseDelay
	for i := uint(0); i < n && d < p.maxDelay; i++ {
		d *= 2
	}
	d = withJitter(d)
	if d > p.maxDelay {
		d = p.maxDelay
	}
	return d
}

func isRetryable(err error) bool {
	var (
		rl  *RateLimitError
		srv *ServerError
	)
	if errors.As(err, &rl) || errors.As(err, &srv) {
		return true
	}
	return isRetryableNetErr(err)
}

func isRetryableNetErr(err error) bool {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return true
	}
	// EOF or connection reset
	return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
}

// withJitter returns a backoff duration with +/- 20% jitter applied.
func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 500 * time.Millisecond
	}
	f := 0.8 + rand.Float64()*0.4
	out := time.Duration(float64(d) * f)
	if out <= 0 {
		return d
	}
	return out
}
