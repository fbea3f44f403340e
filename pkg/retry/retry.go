// Package retry implements the retry-with-backoff policy of the request
// pipeline. Attempts are strictly sequential; delays follow a capped
// exponential law except when the server supplies an explicit wait.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/orbit-llm/orbit/pkg/api"
)

// Policy configures retry behavior for one pipeline call.
type Policy struct {
	// MaxAttempts includes the initial attempt. Must be >= 1.
	MaxAttempts int

	// BaseDelay seeds the exponential backoff.
	BaseDelay time.Duration

	// MaxDelay caps the computed backoff delay.
	MaxDelay time.Duration

	// BackoffFactor multiplies the delay per retried attempt. Must be > 1.
	BackoffFactor float64

	// Sleep overrides the context-aware timer sleep; nil selects the default.
	// Tests use it to observe delays without waiting them out.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Default returns the policy used when the configuration does not override it.
func Default() Policy {
	return Policy{
		MaxAttempts:   3,
		BaseDelay:     time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2,
	}
}

// Validate reports a misconfigured policy. Invalid policies are programmer
// errors; Do panics on them rather than limping along.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return fmt.Errorf("retry: MaxAttempts must be >= 1, got %d", p.MaxAttempts)
	}
	if p.BaseDelay < 0 || p.MaxDelay < 0 {
		return fmt.Errorf("retry: delays must be non-negative")
	}
	if p.BackoffFactor <= 1 {
		return fmt.Errorf("retry: BackoffFactor must be > 1, got %g", p.BackoffFactor)
	}
	return nil
}

// Delay returns the backoff delay before retrying after the given failed
// attempt (1-based): min(BaseDelay * BackoffFactor^(attempt-1), MaxDelay).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(p.BaseDelay) * math.Pow(p.BackoffFactor, float64(attempt-1))
	if max := float64(p.MaxDelay); d > max {
		d = max
	}
	return time.Duration(d)
}

// Do invokes fn up to MaxAttempts times, sleeping between attempts.
//
// Decision per failure:
//   - Authentication and invalid-request errors are returned immediately.
//   - A rate-limit error carrying a server-supplied Retry-After waits exactly
//     that long; the wait does not advance the backoff exponent.
//   - Any other failure waits the capped exponential delay.
//
// Context cancellation aborts both between attempts and during sleeps; fn is
// never invoked concurrently with itself.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	if err := p.Validate(); err != nil {
		panic(err)
	}

	sleep := p.Sleep
	if sleep == nil {
		sleep = ctxSleep
	}

	var lastErr error
	backoffs := 0 // failures that advanced the exponential schedule

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, api.NewTimeoutError("request aborted: " + err.Error())
		}

		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !api.IsRetryable(err) {
			return zero, err
		}
		if attempt == p.MaxAttempts {
			break
		}

		var wait time.Duration
		if ra := api.RetryAfterOf(err); ra > 0 {
			wait = ra
		} else {
			backoffs++
			wait = p.Delay(backoffs)
		}

		slog.Debug("retrying after failure",
			"attempt", attempt,
			"kind", api.KindOf(err),
			"wait", wait,
		)

		if err := sleep(ctx, wait); err != nil {
			return zero, api.NewTimeoutError("request aborted: " + err.Error())
		}
	}

	return zero, lastErr
}

// ctxSleep sleeps for d or until the context is done, whichever comes first.
func ctxSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
