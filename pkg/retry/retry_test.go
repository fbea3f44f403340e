package retry

import (
	"context"
	"testing"
	"time"

	"github.com/orbit-llm/orbit/pkg/api"
)

// recordingSleep captures requested sleep durations without sleeping.
func recordingSleep(durations *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*durations = append(*durations, d)
		return nil
	}
}

func testPolicy(sleeps *[]time.Duration) Policy {
	p := Default()
	p.Sleep = recordingSleep(sleeps)
	return p
}

func TestDo_SucceedsAfterFailures(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	got, err := Do(context.Background(), testPolicy(&sleeps), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", api.NewServerError("boom")
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("Do() error: %v", err)
	}
	if got != "ok" {
		t.Errorf("result = %q, want ok", got)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if len(sleeps) != 2 {
		t.Errorf("sleeps = %v, want 2 entries", sleeps)
	}
}

func TestDo_ExhaustionReturnsLastError(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	_, err := Do(context.Background(), testPolicy(&sleeps), func(context.Context) (int, error) {
		calls++
		return 0, api.NewServerError("always down")
	})

	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if api.KindOf(err) != api.ErrorKindServer {
		t.Errorf("kind = %q, want server_error", api.KindOf(err))
	}
}

func TestDo_AuthenticationNeverRetried(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	_, err := Do(context.Background(), testPolicy(&sleeps), func(context.Context) (int, error) {
		calls++
		return 0, api.NewAuthenticationError("bad key")
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(sleeps) != 0 {
		t.Errorf("unexpected sleeps: %v", sleeps)
	}
	if api.KindOf(err) != api.ErrorKindAuthentication {
		t.Errorf("kind = %q, want authentication", api.KindOf(err))
	}
}

func TestDo_InvalidRequestNeverRetried(t *testing.T) {
	var sleeps []time.Duration
	calls := 0

	_, _ = Do(context.Background(), testPolicy(&sleeps), func(context.Context) (int, error) {
		calls++
		return 0, api.NewInvalidRequestError("model", "missing")
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDo_RetryAfterOverridesBackoff(t *testing.T) {
	var sleeps []time.Duration
	p := Policy{
		MaxAttempts:   4,
		BaseDelay:     time.Second,
		MaxDelay:      time.Minute,
		BackoffFactor: 10, // would dominate if the exponent advanced
		Sleep:         recordingSleep(&sleeps),
	}

	calls := 0
	_, _ = Do(context.Background(), p, func(context.Context) (int, error) {
		calls++
		switch calls {
		case 1:
			return 0, api.NewRateLimitError("slow", 2*time.Second)
		case 2, 3:
			return 0, api.NewServerError("boom")
		}
		return 1, nil
	})

	if calls != 4 {
		t.Fatalf("calls = %d, want 4", calls)
	}

	want := []time.Duration{
		2 * time.Second, // server-supplied, verbatim
		time.Second,     // first backoff: the rate-limit wait did not advance the exponent
		10 * time.Second,
	}
	if len(sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleep[%d] = %v, want %v", i, sleeps[i], want[i])
		}
	}
}

func TestDo_BackoffDelaysNonDecreasingAndCapped(t *testing.T) {
	var sleeps []time.Duration
	p := Policy{
		MaxAttempts:   6,
		BaseDelay:     time.Second,
		MaxDelay:      4 * time.Second,
		BackoffFactor: 2,
		Sleep:         recordingSleep(&sleeps),
	}

	_, _ = Do(context.Background(), p, func(context.Context) (int, error) {
		return 0, api.NewServerError("boom")
	})

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 4 * time.Second, 4 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("sleeps = %v, want %v", sleeps, want)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Errorf("sleep[%d] = %v, want %v", i, sleeps[i], want[i])
		}
		if i > 0 && sleeps[i] < sleeps[i-1] {
			t.Errorf("delays decreased at %d: %v", i, sleeps)
		}
	}
}

func TestDo_CancellationStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	p := Default()
	p.Sleep = func(context.Context, time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := Do(ctx, p, func(context.Context) (int, error) {
		calls++
		return 0, api.NewServerError("boom")
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if api.KindOf(err) != api.ErrorKindTimeout {
		t.Errorf("kind = %q, want timeout", api.KindOf(err))
	}
}

func TestDo_InvalidPolicyPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid policy")
		}
	}()
	_, _ = Do(context.Background(), Policy{MaxAttempts: 0}, func(context.Context) (int, error) {
		return 0, nil
	})
}

func TestPolicyDelay(t *testing.T) {
	p := Policy{BaseDelay: time.Second, MaxDelay: 10 * time.Second, BackoffFactor: 2, MaxAttempts: 1}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{5, 10 * time.Second}, // capped
		{0, time.Second},      // clamped to first attempt
	}
	for _, tt := range tests {
		if got := p.Delay(tt.attempt); got != tt.want {
			t.Errorf("Delay(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}
