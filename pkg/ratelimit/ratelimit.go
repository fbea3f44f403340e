// Package ratelimit implements sliding-window admission control for the
// request pipeline.
//
// Admission and recording are deliberately separate calls: a caller can
// check a slot and then decide not to proceed without polluting the window.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter admits at most maxRequests calls per trailing window. It is safe
// for concurrent use; the window is mutated under a single mutex.
type Limiter struct {
	maxRequests int
	window      time.Duration
	now         func() time.Time

	mu     sync.Mutex
	stamps []time.Time
}

// New creates a Limiter allowing maxRequests per window. Non-positive
// arguments are programmer errors.
func New(maxRequests int, window time.Duration) *Limiter {
	return NewWithClock(maxRequests, window, time.Now)
}

// NewWithClock creates a Limiter with an injected clock for tests.
func NewWithClock(maxRequests int, window time.Duration, now func() time.Time) *Limiter {
	if maxRequests <= 0 {
		panic("ratelimit: maxRequests must be positive")
	}
	if window <= 0 {
		panic("ratelimit: window must be positive")
	}
	return &Limiter{
		maxRequests: maxRequests,
		window:      window,
		now:         now,
	}
}

// Admit reports whether a call may proceed right now. It prunes expired
// timestamps but records nothing; an admitted caller must call Record
// exactly once for the accepted call.
func (l *Limiter) Admit() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())
	return len(l.stamps) < l.maxRequests
}

// Record notes one accepted call at the current instant.
func (l *Limiter) Record() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)
	l.stamps = append(l.stamps, now)
}

// TimeUntilReset returns how long until the oldest live timestamp leaves
// the window, or zero when the window is empty.
func (l *Limiter) TimeUntilReset() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)
	if len(l.stamps) == 0 {
		return 0
	}

	d := l.stamps[0].Add(l.window).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Live returns the number of non-expired recorded timestamps.
func (l *Limiter) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.prune(l.now())
	return len(l.stamps)
}

// prune drops timestamps older than the window. Callers hold l.mu.
// Stamps are appended in time order, so the live suffix is contiguous.
func (l *Limiter) prune(now time.Time) {
	cutoff := now.Add(-l.window)
	i := 0
	for i < len(l.stamps) && !l.stamps[i].After(cutoff) {
		i++
	}
	if i > 0 {
		l.stamps = append(l.stamps[:0], l.stamps[i:]...)
	}
}
