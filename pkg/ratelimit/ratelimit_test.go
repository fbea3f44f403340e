package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// fakeClock is a manually advanced clock for limiter tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestAdmit_DeniesExactlyAtCapacity(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(3, time.Minute, clock.Now)

	for i := 0; i < 3; i++ {
		if !l.Admit() {
			t.Fatalf("Admit() = false at %d recorded, want true", i)
		}
		l.Record()
	}

	if l.Admit() {
		t.Error("Admit() = true at capacity, want false")
	}
	if got := l.Live(); got != 3 {
		t.Errorf("Live() = %d, want 3", got)
	}
}

func TestAdmit_RecoversAfterWindow(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(2, time.Minute, clock.Now)

	l.Record()
	l.Record()
	if l.Admit() {
		t.Fatal("Admit() = true at capacity")
	}

	clock.Advance(time.Minute + time.Millisecond)
	if !l.Admit() {
		t.Error("Admit() = false after the window elapsed")
	}
	if got := l.Live(); got != 0 {
		t.Errorf("Live() = %d after expiry, want 0", got)
	}
}

func TestAdmit_DoesNotRecord(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(1, time.Minute, clock.Now)

	// Checking repeatedly must not consume the slot.
	for i := 0; i < 5; i++ {
		if !l.Admit() {
			t.Fatalf("Admit() = false on check %d with empty window", i)
		}
	}
	if got := l.Live(); got != 0 {
		t.Errorf("Live() = %d after admission checks, want 0", got)
	}
}

func TestTimeUntilReset(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(2, time.Minute, clock.Now)

	if got := l.TimeUntilReset(); got != 0 {
		t.Errorf("TimeUntilReset() = %v on empty window, want 0", got)
	}

	l.Record()
	clock.Advance(20 * time.Second)
	l.Record()

	if got := l.TimeUntilReset(); got != 40*time.Second {
		t.Errorf("TimeUntilReset() = %v, want 40s", got)
	}

	// After the oldest stamp expires, the next one governs.
	clock.Advance(40*time.Second + time.Millisecond)
	got := l.TimeUntilReset()
	want := 20*time.Second - time.Millisecond
	if got != want {
		t.Errorf("TimeUntilReset() = %v, want %v", got, want)
	}
}

func TestPartialExpiry(t *testing.T) {
	clock := newFakeClock()
	l := NewWithClock(3, time.Minute, clock.Now)

	l.Record()
	clock.Advance(30 * time.Second)
	l.Record()
	l.Record()

	if l.Admit() {
		t.Fatal("Admit() = true at capacity")
	}

	// Only the first stamp has aged out.
	clock.Advance(31 * time.Second)
	if !l.Admit() {
		t.Error("Admit() = false after partial expiry")
	}
	if got := l.Live(); got != 2 {
		t.Errorf("Live() = %d, want 2", got)
	}
}

func TestConcurrentRecord(t *testing.T) {
	l := New(1000, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				if l.Admit() {
					l.Record()
				}
			}
		}()
	}
	wg.Wait()

	if got := l.Live(); got > 1000 {
		t.Errorf("Live() = %d, exceeds capacity", got)
	}
}

func TestNewPanicsOnInvalidArgs(t *testing.T) {
	tests := []struct {
		name   string
		max    int
		window time.Duration
	}{
		{"zero max", 0, time.Minute},
		{"negative max", -1, time.Minute},
		{"zero window", 5, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			New(tt.max, tt.window)
		})
	}
}
