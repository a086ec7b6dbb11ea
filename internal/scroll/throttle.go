package scroll

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Throttle limits how often fn runs while guaranteeing a trailing call:
// a Trigger that arrives too early schedules one delayed run, and further
// triggers before it fires are folded into it. fn must read the latest
// state itself rather than capturing it at trigger time.
type Throttle struct {
	fn func()

	mu      sync.Mutex
	limiter *rate.Limiter
	pending *time.Timer
	stopped bool
}

// NewThrottle allows fn at most once per interval. A non-positive interval
// disables throttling.
func NewThrottle(interval time.Duration, fn func()) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Throttle{fn: fn, limiter: rate.NewLimiter(limit, 1)}
}

// Trigger runs fn now if the rate allows, otherwise makes sure it runs once
// the next slot opens.
func (t *Throttle) Trigger() {
	t.mu.Lock()
	if t.stopped || t.pending != nil {
		t.mu.Unlock()
		return
	}
	if t.limiter.Allow() {
		t.mu.Unlock()
		t.fn()
		return
	}
	delay := t.limiter.Reserve().Delay()
	t.pending = time.AfterFunc(delay, t.fire)
	t.mu.Unlock()
}

func (t *Throttle) fire() {
	t.mu.Lock()
	t.pending = nil
	stopped := t.stopped
	t.mu.Unlock()
	if !stopped {
		t.fn()
	}
}

// Pending reports whether a trailing run is scheduled.
func (t *Throttle) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending != nil
}

// Stop cancels any scheduled run; later triggers are ignored.
func (t *Throttle) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}
