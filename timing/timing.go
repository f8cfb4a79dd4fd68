// Package timing provides keyed debounce and throttle wrappers used to
// coalesce high-frequency occurrences before they reach resolution.
//
// Every wrapper is keyed by an identity string; unrelated keys never
// interfere with each other's timing state. All pending timers belong to a
// Control and are cancelled together on teardown, so a debounced call can
// never fire after the owning engine has been destroyed.
package timing

import (
	"sync"
	"time"
)

// Control owns the timing state for one engine instance.
type Control struct {
	mu       sync.Mutex
	pending  map[string]*pendingTimer
	lastFire map[string]time.Time
	stopped  bool
}

type pendingTimer struct {
	timer *time.Timer
}

// NewControl creates an empty timing control.
func NewControl() *Control {
	return &Control{
		pending:  make(map[string]*pendingTimer),
		lastFire: make(map[string]time.Time),
	}
}

// Debounce returns a wrapper around fn. Each invocation restarts the timer
// for key; fn runs exactly once, delay after the most recent call, with the
// argument of that most recent call, and only if no further call arrived in
// between.
func Debounce[T any](c *Control, fn func(T), delay time.Duration, key string) func(T) {
	return func(arg T) {
		c.mu.Lock()
		if c.stopped {
			c.mu.Unlock()
			return
		}
		if prev, ok := c.pending[key]; ok {
			prev.timer.Stop()
		}
		entry := &pendingTimer{}
		entry.timer = time.AfterFunc(delay, func() {
			c.mu.Lock()
			// A later call replaced this timer, or the control was torn
			// down while the timer was in flight.
			if c.stopped || c.pending[key] != entry {
				c.mu.Unlock()
				return
			}
			delete(c.pending, key)
			c.mu.Unlock()
			fn(arg)
		})
		c.pending[key] = entry
		c.mu.Unlock()
	}
}

// Throttle returns a wrapper around fn that executes fn immediately on the
// first call, ignores subsequent calls until interval has elapsed since the
// last execution, then allows exactly one more immediate execution.
func Throttle[T any](c *Control, fn func(T), interval time.Duration, key string) func(T) {
	return func(arg T) {
		c.mu.Lock()
		if c.stopped {
			c.mu.Unlock()
			return
		}
		now := time.Now()
		if last, ok := c.lastFire[key]; ok && now.Sub(last) < interval {
			c.mu.Unlock()
			return
		}
		c.lastFire[key] = now
		c.mu.Unlock()
		fn(arg)
	}
}

// Cancel stops the pending debounce timer for key, if any, and clears the
// throttle state for key.
func (c *Control) Cancel(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.pending[key]; ok {
		entry.timer.Stop()
		delete(c.pending, key)
	}
	delete(c.lastFire, key)
}

// CancelAll stops every pending timer and marks the control stopped.
// Wrappers invoked after CancelAll are suppressed, not errors. CancelAll is
// idempotent.
func (c *Control) CancelAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, entry := range c.pending {
		entry.timer.Stop()
		delete(c.pending, key)
	}
	c.lastFire = make(map[string]time.Time)
	c.stopped = true
}

// Pending returns the number of keys with an outstanding debounce timer.
func (c *Control) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Stopped reports whether CancelAll has been called.
func (c *Control) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}
