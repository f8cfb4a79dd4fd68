package hub

import "sync/atomic"

// Stats contains engine diagnostics.
type Stats struct {
	// Registrations is the current number of live native bindings.
	Registrations int

	// OccurrencesSeen counts occurrence deliveries into the engine's
	// bindings. One raw occurrence bubbling across N bound containers of
	// its type counts N times.
	OccurrencesSeen uint64

	// OccurrencesHandled counts occurrences routed to a handler.
	OccurrencesHandled uint64

	// OccurrencesDropped counts occurrences dropped with no actionable
	// target or no resolvable handler.
	OccurrencesDropped uint64

	// HandlerErrors counts handler invocations that returned an error.
	HandlerErrors uint64

	// HandlerPanics counts handler invocations that panicked.
	HandlerPanics uint64

	// HookPanics counts hook callbacks that panicked.
	HookPanics uint64

	// Emits counts synthetic Emit dispatches.
	Emits uint64

	// CacheHits and CacheMisses come from the distance cache.
	CacheHits   uint64
	CacheMisses uint64

	// PendingTimers is the number of outstanding debounce timers.
	PendingTimers int
}

// counters holds the engine's atomic stat counters.
type counters struct {
	seen          atomic.Uint64
	handled       atomic.Uint64
	dropped       atomic.Uint64
	handlerErrors atomic.Uint64
	handlerPanics atomic.Uint64
	hookPanics    atomic.Uint64
	emits         atomic.Uint64
}

// count increments an atomic counter when stats are enabled.
func (e *Engine) count(c *atomic.Uint64) {
	if e.opts.EnableStats {
		c.Add(1)
	}
}

// Stats returns a snapshot of the engine's diagnostic counts.
func (e *Engine) Stats() Stats {
	return Stats{
		Registrations:      e.registry.size(),
		OccurrencesSeen:    e.counters.seen.Load(),
		OccurrencesHandled: e.counters.handled.Load(),
		OccurrencesDropped: e.counters.dropped.Load(),
		HandlerErrors:      e.counters.handlerErrors.Load(),
		HandlerPanics:      e.counters.handlerPanics.Load(),
		HookPanics:         e.counters.hookPanics.Load(),
		Emits:              e.counters.emits.Load(),
		CacheHits:          e.cache.Hits(),
		CacheMisses:        e.cache.Misses(),
		PendingTimers:      e.timing.Pending(),
	}
}
