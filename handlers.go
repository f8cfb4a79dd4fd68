package hub

import "context"

// Handler processes one resolved action.
type Handler interface {
	// Handle is invoked with the engine's context and the resolved
	// action. A returned error is logged and counted, never propagated
	// into the platform's occurrence loop.
	Handle(ctx context.Context, act Action) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, act Action) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, act Action) error {
	return f(ctx, act)
}

// Methods is the external per-type method map consulted during handler
// resolution: occurrence type -> handler name -> handler.
type Methods map[string]map[string]Handler

// Globals is the explicitly injected lookup table used when
// EnableGlobalFallback is set. It replaces the originating platform's
// ambient global-scope lookup.
type Globals map[string]Handler

// resolveHandler turns a handler name plus occurrence type into a callable
// following the configured precedence chain: instance-scoped handlers,
// then the external per-type method map, then the injected global table
// (only when EnableGlobalFallback is set). MethodsFirst swaps the first
// two steps. Returns nil when nothing matched.
func (e *Engine) resolveHandler(name, occurrenceType string) Handler {
	instance := func() Handler {
		e.hmu.RLock()
		defer e.hmu.RUnlock()
		return e.handlers[name]
	}
	methods := func() Handler {
		if byName, ok := e.methods[occurrenceType]; ok {
			return byName[name]
		}
		return nil
	}

	chain := []func() Handler{instance, methods}
	if e.opts.MethodsFirst {
		chain[0], chain[1] = chain[1], chain[0]
	}
	if e.opts.EnableGlobalFallback {
		chain = append(chain, func() Handler { return e.globals[name] })
	}

	for _, lookup := range chain {
		if h := lookup(); h != nil {
			return h
		}
	}
	return nil
}
