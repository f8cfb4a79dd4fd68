package hub

import (
	"github.com/yaijs/hub/timing"
	"github.com/yaijs/hub/tree"
)

// Implicit hook names bracketing every successful dispatch. Additional
// named hooks are consumer-defined and fired through the same primitive.
const (
	HookBeforeHandle  = "before-handle"
	HookAfterHandle   = "after-handle"
	HookConfigChanged = "config-changed"
)

// Action is the ephemeral per-occurrence resolution result handed to
// handlers and to the before-handle/after-handle hooks.
type Action struct {
	// Occurrence is the raw platform occurrence.
	Occurrence tree.Occurrence

	// RawTarget is the node the occurrence was originally raised on.
	RawTarget tree.Node

	// Target is the nearest actionable node the raw target resolved to.
	Target tree.Node

	// Container is the registered node whose binding won the occurrence.
	Container tree.Node

	// Name is the resolved action name.
	Name string

	// Handler is the name the action resolved to after descriptor
	// overrides and aliases.
	Handler string

	// Distance is the parent-hop count from Target to Container.
	Distance int

	// Err carries the handler's error, if any, into the after-handle
	// hook. Nil during before-handle.
	Err error
}

// entry is the single bound callback for one registration. It applies the
// registration's timing control and forwards to dispatch.
func (e *Engine) entry(reg *registration, occ tree.Occurrence) {
	if e.destroyed.Load() {
		return
	}

	reg.mu.Lock()
	if reg.deliver == nil {
		reg.deliver = e.buildDeliver(reg)
	}
	deliver := reg.deliver
	reg.mu.Unlock()

	deliver(occ)
}

// buildDeliver wraps dispatch in the descriptor's debounce or throttle
// control. Timing state is keyed by registration identity so unrelated
// occurrence types and selectors never interfere. Callers hold reg.mu.
func (e *Engine) buildDeliver(reg *registration) func(tree.Occurrence) {
	raw := func(occ tree.Occurrence) {
		e.dispatch(reg, occ)
	}
	switch {
	case reg.desc.Debounce > 0:
		return timing.Debounce(e.timing, raw, reg.desc.Debounce, reg.id)
	case reg.desc.Throttle > 0:
		return timing.Throttle(e.timing, raw, reg.desc.Throttle, reg.id)
	default:
		return raw
	}
}

// dispatch routes one raw occurrence through resolution, hooks and the
// handler. It never panics and never returns an error: one consumer's
// broken handler must not prevent another consumer's registration from
// functioning, so every failure is recovered here and surfaced only via
// the logger and stats.
func (e *Engine) dispatch(reg *registration, occ tree.Occurrence) {
	if e.destroyed.Load() {
		return
	}
	e.count(&e.counters.seen)

	desc, scope := reg.state()
	container := reg.key.root

	target := e.resolveActionable(occ.Target, container, occ.Type)
	if target == nil {
		// ActionableTargetNotFound: ignored, not errored.
		e.count(&e.counters.dropped)
		return
	}

	distance := e.cache.Distance(target, container)
	if scope == ScopeChild && distance > 1 {
		e.count(&e.counters.dropped)
		return
	}

	// When several registered containers are ancestors of the same
	// resolved target, only the closest binding handles the occurrence;
	// the platform still delivers the bubbling occurrence to the rest.
	if !e.wins(reg, target) {
		return
	}

	name, ok := e.actionName(target, occ.Type)
	if !ok && desc.HandlerName == "" {
		e.count(&e.counters.dropped)
		return
	}

	handlerName := desc.HandlerName
	if handlerName == "" {
		handlerName = e.aliases.resolve(occ.Type, name)
	}

	h := e.resolveHandler(handlerName, occ.Type)
	if h == nil {
		if e.opts.EnableHandlerValidation {
			e.opts.Logger.Printf("hub: no handler resolved for action %q (type %q, lookup %q)", name, occ.Type, handlerName)
		}
		e.count(&e.counters.dropped)
		return
	}

	if desc.PreventDefault && occ.PreventDefault != nil {
		occ.PreventDefault()
	}

	act := &Action{
		Occurrence: occ,
		RawTarget:  occ.Target,
		Target:     target,
		Container:  container,
		Name:       name,
		Handler:    handlerName,
		Distance:   distance,
	}

	e.hooks.Run(HookBeforeHandle, act, e)
	if e.destroyed.Load() {
		// A before-handle callback tore the engine down mid-dispatch.
		return
	}

	act.Err = e.invoke(h, *act)
	e.hooks.Run(HookAfterHandle, act, e)
	e.count(&e.counters.handled)

	if desc.Once {
		e.registry.remove(reg)
	}
}

// invoke runs one handler with panic recovery. The returned error is for
// the after-handle hook and stats only.
func (e *Engine) invoke(h Handler, act Action) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			e.count(&e.counters.handlerPanics)
			perr := &HandlerPanicError{Action: act.Name, Type: act.Occurrence.Type, Value: recovered}
			e.opts.Logger.Printf("hub: %v: %v", perr, recovered)
			err = perr
		}
	}()

	if err := h.Handle(e.ctx, act); err != nil {
		e.count(&e.counters.handlerErrors)
		e.opts.Logger.Printf("hub: handler %q failed for action %q: %v", act.Handler, act.Name, err)
		return err
	}
	return nil
}

// Emit dispatches a synthetic action by name, outside the native
// occurrence pipeline. The handler resolves through the instance-scoped
// lookup and, when enabled, the global fallback table; before-handle and
// after-handle hooks bracket the invocation. target may be nil.
func (e *Engine) Emit(name string, payload any, target tree.Node) *Engine {
	if e.destroyed.Load() {
		return e
	}
	e.count(&e.counters.emits)

	h := e.resolveHandler(name, "")
	if h == nil {
		if e.opts.EnableHandlerValidation {
			e.opts.Logger.Printf("hub: no handler resolved for emit %q", name)
		}
		return e
	}

	act := &Action{
		Occurrence: tree.Occurrence{Type: "emit", Target: target, Payload: payload},
		RawTarget:  target,
		Target:     target,
		Name:       name,
		Handler:    name,
		Distance:   0,
	}

	e.hooks.Run(HookBeforeHandle, act, e)
	if e.destroyed.Load() {
		return e
	}
	act.Err = e.invoke(h, *act)
	e.hooks.Run(HookAfterHandle, act, e)
	return e
}
