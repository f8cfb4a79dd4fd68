package hub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yaijs/hub/config"
	"github.com/yaijs/hub/hook"
	"github.com/yaijs/hub/timing"
	"github.com/yaijs/hub/tree"
)

// Engine is one event-delegation instance. It owns its listener registry,
// distance cache, hook lists and timing control exclusively; dispatch is
// driven by the host's occurrence loop and runs to completion per
// occurrence, but the engine tolerates reentrancy (handlers and hooks may
// register, unregister or destroy during dispatch).
type Engine struct {
	binder  tree.Binder
	opts    config.Options
	aliases Aliases

	methods Methods
	globals Globals

	hmu      sync.RWMutex
	handlers map[string]Handler

	registry *listenerRegistry
	cache    *tree.DistanceCache
	hooks    *hook.Registry
	timing   *timing.Control

	ctx       context.Context
	cancel    context.CancelFunc
	destroyed atomic.Bool

	watchers   []*config.Watcher
	watchersMu sync.Mutex

	counters counters
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithOptions replaces the engine flags. Typically built via
// config.Default or config.FromMap.
func WithOptions(opts config.Options) Option {
	return func(e *Engine) {
		if opts.Logger == nil {
			opts.Logger = config.Default().Logger
		}
		e.opts = opts
	}
}

// WithMethods injects the external per-type method map.
func WithMethods(m Methods) Option {
	return func(e *Engine) { e.methods = m }
}

// WithGlobals injects the global fallback lookup table, consulted only
// when EnableGlobalFallback is set.
func WithGlobals(g Globals) Option {
	return func(e *Engine) { e.globals = g }
}

// New constructs an engine bound to the host platform's binder and
// registers the given subscriptions: each selector pattern is resolved to
// its current container nodes and every descriptor yields at most one
// native binding per (container, type) pair.
func New(binder tree.Binder, selectors Subscriptions, aliases Aliases, opts ...Option) (*Engine, error) {
	if binder == nil {
		return nil, ErrNilBinder
	}

	e := &Engine{
		binder:   binder,
		opts:     config.Default(),
		aliases:  aliases,
		handlers: make(map[string]Handler),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.registry = newListenerRegistry(binder)
	e.cache = tree.NewDistanceCache(e.opts.EnableDistanceCache)
	e.hooks = hook.NewRegistry(func(name string, recovered any) {
		e.count(&e.counters.hookPanics)
		e.opts.Logger.Printf("hub: hook %q callback panicked: %v", name, recovered)
	})
	e.timing = timing.NewControl()

	if e.opts.AbortEnabled {
		e.ctx, e.cancel = context.WithCancel(context.Background())
	} else {
		e.ctx = context.Background()
	}

	for pattern, descs := range selectors {
		if err := e.Register(pattern, descs...); err != nil {
			e.Destroy()
			return nil, err
		}
	}
	return e, nil
}

// Register resolves a selector pattern to its current container nodes and
// binds every descriptor on each of them. Registering an already bound
// (container, type) pair updates the stored descriptor in place.
func (e *Engine) Register(pattern string, descs ...Descriptor) error {
	if e.destroyed.Load() {
		return ErrDestroyed
	}

	sel := ParseSelector(pattern)
	for _, root := range e.binder.Query(sel.Pattern) {
		for _, desc := range descs {
			if _, err := e.registry.register(root, desc, sel.Scope, e.entry); err != nil {
				return err
			}
		}
	}
	return nil
}

// RegisterNode binds one descriptor directly on a container node.
func (e *Engine) RegisterNode(root tree.Node, desc Descriptor) error {
	if e.destroyed.Load() {
		return ErrDestroyed
	}
	_, err := e.registry.register(root, desc, ScopeDescendant, e.entry)
	return err
}

// Unregister removes exactly the binding for (root, occurrenceType).
func (e *Engine) Unregister(root tree.Node, occurrenceType string) bool {
	return e.registry.unregister(root, occurrenceType)
}

// On registers an instance-scoped handler under a name. It is the first
// step of the handler resolution chain (unless MethodsFirst is set).
// Returns the engine for chaining.
func (e *Engine) On(name string, h Handler) *Engine {
	if h == nil {
		e.opts.Logger.Printf("hub: On(%q): %v", name, ErrNilHandler)
		return e
	}
	e.hmu.Lock()
	e.handlers[name] = h
	e.hmu.Unlock()
	return e
}

// OnFunc registers a function as an instance-scoped handler.
func (e *Engine) OnFunc(name string, fn HandlerFunc) *Engine {
	return e.On(name, fn)
}

// Subscribe is an alias of OnFunc.
func (e *Engine) Subscribe(name string, fn HandlerFunc) *Engine {
	return e.OnFunc(name, fn)
}

// Off removes an instance-scoped handler.
func (e *Engine) Off(name string) *Engine {
	e.hmu.Lock()
	delete(e.handlers, name)
	e.hmu.Unlock()
	return e
}

// Hook appends a callback to the named hook list, creating the list if
// absent. Returns the engine for chaining.
func (e *Engine) Hook(name string, cb hook.Callback) *Engine {
	e.hooks.Add(name, cb)
	return e
}

// HookHandle appends a callback and returns a removal handle.
func (e *Engine) HookHandle(name string, cb hook.Callback) hook.Handle {
	return e.hooks.Add(name, cb)
}

// Unhook removes the first callback registered under name with the same
// function identity.
func (e *Engine) Unhook(name string, cb hook.Callback) bool {
	return e.hooks.Remove(name, cb)
}

// ClearHooks empties the named hook list.
func (e *Engine) ClearHooks(name string) *Engine {
	e.hooks.Clear(name)
	return e
}

// RunHook fires a consumer-defined hook through the engine's registry.
func (e *Engine) RunHook(name string, ctx any) *Engine {
	e.hooks.Run(name, ctx, e)
	return e
}

// WatchOptions hot-reloads a TOML option file: each change re-parses the
// file and fires the config-changed hook with the fresh option tree.
// Engine flags stay read-only; consumers decide how to react. The watcher
// is closed by Destroy.
func (e *Engine) WatchOptions(path string, debounce time.Duration) error {
	if e.destroyed.Load() {
		return ErrDestroyed
	}

	w, err := config.WatchFile(path, debounce, func(options map[string]any, err error) {
		if err != nil {
			e.opts.Logger.Printf("hub: option reload failed: %v", err)
			return
		}
		e.hooks.Run(HookConfigChanged, options, e)
	})
	if err != nil {
		return err
	}

	e.watchersMu.Lock()
	e.watchers = append(e.watchers, w)
	e.watchersMu.Unlock()
	return nil
}

// Context returns the engine's cancellation context. It is the background
// context unless AbortEnabled is set.
func (e *Engine) Context() context.Context {
	return e.ctx
}

// Destroyed reports whether Destroy has run.
func (e *Engine) Destroyed() bool {
	return e.destroyed.Load()
}

// Destroy removes every listener registration, clears the distance cache,
// clears every hook list, cancels pending timers and signals the
// cancellation token when enabled. Idempotent, and safe to call from
// within a hook callback of the occurrence being torn down.
func (e *Engine) Destroy() {
	if !e.destroyed.CompareAndSwap(false, true) {
		return
	}

	if e.cancel != nil {
		e.cancel()
	}

	e.watchersMu.Lock()
	watchers := e.watchers
	e.watchers = nil
	e.watchersMu.Unlock()
	for _, w := range watchers {
		_ = w.Close()
	}

	e.timing.CancelAll()
	e.registry.teardown()
	e.cache.Clear()
	e.hooks.ClearAll()
}

// Abort signals cooperative cancellation and tears the engine down. When
// AbortEnabled is not set it behaves like Destroy.
func (e *Engine) Abort() {
	e.Destroy()
}
