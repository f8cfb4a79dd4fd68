// Package hook provides named, ordered, multi-subscriber callback lists
// fired around dispatch, independent of the native occurrence pipeline.
//
// Callbacks for one name run in registration order. A callback that panics
// is recovered and reported; the remaining callbacks in the list still run.
package hook

import (
	"reflect"
	"sync"
)

// Callback is one hook subscriber. It receives the dispatch context and
// the engine instance that fired the hook.
type Callback func(ctx any, instance any)

// PanicFunc is notified when a callback panics. The hook run continues
// with the next callback.
type PanicFunc func(name string, recovered any)

// Handle identifies one registration for removal.
type Handle struct {
	name string
	id   uint64
}

// Name returns the hook name the handle belongs to.
func (h Handle) Name() string { return h.name }

type subscriber struct {
	id uint64
	cb Callback
}

// Registry is the ordered multi-subscriber hook store for one engine.
type Registry struct {
	mu      sync.RWMutex
	subs    map[string][]subscriber
	nextID  uint64
	onPanic PanicFunc
}

// NewRegistry creates an empty registry. onPanic may be nil.
func NewRegistry(onPanic PanicFunc) *Registry {
	return &Registry{
		subs:    make(map[string][]subscriber),
		onPanic: onPanic,
	}
}

// Add appends cb to the list for name, creating the list if absent, and
// returns a removal handle.
func (r *Registry) Add(name string, cb Callback) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	r.subs[name] = append(r.subs[name], subscriber{id: id, cb: cb})
	return Handle{name: name, id: id}
}

// Remove removes the first callback registered under name whose function
// identity equals cb. Returns false when nothing matched.
func (r *Registry) Remove(name string, cb Callback) bool {
	ptr := reflect.ValueOf(cb).Pointer()

	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.subs[name]
	for i, s := range subs {
		if reflect.ValueOf(s.cb).Pointer() == ptr {
			r.subs[name] = append(subs[:i:i], subs[i+1:]...)
			r.cleanup(name)
			return true
		}
	}
	return false
}

// RemoveHandle removes the registration identified by h.
func (r *Registry) RemoveHandle(h Handle) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs := r.subs[h.name]
	for i, s := range subs {
		if s.id == h.id {
			r.subs[h.name] = append(subs[:i:i], subs[i+1:]...)
			r.cleanup(h.name)
			return true
		}
	}
	return false
}

// Clear empties the list for name.
func (r *Registry) Clear(name string) {
	r.mu.Lock()
	delete(r.subs, name)
	r.mu.Unlock()
}

// ClearAll empties every list.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	r.subs = make(map[string][]subscriber)
	r.mu.Unlock()
}

// Run invokes every callback registered under name, in registration order.
// Iteration happens over a snapshot, so callbacks may call Add, Remove or
// Clear for any hook, including the one being run, without corrupting the
// list. Panics are recovered per callback.
func (r *Registry) Run(name string, ctx, instance any) {
	r.mu.RLock()
	subs := r.subs[name]
	snapshot := make([]subscriber, len(subs))
	copy(snapshot, subs)
	r.mu.RUnlock()

	for _, s := range snapshot {
		r.invoke(name, s.cb, ctx, instance)
	}
}

func (r *Registry) invoke(name string, cb Callback, ctx, instance any) {
	defer func() {
		if recovered := recover(); recovered != nil && r.onPanic != nil {
			r.onPanic(name, recovered)
		}
	}()
	cb(ctx, instance)
}

// Count returns the number of callbacks registered under name.
func (r *Registry) Count(name string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs[name])
}

// Names returns the hook names that currently have subscribers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.subs))
	for name := range r.subs {
		names = append(names, name)
	}
	return names
}

// cleanup drops empty lists; callers must hold the write lock.
func (r *Registry) cleanup(name string) {
	if len(r.subs[name]) == 0 {
		delete(r.subs, name)
	}
}
