package hub

import (
	"sync"

	"github.com/google/uuid"

	"github.com/yaijs/hub/tree"
)

// regKey identifies one native binding: root node identity plus occurrence
// type. Exactly one registration exists per key, regardless of how many
// descendants qualify or how much the tree churns.
type regKey struct {
	root tree.Node
	typ  string
}

// registration is one native binding and its current descriptor.
type registration struct {
	id     string
	key    regKey
	scope  Scope
	unbind func()

	mu      sync.Mutex
	desc    Descriptor
	deliver func(tree.Occurrence)
}

// state returns the current descriptor and scope under the registration
// lock. Both may change on re-registration of the same key.
func (r *registration) state() (Descriptor, Scope) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.desc, r.scope
}

// listenerRegistry maintains the (root, type) -> registration table.
type listenerRegistry struct {
	mu     sync.Mutex
	binder tree.Binder
	regs   map[regKey]*registration
	torn   bool
}

func newListenerRegistry(binder tree.Binder) *listenerRegistry {
	return &listenerRegistry{
		binder: binder,
		regs:   make(map[regKey]*registration),
	}
}

// register adds or reuses a binding for (root, desc.Type). Calling it
// twice with the same key updates the stored descriptor and never creates
// a second native binding. entry is the engine's dispatch entry point for
// this registration.
func (lr *listenerRegistry) register(root tree.Node, desc Descriptor, scope Scope, entry func(*registration, tree.Occurrence)) (*registration, error) {
	if desc.Type == "" {
		return nil, ErrEmptyType
	}

	lr.mu.Lock()
	defer lr.mu.Unlock()
	if lr.torn {
		return nil, ErrDestroyed
	}

	key := regKey{root: root, typ: desc.Type}
	if existing, ok := lr.regs[key]; ok {
		// Last write wins: replace the descriptor, keep the binding.
		existing.mu.Lock()
		existing.desc = desc
		existing.deliver = nil // rebuilt on next occurrence
		existing.scope = scope
		existing.mu.Unlock()
		return existing, nil
	}

	reg := &registration{
		id:    uuid.NewString(),
		key:   key,
		scope: scope,
		desc:  desc,
	}
	unbind, err := lr.binder.Bind(root, tree.BindSpec{Type: desc.Type, Capture: desc.Capture}, func(occ tree.Occurrence) {
		entry(reg, occ)
	})
	if err != nil {
		return nil, err
	}
	reg.unbind = unbind
	lr.regs[key] = reg
	return reg, nil
}

// unregister removes exactly the binding for (root, occurrenceType).
func (lr *listenerRegistry) unregister(root tree.Node, occurrenceType string) bool {
	lr.mu.Lock()
	key := regKey{root: root, typ: occurrenceType}
	reg, ok := lr.regs[key]
	if ok {
		delete(lr.regs, key)
	}
	lr.mu.Unlock()

	if !ok {
		return false
	}
	reg.unbind()
	return true
}

// remove drops a specific registration, used for Once descriptors.
func (lr *listenerRegistry) remove(reg *registration) {
	lr.mu.Lock()
	current, ok := lr.regs[reg.key]
	if ok && current == reg {
		delete(lr.regs, reg.key)
	} else {
		ok = false
	}
	lr.mu.Unlock()

	if ok {
		reg.unbind()
	}
}

// byType returns a snapshot of the registrations for one occurrence type.
func (lr *listenerRegistry) byType(occurrenceType string) []*registration {
	lr.mu.Lock()
	defer lr.mu.Unlock()

	var regs []*registration
	for key, reg := range lr.regs {
		if key.typ == occurrenceType {
			regs = append(regs, reg)
		}
	}
	return regs
}

// has reports whether a binding exists for (root, occurrenceType).
func (lr *listenerRegistry) has(root tree.Node, occurrenceType string) bool {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	_, ok := lr.regs[regKey{root: root, typ: occurrenceType}]
	return ok
}

// size returns the number of live native bindings.
func (lr *listenerRegistry) size() int {
	lr.mu.Lock()
	defer lr.mu.Unlock()
	return len(lr.regs)
}

// teardown removes all bindings unconditionally. Idempotent.
func (lr *listenerRegistry) teardown() {
	lr.mu.Lock()
	regs := lr.regs
	lr.regs = make(map[regKey]*registration)
	lr.torn = true
	lr.mu.Unlock()

	for _, reg := range regs {
		reg.unbind()
	}
}
