package hub

import (
	"strings"
	"time"
)

// Scope controls how far below its container a registration reaches.
type Scope int

const (
	// ScopeDescendant services any descendant of the container.
	ScopeDescendant Scope = iota

	// ScopeChild services only direct children of the container.
	ScopeChild
)

// String returns a human-readable scope name.
func (s Scope) String() string {
	switch s {
	case ScopeDescendant:
		return "descendant"
	case ScopeChild:
		return "child"
	default:
		return "unknown"
	}
}

// Selector identifies the container nodes a subscription binds to.
// A pattern starting with "> " restricts the registration to direct
// children of the matched containers.
type Selector struct {
	Pattern string
	Scope   Scope
}

// ParseSelector splits the child-scope marker off a raw pattern.
func ParseSelector(raw string) Selector {
	raw = strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(raw, ">"); ok {
		return Selector{Pattern: strings.TrimSpace(rest), Scope: ScopeChild}
	}
	return Selector{Pattern: raw, Scope: ScopeDescendant}
}

// Descriptor is one configured occurrence subscription. Immutable after
// registration; re-registering the same (root, type) key replaces the
// stored descriptor (last write wins) without creating a second native
// binding.
type Descriptor struct {
	// Type is the occurrence type, e.g. "click".
	Type string

	// Debounce coalesces rapid occurrences: the handler runs once,
	// Debounce after the most recent occurrence.
	Debounce time.Duration

	// Throttle rate-limits occurrences: the handler runs immediately,
	// then at most once per Throttle.
	Throttle time.Duration

	// HandlerName overrides the action-attribute value as the handler
	// lookup name.
	HandlerName string

	// Once removes the registration after its first successful dispatch.
	Once bool

	// Capture requests capture-phase delivery from platforms that
	// distinguish phases. Platforms without a capture phase ignore it.
	Capture bool

	// PreventDefault suppresses the platform's default reaction before
	// the handler runs.
	PreventDefault bool
}

// Type is shorthand for a bare occurrence subscription with defaults.
func Type(name string) Descriptor {
	return Descriptor{Type: name}
}

// Types builds bare descriptors for several occurrence types at once.
func Types(names ...string) []Descriptor {
	descs := make([]Descriptor, len(names))
	for i, name := range names {
		descs[i] = Descriptor{Type: name}
	}
	return descs
}

// Subscriptions maps a selector pattern to the ordered occurrence
// descriptors registered on every container it matches.
type Subscriptions map[string][]Descriptor

// Aliases remaps action names to handler names per occurrence type, before
// the handler resolution chain runs: type -> action name -> handler name.
type Aliases map[string]map[string]string

// resolveAlias returns the remapped handler name for an action, or the
// action name itself when no alias applies.
func (a Aliases) resolve(occurrenceType, action string) string {
	if byAction, ok := a[occurrenceType]; ok {
		if handler, ok := byAction[action]; ok {
			return handler
		}
	}
	return action
}
