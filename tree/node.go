package tree

import "time"

// Node is one addressable element of the host's hierarchical tree.
//
// Implementations must have pointer-like identity: the same underlying
// node must always be represented by a Node value that compares equal to
// every other Node value for it. Node values are used as map keys.
type Node interface {
	// Parent returns the parent node, or nil at the root.
	Parent() Node

	// Attached reports whether the node is still part of its tree.
	// A detached node invalidates any cached resolution that involves it.
	Attached() bool

	// Tag returns the node's element/type name in lower case.
	Tag() string

	// Attr returns the value of the named attribute and whether it is set.
	Attr(name string) (string, bool)

	// Matches reports whether the node matches the given selector pattern.
	// The pattern language is owned by the host platform.
	Matches(selector string) bool
}

// BindSpec carries the platform-facing parameters of one binding.
type BindSpec struct {
	// Type is the occurrence type name, e.g. "click".
	Type string

	// Capture requests capture-phase delivery. Platforms without a
	// capture phase ignore it.
	Capture bool
}

// Binder is the host platform's registration surface. The engine makes
// exactly one Bind call per unique (root, occurrence type) pair.
type Binder interface {
	// Bind subscribes fn to occurrences of spec.Type whose bubble path
	// crosses root. It returns an unbind function that removes the
	// subscription.
	Bind(root Node, spec BindSpec, fn func(Occurrence)) (unbind func(), err error)

	// Query returns the nodes currently matching the selector, in
	// document order.
	Query(selector string) []Node
}

// Occurrence is one raw event raised by the host platform, before any
// resolution.
type Occurrence struct {
	// Type is the occurrence type name, e.g. "click".
	Type string

	// Target is the node the occurrence was originally raised on.
	Target Node

	// Payload carries platform- or consumer-specific data.
	Payload any

	// Time is when the occurrence was raised.
	Time time.Time

	// PreventDefault, when non-nil, suppresses the platform's default
	// reaction to the occurrence. Supplied by the platform.
	PreventDefault func()
}
