// Package tree defines the read-only view of the host platform's
// hierarchical node structure that the delegation engine operates on.
//
// The engine never owns or mutates the tree. A host platform (a DOM shim,
// a retained scene graph, a virtual node tree) satisfies the Node and
// Binder interfaces and the engine's resolution logic stays
// platform-agnostic.
//
// Node implementations must be comparable with stable identity: two Node
// values referring to the same underlying node must compare equal, because
// the engine keys listener registrations and distance-cache entries by
// Node value.
package tree
