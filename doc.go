// Package hub implements an event-delegation engine for hierarchical UI
// trees: a single listener, bound once per (root node, occurrence type)
// pair, services an unbounded and dynamically changing number of
// descendant interactive nodes and routes each raw occurrence to exactly
// one correct, closest-matching handler.
//
// The engine does not render anything and does not own application state.
// The host platform supplies the tree behind the interfaces in package
// tree; consumers declare selectors, occurrence descriptors and handler
// tables, and react through hooks.
//
// Dispatch for one occurrence runs to completion before the next is
// processed: listener callback, optional debounce/throttle, target
// resolution (with distance-based disambiguation when several registered
// containers compete), handler resolution, before-handle hook, handler,
// after-handle hook. Nothing escapes dispatch as a panic; failures are
// recovered at the narrowest point and surfaced through the logger and
// stats counters.
package hub
