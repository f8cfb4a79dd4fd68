// Package htmltree adapts a golang.org/x/net/html node tree to the
// engine's tree.Node and tree.Binder interfaces. It is a complete host
// platform shim: it parses markup, answers selector queries, tracks
// attachment across mutation, and raises synthetic occurrences that bubble
// from a target to the document root.
//
// The selector language is deliberately small: a comma-separated list of
// compound selectors made of an optional tag name, "#id", ".class" and
// "[attr]" / "[attr=value]" parts. Scope combinators are the engine's
// business, not the adapter's.
//
// A Document and its nodes are not safe for concurrent mutation; they
// model the single-threaded occurrence loop of the host platform.
package htmltree
