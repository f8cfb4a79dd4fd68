package tree

import (
	"sync"
	"sync/atomic"
)

// DistanceCache memoizes parent-hop counts between targets and containers.
// It is used to disambiguate overlapping registered containers: when more
// than one container is an ancestor-or-self of a resolved target, the one
// with the smallest distance wins.
//
// Entries are keyed two-level, target then container. A cached entry is
// served only while its target is still attached; a detached target's
// entries are discarded and recomputed, never returned stale.
type DistanceCache struct {
	mu      sync.Mutex
	entries map[Node]map[Node]int
	enabled bool

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewDistanceCache creates a distance cache. When enabled is false the
// cache computes every distance fresh and keeps no entries.
func NewDistanceCache(enabled bool) *DistanceCache {
	return &DistanceCache{
		entries: make(map[Node]map[Node]int),
		enabled: enabled,
	}
}

// Distance returns the number of parent hops from target to container, or
// Unrelated if container is not an ancestor-or-self of target.
func (c *DistanceCache) Distance(target, container Node) int {
	if target == nil || container == nil {
		return Unrelated
	}
	if !c.enabled {
		return Hops(target, container)
	}

	c.mu.Lock()
	if byContainer, ok := c.entries[target]; ok {
		if !target.Attached() {
			// Stale subtree: every distance through this target is suspect.
			delete(c.entries, target)
		} else if d, ok := byContainer[container]; ok {
			c.mu.Unlock()
			c.hits.Add(1)
			return d
		}
	}
	c.mu.Unlock()

	c.misses.Add(1)
	d := Hops(target, container)

	// A distance computed against a detached target would be stale the
	// moment the node is re-inserted elsewhere, so it is never memoized.
	if target.Attached() {
		c.mu.Lock()
		byContainer, ok := c.entries[target]
		if !ok {
			byContainer = make(map[Node]int)
			c.entries[target] = byContainer
		}
		byContainer[container] = d
		c.mu.Unlock()
	}

	return d
}

// Invalidate drops every cached entry for the given target.
func (c *DistanceCache) Invalidate(target Node) {
	c.mu.Lock()
	delete(c.entries, target)
	c.mu.Unlock()
}

// Clear drops all cached entries.
func (c *DistanceCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[Node]map[Node]int)
	c.mu.Unlock()
}

// Len returns the number of targets with cached entries.
func (c *DistanceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Hits returns the number of lookups served from cache.
func (c *DistanceCache) Hits() uint64 { return c.hits.Load() }

// Misses returns the number of lookups that required a tree walk.
func (c *DistanceCache) Misses() uint64 { return c.misses.Load() }
