package tree

import "testing"

// fakeNode is a minimal Node for cache and walk tests.
type fakeNode struct {
	tag      string
	parent   *fakeNode
	attached bool
	attrs    map[string]string
}

func newFake(tag string, parent *fakeNode) *fakeNode {
	return &fakeNode{tag: tag, parent: parent, attached: true}
}

func (f *fakeNode) Parent() Node {
	if f.parent == nil {
		return nil
	}
	return f.parent
}

func (f *fakeNode) Attached() bool { return f.attached }
func (f *fakeNode) Tag() string    { return f.tag }

func (f *fakeNode) Attr(name string) (string, bool) {
	v, ok := f.attrs[name]
	return v, ok
}

func (f *fakeNode) Matches(selector string) bool { return f.tag == selector }

// chain builds root -> ... -> leaf with n+1 nodes and returns (root, leaf).
func chain(n int) (*fakeNode, *fakeNode) {
	root := newFake("root", nil)
	cur := root
	for i := 0; i < n; i++ {
		cur = newFake("div", cur)
	}
	return root, cur
}

func TestHops(t *testing.T) {
	root, leaf := chain(3)

	tests := []struct {
		name      string
		target    Node
		container Node
		want      int
	}{
		{"self", leaf, leaf, 0},
		{"to root", leaf, root, 3},
		{"root self", root, root, 0},
		{"unrelated", root, leaf, Unrelated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Hops(tt.target, tt.container); got != tt.want {
				t.Errorf("Hops() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestHops_Unrelated(t *testing.T) {
	rootA, leafA := chain(2)
	_, leafB := chain(2)

	if got := Hops(leafA, leafB); got != Unrelated {
		t.Errorf("Hops(leafA, leafB) = %d, want Unrelated", got)
	}
	if got := Hops(leafB, rootA); got != Unrelated {
		t.Errorf("Hops(leafB, rootA) = %d, want Unrelated", got)
	}
	if got := Hops(nil, rootA); got != Unrelated {
		t.Errorf("Hops(nil, rootA) = %d, want Unrelated", got)
	}
}

func TestIsAncestorOrSelf(t *testing.T) {
	root, leaf := chain(2)

	if !IsAncestorOrSelf(root, leaf) {
		t.Error("expected root to be ancestor of leaf")
	}
	if !IsAncestorOrSelf(leaf, leaf) {
		t.Error("expected leaf to be ancestor-or-self of itself")
	}
	if IsAncestorOrSelf(leaf, root) {
		t.Error("leaf must not be ancestor of root")
	}
}

func TestWalkUp_StopsAtBoundary(t *testing.T) {
	root, leaf := chain(3)
	mid := leaf.parent

	visited := 0
	got := WalkUp(leaf, mid, func(n Node) bool {
		visited++
		return false
	})
	if got != nil {
		t.Errorf("WalkUp accepted %v, want nil", got)
	}
	if visited != 2 {
		t.Errorf("visited %d nodes, want 2 (leaf and mid)", visited)
	}
	_ = root
}

func TestDistanceCache_HitMiss(t *testing.T) {
	root, leaf := chain(4)
	c := NewDistanceCache(true)

	if d := c.Distance(leaf, root); d != 4 {
		t.Fatalf("first Distance() = %d, want 4", d)
	}
	if hits, misses := c.Hits(), c.Misses(); hits != 0 || misses != 1 {
		t.Fatalf("after first call hits=%d misses=%d, want 0/1", hits, misses)
	}

	if d := c.Distance(leaf, root); d != 4 {
		t.Fatalf("second Distance() = %d, want 4", d)
	}
	if hits := c.Hits(); hits != 1 {
		t.Errorf("after second call hits = %d, want 1", hits)
	}
}

func TestDistanceCache_DetachInvalidates(t *testing.T) {
	root, leaf := chain(2)
	c := NewDistanceCache(true)

	if d := c.Distance(leaf, root); d != 2 {
		t.Fatalf("Distance() = %d, want 2", d)
	}

	// Detach and reparent closer to the root.
	leaf.attached = false
	if d := c.Distance(leaf, root); d != 2 {
		t.Fatalf("Distance() after detach = %d, want recompute to 2", d)
	}
	if c.Hits() != 0 {
		t.Errorf("detached target must not be served from cache, hits = %d", c.Hits())
	}

	leaf.parent = root
	leaf.attached = true
	if d := c.Distance(leaf, root); d != 1 {
		t.Errorf("Distance() after reparent = %d, want 1", d)
	}
}

func TestDistanceCache_Disabled(t *testing.T) {
	root, leaf := chain(3)
	c := NewDistanceCache(false)

	c.Distance(leaf, root)
	c.Distance(leaf, root)
	if c.Len() != 0 {
		t.Errorf("disabled cache stored %d targets, want 0", c.Len())
	}
	if c.Hits() != 0 {
		t.Errorf("disabled cache reported %d hits, want 0", c.Hits())
	}
}

func TestDistanceCache_UnrelatedIsCached(t *testing.T) {
	_, leafA := chain(2)
	_, leafB := chain(2)
	c := NewDistanceCache(true)

	if d := c.Distance(leafA, leafB); d != Unrelated {
		t.Fatalf("Distance() = %d, want Unrelated", d)
	}
	if d := c.Distance(leafA, leafB); d != Unrelated {
		t.Fatalf("cached Distance() = %d, want Unrelated", d)
	}
	if c.Hits() != 1 {
		t.Errorf("hits = %d, want 1", c.Hits())
	}
}

func TestDistanceCache_Clear(t *testing.T) {
	root, leaf := chain(2)
	c := NewDistanceCache(true)

	c.Distance(leaf, root)
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}
}
