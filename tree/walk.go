package tree

// Unrelated is the sentinel distance returned when a container is not an
// ancestor-or-self of a target.
const Unrelated = -1

// Hops counts the parent steps from target up to container, inclusive of
// both ends: a container equal to the target has distance 0. Returns
// Unrelated when container is not on target's ancestor chain.
func Hops(target, container Node) int {
	if target == nil || container == nil {
		return Unrelated
	}
	hops := 0
	for n := target; n != nil; n = n.Parent() {
		if n == container {
			return hops
		}
		hops++
	}
	return Unrelated
}

// IsAncestorOrSelf reports whether container is target itself or one of
// its ancestors.
func IsAncestorOrSelf(container, target Node) bool {
	return Hops(target, container) != Unrelated
}

// WalkUp visits target and each of its ancestors in order, stopping after
// the visit of stop (inclusive) or when fn returns false. It returns the
// node fn accepted, or nil if fn accepted none before the walk ended.
func WalkUp(target, stop Node, fn func(Node) bool) Node {
	for n := target; n != nil; n = n.Parent() {
		if fn(n) {
			return n
		}
		if n == stop {
			return nil
		}
	}
	return nil
}
