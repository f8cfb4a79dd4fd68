package hub

import "github.com/yaijs/hub/tree"

// actionAttr returns the scoped action attribute name for an occurrence
// type, e.g. "data-action-click".
func (e *Engine) actionAttr(occurrenceType string) string {
	return e.opts.ActionPrefix + "-" + occurrenceType
}

// isActionable reports whether a node qualifies to receive a resolved
// action for the given occurrence type: it carries the type-scoped action
// attribute, its tag is in the actionable tag set, or it is itself a
// container registered for the same type (a pre-resolved inner target).
func (e *Engine) isActionable(n tree.Node, occurrenceType string) bool {
	if _, ok := n.Attr(e.actionAttr(occurrenceType)); ok {
		return true
	}
	if _, ok := n.Attr(e.opts.ActionPrefix); ok {
		return true
	}
	tag := n.Tag()
	for _, t := range e.opts.ActionableTags {
		if t == tag {
			return true
		}
	}
	return e.registry.has(n, occurrenceType)
}

// resolveActionable walks the ancestor chain from rawTarget, inclusive, up
// to and including container, returning the nearest actionable node or nil
// when none qualifies. With AutoTargetResolution disabled only the literal
// raw target is inspected, so a decorative node nested inside a control
// will not resolve to the control.
func (e *Engine) resolveActionable(rawTarget, container tree.Node, occurrenceType string) tree.Node {
	if rawTarget == nil {
		return nil
	}

	if !e.opts.AutoTargetResolution {
		if tree.IsAncestorOrSelf(container, rawTarget) && e.isActionable(rawTarget, occurrenceType) {
			return rawTarget
		}
		return nil
	}

	return tree.WalkUp(rawTarget, container, func(n tree.Node) bool {
		return e.isActionable(n, occurrenceType)
	})
}

// actionName extracts the action name carried by a resolved target: the
// type-scoped attribute first, then the bare action attribute.
func (e *Engine) actionName(target tree.Node, occurrenceType string) (string, bool) {
	if name, ok := target.Attr(e.actionAttr(occurrenceType)); ok && name != "" {
		return name, true
	}
	if name, ok := target.Attr(e.opts.ActionPrefix); ok && name != "" {
		return name, true
	}
	return "", false
}

// wins decides the multi-container disambiguation: among all registered
// containers for the occurrence type that are ancestors-or-self of the
// resolved target AND able to accept the occurrence, only the one with
// minimum distance fires. A container equal to the target (distance 0)
// always wins.
func (e *Engine) wins(reg *registration, target tree.Node) bool {
	own := e.cache.Distance(target, reg.key.root)
	if own == tree.Unrelated {
		return false
	}
	if own == 0 {
		return true
	}

	for _, other := range e.registry.byType(reg.key.typ) {
		if other == reg {
			continue
		}
		d := e.cache.Distance(target, other.key.root)
		if d == tree.Unrelated || d >= own {
			continue
		}
		// A closer container suppresses this one only if its own dispatch
		// would accept the occurrence; a child-scope registration too far
		// from the target rejects it and must not shadow anyone.
		if _, scope := other.state(); scope == ScopeChild && d > 1 {
			continue
		}
		return false
	}
	return true
}
