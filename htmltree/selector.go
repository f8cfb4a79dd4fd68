package htmltree

import (
	"errors"
	"strings"
)

// ErrForeignNode is returned when a node from another document is passed
// to a Document's binder surface.
var ErrForeignNode = errors.New("node does not belong to this document")

// matches evaluates a comma-separated list of compound selectors against
// one element.
func matches(n *Node, selector string) bool {
	for _, alt := range strings.Split(selector, ",") {
		if matchCompound(n, strings.TrimSpace(alt)) {
			return true
		}
	}
	return false
}

// matchCompound evaluates a single compound selector: optional tag name
// followed by any number of #id, .class and [attr] / [attr=value] parts.
func matchCompound(n *Node, sel string) bool {
	if sel == "" {
		return false
	}
	if sel == "*" {
		return true
	}

	rest := sel
	// Leading tag name runs until the first #, . or [.
	if end := strings.IndexAny(rest, "#.["); end != 0 {
		tag := rest
		if end > 0 {
			tag = rest[:end]
			rest = rest[end:]
		} else {
			rest = ""
		}
		if n.Tag() != strings.ToLower(tag) {
			return false
		}
	}

	for rest != "" {
		switch rest[0] {
		case '#':
			part, tail := cutPart(rest[1:])
			id, ok := n.Attr("id")
			if !ok || id != part {
				return false
			}
			rest = tail
		case '.':
			part, tail := cutPart(rest[1:])
			if !hasClass(n, part) {
				return false
			}
			rest = tail
		case '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return false
			}
			if !matchAttr(n, rest[1:end]) {
				return false
			}
			rest = rest[end+1:]
		default:
			return false
		}
	}
	return true
}

// cutPart splits an identifier off the front of a compound tail.
func cutPart(s string) (part, tail string) {
	if end := strings.IndexAny(s, "#.["); end >= 0 {
		return s[:end], s[end:]
	}
	return s, ""
}

func matchAttr(n *Node, expr string) bool {
	if key, want, ok := strings.Cut(expr, "="); ok {
		want = strings.Trim(want, `"'`)
		got, exists := n.Attr(strings.TrimSpace(key))
		return exists && got == want
	}
	_, exists := n.Attr(strings.TrimSpace(expr))
	return exists
}

func hasClass(n *Node, class string) bool {
	attr, ok := n.Attr("class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(attr) {
		if c == class {
			return true
		}
	}
	return false
}
