package htmltree

import (
	"golang.org/x/net/html"

	"github.com/yaijs/hub/tree"
)

// Node wraps one element of the parsed tree. Wrappers are interned per
// document, so the same underlying element is always represented by the
// same *Node and Node values can key maps.
type Node struct {
	doc *Document
	n   *html.Node
}

var _ tree.Node = (*Node)(nil)

// Parent returns the wrapping node of the nearest element ancestor, or
// nil at the document root.
func (n *Node) Parent() tree.Node {
	if n.n == n.doc.root {
		return nil
	}
	p := n.n.Parent
	for p != nil && p.Type != html.ElementNode {
		p = p.Parent
	}
	if p == nil {
		return nil
	}
	return n.doc.node(p)
}

// Attached reports whether the node still hangs off the document root.
func (n *Node) Attached() bool {
	for cur := n.n; cur != nil; cur = cur.Parent {
		if cur == n.doc.root {
			return true
		}
	}
	return false
}

// Tag returns the element name in lower case.
func (n *Node) Tag() string {
	return n.n.Data
}

// Attr returns the value of the named attribute and whether it is set.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.n.Attr {
		if a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func (n *Node) SetAttr(name, value string) {
	for i, a := range n.n.Attr {
		if a.Key == name {
			n.n.Attr[i].Val = value
			return
		}
	}
	n.n.Attr = append(n.n.Attr, html.Attribute{Key: name, Val: value})
}

// RemoveAttr deletes an attribute if present.
func (n *Node) RemoveAttr(name string) {
	for i, a := range n.n.Attr {
		if a.Key == name {
			n.n.Attr = append(n.n.Attr[:i], n.n.Attr[i+1:]...)
			return
		}
	}
}

// Matches reports whether the node matches the selector.
func (n *Node) Matches(selector string) bool {
	return matches(n, selector)
}

// AppendChild creates a child element with the given tag and attribute
// pairs and returns its wrapper.
func (n *Node) AppendChild(tag string, attrPairs ...string) *Node {
	child := &html.Node{Type: html.ElementNode, Data: tag}
	for i := 0; i+1 < len(attrPairs); i += 2 {
		child.Attr = append(child.Attr, html.Attribute{Key: attrPairs[i], Val: attrPairs[i+1]})
	}
	n.n.AppendChild(child)
	return n.doc.node(child)
}

// Detach removes the node from its parent. Its wrapper stays valid and
// reports Attached() == false until re-inserted.
func (n *Node) Detach() {
	if n.n.Parent != nil {
		n.n.Parent.RemoveChild(n.n)
	}
}

// Append re-inserts a detached node under a new parent.
func (n *Node) Append(child *Node) {
	n.n.AppendChild(child.n)
}
