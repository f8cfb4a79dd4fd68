package htmltree

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/net/html"

	"github.com/yaijs/hub/tree"
)

// Document owns one parsed tree, the per-element wrapper interning table
// and the listener table behind tree.Binder.
type Document struct {
	root *html.Node // always an element node

	mu       sync.Mutex
	wrappers map[*html.Node]*Node
	bindings []*binding
}

// binding's removed flag is atomic: unbind may run on a timer goroutine
// while Raise iterates a snapshot on the caller's.
type binding struct {
	root    *Node
	typ     string
	capture bool
	fn      func(tree.Occurrence)
	removed atomic.Bool
}

var _ tree.Binder = (*Document)(nil)

// Parse builds a Document from full-page markup. The root is the <html>
// element the parser normalizes every document to.
func Parse(markup string) (*Document, error) {
	parsed, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, err
	}

	root := findElement(parsed, "html")
	if root == nil {
		// The parser always emits an html element; defensive only for a
		// hand-built input tree.
		root = parsed
	}
	return &Document{
		root:     root,
		wrappers: make(map[*html.Node]*Node),
	}, nil
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// Root returns the document's root element wrapper.
func (d *Document) Root() *Node {
	return d.node(d.root)
}

// node interns the wrapper for an underlying element.
func (d *Document) node(n *html.Node) *Node {
	d.mu.Lock()
	defer d.mu.Unlock()

	if w, ok := d.wrappers[n]; ok {
		return w
	}
	w := &Node{doc: d, n: n}
	d.wrappers[n] = w
	return w
}

// Query returns the elements matching the selector, in document order.
func (d *Document) Query(selector string) []tree.Node {
	var out []tree.Node
	d.walk(d.root, func(n *html.Node) {
		w := d.node(n)
		if matches(w, selector) {
			out = append(out, w)
		}
	})
	return out
}

// QueryOne returns the first element matching the selector, or nil.
func (d *Document) QueryOne(selector string) *Node {
	var found *Node
	d.walk(d.root, func(n *html.Node) {
		if found != nil {
			return
		}
		w := d.node(n)
		if matches(w, selector) {
			found = w
		}
	})
	return found
}

func (d *Document) walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.walk(c, visit)
	}
}

// Bind implements tree.Binder.
func (d *Document) Bind(root tree.Node, spec tree.BindSpec, fn func(tree.Occurrence)) (func(), error) {
	w, ok := root.(*Node)
	if !ok || w.doc != d {
		return nil, ErrForeignNode
	}

	b := &binding{root: w, typ: spec.Type, capture: spec.Capture, fn: fn}
	d.mu.Lock()
	d.bindings = append(d.bindings, b)
	d.mu.Unlock()

	unbind := func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		for i, cur := range d.bindings {
			if cur == b {
				d.bindings = append(d.bindings[:i], d.bindings[i+1:]...)
				b.removed.Store(true)
				return
			}
		}
	}
	return unbind, nil
}

// Bindings returns the number of live listener bindings, for tests.
func (d *Document) Bindings() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.bindings)
}

// Raise bubbles a synthetic occurrence from target to the document root,
// invoking every binding whose root lies on the bubble path and whose type
// matches. It reports whether any handler called PreventDefault.
func (d *Document) Raise(target *Node, occurrenceType string, payload any) (defaultPrevented bool) {
	occ := tree.Occurrence{
		Type:    occurrenceType,
		Target:  target,
		Payload: payload,
		Time:    time.Now(),
		PreventDefault: func() {
			defaultPrevented = true
		},
	}

	d.mu.Lock()
	snapshot := make([]*binding, len(d.bindings))
	copy(snapshot, d.bindings)
	d.mu.Unlock()

	// Bubble order: self first, then each ancestor. Bindings registered
	// on the same node fire in registration order.
	for cur := tree.Node(target); cur != nil; cur = cur.Parent() {
		for _, b := range snapshot {
			if b.removed.Load() || b.typ != occurrenceType {
				continue
			}
			if tree.Node(b.root) == cur {
				b.fn(occ)
			}
		}
	}
	return defaultPrevented
}
