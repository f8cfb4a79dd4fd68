package htmltree

import (
	"testing"

	"github.com/yaijs/hub/tree"
)

const page = `<!DOCTYPE html>
<html><body>
  <div id="app" class="shell">
    <nav id="tabs" class="tabs main">
      <button class="tab active" data-action-click="open">One</button>
      <button class="tab" data-action-click="open"><span class="icon">*</span>Two</button>
    </nav>
    <section id="panel" data-role="content">
      <a href="#" data-action-click="follow">link</a>
    </section>
  </div>
</body></html>`

func mustParse(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse(page)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return doc
}

func TestQuery(t *testing.T) {
	doc := mustParse(t)

	tests := []struct {
		selector string
		want     int
	}{
		{"#tabs", 1},
		{"button", 2},
		{".tab", 2},
		{".tab.active", 1},
		{"button.tab.active", 1},
		{"[data-action-click]", 3},
		{"[data-role=content]", 1},
		{`[data-role="content"]`, 1},
		{"#tabs, #panel", 2},
		{"nav.tabs", 1},
		{".missing", 0},
		{"span.icon", 1},
	}

	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			if got := len(doc.Query(tt.selector)); got != tt.want {
				t.Errorf("Query(%q) returned %d nodes, want %d", tt.selector, got, tt.want)
			}
		})
	}
}

func TestNodeIdentityIsStable(t *testing.T) {
	doc := mustParse(t)

	a := doc.QueryOne("#tabs")
	b := doc.Query("#tabs")[0]
	if tree.Node(a) != b {
		t.Error("two lookups of the same element returned distinct wrappers")
	}
}

func TestParentChain(t *testing.T) {
	doc := mustParse(t)

	icon := doc.QueryOne("span.icon")
	if icon == nil {
		t.Fatal("icon not found")
	}

	button := icon.Parent()
	if button == nil || button.Tag() != "button" {
		t.Fatalf("icon.Parent() = %v", button)
	}
	nav := button.Parent()
	if nav == nil || nav.Tag() != "nav" {
		t.Fatalf("button.Parent() = %v", nav)
	}
	if d := tree.Hops(icon, nav); d != 2 {
		t.Errorf("Hops(icon, nav) = %d, want 2", d)
	}

	root := doc.Root()
	if root.Parent() != nil {
		t.Error("root.Parent() should be nil")
	}
}

func TestDetachAndReattach(t *testing.T) {
	doc := mustParse(t)

	panel := doc.QueryOne("#panel")
	if !panel.Attached() {
		t.Fatal("panel should start attached")
	}

	panel.Detach()
	if panel.Attached() {
		t.Error("detached panel still reports attached")
	}

	doc.QueryOne("#app").Append(panel)
	if !panel.Attached() {
		t.Error("re-inserted panel reports detached")
	}
}

func TestAppendChild(t *testing.T) {
	doc := mustParse(t)

	tabs := doc.QueryOne("#tabs")
	added := tabs.AppendChild("button", "class", "tab", "data-action-click", "open")

	if got := len(doc.Query(".tab")); got != 3 {
		t.Errorf("after AppendChild Query(.tab) = %d, want 3", got)
	}
	if added.Parent() != tree.Node(tabs) {
		t.Error("new child's parent is not the tabs nav")
	}
	if v, _ := added.Attr("data-action-click"); v != "open" {
		t.Errorf("attr = %q", v)
	}
}

func TestRaise_BubblesSelfFirst(t *testing.T) {
	doc := mustParse(t)

	tabs := doc.QueryOne("#tabs")
	app := doc.QueryOne("#app")
	button := doc.QueryOne("button.active")

	var order []string
	bindAt := func(n *Node, label string) {
		_, err := doc.Bind(n, tree.BindSpec{Type: "click"}, func(occ tree.Occurrence) {
			order = append(order, label)
			if occ.Target != tree.Node(button) {
				t.Errorf("occurrence target = %v, want the button", occ.Target)
			}
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	bindAt(app, "app")
	bindAt(tabs, "tabs")

	doc.Raise(button, "click", nil)

	if len(order) != 2 || order[0] != "tabs" || order[1] != "app" {
		t.Errorf("bubble order = %v, want [tabs app]", order)
	}
}

func TestRaise_TypeFiltered(t *testing.T) {
	doc := mustParse(t)

	tabs := doc.QueryOne("#tabs")
	fired := 0
	doc.Bind(tabs, tree.BindSpec{Type: "keydown"}, func(tree.Occurrence) { fired++ })

	doc.Raise(doc.QueryOne("button.active"), "click", nil)
	if fired != 0 {
		t.Error("keydown binding fired for a click")
	}

	doc.Raise(doc.QueryOne("button.active"), "keydown", nil)
	if fired != 1 {
		t.Errorf("keydown binding fired %d times, want 1", fired)
	}
}

func TestUnbind(t *testing.T) {
	doc := mustParse(t)

	tabs := doc.QueryOne("#tabs")
	fired := 0
	unbind, err := doc.Bind(tabs, tree.BindSpec{Type: "click"}, func(tree.Occurrence) { fired++ })
	if err != nil {
		t.Fatal(err)
	}
	if doc.Bindings() != 1 {
		t.Fatalf("Bindings() = %d, want 1", doc.Bindings())
	}

	unbind()
	if doc.Bindings() != 0 {
		t.Errorf("Bindings() after unbind = %d, want 0", doc.Bindings())
	}

	doc.Raise(doc.QueryOne("button.active"), "click", nil)
	if fired != 0 {
		t.Errorf("unbound listener fired %d times", fired)
	}
}

func TestUnbindConcurrentWithRaise(t *testing.T) {
	doc := mustParse(t)
	tabs := doc.QueryOne("#tabs")
	btn := doc.QueryOne("button")

	fired := 0
	unbind, err := doc.Bind(tabs, tree.BindSpec{Type: "click"}, func(tree.Occurrence) { fired++ })
	if err != nil {
		t.Fatalf("Bind() error: %v", err)
	}

	// Unbind on another goroutine while the bubble loop runs, as happens
	// when a debounced once-descriptor removes its registration from a
	// timer goroutine.
	done := make(chan struct{})
	go func() {
		unbind()
		close(done)
	}()
	for i := 0; i < 100; i++ {
		doc.Raise(btn, "click", nil)
	}
	<-done

	after := fired
	doc.Raise(btn, "click", nil)
	if fired != after {
		t.Errorf("binding fired after unbind: %d -> %d", after, fired)
	}
}

func TestRaise_PreventDefault(t *testing.T) {
	doc := mustParse(t)

	link := doc.QueryOne("a")
	doc.Bind(doc.QueryOne("#panel"), tree.BindSpec{Type: "click"}, func(occ tree.Occurrence) {
		occ.PreventDefault()
	})

	if !doc.Raise(link, "click", nil) {
		t.Error("Raise() did not report default prevented")
	}
}
