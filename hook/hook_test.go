package hook

import (
	"testing"
)

func TestRegistry_RunsInRegistrationOrder(t *testing.T) {
	r := NewRegistry(nil)

	var order []string
	r.Add("x", func(ctx, instance any) { order = append(order, "cb1") })
	r.Add("x", func(ctx, instance any) { order = append(order, "cb2") })
	r.Add("x", func(ctx, instance any) { order = append(order, "cb3") })

	r.Run("x", nil, nil)

	want := []string{"cb1", "cb2", "cb3"}
	if len(order) != len(want) {
		t.Fatalf("ran %d callbacks, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
}

func TestRegistry_RemoveByIdentity(t *testing.T) {
	r := NewRegistry(nil)

	var ran []string
	cb1 := func(ctx, instance any) { ran = append(ran, "cb1") }
	cb2 := func(ctx, instance any) { ran = append(ran, "cb2") }

	r.Add("x", cb1)
	r.Add("x", cb2)

	if !r.Remove("x", cb1) {
		t.Fatal("Remove() returned false for a registered callback")
	}
	r.Run("x", nil, nil)

	if len(ran) != 1 || ran[0] != "cb2" {
		t.Errorf("after Remove ran = %v, want [cb2]", ran)
	}
	if r.Remove("x", cb1) {
		t.Error("second Remove of the same callback should return false")
	}
}

func TestRegistry_RemoveHandle(t *testing.T) {
	r := NewRegistry(nil)

	var ran int
	h1 := r.Add("x", func(ctx, instance any) { ran++ })
	h2 := r.Add("x", func(ctx, instance any) { ran++ })

	if !r.RemoveHandle(h1) {
		t.Fatal("RemoveHandle() returned false")
	}
	if r.RemoveHandle(h1) {
		t.Error("RemoveHandle() twice should return false")
	}
	r.Run("x", nil, nil)
	if ran != 1 {
		t.Errorf("ran = %d, want 1", ran)
	}
	_ = h2
}

func TestRegistry_Clear(t *testing.T) {
	r := NewRegistry(nil)
	r.Add("x", func(ctx, instance any) { t.Error("cleared callback ran") })
	r.Add("y", func(ctx, instance any) {})

	r.Clear("x")
	r.Run("x", nil, nil)

	if r.Count("x") != 0 {
		t.Errorf("Count(x) = %d after Clear", r.Count("x"))
	}
	if r.Count("y") != 1 {
		t.Errorf("Clear(x) touched y, Count(y) = %d", r.Count("y"))
	}
}

func TestRegistry_PanicIsolation(t *testing.T) {
	var panics []string
	r := NewRegistry(func(name string, recovered any) {
		panics = append(panics, name)
	})

	var after bool
	r.Add("x", func(ctx, instance any) { panic("boom") })
	r.Add("x", func(ctx, instance any) { after = true })

	r.Run("x", nil, nil)

	if !after {
		t.Error("callback after a panicking one did not run")
	}
	if len(panics) != 1 || panics[0] != "x" {
		t.Errorf("panic reports = %v, want one for x", panics)
	}
}

func TestRegistry_ReentrantMutationDuringRun(t *testing.T) {
	r := NewRegistry(nil)

	var ran []string
	var h Handle
	h = r.Add("x", func(ctx, instance any) {
		ran = append(ran, "cb1")
		// Mutating the list being iterated must be safe.
		r.RemoveHandle(h)
		r.Add("x", func(ctx, instance any) { ran = append(ran, "late") })
	})
	r.Add("x", func(ctx, instance any) { ran = append(ran, "cb2") })

	r.Run("x", nil, nil)

	// Snapshot semantics: cb1 and cb2 run; the late addition does not run
	// in this pass.
	if len(ran) != 2 || ran[0] != "cb1" || ran[1] != "cb2" {
		t.Errorf("ran = %v, want [cb1 cb2]", ran)
	}

	ran = nil
	r.Run("x", nil, nil)
	if len(ran) != 2 || ran[0] != "cb2" || ran[1] != "late" {
		t.Errorf("second pass ran = %v, want [cb2 late]", ran)
	}
}

func TestRegistry_RunPassesContextAndInstance(t *testing.T) {
	r := NewRegistry(nil)

	type payload struct{ n int }
	var gotCtx, gotInstance any
	r.Add("x", func(ctx, instance any) {
		gotCtx, gotInstance = ctx, instance
	})

	p := &payload{n: 7}
	inst := &struct{}{}
	r.Run("x", p, inst)

	if gotCtx != p {
		t.Errorf("ctx = %v, want %v", gotCtx, p)
	}
	if gotInstance != inst {
		t.Error("instance not forwarded")
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry(nil)
	r.Add("a", func(ctx, instance any) {})
	r.Add("b", func(ctx, instance any) {})

	names := r.Names()
	if len(names) != 2 {
		t.Errorf("Names() = %v, want 2 entries", names)
	}
}
