package canopy

import "testing"

func TestArenaHandleGoesStale(t *testing.T) {
	var a nodeArena
	n1 := &Node{name: "one"}
	h1 := a.add(n1)
	if got := a.get(h1); got != n1 {
		t.Fatalf("get = %v, want n1", got)
	}
	a.remove(h1)
	if got := a.get(h1); got != nil {
		t.Errorf("stale handle resolved to %v", got)
	}

	// The freed slot is reused under a new generation.
	n2 := &Node{name: "two"}
	h2 := a.add(n2)
	if h2.index != h1.index {
		t.Errorf("slot not reused: index %d, want %d", h2.index, h1.index)
	}
	if h2 == h1 {
		t.Error("reused slot kept the old generation")
	}
	if a.get(h1) != nil || a.get(h2) != n2 {
		t.Error("old handle must not resolve to the new node")
	}
	if a.live != 1 {
		t.Errorf("live = %d, want 1", a.live)
	}
}

func TestArenaZeroAndForeignHandles(t *testing.T) {
	var a nodeArena
	if a.get(Handle{}) != nil {
		t.Error("zero handle resolved")
	}
	if !(Handle{}).IsZero() {
		t.Error("zero handle IsZero = false")
	}
	if a.get(Handle{index: 7, gen: 1}) != nil {
		t.Error("out-of-range handle resolved")
	}
	a.remove(Handle{index: 7, gen: 1})
	if a.live != 0 {
		t.Errorf("live = %d, want 0", a.live)
	}
}

func TestSurfaceLookupAfterRemove(t *testing.T) {
	e := newTestEnv(t)
	parent := e.box(nil, "parent", 0, 0, 50, 50)
	child := e.box(parent.Children(), "child", 0, 0, 10, 10)
	ph, ch := parent.Handle(), child.Handle()
	if e.s.NodeCount() != 2 {
		t.Fatalf("NodeCount = %d, want 2", e.s.NodeCount())
	}
	e.s.Children().Remove(parent)
	if e.s.Lookup(ph) != nil || e.s.Lookup(ch) != nil {
		t.Error("handles into a removed subtree still resolve")
	}
	if !child.IsDestroyed() {
		t.Error("child not destroyed with its parent")
	}
	if e.s.NodeCount() != 0 {
		t.Errorf("NodeCount = %d, want 0", e.s.NodeCount())
	}
	if e.s.NodeByName("child") != nil {
		t.Error("destroyed node still registered by name")
	}
}

func TestDetachedAndInnerNodeDestroy(t *testing.T) {
	e := newTestEnv(t)
	owner := e.s.NewNode("div", "owner", &Div{})
	inner := owner.NewInnerNode("div", "inner", nil)
	if inner.Parent() != owner {
		t.Fatal("inner node has wrong parent")
	}
	ih := inner.Handle()
	owner.Destroy()
	if e.s.Lookup(ih) != nil {
		t.Error("inner node survived its owner")
	}
	if e.s.NodeCount() != 0 {
		t.Errorf("NodeCount = %d, want 0", e.s.NodeCount())
	}

	attached := e.box(nil, "attached", 0, 0, 5, 5)
	attached.Destroy()
	if attached.IsDestroyed() {
		t.Error("Destroy on an attached node should be a no-op")
	}
}
