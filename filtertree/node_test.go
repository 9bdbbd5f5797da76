package filtertree

import (
	"testing"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/filters"
)

func newDownsampleNode(t *Tree) *FilterNode {
	return t.NewNode(filters.NewDownsampleFilter())
}

func TestAddChildBuildsExpectedTopology(t *testing.T) {
	tree := New()
	a := newDownsampleNode(tree)
	b := newDownsampleNode(tree)
	tree.AddRoot(a)
	tree.AddChild(a, b)

	if tree.NumRoots() != 1 {
		t.Fatalf("got %d roots, want 1", tree.NumRoots())
	}
	if b.Parent() != a {
		t.Fatalf("b's parent = %v, want a", b.Parent())
	}
	if a.NumChildren() != 1 || a.ChildAt(0) != b {
		t.Fatalf("a's children = %v, want [b]", a.Children())
	}
}

// TestReparentRejectsCycle mirrors spec scenario S7: build A->B->D, A->C,
// then try to reparent B under D (its own descendant). This must not
// silently corrupt the tree.
func TestReparentRejectsCycle(t *testing.T) {
	tree := New()
	a := newDownsampleNode(tree)
	b := newDownsampleNode(tree)
	c := newDownsampleNode(tree)
	d := newDownsampleNode(tree)
	tree.AddRoot(a)
	tree.AddChild(a, b)
	tree.AddChild(a, c)
	tree.AddChild(b, d)

	defer func() {
		if recover() == nil {
			t.Fatal("Reparent(b, d) should panic: d is a descendant of b")
		}
	}()
	tree.Reparent(b, d)
}

func TestReparentToNilMakesRoot(t *testing.T) {
	tree := New()
	a := newDownsampleNode(tree)
	b := newDownsampleNode(tree)
	tree.AddRoot(a)
	tree.AddChild(a, b)

	tree.Reparent(b, nil)

	if b.Parent() != nil {
		t.Fatalf("b's parent = %v, want nil", b.Parent())
	}
	if a.NumChildren() != 0 {
		t.Fatalf("a still has %d children, want 0", a.NumChildren())
	}
	if tree.NumRoots() != 2 {
		t.Fatalf("got %d roots, want 2", tree.NumRoots())
	}
}

func TestCloneSubtreeIsIndependentAndCacheStripped(t *testing.T) {
	tree := New()
	a := newDownsampleNode(tree)
	b := newDownsampleNode(tree)
	tree.AddRoot(a)
	tree.AddChild(a, b)

	a.Filter.SetCacheEnabled(true)
	a.Filter.(*filters.DownsampleFilter).Fraction = 0.5
	// Force a cache-valid state via a refresh so CloneUncached has something
	// to strip.
	a.Filter.Refresh(filters.RefreshInput{})

	clone := tree.CloneSubtree(a)
	if clone.ID() == a.ID() {
		t.Fatal("clone must get a fresh ID")
	}
	if clone.Filter.CacheValid() {
		t.Fatal("cloned filter must not carry over a valid cache")
	}
	if clone.NumChildren() != 1 {
		t.Fatalf("clone has %d children, want 1", clone.NumChildren())
	}
	cloneDown := clone.Filter.(*filters.DownsampleFilter)
	if cloneDown.Fraction != 0.5 {
		t.Fatalf("clone's Fraction = %v, want 0.5", cloneDown.Fraction)
	}

	// Mutating the clone must not affect the original.
	cloneDown.Fraction = 0.1
	origDown := a.Filter.(*filters.DownsampleFilter)
	if origDown.Fraction != 0.5 {
		t.Fatalf("mutating clone changed original's Fraction to %v", origDown.Fraction)
	}
}

func TestRemoveSubtreeDisposesDescendants(t *testing.T) {
	tree := New()
	a := newDownsampleNode(tree)
	b := newDownsampleNode(tree)
	c := newDownsampleNode(tree)
	tree.AddRoot(a)
	tree.AddChild(a, b)
	tree.AddChild(b, c)

	tree.RemoveSubtree(b)

	if a.NumChildren() != 0 {
		t.Fatalf("a has %d children after removing b, want 0", a.NumChildren())
	}
	if !b.IsDisposed() || !c.IsDisposed() {
		t.Fatal("RemoveSubtree must dispose the removed node and its descendants")
	}
}

func TestWalkVisitsDepthFirstLeftToRight(t *testing.T) {
	tree := New()
	a := newDownsampleNode(tree)
	b := newDownsampleNode(tree)
	c := newDownsampleNode(tree)
	d := newDownsampleNode(tree)
	tree.AddRoot(a)
	tree.AddChild(a, b)
	tree.AddChild(a, c)
	tree.AddChild(b, d)

	var order []uint64
	tree.Walk(func(n *FilterNode) { order = append(order, n.ID()) })

	want := []uint64{a.ID(), b.ID(), d.ID(), c.ID()}
	if len(order) != len(want) {
		t.Fatalf("got %d visits, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("visit order = %v, want %v", order, want)
		}
	}
}

func TestClearCacheInvalidatesWholeSubtree(t *testing.T) {
	tree := New()
	a := newDownsampleNode(tree)
	b := newDownsampleNode(tree)
	tree.AddRoot(a)
	tree.AddChild(a, b)

	a.Filter.SetCacheEnabled(true)
	b.Filter.SetCacheEnabled(true)
	a.Filter.Refresh(filters.RefreshInput{})
	b.Filter.Refresh(filters.RefreshInput{})

	ClearCache(a)

	if a.Filter.CacheValid() || b.Filter.CacheValid() {
		t.Fatal("ClearCache must invalidate every descendant's cache")
	}
}
