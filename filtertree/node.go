package filtertree

import (
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/filters"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

// FilterNode is one element of the rooted forest (spec §4.C7): a heap-owned
// wrapper around a filters.Filter plus its tree position and the bookkeeping
// the scheduler leaves behind after a refresh (output frames for the
// renderer, console messages, selection devices). Grounded on the teacher's
// Node (node.go): ID/Parent/children fields, AddChild/RemoveChild semantics,
// and the "owned, not shared" disposal model -- generalised from a 2D
// render-tree node to a filter-tree node.
type FilterNode struct {
	id     uint64
	Filter filters.Filter

	parent   *FilterNode
	children []*FilterNode

	lastOutput       []stream.Frame
	consoleMessages  []string
	selectionDevices []stream.Primitive

	disposed bool
}

// ID returns the node's unique, tree-assigned identifier.
func (n *FilterNode) ID() uint64 { return n.id }

// Parent returns the node's parent, or nil if it is a tree root.
func (n *FilterNode) Parent() *FilterNode { return n.parent }

// Children returns the child list. The returned slice MUST NOT be mutated.
func (n *FilterNode) Children() []*FilterNode { return n.children }

// NumChildren returns the number of children.
func (n *FilterNode) NumChildren() int { return len(n.children) }

// ChildAt returns the child at index i. Panics if out of range.
func (n *FilterNode) ChildAt(i int) *FilterNode { return n.children[i] }

// LastOutput returns the frames this node produced on its most recent
// refresh (spec §4.C7 step 4: "return per-node output lists so the renderer
// can draw them").
func (n *FilterNode) LastOutput() []stream.Frame { return n.lastOutput }

// ConsoleMessages returns the warnings accumulated during the node's most
// recent refresh, including its own error message if refresh failed.
func (n *FilterNode) ConsoleMessages() []string { return n.consoleMessages }

// SelectionDevices returns the user-manipulable handles on draw primitives
// this node produced last refresh (spec §4.C6's "selection devices" field).
func (n *FilterNode) SelectionDevices() []stream.Primitive { return n.selectionDevices }

// IsDisposed reports whether the node has been removed from its tree and
// torn down.
func (n *FilterNode) IsDisposed() bool { return n.disposed }

// Tree is a rooted forest of FilterNode values (spec §4.C7): multiple roots
// are allowed, parent-child order is stable under persistence, and caches
// are monotone under invalidation. Grounded on the teacher's Scene-owns-tree
// pattern (scene.go holds the root Node); here the Tree itself owns a slice
// of roots instead of a single root, since spec.md explicitly allows a
// multi-root forest.
type Tree struct {
	roots  []*FilterNode
	nextID uint64
}

// New returns an empty filter tree.
func New() *Tree {
	return &Tree{}
}

// Roots returns the tree's root nodes, in stable left-to-right order.
func (t *Tree) Roots() []*FilterNode { return t.roots }

// NumRoots returns the number of root nodes.
func (t *Tree) NumRoots() int { return len(t.roots) }

func (t *Tree) nextNodeID() uint64 {
	t.nextID++
	return t.nextID
}

// NewNode wraps f in a freshly-identified, unattached FilterNode. Callers
// attach it with AddRoot or AddChild.
func (t *Tree) NewNode(f filters.Filter) *FilterNode {
	return &FilterNode{id: t.nextNodeID(), Filter: f}
}

// AddRoot attaches n as a new tree root. Panics if n is nil or already
// attached to a parent.
func (t *Tree) AddRoot(n *FilterNode) {
	if n == nil {
		panic("filtertree: cannot add nil root")
	}
	if n.parent != nil {
		panic("filtertree: node already has a parent")
	}
	t.roots = append(t.roots, n)
}

// AddChild appends child as the last child of parent. Panics if either
// argument is nil or if child is an ancestor of parent (which would create
// a cycle) -- mirroring the teacher's AddChild panic, per SPEC_FULL.md §1's
// decision that reparent-cycle attempts are a programmer-error panic, the
// same spot willow panics in its own AddChild.
func (t *Tree) AddChild(parent, child *FilterNode) {
	if parent == nil || child == nil {
		panic("filtertree: cannot add nil node")
	}
	if isAncestor(child, parent) {
		panic("filtertree: adding child would create a cycle")
	}
	if child.parent != nil {
		child.parent.removeChildByPtr(child)
	} else {
		t.removeRootByPtr(child)
	}
	child.parent = parent
	parent.children = append(parent.children, child)
}

// Reparent moves n so its new parent is newParent (nil meaning "make n a
// root"). Panics if newParent is n itself or lies within n's own subtree,
// which would create a cycle (spec §8 invariant 5 / scenario S7).
func (t *Tree) Reparent(n, newParent *FilterNode) {
	if n == nil {
		panic("filtertree: cannot reparent nil node")
	}
	if newParent == nil {
		if n.parent != nil {
			n.parent.removeChildByPtr(n)
		} else {
			t.removeRootByPtr(n)
		}
		n.parent = nil
		t.roots = append(t.roots, n)
		return
	}
	t.AddChild(newParent, n)
}

// RemoveSubtree detaches n from its parent (or the root list) and disposes
// it and every descendant, releasing their owned resources. The original's
// "heap-owned, subtree removal deletes owned nodes" lifecycle (spec §3).
func (t *Tree) RemoveSubtree(n *FilterNode) {
	if n == nil {
		return
	}
	if n.parent != nil {
		n.parent.removeChildByPtr(n)
	} else {
		t.removeRootByPtr(n)
	}
	n.parent = nil
	disposeSubtree(n)
}

func disposeSubtree(n *FilterNode) {
	n.disposed = true
	for _, c := range n.children {
		c.parent = nil
		disposeSubtree(c)
	}
	n.children = nil
	n.lastOutput = nil
	n.consoleMessages = nil
	n.selectionDevices = nil
}

// CloneSubtree produces a structurally identical, cache-stripped deep copy
// of n and every descendant, with fresh node IDs (spec §3: "clone-subtree
// produces cache-stripped copies"). The clone is unattached; the caller
// places it with AddRoot or AddChild.
func (t *Tree) CloneSubtree(n *FilterNode) *FilterNode {
	clone := &FilterNode{id: t.nextNodeID(), Filter: n.Filter.CloneUncached()}
	for _, c := range n.children {
		childClone := t.CloneSubtree(c)
		childClone.parent = clone
		clone.children = append(clone.children, childClone)
	}
	return clone
}

// SwapWholeTrees exchanges t's roots with other's roots (spec §4.C7's
// "swap-whole-trees" topology op), e.g. to atomically replace the active
// tree with a stashed one without reparenting every node individually.
func (t *Tree) SwapWholeTrees(other *Tree) {
	t.roots, other.roots = other.roots, t.roots
}

// AddFilterTreeAsSubtree grafts every root of sub onto parent as new
// children (or as new tree roots, if parent is nil), renumbering sub's node
// IDs so they don't collide with t's. sub is left empty.
func (t *Tree) AddFilterTreeAsSubtree(parent *FilterNode, sub *Tree) {
	for _, r := range sub.roots {
		renumber(t, r)
		if parent == nil {
			r.parent = nil
			t.roots = append(t.roots, r)
		} else {
			r.parent = parent
			parent.children = append(parent.children, r)
		}
	}
	sub.roots = nil
}

func renumber(t *Tree, n *FilterNode) {
	n.id = t.nextNodeID()
	for _, c := range n.children {
		renumber(t, c)
	}
}

// ClearCache invalidates n's cache and every descendant's cache, matching
// spec §4.C7's cache policy: "clearing a node's cache clears all descendant
// caches".
func ClearCache(n *FilterNode) {
	n.Filter.InvalidateCache()
	for _, c := range n.children {
		ClearCache(c)
	}
}

// Walk visits every node in the tree, depth-first, left-to-right sibling
// order (spec §5's ordering guarantee: "the tree's left-to-right sibling
// order determines emission order").
func (t *Tree) Walk(fn func(*FilterNode)) {
	for _, r := range t.roots {
		walkSubtree(r, fn)
	}
}

func walkSubtree(n *FilterNode, fn func(*FilterNode)) {
	fn(n)
	for _, c := range n.children {
		walkSubtree(c, fn)
	}
}

// AllNodes returns every node in the tree in Walk order.
func (t *Tree) AllNodes() []*FilterNode {
	var out []*FilterNode
	t.Walk(func(n *FilterNode) { out = append(out, n) })
	return out
}

// isAncestor reports whether candidate is an ancestor of node (including
// candidate == node), mirroring the teacher's isAncestor helper used by
// AddChild's cycle check.
func isAncestor(candidate, node *FilterNode) bool {
	for p := node; p != nil; p = p.parent {
		if p == candidate {
			return true
		}
	}
	return false
}

func (n *FilterNode) removeChildByPtr(child *FilterNode) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

func (t *Tree) removeRootByPtr(n *FilterNode) {
	for i, r := range t.roots {
		if r == n {
			copy(t.roots[i:], t.roots[i+1:])
			t.roots[len(t.roots)-1] = nil
			t.roots = t.roots[:len(t.roots)-1]
			return
		}
	}
}
