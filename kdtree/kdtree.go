// Package kdtree implements the static 3D spatial index used by the spatial
// analysis filter and the analysis package (local density, RDF/NN
// histograms) (spec §4.C4). There is no k-d tree source file in the
// retrieval pack's original_source filter, so the tree is grounded directly
// on spec.md §4.C4's requirements and built in the teacher's plain,
// dependency-free style (willow hand-rolls every data structure it needs
// rather than importing a container library, and no pack repo carries a
// spatial-index library either).
//
// The tree is built once over a caller-owned point buffer and never copies
// coordinates: every node stores an index into that buffer.
package kdtree

import (
	"sort"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/progress"
)

// Tree is a static, build-by-reference k-d tree over a caller-owned slice of
// points, splitting cyclically on x, y, z.
type Tree struct {
	points []point.Point3D
	root   *node
}

type node struct {
	idx         int
	axis        int
	bound       point.BoundCube
	left, right *node
}

// BuildOptions controls tree construction.
type BuildOptions struct {
	// Progress, if non-nil, is updated with percent-complete during build.
	Progress *progress.Reporter
	// Cancel, if non-nil, is polled every progress.PollInterval comparisons;
	// Build returns a nil tree if it reports true.
	Cancel progress.CancelFunc
}

// Build constructs a static k-d tree over pts. pts is retained by reference
// (via index, never copied) and must not be mutated while the tree is in use.
// Returns nil if opts.Cancel aborts the build.
func Build(pts []point.Point3D, opts BuildOptions) *Tree {
	if len(pts) == 0 {
		return &Tree{points: pts}
	}
	idxs := make([]int, len(pts))
	for i := range idxs {
		idxs[i] = i
	}
	b := &builder{points: pts, opts: opts, total: len(pts)}
	root := b.build(idxs, 0)
	if b.aborted {
		return nil
	}
	return &Tree{points: pts, root: root}
}

type builder struct {
	points      []point.Point3D
	opts        BuildOptions
	comparisons int
	total       int
	aborted     bool
}

func (b *builder) poll() bool {
	b.comparisons++
	if b.comparisons%progress.PollInterval != 0 {
		return false
	}
	if b.opts.Progress != nil {
		b.opts.Progress.Set(b.comparisons * 100 / max(1, b.total*20))
	}
	if progress.ShouldAbort(b.opts.Cancel) {
		b.aborted = true
		return true
	}
	return false
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// build recursively median-splits idxs on axis (cycling 0,1,2), returning the
// subtree root. idxs is consumed (reordered) by this call.
func (b *builder) build(idxs []int, axis int) *node {
	if b.aborted || len(idxs) == 0 {
		return nil
	}

	sort.Slice(idxs, func(i, j int) bool {
		if b.poll() {
			return false
		}
		return b.points[idxs[i]].Component(axis) < b.points[idxs[j]].Component(axis)
	})
	if b.aborted {
		return nil
	}

	mid := len(idxs) / 2
	n := &node{idx: idxs[mid], axis: axis}

	nextAxis := (axis + 1) % 3
	n.left = b.build(idxs[:mid], nextAxis)
	n.right = b.build(idxs[mid+1:], nextAxis)

	bound := point.NewInverseBound()
	bound.ExpandByPoint(b.points[n.idx])
	if n.left != nil {
		bound.Union(n.left.bound)
	}
	if n.right != nil {
		bound.Union(n.right.bound)
	}
	n.bound = bound

	if b.opts.Progress != nil {
		b.opts.Progress.Set(100)
	}
	return n
}

// Len returns the number of points in the tree.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.points)
}
