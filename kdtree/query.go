package kdtree

import (
	"math"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
)

// FindNearest returns the nearest point to q, restricted to domain and to
// points whose squared distance to q exceeds deadDistSq (spec §4.C4). Passing
// an invalid domain (point.NewInverseBound(), never expanded) disables the
// domain restriction. Returns ok=false if no qualifying point exists.
func (t *Tree) FindNearest(q point.Point3D, domain point.BoundCube, deadDistSq float64) (idx int, ok bool) {
	if t == nil || t.root == nil {
		return 0, false
	}
	s := &nearestSearch{tree: t, q: q, domain: domain, deadDistSq: deadDistSq, bestIdx: -1, bestDistSq: math.Inf(1)}
	s.visit(t.root)
	if s.bestIdx < 0 {
		return 0, false
	}
	return s.bestIdx, true
}

type nearestSearch struct {
	tree       *Tree
	q          point.Point3D
	domain     point.BoundCube
	deadDistSq float64
	bestIdx    int
	bestDistSq float64
}

func (s *nearestSearch) visit(n *node) {
	if n == nil {
		return
	}
	// Bounding-box pruning: no point in this subtree can beat the current
	// best, so skip it entirely.
	if n.bound.SqrDistanceToPoint(s.q) > s.bestDistSq {
		return
	}

	pt := s.tree.points[n.idx]
	if !s.domain.IsValid() || s.domain.ContainsPoint(pt) {
		d := s.q.SqrDistance(pt)
		if d > s.deadDistSq && d < s.bestDistSq {
			s.bestDistSq = d
			s.bestIdx = n.idx
		}
	}

	near, far := n.left, n.right
	if s.q.Component(n.axis) > pt.Component(n.axis) {
		near, far = n.right, n.left
	}
	s.visit(near)
	s.visit(far)
}

// neighbour is one entry of a bounded k-nearest result: the index into the
// tree's point buffer and its squared distance from the query point.
type neighbour struct {
	idx       int
	sqrDistSq float64
}

// FindKNearest returns up to k nearest points to q within domain, nearest
// first... furthest last, per spec §4.C4. If fewer than k points qualify,
// returns what it found.
func (t *Tree) FindKNearest(q point.Point3D, domain point.BoundCube, k int) []int {
	if t == nil || t.root == nil || k <= 0 {
		return nil
	}
	s := &kNearestSearch{tree: t, q: q, domain: domain, k: k}
	s.visit(t.root)

	out := make([]int, len(s.best))
	for i, nb := range s.best {
		out[i] = nb.idx
	}
	return out
}

type kNearestSearch struct {
	tree   *Tree
	q      point.Point3D
	domain point.BoundCube
	k      int
	best   []neighbour // kept sorted ascending by sqrDistSq, len <= k
}

func (s *kNearestSearch) worstDistSq() float64 {
	if len(s.best) < s.k {
		return math.Inf(1)
	}
	return s.best[len(s.best)-1].sqrDistSq
}

func (s *kNearestSearch) insert(nb neighbour) {
	i := 0
	for i < len(s.best) && s.best[i].sqrDistSq < nb.sqrDistSq {
		i++
	}
	s.best = append(s.best, neighbour{})
	copy(s.best[i+1:], s.best[i:])
	s.best[i] = nb
	if len(s.best) > s.k {
		s.best = s.best[:s.k]
	}
}

func (s *kNearestSearch) visit(n *node) {
	if n == nil {
		return
	}
	if n.bound.SqrDistanceToPoint(s.q) > s.worstDistSq() {
		return
	}

	pt := s.tree.points[n.idx]
	if !s.domain.IsValid() || s.domain.ContainsPoint(pt) {
		d := s.q.SqrDistance(pt)
		if d < s.worstDistSq() || len(s.best) < s.k {
			s.insert(neighbour{idx: n.idx, sqrDistSq: d})
		}
	}

	near, far := n.left, n.right
	if s.q.Component(n.axis) > pt.Component(n.axis) {
		near, far = n.right, n.left
	}
	s.visit(near)
	s.visit(far)
}
