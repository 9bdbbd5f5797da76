package kdtree

import (
	"testing"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
)

func gridPoints() []point.Point3D {
	pts := make([]point.Point3D, 0, 27)
	for x := -1; x <= 1; x++ {
		for y := -1; y <= 1; y++ {
			for z := -1; z <= 1; z++ {
				pts = append(pts, point.Point3D{X: float32(x), Y: float32(y), Z: float32(z)})
			}
		}
	}
	return pts
}

func invalidDomain() point.BoundCube { return point.NewInverseBound() }

func TestFindNearestFindsExactMatch(t *testing.T) {
	pts := gridPoints()
	tree := Build(pts, BuildOptions{})
	// A negative deadDistSq admits a point at distance zero.
	idx, ok := tree.FindNearest(point.Point3D{X: 0, Y: 0, Z: 0}, invalidDomain(), -1)
	if !ok {
		t.Fatalf("expected a nearest point")
	}
	if pts[idx] != (point.Point3D{X: 0, Y: 0, Z: 0}) {
		t.Fatalf("got %+v, want origin", pts[idx])
	}
}

func TestFindNearestDeadDistSqExcludesSelf(t *testing.T) {
	pts := gridPoints()
	tree := Build(pts, BuildOptions{})
	q := point.Point3D{X: 0, Y: 0, Z: 0}
	idx, ok := tree.FindNearest(q, invalidDomain(), -1)
	if !ok || pts[idx] != q {
		t.Fatalf("expected origin as the nearest point when deadDistSq admits distance zero")
	}
	// A deadDistSq of 0 excludes points at or nearer than distance zero, i.e.
	// the origin itself, so one of the six unit-distance neighbours surfaces.
	idx2, ok := tree.FindNearest(q, invalidDomain(), 0)
	if !ok {
		t.Fatalf("expected a second-nearest point")
	}
	if d := q.SqrDistance(pts[idx2]); d != 1 {
		t.Fatalf("got sqr distance %v, want 1 (a face neighbour)", d)
	}
}

func TestFindKNearestReturnsFurthestLast(t *testing.T) {
	pts := gridPoints()
	tree := Build(pts, BuildOptions{})
	q := point.Point3D{X: 0, Y: 0, Z: 0}
	got := tree.FindKNearest(q, invalidDomain(), 7)
	if len(got) != 7 {
		t.Fatalf("got %d neighbours, want 7", len(got))
	}
	if pts[got[0]] != q {
		t.Fatalf("expected the origin itself to be nearest, got %+v", pts[got[0]])
	}
	prev := 0.0
	for _, idx := range got {
		d := q.SqrDistance(pts[idx])
		if d < prev {
			t.Fatalf("results not sorted ascending by distance")
		}
		prev = d
	}
}

func TestFindKNearestFewerThanKAvailable(t *testing.T) {
	pts := []point.Point3D{{X: 0}, {X: 1}}
	tree := Build(pts, BuildOptions{})
	got := tree.FindKNearest(point.Point3D{}, invalidDomain(), 10)
	if len(got) != 2 {
		t.Fatalf("got %d, want 2 (all available points)", len(got))
	}
}

func TestFindNearestRestrictedByDomain(t *testing.T) {
	pts := gridPoints()
	tree := Build(pts, BuildOptions{})
	domain := point.NewBoundCube(point.Point3D{X: 0.5, Y: -1, Z: -1}, point.Point3D{X: 1, Y: 1, Z: 1})
	idx, ok := tree.FindNearest(point.Point3D{}, domain, 0)
	if !ok {
		t.Fatalf("expected a point within the restricted domain")
	}
	if pts[idx].X < 0.5 {
		t.Fatalf("got point %+v outside domain", pts[idx])
	}
}

func TestBuildEmpty(t *testing.T) {
	tree := Build(nil, BuildOptions{})
	if tree.Len() != 0 {
		t.Fatalf("expected empty tree")
	}
	if _, ok := tree.FindNearest(point.Point3D{}, invalidDomain(), 0); ok {
		t.Fatalf("expected no match on an empty tree")
	}
}
