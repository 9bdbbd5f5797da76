package point

import "math"

// BoundCube is an axis-aligned interval product (a 3D bounding box).
// The zero value is not a valid empty cube — use NewInverseBound.
type BoundCube struct {
	lo, hi Point3D
	valid  bool // true once at least one point/cube has been unioned in
}

// NewInverseBound returns an "inverse-initialised" empty cube: its bounds are
// +Inf/-Inf so that the first Union/ExpandByPoint call establishes real
// extents. This matches the invariant the spec calls out for BoundCube: an
// empty sentinel that folds correctly under repeated union.
func NewInverseBound() BoundCube {
	inf := float32(math.Inf(1))
	return BoundCube{
		lo: Point3D{inf, inf, inf},
		hi: Point3D{-inf, -inf, -inf},
	}
}

// NewBoundCube builds a cube directly from low/high corners. Panics if lo>hi
// on any axis — callers that don't know ordering should use NewInverseBound
// plus ExpandByPoint instead.
func NewBoundCube(lo, hi Point3D) BoundCube {
	if lo.X > hi.X || lo.Y > hi.Y || lo.Z > hi.Z {
		panic("point: BoundCube low corner exceeds high corner")
	}
	return BoundCube{lo: lo, hi: hi, valid: true}
}

// IsValid reports whether the cube has been set by at least one union.
func (b BoundCube) IsValid() bool { return b.valid }

// Bounds returns the low and high corners. Meaningless if !IsValid.
func (b BoundCube) Bounds() (lo, hi Point3D) { return b.lo, b.hi }

// ExpandByPoint grows the cube, if needed, to contain p.
func (b *BoundCube) ExpandByPoint(p Point3D) {
	if p.X < b.lo.X {
		b.lo.X = p.X
	}
	if p.Y < b.lo.Y {
		b.lo.Y = p.Y
	}
	if p.Z < b.lo.Z {
		b.lo.Z = p.Z
	}
	if p.X > b.hi.X {
		b.hi.X = p.X
	}
	if p.Y > b.hi.Y {
		b.hi.Y = p.Y
	}
	if p.Z > b.hi.Z {
		b.hi.Z = p.Z
	}
	b.valid = true
}

// Union grows b to also contain other. An invalid operand leaves b unchanged;
// unioning two invalid cubes yields an invalid cube.
func (b *BoundCube) Union(other BoundCube) {
	if !other.valid {
		return
	}
	if !b.valid {
		*b = other
		return
	}
	b.ExpandByPoint(other.lo)
	b.ExpandByPoint(other.hi)
}

// UnionCubes folds a union of per-thread/per-worker bounding cubes, any
// (possibly still invalid) inverse-initialised cube included. This is the
// shape the spec's §9 design note calls for as the reimplementation of the
// broken OpenMP bounding-cube reduction in the original: a plain, sequential
// fold of "union of all per-thread inverse-initialised boxes" rather than a
// port of the original's thread-count/array bug.
func UnionCubes(cubes []BoundCube) BoundCube {
	result := NewInverseBound()
	for _, c := range cubes {
		result.Union(c)
	}
	return result
}

// ContainsPoint reports whether p lies within the closed cube.
func (b BoundCube) ContainsPoint(p Point3D) bool {
	if !b.valid {
		return false
	}
	return p.X >= b.lo.X && p.X <= b.hi.X &&
		p.Y >= b.lo.Y && p.Y <= b.hi.Y &&
		p.Z >= b.lo.Z && p.Z <= b.hi.Z
}

// Centroid returns the midpoint of the cube.
func (b BoundCube) Centroid() Point3D {
	return Point3D{
		(b.lo.X + b.hi.X) / 2,
		(b.lo.Y + b.hi.Y) / 2,
		(b.lo.Z + b.hi.Z) / 2,
	}
}

// Sides returns the per-axis edge lengths.
func (b BoundCube) Sides() Point3D {
	return b.hi.Sub(b.lo)
}

// Volume returns the cube's volume, or 0 if invalid.
func (b BoundCube) Volume() float64 {
	if !b.valid {
		return 0
	}
	s := b.Sides()
	return float64(s.X) * float64(s.Y) * float64(s.Z)
}

// SqrDistanceToPoint returns the squared distance from p to the nearest point
// on/in the cube (0 if p is inside). Used by the k-d tree to prune subtrees
// whose bounding cube cannot possibly contain a closer point than the current
// best.
func (b BoundCube) SqrDistanceToPoint(p Point3D) float64 {
	if !b.valid {
		return math.Inf(1)
	}
	var dx, dy, dz float64
	if p.X < b.lo.X {
		dx = float64(b.lo.X - p.X)
	} else if p.X > b.hi.X {
		dx = float64(p.X - b.hi.X)
	}
	if p.Y < b.lo.Y {
		dy = float64(b.lo.Y - p.Y)
	} else if p.Y > b.hi.Y {
		dy = float64(p.Y - b.hi.Y)
	}
	if p.Z < b.lo.Z {
		dz = float64(b.lo.Z - p.Z)
	} else if p.Z > b.hi.Z {
		dz = float64(p.Z - b.hi.Z)
	}
	return dx*dx + dy*dy + dz*dz
}

// maxNumericallyBig is the magnitude beyond which a bound cube is considered
// suspiciously large — almost always a sign of a corrupt or mis-scaled
// dataset rather than a genuine APT reconstruction, which rarely exceeds a
// few hundred micrometres per axis.
const maxNumericallyBig = 1e7

// IsNumericallyBig reports whether any extent of the cube is implausibly
// large, the trigger for the "bounding cube is numerically large" console
// warning a data-load filter emits (spec §4.C6, data load filter).
func (b BoundCube) IsNumericallyBig() bool {
	if !b.valid {
		return false
	}
	s := b.Sides()
	return math.Abs(float64(s.X)) > maxNumericallyBig ||
		math.Abs(float64(s.Y)) > maxNumericallyBig ||
		math.Abs(float64(s.Z)) > maxNumericallyBig
}
