package point

import "math"

// Quaternion is a unit quaternion used for 3D rotations, the 3D analogue of
// the 2D affine composition willow's transform.go builds for node rotation.
type Quaternion struct {
	W, X, Y, Z float64
}

// QuaternionFromAxisAngle builds a unit quaternion rotating by angleRad
// radians about axis (which need not be pre-normalised).
func QuaternionFromAxisAngle(axis Point3D, angleRad float64) Quaternion {
	n := axis.Normalise()
	half := angleRad / 2
	s := math.Sin(half)
	return Quaternion{
		W: math.Cos(half),
		X: float64(n.X) * s,
		Y: float64(n.Y) * s,
		Z: float64(n.Z) * s,
	}
}

// Conjugate returns the inverse rotation (for a unit quaternion, the
// conjugate is the inverse).
func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{q.W, -q.X, -q.Y, -q.Z}
}

// Mul composes two quaternions, applying q then r when used to rotate a
// point via r.Mul(q).
func (q Quaternion) Mul(r Quaternion) Quaternion {
	return Quaternion{
		W: q.W*r.W - q.X*r.X - q.Y*r.Y - q.Z*r.Z,
		X: q.W*r.X + q.X*r.W + q.Y*r.Z - q.Z*r.Y,
		Y: q.W*r.Y - q.X*r.Z + q.Y*r.W + q.Z*r.X,
		Z: q.W*r.Z + q.X*r.Y - q.Y*r.X + q.Z*r.W,
	}
}

// Rotate applies the rotation represented by q to point p.
func (q Quaternion) Rotate(p Point3D) Point3D {
	pq := Quaternion{0, float64(p.X), float64(p.Y), float64(p.Z)}
	r := q.Mul(pq).Mul(q.Conjugate())
	return Point3D{float32(r.X), float32(r.Y), float32(r.Z)}
}

// RotationBetween returns the quaternion that rotates unit vector `from` onto
// unit vector `to`. Used by the cylinder clip/composition-profile filters to
// align a query point's frame with +z before testing cylinder containment.
// Returns the identity quaternion when from and to are numerically parallel
// (spec §4.C6: "when the axis is numerically parallel to +z, the rotation is
// skipped"), since the rotation axis (from x to) is undefined in that case.
func RotationBetween(from, to Point3D) Quaternion {
	f := from.Normalise()
	t := to.Normalise()
	dot := float64(f.Dot(t))

	const parallelEps = 1e-6
	if dot > 1-parallelEps {
		// already aligned
		return Quaternion{1, 0, 0, 0}
	}
	if dot < -1+parallelEps {
		// antiparallel: rotate 180 degrees about any axis perpendicular to f
		perp := f.Cross(Point3D{1, 0, 0})
		if perp.SqrMagnitude() < 1e-12 {
			perp = f.Cross(Point3D{0, 1, 0})
		}
		return QuaternionFromAxisAngle(perp, math.Pi)
	}

	axis := f.Cross(t)
	angle := math.Acos(clamp(dot, -1, 1))
	return QuaternionFromAxisAngle(axis, angle)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
