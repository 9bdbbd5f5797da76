// Package ionhit holds the atomic IonHit record and the file-format loaders
// that produce it: the POS fixed-record binary format and delimited-text
// formats, both with optional random sampling.
package ionhit

import (
	"math"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
)

// IonHit is a single reconstructed detected atom: a 3D position in
// nanometres plus its mass-to-charge ratio in atomic mass units per
// elementary charge. An IonHit produced by any loader in this package never
// contains NaN (spec invariant 1); loaders reject such records at parse
// time.
type IonHit struct {
	pos          point.Point3D
	massToCharge float32
}

// New builds an IonHit, panicking if any field is NaN -- matching the
// invariant that no IonHit the program holds ever carries NaN; loaders must
// check hasNaN-equivalent conditions themselves *before* calling New so the
// failure surfaces as a typed load error, not a panic.
func New(pos point.Point3D, massToCharge float32) IonHit {
	hit := IonHit{pos: pos, massToCharge: massToCharge}
	if hit.HasNaN() {
		panic("ionhit: New called with NaN field")
	}
	return hit
}

// Pos returns the ion's position.
func (h IonHit) Pos() point.Point3D { return h.pos }

// MassToCharge returns the ion's mass-to-charge ratio.
func (h IonHit) MassToCharge() float32 { return h.massToCharge }

// SetPos replaces the position (used by transform filters).
func (h *IonHit) SetPos(p point.Point3D) { h.pos = p }

// SetMassToCharge replaces the mass-to-charge value (used by the value
// shuffle transform and by spatial-analysis density annotation).
func (h *IonHit) SetMassToCharge(m float32) { h.massToCharge = m }

// HasNaN reports whether any of the four stored floats is NaN.
func (h IonHit) HasNaN() bool {
	return h.pos.IsNaN() || math.IsNaN(float64(h.massToCharge))
}

// PointsFromIons strips the position component out of a slice of ions,
// mirroring the original's getPointsFromIons helper; used wherever a filter
// needs a raw point buffer for the k-d tree (which is built by reference,
// not by owning a copy of IonHit).
func PointsFromIons(ions []IonHit) []point.Point3D {
	out := make([]point.Point3D, len(ions))
	for i, ion := range ions {
		out[i] = ion.pos
	}
	return out
}

// DataLimits returns the union bounding cube of every ion's position.
func DataLimits(ions []IonHit) point.BoundCube {
	b := point.NewInverseBound()
	for _, ion := range ions {
		b.ExpandByPoint(ion.pos)
	}
	return b
}

// CentreOfMass returns the arithmetic mean position (mass is not weighted --
// the original treats every ion position as equally weighted regardless of
// species, matching getPointSum's plain accumulate-then-divide).
func CentreOfMass(ions []IonHit) point.Point3D {
	if len(ions) == 0 {
		return point.Point3D{}
	}
	var sum point.Point3D
	for _, ion := range ions {
		sum = sum.Add(ion.pos)
	}
	return sum.Scale(1 / float32(len(ions)))
}
