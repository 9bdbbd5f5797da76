package filters

import (
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

// ClipPrimitive selects the clip volume's shape, grounded on
// original_source/src/filters/ionClip.cpp's PRIMITIVE_SPHERE/PLANE/
// CYLINDER/AAB enum.
type ClipPrimitive int

const (
	ClipSphere ClipPrimitive = iota
	ClipPlane
	ClipCylinder
	ClipAABB
)

// ClipFilter keeps or drops ions according to containment within a
// primitive volume (spec §4.C6, "Clip"), grounded on
// original_source/src/filters/ionClip.{h,cpp}.
type ClipFilter struct {
	base

	Primitive ClipPrimitive
	Invert    bool

	Origin point.Point3D
	Radius float32 // sphere / cylinder

	PlaneNormal point.Point3D // plane

	CylinderAxis point.Point3D // cylinder: origin-to-axis vector, length = cylinder length

	AABBCorner point.Point3D // AABB: half-extent offset from Origin
}

// NewClipFilter returns a sphere clip of radius 1 at the origin, keeping
// ions inside.
func NewClipFilter() *ClipFilter {
	return &ClipFilter{Primitive: ClipSphere, Radius: 1}
}

func (f *ClipFilter) Kind() Kind { return KindClip }

func (f *ClipFilter) CloneUncached() Filter {
	clone := *f
	clone.cacheValid = false
	clone.cached = RefreshResult{}
	return &clone
}

func (f *ClipFilter) NumBytesForCache(n int) int64 { return int64(n) * 16 }
func (f *ClipFilter) EmitMask() stream.Mask        { return stream.Mask(stream.KindIon) }
func (f *ClipFilter) BlockMask() stream.Mask       { return stream.Mask(stream.KindIon) }
func (f *ClipFilter) UseMask() stream.Mask         { return stream.Mask(stream.KindIon) }

func (f *ClipFilter) Refresh(in RefreshInput) (RefreshResult, ErrorKind) {
	if f.cacheEnabled && f.cacheValid {
		return f.cached, ErrNone
	}

	contains := f.containmentTest()

	var out []stream.Frame
	for _, frame := range in.Frames {
		ionIn, ok := frame.(*stream.IonFrame)
		if !ok {
			continue
		}
		kept := make([]ionhit.IonHit, 0, len(ionIn.Data))
		for _, hit := range ionIn.Data {
			if contains(hit.Pos()) != f.Invert {
				kept = append(kept, hit)
			}
		}
		filtered := stream.NewIonFrame(kept)
		filtered.R, filtered.G, filtered.B = ionIn.R, ionIn.G, ionIn.B
		filtered.IonSize = ionIn.IonSize
		filtered.ValueLabel = ionIn.ValueLabel
		out = append(out, filtered)
	}

	result := RefreshResult{Frames: out}
	if f.cacheEnabled {
		f.cached = result
		f.cacheValid = true
	}
	return result, ErrNone
}

// containmentTest returns a closure testing raw (pre-XOR) containment for
// the configured primitive.
func (f *ClipFilter) containmentTest() func(point.Point3D) bool {
	switch f.Primitive {
	case ClipPlane:
		normal := f.PlaneNormal
		origin := f.Origin
		return func(p point.Point3D) bool {
			return p.Sub(origin).Dot(normal) > 0
		}
	case ClipCylinder:
		return f.cylinderContains
	case ClipAABB:
		lo := f.Origin.Sub(f.AABBCorner)
		hi := f.Origin.Add(f.AABBCorner)
		box := point.NewBoundCube(minPoint(lo, hi), maxPoint(lo, hi))
		return func(p point.Point3D) bool { return box.ContainsPoint(p) }
	default:
		sqrRad := float64(f.Radius) * float64(f.Radius)
		origin := f.Origin
		return func(p point.Point3D) bool { return p.SqrDistance(origin) < sqrRad }
	}
}

// cylinderContains rotates the query point into the cylinder's frame (axis
// aligned to +z) before testing the half-length/radius bounds, skipping the
// rotation when the axis is numerically parallel to +z (spec §4.C6,
// "Clip").
func (f *ClipFilter) cylinderContains(p point.Point3D) bool {
	rel := p.Sub(f.Origin)
	halfLen := float32(f.CylinderAxis.Magnitude() / 2)
	sqrRad := f.Radius * f.Radius

	axisZ := point.Point3D{Z: 1}
	rot := point.RotationBetween(axisZ, f.CylinderAxis)
	local := rot.Conjugate().Rotate(rel)

	return local.Z < halfLen && local.Z > -halfLen && local.X*local.X+local.Y*local.Y < sqrRad
}

func minPoint(a, b point.Point3D) point.Point3D {
	return point.Point3D{X: minF(a.X, b.X), Y: minF(a.Y, b.Y), Z: minF(a.Z, b.Z)}
}

func maxPoint(a, b point.Point3D) point.Point3D {
	return point.Point3D{X: maxF(a.X, b.X), Y: maxF(a.Y, b.Y), Z: maxF(a.Z, b.Z)}
}

func minF(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func (f *ClipFilter) Properties() PropertyList {
	return PropertyList{Groups: []PropertyGroup{{
		Name: "Clip",
		Properties: []Property{
			{Key: 0, Name: "Primitive", Value: intStr(int(f.Primitive)), Type: PropertyChoice},
			{Key: 1, Name: "Invert", Value: boolStr(f.Invert), Type: PropertyBool},
			{Key: 2, Name: "Radius", Value: floatStr(f.Radius), Type: PropertyFloat},
		},
	}}}
}

func (f *ClipFilter) SetProperty(key int, value string) (ok bool, needsUpdate bool) {
	switch key {
	case 0:
		v, ok := parseInt(value)
		if !ok {
			return false, false
		}
		f.Primitive = ClipPrimitive(v)
		f.invalidate()
		return true, true
	case 1:
		f.Invert = value == "1" || value == "true"
		f.invalidate()
		return true, true
	case 2:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.Radius = v
		f.invalidate()
		return true, true
	}
	return false, false
}
