package filters

import (
	"math"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

// TransformMode selects the affine operation TransformFilter applies,
// grounded on original_source/src/filters/transform.cpp's
// TRANSFORM_TRANSLATE/SCALE/ROTATE/VALUE_SHUFFLE enum.
type TransformMode int

const (
	TransformTranslate TransformMode = iota
	TransformScale
	TransformRotate
	TransformValueShuffle
)

// OriginMode selects how TransformFilter resolves the origin used by scale
// and rotate, grounded on transform.cpp's TRANSFORM_ORIGINMODE_* enum.
type OriginMode int

const (
	OriginSelect OriginMode = iota
	OriginCentreOfBounds
	OriginCentreOfMass
)

// TransformFilter applies one affine operation -- translate, scale, rotate,
// or value-shuffle -- to every incoming ion stream (spec §4.C6,
// "Transform"), grounded on original_source/src/filters/transform.{h,cpp}.
type TransformFilter struct {
	base

	Mode       TransformMode
	OriginMode OriginMode

	Origin    point.Point3D // used when OriginMode == OriginSelect
	Translate point.Point3D
	Scale     point.Point3D // per-axis scale factors
	Axis      point.Point3D // rotation axis
	AngleDeg  float64       // rotation angle, degrees
}

// NewTransformFilter returns a no-op translate-mode filter.
func NewTransformFilter() *TransformFilter {
	return &TransformFilter{
		Mode:  TransformTranslate,
		Scale: point.Point3D{X: 1, Y: 1, Z: 1},
		Axis:  point.Point3D{Z: 1},
	}
}

func (f *TransformFilter) Kind() Kind { return KindTransform }

func (f *TransformFilter) CloneUncached() Filter {
	clone := *f
	clone.cacheValid = false
	clone.cached = RefreshResult{}
	return &clone
}

func (f *TransformFilter) NumBytesForCache(n int) int64 { return int64(n) * 16 }
func (f *TransformFilter) EmitMask() stream.Mask        { return stream.Mask(stream.KindIon) }
func (f *TransformFilter) BlockMask() stream.Mask       { return stream.Mask(stream.KindIon) }
func (f *TransformFilter) UseMask() stream.Mask         { return stream.Mask(stream.KindIon) }

func (f *TransformFilter) Refresh(in RefreshInput) (RefreshResult, ErrorKind) {
	if f.cacheEnabled && f.cacheValid {
		return f.cached, ErrNone
	}

	var ionFrames []*stream.IonFrame
	for _, frame := range in.Frames {
		if ionIn, ok := frame.(*stream.IonFrame); ok {
			ionFrames = append(ionFrames, ionIn)
		}
	}

	var out []stream.Frame
	switch f.Mode {
	case TransformValueShuffle:
		out = f.valueShuffle(ionFrames)
	default:
		origin := f.resolveOrigin(ionFrames)
		for _, ionIn := range ionFrames {
			out = append(out, f.transformFrame(ionIn, origin))
		}
	}

	result := RefreshResult{Frames: out}
	if f.cacheEnabled {
		f.cached = result
		f.cacheValid = true
	}
	return result, ErrNone
}

// resolveOrigin computes the shared origin for scale/rotate per OriginMode.
func (f *TransformFilter) resolveOrigin(frames []*stream.IonFrame) point.Point3D {
	switch f.OriginMode {
	case OriginCentreOfBounds:
		bound := point.NewInverseBound()
		for _, frame := range frames {
			for _, hit := range frame.Data {
				bound.ExpandByPoint(hit.Pos())
			}
		}
		if !bound.IsValid() {
			return point.Point3D{}
		}
		return bound.Centroid()
	case OriginCentreOfMass:
		var all []ionhit.IonHit
		for _, frame := range frames {
			all = append(all, frame.Data...)
		}
		return ionhit.CentreOfMass(all)
	default:
		return f.Origin
	}
}

func (f *TransformFilter) transformFrame(in *stream.IonFrame, origin point.Point3D) *stream.IonFrame {
	out := make([]ionhit.IonHit, len(in.Data))
	var quat point.Quaternion
	if f.Mode == TransformRotate {
		quat = point.QuaternionFromAxisAngle(f.Axis, f.AngleDeg*math.Pi/180)
	}
	for i, hit := range in.Data {
		p := hit.Pos()
		switch f.Mode {
		case TransformTranslate:
			p = p.Add(f.Translate)
		case TransformScale:
			rel := p.Sub(origin)
			rel = point.Point3D{X: rel.X * f.Scale.X, Y: rel.Y * f.Scale.Y, Z: rel.Z * f.Scale.Z}
			p = origin.Add(rel)
		case TransformRotate:
			rel := p.Sub(origin)
			p = origin.Add(quat.Rotate(rel))
		}
		out[i] = ionhit.New(p, hit.MassToCharge())
	}
	frame := stream.NewIonFrame(out)
	frame.R, frame.G, frame.B = in.R, in.G, in.B
	frame.IonSize = in.IonSize
	frame.ValueLabel = in.ValueLabel
	return frame
}

// valueShuffle pools every incoming frame's mass-to-charge values, uniformly
// permutes the pool, and reassigns values back to positions -- destroying
// the position/value association as a statistical null (spec §4.C6).
func (f *TransformFilter) valueShuffle(frames []*stream.IonFrame) []stream.Frame {
	var total int
	for _, frame := range frames {
		total += len(frame.Data)
	}
	if total == 0 {
		return nil
	}

	values := make([]float32, 0, total)
	for _, frame := range frames {
		for _, hit := range frame.Data {
			values = append(values, hit.MassToCharge())
		}
	}

	rng := point.NewRNG()
	perm := rng.Permutation(total)

	out := make([]stream.Frame, 0, len(frames))
	cursor := 0
	for _, frame := range frames {
		shuffled := make([]ionhit.IonHit, len(frame.Data))
		for i, hit := range frame.Data {
			shuffled[i] = ionhit.New(hit.Pos(), values[perm[cursor]])
			cursor++
		}
		outFrame := stream.NewIonFrame(shuffled)
		outFrame.R, outFrame.G, outFrame.B = frame.R, frame.G, frame.B
		outFrame.IonSize = frame.IonSize
		outFrame.ValueLabel = frame.ValueLabel
		out = append(out, outFrame)
	}
	return out
}

func (f *TransformFilter) Properties() PropertyList {
	return PropertyList{Groups: []PropertyGroup{{
		Name: "Transform",
		Properties: []Property{
			{Key: 0, Name: "Mode", Value: intStr(int(f.Mode)), Type: PropertyChoice},
			{Key: 1, Name: "Origin mode", Value: intStr(int(f.OriginMode)), Type: PropertyChoice},
			{Key: 2, Name: "Angle (deg)", Value: floatStr(float32(f.AngleDeg)), Type: PropertyFloat},
		},
	}}}
}

func (f *TransformFilter) SetProperty(key int, value string) (ok bool, needsUpdate bool) {
	switch key {
	case 0:
		v, ok := parseInt(value)
		if !ok {
			return false, false
		}
		f.Mode = TransformMode(v)
		f.invalidate()
		return true, true
	case 1:
		v, ok := parseInt(value)
		if !ok {
			return false, false
		}
		f.OriginMode = OriginMode(v)
		f.invalidate()
		return true, true
	case 2:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.AngleDeg = float64(v)
		f.invalidate()
		return true, true
	}
	return false, false
}
