package filters

import (
	"math"
	"strconv"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

// AnnotationMode selects which kind of scene annotation AnnotationFilter
// draws, matching the original's ANNOTATION_* enum.
type AnnotationMode int

const (
	AnnotationArrow AnnotationMode = iota
	AnnotationText
	AnnotationTextWithArrow
	AnnotationAngleMeasure
	AnnotationLinearMeasure
)

// AnnotationFilter places drawing primitives to label points of interest in
// the scene: a text label, a vector arrow, a combined text+arrow, an angle
// measurement between two vectors from a pivot, or a ruler with tick marks
// along a line -- grounded on
// original_source/src/filters/annotation.{h,cpp}'s AnnotateFilter.
type AnnotationFilter struct {
	base

	Mode AnnotationMode

	Position, Target, UpVec, AcrossVec point.Point3D
	AnglePos                           [3]point.Point3D

	Text string

	TextSize, ArrowSize, SphereAngleSize float32

	R, G, B, A float32

	Active bool

	ShowAngleText bool
	ReflexAngle   bool

	LinearFixedTicks    bool
	LinearMeasureTicks  int
	LinearMeasureSpacing float32
	FontSizeLinear      float32
	LinearMarkerSize    float32
}

// NewAnnotationFilter returns the original's documented defaults: text
// mode, blue opaque colour, a unit-length default arrow along +x and a
// right-angle default angle geometry pivoting on the origin.
func NewAnnotationFilter() *AnnotationFilter {
	return &AnnotationFilter{
		Mode:     AnnotationText,
		Position: point.Point3D{X: 0, Y: 0, Z: 0},
		Target:   point.Point3D{X: 1, Y: 0, Z: 0},
		UpVec:    point.Point3D{X: 0, Y: 0, Z: 1},
		AcrossVec: point.Point3D{X: 0, Y: 1, Z: 0},
		AnglePos: [3]point.Point3D{
			{X: 0, Y: 0, Z: 0},
			{X: 0, Y: 5, Z: 5},
			{X: 0, Y: -5, Z: 5},
		},
		TextSize:             1,
		ArrowSize:            1,
		SphereAngleSize:      1.5,
		R:                    0,
		G:                    0,
		B:                    1,
		A:                    1,
		Active:               true,
		ShowAngleText:        true,
		FontSizeLinear:       5,
		LinearMeasureTicks:   10,
		LinearFixedTicks:     true,
		LinearMeasureSpacing: 10,
		LinearMarkerSize:     3,
	}
}

func (f *AnnotationFilter) Kind() Kind { return KindAnnotation }

func (f *AnnotationFilter) CloneUncached() Filter {
	clone := *f
	clone.cacheValid = false
	clone.cached = RefreshResult{}
	return &clone
}

// NumBytesForCache returns 0: the original's annotation filter considers
// its drawable output free to keep, since it never depends on input size.
func (f *AnnotationFilter) NumBytesForCache(n int) int64 { return 0 }
func (f *AnnotationFilter) EmitMask() stream.Mask        { return stream.Mask(stream.KindDraw) }
func (f *AnnotationFilter) BlockMask() stream.Mask       { return 0 }

// UseMask is MaskAll: annotation geometry is entirely user-configured, not
// derived from stream content, but every input stream must still be passed
// through unchanged regardless of its kind.
func (f *AnnotationFilter) UseMask() stream.Mask { return stream.MaskAll }

func (f *AnnotationFilter) Refresh(in RefreshInput) (RefreshResult, ErrorKind) {
	if f.cacheEnabled && f.cacheValid {
		return f.cached, ErrNone
	}

	out := append([]stream.Frame(nil), in.Frames...)

	if f.Active {
		if draw := f.drawFrame(); draw != nil {
			out = append(out, draw)
		}
	}

	result := RefreshResult{Frames: out}
	if f.cacheEnabled {
		f.cached = result
		f.cacheValid = true
	}
	return result, ErrNone
}

func (f *AnnotationFilter) drawFrame() *stream.DrawFrame {
	var primitives []stream.Primitive

	if f.Mode == AnnotationText || f.Mode == AnnotationTextWithArrow {
		primitives = append(primitives, stream.Text{
			Origin: f.Position,
			Label:  f.Text,
			Size:   f.TextSize,
			R:      f.R, G: f.G, B: f.B, A: f.A,
		}.WithBindings(stream.SelectionBinding{ID: stream.BindingTextOrigin, Key: "origin"}))
	}

	if f.Mode == AnnotationArrow || f.Mode == AnnotationTextWithArrow {
		primitives = append(primitives, stream.Arrow{
			Origin:    f.Position,
			Direction: f.Target.Sub(f.Position),
			Length:    f.ArrowSize,
			R:         f.R, G: f.G, B: f.B, A: f.A,
		}.WithBindings(
			stream.SelectionBinding{ID: stream.BindingArrowOrigin, Key: "origin"},
			stream.SelectionBinding{ID: stream.BindingArrowDirection, Key: "direction"},
		))
	}

	if f.Mode == AnnotationAngleMeasure {
		primitives = append(primitives, f.angleMeasurePrimitives()...)
	}

	if f.Mode == AnnotationLinearMeasure {
		primitives = append(primitives, f.linearMeasurePrimitives()...)
	}

	if len(primitives) == 0 {
		return nil
	}
	return &stream.DrawFrame{Primitives: primitives}
}

func (f *AnnotationFilter) angleMeasurePrimitives() []stream.Primitive {
	var primitives []stream.Primitive

	for i, p := range f.AnglePos {
		primitives = append(primitives, stream.Sphere{
			Origin: p, Radius: f.SphereAngleSize,
			R: f.R, G: f.G, B: f.B, A: f.A,
		}.WithBindings(
			stream.SelectionBinding{ID: stream.BindingSphereOrigin, Key: strconv.Itoa(i)},
			stream.SelectionBinding{ID: stream.BindingSphereRadius, Key: "angle"},
		))
	}

	d1 := f.AnglePos[1].Sub(f.AnglePos[0])
	d2 := f.AnglePos[2].Sub(f.AnglePos[0])
	primitives = append(primitives,
		stream.Arrow{Origin: f.AnglePos[0], Direction: d1, Length: float32(d1.Magnitude()), R: f.R, G: f.G, B: f.B, A: f.A},
		stream.Arrow{Origin: f.AnglePos[0], Direction: d2, Length: float32(d2.Magnitude()), R: f.R, G: f.G, B: f.B, A: f.A},
	)

	if f.ShowAngleText {
		angle := vectorAngle(d1, d2)
		if f.ReflexAngle {
			angle = 2*math.Pi - angle
		}
		angleDeg := math.Mod(angle*180/math.Pi, 360)

		average := d1.Add(d2).Scale(0.5).Normalise().Scale(f.TextSize * 1.1)
		if f.ReflexAngle {
			average = average.Scale(-1)
		}

		primitives = append(primitives, stream.Text{
			Origin: f.AnglePos[0].Add(average),
			Label:  strconv.FormatFloat(angleDeg, 'f', 1, 64),
			Size:   f.TextSize,
			R:      f.R, G: f.G, B: f.B, A: f.A,
		})
	}

	return primitives
}

func (f *AnnotationFilter) linearMeasurePrimitives() []stream.Primitive {
	length := f.Target.Distance(f.Position)
	primitives := []stream.Primitive{
		stream.Arrow{
			Origin: f.Position, Direction: f.Target.Sub(f.Position),
			Length: float32(length),
			R:      f.R, G: f.G, B: f.B, A: f.A,
		},
	}

	spacings := f.linearTickSpacings(length)
	if len(spacings) == 0 {
		return primitives
	}

	normal := f.Target.Sub(f.Position).Normalise()
	for _, s := range spacings {
		pos := normal.Scale(float32(s)).Add(f.Position)
		primitives = append(primitives, stream.Text{
			Origin: pos,
			Label:  strconv.FormatFloat(s, 'g', 4, 64),
			Size:   f.FontSizeLinear,
			R:      f.R, G: f.G, B: f.B, A: f.A,
		})
	}

	primitives = append(primitives,
		stream.Sphere{Origin: f.Position, Radius: f.LinearMarkerSize, R: f.R, G: f.G, B: f.B, A: f.A}.
			WithBindings(
				stream.SelectionBinding{ID: stream.BindingSphereOrigin, Key: "start"},
				stream.SelectionBinding{ID: stream.BindingSphereRadius, Key: "marker"},
			),
		stream.Sphere{Origin: f.Target, Radius: f.LinearMarkerSize, R: f.R, G: f.G, B: f.B, A: f.A}.
			WithBindings(
				stream.SelectionBinding{ID: stream.BindingSphereOrigin, Key: "end"},
				stream.SelectionBinding{ID: stream.BindingSphereRadius, Key: "marker"},
			),
	)
	return primitives
}

// linearTickSpacings returns the tick positions (as distances along the
// ruler from its start) either from a fixed tick count or a fixed
// inter-tick spacing, mirroring tickSpacingsFromFixedNum/
// tickSpacingsFromInterspace.
func (f *AnnotationFilter) linearTickSpacings(length float64) []float64 {
	if length <= 0 {
		return nil
	}
	var out []float64
	if f.LinearFixedTicks {
		if f.LinearMeasureTicks <= 0 {
			return nil
		}
		step := length / float64(f.LinearMeasureTicks)
		for i := 0; i <= f.LinearMeasureTicks; i++ {
			out = append(out, step*float64(i))
		}
		return out
	}
	if f.LinearMeasureSpacing <= 0 {
		return nil
	}
	for d := 0.0; d <= length; d += float64(f.LinearMeasureSpacing) {
		out = append(out, d)
	}
	return out
}

// vectorAngle returns the included angle between a and b, in radians.
func vectorAngle(a, b point.Point3D) float64 {
	denom := a.Magnitude() * b.Magnitude()
	if denom < 1e-12 {
		return 0
	}
	cos := float64(a.Dot(b)) / denom
	if cos > 1 {
		cos = 1
	} else if cos < -1 {
		cos = -1
	}
	return math.Acos(cos)
}

func (f *AnnotationFilter) Properties() PropertyList {
	return PropertyList{Groups: []PropertyGroup{{
		Name: "Annotation",
		Properties: []Property{
			{Key: 0, Name: "Active", Value: boolStr(f.Active), Type: PropertyBool},
			{Key: 1, Name: "Mode", Value: intStr(int(f.Mode)), Type: PropertyChoice},
			{Key: 2, Name: "Text", Value: f.Text, Type: PropertyString},
			{Key: 3, Name: "Text size", Value: floatStr(f.TextSize), Type: PropertyFloat},
			{Key: 4, Name: "Arrow size", Value: floatStr(f.ArrowSize), Type: PropertyFloat},
			{Key: 5, Name: "Show angle text", Value: boolStr(f.ShowAngleText), Type: PropertyBool},
			{Key: 6, Name: "Reflex angle", Value: boolStr(f.ReflexAngle), Type: PropertyBool},
			{Key: 7, Name: "Sphere angle size", Value: floatStr(f.SphereAngleSize), Type: PropertyFloat},
			{Key: 8, Name: "Linear fixed ticks", Value: boolStr(f.LinearFixedTicks), Type: PropertyBool},
			{Key: 9, Name: "Linear num ticks", Value: intStr(f.LinearMeasureTicks), Type: PropertyInt},
			{Key: 10, Name: "Linear tick spacing", Value: floatStr(f.LinearMeasureSpacing), Type: PropertyFloat},
			{Key: 11, Name: "Linear font size", Value: floatStr(f.FontSizeLinear), Type: PropertyFloat},
			{Key: 12, Name: "Linear marker size", Value: floatStr(f.LinearMarkerSize), Type: PropertyFloat},
		},
	}}}
}

func (f *AnnotationFilter) SetProperty(key int, value string) (ok bool, needsUpdate bool) {
	switch key {
	case 0:
		f.Active = value == "1" || value == "true"
	case 1:
		v, ok := parseInt(value)
		if !ok {
			return false, false
		}
		f.Mode = AnnotationMode(v)
	case 2:
		f.Text = value
	case 3:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.TextSize = v
	case 4:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.ArrowSize = v
	case 5:
		f.ShowAngleText = value == "1" || value == "true"
	case 6:
		f.ReflexAngle = value == "1" || value == "true"
	case 7:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.SphereAngleSize = v
	case 8:
		f.LinearFixedTicks = value == "1" || value == "true"
	case 9:
		v, ok := parseInt(value)
		if !ok {
			return false, false
		}
		f.LinearMeasureTicks = v
	case 10:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.LinearMeasureSpacing = v
	case 11:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.FontSizeLinear = v
	case 12:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.LinearMarkerSize = v
	default:
		return false, false
	}
	f.invalidate()
	return true, true
}
