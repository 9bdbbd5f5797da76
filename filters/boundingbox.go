package filters

import (
	"strconv"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

// BoundingBoxFilter draws the union bounding cube of its input ion streams,
// with an axis-tick comb labelled at fixed count or fixed spacing (spec
// §4.C6, "Bounding box"), grounded on
// original_source/src/filters/boundingBox.{h,cpp}.
type BoundingBoxFilter struct {
	base

	Visible bool

	FixedNumTicks bool
	NumTicks      [3]int
	TickSpacing   [3]float32

	FontSize float32

	R, G, B, A float32
	LineWidth  float32
}

// NewBoundingBoxFilter returns the original's documented defaults: visible,
// fixed-count ticks (12 per axis), black lines, opaque.
func NewBoundingBoxFilter() *BoundingBoxFilter {
	return &BoundingBoxFilter{
		Visible:       true,
		FixedNumTicks: true,
		NumTicks:      [3]int{12, 12, 12},
		TickSpacing:   [3]float32{5, 5, 5},
		FontSize:      5,
		A:             1,
		LineWidth:     2,
	}
}

func (f *BoundingBoxFilter) Kind() Kind { return KindBoundingBox }

func (f *BoundingBoxFilter) CloneUncached() Filter {
	clone := *f
	clone.cacheValid = false
	clone.cached = RefreshResult{}
	return &clone
}

// NumBytesForCache returns -1: we don't cache this filter's output, and its
// size has no meaningful relationship to its input count anyway.
func (f *BoundingBoxFilter) NumBytesForCache(n int) int64 { return -1 }
func (f *BoundingBoxFilter) EmitMask() stream.Mask        { return stream.Mask(stream.KindDraw) }
func (f *BoundingBoxFilter) BlockMask() stream.Mask       { return 0 }
func (f *BoundingBoxFilter) UseMask() stream.Mask         { return stream.Mask(stream.KindIon) }

func (f *BoundingBoxFilter) Refresh(in RefreshInput) (RefreshResult, ErrorKind) {
	if f.cacheEnabled && f.cacheValid {
		return f.cached, ErrNone
	}

	out := append([]stream.Frame(nil), in.Frames...)

	bound := point.NewInverseBound()
	for _, frame := range in.Frames {
		ionIn, ok := frame.(*stream.IonFrame)
		if !ok {
			continue
		}
		for _, hit := range ionIn.Data {
			bound.ExpandByPoint(hit.Pos())
		}
	}

	if bound.IsValid() && f.Visible {
		out = append(out, f.drawFrame(bound))
	}

	result := RefreshResult{Frames: out}
	if f.cacheEnabled {
		f.cached = result
		f.cacheValid = true
	}
	return result, ErrNone
}

func (f *BoundingBoxFilter) drawFrame(bound point.BoundCube) *stream.DrawFrame {
	lo, hi := bound.Bounds()

	prism := stream.RectPrism{LowCorner: lo, HighCorner: hi, R: f.R, G: f.G, B: f.B, A: f.A}
	primitives := []stream.Primitive{prism}

	for axis := 0; axis < 3; axis++ {
		spacing, count := f.tickSpacingAndCount(axis, lo, hi)
		if spacing <= 0 || count <= 0 {
			continue
		}
		origin := lo.Component(axis)
		for tick := 0; tick <= count; tick++ {
			value := origin + float32(tick)*spacing
			pos := lo
			switch axis {
			case 0:
				pos.X = value
			case 1:
				pos.Y = value
			default:
				pos.Z = value
			}
			primitives = append(primitives, stream.Text{
				Origin: pos,
				Label:  strconv.FormatFloat(float64(value), 'g', 4, 32),
				Size:   f.FontSize,
				R:      f.R, G: f.G, B: f.B, A: f.A,
			})
		}
	}

	return &stream.DrawFrame{Primitives: primitives}
}

// tickSpacingAndCount resolves this axis's tick spacing and count from
// either FixedNumTicks (spacing derived from the box extent divided by the
// configured count) or fixed spacing (count derived from the extent
// divided by the configured spacing), mirroring the original's two modes.
func (f *BoundingBoxFilter) tickSpacingAndCount(axis int, lo, hi point.Point3D) (float32, int) {
	extent := hi.Component(axis) - lo.Component(axis)
	if f.FixedNumTicks {
		n := f.NumTicks[axis]
		if n <= 0 {
			return 0, 0
		}
		return extent / float32(n), n
	}
	spacing := f.TickSpacing[axis]
	if spacing <= 0 {
		return 0, 0
	}
	return spacing, int(extent/spacing) + 1
}

func (f *BoundingBoxFilter) Properties() PropertyList {
	return PropertyList{Groups: []PropertyGroup{{
		Name: "Bounding box",
		Properties: []Property{
			{Key: 0, Name: "Visible", Value: boolStr(f.Visible), Type: PropertyBool},
			{Key: 1, Name: "Fixed tick count", Value: boolStr(f.FixedNumTicks), Type: PropertyBool},
			{Key: 2, Name: "Ticks X", Value: intStr(f.NumTicks[0]), Type: PropertyInt},
			{Key: 3, Name: "Ticks Y", Value: intStr(f.NumTicks[1]), Type: PropertyInt},
			{Key: 4, Name: "Ticks Z", Value: intStr(f.NumTicks[2]), Type: PropertyInt},
			{Key: 5, Name: "Spacing X", Value: floatStr(f.TickSpacing[0]), Type: PropertyFloat},
			{Key: 6, Name: "Spacing Y", Value: floatStr(f.TickSpacing[1]), Type: PropertyFloat},
			{Key: 7, Name: "Spacing Z", Value: floatStr(f.TickSpacing[2]), Type: PropertyFloat},
			{Key: 8, Name: "Font size", Value: floatStr(f.FontSize), Type: PropertyFloat},
			{Key: 9, Name: "Line width", Value: floatStr(f.LineWidth), Type: PropertyFloat},
		},
	}}}
}

func (f *BoundingBoxFilter) SetProperty(key int, value string) (ok bool, needsUpdate bool) {
	switch key {
	case 0:
		f.Visible = value == "1" || value == "true"
	case 1:
		f.FixedNumTicks = value == "1" || value == "true"
	case 2, 3, 4:
		v, ok := parseInt(value)
		if !ok {
			return false, false
		}
		f.NumTicks[key-2] = v
	case 5, 6, 7:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.TickSpacing[key-5] = v
	case 8:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.FontSize = v
	case 9:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.LineWidth = v
	default:
		return false, false
	}
	f.invalidate()
	return true, true
}
