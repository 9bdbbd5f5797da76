package filters

import (
	"math"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

// CompositionNormalise selects how CompositionProfileFilter scales its
// output bins, grounded on
// original_source/src/filters/compositionProfile.cpp's KEY_COMPPROFILE_
// NORMALISE toggle (raw count vs. density, plus the per-species fraction
// path it takes when a range stream is present).
type CompositionNormalise int

const (
	CompositionRaw CompositionNormalise = iota
	CompositionDensityOrFraction
)

// CompositionProfileFilter bins ions by their position along a cylinder's
// axis (spec §4.C6, "Composition profile"), grounded on
// original_source/src/filters/compositionProfile.{h,cpp}.
type CompositionProfileFilter struct {
	base

	Origin point.Point3D
	Axis   point.Point3D // origin-to-axis vector; length = half the cylinder length
	Radius float32

	FixedBins bool
	NumBins   int
	BinWidth  float32

	Normalise CompositionNormalise

	R, G, B, A float32
}

// NewCompositionProfileFilter returns the original's documented defaults:
// fixed bin width 0.5, 1000 bins when fixed-count is selected instead.
func NewCompositionProfileFilter() *CompositionProfileFilter {
	return &CompositionProfileFilter{
		Axis:     point.Point3D{Z: 1},
		Radius:   1,
		BinWidth: 0.5,
		NumBins:  1000,
		A:        1,
	}
}

func (f *CompositionProfileFilter) Kind() Kind { return KindCompositionProfile }

func (f *CompositionProfileFilter) CloneUncached() Filter {
	clone := *f
	clone.cacheValid = false
	clone.cached = RefreshResult{}
	return &clone
}

func (f *CompositionProfileFilter) NumBytesForCache(n int) int64 { return int64(f.NumBins) * 8 }
func (f *CompositionProfileFilter) EmitMask() stream.Mask        { return stream.Mask(stream.KindPlot) }
func (f *CompositionProfileFilter) BlockMask() stream.Mask       { return stream.Mask(stream.KindIon) }
func (f *CompositionProfileFilter) UseMask() stream.Mask {
	return stream.Mask(stream.KindIon) | stream.Mask(stream.KindRange)
}

func (f *CompositionProfileFilter) Refresh(in RefreshInput) (RefreshResult, ErrorKind) {
	if f.cacheEnabled && f.cacheValid {
		return f.cached, ErrNone
	}

	length := float32(f.Axis.Magnitude()) * 2
	numBins := f.NumBins
	if !f.FixedBins {
		if f.BinWidth <= 0 {
			return RefreshResult{}, ErrBoundsInvalid
		}
		numBins = int(length / f.BinWidth)
	}
	if numBins <= 0 {
		return RefreshResult{}, ErrBoundsInvalid
	}

	var rangeFrame *stream.RangeFrame
	for _, frame := range in.Frames {
		if rf, ok := frame.(*stream.RangeFrame); ok {
			rangeFrame = rf
			break
		}
	}

	var enabledIDs []int
	if rangeFrame != nil && rangeFrame.RangeFile != nil {
		for ionID := 0; ionID < rangeFrame.RangeFile.NumIons(); ionID++ {
			if ionID < len(rangeFrame.EnabledIons) && rangeFrame.EnabledIons[ionID] {
				enabledIDs = append(enabledIDs, ionID)
			}
		}
		if len(enabledIDs) == 0 {
			return RefreshResult{}, ErrNone
		}
	}

	speciesCount := 1
	if rangeFrame != nil {
		speciesCount = len(enabledIDs)
	}
	idxOf := make(map[int]int, speciesCount)
	for i, id := range enabledIDs {
		idxOf[id] = i
	}

	counts := make([][]float64, speciesCount)
	for i := range counts {
		counts[i] = make([]float64, numBins)
	}

	halfLen := length / 2
	sqrRad := f.Radius * f.Radius
	rot := point.RotationBetween(point.Point3D{Z: 1}, f.Axis)

	for _, frame := range in.Frames {
		ionIn, ok := frame.(*stream.IonFrame)
		if !ok {
			continue
		}
		for _, hit := range ionIn.Data {
			rel := hit.Pos().Sub(f.Origin)
			local := rot.Conjugate().Rotate(rel)
			if !(local.Z < halfLen && local.Z > -halfLen && local.X*local.X+local.Y*local.Y < sqrRad) {
				continue
			}
			bin := int(float32(numBins) * (local.Z + halfLen) / (2 * halfLen))
			if bin >= numBins {
				bin = numBins - 1
			}
			if bin < 0 {
				continue
			}

			speciesIdx := 0
			if rangeFrame != nil && rangeFrame.RangeFile != nil {
				ionID := rangeFrame.RangeFile.IonIDForMass(hit.MassToCharge())
				idx, ok := idxOf[ionID]
				if !ok {
					continue
				}
				speciesIdx = idx
			}
			counts[speciesIdx][bin]++
		}
	}

	plots := make([]stream.Frame, 0, speciesCount)
	for s := 0; s < speciesCount; s++ {
		plot := stream.NewPlotFrame()
		plot.XLabel = "Distance"
		if rangeFrame != nil && rangeFrame.RangeFile != nil {
			ionID := enabledIDs[s]
			ion := rangeFrame.RangeFile.Ion(ionID)
			plot.DataLabel = f.UserString() + ":" + ion.Short
			col := rangeFrame.RangeFile.Colour(ionID)
			plot.R, plot.G, plot.B = col.R, col.G, col.B
			if f.Normalise == CompositionDensityOrFraction {
				plot.YLabel = "Fraction"
			} else {
				plot.YLabel = "Count"
			}
		} else {
			plot.DataLabel = "Freq. Profile"
			plot.R, plot.G, plot.B, plot.A = f.R, f.G, f.B, f.A
			if f.Normalise == CompositionDensityOrFraction {
				plot.YLabel = "Density"
			} else {
				plot.YLabel = "Count"
			}
		}

		plot.XY = make([]stream.XY, numBins)
		for b := 0; b < numBins; b++ {
			xPos := (float32(b) / float32(numBins)) * length
			value := counts[s][b]
			if f.Normalise == CompositionDensityOrFraction {
				if rangeFrame != nil {
					var sum float64
					for sp := 0; sp < speciesCount; sp++ {
						sum += counts[sp][b]
					}
					if sum > 0 {
						value /= sum
					}
				} else {
					binVolume := math.Pi * float64(f.Radius) * float64(f.Radius) * float64(f.BinWidth)
					if binVolume > 0 {
						value /= binVolume
					}
				}
			}
			plot.XY[b] = stream.XY{X: xPos, Y: float32(value)}
		}
		plots = append(plots, plot)
	}

	result := RefreshResult{Frames: plots}
	if f.cacheEnabled {
		f.cached = result
		f.cacheValid = true
	}
	return result, ErrNone
}

func (f *CompositionProfileFilter) Properties() PropertyList {
	return PropertyList{Groups: []PropertyGroup{{
		Name: "Composition profile",
		Properties: []Property{
			{Key: 0, Name: "Radius", Value: floatStr(f.Radius), Type: PropertyFloat},
			{Key: 1, Name: "Fixed bins", Value: boolStr(f.FixedBins), Type: PropertyBool},
			{Key: 2, Name: "Num bins", Value: intStr(f.NumBins), Type: PropertyInt},
			{Key: 3, Name: "Bin width", Value: floatStr(f.BinWidth), Type: PropertyFloat},
			{Key: 4, Name: "Normalise", Value: intStr(int(f.Normalise)), Type: PropertyChoice},
		},
	}}}
}

func (f *CompositionProfileFilter) SetProperty(key int, value string) (ok bool, needsUpdate bool) {
	switch key {
	case 0:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.Radius = v
		f.invalidate()
		return true, true
	case 1:
		f.FixedBins = value == "1" || value == "true"
		f.invalidate()
		return true, true
	case 2:
		v, ok := parseInt(value)
		if !ok {
			return false, false
		}
		f.NumBins = v
		f.invalidate()
		return true, true
	case 3:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.BinWidth = v
		f.invalidate()
		return true, true
	case 4:
		v, ok := parseInt(value)
		if !ok {
			return false, false
		}
		f.Normalise = CompositionNormalise(v)
		f.invalidate()
		return true, true
	}
	return false, false
}
