package filters

import (
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

// VoxelNormalise selects how VoxeliseFilter scales its output grid,
// grounded on original_source/src/filters/voxelise.cpp's
// VOXEL_NORMALISETYPE_NONE/VOLUME/ALLATOMSINVOXEL/COUNT2INVOXEL enum.
type VoxelNormalise int

const (
	VoxelNormaliseNone VoxelNormalise = iota
	VoxelNormaliseVolume
	VoxelNormaliseConcentration // numerator / total atoms in voxel
	VoxelNormaliseRatio         // numerator species / denominator species
)

// VoxeliseFilter bins ions into a 3D grid over the union bounding cube of
// its input ion streams (spec §4.C6, "Voxelise"), grounded on
// original_source/src/filters/voxelise.{h,cpp}.
type VoxeliseFilter struct {
	base

	FixedWidth bool
	NBins      [3]int
	BinWidth   [3]float32

	Normalise VoxelNormalise
	// NumeratorIon/DenominatorIon select species for the ratio/concentration
	// modes, meaningful only when a range stream is present upstream.
	NumeratorIon   int
	DenominatorIon int

	Representation  stream.VoxelRepresentation
	R, G, B, A      float32
	SplatSize       float32
	IsoLevel        float32
}

// NewVoxeliseFilter returns the original's documented default: 50 bins per
// axis, none normalisation, point-cloud representation.
func NewVoxeliseFilter() *VoxeliseFilter {
	return &VoxeliseFilter{
		NBins:          [3]int{50, 50, 50},
		Representation: stream.VoxelRepresentPointCloud,
		A:              1,
		SplatSize:      2,
		IsoLevel:       0.5,
	}
}

func (f *VoxeliseFilter) Kind() Kind { return KindVoxelise }

func (f *VoxeliseFilter) CloneUncached() Filter {
	clone := *f
	clone.cacheValid = false
	clone.cached = RefreshResult{}
	return &clone
}

func (f *VoxeliseFilter) NumBytesForCache(n int) int64 {
	return int64(f.NBins[0]) * int64(f.NBins[1]) * int64(f.NBins[2]) * 4
}
func (f *VoxeliseFilter) EmitMask() stream.Mask  { return stream.Mask(stream.KindVoxel) }
func (f *VoxeliseFilter) BlockMask() stream.Mask { return stream.Mask(stream.KindIon) }
func (f *VoxeliseFilter) UseMask() stream.Mask {
	return stream.Mask(stream.KindIon) | stream.Mask(stream.KindRange)
}

func (f *VoxeliseFilter) Refresh(in RefreshInput) (RefreshResult, ErrorKind) {
	if f.cacheEnabled && f.cacheValid {
		return f.cached, ErrNone
	}

	var ionFrames []*stream.IonFrame
	bound := point.NewInverseBound()
	for _, frame := range in.Frames {
		ionIn, ok := frame.(*stream.IonFrame)
		if !ok || len(ionIn.Data) < 2 {
			continue
		}
		ionFrames = append(ionFrames, ionIn)
		bound.Union(ionhit.DataLimits(ionIn.Data))
	}
	if !bound.IsValid() {
		return RefreshResult{}, ErrBoundsInvalid
	}

	nBins := f.NBins
	if f.FixedWidth {
		sides := bound.Sides()
		widths := [3]float32{sides.X, sides.Y, sides.Z}
		for i, w := range f.BinWidth {
			if w <= 0 {
				return RefreshResult{}, ErrBoundsInvalid
			}
			nBins[i] = int(widths[i] / w)
			if nBins[i] < 1 {
				nBins[i] = 1
			}
		}
	}

	var rangeFrame *stream.RangeFrame
	for _, frame := range in.Frames {
		if rf, ok := frame.(*stream.RangeFrame); ok {
			rangeFrame = rf
			break
		}
	}

	grid := stream.NewVoxelGrid(nBins[0], nBins[1], nBins[2], bound)
	f.countInto(grid, ionFrames, rangeFrame, f.NumeratorIon, true)

	needsDenom := f.Normalise == VoxelNormaliseRatio || f.Normalise == VoxelNormaliseConcentration
	var denom *stream.VoxelGrid
	if needsDenom {
		if rangeFrame == nil {
			return RefreshResult{}, ErrBoundsInvalid
		}
		denom = stream.NewVoxelGrid(nBins[0], nBins[1], nBins[2], bound)
		if f.Normalise == VoxelNormaliseRatio {
			f.countInto(denom, ionFrames, rangeFrame, f.DenominatorIon, true)
		} else {
			f.countInto(denom, ionFrames, nil, 0, false)
		}
	}

	f.applyNormalisation(grid, denom)

	voxelFrame := stream.NewVoxelFrame(grid)
	voxelFrame.Representation = f.Representation
	voxelFrame.R, voxelFrame.G, voxelFrame.B, voxelFrame.A = f.R, f.G, f.B, f.A
	voxelFrame.SplatSize = f.SplatSize
	voxelFrame.IsoLevel = f.IsoLevel

	result := RefreshResult{Frames: []stream.Frame{voxelFrame}}
	if f.cacheEnabled {
		f.cached = result
		f.cacheValid = true
	}
	return result, ErrNone
}

// countInto increments grid cells for every ion in frames. When
// rangeFrame is non-nil and bySpecies is true, only ions belonging to
// ionID are counted; when rangeFrame is nil, every ion is counted
// (the "all atoms in voxel" denominator).
func (f *VoxeliseFilter) countInto(grid *stream.VoxelGrid, frames []*stream.IonFrame, rangeFrame *stream.RangeFrame, ionID int, bySpecies bool) {
	for _, frame := range frames {
		for _, hit := range frame.Data {
			if bySpecies && rangeFrame != nil && rangeFrame.RangeFile != nil {
				if rangeFrame.RangeFile.IonIDForMass(hit.MassToCharge()) != ionID {
					continue
				}
			}
			x, y, z, ok := grid.CellIndexOf(hit.Pos())
			if !ok {
				continue
			}
			grid.Add(x, y, z, 1)
		}
	}
}

func (f *VoxeliseFilter) applyNormalisation(grid, denom *stream.VoxelGrid) {
	switch f.Normalise {
	case VoxelNormaliseVolume:
		volume := float32(grid.VoxelVolume())
		if volume <= 0 {
			return
		}
		eachCell(grid, func(x, y, z int) {
			grid.Set(x, y, z, grid.At(x, y, z)/volume)
		})
	case VoxelNormaliseRatio, VoxelNormaliseConcentration:
		eachCell(grid, func(x, y, z int) {
			d := denom.At(x, y, z)
			if d == 0 {
				grid.Set(x, y, z, 0)
				return
			}
			grid.Set(x, y, z, grid.At(x, y, z)/d)
		})
	}
}

// eachCell visits every (x,y,z) cell coordinate of grid.
func eachCell(grid *stream.VoxelGrid, fn func(x, y, z int)) {
	for x := 0; x < grid.NX; x++ {
		for y := 0; y < grid.NY; y++ {
			for z := 0; z < grid.NZ; z++ {
				fn(x, y, z)
			}
		}
	}
}

func (f *VoxeliseFilter) Properties() PropertyList {
	return PropertyList{Groups: []PropertyGroup{{
		Name: "Voxelise",
		Properties: []Property{
			{Key: 0, Name: "Fixed width", Value: boolStr(f.FixedWidth), Type: PropertyBool},
			{Key: 1, Name: "Bins X", Value: intStr(f.NBins[0]), Type: PropertyInt},
			{Key: 2, Name: "Bins Y", Value: intStr(f.NBins[1]), Type: PropertyInt},
			{Key: 3, Name: "Bins Z", Value: intStr(f.NBins[2]), Type: PropertyInt},
			{Key: 4, Name: "Normalise", Value: intStr(int(f.Normalise)), Type: PropertyChoice},
		},
	}}}
}

func (f *VoxeliseFilter) SetProperty(key int, value string) (ok bool, needsUpdate bool) {
	switch key {
	case 0:
		f.FixedWidth = value == "1" || value == "true"
		f.invalidate()
		return true, true
	case 1, 2, 3:
		v, ok := parseInt(value)
		if !ok {
			return false, false
		}
		f.NBins[key-1] = v
		f.invalidate()
		return true, true
	case 4:
		v, ok := parseInt(value)
		if !ok {
			return false, false
		}
		f.Normalise = VoxelNormalise(v)
		f.invalidate()
		return true, true
	}
	return false, false
}
