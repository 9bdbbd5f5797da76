package filters

import (
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/rangefile"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

// DownsampleMode selects fraction or count-based selection, grounded on
// original_source/src/filters/ionDownsample.cpp.
type DownsampleMode int

const (
	DownsampleFraction DownsampleMode = iota
	DownsampleCount
)

// DownsampleFilter keeps a subset of incoming ions, either by per-ion
// Bernoulli trial (fraction mode) or by drawing an exact count uniformly
// without replacement (count mode). If PerSpecies is set and a range stream
// is present upstream, the fraction/count applies independently to each ion
// species (spec §4.C6, "Downsample").
type DownsampleFilter struct {
	base

	Mode       DownsampleMode
	Fraction   float64
	Count      int
	PerSpecies bool
}

// NewDownsampleFilter returns a DownsampleFilter defaulting to fraction mode
// keeping every ion (fraction 1.0).
func NewDownsampleFilter() *DownsampleFilter {
	return &DownsampleFilter{Mode: DownsampleFraction, Fraction: 1.0}
}

func (f *DownsampleFilter) Kind() Kind { return KindDownsample }

func (f *DownsampleFilter) CloneUncached() Filter {
	clone := *f
	clone.cacheValid = false
	clone.cached = RefreshResult{}
	return &clone
}

func (f *DownsampleFilter) NumBytesForCache(n int) int64 { return int64(n) * 16 }
func (f *DownsampleFilter) EmitMask() stream.Mask        { return stream.Mask(stream.KindIon) }
func (f *DownsampleFilter) BlockMask() stream.Mask       { return stream.Mask(stream.KindIon) }
func (f *DownsampleFilter) UseMask() stream.Mask {
	return stream.Mask(stream.KindIon) | stream.Mask(stream.KindRange)
}

func (f *DownsampleFilter) Refresh(in RefreshInput) (RefreshResult, ErrorKind) {
	if f.cacheEnabled && f.cacheValid {
		return f.cached, ErrNone
	}

	var rangeFrame *stream.RangeFrame
	for _, frame := range in.Frames {
		if rf, ok := frame.(*stream.RangeFrame); ok {
			rangeFrame = rf
			break
		}
	}

	rng := point.NewRNG()
	var out []stream.Frame
	for _, frame := range in.Frames {
		ionIn, ok := frame.(*stream.IonFrame)
		if !ok {
			continue
		}
		var kept []ionhit.IonHit
		if f.PerSpecies && rangeFrame != nil && rangeFrame.RangeFile != nil {
			kept = f.sampleBySpecies(ionIn.Data, rangeFrame.RangeFile, rng)
		} else {
			kept = f.sample(ionIn.Data, rng)
		}
		out = append(out, stream.NewIonFrame(kept))
	}

	result := RefreshResult{Frames: out}
	if f.cacheEnabled {
		f.cached = result
		f.cacheValid = true
	}
	return result, ErrNone
}

func (f *DownsampleFilter) sample(ions []ionhit.IonHit, rng *point.RNG) []ionhit.IonHit {
	switch f.Mode {
	case DownsampleCount:
		if f.Count >= len(ions) {
			return append([]ionhit.IonHit(nil), ions...)
		}
		idxs := rng.UniqueIndices(len(ions), f.Count)
		out := make([]ionhit.IonHit, len(idxs))
		for i, idx := range idxs {
			out[i] = ions[idx]
		}
		return out
	default:
		out := make([]ionhit.IonHit, 0, len(ions))
		for _, ion := range ions {
			if rng.KeepWithProbability(f.Fraction) {
				out = append(out, ion)
			}
		}
		return out
	}
}

// sampleBySpecies partitions ions into per-species pools by range membership
// (unranged ions form their own pool) and samples each pool independently,
// preserving overall relative order.
func (f *DownsampleFilter) sampleBySpecies(ions []ionhit.IonHit, rf *rangefile.RangeFile, rng *point.RNG) []ionhit.IonHit {
	pools := make(map[int][]int) // ionID (-1 for unranged) -> indices into ions
	for i, ion := range ions {
		ionID := rf.IonIDForMass(ion.MassToCharge())
		pools[ionID] = append(pools[ionID], i)
	}

	keep := make([]bool, len(ions))
	for _, indices := range pools {
		var selected []int
		switch f.Mode {
		case DownsampleCount:
			if f.Count >= len(indices) {
				selected = indices
			} else {
				picks := rng.UniqueIndices(len(indices), f.Count)
				selected = make([]int, len(picks))
				for i, p := range picks {
					selected[i] = indices[p]
				}
			}
		default:
			for _, idx := range indices {
				if rng.KeepWithProbability(f.Fraction) {
					selected = append(selected, idx)
				}
			}
		}
		for _, idx := range selected {
			keep[idx] = true
		}
	}

	out := make([]ionhit.IonHit, 0, len(ions))
	for i, ion := range ions {
		if keep[i] {
			out = append(out, ion)
		}
	}
	return out
}

func (f *DownsampleFilter) Properties() PropertyList {
	return PropertyList{Groups: []PropertyGroup{{
		Name: "Downsample",
		Properties: []Property{
			{Key: 0, Name: "Fraction", Value: floatStr(float32(f.Fraction)), Type: PropertyFloat},
			{Key: 1, Name: "Count", Value: intStr(f.Count), Type: PropertyInt},
			{Key: 2, Name: "Per species", Value: boolStr(f.PerSpecies), Type: PropertyBool},
		},
	}}}
}

func (f *DownsampleFilter) SetProperty(key int, value string) (ok bool, needsUpdate bool) {
	switch key {
	case 0:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.Fraction = float64(v)
		f.Mode = DownsampleFraction
		f.invalidate()
		return true, true
	case 1:
		v, ok := parseInt(value)
		if !ok {
			return false, false
		}
		f.Count = v
		f.Mode = DownsampleCount
		f.invalidate()
		return true, true
	case 2:
		f.PerSpecies = value == "1" || value == "true"
		f.invalidate()
		return true, true
	}
	return false, false
}
