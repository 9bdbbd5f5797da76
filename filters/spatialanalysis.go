package filters

import (
	"math"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/analysis"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/kdtree"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

// SpatialAlgorithm selects the analysis SpatialAnalysisFilter runs,
// grounded on original_source/src/filters/spatialAnalysis.cpp's
// ALGORITHM_DENSITY/DENSITY_FILTER/RDF enum.
type SpatialAlgorithm int

const (
	SpatialDensity SpatialAlgorithm = iota
	SpatialDensityFilter
	SpatialRDF
)

// wantRangePropagation mirrors the original's WANT_RANGE_PROPAGATION table:
// only density filtering needs its range stream to survive downstream.
var wantRangePropagation = [...]bool{false, true, false}

// SpatialStopMode selects how far a neighbour search is allowed to run,
// grounded on the original's STOP_MODE_NEIGHBOUR/RADIUS enum.
type SpatialStopMode int

const (
	StopAtNeighbourCount SpatialStopMode = iota
	StopAtRadius
)

// SpatialAnalysisFilter computes local ion density, filters ions by local
// density, or builds an RDF/nearest-neighbour histogram (spec §4.C6,
// "Spatial analysis"), grounded on
// original_source/src/filters/spatialAnalysis.{h,cpp}.
type SpatialAnalysisFilter struct {
	base

	Algorithm SpatialAlgorithm
	StopMode  SpatialStopMode
	NNMax     int
	DistMax   float32

	// DensityCutoff/KeepDensityUpper configure ALGORITHM_DENSITY_FILTER:
	// a point survives when (density <= DensityCutoff) XOR KeepDensityUpper.
	DensityCutoff    float32
	KeepDensityUpper bool

	// NumBins is the RDF/NN-histogram bin count.
	NumBins int

	// ExcludeSurface/ReductionDistance enable convex-hull edge-bias
	// reduction ahead of RDF analysis.
	ExcludeSurface    bool
	ReductionDistance float32

	// SourceIonEnabled/TargetIonEnabled select, per ion species, whether
	// that species contributes to the RDF's source or target point set.
	// Meaningful only when a range stream is present upstream; nil/empty
	// means "use every ion, source and target both" (RDF autocorrelation).
	SourceIonEnabled []bool
	TargetIonEnabled []bool

	R, G, B, A float32
}

// NewSpatialAnalysisFilter returns the original's documented defaults:
// local density analysis, fixed-neighbour-count stopping at 1 neighbour.
func NewSpatialAnalysisFilter() *SpatialAnalysisFilter {
	return &SpatialAnalysisFilter{
		StopMode:         StopAtNeighbourCount,
		NNMax:            1,
		DistMax:          1,
		DensityCutoff:    1,
		KeepDensityUpper: true,
		NumBins:          100,
		A:                1,
	}
}

func (f *SpatialAnalysisFilter) Kind() Kind { return KindSpatialAnalysis }

func (f *SpatialAnalysisFilter) CloneUncached() Filter {
	clone := *f
	clone.cacheValid = false
	clone.cached = RefreshResult{}
	clone.SourceIonEnabled = append([]bool(nil), f.SourceIonEnabled...)
	clone.TargetIonEnabled = append([]bool(nil), f.TargetIonEnabled...)
	return &clone
}

// NumBytesForCache returns -1: this filter's output size depends on the
// input point count and algorithm in ways that can't be estimated from n
// alone (a density filter may drop most of its input; an RDF emits a
// handful of small histograms regardless of n).
func (f *SpatialAnalysisFilter) NumBytesForCache(n int) int64 { return -1 }

func (f *SpatialAnalysisFilter) EmitMask() stream.Mask {
	if f.Algorithm == SpatialRDF {
		return stream.Mask(stream.KindPlot)
	}
	return stream.Mask(stream.KindIon)
}

func (f *SpatialAnalysisFilter) BlockMask() stream.Mask {
	if wantRangePropagation[f.Algorithm] {
		return stream.Mask(stream.KindIon)
	}
	return stream.Mask(stream.KindIon) | stream.Mask(stream.KindRange)
}

func (f *SpatialAnalysisFilter) UseMask() stream.Mask { return stream.Mask(stream.KindIon) }

func (f *SpatialAnalysisFilter) Refresh(in RefreshInput) (RefreshResult, ErrorKind) {
	if f.cacheEnabled && f.cacheValid {
		return f.cached, ErrNone
	}

	var ionFrames []*stream.IonFrame
	var totalIons int
	for _, frame := range in.Frames {
		if ionIn, ok := frame.(*stream.IonFrame); ok {
			ionFrames = append(ionFrames, ionIn)
			totalIons += len(ionIn.Data)
		}
	}
	if totalIons == 0 {
		return RefreshResult{}, ErrNone
	}

	var rangeFrame *stream.RangeFrame
	for _, frame := range in.Frames {
		if rf, ok := frame.(*stream.RangeFrame); ok {
			rangeFrame = rf
			break
		}
	}
	haveRangeParent := rangeFrame != nil && rangeFrame.RangeFile != nil

	if haveRangeParent && (f.Algorithm == SpatialRDF) {
		if !anyTrue(f.SourceIonEnabled) || !anyTrue(f.TargetIonEnabled) {
			return RefreshResult{}, ErrNone
		}
	}

	var result RefreshResult
	var errKind ErrorKind
	switch f.Algorithm {
	case SpatialDensity:
		result, errKind = f.refreshDensity(ionFrames, false)
	case SpatialDensityFilter:
		result, errKind = f.refreshDensity(ionFrames, true)
		if errKind == ErrNone && rangeFrame != nil {
			result.Frames = append([]stream.Frame{rangeFrame}, result.Frames...)
		}
	case SpatialRDF:
		result, errKind = f.refreshRDF(ionFrames, rangeFrame, haveRangeParent)
	default:
		return RefreshResult{}, ErrFormat
	}
	if errKind != ErrNone {
		return RefreshResult{}, errKind
	}

	if f.cacheEnabled {
		f.cached = result
		f.cacheValid = true
	}
	return result, ErrNone
}

func anyTrue(bs []bool) bool {
	if len(bs) == 0 {
		return true
	}
	for _, b := range bs {
		if b {
			return true
		}
	}
	return false
}

// refreshDensity implements ALGORITHM_DENSITY and ALGORITHM_DENSITY_FILTER,
// which share the same nearest-neighbour-density measurement and differ
// only in what they do with it: DENSITY rewrites each ion's mass-to-charge
// to its local density, while DENSITY_FILTER keeps or drops the ion
// according to DensityCutoff/KeepDensityUpper.
func (f *SpatialAnalysisFilter) refreshDensity(ionFrames []*stream.IonFrame, asFilter bool) (RefreshResult, ErrorKind) {
	var all []point.Point3D
	for _, frame := range ionFrames {
		all = append(all, ionhit.PointsFromIons(frame.Data)...)
	}
	if len(all) < 2 {
		return RefreshResult{}, ErrInsufficientSize
	}

	domain := point.NewInverseBound()
	for _, p := range all {
		domain.ExpandByPoint(p)
	}
	tree := kdtree.Build(all, kdtree.BuildOptions{})

	var out []stream.Frame
	for _, frame := range ionFrames {
		var kept []ionhit.IonHit
		for _, hit := range frame.Data {
			density, ok := f.localDensity(hit.Pos(), tree, all, domain)
			if !ok {
				continue
			}
			if asFilter {
				if xorBool(density <= float64(f.DensityCutoff), f.KeepDensityUpper) {
					kept = append(kept, hit)
				}
				continue
			}
			newHit := hit
			newHit.SetMassToCharge(float32(density))
			kept = append(kept, newHit)
		}
		if len(kept) == 0 {
			continue
		}
		newFrame := stream.NewIonFrame(kept)
		newFrame.R, newFrame.G, newFrame.B, newFrame.A = frame.R, frame.G, frame.B, frame.A
		newFrame.IonSize = frame.IonSize
		newFrame.Representation = frame.Representation
		if !asFilter {
			newFrame.ValueLabel = "Number Density (#/Vol^3)"
		} else {
			newFrame.ValueLabel = frame.ValueLabel
		}
		out = append(out, newFrame)
	}
	return RefreshResult{Frames: out}, ErrNone
}

// localDensity measures the density of points around p using the
// configured stop mode: a fixed neighbour count (density = k / sphere
// volume to the furthest of the k) or a fixed radius (density = count
// within DistMax / that sphere's volume).
func (f *SpatialAnalysisFilter) localDensity(p point.Point3D, tree *kdtree.Tree, all []point.Point3D, domain point.BoundCube) (float64, bool) {
	if f.StopMode == StopAtNeighbourCount {
		res := tree.FindKNearest(p, domain, f.NNMax+1)
		// p is itself in the tree and comes back first, at distance zero; it
		// is not one of its own neighbours.
		if len(res) > 0 && p.SqrDistance(all[res[0]]) == 0 {
			res = res[1:]
		}
		if len(res) > f.NNMax {
			res = res[:f.NNMax]
		}
		if len(res) == 0 {
			return 0, false
		}
		maxSqrRad := p.SqrDistance(all[res[len(res)-1]])
		return float64(len(res)) / sphereVolume(maxSqrRad), true
	}

	maxSqrRad := float64(f.DistMax) * float64(f.DistMax)
	vol := sphereVolume(maxSqrRad)
	deadDistSq := 0.0
	count := 0
	for {
		idx, ok := tree.FindNearest(p, domain, deadDistSq)
		if !ok {
			break
		}
		d := p.SqrDistance(all[idx])
		if d > maxSqrRad {
			break
		}
		count++
		deadDistSq = d + epsilonDist
	}
	if count == 0 {
		return 0, false
	}
	return float64(count) / vol, true
}

const epsilonDist = 1e-12

// sphereVolume is 4/3 * pi * r^3, taking r^2 to match the squared distances
// callers already have on hand.
func sphereVolume(sqrRadius float64) float64 {
	return 4.0 / 3.0 * math.Pi * math.Pow(sqrRadius, 1.5)
}

func xorBool(a, b bool) bool { return a != b }

// refreshRDF implements ALGORITHM_RDF: an optional source/target ion-species
// split, optional convex-hull surface-point exclusion on the source set,
// then either a per-neighbour-rank histogram (STOP_MODE_NEIGHBOUR) or a
// single radial distribution histogram (STOP_MODE_RADIUS).
func (f *SpatialAnalysisFilter) refreshRDF(ionFrames []*stream.IonFrame, rangeFrame *stream.RangeFrame, haveRangeParent bool) (RefreshResult, ErrorKind) {
	needSplitting := haveRangeParent && (!allTrue(f.SourceIonEnabled) || !allTrue(f.TargetIonEnabled))

	var source, target []point.Point3D
	if haveRangeParent && needSplitting {
		for _, frame := range ionFrames {
			for _, hit := range frame.Data {
				ionID := rangeFrame.RangeFile.IonIDForMass(hit.MassToCharge())
				if ionID < 0 {
					continue
				}
				if ionID < len(f.SourceIonEnabled) && f.SourceIonEnabled[ionID] {
					source = append(source, hit.Pos())
				}
				if ionID < len(f.TargetIonEnabled) && f.TargetIonEnabled[ionID] {
					target = append(target, hit.Pos())
				}
			}
		}
	} else {
		for _, frame := range ionFrames {
			source = append(source, ionhit.PointsFromIons(frame.Data)...)
		}
		target = source
	}

	if f.ExcludeSurface && f.ReductionDistance > 0 {
		source = analysis.ReduceSurfacePoints(source, float64(f.ReductionDistance))
	}

	if len(source) == 0 || len(target) == 0 {
		return RefreshResult{}, ErrNone
	}

	domain := point.NewInverseBound()
	for _, p := range target {
		domain.ExpandByPoint(p)
	}
	tree := kdtree.Build(target, kdtree.BuildOptions{})
	if tree.Len() == 0 {
		return RefreshResult{}, ErrNone
	}

	switch f.StopMode {
	case StopAtNeighbourCount:
		histogram, binWidth, err := analysis.NNHistogram(source, target, tree, domain, f.NNMax, f.NumBins)
		if err != nil {
			return RefreshResult{}, ErrInsufficientSize
		}
		var out []stream.Frame
		for rank := 0; rank < f.NNMax; rank++ {
			plot := stream.NewPlotFrame()
			plot.XLabel = "Radial Distance"
			plot.YLabel = "Count"
			plot.DataLabel = f.UserString() + " " + intStr(rank+1) + "NN Freq."
			plot.R, plot.G, plot.B = f.R, f.G, f.B
			plot.XY = make([]stream.XY, f.NumBins)
			for b := 0; b < f.NumBins; b++ {
				plot.XY[b] = stream.XY{X: float32(b) * float32(binWidth[rank]), Y: float32(histogram[rank][b])}
			}
			out = append(out, plot)
		}
		return RefreshResult{Frames: out}, ErrNone
	case StopAtRadius:
		histogram, biasCount, err := analysis.DistanceHistogram(source, target, tree, domain, float64(f.DistMax), f.NumBins)
		if err != nil {
			return RefreshResult{}, ErrInsufficientSize
		}
		plot := stream.NewPlotFrame()
		plot.XLabel = "Radial Distance"
		plot.YLabel = "Count"
		plot.DataLabel = f.UserString() + " RDF"
		plot.R, plot.G, plot.B = f.R, f.G, f.B
		plot.XY = make([]stream.XY, f.NumBins)
		for b := 0; b < f.NumBins; b++ {
			dist := float32(b) / float32(f.NumBins) * f.DistMax
			plot.XY[b] = stream.XY{X: dist, Y: float32(histogram[b])}
		}
		var warnings []string
		if biasCount > 0 {
			warnings = append(warnings, "some points could not find a neighbour within the search radius and were terminated early")
		}
		return RefreshResult{Frames: []stream.Frame{plot}, Warnings: warnings}, ErrNone
	}
	return RefreshResult{}, ErrFormat
}

func allTrue(bs []bool) bool {
	if len(bs) == 0 {
		return true
	}
	for _, b := range bs {
		if !b {
			return false
		}
	}
	return true
}

func (f *SpatialAnalysisFilter) Properties() PropertyList {
	return PropertyList{Groups: []PropertyGroup{{
		Name: "Spatial analysis",
		Properties: []Property{
			{Key: 0, Name: "Algorithm", Value: intStr(int(f.Algorithm)), Type: PropertyChoice},
			{Key: 1, Name: "Stop mode", Value: intStr(int(f.StopMode)), Type: PropertyChoice},
			{Key: 2, Name: "NN max", Value: intStr(f.NNMax), Type: PropertyInt},
			{Key: 3, Name: "Dist max", Value: floatStr(f.DistMax), Type: PropertyFloat},
			{Key: 4, Name: "Num bins", Value: intStr(f.NumBins), Type: PropertyInt},
			{Key: 5, Name: "Density cutoff", Value: floatStr(f.DensityCutoff), Type: PropertyFloat},
			{Key: 6, Name: "Keep upper", Value: boolStr(f.KeepDensityUpper), Type: PropertyBool},
			{Key: 7, Name: "Exclude surface", Value: boolStr(f.ExcludeSurface), Type: PropertyBool},
			{Key: 8, Name: "Reduction distance", Value: floatStr(f.ReductionDistance), Type: PropertyFloat},
		},
	}}}
}

func (f *SpatialAnalysisFilter) SetProperty(key int, value string) (ok bool, needsUpdate bool) {
	switch key {
	case 0:
		v, ok := parseInt(value)
		if !ok {
			return false, false
		}
		f.Algorithm = SpatialAlgorithm(v)
	case 1:
		v, ok := parseInt(value)
		if !ok {
			return false, false
		}
		f.StopMode = SpatialStopMode(v)
	case 2:
		v, ok := parseInt(value)
		if !ok {
			return false, false
		}
		f.NNMax = v
	case 3:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.DistMax = v
	case 4:
		v, ok := parseInt(value)
		if !ok {
			return false, false
		}
		f.NumBins = v
	case 5:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.DensityCutoff = v
	case 6:
		f.KeepDensityUpper = value == "1" || value == "true"
	case 7:
		f.ExcludeSurface = value == "1" || value == "true"
	case 8:
		v, ok := parseFloat(value)
		if !ok {
			return false, false
		}
		f.ReductionDistance = v
	default:
		return false, false
	}
	f.invalidate()
	return true, true
}
