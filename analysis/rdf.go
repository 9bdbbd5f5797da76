// Package analysis implements the histogram and surface-reduction helpers
// shared by the spatial-analysis filter (spec §4.C9): per-neighbour
// distance histograms, radial distribution functions, and convex-hull-based
// edge-bias reduction. None of these have a standalone source file in the
// retrieval pack -- original_source/src/filters/spatialAnalysis.cpp calls
// out to generateNNHist/generateDistHist/GetReducedHullPts, but their
// bodies were filtered out of the retrieved subset -- so the algorithms
// here follow spec §4.C9's prose directly, built in the teacher's
// dependency-free, hand-rolled-data-structure style (willow never reaches
// for a container or geometry library when the standard library and its
// own types suffice).
package analysis

import (
	"errors"
	"math"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/kdtree"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
)

// ErrInsufficientPoints is returned when a histogram is requested over a
// point set too small to support it (fewer than two points) -- mirrors the
// original's RDF_ERR_INSUFFICIENT_INPUT_POINTS sentinel.
var ErrInsufficientPoints = errors.New("analysis: insufficient points for histogram")

// NNHistogram computes, for every source point, the distance to its 1st
// through nnMaxth nearest neighbour drawn from target (indexed via tree,
// which must have been built over target by the caller), then bins each
// neighbour rank into its own histogram of numBins bins. Bin width is
// chosen per rank as the largest observed distance for that rank divided
// by numBins, matching the original's per-NN-level auto-scaling.
//
// Returns one histogram (length numBins) and one bin width per neighbour
// rank, indexed 0..nnMax-1.
func NNHistogram(source, target []point.Point3D, tree *kdtree.Tree, domain point.BoundCube, nnMax, numBins int) ([][]int, []float64, error) {
	if len(source) == 0 || tree.Len() < 2 {
		return nil, nil, ErrInsufficientPoints
	}
	if nnMax <= 0 || numBins <= 0 {
		return nil, nil, ErrInsufficientPoints
	}

	dists := make([][]float64, nnMax)
	for rank := range dists {
		dists[rank] = make([]float64, 0, len(source))
	}

	for _, p := range source {
		neighbours := tree.FindKNearest(p, domain, nnMax+1)
		rank := 0
		for _, idx := range neighbours {
			q := target[idx]
			d := math.Sqrt(p.SqrDistance(q))
			if d == 0 {
				// Coincides with the query point (source == target set); skip.
				continue
			}
			if rank >= nnMax {
				break
			}
			dists[rank] = append(dists[rank], d)
			rank++
		}
	}

	histogram := make([][]int, nnMax)
	binWidth := make([]float64, nnMax)
	for rank := 0; rank < nnMax; rank++ {
		histogram[rank] = make([]int, numBins)
		maxDist := 0.0
		for _, d := range dists[rank] {
			if d > maxDist {
				maxDist = d
			}
		}
		if maxDist == 0 {
			binWidth[rank] = 1
			continue
		}
		binWidth[rank] = maxDist / float64(numBins)
		for _, d := range dists[rank] {
			bin := int(d / binWidth[rank])
			if bin >= numBins {
				bin = numBins - 1
			}
			histogram[rank][bin]++
		}
	}
	return histogram, binWidth, nil
}

// DistanceHistogram computes a radial distribution histogram: for every
// source point, walks outward through tree's points in increasing-distance
// order up to distMax, incrementing the bin for each neighbour found.
// biasCount counts source points for which the tree was exhausted before
// reaching distMax (the original's "points were unable to find neighbour
// points that exceeded the search radius" warning).
func DistanceHistogram(source, target []point.Point3D, tree *kdtree.Tree, domain point.BoundCube, distMax float64, numBins int) (histogram []int, biasCount int, err error) {
	if len(source) == 0 || tree.Len() == 0 {
		return nil, 0, ErrInsufficientPoints
	}
	if distMax <= 0 || numBins <= 0 {
		return nil, 0, ErrInsufficientPoints
	}

	histogram = make([]int, numBins)
	maxSqrRad := distMax * distMax

	for _, p := range source {
		deadDistSq := 0.0
		for {
			idx, ok := tree.FindNearest(p, domain, deadDistSq)
			if !ok {
				biasCount++
				break
			}
			q := target[idx]
			d := p.SqrDistance(q)
			if d > maxSqrRad {
				break
			}
			dist := math.Sqrt(d)
			bin := int(dist / distMax * float64(numBins))
			if bin >= numBins {
				bin = numBins - 1
			}
			histogram[bin]++
			deadDistSq = d + epsilon
		}
	}
	return histogram, biasCount, nil
}

const epsilon = 1e-12
