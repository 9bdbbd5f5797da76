package analysis

import (
	"math"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
)

// hullDirections is a small, evenly-spread set of unit vectors (a Fibonacci
// sphere sampling) used to approximate the convex hull shell of a point set
// by its extreme points along each direction. The retrieval pack carries no
// computational-geometry library (no pack repo imports one), so rather than
// hand-roll a full incremental 3D convex hull, ReduceSurfacePoints
// approximates "near the hull boundary" by distance to this extreme-point
// shell -- cheaper, and accurate enough for the edge-bias reduction spec
// §4.C9 calls for.
const hullDirectionCount = 64

func hullDirections() []point.Point3D {
	dirs := make([]point.Point3D, hullDirectionCount)
	goldenAngle := math.Pi * (3 - math.Sqrt(5))
	for i := range dirs {
		y := 1 - 2*float64(i)/float64(hullDirectionCount-1)
		radius := math.Sqrt(math.Max(0, 1-y*y))
		theta := goldenAngle * float64(i)
		dirs[i] = point.Point3D{
			X: float32(math.Cos(theta) * radius),
			Y: float32(y),
			Z: float32(math.Sin(theta) * radius),
		}
	}
	return dirs
}

// ReduceSurfacePoints returns the subset of pts that lie further than
// reductionDistance from the point set's approximate convex hull shell,
// mirroring the original's GetReducedHullPts edge-bias reduction used
// ahead of RDF/NN analysis (spec §4.C9's "optional convex-hull reduction").
func ReduceSurfacePoints(pts []point.Point3D, reductionDistance float64) []point.Point3D {
	if len(pts) == 0 || reductionDistance <= 0 {
		return pts
	}

	shell := extremePoints(pts)
	reductionSq := reductionDistance * reductionDistance

	out := make([]point.Point3D, 0, len(pts))
	for _, p := range pts {
		if nearestSqrDist(p, shell) > reductionSq {
			out = append(out, p)
		}
	}
	return out
}

// extremePoints returns, for each sampled hull direction, the point of pts
// with the largest projection onto that direction -- the shell points a
// full convex hull's vertex set would contain.
func extremePoints(pts []point.Point3D) []point.Point3D {
	dirs := hullDirections()
	seen := make(map[int]bool, len(dirs))
	shell := make([]point.Point3D, 0, len(dirs))

	for _, d := range dirs {
		best := -1
		bestProj := math.Inf(-1)
		for i, p := range pts {
			proj := float64(p.X)*float64(d.X) + float64(p.Y)*float64(d.Y) + float64(p.Z)*float64(d.Z)
			if proj > bestProj {
				bestProj = proj
				best = i
			}
		}
		if best >= 0 && !seen[best] {
			seen[best] = true
			shell = append(shell, pts[best])
		}
	}
	return shell
}

func nearestSqrDist(p point.Point3D, shell []point.Point3D) float64 {
	best := math.Inf(1)
	for _, s := range shell {
		d := p.SqrDistance(s)
		if d < best {
			best = d
		}
	}
	return best
}
