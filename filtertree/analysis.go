package filtertree

import (
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/filters"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

// WarningKind classifies a pre-refresh advisory warning (spec §4.C7:
// "purely advisory ... report two warning classes").
type WarningKind int

const (
	// WarningDeadPair: a child uses nothing its parent path can emit, or
	// blocks everything the parent path emits while using nothing.
	WarningDeadPair WarningKind = iota
	// WarningBiasedDensity: a density/concentration-sensitive analyser
	// appears below a sampling node without a range parent restoring
	// absolute identity.
	WarningBiasedDensity
)

// Warning is one pre-refresh advisory finding, naming the offending node.
type Warning struct {
	NodeID  uint64
	Kind    WarningKind
	Message string
}

// Analyse walks the tree computing, along each root-to-node path, the
// accumulated stream-type masks reachable from the path above, and reports
// the two advisory warning classes spec §4.C7 names. This never blocks a
// refresh -- it is purely advisory, matching the original's pre-refresh
// analysis pass.
func (t *Tree) Analyse() []Warning {
	var warnings []Warning
	var walk func(n *FilterNode, reachable stream.Mask, sawSampling, sawRangeParent bool)
	walk = func(n *FilterNode, reachable stream.Mask, sawSampling, sawRangeParent bool) {
		use := n.Filter.UseMask()
		block := n.Filter.BlockMask()

		if n.parent != nil {
			switch {
			case use != 0 && reachable&use == 0:
				warnings = append(warnings, Warning{
					NodeID:  n.id,
					Kind:    WarningDeadPair,
					Message: "filter uses no stream kind reachable from its parent path",
				})
			case use == 0 && reachable != 0 && block&reachable == reachable:
				warnings = append(warnings, Warning{
					NodeID:  n.id,
					Kind:    WarningDeadPair,
					Message: "filter blocks every stream kind its parent path emits while using none of them",
				})
			}
		}

		if isDensitySensitive(n.Filter) && sawSampling && !sawRangeParent {
			warnings = append(warnings, Warning{
				NodeID:  n.id,
				Kind:    WarningBiasedDensity,
				Message: "density/concentration-sensitive analyser appears below a sampling node without a restoring range parent",
			})
		}

		childSampling := sawSampling || isSamplingNode(n.Filter)
		childRangeParent := sawRangeParent
		if _, ok := n.Filter.(*filters.RangeFileFilter); ok {
			childRangeParent = true
		}

		childReachable := (reachable &^ block) | n.Filter.EmitMask()
		for _, c := range n.children {
			walk(c, childReachable, childSampling, childRangeParent)
		}
	}
	for _, r := range t.roots {
		walk(r, 0, false, false)
	}
	return warnings
}

func isSamplingNode(f filters.Filter) bool {
	switch v := f.(type) {
	case *filters.DataLoadFilter:
		return v.Sampling
	case *filters.DownsampleFilter:
		return true
	}
	return false
}

func isDensitySensitive(f filters.Filter) bool {
	switch v := f.(type) {
	case *filters.SpatialAnalysisFilter:
		return v.Algorithm == filters.SpatialDensity || v.Algorithm == filters.SpatialDensityFilter
	case *filters.VoxeliseFilter:
		return v.Normalise == filters.VoxelNormaliseRatio || v.Normalise == filters.VoxelNormaliseConcentration
	}
	return false
}
