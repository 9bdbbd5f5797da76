package stream

import "github.com/lukasgartmair/3Depict-Isosurfaces-sub000/rangefile"

// RangeFrame is a non-owning handle to a RangeFile plus per-ion and
// per-range enable flags, grounded on original_source/src/filter.h's
// RangeStreamData. The RangeFile pointer is shared, never mutated by a
// frame (spec §5: "frames never mutate it"); its lifetime is tied to the
// owning range-file filter's cache, per spec §9's shared-ownership note.
type RangeFrame struct {
	base

	RangeFile *rangefile.RangeFile

	// EnabledRanges and EnabledIons mirror the source filter's per-entry
	// toggle state at the time this frame was produced.
	EnabledRanges []bool
	EnabledIons   []bool
}

func (f *RangeFrame) Kind() Kind           { return KindRange }
func (f *RangeFrame) NumBasicObjects() int { return 0 }

// IonEnabled reports whether ionID is both in range and enabled.
func (f *RangeFrame) IonEnabled(ionID int) bool {
	return ionID >= 0 && ionID < len(f.EnabledIons) && f.EnabledIons[ionID]
}

// RangeEnabled reports whether rangeID is both in range and enabled.
func (f *RangeFrame) RangeEnabled(rangeID int) bool {
	return rangeID >= 0 && rangeID < len(f.EnabledRanges) && f.EnabledRanges[rangeID]
}
