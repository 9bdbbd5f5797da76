// Package stream defines the tagged data frames that travel between filter
// tree nodes (spec §4.C5): ion, plot, draw, range and voxel frames. Grounded
// on original_source/src/filter.h's FilterStreamData hierarchy (IonStreamData,
// PlotStreamData, DrawStreamData, RangeStreamData, VoxelStreamData) and on
// its STREAM_TYPE_* bitmask constants, reworked as a closed Go interface
// rather than a C++ virtual base, per SPEC_FULL.md §9's "sum type, no
// open-world dispatch" design note.
package stream

// Kind identifies which concrete frame type a Frame value holds.
type Kind int

const (
	KindIon Kind = 1 << iota
	KindPlot
	KindDraw
	KindRange
	KindVoxel
)

// String returns the stream kind's canonical name, matching the original's
// STREAM_NAMES table.
func (k Kind) String() string {
	switch k {
	case KindIon:
		return "Ion"
	case KindPlot:
		return "Plot"
	case KindDraw:
		return "Draw"
	case KindRange:
		return "Range"
	case KindVoxel:
		return "Voxel"
	default:
		return "Unknown"
	}
}

// Mask is a bitmask over Kind values, used by filter nodes for their
// emit/block/use masks (spec §4.C6).
type Mask int

// MaskAll matches every stream kind, mirroring STREAMTYPE_MASK_ALL.
const MaskAll Mask = Mask(KindIon | KindPlot | KindDraw | KindRange | KindVoxel)

// Has reports whether k is set in m.
func (m Mask) Has(k Kind) bool { return m&Mask(k) != 0 }

// With returns m with k added.
func (m Mask) With(k Kind) Mask { return m | Mask(k) }

// Without returns m with k cleared.
func (m Mask) Without(k Kind) Mask { return m &^ Mask(k) }

// Frame is the tagged union every stream frame implements. A Frame carries
// exactly one payload kind, a cached flag (owner of lifetime: the producing
// filter when cached, the consumer otherwise) and a back-pointer to its
// producer, used only for selection-binding interaction callbacks (spec
// §4.C5).
type Frame interface {
	Kind() Kind
	// Cached reports whether the producing filter retains ownership of this
	// frame's lifetime (spec §4.C6 caching rule).
	Cached() bool
	SetCached(bool)
	// Producer returns an opaque identifier for the filter node that
	// produced this frame (spec §4.C5's "back-pointer to its producer").
	Producer() ProducerID
	SetProducer(ProducerID)
	// NumBasicObjects mirrors FilterStreamData::GetNumBasicObjects -- a
	// coarse size hint used for cache-admission byte estimates, not an exact
	// count for every frame kind.
	NumBasicObjects() int
}

// ProducerID identifies the filter tree node that produced a frame. The
// filtertree package assigns these; stream treats it as opaque.
type ProducerID uint64

// base is embedded by every concrete frame type to provide the common
// cached/producer bookkeeping without repeating it per type.
type base struct {
	cached   bool
	producer ProducerID
}

func (b *base) Cached() bool           { return b.cached }
func (b *base) SetCached(c bool)       { b.cached = c }
func (b *base) Producer() ProducerID   { return b.producer }
func (b *base) SetProducer(p ProducerID) { b.producer = p }

// CountByKind tallies frames by kind, used by the scheduler and tests to
// assert on emitted stream shapes without inspecting payloads.
func CountByKind(frames []Frame) map[Kind]int {
	counts := make(map[Kind]int)
	for _, f := range frames {
		counts[f.Kind()]++
	}
	return counts
}

// Filter returns the subset of frames whose kind is set in mask, preserving
// order -- the "use-mask" input filtering step of the scheduler contract
// (spec §4.C7 step 2).
func Filter(frames []Frame, mask Mask) []Frame {
	out := make([]Frame, 0, len(frames))
	for _, f := range frames {
		if mask.Has(f.Kind()) {
			out = append(out, f)
		}
	}
	return out
}
