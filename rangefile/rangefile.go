package rangefile

import (
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
)

// Format identifies which legacy rangefile dialect to read or write.
type Format int

const (
	FormatORNL Format = iota
	FormatRRNG
	FormatENV
)

// Ion is a named species: a short name used for matching and display (e.g.
// "Fe") and a longer descriptive name (e.g. "Iron"). .env files carry only
// one name and use it for both.
type Ion struct {
	Short string
	Long  string
}

// Range is a closed mass-to-charge interval [Low, High]. Both original file
// formats and this port treat range bounds as inclusive on both ends (spec
// §4.C3): isRanged uses >= lo && <= hi, not a half-open interval.
type Range struct {
	Low, High float32
}

// Contains reports whether mass falls within the closed interval [Low,High].
func (r Range) Contains(mass float32) bool {
	return mass >= r.Low && mass <= r.High
}

// RangeFile is the in-memory model shared by all three dialects: a flat list
// of ion species, a flat list of mass ranges, and a parallel ionIDs slice
// mapping each range to the ion it belongs to.
type RangeFile struct {
	ions     []Ion
	colours  []point.Colour
	ranges   []Range
	ionIDs   []int
	warnings []string
}

// New returns an empty range file.
func New() *RangeFile {
	return &RangeFile{}
}

// NumIons returns the number of distinct ion species.
func (r *RangeFile) NumIons() int { return len(r.ions) }

// NumRanges returns the total number of ranges.
func (r *RangeFile) NumRanges() int { return len(r.ranges) }

// NumRangesForIon returns how many ranges map to the given ion ID.
func (r *RangeFile) NumRangesForIon(ionID int) int {
	n := 0
	for _, id := range r.ionIDs {
		if id == ionID {
			n++
		}
	}
	return n
}

// Ion returns the ion at the given ID.
func (r *RangeFile) Ion(ionID int) Ion { return r.ions[ionID] }

// Range returns the range at the given index.
func (r *RangeFile) Range(rangeID int) Range { return r.ranges[rangeID] }

// Colour returns the display colour for the ion at the given ID.
func (r *RangeFile) Colour(ionID int) point.Colour { return r.colours[ionID] }

// IonIDOfRange returns which ion a range belongs to.
func (r *RangeFile) IonIDOfRange(rangeID int) int { return r.ionIDs[rangeID] }

// Warnings returns any non-fatal warnings accumulated while loading (e.g.
// range-heading/ion-name ordering mismatches in an ORNL table).
func (r *RangeFile) Warnings() []string { return r.warnings }

// IonIDByShortName returns the ID of the ion with the given short name, or
// -1 if there is none.
func (r *RangeFile) IonIDByShortName(name string) int {
	for i, ion := range r.ions {
		if ion.Short == name {
			return i
		}
	}
	return -1
}

// IonIDForMass returns the ion ID of the range containing mass, or -1 if
// mass falls in no range.
func (r *RangeFile) IonIDForMass(mass float32) int {
	for i, rg := range r.ranges {
		if rg.Contains(mass) {
			return r.ionIDs[i]
		}
	}
	return -1
}

// RangeIDForMass returns the index of the range containing mass, or -1.
func (r *RangeFile) RangeIDForMass(mass float32) int {
	for i, rg := range r.ranges {
		if rg.Contains(mass) {
			return i
		}
	}
	return -1
}

// IsRanged reports whether mass falls inside any range.
func (r *RangeFile) IsRanged(mass float32) bool {
	return r.RangeIDForMass(mass) != -1
}

// IsIonRanged reports whether an ion falls inside any range.
func (r *RangeFile) IsIonRanged(ion ionhit.IonHit) bool {
	return r.IsRanged(ion.MassToCharge())
}

// RangeIons returns the subset of ions that fall within any range, in their
// original relative order, matching the original's bulk-range "swaperoonie".
func (r *RangeFile) RangeIons(ions []ionhit.IonHit) []ionhit.IonHit {
	out := make([]ionhit.IonHit, 0, len(ions))
	for _, ion := range ions {
		if r.IsIonRanged(ion) {
			out = append(out, ion)
		}
	}
	return out
}

// RangeIonsByShortName returns the subset of ions that fall within a range
// belonging to the named ion species. ok is false if no such ion exists.
func (r *RangeFile) RangeIonsByShortName(ions []ionhit.IonHit, shortName string) (out []ionhit.IonHit, ok bool) {
	targetID := r.IonIDByShortName(shortName)
	if targetID == -1 {
		return nil, false
	}

	var subRanges []int
	for i, id := range r.ionIDs {
		if id == targetID {
			subRanges = append(subRanges, i)
		}
	}

	out = make([]ionhit.IonHit, 0, len(ions))
	for _, ion := range ions {
		for _, rIdx := range subRanges {
			if r.ranges[rIdx].Contains(ion.MassToCharge()) {
				out = append(out, ion)
				break
			}
		}
	}
	return out, true
}

// RangeIonsByRangeID returns the subset of ions whose mass falls within the
// single named range.
func (r *RangeFile) RangeIonsByRangeID(ions []ionhit.IonHit, rangeID int) []ionhit.IonHit {
	rg := r.ranges[rangeID]
	out := make([]ionhit.IonHit, 0, len(ions))
	for _, ion := range ions {
		if rg.Contains(ion.MassToCharge()) {
			out = append(out, ion)
		}
	}
	return out
}

// IsSelfConsistent checks that no range has zero width, and that no two
// ranges overlap, nest, span, or duplicate one another (spec invariant for
// C3). A freshly-loaded file that fails this check is rejected by Open.
func (r *RangeFile) IsSelfConsistent() bool {
	for i, ri := range r.ranges {
		if ri.Low == ri.High {
			return false
		}
		for j, rj := range r.ranges {
			if i == j {
				continue
			}
			if ri.Low > rj.Low && ri.Low < rj.High {
				return false
			}
			if ri.High > rj.Low && ri.High < rj.High {
				return false
			}
			if ri.Low < rj.Low && ri.High > rj.High {
				return false
			}
			if ri.Low == rj.Low && ri.High == rj.High {
				return false
			}
		}
	}
	return true
}

// MoveRange moves one end of a range (the high end if limit is true,
// otherwise the low end) to newMass, rejecting the move if it would invert
// the range or cause it to overlap any other range.
func (r *RangeFile) MoveRange(rangeID int, limit bool, newMass float32) bool {
	if limit {
		if newMass <= r.ranges[rangeID].Low {
			return false
		}
	} else {
		if newMass >= r.ranges[rangeID].High {
			return false
		}
	}

	for i, other := range r.ranges {
		if i == rangeID {
			continue
		}
		if limit {
			if r.ranges[rangeID].Low < other.Low && newMass > other.Low {
				return false
			}
			if r.ranges[rangeID].Low < other.High && newMass > other.High {
				return false
			}
		} else {
			if r.ranges[rangeID].High > other.Low && newMass < other.Low {
				return false
			}
			if r.ranges[rangeID].High > other.High && newMass < other.High {
				return false
			}
		}
	}

	if limit {
		r.ranges[rangeID].High = newMass
	} else {
		r.ranges[rangeID].Low = newMass
	}
	return true
}

// MoveBothRanges moves both ends of a range at once, rejecting the move if
// it would cause an overlap with any other range.
func (r *RangeFile) MoveBothRanges(rangeID int, newLow, newHigh float32) bool {
	for i, other := range r.ranges {
		if i == rangeID {
			continue
		}
		if r.ranges[rangeID].Low < other.Low && newHigh > other.Low {
			return false
		}
		if r.ranges[rangeID].Low < other.High && newHigh > other.High {
			return false
		}
		if r.ranges[rangeID].High > other.Low && newLow < other.Low {
			return false
		}
		if r.ranges[rangeID].High > other.High && newLow < other.High {
			return false
		}
	}
	r.ranges[rangeID].Low = newLow
	r.ranges[rangeID].High = newHigh
	return true
}

// AddRange inserts a new range belonging to parentIonID, rejecting it if it
// would overlap or span any existing range. Returns the new range's index.
func (r *RangeFile) AddRange(start, end float32, parentIonID int) (int, bool) {
	if start >= end {
		return -1, false
	}
	for _, other := range r.ranges {
		if start > other.Low && start <= other.High {
			return -1, false
		}
		if end > other.Low && end <= other.High {
			return -1, false
		}
		if start < other.Low && end > other.High {
			return -1, false
		}
	}

	r.ionIDs = append(r.ionIDs, parentIonID)
	r.ranges = append(r.ranges, Range{Low: start, High: end})
	return len(r.ranges) - 1, true
}

// AddIon appends a new ion species, rejecting it if its short or long name
// duplicates an existing one. Returns the new ion's ID.
func (r *RangeFile) AddIon(short, long string, colour point.Colour) (int, bool) {
	for _, ion := range r.ions {
		if ion.Short == short || ion.Long == long {
			return -1, false
		}
	}
	r.ions = append(r.ions, Ion{Short: short, Long: long})
	r.colours = append(r.colours, colour)
	return len(r.ions) - 1, true
}

// SetIonID reassigns which ion a range belongs to.
func (r *RangeFile) SetIonID(rangeID, newIonID int) {
	r.ionIDs[rangeID] = newIonID
}

// SetColour replaces the display colour for an ion.
func (r *RangeFile) SetColour(ionID int, c point.Colour) {
	r.colours[ionID] = c
}

// SetIonShortName replaces an ion's short name.
func (r *RangeFile) SetIonShortName(ionID int, name string) {
	r.ions[ionID].Short = name
}

// SetIonLongName replaces an ion's long name.
func (r *RangeFile) SetIonLongName(ionID int, name string) {
	r.ions[ionID].Long = name
}

func (r *RangeFile) clear() {
	r.ions = nil
	r.colours = nil
	r.ranges = nil
	r.ionIDs = nil
	r.warnings = nil
}
