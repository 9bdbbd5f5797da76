package filters

import (
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/rangefile"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

// RangeFileFilter loads a rangefile at construction and, downstream of a
// data-load filter, drops ions that are unranged or ranged to a disabled
// entry (spec §4.C6, "Range file filter"), grounded on
// original_source/src/backend/APT/APTRanges.cpp (the RangeFile model itself)
// and original_source/src/filter.h's RangeStreamData.
type RangeFileFilter struct {
	base

	rf     *rangefile.RangeFile
	format rangefile.Format
	path   string

	EnabledIons   []bool
	EnabledRanges []bool
}

// NewRangeFileFilter opens path in format and enables every ion/range by
// default.
func NewRangeFileFilter(path string, format rangefile.Format) (*RangeFileFilter, error) {
	rf, err := rangefile.Open(path, format)
	if err != nil {
		return nil, err
	}
	f := &RangeFileFilter{rf: rf, format: format, path: path}
	f.EnabledIons = make([]bool, rf.NumIons())
	f.EnabledRanges = make([]bool, rf.NumRanges())
	for i := range f.EnabledIons {
		f.EnabledIons[i] = true
	}
	for i := range f.EnabledRanges {
		f.EnabledRanges[i] = true
	}
	return f, nil
}

func (f *RangeFileFilter) Kind() Kind { return KindRangeFile }

// Path returns the rangefile path this filter was opened with, used by
// filtertree's XML persistence to re-open the same file on load.
func (f *RangeFileFilter) Path() string { return f.path }

// Format returns the rangefile format this filter was opened with.
func (f *RangeFileFilter) Format() rangefile.Format { return f.format }

// RangeFile returns the loaded range table, used by filtertree's XML
// persistence to know ion/range counts without re-parsing.
func (f *RangeFileFilter) RangeFile() *rangefile.RangeFile { return f.rf }

// SetPath records a new on-disk path for this filter's rangefile reference
// without re-opening it, used by the session package's package-mode save to
// rewrite the stored path to a sanitised, bundled location (spec §4.C8:
// "the repo's file map replaces ion filenames with sanitised names under a
// local directory").
func (f *RangeFileFilter) SetPath(path string) { f.path = path }

func (f *RangeFileFilter) CloneUncached() Filter {
	clone := *f
	clone.cacheValid = false
	clone.cached = RefreshResult{}
	clone.EnabledIons = append([]bool(nil), f.EnabledIons...)
	clone.EnabledRanges = append([]bool(nil), f.EnabledRanges...)
	return &clone
}

func (f *RangeFileFilter) NumBytesForCache(n int) int64 { return int64(n) * 16 }

func (f *RangeFileFilter) EmitMask() stream.Mask {
	return stream.Mask(stream.KindRange) | stream.Mask(stream.KindIon)
}
func (f *RangeFileFilter) BlockMask() stream.Mask { return 0 }
func (f *RangeFileFilter) UseMask() stream.Mask   { return stream.Mask(stream.KindIon) }

func (f *RangeFileFilter) Refresh(in RefreshInput) (RefreshResult, ErrorKind) {
	if f.cacheEnabled && f.cacheValid {
		return f.cached, ErrNone
	}

	rangeFrame := &stream.RangeFrame{
		RangeFile:     f.rf,
		EnabledIons:   append([]bool(nil), f.EnabledIons...),
		EnabledRanges: append([]bool(nil), f.EnabledRanges...),
	}
	out := []stream.Frame{rangeFrame}

	for _, frame := range stream.Filter(in.Frames, stream.Mask(stream.KindIon)) {
		ionIn, ok := frame.(*stream.IonFrame)
		if !ok {
			continue
		}
		kept := make([]ionhit.IonHit, 0, len(ionIn.Data))
		for _, hit := range ionIn.Data {
			rangeID := f.rf.RangeIDForMass(hit.MassToCharge())
			if rangeID < 0 || !f.EnabledRanges[rangeID] {
				continue
			}
			ionID := f.rf.IonIDOfRange(rangeID)
			if !f.EnabledIons[ionID] {
				continue
			}
			kept = append(kept, hit)
		}
		filtered := stream.NewIonFrame(kept)
		filtered.R, filtered.G, filtered.B = ionIn.R, ionIn.G, ionIn.B
		filtered.IonSize = ionIn.IonSize
		filtered.ValueLabel = ionIn.ValueLabel
		out = append(out, filtered)
	}

	rangeFrame.SetCached(f.cacheEnabled)
	result := RefreshResult{Frames: out, Warnings: f.rf.Warnings()}
	if f.cacheEnabled {
		f.cached = result
		f.cacheValid = true
	}
	return result, ErrNone
}

func (f *RangeFileFilter) Properties() PropertyList {
	group := PropertyGroup{Name: "Range file"}
	for i := 0; i < f.rf.NumIons(); i++ {
		group.Properties = append(group.Properties, Property{
			Key:   i,
			Name:  "Enable " + f.rf.Ion(i).Short,
			Value: boolStr(f.EnabledIons[i]),
			Type:  PropertyBool,
		})
	}
	return PropertyList{Groups: []PropertyGroup{group}}
}

func (f *RangeFileFilter) SetProperty(key int, value string) (ok bool, needsUpdate bool) {
	if key < 0 || key >= len(f.EnabledIons) {
		return false, false
	}
	enabled := value == "1" || value == "true"
	if f.EnabledIons[key] == enabled {
		return true, false
	}
	f.EnabledIons[key] = enabled
	f.invalidate()
	return true, true
}
