package filters

import (
	"os"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

// SourceFileType selects which loader DataLoadFilter uses, grounded on
// original_source/src/filters/dataLoad.cpp dispatching between its POS and
// delimited-text code paths (posLoad.cpp / the APTFileIO text loader).
type SourceFileType int

const (
	SourceFilePOS SourceFileType = iota
	SourceFileText
)

// DataLoadFilter is the tree's ion data source: a filename, file type,
// column mapping, sampling toggle and display defaults (spec §4.C6, "Source
// filters / Data load"), grounded on
// original_source/src/filters/dataLoad.cpp and posLoad.cpp.
type DataLoadFilter struct {
	base

	Filename    string
	FileType    SourceFileType
	ColumnCount int
	ColumnMap   [4]int // maps output x,y,z,value to source columns

	Sampling     bool
	SampleCount  int
	SampleMB     float64

	DefaultColour point.Colour
	PointSize     float32
	ValueLabel    string

	// Monitor, when true, makes the filter track the source file's mtime
	// and size; a change since the last refresh marks the cache stale on
	// the next refresh query (spec §4.C6).
	Monitor     bool
	lastModTime int64
	lastSize    int64
}

// NewDataLoadFilter returns a DataLoadFilter with the original's documented
// defaults: 4 columns mapped identically, no sampling, red, point size 2,
// labelled for mass-to-charge.
func NewDataLoadFilter(filename string, fileType SourceFileType) *DataLoadFilter {
	return &DataLoadFilter{
		Filename:      filename,
		FileType:      fileType,
		ColumnCount:   4,
		ColumnMap:     [4]int{0, 1, 2, 3},
		DefaultColour: point.Colour{R: 1},
		PointSize:     2,
		ValueLabel:    "Mass-to-Charge (amu/e)",
	}
}

func (f *DataLoadFilter) Kind() Kind { return KindDataLoad }

func (f *DataLoadFilter) CloneUncached() Filter {
	clone := *f
	clone.cacheValid = false
	clone.cached = RefreshResult{}
	return &clone
}

func (f *DataLoadFilter) NumBytesForCache(n int) int64 {
	return int64(n) * 16 // x,y,z,value as float32
}

func (f *DataLoadFilter) EmitMask() stream.Mask  { return stream.Mask(stream.KindIon) }
func (f *DataLoadFilter) BlockMask() stream.Mask { return 0 }
func (f *DataLoadFilter) UseMask() stream.Mask   { return 0 } // source filter: no inputs consumed

// monitorStale reports whether the watched file's mtime/size has changed
// since the last successful load.
func (f *DataLoadFilter) monitorStale() bool {
	if !f.Monitor {
		return false
	}
	info, err := os.Stat(f.Filename)
	if err != nil {
		return true
	}
	return info.ModTime().UnixNano() != f.lastModTime || info.Size() != f.lastSize
}

func (f *DataLoadFilter) Refresh(in RefreshInput) (RefreshResult, ErrorKind) {
	if f.cacheEnabled && f.cacheValid && !f.monitorStale() {
		return f.cached, ErrNone
	}

	var hits []ionhit.IonHit
	var err error
	switch f.FileType {
	case SourceFilePOS:
		opts := ionhit.LoadPOSOptions{
			Columns:      ionhit.ColumnMap(f.ColumnMap),
			InputColumns: f.ColumnCount,
			Progress:     in.Progress,
			Cancel:       in.Cancel,
		}
		if f.Sampling {
			opts.SampleCount = f.SampleCount
		}
		hits, err = ionhit.LoadPOS(f.Filename, opts)
	case SourceFileText:
		opts := ionhit.LoadTextOptions{
			SelectedColumns: f.ColumnMap,
			Progress:        in.Progress,
			Cancel:          in.Cancel,
		}
		if f.Sampling {
			opts.SampleCount = f.SampleCount
		}
		hits, err = ionhit.LoadDelimitedText(f.Filename, opts)
	}
	if err != nil {
		return RefreshResult{}, classifyLoadError(err)
	}

	if f.Monitor {
		if info, statErr := os.Stat(f.Filename); statErr == nil {
			f.lastModTime = info.ModTime().UnixNano()
			f.lastSize = info.Size()
		}
	}

	frame := stream.NewIonFrame(hits)
	frame.R, frame.G, frame.B = f.DefaultColour.R, f.DefaultColour.G, f.DefaultColour.B
	frame.IonSize = f.PointSize
	if f.ValueLabel != "" {
		frame.ValueLabel = f.ValueLabel
	}
	frame.SetCached(f.cacheEnabled)

	var warnings []string
	bound := point.NewInverseBound()
	for _, h := range hits {
		bound.ExpandByPoint(h.Pos())
	}
	if bound.IsNumericallyBig() {
		warnings = append(warnings, "loaded data's bounding cube is numerically large; check the input file's units")
	}

	result := RefreshResult{Frames: []stream.Frame{frame}, Warnings: warnings}
	if f.cacheEnabled {
		f.cached = result
		f.cacheValid = true
	}
	return result, ErrNone
}

func classifyLoadError(err error) ErrorKind {
	switch {
	case isErr(err, ionhit.ErrAllocFail):
		return ErrAllocFail
	case isErr(err, ionhit.ErrOpenFail):
		return ErrOpenFail
	case isErr(err, ionhit.ErrEmptyFile):
		return ErrEmptyFile
	case isErr(err, ionhit.ErrSizeModulus):
		return ErrSizeModulus
	case isErr(err, ionhit.ErrReadFail):
		return ErrReadFail
	case isErr(err, ionhit.ErrNaNFound):
		return ErrNaNFound
	case isErr(err, ionhit.ErrAborted):
		return ErrAbort
	case isErr(err, ionhit.ErrTextHeaderOnly):
		return ErrHeaderOnly
	case isErr(err, ionhit.ErrTextFormat):
		return ErrFormat
	case isErr(err, ionhit.ErrTextFieldCount):
		return ErrFieldCount
	default:
		return ErrReadFail
	}
}

func (f *DataLoadFilter) Properties() PropertyList {
	return PropertyList{Groups: []PropertyGroup{{
		Name: "Data load",
		Properties: []Property{
			{Key: 0, Name: "Filename", Value: f.Filename, Type: PropertyString},
			{Key: 1, Name: "Sampling", Value: boolStr(f.Sampling), Type: PropertyBool},
			{Key: 2, Name: "Point size", Value: floatStr(f.PointSize), Type: PropertyFloat},
		},
	}}}
}

func (f *DataLoadFilter) SetProperty(key int, value string) (ok bool, needsUpdate bool) {
	switch key {
	case 0:
		f.Filename = value
		f.invalidate()
		return true, true
	case 1:
		f.Sampling = value == "1" || value == "true"
		f.invalidate()
		return true, true
	case 2:
		if v, ok := parseFloat(value); ok {
			f.PointSize = v
			return true, false
		}
		return false, false
	}
	return false, false
}
