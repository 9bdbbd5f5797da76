package stream

// PlotType selects the trace style for a plot stream, matching the
// original's PLOT_TRACE_* enum (lines, bars, steps, stem).
type PlotType int

const (
	PlotLines PlotType = iota
	PlotBars
	PlotSteps
	PlotStem
)

// ErrorMode selects how a plot's error bars/bands are computed.
type ErrorMode int

const (
	ErrorNone ErrorMode = iota
	ErrorMovingAverage
)

// XY is a single plotted data point.
type XY struct {
	X, Y float32
}

// Region is a rectangular marked region overlaid on a plot, e.g. a range's
// mass interval drawn under its histogram.
type Region struct {
	Low, High  float32
	R, G, B    float32
	ID         uint32
}

// PlotFrame is a single labelled xy-series, grounded on
// original_source/src/filter.h's PlotStreamData.
type PlotFrame struct {
	base

	Type     PlotType
	ErrMode  ErrorMode
	ErrK     int // moving-average window, meaningful only when ErrMode == ErrorMovingAverage

	Logarithmic bool
	DataLabel   string
	XLabel      string
	YLabel      string

	XY      []XY
	Regions []Region

	R, G, B, A float32

	// FilterIndex is the owning filter's index, mirroring PlotStreamData's
	// "index" field used to route region-edit interaction back to its
	// source.
	FilterIndex int
}

// NewPlotFrame returns a PlotFrame with the original's documented defaults:
// lines, no error bars, red, opaque.
func NewPlotFrame() *PlotFrame {
	return &PlotFrame{
		Type:    PlotLines,
		ErrMode: ErrorNone,
		R:       1, G: 0, B: 0, A: 1,
		FilterIndex: -1,
	}
}

func (f *PlotFrame) Kind() Kind           { return KindPlot }
func (f *PlotFrame) NumBasicObjects() int { return len(f.XY) }
