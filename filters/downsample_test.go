package filters

import (
	"testing"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/rangefile"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

func makeIonFrame(n int) *stream.IonFrame {
	hits := make([]ionhit.IonHit, n)
	for i := range hits {
		f := float32(i)
		hits[i] = ionhit.New(point.Point3D{X: f, Y: f, Z: f}, f)
	}
	return stream.NewIonFrame(hits)
}

func TestDownsampleCountModeExactSize(t *testing.T) {
	f := NewDownsampleFilter()
	f.Mode = DownsampleCount
	f.Count = 10

	in := RefreshInput{Frames: []stream.Frame{makeIonFrame(100)}}
	result, errKind := f.Refresh(in)
	if errKind != ErrNone {
		t.Fatalf("Refresh: %v", errKind)
	}
	if len(result.Frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(result.Frames))
	}
	ions := result.Frames[0].(*stream.IonFrame)
	if len(ions.Data) != 10 {
		t.Fatalf("got %d ions, want 10", len(ions.Data))
	}
}

func TestDownsampleCountModeExceedsInputKeepsAll(t *testing.T) {
	f := NewDownsampleFilter()
	f.Mode = DownsampleCount
	f.Count = 1000

	in := RefreshInput{Frames: []stream.Frame{makeIonFrame(50)}}
	result, _ := f.Refresh(in)
	ions := result.Frames[0].(*stream.IonFrame)
	if len(ions.Data) != 50 {
		t.Fatalf("got %d ions, want 50", len(ions.Data))
	}
}

func TestDownsampleFractionModeKeepsEverythingAtOne(t *testing.T) {
	f := NewDownsampleFilter()
	f.Fraction = 1.0

	in := RefreshInput{Frames: []stream.Frame{makeIonFrame(37)}}
	result, _ := f.Refresh(in)
	ions := result.Frames[0].(*stream.IonFrame)
	if len(ions.Data) != 37 {
		t.Fatalf("got %d ions, want 37", len(ions.Data))
	}
}

func TestDownsampleFractionModeDropsEverythingAtZero(t *testing.T) {
	f := NewDownsampleFilter()
	f.Fraction = 0.0

	in := RefreshInput{Frames: []stream.Frame{makeIonFrame(37)}}
	result, _ := f.Refresh(in)
	ions := result.Frames[0].(*stream.IonFrame)
	if len(ions.Data) != 0 {
		t.Fatalf("got %d ions, want 0", len(ions.Data))
	}
}

func TestDownsamplePerSpeciesPartitionsByRange(t *testing.T) {
	rf := rangefile.New()
	ionA, _ := rf.AddIon("A", "Species A", point.Colour{R: 1})
	ionB, _ := rf.AddIon("B", "Species B", point.Colour{G: 1})
	rf.AddRange(0, 10, ionA)
	rf.AddRange(20, 30, ionB)

	hits := []ionhit.IonHit{
		ionhit.New(point.Point3D{}, 1),  // A
		ionhit.New(point.Point3D{}, 2),  // A
		ionhit.New(point.Point3D{}, 25), // B
		ionhit.New(point.Point3D{}, 26), // B
		ionhit.New(point.Point3D{}, 27), // B
	}

	f := NewDownsampleFilter()
	f.Mode = DownsampleCount
	f.Count = 1
	f.PerSpecies = true

	rangeFrame := &stream.RangeFrame{RangeFile: rf}
	in := RefreshInput{Frames: []stream.Frame{rangeFrame, stream.NewIonFrame(hits)}}

	result, errKind := f.Refresh(in)
	if errKind != ErrNone {
		t.Fatalf("Refresh: %v", errKind)
	}

	var ions *stream.IonFrame
	for _, frame := range result.Frames {
		if ionFrame, ok := frame.(*stream.IonFrame); ok {
			ions = ionFrame
		}
	}
	if ions == nil {
		t.Fatalf("no ion frame in result")
	}
	if len(ions.Data) != 2 {
		t.Fatalf("got %d ions, want 2 (one per species)", len(ions.Data))
	}
}

func TestDownsampleCachePassThrough(t *testing.T) {
	f := NewDownsampleFilter()
	f.SetCacheEnabled(true)
	f.Fraction = 0.5

	in := RefreshInput{Frames: []stream.Frame{makeIonFrame(20)}}
	first, _ := f.Refresh(in)
	second, _ := f.Refresh(RefreshInput{Frames: []stream.Frame{makeIonFrame(999)}})

	if len(first.Frames) != len(second.Frames) {
		t.Fatalf("cached refresh should return identical frame count")
	}
	firstIons := first.Frames[0].(*stream.IonFrame)
	secondIons := second.Frames[0].(*stream.IonFrame)
	if len(firstIons.Data) != len(secondIons.Data) {
		t.Fatalf("cached result changed: %d vs %d", len(firstIons.Data), len(secondIons.Data))
	}
}

func TestDownsampleSetPropertySwitchesMode(t *testing.T) {
	f := NewDownsampleFilter()
	ok, needsUpdate := f.SetProperty(1, "5")
	if !ok || !needsUpdate {
		t.Fatalf("SetProperty(count) = %v, %v", ok, needsUpdate)
	}
	if f.Mode != DownsampleCount || f.Count != 5 {
		t.Fatalf("SetProperty did not switch to count mode: %+v", f)
	}
}
