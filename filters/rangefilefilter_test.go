package filters

import (
	"path/filepath"
	"testing"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/rangefile"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

func writeTestRNG(t *testing.T, path string) {
	t.Helper()
	rf := rangefile.New()
	ionA, _ := rf.AddIon("A", "Species A", point.Colour{R: 1})
	ionB, _ := rf.AddIon("B", "Species B", point.Colour{G: 1})
	rf.AddRange(0, 10, ionA)
	rf.AddRange(20, 30, ionB)
	if err := rangefile.Write(path, rangefile.FormatORNL, rf); err != nil {
		t.Fatalf("Write rangefile: %v", err)
	}
}

func TestRangeFileFilterFiltersByEnabledRange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rng")
	writeTestRNG(t, path)

	f, err := NewRangeFileFilter(path, rangefile.FormatORNL)
	if err != nil {
		t.Fatalf("NewRangeFileFilter: %v", err)
	}
	// Disable ion B.
	if ok, needsUpdate := f.SetProperty(1, "0"); !ok || !needsUpdate {
		t.Fatalf("SetProperty(disable B) = %v, %v", ok, needsUpdate)
	}

	hits := []ionhit.IonHit{
		ionhit.New(point.Point3D{}, 5),  // in A
		ionhit.New(point.Point3D{}, 25), // in B, now disabled
		ionhit.New(point.Point3D{}, 99), // unranged
	}
	in := RefreshInput{Frames: []stream.Frame{stream.NewIonFrame(hits)}}

	result, errKind := f.Refresh(in)
	if errKind != ErrNone {
		t.Fatalf("Refresh: %v", errKind)
	}

	var ions *stream.IonFrame
	var gotRange *stream.RangeFrame
	for _, frame := range result.Frames {
		switch v := frame.(type) {
		case *stream.IonFrame:
			ions = v
		case *stream.RangeFrame:
			gotRange = v
		}
	}
	if gotRange == nil {
		t.Fatalf("expected a range frame in the output")
	}
	if ions == nil || len(ions.Data) != 1 {
		t.Fatalf("expected exactly one surviving ion, got %+v", ions)
	}
	if ions.Data[0].MassToCharge() != 5 {
		t.Fatalf("got surviving ion mass %v, want 5", ions.Data[0].MassToCharge())
	}
}

func TestRangeFileFilterCachePassThrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rng")
	writeTestRNG(t, path)

	f, err := NewRangeFileFilter(path, rangefile.FormatORNL)
	if err != nil {
		t.Fatalf("NewRangeFileFilter: %v", err)
	}
	f.SetCacheEnabled(true)

	in := RefreshInput{Frames: []stream.Frame{stream.NewIonFrame([]ionhit.IonHit{
		ionhit.New(point.Point3D{}, 5),
	})}}
	first, _ := f.Refresh(in)
	second, _ := f.Refresh(RefreshInput{})

	if len(first.Frames) != len(second.Frames) {
		t.Fatalf("cached refresh changed frame count: %d vs %d", len(first.Frames), len(second.Frames))
	}
}

func TestRangeFileFilterCloneUncachedCopiesFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.rng")
	writeTestRNG(t, path)

	f, err := NewRangeFileFilter(path, rangefile.FormatORNL)
	if err != nil {
		t.Fatalf("NewRangeFileFilter: %v", err)
	}
	f.SetProperty(0, "0")

	clone := f.CloneUncached().(*RangeFileFilter)
	if clone.EnabledIons[0] != false {
		t.Fatalf("clone did not preserve disabled flag")
	}
	clone.EnabledIons[0] = true
	if f.EnabledIons[0] {
		t.Fatalf("clone shares backing array with original")
	}
}
