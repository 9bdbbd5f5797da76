package stream

import (
	"testing"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
)

func TestMaskHasWithWithout(t *testing.T) {
	m := MaskAll
	if !m.Has(KindIon) || !m.Has(KindVoxel) {
		t.Fatalf("MaskAll should contain every kind")
	}
	m = m.Without(KindDraw)
	if m.Has(KindDraw) {
		t.Fatalf("expected KindDraw to be cleared")
	}
	m = Mask(0).With(KindPlot)
	if !m.Has(KindPlot) || m.Has(KindIon) {
		t.Fatalf("With should only set the requested bit")
	}
}

func TestFilterByMask(t *testing.T) {
	ion := NewIonFrame(nil)
	plot := NewPlotFrame()
	frames := []Frame{ion, plot}

	got := Filter(frames, Mask(KindIon))
	if len(got) != 1 || got[0] != Frame(ion) {
		t.Fatalf("expected only the ion frame to survive the mask")
	}
}

func TestIonFrameDefaults(t *testing.T) {
	hits := []ionhit.IonHit{ionhit.New(point.Point3D{X: 1, Y: 2, Z: 3}, 4)}
	f := NewIonFrame(hits)
	if f.Kind() != KindIon {
		t.Fatalf("got kind %v, want KindIon", f.Kind())
	}
	if f.NumBasicObjects() != 1 {
		t.Fatalf("got %d, want 1", f.NumBasicObjects())
	}
	if f.ValueLabel != "Mass-to-Charge (amu/e)" {
		t.Fatalf("unexpected default value label %q", f.ValueLabel)
	}
	f.SetCached(true)
	if !f.Cached() {
		t.Fatalf("expected cached flag to be set")
	}
}

func TestDrawFrameBindings(t *testing.T) {
	s := Sphere{
		primBase: primBase{bindings: []SelectionBinding{{ID: BindingSphereRadius, Key: "radius"}}},
		Origin:   point.Point3D{},
		Radius:   1,
	}
	df := &DrawFrame{Primitives: []Primitive{s}}
	if df.Kind() != KindDraw {
		t.Fatalf("got kind %v, want KindDraw", df.Kind())
	}
	if len(df.Primitives[0].Bindings()) != 1 {
		t.Fatalf("expected one binding on the sphere primitive")
	}
}

func TestVoxelGridCellLookup(t *testing.T) {
	bound := point.NewBoundCube(point.Point3D{}, point.Point3D{X: 10, Y: 10, Z: 10})
	grid := NewVoxelGrid(10, 10, 10, bound)
	grid.Set(5, 5, 5, 42)
	if grid.At(5, 5, 5) != 42 {
		t.Fatalf("expected stored value 42")
	}
	x, y, z, ok := grid.CellIndexOf(point.Point3D{X: 5.5, Y: 5.5, Z: 5.5})
	if !ok {
		t.Fatalf("expected point to be within bound")
	}
	if x != 5 || y != 5 || z != 5 {
		t.Fatalf("got cell (%d,%d,%d), want (5,5,5)", x, y, z)
	}
	if _, _, _, ok := grid.CellIndexOf(point.Point3D{X: -1}); ok {
		t.Fatalf("expected out-of-bound point to be rejected")
	}
}

func TestVoxelFrameDefaults(t *testing.T) {
	bound := point.NewBoundCube(point.Point3D{}, point.Point3D{X: 1, Y: 1, Z: 1})
	grid := NewVoxelGrid(2, 2, 2, bound)
	f := NewVoxelFrame(grid)
	if f.Kind() != KindVoxel {
		t.Fatalf("got kind %v, want KindVoxel", f.Kind())
	}
	if f.NumBasicObjects() != 8 {
		t.Fatalf("got %d, want 8", f.NumBasicObjects())
	}
	if f.Representation != VoxelRepresentPointCloud {
		t.Fatalf("expected default point-cloud representation")
	}
}

func TestCountByKind(t *testing.T) {
	frames := []Frame{NewIonFrame(nil), NewIonFrame(nil), NewPlotFrame()}
	counts := CountByKind(frames)
	if counts[KindIon] != 2 || counts[KindPlot] != 1 {
		t.Fatalf("got %v, want 2 ion and 1 plot", counts)
	}
}
