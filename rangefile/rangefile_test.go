package rangefile

import (
	"testing"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
)

func buildTestRangeFile(t *testing.T) *RangeFile {
	t.Helper()
	r := New()
	fe, _ := r.AddIon("Fe", "Iron", point.Colour{R: 1})
	ni, _ := r.AddIon("Ni", "Nickel", point.Colour{G: 1})
	if _, ok := r.AddRange(10, 20, fe); !ok {
		t.Fatalf("AddRange Fe failed")
	}
	if _, ok := r.AddRange(30, 40, ni); !ok {
		t.Fatalf("AddRange Ni failed")
	}
	return r
}

func TestIsSelfConsistentRejectsOverlap(t *testing.T) {
	r := buildTestRangeFile(t)
	r.ranges = append(r.ranges, Range{Low: 15, High: 25})
	r.ionIDs = append(r.ionIDs, 0)
	if r.IsSelfConsistent() {
		t.Fatalf("expected overlap to be detected")
	}
}

func TestIsSelfConsistentRejectsZeroWidth(t *testing.T) {
	r := New()
	fe, _ := r.AddIon("Fe", "Iron", point.Colour{R: 1})
	r.ranges = append(r.ranges, Range{Low: 10, High: 10})
	r.ionIDs = append(r.ionIDs, fe)
	if r.IsSelfConsistent() {
		t.Fatalf("expected zero-width range to be rejected")
	}
}

func TestAddRangeRejectsOverlap(t *testing.T) {
	r := buildTestRangeFile(t)
	if _, ok := r.AddRange(15, 25, 0); ok {
		t.Fatalf("expected overlapping AddRange to fail")
	}
}

func TestAddRangeRejectsSpanning(t *testing.T) {
	r := buildTestRangeFile(t)
	if _, ok := r.AddRange(5, 45, 0); ok {
		t.Fatalf("expected spanning AddRange to fail")
	}
}

func TestMoveRangeRejectsInversion(t *testing.T) {
	r := buildTestRangeFile(t)
	if r.MoveRange(0, true, 5) {
		t.Fatalf("expected moving high end below low end to fail")
	}
}

func TestMoveRangeRejectsOverlap(t *testing.T) {
	r := buildTestRangeFile(t)
	if r.MoveRange(0, true, 35) {
		t.Fatalf("expected moving high end past the next range to fail")
	}
}

func TestMoveRangeSucceeds(t *testing.T) {
	r := buildTestRangeFile(t)
	if !r.MoveRange(0, true, 22) {
		t.Fatalf("expected valid move to succeed")
	}
	if r.Range(0).High != 22 {
		t.Fatalf("got high %v, want 22", r.Range(0).High)
	}
}

func TestRangeIonsFiltersToRangedOnly(t *testing.T) {
	r := buildTestRangeFile(t)
	ions := []ionhit.IonHit{
		ionhit.New(point.Point3D{}, 15), // Fe
		ionhit.New(point.Point3D{}, 35), // Ni
		ionhit.New(point.Point3D{}, 99), // unranged
	}
	got := r.RangeIons(ions)
	if len(got) != 2 {
		t.Fatalf("got %d ranged ions, want 2", len(got))
	}
}

func TestRangeIonsByShortName(t *testing.T) {
	r := buildTestRangeFile(t)
	ions := []ionhit.IonHit{
		ionhit.New(point.Point3D{}, 15),
		ionhit.New(point.Point3D{}, 35),
	}
	got, ok := r.RangeIonsByShortName(ions, "Fe")
	if !ok {
		t.Fatalf("RangeIonsByShortName: unknown ion")
	}
	if len(got) != 1 || got[0].MassToCharge() != 15 {
		t.Fatalf("got %+v, want single Fe ion", got)
	}
}

func TestAddIonRejectsDuplicateName(t *testing.T) {
	r := buildTestRangeFile(t)
	if _, ok := r.AddIon("Fe", "Not Iron", point.Colour{}); ok {
		t.Fatalf("expected duplicate short name to be rejected")
	}
}
