package ionhit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
)

func TestPOSRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test1.pos")

	var want []IonHit
	for i := 0; i < 133; i++ {
		f := float32(i)
		want = append(want, New(point.Point3D{X: f, Y: f, Z: f}, f))
	}

	if err := WritePOS(path, want); err != nil {
		t.Fatalf("WritePOS: %v", err)
	}

	got, err := LoadPOS(path, LoadPOSOptions{InputColumns: 4, Columns: DefaultColumnMap})
	if err != nil {
		t.Fatalf("LoadPOS: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d ions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ion %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPOSEmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pos")
	if err := WritePOS(path, nil); err != nil {
		t.Fatalf("WritePOS: %v", err)
	}
	if _, err := LoadPOS(path, LoadPOSOptions{InputColumns: 4}); err == nil {
		t.Fatalf("expected error loading empty pos file")
	}
}

func TestPOSSizeModulus(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.pos")
	if err := WritePOS(path, []IonHit{New(point.Point3D{X: 1, Y: 2, Z: 3}, 4)}); err != nil {
		t.Fatalf("WritePOS: %v", err)
	}
	// Truncate to an odd number of bytes so it is no longer a multiple of
	// the 16-byte record size.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if err := os.WriteFile(path, raw[:len(raw)-1], 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadPOS(path, LoadPOSOptions{InputColumns: 4}); err == nil {
		t.Fatalf("expected size-modulus error")
	}
}

func TestPOSSampledLoadCount(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.pos")

	var ions []IonHit
	for i := 0; i < 200; i++ {
		f := float32(i)
		ions = append(ions, New(point.Point3D{X: f, Y: f, Z: f}, f))
	}
	if err := WritePOS(path, ions); err != nil {
		t.Fatalf("WritePOS: %v", err)
	}

	got, err := LoadPOS(path, LoadPOSOptions{InputColumns: 4, Columns: DefaultColumnMap, SampleCount: 50})
	if err != nil {
		t.Fatalf("LoadPOS sampled: %v", err)
	}
	if len(got) != 50 {
		t.Fatalf("got %d sampled ions, want 50", len(got))
	}

	seen := make(map[float32]bool)
	for _, ion := range got {
		if seen[ion.MassToCharge()] {
			t.Fatalf("duplicate sampled ion %v", ion)
		}
		seen[ion.MassToCharge()] = true
	}
}
