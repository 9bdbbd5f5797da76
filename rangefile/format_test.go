package rangefile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
)

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

func TestOpenRNG(t *testing.T) {
	dir := t.TempDir()
	content := "2 3\n" +
		"Iron\n" +
		"Fe 1.0 0.0 0.0\n" +
		"Nickel\n" +
		"Ni 0.0 1.0 0.0\n" +
		"------------- Iron Nickel\n" +
		". 10.0 20.0 1 0\n" +
		". 30.0 40.0 0 1\n" +
		". 50.0 60.0 0 0\n"
	path := writeFixture(t, dir, "test.rng", content)

	r, err := Open(path, FormatORNL)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if r.NumIons() != 2 {
		t.Fatalf("got %d ions, want 2", r.NumIons())
	}
	// The all-zero row is dropped, leaving two usable ranges.
	if r.NumRanges() != 2 {
		t.Fatalf("got %d ranges, want 2", r.NumRanges())
	}
	if got := r.IonIDForMass(15); got != 0 {
		t.Fatalf("mass 15 -> ion %d, want 0 (Fe)", got)
	}
	if got := r.IonIDForMass(35); got != 1 {
		t.Fatalf("mass 35 -> ion %d, want 1 (Ni)", got)
	}
	if r.IsRanged(55) {
		t.Fatalf("mass 55 should not be ranged (dropped row)")
	}
}

func TestOpenRNGEmptyHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "empty.rng", "0 0\n")
	if _, err := Open(path, FormatORNL); err == nil {
		t.Fatalf("expected error for empty range file")
	}
}

func TestOpenRRNG(t *testing.T) {
	dir := t.TempDir()
	content := "[Ions]\n" +
		"Number=2\n" +
		"Ion1=Fe\n" +
		"Ion2=Ni\n" +
		"\n" +
		"[Ranges]\n" +
		"Number=2\n" +
		"Range1=10.0 20.0 Fe:1 Color:FF0000\n" +
		"Range2=30.0 40.0 Ni:1 Color:00FF00\n"
	path := writeFixture(t, dir, "test.rrng", content)

	r, err := Open(path, FormatRRNG)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if r.NumIons() != 2 {
		t.Fatalf("got %d ions, want 2", r.NumIons())
	}
	if r.NumRanges() != 2 {
		t.Fatalf("got %d ranges, want 2", r.NumRanges())
	}
	if got := r.IonIDForMass(15); got != 0 {
		t.Fatalf("mass 15 -> ion %d, want 0 (Fe)", got)
	}
}

func TestOpenRRNGComposedNameField(t *testing.T) {
	dir := t.TempDir()
	content := "[Ions]\n" +
		"Number=2\n" +
		"Ion1=Zn\n" +
		"Ion2=Sb\n" +
		"[Ranges]\n" +
		"Number=1\n" +
		"Range1=95.31 95.58 Vol:0.04542 Name:1ZnSb Color:00FFFF\n"
	path := writeFixture(t, dir, "composed.rrng", content)

	r, err := Open(path, FormatRRNG)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if r.NumIons() != 1 {
		t.Fatalf("got %d ions, want 1 (ZnSb composite)", r.NumIons())
	}
	if r.NumRanges() != 1 {
		t.Fatalf("got %d ranges, want 1", r.NumRanges())
	}
}

func TestOpenENV(t *testing.T) {
	dir := t.TempDir()
	content := "2 2\n" +
		"Fe 1.0 0.0 0.0\n" +
		"Ni 0.0 1.0 0.0\n" +
		"Fe 10.0 20.0 0.5 0.5\n" +
		"Ni 30.0 40.0 0.5 0.5\n" +
		"#trailing comment so the range block is not the end of file\n" +
		"extra line\n"
	path := writeFixture(t, dir, "test.env", content)

	r, err := Open(path, FormatENV)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if r.NumIons() != 2 {
		t.Fatalf("got %d ions, want 2", r.NumIons())
	}
	if r.NumRanges() != 2 {
		t.Fatalf("got %d ranges, want 2", r.NumRanges())
	}
}

func TestOpenGuessFormat(t *testing.T) {
	dir := t.TempDir()
	content := "[Ions]\nNumber=1\nIon1=Fe\n[Ranges]\nNumber=1\nRange1=10.0 20.0 Fe:1 Color:FF0000\n"
	path := writeFixture(t, dir, "guess.rrng", content)

	r, format, err := OpenGuessFormat(path)
	if err != nil {
		t.Fatalf("OpenGuessFormat: %v", err)
	}
	if format != FormatRRNG {
		t.Fatalf("got format %v, want FormatRRNG", format)
	}
	if r.NumIons() != 1 {
		t.Fatalf("got %d ions, want 1", r.NumIons())
	}
}

func TestRoundTripRNG(t *testing.T) {
	dir := t.TempDir()
	r := New()
	feID, ok := r.AddIon("Fe", "Iron", point.Colour{R: 1, G: 0, B: 0})
	if !ok {
		t.Fatalf("AddIon Fe failed")
	}
	niID, ok := r.AddIon("Ni", "Nickel", point.Colour{R: 0, G: 1, B: 0})
	if !ok {
		t.Fatalf("AddIon Ni failed")
	}
	if _, ok := r.AddRange(10, 20, feID); !ok {
		t.Fatalf("AddRange 1 failed")
	}
	if _, ok := r.AddRange(30, 40, niID); !ok {
		t.Fatalf("AddRange 2 failed")
	}
	if !r.IsSelfConsistent() {
		t.Fatalf("expected self-consistent range file")
	}

	path := filepath.Join(dir, "roundtrip.rng")
	if err := Write(path, FormatORNL, r); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Open(path, FormatORNL)
	if err != nil {
		t.Fatalf("Open round trip: %v", err)
	}
	if got.NumIons() != 2 || got.NumRanges() != 2 {
		t.Fatalf("round trip mismatch: %d ions, %d ranges", got.NumIons(), got.NumRanges())
	}
	if got.IonIDForMass(15) != 0 || got.IonIDForMass(35) != 1 {
		t.Fatalf("round trip ranges do not match original ion assignment")
	}
}
