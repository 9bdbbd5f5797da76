package ionhit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTextFixture(t *testing.T, dir, name, header string, rows int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	var b strings.Builder
	if header != "" {
		b.WriteString(header)
		b.WriteString("\n")
	}
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%d %d\t%d\t%d\n", i, i, i, i)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadDelimitedTextNoHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeTextFixture(t, dir, "plain.txt", "", 1000)

	ions, err := LoadDelimitedText(path, LoadTextOptions{SelectedColumns: [4]int{0, 1, 2, 3}})
	if err != nil {
		t.Fatalf("LoadDelimitedText: %v", err)
	}
	if len(ions) != 1000 {
		t.Fatalf("got %d ions, want 1000", len(ions))
	}
	for i, ion := range ions {
		want := float32(i)
		if ion.Pos().X != want || ion.Pos().Y != want || ion.Pos().Z != want || ion.MassToCharge() != want {
			t.Fatalf("ion %d: got %+v, want all fields == %v", i, ion, want)
		}
	}
}

func TestLoadDelimitedTextWithHeader(t *testing.T) {
	dir := t.TempDir()
	path := writeTextFixture(t, dir, "withheader.txt", "x y z m/c\n# comment line, not numeric", 250)

	ions, err := LoadDelimitedText(path, LoadTextOptions{SelectedColumns: [4]int{0, 1, 2, 3}})
	if err != nil {
		t.Fatalf("LoadDelimitedText: %v", err)
	}
	if len(ions) != 250 {
		t.Fatalf("got %d ions, want 250", len(ions))
	}
}

func TestLoadDelimitedTextHeaderOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "headeronly.txt")
	if err := os.WriteFile(path, []byte("x y z m/c\nnot numeric at all\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, err := LoadDelimitedText(path, LoadTextOptions{SelectedColumns: [4]int{0, 1, 2, 3}})
	if err == nil {
		t.Fatalf("expected header-only error")
	}
}

func TestLoadDelimitedTextSampled(t *testing.T) {
	dir := t.TempDir()
	path := writeTextFixture(t, dir, "sample.txt", "", 500)

	ions, err := LoadDelimitedText(path, LoadTextOptions{
		SelectedColumns: [4]int{0, 1, 2, 3},
		SampleCount:     100,
	})
	if err != nil {
		t.Fatalf("LoadDelimitedText sampled: %v", err)
	}
	if len(ions) != 100 {
		t.Fatalf("got %d sampled ions, want 100", len(ions))
	}

	seen := make(map[float32]bool)
	for _, ion := range ions {
		if seen[ion.MassToCharge()] {
			t.Fatalf("duplicate sampled ion %v", ion)
		}
		seen[ion.MassToCharge()] = true
	}
}
