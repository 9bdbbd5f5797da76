package filters

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

func writeTestPOS(t *testing.T, path string, n int) []ionhit.IonHit {
	t.Helper()
	var hits []ionhit.IonHit
	for i := 0; i < n; i++ {
		f := float32(i)
		hits = append(hits, ionhit.New(point.Point3D{X: f, Y: f, Z: f}, f))
	}
	if err := ionhit.WritePOS(path, hits); err != nil {
		t.Fatalf("WritePOS: %v", err)
	}
	return hits
}

func TestDataLoadFilterLoadsPOS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.pos")
	writeTestPOS(t, path, 50)

	f := NewDataLoadFilter(path, SourceFilePOS)
	result, errKind := f.Refresh(RefreshInput{})
	if errKind != ErrNone {
		t.Fatalf("Refresh: %v", errKind)
	}
	if len(result.Frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(result.Frames))
	}
	ions, ok := result.Frames[0].(*stream.IonFrame)
	if !ok {
		t.Fatalf("expected an ion frame, got %T", result.Frames[0])
	}
	if len(ions.Data) != 50 {
		t.Fatalf("got %d ions, want 50", len(ions.Data))
	}
}

func TestDataLoadFilterMissingFileErrors(t *testing.T) {
	f := NewDataLoadFilter(filepath.Join(t.TempDir(), "missing.pos"), SourceFilePOS)
	_, errKind := f.Refresh(RefreshInput{})
	if errKind == ErrNone {
		t.Fatalf("expected an error for a missing source file")
	}
}

func TestDataLoadFilterMonitorDetectsChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "watched.pos")
	writeTestPOS(t, path, 10)

	f := NewDataLoadFilter(path, SourceFilePOS)
	f.Monitor = true
	f.SetCacheEnabled(true)

	if _, errKind := f.Refresh(RefreshInput{}); errKind != ErrNone {
		t.Fatalf("first Refresh: %v", errKind)
	}
	if !f.cacheValid {
		t.Fatalf("expected cache to be valid after first refresh")
	}

	time.Sleep(10 * time.Millisecond)
	writeTestPOS(t, path, 20)
	// Force the mtime forward in case the filesystem's resolution masked the
	// rewrite above.
	future := time.Now().Add(time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	if f.monitorStale() != true {
		t.Fatalf("expected monitorStale to report true after file change")
	}
}

func TestDataLoadFilterSetPropertyInvalidatesCache(t *testing.T) {
	f := NewDataLoadFilter("unused.pos", SourceFilePOS)
	f.SetCacheEnabled(true)
	f.cacheValid = true

	ok, needsUpdate := f.SetProperty(0, "other.pos")
	if !ok || !needsUpdate {
		t.Fatalf("SetProperty(filename) = %v, %v", ok, needsUpdate)
	}
	if f.cacheValid {
		t.Fatalf("expected cache to be invalidated by filename change")
	}
}
