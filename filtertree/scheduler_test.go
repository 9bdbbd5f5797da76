package filtertree

import (
	"path/filepath"
	"testing"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/filters"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

func TestRefreshPassesThroughUnblockedKinds(t *testing.T) {
	// DataLoadFilter.Refresh touches disk, so give the root a real POS file
	// to load.
	path := filepath.Join(t.TempDir(), "ions.pos")
	var ions []ionhit.IonHit
	for i := 0; i < 10; i++ {
		ions = append(ions, ionhit.New(point.Point3D{X: float32(i)}, float32(i)))
	}
	if err := ionhit.WritePOS(path, ions); err != nil {
		t.Fatalf("WritePOS: %v", err)
	}

	tree := New()
	root := tree.NewNode(filters.NewDataLoadFilter(path, filters.SourceFilePOS))
	child := tree.NewNode(filters.NewSpectrumPlotFilter()) // emits plot, doesn't block ion
	tree.AddRoot(root)
	tree.AddChild(root, child)

	clip := tree.NewNode(filters.NewClipFilter())
	tree.AddChild(root, clip)

	out := tree.Refresh(nil, nil)
	if out.Aborted {
		t.Fatal("refresh should not abort with no cancel func")
	}
	if _, ok := out.NodeOutputs[root.ID()]; !ok {
		t.Fatal("root's output missing from NodeOutputs")
	}
	if got := stream.CountByKind(out.NodeOutputs[child.ID()])[stream.KindIon]; got != 1 {
		t.Fatalf("spectrum child passed through %d ion frames, want 1", got)
	}
}

func TestRefreshErrorDoesNotAbortSiblings(t *testing.T) {
	tree := New()
	// RangeFileFilter pointed at a nonexistent path fails to construct via
	// NewRangeFileFilter, so instead simulate a failing node by forcing its
	// DataLoadFilter at a path that can't be opened: Refresh returns a
	// non-abort ErrorKind and the walk must still visit the sibling root.
	bad := tree.NewNode(filters.NewDataLoadFilter("/nonexistent/path/does-not-exist.pos", filters.SourceFilePOS))
	good := tree.NewNode(filters.NewDownsampleFilter())
	tree.AddRoot(bad)
	tree.AddRoot(good)

	out := tree.Refresh(nil, nil)
	if out.Aborted {
		t.Fatal("a non-abort error must not mark the whole refresh aborted")
	}
	if len(bad.ConsoleMessages()) == 0 {
		t.Fatal("failing node should record a console message")
	}
	if bad.LastOutput() != nil {
		t.Fatal("failing node's LastOutput must be nil")
	}
	if _, ok := out.NodeOutputs[good.ID()]; !ok {
		t.Fatal("sibling root must still be visited and produce output")
	}
}

func TestRefreshAbortStopsWalk(t *testing.T) {
	tree := New()
	root := tree.NewNode(filters.NewDownsampleFilter())
	tree.AddRoot(root)

	cancel := func() bool { return true }
	out := tree.Refresh(nil, cancel)

	if !out.Aborted {
		t.Fatal("refresh with an always-true cancel predicate must report Aborted")
	}
	if _, ok := out.NodeOutputs[root.ID()]; ok {
		t.Fatal("an aborted node must not contribute to NodeOutputs")
	}
}

func TestPassthroughFramesHonoursBlockMask(t *testing.T) {
	ion := stream.NewIonFrame([]ionhit.IonHit{ionhit.New(point.Point3D{}, 1)})
	plot := &stream.PlotFrame{}
	frames := []stream.Frame{ion, plot}

	out := passthroughFrames(frames, stream.Mask(stream.KindIon))
	if len(out) != 1 {
		t.Fatalf("got %d passthrough frames, want 1 (plot only)", len(out))
	}
	if _, ok := out[0].(*stream.PlotFrame); !ok {
		t.Fatalf("passthrough frame = %T, want *stream.PlotFrame", out[0])
	}
}
