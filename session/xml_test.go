package session

import (
	"bytes"
	"testing"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/filters"
)

func buildSampleState() *AnalysisState {
	s := New()
	s.BackgroundR, s.BackgroundG, s.BackgroundB = 0.1, 0.2, 0.3
	s.AxisVisibility = AxisShown
	s.Cameras[0].Name = "main"
	s.Cameras[0].FOV = 60

	down := filters.NewDownsampleFilter()
	down.Fraction = 0.5
	node := s.Tree.NewNode(down)
	s.Tree.AddRoot(node)

	s.Stash("before-cleanup")
	s.Effects = append(s.Effects, Effect{Name: "vignette", Params: map[string]string{"strength": "0.4"}})
	return s
}

func TestSaveLoadReplaceRoundTrip(t *testing.T) {
	s := buildSampleState()

	var buf bytes.Buffer
	if err := Save(&buf, s, SaveOptions{Comment: "test state"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	res, err := Load(&buf, LoadReplace, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	loaded := res.State

	if loaded.BackgroundR != s.BackgroundR || loaded.BackgroundG != s.BackgroundG || loaded.BackgroundB != s.BackgroundB {
		t.Fatalf("background = (%v,%v,%v), want (%v,%v,%v)", loaded.BackgroundR, loaded.BackgroundG, loaded.BackgroundB, s.BackgroundR, s.BackgroundG, s.BackgroundB)
	}
	if loaded.AxisVisibility != AxisShown {
		t.Fatalf("AxisVisibility = %v, want AxisShown", loaded.AxisVisibility)
	}
	if len(loaded.Cameras) != 1 || loaded.Cameras[0].Name != "main" || loaded.Cameras[0].FOV != 60 {
		t.Fatalf("cameras = %+v, want one camera named main with FOV 60", loaded.Cameras)
	}
	if loaded.Active != 0 {
		t.Fatalf("Active = %d, want 0", loaded.Active)
	}
	if loaded.Tree.NumRoots() != 1 {
		t.Fatalf("got %d tree roots, want 1", loaded.Tree.NumRoots())
	}
	down, ok := loaded.Tree.Roots()[0].Filter.(*filters.DownsampleFilter)
	if !ok || down.Fraction != 0.5 {
		t.Fatalf("downsample filter not round-tripped: %+v", loaded.Tree.Roots()[0].Filter)
	}
	if len(loaded.Stashes) != 1 || loaded.Stashes[0].Name != "before-cleanup" {
		t.Fatalf("stashes = %+v, want one named before-cleanup", loaded.Stashes)
	}
	if len(loaded.Effects) != 1 || loaded.Effects[0].Name != "vignette" || loaded.Effects[0].Params["strength"] != "0.4" {
		t.Fatalf("effects = %+v, want one vignette effect", loaded.Effects)
	}
}

func TestLoadRejectsBadRootTag(t *testing.T) {
	doc := `<notTheRightRoot></notTheRightRoot>`
	_, err := Load(bytes.NewBufferString(doc), LoadReplace, nil)
	if err != ErrBadRootTag {
		t.Fatalf("err = %v, want ErrBadRootTag", err)
	}
}

func TestLoadRejectsBackgroundOutOfRange(t *testing.T) {
	doc := `<threeDepictstate><backcolour r="1.5" g="0" b="0"/></threeDepictstate>`
	_, err := Load(bytes.NewBufferString(doc), LoadReplace, nil)
	if err != ErrBackgroundOutOfRange {
		t.Fatalf("err = %v, want ErrBackgroundOutOfRange", err)
	}
}

func TestMergeLoadDeduplicatesStashNames(t *testing.T) {
	existing := New()
	existing.Stash("setup")

	incoming := buildSampleState()
	incoming.Stashes = nil
	incoming.Stash("setup") // collides with existing's stash name

	var buf bytes.Buffer
	if err := Save(&buf, incoming, SaveOptions{}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	res, err := Load(&buf, LoadMerge, existing)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	names := map[string]int{}
	for _, st := range res.State.Stashes {
		names[st.Name]++
	}
	if names["setup"] != 1 || names["setup-merge"] != 1 {
		t.Fatalf("stash names after merge = %v, want one \"setup\" and one \"setup-merge\"", names)
	}
}
