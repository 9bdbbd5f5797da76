package filtertree

import (
	"bytes"
	"testing"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/filters"
)

// TestXMLRoundTripPreservesTopologyAndFields exercises spec testable
// property 9: save then load (non-merge) reproduces the same topology,
// user strings, and per-node properties.
func TestXMLRoundTripPreservesTopologyAndFields(t *testing.T) {
	tree := New()

	down := filters.NewDownsampleFilter()
	down.Mode = filters.DownsampleCount
	down.Count = 42
	down.PerSpecies = true
	down.SetUserString("thin out")
	down.SetCacheEnabled(true)
	root := tree.NewNode(down)
	tree.AddRoot(root)

	clip := filters.NewClipFilter()
	clip.Primitive = filters.ClipCylinder
	clip.Radius = 2.5
	clip.CylinderAxis.Z = 10
	clip.Invert = true
	child := tree.NewNode(clip)
	tree.AddChild(root, child)

	voxel := filters.NewVoxeliseFilter()
	voxel.Normalise = filters.VoxelNormaliseRatio
	voxel.NumeratorIon = 3
	voxel.DenominatorIon = 1
	grandchild := tree.NewNode(voxel)
	tree.AddChild(child, grandchild)

	var buf bytes.Buffer
	if err := WriteTree(&buf, tree, "1"); err != nil {
		t.Fatalf("WriteTree: %v", err)
	}

	loaded, err := ReadTree(&buf)
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}

	if loaded.NumRoots() != 1 {
		t.Fatalf("got %d roots, want 1", loaded.NumRoots())
	}
	loadedRoot := loaded.Roots()[0]
	loadedDown, ok := loadedRoot.Filter.(*filters.DownsampleFilter)
	if !ok {
		t.Fatalf("root filter = %T, want *filters.DownsampleFilter", loadedRoot.Filter)
	}
	if loadedDown.Mode != filters.DownsampleCount || loadedDown.Count != 42 || !loadedDown.PerSpecies {
		t.Fatalf("downsample fields not round-tripped: %+v", loadedDown)
	}
	if loadedDown.UserString() != "thin out" {
		t.Fatalf("userstring = %q, want %q", loadedDown.UserString(), "thin out")
	}
	if !loadedDown.CacheEnabled() {
		t.Fatal("cacheenabled not round-tripped")
	}

	if loadedRoot.NumChildren() != 1 {
		t.Fatalf("root has %d children, want 1", loadedRoot.NumChildren())
	}
	loadedClip, ok := loadedRoot.ChildAt(0).Filter.(*filters.ClipFilter)
	if !ok {
		t.Fatalf("child filter = %T, want *filters.ClipFilter", loadedRoot.ChildAt(0).Filter)
	}
	if loadedClip.Primitive != filters.ClipCylinder || loadedClip.Radius != 2.5 || !loadedClip.Invert {
		t.Fatalf("clip fields not round-tripped: %+v", loadedClip)
	}
	if loadedClip.CylinderAxis.Z != 10 {
		t.Fatalf("clip CylinderAxis.Z = %v, want 10", loadedClip.CylinderAxis.Z)
	}

	gc := loadedRoot.ChildAt(0)
	if gc.NumChildren() != 1 {
		t.Fatalf("clip node has %d children, want 1", gc.NumChildren())
	}
	loadedVoxel, ok := gc.ChildAt(0).Filter.(*filters.VoxeliseFilter)
	if !ok {
		t.Fatalf("grandchild filter = %T, want *filters.VoxeliseFilter", gc.ChildAt(0).Filter)
	}
	if loadedVoxel.Normalise != filters.VoxelNormaliseRatio || loadedVoxel.NumeratorIon != 3 || loadedVoxel.DenominatorIon != 1 {
		t.Fatalf("voxelise fields not round-tripped: %+v", loadedVoxel)
	}
}

func TestReadTreeRejectsUnknownFilterElement(t *testing.T) {
	doc := `<filtertree><writer version="1"></writer><nosuchfilter userstring="x"></nosuchfilter></filtertree>`
	_, err := ReadTree(bytes.NewBufferString(doc))
	if err == nil {
		t.Fatal("expected an error for an unrecognised filter element")
	}
}

func TestReadTreeToleratesMissingAttributes(t *testing.T) {
	doc := `<filtertree><writer version="1"></writer><ionssample userstring="bare"></ionssample></filtertree>`
	tree, err := ReadTree(bytes.NewBufferString(doc))
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if tree.NumRoots() != 1 {
		t.Fatalf("got %d roots, want 1", tree.NumRoots())
	}
	down, ok := tree.Roots()[0].Filter.(*filters.DownsampleFilter)
	if !ok {
		t.Fatalf("filter = %T, want *filters.DownsampleFilter", tree.Roots()[0].Filter)
	}
	if down.Fraction != 1.0 {
		t.Fatalf("missing fraction attribute should fall back to constructor default 1.0, got %v", down.Fraction)
	}
}
