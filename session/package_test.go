package session

import (
	"testing"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/filters"
)

func TestBuildPackageFileMapSanitisesAndRewrites(t *testing.T) {
	tree := New().Tree

	down := filters.NewDataLoadFilter("/home/user/my data (run 1).pos", filters.SourceFilePOS)
	node := tree.NewNode(down)
	tree.AddRoot(node)

	fm := BuildPackageFileMap(tree, "data")

	mapped, ok := fm["/home/user/my data (run 1).pos"]
	if !ok {
		t.Fatal("file map missing the original path")
	}
	if down.Filename != mapped {
		t.Fatalf("filter's Filename = %q, want the mapped path %q", down.Filename, mapped)
	}
	for _, r := range mapped {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-', r == '/':
			continue
		default:
			t.Fatalf("mapped path %q contains unsanitised character %q", mapped, r)
		}
	}
}

func TestBuildPackageFileMapDeduplicatesSameBaseName(t *testing.T) {
	tree := New().Tree

	a := filters.NewDataLoadFilter("/a/run.pos", filters.SourceFilePOS)
	b := filters.NewDataLoadFilter("/b/run.pos", filters.SourceFilePOS)
	na := tree.NewNode(a)
	nb := tree.NewNode(b)
	tree.AddRoot(na)
	tree.AddRoot(nb)

	BuildPackageFileMap(tree, "data")

	if a.Filename == b.Filename {
		t.Fatalf("two distinct source files collided on the same mapped name %q", a.Filename)
	}
}

func TestBuildPackageFileMapIsIdempotentPerSourcePath(t *testing.T) {
	tree := New().Tree

	a := filters.NewDataLoadFilter("/a/run.pos", filters.SourceFilePOS)
	b := filters.NewDataLoadFilter("/a/run.pos", filters.SourceFilePOS) // same source, two nodes
	na := tree.NewNode(a)
	nb := tree.NewNode(b)
	tree.AddRoot(na)
	tree.AddRoot(nb)

	BuildPackageFileMap(tree, "data")

	if a.Filename != b.Filename {
		t.Fatalf("two filters referencing the same source path mapped differently: %q vs %q", a.Filename, b.Filename)
	}
}
