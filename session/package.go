package session

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/filters"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/filtertree"
)

// FileMap records, for a package-mode save, the original on-disk path of
// every ion/range file referenced by the tree and the sanitised name it was
// rewritten to under the package's local directory (spec §4.C8: "when
// saving as a package (for transport), the repo's file map replaces ion
// filenames with sanitised names under a local directory").
type FileMap map[string]string

// BuildPackageFileMap walks every DataLoadFilter and RangeFileFilter node in
// t, assigns each distinct source path a sanitised name (the base name with
// any character outside [A-Za-z0-9._-] replaced by '_', de-duplicated with a
// numeric suffix on collision), and rewrites the filter's path field in
// place to localDir/<sanitised name>. The caller is responsible for
// actually copying the bytes at each original path to its mapped
// destination; BuildPackageFileMap only decides names and rewrites
// references, mirroring the original/the teacher's separation of "what the
// tree points at" from "what bytes exist on disk".
func BuildPackageFileMap(t *filtertree.Tree, localDir string) FileMap {
	fm := make(FileMap)
	used := make(map[string]bool)

	assign := func(original string) string {
		if original == "" {
			return ""
		}
		if mapped, ok := fm[original]; ok {
			return mapped
		}
		name := sanitiseFilename(filepath.Base(original))
		candidate := name
		for i := 2; used[candidate]; i++ {
			ext := filepath.Ext(name)
			base := strings.TrimSuffix(name, ext)
			candidate = fmt.Sprintf("%s_%d%s", base, i, ext)
		}
		used[candidate] = true
		mapped := path.Join(localDir, candidate)
		fm[original] = mapped
		return mapped
	}

	t.Walk(func(n *filtertree.FilterNode) {
		switch f := n.Filter.(type) {
		case *filters.DataLoadFilter:
			if f.Filename == "" {
				return
			}
			f.Filename = assign(f.Filename)
		case *filters.RangeFileFilter:
			if f.Path() == "" {
				return
			}
			f.SetPath(assign(f.Path()))
		}
	})
	return fm
}

// sanitiseFilename replaces every character outside the conservative
// [A-Za-z0-9._-] set with '_', matching the "sanitised names" spec.md asks
// for without depending on any particular host filesystem's exact rules.
func sanitiseFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
