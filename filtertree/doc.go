// Package filtertree implements the filter tree (spec §4.C7): node topology
// (add/remove/reparent/clone, cycle rejection), the depth-first refresh
// scheduler with pre-refresh bias analysis, and XML persistence of a whole
// tree. Grounded on the teacher's (github.com/phanxgames/willow) node.go
// scene graph -- AddChild/RemoveChild/isAncestor cycle checking, Dispose,
// and the flat-struct-plus-slice-of-children shape -- generalised from a 2D
// render tree to a rooted forest of filters.Filter-holding nodes.
package filtertree
