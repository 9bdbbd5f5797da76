// Package session implements the session model (spec §4.C8): AnalysisState
// owns one filter tree, a named stash of filter-tree snapshots, an ordered
// camera list, an effect list, background colour and axis-visibility
// settings, a monotonic modify-level tag, and bounded undo/redo stacks of
// whole-tree snapshots. It also implements the state XML save/load format
// (spec §6 "State XML") including merge-load name de-duplication and
// package-mode (transport) ion file renaming.
//
// Grounded on the teacher's (github.com/phanxgames/willow) camera.go and
// animation.go for the 3D camera's tween mechanics, and on its top-level
// Scene/Willow struct for the "single struct owns everything, exposes
// narrow mutators" shape AnalysisState follows.
package session
