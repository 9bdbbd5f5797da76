package session

import (
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/filtertree"
)

// ModifyLevel is a monotonic tag the host uses to decide whether to prompt
// before discarding the session (spec §4.C8: "used by the host to decide
// whether to prompt on exit").
type ModifyLevel int

const (
	ModifyNone ModifyLevel = iota
	ModifyView
	ModifyAncillary
	ModifyData
)

// Raise bumps m up to level if level is higher, matching the "monotonic"
// requirement: a modify level never silently decreases.
func (m *ModifyLevel) Raise(level ModifyLevel) {
	if level > *m {
		*m = level
	}
}

// AxisVisibility selects whether and how the bounding-box axis is drawn.
type AxisVisibility int

const (
	AxisHidden AxisVisibility = iota
	AxisShown
)

// Stash is one named, saved filter-tree snapshot (spec §4.C8: "an ordered
// stash of named filter-tree snapshots").
type Stash struct {
	Name string
	Tree *filtertree.Tree
}

// Effect is an opaque named post-processing entry in the session's effect
// list (spec §6's `<effects>` section). 3D rendering is explicitly out of
// scope (spec §1 non-goals), so effects are carried as an inert
// name/parameter bag through save and load without rendering semantics.
type Effect struct {
	Name   string
	Params map[string]string
}

const maxUndoDepth = 10

// AnalysisState is the complete session (spec §4.C8): one live filter tree,
// a named stash list, an ordered camera list with an active index, an
// effect list, background colour, axis visibility, a modify level, and
// bounded undo/redo stacks of whole-tree snapshots. Grounded on the
// teacher's top-level Scene/Willow struct shape: one struct owning every
// piece of session state behind narrow mutator methods, rather than scattered
// global state.
type AnalysisState struct {
	Tree *filtertree.Tree

	Stashes []Stash
	Cameras []*Camera
	Active  int // index into Cameras, -1 if none

	Effects []Effect

	BackgroundR, BackgroundG, BackgroundB float32
	AxisVisibility                        AxisVisibility

	ModifyLevel ModifyLevel

	undo []*filtertree.Tree
	redo []*filtertree.Tree
}

// New returns an empty session with a single default camera active.
func New() *AnalysisState {
	return &AnalysisState{
		Tree:    filtertree.New(),
		Cameras: []*Camera{NewCamera("default")},
		Active:  0,
	}
}

// ActiveCamera returns the active camera, or nil if Cameras is empty or
// Active is out of range.
func (s *AnalysisState) ActiveCamera() *Camera {
	if s.Active < 0 || s.Active >= len(s.Cameras) {
		return nil
	}
	return s.Cameras[s.Active]
}

// PushUndo snapshots the current tree onto the undo stack and clears the
// redo stack, per spec §4.C8: "every property edit that would invalidate an
// output pushes onto the undo stack and clears the redo stack". The stack
// is capped at maxUndoDepth; the oldest snapshot is dropped once full.
func (s *AnalysisState) PushUndo() {
	snap := cloneTree(s.Tree)
	s.undo = append(s.undo, snap)
	if len(s.undo) > maxUndoDepth {
		s.undo = s.undo[len(s.undo)-maxUndoDepth:]
	}
	s.redo = nil
}

// CanUndo reports whether there is a snapshot to undo to.
func (s *AnalysisState) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether there is a snapshot to redo to.
func (s *AnalysisState) CanRedo() bool { return len(s.redo) > 0 }

// Undo swaps the current tree for the top of the undo stack, pushing the
// prior current tree onto the redo stack (spec §4.C8). No-op if the undo
// stack is empty.
func (s *AnalysisState) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]

	s.redo = append(s.redo, cloneTree(s.Tree))
	if len(s.redo) > maxUndoDepth {
		s.redo = s.redo[len(s.redo)-maxUndoDepth:]
	}

	s.Tree = prev
	return true
}

// Redo swaps the current tree for the top of the redo stack, pushing the
// prior current tree back onto the undo stack. No-op if the redo stack is
// empty.
func (s *AnalysisState) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]

	s.undo = append(s.undo, cloneTree(s.Tree))
	if len(s.undo) > maxUndoDepth {
		s.undo = s.undo[len(s.undo)-maxUndoDepth:]
	}

	s.Tree = next
	return true
}

// cloneTree deep-copies every root of t into a fresh Tree, used to take an
// independent undo/redo snapshot (filtertree.Tree.CloneSubtree is
// per-subtree, so a whole-tree snapshot clones each root in turn).
func cloneTree(t *filtertree.Tree) *filtertree.Tree {
	clone := filtertree.New()
	for _, r := range t.Roots() {
		rc := clone.CloneSubtree(r)
		clone.AddRoot(rc)
	}
	return clone
}

// Stash pushes the current tree onto the stash list under name, cloning it
// so later edits to the live tree don't affect the stashed copy.
func (s *AnalysisState) Stash(name string) {
	s.Stashes = append(s.Stashes, Stash{Name: name, Tree: cloneTree(s.Tree)})
}

// Unstash replaces the live tree with a clone of the named stash's tree.
// Reports false if no stash has that name.
func (s *AnalysisState) Unstash(name string) bool {
	for _, st := range s.Stashes {
		if st.Name == name {
			s.Tree = cloneTree(st.Tree)
			return true
		}
	}
	return false
}
