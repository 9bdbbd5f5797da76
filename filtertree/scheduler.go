package filtertree

import (
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/filters"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/progress"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

// Progress is the scheduler's running-status snapshot (spec §4.C7 step 3),
// reported to an optional callback as the refresh walk advances.
type Progress struct {
	FilterProgress int    // 0-100, the current node's own progress.Reporter value
	TotalProgress  int    // 0-100, Step / total nodes (counts the current node)
	Step, MaxStep  int    // 1-based current node index, total node count
	StepName       string // the current node's filter kind
	CurrentFilter  string // the current node's user string, if set
}

// RefreshOutput is the scheduler's complete result: per-node output frame
// lists (for the renderer) and whether the walk was cut short by
// cancellation.
type RefreshOutput struct {
	NodeOutputs map[uint64][]stream.Frame
	Aborted     bool
}

// Refresh walks the tree depth-first (spec §4.C7 refresh algorithm),
// invoking each node's Filter.Refresh with the frames its parent produced,
// applying the node's block mask to decide which parent frames pass through
// untouched, and reporting progress/cancellation at the same per-node
// granularity the original's scheduler uses. Because every concrete filter
// already short-circuits on its own valid cache at the top of Refresh (see
// e.g. filters/clip.go), the walk always invokes every node rather than
// first computing a separate "refresh start set": the self-check already
// gives an O(1) no-op for any node whose cache is valid and whose
// properties are unchanged, which is the same outcome the spec's
// minimal-start-set computation exists to produce, without a second
// reachability pass over the tree.
func (t *Tree) Refresh(onProgress func(Progress), cancel progress.CancelFunc) RefreshOutput {
	nodes := t.AllNodes()
	total := len(nodes)
	if total == 0 {
		return RefreshOutput{NodeOutputs: map[uint64][]stream.Frame{}}
	}

	reporter := &progress.Reporter{}
	out := RefreshOutput{NodeOutputs: make(map[uint64][]stream.Frame, total)}
	step := 0

	var walk func(n *FilterNode, parentFrames []stream.Frame) bool
	walk = func(n *FilterNode, parentFrames []stream.Frame) bool {
		if progress.ShouldAbort(cancel) {
			out.Aborted = true
			return false
		}
		step++
		reporter.Set(0)
		report := func() {
			if onProgress == nil {
				return
			}
			onProgress(Progress{
				FilterProgress: reporter.Get(),
				TotalProgress:  step * 100 / total,
				Step:           step,
				MaxStep:        total,
				StepName:       n.Filter.Kind().String(),
				CurrentFilter:  n.Filter.UserString(),
			})
		}
		report()

		result, errKind := n.Filter.Refresh(filters.RefreshInput{
			Frames:   parentFrames,
			Progress: reporter,
			Cancel:   cancel,
		})

		var msgs []string
		if errKind == filters.ErrAbort {
			out.Aborted = true
			n.lastOutput = nil
			n.consoleMessages = []string{errKind.Error()}
			return false
		}
		if errKind != filters.ErrNone {
			// Spec §7: I/O and parse errors terminate this node's refresh and
			// bubble to the scheduler, which leaves the node's cache invalid
			// and reports via the console message list without aborting
			// siblings -- so the walk continues, just with no output from n.
			msgs = append(msgs, errKind.Error())
			n.lastOutput = nil
			n.consoleMessages = msgs
			report()
			for _, c := range n.children {
				if !walk(c, nil) {
					return false
				}
			}
			return true
		}
		msgs = append(msgs, result.Warnings...)
		n.consoleMessages = msgs
		n.selectionDevices = collectSelectionDevices(result.Frames)

		passThrough := passthroughFrames(parentFrames, n.Filter.BlockMask())
		produced := make([]stream.Frame, 0, len(result.Frames)+len(passThrough))
		produced = append(produced, result.Frames...)
		// Some filters (bounding box, annotation, density filtering) already
		// return unblocked input frames themselves; none is added twice.
		returned := make(map[stream.Frame]bool, len(result.Frames))
		for _, fr := range result.Frames {
			returned[fr] = true
		}
		for _, fr := range passThrough {
			if !returned[fr] {
				produced = append(produced, fr)
			}
		}
		n.lastOutput = produced
		out.NodeOutputs[n.id] = produced
		report()

		for _, c := range n.children {
			if !walk(c, produced) {
				return false
			}
		}
		return true
	}

	for _, r := range t.roots {
		if !walk(r, nil) {
			break
		}
	}
	return out
}

// passthroughFrames returns the subset of frames whose kind is NOT set in
// blockMask -- the scheduler's "pass any pass-through frames (types not in
// the node's block-mask) straight through" step.
func passthroughFrames(frames []stream.Frame, blockMask stream.Mask) []stream.Frame {
	if len(frames) == 0 {
		return nil
	}
	out := make([]stream.Frame, 0, len(frames))
	for _, f := range frames {
		if !blockMask.Has(f.Kind()) {
			out = append(out, f)
		}
	}
	return out
}

// collectSelectionDevices extracts the draw primitives carrying selection
// bindings from a refresh's output frames, becoming the producing node's
// SelectionDevices() (spec §4.C6: "any selection devices ... it produced
// last refresh").
func collectSelectionDevices(frames []stream.Frame) []stream.Primitive {
	var out []stream.Primitive
	for _, f := range frames {
		df, ok := f.(*stream.DrawFrame)
		if !ok {
			continue
		}
		for _, p := range df.Primitives {
			if len(p.Bindings()) > 0 {
				out = append(out, p)
			}
		}
	}
	return out
}
