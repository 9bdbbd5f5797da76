// Package progress provides the shared progress-reporting and cancellation
// contract used by every long-running operation in the analysis core: file
// loaders (C2), k-d tree construction (C4), filter refresh (C6) and the tree
// scheduler (C7). Suspension points are exactly progress/cancel polls and I/O
// reads (spec §5); this package is the single plumbing point for both.
package progress

import "sync/atomic"

// PollInterval is how often (in records, comparisons, or sort swaps) a
// long-running loop should poll progress/cancellation, matching the
// original's PROGRESS_REDUCE constant.
const PollInterval = 5000

// Reporter holds a 0-100 percent-complete counter that can be updated from
// one goroutine and read from another without a lock.
type Reporter struct {
	percent atomic.Int32
}

// Set records the current percent-complete (clamped to [0,100]).
func (r *Reporter) Set(percent int) {
	if percent < 0 {
		percent = 0
	} else if percent > 100 {
		percent = 100
	}
	r.percent.Store(int32(percent))
}

// Get returns the last recorded percent-complete.
func (r *Reporter) Get() int {
	return int(r.percent.Load())
}

// CancelFunc is polled periodically by long-running operations; returning
// true means "stop now". A nil CancelFunc is always treated as "never
// cancel".
type CancelFunc func() bool

// ShouldAbort evaluates a (possibly nil) CancelFunc.
func ShouldAbort(cancel CancelFunc) bool {
	return cancel != nil && cancel()
}

// AbortFlag is a shared, goroutine-safe cancellation flag for worker pools:
// one designated thread polls the CancelFunc at the usual cadence and sets
// this flag; other workers observe it between units of work, per spec §5's
// concurrency model ("a shared abort flag is observed by others before
// continuing").
type AbortFlag struct {
	flag atomic.Bool
}

// Set marks the flag as tripped.
func (a *AbortFlag) Set() { a.flag.Store(true) }

// IsSet reports whether the flag has been tripped.
func (a *AbortFlag) IsSet() bool { return a.flag.Load() }
