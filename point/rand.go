package point

import (
	"math/rand"
	"sort"
	"time"
)

// RNG is a per-owner random source seeded from a wall-clock timer, matching
// spec §5's "random operations use a per-filter RNG seeded from a timer" --
// sampled output is therefore reproducible only within a single process run,
// by construction (a fresh RNG means a fresh seed).
//
// This generalises the pattern willow's particle.go uses (Range.Random calls
// the package-level math/rand source directly); here every owner (filter,
// loader) gets its own independent generator so that concurrent refreshes of
// unrelated filters never contend on, or need to share, RNG state.
type RNG struct {
	r *rand.Rand
}

// NewRNG returns a timer-seeded RNG.
func NewRNG() *RNG {
	return &RNG{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewSeededRNG returns an RNG with an explicit seed, for deterministic tests.
func NewSeededRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seed))}
}

// Float64 returns a uniform deviate in [0, 1).
func (g *RNG) Float64() float64 { return g.r.Float64() }

// Intn returns a uniform deviate in [0, n).
func (g *RNG) Intn(n int) int { return g.r.Intn(n) }

// Colour returns a uniform-random opaque colour, used whenever a range
// parser has to synthesise an ion with no declared colour (composed .rng
// ions, colour-less .rrng ranges).
func (g *RNG) Colour() Colour {
	return Colour{
		R: float32(g.r.Float64()),
		G: float32(g.r.Float64()),
		B: float32(g.r.Float64()),
	}
}

// UniqueIndices draws k unique indices from [0, n) without replacement,
// ascending-sorted. Ascending order matches spec §4.C2's sampled POS load
// requirement ("sort them ascending to keep the disk head moving forward").
//
// If k >= n, every index is returned (0..n-1) and the caller is expected to
// fall back to the unsampled load path per spec, rather than calling this at
// all -- UniqueIndices itself has no opinion on that fallback, it just
// degrades gracefully.
func (g *RNG) UniqueIndices(n, k int) []int {
	if k >= n {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	// Reservoir-free approach: since k is typically a small fraction of n for
	// sampled loads, track chosen indices in a set and redraw on collision.
	// For k close to n this degrades, so fall back to a partial Fisher-Yates
	// over a dense index slice once the rejection cost would dominate.
	const rejectionThreshold = 0.4
	if float64(k) > rejectionThreshold*float64(n) {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		g.r.Shuffle(n, func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		idx = idx[:k]
		sort.Ints(idx)
		return idx
	}

	seen := make(map[int]struct{}, k)
	out := make([]int, 0, k)
	for len(out) < k {
		v := g.r.Intn(n)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// KeepWithProbability reports whether a fractional-downsample keep-test
// succeeds for probability p in [0,1].
func (g *RNG) KeepWithProbability(p float64) bool {
	return g.r.Float64() < p
}

// Permutation returns a uniformly random permutation of [0, n), used by the
// value-shuffle transform to destroy the position/value association.
func (g *RNG) Permutation(n int) []int {
	return g.r.Perm(n)
}
