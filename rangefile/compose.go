package rangefile

import (
	"sort"
	"strconv"
)

// ionFragment is one constituent of a decomposed composed-ion name, e.g.
// "Hg2" decomposes to {Name: "Hg", Count: 2}.
type ionFragment struct {
	Name  string
	Count int
}

// decomposeIonName breaks a chemical-formula-style ion name such as "AuHg2"
// into its constituent element fragments and multiplicities, following the
// "white book" (Miller, Atom Probe Microscopy) naming convention: an
// uppercase ASCII letter starts a new element name, and a following run of
// digits gives its multiplicity (default 1). Ported from the original's
// decomposeIonNames.
func decomposeIonName(name string) ([]ionFragment, bool) {
	var fragments []ionFragment
	if len(name) == 0 {
		return fragments, true
	}

	if name[0] > 127 || isDigitByte(name[0]) || isLowerByte(name[0]) {
		return nil, false
	}

	lastMarker := 0
	digitMarker := 0
	nameMode := true
	for i := 1; i < len(name); i++ {
		c := name[i]
		if c > 127 {
			return nil, false
		}

		if nameMode {
			if isDigitByte(c) {
				digitMarker = i
				nameMode = false
				continue
			}
			if isUpperByte(c) {
				fragments = append(fragments, ionFragment{Name: name[lastMarker:i], Count: 1})
				lastMarker = i
			}
			continue
		}

		if isDigitByte(c) {
			continue
		}
		if isAlphaByte(c) {
			mult, err := strconv.Atoi(name[digitMarker:i])
			if err != nil {
				return nil, false
			}
			fragments = append(fragments, ionFragment{Name: name[lastMarker:digitMarker], Count: mult})
			lastMarker = i
			nameMode = true
		}
	}

	if nameMode {
		fragments = append(fragments, ionFragment{Name: name[lastMarker:], Count: 1})
	} else {
		mult, err := strconv.Atoi(name[digitMarker:])
		if err != nil {
			return nil, false
		}
		fragments = append(fragments, ionFragment{Name: name[lastMarker:digitMarker], Count: mult})
	}
	return fragments, true
}

func isDigitByte(c byte) bool { return c >= '0' && c <= '9' }
func isLowerByte(c byte) bool { return c >= 'a' && c <= 'z' }
func isUpperByte(c byte) bool { return c >= 'A' && c <= 'Z' }
func isAlphaByte(c byte) bool { return isLowerByte(c) || isUpperByte(c) }

// fragmentSetEqual reports whether two fragment slices contain the same
// (name, count) pairs, order-independent.
func fragmentSetEqual(a, b []ionFragment) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, fa := range a {
		found := false
		for j, fb := range b {
			if used[j] {
				continue
			}
			if fa == fb {
				used[j] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// matchComposedName looks for exactly one ion, among the candidates whose
// name is a key of composedNames, whose decomposed fragment set exactly
// equals namesToFind. Ported from the original's matchComposedName, which
// frames this as a bijection check rather than a subset/superset match: a
// candidate only qualifies if its fragments are both a superset and a
// subset of namesToFind.
func matchComposedName(composedNames map[string]int, namesToFind []ionFragment) (matchIonID int, ok bool) {
	type candidate struct {
		ionID     int
		fragments []ionFragment
	}
	var candidates []candidate
	for name, ionID := range composedNames {
		frags, valid := decomposeIonName(name)
		if !valid {
			frags = nil
		}
		candidates = append(candidates, candidate{ionID: ionID, fragments: frags})
	}
	// Stable order makes the "duplicate match" rejection deterministic.
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ionID < candidates[j].ionID })

	matchIonID = -1
	for _, c := range candidates {
		if fragmentSetEqual(c.fragments, namesToFind) {
			if matchIonID != -1 {
				return -1, false
			}
			matchIonID = c.ionID
		}
	}
	return matchIonID, matchIonID != -1
}
