package rangefile

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
)

// openRNG parses the Oak Ridge "white book" .rng table format. There is no
// formal specification; behaviour is example-driven, including the
// composed-ion recovery below for files that encode a cluster ion as a row
// with more than one nonzero marker column (spec §4.C3).
func openRNG(data []byte) (*RangeFile, error) {
	r := New()
	tok := newLineTokenizer(data)

	numIonsTok, ok1 := tok.nextToken()
	numRangesTok, ok2 := tok.nextToken()
	if !ok1 || !ok2 {
		return nil, ErrFormatHeader
	}
	numIons, err1 := strconv.Atoi(numIonsTok)
	numRanges, err2 := strconv.Atoi(numRangesTok)
	if err1 != nil || err2 != nil {
		return nil, ErrFormatHeader
	}
	if numIons == 0 || numRanges == 0 {
		return nil, ErrEmpty
	}

	r.ions = make([]Ion, 0, numIons)
	r.colours = make([]point.Colour, 0, numIons)

	for i := 0; i < numIons; i++ {
		tok.skipLineRemainderIfSpace()

		longName, ok := tok.nextToken()
		if !ok {
			return nil, ErrFormatLongName
		}
		shortName, ok := tok.nextToken()
		if !ok {
			return nil, ErrFormatShortName
		}

		var c point.Colour
		rTok, ok1 := tok.nextToken()
		gTok, ok2 := tok.nextToken()
		bTok, ok3 := tok.nextToken()
		if !ok1 || !ok2 || !ok3 {
			return nil, ErrFormatColour
		}
		red, e1 := strconv.ParseFloat(rTok, 32)
		green, e2 := strconv.ParseFloat(gTok, 32)
		blue, e3 := strconv.ParseFloat(bTok, 32)
		if e1 != nil || e2 != nil || e3 != nil {
			return nil, ErrFormatColour
		}
		c = point.Colour{R: float32(red), G: float32(green), B: float32(blue)}

		r.ions = append(r.ions, Ion{Short: shortName, Long: longName})
		r.colours = append(r.colours, c)
	}

	// Finish the line left partially consumed by the last colour token,
	// then read the dashed table-separator/column-header line.
	tok.skipToNextLine()
	headerLine, ok := tok.nextLine()
	if !ok {
		return nil, ErrFormat
	}
	if len(headerLine) == 0 || headerLine[0] != '-' {
		return nil, ErrTableSeparator
	}
	colHeaders := strings.Fields(headerLine)
	if len(colHeaders) == 0 {
		return nil, ErrTableSeparator
	}
	if len(colHeaders) > 1 {
		if len(colHeaders)-1 != numIons {
			return nil, ErrTableSeparator
		}
		for i := 1; i < len(colHeaders); i++ {
			if r.ions[i-1].Long != colHeaders[i] {
				r.warnings = append(r.warnings, "Range headings do not match the order of the ions listed in the name specifications; the name-specification ordering will be used to read the range table")
				break
			}
		}
	}

	freq := make([][]int, numRanges)
	for i := range freq {
		freq[i] = make([]int, numIons)
	}

	for i := 0; i < numRanges; i++ {
		line, ok := tok.nextLine()
		if !ok {
			return nil, ErrFormatTable
		}
		fields := strings.Fields(line)
		if len(fields) != numIons+2 && len(fields) != numIons+3 {
			return nil, ErrFormatTable
		}
		entryOff := 0
		if len(fields) == numIons+3 {
			entryOff = 1
		}

		low, e1 := strconv.ParseFloat(fields[entryOff], 32)
		high, e2 := strconv.ParseFloat(fields[entryOff+1], 32)
		if e1 != nil || e2 != nil {
			return nil, ErrFormatMassPair
		}
		if low >= high {
			return nil, ErrDataFlipped
		}
		r.ranges = append(r.ranges, Range{Low: float32(low), High: float32(high)})

		entryOff += 2
		for j := 0; j < numIons; j++ {
			v, err := strconv.Atoi(fields[entryOff+j])
			if err != nil {
				return nil, ErrFormatTableEntry
			}
			freq[i][j] = v
		}
	}

	return resolveComposedIons(r, freq)
}

// resolveComposedIons implements the post-processing pass: drop all-zero
// rows, assign the obvious single-marker rows directly, and recover
// cluster-ion rows (more than one marker) either by matching them against
// an all-zero "composed" ion column, or, failing that, by synthesising a
// brand-new ion named from the constituent short names and counts.
func resolveComposedIons(r *RangeFile, freq [][]int) (*RangeFile, error) {
	numRanges := len(freq)
	numIons := len(r.ions)

	nMax := 0
	for i := 0; i < numRanges; i++ {
		for j := 0; j < numIons; j++ {
			nMax += freq[i][j]
		}
	}
	if nMax == 0 {
		return nil, ErrTooManyUselessRanges
	}

	composeMap := make(map[string]int)
	for j := 0; j < numIons; j++ {
		allZero := true
		for i := 0; i < numRanges; i++ {
			if freq[i][j] != 0 {
				allZero = false
				break
			}
		}
		if allZero {
			composeMap[r.ions[j].Short] = j
		}
	}

	type unassigned struct {
		rangeIdx int
		entries  map[int]int
	}
	var unassignedMultiples []unassigned

	ionIDs := make([]int, numRanges)
	for i := 0; i < numRanges; i++ {
		entries := make(map[int]int)
		sum := 0
		for j := 0; j < numIons; j++ {
			if freq[i][j] == 0 {
				continue
			}
			entries[j] = freq[i][j]
			sum += freq[i][j]
		}

		switch {
		case sum == 1:
			for colIdx := range entries {
				ionIDs[i] = colIdx
			}
		case sum > 1:
			if len(composeMap) == 0 {
				ionIDs[i] = -2
				unassignedMultiples = append(unassignedMultiples, unassigned{rangeIdx: i, entries: entries})
				continue
			}
			var namesToFind []ionFragment
			for colIdx, count := range entries {
				namesToFind = append(namesToFind, ionFragment{Name: r.ions[colIdx].Short, Count: count})
			}
			matchIonID, ok := matchComposedName(composeMap, namesToFind)
			if !ok {
				return nil, ErrDataNoMappedIonName
			}
			ionIDs[i] = matchIonID
		default:
			ionIDs[i] = -1
		}
	}

	keptRanges := make([]Range, 0, numRanges)
	keptIonIDs := make([]int, 0, numRanges)
	unassignedIdxRemap := make(map[int]int)
	for i := 0; i < numRanges; i++ {
		if ionIDs[i] == -1 {
			continue
		}
		if ionIDs[i] == -2 {
			unassignedIdxRemap[i] = len(keptRanges)
		}
		keptRanges = append(keptRanges, r.ranges[i])
		keptIonIDs = append(keptIonIDs, ionIDs[i])
	}
	r.ranges = keptRanges
	r.ionIDs = keptIonIDs

	if len(unassignedMultiples) > 0 {
		newNameRanges := make(map[string][]int)
		for _, u := range unassignedMultiples {
			keptIdx, present := unassignedIdxRemap[u.rangeIdx]
			if !present {
				continue
			}
			type colCount struct {
				col, count int
			}
			var flat []colCount
			for col, count := range u.entries {
				flat = append(flat, colCount{col, count})
			}
			sort.Slice(flat, func(a, b int) bool { return flat[a].col > flat[b].col })

			var nameStr strings.Builder
			for _, fc := range flat {
				nameStr.WriteString(r.ions[fc.col].Short)
				nameStr.WriteString(strconv.Itoa(fc.count))
			}
			key := nameStr.String()
			newNameRanges[key] = append(newNameRanges[key], keptIdx)
		}

		rng := point.NewRNG()
		for name, rangeIdxs := range newNameRanges {
			newID := len(r.ions)
			r.ions = append(r.ions, Ion{Short: name, Long: name})
			r.colours = append(r.colours, rng.Colour())
			for _, idx := range rangeIdxs {
				r.ionIDs[idx] = newID
			}
		}
	}

	return r, nil
}

// writeRNG writes r in Oak Ridge .rng format.
func writeRNG(w io.Writer, r *RangeFile) error {
	bw := newColumnWriter(w)

	if err := bw.printf("%d %d\n", len(r.ions), len(r.ranges)); err != nil {
		return err
	}
	for i, ion := range r.ions {
		if err := bw.printf("%s\n", ion.Long); err != nil {
			return err
		}
		c := r.colours[i]
		if err := bw.printf("%s %g %g %g\n", ion.Short, c.R, c.G, c.B); err != nil {
			return err
		}
	}

	if err := bw.printf("-------------"); err != nil {
		return err
	}
	for _, ion := range r.ions {
		if err := bw.printf(" %s", ion.Short); err != nil {
			return err
		}
	}
	if err := bw.printf("\n"); err != nil {
		return err
	}

	for i, rg := range r.ranges {
		if err := bw.printf(". %g %g", rg.Low, rg.High); err != nil {
			return err
		}
		for j := range r.ions {
			v := 0
			if r.ionIDs[i] == j {
				v = 1
			}
			if err := bw.printf(" %d", v); err != nil {
				return err
			}
		}
		if err := bw.printf("\n"); err != nil {
			return err
		}
	}
	return nil
}

type columnWriter struct {
	w   io.Writer
	err error
}

func newColumnWriter(w io.Writer) *columnWriter { return &columnWriter{w: w} }

func (c *columnWriter) printf(format string, args ...interface{}) error {
	if c.err != nil {
		return c.err
	}
	_, err := fmt.Fprintf(c.w, format, args...)
	if err != nil {
		c.err = errors.Wrap(ErrOpen, err.Error())
	}
	return c.err
}
