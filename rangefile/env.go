package rangefile

import (
	"io"
	"strconv"
	"strings"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
)

// openENV parses the Cameca/Rouen ".env" environment file format: a header
// of ion-count/range-count, a name+colour block, then a range block. There
// is no public specification; this is a best-effort reader built from
// example files, matching the original's behaviour exactly, including its
// requirement that the range block be followed by further file content
// (spec §4.C3).
func openENV(data []byte) (*RangeFile, error) {
	r := New()

	haveNumRanges := false
	haveNameBlock := false
	beyondRanges := false
	var numIons, numRanges int

	lines := strings.Split(string(data), "\n")
	lineIdx := 0

	for !beyondRanges && lineIdx < len(lines) {
		raw := lines[lineIdx]
		lineIdx++

		if idx := strings.IndexByte(raw, '#'); idx != -1 {
			raw = raw[:idx]
		}
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}

		fields := strings.FieldsFunc(s, func(c rune) bool { return c == '\t' || c == ' ' })
		if len(fields) == 0 {
			continue
		}

		if !haveNumRanges {
			if len(fields) != 2 {
				return nil, ErrFormat
			}
			var err1, err2 error
			numIons, err1 = strconv.Atoi(fields[0])
			numRanges, err2 = strconv.Atoi(fields[1])
			if err1 != nil || err2 != nil {
				return nil, ErrFormat
			}
			haveNumRanges = true
			continue
		}

		if !haveNameBlock {
			switch len(fields) {
			case 5:
				haveNameBlock = true
			case 4:
				name := fields[0]
				if name == "" {
					return nil, ErrFormat
				}
				for _, c := range name {
					if !isAsciiAlnumOrDot(c) {
						return nil, ErrFormat
					}
				}
				red, e1 := strconv.ParseFloat(fields[1], 32)
				green, e2 := strconv.ParseFloat(fields[2], 32)
				blue, e3 := strconv.ParseFloat(fields[3], 32)
				if e1 != nil || e2 != nil || e3 != nil {
					return nil, ErrFormat
				}
				if !inRangeZeroOne(red) || !inRangeZeroOne(green) || !inRangeZeroOne(blue) {
					return nil, ErrFormat
				}
				r.ions = append(r.ions, Ion{Short: name, Long: name})
				r.colours = append(r.colours, point.Colour{R: float32(red), G: float32(green), B: float32(blue)})
				continue
			default:
				return nil, ErrFormat
			}
		}

		if haveNameBlock {
			if len(fields) == 5 {
				ionID := -1
				for i, ion := range r.ions {
					if ion.Short == fields[0] {
						ionID = i
						break
					}
				}
				if ionID == -1 {
					return nil, ErrFormat
				}
				low, e1 := strconv.ParseFloat(fields[1], 32)
				high, e2 := strconv.ParseFloat(fields[2], 32)
				if e1 != nil || e2 != nil {
					return nil, ErrFormat
				}
				r.ranges = append(r.ranges, Range{Low: float32(low), High: float32(high)})
				r.ionIDs = append(r.ionIDs, ionID)
			} else {
				beyondRanges = true
			}
		}
	}

	// The original treats running off the end of the file while still
	// inside the range block as a format error: a well-formed .env file
	// always has trailing content after the range table.
	if lineIdx >= len(lines) && !beyondRanges {
		return nil, ErrFormat
	}

	_ = numIons
	_ = numRanges
	return r, nil
}

func isAsciiAlnumOrDot(c rune) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '.'
}

func inRangeZeroOne(v float64) bool {
	return v >= 0.0 && v <= 1.0
}

// writeENV writes r in Cameca/Rouen .env format.
func writeENV(w io.Writer, r *RangeFile) error {
	bw := newColumnWriter(w)
	if err := bw.printf("#3Depict-Isosurfaces\n"); err != nil {
		return err
	}
	if err := bw.printf("%d %d\n", len(r.ions), len(r.ranges)); err != nil {
		return err
	}
	for i, ion := range r.ions {
		c := r.colours[i]
		if err := bw.printf("%s %g %g %g\n", ion.Long, c.R, c.G, c.B); err != nil {
			return err
		}
	}
	for i, rg := range r.ranges {
		ion := r.ions[r.ionIDs[i]]
		if err := bw.printf("%s %g %g    1.0 1.0\n", ion.Long, rg.Low, rg.High); err != nil {
			return err
		}
	}
	return nil
}
