package rangefile

import (
	"io"
	"strconv"
	"strings"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
)

const (
	rrngBlockNone = iota
	rrngBlockIons
	rrngBlockRanges
)

// openRRNG parses the Imago/Cameca .rrng INI-style format: an [Ions] block
// naming the basic constituent elements, followed by a [Ranges] block whose
// lines carry the actual ion species via a Name: or per-element tally
// field -- the [Ions] block is otherwise almost entirely redundant (spec
// §4.C3).
func openRRNG(data []byte) (*RangeFile, error) {
	r := New()
	rng := point.NewRNG()

	curBlock := rrngBlockNone
	haveSeenIonBlock := false
	numBasicIons := 0
	numRangesDeclared := 0
	var basicIonNames []string

	for _, rawLine := range strings.Split(string(data), "\n") {
		line := rawLine
		if idx := strings.IndexByte(line, '#'); idx != -1 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "[Ions]" {
			curBlock = rrngBlockIons
			continue
		}
		if line == "[Ranges]" {
			curBlock = rrngBlockRanges
			continue
		}

		switch curBlock {
		case rrngBlockNone:
			// ignore
		case rrngBlockIons:
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				return nil, ErrFormat
			}
			haveSeenIonBlock = true
			key := strings.ToLower(parts[0])
			switch {
			case key == "number":
				if numBasicIons != 0 {
					return nil, ErrFormat
				}
				v, err := strconv.Atoi(parts[1])
				if err != nil || v == 0 {
					return nil, ErrFormat
				}
				numBasicIons = v
			case len(parts[0]) > 3 && strings.ToLower(parts[0][:3]) == "ion":
				basicIonNames = append(basicIonNames, parts[1])
				if len(basicIonNames) > numBasicIons {
					return nil, ErrFormat
				}
			default:
				return nil, ErrFormat
			}
		case rrngBlockRanges:
			if !haveSeenIonBlock {
				return nil, ErrFormat
			}
			if len(line) <= 6 {
				continue
			}
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				return nil, ErrFormat
			}
			key5 := strings.ToLower(firstN(parts[0], 5))
			switch key5 {
			case "numbe":
				if numRangesDeclared != 0 {
					return nil, ErrFormat
				}
				v, err := strconv.Atoi(parts[1])
				if err != nil || v == 0 {
					return nil, ErrFormat
				}
				numRangesDeclared = v
			case "range":
				if err := parseRRNGRangeLine(r, rng, basicIonNames, parts[1]); err != nil {
					return nil, err
				}
			default:
				return nil, ErrFormat
			}
		}
	}

	if !haveSeenIonBlock || numRangesDeclared == 0 || numBasicIons == 0 {
		return nil, ErrFormat
	}
	if numRangesDeclared != len(r.ranges) {
		return nil, ErrFormat
	}
	return r, nil
}

func firstN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func parseRRNGRangeLine(r *RangeFile, rng *point.RNG, basicIonNames []string, value string) error {
	value = strings.TrimSpace(value)

	midIdx := strings.IndexByte(value, ' ')
	if midIdx == -1 {
		return ErrFormat
	}
	endIdx := strings.IndexByte(value[midIdx+1:], ' ')
	if endIdx == -1 {
		return ErrFormat
	}
	endIdx += midIdx + 1

	rngStart := value[:midIdx]
	rngEnd := value[midIdx+1 : endIdx]
	rest := value[endIdx+1:]

	fields := strings.Fields(rest)

	var col point.Colour
	haveColour := false
	haveNameField := false
	var ionNameTmp strings.Builder
	var nameFieldValue string

	for _, f := range fields {
		colonIdx := strings.IndexByte(f, ':')
		if colonIdx == -1 {
			return ErrFormat
		}
		key := f[:colonIdx]
		val := f[colonIdx+1:]

		switch strings.ToLower(key) {
		case "vol":
			// ignored
		case "name":
			haveNameField = true
			nameFieldValue = val
		case "color":
			haveColour = true
			if len(val) != 6 {
				return ErrFormat
			}
			rr, err1 := strconv.ParseUint(val[0:2], 16, 8)
			gg, err2 := strconv.ParseUint(val[2:4], 16, 8)
			bb, err3 := strconv.ParseUint(val[4:6], 16, 8)
			if err1 != nil || err2 != nil || err3 != nil {
				return ErrFormat
			}
			col = point.Colour{R: float32(rr) / 255, G: float32(gg) / 255, B: float32(bb) / 255}
		default:
			pos := -1
			for i, n := range basicIonNames {
				if n == key {
					pos = i
					break
				}
			}
			if pos == -1 {
				return ErrFormat
			}
			mult, err := strconv.Atoi(val)
			if err != nil || mult == 0 {
				return ErrFormat
			}
			if mult == 1 {
				ionNameTmp.WriteString(key)
			} else {
				ionNameTmp.WriteString(key)
				ionNameTmp.WriteString(val)
			}
		}
	}

	if !haveColour {
		col = rng.Colour()
	}

	var rngStartV, rngEndV float64
	if ionNameTmp.Len() > 0 || haveNameField {
		var err error
		rngStartV, err = strconv.ParseFloat(rngStart, 32)
		if err != nil {
			return ErrFormat
		}
		rngEndV, err = strconv.ParseFloat(rngEnd, 32)
		if err != nil {
			return ErrFormat
		}
	}

	switch {
	case ionNameTmp.Len() > 0:
		name := ionNameTmp.String()
		pos := r.IonIDByShortName(name)
		r.ranges = append(r.ranges, Range{Low: float32(rngStartV), High: float32(rngEndV)})
		if pos == -1 {
			r.ions = append(r.ions, Ion{Short: name, Long: name})
			r.colours = append(r.colours, col)
			r.ionIDs = append(r.ionIDs, len(r.ions)-1)
		} else {
			r.ionIDs = append(r.ionIDs, pos)
		}
	case haveNameField:
		if nameFieldValue == "" {
			return ErrFormat
		}
		stop := 0
		for i := 0; i < len(nameFieldValue); i++ {
			if !isDigitByte(nameFieldValue[i]) {
				stop = i
				break
			}
		}
		name := nameFieldValue[stop:]
		pos := r.IonIDByShortName(name)
		r.ranges = append(r.ranges, Range{Low: float32(rngStartV), High: float32(rngEndV)})
		if pos == -1 {
			r.ions = append(r.ions, Ion{Short: name, Long: name})
			r.colours = append(r.colours, col)
			r.ionIDs = append(r.ionIDs, len(r.ions)-1)
		} else {
			r.ionIDs = append(r.ionIDs, pos)
		}
	}
	// An ion field that is entirely absent (no basic-ion tallies and no
	// Name: field) is accepted and silently ignored, matching the
	// original's handling of IVAS output that emits such lines.
	return nil
}

// writeRRNG writes r in Imago/Cameca .rrng format.
func writeRRNG(w io.Writer, r *RangeFile) error {
	bw := newColumnWriter(w)

	if err := bw.printf("[Ions]\nNumber=%d\n", len(r.ions)); err != nil {
		return err
	}
	for i, ion := range r.ions {
		if err := bw.printf("Ion%d=%s\n", i+1, ion.Short); err != nil {
			return err
		}
	}

	if err := bw.printf("[Ranges]\nNumber=%d\n", len(r.ranges)); err != nil {
		return err
	}
	for i, rg := range r.ranges {
		ion := r.ions[r.ionIDs[i]]
		c := r.colours[r.ionIDs[i]]
		colString := genColString(c)
		if err := bw.printf("Range%d=%g %g %s:1 Color:%s\n", i+1, rg.Low, rg.High, ion.Short, colString); err != nil {
			return err
		}
	}
	return nil
}

func genColString(c point.Colour) string {
	clamp := func(f float32) uint8 {
		if f <= 0 {
			return 0
		}
		if f >= 1 {
			return 255
		}
		return uint8(f * 255)
	}
	return hexByte(clamp(c.R)) + hexByte(clamp(c.G)) + hexByte(clamp(c.B))
}

func hexByte(v uint8) string {
	s := strconv.FormatUint(uint64(v), 16)
	if len(s) == 1 {
		s = "0" + s
	}
	return strings.ToUpper(s)
}
