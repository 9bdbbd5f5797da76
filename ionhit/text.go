package ionhit

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/progress"
)

// LoadTextOptions configures a delimited-text load. SelectedColumns names,
// for each of the 4 output columns (x,y,z,value), which 0-based field index
// of a data line supplies it.
type LoadTextOptions struct {
	SelectedColumns [4]int
	// SampleCount, if >0 and less than the number of data lines, triggers a
	// sampled load; SampleCount >= total data lines falls back to a full
	// load, exactly as LoadPOSOptions.SampleCount does.
	SampleCount  int
	StrongRandom bool
	Progress     *progress.Reporter
	Cancel       progress.CancelFunc
}

// isDelimiter reports whether r is one of the three accepted field
// delimiters (spec §6: "delimiters are any of tab, space, comma").
func isDelimiter(r rune) bool {
	return r == '\t' || r == ' ' || r == ','
}

func splitFields(line string) []string {
	fields := strings.FieldsFunc(line, isDelimiter)
	return fields
}

func maxSelectedColumn(cols [4]int) int {
	m := cols[0]
	for _, c := range cols[1:] {
		if c > m {
			m = c
		}
	}
	return m
}

// findFirstDataLine implements pass 1: skip an unknown-length header by
// advancing line by line until a line both has enough fields and every
// selected field parses as a float. Returns the byte offset at which that
// line begins.
func findFirstDataLine(path string, cols [4]int) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(ErrOpenFail, err.Error())
	}
	defer f.Close()

	needCols := maxSelectedColumn(cols) + 1
	r := bufio.NewReader(f)

	var offset int64
	for {
		lineStart := offset
		line, err := r.ReadString('\n')
		offset += int64(len(line))
		if len(line) == 0 && err != nil {
			break
		}

		trimmed := strings.TrimRight(line, "\r\n")
		fields := splitFields(trimmed)
		if len(fields) < needCols {
			if err != nil {
				break
			}
			continue
		}

		allParse := true
		for _, c := range cols {
			if _, perr := strconv.ParseFloat(fields[c], 32); perr != nil {
				allParse = false
				break
			}
		}
		if allParse {
			return lineStart, nil
		}
		if err != nil {
			break
		}
	}
	return 0, ErrTextHeaderOnly
}

// scanLineOffsets implements pass 2: a binary scan from headerOffset that
// records the byte offset of every line start from which a full line of
// data is available, once at least one digit has been seen in the scanned
// region (this excludes any further header-like runs of punctuation-only
// text that might follow, mirroring the original's seenNumeric gate).
func scanLineOffsets(path string, headerOffset int64) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(ErrOpenFail, err.Error())
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(ErrOpenFail, err.Error())
	}
	fileSize := info.Size()

	if _, err := f.Seek(headerOffset, io.SeekStart); err != nil {
		return nil, errors.Wrap(ErrReadFail, err.Error())
	}

	const bufSize = 16384
	buf := make([]byte, bufSize)

	offsets := []int64{headerOffset}
	seenNumeric := false
	pos := headerOffset
	for pos < fileSize {
		toRead := int64(bufSize)
		if remaining := fileSize - pos; remaining < toRead {
			toRead = remaining
		}
		n, err := f.Read(buf[:toRead])
		if n > 0 {
			for i := 0; i < n; i++ {
				b := buf[i]
				if b == '\n' {
					if seenNumeric {
						lineStart := pos + int64(i) + 1
						if lineStart < fileSize {
							offsets = append(offsets, lineStart)
						}
					}
				} else if b >= '0' && b <= '9' {
					seenNumeric = true
				}
			}
			pos += int64(n)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.Wrap(ErrReadFail, err.Error())
		}
	}
	return offsets, nil
}

// LoadDelimitedText loads IonHits from a delimited text file, with optional
// sampling, per spec §4.C2.
func LoadDelimitedText(path string, opts LoadTextOptions) ([]IonHit, error) {
	headerOffset, err := findFirstDataLine(path, opts.SelectedColumns)
	if err != nil {
		return nil, err
	}

	offsets, err := scanLineOffsets(path, headerOffset)
	if err != nil {
		return nil, err
	}
	if len(offsets) == 0 {
		return nil, ErrTextHeaderOnly
	}

	if opts.SampleCount > 0 && opts.SampleCount < len(offsets) {
		return loadTextSampled(path, offsets, opts)
	}
	return loadTextFull(path, headerOffset, opts)
}

func loadTextFull(path string, headerOffset int64, opts LoadTextOptions) ([]IonHit, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(ErrOpenFail, err.Error())
	}
	defer f.Close()

	if _, err := f.Seek(headerOffset, io.SeekStart); err != nil {
		return nil, errors.Wrap(ErrReadFail, err.Error())
	}

	var out []IonHit
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	needCols := maxSelectedColumn(opts.SelectedColumns) + 1
	lineNo := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitFields(line)
		if len(fields) < needCols {
			return nil, errors.Wrapf(ErrTextFieldCount, "line %d has %d fields, need %d", lineNo, len(fields), needCols)
		}
		hit, err := parseTextFields(fields, opts.SelectedColumns)
		if err != nil {
			return nil, err
		}
		out = append(out, hit)
		lineNo++

		if lineNo%progress.PollInterval == 0 {
			if opts.Progress != nil {
				opts.Progress.Set(50) // unknown total in streaming full-scan mode
			}
			if progress.ShouldAbort(opts.Cancel) {
				return nil, ErrAborted
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(ErrReadFail, err.Error())
	}
	if opts.Progress != nil {
		opts.Progress.Set(100)
	}
	return out, nil
}

func loadTextSampled(path string, offsets []int64, opts LoadTextOptions) ([]IonHit, error) {
	rng := point.NewRNG()
	indices := rng.UniqueIndices(len(offsets), opts.SampleCount)
	// Ascending indices already imply ascending file offsets since offsets
	// is itself ordered by position.
	sort.Ints(indices)

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(ErrOpenFail, err.Error())
	}
	defer f.Close()

	out := make([]IonHit, 0, len(indices))
	pollCounter := 0
	for _, idx := range indices {
		if _, err := f.Seek(offsets[idx], io.SeekStart); err != nil {
			return nil, errors.Wrap(ErrReadFail, err.Error())
		}
		r := bufio.NewReader(f)
		line, rerr := r.ReadString('\n')
		if rerr != nil && line == "" {
			return nil, errors.Wrap(ErrReadFail, rerr.Error())
		}
		line = strings.TrimRight(line, "\r\n")
		fields := splitFields(line)
		needCols := maxSelectedColumn(opts.SelectedColumns) + 1
		if len(fields) < needCols {
			return nil, errors.Wrapf(ErrTextFieldCount, "sampled line has %d fields, need %d", len(fields), needCols)
		}
		hit, err := parseTextFields(fields, opts.SelectedColumns)
		if err != nil {
			return nil, err
		}
		out = append(out, hit)

		pollCounter++
		if pollCounter >= progress.PollInterval {
			pollCounter = 0
			if opts.Progress != nil {
				opts.Progress.Set(int(float64(len(out)) / float64(len(indices)) * 100))
			}
			if progress.ShouldAbort(opts.Cancel) {
				return nil, ErrAborted
			}
		}
	}
	if opts.Progress != nil {
		opts.Progress.Set(100)
	}
	return out, nil
}

func parseTextFields(fields []string, cols [4]int) (IonHit, error) {
	var v [4]float32
	for i, c := range cols {
		f, err := strconv.ParseFloat(fields[c], 32)
		if err != nil {
			return IonHit{}, errors.Wrapf(ErrTextFormat, "field %q is not numeric", fields[c])
		}
		v[i] = float32(f)
	}
	hit := IonHit{
		pos:          point.Point3D{X: v[0], Y: v[1], Z: v[2]},
		massToCharge: v[3],
	}
	if hit.HasNaN() {
		return IonHit{}, ErrNaNFound
	}
	return hit, nil
}
