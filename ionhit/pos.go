package ionhit

import (
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/progress"
)

// recordSize is the on-disk size, in bytes, of a single POS column: one
// big-endian IEEE-754 single-precision float.
const recordSize = 4

// ColumnMap selects, for each of the 4 output columns (x, y, z, value), the
// source column index to read it from. A plain {0,1,2,3} map is the common
// case; non-identity maps let a POS variant with a different column order
// load correctly.
type ColumnMap [4]int

// DefaultColumnMap is the identity mapping x,y,z,value -> columns 0,1,2,3.
var DefaultColumnMap = ColumnMap{0, 1, 2, 3}

// LoadPOSOptions configures a POS load.
type LoadPOSOptions struct {
	// InputColumns is the number of float32 columns per on-disk record
	// (usually 4, but some POS variants carry extra columns that are
	// ignored).
	InputColumns int
	// Columns maps output column -> source column.
	Columns ColumnMap
	// SampleCount, if >0 and less than the total record count, triggers a
	// sampled load of exactly SampleCount unique records. A SampleCount >=
	// total transparently falls back to a full load (spec §4.C2).
	SampleCount int
	// StrongRandom is not read by LoadPOS: sampled loads always draw their
	// unique ascending indices from point.NewRNG's timer-seeded generator,
	// whatever this field holds.
	StrongRandom bool
	Progress     *progress.Reporter
	Cancel       progress.CancelFunc
}

// LoadPOS reads a POS file into a slice of IonHit, honouring sampling,
// progress reporting and cancellation per spec §4.C2.
func LoadPOS(path string, opts LoadPOSOptions) ([]IonHit, error) {
	if opts.InputColumns <= 0 {
		opts.InputColumns = 4
	}
	cols := opts.Columns
	if cols == (ColumnMap{}) {
		cols = DefaultColumnMap
	}

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
	if fileSize == 0 {
		return nil, ErrEmptyFile
	}

	recordBytes := int64(opts.InputColumns * recordSize)
	if fileSize%recordBytes != 0 {
		return nil, errors.Wrapf(ErrSizeModulus, "file size %d is not a multiple of record size %d", fileSize, recordBytes)
	}
	totalRecords := int(fileSize / recordBytes)

	if opts.SampleCount > 0 && opts.SampleCount < totalRecords {
		return loadPOSSampled(f, fileSize, totalRecords, opts, cols)
	}
	return loadPOSFull(f, fileSize, totalRecords, opts, cols)
}

func loadPOSFull(f *os.File, fileSize int64, totalRecords int, opts LoadPOSOptions, cols ColumnMap) ([]IonHit, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(ErrReadFail, err.Error())
	}

	recordBytes := opts.InputColumns * recordSize

	// Stream the file in the largest power-of-two-record chunk that fits,
	// per spec §4.C2, shrinking on the last partial chunk.
	const maxRecordsPerChunk = 512
	recordsPerChunk := maxRecordsPerChunk
	for recordsPerChunk > totalRecords && recordsPerChunk > 1 {
		recordsPerChunk >>= 1
	}
	if recordsPerChunk < 1 {
		recordsPerChunk = 1
	}

	out := make([]IonHit, 0, totalRecords)
	buf := make([]byte, recordBytes*recordsPerChunk)
	raw := make([]float32, opts.InputColumns)

	recordsRead := 0
	pollCounter := 0
	for recordsRead < totalRecords {
		remaining := totalRecords - recordsRead
		chunk := recordsPerChunk
		if chunk > remaining {
			chunk = remaining
		}
		n, err := io.ReadFull(f, buf[:recordBytes*chunk])
		if err != nil || n != recordBytes*chunk {
			return nil, errors.Wrap(ErrReadFail, "short read from pos file")
		}

		for r := 0; r < chunk; r++ {
			base := r * recordBytes
			for c := 0; c < opts.InputColumns; c++ {
				bits := binary.BigEndian.Uint32(buf[base+c*recordSize : base+(c+1)*recordSize])
				raw[c] = math.Float32frombits(bits)
			}
			hit := IonHit{
				pos:          point.Point3D{X: raw[cols[0]], Y: raw[cols[1]], Z: raw[cols[2]]},
				massToCharge: raw[cols[3]],
			}
			if hit.HasNaN() {
				return nil, ErrNaNFound
			}
			out = append(out, hit)
		}

		recordsRead += chunk
		pollCounter += chunk
		if pollCounter >= progress.PollInterval {
			pollCounter = 0
			if opts.Progress != nil {
				opts.Progress.Set(int(float64(recordsRead) / float64(totalRecords) * 100))
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

func loadPOSSampled(f *os.File, fileSize int64, totalRecords int, opts LoadPOSOptions, cols ColumnMap) ([]IonHit, error) {
	recordBytes := int64(opts.InputColumns * recordSize)

	rng := point.NewRNG()
	indices := rng.UniqueIndices(totalRecords, opts.SampleCount)

	out := make([]IonHit, len(indices))
	raw := make([]float32, opts.InputColumns)
	buf := make([]byte, recordBytes)

	var curPos int64 = -1
	pollCounter := 0
	for i, idx := range indices {
		target := int64(idx) * recordBytes
		if curPos != target {
			if _, err := f.Seek(target, io.SeekStart); err != nil {
				return nil, errors.Wrap(ErrReadFail, err.Error())
			}
		}
		n, err := io.ReadFull(f, buf)
		if err != nil || int64(n) != recordBytes {
			return nil, errors.Wrap(ErrReadFail, "short read during sampled pos load")
		}
		curPos = target + recordBytes

		for c := 0; c < opts.InputColumns; c++ {
			bits := binary.BigEndian.Uint32(buf[c*recordSize : (c+1)*recordSize])
			raw[c] = math.Float32frombits(bits)
		}
		hit := IonHit{
			pos:          point.Point3D{X: raw[cols[0]], Y: raw[cols[1]], Z: raw[cols[2]]},
			massToCharge: raw[cols[3]],
		}
		if hit.HasNaN() {
			return nil, ErrNaNFound
		}
		out[i] = hit

		pollCounter++
		if pollCounter >= progress.PollInterval {
			pollCounter = 0
			if opts.Progress != nil {
				opts.Progress.Set(int(float64(curPos) / float64(fileSize) * 100))
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

// WritePOS writes ions to path in POS format: x,y,z,m/c, big-endian float32,
// no padding. A write-then-LoadPOS round trip reproduces the exact ion list
// (spec invariant 7).
func WritePOS(path string, ions []IonHit) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(ErrOpenFail, err.Error())
	}
	defer f.Close()

	buf := make([]byte, 16)
	for _, ion := range ions {
		binary.BigEndian.PutUint32(buf[0:4], math.Float32bits(ion.pos.X))
		binary.BigEndian.PutUint32(buf[4:8], math.Float32bits(ion.pos.Y))
		binary.BigEndian.PutUint32(buf[8:12], math.Float32bits(ion.pos.Z))
		binary.BigEndian.PutUint32(buf[12:16], math.Float32bits(ion.massToCharge))
		if _, err := f.Write(buf); err != nil {
			return errors.Wrap(ErrReadFail, err.Error())
		}
	}
	return nil
}
