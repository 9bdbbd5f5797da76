package ionhit

import "github.com/pkg/errors"

// Error kinds for loader failures, matching spec §4.C2/§7's error taxonomy.
// These are sentinel values so callers can test with errors.Is even after a
// loader wraps them with file/field context via errors.Wrap.
var (
	ErrAllocFail      = errors.New("ionhit: memory allocation failure")
	ErrOpenFail       = errors.New("ionhit: error opening file")
	ErrEmptyFile      = errors.New("ionhit: file is empty")
	ErrSizeModulus    = errors.New("ionhit: file size is not an exact multiple of the record size")
	ErrReadFail       = errors.New("ionhit: error reading from file")
	ErrNaNFound       = errors.New("ionhit: NaN value found in record")
	ErrAborted        = errors.New("ionhit: load aborted by cancellation")
	ErrTextHeaderOnly = errors.New("ionhit: no numerical data found, only a header")
	ErrTextFormat     = errors.New("ionhit: unable to interpret field as a number")
	ErrTextFieldCount = errors.New("ionhit: incorrect number of fields in line")
)
