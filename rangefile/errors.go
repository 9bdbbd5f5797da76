// Package rangefile implements the legacy ion range-table formats used to
// assign a mass-to-charge value to a named ion species: the Oak Ridge
// ("white book") .rng table, the Imago/Cameca .rrng INI-style format, and
// the Cameca/Rouen .env format. All three are undocumented, example-only
// formats; the parsers below are best-effort, matching the original
// implementation's accommodating behaviour rather than any written spec.
package rangefile

import "github.com/pkg/errors"

// Sentinel errors, one per distinct failure mode in the original's
// rangeErrStrings table (spec §4.C3 / §7).
var (
	ErrOpen                  = errors.New("rangefile: error opening file, check name and permissions")
	ErrFormatHeader          = errors.New("rangefile: error interpreting range file header, expecting ion count and range count")
	ErrEmpty                 = errors.New("rangefile: range file appears to be empty")
	ErrFormatLongName        = errors.New("rangefile: error reading the long name for ion")
	ErrFormatShortName       = errors.New("rangefile: error reading the short name for ion")
	ErrFormatColour          = errors.New("rangefile: error reading colour data, expecting 3 decimal values")
	ErrTableSeparator        = errors.New("rangefile: expected table separator line (line of dashes) not found")
	ErrFormatTableEntry      = errors.New("rangefile: unable to read a range table entry")
	ErrFormatTable           = errors.New("rangefile: range table had an incorrect number of entries")
	ErrFormatMassPair        = errors.New("rangefile: unable to read range start and end values")
	ErrFormat                = errors.New("rangefile: unexpected format, are you sure this is a range file?")
	ErrTooManyUselessRanges  = errors.New("rangefile: too many ranges had no usable data")
	ErrDataFlipped           = errors.New("rangefile: malformed data, start and end of a range are equal or flipped")
	ErrDataInconsistent      = errors.New("rangefile: range file is internally inconsistent (e.g. overlapping ranges)")
	ErrDataNoMappedIonName   = errors.New("rangefile: no ion name mapping found for a multiple-ion range")
)
