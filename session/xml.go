// State XML save/load (spec §4.C8, §6 "State XML"): a <threeDepictstate>
// document wrapping writer version, background colour, axis mode, an
// optional relative-paths marker, the filter tree, the camera list, the
// named stash list, and the effect list. Grounded on filtertree/xml.go's
// own hand-written Encoder/Decoder approach (dynamic per-kind element
// names defeat struct-tag reflection there too), extended one level up to
// a document with several heterogeneous sections.
package session

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/filtertree"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/pkg/errors"
)

// ErrBadRootTag is returned by Load when the document's root element isn't
// threeDepictstate.
var ErrBadRootTag = errors.New("session: root element is not <threeDepictstate>")

// ErrBackgroundOutOfRange is returned by Load when the background colour
// has a component outside [0,1], per spec §4.C8: "Load validates ...
// background RGB in [0,1]^3".
var ErrBackgroundOutOfRange = errors.New("session: background colour component out of [0,1]")

// WriterVersion is the schema version this package writes and the newest
// version it doesn't warn about on load.
const WriterVersion = "1"

// SaveOptions configures Save's output.
type SaveOptions struct {
	// UseRelativePaths, when true, writes a <userelativepaths/> marker
	// (optionally carrying OrigWorkDir) instead of leaving file references
	// untouched. Path rewriting of filter file references themselves is the
	// caller's responsibility before calling Save (spec §4.C8: "file
	// references inside filters are rewritten relative to the save
	// directory when relative paths are selected").
	UseRelativePaths bool
	OrigWorkDir      string

	// Comment is written verbatim as an XML comment at the top of the
	// document (spec §4.C8: "comment header").
	Comment string
}

// Save writes s as a state XML document.
func Save(w io.Writer, s *AnalysisState, opts SaveOptions) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	if opts.Comment != "" {
		if err := enc.EncodeToken(xml.Comment(" " + opts.Comment + " ")); err != nil {
			return err
		}
	}

	root := xml.StartElement{Name: xml.Name{Local: "threeDepictstate"}}
	if err := enc.EncodeToken(root); err != nil {
		return err
	}

	writerTag := xml.StartElement{Name: xml.Name{Local: "writer"}, Attr: []xml.Attr{{Name: xml.Name{Local: "version"}, Value: WriterVersion}}}
	if err := encodeEmpty(enc, writerTag); err != nil {
		return err
	}

	back := xml.StartElement{Name: xml.Name{Local: "backcolour"}, Attr: []xml.Attr{
		{Name: xml.Name{Local: "r"}, Value: floatAttr(s.BackgroundR)},
		{Name: xml.Name{Local: "g"}, Value: floatAttr(s.BackgroundG)},
		{Name: xml.Name{Local: "b"}, Value: floatAttr(s.BackgroundB)},
	}}
	if err := encodeEmpty(enc, back); err != nil {
		return err
	}

	axis := xml.StartElement{Name: xml.Name{Local: "showaxis"}, Attr: []xml.Attr{
		{Name: xml.Name{Local: "value"}, Value: strconv.Itoa(int(s.AxisVisibility))},
	}}
	if err := encodeEmpty(enc, axis); err != nil {
		return err
	}

	if opts.UseRelativePaths {
		attrs := []xml.Attr{}
		if opts.OrigWorkDir != "" {
			attrs = append(attrs, xml.Attr{Name: xml.Name{Local: "origworkdir"}, Value: opts.OrigWorkDir})
		}
		if err := encodeEmpty(enc, xml.StartElement{Name: xml.Name{Local: "userelativepaths"}, Attr: attrs}); err != nil {
			return err
		}
	}

	if err := filtertree.EncodeFilterTree(enc, s.Tree); err != nil {
		return err
	}

	if err := encodeCameras(enc, s); err != nil {
		return err
	}

	if len(s.Stashes) > 0 {
		if err := encodeStashes(enc, s.Stashes); err != nil {
			return err
		}
	}

	if len(s.Effects) > 0 {
		if err := encodeEffects(enc, s.Effects); err != nil {
			return err
		}
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return err
	}
	return enc.Flush()
}

func encodeEmpty(enc *xml.Encoder, start xml.StartElement) error {
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	return enc.EncodeToken(start.End())
}

func encodeCameras(enc *xml.Encoder, s *AnalysisState) error {
	start := xml.StartElement{Name: xml.Name{Local: "cameras"}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	active := xml.StartElement{Name: xml.Name{Local: "active"}, Attr: []xml.Attr{
		{Name: xml.Name{Local: "value"}, Value: strconv.Itoa(s.Active)},
	}}
	if err := encodeEmpty(enc, active); err != nil {
		return err
	}
	for _, c := range s.Cameras {
		camStart := xml.StartElement{Name: xml.Name{Local: "camera"}, Attr: []xml.Attr{
			{Name: xml.Name{Local: "name"}, Value: c.Name},
			{Name: xml.Name{Local: "originx"}, Value: floatAttr(c.Origin.X)},
			{Name: xml.Name{Local: "originy"}, Value: floatAttr(c.Origin.Y)},
			{Name: xml.Name{Local: "originz"}, Value: floatAttr(c.Origin.Z)},
			{Name: xml.Name{Local: "targetx"}, Value: floatAttr(c.Target.X)},
			{Name: xml.Name{Local: "targety"}, Value: floatAttr(c.Target.Y)},
			{Name: xml.Name{Local: "targetz"}, Value: floatAttr(c.Target.Z)},
			{Name: xml.Name{Local: "upx"}, Value: floatAttr(c.Up.X)},
			{Name: xml.Name{Local: "upy"}, Value: floatAttr(c.Up.Y)},
			{Name: xml.Name{Local: "upz"}, Value: floatAttr(c.Up.Z)},
			{Name: xml.Name{Local: "fov"}, Value: floatAttr(c.FOV)},
			{Name: xml.Name{Local: "perspective"}, Value: boolAttr(c.Perspective)},
		}}
		if err := encodeEmpty(enc, camStart); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func encodeStashes(enc *xml.Encoder, stashes []Stash) error {
	start := xml.StartElement{Name: xml.Name{Local: "stashedfilters"}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, st := range stashes {
		stashStart := xml.StartElement{Name: xml.Name{Local: "stash"}, Attr: []xml.Attr{
			{Name: xml.Name{Local: "name"}, Value: st.Name},
		}}
		if err := enc.EncodeToken(stashStart); err != nil {
			return err
		}
		if err := filtertree.EncodeFilterTree(enc, st.Tree); err != nil {
			return err
		}
		if err := enc.EncodeToken(stashStart.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func encodeEffects(enc *xml.Encoder, effects []Effect) error {
	start := xml.StartElement{Name: xml.Name{Local: "effects"}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, e := range effects {
		effStart := xml.StartElement{Name: xml.Name{Local: "effect"}, Attr: []xml.Attr{
			{Name: xml.Name{Local: "name"}, Value: e.Name},
		}}
		if err := enc.EncodeToken(effStart); err != nil {
			return err
		}
		for k, v := range e.Params {
			paramStart := xml.StartElement{Name: xml.Name{Local: "param"}, Attr: []xml.Attr{
				{Name: xml.Name{Local: "key"}, Value: k},
				{Name: xml.Name{Local: "value"}, Value: v},
			}}
			if err := encodeEmpty(enc, paramStart); err != nil {
				return err
			}
		}
		if err := enc.EncodeToken(effStart.End()); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func floatAttr(f float32) string { return strconv.FormatFloat(float64(f), 'g', -1, 32) }
func boolAttr(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
func attrFloat(attrs []xml.Attr, name string, def float32) float32 {
	for _, a := range attrs {
		if a.Name.Local == name {
			if v, err := strconv.ParseFloat(a.Value, 32); err == nil {
				return float32(v)
			}
		}
	}
	return def
}
func attrBool(attrs []xml.Attr, name string, def bool) bool {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value == "1" || a.Value == "true"
		}
	}
	return def
}
func attrString(attrs []xml.Attr, name string, def string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return def
}
func attrInt(attrs []xml.Attr, name string, def int) int {
	for _, a := range attrs {
		if a.Name.Local == name {
			if v, err := strconv.Atoi(a.Value); err == nil {
				return v
			}
		}
	}
	return def
}

// LoadMode selects replace-load vs merge-load semantics (spec §4.C8:
// "Merge-load appends instead of replacing").
type LoadMode int

const (
	LoadReplace LoadMode = iota
	LoadMerge
)

// maxMergeSuffixAttempts bounds the "-merge" disambiguation loop (spec
// §4.C8: "up to 100 times before giving up with a console warning").
const maxMergeSuffixAttempts = 100

// LoadResult carries Load's parsed state plus any non-fatal console
// warnings (e.g. a merge name collision that exhausted its retry budget).
type LoadResult struct {
	State    *AnalysisState
	Warnings []string
}

// Load parses a state XML document written by Save. In LoadReplace mode the
// returned state wholly replaces any prior session. In LoadMerge mode,
// existing is merged into: its tree becomes an additional root forest
// (spec doesn't define a merge target for the live tree itself beyond
// appending; see DESIGN.md), and stash/camera names that collide with
// existing's get "-merge" suffixes.
func Load(r io.Reader, mode LoadMode, existing *AnalysisState) (*LoadResult, error) {
	dec := xml.NewDecoder(r)

	var state *AnalysisState
	if mode == LoadMerge && existing != nil {
		state = existing
	} else {
		state = New()
		state.Cameras = nil
		state.Active = -1
	}
	res := &LoadResult{State: state}

	var sawRoot bool
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "session: decode")
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !sawRoot {
			if start.Name.Local != "threeDepictstate" {
				return nil, ErrBadRootTag
			}
			sawRoot = true
			continue
		}

		switch start.Name.Local {
		case "writer":
			v := attrString(start.Attr, "version", "")
			if cmpVersion(v, WriterVersion) > 0 {
				res.Warnings = append(res.Warnings, fmt.Sprintf("session: state file writer version %q is newer than this reader (%q)", v, WriterVersion))
			}
			if err := dec.Skip(); err != nil {
				return nil, err
			}
		case "backcolour":
			r := attrFloat(start.Attr, "r", 0)
			g := attrFloat(start.Attr, "g", 0)
			b := attrFloat(start.Attr, "b", 0)
			if r < 0 || r > 1 || g < 0 || g > 1 || b < 0 || b > 1 {
				return nil, ErrBackgroundOutOfRange
			}
			state.BackgroundR, state.BackgroundG, state.BackgroundB = r, g, b
			if err := dec.Skip(); err != nil {
				return nil, err
			}
		case "showaxis":
			state.AxisVisibility = AxisVisibility(attrInt(start.Attr, "value", int(AxisShown)))
			if err := dec.Skip(); err != nil {
				return nil, err
			}
		case "userelativepaths":
			if err := dec.Skip(); err != nil {
				return nil, err
			}
		case "filtertree":
			tree, err := filtertree.DecodeFilterTree(dec, start)
			if err != nil {
				return nil, err
			}
			if mode == LoadMerge && existing != nil {
				existing.Tree.AddFilterTreeAsSubtree(nil, tree)
			} else {
				state.Tree = tree
			}
		case "cameras":
			if err := decodeCameras(dec, start, state, mode); err != nil {
				return nil, err
			}
		case "stashedfilters":
			warnings, err := decodeStashes(dec, start, state, mode)
			if err != nil {
				return nil, err
			}
			res.Warnings = append(res.Warnings, warnings...)
		case "effects":
			effects, err := decodeEffects(dec, start)
			if err != nil {
				return nil, err
			}
			state.Effects = append(state.Effects, effects...)
		default:
			if err := dec.Skip(); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}

// cmpVersion compares two numeric schema version strings, returning >0 if
// a is newer than b. Non-numeric or missing versions compare equal.
func cmpVersion(a, b string) int {
	av, aerr := strconv.Atoi(strings.TrimSpace(a))
	bv, berr := strconv.Atoi(strings.TrimSpace(b))
	if aerr != nil || berr != nil {
		return 0
	}
	return av - bv
}

func decodeCameras(dec *xml.Decoder, start xml.StartElement, state *AnalysisState, mode LoadMode) error {
	baseIdx := len(state.Cameras)
	active := baseIdx
	for {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "session: decode cameras")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "active":
				active = baseIdx + attrInt(t.Attr, "value", 0)
				if err := dec.Skip(); err != nil {
					return err
				}
			case "camera":
				name := uniqueName(attrString(t.Attr, "name", ""), cameraNames(state.Cameras), mode)
				cam := &Camera{
					Name: name,
					Origin: point.Point3D{
						X: attrFloat(t.Attr, "originx", 0),
						Y: attrFloat(t.Attr, "originy", 0),
						Z: attrFloat(t.Attr, "originz", 0),
					},
					Target: point.Point3D{
						X: attrFloat(t.Attr, "targetx", 0),
						Y: attrFloat(t.Attr, "targety", 0),
						Z: attrFloat(t.Attr, "targetz", 1),
					},
					Up: point.Point3D{
						X: attrFloat(t.Attr, "upx", 0),
						Y: attrFloat(t.Attr, "upy", 1),
						Z: attrFloat(t.Attr, "upz", 0),
					},
					FOV:         attrFloat(t.Attr, "fov", 45),
					Perspective: attrBool(t.Attr, "perspective", true),
				}
				state.Cameras = append(state.Cameras, cam)
				if err := dec.Skip(); err != nil {
					return err
				}
			default:
				if err := dec.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name == start.Name {
				if active >= 0 && active < len(state.Cameras) {
					state.Active = active
				}
				return nil
			}
		}
	}
}

func decodeStashes(dec *xml.Decoder, start xml.StartElement, state *AnalysisState, mode LoadMode) ([]string, error) {
	var warnings []string
	for {
		tok, err := dec.Token()
		if err != nil {
			return warnings, errors.Wrap(err, "session: decode stashedfilters")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "stash" {
				if err := dec.Skip(); err != nil {
					return warnings, err
				}
				continue
			}
			rawName := attrString(t.Attr, "name", "")
			name, ok := uniqueStashName(rawName, state.Stashes, mode)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("session: could not find a unique name for stash %q after %d attempts, dropping it", rawName, maxMergeSuffixAttempts))
				if err := dec.Skip(); err != nil {
					return warnings, err
				}
				continue
			}
			var tree *filtertree.Tree
			for {
				innerTok, err := dec.Token()
				if err != nil {
					return warnings, err
				}
				if innerStart, ok := innerTok.(xml.StartElement); ok && innerStart.Name.Local == "filtertree" {
					tree, err = filtertree.DecodeFilterTree(dec, innerStart)
					if err != nil {
						return warnings, err
					}
					continue
				}
				if end, ok := innerTok.(xml.EndElement); ok && end.Name == t.Name {
					break
				}
			}
			if tree == nil {
				tree = filtertree.New()
			}
			state.Stashes = append(state.Stashes, Stash{Name: name, Tree: tree})
		case xml.EndElement:
			if t.Name == start.Name {
				return warnings, nil
			}
		}
	}
}

func decodeEffects(dec *xml.Decoder, start xml.StartElement) ([]Effect, error) {
	var effects []Effect
	for {
		tok, err := dec.Token()
		if err != nil {
			return effects, errors.Wrap(err, "session: decode effects")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "effect" {
				if err := dec.Skip(); err != nil {
					return effects, err
				}
				continue
			}
			eff := Effect{Name: attrString(t.Attr, "name", ""), Params: map[string]string{}}
			for {
				innerTok, err := dec.Token()
				if err != nil {
					return effects, err
				}
				if innerStart, ok := innerTok.(xml.StartElement); ok && innerStart.Name.Local == "param" {
					eff.Params[attrString(innerStart.Attr, "key", "")] = attrString(innerStart.Attr, "value", "")
					if err := dec.Skip(); err != nil {
						return effects, err
					}
					continue
				}
				if end, ok := innerTok.(xml.EndElement); ok && end.Name == t.Name {
					break
				}
			}
			effects = append(effects, eff)
		case xml.EndElement:
			if t.Name == start.Name {
				return effects, nil
			}
		}
	}
}

func cameraNames(cams []*Camera) map[string]bool {
	out := make(map[string]bool, len(cams))
	for _, c := range cams {
		out[c.Name] = true
	}
	return out
}

// uniqueName returns name unchanged in replace mode. In merge mode, if name
// collides with an entry in taken, it appends "-merge" (then "-merge2",
// "-merge3", ...) up to maxMergeSuffixAttempts times (spec §4.C8).
func uniqueName(name string, taken map[string]bool, mode LoadMode) string {
	if mode == LoadReplace || !taken[name] {
		return name
	}
	for i := 1; i <= maxMergeSuffixAttempts; i++ {
		candidate := name + "-merge"
		if i > 1 {
			candidate = fmt.Sprintf("%s-merge%d", name, i)
		}
		if !taken[candidate] {
			return candidate
		}
	}
	return name
}

// uniqueStashName is uniqueName specialised for the Stash slice, returning
// ok=false if no unique name could be found within the attempt budget.
func uniqueStashName(name string, existing []Stash, mode LoadMode) (string, bool) {
	taken := make(map[string]bool, len(existing))
	for _, s := range existing {
		taken[s.Name] = true
	}
	if mode == LoadReplace || !taken[name] {
		return name, true
	}
	for i := 1; i <= maxMergeSuffixAttempts; i++ {
		candidate := name + "-merge"
		if i > 1 {
			candidate = fmt.Sprintf("%s-merge%d", name, i)
		}
		if !taken[candidate] {
			return candidate, true
		}
	}
	return "", false
}
