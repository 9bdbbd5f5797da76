// XML persistence for a whole filter tree (spec §4.C7: "each node writes
// <filterType><userstring/><...params.../></filterType> under a
// <filtertree> wrapper"). The codec dispatches per filters.Kind via
// encoding/xml's low-level Encoder/Decoder rather than per-type struct
// tags: every filter's element name is dynamic (its Kind().String()), and
// encoding/xml only supports a single static name per Go type through
// struct tags, so the wrapper emits/consumes xml.StartElement values
// directly, matching the teacher's atlas.go preference for explicit,
// hand-written (de)serialisation over implicit reflection-driven tagging
// wherever the wire shape doesn't map onto a single Go type 1:1.
package filtertree

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/filters"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/rangefile"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
	"github.com/pkg/errors"
)

// ErrUnknownFilterKind is returned by ReadTree when a <filtertree> element
// name doesn't match any of the eleven known filter kinds -- spec §4.C7
// asks readers to be "forward-compatible on unknown optional attributes",
// but an entirely unrecognised element has no filter to attach them to.
var ErrUnknownFilterKind = errors.New("filtertree: unrecognised filter element name")

// WriteTree serialises t as a <filtertree> document: a <writer version/>
// tag followed by each root's element, recursively nested with its
// children (spec §4.C7 / §6 "State XML").
func WriteTree(w io.Writer, t *Tree, writerVersion string) error {
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	start := xml.StartElement{Name: xml.Name{Local: "filtertree"}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	writerTag := xml.StartElement{Name: xml.Name{Local: "writer"}, Attr: []xml.Attr{{Name: xml.Name{Local: "version"}, Value: writerVersion}}}
	if err := enc.EncodeToken(writerTag); err != nil {
		return err
	}
	if err := enc.EncodeToken(writerTag.End()); err != nil {
		return err
	}
	for _, r := range t.roots {
		if err := encodeNode(enc, r); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(start.End()); err != nil {
		return err
	}
	return enc.Flush()
}

// EncodeFilterTree writes t as a bare <filtertree>...</filtertree> element
// (no writer tag) directly onto an already-open xml.Encoder, letting a
// caller embed a filter tree inside a larger document -- the session
// package's state XML nests one exactly this way (spec §6).
func EncodeFilterTree(enc *xml.Encoder, t *Tree) error {
	start := xml.StartElement{Name: xml.Name{Local: "filtertree"}}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, r := range t.roots {
		if err := encodeNode(enc, r); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

func encodeNode(enc *xml.Encoder, n *FilterNode) error {
	attrs := []xml.Attr{
		{Name: xml.Name{Local: "userstring"}, Value: n.Filter.UserString()},
		{Name: xml.Name{Local: "cacheenabled"}, Value: boolAttr(n.Filter.CacheEnabled())},
	}
	attrs = append(attrs, filterAttrs(n.Filter)...)
	start := xml.StartElement{Name: xml.Name{Local: n.Filter.Kind().String()}, Attr: attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range n.children {
		if err := encodeNode(enc, c); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

// ReadTree parses a <filtertree> document written by WriteTree. Unknown
// optional attributes are ignored; missing ones leave the filter's
// constructor defaults in place (spec §4.C7: "forward-compatible ...
// tolerant of missing [attributes] for older schema versions").
func ReadTree(r io.Reader) (*Tree, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "filtertree: decode")
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "filtertree" {
			continue
		}
		return DecodeFilterTree(dec, start)
	}
	return New(), nil
}

// DecodeFilterTree reads the body of an already-opened <filtertree> start
// element (start) from dec, returning a freshly-built Tree. Used both by
// ReadTree (the standalone-document form) and by the session package, which
// locates its own nested <filtertree> start token and hands it here.
func DecodeFilterTree(dec *xml.Decoder, start xml.StartElement) (*Tree, error) {
	t := New()
	roots, err := decodeChildren(dec, start)
	if err != nil {
		return nil, err
	}
	for _, root := range roots {
		root.id = t.nextNodeID()
		t.roots = append(t.roots, root)
		renumberChildren(t, root)
	}
	return t, nil
}

func renumberChildren(t *Tree, n *FilterNode) {
	for _, c := range n.children {
		c.id = t.nextNodeID()
		renumberChildren(t, c)
	}
}

// decodeChildren consumes tokens until start's matching EndElement, building
// a FilterNode for every child element except <writer>.
func decodeChildren(dec *xml.Decoder, start xml.StartElement) ([]*FilterNode, error) {
	var nodes []*FilterNode
	for {
		tok, err := dec.Token()
		if err != nil {
			return nil, errors.Wrap(err, "filtertree: decode")
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "writer" {
				if err := dec.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			f, err := buildFilter(t.Name.Local, t.Attr)
			if err != nil {
				return nil, err
			}
			n := &FilterNode{Filter: f}
			for _, a := range t.Attr {
				switch a.Name.Local {
				case "userstring":
					n.Filter.SetUserString(a.Value)
				case "cacheenabled":
					n.Filter.SetCacheEnabled(a.Value == "1" || a.Value == "true")
				}
			}
			children, err := decodeChildren(dec, t)
			if err != nil {
				return nil, err
			}
			for _, c := range children {
				c.parent = n
			}
			n.children = children
			nodes = append(nodes, n)
		case xml.EndElement:
			if t.Name == start.Name {
				return nodes, nil
			}
		}
	}
}

// --- attribute helpers ---

func boolAttr(b bool) string {
	if b {
		return "1"
	}
	return "0"
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

func attrFloat32(attrs []xml.Attr, name string, def float32) float32 {
	for _, a := range attrs {
		if a.Name.Local == name {
			if v, err := strconv.ParseFloat(a.Value, 32); err == nil {
				return float32(v)
			}
		}
	}
	return def
}

func attrFloat64(attrs []xml.Attr, name string, def float64) float64 {
	for _, a := range attrs {
		if a.Name.Local == name {
			if v, err := strconv.ParseFloat(a.Value, 64); err == nil {
				return v
			}
		}
	}
	return def
}

func floatAttr32(f float32) string { return strconv.FormatFloat(float64(f), 'g', -1, 32) }
func floatAttr64(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }
func intAttr(i int) string         { return strconv.Itoa(i) }

func point3DAttrs(prefix string, p point.Point3D) []xml.Attr {
	return []xml.Attr{
		{Name: xml.Name{Local: prefix + "x"}, Value: floatAttr32(p.X)},
		{Name: xml.Name{Local: prefix + "y"}, Value: floatAttr32(p.Y)},
		{Name: xml.Name{Local: prefix + "z"}, Value: floatAttr32(p.Z)},
	}
}

func attrPoint3D(attrs []xml.Attr, prefix string, def point.Point3D) point.Point3D {
	return point.Point3D{
		X: attrFloat32(attrs, prefix+"x", def.X),
		Y: attrFloat32(attrs, prefix+"y", def.Y),
		Z: attrFloat32(attrs, prefix+"z", def.Z),
	}
}

func colourAttrs(prefix string, c point.Colour) []xml.Attr {
	return []xml.Attr{
		{Name: xml.Name{Local: prefix + "r"}, Value: floatAttr32(c.R)},
		{Name: xml.Name{Local: prefix + "g"}, Value: floatAttr32(c.G)},
		{Name: xml.Name{Local: prefix + "b"}, Value: floatAttr32(c.B)},
	}
}

func attrColour(attrs []xml.Attr, prefix string, def point.Colour) point.Colour {
	return point.Colour{
		R: attrFloat32(attrs, prefix+"r", def.R),
		G: attrFloat32(attrs, prefix+"g", def.G),
		B: attrFloat32(attrs, prefix+"b", def.B),
	}
}

func boolsAttr(name string, vals []bool) xml.Attr {
	s := make([]byte, len(vals))
	for i, v := range vals {
		if v {
			s[i] = '1'
		} else {
			s[i] = '0'
		}
	}
	return xml.Attr{Name: xml.Name{Local: name}, Value: string(s)}
}

func attrBools(attrs []xml.Attr, name string, n int) []bool {
	for _, a := range attrs {
		if a.Name.Local == name {
			out := make([]bool, len(a.Value))
			for i, c := range a.Value {
				out[i] = c == '1'
			}
			return out
		}
	}
	if n <= 0 {
		return nil
	}
	return make([]bool, n)
}

// --- per-kind attribute (de)serialisation ---

func filterAttrs(f filters.Filter) []xml.Attr {
	switch v := f.(type) {
	case *filters.DataLoadFilter:
		attrs := []xml.Attr{
			{Name: xml.Name{Local: "filename"}, Value: v.Filename},
			{Name: xml.Name{Local: "filetype"}, Value: intAttr(int(v.FileType))},
			{Name: xml.Name{Local: "columncount"}, Value: intAttr(v.ColumnCount)},
			{Name: xml.Name{Local: "colmap"}, Value: fmt.Sprintf("%d,%d,%d,%d", v.ColumnMap[0], v.ColumnMap[1], v.ColumnMap[2], v.ColumnMap[3])},
			{Name: xml.Name{Local: "sampling"}, Value: boolAttr(v.Sampling)},
			{Name: xml.Name{Local: "samplecount"}, Value: intAttr(v.SampleCount)},
			{Name: xml.Name{Local: "samplemb"}, Value: floatAttr64(v.SampleMB)},
			{Name: xml.Name{Local: "pointsize"}, Value: floatAttr32(v.PointSize)},
			{Name: xml.Name{Local: "valuelabel"}, Value: v.ValueLabel},
			{Name: xml.Name{Local: "monitor"}, Value: boolAttr(v.Monitor)},
		}
		return append(attrs, colourAttrs("colour", v.DefaultColour)...)
	case *filters.RangeFileFilter:
		attrs := []xml.Attr{
			{Name: xml.Name{Local: "path"}, Value: v.Path()},
			{Name: xml.Name{Local: "format"}, Value: intAttr(int(v.Format()))},
		}
		attrs = append(attrs, boolsAttr("enabledions", v.EnabledIons), boolsAttr("enabledranges", v.EnabledRanges))
		return attrs
	case *filters.DownsampleFilter:
		return []xml.Attr{
			{Name: xml.Name{Local: "mode"}, Value: intAttr(int(v.Mode))},
			{Name: xml.Name{Local: "fraction"}, Value: floatAttr64(v.Fraction)},
			{Name: xml.Name{Local: "count"}, Value: intAttr(v.Count)},
			{Name: xml.Name{Local: "perspecies"}, Value: boolAttr(v.PerSpecies)},
		}
	case *filters.TransformFilter:
		attrs := []xml.Attr{
			{Name: xml.Name{Local: "mode"}, Value: intAttr(int(v.Mode))},
			{Name: xml.Name{Local: "originmode"}, Value: intAttr(int(v.OriginMode))},
			{Name: xml.Name{Local: "angledeg"}, Value: floatAttr64(v.AngleDeg)},
		}
		attrs = append(attrs, point3DAttrs("origin", v.Origin)...)
		attrs = append(attrs, point3DAttrs("translate", v.Translate)...)
		attrs = append(attrs, point3DAttrs("scale", v.Scale)...)
		attrs = append(attrs, point3DAttrs("axis", v.Axis)...)
		return attrs
	case *filters.ClipFilter:
		attrs := []xml.Attr{
			{Name: xml.Name{Local: "primitive"}, Value: intAttr(int(v.Primitive))},
			{Name: xml.Name{Local: "invert"}, Value: boolAttr(v.Invert)},
			{Name: xml.Name{Local: "radius"}, Value: floatAttr32(v.Radius)},
		}
		attrs = append(attrs, point3DAttrs("origin", v.Origin)...)
		attrs = append(attrs, point3DAttrs("planenormal", v.PlaneNormal)...)
		attrs = append(attrs, point3DAttrs("cylinderaxis", v.CylinderAxis)...)
		attrs = append(attrs, point3DAttrs("aabbcorner", v.AABBCorner)...)
		return attrs
	case *filters.SpectrumPlotFilter:
		return []xml.Attr{
			{Name: xml.Name{Local: "numbins"}, Value: intAttr(v.NumBins)},
			{Name: xml.Name{Local: "minvalue"}, Value: floatAttr32(v.MinValue)},
			{Name: xml.Name{Local: "maxvalue"}, Value: floatAttr32(v.MaxValue)},
			{Name: xml.Name{Local: "logarithmic"}, Value: boolAttr(v.Logarithmic)},
		}
	case *filters.CompositionProfileFilter:
		attrs := []xml.Attr{
			{Name: xml.Name{Local: "radius"}, Value: floatAttr32(v.Radius)},
			{Name: xml.Name{Local: "fixedbins"}, Value: boolAttr(v.FixedBins)},
			{Name: xml.Name{Local: "numbins"}, Value: intAttr(v.NumBins)},
			{Name: xml.Name{Local: "binwidth"}, Value: floatAttr32(v.BinWidth)},
			{Name: xml.Name{Local: "normalise"}, Value: intAttr(int(v.Normalise))},
		}
		attrs = append(attrs, point3DAttrs("origin", v.Origin)...)
		attrs = append(attrs, point3DAttrs("axis", v.Axis)...)
		attrs = append(attrs, colourAttrs("colour", point.Colour{R: v.R, G: v.G, B: v.B})...)
		return attrs
	case *filters.VoxeliseFilter:
		return []xml.Attr{
			{Name: xml.Name{Local: "fixedwidth"}, Value: boolAttr(v.FixedWidth)},
			{Name: xml.Name{Local: "nbins"}, Value: fmt.Sprintf("%d,%d,%d", v.NBins[0], v.NBins[1], v.NBins[2])},
			{Name: xml.Name{Local: "binwidth"}, Value: fmt.Sprintf("%s,%s,%s", floatAttr32(v.BinWidth[0]), floatAttr32(v.BinWidth[1]), floatAttr32(v.BinWidth[2]))},
			{Name: xml.Name{Local: "normalise"}, Value: intAttr(int(v.Normalise))},
			{Name: xml.Name{Local: "numeratorion"}, Value: intAttr(v.NumeratorIon)},
			{Name: xml.Name{Local: "denominatorion"}, Value: intAttr(v.DenominatorIon)},
			{Name: xml.Name{Local: "representation"}, Value: intAttr(int(v.Representation))},
			{Name: xml.Name{Local: "splatsize"}, Value: floatAttr32(v.SplatSize)},
			{Name: xml.Name{Local: "isolevel"}, Value: floatAttr32(v.IsoLevel)},
		}
	case *filters.SpatialAnalysisFilter:
		attrs := []xml.Attr{
			{Name: xml.Name{Local: "algorithm"}, Value: intAttr(int(v.Algorithm))},
			{Name: xml.Name{Local: "stopmode"}, Value: intAttr(int(v.StopMode))},
			{Name: xml.Name{Local: "nnmax"}, Value: intAttr(v.NNMax)},
			{Name: xml.Name{Local: "distmax"}, Value: floatAttr32(v.DistMax)},
			{Name: xml.Name{Local: "densitycutoff"}, Value: floatAttr32(v.DensityCutoff)},
			{Name: xml.Name{Local: "keepdensityupper"}, Value: boolAttr(v.KeepDensityUpper)},
			{Name: xml.Name{Local: "numbins"}, Value: intAttr(v.NumBins)},
			{Name: xml.Name{Local: "excludesurface"}, Value: boolAttr(v.ExcludeSurface)},
			{Name: xml.Name{Local: "reductiondistance"}, Value: floatAttr32(v.ReductionDistance)},
		}
		if len(v.SourceIonEnabled) > 0 {
			attrs = append(attrs, boolsAttr("sourceion", v.SourceIonEnabled))
		}
		if len(v.TargetIonEnabled) > 0 {
			attrs = append(attrs, boolsAttr("targetion", v.TargetIonEnabled))
		}
		return attrs
	case *filters.BoundingBoxFilter:
		return []xml.Attr{
			{Name: xml.Name{Local: "visible"}, Value: boolAttr(v.Visible)},
			{Name: xml.Name{Local: "fixednumticks"}, Value: boolAttr(v.FixedNumTicks)},
			{Name: xml.Name{Local: "numticks"}, Value: fmt.Sprintf("%d,%d,%d", v.NumTicks[0], v.NumTicks[1], v.NumTicks[2])},
			{Name: xml.Name{Local: "tickspacing"}, Value: fmt.Sprintf("%s,%s,%s", floatAttr32(v.TickSpacing[0]), floatAttr32(v.TickSpacing[1]), floatAttr32(v.TickSpacing[2]))},
			{Name: xml.Name{Local: "fontsize"}, Value: floatAttr32(v.FontSize)},
			{Name: xml.Name{Local: "linewidth"}, Value: floatAttr32(v.LineWidth)},
		}
	case *filters.AnnotationFilter:
		attrs := []xml.Attr{
			{Name: xml.Name{Local: "mode"}, Value: intAttr(int(v.Mode))},
			{Name: xml.Name{Local: "text"}, Value: v.Text},
			{Name: xml.Name{Local: "textsize"}, Value: floatAttr32(v.TextSize)},
			{Name: xml.Name{Local: "arrowsize"}, Value: floatAttr32(v.ArrowSize)},
			{Name: xml.Name{Local: "active"}, Value: boolAttr(v.Active)},
			{Name: xml.Name{Local: "showangletext"}, Value: boolAttr(v.ShowAngleText)},
			{Name: xml.Name{Local: "reflexangle"}, Value: boolAttr(v.ReflexAngle)},
			{Name: xml.Name{Local: "linearfixedticks"}, Value: boolAttr(v.LinearFixedTicks)},
			{Name: xml.Name{Local: "linearmeasureticks"}, Value: intAttr(v.LinearMeasureTicks)},
			{Name: xml.Name{Local: "linearmeasurespacing"}, Value: floatAttr32(v.LinearMeasureSpacing)},
		}
		attrs = append(attrs, point3DAttrs("position", v.Position)...)
		attrs = append(attrs, point3DAttrs("target", v.Target)...)
		attrs = append(attrs, point3DAttrs("upvec", v.UpVec)...)
		attrs = append(attrs, point3DAttrs("acrossvec", v.AcrossVec)...)
		return attrs
	default:
		return nil
	}
}

func buildFilter(kind string, attrs []xml.Attr) (filters.Filter, error) {
	switch kind {
	case filters.KindDataLoad.String():
		f := filters.NewDataLoadFilter(
			attrString(attrs, "filename", ""),
			filters.SourceFileType(attrInt(attrs, "filetype", int(filters.SourceFilePOS))),
		)
		f.ColumnCount = attrInt(attrs, "columncount", f.ColumnCount)
		var a, b, c, d int
		if cm := attrString(attrs, "colmap", ""); cm != "" {
			if _, err := fmt.Sscanf(cm, "%d,%d,%d,%d", &a, &b, &c, &d); err == nil {
				f.ColumnMap = [4]int{a, b, c, d}
			}
		}
		f.Sampling = attrBool(attrs, "sampling", f.Sampling)
		f.SampleCount = attrInt(attrs, "samplecount", f.SampleCount)
		f.SampleMB = attrFloat64(attrs, "samplemb", f.SampleMB)
		f.PointSize = attrFloat32(attrs, "pointsize", f.PointSize)
		f.ValueLabel = attrString(attrs, "valuelabel", f.ValueLabel)
		f.Monitor = attrBool(attrs, "monitor", f.Monitor)
		f.DefaultColour = attrColour(attrs, "colour", f.DefaultColour)
		return f, nil
	case filters.KindRangeFile.String():
		path := attrString(attrs, "path", "")
		format := rangefile.Format(attrInt(attrs, "format", int(rangefile.FormatORNL)))
		f, err := filters.NewRangeFileFilter(path, format)
		if err != nil {
			return nil, errors.Wrapf(err, "filtertree: reopen rangefile %q", path)
		}
		if ei := attrBools(attrs, "enabledions", len(f.EnabledIons)); len(ei) == len(f.EnabledIons) {
			f.EnabledIons = ei
		}
		if er := attrBools(attrs, "enabledranges", len(f.EnabledRanges)); len(er) == len(f.EnabledRanges) {
			f.EnabledRanges = er
		}
		return f, nil
	case filters.KindDownsample.String():
		f := filters.NewDownsampleFilter()
		f.Mode = filters.DownsampleMode(attrInt(attrs, "mode", int(f.Mode)))
		f.Fraction = attrFloat64(attrs, "fraction", f.Fraction)
		f.Count = attrInt(attrs, "count", f.Count)
		f.PerSpecies = attrBool(attrs, "perspecies", f.PerSpecies)
		return f, nil
	case filters.KindTransform.String():
		f := filters.NewTransformFilter()
		f.Mode = filters.TransformMode(attrInt(attrs, "mode", int(f.Mode)))
		f.OriginMode = filters.OriginMode(attrInt(attrs, "originmode", int(f.OriginMode)))
		f.AngleDeg = attrFloat64(attrs, "angledeg", f.AngleDeg)
		f.Origin = attrPoint3D(attrs, "origin", f.Origin)
		f.Translate = attrPoint3D(attrs, "translate", f.Translate)
		f.Scale = attrPoint3D(attrs, "scale", f.Scale)
		f.Axis = attrPoint3D(attrs, "axis", f.Axis)
		return f, nil
	case filters.KindClip.String():
		f := filters.NewClipFilter()
		f.Primitive = filters.ClipPrimitive(attrInt(attrs, "primitive", int(f.Primitive)))
		f.Invert = attrBool(attrs, "invert", f.Invert)
		f.Radius = attrFloat32(attrs, "radius", f.Radius)
		f.Origin = attrPoint3D(attrs, "origin", f.Origin)
		f.PlaneNormal = attrPoint3D(attrs, "planenormal", f.PlaneNormal)
		f.CylinderAxis = attrPoint3D(attrs, "cylinderaxis", f.CylinderAxis)
		f.AABBCorner = attrPoint3D(attrs, "aabbcorner", f.AABBCorner)
		return f, nil
	case filters.KindSpectrumPlot.String():
		f := filters.NewSpectrumPlotFilter()
		f.NumBins = attrInt(attrs, "numbins", f.NumBins)
		f.MinValue = attrFloat32(attrs, "minvalue", f.MinValue)
		f.MaxValue = attrFloat32(attrs, "maxvalue", f.MaxValue)
		f.Logarithmic = attrBool(attrs, "logarithmic", f.Logarithmic)
		return f, nil
	case filters.KindCompositionProfile.String():
		f := filters.NewCompositionProfileFilter()
		f.Radius = attrFloat32(attrs, "radius", f.Radius)
		f.FixedBins = attrBool(attrs, "fixedbins", f.FixedBins)
		f.NumBins = attrInt(attrs, "numbins", f.NumBins)
		f.BinWidth = attrFloat32(attrs, "binwidth", f.BinWidth)
		f.Normalise = filters.CompositionNormalise(attrInt(attrs, "normalise", int(f.Normalise)))
		f.Origin = attrPoint3D(attrs, "origin", f.Origin)
		f.Axis = attrPoint3D(attrs, "axis", f.Axis)
		col := attrColour(attrs, "colour", point.Colour{R: f.R, G: f.G, B: f.B})
		f.R, f.G, f.B = col.R, col.G, col.B
		return f, nil
	case filters.KindVoxelise.String():
		f := filters.NewVoxeliseFilter()
		f.FixedWidth = attrBool(attrs, "fixedwidth", f.FixedWidth)
		var a, b, c int
		if nb := attrString(attrs, "nbins", ""); nb != "" {
			if _, err := fmt.Sscanf(nb, "%d,%d,%d", &a, &b, &c); err == nil {
				f.NBins = [3]int{a, b, c}
			}
		}
		var fa, fb, fc float32
		if bw := attrString(attrs, "binwidth", ""); bw != "" {
			if _, err := fmt.Sscanf(bw, "%f,%f,%f", &fa, &fb, &fc); err == nil {
				f.BinWidth = [3]float32{fa, fb, fc}
			}
		}
		f.Normalise = filters.VoxelNormalise(attrInt(attrs, "normalise", int(f.Normalise)))
		f.NumeratorIon = attrInt(attrs, "numeratorion", f.NumeratorIon)
		f.DenominatorIon = attrInt(attrs, "denominatorion", f.DenominatorIon)
		f.Representation = stream.VoxelRepresentation(attrInt(attrs, "representation", int(f.Representation)))
		f.SplatSize = attrFloat32(attrs, "splatsize", f.SplatSize)
		f.IsoLevel = attrFloat32(attrs, "isolevel", f.IsoLevel)
		return f, nil
	case filters.KindSpatialAnalysis.String():
		f := filters.NewSpatialAnalysisFilter()
		f.Algorithm = filters.SpatialAlgorithm(attrInt(attrs, "algorithm", int(f.Algorithm)))
		f.StopMode = filters.SpatialStopMode(attrInt(attrs, "stopmode", int(f.StopMode)))
		f.NNMax = attrInt(attrs, "nnmax", f.NNMax)
		f.DistMax = attrFloat32(attrs, "distmax", f.DistMax)
		f.DensityCutoff = attrFloat32(attrs, "densitycutoff", f.DensityCutoff)
		f.KeepDensityUpper = attrBool(attrs, "keepdensityupper", f.KeepDensityUpper)
		f.NumBins = attrInt(attrs, "numbins", f.NumBins)
		f.ExcludeSurface = attrBool(attrs, "excludesurface", f.ExcludeSurface)
		f.ReductionDistance = attrFloat32(attrs, "reductiondistance", f.ReductionDistance)
		if si := attrBools(attrs, "sourceion", 0); si != nil {
			f.SourceIonEnabled = si
		}
		if ti := attrBools(attrs, "targetion", 0); ti != nil {
			f.TargetIonEnabled = ti
		}
		return f, nil
	case filters.KindBoundingBox.String():
		f := filters.NewBoundingBoxFilter()
		f.Visible = attrBool(attrs, "visible", f.Visible)
		f.FixedNumTicks = attrBool(attrs, "fixednumticks", f.FixedNumTicks)
		var a, b, c int
		if nt := attrString(attrs, "numticks", ""); nt != "" {
			if _, err := fmt.Sscanf(nt, "%d,%d,%d", &a, &b, &c); err == nil {
				f.NumTicks = [3]int{a, b, c}
			}
		}
		var fa, fb, fc float32
		if ts := attrString(attrs, "tickspacing", ""); ts != "" {
			if _, err := fmt.Sscanf(ts, "%f,%f,%f", &fa, &fb, &fc); err == nil {
				f.TickSpacing = [3]float32{fa, fb, fc}
			}
		}
		f.FontSize = attrFloat32(attrs, "fontsize", f.FontSize)
		f.LineWidth = attrFloat32(attrs, "linewidth", f.LineWidth)
		return f, nil
	case filters.KindAnnotation.String():
		f := filters.NewAnnotationFilter()
		f.Mode = filters.AnnotationMode(attrInt(attrs, "mode", int(f.Mode)))
		f.Text = attrString(attrs, "text", f.Text)
		f.TextSize = attrFloat32(attrs, "textsize", f.TextSize)
		f.ArrowSize = attrFloat32(attrs, "arrowsize", f.ArrowSize)
		f.Active = attrBool(attrs, "active", f.Active)
		f.ShowAngleText = attrBool(attrs, "showangletext", f.ShowAngleText)
		f.ReflexAngle = attrBool(attrs, "reflexangle", f.ReflexAngle)
		f.LinearFixedTicks = attrBool(attrs, "linearfixedticks", f.LinearFixedTicks)
		f.LinearMeasureTicks = attrInt(attrs, "linearmeasureticks", f.LinearMeasureTicks)
		f.LinearMeasureSpacing = attrFloat32(attrs, "linearmeasurespacing", f.LinearMeasureSpacing)
		f.Position = attrPoint3D(attrs, "position", f.Position)
		f.Target = attrPoint3D(attrs, "target", f.Target)
		f.UpVec = attrPoint3D(attrs, "upvec", f.UpVec)
		f.AcrossVec = attrPoint3D(attrs, "acrossvec", f.AcrossVec)
		return f, nil
	default:
		return nil, errors.Wrapf(ErrUnknownFilterKind, "%q", kind)
	}
}
