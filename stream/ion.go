package stream

import "github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"

// IonRepresentation selects how an ion stream should be rendered. The
// original enumerates only ION_REPRESENT_POINTS; kept as a named type for
// symmetry with VoxelRepresentation and room to grow.
type IonRepresentation int

const (
	IonRepresentPoints IonRepresentation = iota
)

// IonFrame is an ordered sequence of IonHit plus display metadata, grounded
// on original_source/src/filter.h's IonStreamData.
type IonFrame struct {
	base

	Data []ionhit.IonHit

	Representation IonRepresentation
	R, G, B, A      float32
	IonSize         float32
	// ValueLabel names the axis the value channel represents, defaulting to
	// "Mass-to-Charge (amu/e)" per spec §4.C6's data-load filter.
	ValueLabel string
}

// NewIonFrame returns an IonFrame with the original's documented defaults:
// red, opaque, point size 2, labelled for mass-to-charge.
func NewIonFrame(data []ionhit.IonHit) *IonFrame {
	return &IonFrame{
		Data:       data,
		R:          1, G: 0, B: 0, A: 1,
		IonSize:    2,
		ValueLabel: "Mass-to-Charge (amu/e)",
	}
}

func (f *IonFrame) Kind() Kind            { return KindIon }
func (f *IonFrame) NumBasicObjects() int  { return len(f.Data) }
