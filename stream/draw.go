package stream

import "github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"

// PrimitiveKind identifies which concrete Primitive a DrawFrame entry holds,
// matching the original's PRIMITIVE_* enum.
type PrimitiveKind int

const (
	PrimitiveSphere PrimitiveKind = iota
	PrimitiveCylinder
	PrimitiveRectPrism
	PrimitiveArrow
	PrimitiveText
)

// BindingID names a user-manipulable handle on a primitive, matching the
// original's BINDING_* keys (e.g. BINDING_CYLINDER_RADIUS). The scheduler
// posts (id, value) messages back to the owning filter's setPropFromBinding
// when the host actuates a binding (spec §9 design note).
type BindingID int

const (
	BindingNone BindingID = iota
	BindingSphereRadius
	BindingSphereOrigin
	BindingCylinderRadius
	BindingCylinderOrigin
	BindingCylinderDirection
	BindingPlaneOrigin
	BindingPlaneDirection
	BindingRectTranslate
	BindingRectCornerMove
	BindingArrowOrigin
	BindingArrowDirection
	BindingTextOrigin
)

// SelectionBinding couples a primitive's manipulable attribute to an opaque
// id the host uses to report drag interactions, per spec §4.C5's "optional
// selection bindings" and §9's message-channel design note.
type SelectionBinding struct {
	ID   BindingID
	// Key disambiguates which attribute of a primitive the binding controls,
	// for primitive kinds with more than one bindable attribute.
	Key string
}

// Primitive is one abstract scene drawable. Every concrete primitive
// implements Kind(); callers type-switch on the concrete type for its
// geometry fields, mirroring the original's DrawableObj hierarchy
// (DrawSphere, DrawCylinder, DrawRectPrism, DrawVectorArrow, DrawText) but as
// a closed Go sum type rather than virtual dispatch.
type Primitive interface {
	Kind() PrimitiveKind
	Bindings() []SelectionBinding
}

type primBase struct {
	bindings []SelectionBinding
}

func (p primBase) Bindings() []SelectionBinding { return p.bindings }

func (p *primBase) setBindings(b []SelectionBinding) { p.bindings = b }

// Sphere is a drawable sphere primitive.
type Sphere struct {
	primBase
	Origin point.Point3D
	Radius float32
	R, G, B, A float32
}

func (Sphere) Kind() PrimitiveKind { return PrimitiveSphere }

// WithBindings returns a copy of s with the given selection bindings
// attached, letting a filter expose draggable handles on its output.
func (s Sphere) WithBindings(b ...SelectionBinding) Sphere {
	s.setBindings(b)
	return s
}

// Cylinder is a drawable cylinder primitive, axis-aligned by Direction.
type Cylinder struct {
	primBase
	Origin    point.Point3D
	Direction point.Point3D
	Radius    float32
	Length    float32
	R, G, B, A float32
}

func (Cylinder) Kind() PrimitiveKind { return PrimitiveCylinder }

// WithBindings returns a copy of c with the given selection bindings attached.
func (c Cylinder) WithBindings(b ...SelectionBinding) Cylinder {
	c.setBindings(b)
	return c
}

// RectPrism is a drawable axis-aligned (or corner-defined) rectangular box.
type RectPrism struct {
	primBase
	LowCorner, HighCorner point.Point3D
	R, G, B, A            float32
}

func (RectPrism) Kind() PrimitiveKind { return PrimitiveRectPrism }

// WithBindings returns a copy of r with the given selection bindings attached.
func (r RectPrism) WithBindings(b ...SelectionBinding) RectPrism {
	r.setBindings(b)
	return r
}

// Arrow is a drawable vector arrow from Origin along Direction.
type Arrow struct {
	primBase
	Origin    point.Point3D
	Direction point.Point3D
	Length    float32
	R, G, B, A float32
}

func (Arrow) Kind() PrimitiveKind { return PrimitiveArrow }

// WithBindings returns a copy of a with the given selection bindings attached.
func (a Arrow) WithBindings(b ...SelectionBinding) Arrow {
	a.setBindings(b)
	return a
}

// Text is a positioned text label, used for axis ticks, angle measurements
// and ruler tick labels (spec §4.C6's annotation filter).
type Text struct {
	primBase
	Origin point.Point3D
	Label  string
	Size   float32
	R, G, B, A float32
}

func (Text) Kind() PrimitiveKind { return PrimitiveText }

// WithBindings returns a copy of t with the given selection bindings attached.
func (t Text) WithBindings(b ...SelectionBinding) Text {
	t.setBindings(b)
	return t
}

// DrawFrame is a list of abstract scene primitives, grounded on
// original_source/src/filter.h's DrawStreamData.
type DrawFrame struct {
	base
	Primitives []Primitive
}

func (f *DrawFrame) Kind() Kind           { return KindDraw }
func (f *DrawFrame) NumBasicObjects() int { return 0 } // matches GetNumBasicObjects()==0 in the original
