package filters

import (
	"testing"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

func TestClipSphereKeepsInside(t *testing.T) {
	f := NewClipFilter()
	f.Primitive = ClipSphere
	f.Origin = point.Point3D{}
	f.Radius = 1

	hits := []ionhit.IonHit{
		ionhit.New(point.Point3D{X: 0.1}, 1), // inside
		ionhit.New(point.Point3D{X: 5}, 1),   // outside
	}
	in := RefreshInput{Frames: []stream.Frame{stream.NewIonFrame(hits)}}
	result, errKind := f.Refresh(in)
	if errKind != ErrNone {
		t.Fatalf("Refresh: %v", errKind)
	}
	ions := result.Frames[0].(*stream.IonFrame)
	if len(ions.Data) != 1 {
		t.Fatalf("got %d ions, want 1", len(ions.Data))
	}
}

func TestClipSphereInvertDropsInside(t *testing.T) {
	f := NewClipFilter()
	f.Primitive = ClipSphere
	f.Radius = 1
	f.Invert = true

	hits := []ionhit.IonHit{
		ionhit.New(point.Point3D{X: 0.1}, 1),
		ionhit.New(point.Point3D{X: 5}, 1),
	}
	in := RefreshInput{Frames: []stream.Frame{stream.NewIonFrame(hits)}}
	result, _ := f.Refresh(in)
	ions := result.Frames[0].(*stream.IonFrame)
	if len(ions.Data) != 1 || ions.Data[0].Pos().X != 5 {
		t.Fatalf("expected only the outside ion to survive, got %+v", ions.Data)
	}
}

func TestClipPlaneKeepsFrontHalfspace(t *testing.T) {
	f := NewClipFilter()
	f.Primitive = ClipPlane
	f.Origin = point.Point3D{}
	f.PlaneNormal = point.Point3D{X: 1}

	hits := []ionhit.IonHit{
		ionhit.New(point.Point3D{X: 1}, 1),  // in front
		ionhit.New(point.Point3D{X: -1}, 1), // behind
	}
	in := RefreshInput{Frames: []stream.Frame{stream.NewIonFrame(hits)}}
	result, _ := f.Refresh(in)
	ions := result.Frames[0].(*stream.IonFrame)
	if len(ions.Data) != 1 || ions.Data[0].Pos().X != 1 {
		t.Fatalf("expected only the front-halfspace ion to survive, got %+v", ions.Data)
	}
}

func TestClipCylinderAlongZAxis(t *testing.T) {
	f := NewClipFilter()
	f.Primitive = ClipCylinder
	f.Origin = point.Point3D{}
	f.CylinderAxis = point.Point3D{Z: 10} // length 10, centred -> halfLen 5
	f.Radius = 1

	hits := []ionhit.IonHit{
		ionhit.New(point.Point3D{X: 0.1, Y: 0, Z: 2}, 1),  // inside
		ionhit.New(point.Point3D{X: 5, Y: 0, Z: 2}, 1),    // outside radius
		ionhit.New(point.Point3D{X: 0.1, Y: 0, Z: 10}, 1), // outside length
	}
	in := RefreshInput{Frames: []stream.Frame{stream.NewIonFrame(hits)}}
	result, _ := f.Refresh(in)
	ions := result.Frames[0].(*stream.IonFrame)
	if len(ions.Data) != 1 {
		t.Fatalf("got %d ions, want 1, result=%+v", len(ions.Data), ions.Data)
	}
}

func TestClipCylinderOffAxis(t *testing.T) {
	f := NewClipFilter()
	f.Primitive = ClipCylinder
	f.Origin = point.Point3D{}
	f.CylinderAxis = point.Point3D{X: 10} // axis along +x, not parallel to +z
	f.Radius = 1

	hits := []ionhit.IonHit{
		ionhit.New(point.Point3D{X: 2, Y: 0.1, Z: 0}, 1), // inside
		ionhit.New(point.Point3D{X: 2, Y: 5, Z: 0}, 1),   // outside radius
	}
	in := RefreshInput{Frames: []stream.Frame{stream.NewIonFrame(hits)}}
	result, _ := f.Refresh(in)
	ions := result.Frames[0].(*stream.IonFrame)
	if len(ions.Data) != 1 {
		t.Fatalf("got %d ions, want 1, result=%+v", len(ions.Data), ions.Data)
	}
}

func TestClipAABBKeepsInsideBox(t *testing.T) {
	f := NewClipFilter()
	f.Primitive = ClipAABB
	f.Origin = point.Point3D{}
	f.AABBCorner = point.Point3D{X: 1, Y: 1, Z: 1}

	hits := []ionhit.IonHit{
		ionhit.New(point.Point3D{X: 0.5, Y: 0.5, Z: 0.5}, 1), // inside
		ionhit.New(point.Point3D{X: 5, Y: 0, Z: 0}, 1),       // outside
	}
	in := RefreshInput{Frames: []stream.Frame{stream.NewIonFrame(hits)}}
	result, _ := f.Refresh(in)
	ions := result.Frames[0].(*stream.IonFrame)
	if len(ions.Data) != 1 {
		t.Fatalf("got %d ions, want 1", len(ions.Data))
	}
}
