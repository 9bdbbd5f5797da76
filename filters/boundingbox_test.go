package filters

import (
	"testing"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

func cubeOfIons() []ionhit.IonHit {
	return []ionhit.IonHit{
		ionhit.New(point.Point3D{X: 0, Y: 0, Z: 0}, 1),
		ionhit.New(point.Point3D{X: 10, Y: 5, Z: 2}, 1),
		ionhit.New(point.Point3D{X: -3, Y: 1, Z: 8}, 1),
	}
}

func TestBoundingBoxDrawsBoxAndPassesThroughInput(t *testing.T) {
	f := NewBoundingBoxFilter()

	ionFrame := stream.NewIonFrame(cubeOfIons())
	in := RefreshInput{Frames: []stream.Frame{ionFrame}}
	result, errKind := f.Refresh(in)
	if errKind != ErrNone {
		t.Fatalf("Refresh: %v", errKind)
	}
	if len(result.Frames) != 2 {
		t.Fatalf("got %d frames, want 2 (passthrough ion frame + draw frame)", len(result.Frames))
	}
	if result.Frames[0] != stream.Frame(ionFrame) {
		t.Fatalf("input frame was not passed through unchanged")
	}

	draw, ok := result.Frames[1].(*stream.DrawFrame)
	if !ok {
		t.Fatalf("second frame is %T, want *stream.DrawFrame", result.Frames[1])
	}
	if len(draw.Primitives) == 0 {
		t.Fatalf("expected at least a box primitive")
	}
	var sawBox bool
	for _, p := range draw.Primitives {
		if p.Kind() == stream.PrimitiveRectPrism {
			sawBox = true
			box := p.(stream.RectPrism)
			if box.LowCorner.X != -3 || box.HighCorner.X != 10 {
				t.Fatalf("unexpected box extent: %+v", box)
			}
		}
	}
	if !sawBox {
		t.Fatalf("expected a rect-prism primitive in the draw frame")
	}
}

func TestBoundingBoxInvisibleSkipsDrawFrame(t *testing.T) {
	f := NewBoundingBoxFilter()
	f.Visible = false

	in := RefreshInput{Frames: []stream.Frame{stream.NewIonFrame(cubeOfIons())}}
	result, errKind := f.Refresh(in)
	if errKind != ErrNone {
		t.Fatalf("Refresh: %v", errKind)
	}
	if len(result.Frames) != 1 {
		t.Fatalf("got %d frames, want 1 (passthrough only)", len(result.Frames))
	}
}

func TestBoundingBoxNoIonsProducesNoDrawFrame(t *testing.T) {
	f := NewBoundingBoxFilter()
	result, errKind := f.Refresh(RefreshInput{})
	if errKind != ErrNone {
		t.Fatalf("Refresh: %v", errKind)
	}
	if len(result.Frames) != 0 {
		t.Fatalf("got %d frames, want 0", len(result.Frames))
	}
}

func TestBoundingBoxFixedSpacingTickCount(t *testing.T) {
	f := NewBoundingBoxFilter()
	f.FixedNumTicks = false
	f.TickSpacing = [3]float32{5, 5, 5}

	in := RefreshInput{Frames: []stream.Frame{stream.NewIonFrame(cubeOfIons())}}
	result, errKind := f.Refresh(in)
	if errKind != ErrNone {
		t.Fatalf("Refresh: %v", errKind)
	}
	draw := result.Frames[len(result.Frames)-1].(*stream.DrawFrame)
	var texts int
	for _, p := range draw.Primitives {
		if p.Kind() == stream.PrimitiveText {
			texts++
		}
	}
	if texts == 0 {
		t.Fatalf("expected tick-label text primitives")
	}
}
