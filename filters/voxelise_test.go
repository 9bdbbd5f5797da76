package filters

import (
	"testing"

	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/ionhit"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/rangefile"
	"github.com/lukasgartmair/3Depict-Isosurfaces-sub000/stream"
)

func gridIonFrame(points ...point.Point3D) *stream.IonFrame {
	hits := make([]ionhit.IonHit, len(points))
	for i, p := range points {
		hits[i] = ionhit.New(p, float32(i))
	}
	return stream.NewIonFrame(hits)
}

func TestVoxeliseFilterCountsIonsIntoGrid(t *testing.T) {
	f := NewVoxeliseFilter()
	f.NBins = [3]int{2, 2, 2}

	frame := gridIonFrame(
		point.Point3D{X: 0, Y: 0, Z: 0},
		point.Point3D{X: 9, Y: 9, Z: 9},
	)
	in := RefreshInput{Frames: []stream.Frame{frame}}

	result, errKind := f.Refresh(in)
	if errKind != ErrNone {
		t.Fatalf("Refresh: %v", errKind)
	}
	voxel := result.Frames[0].(*stream.VoxelFrame)
	if voxel.Data.NumCells() != 8 {
		t.Fatalf("got %d cells, want 8", voxel.Data.NumCells())
	}
	var total float32
	for x := 0; x < voxel.Data.NX; x++ {
		for y := 0; y < voxel.Data.NY; y++ {
			for z := 0; z < voxel.Data.NZ; z++ {
				total += voxel.Data.At(x, y, z)
			}
		}
	}
	if total != 2 {
		t.Fatalf("got total count %v, want 2", total)
	}
}

func TestVoxeliseFilterTooFewIonsInvalidBounds(t *testing.T) {
	f := NewVoxeliseFilter()
	frame := gridIonFrame(point.Point3D{X: 1})
	_, errKind := f.Refresh(RefreshInput{Frames: []stream.Frame{frame}})
	if errKind != ErrBoundsInvalid {
		t.Fatalf("got %v, want ErrBoundsInvalid", errKind)
	}
}

func TestVoxeliseFilterRatioModeRequiresRangeStream(t *testing.T) {
	f := NewVoxeliseFilter()
	f.Normalise = VoxelNormaliseRatio
	frame := gridIonFrame(
		point.Point3D{X: 0, Y: 0, Z: 0},
		point.Point3D{X: 9, Y: 9, Z: 9},
	)
	_, errKind := f.Refresh(RefreshInput{Frames: []stream.Frame{frame}})
	if errKind != ErrBoundsInvalid {
		t.Fatalf("got %v, want ErrBoundsInvalid when no range stream is present", errKind)
	}
}

func TestVoxeliseFilterRatioModeWithRange(t *testing.T) {
	rf := rangefile.New()
	ionA, _ := rf.AddIon("A", "Species A", point.Colour{R: 1})
	ionB, _ := rf.AddIon("B", "Species B", point.Colour{G: 1})
	rf.AddRange(0, 10, ionA)
	rf.AddRange(20, 30, ionB)

	f := NewVoxeliseFilter()
	f.NBins = [3]int{1, 1, 1}
	f.Normalise = VoxelNormaliseRatio
	f.NumeratorIon = ionA
	f.DenominatorIon = ionB

	hits := []ionhit.IonHit{
		ionhit.New(point.Point3D{X: 0, Y: 0, Z: 0}, 5),
		ionhit.New(point.Point3D{X: 9, Y: 9, Z: 9}, 5),
		ionhit.New(point.Point3D{X: 1, Y: 1, Z: 1}, 25),
	}
	rangeFrame := &stream.RangeFrame{RangeFile: rf}
	in := RefreshInput{Frames: []stream.Frame{rangeFrame, stream.NewIonFrame(hits)}}

	result, errKind := f.Refresh(in)
	if errKind != ErrNone {
		t.Fatalf("Refresh: %v", errKind)
	}
	voxel := result.Frames[0].(*stream.VoxelFrame)
	if voxel.Data.At(0, 0, 0) != 2 {
		t.Fatalf("got ratio %v, want 2 (2 numerator / 1 denominator)", voxel.Data.At(0, 0, 0))
	}
}
