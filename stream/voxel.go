package stream

import "github.com/lukasgartmair/3Depict-Isosurfaces-sub000/point"

// VoxelRepresentation selects how a voxel stream should be rendered,
// matching the original's VOXEL_REPRESENT_* enum.
type VoxelRepresentation int

const (
	VoxelRepresentPointCloud VoxelRepresentation = iota
	VoxelRepresentIsoSurface
)

// VoxelGrid is a uniform 3D grid of float32 cells covering a bounding cube,
// indexed [x][y][z] flattened row-major, grounded on
// original_source/src/filters/voxelise.cpp's Voxels<float>::init(nx,ny,nz,bound)
// usage.
type VoxelGrid struct {
	NX, NY, NZ int
	Bound      point.BoundCube
	cells      []float32
}

// NewVoxelGrid allocates a zeroed grid of nx*ny*nz cells over bound.
func NewVoxelGrid(nx, ny, nz int, bound point.BoundCube) *VoxelGrid {
	return &VoxelGrid{NX: nx, NY: ny, NZ: nz, Bound: bound, cells: make([]float32, nx*ny*nz)}
}

func (v *VoxelGrid) index(x, y, z int) int { return (x*v.NY+y)*v.NZ + z }

// At returns the value at cell (x,y,z).
func (v *VoxelGrid) At(x, y, z int) float32 { return v.cells[v.index(x, y, z)] }

// Set stores val at cell (x,y,z).
func (v *VoxelGrid) Set(x, y, z int, val float32) { v.cells[v.index(x, y, z)] = val }

// Add accumulates val into cell (x,y,z), used by bin-counting passes.
func (v *VoxelGrid) Add(x, y, z int, val float32) { v.cells[v.index(x, y, z)] += val }

// NumCells returns the total cell count.
func (v *VoxelGrid) NumCells() int { return len(v.cells) }

// VoxelSides returns the per-axis cell width.
func (v *VoxelGrid) VoxelSides() point.Point3D {
	sides := v.Bound.Sides()
	return point.Point3D{
		X: sides.X / float32(v.NX),
		Y: sides.Y / float32(v.NY),
		Z: sides.Z / float32(v.NZ),
	}
}

// VoxelVolume returns the volume of a single cell.
func (v *VoxelGrid) VoxelVolume() float64 {
	s := v.VoxelSides()
	return float64(s.X) * float64(s.Y) * float64(s.Z)
}

// CellIndexOf returns the grid cell containing p, and whether p actually
// falls within the grid's bound.
func (v *VoxelGrid) CellIndexOf(p point.Point3D) (x, y, z int, ok bool) {
	if !v.Bound.ContainsPoint(p) {
		return 0, 0, 0, false
	}
	lo, _ := v.Bound.Bounds()
	sides := v.VoxelSides()
	x = clampCell(int((p.X-lo.X)/nonZero(sides.X)), v.NX)
	y = clampCell(int((p.Y-lo.Y)/nonZero(sides.Y)), v.NY)
	z = clampCell(int((p.Z-lo.Z)/nonZero(sides.Z)), v.NZ)
	return x, y, z, true
}

func nonZero(f float32) float32 {
	if f == 0 {
		return 1
	}
	return f
}

func clampCell(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// VoxelFrame is a 3D grid of floats with its bounding cube, representation
// mode, and iso/splat rendering hints, grounded on
// original_source/src/filter.h's VoxelStreamData.
type VoxelFrame struct {
	base

	Data *VoxelGrid

	Representation VoxelRepresentation
	R, G, B, A      float32
	SplatSize       float32
	IsoLevel        float32
}

// NewVoxelFrame returns a VoxelFrame with the original's documented
// defaults: point-cloud representation, red, translucent, splat size 2,
// iso-level 0.5.
func NewVoxelFrame(data *VoxelGrid) *VoxelFrame {
	return &VoxelFrame{
		Data:           data,
		Representation: VoxelRepresentPointCloud,
		R:              1, G: 0, B: 0, A: 0.3,
		SplatSize: 2,
		IsoLevel:  0.5,
	}
}

func (f *VoxelFrame) Kind() Kind { return KindVoxel }
func (f *VoxelFrame) NumBasicObjects() int {
	if f.Data == nil {
		return 0
	}
	return f.Data.NumCells()
}
