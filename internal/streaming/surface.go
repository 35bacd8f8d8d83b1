package streaming

import (
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Surface is the presentation side of a chunk: something that can show a
// render mesh, hold a collision mesh and be switched on or off.
type Surface interface {
	SetMesh(mesh *terrain.Mesh)
	SetCollider(mesh *terrain.Mesh)
	SetActive(active bool)
}

// Releaser is implemented by surfaces that own resources which must be freed
// when their chunk is discarded.
type Releaser interface {
	Release()
}

// SurfaceFactory creates the surface for a new chunk.
type SurfaceFactory func(coord Coord, bounds math.Rect) Surface

// NopSurface ignores everything.
type NopSurface struct{}

func (NopSurface) SetMesh(*terrain.Mesh)     {}
func (NopSurface) SetCollider(*terrain.Mesh) {}
func (NopSurface) SetActive(bool)            {}

// NopSurfaces is a SurfaceFactory producing NopSurface values.
func NopSurfaces(Coord, math.Rect) Surface {
	return NopSurface{}
}

// RecordingSurface keeps the last state it was given and counts changes.
type RecordingSurface struct {
	Coord    Coord
	Bounds   math.Rect
	Mesh     *terrain.Mesh
	Collider *terrain.Mesh
	Active   bool
	Released bool

	MeshSets     int
	ColliderSets int
	Toggles      int
}

// NewRecordingSurface is a SurfaceFactory producing *RecordingSurface values.
func NewRecordingSurface(coord Coord, bounds math.Rect) Surface {
	return &RecordingSurface{Coord: coord, Bounds: bounds}
}

func (s *RecordingSurface) SetMesh(mesh *terrain.Mesh) {
	s.Mesh = mesh
	s.MeshSets++
}

func (s *RecordingSurface) SetCollider(mesh *terrain.Mesh) {
	s.Collider = mesh
	s.ColliderSets++
}

func (s *RecordingSurface) SetActive(active bool) {
	if s.Active != active {
		s.Toggles++
	}
	s.Active = active
}

func (s *RecordingSurface) Release() {
	s.Released = true
}
