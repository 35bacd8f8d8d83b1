// Package terrain provides height field synthesis and terrain mesh building
// for streamed terrain chunks.
package terrain

// Vertex represents a terrain mesh vertex with all attributes.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh holds terrain mesh data for one chunk at one level of detail, ready
// for GPU upload or collision baking. Positions are relative to the chunk center.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
	LOD      int
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// HeightMap is a width x height grid of elevation samples, indexed [x][y],
// with the min and max across the grid cached. It must not be modified after
// construction: it is shared read-only with mesh generation workers.
type HeightMap struct {
	Values [][]float32
	Min    float32
	Max    float32
}

// Width returns the number of samples along X.
func (h *HeightMap) Width() int {
	return len(h.Values)
}

// Height returns the number of samples along Y.
func (h *HeightMap) Height() int {
	if len(h.Values) == 0 {
		return 0
	}
	return len(h.Values[0])
}
