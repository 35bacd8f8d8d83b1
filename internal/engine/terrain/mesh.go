package terrain

import (
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// GenerateTerrainMesh builds the mesh for one chunk at the given level of
// detail from a VertsPerLine x VertsPerLine height grid.
//
// The outermost ring of samples is never emitted; it only feeds the normals
// of the mesh edge so neighbouring chunks shade seamlessly. The mesh edge
// (grid index 1 and VertsPerLine-2) is always kept at full resolution and
// interior vertices are taken every LODIncrement(lod) samples. Positions are
// relative to the chunk center. Safe to call from any goroutine.
func GenerateTerrainMesh(heights [][]float32, settings MeshSettings, lod int) *Mesh {
	vpl := settings.VertsPerLine()
	lines := meshLines(vpl, LODIncrement(lod))
	n := len(lines)

	half := float32(vpl-1) / 2
	span := float32(vpl - 3)
	scale := settings.Scale

	mesh := &Mesh{
		Vertices: make([]Vertex, 0, n*n),
		Indices:  make([]uint32, 0, (n-1)*(n-1)*6),
		Bounds: Bounds{
			Min: [3]float32{1e10, 1e10, 1e10},
			Max: [3]float32{-1e10, -1e10, -1e10},
		},
		LOD: lod,
	}

	for _, y := range lines {
		for _, x := range lines {
			pos := [3]float32{
				(float32(x) - half) * scale,
				heights[x][y],
				(float32(y) - half) * scale,
			}
			mesh.Vertices = append(mesh.Vertices, Vertex{
				Position: pos,
				Normal:   sampleNormal(heights, x, y, scale),
				TexCoord: [2]float32{float32(x-1) / span, float32(y-1) / span},
			})
			updateBounds(&mesh.Bounds, pos)
		}
	}

	// Two triangles per cell, counter-clockwise seen from above.
	for row := 0; row < n-1; row++ {
		for col := 0; col < n-1; col++ {
			a := uint32(row*n + col)
			b := a + 1
			c := a + uint32(n)
			d := c + 1
			mesh.Indices = append(mesh.Indices,
				a, c, d,
				d, b, a,
			)
		}
	}

	return mesh
}

// meshLines returns the grid indices along one axis that become vertices.
func meshLines(vpl, increment int) []int {
	lines := []int{1}
	for i := 2; i < vpl-2; i += increment {
		lines = append(lines, i)
	}
	if lines[len(lines)-1] != vpl-3 {
		lines = append(lines, vpl-3)
	}
	return append(lines, vpl-2)
}

// sampleNormal computes a normal from the full resolution neighbours of (x,y),
// including border samples outside the mesh.
func sampleNormal(heights [][]float32, x, y int, scale float32) [3]float32 {
	dx := (heights[x+1][y] - heights[x-1][y]) / (2 * scale)
	dz := (heights[x][y+1] - heights[x][y-1]) / (2 * scale)
	return math.Vec3{X: -dx, Y: 1, Z: -dz}.Normalize().Array()
}

func updateBounds(b *Bounds, p [3]float32) {
	for i := range 3 {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
}
