package terrain

import (
	"testing"
)

func flatHeights(n int, h float32) [][]float32 {
	values := make([][]float32, n)
	for x := range values {
		values[x] = make([]float32, n)
		for y := range values[x] {
			values[x][y] = h
		}
	}
	return values
}

func TestGenerateTerrainMeshVertexCounts(t *testing.T) {
	settings := DefaultMeshSettings()
	heights := flatHeights(settings.VertsPerLine(), 0)

	for lod := range NumSupportedLODs {
		mesh := GenerateTerrainMesh(heights, settings, lod)

		perLine := settings.ChunkSize()/LODIncrement(lod) + 3
		if got := len(mesh.Vertices); got != perLine*perLine {
			t.Errorf("lod %d: %d vertices, want %d", lod, got, perLine*perLine)
		}
		if got := mesh.TriangleCount(); got != (perLine-1)*(perLine-1)*2 {
			t.Errorf("lod %d: %d triangles, want %d", lod, got, (perLine-1)*(perLine-1)*2)
		}
		if mesh.LOD != lod {
			t.Errorf("mesh.LOD = %d, want %d", mesh.LOD, lod)
		}
		for _, idx := range mesh.Indices {
			if int(idx) >= len(mesh.Vertices) {
				t.Fatalf("lod %d: index %d out of range", lod, idx)
			}
		}
	}
}

func TestGenerateTerrainMeshSpansWorldSize(t *testing.T) {
	settings := DefaultMeshSettings()
	heights := flatHeights(settings.VertsPerLine(), 3)

	mesh := GenerateTerrainMesh(heights, settings, 2)
	half := settings.WorldSize() / 2

	if mesh.Bounds.Min[0] != -half || mesh.Bounds.Max[0] != half {
		t.Errorf("X bounds = [%v,%v], want [%v,%v]", mesh.Bounds.Min[0], mesh.Bounds.Max[0], -half, half)
	}
	if mesh.Bounds.Min[2] != -half || mesh.Bounds.Max[2] != half {
		t.Errorf("Z bounds = [%v,%v], want [%v,%v]", mesh.Bounds.Min[2], mesh.Bounds.Max[2], -half, half)
	}
	if mesh.Bounds.Min[1] != 3 || mesh.Bounds.Max[1] != 3 {
		t.Errorf("Y bounds = [%v,%v], want [3,3]", mesh.Bounds.Min[1], mesh.Bounds.Max[1])
	}

	first := mesh.Vertices[0].TexCoord
	last := mesh.Vertices[len(mesh.Vertices)-1].TexCoord
	if first != [2]float32{0, 0} || last != [2]float32{1, 1} {
		t.Errorf("uv range = %v..%v, want [0,0]..[1,1]", first, last)
	}
}

func TestGenerateTerrainMeshNormals(t *testing.T) {
	settings := DefaultMeshSettings()
	heights := flatHeights(settings.VertsPerLine(), 7)

	mesh := GenerateTerrainMesh(heights, settings, 0)
	for i, v := range mesh.Vertices {
		if v.Normal != [3]float32{0, 1, 0} {
			t.Fatalf("vertex %d: normal %v on flat terrain, want up", i, v.Normal)
		}
	}

	// A slope rising along +X tilts normals towards -X.
	for x := range heights {
		for y := range heights[x] {
			heights[x][y] = float32(x)
		}
	}
	mesh = GenerateTerrainMesh(heights, settings, 0)
	if n := mesh.Vertices[0].Normal; n[0] >= 0 || n[1] <= 0 {
		t.Errorf("slope normal = %v, want negative X and positive Y", n)
	}
}
