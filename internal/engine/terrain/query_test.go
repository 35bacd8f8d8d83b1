package terrain

import (
	gomath "math"
	"testing"
)

func TestMeshHeightAtFlat(t *testing.T) {
	settings := DefaultMeshSettings()
	mesh := GenerateTerrainMesh(flatHeights(settings.VertsPerLine(), 7), settings, 2)

	tests := []struct {
		x, z float32
		ok   bool
	}{
		{0, 0, true},
		{-62.5, 62.5, true},
		{61.9, -10.3, true},
		{63, 0, false},
		{0, -80, false},
	}
	for _, tt := range tests {
		h, ok := mesh.HeightAt(tt.x, tt.z)
		if ok != tt.ok {
			t.Errorf("HeightAt(%v, %v) ok = %v, want %v", tt.x, tt.z, ok, tt.ok)
			continue
		}
		if ok && h != 7 {
			t.Errorf("HeightAt(%v, %v) = %v, want 7", tt.x, tt.z, h)
		}
	}
}

func TestMeshHeightAtSlope(t *testing.T) {
	settings := DefaultMeshSettings()
	vpl := settings.VertsPerLine()
	heights := flatHeights(vpl, 0)
	for x := range heights {
		for y := range heights[x] {
			heights[x][y] = float32(x)
		}
	}
	mesh := GenerateTerrainMesh(heights, settings, 0)

	half := float32(vpl-1) / 2
	for _, x := range []float32{-40, -3.3, 0, 17.25, 50} {
		h, ok := mesh.HeightAt(x, 11.1)
		if !ok {
			t.Fatalf("HeightAt(%v) missed the mesh", x)
		}
		want := x/settings.Scale + half
		if gomath.Abs(float64(h-want)) > 1e-3 {
			t.Errorf("HeightAt(%v) = %v, want %v", x, h, want)
		}
	}
}

func TestNilMeshHeightAt(t *testing.T) {
	var mesh *Mesh
	if _, ok := mesh.HeightAt(0, 0); ok {
		t.Error("nil mesh reported a height")
	}
}
