// Package debug provides debug visualization utilities.
package debug

import "github.com/Faultbox/midgard-terrain/pkg/math"

// OutlineVertexCount is the number of vertices in a column outline (12 edges x 2).
const OutlineVertexCount = 24

// ColumnOutline returns line vertices, [x, y, z] each, for the box spanning
// rect on the XZ plane between heights minY and maxY. Pad grows the box on
// every side so it does not z-fight with the terrain.
func ColumnOutline(rect math.Rect, minY, maxY, pad float32) []float32 {
	lo, hi := rect.Min(), rect.Max()
	x0, z0 := lo.X-pad, lo.Y-pad
	x1, z1 := hi.X+pad, hi.Y+pad
	y0, y1 := minY-pad, maxY+pad

	corners := [8][3]float32{
		{x0, y0, z0}, {x1, y0, z0}, {x1, y0, z1}, {x0, y0, z1},
		{x0, y1, z0}, {x1, y1, z0}, {x1, y1, z1}, {x0, y1, z1},
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0}, // bottom
		{4, 5}, {5, 6}, {6, 7}, {7, 4}, // top
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // sides
	}

	out := make([]float32, 0, OutlineVertexCount*3)
	for _, e := range edges {
		a, b := corners[e[0]], corners[e[1]]
		out = append(out, a[0], a[1], a[2], b[0], b[1], b[2])
	}
	return out
}
