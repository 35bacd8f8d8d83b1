package terrain

// HeightAt returns the surface height of the mesh at local coordinates
// (x, z), interpolated inside the triangle that covers the point. It reports
// false when no triangle does.
func (m *Mesh) HeightAt(x, z float32) (float32, bool) {
	if m == nil || x < m.Bounds.Min[0] || x > m.Bounds.Max[0] || z < m.Bounds.Min[2] || z > m.Bounds.Max[2] {
		return 0, false
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]].Position
		b := m.Vertices[m.Indices[i+1]].Position
		c := m.Vertices[m.Indices[i+2]].Position

		det := (b[2]-c[2])*(a[0]-c[0]) + (c[0]-b[0])*(a[2]-c[2])
		if det == 0 {
			continue
		}
		u := ((b[2]-c[2])*(x-c[0]) + (c[0]-b[0])*(z-c[2])) / det
		v := ((c[2]-a[2])*(x-c[0]) + (a[0]-c[0])*(z-c[2])) / det
		w := 1 - u - v

		const eps = -1e-5
		if u < eps || v < eps || w < eps {
			continue
		}
		return u*a[1] + v*b[1] + w*c[1], true
	}
	return 0, false
}
