package mesh

// Volume computes the signed enclosed volume via the divergence
// theorem: one sixth of the sum of scalar triple products over the fan
// triangulated faces. The result is only meaningful for a closed mesh
// with consistently outward-wound faces; open meshes yield an
// arbitrary partial sum.
func (m *Mesh) Volume() float64 {
	var six float64
	for i := range m.faces {
		for _, tri := range m.FanTriangles(&m.faces[i]) {
			a := m.verts[m.vertIndex[tri[0]]].Position
			b := m.verts[m.vertIndex[tri[1]]].Position
			c := m.verts[m.vertIndex[tri[2]]].Position
			six += a.Dot(b.Cross(c))
		}
	}
	return six / 6
}

// SurfaceArea sums the areas of the fan triangulated faces.
func (m *Mesh) SurfaceArea() float64 {
	var area float64
	for i := range m.faces {
		for _, tri := range m.FanTriangles(&m.faces[i]) {
			a := m.verts[m.vertIndex[tri[0]]].Position
			b := m.verts[m.vertIndex[tri[1]]].Position
			c := m.verts[m.vertIndex[tri[2]]].Position
			area += b.Sub(a).Cross(c.Sub(a)).Length() / 2
		}
	}
	return area
}
