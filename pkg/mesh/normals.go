package mesh

// RecalculateNormals recomputes every face normal from the cross
// product of the first two edge vectors of its ring, then recomputes
// every vertex normal as the unweighted average of its adjacent face
// normals. A degenerate face (zero-length cross product) keeps a zero
// normal; downstream consumers must tolerate that.
//
// Running this twice with no topology change in between produces
// identical output.
func (m *Mesh) RecalculateNormals() {
	for i := range m.faces {
		m.faces[i].Normal = m.faceNormal(&m.faces[i])
	}

	// Accumulate face normals per vertex in one pass instead of
	// scanning all faces per vertex.
	sums := make(map[int]Vec3, len(m.verts))
	counts := make(map[int]int, len(m.verts))
	for i := range m.faces {
		f := &m.faces[i]
		seen := make(map[int]struct{}, len(f.Vertices))
		for _, vid := range f.Vertices {
			if _, dup := seen[vid]; dup {
				continue
			}
			seen[vid] = struct{}{}
			sums[vid] = sums[vid].Add(f.Normal)
			counts[vid]++
		}
	}
	for i := range m.verts {
		v := &m.verts[i]
		n := counts[v.ID]
		if n == 0 {
			v.Normal = Vec3{}
			continue
		}
		v.Normal = sums[v.ID].Scale(1 / float64(n)).Normalized()
	}
}

// faceNormal computes the unit normal of a face from its first three
// vertices, or the zero vector when the triangle they span is
// degenerate.
func (m *Mesh) faceNormal(f *Face) Vec3 {
	if len(f.Vertices) < 3 {
		return Vec3{}
	}
	i0, ok0 := m.vertIndex[f.Vertices[0]]
	i1, ok1 := m.vertIndex[f.Vertices[1]]
	i2, ok2 := m.vertIndex[f.Vertices[2]]
	if !ok0 || !ok1 || !ok2 {
		return Vec3{}
	}
	p0 := m.verts[i0].Position
	e1 := m.verts[i1].Position.Sub(p0)
	e2 := m.verts[i2].Position.Sub(p0)
	return e1.Cross(e2).Normalized()
}

// FaceCentroid returns the average position of a face's ring.
func (m *Mesh) FaceCentroid(id int) (Vec3, error) {
	i, ok := m.faceIndex[id]
	if !ok {
		return Vec3{}, &ValidationError{Code: CodeBadFaceRef, Message: "unknown face id", Ref: id}
	}
	f := &m.faces[i]
	var c Vec3
	for _, vid := range f.Vertices {
		c = c.Add(m.verts[m.vertIndex[vid]].Position)
	}
	return c.Scale(1 / float64(len(f.Vertices))), nil
}
