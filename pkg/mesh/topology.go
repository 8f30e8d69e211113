package mesh

import "sort"

// edgeKey is the canonical (lo, hi) vertex pair identifying an edge.
type edgeKey struct {
	lo, hi int
}

func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{lo: a, hi: b}
}

// BuildTopology derives the edge list from the current face list. Each
// face ring is walked and consecutive vertex pairs are unioned into a
// single edge carrying every adjacent face id. The edge list is a
// derived view: any face mutation that is not already edge-aware must
// be followed by another BuildTopology call.
//
// Edge ids from a previous build are discarded. Edge selection is
// cleared for the same reason; there is nothing stable to carry it to.
func (m *Mesh) BuildTopology() {
	m.edges = m.edges[:0]
	m.edgeIndex = make(map[int]int)
	m.selEdges = make(map[int]struct{})

	byKey := make(map[edgeKey]int, len(m.faces)*2) // key -> index into edges
	for fi := range m.faces {
		f := &m.faces[fi]
		n := len(f.Vertices)
		for i := 0; i < n; i++ {
			v1 := f.Vertices[i]
			v2 := f.Vertices[(i+1)%n]
			if v1 == v2 {
				continue // collapsed ring segment, skip
			}
			key := makeEdgeKey(v1, v2)
			if ei, ok := byKey[key]; ok {
				m.edges[ei].Faces = append(m.edges[ei].Faces, f.ID)
				continue
			}
			id := m.nextEdgeID
			m.nextEdgeID++
			byKey[key] = len(m.edges)
			m.edgeIndex[id] = len(m.edges)
			m.edges = append(m.edges, Edge{
				V1:    key.lo,
				V2:    key.hi,
				ID:    id,
				Faces: []int{f.ID},
			})
		}
	}
}

// EdgeBetween returns the id of the edge joining the two vertices, if
// the current topology has one.
func (m *Mesh) EdgeBetween(v1, v2 int) (int, bool) {
	key := makeEdgeKey(v1, v2)
	for i := range m.edges {
		if m.edges[i].V1 == key.lo && m.edges[i].V2 == key.hi {
			return m.edges[i].ID, true
		}
	}
	return -1, false
}

// AdjacentVertices returns the ids of vertices joined to vid by an
// edge, sorted ascending. Relies on the derived edge list being
// current.
func (m *Mesh) AdjacentVertices(vid int) []int {
	var adj []int
	for i := range m.edges {
		e := &m.edges[i]
		switch vid {
		case e.V1:
			adj = append(adj, e.V2)
		case e.V2:
			adj = append(adj, e.V1)
		}
	}
	sort.Ints(adj)
	return adj
}

// VertexFaces returns the ids of faces whose ring contains vid, sorted
// ascending.
func (m *Mesh) VertexFaces(vid int) []int {
	var out []int
	for i := range m.faces {
		for _, v := range m.faces[i].Vertices {
			if v == vid {
				out = append(out, m.faces[i].ID)
				break
			}
		}
	}
	sort.Ints(out)
	return out
}

// VertexEdges returns the ids of edges incident on vid, sorted
// ascending.
func (m *Mesh) VertexEdges(vid int) []int {
	var out []int
	for i := range m.edges {
		if m.edges[i].V1 == vid || m.edges[i].V2 == vid {
			out = append(out, m.edges[i].ID)
		}
	}
	sort.Ints(out)
	return out
}

// BoundaryEdges returns the ids of edges adjacent to exactly one face.
func (m *Mesh) BoundaryEdges() []int {
	var out []int
	for i := range m.edges {
		if len(m.edges[i].Faces) == 1 {
			out = append(out, m.edges[i].ID)
		}
	}
	return out
}

// NonManifoldEdges returns the ids of edges adjacent to more than two
// faces.
func (m *Mesh) NonManifoldEdges() []int {
	var out []int
	for i := range m.edges {
		if len(m.edges[i].Faces) > 2 {
			out = append(out, m.edges[i].ID)
		}
	}
	return out
}

// IsManifold reports whether every edge is adjacent to exactly two
// faces, i.e. the mesh is closed and has no fins. Boundary edges count
// as non-manifold here because the boolean evaluator requires closed
// operands.
func (m *Mesh) IsManifold() bool {
	if len(m.edges) == 0 {
		return false
	}
	for i := range m.edges {
		if len(m.edges[i].Faces) != 2 {
			return false
		}
	}
	return true
}
