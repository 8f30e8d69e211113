package mesh

import "sort"

// SelectionMode scopes selection operations to one element granularity.
type SelectionMode int

const (
	SelectVertices SelectionMode = iota
	SelectEdges
	SelectFaces
	SelectObject
)

func (s SelectionMode) String() string {
	switch s {
	case SelectVertices:
		return "vertex"
	case SelectEdges:
		return "edge"
	case SelectFaces:
		return "face"
	case SelectObject:
		return "object"
	default:
		return "unknown"
	}
}

// SelectVertex marks a vertex selected. With add=false the whole
// selection is cleared first (single-select semantics). The id set and
// the per-vertex flag move together.
func (m *Mesh) SelectVertex(id int, add bool) error {
	i, ok := m.vertIndex[id]
	if !ok {
		return &ValidationError{Code: CodeBadVertexRef, Message: "unknown vertex id", Ref: id}
	}
	if !add {
		m.DeselectAll()
		i = m.vertIndex[id]
	}
	m.selVerts[id] = struct{}{}
	m.verts[i].Selected = true
	return nil
}

// SelectEdge marks an edge selected, clearing the selection first
// unless add is set.
func (m *Mesh) SelectEdge(id int, add bool) error {
	i, ok := m.edgeIndex[id]
	if !ok {
		return &ValidationError{Code: CodeBadEdgeRef, Message: "unknown edge id", Ref: id}
	}
	if !add {
		m.DeselectAll()
		i = m.edgeIndex[id]
	}
	m.selEdges[id] = struct{}{}
	m.edges[i].Selected = true
	return nil
}

// SelectFace marks a face selected, clearing the selection first
// unless add is set.
func (m *Mesh) SelectFace(id int, add bool) error {
	i, ok := m.faceIndex[id]
	if !ok {
		return &ValidationError{Code: CodeBadFaceRef, Message: "unknown face id", Ref: id}
	}
	if !add {
		m.DeselectAll()
		i = m.faceIndex[id]
	}
	m.selFaces[id] = struct{}{}
	m.faces[i].Selected = true
	return nil
}

// DeselectAll clears all three selection sets and their denormalized
// flags.
func (m *Mesh) DeselectAll() {
	clear(m.selVerts)
	clear(m.selEdges)
	clear(m.selFaces)
	for i := range m.verts {
		m.verts[i].Selected = false
	}
	for i := range m.edges {
		m.edges[i].Selected = false
	}
	for i := range m.faces {
		m.faces[i].Selected = false
	}
}

// SelectAll selects every element of the given granularity, adding to
// the current selection.
func (m *Mesh) SelectAll(mode SelectionMode) {
	switch mode {
	case SelectVertices:
		for i := range m.verts {
			m.selVerts[m.verts[i].ID] = struct{}{}
			m.verts[i].Selected = true
		}
	case SelectEdges:
		for i := range m.edges {
			m.selEdges[m.edges[i].ID] = struct{}{}
			m.edges[i].Selected = true
		}
	case SelectFaces:
		for i := range m.faces {
			m.selFaces[m.faces[i].ID] = struct{}{}
			m.faces[i].Selected = true
		}
	}
}

// InvertSelection flips the selection of every element of the given
// granularity.
func (m *Mesh) InvertSelection(mode SelectionMode) {
	switch mode {
	case SelectVertices:
		for i := range m.verts {
			v := &m.verts[i]
			v.Selected = !v.Selected
			if v.Selected {
				m.selVerts[v.ID] = struct{}{}
			} else {
				delete(m.selVerts, v.ID)
			}
		}
	case SelectEdges:
		for i := range m.edges {
			e := &m.edges[i]
			e.Selected = !e.Selected
			if e.Selected {
				m.selEdges[e.ID] = struct{}{}
			} else {
				delete(m.selEdges, e.ID)
			}
		}
	case SelectFaces:
		for i := range m.faces {
			f := &m.faces[i]
			f.Selected = !f.Selected
			if f.Selected {
				m.selFaces[f.ID] = struct{}{}
			} else {
				delete(m.selFaces, f.ID)
			}
		}
	}
}

// SelectedVertices returns the selected vertex ids, sorted ascending.
func (m *Mesh) SelectedVertices() []int { return sortedIDs(m.selVerts) }

// SelectedEdges returns the selected edge ids, sorted ascending.
func (m *Mesh) SelectedEdges() []int { return sortedIDs(m.selEdges) }

// SelectedFaces returns the selected face ids, sorted ascending.
func (m *Mesh) SelectedFaces() []int { return sortedIDs(m.selFaces) }

func sortedIDs(set map[int]struct{}) []int {
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
