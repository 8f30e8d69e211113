// Package mesh implements an editable polygon mesh: vertices, edges and
// faces referencing each other by integer id, with adjacency derived by
// scanning rather than stored half-edge pointers. Faces are general
// polygons; triangulation happens only in the renderer-facing view.
//
// Ids are monotonic per mesh and never reused, so a stale id held by an
// outside party (a selection, an undo record) fails loudly instead of
// silently aliasing a newer element.
package mesh

// Vertex is a mesh corner. Position and the aggregated normal are in
// model space. The normal is the unweighted average of adjacent face
// normals, maintained by RecalculateNormals.
type Vertex struct {
	Position Vec3 `json:"position"`
	Normal   Vec3 `json:"normal"`
	ID       int  `json:"id"`
	Selected bool `json:"selected"`
}

// Edge is an undirected vertex pair derived from the face list. V1 < V2
// always (canonical order, so (a,b) and (b,a) are the same edge). Faces
// lists the ids of adjacent faces: one for a boundary edge, two for a
// manifold interior edge, more for non-manifold geometry.
type Edge struct {
	V1       int   `json:"v1"`
	V2       int   `json:"v2"`
	ID       int   `json:"id"`
	Selected bool  `json:"selected"`
	Faces    []int `json:"faces"`
}

// Face is an ordered ring of at least three vertex ids plus a single
// face normal. Rings wind counter-clockwise when viewed from outside.
type Face struct {
	Vertices []int `json:"vertices"`
	Normal   Vec3  `json:"normal"`
	ID       int   `json:"id"`
	Selected bool  `json:"selected"`
}

// Triangle is a raw input triangle used when building a mesh from
// tessellator or kernel output.
type Triangle struct {
	V0, V1, V2 Vec3
	Normal     Vec3
}

// Mesh owns the vertex, edge and face collections plus the selection
// sets. A Mesh is not safe for concurrent mutation; callers that share
// a mesh across goroutines must serialize writers and keep readers out
// during mutation (scene.Object provides that contract).
type Mesh struct {
	verts []Vertex
	edges []Edge
	faces []Face

	vertIndex map[int]int // id -> index into verts
	edgeIndex map[int]int
	faceIndex map[int]int

	selVerts map[int]struct{}
	selEdges map[int]struct{}
	selFaces map[int]struct{}

	nextVertID int
	nextEdgeID int
	nextFaceID int
}

// New returns an empty mesh.
func New() *Mesh {
	return &Mesh{
		vertIndex: make(map[int]int),
		edgeIndex: make(map[int]int),
		faceIndex: make(map[int]int),
		selVerts:  make(map[int]struct{}),
		selEdges:  make(map[int]struct{}),
		selFaces:  make(map[int]struct{}),
	}
}

// NewLike returns an empty mesh whose id counters continue from m's,
// so an operator that rebuilds a mesh wholesale (subdivision surfaces)
// can commit the replacement without ever reissuing an id the original
// mesh handed out.
func NewLike(m *Mesh) *Mesh {
	c := New()
	c.nextVertID = m.nextVertID
	c.nextEdgeID = m.nextEdgeID
	c.nextFaceID = m.nextFaceID
	return c
}

// FromTriangles builds a mesh from a flat triangle list. Each triangle
// contributes three fresh vertices and one face; no vertex sharing is
// inferred (use RemoveDuplicateVertices afterwards to weld). Always
// succeeds.
func FromTriangles(tris []Triangle) *Mesh {
	m := New()
	for _, t := range tris {
		a := m.AddVertex(t.V0)
		b := m.AddVertex(t.V1)
		c := m.AddVertex(t.V2)
		id, _ := m.AddFace(a, b, c)
		if t.Normal != (Vec3{}) {
			m.faces[m.faceIndex[id]].Normal = t.Normal
		}
	}
	m.BuildTopology()
	m.RecalculateNormals()
	return m
}

// FromGeometry builds a mesh from deduplicated points and face index
// rings (indices into points, 0-based, polygons allowed). Returns an
// error if any ring references an out-of-range point or has fewer than
// three entries.
func FromGeometry(points []Vec3, rings [][]int) (*Mesh, error) {
	m := New()
	ids := make([]int, len(points))
	for i, p := range points {
		ids[i] = m.AddVertex(p)
	}
	for fi, ring := range rings {
		if len(ring) < 3 {
			return nil, &ValidationError{
				Code:    CodeDegenerateFace,
				Message: "face has fewer than 3 vertices",
				FaceID:  fi,
			}
		}
		mapped := make([]int, len(ring))
		for j, idx := range ring {
			if idx < 0 || idx >= len(points) {
				return nil, &ValidationError{
					Code:    CodeBadVertexRef,
					Message: "face references out-of-range vertex index",
					FaceID:  fi,
					Ref:     idx,
				}
			}
			mapped[j] = ids[idx]
		}
		if _, err := m.AddFace(mapped...); err != nil {
			return nil, err
		}
	}
	m.BuildTopology()
	m.RecalculateNormals()
	return m, nil
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int { return len(m.verts) }

// EdgeCount returns the number of derived edges.
func (m *Mesh) EdgeCount() int { return len(m.edges) }

// FaceCount returns the number of faces.
func (m *Mesh) FaceCount() int { return len(m.faces) }

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool { return len(m.verts) == 0 }

// Vertices returns the vertex collection. The slice is owned by the
// mesh; callers must treat it as read-only.
func (m *Mesh) Vertices() []Vertex { return m.verts }

// Edges returns the derived edge collection, read-only.
func (m *Mesh) Edges() []Edge { return m.edges }

// Faces returns the face collection, read-only.
func (m *Mesh) Faces() []Face { return m.faces }

// Vertex returns the vertex with the given id. The pointer is only
// valid until the next mutation.
func (m *Mesh) Vertex(id int) (*Vertex, bool) {
	i, ok := m.vertIndex[id]
	if !ok {
		return nil, false
	}
	return &m.verts[i], true
}

// Edge returns the edge with the given id.
func (m *Mesh) Edge(id int) (*Edge, bool) {
	i, ok := m.edgeIndex[id]
	if !ok {
		return nil, false
	}
	return &m.edges[i], true
}

// Face returns the face with the given id.
func (m *Mesh) Face(id int) (*Face, bool) {
	i, ok := m.faceIndex[id]
	if !ok {
		return nil, false
	}
	return &m.faces[i], true
}

// AddVertex appends a vertex at the given position and returns its id.
func (m *Mesh) AddVertex(pos Vec3) int {
	id := m.nextVertID
	m.nextVertID++
	m.vertIndex[id] = len(m.verts)
	m.verts = append(m.verts, Vertex{Position: pos, ID: id})
	return id
}

// SetVertexPosition moves a vertex. Normals are not recomputed.
func (m *Mesh) SetVertexPosition(id int, pos Vec3) error {
	i, ok := m.vertIndex[id]
	if !ok {
		return &ValidationError{Code: CodeBadVertexRef, Message: "unknown vertex id", Ref: id}
	}
	m.verts[i].Position = pos
	return nil
}

// AddFace appends a face with the given vertex ring and returns its id.
// Fails if the ring has fewer than three entries or references an
// unknown vertex. The edge list is not updated; call BuildTopology
// after a batch of face edits.
func (m *Mesh) AddFace(ring ...int) (int, error) {
	if len(ring) < 3 {
		return -1, &ValidationError{Code: CodeDegenerateFace, Message: "face has fewer than 3 vertices"}
	}
	for _, vid := range ring {
		if _, ok := m.vertIndex[vid]; !ok {
			return -1, &ValidationError{Code: CodeBadVertexRef, Message: "unknown vertex id", Ref: vid}
		}
	}
	id := m.nextFaceID
	m.nextFaceID++
	m.faceIndex[id] = len(m.faces)
	m.faces = append(m.faces, Face{Vertices: append([]int(nil), ring...), ID: id})
	return id, nil
}

// SetFaceRing replaces a face's vertex ring in place, keeping its id.
func (m *Mesh) SetFaceRing(id int, ring []int) error {
	i, ok := m.faceIndex[id]
	if !ok {
		return &ValidationError{Code: CodeBadFaceRef, Message: "unknown face id", Ref: id}
	}
	if len(ring) < 3 {
		return &ValidationError{Code: CodeDegenerateFace, Message: "face has fewer than 3 vertices", FaceID: id}
	}
	for _, vid := range ring {
		if _, ok := m.vertIndex[vid]; !ok {
			return &ValidationError{Code: CodeBadVertexRef, Message: "unknown vertex id", FaceID: id, Ref: vid}
		}
	}
	m.faces[i].Vertices = append([]int(nil), ring...)
	return nil
}

// RemoveFace deletes a face and drops it from the selection. The edge
// list is stale afterwards until BuildTopology runs.
func (m *Mesh) RemoveFace(id int) error {
	i, ok := m.faceIndex[id]
	if !ok {
		return &ValidationError{Code: CodeBadFaceRef, Message: "unknown face id", Ref: id}
	}
	last := len(m.faces) - 1
	moved := m.faces[last]
	m.faces[i] = moved
	m.faces = m.faces[:last]
	m.faceIndex[moved.ID] = i
	delete(m.faceIndex, id)
	delete(m.selFaces, id)
	return nil
}

// RemoveVertex deletes a vertex and drops it from the selection. The
// caller is responsible for having removed or remapped every face that
// referenced it; a dangling reference shows up in the next IsValid.
func (m *Mesh) RemoveVertex(id int) error {
	i, ok := m.vertIndex[id]
	if !ok {
		return &ValidationError{Code: CodeBadVertexRef, Message: "unknown vertex id", Ref: id}
	}
	last := len(m.verts) - 1
	moved := m.verts[last]
	m.verts[i] = moved
	m.verts = m.verts[:last]
	m.vertIndex[moved.ID] = i
	delete(m.vertIndex, id)
	delete(m.selVerts, id)
	return nil
}

// BoundingBox returns the componentwise min and max over all vertex
// positions. An empty mesh reports the origin for both corners; that is
// the documented degenerate case, not an error.
func (m *Mesh) BoundingBox() (min, max Vec3) {
	if len(m.verts) == 0 {
		return Vec3{}, Vec3{}
	}
	min = m.verts[0].Position
	max = min
	for _, v := range m.verts[1:] {
		min = min.Min(v.Position)
		max = max.Max(v.Position)
	}
	return min, max
}

// Clone returns a deep copy sharing no state with the receiver,
// including id counters, so a clone mutated and committed back keeps
// the never-reuse-ids guarantee.
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		verts:      append([]Vertex(nil), m.verts...),
		edges:      make([]Edge, len(m.edges)),
		faces:      make([]Face, len(m.faces)),
		vertIndex:  make(map[int]int, len(m.vertIndex)),
		edgeIndex:  make(map[int]int, len(m.edgeIndex)),
		faceIndex:  make(map[int]int, len(m.faceIndex)),
		selVerts:   make(map[int]struct{}, len(m.selVerts)),
		selEdges:   make(map[int]struct{}, len(m.selEdges)),
		selFaces:   make(map[int]struct{}, len(m.selFaces)),
		nextVertID: m.nextVertID,
		nextEdgeID: m.nextEdgeID,
		nextFaceID: m.nextFaceID,
	}
	for i, e := range m.edges {
		e.Faces = append([]int(nil), e.Faces...)
		c.edges[i] = e
	}
	for i, f := range m.faces {
		f.Vertices = append([]int(nil), f.Vertices...)
		c.faces[i] = f
	}
	for k, v := range m.vertIndex {
		c.vertIndex[k] = v
	}
	for k, v := range m.edgeIndex {
		c.edgeIndex[k] = v
	}
	for k, v := range m.faceIndex {
		c.faceIndex[k] = v
	}
	for k := range m.selVerts {
		c.selVerts[k] = struct{}{}
	}
	for k := range m.selEdges {
		c.selEdges[k] = struct{}{}
	}
	for k := range m.selFaces {
		c.selFaces[k] = struct{}{}
	}
	return c
}

// CopyFrom replaces the receiver's entire state with src's. Used by
// operators to commit a mutated clone atomically.
func (m *Mesh) CopyFrom(src *Mesh) {
	*m = *src
}
