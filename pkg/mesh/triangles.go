package mesh

import (
	"github.com/chewxy/math32"
)

// TriangleMesh is the renderer-facing triangle view of a polygon mesh.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
// It is a snapshot; later mesh edits do not show through.
type TriangleMesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	Name     string    `json:"name"`     // which scene object this came from
}

// VertexCount returns the number of vertices.
func (t *TriangleMesh) VertexCount() int { return len(t.Vertices) / 3 }

// TriangleCount returns the number of triangles.
func (t *TriangleMesh) TriangleCount() int { return len(t.Indices) / 3 }

// IsEmpty returns true if the view has no geometry.
func (t *TriangleMesh) IsEmpty() bool { return len(t.Vertices) == 0 }

// Triangles builds a triangle view of the mesh. Polygon faces are fan
// triangulated from their first ring vertex; that is exact for convex
// faces and a documented approximation for non-convex ones. Vertex
// normals come from the last RecalculateNormals run and are
// re-normalized in float32 to absorb the precision drop.
func (m *Mesh) Triangles() *TriangleMesh {
	t := &TriangleMesh{
		Vertices: make([]float32, 0, len(m.verts)*3),
		Normals:  make([]float32, 0, len(m.verts)*3),
	}

	renderIndex := make(map[int]uint32, len(m.verts))
	for i := range m.verts {
		v := &m.verts[i]
		renderIndex[v.ID] = uint32(i)
		t.Vertices = append(t.Vertices,
			float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z))
		nx := float32(v.Normal.X)
		ny := float32(v.Normal.Y)
		nz := float32(v.Normal.Z)
		if l := math32.Sqrt(nx*nx + ny*ny + nz*nz); l > 1e-12 {
			nx, ny, nz = nx/l, ny/l, nz/l
		}
		t.Normals = append(t.Normals, nx, ny, nz)
	}

	for i := range m.faces {
		ring := m.faces[i].Vertices
		for j := 1; j+1 < len(ring); j++ {
			t.Indices = append(t.Indices,
				renderIndex[ring[0]], renderIndex[ring[j]], renderIndex[ring[j+1]])
		}
	}
	return t
}

// FanTriangles returns the face fan triangulated as vertex-id triples.
// Shared by the renderer view, STL export and the volume integral.
func (m *Mesh) FanTriangles(f *Face) [][3]int {
	ring := f.Vertices
	if len(ring) < 3 {
		return nil
	}
	out := make([][3]int, 0, len(ring)-2)
	for j := 1; j+1 < len(ring); j++ {
		out = append(out, [3]int{ring[0], ring[j], ring[j+1]})
	}
	return out
}
