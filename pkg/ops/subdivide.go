package ops

import (
	"github.com/chazu/burl/pkg/mesh"
)

// SubdivideEdges inserts a midpoint vertex on each target edge and
// splices it into the ring of every adjacent face. A shared edge is
// split exactly once no matter how many of its faces are involved.
// Faces stay general polygons (a quad with all four edges split
// becomes an octagon); no face points are introduced. That richer
// scheme is Subdivide with SchemeCatmullClark.
func SubdivideEdges(m *mesh.Mesh, edgeIDs []int) error {
	const op = "subdivide-edges"
	if len(edgeIDs) == 0 {
		return paramErr(op, "no target edges")
	}
	targets := uniqueIDs(edgeIDs)
	for _, id := range targets {
		if _, ok := m.Edge(id); !ok {
			return invalidRef(op, "edge", id)
		}
	}

	work := m.Clone()

	// One midpoint per target edge, keyed on the canonical vertex pair
	// so the face-ring walk below can find it.
	type pair struct{ lo, hi int }
	canon := func(a, b int) pair {
		if a > b {
			a, b = b, a
		}
		return pair{a, b}
	}
	midpoints := make(map[pair]int, len(targets))
	for _, eid := range targets {
		e, _ := work.Edge(eid)
		v1, _ := work.Vertex(e.V1)
		v2, _ := work.Vertex(e.V2)
		mid := work.AddVertex(v1.Position.Lerp(v2.Position, 0.5))
		midpoints[canon(e.V1, e.V2)] = mid
	}

	// Splice midpoints into every face ring that uses a split edge.
	for _, f := range work.Faces() {
		ring := f.Vertices
		var out []int
		touched := false
		for i := 0; i < len(ring); i++ {
			j := (i + 1) % len(ring)
			out = append(out, ring[i])
			if mid, ok := midpoints[canon(ring[i], ring[j])]; ok {
				out = append(out, mid)
				touched = true
			}
		}
		if touched {
			if err := work.SetFaceRing(f.ID, out); err != nil {
				return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
			}
		}
	}

	work.BuildTopology()
	work.RecalculateNormals()
	return commit(op, m, work)
}

// SubdivideSelected subdivides the mesh's currently selected edges.
func SubdivideSelected(m *mesh.Mesh) error {
	sel := m.SelectedEdges()
	if len(sel) == 0 {
		return paramErr("subdivide-selected", "no edges selected")
	}
	return SubdivideEdges(m, sel)
}
