package ops

import (
	"github.com/chazu/burl/pkg/mesh"
)

// InsetFaces shrinks each target face toward its centroid by amount
// (fraction of the vertex-to-centroid distance, exclusive (0,1)) and
// connects the outer ring to the inner ring with one quad per edge.
// The original face keeps its id on the inner ring.
//
// For convex faces the inner ring cannot self-intersect inside (0,1).
// Non-convex faces are accepted but the inner ring may fold; callers
// that need a guarantee must pre-triangulate or restrict selection to
// convex faces. Known limitation, kept to match the editor semantics.
func InsetFaces(m *mesh.Mesh, faceIDs []int, amount float64) error {
	const op = "inset-faces"
	if len(faceIDs) == 0 {
		return paramErr(op, "no target faces")
	}
	if amount <= 0 || amount >= 1 {
		return paramErr(op, "inset amount %g outside (0,1)", amount)
	}
	targets := uniqueIDs(faceIDs)
	for _, id := range targets {
		if _, ok := m.Face(id); !ok {
			return invalidRef(op, "face", id)
		}
	}

	work := m.Clone()
	for _, fid := range targets {
		f, _ := work.Face(fid)
		ring := append([]int(nil), f.Vertices...)
		centroid, err := work.FaceCentroid(fid)
		if err != nil {
			return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
		}

		inner := make([]int, len(ring))
		for i, vid := range ring {
			v, _ := work.Vertex(vid)
			inner[i] = work.AddVertex(v.Position.Lerp(centroid, amount))
		}

		if err := work.SetFaceRing(fid, inner); err != nil {
			return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
		}
		n := len(ring)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			if _, err := work.AddFace(ring[i], ring[j], inner[j], inner[i]); err != nil {
				return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
			}
		}
	}
	work.BuildTopology()
	work.RecalculateNormals()
	return commit(op, m, work)
}
