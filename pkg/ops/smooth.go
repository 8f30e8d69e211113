package ops

import (
	"context"

	"github.com/chazu/burl/pkg/mesh"
)

// DefaultSmoothFactor is the blend used by interactive smoothing.
const DefaultSmoothFactor = 0.5

// SmoothMesh applies Laplacian smoothing: every vertex position is
// blended toward the average of its topologically adjacent vertices by
// factor (0 = no change, 1 = full replacement), repeated iterations
// times. Topology never changes; all positions within one iteration
// are computed from the previous iteration's state. Vertices with no
// edges stay put.
//
// The context is checked once per iteration.
func SmoothMesh(ctx context.Context, m *mesh.Mesh, iterations int, factor float64) error {
	const op = "smooth-mesh"
	if iterations < 1 {
		return paramErr(op, "iterations must be >= 1, got %d", iterations)
	}
	if factor < 0 || factor > 1 {
		return paramErr(op, "factor %g outside [0,1]", factor)
	}

	work := m.Clone()

	// Adjacency is stable for the whole run; build it once.
	neighbors := make(map[int][]int, work.VertexCount())
	for _, e := range work.Edges() {
		neighbors[e.V1] = append(neighbors[e.V1], e.V2)
		neighbors[e.V2] = append(neighbors[e.V2], e.V1)
	}

	for it := 0; it < iterations; it++ {
		if err := ctx.Err(); err != nil {
			return cancelErr(op, err)
		}
		next := make(map[int]mesh.Vec3, work.VertexCount())
		for _, v := range work.Vertices() {
			ns := neighbors[v.ID]
			if len(ns) == 0 {
				next[v.ID] = v.Position
				continue
			}
			var avg mesh.Vec3
			for _, nid := range ns {
				nv, _ := work.Vertex(nid)
				avg = avg.Add(nv.Position)
			}
			avg = avg.Scale(1 / float64(len(ns)))
			next[v.ID] = v.Position.Lerp(avg, factor)
		}
		for id, p := range next {
			if err := work.SetVertexPosition(id, p); err != nil {
				return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
			}
		}
	}

	work.RecalculateNormals()
	return commit(op, m, work)
}
