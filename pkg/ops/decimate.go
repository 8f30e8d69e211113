package ops

import (
	"context"
	"math"

	"github.com/chazu/burl/pkg/mesh"
)

// DecimateMesh reduces the face count toward ratio (0,1] of the
// original by repeatedly collapsing the shortest collapsible edge to
// its midpoint until the target is reached or no edge can collapse
// without breaking manifoldness. ratio 1.0 is an exact no-op. The
// shortest-edge cost is the documented heuristic; a quadric-error
// metric would slot into edgeCost without changing the loop.
//
// The context is checked once per collapse; on cancellation the mesh
// is left unchanged (the partial work is discarded, never committed).
func DecimateMesh(ctx context.Context, m *mesh.Mesh, ratio float64) error {
	const op = "decimate-mesh"
	if ratio <= 0 || ratio > 1 {
		return paramErr(op, "ratio %g outside (0,1]", ratio)
	}
	if ratio == 1 {
		return nil
	}

	work := m.Clone()
	target := int(math.Ceil(ratio * float64(work.FaceCount())))
	if target < 1 {
		target = 1
	}

	for work.FaceCount() > target {
		if err := ctx.Err(); err != nil {
			return cancelErr(op, err)
		}
		eid, ok := cheapestCollapsibleEdge(work)
		if !ok {
			break // nothing left to collapse safely
		}
		e, _ := work.Edge(eid)
		v1, v2 := e.V1, e.V2
		p1, _ := work.Vertex(v1)
		p2, _ := work.Vertex(v2)
		mid := p1.Position.Lerp(p2.Position, 0.5)

		survivor, doomed := v1, v2
		if doomed < survivor {
			survivor, doomed = doomed, survivor
		}
		if err := work.SetVertexPosition(survivor, mid); err != nil {
			return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
		}
		if err := remapVertices(op, work, map[int]struct{}{doomed: {}}, survivor); err != nil {
			return err
		}
		if err := work.RemoveVertex(doomed); err != nil {
			return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
		}
		work.BuildTopology()
	}

	work.RemoveUnusedVertices()
	work.RecalculateNormals()
	return commit(op, m, work)
}

// cheapestCollapsibleEdge returns the id of the shortest edge whose
// collapse preserves manifoldness, per the link condition: the two
// endpoints may share at most two neighboring vertices (the opposite
// corners of the faces flanking the edge).
func cheapestCollapsibleEdge(m *mesh.Mesh) (int, bool) {
	best := -1
	bestLen := math.Inf(1)
	for _, e := range m.Edges() {
		if !collapsePreservesManifold(m, &e) {
			continue
		}
		v1, _ := m.Vertex(e.V1)
		v2, _ := m.Vertex(e.V2)
		l := v1.Position.Sub(v2.Position).Length()
		if l < bestLen {
			best, bestLen = e.ID, l
		}
	}
	return best, best >= 0
}

func collapsePreservesManifold(m *mesh.Mesh, e *mesh.Edge) bool {
	if len(e.Faces) > 2 {
		return false
	}
	n1 := m.AdjacentVertices(e.V1)
	n2 := m.AdjacentVertices(e.V2)
	set := make(map[int]struct{}, len(n1))
	for _, v := range n1 {
		set[v] = struct{}{}
	}
	shared := 0
	for _, v := range n2 {
		if _, ok := set[v]; ok {
			shared++
		}
	}
	return shared <= len(e.Faces)
}
