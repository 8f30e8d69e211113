package mesh

import "math"

// DefaultWeldTolerance is the merge distance used by STL import.
const DefaultWeldTolerance = 1e-6

// RemoveDuplicateVertices welds vertices closer than tol together,
// remapping face rings to the surviving (lowest-id) vertex and
// deleting faces that degenerate below three distinct corners. Returns
// the number of vertices removed. Topology and normals are rebuilt.
//
// Welding snaps positions to a tol-sized grid, so two vertices within
// tol of each other but straddling a grid boundary can occasionally
// survive; that matches the usual mesh-import behavior and keeps the
// pass O(n).
func (m *Mesh) RemoveDuplicateVertices(tol float64) int {
	if tol <= 0 {
		tol = DefaultWeldTolerance
	}
	type cell struct{ x, y, z int64 }
	quant := func(p Vec3) cell {
		return cell{
			x: int64(math.Round(p.X / tol)),
			y: int64(math.Round(p.Y / tol)),
			z: int64(math.Round(p.Z / tol)),
		}
	}

	survivor := make(map[cell]int, len(m.verts))
	remap := make(map[int]int, len(m.verts))
	var doomed []int
	for i := range m.verts {
		v := &m.verts[i]
		c := quant(v.Position)
		if keep, ok := survivor[c]; ok {
			remap[v.ID] = keep
			doomed = append(doomed, v.ID)
			continue
		}
		survivor[c] = v.ID
		remap[v.ID] = v.ID
	}
	if len(doomed) == 0 {
		return 0
	}

	var deadFaces []int
	for i := range m.faces {
		f := &m.faces[i]
		ring := make([]int, 0, len(f.Vertices))
		for _, vid := range f.Vertices {
			mapped := remap[vid]
			if len(ring) > 0 && ring[len(ring)-1] == mapped {
				continue
			}
			ring = append(ring, mapped)
		}
		if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
			ring = ring[:len(ring)-1]
		}
		if countDistinct(ring) < 3 {
			deadFaces = append(deadFaces, f.ID)
			continue
		}
		f.Vertices = ring
	}
	for _, id := range deadFaces {
		m.RemoveFace(id)
	}
	for _, id := range doomed {
		m.RemoveVertex(id)
	}

	m.BuildTopology()
	m.RecalculateNormals()
	return len(doomed)
}

// RemoveUnusedVertices deletes vertices no face references. Returns
// the number removed. Topology is rebuilt when anything was deleted.
func (m *Mesh) RemoveUnusedVertices() int {
	used := make(map[int]struct{}, len(m.verts))
	for i := range m.faces {
		for _, vid := range m.faces[i].Vertices {
			used[vid] = struct{}{}
		}
	}
	var doomed []int
	for i := range m.verts {
		if _, ok := used[m.verts[i].ID]; !ok {
			doomed = append(doomed, m.verts[i].ID)
		}
	}
	for _, id := range doomed {
		m.RemoveVertex(id)
	}
	if len(doomed) > 0 {
		m.BuildTopology()
	}
	return len(doomed)
}

func countDistinct(ids []int) int {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
