package ops

import (
	"github.com/chazu/burl/pkg/mesh"
)

// MergeVertices collapses all target vertices to their centroid. The
// lowest target id survives at the centroid position; every face ring
// reference to the others is remapped onto it. Faces that degenerate
// below three distinct corners are deleted, and topology and normals
// are rebuilt.
func MergeVertices(m *mesh.Mesh, vertexIDs []int) error {
	const op = "merge-vertices"
	targets := uniqueIDs(vertexIDs)
	if len(targets) < 2 {
		return paramErr(op, "need at least 2 vertices, got %d", len(targets))
	}
	for _, id := range targets {
		if _, ok := m.Vertex(id); !ok {
			return invalidRef(op, "vertex", id)
		}
	}

	work := m.Clone()

	survivor := targets[0]
	var centroid mesh.Vec3
	doomed := make(map[int]struct{}, len(targets)-1)
	for _, id := range targets {
		if id < survivor {
			survivor = id
		}
		v, _ := work.Vertex(id)
		centroid = centroid.Add(v.Position)
	}
	centroid = centroid.Scale(1 / float64(len(targets)))
	for _, id := range targets {
		if id != survivor {
			doomed[id] = struct{}{}
		}
	}

	if err := work.SetVertexPosition(survivor, centroid); err != nil {
		return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
	}
	if err := remapVertices(op, work, doomed, survivor); err != nil {
		return err
	}
	for id := range doomed {
		if err := work.RemoveVertex(id); err != nil {
			return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
		}
	}

	work.BuildTopology()
	work.RecalculateNormals()
	return commit(op, m, work)
}

// remapVertices rewrites every face ring, substituting each doomed
// vertex id with the replacement, collapsing repeats, and deleting
// faces that drop below three distinct corners.
func remapVertices(op string, work *mesh.Mesh, doomed map[int]struct{}, replacement int) error {
	var deadFaces []int
	for _, f := range work.Faces() {
		ring := make([]int, 0, len(f.Vertices))
		changed := false
		for _, vid := range f.Vertices {
			mapped := vid
			if _, hit := doomed[vid]; hit {
				mapped = replacement
				changed = true
			}
			if len(ring) > 0 && ring[len(ring)-1] == mapped {
				continue
			}
			ring = append(ring, mapped)
		}
		if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
			ring = ring[:len(ring)-1]
		}
		if !changed {
			continue
		}
		if distinctCount(ring) < 3 {
			deadFaces = append(deadFaces, f.ID)
			continue
		}
		if err := work.SetFaceRing(f.ID, ring); err != nil {
			return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
		}
	}
	for _, id := range deadFaces {
		if err := work.RemoveFace(id); err != nil {
			return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
		}
	}
	return nil
}

func distinctCount(ids []int) int {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}

// DissolveVertices removes each target vertex and stitches the faces
// around it into a single merged face per vertex. Fails without
// mutating when the faces around a vertex do not form one closed fan
// (removal would disconnect the mesh or leave a hole with more than
// one loop), or when the merged ring would drop below a triangle.
func DissolveVertices(m *mesh.Mesh, vertexIDs []int) error {
	const op = "dissolve-vertices"
	targets := uniqueIDs(vertexIDs)
	if len(targets) == 0 {
		return paramErr(op, "no target vertices")
	}
	for _, id := range targets {
		if _, ok := m.Vertex(id); !ok {
			return invalidRef(op, "vertex", id)
		}
	}

	work := m.Clone()
	for _, vid := range targets {
		if err := dissolveOne(op, work, vid); err != nil {
			return err
		}
	}
	work.BuildTopology()
	work.RecalculateNormals()
	return commit(op, m, work)
}

// dissolveOne removes a single vertex from the work mesh, replacing
// its incident faces with one merged boundary-loop face.
func dissolveOne(op string, work *mesh.Mesh, vid int) error {
	if _, ok := work.Vertex(vid); !ok {
		// A previous dissolve in the same batch already consumed it.
		return topoErr(op, "vertex %d already dissolved by the same batch", vid)
	}
	faceIDs := work.VertexFaces(vid)
	if len(faceIDs) == 0 {
		// Isolated vertex: just drop it.
		return work.RemoveVertex(vid)
	}

	// Collect the directed boundary: every ring segment of the
	// incident faces that does not touch vid. For a clean interior or
	// boundary vertex these chain into exactly one open or closed
	// walk around the hole.
	succ := make(map[int]int)
	for _, fid := range faceIDs {
		f, _ := work.Face(fid)
		ring := f.Vertices
		n := len(ring)
		for i := 0; i < n; i++ {
			a, b := ring[i], ring[(i+1)%n]
			if a == vid || b == vid {
				continue
			}
			if _, dup := succ[a]; dup {
				return topoErr(op, "vertex %d has a non-manifold fan; dissolve would tear the mesh", vid)
			}
			succ[a] = b
		}
	}
	if len(succ) < 3 {
		return topoErr(op, "dissolving vertex %d would leave a face below 3 vertices", vid)
	}
	for _, b := range succ {
		if _, ok := succ[b]; !ok {
			// Open walk: vid sits on the mesh boundary.
			return topoErr(op, "vertex %d is on an open boundary; dissolve would disconnect the mesh", vid)
		}
	}

	// Chain the segments into one loop.
	start := -1
	for a := range succ {
		start = a
		break
	}
	loop := []int{start}
	for cur := succ[start]; cur != start; cur = succ[cur] {
		loop = append(loop, cur)
		if len(loop) > len(succ) {
			return topoErr(op, "faces around vertex %d form multiple loops", vid)
		}
	}
	if len(loop) != len(succ) {
		return topoErr(op, "faces around vertex %d form multiple loops", vid)
	}

	for _, fid := range faceIDs {
		if err := work.RemoveFace(fid); err != nil {
			return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
		}
	}
	if _, err := work.AddFace(loop...); err != nil {
		return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
	}
	return work.RemoveVertex(vid)
}
