package ops

import (
	"github.com/chazu/burl/pkg/mesh"
)

// ExtrudeFaces offsets each target face along direction by distance.
// The original face keeps its id but is moved onto a duplicated vertex
// ring, and one side quad per ring edge connects the old ring to the
// new one, preserving outward winding. Adjacent selected faces are
// extruded independently, each with its own side walls (interior walls
// between two selected faces are not suppressed; that matches the
// per-face semantics of the editor this engine serves).
//
// distance zero is legal and produces a zero-thickness rim, which is
// what interactive extrude tools start from before the user drags.
func ExtrudeFaces(m *mesh.Mesh, faceIDs []int, direction mesh.Vec3, distance float64) error {
	const op = "extrude-faces"
	if len(faceIDs) == 0 {
		return paramErr(op, "no target faces")
	}
	if distance < 0 {
		return paramErr(op, "negative distance %g", distance)
	}
	dir := direction.Normalized()
	if dir == (mesh.Vec3{}) {
		return paramErr(op, "zero direction vector")
	}
	for _, id := range uniqueIDs(faceIDs) {
		if _, ok := m.Face(id); !ok {
			return invalidRef(op, "face", id)
		}
	}

	work := m.Clone()
	offset := dir.Scale(distance)
	for _, fid := range uniqueIDs(faceIDs) {
		f, _ := work.Face(fid)
		ring := append([]int(nil), f.Vertices...)

		// Duplicate the ring, offset.
		lifted := make([]int, len(ring))
		for i, vid := range ring {
			v, _ := work.Vertex(vid)
			lifted[i] = work.AddVertex(v.Position.Add(offset))
		}

		// The face moves onto the lifted ring, keeping its id (and
		// therefore its selection state).
		if err := work.SetFaceRing(fid, lifted); err != nil {
			return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
		}

		// One side quad per original ring edge, wound outward.
		n := len(ring)
		for i := 0; i < n; i++ {
			j := (i + 1) % n
			if _, err := work.AddFace(ring[i], ring[j], lifted[j], lifted[i]); err != nil {
				return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
			}
		}
	}
	work.BuildTopology()
	work.RecalculateNormals()
	return commit(op, m, work)
}

// ExtrudeEdges duplicates each target edge offset along direction and
// connects old and new edges with one quad each, growing a fin or
// extending an open boundary. Edges are extruded independently;
// vertices shared between two target edges are duplicated once.
func ExtrudeEdges(m *mesh.Mesh, edgeIDs []int, direction mesh.Vec3, distance float64) error {
	const op = "extrude-edges"
	if len(edgeIDs) == 0 {
		return paramErr(op, "no target edges")
	}
	if distance < 0 {
		return paramErr(op, "negative distance %g", distance)
	}
	dir := direction.Normalized()
	if dir == (mesh.Vec3{}) {
		return paramErr(op, "zero direction vector")
	}
	targets := uniqueIDs(edgeIDs)
	for _, id := range targets {
		if _, ok := m.Edge(id); !ok {
			return invalidRef(op, "edge", id)
		}
	}

	work := m.Clone()
	offset := dir.Scale(distance)
	lifted := make(map[int]int) // original vertex id -> offset duplicate
	lift := func(vid int) int {
		if dup, ok := lifted[vid]; ok {
			return dup
		}
		v, _ := work.Vertex(vid)
		dup := work.AddVertex(v.Position.Add(offset))
		lifted[vid] = dup
		return dup
	}
	for _, eid := range targets {
		e, _ := work.Edge(eid)
		v1, v2 := e.V1, e.V2
		if _, err := work.AddFace(v1, v2, lift(v2), lift(v1)); err != nil {
			return &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
		}
	}
	work.BuildTopology()
	work.RecalculateNormals()
	return commit(op, m, work)
}
