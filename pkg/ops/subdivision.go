package ops

import (
	"context"
	"math"

	"github.com/chazu/burl/pkg/mesh"
)

// Scheme selects the subdivision surface algorithm.
type Scheme int

const (
	// SchemeCatmullClark handles general polygon meshes; every face
	// becomes one quad per corner.
	SchemeCatmullClark Scheme = iota
	// SchemeLoop handles triangle meshes only; every triangle becomes
	// four.
	SchemeLoop
)

func (s Scheme) String() string {
	switch s {
	case SchemeCatmullClark:
		return "catmull-clark"
	case SchemeLoop:
		return "loop"
	default:
		return "unknown"
	}
}

// Subdivide applies levels rounds of the chosen subdivision surface
// scheme. One Catmull-Clark level on a cube yields 26 vertices: the 8
// repositioned originals, 12 edge points and 6 face points. The
// context is checked once per level.
func Subdivide(ctx context.Context, m *mesh.Mesh, levels int, scheme Scheme) error {
	const op = "subdivision-surface"
	if levels < 1 {
		return paramErr(op, "levels must be >= 1, got %d", levels)
	}
	if scheme == SchemeLoop {
		for _, f := range m.Faces() {
			if len(f.Vertices) != 3 {
				return paramErr(op, "loop scheme requires a triangle mesh; face %d has %d vertices", f.ID, len(f.Vertices))
			}
		}
	}

	work := m.Clone()
	for level := 0; level < levels; level++ {
		if err := ctx.Err(); err != nil {
			return cancelErr(op, err)
		}
		var next *mesh.Mesh
		var err error
		switch scheme {
		case SchemeCatmullClark:
			next, err = catmullClarkOnce(work)
		case SchemeLoop:
			next, err = loopOnce(work)
		default:
			return paramErr(op, "unknown scheme %d", scheme)
		}
		if err != nil {
			return err
		}
		next.BuildTopology()
		work = next
	}
	work.RecalculateNormals()
	return commit(op, m, work)
}

// edgeRecord carries the per-edge data one subdivision pass needs.
type edgeRecord struct {
	v1, v2   int
	faces    []int
	midpoint mesh.Vec3
}

// gatherEdges indexes the mesh's derived edges by canonical vertex
// pair.
func gatherEdges(m *mesh.Mesh) map[[2]int]*edgeRecord {
	out := make(map[[2]int]*edgeRecord, m.EdgeCount())
	for _, e := range m.Edges() {
		a, _ := m.Vertex(e.V1)
		b, _ := m.Vertex(e.V2)
		out[[2]int{e.V1, e.V2}] = &edgeRecord{
			v1:       e.V1,
			v2:       e.V2,
			faces:    append([]int(nil), e.Faces...),
			midpoint: a.Position.Lerp(b.Position, 0.5),
		}
	}
	return out
}

func canonPair(a, b int) [2]int {
	if a > b {
		a, b = b, a
	}
	return [2]int{a, b}
}

// catmullClarkOnce applies one Catmull-Clark pass, producing a
// replacement mesh (id counters continued from src).
func catmullClarkOnce(src *mesh.Mesh) (*mesh.Mesh, error) {
	const op = "subdivision-surface"

	facePoints := make(map[int]mesh.Vec3, src.FaceCount())
	for _, f := range src.Faces() {
		c, err := src.FaceCentroid(f.ID)
		if err != nil {
			return nil, &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
		}
		facePoints[f.ID] = c
	}

	edges := gatherEdges(src)
	edgePoints := make(map[[2]int]mesh.Vec3, len(edges))
	for key, e := range edges {
		if len(e.faces) == 2 {
			fp := facePoints[e.faces[0]].Add(facePoints[e.faces[1]])
			edgePoints[key] = e.midpoint.Scale(2).Add(fp).Scale(0.25)
		} else {
			// Boundary (or non-manifold) edge: plain midpoint.
			edgePoints[key] = e.midpoint
		}
	}

	// Repositioned original vertices.
	newPos := make(map[int]mesh.Vec3, src.VertexCount())
	for _, v := range src.Vertices() {
		incident := make([]*edgeRecord, 0, 6)
		boundary := make([]*edgeRecord, 0, 2)
		for _, e := range edges {
			if e.v1 != v.ID && e.v2 != v.ID {
				continue
			}
			incident = append(incident, e)
			if len(e.faces) == 1 {
				boundary = append(boundary, e)
			}
		}
		switch {
		case len(incident) == 0:
			newPos[v.ID] = v.Position
		case len(boundary) > 0:
			// Crease rule: blend with the boundary edge midpoints only.
			sum := v.Position.Scale(float64(len(boundary)) * 3)
			for _, e := range boundary {
				sum = sum.Add(e.midpoint)
			}
			newPos[v.ID] = sum.Scale(1 / float64(len(boundary)*4))
		default:
			faces := src.VertexFaces(v.ID)
			n := float64(len(faces))
			var favg mesh.Vec3
			for _, fid := range faces {
				favg = favg.Add(facePoints[fid])
			}
			favg = favg.Scale(1 / n)
			var ravg mesh.Vec3
			for _, e := range incident {
				ravg = ravg.Add(e.midpoint)
			}
			ravg = ravg.Scale(1 / float64(len(incident)))
			newPos[v.ID] = favg.Add(ravg.Scale(2)).Add(v.Position.Scale(n - 3)).Scale(1 / n)
		}
	}

	dst := mesh.NewLike(src)
	vertIDs := make(map[int]int, len(newPos))
	for _, v := range src.Vertices() {
		vertIDs[v.ID] = dst.AddVertex(newPos[v.ID])
	}
	edgeIDs := make(map[[2]int]int, len(edgePoints))
	for key, p := range edgePoints {
		edgeIDs[key] = dst.AddVertex(p)
	}
	faceIDs := make(map[int]int, len(facePoints))
	for _, f := range src.Faces() {
		faceIDs[f.ID] = dst.AddVertex(facePoints[f.ID])
	}

	// One quad per face corner: vertex point, next edge point, face
	// point, previous edge point.
	for _, f := range src.Faces() {
		ring := f.Vertices
		n := len(ring)
		for i := 0; i < n; i++ {
			v := ring[i]
			next := ring[(i+1)%n]
			prev := ring[(i-1+n)%n]
			eNext, okN := edgeIDs[canonPair(v, next)]
			ePrev, okP := edgeIDs[canonPair(prev, v)]
			if !okN || !okP {
				return nil, &OpError{Op: op, Kind: KindInternal, Message: "missing edge point during catmull-clark pass"}
			}
			if _, err := dst.AddFace(vertIDs[v], eNext, faceIDs[f.ID], ePrev); err != nil {
				return nil, &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
			}
		}
	}
	return dst, nil
}

// loopOnce applies one Loop pass to a triangle mesh.
func loopOnce(src *mesh.Mesh) (*mesh.Mesh, error) {
	const op = "subdivision-surface"

	edges := gatherEdges(src)

	// faceThird finds the vertex of face fid not on edge (a,b).
	faceThird := func(fid, a, b int) (int, bool) {
		f, ok := src.Face(fid)
		if !ok {
			return 0, false
		}
		for _, v := range f.Vertices {
			if v != a && v != b {
				return v, true
			}
		}
		return 0, false
	}

	edgePoints := make(map[[2]int]mesh.Vec3, len(edges))
	for key, e := range edges {
		if len(e.faces) == 2 {
			c, okC := faceThird(e.faces[0], e.v1, e.v2)
			d, okD := faceThird(e.faces[1], e.v1, e.v2)
			if !okC || !okD {
				return nil, &OpError{Op: op, Kind: KindInternal, Message: "missing opposite vertex during loop pass"}
			}
			a, _ := src.Vertex(e.v1)
			b, _ := src.Vertex(e.v2)
			cv, _ := src.Vertex(c)
			dv, _ := src.Vertex(d)
			edgePoints[key] = a.Position.Add(b.Position).Scale(3.0 / 8.0).
				Add(cv.Position.Add(dv.Position).Scale(1.0 / 8.0))
		} else {
			edgePoints[key] = e.midpoint
		}
	}

	newPos := make(map[int]mesh.Vec3, src.VertexCount())
	for _, v := range src.Vertices() {
		var neighbors []int
		var boundaryNeighbors []int
		for _, e := range edges {
			other := -1
			switch v.ID {
			case e.v1:
				other = e.v2
			case e.v2:
				other = e.v1
			}
			if other < 0 {
				continue
			}
			neighbors = append(neighbors, other)
			if len(e.faces) == 1 {
				boundaryNeighbors = append(boundaryNeighbors, other)
			}
		}
		switch {
		case len(neighbors) == 0:
			newPos[v.ID] = v.Position
		case len(boundaryNeighbors) > 0:
			sum := v.Position.Scale(3.0 / 4.0)
			for _, nid := range boundaryNeighbors {
				nv, _ := src.Vertex(nid)
				sum = sum.Add(nv.Position.Scale(1.0 / (4.0 * float64(len(boundaryNeighbors)))))
			}
			newPos[v.ID] = sum
		default:
			n := float64(len(neighbors))
			inner := 3.0/8.0 + math.Cos(2*math.Pi/n)/4.0
			beta := (5.0/8.0 - inner*inner) / n
			sum := v.Position.Scale(1 - n*beta)
			for _, nid := range neighbors {
				nv, _ := src.Vertex(nid)
				sum = sum.Add(nv.Position.Scale(beta))
			}
			newPos[v.ID] = sum
		}
	}

	dst := mesh.NewLike(src)
	vertIDs := make(map[int]int, len(newPos))
	for _, v := range src.Vertices() {
		vertIDs[v.ID] = dst.AddVertex(newPos[v.ID])
	}
	edgeIDs := make(map[[2]int]int, len(edgePoints))
	for key, p := range edgePoints {
		edgeIDs[key] = dst.AddVertex(p)
	}

	for _, f := range src.Faces() {
		v0, v1, v2 := f.Vertices[0], f.Vertices[1], f.Vertices[2]
		e01 := edgeIDs[canonPair(v0, v1)]
		e12 := edgeIDs[canonPair(v1, v2)]
		e20 := edgeIDs[canonPair(v2, v0)]
		tris := [][]int{
			{vertIDs[v0], e01, e20},
			{vertIDs[v1], e12, e01},
			{vertIDs[v2], e20, e12},
			{e01, e12, e20},
		}
		for _, tri := range tris {
			if _, err := dst.AddFace(tri...); err != nil {
				return nil, &OpError{Op: op, Kind: KindInternal, Message: err.Error()}
			}
		}
	}
	return dst, nil
}
