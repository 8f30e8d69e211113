package mesh

import (
	"math"
	"testing"
)

func TestVecOps(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 4, Y: 5, Z: 6}

	if got := a.Add(b); got != (Vec3{X: 5, Y: 7, Z: 9}) {
		t.Errorf("Add = %v", got)
	}
	if got := b.Sub(a); got != (Vec3{X: 3, Y: 3, Z: 3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Dot(b); got != 32 {
		t.Errorf("Dot = %v, want 32", got)
	}
	if got := (Vec3{X: 1}).Cross(Vec3{Y: 1}); got != (Vec3{Z: 1}) {
		t.Errorf("Cross = %v, want +Z", got)
	}
	if got := a.Lerp(b, 0.5); got != (Vec3{X: 2.5, Y: 3.5, Z: 4.5}) {
		t.Errorf("Lerp = %v", got)
	}
}

func TestVecNormalized(t *testing.T) {
	v := Vec3{X: 3, Y: 4}.Normalized()
	if math.Abs(v.Length()-1) > 1e-12 {
		t.Errorf("normalized length = %v, want 1", v.Length())
	}
	// The zero vector normalizes to itself instead of NaN.
	if got := (Vec3{}).Normalized(); got != (Vec3{}) {
		t.Errorf("zero Normalized = %v, want zero", got)
	}
}

func TestVecApproxEqual(t *testing.T) {
	a := Vec3{X: 1}
	if !a.ApproxEqual(Vec3{X: 1 + 1e-10}, 1e-9) {
		t.Error("vectors within tolerance should compare equal")
	}
	if a.ApproxEqual(Vec3{X: 1.1}, 1e-9) {
		t.Error("vectors outside tolerance should not compare equal")
	}
}

// --- Normals ---

func TestRecalculateNormalsCube(t *testing.T) {
	m := unitCube(t)

	// Face 1 is the +Z top.
	f, _ := m.Face(1)
	if !f.Normal.ApproxEqual(Vec3{Z: 1}, 1e-12) {
		t.Errorf("top face normal = %v, want +Z", f.Normal)
	}

	// Every vertex normal averages three orthogonal unit face normals
	// and is re-normalized, so it points along the corner diagonal.
	v, _ := m.Vertex(6) // corner (+,+,+)
	want := Vec3{X: 1, Y: 1, Z: 1}.Scale(1.0 / math.Sqrt(3))
	if !v.Normal.ApproxEqual(want, 1e-12) {
		t.Errorf("corner normal = %v, want %v", v.Normal, want)
	}
}

func TestRecalculateNormalsIdempotent(t *testing.T) {
	m := unitCube(t)
	before := make([]Vec3, 0, m.VertexCount())
	for _, v := range m.Vertices() {
		before = append(before, v.Normal)
	}
	m.RecalculateNormals()
	for i, v := range m.Vertices() {
		if !v.Normal.ApproxEqual(before[i], 1e-12) {
			t.Fatalf("vertex %d normal drifted: %v -> %v", v.ID, before[i], v.Normal)
		}
	}
}

func TestDegenerateFaceNormalIsZero(t *testing.T) {
	m := New()
	a := m.AddVertex(Vec3{})
	b := m.AddVertex(Vec3{X: 1})
	c := m.AddVertex(Vec3{X: 2}) // collinear
	m.AddFace(a, b, c)
	m.BuildTopology()
	m.RecalculateNormals()

	f := m.Faces()[0]
	if f.Normal != (Vec3{}) {
		t.Errorf("degenerate face normal = %v, want zero", f.Normal)
	}
}

func TestFaceCentroid(t *testing.T) {
	m := unitCube(t)
	c, err := m.FaceCentroid(1)
	if err != nil {
		t.Fatalf("FaceCentroid failed: %v", err)
	}
	if !c.ApproxEqual(Vec3{Z: 0.5}, 1e-12) {
		t.Errorf("top centroid = %v, want (0,0,0.5)", c)
	}

	if _, err := m.FaceCentroid(999); err == nil {
		t.Error("expected error for unknown face")
	}
}

// --- Measure ---

func TestVolumeAndArea(t *testing.T) {
	m := unitCube(t)
	if got := m.Volume(); math.Abs(got-1) > 1e-12 {
		t.Errorf("Volume = %v, want 1", got)
	}
	if got := m.SurfaceArea(); math.Abs(got-6) > 1e-12 {
		t.Errorf("SurfaceArea = %v, want 6", got)
	}
}

// --- Triangle view ---

func TestTrianglesView(t *testing.T) {
	m := unitCube(t)
	tv := m.Triangles()
	if tv.VertexCount() != 8 {
		t.Errorf("view VertexCount = %d, want 8", tv.VertexCount())
	}
	if tv.TriangleCount() != 12 {
		t.Errorf("view TriangleCount = %d, want 12", tv.TriangleCount())
	}
	if len(tv.Normals) != len(tv.Vertices) {
		t.Errorf("normals length %d != vertices length %d", len(tv.Normals), len(tv.Vertices))
	}
	// Snapshot normals are unit length in float32.
	for i := 0; i < len(tv.Normals); i += 3 {
		l := math.Sqrt(float64(tv.Normals[i]*tv.Normals[i] +
			tv.Normals[i+1]*tv.Normals[i+1] + tv.Normals[i+2]*tv.Normals[i+2]))
		if math.Abs(l-1) > 1e-5 {
			t.Fatalf("normal %d has length %v", i/3, l)
		}
	}
}

func TestTrianglesViewIsSnapshot(t *testing.T) {
	m := unitCube(t)
	tv := m.Triangles()
	m.SetVertexPosition(0, Vec3{X: 50})
	if tv.Vertices[0] == 50 {
		t.Error("snapshot tracked a later mesh edit")
	}
}

// --- Welding ---

func TestRemoveDuplicateVertices(t *testing.T) {
	cube := unitCube(t)
	var tris []Triangle
	for i := range cube.Faces() {
		f := &cube.Faces()[i]
		for _, tri := range cube.FanTriangles(f) {
			a, _ := cube.Vertex(tri[0])
			b, _ := cube.Vertex(tri[1])
			c, _ := cube.Vertex(tri[2])
			tris = append(tris, Triangle{V0: a.Position, V1: b.Position, V2: c.Position})
		}
	}

	soup := FromTriangles(tris)
	if soup.VertexCount() != 36 {
		t.Fatalf("soup VertexCount = %d, want 36", soup.VertexCount())
	}

	removed := soup.RemoveDuplicateVertices(DefaultWeldTolerance)
	if removed != 28 {
		t.Errorf("removed = %d, want 28", removed)
	}
	if soup.VertexCount() != 8 {
		t.Errorf("VertexCount after weld = %d, want 8", soup.VertexCount())
	}
	if !soup.IsManifold() {
		t.Error("welded cube should be manifold")
	}
	if math.Abs(soup.Volume()-1) > 1e-9 {
		t.Errorf("welded volume = %v, want 1", soup.Volume())
	}
}

func TestRemoveDuplicateVerticesNoop(t *testing.T) {
	m := unitCube(t)
	if removed := m.RemoveDuplicateVertices(1e-9); removed != 0 {
		t.Errorf("removed = %d on a clean mesh, want 0", removed)
	}
}

func TestRemoveUnusedVertices(t *testing.T) {
	m := unitCube(t)
	m.AddVertex(Vec3{X: 9}) // floating vertex
	if removed := m.RemoveUnusedVertices(); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if m.VertexCount() != 8 {
		t.Errorf("VertexCount = %d, want 8", m.VertexCount())
	}
}
