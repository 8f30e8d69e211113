package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/burl/pkg/mesh"
)

func TestExtrudeFaces(t *testing.T) {
	m := cube(t)
	require.NoError(t, ExtrudeFaces(m, []int{1}, mesh.Vec3{Z: 1}, 0.5))

	// 4 lifted vertices, the moved cap plus 4 side quads.
	assert.Equal(t, 12, m.VertexCount())
	assert.Equal(t, 10, m.FaceCount())
	assert.True(t, m.IsValid())

	_, max := m.BoundingBox()
	assert.InDelta(t, 1.0, max.Z, 1e-12)
	assert.InDelta(t, 1.5, m.Volume(), 1e-9)
}

func TestExtrudeFacesKeepsFaceID(t *testing.T) {
	m := cube(t)
	require.NoError(t, m.SelectFace(1, false))
	require.NoError(t, ExtrudeFaces(m, []int{1}, mesh.Vec3{Z: 1}, 0.5))

	f, ok := m.Face(1)
	require.True(t, ok, "extruded face keeps its id")
	assert.True(t, f.Selected, "selection rides along with the id")

	// The cap sits on the lifted ring.
	for _, vid := range f.Vertices {
		v, _ := m.Vertex(vid)
		assert.InDelta(t, 1.0, v.Position.Z, 1e-12)
	}
}

func TestExtrudeFacesZeroDistance(t *testing.T) {
	m := cube(t)
	require.NoError(t, ExtrudeFaces(m, []int{1}, mesh.Vec3{Z: 1}, 0))

	// A zero-thickness rim: new vertices and walls, same volume.
	assert.Equal(t, 12, m.VertexCount())
	assert.Equal(t, 10, m.FaceCount())
	assert.InDelta(t, 1.0, m.Volume(), 1e-9)
}

func TestExtrudeFacesMultiple(t *testing.T) {
	m := cube(t)
	require.NoError(t, ExtrudeFaces(m, []int{1, 0}, mesh.Vec3{Z: 1}, 0.25))
	assert.Equal(t, 16, m.VertexCount())
	assert.Equal(t, 14, m.FaceCount())
}

func TestExtrudeFacesErrors(t *testing.T) {
	tests := []struct {
		name     string
		faces    []int
		dir      mesh.Vec3
		distance float64
		kind     Kind
	}{
		{"no targets", nil, mesh.Vec3{Z: 1}, 1, KindParam},
		{"negative distance", []int{1}, mesh.Vec3{Z: 1}, -0.5, KindParam},
		{"zero direction", []int{1}, mesh.Vec3{}, 1, KindParam},
		{"unknown face", []int{99}, mesh.Vec3{Z: 1}, 1, KindInvalidRef},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := cube(t)
			before := snapshot(m)
			err := ExtrudeFaces(m, tt.faces, tt.dir, tt.distance)
			require.Error(t, err)
			assert.Equal(t, tt.kind, ErrorKind(err))
			assert.Equal(t, before, snapshot(m), "failed op must not mutate")
		})
	}
}

func TestExtrudeEdges(t *testing.T) {
	m := quad(t)
	eid, ok := m.EdgeBetween(0, 1)
	require.True(t, ok)

	require.NoError(t, ExtrudeEdges(m, []int{eid}, mesh.Vec3{Z: 1}, 1))
	assert.Equal(t, 6, m.VertexCount())
	assert.Equal(t, 2, m.FaceCount())
}

func TestExtrudeEdgesSharedVertexLiftedOnce(t *testing.T) {
	m := quad(t)
	e01, ok := m.EdgeBetween(0, 1)
	require.True(t, ok)
	e12, ok := m.EdgeBetween(1, 2)
	require.True(t, ok)

	require.NoError(t, ExtrudeEdges(m, []int{e01, e12}, mesh.Vec3{Z: 1}, 1))
	// Vertex 1 is shared by both edges and duplicated exactly once.
	assert.Equal(t, 7, m.VertexCount())
	assert.Equal(t, 3, m.FaceCount())
}

func TestExtrudeEdgesErrors(t *testing.T) {
	m := quad(t)
	before := snapshot(m)

	err := ExtrudeEdges(m, []int{999}, mesh.Vec3{Z: 1}, 1)
	require.Error(t, err)
	assert.Equal(t, KindInvalidRef, ErrorKind(err))

	err = ExtrudeEdges(m, nil, mesh.Vec3{Z: 1}, 1)
	assert.Equal(t, KindParam, ErrorKind(err))

	assert.Equal(t, before, snapshot(m))
}
