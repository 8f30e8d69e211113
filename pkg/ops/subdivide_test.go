package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/burl/pkg/mesh"
)

func TestSubdivideEdgesAll(t *testing.T) {
	m := cube(t)
	var all []int
	for _, e := range m.Edges() {
		all = append(all, e.ID)
	}
	require.NoError(t, SubdivideEdges(m, all))

	// 8 corners plus one midpoint on each of the 12 edges. Quads grow
	// into octagons; the face count is untouched.
	assert.Equal(t, 20, m.VertexCount())
	assert.Equal(t, 6, m.FaceCount())
	for _, f := range m.Faces() {
		assert.Len(t, f.Vertices, 8)
	}
	assert.True(t, m.IsManifold())
	assert.InDelta(t, 1.0, m.Volume(), 1e-9)
}

func TestSubdivideEdgesSingle(t *testing.T) {
	m := cube(t)
	eid, ok := m.EdgeBetween(0, 1)
	require.True(t, ok)
	require.NoError(t, SubdivideEdges(m, []int{eid}))

	assert.Equal(t, 9, m.VertexCount())

	// The midpoint lands in both flanking rings, once each.
	mid, found := 0, 0
	for _, v := range m.Vertices() {
		if v.ID > 7 {
			mid = v.ID
		}
	}
	for _, f := range m.Faces() {
		for _, vid := range f.Vertices {
			if vid == mid {
				found++
			}
		}
	}
	assert.Equal(t, 2, found)
}

func TestSubdivideEdgesSharedEdgeSplitOnce(t *testing.T) {
	m := cube(t)
	eid, ok := m.EdgeBetween(0, 1)
	require.True(t, ok)
	// Passing the same edge twice must not create two midpoints.
	require.NoError(t, SubdivideEdges(m, []int{eid, eid}))
	assert.Equal(t, 9, m.VertexCount())
}

func TestSubdivideSelected(t *testing.T) {
	m := cube(t)
	m.SelectAll(mesh.SelectEdges)
	require.NoError(t, SubdivideSelected(m))
	assert.Equal(t, 20, m.VertexCount())
}

func TestSubdivideSelectedEmpty(t *testing.T) {
	m := cube(t)
	err := SubdivideSelected(m)
	require.Error(t, err)
	assert.Equal(t, KindParam, ErrorKind(err))
}

func TestSubdivideEdgesErrors(t *testing.T) {
	m := cube(t)
	before := snapshot(m)

	err := SubdivideEdges(m, nil)
	assert.Equal(t, KindParam, ErrorKind(err))

	err = SubdivideEdges(m, []int{777})
	assert.Equal(t, KindInvalidRef, ErrorKind(err))

	assert.Equal(t, before, snapshot(m))
}
