package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubdivideCatmullClarkCube(t *testing.T) {
	m := cube(t)
	require.NoError(t, Subdivide(context.Background(), m, 1, SchemeCatmullClark))

	// 8 repositioned corners, 12 edge points, 6 face points; one quad
	// per original face corner.
	assert.Equal(t, 26, m.VertexCount())
	assert.Equal(t, 24, m.FaceCount())
	assert.True(t, m.IsManifold())
	assert.True(t, m.IsValid())

	// The surface rounds off the corners and pulls inside the cage.
	assert.Less(t, m.Volume(), 1.0)
	assert.Greater(t, m.Volume(), 0.5)
}

func TestSubdivideCatmullClarkTwoLevels(t *testing.T) {
	m := cube(t)
	require.NoError(t, Subdivide(context.Background(), m, 2, SchemeCatmullClark))
	// Level 2: 24 quads become 96, with V = F + E' pattern holding.
	assert.Equal(t, 96, m.FaceCount())
	assert.True(t, m.IsManifold())
}

func TestSubdivideLoopTetra(t *testing.T) {
	m := tetra(t)
	require.NoError(t, Subdivide(context.Background(), m, 1, SchemeLoop))

	// 4 originals plus 6 edge points; each triangle splits in four.
	assert.Equal(t, 10, m.VertexCount())
	assert.Equal(t, 16, m.FaceCount())
	assert.True(t, m.IsManifold())
	for _, f := range m.Faces() {
		assert.Len(t, f.Vertices, 3)
	}
}

func TestSubdivideLoopRejectsQuads(t *testing.T) {
	m := cube(t)
	before := snapshot(m)
	err := Subdivide(context.Background(), m, 1, SchemeLoop)
	require.Error(t, err)
	assert.Equal(t, KindParam, ErrorKind(err))
	assert.Equal(t, before, snapshot(m))
}

func TestSubdivideParams(t *testing.T) {
	m := cube(t)
	ctx := context.Background()

	err := Subdivide(ctx, m, 0, SchemeCatmullClark)
	assert.Equal(t, KindParam, ErrorKind(err))

	err = Subdivide(ctx, m, 1, Scheme(42))
	assert.Equal(t, KindParam, ErrorKind(err))
}

func TestSubdivideCancelled(t *testing.T) {
	m := cube(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Subdivide(ctx, m, 3, SchemeCatmullClark)
	require.Error(t, err)
	assert.Equal(t, KindCancelled, ErrorKind(err))
	assert.Equal(t, 8, m.VertexCount())
}

func TestSchemeString(t *testing.T) {
	assert.Equal(t, "catmull-clark", SchemeCatmullClark.String())
	assert.Equal(t, "loop", SchemeLoop.String())
	assert.Equal(t, "unknown", Scheme(9).String())
}

func TestSubdivideContinuesIDs(t *testing.T) {
	m := cube(t)
	require.NoError(t, Subdivide(context.Background(), m, 1, SchemeCatmullClark))
	// Replacement vertices never reuse the control cage's ids range
	// twice: all 26 ids are distinct and the counter kept climbing.
	maxID := -1
	for _, v := range m.Vertices() {
		if v.ID > maxID {
			maxID = v.ID
		}
	}
	assert.GreaterOrEqual(t, maxID, 26+8-1)
	next := m.AddVertex(m.Vertices()[0].Position)
	assert.Greater(t, next, maxID)
}
