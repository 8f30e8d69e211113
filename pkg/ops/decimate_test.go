package ops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/burl/pkg/primitive"
)

func TestDecimateMeshReduces(t *testing.T) {
	m, err := primitive.Sphere(1, 16).Mesh()
	require.NoError(t, err)
	before := m.FaceCount()

	require.NoError(t, DecimateMesh(context.Background(), m, 0.5))
	assert.Less(t, m.FaceCount(), before)
	assert.True(t, m.IsValid())
}

func TestDecimateMeshRatioOneIsNoop(t *testing.T) {
	m := cube(t)
	before := snapshot(m)
	require.NoError(t, DecimateMesh(context.Background(), m, 1))
	assert.Equal(t, before, snapshot(m))

	// Even positions stay byte-identical: ratio 1 never clones.
	v, _ := m.Vertex(0)
	assert.Equal(t, -0.5, v.Position.X)
}

func TestDecimateMeshHitsTarget(t *testing.T) {
	// One collapse on a tetrahedron kills the two flanking faces and
	// lands exactly on the 50% target.
	m := tetra(t)
	require.NoError(t, DecimateMesh(context.Background(), m, 0.5))
	assert.Equal(t, 2, m.FaceCount())
	assert.Equal(t, 3, m.VertexCount())
}

func TestDecimateMeshParams(t *testing.T) {
	m := cube(t)
	ctx := context.Background()

	err := DecimateMesh(ctx, m, 0)
	assert.Equal(t, KindParam, ErrorKind(err))

	err = DecimateMesh(ctx, m, -0.5)
	assert.Equal(t, KindParam, ErrorKind(err))

	err = DecimateMesh(ctx, m, 1.5)
	assert.Equal(t, KindParam, ErrorKind(err))
}

func TestDecimateMeshCancelled(t *testing.T) {
	m, err := primitive.Sphere(1, 16).Mesh()
	require.NoError(t, err)
	before := snapshot(m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = DecimateMesh(ctx, m, 0.5)
	require.Error(t, err)
	assert.Equal(t, KindCancelled, ErrorKind(err))
	assert.Equal(t, before, snapshot(m))
}
