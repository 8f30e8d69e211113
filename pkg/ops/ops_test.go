package ops

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/burl/pkg/mesh"
	"github.com/chazu/burl/pkg/primitive"
)

// cube returns the unit box: vertices 0-7, face 1 on top (+Z).
func cube(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := primitive.UnitBox().Mesh()
	require.NoError(t, err)
	return m
}

// quad returns a single open quad in the XY plane.
func quad(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := mesh.FromGeometry(
		[]mesh.Vec3{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
		[][]int{{0, 1, 2, 3}},
	)
	require.NoError(t, err)
	return m
}

// tetra returns a closed tetrahedron: 4 vertices, 4 triangles.
func tetra(t *testing.T) *mesh.Mesh {
	t.Helper()
	m, err := mesh.FromGeometry(
		[]mesh.Vec3{
			{X: 1, Y: 1, Z: 1},
			{X: 1, Y: -1, Z: -1},
			{X: -1, Y: 1, Z: -1},
			{X: -1, Y: -1, Z: 1},
		},
		[][]int{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}},
	)
	require.NoError(t, err)
	return m
}

// counts snapshots a mesh's element counts for atomicity checks.
type counts struct{ v, e, f int }

func snapshot(m *mesh.Mesh) counts {
	return counts{m.VertexCount(), m.EdgeCount(), m.FaceCount()}
}

func TestOpErrorFormat(t *testing.T) {
	err := &OpError{Op: "extrude-faces", Kind: KindParam, Message: "negative distance -1"}
	assert.Equal(t, "extrude-faces: [param] negative distance -1", err.Error())
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, KindTopology, ErrorKind(&OpError{Kind: KindTopology}))
	assert.Equal(t, KindInternal, ErrorKind(errors.New("plain")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "invalid-ref", KindInvalidRef.String())
	assert.Equal(t, "param", KindParam.String())
	assert.Equal(t, "topology", KindTopology.String())
	assert.Equal(t, "cancelled", KindCancelled.String())
	assert.Equal(t, "internal", KindInternal.String())
}

func TestUniqueIDsPreservesOrder(t *testing.T) {
	assert.Equal(t, []int{3, 1, 2}, uniqueIDs([]int{3, 1, 3, 2, 1}))
}
