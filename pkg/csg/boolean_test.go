package csg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/burl/pkg/mesh"
	"github.com/chazu/burl/pkg/ops"
	"github.com/chazu/burl/pkg/primitive"
)

func box(t *testing.T, min, max mesh.Vec3) *mesh.Mesh {
	t.Helper()
	m, err := primitive.Box(min, max).Mesh()
	require.NoError(t, err)
	return m
}

func unitBox(t *testing.T) *mesh.Mesh {
	return box(t,
		mesh.Vec3{X: -0.5, Y: -0.5, Z: -0.5},
		mesh.Vec3{X: 0.5, Y: 0.5, Z: 0.5})
}

// halfOverlap shifts a unit box so it covers the +X half of unitBox.
func halfOverlap(t *testing.T) *mesh.Mesh {
	return box(t,
		mesh.Vec3{X: 0, Y: -0.5, Z: -0.5},
		mesh.Vec3{X: 1, Y: 0.5, Z: 0.5})
}

func TestDifferenceVolume(t *testing.T) {
	a := unitBox(t)
	b := halfOverlap(t)

	out, err := Difference(context.Background(), a, b)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out.Volume(), 1e-3)
	assert.True(t, out.IsManifold())
}

func TestUnionVolume(t *testing.T) {
	out, err := Union(context.Background(), unitBox(t), halfOverlap(t))
	require.NoError(t, err)
	assert.InDelta(t, 1.5, out.Volume(), 1e-3)

	min, max := out.BoundingBox()
	assert.InDelta(t, -0.5, min.X, 1e-9)
	assert.InDelta(t, 1.0, max.X, 1e-9)
}

func TestIntersectionVolume(t *testing.T) {
	out, err := Intersection(context.Background(), unitBox(t), halfOverlap(t))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out.Volume(), 1e-3)

	min, max := out.BoundingBox()
	assert.InDelta(t, 0.0, min.X, 1e-6)
	assert.InDelta(t, 0.5, max.X, 1e-6)
}

func TestDisjointUnion(t *testing.T) {
	a := unitBox(t)
	b := box(t, mesh.Vec3{X: 5, Y: 5, Z: 5}, mesh.Vec3{X: 6, Y: 6, Z: 6})

	out, err := Union(context.Background(), a, b)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, out.Volume(), 1e-3)
}

func TestDifferenceOfContainedOperand(t *testing.T) {
	big := box(t, mesh.Vec3{X: -1, Y: -1, Z: -1}, mesh.Vec3{X: 1, Y: 1, Z: 1})
	small := unitBox(t)

	out, err := Difference(context.Background(), big, small)
	require.NoError(t, err)
	// A 2x2x2 shell with a unit cavity.
	assert.InDelta(t, 7.0, out.Volume(), 1e-3)
}

func TestOperandsNotMutated(t *testing.T) {
	a := unitBox(t)
	b := halfOverlap(t)
	_, err := Difference(context.Background(), a, b)
	require.NoError(t, err)

	assert.Equal(t, 8, a.VertexCount())
	assert.Equal(t, 6, a.FaceCount())
	assert.InDelta(t, 1.0, a.Volume(), 1e-9)
	assert.Equal(t, 8, b.VertexCount())
}

func TestCylinderDifference(t *testing.T) {
	block := box(t, mesh.Vec3{X: -1, Y: -1, Z: -1}, mesh.Vec3{X: 1, Y: 1, Z: 1})
	drill, err := primitive.Cylinder(0.5, 4, 24).Mesh()
	require.NoError(t, err)

	out, err := Difference(context.Background(), block, drill)
	require.NoError(t, err)
	require.True(t, out.FaceCount() > 0)

	// Block volume 8 minus a radius-0.5 bore through 2 units of stock.
	bore := 3.14159 * 0.25 * 2
	assert.InDelta(t, 8-bore, out.Volume(), 0.05)
}

func TestEvaluateRejectsNilOperand(t *testing.T) {
	_, err := Evaluate(context.Background(), OpUnion, nil, unitBox(t))
	require.Error(t, err)
	assert.Equal(t, ops.KindParam, ops.ErrorKind(err))
}

func TestEvaluateRejectsOpenMesh(t *testing.T) {
	open, err := mesh.FromGeometry(
		[]mesh.Vec3{{}, {X: 1}, {X: 1, Y: 1}, {Y: 1}},
		[][]int{{0, 1, 2, 3}},
	)
	require.NoError(t, err)

	_, err = Evaluate(context.Background(), OpDifference, unitBox(t), open)
	require.Error(t, err)
	assert.Equal(t, ops.KindTopology, ops.ErrorKind(err))

	_, err = Evaluate(context.Background(), OpDifference, open, unitBox(t))
	require.Error(t, err)
	assert.Equal(t, ops.KindTopology, ops.ErrorKind(err))
}

func TestEvaluateRejectsUnknownOp(t *testing.T) {
	_, err := Evaluate(context.Background(), Op(77), unitBox(t), unitBox(t))
	require.Error(t, err)
	assert.Equal(t, ops.KindParam, ops.ErrorKind(err))
}

func TestEvaluateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Evaluate(ctx, OpUnion, unitBox(t), halfOverlap(t))
	require.Error(t, err)
	assert.Equal(t, ops.KindCancelled, ops.ErrorKind(err))
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "union", OpUnion.String())
	assert.Equal(t, "difference", OpDifference.String())
	assert.Equal(t, "intersection", OpIntersection.String())
	assert.Equal(t, "unknown", Op(9).String())
}
