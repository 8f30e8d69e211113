// Package csg evaluates constructive solid geometry on polygon
// meshes. Operands are triangulated, loaded into BSP trees, clipped
// against each other, and the surviving polygons are stitched back
// into a welded polygon mesh. Inputs must be closed manifold meshes;
// non-manifold or open operands are rejected up front rather than
// silently producing garbage.
package csg

import (
	"context"

	"github.com/chazu/burl/pkg/mesh"
	"github.com/chazu/burl/pkg/ops"
)

// Op tags a boolean operation.
type Op int

const (
	OpUnion Op = iota
	OpDifference
	OpIntersection
)

func (o Op) String() string {
	switch o {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// Union returns the boolean union of two closed manifold meshes. The
// operands are not mutated.
func Union(ctx context.Context, a, b *mesh.Mesh) (*mesh.Mesh, error) {
	return Evaluate(ctx, OpUnion, a, b)
}

// Difference returns a minus b.
func Difference(ctx context.Context, a, b *mesh.Mesh) (*mesh.Mesh, error) {
	return Evaluate(ctx, OpDifference, a, b)
}

// Intersection returns the boolean intersection of a and b.
func Intersection(ctx context.Context, a, b *mesh.Mesh) (*mesh.Mesh, error) {
	return Evaluate(ctx, OpIntersection, a, b)
}

// Evaluate runs the requested boolean operation. The context is
// checked between clipping phases; a cancelled evaluation returns
// without a result.
func Evaluate(ctx context.Context, op Op, a, b *mesh.Mesh) (*mesh.Mesh, error) {
	opName := "boolean-" + op.String()
	if a == nil || b == nil {
		return nil, &ops.OpError{Op: opName, Kind: ops.KindParam, Message: "nil operand mesh"}
	}
	if !a.IsManifold() {
		return nil, &ops.OpError{Op: opName, Kind: ops.KindTopology, Message: "operand A is not a closed manifold mesh"}
	}
	if !b.IsManifold() {
		return nil, &ops.OpError{Op: opName, Kind: ops.KindTopology, Message: "operand B is not a closed manifold mesh"}
	}

	na := newNode(meshPolygons(a))
	nb := newNode(meshPolygons(b))

	check := func() error {
		if err := ctx.Err(); err != nil {
			return &ops.OpError{Op: opName, Kind: ops.KindCancelled, Message: err.Error()}
		}
		return nil
	}

	switch op {
	case OpUnion:
		if err := check(); err != nil {
			return nil, err
		}
		na.clipTo(nb)
		nb.clipTo(na)
		if err := check(); err != nil {
			return nil, err
		}
		nb.invert()
		nb.clipTo(na)
		nb.invert()
		na.build(nb.allPolygons())

	case OpDifference:
		na.invert()
		if err := check(); err != nil {
			return nil, err
		}
		na.clipTo(nb)
		nb.clipTo(na)
		if err := check(); err != nil {
			return nil, err
		}
		nb.invert()
		nb.clipTo(na)
		nb.invert()
		na.build(nb.allPolygons())
		na.invert()

	case OpIntersection:
		na.invert()
		if err := check(); err != nil {
			return nil, err
		}
		nb.clipTo(na)
		nb.invert()
		na.clipTo(nb)
		if err := check(); err != nil {
			return nil, err
		}
		nb.clipTo(na)
		na.build(nb.allPolygons())
		na.invert()

	default:
		return nil, &ops.OpError{Op: opName, Kind: ops.KindParam, Message: "unknown boolean op"}
	}

	if err := check(); err != nil {
		return nil, err
	}
	return polygonsToMesh(na.allPolygons()), nil
}

// meshPolygons converts a mesh's faces into BSP polygons,
// fan-triangulating so every polygon entering the tree is convex.
func meshPolygons(m *mesh.Mesh) []polygon {
	var out []polygon
	faces := m.Faces()
	for i := range faces {
		for _, tri := range m.FanTriangles(&faces[i]) {
			a, _ := m.Vertex(tri[0])
			b, _ := m.Vertex(tri[1])
			c, _ := m.Vertex(tri[2])
			pl, ok := planeFromPoints(a.Position, b.Position, c.Position)
			if !ok {
				continue // degenerate sliver, contributes nothing
			}
			out = append(out, polygon{
				verts: []mesh.Vec3{a.Position, b.Position, c.Position},
				plane: pl,
			})
		}
	}
	return out
}

// polygonsToMesh stitches BSP output polygons into a welded mesh.
func polygonsToMesh(polys []polygon) *mesh.Mesh {
	var tris []mesh.Triangle
	for _, poly := range polys {
		for j := 1; j+1 < len(poly.verts); j++ {
			tris = append(tris, mesh.Triangle{
				V0:     poly.verts[0],
				V1:     poly.verts[j],
				V2:     poly.verts[j+1],
				Normal: poly.plane.n,
			})
		}
	}
	out := mesh.FromTriangles(tris)
	out.RemoveDuplicateVertices(mesh.DefaultWeldTolerance)
	return out
}
