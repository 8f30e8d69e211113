// Package native implements the kernel.Kernel interface directly on
// the editor's polygon meshes: primitives come from the primitive
// generators and booleans from the BSP evaluator, so a solid produced
// here IS the mesh the editor will manipulate, with its exact face
// topology intact. Compare the sdfx backend, which rasterizes smooth
// SDF solids through marching cubes.
package native

import (
	"context"
	"fmt"
	"math"

	"github.com/chazu/burl/pkg/csg"
	"github.com/chazu/burl/pkg/kernel"
	"github.com/chazu/burl/pkg/mesh"
	"github.com/chazu/burl/pkg/primitive"
)

// Compile-time interface check.
var _ kernel.Kernel = (*NativeKernel)(nil)

// nativeSolid wraps a polygon mesh to implement kernel.Solid.
type nativeSolid struct {
	m *mesh.Mesh
}

// BoundingBox returns the axis-aligned bounding box.
func (s *nativeSolid) BoundingBox() (min, max [3]float64) {
	lo, hi := s.m.BoundingBox()
	return [3]float64{lo.X, lo.Y, lo.Z}, [3]float64{hi.X, hi.Y, hi.Z}
}

// NativeKernel implements kernel.Kernel on polygon meshes.
type NativeKernel struct{}

// New returns a new NativeKernel.
func New() *NativeKernel {
	return &NativeKernel{}
}

// unwrap extracts the underlying mesh from a kernel.Solid.
func unwrap(s kernel.Solid) *mesh.Mesh {
	return s.(*nativeSolid).m
}

// wrap creates a kernel.Solid from a mesh.
func wrap(m *mesh.Mesh) kernel.Solid {
	return &nativeSolid{m: m}
}

// mustMesh generates a primitive mesh, panicking on invalid
// parameters. Kernel primitive constructors have no error return, so
// parameter validation is the caller's job; a panic here means a bug
// upstream, not a user input problem.
func mustMesh(s primitive.Shape) kernel.Solid {
	m, err := s.Mesh()
	if err != nil {
		panic(fmt.Sprintf("native: %v", err))
	}
	return wrap(m)
}

// Box creates a box with the given dimensions, minimum corner at the
// origin so placement translations work intuitively.
func (k *NativeKernel) Box(x, y, z float64) kernel.Solid {
	return mustMesh(primitive.Box(mesh.Vec3{}, mesh.Vec3{X: x, Y: y, Z: z}))
}

// Cylinder creates a cylinder on the Z axis, centered at the origin.
func (k *NativeKernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	return mustMesh(primitive.Cylinder(radius, height, segments))
}

// Sphere creates a sphere centered at the origin.
func (k *NativeKernel) Sphere(radius float64, segments int) kernel.Solid {
	return mustMesh(primitive.Sphere(radius, segments))
}

// Cone creates a cone (or frustum) on the Z axis, centered at the
// origin.
func (k *NativeKernel) Cone(height, bottomRadius, topRadius float64, segments int) kernel.Solid {
	return mustMesh(primitive.Cone(bottomRadius, topRadius, height, segments))
}

// Union returns the union of two solids.
func (k *NativeKernel) Union(ctx context.Context, a, b kernel.Solid) (kernel.Solid, error) {
	m, err := csg.Union(ctx, unwrap(a), unwrap(b))
	if err != nil {
		return nil, err
	}
	return wrap(m), nil
}

// Difference returns the difference a - b.
func (k *NativeKernel) Difference(ctx context.Context, a, b kernel.Solid) (kernel.Solid, error) {
	m, err := csg.Difference(ctx, unwrap(a), unwrap(b))
	if err != nil {
		return nil, err
	}
	return wrap(m), nil
}

// Intersection returns the intersection of two solids.
func (k *NativeKernel) Intersection(ctx context.Context, a, b kernel.Solid) (kernel.Solid, error) {
	m, err := csg.Intersection(ctx, unwrap(a), unwrap(b))
	if err != nil {
		return nil, err
	}
	return wrap(m), nil
}

// transform clones the solid's mesh and maps every vertex position
// through fn. Topology is untouched; normals are recomputed.
func transform(s kernel.Solid, fn func(mesh.Vec3) mesh.Vec3) kernel.Solid {
	m := unwrap(s).Clone()
	for _, v := range m.Vertices() {
		m.SetVertexPosition(v.ID, fn(v.Position))
	}
	m.RecalculateNormals()
	return wrap(m)
}

// Translate moves a solid by (x, y, z).
func (k *NativeKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	d := mesh.Vec3{X: x, Y: y, Z: z}
	return transform(s, func(p mesh.Vec3) mesh.Vec3 { return p.Add(d) })
}

// Rotate rotates a solid by Euler angles (degrees) around the X, Y and
// Z axes, applied in X, Y, Z order.
func (k *NativeKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	sx, cx := math.Sincos(x * math.Pi / 180)
	sy, cy := math.Sincos(y * math.Pi / 180)
	sz, cz := math.Sincos(z * math.Pi / 180)
	return transform(s, func(p mesh.Vec3) mesh.Vec3 {
		// X axis.
		p = mesh.Vec3{X: p.X, Y: cx*p.Y - sx*p.Z, Z: sx*p.Y + cx*p.Z}
		// Y axis.
		p = mesh.Vec3{X: cy*p.X + sy*p.Z, Y: p.Y, Z: -sy*p.X + cy*p.Z}
		// Z axis.
		return mesh.Vec3{X: cz*p.X - sz*p.Y, Y: sz*p.X + cz*p.Y, Z: p.Z}
	})
}

// ToMesh returns the solid's mesh. The mesh is shared with the solid;
// clone before editing.
func (k *NativeKernel) ToMesh(s kernel.Solid) (*mesh.Mesh, error) {
	return unwrap(s), nil
}
