// Package kernel defines the abstract geometry kernel interface.
// Implementations (native, sdfx) provide solid modeling and boolean
// operations behind this interface. The kernel abstraction allows
// swapping backends without changing the rest of the system: the
// native backend works on the polygon meshes the editor manipulates
// directly, while the sdfx backend trades exact topology for smooth
// SDF-based solids.
package kernel

import (
	"context"

	"github.com/chazu/burl/pkg/mesh"
)

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Primitives
	Box(x, y, z float64) Solid
	Cylinder(height, radius float64, segments int) Solid
	Sphere(radius float64, segments int) Solid
	Cone(height, bottomRadius, topRadius float64, segments int) Solid

	// Boolean operations
	Union(ctx context.Context, a, b Solid) (Solid, error)
	Difference(ctx context.Context, a, b Solid) (Solid, error)
	Intersection(ctx context.Context, a, b Solid) (Solid, error)

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees

	// Mesh output
	ToMesh(s Solid) (*mesh.Mesh, error)
}
