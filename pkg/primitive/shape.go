// Package primitive generates polygon meshes for the parametric
// solids: box, cylinder, sphere and cone. The shape set is a closed
// tagged variant rather than an interface hierarchy; per-kind behavior
// is dispatched through capability tables so hot bounding-box queries
// never go through dynamic dispatch they don't need.
package primitive

import (
	"fmt"

	"github.com/chazu/burl/pkg/mesh"
)

// DefaultSegments is the circular tessellation used when a caller
// passes zero.
const DefaultSegments = 32

// Kind tags a primitive shape.
type Kind int

const (
	KindBox Kind = iota
	KindCylinder
	KindSphere
	KindCone
)

func (k Kind) String() string {
	switch k {
	case KindBox:
		return "box"
	case KindCylinder:
		return "cylinder"
	case KindSphere:
		return "sphere"
	case KindCone:
		return "cone"
	default:
		return "unknown"
	}
}

// Shape is the closed parameter variant for all primitive kinds. Only
// the fields for the tagged kind are meaningful. Radial shapes sit on
// the Z axis, centered at the origin.
type Shape struct {
	Kind Kind `json:"kind"`

	// Box corners.
	Min mesh.Vec3 `json:"min,omitempty"`
	Max mesh.Vec3 `json:"max,omitempty"`

	// Cylinder and sphere radius.
	Radius float64 `json:"radius,omitempty"`

	// Cone radii; TopRadius zero makes a pointed cone.
	BottomRadius float64 `json:"bottom_radius,omitempty"`
	TopRadius    float64 `json:"top_radius,omitempty"`

	// Cylinder and cone height.
	Height float64 `json:"height,omitempty"`

	// Circular tessellation; 0 means DefaultSegments.
	Segments int `json:"segments,omitempty"`
}

// Box returns a box shape spanning min..max.
func Box(min, max mesh.Vec3) Shape {
	return Shape{Kind: KindBox, Min: min, Max: max}
}

// UnitBox returns the canonical unit cube centered at the origin.
func UnitBox() Shape {
	return Box(mesh.Vec3{X: -0.5, Y: -0.5, Z: -0.5}, mesh.Vec3{X: 0.5, Y: 0.5, Z: 0.5})
}

// Cylinder returns a cylinder shape on the Z axis.
func Cylinder(radius, height float64, segments int) Shape {
	return Shape{Kind: KindCylinder, Radius: radius, Height: height, Segments: segments}
}

// Sphere returns a sphere shape centered at the origin.
func Sphere(radius float64, segments int) Shape {
	return Shape{Kind: KindSphere, Radius: radius, Segments: segments}
}

// Cone returns a cone (or frustum, when topRadius > 0) on the Z axis.
func Cone(bottomRadius, topRadius, height float64, segments int) Shape {
	return Shape{Kind: KindCone, BottomRadius: bottomRadius, TopRadius: topRadius, Height: height, Segments: segments}
}

// generators is the per-kind mesh capability table.
var generators = map[Kind]func(Shape) (*mesh.Mesh, error){
	KindBox:      buildBox,
	KindCylinder: buildCylinder,
	KindSphere:   buildSphere,
	KindCone:     buildCone,
}

// bounders is the per-kind analytic bounding-box capability table.
var bounders = map[Kind]func(Shape) (mesh.Vec3, mesh.Vec3){
	KindBox: func(s Shape) (mesh.Vec3, mesh.Vec3) {
		return s.Min, s.Max
	},
	KindCylinder: func(s Shape) (mesh.Vec3, mesh.Vec3) {
		h := s.Height / 2
		return mesh.Vec3{X: -s.Radius, Y: -s.Radius, Z: -h},
			mesh.Vec3{X: s.Radius, Y: s.Radius, Z: h}
	},
	KindSphere: func(s Shape) (mesh.Vec3, mesh.Vec3) {
		r := s.Radius
		return mesh.Vec3{X: -r, Y: -r, Z: -r}, mesh.Vec3{X: r, Y: r, Z: r}
	},
	KindCone: func(s Shape) (mesh.Vec3, mesh.Vec3) {
		r := s.BottomRadius
		if s.TopRadius > r {
			r = s.TopRadius
		}
		h := s.Height / 2
		return mesh.Vec3{X: -r, Y: -r, Z: -h}, mesh.Vec3{X: r, Y: r, Z: h}
	},
}

// Mesh generates the polygon mesh for the shape: quads and n-gon caps
// where the geometry allows, triangles only at sphere poles and cone
// apexes. Faces wind counter-clockwise viewed from outside.
func (s Shape) Mesh() (*mesh.Mesh, error) {
	gen, ok := generators[s.Kind]
	if !ok {
		return nil, fmt.Errorf("primitive: unknown shape kind %d", s.Kind)
	}
	return gen(s)
}

// Bounds returns the analytic axis-aligned bounding box, without
// generating a mesh.
func (s Shape) Bounds() (min, max mesh.Vec3) {
	b, ok := bounders[s.Kind]
	if !ok {
		return mesh.Vec3{}, mesh.Vec3{}
	}
	return b(s)
}

// segments resolves the effective segment count.
func (s Shape) segments() int {
	if s.Segments <= 0 {
		return DefaultSegments
	}
	return s.Segments
}

func (s Shape) validateRadial() error {
	if s.segments() < 3 {
		return fmt.Errorf("primitive: %s needs at least 3 segments, got %d", s.Kind, s.Segments)
	}
	return nil
}
