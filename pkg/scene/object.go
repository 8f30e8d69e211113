// Package scene tracks the objects a document is made of: primitives,
// edited meshes, boolean combinations and assemblies. Objects are
// reference-counted in the Go sense: handles are shared pointers and
// the longest holder keeps the object alive; the registry only
// unlinks. Relations between objects (parent, boolean operands) are
// by id, never by back-pointer, so a removed object can never dangle.
package scene

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/chazu/burl/pkg/csg"
	"github.com/chazu/burl/pkg/mesh"
	"github.com/chazu/burl/pkg/primitive"
)

// ObjectData is the closed variant of per-kind object payloads.
type ObjectData interface {
	objectData() // marker restricting implementations to this package
}

// PrimitiveData tags an object whose mesh was generated from a
// parametric shape. The shape parameters are kept for re-generation
// and analytic bounds.
type PrimitiveData struct {
	Shape primitive.Shape `json:"shape"`
}

func (PrimitiveData) objectData() {}

// MeshData tags an object whose mesh is free-form (imported or
// edited past its primitive origin).
type MeshData struct{}

func (MeshData) objectData() {}

// BooleanData tags a CSG node combining two operand objects, either
// of which may itself be a boolean (nesting evaluates bottom-up).
type BooleanData struct {
	A  uuid.UUID `json:"a"`
	B  uuid.UUID `json:"b"`
	Op csg.Op    `json:"op"`
}

func (BooleanData) objectData() {}

// AssemblyData tags a grouping object with no geometry of its own;
// its children hang off the parent relation in the registry.
type AssemblyData struct{}

func (AssemblyData) objectData() {}

// Object is one entry in the scene. All geometry access goes through
// the mutual-exclusion contract: Edit for writers, Triangles/Bounds
// for readers; a renderer never observes a mid-mutation state.
type Object struct {
	id   uuid.UUID
	data ObjectData

	mu       sync.RWMutex
	name     string
	visible  bool
	selected bool
	material Material
	parent   uuid.UUID // uuid.Nil = scene root
	m        *mesh.Mesh
	version  uint64

	// Double-buffered render view, rebuilt when version advances.
	snapshot        *mesh.TriangleMesh
	snapshotVersion uint64

	// Boolean evaluation cache plus the operand version stamps it was
	// computed at.
	cache       *mesh.Mesh
	cacheStampA uint64
	cacheStampB uint64
	cacheValid  bool
}

func newObject(name string, data ObjectData, m *mesh.Mesh) *Object {
	return &Object{
		id:       uuid.New(),
		data:     data,
		name:     name,
		visible:  true,
		material: DefaultMaterial(),
		m:        m,
		version:  1,
	}
}

// ID returns the object's immutable id.
func (o *Object) ID() uuid.UUID { return o.id }

// Data returns the object's kind variant.
func (o *Object) Data() ObjectData { return o.data }

// Name returns the display name.
func (o *Object) Name() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.name
}

// Visible reports display visibility.
func (o *Object) Visible() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.visible
}

// SetVisible toggles display visibility.
func (o *Object) SetVisible(v bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.visible = v
}

// Selected reports object-level selection.
func (o *Object) Selected() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.selected
}

// SetSelected toggles object-level selection.
func (o *Object) SetSelected(s bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.selected = s
}

// Material returns the display material.
func (o *Object) Material() Material {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.material
}

// SetMaterial replaces the display material.
func (o *Object) SetMaterial(m Material) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.material = m
}

// Parent returns the owning object's id, or uuid.Nil at the root.
func (o *Object) Parent() uuid.UUID {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.parent
}

// Version returns the monotonic edit counter. Every successful Edit
// bumps it; boolean caches compare against it.
func (o *Object) Version() uint64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.version
}

// Edit runs fn with exclusive access to the object's mesh. The
// version counter advances only when fn succeeds. Objects without a
// mesh of their own (booleans, assemblies) reject edits.
func (o *Object) Edit(fn func(*mesh.Mesh) error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.m == nil {
		return fmt.Errorf("scene: object %q has no editable mesh", o.name)
	}
	if err := fn(o.m); err != nil {
		return err
	}
	o.version++
	return nil
}

// Mesh returns the object's mesh for read access under the caller's
// own discipline (no concurrent Edit). Boolean and assembly objects
// return nil; use Evaluate for booleans.
func (o *Object) Mesh() *mesh.Mesh {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.m
}

// Triangles returns a render snapshot consistent with some completed
// edit, never a mid-mutation state. The snapshot is rebuilt at most
// once per version and shared between callers; treat it as read-only.
func (o *Object) Triangles() *mesh.TriangleMesh {
	o.mu.RLock()
	if o.snapshot != nil && o.snapshotVersion == o.version {
		t := o.snapshot
		o.mu.RUnlock()
		return t
	}
	o.mu.RUnlock()

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.snapshot == nil || o.snapshotVersion != o.version {
		src := o.m
		if src == nil && o.cacheValid {
			src = o.cache
		}
		if src == nil {
			o.snapshot = &mesh.TriangleMesh{Name: o.name}
		} else {
			o.snapshot = src.Triangles()
			o.snapshot.Name = o.name
		}
		o.snapshotVersion = o.version
	}
	return o.snapshot
}

// Bounds returns the object's axis-aligned bounding box: analytic for
// primitives, measured for meshes, the conservative union of operand
// bounds for an unevaluated boolean.
func (o *Object) Bounds(reg *Registry) (min, max mesh.Vec3) {
	switch d := o.data.(type) {
	case PrimitiveData:
		return d.Shape.Bounds()
	case BooleanData:
		o.mu.RLock()
		cached := o.cacheValid
		cm := o.cache
		o.mu.RUnlock()
		if cached {
			return cm.BoundingBox()
		}
		a, okA := reg.Get(d.A)
		b, okB := reg.Get(d.B)
		if !okA || !okB {
			return mesh.Vec3{}, mesh.Vec3{}
		}
		minA, maxA := a.Bounds(reg)
		minB, maxB := b.Bounds(reg)
		if d.Op == csg.OpIntersection {
			return minA.Max(minB), maxA.Min(minB)
		}
		if d.Op == csg.OpDifference {
			return minA, maxA
		}
		return minA.Min(minB), maxA.Max(maxB)
	default:
		o.mu.RLock()
		defer o.mu.RUnlock()
		if o.m == nil {
			return mesh.Vec3{}, mesh.Vec3{}
		}
		return o.m.BoundingBox()
	}
}
