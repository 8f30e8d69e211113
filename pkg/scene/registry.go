package scene

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/chazu/burl/pkg/csg"
	"github.com/chazu/burl/pkg/mesh"
	"github.com/chazu/burl/pkg/primitive"
)

// Registry owns the scene's objects and their relations. Object names
// are unique within a registry; lookups work by name or id.
type Registry struct {
	mu      sync.RWMutex
	objects map[uuid.UUID]*Object
	names   map[string]uuid.UUID
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		objects: make(map[uuid.UUID]*Object),
		names:   make(map[string]uuid.UUID),
	}
}

// AddPrimitive generates the shape's mesh and registers it.
func (r *Registry) AddPrimitive(name string, shape primitive.Shape) (*Object, error) {
	m, err := shape.Mesh()
	if err != nil {
		return nil, err
	}
	return r.add(name, PrimitiveData{Shape: shape}, m)
}

// AddMesh registers a free-form mesh object. The registry takes
// ownership of the mesh; callers must not mutate it except through
// Object.Edit.
func (r *Registry) AddMesh(name string, m *mesh.Mesh) (*Object, error) {
	if m == nil {
		return nil, fmt.Errorf("scene: nil mesh for object %q", name)
	}
	return r.add(name, MeshData{}, m)
}

// AddBoolean registers a CSG node over two existing objects.
func (r *Registry) AddBoolean(name string, a, b uuid.UUID, op csg.Op) (*Object, error) {
	r.mu.RLock()
	_, okA := r.objects[a]
	_, okB := r.objects[b]
	r.mu.RUnlock()
	if !okA {
		return nil, fmt.Errorf("scene: boolean operand %s not in registry", a)
	}
	if !okB {
		return nil, fmt.Errorf("scene: boolean operand %s not in registry", b)
	}
	if a == b {
		return nil, fmt.Errorf("scene: boolean operands must differ")
	}
	return r.add(name, BooleanData{A: a, B: b, Op: op}, nil)
}

// AddAssembly registers an empty grouping object.
func (r *Registry) AddAssembly(name string) (*Object, error) {
	return r.add(name, AssemblyData{}, nil)
}

func (r *Registry) add(name string, data ObjectData, m *mesh.Mesh) (*Object, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.names[name]; exists {
		return nil, fmt.Errorf("scene: object name %q already in use", name)
	}
	o := newObject(name, data, m)
	r.objects[o.id] = o
	r.names[name] = o.id
	return o, nil
}

// Get returns the object with the given id.
func (r *Registry) Get(id uuid.UUID) (*Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.objects[id]
	return o, ok
}

// Lookup returns the object with the given name.
func (r *Registry) Lookup(name string) (*Object, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.names[name]
	if !ok {
		return nil, false
	}
	return r.objects[id], true
}

// Rename changes an object's display name, keeping uniqueness.
func (r *Registry) Rename(id uuid.UUID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.objects[id]
	if !ok {
		return fmt.Errorf("scene: unknown object %s", id)
	}
	if other, exists := r.names[name]; exists && other != id {
		return fmt.Errorf("scene: object name %q already in use", name)
	}
	o.mu.Lock()
	delete(r.names, o.name)
	o.name = name
	o.mu.Unlock()
	r.names[name] = id
	return nil
}

// Remove unlinks an object. Children are reparented to the root;
// handles other parties still hold stay alive (longest holder wins),
// they just stop resolving through the registry. Boolean nodes whose
// operand went away fail at their next evaluation, loudly.
func (r *Registry) Remove(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.objects[id]
	if !ok {
		return fmt.Errorf("scene: unknown object %s", id)
	}
	for _, child := range r.objects {
		child.mu.Lock()
		if child.parent == id {
			child.parent = uuid.Nil
		}
		child.mu.Unlock()
	}
	delete(r.names, o.Name())
	delete(r.objects, id)
	return nil
}

// SetParent attaches child under parent (uuid.Nil detaches to root).
// Rejects unknown ids and relations that would close a cycle.
func (r *Registry) SetParent(child, parent uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.objects[child]
	if !ok {
		return fmt.Errorf("scene: unknown object %s", child)
	}
	if parent != uuid.Nil {
		if _, ok := r.objects[parent]; !ok {
			return fmt.Errorf("scene: unknown parent %s", parent)
		}
		// Walk up from the would-be parent; hitting child means a cycle.
		for cur := parent; cur != uuid.Nil; {
			if cur == child {
				return fmt.Errorf("scene: parenting %s under %s would create a cycle", child, parent)
			}
			p, ok := r.objects[cur]
			if !ok {
				break
			}
			p.mu.RLock()
			cur = p.parent
			p.mu.RUnlock()
		}
	}
	c.mu.Lock()
	c.parent = parent
	c.mu.Unlock()
	return nil
}

// Children returns the ids of objects directly under parent, sorted
// for determinism.
func (r *Registry) Children(parent uuid.UUID) []uuid.UUID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []uuid.UUID
	for id, o := range r.objects {
		o.mu.RLock()
		p := o.parent
		o.mu.RUnlock()
		if p == parent {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Names returns every object name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.names))
	for n := range r.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Count returns the number of registered objects.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.objects)
}
