package scene

import (
	"context"
	"fmt"

	"github.com/chazu/burl/pkg/csg"
	"github.com/chazu/burl/pkg/mesh"
)

// effectiveVersion folds the versions of an object and everything it
// depends on into one stamp. For leaf objects it is just the edit
// counter; for booleans it also moves whenever either operand (or an
// operand's operand, all the way down) moves, so a cache stamped with
// it goes stale exactly when the evaluated result would change.
func (o *Object) effectiveVersion(reg *Registry) uint64 {
	d, ok := o.data.(BooleanData)
	if !ok {
		return o.Version()
	}
	v := o.Version()
	if a, found := reg.Get(d.A); found {
		v += a.effectiveVersion(reg)
	}
	if b, found := reg.Get(d.B); found {
		v += b.effectiveVersion(reg)
	}
	return v
}

// Evaluate returns the object's concrete mesh. Leaf objects return
// their own mesh; boolean objects rasterize their operands bottom-up,
// run the CSG pass and cache the result against the operands'
// effective versions, so repeated evaluation of an unchanged tree is
// free. The returned mesh is owned by the object; callers wanting to
// mutate it must Clone.
func (o *Object) Evaluate(ctx context.Context, reg *Registry) (*mesh.Mesh, error) {
	d, ok := o.data.(BooleanData)
	if !ok {
		if _, isAsm := o.data.(AssemblyData); isAsm {
			return nil, fmt.Errorf("scene: assembly %q has no geometry to evaluate", o.Name())
		}
		return o.Mesh(), nil
	}

	a, found := reg.Get(d.A)
	if !found {
		return nil, fmt.Errorf("scene: boolean %q references missing operand %s", o.Name(), d.A)
	}
	b, found := reg.Get(d.B)
	if !found {
		return nil, fmt.Errorf("scene: boolean %q references missing operand %s", o.Name(), d.B)
	}

	// Stamps are computed outside o.mu: they walk the registry and
	// operand locks, and nesting those under our own lock invites
	// ordering trouble.
	curA := a.effectiveVersion(reg)
	curB := b.effectiveVersion(reg)
	o.mu.RLock()
	if o.cacheValid && o.cacheStampA == curA && o.cacheStampB == curB {
		m := o.cache
		o.mu.RUnlock()
		return m, nil
	}
	o.mu.RUnlock()

	ma, err := a.Evaluate(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("scene: evaluating operand %q: %w", a.Name(), err)
	}
	mb, err := b.Evaluate(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("scene: evaluating operand %q: %w", b.Name(), err)
	}

	// Stamps are taken after operand evaluation: evaluating a nested
	// boolean operand advances its version when its own cache refills,
	// and the stamp must reflect that settled state.
	stampA := a.effectiveVersion(reg)
	stampB := b.effectiveVersion(reg)

	result, err := csg.Evaluate(ctx, d.Op, ma, mb)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.cache = result
	o.cacheStampA = stampA
	o.cacheStampB = stampB
	o.cacheValid = true
	o.version++
	o.mu.Unlock()
	return result, nil
}

// InvalidateCache drops a boolean object's evaluated mesh, forcing the
// next Evaluate to recompute. No-op for leaf objects.
func (o *Object) InvalidateCache() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.cache = nil
	o.cacheValid = false
}

// CacheValid reports whether the boolean's evaluated mesh is current
// with respect to its operands' effective versions.
func (o *Object) CacheValid(reg *Registry) bool {
	d, ok := o.data.(BooleanData)
	if !ok {
		return false
	}
	a, foundA := reg.Get(d.A)
	b, foundB := reg.Get(d.B)
	if !foundA || !foundB {
		return false
	}
	stampA := a.effectiveVersion(reg)
	stampB := b.effectiveVersion(reg)
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.cacheValid && o.cacheStampA == stampA && o.cacheStampB == stampB
}
