// Package tessellate rasterizes a scene registry into renderer-ready
// triangle meshes. One part is produced per visible object; boolean
// results stand in for their operands.
package tessellate

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/chazu/burl/pkg/mesh"
	"github.com/chazu/burl/pkg/scene"
)

// Part pairs one object's triangle snapshot with its display
// attributes.
type Part struct {
	Name      string             `json:"name"`
	Material  scene.Material     `json:"material"`
	Triangles *mesh.TriangleMesh `json:"triangles"`
}

// Tessellate walks the registry and produces one part per renderable
// object, in name order. Hidden objects and assemblies are skipped.
// Objects consumed as boolean operands are skipped too: the evaluated
// boolean represents them on screen. Boolean objects are evaluated
// first (filling their caches) so the snapshot is never empty.
//
// The registry is never mutated beyond cache refills; a failed boolean
// evaluation aborts the whole pass.
func Tessellate(ctx context.Context, reg *scene.Registry) ([]*Part, error) {
	if reg == nil {
		return nil, nil
	}

	consumed := operandIDs(reg)

	var parts []*Part
	for _, name := range reg.Names() {
		o, ok := reg.Lookup(name)
		if !ok {
			continue
		}
		if !o.Visible() {
			continue
		}
		if _, isAsm := o.Data().(scene.AssemblyData); isAsm {
			continue
		}
		if _, taken := consumed[o.ID()]; taken {
			continue
		}
		if _, isBool := o.Data().(scene.BooleanData); isBool {
			if _, err := o.Evaluate(ctx, reg); err != nil {
				return nil, fmt.Errorf("tessellate: evaluating %q: %w", name, err)
			}
		}
		parts = append(parts, &Part{
			Name:      o.Name(),
			Material:  o.Material(),
			Triangles: o.Triangles(),
		})
	}
	return parts, nil
}

// operandIDs collects every object id referenced as a boolean operand.
func operandIDs(reg *scene.Registry) map[uuid.UUID]struct{} {
	out := make(map[uuid.UUID]struct{})
	for _, name := range reg.Names() {
		o, ok := reg.Lookup(name)
		if !ok {
			continue
		}
		if d, isBool := o.Data().(scene.BooleanData); isBool {
			out[d.A] = struct{}{}
			out[d.B] = struct{}{}
		}
	}
	return out
}
