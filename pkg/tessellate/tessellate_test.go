package tessellate

import (
	"context"
	"testing"

	"github.com/chazu/burl/pkg/csg"
	"github.com/chazu/burl/pkg/mesh"
	"github.com/chazu/burl/pkg/primitive"
	"github.com/chazu/burl/pkg/scene"
)

func TestTessellateNilRegistry(t *testing.T) {
	parts, err := Tessellate(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parts != nil {
		t.Errorf("expected no parts, got %d", len(parts))
	}
}

func TestTessellateLeafObjects(t *testing.T) {
	reg := scene.NewRegistry()
	if _, err := reg.AddPrimitive("cube", primitive.UnitBox()); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.AddPrimitive("ball", primitive.Sphere(1, 8)); err != nil {
		t.Fatal(err)
	}

	parts, err := Tessellate(context.Background(), reg)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(parts) != 2 {
		t.Fatalf("parts = %d, want 2", len(parts))
	}
	// Name order.
	if parts[0].Name != "ball" || parts[1].Name != "cube" {
		t.Errorf("order = %s, %s", parts[0].Name, parts[1].Name)
	}
	if parts[1].Triangles.TriangleCount() != 12 {
		t.Errorf("cube triangles = %d, want 12", parts[1].Triangles.TriangleCount())
	}
	if parts[0].Material.Name != "Default" {
		t.Errorf("material = %q, want Default", parts[0].Material.Name)
	}
}

func TestTessellateSkipsHidden(t *testing.T) {
	reg := scene.NewRegistry()
	o, err := reg.AddPrimitive("cube", primitive.UnitBox())
	if err != nil {
		t.Fatal(err)
	}
	o.SetVisible(false)

	parts, err := Tessellate(context.Background(), reg)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(parts) != 0 {
		t.Errorf("hidden object produced %d parts", len(parts))
	}
}

func TestTessellateSkipsAssemblies(t *testing.T) {
	reg := scene.NewRegistry()
	if _, err := reg.AddAssembly("group"); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.AddPrimitive("cube", primitive.UnitBox()); err != nil {
		t.Fatal(err)
	}

	parts, err := Tessellate(context.Background(), reg)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(parts) != 1 || parts[0].Name != "cube" {
		t.Errorf("parts = %v, want just the cube", names(parts))
	}
}

func TestTessellateBooleanReplacesOperands(t *testing.T) {
	reg := scene.NewRegistry()
	a, err := reg.AddPrimitive("a", primitive.UnitBox())
	if err != nil {
		t.Fatal(err)
	}
	b, err := reg.AddPrimitive("b", primitive.Box(
		mesh.Vec3{X: 0, Y: -0.5, Z: -0.5}, mesh.Vec3{X: 1, Y: 0.5, Z: 0.5}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.AddBoolean("diff", a.ID(), b.ID(), csg.OpDifference); err != nil {
		t.Fatal(err)
	}

	parts, err := Tessellate(context.Background(), reg)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(parts) != 1 || parts[0].Name != "diff" {
		t.Fatalf("parts = %v, want just the boolean", names(parts))
	}
	if parts[0].Triangles.IsEmpty() {
		t.Error("boolean part has no geometry")
	}
}

func TestTessellateHiddenBooleanOperandsStayHidden(t *testing.T) {
	reg := scene.NewRegistry()
	a, err := reg.AddPrimitive("a", primitive.UnitBox())
	if err != nil {
		t.Fatal(err)
	}
	b, err := reg.AddPrimitive("b", primitive.Box(
		mesh.Vec3{X: 0, Y: -0.5, Z: -0.5}, mesh.Vec3{X: 1, Y: 0.5, Z: 0.5}))
	if err != nil {
		t.Fatal(err)
	}
	bo, err := reg.AddBoolean("diff", a.ID(), b.ID(), csg.OpDifference)
	if err != nil {
		t.Fatal(err)
	}
	bo.SetVisible(false)

	// Hiding the boolean does not resurrect its operands.
	parts, err := Tessellate(context.Background(), reg)
	if err != nil {
		t.Fatalf("Tessellate failed: %v", err)
	}
	if len(parts) != 0 {
		t.Errorf("parts = %v, want none", names(parts))
	}
}

func TestTessellateBooleanFailurePropagates(t *testing.T) {
	reg := scene.NewRegistry()
	a, err := reg.AddPrimitive("a", primitive.UnitBox())
	if err != nil {
		t.Fatal(err)
	}
	b, err := reg.AddPrimitive("b", primitive.Box(
		mesh.Vec3{X: 2, Y: 2, Z: 2}, mesh.Vec3{X: 3, Y: 3, Z: 3}))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := reg.AddBoolean("diff", a.ID(), b.ID(), csg.OpDifference); err != nil {
		t.Fatal(err)
	}
	if err := reg.Remove(a.ID()); err != nil {
		t.Fatal(err)
	}

	if _, err := Tessellate(context.Background(), reg); err == nil {
		t.Error("expected an error for the dangling operand")
	}
}

func names(parts []*Part) []string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.Name
	}
	return out
}
