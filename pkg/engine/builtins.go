package engine

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/burl/pkg/csg"
	"github.com/chazu/burl/pkg/mesh"
	"github.com/chazu/burl/pkg/meshio"
	"github.com/chazu/burl/pkg/ops"
	"github.com/chazu/burl/pkg/primitive"
	"github.com/chazu/burl/pkg/scene"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms burl Lisp source code before passing it to
// zygomys. It performs two transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//     This avoids the need to register keyword symbols as globals, which
//     would conflict with user-defined variables of the same name.
//
//  2. Kebab-case to underscore: merge-verts -> merge_verts
//     zygomys does not allow hyphens in identifiers (it interprets them
//     as the subtraction operator). This converts kebab-case identifiers
//     to underscore form outside of strings and comments.
//
// Both transformations respect string literal boundaries and line comments.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Convert ; line comments to // comments for zygomys.
		// zygomys uses // for line comments, not the traditional Lisp ;.
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			// Skip additional ; characters (;; style).
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Transform :keyword to "__kw_keyword".
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			// Check for keyword: colon followed by a letter.
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				kwName := string(b[i+1 : j])
				result = append(result, '"')
				result = append(result, []byte(kwPrefix)...)
				result = append(result, []byte(kwName)...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Transform kebab-case identifiers: merge-verts -> merge_verts.
		// Only when hyphen sits between identifier characters (not a minus operator).
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isIdentStartChar(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

func isIdentStartChar(c byte) bool {
	return isLetter(c)
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpVec3 wraps a mesh.Vec3 so it can be passed between builtins.
type sexpVec3 struct {
	vec mesh.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %.1f %.1f %.1f)", v.vec.X, v.vec.Y, v.vec.Z)
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// sexpObjectRef wraps a scene object name so shape builtins can be
// nested directly into operator calls.
type sexpObjectRef struct {
	name string
}

func (o *sexpObjectRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(object %q)", o.name)
}
func (o *sexpObjectRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// builtinFunc matches the callback shape env.AddFunction expects.
type builtinFunc = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt extracts an int from a SexpInt.
func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_loop) and plain strings ("loop").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toVec3 extracts a Vec3 from a sexpVec3.
func toVec3(s zygo.Sexp) (mesh.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mesh.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

// toObjectName accepts either a plain name string or an object
// reference returned by a shape builtin.
func toObjectName(s zygo.Sexp) (string, error) {
	switch v := s.(type) {
	case *sexpObjectRef:
		return v.name, nil
	case *zygo.SexpStr:
		return v.S, nil
	}
	return "", fmt.Errorf("expected object name, got %T (%s)", s, s.SexpString(nil))
}

// toIntSlice converts a SexpPair (Lisp list) or SexpArray to []int.
func toIntSlice(s zygo.Sexp) ([]int, error) {
	var items []zygo.Sexp
	switch v := s.(type) {
	case *zygo.SexpPair:
		var err error
		items, err = zygo.ListToArray(v)
		if err != nil {
			return nil, err
		}
	case *zygo.SexpArray:
		items = v.Val
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
		return nil, fmt.Errorf("expected list of integers, got %T", s)
	default:
		return nil, fmt.Errorf("expected list of integers, got %T", s)
	}
	out := make([]int, 0, len(items))
	for _, it := range items {
		n, err := toInt(it)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// lookupObject resolves a positional object argument against the registry.
func lookupObject(res *Result, form string, args []zygo.Sexp) (*scene.Object, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("%s requires an object name as first argument", form)
	}
	name, err := toObjectName(args[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", form, err)
	}
	obj, ok := res.Registry.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("%s: no object named %q", form, name)
	}
	return obj, nil
}

// kwFloat reads an optional float keyword argument.
func kwFloat(pa kwArgs, form, key string, def float64) (float64, error) {
	v, ok := pa.kw[key]
	if !ok {
		return def, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", form, key, err)
	}
	return f, nil
}

// kwInt reads an optional integer keyword argument.
func kwInt(pa kwArgs, form, key string, def int) (int, error) {
	v, ok := pa.kw[key]
	if !ok {
		return def, nil
	}
	n, err := toInt(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", form, key, err)
	}
	return n, nil
}

// registerBuiltins installs all burl DSL builtins into a zygomys
// environment. The builtins populate res.Registry during evaluation;
// exports accumulate into res.Exports.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens are converted to recognizable
// string literals.
func registerBuiltins(env *zygo.Zlisp, res *Result) {

	// addShape registers a primitive object and returns its reference.
	addShape := func(form, name string, shape primitive.Shape) (zygo.Sexp, error) {
		if _, err := res.Registry.AddPrimitive(name, shape); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", form, err)
		}
		return &sexpObjectRef{name: name}, nil
	}

	// -----------------------------------------------------------------------
	// (vec3 1 2 3)
	// -----------------------------------------------------------------------
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var v mesh.Vec3
		var err error
		if v.X, err = toFloat64(args[0]); err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: x: %w", err)
		}
		if v.Y, err = toFloat64(args[1]); err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: y: %w", err)
		}
		if v.Z, err = toFloat64(args[2]); err != nil {
			return zygo.SexpNull, fmt.Errorf("vec3: z: %w", err)
		}
		return &sexpVec3{vec: v}, nil
	})

	// -----------------------------------------------------------------------
	// (box "base" :min (vec3 0 0 0) :max (vec3 2 1 1))
	// Without corners: the unit cube centered at the origin.
	// -----------------------------------------------------------------------
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("box requires a name argument")
		}
		objName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("box: name: %w", err)
		}

		shape := primitive.UnitBox()
		if v, ok := pa.kw["min"]; ok {
			if shape.Min, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("box: min: %w", err)
			}
		}
		if v, ok := pa.kw["max"]; ok {
			if shape.Max, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("box: max: %w", err)
			}
		}
		return addShape("box", objName, shape)
	})

	// -----------------------------------------------------------------------
	// (cylinder "shaft" :radius 0.5 :height 2 :segments 32)
	// -----------------------------------------------------------------------
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("cylinder requires a name argument")
		}
		objName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: name: %w", err)
		}
		radius, err := kwFloat(pa, "cylinder", "radius", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		height, err := kwFloat(pa, "cylinder", "height", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		segments, err := kwInt(pa, "cylinder", "segments", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		return addShape("cylinder", objName, primitive.Cylinder(radius, height, segments))
	})

	// -----------------------------------------------------------------------
	// (sphere "ball" :radius 1 :segments 32)
	// -----------------------------------------------------------------------
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("sphere requires a name argument")
		}
		objName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: name: %w", err)
		}
		radius, err := kwFloat(pa, "sphere", "radius", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		segments, err := kwInt(pa, "sphere", "segments", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		return addShape("sphere", objName, primitive.Sphere(radius, segments))
	})

	// -----------------------------------------------------------------------
	// (cone "tip" :bottom-radius 1 :top-radius 0 :height 2 :segments 32)
	// -----------------------------------------------------------------------
	env.AddFunction("cone", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("cone requires a name argument")
		}
		objName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("cone: name: %w", err)
		}
		bottom, err := kwFloat(pa, "cone", "bottom-radius", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		top, err := kwFloat(pa, "cone", "top-radius", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		height, err := kwFloat(pa, "cone", "height", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		segments, err := kwInt(pa, "cone", "segments", 0)
		if err != nil {
			return zygo.SexpNull, err
		}
		return addShape("cone", objName, primitive.Cone(bottom, top, height, segments))
	})

	// -----------------------------------------------------------------------
	// (select-faces "base" 0 1 2) or (select-faces "base" :all true)
	// Replaces the object's face selection.
	// -----------------------------------------------------------------------
	env.AddFunction("select_faces", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		obj, err := lookupObject(res, "select-faces", pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}

		var ids []int
		for _, a := range pa.positional[1:] {
			id, err := toInt(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("select-faces: %w", err)
			}
			ids = append(ids, id)
		}
		_, all := pa.kw["all"]

		err = obj.Edit(func(m *mesh.Mesh) error {
			if all {
				m.SelectAll(mesh.SelectFaces)
				return nil
			}
			m.DeselectAll()
			for _, id := range ids {
				if err := m.SelectFace(id, true); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("select-faces: %w", err)
		}
		return &sexpObjectRef{name: obj.Name()}, nil
	})

	// -----------------------------------------------------------------------
	// (extrude "base" :direction (vec3 0 0 1) :distance 0.5 :faces (list 1 2))
	// Without :faces, extrudes the selected faces.
	// -----------------------------------------------------------------------
	env.AddFunction("extrude", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		obj, err := lookupObject(res, "extrude", pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		distance, err := kwFloat(pa, "extrude", "distance", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		direction := mesh.Vec3{Z: 1}
		if v, ok := pa.kw["direction"]; ok {
			if direction, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("extrude: direction: %w", err)
			}
		}
		var faces []int
		if v, ok := pa.kw["faces"]; ok {
			if faces, err = toIntSlice(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("extrude: faces: %w", err)
			}
		}

		err = obj.Edit(func(m *mesh.Mesh) error {
			target := faces
			if target == nil {
				target = m.SelectedFaces()
			}
			return ops.ExtrudeFaces(m, target, direction, distance)
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("extrude: %w", err)
		}
		return &sexpObjectRef{name: obj.Name()}, nil
	})

	// -----------------------------------------------------------------------
	// (inset "base" :amount 0.3 :faces (list 1))
	// Without :faces, insets the selected faces.
	// -----------------------------------------------------------------------
	env.AddFunction("inset", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		obj, err := lookupObject(res, "inset", pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		amount, err := kwFloat(pa, "inset", "amount", 0.25)
		if err != nil {
			return zygo.SexpNull, err
		}
		var faces []int
		if v, ok := pa.kw["faces"]; ok {
			if faces, err = toIntSlice(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("inset: faces: %w", err)
			}
		}

		err = obj.Edit(func(m *mesh.Mesh) error {
			target := faces
			if target == nil {
				target = m.SelectedFaces()
			}
			return ops.InsetFaces(m, target, amount)
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("inset: %w", err)
		}
		return &sexpObjectRef{name: obj.Name()}, nil
	})

	// -----------------------------------------------------------------------
	// (subdivide "base")                        splits every edge
	// (subdivide "base" :selected true)         splits selected edges
	// (subdivide "base" :scheme :catmull-clark :levels 2)
	// (subdivide "base" :scheme :loop)
	// -----------------------------------------------------------------------
	env.AddFunction("subdivide", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		obj, err := lookupObject(res, "subdivide", pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}

		err = obj.Edit(func(m *mesh.Mesh) error {
			if v, ok := pa.kw["scheme"]; ok {
				schemeName, err := toKeywordString(v)
				if err != nil {
					return fmt.Errorf("scheme: %w", err)
				}
				var scheme ops.Scheme
				switch schemeName {
				case "catmull-clark", "catmull_clark":
					scheme = ops.SchemeCatmullClark
				case "loop":
					scheme = ops.SchemeLoop
				default:
					return fmt.Errorf("unknown scheme %q", schemeName)
				}
				levels, err := kwInt(pa, "subdivide", "levels", 1)
				if err != nil {
					return err
				}
				return ops.Subdivide(context.Background(), m, levels, scheme)
			}
			if _, ok := pa.kw["selected"]; ok {
				return ops.SubdivideSelected(m)
			}
			ids := make([]int, 0, m.EdgeCount())
			for _, e := range m.Edges() {
				ids = append(ids, e.ID)
			}
			return ops.SubdivideEdges(m, ids)
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("subdivide: %w", err)
		}
		return &sexpObjectRef{name: obj.Name()}, nil
	})

	// -----------------------------------------------------------------------
	// (smooth "base" :iterations 3 :factor 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("smooth", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		obj, err := lookupObject(res, "smooth", pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		iterations, err := kwInt(pa, "smooth", "iterations", 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		factor, err := kwFloat(pa, "smooth", "factor", ops.DefaultSmoothFactor)
		if err != nil {
			return zygo.SexpNull, err
		}

		err = obj.Edit(func(m *mesh.Mesh) error {
			return ops.SmoothMesh(context.Background(), m, iterations, factor)
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("smooth: %w", err)
		}
		return &sexpObjectRef{name: obj.Name()}, nil
	})

	// -----------------------------------------------------------------------
	// (decimate "base" :ratio 0.5)
	// -----------------------------------------------------------------------
	env.AddFunction("decimate", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		obj, err := lookupObject(res, "decimate", pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		ratio, err := kwFloat(pa, "decimate", "ratio", 0.5)
		if err != nil {
			return zygo.SexpNull, err
		}

		err = obj.Edit(func(m *mesh.Mesh) error {
			return ops.DecimateMesh(context.Background(), m, ratio)
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("decimate: %w", err)
		}
		return &sexpObjectRef{name: obj.Name()}, nil
	})

	// -----------------------------------------------------------------------
	// (merge-verts "base" :tolerance 0.001)
	// Welds vertices closer together than the tolerance.
	// -----------------------------------------------------------------------
	env.AddFunction("merge_verts", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		obj, err := lookupObject(res, "merge-verts", pa.positional)
		if err != nil {
			return zygo.SexpNull, err
		}
		tol, err := kwFloat(pa, "merge-verts", "tolerance", mesh.DefaultWeldTolerance)
		if err != nil {
			return zygo.SexpNull, err
		}

		removed := 0
		err = obj.Edit(func(m *mesh.Mesh) error {
			removed = m.RemoveDuplicateVertices(tol)
			return nil
		})
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("merge-verts: %w", err)
		}
		return &zygo.SexpInt{Val: int64(removed)}, nil
	})

	// booleanForm registers a boolean scene object from two operand names.
	booleanForm := func(form string, op csg.Op) builtinFunc {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 3 {
				return zygo.SexpNull, fmt.Errorf("%s requires a result name and two operand names", form)
			}
			outName, err := toString(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: name: %w", form, err)
			}
			aName, err := toObjectName(args[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: operand a: %w", form, err)
			}
			bName, err := toObjectName(args[2])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: operand b: %w", form, err)
			}
			a, ok := res.Registry.Lookup(aName)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("%s: no object named %q", form, aName)
			}
			b, ok := res.Registry.Lookup(bName)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("%s: no object named %q", form, bName)
			}
			if _, err := res.Registry.AddBoolean(outName, a.ID(), b.ID(), op); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", form, err)
			}
			return &sexpObjectRef{name: outName}, nil
		}
	}

	// -----------------------------------------------------------------------
	// (union "out" "a" "b"), (difference "out" "a" "b"),
	// (intersection "out" "a" "b")
	// -----------------------------------------------------------------------
	env.AddFunction("union", booleanForm("union", csg.OpUnion))
	env.AddFunction("difference", booleanForm("difference", csg.OpDifference))
	env.AddFunction("intersection", booleanForm("intersection", csg.OpIntersection))

	// exportForm captures an object's geometry into res.Exports.
	exportForm := func(form, format string, write func(*bytes.Buffer, *mesh.Mesh, string) error) builtinFunc {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			obj, err := lookupObject(res, form, pa.positional)
			if err != nil {
				return zygo.SexpNull, err
			}
			if len(pa.positional) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires an output path", form)
			}
			path, err := toString(pa.positional[1])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: path: %w", form, err)
			}

			m, err := obj.Evaluate(context.Background(), res.Registry)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", form, err)
			}
			if m == nil {
				return zygo.SexpNull, fmt.Errorf("%s: object %q has no geometry", form, obj.Name())
			}

			var buf bytes.Buffer
			if err := write(&buf, m, obj.Name()); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", form, err)
			}
			res.Exports = append(res.Exports, Export{Path: path, Format: format, Data: buf.Bytes()})
			return &zygo.SexpStr{S: path}, nil
		}
	}

	// -----------------------------------------------------------------------
	// (export-obj "out" "part.obj")
	// (export-stl "out" "part.stl")          binary
	// (export-stl "out" "part.stl" :ascii true)
	// -----------------------------------------------------------------------
	env.AddFunction("export_obj", exportForm("export-obj", "obj",
		func(buf *bytes.Buffer, m *mesh.Mesh, name string) error {
			return meshio.ExportOBJ(buf, m, name)
		}))
	env.AddFunction("export_stl", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if _, ascii := pa.kw["ascii"]; ascii {
			return exportForm("export-stl", "stl-text",
				func(buf *bytes.Buffer, m *mesh.Mesh, name string) error {
					return meshio.ExportSTLText(buf, m, name)
				})(env, name, args)
		}
		return exportForm("export-stl", "stl",
			func(buf *bytes.Buffer, m *mesh.Mesh, name string) error {
				return meshio.ExportSTL(buf, m, name)
			})(env, name, args)
	})
}
